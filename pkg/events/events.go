// Copyright © 2023 Vulcanize, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package events inspects the event log of an emulated chain.
package events

import (
	"fmt"
	"reflect"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// Source is anything exposing an event log, oldest first.
type Source interface {
	Events() []types.Event
}

// Last returns up to n of the most recent events of src, oldest first.
func Last(src Source, n int) []types.Event {
	all := src.Events()
	if n <= 0 {
		return nil
	}
	if n > len(all) {
		n = len(all)
	}
	out := make([]types.Event, n)
	copy(out, all[len(all)-n:])
	return out
}

// Expect checks that the tail of the event log equals want, compared structurally.
func Expect(src Source, want ...types.Event) error {
	got := Last(src, len(want))
	if len(got) != len(want) {
		return fmt.Errorf("expected %d events, chain has %d", len(want), len(got))
	}
	for i := range want {
		if !reflect.DeepEqual(want[i], got[i]) {
			return fmt.Errorf("event %d: expected %s.%s %+v, got %s.%s %+v",
				i, want[i].Pallet(), want[i].Name(), want[i], got[i].Pallet(), got[i].Name(), got[i])
		}
	}
	return nil
}

// Filter returns the events of src whose type matches T's, oldest first.
func Filter[T types.Event](src Source) []T {
	var out []T
	for _, ev := range src.Events() {
		if t, ok := ev.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Contains reports whether src emitted an event structurally equal to want.
func Contains(src Source, want types.Event) bool {
	for _, ev := range src.Events() {
		if reflect.DeepEqual(ev, want) {
			return true
		}
	}
	return false
}
