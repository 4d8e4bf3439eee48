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

package types

import "fmt"

// MessageKind is the transport a NetworkMessage travels on.
type MessageKind uint8

const (
	Upward MessageKind = iota
	Downward
	Horizontal
)

func (k MessageKind) String() string {
	switch k {
	case Upward:
		return "upward"
	case Downward:
		return "downward"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// NetworkMessage is one message in flight between chains. Source is ignored for downward
// messages and Dest is ignored for upward messages; both refer to the relay chain.
type NetworkMessage struct {
	Kind    MessageKind
	Source  ParaId
	Dest    ParaId
	Payload []byte
}

func (m NetworkMessage) String() string {
	switch m.Kind {
	case Upward:
		return fmt.Sprintf("%s %d->relay (%d bytes)", m.Kind, m.Source, len(m.Payload))
	case Downward:
		return fmt.Sprintf("%s relay->%d (%d bytes)", m.Kind, m.Dest, len(m.Payload))
	default:
		return fmt.Sprintf("%s %d->%d (%d bytes)", m.Kind, m.Source, m.Dest, len(m.Payload))
	}
}

// Event is a structured record emitted by a runtime pallet.
type Event interface {
	Pallet() string
	Name() string
}
