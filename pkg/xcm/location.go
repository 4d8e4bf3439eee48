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

package xcm

import (
	"encoding/binary"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

var (
	paraPrefix    = []byte("para")
	siblingPrefix = []byte("sibl")
)

// Context is the position of a chain within the network, written as its interior location
// relative to the relay chain.
type Context struct {
	Interior types.Junctions
}

// RelayContext is the context of the relay chain.
func RelayContext() Context { return Context{} }

// ParaContext is the context of the parachain id.
func ParaContext(id types.ParaId) Context {
	return Context{Interior: types.Junctions{types.Parachain(id)}}
}

func (c Context) absolute(loc types.MultiLocation) (types.Junctions, error) {
	if int(loc.Parents) > len(c.Interior) {
		return nil, ErrLocationNotInvertible
	}
	base := c.Interior[:len(c.Interior)-int(loc.Parents)]
	abs := make(types.Junctions, 0, len(base)+len(loc.Interior))
	abs = append(abs, base...)
	return append(abs, loc.Interior...), nil
}

// Reanchor re-expresses loc, relative to this chain, as seen from target.
func (c Context) Reanchor(loc, target types.MultiLocation) (types.MultiLocation, error) {
	abs, err := c.absolute(loc)
	if err != nil {
		return types.MultiLocation{}, err
	}
	dest, err := c.absolute(target)
	if err != nil {
		return types.MultiLocation{}, err
	}
	shared := 0
	for shared < len(abs) && shared < len(dest) && abs[shared] == dest[shared] {
		shared++
	}
	return types.NewMultiLocation(uint8(len(dest)-shared), abs[shared:]...), nil
}

// ReanchorAssets re-expresses the ids of assets as seen from target.
func (c Context) ReanchorAssets(assets types.MultiAssets, target types.MultiLocation) (types.MultiAssets, error) {
	out := make([]types.MultiAsset, len(assets))
	for i, a := range assets {
		id, err := c.Reanchor(a.ID, target)
		if err != nil {
			return nil, err
		}
		out[i] = types.NewMultiAsset(id, &a.Amount)
	}
	return types.NormalizeMultiAssets(out...)
}

// ParaSovereignAccount is the account on the relay chain controlled by parachain id.
func ParaSovereignAccount(id types.ParaId) types.AccountId {
	return sovereign(paraPrefix, id)
}

// SiblingSovereignAccount is the account on a parachain controlled by its sibling id.
func SiblingSovereignAccount(id types.ParaId) types.AccountId {
	return sovereign(siblingPrefix, id)
}

func sovereign(prefix []byte, id types.ParaId) types.AccountId {
	var acc types.AccountId
	copy(acc[:], prefix)
	binary.LittleEndian.PutUint32(acc[len(prefix):], uint32(id))
	return acc
}
