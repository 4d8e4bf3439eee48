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
	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/blake2b"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// DetermineHash identifies a set of trapped assets: the 256-bit BLAKE2 hash of the origin's
// encoding concatenated with the encoding of the versioned assets. The assets are sorted and
// merged first, so any spelling of the same set hashes alike. A set whose merged amounts
// overflow cannot be held, and is hashed as given.
func DetermineHash(origin types.MultiLocation, assets types.MultiAssets) common.Hash {
	if norm, err := types.NormalizeMultiAssets(assets...); err == nil {
		assets = norm
	}
	buf := append(origin.Bytes(), encodeVersioned(assets)...)
	return blake2b.Sum256(buf)
}

// MessageHash identifies an encoded program.
func MessageHash(payload []byte) common.Hash {
	return blake2b.Sum256(payload)
}

func encodeVersioned(assets types.MultiAssets) []byte {
	enc, err := rlpEncode(types.Versioned(assets))
	if err != nil {
		panic(err)
	}
	return enc
}
