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

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// UnitsPerToken is the number of base units in one whole token.
const UnitsPerToken uint64 = 1_000_000_000_000

// AccountId is an opaque 32 byte account identifier.
type AccountId [32]byte

func (a AccountId) String() string { return hexutil.Encode(a[:]) }

// Balance is a non-negative amount of base units. Arithmetic on balances must go through the
// checked helpers below so that no observable balance ever wraps below zero.
type Balance = uint256.Int

// ParaId names a parachain.
type ParaId uint32

// AssetId names a fungible asset inside a parachain asset registry.
type AssetId uint32

// NewBalance returns a balance of v base units.
func NewBalance(v uint64) *Balance { return uint256.NewInt(v) }

// Units returns n whole tokens expressed in base units.
func Units(n uint64) *Balance {
	return new(Balance).Mul(uint256.NewInt(n), uint256.NewInt(UnitsPerToken))
}

// CheckedSub returns a-b, or false if b > a.
func CheckedSub(a, b *Balance) (*Balance, bool) {
	res, underflow := new(Balance).SubOverflow(a, b)
	if underflow {
		return nil, false
	}
	return res, true
}

// CheckedAdd returns a+b, or false on overflow.
func CheckedAdd(a, b *Balance) (*Balance, bool) {
	res, overflow := new(Balance).AddOverflow(a, b)
	if overflow {
		return nil, false
	}
	return res, true
}

// FormatBalance renders a balance in whole tokens with the remainder in base units.
func FormatBalance(b *Balance) string {
	if b == nil {
		return "<nil>"
	}
	units := uint256.NewInt(UnitsPerToken)
	whole := new(Balance).Div(b, units)
	rem := new(Balance).Mod(b, units)
	if rem.IsZero() {
		return fmt.Sprintf("%s UNITS", whole.ToBig().String())
	}
	return fmt.Sprintf("%s UNITS + %s", whole.ToBig().String(), rem.ToBig().String())
}
