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
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// Version is the XCM version this emulator speaks.
const Version uint32 = 2

// Opcode selects an XCM instruction.
type Opcode uint8

const (
	OpWithdrawAsset Opcode = iota
	OpReserveAssetDeposited
	OpClearOrigin
	OpBuyExecution
	OpDepositAsset
	OpDepositReserveAsset
	OpClaimAsset
)

var opcodeNames = map[Opcode]string{
	OpWithdrawAsset:         "WithdrawAsset",
	OpReserveAssetDeposited: "ReserveAssetDeposited",
	OpClearOrigin:           "ClearOrigin",
	OpBuyExecution:          "BuyExecution",
	OpDepositAsset:          "DepositAsset",
	OpDepositReserveAsset:   "DepositReserveAsset",
	OpClaimAsset:            "ClaimAsset",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// Instruction is one step of an XCM program. Which operands are meaningful depends on Op:
//
//	WithdrawAsset          Assets
//	ReserveAssetDeposited  Assets
//	ClearOrigin            -
//	BuyExecution           Fees, WeightLimit
//	DepositAsset           MaxAssets, Location (beneficiary)
//	DepositReserveAsset    MaxAssets, Location (destination), Xcm (program run at destination)
//	ClaimAsset             Assets, Location (ticket)
type Instruction struct {
	Op          Opcode
	Assets      types.MultiAssets
	Location    types.MultiLocation
	Fees        types.MultiAsset
	WeightLimit types.WeightLimit
	MaxAssets   uint32
	Xcm         []byte
}

func WithdrawAsset(assets types.MultiAssets) Instruction {
	return Instruction{Op: OpWithdrawAsset, Assets: assets}
}

func ReserveAssetDeposited(assets types.MultiAssets) Instruction {
	return Instruction{Op: OpReserveAssetDeposited, Assets: assets}
}

func ClearOrigin() Instruction {
	return Instruction{Op: OpClearOrigin}
}

func BuyExecution(fees types.MultiAsset, limit types.WeightLimit) Instruction {
	return Instruction{Op: OpBuyExecution, Fees: fees, WeightLimit: limit}
}

func DepositAsset(maxAssets uint32, beneficiary types.MultiLocation) Instruction {
	return Instruction{Op: OpDepositAsset, MaxAssets: maxAssets, Location: beneficiary}
}

func DepositReserveAsset(maxAssets uint32, dest types.MultiLocation, xcm Xcm) Instruction {
	return Instruction{Op: OpDepositReserveAsset, MaxAssets: maxAssets, Location: dest, Xcm: xcm.mustEncode()}
}

func ClaimAsset(assets types.MultiAssets, ticket types.MultiLocation) Instruction {
	return Instruction{Op: OpClaimAsset, Assets: assets, Location: ticket}
}

// Inner decodes the program carried by a DepositReserveAsset instruction.
func (i Instruction) Inner() (Xcm, error) {
	if len(i.Xcm) == 0 {
		return nil, nil
	}
	return Decode(i.Xcm)
}

func (i Instruction) String() string {
	switch i.Op {
	case OpWithdrawAsset, OpReserveAssetDeposited:
		return fmt.Sprintf("%s(%v)", i.Op, i.Assets)
	case OpBuyExecution:
		return fmt.Sprintf("%s(%s, %s)", i.Op, i.Fees, i.WeightLimit)
	case OpDepositAsset, OpDepositReserveAsset:
		return fmt.Sprintf("%s(%d, %s)", i.Op, i.MaxAssets, i.Location)
	case OpClaimAsset:
		return fmt.Sprintf("%s(%v, %s)", i.Op, i.Assets, i.Location)
	default:
		return i.Op.String()
	}
}

// Xcm is an XCM program.
type Xcm []Instruction

type versionedXcm struct {
	Version      uint32
	Instructions []Instruction
}

// Encode returns the versioned wire encoding of the program.
func (x Xcm) Encode() ([]byte, error) {
	return rlp.EncodeToBytes(versionedXcm{Version: Version, Instructions: x})
}

func rlpEncode(v interface{}) ([]byte, error) { return rlp.EncodeToBytes(v) }

func (x Xcm) mustEncode() []byte {
	enc, err := x.Encode()
	if err != nil {
		panic(err)
	}
	return enc
}

// Decode parses a versioned program, rejecting versions other than Version.
func Decode(raw []byte) (Xcm, error) {
	var v versionedXcm
	if err := rlp.DecodeBytes(raw, &v); err != nil {
		return nil, fmt.Errorf("decoding xcm: %w", err)
	}
	if v.Version != Version {
		return nil, fmt.Errorf("unsupported xcm version %d", v.Version)
	}
	if len(v.Instructions) == 0 {
		return nil, nil
	}
	for i, inst := range v.Instructions {
		if _, ok := opcodeNames[inst.Op]; !ok {
			return nil, fmt.Errorf("unknown xcm opcode %d", inst.Op)
		}
		if len(inst.Xcm) == 0 {
			v.Instructions[i].Xcm = nil
		}
	}
	return v.Instructions, nil
}

// Weight is the weight of executing the top-level instructions of the program.
func (x Xcm) Weight(unit uint64) uint64 {
	return uint64(len(x)) * unit
}
