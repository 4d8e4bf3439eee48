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

package runtime

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

const (
	PalletSystem        = "System"
	PalletParachainInfo = "ParachainInfo"
	PalletBalances      = "Balances"
	PalletXcmpQueue     = "XcmpQueue"
	PalletDmpQueue      = "DmpQueue"
	PalletUmp           = "Ump"
	PalletPolkadotXcm   = "PolkadotXcm"
	PalletAssets        = "Assets"
	PalletConfiguration = "Configuration"
	PalletParachainSys  = "ParachainSystem"
)

// Pallet indices within the emulated runtimes.
const (
	SystemIndex        uint8 = 0
	ParachainInfoIndex uint8 = 2
	BalancesIndex      uint8 = 10
	XcmpQueueIndex     uint8 = 30
	PolkadotXcmIndex   uint8 = 31
	AssetsIndex        uint8 = 50
)

// Balances

type Transfer struct {
	From   types.AccountId
	To     types.AccountId
	Amount types.Balance
}

type Deposit struct {
	Who    types.AccountId
	Amount types.Balance
}

type Withdraw struct {
	Who    types.AccountId
	Amount types.Balance
}

func (Transfer) Pallet() string { return PalletBalances }
func (Transfer) Name() string   { return "Transfer" }
func (Deposit) Pallet() string  { return PalletBalances }
func (Deposit) Name() string    { return "Deposit" }
func (Withdraw) Pallet() string { return PalletBalances }
func (Withdraw) Name() string   { return "Withdraw" }

// Assets

type Issued struct {
	AssetID types.AssetId
	Owner   types.AccountId
	Amount  types.Balance
}

type Burned struct {
	AssetID types.AssetId
	Owner   types.AccountId
	Balance types.Balance
}

type Transferred struct {
	AssetID types.AssetId
	From    types.AccountId
	To      types.AccountId
	Amount  types.Balance
}

func (Issued) Pallet() string      { return PalletAssets }
func (Issued) Name() string        { return "Issued" }
func (Burned) Pallet() string      { return PalletAssets }
func (Burned) Name() string        { return "Burned" }
func (Transferred) Pallet() string { return PalletAssets }
func (Transferred) Name() string   { return "Transferred" }

// PolkadotXcm

type Attempted struct {
	Outcome xcm.Outcome
}

type Sent struct {
	Origin      types.MultiLocation
	Destination types.MultiLocation
	Message     common.Hash
}

type AssetsTrapped struct {
	Hash   common.Hash
	Origin types.MultiLocation
	Assets types.VersionedMultiAssets
}

type AssetsClaimed struct {
	Hash   common.Hash
	Origin types.MultiLocation
	Assets types.VersionedMultiAssets
}

func (Attempted) Pallet() string     { return PalletPolkadotXcm }
func (Attempted) Name() string       { return "Attempted" }
func (Sent) Pallet() string          { return PalletPolkadotXcm }
func (Sent) Name() string            { return "Sent" }
func (AssetsTrapped) Pallet() string { return PalletPolkadotXcm }
func (AssetsTrapped) Name() string   { return "AssetsTrapped" }
func (AssetsClaimed) Pallet() string { return PalletPolkadotXcm }
func (AssetsClaimed) Name() string   { return "AssetsClaimed" }

// Message queues

type Success struct {
	Hash   common.Hash
	Weight uint64
}

type Fail struct {
	Hash   common.Hash
	Error  xcm.Error
	Weight uint64
}

type XcmpMessageSent struct {
	Hash common.Hash
}

type UpwardMessageSent struct {
	Hash common.Hash
}

type ExecutedDownward struct {
	Hash    common.Hash
	Outcome xcm.Outcome
}

type ExecutedUpward struct {
	Hash    common.Hash
	Outcome xcm.Outcome
}

func (Success) Pallet() string           { return PalletXcmpQueue }
func (Success) Name() string             { return "Success" }
func (Fail) Pallet() string              { return PalletXcmpQueue }
func (Fail) Name() string                { return "Fail" }
func (XcmpMessageSent) Pallet() string   { return PalletXcmpQueue }
func (XcmpMessageSent) Name() string     { return "XcmpMessageSent" }
func (UpwardMessageSent) Pallet() string { return PalletParachainSys }
func (UpwardMessageSent) Name() string   { return "UpwardMessageSent" }
func (ExecutedDownward) Pallet() string  { return PalletDmpQueue }
func (ExecutedDownward) Name() string    { return "ExecutedDownward" }
func (ExecutedUpward) Pallet() string    { return PalletUmp }
func (ExecutedUpward) Name() string      { return "ExecutedUpward" }
