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

package fixture

import (
	"github.com/cerc-io/xcm-emulator/pkg/genesis"
	"github.com/cerc-io/xcm-emulator/pkg/network"
	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

const (
	Para2000 types.ParaId = 2000
	Para3000 types.ParaId = 3000

	// UNITS is one whole token in base units.
	UNITS = types.UnitsPerToken

	// TransferAsset is the asset class moved between the parachains.
	TransferAsset types.AssetId = 0
	// WeightLimit is the execution budget bought on the destination of a transfer.
	WeightLimit uint64 = 399_600_000_000
)

// Well-known test accounts.
var (
	A = types.AccountId{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4}
	B = types.AccountId{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}
	C = types.AccountId{6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6}
	D = types.AccountId{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}
)

// HostConfiguration is the relay chain host configuration used by the network.
func HostConfiguration() types.HostConfig {
	return types.HostConfig{
		MinimumValidationUpgradeDelay: 5,
		ValidationUpgradeCooldown:     5,
		ValidationUpgradeDelay:        5,
		CodeRetentionPeriod:           1200,
		MaxCodeSize:                   types.MaxCodeSize,
		MaxPoVSize:                    types.MaxPoVSize,
		MaxHeadDataSize:               32 * 1024,
		GroupRotationFrequency:        20,
		ChainAvailabilityPeriod:       4,
		ThreadAvailabilityPeriod:      4,

		MaxUpwardQueueCount:               8,
		MaxUpwardQueueSize:                1024 * 1024,
		MaxDownwardMessageSize:            1024,
		UmpServiceTotalWeight:             4 * xcm.UnitWeightCost,
		MaxUpwardMessageSize:              50 * 1024,
		MaxUpwardMessageNumPerCandidate:   5,
		HrmpSenderDeposit:                 0,
		HrmpRecipientDeposit:              0,
		HrmpChannelMaxCapacity:            8,
		HrmpChannelMaxTotalSize:           8 * 1024,
		HrmpMaxParachainInboundChannels:   4,
		HrmpMaxParathreadInboundChannels:  4,
		HrmpChannelMaxMessageSize:         1024 * 1024,
		HrmpMaxParachainOutboundChannels:  4,
		HrmpMaxParathreadOutboundChannels: 4,
		HrmpMaxMessageNumPerCandidate:     5,

		DisputePeriod:           6,
		NoShowSlots:             2,
		NDelayTranches:          25,
		ZerothDelayTrancheWidth: 0,
		NeededApprovals:         2,
		RelayVrfModuloSamples:   2,
	}
}

// Units returns n whole tokens.
func Units(n uint64) *types.Balance { return types.Units(n) }

// RelayGenesis funds A and the sovereign account of para 2000.
func RelayGenesis() *genesis.Spec {
	cfg := HostConfiguration()
	return &genesis.Spec{
		Name: "relay",
		Balances: []runtime.BalanceGenesis{
			{Who: A, Amount: Units(2002)},
			{Who: xcm.ParaSovereignAccount(Para2000), Amount: Units(10)},
		},
		SafeXcmVersion: genesis.VersionOf(xcm.Version),
		HostConfig:     &cfg,
	}
}

func testAsset() ([]runtime.AssetGenesis, []runtime.MetadataGenesis) {
	return []runtime.AssetGenesis{{ID: TransferAsset, Owner: A, IsSufficient: true, MinBalance: Units(1)}},
		[]runtime.MetadataGenesis{{ID: TransferAsset, Symbol: "TEST", Name: "TestCoin", Decimals: 3}}
}

// Para2000Genesis funds A, B, C and D and gives A 10 UNITS of the test asset.
func Para2000Genesis() *genesis.Spec {
	assets, metadata := testAsset()
	return &genesis.Spec{
		Name: "para2000",
		Balances: []runtime.BalanceGenesis{
			{Who: A, Amount: Units(200)},
			{Who: B, Amount: Units(1000)},
			{Who: C, Amount: Units(1000)},
			{Who: D, Amount: Units(1000)},
		},
		Assets:         assets,
		Metadata:       metadata,
		AssetAccounts:  []runtime.AssetAccountGenesis{{ID: TransferAsset, Who: A, Amount: Units(10)}},
		ParaID:         genesis.ParaIDOf(Para2000),
		SafeXcmVersion: genesis.VersionOf(xcm.Version),
	}
}

// Para3000Genesis funds A and gives it 2000 UNITS of the test asset.
func Para3000Genesis() *genesis.Spec {
	assets, metadata := testAsset()
	return &genesis.Spec{
		Name:           "para3000",
		Balances:       []runtime.BalanceGenesis{{Who: A, Amount: Units(200)}},
		Assets:         assets,
		Metadata:       metadata,
		AssetAccounts:  []runtime.AssetAccountGenesis{{ID: TransferAsset, Who: A, Amount: Units(2000)}},
		ParaID:         genesis.ParaIDOf(Para3000),
		SafeXcmVersion: genesis.VersionOf(xcm.Version),
	}
}

// NewTestNet wires the relay chain and parachains 2000 and 3000.
func NewTestNet() (*network.TestNet, error) {
	return network.New(
		network.ChainDecl{Genesis: RelayGenesis()},
		network.ParaDecl{ID: Para2000, ChainDecl: network.ChainDecl{Genesis: Para2000Genesis()}},
		network.ParaDecl{ID: Para3000, ChainDecl: network.ChainDecl{Genesis: Para3000Genesis()}},
	)
}

// AccountLocation addresses account who on the chain interpreting the location.
func AccountLocation(who types.AccountId) types.MultiLocation {
	return runtime.AccountLocation(who)
}

// SiblingLocation addresses parachain id from another parachain.
func SiblingLocation(id types.ParaId) types.MultiLocation {
	return types.NewMultiLocation(1, types.Parachain(id))
}
