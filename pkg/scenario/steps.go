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

package scenario

import (
	"errors"

	"github.com/cerc-io/xcm-emulator/fixture"
	"github.com/cerc-io/xcm-emulator/pkg/events"
	"github.com/cerc-io/xcm-emulator/pkg/network"
	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// UnknownPara is a para id no chain of the network is registered under.
const UnknownPara types.ParaId = 9999

// TransferAssets is the asset set moved by a transfer of amount of the test asset.
func TransferAssets(amount *types.Balance) types.MultiAssets {
	return types.NewMultiAssets(types.NewMultiAsset(runtime.LocalAssetLocation(fixture.TransferAsset), amount))
}

// Transfer dispatches, on chain c, a limited reserve transfer of amount of the test asset from A
// to B on parachain dest.
func Transfer(c *network.Chain, dest types.ParaId, amount *types.Balance) error {
	node := c.Node()
	if node == nil {
		return types.Assertf("transfer", "%s has no emulated runtime", c.Tag())
	}
	return node.PolkadotXcm.LimitedReserveTransferAssets(
		runtime.Signed(fixture.A),
		fixture.SiblingLocation(dest),
		fixture.AccountLocation(fixture.B),
		TransferAssets(amount),
		0,
		types.Limited(fixture.WeightLimit),
	)
}

// AssetBalance reads the test asset balance of who on chain tag.
func AssetBalance(net *network.TestNet, tag network.Tag, who types.AccountId) *types.Balance {
	var bal *types.Balance
	net.ExecuteWith(tag, func(c *network.Chain) {
		bal = c.Node().Assets.Balance(fixture.TransferAsset, who)
	})
	return bal
}

func expectBalance(step string, net *network.TestNet, tag network.Tag, who types.AccountId, want *types.Balance) error {
	got := AssetBalance(net, tag, who)
	if got.Cmp(want) != 0 {
		return types.Assertf(step, "asset %d balance of %s on %s is %s, expected %s",
			fixture.TransferAsset, who, tag, types.FormatBalance(got), types.FormatBalance(want))
	}
	return nil
}

// ReserveTransfer moves 300 UNITS of the test asset from A on para 3000 to B on para 2000.
func ReserveTransfer(net *network.TestNet) error {
	var err error
	net.ExecuteWith(network.Para(fixture.Para3000), func(c *network.Chain) {
		err = Transfer(c, fixture.Para2000, fixture.Units(300))
	})
	if err != nil {
		return types.Assertf("reserve-transfer", "transfer rejected: %v", err)
	}
	if err := expectBalance("reserve-transfer", net, network.Para(fixture.Para3000), fixture.A, fixture.Units(1700)); err != nil {
		return err
	}
	return expectBalance("reserve-transfer", net, network.Para(fixture.Para2000), fixture.B, fixture.Units(300))
}

// ResetRestoresGenesis runs the transfer, resets, and expects every chain to match its genesis.
func ResetRestoresGenesis(net *network.TestNet) error {
	if err := ReserveTransfer(net); err != nil {
		return err
	}
	net.Reset()
	if err := expectBalance("reset", net, network.Para(fixture.Para3000), fixture.A, fixture.Units(2000)); err != nil {
		return err
	}
	if err := expectBalance("reset", net, network.Para(fixture.Para2000), fixture.B, types.NewBalance(0)); err != nil {
		return err
	}
	for _, tag := range net.Tags() {
		c, _ := net.Chain(tag)
		gen, _ := net.Genesis(tag)
		if !c.State().Equal(gen) {
			return types.Assertf("reset", "%s differs from its genesis", tag)
		}
	}
	return nil
}

// InsufficientBalance attempts to transfer more than A holds and expects a rejection that leaves
// both parachains untouched.
func InsufficientBalance(net *network.TestNet) error {
	roots := Roots(net)
	var err error
	net.ExecuteWith(network.Para(fixture.Para3000), func(c *network.Chain) {
		err = Transfer(c, fixture.Para2000, fixture.Units(10_000))
	})
	if !errors.Is(err, runtime.ErrLocalExecutionIncomplete) {
		return types.Assertf("insufficient-balance", "expected %v, got %v", runtime.ErrLocalExecutionIncomplete, err)
	}
	if err := expectBalance("insufficient-balance", net, network.Para(fixture.Para3000), fixture.A, fixture.Units(2000)); err != nil {
		return err
	}
	if err := expectBalance("insufficient-balance", net, network.Para(fixture.Para2000), fixture.B, types.NewBalance(0)); err != nil {
		return err
	}
	if changed := changedChains(roots, Roots(net)); len(changed) > 0 {
		return types.Assertf("insufficient-balance", "state changed on %v", changed)
	}
	return nil
}

// UnknownDestination transfers to a para no chain is registered under. The transfer must either
// be rejected, or trap the withdrawn assets on the sender under DetermineHash.
func UnknownDestination(net *network.TestNet) error {
	amount := fixture.Units(300)
	var (
		err    error
		trap   []runtime.AssetsTrapped
		before = Roots(net)
	)
	net.ExecuteWith(network.Para(fixture.Para3000), func(c *network.Chain) {
		err = Transfer(c, UnknownPara, amount)
		trap = events.Filter[runtime.AssetsTrapped](c)
	})
	if err != nil {
		if !errors.Is(err, runtime.ErrLocalExecutionIncomplete) || !errors.Is(err, xcm.ErrUnroutable) {
			return types.Assertf("unknown-destination", "unexpected rejection %v", err)
		}
		if changed := changedChains(before, Roots(net)); len(changed) > 0 {
			return types.Assertf("unknown-destination", "rejected transfer changed %v", changed)
		}
		return nil
	}
	want := xcm.DetermineHash(fixture.AccountLocation(fixture.A), TransferAssets(amount))
	for _, ev := range trap {
		if ev.Hash == want {
			return nil
		}
	}
	return types.Assertf("unknown-destination", "no trap with hash %s", want)
}

// Conservation runs the transfer and checks that the supply of the test asset, trapped amounts
// included, is unchanged and that nothing was trapped.
func Conservation(net *network.TestNet) error {
	before, err := Supply(net, fixture.TransferAsset)
	if err != nil {
		return err
	}
	if err := ReserveTransfer(net); err != nil {
		return err
	}
	after, err := Supply(net, fixture.TransferAsset)
	if err != nil {
		return err
	}
	if before.Cmp(after) != 0 {
		return types.Assertf("conservation", "supply changed from %s to %s",
			types.FormatBalance(before), types.FormatBalance(after))
	}
	trapped, err := Trapped(net, fixture.TransferAsset)
	if err != nil {
		return err
	}
	if !trapped.IsZero() {
		return types.Assertf("conservation", "%s trapped", types.FormatBalance(trapped))
	}
	return nil
}
