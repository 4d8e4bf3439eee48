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
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cerc-io/xcm-emulator/pkg/network"
	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// Roots returns the state root of every chain.
func Roots(net *network.TestNet) map[network.Tag]common.Hash {
	roots := make(map[network.Tag]common.Hash)
	for _, tag := range net.Tags() {
		c, _ := net.Chain(tag)
		roots[tag] = c.State().Root()
	}
	return roots
}

func changedChains(before, after map[network.Tag]common.Hash) []network.Tag {
	var changed []network.Tag
	for tag, root := range before {
		if after[tag] != root {
			changed = append(changed, tag)
		}
	}
	return changed
}

func paraNodes(net *network.TestNet) []*runtime.Node {
	var nodes []*runtime.Node
	for _, tag := range net.Tags() {
		c, _ := net.Chain(tag)
		if c.IsRelay() || c.Node() == nil {
			continue
		}
		nodes = append(nodes, c.Node())
	}
	return nodes
}

// Supply sums asset id over the non-sovereign accounts of every parachain, plus trapped amounts.
// Balances of sovereign accounts back derivatives issued elsewhere and are not counted.
func Supply(net *network.TestNet, id types.AssetId) (*types.Balance, error) {
	total, err := Trapped(net, id)
	if err != nil {
		return nil, err
	}
	for _, node := range paraNodes(net) {
		err := node.Assets.Accounts(id, func(who types.AccountId, amount *types.Balance) {
			if runtime.IsSovereign(who) || total == nil {
				return
			}
			total, _ = types.CheckedAdd(total, amount)
		})
		if err != nil {
			return nil, err
		}
	}
	if total == nil {
		return nil, fmt.Errorf("supply of asset %d: %w", id, types.ErrAssetOverflow)
	}
	return total, nil
}

// Trapped sums asset id held in the asset traps of every parachain.
func Trapped(net *network.TestNet, id types.AssetId) (*types.Balance, error) {
	total := types.NewBalance(0)
	for _, node := range paraNodes(net) {
		trapped, err := node.PolkadotXcm.TrappedTotal(id)
		if err != nil {
			return nil, err
		}
		sum, ok := types.CheckedAdd(total, trapped)
		if !ok {
			return nil, fmt.Errorf("trapped asset %d: %w", id, types.ErrAssetOverflow)
		}
		total = sum
	}
	return total, nil
}

// NativeTotal sums every native balance, sovereign accounts included, across all chains.
func NativeTotal(net *network.TestNet) *types.Balance {
	total := types.NewBalance(0)
	for _, tag := range net.Tags() {
		c, _ := net.Chain(tag)
		if c.Node() == nil {
			continue
		}
		_ = c.Node().Balances.Accounts(func(_ types.AccountId, amount *types.Balance) {
			total.Add(total, amount)
		})
	}
	return total
}
