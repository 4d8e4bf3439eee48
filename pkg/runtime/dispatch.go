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
	"github.com/cerc-io/xcm-emulator/pkg/prom"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

var ErrBadOrigin = types.NewDispatchError(PalletSystem, "BadOrigin")

// dispatch runs call atomically: if it fails, every write and event it produced is discarded.
func (n *Node) dispatch(call string, f func() error) error {
	snap := n.st.Snapshot()
	err := f()
	if err != nil {
		if rerr := n.st.Revert(snap); rerr != nil {
			return rerr
		}
		n.log.WithField("call", call).Debugf("dispatch rejected: %s", err)
	} else {
		n.log.WithField("call", call).Debug("dispatched")
	}
	prom.IncDispatchCount(n.name, call, err == nil)
	return err
}

// TransferBalance is the Balances.transfer extrinsic.
func (n *Node) TransferBalance(origin Origin, dest types.AccountId, amount *types.Balance) error {
	return n.dispatch("Balances.transfer", func() error {
		if origin.Root {
			return ErrBadOrigin
		}
		return n.Balances.Transfer(origin.Account, dest, amount)
	})
}

// TransferAsset is the Assets.transfer extrinsic.
func (n *Node) TransferAsset(origin Origin, id types.AssetId, dest types.AccountId, amount *types.Balance) error {
	return n.dispatch("Assets.transfer", func() error {
		if origin.Root {
			return ErrBadOrigin
		}
		return n.Assets.Transfer(id, origin.Account, dest, amount)
	})
}

// MintAsset is the Assets.mint extrinsic; only the asset owner may mint.
func (n *Node) MintAsset(origin Origin, id types.AssetId, beneficiary types.AccountId, amount *types.Balance) error {
	return n.dispatch("Assets.mint", func() error {
		d, ok := n.Assets.Details(id)
		if !ok {
			return ErrUnknownAsset
		}
		if origin.Root || origin.Account != d.Owner {
			return types.NewDispatchError(PalletAssets, "NoPermission")
		}
		return n.Assets.Mint(id, beneficiary, amount)
	})
}
