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
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/cerc-io/xcm-emulator/pkg/prom"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// LocalAssetLocation is the location of asset id within the assets pallet of the local chain.
func LocalAssetLocation(id types.AssetId) types.MultiLocation {
	return types.NewMultiLocation(0, types.PalletInstance(AssetsIndex), types.GeneralIndex(uint64(id)))
}

// matchAsset resolves an asset id to the native currency or to a class of the assets pallet.
// Assets of a sibling reserve are represented by the local class with the same index.
func (n *Node) matchAsset(id types.MultiLocation) (asset types.AssetId, native bool, ok bool) {
	if id.IsHere() {
		return 0, true, true
	}
	if !n.isPara {
		return 0, false, false
	}
	interior := id.Interior
	switch {
	case id.Parents == 0:
	case id.Parents == 1 && len(interior) > 0 && interior[0].Kind == types.JunctionParachain:
		interior = interior[1:]
	default:
		return 0, false, false
	}
	if len(interior) != 2 ||
		interior[0].Kind != types.JunctionPalletInstance || interior[0].Pallet != AssetsIndex ||
		interior[1].Kind != types.JunctionGeneralIndex {
		return 0, false, false
	}
	index := interior[1].Index
	if !index.IsUint64() || index.Uint64() > math.MaxUint32 {
		return 0, false, false
	}
	return types.AssetId(index.Uint64()), false, true
}

// isReserve trusts a sibling for the assets it issues and the relay chain for its native currency.
func (n *Node) isReserve(asset types.MultiAsset, origin types.MultiLocation) bool {
	if !n.isPara || asset.ID.Parents != 1 {
		return false
	}
	if len(asset.ID.Interior) == 0 {
		return origin.Equal(types.Parent())
	}
	first, _ := asset.ID.First()
	if first.Kind != types.JunctionParachain {
		return false
	}
	return origin.Equal(types.NewMultiLocation(1, first))
}

// transactor moves assets between the executor's holding and local accounts.
type transactor struct {
	node *Node
}

func (t transactor) resolve(asset types.MultiAsset, who types.MultiLocation) (types.AccountId, types.AssetId, bool, error) {
	acc, ok := t.node.LocationToAccount(who)
	if !ok {
		return acc, 0, false, fmt.Errorf("no account for %s", who)
	}
	id, native, ok := t.node.matchAsset(asset.ID)
	if !ok {
		return acc, 0, false, fmt.Errorf("asset %s not matched", asset.ID)
	}
	return acc, id, native, nil
}

func (t transactor) DepositAsset(asset types.MultiAsset, who types.MultiLocation) error {
	acc, id, native, err := t.resolve(asset, who)
	if err != nil {
		return err
	}
	if native {
		return t.node.Balances.Mint(acc, &asset.Amount)
	}
	return t.node.Assets.Mint(id, acc, &asset.Amount)
}

func (t transactor) WithdrawAsset(asset types.MultiAsset, who types.MultiLocation) error {
	acc, id, native, err := t.resolve(asset, who)
	if err != nil {
		return err
	}
	if native {
		return t.node.Balances.Burn(acc, &asset.Amount)
	}
	return t.node.Assets.Burn(id, acc, &asset.Amount)
}

// sender turns programs addressed to other chains into network messages.
type sender struct {
	node *Node
}

func (s sender) message(dest types.MultiLocation, msg xcm.Xcm) (types.NetworkMessage, error) {
	n := s.node
	var out types.NetworkMessage
	switch {
	case n.isPara && dest.Equal(types.Parent()):
		out = types.NetworkMessage{Kind: types.Upward, Source: n.paraID}
	case n.isPara:
		id, ok := dest.AsParachain(1)
		if !ok {
			return out, xcm.ErrUnroutable
		}
		out = types.NetworkMessage{Kind: types.Horizontal, Source: n.paraID, Dest: id}
	default:
		id, ok := dest.AsParachain(0)
		if !ok {
			return out, xcm.ErrUnroutable
		}
		out = types.NetworkMessage{Kind: types.Downward, Dest: id}
	}
	payload, err := msg.Encode()
	if err != nil {
		return out, err
	}
	out.Payload = payload
	return out, nil
}

func (s sender) Validate(dest types.MultiLocation, msg xcm.Xcm) error {
	out, err := s.message(dest, msg)
	if err != nil {
		return err
	}
	return s.node.router.Validate(out)
}

func (s sender) Send(dest types.MultiLocation, msg xcm.Xcm) (common.Hash, error) {
	out, err := s.message(dest, msg)
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.node.router.Route(out); err != nil {
		return common.Hash{}, err
	}
	hash := xcm.MessageHash(out.Payload)
	switch out.Kind {
	case types.Horizontal:
		s.node.st.Deposit(XcmpMessageSent{Hash: hash})
	case types.Upward:
		s.node.st.Deposit(UpwardMessageSent{Hash: hash})
	}
	prom.IncSentCount(out.Kind.String())
	s.node.log.WithField("dest", dest).Debugf("sent %s", out)
	return hash, nil
}
