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
	"encoding/binary"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

var (
	ErrUnknownAsset  = types.NewDispatchError(PalletAssets, "Unknown")
	ErrBelowMinimum  = types.NewDispatchError(PalletAssets, "BelowMinimum")
	ErrBalanceLow    = types.NewDispatchError(PalletAssets, "BalanceLow")
	ErrWouldDie      = types.NewDispatchError(PalletAssets, "WouldDie")
	ErrAssetOverflow = types.NewDispatchError(PalletAssets, "Overflow")
)

// AssetGenesis registers an asset class.
type AssetGenesis struct {
	ID           types.AssetId
	Owner        types.AccountId
	IsSufficient bool
	MinBalance   *types.Balance
}

// MetadataGenesis describes an asset class.
type MetadataGenesis struct {
	ID       types.AssetId
	Symbol   string
	Name     string
	Decimals uint8
}

// AssetAccountGenesis pre-funds an account with an asset.
type AssetAccountGenesis struct {
	ID     types.AssetId
	Who    types.AccountId
	Amount *types.Balance
}

// AssetDetails is the registry entry of an asset class.
type AssetDetails struct {
	Owner        types.AccountId
	IsSufficient bool
	MinBalance   *types.Balance
	Supply       *types.Balance
}

type assetDetailsRLP struct {
	Owner        types.AccountId
	IsSufficient bool
	MinBalance   *big.Int
	Supply       *big.Int
}

// Metadata is the human readable description of an asset class.
type Metadata struct {
	Symbol   string
	Name     string
	Decimals uint8
}

// Assets is the fungible assets pallet.
type Assets struct {
	st *state.ChainState
}

func NewAssets(st *state.ChainState) Assets { return Assets{st: st} }

func assetIDBytes(id types.AssetId) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(id))
	return buf[:]
}

func assetKey(id types.AssetId) []byte {
	return state.Key(PalletAssets, "Asset", assetIDBytes(id))
}

func metadataKey(id types.AssetId) []byte {
	return state.Key(PalletAssets, "Metadata", assetIDBytes(id))
}

func assetAccountKey(id types.AssetId, who types.AccountId) []byte {
	return state.Key(PalletAssets, "Account", assetIDBytes(id), who[:])
}

// Genesis writes the registry, metadata and pre-funded accounts. Inputs are validated by the
// genesis builder.
func (a Assets) Genesis(assets []AssetGenesis, metadata []MetadataGenesis, accounts []AssetAccountGenesis) error {
	for _, g := range assets {
		details := AssetDetails{
			Owner:        g.Owner,
			IsSufficient: g.IsSufficient,
			MinBalance:   g.MinBalance,
			Supply:       types.NewBalance(0),
		}
		if err := a.putDetails(g.ID, details); err != nil {
			return err
		}
	}
	for _, m := range metadata {
		if err := a.st.PutRLP(metadataKey(m.ID), Metadata{Symbol: m.Symbol, Name: m.Name, Decimals: m.Decimals}); err != nil {
			return err
		}
	}
	for _, acc := range accounts {
		if err := a.credit(acc.ID, acc.Who, acc.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (a Assets) putDetails(id types.AssetId, d AssetDetails) error {
	return a.st.PutRLP(assetKey(id), assetDetailsRLP{
		Owner:        d.Owner,
		IsSufficient: d.IsSufficient,
		MinBalance:   d.MinBalance.ToBig(),
		Supply:       d.Supply.ToBig(),
	})
}

// Details returns the registry entry of id.
func (a Assets) Details(id types.AssetId) (AssetDetails, bool) {
	var enc assetDetailsRLP
	if ok, err := a.st.GetRLP(assetKey(id), &enc); !ok || err != nil {
		return AssetDetails{}, false
	}
	minBalance, _ := uint256.FromBig(enc.MinBalance)
	supply, _ := uint256.FromBig(enc.Supply)
	return AssetDetails{
		Owner:        enc.Owner,
		IsSufficient: enc.IsSufficient,
		MinBalance:   minBalance,
		Supply:       supply,
	}, true
}

// Metadata returns the metadata of id.
func (a Assets) Metadata(id types.AssetId) (Metadata, bool) {
	var m Metadata
	ok, err := a.st.GetRLP(metadataKey(id), &m)
	return m, ok && err == nil
}

// Balance returns the balance of who in asset id.
func (a Assets) Balance(id types.AssetId, who types.AccountId) *types.Balance {
	return a.st.GetBalance(assetAccountKey(id, who))
}

// Supply returns the issued amount of asset id.
func (a Assets) Supply(id types.AssetId) *types.Balance {
	d, ok := a.Details(id)
	if !ok {
		return types.NewBalance(0)
	}
	return d.Supply
}

// credit increases the balance of who. A new account must receive at least the minimum balance.
func (a Assets) credit(id types.AssetId, who types.AccountId, amount *types.Balance) error {
	d, ok := a.Details(id)
	if !ok {
		return ErrUnknownAsset
	}
	bal, ok := types.CheckedAdd(a.Balance(id, who), amount)
	if !ok {
		return ErrAssetOverflow
	}
	if bal.Lt(d.MinBalance) {
		return ErrBelowMinimum
	}
	if d.Supply, ok = types.CheckedAdd(d.Supply, amount); !ok {
		return ErrAssetOverflow
	}
	if err := a.st.PutBalance(assetAccountKey(id, who), bal); err != nil {
		return err
	}
	return a.putDetails(id, d)
}

// debit decreases the balance of who. The remainder must be zero or at least the minimum balance.
func (a Assets) debit(id types.AssetId, who types.AccountId, amount *types.Balance) error {
	d, ok := a.Details(id)
	if !ok {
		return ErrUnknownAsset
	}
	bal, ok := types.CheckedSub(a.Balance(id, who), amount)
	if !ok {
		return ErrBalanceLow
	}
	if !bal.IsZero() && bal.Lt(d.MinBalance) {
		return ErrWouldDie
	}
	d.Supply, _ = types.CheckedSub(d.Supply, amount)
	if err := a.st.PutBalance(assetAccountKey(id, who), bal); err != nil {
		return err
	}
	return a.putDetails(id, d)
}

// Mint issues amount of asset id to who.
func (a Assets) Mint(id types.AssetId, who types.AccountId, amount *types.Balance) error {
	if err := a.credit(id, who, amount); err != nil {
		return err
	}
	a.st.Deposit(Issued{AssetID: id, Owner: who, Amount: *amount})
	return nil
}

// Burn retires amount of asset id held by who.
func (a Assets) Burn(id types.AssetId, who types.AccountId, amount *types.Balance) error {
	if err := a.debit(id, who, amount); err != nil {
		return err
	}
	a.st.Deposit(Burned{AssetID: id, Owner: who, Balance: *amount})
	return nil
}

// Transfer moves amount of asset id between accounts. Supply is unchanged.
func (a Assets) Transfer(id types.AssetId, from, to types.AccountId, amount *types.Balance) error {
	snap := a.st.Snapshot()
	if err := a.debit(id, from, amount); err != nil {
		return err
	}
	if err := a.credit(id, to, amount); err != nil {
		if rerr := a.st.Revert(snap); rerr != nil {
			return rerr
		}
		return err
	}
	a.st.Deposit(Transferred{AssetID: id, From: from, To: to, Amount: *amount})
	return nil
}

// Accounts calls fn for every holder of asset id.
func (a Assets) Accounts(id types.AssetId, fn func(who types.AccountId, amount *types.Balance)) error {
	prefix := state.Key(PalletAssets, "Account", assetIDBytes(id))
	return a.st.Iterate(prefix, func(key, value []byte) bool {
		var who types.AccountId
		copy(who[:], key[len(prefix):])
		fn(who, new(types.Balance).SetBytes(value))
		return true
	})
}
