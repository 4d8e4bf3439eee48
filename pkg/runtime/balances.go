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
	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

var (
	ErrInsufficientBalance = types.NewDispatchError(PalletBalances, "InsufficientBalance")
	ErrBalanceOverflow     = types.NewDispatchError(PalletBalances, "Overflow")

	totalIssuanceKey = state.Key(PalletBalances, "TotalIssuance")
)

// BalanceGenesis pre-funds a native account.
type BalanceGenesis struct {
	Who    types.AccountId
	Amount *types.Balance
}

// Balances is the native currency pallet.
type Balances struct {
	st *state.ChainState
}

func NewBalances(st *state.ChainState) Balances { return Balances{st: st} }

func balanceKey(who types.AccountId) []byte {
	return state.Key(PalletBalances, "Account", who[:])
}

// Genesis credits every entry and sets the total issuance. Duplicates are rejected by the caller.
func (b Balances) Genesis(entries []BalanceGenesis) error {
	total := types.NewBalance(0)
	for _, e := range entries {
		if err := b.st.PutBalance(balanceKey(e.Who), e.Amount); err != nil {
			return err
		}
		var ok bool
		if total, ok = types.CheckedAdd(total, e.Amount); !ok {
			return ErrBalanceOverflow
		}
	}
	return b.st.PutBalance(totalIssuanceKey, total)
}

// FreeBalance returns the native balance of who.
func (b Balances) FreeBalance(who types.AccountId) *types.Balance {
	return b.st.GetBalance(balanceKey(who))
}

// TotalIssuance returns the sum of every native balance.
func (b Balances) TotalIssuance() *types.Balance {
	return b.st.GetBalance(totalIssuanceKey)
}

// Transfer moves amount from one account to another.
func (b Balances) Transfer(from, to types.AccountId, amount *types.Balance) error {
	fromBal, ok := types.CheckedSub(b.FreeBalance(from), amount)
	if !ok {
		return ErrInsufficientBalance
	}
	if err := b.st.PutBalance(balanceKey(from), fromBal); err != nil {
		return err
	}
	toBal, ok := types.CheckedAdd(b.FreeBalance(to), amount)
	if !ok {
		return ErrBalanceOverflow
	}
	if err := b.st.PutBalance(balanceKey(to), toBal); err != nil {
		return err
	}
	b.st.Deposit(Transfer{From: from, To: to, Amount: *amount})
	return nil
}

// Mint credits who with newly issued currency.
func (b Balances) Mint(who types.AccountId, amount *types.Balance) error {
	bal, ok := types.CheckedAdd(b.FreeBalance(who), amount)
	if !ok {
		return ErrBalanceOverflow
	}
	issuance, ok := types.CheckedAdd(b.TotalIssuance(), amount)
	if !ok {
		return ErrBalanceOverflow
	}
	if err := b.st.PutBalance(balanceKey(who), bal); err != nil {
		return err
	}
	if err := b.st.PutBalance(totalIssuanceKey, issuance); err != nil {
		return err
	}
	b.st.Deposit(Deposit{Who: who, Amount: *amount})
	return nil
}

// Burn debits who and retires the currency.
func (b Balances) Burn(who types.AccountId, amount *types.Balance) error {
	bal, ok := types.CheckedSub(b.FreeBalance(who), amount)
	if !ok {
		return ErrInsufficientBalance
	}
	issuance, _ := types.CheckedSub(b.TotalIssuance(), amount)
	if err := b.st.PutBalance(balanceKey(who), bal); err != nil {
		return err
	}
	if err := b.st.PutBalance(totalIssuanceKey, issuance); err != nil {
		return err
	}
	b.st.Deposit(Withdraw{Who: who, Amount: *amount})
	return nil
}

// Accounts calls fn for every account holding a native balance.
func (b Balances) Accounts(fn func(who types.AccountId, amount *types.Balance)) error {
	prefix := state.Key(PalletBalances, "Account")
	return b.st.Iterate(prefix, func(key, value []byte) bool {
		var who types.AccountId
		copy(who[:], key[len(prefix):])
		fn(who, new(types.Balance).SetBytes(value))
		return true
	})
}
