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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"

	"github.com/cerc-io/xcm-emulator/pkg/prom"
	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// MaxAssetsForTransfer bounds the number of assets in one transfer.
const MaxAssetsForTransfer = 2

var (
	ErrXcmBadOrigin             = types.NewDispatchError(PalletPolkadotXcm, "BadOrigin")
	ErrBadVersion               = types.NewDispatchError(PalletPolkadotXcm, "BadVersion")
	ErrEmpty                    = types.NewDispatchError(PalletPolkadotXcm, "Empty")
	ErrTooManyAssets            = types.NewDispatchError(PalletPolkadotXcm, "TooManyAssets")
	ErrCannotReanchor           = types.NewDispatchError(PalletPolkadotXcm, "CannotReanchor")
	ErrUnreachable              = types.NewDispatchError(PalletPolkadotXcm, "Unreachable")
	ErrSendFailure              = types.NewDispatchError(PalletPolkadotXcm, "SendFailure")
	ErrLocalExecutionIncomplete = types.NewDispatchError(PalletPolkadotXcm, "LocalExecutionIncomplete")
	ErrInvalidAsset             = types.NewDispatchError(PalletPolkadotXcm, "InvalidAsset")
)

func assetTrapKey(hash common.Hash) []byte {
	return state.Key(PalletPolkadotXcm, "AssetTraps", hash[:])
}

func trappedAssetsKey(hash common.Hash) []byte {
	return state.Key(PalletPolkadotXcm, "TrappedAssets", hash[:])
}

// PolkadotXcm is the XCM pallet: user-facing transfer extrinsics and the asset trap.
type PolkadotXcm struct {
	node *Node
	ctx  xcm.Context
}

// LimitedReserveTransferAssets transfers assets held on this chain, which acts as their reserve,
// to beneficiary on dest. The destination buys execution with assets[feeAssetItem] up to
// weightLimit. Local execution that does not complete rejects the call.
func (p *PolkadotXcm) LimitedReserveTransferAssets(origin Origin, dest, beneficiary types.MultiLocation,
	assets types.MultiAssets, feeAssetItem uint32, weightLimit types.WeightLimit) error {
	return p.node.dispatch("PolkadotXcm.limited_reserve_transfer_assets", func() error {
		return p.reserveTransfer(origin, dest, beneficiary, assets, feeAssetItem, weightLimit)
	})
}

// ReserveTransferAssets is LimitedReserveTransferAssets with an unlimited weight limit.
func (p *PolkadotXcm) ReserveTransferAssets(origin Origin, dest, beneficiary types.MultiLocation,
	assets types.MultiAssets, feeAssetItem uint32) error {
	return p.node.dispatch("PolkadotXcm.reserve_transfer_assets", func() error {
		return p.reserveTransfer(origin, dest, beneficiary, assets, feeAssetItem, types.Unlimited())
	})
}

func (p *PolkadotXcm) reserveTransfer(origin Origin, dest, beneficiary types.MultiLocation,
	assets types.MultiAssets, feeAssetItem uint32, weightLimit types.WeightLimit) error {
	if origin.Root {
		return ErrXcmBadOrigin
	}
	if _, ok := SafeXcmVersion(p.node.st); !ok {
		return ErrBadVersion
	}
	assets, err := types.NormalizeMultiAssets(assets...)
	if err != nil {
		return ErrInvalidAsset.WithCause(err)
	}
	if len(assets) > MaxAssetsForTransfer {
		return ErrTooManyAssets
	}
	fees, ok := assets.Get(feeAssetItem)
	if !ok {
		return ErrEmpty
	}
	feesID, err := p.ctx.Reanchor(fees.ID, dest)
	if err != nil {
		return ErrCannotReanchor.WithCause(err)
	}
	maxAssets := uint32(len(assets))
	remote := xcm.Xcm{
		xcm.BuyExecution(types.NewMultiAsset(feesID, &fees.Amount), weightLimit),
		xcm.DepositAsset(maxAssets, beneficiary),
	}
	local := xcm.Xcm{
		xcm.WithdrawAsset(assets),
		xcm.DepositReserveAsset(maxAssets, dest, remote),
	}
	return p.executeLocal(origin.Location(), local)
}

// executeLocal runs msg for origin and fails the call if execution did not complete.
func (p *PolkadotXcm) executeLocal(origin types.MultiLocation, msg xcm.Xcm) error {
	ex := p.node.executor
	outcome := ex.Execute(origin, msg, ex.Weight(msg))
	p.node.st.Deposit(Attempted{Outcome: outcome})
	if err := outcome.Err(); err != nil {
		return ErrLocalExecutionIncomplete.WithCause(err)
	}
	return nil
}

// Execute runs msg on behalf of a signed origin. The outcome is reported through an Attempted
// event; assets of an incomplete execution stay trapped.
func (p *PolkadotXcm) Execute(origin Origin, msg xcm.Xcm, maxWeight uint64) error {
	return p.node.dispatch("PolkadotXcm.execute", func() error {
		if origin.Root {
			return ErrXcmBadOrigin
		}
		outcome := p.node.executor.Execute(origin.Location(), msg, maxWeight)
		p.node.st.Deposit(Attempted{Outcome: outcome})
		return nil
	})
}

// Send delivers msg to dest as this chain. Only root may send.
func (p *PolkadotXcm) Send(origin Origin, dest types.MultiLocation, msg xcm.Xcm) error {
	return p.node.dispatch("PolkadotXcm.send", func() error {
		if !origin.Root {
			return ErrXcmBadOrigin
		}
		s := sender{p.node}
		if err := s.Validate(dest, msg); err != nil {
			return ErrUnreachable.WithCause(err)
		}
		hash, err := s.Send(dest, msg)
		if err != nil {
			return ErrSendFailure.WithCause(err)
		}
		p.node.st.Deposit(Sent{Origin: origin.Location(), Destination: dest, Message: hash})
		return nil
	})
}

// ClaimAssets releases assets trapped for the caller's location and deposits them to beneficiary.
func (p *PolkadotXcm) ClaimAssets(origin Origin, assets types.MultiAssets, beneficiary types.MultiLocation) error {
	return p.node.dispatch("PolkadotXcm.claim_assets", func() error {
		if origin.Root {
			return ErrXcmBadOrigin
		}
		assets, err := types.NormalizeMultiAssets(assets...)
		if err != nil {
			return ErrInvalidAsset.WithCause(err)
		}
		msg := xcm.Xcm{
			xcm.ClaimAsset(assets, types.Here()),
			xcm.DepositAsset(uint32(len(assets)), beneficiary),
		}
		return p.executeLocal(origin.Location(), msg)
	})
}

// TrapCount returns how many times the asset set identified by hash is trapped.
func (p *PolkadotXcm) TrapCount(hash common.Hash) uint32 {
	var count uint32
	if _, err := p.node.st.GetRLP(assetTrapKey(hash), &count); err != nil {
		return 0
	}
	return count
}

// TrappedTotal returns the amount of local asset class id held in traps, counting derivatives
// of the same class issued by a sibling reserve.
func (p *PolkadotXcm) TrappedTotal(id types.AssetId) (*types.Balance, error) {
	total := types.NewBalance(0)
	prefix := state.Key(PalletPolkadotXcm, "TrappedAssets")
	var iterErr error
	err := p.node.st.Iterate(prefix, func(key, value []byte) bool {
		var assets types.MultiAssets
		if err := rlp.DecodeBytes(value, &assets); err != nil {
			return true
		}
		count := uint256.NewInt(uint64(p.TrapCount(common.BytesToHash(key[len(prefix):]))))
		for _, a := range assets {
			if local, native, ok := p.node.matchAsset(a.ID); !ok || native || local != id {
				continue
			}
			amount, overflow := new(types.Balance).MulOverflow(&a.Amount, count)
			if overflow {
				iterErr = fmt.Errorf("trapped %s: %w", a.ID, types.ErrAssetOverflow)
				return false
			}
			sum, ok := types.CheckedAdd(total, amount)
			if !ok {
				iterErr = fmt.Errorf("trapped total of asset %d: %w", id, types.ErrAssetOverflow)
				return false
			}
			total = sum
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if iterErr != nil {
		return nil, iterErr
	}
	return total, nil
}

// assetTrap stores assets left in holding under their DetermineHash.
type assetTrap struct {
	node *Node
}

func (t assetTrap) DropAssets(origin types.MultiLocation, assets types.MultiAssets) {
	st := t.node.st
	hash := xcm.DetermineHash(origin, assets)
	count := t.node.PolkadotXcm.TrapCount(hash) + 1
	if err := st.PutRLP(assetTrapKey(hash), count); err != nil {
		panic(fmt.Errorf("storing asset trap: %w", err))
	}
	if err := st.PutRLP(trappedAssetsKey(hash), assets); err != nil {
		panic(fmt.Errorf("storing asset trap: %w", err))
	}
	st.Deposit(AssetsTrapped{Hash: hash, Origin: origin, Assets: types.Versioned(assets)})
	prom.IncTrappedCount()
	t.node.log.WithField("hash", hash).Infof("assets trapped: %v", assets)
}

func (t assetTrap) ClaimAssets(origin, _ types.MultiLocation, assets types.MultiAssets) bool {
	st := t.node.st
	hash := xcm.DetermineHash(origin, assets)
	count := t.node.PolkadotXcm.TrapCount(hash)
	if count == 0 {
		return false
	}
	if count == 1 {
		_ = st.Delete(assetTrapKey(hash))
		_ = st.Delete(trappedAssetsKey(hash))
	} else if err := st.PutRLP(assetTrapKey(hash), count-1); err != nil {
		return false
	}
	st.Deposit(AssetsClaimed{Hash: hash, Origin: origin, Assets: types.Versioned(assets)})
	prom.IncClaimedCount()
	return true
}
