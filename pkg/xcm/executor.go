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
	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// UnitWeightCost is the weight charged per instruction.
const UnitWeightCost uint64 = 1_000_000_000

// AssetTransactor moves assets between holding and local accounts.
type AssetTransactor interface {
	// DepositAsset credits asset to the account that who resolves to.
	DepositAsset(asset types.MultiAsset, who types.MultiLocation) error
	// WithdrawAsset debits asset from the account that who resolves to.
	WithdrawAsset(asset types.MultiAsset, who types.MultiLocation) error
}

// Sender delivers programs to other chains.
type Sender interface {
	// Validate checks that dest is reachable and that msg would fit the channel, without side effects.
	Validate(dest types.MultiLocation, msg Xcm) error
	Send(dest types.MultiLocation, msg Xcm) (common.Hash, error)
}

// AssetTrap keeps assets left in holding when execution stops.
type AssetTrap interface {
	DropAssets(origin types.MultiLocation, assets types.MultiAssets)
	// ClaimAssets releases previously dropped assets; it reports false if no such trap exists.
	ClaimAssets(origin, ticket types.MultiLocation, assets types.MultiAssets) bool
}

// Config wires an Executor to its chain.
type Config struct {
	Context    Context
	Transactor AssetTransactor
	Sender     Sender
	Trap       AssetTrap
	// IsReserve reports whether origin is a trusted reserve for asset.
	IsReserve func(asset types.MultiAsset, origin types.MultiLocation) bool
	UnitWeight uint64
}

// Executor runs XCM programs against one chain.
type Executor struct {
	cfg Config
}

// NewExecutor returns an executor; a zero UnitWeight defaults to UnitWeightCost.
func NewExecutor(cfg Config) *Executor {
	if cfg.UnitWeight == 0 {
		cfg.UnitWeight = UnitWeightCost
	}
	return &Executor{cfg: cfg}
}

// Weight returns the weight of executing msg.
func (e *Executor) Weight(msg Xcm) uint64 {
	return msg.Weight(e.cfg.UnitWeight)
}

// Barrier admits programs arriving from another chain: the first instruction must place
// assets into holding and, if execution is paid for, the paid limit must cover the program.
func (e *Executor) Barrier(msg Xcm) error {
	if len(msg) == 0 {
		return ErrBarrier
	}
	switch msg[0].Op {
	case OpWithdrawAsset, OpReserveAssetDeposited, OpClaimAsset:
	default:
		return ErrBarrier
	}
	for _, inst := range msg[1:] {
		if inst.Op == OpClearOrigin {
			continue
		}
		if inst.Op == OpBuyExecution && inst.WeightLimit.Allows(e.Weight(msg)) {
			return nil
		}
		return ErrBarrier
	}
	return ErrBarrier
}

type execution struct {
	*Executor
	origin   *types.MultiLocation
	original types.MultiLocation
	holding  types.MultiAssets
}

// Execute runs msg on behalf of origin if it fits in weightLimit. Assets left in holding
// when execution stops, whether it completed or not, are handed to the asset trap.
func (e *Executor) Execute(origin types.MultiLocation, msg Xcm, weightLimit uint64) Outcome {
	weight := e.Weight(msg)
	if weight > weightLimit {
		return Outcome{Weight: weight, Error: ErrWeightLimitReached}
	}
	o := origin
	ex := &execution{Executor: e, origin: &o, original: origin}
	outcome := Outcome{Complete: true, Weight: weight}
	for i, inst := range msg {
		if err := ex.apply(inst); err != nil {
			log.WithField("origin", origin).
				WithField("instruction", inst.Op).
				Debugf("xcm execution stopped: %s", err)
			outcome = Outcome{Weight: weight, Index: uint32(i), Error: asError(err)}
			break
		}
	}
	if !ex.holding.IsEmpty() {
		e.cfg.Trap.DropAssets(ex.original, ex.holding)
	}
	return outcome
}

func asError(err error) Error {
	if xe, ok := err.(Error); ok {
		return xe
	}
	return ErrFailedToTransactAsset
}

func (ex *execution) apply(inst Instruction) error {
	switch inst.Op {
	case OpWithdrawAsset:
		if ex.origin == nil {
			return ErrBadOrigin
		}
		for _, a := range inst.Assets {
			if err := ex.cfg.Transactor.WithdrawAsset(a, *ex.origin); err != nil {
				return ErrFailedToTransactAsset
			}
			if err := ex.hold(a); err != nil {
				return err
			}
		}
	case OpReserveAssetDeposited:
		if ex.origin == nil {
			return ErrBadOrigin
		}
		for _, a := range inst.Assets {
			if ex.cfg.IsReserve == nil || !ex.cfg.IsReserve(a, *ex.origin) {
				return ErrUntrustedReserveLocation
			}
		}
		for _, a := range inst.Assets {
			if err := ex.hold(a); err != nil {
				return err
			}
		}
	case OpClearOrigin:
		ex.origin = nil
	case OpBuyExecution:
		held, ok := ex.holding.Find(inst.Fees.ID)
		if !ok || held.Amount.Lt(&inst.Fees.Amount) {
			return ErrNotHoldingFees
		}
	case OpDepositAsset:
		return ex.deposit(inst.MaxAssets, inst.Location)
	case OpDepositReserveAsset:
		return ex.depositReserve(inst)
	case OpClaimAsset:
		if ex.origin == nil {
			return ErrBadOrigin
		}
		if !ex.cfg.Trap.ClaimAssets(*ex.origin, inst.Location, inst.Assets) {
			return ErrUnknownClaim
		}
		for _, a := range inst.Assets {
			if err := ex.hold(a); err != nil {
				return err
			}
		}
	default:
		return ErrBarrier
	}
	return nil
}

func (ex *execution) hold(a types.MultiAsset) error {
	holding, err := types.NormalizeMultiAssets(append(ex.holding, a)...)
	if err != nil {
		return ErrOverflow
	}
	ex.holding = holding
	return nil
}

// take removes up to max assets from holding.
func (ex *execution) take(max uint32) types.MultiAssets {
	n := len(ex.holding)
	if int(max) < n {
		n = int(max)
	}
	taken := ex.holding[:n:n]
	ex.holding = ex.holding[n:]
	if len(ex.holding) == 0 {
		ex.holding = nil
	}
	return taken
}

// deposit credits up to max held assets to beneficiary. An asset that cannot be deposited
// stays in holding.
func (ex *execution) deposit(max uint32, beneficiary types.MultiLocation) error {
	taken := ex.take(max)
	for i, a := range taken {
		if err := ex.cfg.Transactor.DepositAsset(a, beneficiary); err != nil {
			for _, rest := range taken[i:] {
				if err := ex.hold(rest); err != nil {
					return err
				}
			}
			return ErrFailedToTransactAsset
		}
	}
	return nil
}

func (ex *execution) depositReserve(inst Instruction) error {
	inner, err := inst.Inner()
	if err != nil {
		return ErrBarrier
	}
	dest := inst.Location
	n := uint32(len(ex.holding))
	if inst.MaxAssets < n {
		n = inst.MaxAssets
	}
	reanchored, err := ex.cfg.Context.ReanchorAssets(ex.holding[:n], dest)
	if err != nil {
		return err
	}
	msg := append(Xcm{ReserveAssetDeposited(reanchored), ClearOrigin()}, inner...)
	if err := ex.cfg.Sender.Validate(dest, msg); err != nil {
		return ErrUnroutable
	}
	if err := ex.deposit(n, dest); err != nil {
		return err
	}
	if _, err := ex.cfg.Sender.Send(dest, msg); err != nil {
		return ErrTransport
	}
	return nil
}
