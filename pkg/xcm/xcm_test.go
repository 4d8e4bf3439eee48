package xcm

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/test"
)

var (
	alice  = types.AccountId{4}
	bob    = types.AccountId{5}
	native = types.Here()
	local0 = types.NewMultiLocation(0, types.PalletInstance(50), types.GeneralIndex(0))
)

func account(id types.AccountId) types.MultiLocation {
	return types.NewMultiLocation(0, types.AccountId32(id, types.NetworkAny))
}

// ledger is an in-memory AssetTransactor keyed by holder and asset id
type ledger struct {
	balances map[string]*types.Balance
	reject   map[string]bool
}

func newLedger() *ledger {
	return &ledger{balances: map[string]*types.Balance{}, reject: map[string]bool{}}
}

func ledgerKey(asset types.MultiAsset, who types.MultiLocation) string {
	return fmt.Sprintf("%s/%s", who, asset.ID)
}

func (l *ledger) set(who types.MultiLocation, id types.MultiLocation, amount *types.Balance) {
	l.balances[ledgerKey(types.NewMultiAsset(id, amount), who)] = amount
}

func (l *ledger) get(who types.MultiLocation, id types.MultiLocation) *types.Balance {
	if b, ok := l.balances[ledgerKey(types.MultiAsset{ID: id}, who)]; ok {
		return b
	}
	return types.NewBalance(0)
}

func (l *ledger) DepositAsset(asset types.MultiAsset, who types.MultiLocation) error {
	if l.reject[who.String()] {
		return fmt.Errorf("rejected")
	}
	sum, _ := types.CheckedAdd(l.get(who, asset.ID), &asset.Amount)
	l.balances[ledgerKey(asset, who)] = sum
	return nil
}

func (l *ledger) WithdrawAsset(asset types.MultiAsset, who types.MultiLocation) error {
	rest, ok := types.CheckedSub(l.get(who, asset.ID), &asset.Amount)
	if !ok {
		return fmt.Errorf("insufficient")
	}
	l.balances[ledgerKey(asset, who)] = rest
	return nil
}

type sent struct {
	dest types.MultiLocation
	msg  Xcm
}

type recorder struct {
	unroutable bool
	sent       []sent
}

func (r *recorder) Validate(dest types.MultiLocation, _ Xcm) error {
	if r.unroutable {
		return ErrUnroutable
	}
	return nil
}

func (r *recorder) Send(dest types.MultiLocation, msg Xcm) (common.Hash, error) {
	r.sent = append(r.sent, sent{dest, msg})
	return common.Hash{}, nil
}

type trap struct {
	dropped map[common.Hash]types.MultiAssets
}

func (tr *trap) DropAssets(origin types.MultiLocation, assets types.MultiAssets) {
	tr.dropped[DetermineHash(origin, assets)] = assets
}

func (tr *trap) ClaimAssets(origin, _ types.MultiLocation, assets types.MultiAssets) bool {
	h := DetermineHash(origin, assets)
	if _, ok := tr.dropped[h]; !ok {
		return false
	}
	delete(tr.dropped, h)
	return true
}

type harness struct {
	*Executor
	ledger *ledger
	sender *recorder
	trap   *trap
}

func newHarness(ctx Context) *harness {
	h := &harness{ledger: newLedger(), sender: &recorder{}, trap: &trap{dropped: map[common.Hash]types.MultiAssets{}}}
	h.Executor = NewExecutor(Config{
		Context:    ctx,
		Transactor: h.ledger,
		Sender:     h.sender,
		Trap:       h.trap,
		IsReserve: func(asset types.MultiAsset, origin types.MultiLocation) bool {
			return origin.Equal(types.NewMultiLocation(1, types.Parachain(3000)))
		},
	})
	return h
}

func assets(id types.MultiLocation, units uint64) types.MultiAssets {
	return types.NewMultiAssets(types.NewMultiAsset(id, types.Units(units)))
}

func TestReanchor(t *testing.T) {
	sibling := types.NewMultiLocation(1, types.Parachain(2000))

	got, err := ParaContext(3000).Reanchor(local0, sibling)
	test.NoError(t, err)
	test.ExpectEqual(t,
		types.NewMultiLocation(1, types.Parachain(3000), types.PalletInstance(50), types.GeneralIndex(0)), got)

	got, err = RelayContext().Reanchor(native, types.NewMultiLocation(0, types.Parachain(2000)))
	test.NoError(t, err)
	test.ExpectEqual(t, types.Parent(), got)

	got, err = ParaContext(2000).Reanchor(types.Parent(), types.Parent())
	test.NoError(t, err)
	test.ExpectEqual(t, types.Here(), got)

	_, err = RelayContext().Reanchor(types.Parent(), native)
	test.ExpectError(t, err, ErrLocationNotInvertible)
}

func TestSovereignAccounts(t *testing.T) {
	para := ParaSovereignAccount(2000)
	test.ExpectEqual(t, []byte("para"), para[:4])
	test.ExpectEqual(t, []byte{0xd0, 0x07, 0, 0}, para[4:8])
	test.ExpectEqual(t, make([]byte, 24), para[8:])

	sibl := SiblingSovereignAccount(3000)
	test.ExpectEqual(t, []byte("sibl"), sibl[:4])
	if sibl == SiblingSovereignAccount(2000) {
		t.Fatal("sovereign accounts collide")
	}
}

func TestEncodeDecode(t *testing.T) {
	inner := Xcm{BuyExecution(types.NewMultiAsset(local0, types.Units(1)), types.Limited(4_000_000_000)), DepositAsset(1, account(bob))}
	prog := Xcm{WithdrawAsset(assets(local0, 300)), DepositReserveAsset(1, types.NewMultiLocation(1, types.Parachain(2000)), inner)}

	raw, err := prog.Encode()
	test.NoError(t, err)
	decoded, err := Decode(raw)
	test.NoError(t, err)
	test.ExpectEqual(t, prog, decoded)

	got, err := decoded[1].Inner()
	test.NoError(t, err)
	test.ExpectEqual(t, inner, got)

	_, err = Decode([]byte{0xc0})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestBarrier(t *testing.T) {
	h := newHarness(ParaContext(2000))
	fees := types.NewMultiAsset(local0, types.Units(1))
	paid := Xcm{ReserveAssetDeposited(assets(local0, 1)), ClearOrigin(), BuyExecution(fees, types.Unlimited()), DepositAsset(1, account(bob))}
	test.NoError(t, h.Barrier(paid))

	cheap := append(Xcm{}, paid...)
	cheap[2] = BuyExecution(fees, types.Limited(UnitWeightCost))
	test.ExpectError(t, h.Barrier(cheap), ErrBarrier)

	unpaid := Xcm{ReserveAssetDeposited(assets(local0, 1)), DepositAsset(1, account(bob))}
	test.ExpectError(t, h.Barrier(unpaid), ErrBarrier)

	test.ExpectError(t, h.Barrier(Xcm{ClearOrigin()}), ErrBarrier)
	test.ExpectError(t, h.Barrier(nil), ErrBarrier)
}

func TestReserveTransferLocalSide(t *testing.T) {
	h := newHarness(ParaContext(3000))
	dest := types.NewMultiLocation(1, types.Parachain(2000))
	h.ledger.set(account(alice), local0, types.Units(2000))

	inner := Xcm{BuyExecution(types.NewMultiAsset(types.NewMultiLocation(1, types.Parachain(3000), types.PalletInstance(50), types.GeneralIndex(0)), types.Units(300)), types.Unlimited()), DepositAsset(1, account(bob))}
	prog := Xcm{WithdrawAsset(assets(local0, 300)), DepositReserveAsset(1, dest, inner)}

	outcome := h.Execute(account(alice), prog, h.Weight(prog))
	test.ExpectEqual(t, Outcome{Complete: true, Weight: 2 * UnitWeightCost}, outcome)
	test.ExpectBalance(t, types.Units(1700), h.ledger.get(account(alice), local0))
	test.ExpectBalance(t, types.Units(300), h.ledger.get(dest, local0))

	test.ExpectEqual(t, 1, len(h.sender.sent))
	out := h.sender.sent[0]
	test.ExpectEqual(t, dest, out.dest)
	reanchored := assets(types.NewMultiLocation(1, types.Parachain(3000), types.PalletInstance(50), types.GeneralIndex(0)), 300)
	test.ExpectEqual(t, append(Xcm{ReserveAssetDeposited(reanchored), ClearOrigin()}, inner...), out.msg)
	test.ExpectEqual(t, 0, len(h.trap.dropped))
}

func TestInsufficientBalanceIsIncomplete(t *testing.T) {
	h := newHarness(ParaContext(3000))
	h.ledger.set(account(alice), local0, types.Units(100))
	prog := Xcm{WithdrawAsset(assets(local0, 300)), DepositAsset(1, account(bob))}

	outcome := h.Execute(account(alice), prog, h.Weight(prog))
	test.ExpectEqual(t, false, outcome.Complete)
	test.ExpectEqual(t, ErrFailedToTransactAsset, outcome.Error)
	test.ExpectEqual(t, uint32(0), outcome.Index)
	test.ExpectBalance(t, types.Units(100), h.ledger.get(account(alice), local0))
	test.ExpectEqual(t, 0, len(h.trap.dropped))
}

func TestUnroutableLeavesHoldingTrapped(t *testing.T) {
	h := newHarness(ParaContext(3000))
	h.sender.unroutable = true
	h.ledger.set(account(alice), local0, types.Units(500))
	dest := types.NewMultiLocation(1, types.Parachain(4000))
	prog := Xcm{WithdrawAsset(assets(local0, 300)), DepositReserveAsset(1, dest, nil)}

	outcome := h.Execute(account(alice), prog, h.Weight(prog))
	test.ExpectEqual(t, ErrUnroutable, outcome.Error)
	test.ExpectEqual(t, uint32(1), outcome.Index)
	test.ExpectBalance(t, types.NewBalance(0), h.ledger.get(dest, local0))
	test.ExpectEqual(t, assets(local0, 300), h.trap.dropped[DetermineHash(account(alice), assets(local0, 300))])
}

func TestFailedDepositIsTrappedAndClaimable(t *testing.T) {
	h := newHarness(ParaContext(2000))
	origin := types.NewMultiLocation(1, types.Parachain(3000))
	h.ledger.reject[account(bob).String()] = true
	fees := types.NewMultiAsset(local0, types.Units(1))
	prog := Xcm{ReserveAssetDeposited(assets(local0, 1)), ClearOrigin(), BuyExecution(fees, types.Unlimited()), DepositAsset(1, account(bob))}

	outcome := h.Execute(origin, prog, h.Weight(prog))
	test.ExpectEqual(t, ErrFailedToTransactAsset, outcome.Error)
	test.ExpectEqual(t, uint32(3), outcome.Index)
	hash := DetermineHash(origin, assets(local0, 1))
	test.ExpectEqual(t, assets(local0, 1), h.trap.dropped[hash])

	claim := Xcm{ClaimAsset(assets(local0, 1), types.Here()), DepositAsset(1, account(alice))}
	outcome = h.Execute(origin, claim, h.Weight(claim))
	test.ExpectEqual(t, true, outcome.Complete)
	test.ExpectBalance(t, types.Units(1), h.ledger.get(account(alice), local0))
	test.ExpectEqual(t, 0, len(h.trap.dropped))

	outcome = h.Execute(origin, claim, h.Weight(claim))
	test.ExpectEqual(t, ErrUnknownClaim, outcome.Error)
}

func TestUntrustedReserve(t *testing.T) {
	h := newHarness(ParaContext(2000))
	prog := Xcm{ReserveAssetDeposited(assets(local0, 1)), DepositAsset(1, account(bob))}
	outcome := h.Execute(types.NewMultiLocation(1, types.Parachain(4000)), prog, h.Weight(prog))
	test.ExpectEqual(t, ErrUntrustedReserveLocation, outcome.Error)
	test.ExpectEqual(t, 0, len(h.trap.dropped))
}

func TestWeightLimit(t *testing.T) {
	h := newHarness(ParaContext(2000))
	prog := Xcm{ClearOrigin(), ClearOrigin()}
	outcome := h.Execute(types.Here(), prog, UnitWeightCost)
	test.ExpectEqual(t, Outcome{Weight: 2 * UnitWeightCost, Error: ErrWeightLimitReached}, outcome)
}

func TestClearOriginBlocksWithdraw(t *testing.T) {
	h := newHarness(ParaContext(2000))
	prog := Xcm{ClearOrigin(), WithdrawAsset(assets(native, 1))}
	outcome := h.Execute(account(alice), prog, h.Weight(prog))
	test.ExpectEqual(t, ErrBadOrigin, outcome.Error)
	test.ExpectEqual(t, uint32(1), outcome.Index)
}

func genJunction() gopter.Gen {
	return gen.IntRange(0, 3).FlatMap(func(v interface{}) gopter.Gen {
		switch v.(int) {
		case 0:
			return gen.UInt32().Map(func(p uint32) types.Junction {
				return types.Parachain(types.ParaId(p))
			})
		case 1:
			return gen.UInt8().Map(func(b uint8) types.Junction {
				var acc types.AccountId
				acc[0] = b
				return types.AccountId32(acc, types.NetworkAny)
			})
		case 2:
			return gen.UInt8().Map(func(b uint8) types.Junction {
				return types.PalletInstance(b)
			})
		default:
			return gen.UInt64().Map(func(i uint64) types.Junction {
				return types.GeneralIndex(i)
			})
		}
	}, reflect.TypeOf(types.Junction{}))
}

func genLocation() gopter.Gen {
	junctions := gen.IntRange(0, 3).FlatMap(func(v interface{}) gopter.Gen {
		return gen.SliceOfN(v.(int), genJunction())
	}, reflect.TypeOf([]types.Junction{}))
	return gopter.CombineGens(gen.UInt8Range(0, 2), junctions).Map(func(vals []interface{}) types.MultiLocation {
		return types.NewMultiLocation(vals[0].(uint8), vals[1].([]types.Junction)...)
	})
}

func genAssets() gopter.Gen {
	asset := gopter.CombineGens(genLocation(), gen.UInt64()).Map(func(vals []interface{}) types.MultiAsset {
		return types.NewMultiAsset(vals[0].(types.MultiLocation), types.NewBalance(vals[1].(uint64)))
	})
	return gen.IntRange(1, 3).FlatMap(func(v interface{}) gopter.Gen {
		return gen.SliceOfN(v.(int), asset)
	}, reflect.TypeOf([]types.MultiAsset{})).Map(func(as []types.MultiAsset) types.MultiAssets {
		return types.NewMultiAssets(as...)
	})
}

func TestDetermineHashProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("hash ignores asset order", prop.ForAll(
		func(origin types.MultiLocation, as types.MultiAssets) bool {
			reversed := make([]types.MultiAsset, len(as))
			for i, a := range as {
				reversed[len(as)-1-i] = a
			}
			return DetermineHash(origin, as) == DetermineHash(origin, types.MultiAssets(reversed))
		},
		genLocation(), genAssets(),
	))

	properties.Property("hash merges split entries", prop.ForAll(
		func(origin types.MultiLocation, as types.MultiAssets) bool {
			split := make(types.MultiAssets, 0, 2*len(as))
			for _, a := range as {
				half := new(types.Balance).Rsh(&a.Amount, 1)
				rest := new(types.Balance).Sub(&a.Amount, half)
				split = append(split, types.NewMultiAsset(a.ID, rest), types.NewMultiAsset(a.ID, half))
			}
			return DetermineHash(origin, as) == DetermineHash(origin, split)
		},
		genLocation(), genAssets(),
	))

	properties.Property("hash binds the origin", prop.ForAll(
		func(origin types.MultiLocation, as types.MultiAssets) bool {
			other := origin.Append(types.PalletInstance(1))
			return DetermineHash(origin, as) != DetermineHash(other, as)
		},
		genLocation(), genAssets(),
	))

	properties.TestingRun(t)
}

func TestEncodingRoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decode inverts encode", prop.ForAll(
		func(as types.MultiAssets, maxAssets uint32, beneficiary types.MultiLocation) (bool, error) {
			prog := Xcm{
				WithdrawAsset(as),
				ClearOrigin(),
				DepositAsset(maxAssets, beneficiary),
			}
			raw, err := prog.Encode()
			if err != nil {
				return false, err
			}
			got, err := Decode(raw)
			if err != nil {
				return false, err
			}
			return MessageHash(raw) == MessageHash(got.mustEncode()), nil
		},
		genAssets(), gen.UInt32(), genLocation(),
	))

	properties.TestingRun(t)
}
