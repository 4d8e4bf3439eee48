package runtime_test

import (
	"errors"
	"testing"

	"github.com/cerc-io/xcm-emulator/fixture"
	"github.com/cerc-io/xcm-emulator/internal/mocks"
	"github.com/cerc-io/xcm-emulator/pkg/events"
	"github.com/cerc-io/xcm-emulator/pkg/genesis"
	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
	"github.com/cerc-io/xcm-emulator/test"
)

func TestMain(m *testing.M) {
	test.InitLogging()
	m.Run()
}

func newNode(t *testing.T, spec *genesis.Spec, router runtime.Router) *runtime.Node {
	st, err := genesis.Build(spec)
	test.NoError(t, err)
	return runtime.New(spec.Name, st, router)
}

func trappedTotal(t *testing.T, node *runtime.Node) *types.Balance {
	total, err := node.PolkadotXcm.TrappedTotal(fixture.TransferAsset)
	test.NoError(t, err)
	return total
}

func testAssets(amount *types.Balance) types.MultiAssets {
	return types.NewMultiAssets(types.NewMultiAsset(runtime.LocalAssetLocation(fixture.TransferAsset), amount))
}

// siblingAssets is the test asset as seen from a sibling of its reserve para
func siblingAssets(reserve types.ParaId, amount *types.Balance) types.MultiAssets {
	id := types.NewMultiLocation(1, types.Parachain(reserve), types.PalletInstance(runtime.AssetsIndex), types.GeneralIndex(0))
	return types.NewMultiAssets(types.NewMultiAsset(id, amount))
}

func transfer(node *runtime.Node, dest types.ParaId, amount *types.Balance) error {
	return node.PolkadotXcm.LimitedReserveTransferAssets(
		runtime.Signed(fixture.A),
		fixture.SiblingLocation(dest),
		fixture.AccountLocation(fixture.B),
		testAssets(amount),
		0,
		types.Limited(fixture.WeightLimit),
	)
}

func horizontal(t *testing.T, from, to types.ParaId, msg xcm.Xcm) types.NetworkMessage {
	payload, err := msg.Encode()
	test.NoError(t, err)
	return types.NetworkMessage{Kind: types.Horizontal, Source: from, Dest: to, Payload: payload}
}

func TestNodeRole(t *testing.T) {
	relay := newNode(t, fixture.RelayGenesis(), mocks.NewRouter(t))
	_, isPara := relay.ParaID()
	test.ExpectEqual(t, false, isPara)

	para := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))
	id, isPara := para.ParaID()
	test.ExpectEqual(t, true, isPara)
	test.ExpectEqual(t, fixture.Para2000, id)
	test.ExpectEqual(t, uint64(1), para.BlockNumber())
}

func TestLocationToAccount(t *testing.T) {
	relay := newNode(t, fixture.RelayGenesis(), mocks.NewRouter(t))
	para := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))

	who, ok := relay.LocationToAccount(types.NewMultiLocation(0, types.Parachain(fixture.Para2000)))
	test.ExpectEqual(t, true, ok)
	test.ExpectEqual(t, xcm.ParaSovereignAccount(fixture.Para2000), who)

	who, ok = para.LocationToAccount(fixture.SiblingLocation(fixture.Para3000))
	test.ExpectEqual(t, true, ok)
	test.ExpectEqual(t, xcm.SiblingSovereignAccount(fixture.Para3000), who)

	who, ok = para.LocationToAccount(fixture.AccountLocation(fixture.C))
	test.ExpectEqual(t, true, ok)
	test.ExpectEqual(t, fixture.C, who)

	_, ok = para.LocationToAccount(types.NewMultiLocation(0, types.PalletInstance(7)))
	test.ExpectEqual(t, false, ok)

	test.ExpectEqual(t, true, runtime.IsSovereign(xcm.ParaSovereignAccount(fixture.Para2000)))
	test.ExpectEqual(t, true, runtime.IsSovereign(xcm.SiblingSovereignAccount(fixture.Para3000)))
	test.ExpectEqual(t, false, runtime.IsSovereign(fixture.A))
}

func TestTransferBalance(t *testing.T) {
	node := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))

	test.NoError(t, node.TransferBalance(runtime.Signed(fixture.B), fixture.C, fixture.Units(100)))
	test.ExpectBalance(t, fixture.Units(900), node.Balances.FreeBalance(fixture.B))
	test.ExpectBalance(t, fixture.Units(1100), node.Balances.FreeBalance(fixture.C))
	test.NoError(t, events.Expect(node, runtime.Transfer{From: fixture.B, To: fixture.C, Amount: *fixture.Units(100)}))

	test.ExpectError(t, node.TransferBalance(runtime.Root(), fixture.C, fixture.Units(1)), runtime.ErrBadOrigin)
}

func TestRejectedDispatchReverts(t *testing.T) {
	node := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))
	root := node.State().Root()
	count := len(node.Events())

	err := node.TransferBalance(runtime.Signed(fixture.B), fixture.C, fixture.Units(5000))
	test.ExpectError(t, err, runtime.ErrInsufficientBalance)
	test.ExpectEqual(t, root, node.State().Root())
	test.ExpectEqual(t, count, len(node.Events()))
}

func TestTransferAsset(t *testing.T) {
	node := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))
	a := runtime.Signed(fixture.A)

	test.ExpectError(t, node.TransferAsset(a, fixture.TransferAsset, fixture.B, fixture.Units(10).Sub(fixture.Units(10), types.NewBalance(1))), runtime.ErrWouldDie)
	test.ExpectError(t, node.TransferAsset(a, fixture.TransferAsset, fixture.B, types.NewBalance(1)), runtime.ErrBelowMinimum)
	test.ExpectError(t, node.TransferAsset(a, fixture.TransferAsset, fixture.B, fixture.Units(11)), runtime.ErrBalanceLow)
	test.ExpectError(t, node.TransferAsset(a, 7, fixture.B, fixture.Units(1)), runtime.ErrUnknownAsset)

	test.NoError(t, node.TransferAsset(a, fixture.TransferAsset, fixture.B, fixture.Units(4)))
	test.ExpectBalance(t, fixture.Units(6), node.Assets.Balance(fixture.TransferAsset, fixture.A))
	test.ExpectBalance(t, fixture.Units(4), node.Assets.Balance(fixture.TransferAsset, fixture.B))
	test.ExpectBalance(t, fixture.Units(10), node.Assets.Supply(fixture.TransferAsset))
}

func TestMintAsset(t *testing.T) {
	node := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))

	err := node.MintAsset(runtime.Signed(fixture.B), fixture.TransferAsset, fixture.B, fixture.Units(5))
	test.ExpectError(t, err, types.NewDispatchError(runtime.PalletAssets, "NoPermission"))

	test.NoError(t, node.MintAsset(runtime.Signed(fixture.A), fixture.TransferAsset, fixture.B, fixture.Units(5)))
	test.ExpectBalance(t, fixture.Units(5), node.Assets.Balance(fixture.TransferAsset, fixture.B))
	test.ExpectBalance(t, fixture.Units(15), node.Assets.Supply(fixture.TransferAsset))
	test.NoError(t, events.Expect(node, runtime.Issued{AssetID: fixture.TransferAsset, Owner: fixture.B, Amount: *fixture.Units(5)}))
}

func TestReserveTransferSendsToSibling(t *testing.T) {
	router := mocks.NewRouter(t)
	node := newNode(t, fixture.Para3000Genesis(), router)

	test.NoError(t, transfer(node, fixture.Para2000, fixture.Units(300)))

	test.ExpectBalance(t, fixture.Units(1700), node.Assets.Balance(fixture.TransferAsset, fixture.A))
	sovereign := xcm.SiblingSovereignAccount(fixture.Para2000)
	test.ExpectBalance(t, fixture.Units(300), node.Assets.Balance(fixture.TransferAsset, sovereign))
	test.ExpectBalance(t, fixture.Units(2000), node.Assets.Supply(fixture.TransferAsset))

	sent := router.Sent()
	test.ExpectEqual(t, 1, len(sent))
	msg := sent[0]
	test.ExpectEqual(t, types.Horizontal, msg.Kind)
	test.ExpectEqual(t, fixture.Para3000, msg.Source)
	test.ExpectEqual(t, fixture.Para2000, msg.Dest)

	program, err := xcm.Decode(msg.Payload)
	test.NoError(t, err)
	var ops []xcm.Opcode
	for _, inst := range program {
		ops = append(ops, inst.Op)
	}
	test.ExpectEqual(t, []xcm.Opcode{xcm.OpReserveAssetDeposited, xcm.OpClearOrigin, xcm.OpBuyExecution, xcm.OpDepositAsset}, ops)
	test.ExpectEqual(t, siblingAssets(fixture.Para3000, fixture.Units(300)), program[0].Assets)
	test.ExpectEqual(t, fixture.AccountLocation(fixture.B), program[3].Location)

	test.ExpectEqual(t, 1, len(events.Filter[runtime.XcmpMessageSent](node)))
	attempted := events.Filter[runtime.Attempted](node)
	test.ExpectEqual(t, 1, len(attempted))
	test.ExpectEqual(t, true, attempted[0].Outcome.Complete)
}

func TestReserveTransferRejections(t *testing.T) {
	node := newNode(t, fixture.Para3000Genesis(), mocks.NewRouter(t))
	dest := fixture.SiblingLocation(fixture.Para2000)
	beneficiary := fixture.AccountLocation(fixture.B)
	limit := types.Limited(fixture.WeightLimit)

	err := node.PolkadotXcm.LimitedReserveTransferAssets(runtime.Root(), dest, beneficiary, testAssets(fixture.Units(1)), 0, limit)
	test.ExpectError(t, err, runtime.ErrXcmBadOrigin)

	err = node.PolkadotXcm.LimitedReserveTransferAssets(runtime.Signed(fixture.A), dest, beneficiary, testAssets(fixture.Units(1)), 1, limit)
	test.ExpectError(t, err, runtime.ErrEmpty)

	three := types.NewMultiAssets(
		types.NewMultiAsset(runtime.LocalAssetLocation(0), fixture.Units(1)),
		types.NewMultiAsset(runtime.LocalAssetLocation(1), fixture.Units(1)),
		types.NewMultiAsset(runtime.LocalAssetLocation(2), fixture.Units(1)),
	)
	err = node.PolkadotXcm.LimitedReserveTransferAssets(runtime.Signed(fixture.A), dest, beneficiary, three, 0, limit)
	test.ExpectError(t, err, runtime.ErrTooManyAssets)

	root := node.State().Root()
	err = transfer(node, fixture.Para2000, fixture.Units(10_000))
	test.ExpectError(t, err, runtime.ErrLocalExecutionIncomplete)
	test.ExpectError(t, err, xcm.ErrFailedToTransactAsset)
	test.ExpectEqual(t, root, node.State().Root())
}

func TestReserveTransferUnroutable(t *testing.T) {
	router := &mocks.RejectingRouter{Router: mocks.NewRouter(t), Blocked: fixture.Para2000, Err: xcm.ErrUnroutable}
	node := newNode(t, fixture.Para3000Genesis(), router)
	root := node.State().Root()

	err := transfer(node, fixture.Para2000, fixture.Units(300))
	test.ExpectError(t, err, runtime.ErrLocalExecutionIncomplete)
	test.ExpectError(t, err, xcm.ErrUnroutable)
	test.ExpectEqual(t, root, node.State().Root())
	test.ExpectEqual(t, 0, len(router.Sent()))
}

func TestInboundReserveDeposit(t *testing.T) {
	sender := mocks.NewRouter(t)
	source := newNode(t, fixture.Para3000Genesis(), sender)
	dest := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))

	test.NoError(t, transfer(source, fixture.Para2000, fixture.Units(300)))
	msg := sender.Sent()[0]
	dest.HandleInbound(msg)

	test.ExpectBalance(t, fixture.Units(300), dest.Assets.Balance(fixture.TransferAsset, fixture.B))
	success := events.Filter[runtime.Success](dest)
	test.ExpectEqual(t, 1, len(success))
	test.ExpectEqual(t, xcm.MessageHash(msg.Payload), success[0].Hash)
	test.ExpectEqual(t, 0, len(events.Filter[runtime.AssetsTrapped](dest)))
}

func TestInboundFailures(t *testing.T) {
	reserve := siblingAssets(fixture.Para3000, fixture.Units(300))
	untrusted := siblingAssets(fixture.Para2000, fixture.Units(300))

	cases := []struct {
		name string
		msg  func(t *testing.T) types.NetworkMessage
		want xcm.Error
	}{
		{"bad format", func(t *testing.T) types.NetworkMessage {
			return types.NetworkMessage{Kind: types.Horizontal, Source: fixture.Para3000, Dest: fixture.Para2000, Payload: []byte{0xde, 0xad}}
		}, xcm.ErrBadFormat},
		{"barrier", func(t *testing.T) types.NetworkMessage {
			return horizontal(t, fixture.Para3000, fixture.Para2000, xcm.Xcm{xcm.DepositAsset(1, fixture.AccountLocation(fixture.B))})
		}, xcm.ErrBarrier},
		{"untrusted reserve", func(t *testing.T) types.NetworkMessage {
			return horizontal(t, fixture.Para3000, fixture.Para2000, xcm.Xcm{
				xcm.ReserveAssetDeposited(untrusted),
				xcm.ClearOrigin(),
				xcm.BuyExecution(untrusted[0], types.Unlimited()),
				xcm.DepositAsset(1, fixture.AccountLocation(fixture.B)),
			})
		}, xcm.ErrUntrustedReserveLocation},
		{"fees not held", func(t *testing.T) types.NetworkMessage {
			fees := types.NewMultiAsset(types.Here(), fixture.Units(1))
			return horizontal(t, fixture.Para3000, fixture.Para2000, xcm.Xcm{
				xcm.ReserveAssetDeposited(reserve),
				xcm.ClearOrigin(),
				xcm.BuyExecution(fees, types.Unlimited()),
				xcm.DepositAsset(1, fixture.AccountLocation(fixture.B)),
			})
		}, xcm.ErrNotHoldingFees},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			node := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))
			msg := tc.msg(t)
			node.HandleInbound(msg)

			fails := events.Filter[runtime.Fail](node)
			test.ExpectEqual(t, 1, len(fails))
			test.ExpectEqual(t, tc.want, fails[0].Error)
			test.ExpectEqual(t, xcm.MessageHash(msg.Payload), fails[0].Hash)
			test.ExpectBalance(t, types.NewBalance(0), node.Assets.Balance(fixture.TransferAsset, fixture.B))
		})
	}
}

func TestInboundDepositFailureTraps(t *testing.T) {
	node := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))
	held := siblingAssets(fixture.Para3000, fixture.Units(300))
	node.HandleInbound(horizontal(t, fixture.Para3000, fixture.Para2000, xcm.Xcm{
		xcm.ReserveAssetDeposited(held),
		xcm.ClearOrigin(),
		xcm.BuyExecution(held[0], types.Unlimited()),
		xcm.DepositAsset(1, types.NewMultiLocation(0, types.PalletInstance(7))),
	}))

	fails := events.Filter[runtime.Fail](node)
	test.ExpectEqual(t, 1, len(fails))
	test.ExpectEqual(t, xcm.ErrFailedToTransactAsset, fails[0].Error)

	origin := fixture.SiblingLocation(fixture.Para3000)
	hash := xcm.DetermineHash(origin, held)
	test.NoError(t, events.Expect(node,
		runtime.AssetsTrapped{Hash: hash, Origin: origin, Assets: types.Versioned(held)},
		fails[0],
	))
	test.ExpectEqual(t, uint32(1), node.PolkadotXcm.TrapCount(hash))
	test.ExpectBalance(t, fixture.Units(300), trappedTotal(t, node))
}

func TestExecuteTrapsAndClaims(t *testing.T) {
	node := newNode(t, fixture.Para3000Genesis(), mocks.NewRouter(t))
	assets := testAssets(fixture.Units(10))
	program := xcm.Xcm{xcm.WithdrawAsset(assets)}

	test.NoError(t, node.PolkadotXcm.Execute(runtime.Signed(fixture.A), program, node.Executor().Weight(program)))
	test.ExpectBalance(t, fixture.Units(1990), node.Assets.Balance(fixture.TransferAsset, fixture.A))

	hash := xcm.DetermineHash(fixture.AccountLocation(fixture.A), assets)
	test.ExpectEqual(t, uint32(1), node.PolkadotXcm.TrapCount(hash))
	trapped := events.Filter[runtime.AssetsTrapped](node)
	test.ExpectEqual(t, 1, len(trapped))
	test.ExpectEqual(t, hash, trapped[0].Hash)

	// only the origin that trapped the assets may claim them
	err := node.PolkadotXcm.ClaimAssets(runtime.Signed(fixture.B), assets, fixture.AccountLocation(fixture.B))
	test.ExpectError(t, err, xcm.ErrUnknownClaim)
	test.ExpectEqual(t, uint32(1), node.PolkadotXcm.TrapCount(hash))

	test.NoError(t, node.PolkadotXcm.ClaimAssets(runtime.Signed(fixture.A), assets, fixture.AccountLocation(fixture.C)))
	test.ExpectBalance(t, fixture.Units(10), node.Assets.Balance(fixture.TransferAsset, fixture.C))
	test.ExpectEqual(t, uint32(0), node.PolkadotXcm.TrapCount(hash))
	test.ExpectBalance(t, types.NewBalance(0), trappedTotal(t, node))
	test.ExpectEqual(t, 1, len(events.Filter[runtime.AssetsClaimed](node)))
}

func TestTrapHashIgnoresAssetSpelling(t *testing.T) {
	node := newNode(t, fixture.Para3000Genesis(), mocks.NewRouter(t))
	local := types.NewMultiAsset(runtime.LocalAssetLocation(fixture.TransferAsset), fixture.Units(10))
	native := types.NewMultiAsset(types.Here(), fixture.Units(3))
	written := types.MultiAssets{local, native}
	program := xcm.Xcm{xcm.WithdrawAsset(written)}

	test.NoError(t, node.PolkadotXcm.Execute(runtime.Signed(fixture.A), program, node.Executor().Weight(program)))
	trapped := events.Filter[runtime.AssetsTrapped](node)
	test.ExpectEqual(t, 1, len(trapped))

	origin := fixture.AccountLocation(fixture.A)
	test.ExpectEqual(t, trapped[0].Hash, xcm.DetermineHash(origin, written))
	test.ExpectEqual(t, trapped[0].Hash, xcm.DetermineHash(origin, types.MultiAssets{native, local}))

	half := types.NewMultiAsset(runtime.LocalAssetLocation(fixture.TransferAsset), fixture.Units(5))
	split := types.MultiAssets{native, half, half}
	test.ExpectEqual(t, trapped[0].Hash, xcm.DetermineHash(origin, split))

	claim := xcm.Xcm{
		xcm.ClaimAsset(split, types.Here()),
		xcm.DepositAsset(2, fixture.AccountLocation(fixture.C)),
	}
	test.NoError(t, node.PolkadotXcm.Execute(runtime.Signed(fixture.A), claim, node.Executor().Weight(claim)))
	test.ExpectEqual(t, uint32(0), node.PolkadotXcm.TrapCount(trapped[0].Hash))
	test.ExpectBalance(t, fixture.Units(10), node.Assets.Balance(fixture.TransferAsset, fixture.C))
	test.ExpectBalance(t, fixture.Units(3), node.Balances.FreeBalance(fixture.C))
}

func TestExecuteWeightLimit(t *testing.T) {
	node := newNode(t, fixture.Para3000Genesis(), mocks.NewRouter(t))
	program := xcm.Xcm{xcm.WithdrawAsset(testAssets(fixture.Units(10)))}

	test.NoError(t, node.PolkadotXcm.Execute(runtime.Signed(fixture.A), program, 0))
	attempted := events.Filter[runtime.Attempted](node)
	test.ExpectEqual(t, 1, len(attempted))
	test.ExpectEqual(t, xcm.ErrWeightLimitReached, attempted[0].Outcome.Error)
	test.ExpectBalance(t, fixture.Units(2000), node.Assets.Balance(fixture.TransferAsset, fixture.A))
}

func TestSendUpward(t *testing.T) {
	router := mocks.NewRouter(t)
	para := newNode(t, fixture.Para2000Genesis(), router)
	relay := newNode(t, fixture.RelayGenesis(), mocks.NewRouter(t))

	fees := types.NewMultiAsset(types.Here(), fixture.Units(4))
	program := xcm.Xcm{
		xcm.WithdrawAsset(types.NewMultiAssets(fees)),
		xcm.ClearOrigin(),
		xcm.BuyExecution(fees, types.Unlimited()),
		xcm.DepositAsset(1, fixture.AccountLocation(fixture.C)),
	}

	err := para.PolkadotXcm.Send(runtime.Signed(fixture.A), types.Parent(), program)
	test.ExpectError(t, err, runtime.ErrXcmBadOrigin)

	test.NoError(t, para.PolkadotXcm.Send(runtime.Root(), types.Parent(), program))
	sent := router.Sent()
	test.ExpectEqual(t, 1, len(sent))
	test.ExpectEqual(t, types.Upward, sent[0].Kind)
	test.ExpectEqual(t, fixture.Para2000, sent[0].Source)
	hash := xcm.MessageHash(sent[0].Payload)
	test.NoError(t, events.Expect(para,
		runtime.UpwardMessageSent{Hash: hash},
		runtime.Sent{Origin: types.Here(), Destination: types.Parent(), Message: hash},
	))

	relay.HandleInbound(sent[0])
	test.ExpectBalance(t, fixture.Units(4), relay.Balances.FreeBalance(fixture.C))
	test.ExpectBalance(t, fixture.Units(6), relay.Balances.FreeBalance(xcm.ParaSovereignAccount(fixture.Para2000)))
	executed := events.Filter[runtime.ExecutedUpward](relay)
	test.ExpectEqual(t, 1, len(executed))
	test.ExpectEqual(t, true, executed[0].Outcome.Complete)
}

func TestSendUnreachable(t *testing.T) {
	para := newNode(t, fixture.Para2000Genesis(), mocks.NewRouter(t))
	dest := types.NewMultiLocation(2, types.Parachain(1))
	err := para.PolkadotXcm.Send(runtime.Root(), dest, xcm.Xcm{xcm.ClearOrigin()})
	test.ExpectError(t, err, runtime.ErrUnreachable)
	if !errors.Is(err, xcm.ErrUnroutable) {
		t.Fatalf("expected unroutable cause, got %v", err)
	}
}
