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
	"bytes"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// MaxInboundWeight bounds the weight a parachain spends on one inbound message.
const MaxInboundWeight uint64 = 100 * xcm.UnitWeightCost

// Runtime is the view the network has of an emulated chain.
type Runtime interface {
	// ParaID returns the parachain id, or false for the relay chain.
	ParaID() (types.ParaId, bool)
	// State returns the chain's storage.
	State() *state.ChainState
	// HandleInbound executes a message delivered by the network.
	HandleInbound(msg types.NetworkMessage)
}

// Router carries messages emitted by a chain to the network.
type Router interface {
	// Validate reports ErrUnroutable-style failures before anything is mutated.
	Validate(msg types.NetworkMessage) error
	// Route queues msg for delivery.
	Route(msg types.NetworkMessage) error
}

// Origin is the caller of an extrinsic: either root or a signed account.
type Origin struct {
	Root    bool
	Account types.AccountId
}

func Root() Origin {
	return Origin{Root: true}
}

func Signed(who types.AccountId) Origin {
	return Origin{Account: who}
}

func (o Origin) String() string {
	if o.Root {
		return "Root"
	}
	return fmt.Sprintf("Signed(%s)", o.Account)
}

// Location returns the location of the origin within its chain.
func (o Origin) Location() types.MultiLocation {
	if o.Root {
		return types.Here()
	}
	return AccountLocation(o.Account)
}

// AccountLocation is the location of a local account.
func AccountLocation(who types.AccountId) types.MultiLocation {
	return types.NewMultiLocation(0, types.AccountId32(who, types.NetworkAny))
}

// Node is an emulated relay chain or parachain runtime. It is a parachain when its state
// carries a ParachainInfo id.
type Node struct {
	name   string
	st     *state.ChainState
	router Router
	paraID types.ParaId
	isPara bool

	Balances      Balances
	Assets        Assets
	ParachainInfo ParachainInfo
	Configuration Configuration
	PolkadotXcm   *PolkadotXcm

	executor *xcm.Executor
	log      *log.Entry
}

var _ Runtime = (*Node)(nil)

// New builds the runtime of a chain over st, sending its outbound messages through router.
func New(name string, st *state.ChainState, router Router) *Node {
	n := &Node{
		name:          name,
		st:            st,
		router:        router,
		Balances:      NewBalances(st),
		Assets:        NewAssets(st),
		ParachainInfo: NewParachainInfo(st),
		Configuration: NewConfiguration(st),
	}
	n.paraID, n.isPara = n.ParachainInfo.ParachainID()
	n.log = log.WithField("chain", name)

	ctx := xcm.RelayContext()
	if n.isPara {
		ctx = xcm.ParaContext(n.paraID)
	}
	n.PolkadotXcm = &PolkadotXcm{node: n, ctx: ctx}
	n.executor = xcm.NewExecutor(xcm.Config{
		Context:    ctx,
		Transactor: transactor{n},
		Sender:     sender{n},
		Trap:       assetTrap{n},
		IsReserve:  n.isReserve,
	})
	return n
}

func (n *Node) Name() string                 { return n.name }
func (n *Node) State() *state.ChainState     { return n.st }
func (n *Node) ParaID() (types.ParaId, bool) { return n.paraID, n.isPara }
func (n *Node) Executor() *xcm.Executor      { return n.executor }

// Events returns the event log, oldest first.
func (n *Node) Events() []types.Event { return n.st.Events() }

// BlockNumber returns the current block number.
func (n *Node) BlockNumber() uint64 { return n.st.BlockNumber() }

// LocationToAccount converts a location, relative to this chain, into the local account that
// represents it.
func (n *Node) LocationToAccount(loc types.MultiLocation) (types.AccountId, bool) {
	if who, ok := loc.AsAccount(); ok {
		return who, true
	}
	if n.isPara {
		if loc.Parents == 1 && len(loc.Interior) == 0 {
			return parentAccount, true
		}
		if id, ok := loc.AsParachain(1); ok {
			return xcm.SiblingSovereignAccount(id), true
		}
		return types.AccountId{}, false
	}
	if id, ok := loc.AsParachain(0); ok {
		return xcm.ParaSovereignAccount(id), true
	}
	return types.AccountId{}, false
}

var parentAccount = func() types.AccountId {
	var acc types.AccountId
	copy(acc[:], "Parent")
	return acc
}()

// IsSovereign reports whether who is an account held on behalf of another chain.
func IsSovereign(who types.AccountId) bool {
	if who == parentAccount {
		return true
	}
	prefix := string(who[:4])
	return (prefix == "para" || prefix == "sibl") && bytes.Equal(who[8:], make([]byte, 24))
}
