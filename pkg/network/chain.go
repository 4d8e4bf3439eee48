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

package network

import (
	"fmt"

	"github.com/cerc-io/xcm-emulator/pkg/genesis"
	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// Tag names a chain of the network.
type Tag struct {
	relay bool
	para  types.ParaId
}

// RelayChain is the tag of the relay chain.
var RelayChain = Tag{relay: true}

// Para returns the tag of parachain id.
func Para(id types.ParaId) Tag { return Tag{para: id} }

func (t Tag) String() string {
	if t.relay {
		return "relay"
	}
	return fmt.Sprintf("para%d", t.para)
}

// RuntimeFactory builds the runtime of a chain over its genesis state.
type RuntimeFactory func(name string, st *state.ChainState, router runtime.Router) runtime.Runtime

// DefaultRuntime builds the emulated runtime.
func DefaultRuntime(name string, st *state.ChainState, router runtime.Router) runtime.Runtime {
	return runtime.New(name, st, router)
}

// ChainDecl declares one chain of the network.
type ChainDecl struct {
	Genesis *genesis.Spec
	// Runtime defaults to DefaultRuntime.
	Runtime RuntimeFactory
}

// ParaDecl declares a parachain and the id it is registered under.
type ParaDecl struct {
	ID types.ParaId
	ChainDecl
}

// Chain is a handle on one chain, valid until the next Reset.
type Chain struct {
	tag Tag
	rt  runtime.Runtime
}

func (c *Chain) Tag() Tag                     { return c.tag }
func (c *Chain) IsRelay() bool                { return c.tag.relay }
func (c *Chain) Runtime() runtime.Runtime     { return c.rt }
func (c *Chain) State() *state.ChainState     { return c.rt.State() }
func (c *Chain) ParaID() (types.ParaId, bool) { return c.rt.ParaID() }

// Events returns the chain's event log, oldest first.
func (c *Chain) Events() []types.Event { return c.rt.State().Events() }

// Node returns the emulated runtime, or nil if the chain was declared with another runtime.
func (c *Chain) Node() *runtime.Node {
	node, _ := c.rt.(*runtime.Node)
	return node
}
