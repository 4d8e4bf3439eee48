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
	"sort"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/cerc-io/xcm-emulator/pkg/genesis"
	"github.com/cerc-io/xcm-emulator/pkg/prom"
	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

// MaxDeliveries bounds the messages delivered by one ExecuteWith before the network is
// considered to be looping.
const MaxDeliveries = 10_000

// TestNet binds one relay chain to its parachains and carries messages between them.
type TestNet struct {
	mu sync.Mutex

	relayDecl ChainDecl
	paraDecls []ParaDecl

	relay   *Chain
	paras   map[types.ParaId]*Chain
	genesis map[Tag]*state.ChainState

	limits        limits
	queues        map[channel]*queue
	queued        int
	seq           uint64
	sentThisEntry map[channel]int

	id     string
	stats  map[Tag]*chainStats
	gauges []prom.ChainGauges
}

// netIDs labels the metrics of each network built in this process.
var netIDs atomic.Uint64

// chainStats are read by metric scrapes without entering the network.
type chainStats struct {
	blockNumber atomic.Uint64
	entries     atomic.Uint64
}

// New builds a network from its declarations. Every parachain must publish the id it is declared
// under, and the relay chain must carry a host configuration.
func New(relay ChainDecl, paras ...ParaDecl) (*TestNet, error) {
	if relay.Genesis == nil || relay.Genesis.HostConfig == nil {
		return nil, fmt.Errorf("relay chain requires a host configuration")
	}
	if relay.Genesis.ParaID != nil {
		return nil, fmt.Errorf("relay chain genesis declares para id %d", *relay.Genesis.ParaID)
	}
	seen := make(map[types.ParaId]bool, len(paras))
	for _, p := range paras {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate para id %d", p.ID)
		}
		if p.Genesis == nil {
			return nil, fmt.Errorf("para %d has no genesis", p.ID)
		}
		seen[p.ID] = true
	}
	sorted := make([]ParaDecl, len(paras))
	copy(sorted, paras)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	n := &TestNet{
		relayDecl: relay,
		paraDecls: sorted,
		limits:    limitsOf(*relay.Genesis.HostConfig),
		id:        fmt.Sprintf("net%d", netIDs.Add(1)),
	}
	if err := n.build(); err != nil {
		return nil, err
	}
	n.genesis = make(map[Tag]*state.ChainState, len(paras)+1)
	n.stats = make(map[Tag]*chainStats, len(paras)+1)
	for _, c := range n.chains() {
		n.genesis[c.tag] = c.State().Copy()
		n.stats[c.tag] = &chainStats{}
	}
	n.observe()
	n.track()
	return n, nil
}

func (n *TestNet) build() error {
	relay, err := n.buildChain(RelayChain, n.relayDecl)
	if err != nil {
		return err
	}
	if _, isPara := relay.ParaID(); isPara {
		return fmt.Errorf("relay chain runtime reports a para id")
	}
	paras := make(map[types.ParaId]*Chain, len(n.paraDecls))
	for _, decl := range n.paraDecls {
		c, err := n.buildChain(Para(decl.ID), decl.ChainDecl)
		if err != nil {
			return err
		}
		if id, ok := c.ParaID(); !ok || id != decl.ID {
			return fmt.Errorf("para %d publishes para id %d", decl.ID, id)
		}
		paras[decl.ID] = c
	}
	n.relay = relay
	n.paras = paras
	n.queues = make(map[channel]*queue)
	n.queued = 0
	n.seq = 0
	n.sentThisEntry = make(map[channel]int)
	prom.SetQueuedMessages(0)
	return nil
}

func (n *TestNet) buildChain(tag Tag, decl ChainDecl) (*Chain, error) {
	st, err := genesis.Build(decl.Genesis)
	if err != nil {
		return nil, err
	}
	factory := decl.Runtime
	if factory == nil {
		factory = DefaultRuntime
	}
	rt := factory(tag.String(), st, router{net: n, source: tag})
	return &Chain{tag: tag, rt: rt}, nil
}

func (n *TestNet) track() {
	for tag, stats := range n.stats {
		stats := stats
		n.gauges = append(n.gauges, prom.TrackChain(n.id, tag.String(),
			func() float64 { return float64(stats.blockNumber.Load()) },
			func() float64 { return float64(stats.entries.Load()) }))
	}
}

// ID names the network in exported metrics.
func (n *TestNet) ID() string { return n.id }

// Close stops exporting the gauges of every chain.
func (n *TestNet) Close() {
	for _, g := range n.gauges {
		prom.UntrackChain(g)
	}
	n.gauges = nil
}

func (n *TestNet) observe() {
	for _, c := range n.chains() {
		st := c.State()
		n.stats[c.tag].blockNumber.Store(st.BlockNumber())
		n.stats[c.tag].entries.Store(uint64(st.Len()))
	}
}

// Reset rebuilds every chain from its genesis declaration and drops all messages in flight.
func (n *TestNet) Reset() {
	n.lock()
	defer n.mu.Unlock()
	if err := n.build(); err != nil {
		panic(fmt.Errorf("rebuilding network: %w", err))
	}
	for _, c := range n.chains() {
		if !c.State().Equal(n.genesis[c.tag]) {
			panic(fmt.Errorf("%s genesis is not deterministic", c.tag))
		}
	}
	n.observe()
	log.Debug("network reset to genesis")
}

// ExecuteWith runs f against the chain tag, then delivers every message emitted, including
// messages emitted by deliveries, until the network is quiescent. Messages are delivered in the
// order they were sent. A transport overflow panics.
func (n *TestNet) ExecuteWith(tag Tag, f func(c *Chain)) {
	n.lock()
	defer n.mu.Unlock()

	c := n.chain(tag)
	if c == nil {
		panic(fmt.Errorf("unknown chain %s", tag))
	}
	n.resetEntry()
	f(c)
	n.drain()
	n.observe()
}

// lock fails instead of blocking when the network is already entered, so that a nested or
// concurrent ExecuteWith is reported rather than deadlocking.
func (n *TestNet) lock() {
	if !n.mu.TryLock() {
		panic(fmt.Errorf("test network is already in use"))
	}
}

func (n *TestNet) resetEntry() {
	for k := range n.sentThisEntry {
		delete(n.sentThisEntry, k)
	}
}

func (n *TestNet) drain() {
	for delivered := 0; ; delivered++ {
		msg, ok := n.pop()
		if !ok {
			return
		}
		if delivered >= MaxDeliveries {
			panic(&types.TransportError{Message: msg, Reason: "messages did not quiesce"})
		}
		dest := n.destination(msg)
		n.resetEntry()
		log.WithField("dest", dest.tag).Debugf("delivering %s", msg)
		dest.rt.HandleInbound(msg)
	}
}

func (n *TestNet) destination(msg types.NetworkMessage) *Chain {
	if msg.Kind == types.Upward {
		return n.relay
	}
	return n.paras[msg.Dest]
}

func (n *TestNet) chain(tag Tag) *Chain {
	if tag.relay {
		return n.relay
	}
	return n.paras[tag.para]
}

// chains lists the relay chain followed by the parachains in id order.
func (n *TestNet) chains() []*Chain {
	out := []*Chain{n.relay}
	for _, decl := range n.paraDecls {
		out = append(out, n.paras[decl.ID])
	}
	return out
}

// Chain returns the handle of chain tag for inspection outside ExecuteWith.
func (n *TestNet) Chain(tag Tag) (*Chain, bool) {
	n.lock()
	defer n.mu.Unlock()
	c := n.chain(tag)
	return c, c != nil
}

// Tags lists the chains of the network, relay chain first.
func (n *TestNet) Tags() []Tag {
	n.lock()
	defer n.mu.Unlock()
	var tags []Tag
	for _, c := range n.chains() {
		tags = append(tags, c.tag)
	}
	return tags
}

// Genesis returns a copy of the genesis state of chain tag.
func (n *TestNet) Genesis(tag Tag) (*state.ChainState, bool) {
	st, ok := n.genesis[tag]
	if !ok {
		return nil, false
	}
	return st.Copy(), true
}

// Queued returns the number of messages in flight.
func (n *TestNet) Queued() int {
	n.lock()
	defer n.mu.Unlock()
	return n.queued
}

var _ runtime.Router = router{}
