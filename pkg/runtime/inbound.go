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
	"github.com/cerc-io/xcm-emulator/pkg/prom"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// HandleInbound executes a message delivered to this chain and records the outcome through the
// event of the queue it arrived on. Failures are never returned: a rejected or incomplete message
// is visible only through events, balances and asset traps.
func (n *Node) HandleInbound(msg types.NetworkMessage) {
	hash := xcm.MessageHash(msg.Payload)
	origin, limit := n.inboundOrigin(msg)
	outcome := n.executeInbound(origin, msg.Payload, limit)

	switch msg.Kind {
	case types.Horizontal:
		if outcome.Complete {
			n.st.Deposit(Success{Hash: hash, Weight: outcome.Weight})
		} else {
			n.st.Deposit(Fail{Hash: hash, Error: outcome.Error, Weight: outcome.Weight})
		}
	case types.Downward:
		n.st.Deposit(ExecutedDownward{Hash: hash, Outcome: outcome})
	case types.Upward:
		n.st.Deposit(ExecutedUpward{Hash: hash, Outcome: outcome})
	}
	prom.IncDeliveredCount(msg.Kind.String())
	n.log.WithField("message", hash).Debugf("%s executed: %s", msg, outcome)
}

// inboundOrigin returns the origin a message executes with and the weight it may use.
func (n *Node) inboundOrigin(msg types.NetworkMessage) (types.MultiLocation, uint64) {
	switch msg.Kind {
	case types.Upward:
		limit := MaxInboundWeight
		if cfg, ok := n.Configuration.ActiveConfig(); ok {
			limit = cfg.UmpServiceTotalWeight
		}
		return types.NewMultiLocation(0, types.Parachain(msg.Source)), limit
	case types.Downward:
		return types.Parent(), MaxInboundWeight
	default:
		return types.NewMultiLocation(1, types.Parachain(msg.Source)), MaxInboundWeight
	}
}

func (n *Node) executeInbound(origin types.MultiLocation, payload []byte, limit uint64) xcm.Outcome {
	program, err := xcm.Decode(payload)
	if err != nil {
		return xcm.Outcome{Error: xcm.ErrBadFormat}
	}
	if err := n.executor.Barrier(program); err != nil {
		return xcm.Outcome{Error: xcm.ErrBarrier}
	}
	return n.executor.Execute(origin, program, limit)
}
