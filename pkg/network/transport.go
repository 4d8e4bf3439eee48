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

	"github.com/cerc-io/xcm-emulator/pkg/prom"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// channel identifies an ordered (source, destination, kind) queue. The relay chain is 0.
type channel struct {
	kind types.MessageKind
	src  types.ParaId
	dst  types.ParaId
}

func channelOf(msg types.NetworkMessage) channel {
	switch msg.Kind {
	case types.Upward:
		return channel{kind: msg.Kind, src: msg.Source}
	case types.Downward:
		return channel{kind: msg.Kind, dst: msg.Dest}
	default:
		return channel{kind: msg.Kind, src: msg.Source, dst: msg.Dest}
	}
}

type queued struct {
	seq uint64
	msg types.NetworkMessage
}

type queue struct {
	items []queued
	size  int
}

// limits are the transport capacities taken from the relay host configuration.
type limits struct {
	upwardCount        uint32
	upwardSize         uint32
	upwardMessage      uint32
	upwardPerEntry     uint32
	horizontalCount    uint32
	horizontalSize     uint32
	horizontalMessage  uint32
	horizontalPerEntry uint32
	downwardMessage    uint32
}

func limitsOf(cfg types.HostConfig) limits {
	return limits{
		upwardCount:        cfg.MaxUpwardQueueCount,
		upwardSize:         cfg.MaxUpwardQueueSize,
		upwardMessage:      cfg.MaxUpwardMessageSize,
		upwardPerEntry:     cfg.MaxUpwardMessageNumPerCandidate,
		horizontalCount:    cfg.HrmpChannelMaxCapacity,
		horizontalSize:     cfg.HrmpChannelMaxTotalSize,
		horizontalMessage:  cfg.HrmpChannelMaxMessageSize,
		horizontalPerEntry: cfg.HrmpMaxMessageNumPerCandidate,
		downwardMessage:    cfg.MaxDownwardMessageSize,
	}
}

// check returns the reason msg cannot join q, or "" if it fits.
func (l limits) check(msg types.NetworkMessage, q *queue, sentThisEntry int) string {
	size := uint32(len(msg.Payload))
	count := uint32(len(q.items)) + 1
	total := uint32(q.size) + size
	switch msg.Kind {
	case types.Upward:
		switch {
		case size > l.upwardMessage:
			return fmt.Sprintf("message size %d exceeds %d", size, l.upwardMessage)
		case count > l.upwardCount:
			return fmt.Sprintf("upward queue holds more than %d messages", l.upwardCount)
		case total > l.upwardSize:
			return fmt.Sprintf("upward queue exceeds %d bytes", l.upwardSize)
		case l.upwardPerEntry > 0 && uint32(sentThisEntry) >= l.upwardPerEntry:
			return fmt.Sprintf("more than %d upward messages in one block", l.upwardPerEntry)
		}
	case types.Horizontal:
		switch {
		case size > l.horizontalMessage:
			return fmt.Sprintf("message size %d exceeds %d", size, l.horizontalMessage)
		case count > l.horizontalCount:
			return fmt.Sprintf("channel holds more than %d messages", l.horizontalCount)
		case total > l.horizontalSize:
			return fmt.Sprintf("channel exceeds %d bytes", l.horizontalSize)
		case l.horizontalPerEntry > 0 && uint32(sentThisEntry) >= l.horizontalPerEntry:
			return fmt.Sprintf("more than %d horizontal messages in one block", l.horizontalPerEntry)
		}
	case types.Downward:
		if size > l.downwardMessage {
			return fmt.Sprintf("message size %d exceeds %d", size, l.downwardMessage)
		}
	}
	return ""
}

// router is the runtime.Router handed to one chain.
type router struct {
	net    *TestNet
	source Tag
}

func (r router) Validate(msg types.NetworkMessage) error {
	return r.net.validate(r.source, msg)
}

func (r router) Route(msg types.NetworkMessage) error {
	if err := r.net.validate(r.source, msg); err != nil {
		return err
	}
	r.net.enqueue(msg)
	return nil
}

// validate checks that msg is consistent with its sender and that its destination exists.
func (n *TestNet) validate(source Tag, msg types.NetworkMessage) error {
	switch msg.Kind {
	case types.Upward:
		if source.relay || msg.Source != source.para {
			return xcm.ErrUnroutable
		}
	case types.Downward:
		if !source.relay {
			return xcm.ErrUnroutable
		}
		if _, ok := n.paras[msg.Dest]; !ok {
			return xcm.ErrUnroutable
		}
	case types.Horizontal:
		if source.relay || msg.Source != source.para || msg.Dest == msg.Source {
			return xcm.ErrUnroutable
		}
		if _, ok := n.paras[msg.Dest]; !ok {
			return xcm.ErrUnroutable
		}
	default:
		return xcm.ErrUnroutable
	}
	return nil
}

// enqueue appends msg to its channel. Exceeding a capacity is fatal.
func (n *TestNet) enqueue(msg types.NetworkMessage) {
	ch := channelOf(msg)
	q, ok := n.queues[ch]
	if !ok {
		q = &queue{}
		n.queues[ch] = q
	}
	entry := channel{kind: msg.Kind, src: msg.Source}
	if reason := n.limits.check(msg, q, n.sentThisEntry[entry]); reason != "" {
		panic(&types.TransportError{Message: msg, Reason: reason})
	}
	n.seq++
	q.items = append(q.items, queued{seq: n.seq, msg: msg})
	q.size += len(msg.Payload)
	n.sentThisEntry[entry]++
	n.queued++
	prom.SetQueuedMessages(n.queued)
}

// pop removes the oldest message across all channels.
func (n *TestNet) pop() (types.NetworkMessage, bool) {
	var oldest *queue
	for _, q := range n.queues {
		if len(q.items) == 0 {
			continue
		}
		if oldest == nil || q.items[0].seq < oldest.items[0].seq {
			oldest = q
		}
	}
	if oldest == nil {
		return types.NetworkMessage{}, false
	}
	msg := oldest.items[0].msg
	oldest.items = oldest.items[1:]
	oldest.size -= len(msg.Payload)
	n.queued--
	prom.SetQueuedMessages(n.queued)
	return msg, true
}
