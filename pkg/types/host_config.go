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

package types

// Framework maxima for validation code and proof-of-validity sizes.
const (
	MaxCodeSize uint32 = 3 * 1024 * 1024
	MaxPoVSize  uint32 = 5 * 1024 * 1024
)

// HostConfig governs parachain admission, message limits and dispute windows on the relay chain.
type HostConfig struct {
	MinimumValidationUpgradeDelay uint32
	ValidationUpgradeCooldown     uint32
	ValidationUpgradeDelay        uint32
	CodeRetentionPeriod           uint32
	MaxCodeSize                   uint32
	MaxPoVSize                    uint32
	MaxHeadDataSize               uint32
	GroupRotationFrequency        uint32
	ChainAvailabilityPeriod       uint32
	ThreadAvailabilityPeriod      uint32

	MaxUpwardQueueCount               uint32
	MaxUpwardQueueSize                uint32
	MaxDownwardMessageSize            uint32
	UmpServiceTotalWeight             uint64 // ref time
	MaxUpwardMessageSize              uint32
	MaxUpwardMessageNumPerCandidate   uint32
	HrmpSenderDeposit                 uint64
	HrmpRecipientDeposit              uint64
	HrmpChannelMaxCapacity            uint32
	HrmpChannelMaxTotalSize           uint32
	HrmpMaxParachainInboundChannels   uint32
	HrmpMaxParathreadInboundChannels  uint32
	HrmpChannelMaxMessageSize         uint32
	HrmpMaxParachainOutboundChannels  uint32
	HrmpMaxParathreadOutboundChannels uint32
	HrmpMaxMessageNumPerCandidate     uint32

	DisputePeriod           uint32
	NoShowSlots             uint32
	NDelayTranches          uint32
	ZerothDelayTrancheWidth uint32
	NeededApprovals         uint32
	RelayVrfModuloSamples   uint32
}

// Validate checks the internal consistency the message transport relies on.
func (c HostConfig) Validate() error {
	switch {
	case c.MaxUpwardQueueCount == 0 || c.MaxUpwardQueueSize == 0:
		return errHostConfig("upward queue capacity must be non-zero")
	case c.MaxUpwardMessageSize > c.MaxUpwardQueueSize:
		return errHostConfig("max upward message size exceeds the upward queue size")
	case c.HrmpChannelMaxCapacity == 0 || c.HrmpChannelMaxTotalSize == 0:
		return errHostConfig("hrmp channel capacity must be non-zero")
	case c.MaxDownwardMessageSize == 0:
		return errHostConfig("max downward message size must be non-zero")
	case c.NeededApprovals == 0:
		return errHostConfig("needed approvals must be non-zero")
	}
	return nil
}

func errHostConfig(reason string) error {
	return &GenesisError{Chain: "relay", Reason: "host configuration: " + reason}
}
