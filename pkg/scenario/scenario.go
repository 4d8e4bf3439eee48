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

package scenario

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cerc-io/xcm-emulator/pkg/network"
)

// Scenario is a named assertion sequence over a test network.
type Scenario struct {
	Name        string
	Description string
	Run         func(net *network.TestNet) error
}

// All lists the scenarios in the order they are run.
var All = []Scenario{
	{"reserve-transfer", "reserve transfer of 300 UNITS of asset 0 from para 3000 to para 2000", ReserveTransfer},
	{"reset", "reset restores every chain to genesis", ResetRestoresGenesis},
	{"insufficient-balance", "transfer exceeding the sender's balance is rejected", InsufficientBalance},
	{"unknown-destination", "transfer to an unregistered para is rejected or trapped", UnknownDestination},
	{"conservation", "asset 0 is conserved across a successful transfer", Conservation},
}

// ByName returns the scenario called name.
func ByName(name string) (Scenario, bool) {
	for _, s := range All {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Run resets net and runs s. A fatal fixture error raised as a panic is returned as an error.
func Run(net *network.TestNet, s Scenario) (err error) {
	logger := log.WithField("scenario", s.Name)
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("scenario %s aborted: %w", s.Name, e)
			} else {
				err = fmt.Errorf("scenario %s aborted: %v", s.Name, r)
			}
		}
		if err != nil {
			logger.WithError(err).Error("scenario failed")
		} else {
			logger.Info("scenario passed")
		}
	}()
	net.Reset()
	return s.Run(net)
}
