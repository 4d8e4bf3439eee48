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
	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
)

var (
	paraIDKey         = state.Key(PalletParachainInfo, "ParachainId")
	activeConfigKey   = state.Key(PalletConfiguration, "ActiveConfig")
	safeXcmVersionKey = state.Key(PalletPolkadotXcm, "SafeXcmVersion")
)

// ParachainInfo publishes the id of a parachain.
type ParachainInfo struct {
	st *state.ChainState
}

func NewParachainInfo(st *state.ChainState) ParachainInfo { return ParachainInfo{st: st} }

func (p ParachainInfo) Genesis(id types.ParaId) error {
	return p.st.PutRLP(paraIDKey, uint32(id))
}

// ParachainID returns the id set at genesis; false on the relay chain.
func (p ParachainInfo) ParachainID() (types.ParaId, bool) {
	var id uint32
	ok, err := p.st.GetRLP(paraIDKey, &id)
	return types.ParaId(id), ok && err == nil
}

// Configuration holds the relay chain host configuration.
type Configuration struct {
	st *state.ChainState
}

func NewConfiguration(st *state.ChainState) Configuration { return Configuration{st: st} }

func (c Configuration) Genesis(cfg types.HostConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return c.st.PutRLP(activeConfigKey, cfg)
}

// ActiveConfig returns the host configuration; false if none was set.
func (c Configuration) ActiveConfig() (types.HostConfig, bool) {
	var cfg types.HostConfig
	ok, err := c.st.GetRLP(activeConfigKey, &cfg)
	return cfg, ok && err == nil
}

// SafeXcmVersionGenesis records the XCM version assumed for destinations with no known version.
func SafeXcmVersionGenesis(st *state.ChainState, version uint32) error {
	return st.PutRLP(safeXcmVersionKey, version)
}

// SafeXcmVersion returns the recorded safe version.
func SafeXcmVersion(st *state.ChainState) (uint32, bool) {
	var v uint32
	ok, err := st.GetRLP(safeXcmVersionKey, &v)
	return v, ok && err == nil
}
