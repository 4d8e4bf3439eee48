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

package genesis

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/cerc-io/xcm-emulator/pkg/runtime"
	"github.com/cerc-io/xcm-emulator/pkg/state"
	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/pkg/xcm"
)

// Spec declares the genesis state of one chain.
type Spec struct {
	// Name identifies the chain in errors and logs.
	Name string

	Balances      []runtime.BalanceGenesis
	Assets        []runtime.AssetGenesis
	Metadata      []runtime.MetadataGenesis
	AssetAccounts []runtime.AssetAccountGenesis

	// ParaID is set for parachains and nil for the relay chain.
	ParaID *types.ParaId
	// SafeXcmVersion is required.
	SafeXcmVersion *uint32
	// HostConfig is only accepted on the relay chain.
	HostConfig *types.HostConfig
}

// ParaIDOf returns a pointer to id, for use in Spec literals.
func ParaIDOf(id types.ParaId) *types.ParaId { return &id }

// VersionOf returns a pointer to v, for use in Spec literals.
func VersionOf(v uint32) *uint32 { return &v }

// Build materialises the spec into a ChainState at block 1 with an empty event log. Identical specs
// produce byte-identical states.
func Build(spec *Spec) (*state.ChainState, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	st := state.New()
	if err := apply(st, spec); err != nil {
		return nil, &types.GenesisError{Chain: spec.Name, Reason: err.Error()}
	}
	if err := st.SetBlockNumber(1); err != nil {
		return nil, err
	}
	st.ResetEvents()
	log.WithField("chain", spec.Name).Debugf("genesis built with root %s", st.Root())
	return st, nil
}

func apply(st *state.ChainState, spec *Spec) error {
	if spec.ParaID != nil {
		if err := runtime.NewParachainInfo(st).Genesis(*spec.ParaID); err != nil {
			return err
		}
	}
	if spec.HostConfig != nil {
		if err := runtime.NewConfiguration(st).Genesis(*spec.HostConfig); err != nil {
			return err
		}
	}
	if err := runtime.NewBalances(st).Genesis(spec.Balances); err != nil {
		return err
	}
	if err := runtime.NewAssets(st).Genesis(spec.Assets, spec.Metadata, spec.AssetAccounts); err != nil {
		return err
	}
	return runtime.SafeXcmVersionGenesis(st, *spec.SafeXcmVersion)
}

func (s *Spec) malformed(format string, args ...interface{}) error {
	return &types.GenesisError{Chain: s.Name, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the spec for inconsistent inputs.
func (s *Spec) Validate() error {
	if s.SafeXcmVersion == nil {
		return s.malformed("missing safe xcm version")
	}
	if *s.SafeXcmVersion != xcm.Version {
		return s.malformed("unsupported safe xcm version %d", *s.SafeXcmVersion)
	}
	if s.HostConfig != nil {
		if s.ParaID != nil {
			return s.malformed("host configuration on parachain %d", *s.ParaID)
		}
		if err := s.HostConfig.Validate(); err != nil {
			return err
		}
	}

	accounts := make(map[types.AccountId]bool, len(s.Balances))
	for _, b := range s.Balances {
		if b.Amount == nil {
			return s.malformed("missing balance for %s", b.Who)
		}
		if accounts[b.Who] {
			return s.malformed("duplicate balance for %s", b.Who)
		}
		accounts[b.Who] = true
	}

	assets := make(map[types.AssetId]runtime.AssetGenesis, len(s.Assets))
	for _, a := range s.Assets {
		if _, ok := assets[a.ID]; ok {
			return s.malformed("duplicate asset %d", a.ID)
		}
		if a.MinBalance == nil || a.MinBalance.IsZero() {
			return s.malformed("asset %d has no minimum balance", a.ID)
		}
		assets[a.ID] = a
	}

	described := make(map[types.AssetId]bool, len(s.Metadata))
	for _, m := range s.Metadata {
		if _, ok := assets[m.ID]; !ok {
			return s.malformed("metadata for unknown asset %d", m.ID)
		}
		if described[m.ID] {
			return s.malformed("duplicate metadata for asset %d", m.ID)
		}
		described[m.ID] = true
	}

	type holding struct {
		id  types.AssetId
		who types.AccountId
	}
	funded := make(map[holding]bool, len(s.AssetAccounts))
	for _, acc := range s.AssetAccounts {
		a, ok := assets[acc.ID]
		if !ok {
			return s.malformed("account %s funded with unknown asset %d", acc.Who, acc.ID)
		}
		if acc.Amount == nil || acc.Amount.Lt(a.MinBalance) {
			return s.malformed("account %s funded below the minimum balance of asset %d", acc.Who, acc.ID)
		}
		key := holding{acc.ID, acc.Who}
		if funded[key] {
			return s.malformed("duplicate funding of asset %d for %s", acc.ID, acc.Who)
		}
		funded[key] = true
	}
	return nil
}
