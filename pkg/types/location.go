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

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

// JunctionKind selects the meaning of a Junction.
type JunctionKind uint8

const (
	JunctionParachain JunctionKind = iota
	JunctionAccountId32
	JunctionPalletInstance
	JunctionGeneralIndex
)

// NetworkId qualifies an AccountId32 junction.
type NetworkId uint8

const (
	NetworkAny NetworkId = iota
	NetworkPolkadot
	NetworkKusama
)

// Junction is a single step of an interior location. Only the fields selected by Kind are
// meaningful; the rest stay zero so that junctions compare with ==.
type Junction struct {
	Kind    JunctionKind
	Para    ParaId
	Account AccountId
	Network NetworkId
	Pallet  uint8
	Index   uint256.Int
}

func Parachain(id ParaId) Junction {
	return Junction{Kind: JunctionParachain, Para: id}
}

func AccountId32(id AccountId, network NetworkId) Junction {
	return Junction{Kind: JunctionAccountId32, Account: id, Network: network}
}

func PalletInstance(index uint8) Junction {
	return Junction{Kind: JunctionPalletInstance, Pallet: index}
}

func GeneralIndex(index uint64) Junction {
	j := Junction{Kind: JunctionGeneralIndex}
	j.Index.SetUint64(index)
	return j
}

func (j Junction) String() string {
	switch j.Kind {
	case JunctionParachain:
		return fmt.Sprintf("Parachain(%d)", j.Para)
	case JunctionAccountId32:
		return fmt.Sprintf("AccountId32(%s)", j.Account)
	case JunctionPalletInstance:
		return fmt.Sprintf("PalletInstance(%d)", j.Pallet)
	case JunctionGeneralIndex:
		return fmt.Sprintf("GeneralIndex(%s)", j.Index.ToBig().String())
	default:
		return fmt.Sprintf("Junction(%d)", j.Kind)
	}
}

type junctionRLP struct {
	Kind    uint8
	Para    uint32
	Account AccountId
	Network uint8
	Pallet  uint8
	Index   *big.Int
}

// EncodeRLP implements rlp.Encoder
func (j Junction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, junctionRLP{
		Kind:    uint8(j.Kind),
		Para:    uint32(j.Para),
		Account: j.Account,
		Network: uint8(j.Network),
		Pallet:  j.Pallet,
		Index:   j.Index.ToBig(),
	})
}

// DecodeRLP implements rlp.Decoder
func (j *Junction) DecodeRLP(s *rlp.Stream) error {
	var enc junctionRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	if enc.Kind > uint8(JunctionGeneralIndex) {
		return fmt.Errorf("unknown junction kind %d", enc.Kind)
	}
	index, overflow := uint256.FromBig(enc.Index)
	if overflow {
		return fmt.Errorf("general index overflows 256 bits")
	}
	*j = Junction{
		Kind:    JunctionKind(enc.Kind),
		Para:    ParaId(enc.Para),
		Account: enc.Account,
		Network: NetworkId(enc.Network),
		Pallet:  enc.Pallet,
		Index:   *index,
	}
	return nil
}

// Junctions is the ordered interior of a location.
type Junctions []Junction

// MultiLocation is a relative address: Parents steps up, then Interior steps down.
type MultiLocation struct {
	Parents  uint8
	Interior Junctions
}

// NewMultiLocation builds a location. An empty interior is normalised to nil.
func NewMultiLocation(parents uint8, junctions ...Junction) MultiLocation {
	if len(junctions) == 0 {
		return MultiLocation{Parents: parents}
	}
	interior := make(Junctions, len(junctions))
	copy(interior, junctions)
	return MultiLocation{Parents: parents, Interior: interior}
}

// Here is the location of the current consensus system.
func Here() MultiLocation { return MultiLocation{} }

// Parent is the location of the parent consensus system.
func Parent() MultiLocation { return MultiLocation{Parents: 1} }

func (l MultiLocation) Equal(o MultiLocation) bool {
	if l.Parents != o.Parents || len(l.Interior) != len(o.Interior) {
		return false
	}
	for i := range l.Interior {
		if l.Interior[i] != o.Interior[i] {
			return false
		}
	}
	return true
}

// IsHere reports whether the location points at the current consensus system.
func (l MultiLocation) IsHere() bool { return l.Parents == 0 && len(l.Interior) == 0 }

// Append returns a copy of l with js pushed onto the interior.
func (l MultiLocation) Append(js ...Junction) MultiLocation {
	interior := make(Junctions, 0, len(l.Interior)+len(js))
	interior = append(interior, l.Interior...)
	interior = append(interior, js...)
	return NewMultiLocation(l.Parents, interior...)
}

// First returns the first interior junction.
func (l MultiLocation) First() (Junction, bool) {
	if len(l.Interior) == 0 {
		return Junction{}, false
	}
	return l.Interior[0], true
}

// Last returns the last interior junction.
func (l MultiLocation) Last() (Junction, bool) {
	if len(l.Interior) == 0 {
		return Junction{}, false
	}
	return l.Interior[len(l.Interior)-1], true
}

// AsAccount returns the account of a (0, [AccountId32]) location.
func (l MultiLocation) AsAccount() (AccountId, bool) {
	if l.Parents != 0 || len(l.Interior) != 1 || l.Interior[0].Kind != JunctionAccountId32 {
		return AccountId{}, false
	}
	return l.Interior[0].Account, true
}

// AsParachain returns the para id of a (parents, [Parachain]) location.
func (l MultiLocation) AsParachain(parents uint8) (ParaId, bool) {
	if l.Parents != parents || len(l.Interior) != 1 || l.Interior[0].Kind != JunctionParachain {
		return 0, false
	}
	return l.Interior[0].Para, true
}

func (l MultiLocation) String() string {
	parts := make([]string, len(l.Interior))
	for i, j := range l.Interior {
		parts[i] = j.String()
	}
	return fmt.Sprintf("(%d, [%s])", l.Parents, strings.Join(parts, ", "))
}

// Bytes returns the canonical encoding of the location.
func (l MultiLocation) Bytes() []byte {
	enc, err := rlp.EncodeToBytes(l)
	if err != nil {
		// junction encoding cannot fail for in-memory values
		panic(err)
	}
	return enc
}

type locationRLP struct {
	Parents  uint8
	Interior []Junction
}

// EncodeRLP implements rlp.Encoder
func (l MultiLocation) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, locationRLP{Parents: l.Parents, Interior: l.Interior})
}

// DecodeRLP implements rlp.Decoder
func (l *MultiLocation) DecodeRLP(s *rlp.Stream) error {
	var enc locationRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	*l = NewMultiLocation(enc.Parents, enc.Interior...)
	return nil
}

// MultiAsset is an amount of the fungible asset class identified by ID.
type MultiAsset struct {
	ID     MultiLocation
	Amount Balance
}

// NewMultiAsset copies amount into a new asset.
func NewMultiAsset(id MultiLocation, amount *Balance) MultiAsset {
	return MultiAsset{ID: id, Amount: *amount}
}

func (a MultiAsset) String() string {
	return fmt.Sprintf("%s x %s", a.ID, a.Amount.ToBig().String())
}

type assetRLP struct {
	ID     MultiLocation
	Amount *big.Int
}

// EncodeRLP implements rlp.Encoder
func (a MultiAsset) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, assetRLP{ID: a.ID, Amount: a.Amount.ToBig()})
}

// DecodeRLP implements rlp.Decoder
func (a *MultiAsset) DecodeRLP(s *rlp.Stream) error {
	var enc assetRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	amount, overflow := uint256.FromBig(enc.Amount)
	if overflow {
		return fmt.Errorf("asset amount overflows 256 bits")
	}
	*a = MultiAsset{ID: enc.ID, Amount: *amount}
	return nil
}

// MultiAssets is a set of assets ordered by the encoding of their ids, with one entry per id.
type MultiAssets []MultiAsset

// ErrAssetOverflow is returned when merging entries that share an id overflows 256 bits.
var ErrAssetOverflow = errors.New("asset amount overflows 256 bits")

// NormalizeMultiAssets sorts the assets and merges entries sharing an id.
func NormalizeMultiAssets(assets ...MultiAsset) (MultiAssets, error) {
	if len(assets) == 0 {
		return nil, nil
	}
	sorted := make(MultiAssets, len(assets))
	copy(sorted, assets)
	sort.SliceStable(sorted, func(i, k int) bool {
		return bytes.Compare(sorted[i].ID.Bytes(), sorted[k].ID.Bytes()) < 0
	})
	merged := sorted[:1]
	for _, a := range sorted[1:] {
		last := &merged[len(merged)-1]
		if last.ID.Equal(a.ID) {
			sum, ok := CheckedAdd(&last.Amount, &a.Amount)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrAssetOverflow, a.ID)
			}
			last.Amount = *sum
			continue
		}
		merged = append(merged, a)
	}
	return merged, nil
}

// NewMultiAssets is NormalizeMultiAssets for asset sets whose merged amounts fit in 256 bits.
// It panics on overflow.
func NewMultiAssets(assets ...MultiAsset) MultiAssets {
	as, err := NormalizeMultiAssets(assets...)
	if err != nil {
		panic(err)
	}
	return as
}

// Get returns the asset at index i.
func (as MultiAssets) Get(i uint32) (MultiAsset, bool) {
	if int(i) >= len(as) {
		return MultiAsset{}, false
	}
	return as[i], true
}

// Find returns the asset with the given id.
func (as MultiAssets) Find(id MultiLocation) (MultiAsset, bool) {
	for _, a := range as {
		if a.ID.Equal(id) {
			return a, true
		}
	}
	return MultiAsset{}, false
}

func (as MultiAssets) IsEmpty() bool { return len(as) == 0 }

type assetsRLP struct {
	Assets []MultiAsset
}

// EncodeRLP implements rlp.Encoder
func (as MultiAssets) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, assetsRLP{Assets: as})
}

// DecodeRLP implements rlp.Decoder
func (as *MultiAssets) DecodeRLP(s *rlp.Stream) error {
	var enc assetsRLP
	if err := s.Decode(&enc); err != nil {
		return err
	}
	norm, err := NormalizeMultiAssets(enc.Assets...)
	if err != nil {
		return err
	}
	*as = norm
	return nil
}

// MultiAssetsVersion is the version tag carried by VersionedMultiAssets.
const MultiAssetsVersion uint8 = 1

// VersionedMultiAssets tags a set of assets with its encoding version.
type VersionedMultiAssets struct {
	Version uint8
	Assets  MultiAssets
}

// Versioned wraps assets in the current version.
func Versioned(assets MultiAssets) VersionedMultiAssets {
	return VersionedMultiAssets{Version: MultiAssetsVersion, Assets: assets}
}

// WeightLimit bounds the weight a remote chain may spend executing a message.
type WeightLimit struct {
	Limited bool
	Weight  uint64
}

func Unlimited() WeightLimit { return WeightLimit{} }

func Limited(weight uint64) WeightLimit { return WeightLimit{Limited: true, Weight: weight} }

// Allows reports whether weight fits within the limit.
func (w WeightLimit) Allows(weight uint64) bool { return !w.Limited || weight <= w.Weight }

func (w WeightLimit) String() string {
	if !w.Limited {
		return "Unlimited"
	}
	return fmt.Sprintf("Limited(%d)", w.Weight)
}
