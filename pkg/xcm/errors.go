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

package xcm

import "fmt"

// Error is an XCM execution error.
type Error string

const (
	ErrFailedToTransactAsset    Error = "FailedToTransactAsset"
	ErrUnroutable               Error = "Unroutable"
	ErrBarrier                  Error = "Barrier"
	ErrTooExpensive             Error = "TooExpensive"
	ErrUntrustedReserveLocation Error = "UntrustedReserveLocation"
	ErrBadOrigin                Error = "BadOrigin"
	ErrAssetNotFound            Error = "AssetNotFound"
	ErrWeightLimitReached       Error = "WeightLimitReached"
	ErrNotHoldingFees           Error = "NotHoldingFees"
	ErrUnknownClaim             Error = "UnknownClaim"
	ErrLocationNotInvertible    Error = "LocationNotInvertible"
	ErrTransport                Error = "Transport"
	ErrBadFormat                Error = "BadFormat"
	ErrOverflow                 Error = "Overflow"
)

func (e Error) Error() string { return string(e) }

// Outcome is the result of executing a program.
type Outcome struct {
	Complete bool
	Weight   uint64
	// Index of the instruction that failed; meaningful only when Complete is false.
	Index uint32
	Error Error
}

func (o Outcome) String() string {
	if o.Complete {
		return fmt.Sprintf("Complete(%d)", o.Weight)
	}
	return fmt.Sprintf("Incomplete(%d, %s at %d)", o.Weight, o.Error, o.Index)
}

// Err returns nil for a complete outcome and the execution error otherwise.
func (o Outcome) Err() error {
	if o.Complete {
		return nil
	}
	return o.Error
}
