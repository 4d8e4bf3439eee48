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
	"errors"
	"fmt"
)

var (
	// ErrGenesisMalformed marks inconsistent genesis input. Fatal.
	ErrGenesisMalformed = errors.New("genesis malformed")
	// ErrMessageTransport marks an overflow of a configured message queue. Fatal.
	ErrMessageTransport = errors.New("message transport")
	// ErrAssertion marks a scenario post-condition that did not hold. Fatal.
	ErrAssertion = errors.New("assertion failure")
)

// GenesisError is returned by genesis builders that receive inconsistent inputs.
type GenesisError struct {
	Chain  string
	Reason string
}

func (e *GenesisError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrGenesisMalformed, e.Chain, e.Reason)
}

func (e *GenesisError) Unwrap() error { return ErrGenesisMalformed }

// DispatchError reports a call rejected before it mutated state. Module and Reason form the tag
// a scenario matches against; Cause carries the underlying failure for logs.
type DispatchError struct {
	Module string
	Reason string
	Cause  error
}

// NewDispatchError returns a rejection tagged module.reason.
func NewDispatchError(module, reason string) *DispatchError {
	return &DispatchError{Module: module, Reason: reason}
}

func (e *DispatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dispatch rejected: %s.%s: %v", e.Module, e.Reason, e.Cause)
	}
	return fmt.Sprintf("dispatch rejected: %s.%s", e.Module, e.Reason)
}

func (e *DispatchError) Unwrap() error { return e.Cause }

// Is matches on the module and reason tag only.
func (e *DispatchError) Is(target error) bool {
	t, ok := target.(*DispatchError)
	if !ok {
		return false
	}
	return e.Module == t.Module && e.Reason == t.Reason
}

// WithCause returns a copy of the error carrying cause.
func (e *DispatchError) WithCause(cause error) *DispatchError {
	return &DispatchError{Module: e.Module, Reason: e.Reason, Cause: cause}
}

// TransportError reports a message that could not be queued within the configured limits.
type TransportError struct {
	Message NetworkMessage
	Reason  string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMessageTransport, e.Message, e.Reason)
}

func (e *TransportError) Unwrap() error { return ErrMessageTransport }

// AssertionError reports a failed scenario post-condition.
type AssertionError struct {
	Step string
	Msg  string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrAssertion, e.Step, e.Msg)
}

func (e *AssertionError) Unwrap() error { return ErrAssertion }

// Assertf builds an AssertionError for step.
func Assertf(step, format string, args ...interface{}) error {
	return &AssertionError{Step: step, Msg: fmt.Sprintf(format, args...)}
}
