// Copyright 2026 The pb2 Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pb2

import (
	"errors"
	"fmt"

	"github.com/go-pb2/pb2/internal/wire"
)

// The closed error taxonomy from spec.md §4.J. Every codec failure unwraps
// to exactly one of these sentinels; callers should match with errors.Is.
var (
	ErrVarintIncomplete     = wire.ErrVarintIncomplete
	ErrVarintTooLarge       = wire.ErrVarintTooLarge
	ErrFixedIncomplete      = wire.ErrFixedIncomplete
	ErrMsgIncomplete        = errors.New("truncated length-delimited field")
	ErrInvalidLength        = errors.New("invalid length-delimited length")
	ErrTagMismatch          = errors.New("tag mismatch")
	ErrRequiredFieldMissing = errors.New("required field missing")
	ErrValidationFailed     = errors.New("validation failed")
	ErrMoreDataThanRequired = errors.New("trailing data after message")
)

// FieldError decorates one of the sentinel errors above with the
// declared name of the field it occurred in (or, for an error in reading
// a tag or skipping an unknown field, the message's name), the way hyperpb's
// errParse decorates its errCode with a byte offset (error.go).
type FieldError struct {
	Field string
	Err   error
}

// Error implements [error].
func (e *FieldError) Error() string {
	return fmt.Sprintf("pb2: field %q: %v", e.Field, e.Err)
}

// Unwrap implements error unwrapping via [errors.Unwrap].
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: name, Err: err}
}
