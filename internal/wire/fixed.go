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

package wire

import (
	"encoding/binary"
	"errors"
)

// ErrFixedIncomplete is returned when fewer than the declared width's
// worth of bytes remain for a fixed32/fixed64 field.
var ErrFixedIncomplete = errors.New("truncated fixed-width field")

// AppendFixed32 appends v little-endian.
func AppendFixed32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

// AppendFixed64 appends v little-endian.
func AppendFixed64(buf []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, v)
}

// ConsumeFixed32 reads a little-endian uint32 from the front of buf.
func ConsumeFixed32(buf []byte) (uint32, int, error) {
	if len(buf) < 4 {
		return 0, 0, ErrFixedIncomplete
	}
	return binary.LittleEndian.Uint32(buf), 4, nil
}

// ConsumeFixed64 reads a little-endian uint64 from the front of buf.
func ConsumeFixed64(buf []byte) (uint64, int, error) {
	if len(buf) < 8 {
		return 0, 0, ErrFixedIncomplete
	}
	return binary.LittleEndian.Uint64(buf), 8, nil
}
