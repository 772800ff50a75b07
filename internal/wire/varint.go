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
	"errors"
	"math/bits"
)

// Errors returned by the varint decoder. These are the leaves of pb2's
// closed error taxonomy (spec.md §4.J); the parent package wraps them with
// field context.
var (
	ErrVarintIncomplete = errors.New("truncated varint")
	ErrVarintTooLarge   = errors.New("varint overflows target width")
)

// MaxVarintLen64 is the longest a 64-bit varint can be: ceil(64/7) = 10.
const MaxVarintLen64 = 10

// SizeVarint returns the number of bytes needed to encode v, per
// spec.md §4.A: (bits_of_significance(v|1)+6)/7.
func SizeVarint(v uint64) int {
	return (bits.Len64(v|1) + 6) / 7
}

// SizeVarint32 is SizeVarint for a value known to fit in 32 bits, emitted
// (per spec.md §4.A) as if cast to uint64 — i.e. never zig-zagged here.
func SizeVarint32(v uint32) int {
	return SizeVarint(uint64(v))
}

// AppendVarint appends the base-128 little-endian encoding of v to buf.
func AppendVarint(buf []byte, v uint64) []byte {
	for v >= 0x80 {
		buf = append(buf, byte(v)|0x80)
		v >>= 7
	}
	return append(buf, byte(v))
}

// AppendBool appends a boolean as a single 0/1 byte (spec.md §4.A:
// "Booleans consume exactly one byte").
func AppendBool(buf []byte, b bool) []byte {
	if b {
		return append(buf, 1)
	}
	return append(buf, 0)
}

// ConsumeVarint decodes a varint from the front of buf, returning the
// decoded value and the number of bytes consumed. On error n is 0 and the
// caller must not advance its cursor.
//
// Decoding uses an unchecked hot path when at least MaxVarintLen64 bytes
// are available, and a per-byte bounds-checked slow path otherwise, per
// spec.md §4.A.
func ConsumeVarint(buf []byte) (v uint64, n int, err error) {
	if len(buf) >= MaxVarintLen64 {
		return consumeVarintFast(buf)
	}
	return consumeVarintSlow(buf)
}

func consumeVarintFast(buf []byte) (uint64, int, error) {
	_ = buf[9] // bounds check hint, eliminates the rest of the per-byte checks
	var v uint64
	for i := 0; i < MaxVarintLen64; i++ {
		b := buf[i]
		if i == MaxVarintLen64-1 {
			// 10th byte: only the low bit may be set for a 64-bit value.
			if b&0x80 != 0 {
				return 0, 0, ErrVarintIncomplete
			}
			if b > 1 {
				return 0, 0, ErrVarintTooLarge
			}
			v |= uint64(b) << (7 * i)
			return v, i + 1, nil
		}
		v |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	panic("unreachable")
}

func consumeVarintSlow(buf []byte) (uint64, int, error) {
	var v uint64
	for i := 0; i < len(buf) && i < MaxVarintLen64; i++ {
		b := buf[i]
		if i == MaxVarintLen64-1 {
			if b&0x80 != 0 || b > 1 {
				if b&0x80 != 0 {
					return 0, 0, ErrVarintIncomplete
				}
				return 0, 0, ErrVarintTooLarge
			}
			v |= uint64(b) << (7 * i)
			return v, i + 1, nil
		}
		v |= uint64(b&0x7f) << (7 * i)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrVarintIncomplete
}

// ConsumeVarint32 decodes a varint known to be declared as a 32-bit field.
// A terminating byte whose high bits (above bit 31 of the accumulated
// value) are set yields ErrVarintTooLarge, per spec.md §4.A.
func ConsumeVarint32(buf []byte) (uint32, int, error) {
	v, n, err := ConsumeVarint(buf)
	if err != nil {
		return 0, 0, err
	}
	if v>>32 != 0 {
		return 0, 0, ErrVarintTooLarge
	}
	return uint32(v), n, nil
}

// SkipVarint advances past one varint without decoding its value, used by
// the message reader's unknown-tag skip path (spec.md §4.E step 4).
func SkipVarint(buf []byte) (n int, err error) {
	_, n, err = ConsumeVarint(buf)
	return n, err
}

// EncodeZigZag32 maps a signed 32-bit value to unsigned so that
// small-magnitude negatives stay small after varint encoding.
func EncodeZigZag32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

// DecodeZigZag32 is the inverse of EncodeZigZag32.
func DecodeZigZag32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// EncodeZigZag64 maps a signed 64-bit value to unsigned, zig-zag style.
func EncodeZigZag64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// DecodeZigZag64 is the inverse of EncodeZigZag64.
func DecodeZigZag64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}
