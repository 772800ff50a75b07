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

package wire_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-pb2/pb2/internal/wire"
)

func TestVarintVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    uint64
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"127", 127, []byte{0x7F}},
		{"128", 128, []byte{0x80, 0x01}},
		{"14882", 14882, []byte{0xA2, 0x74}},
		{"2961488830", 2961488830, []byte{0xBE, 0xF7, 0x92, 0x84, 0x0B}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := wire.AppendVarint(nil, tt.v)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, len(tt.want), wire.SizeVarint(tt.v))

			v, n, err := wire.ConsumeVarint(got)
			require.NoError(t, err)
			assert.Equal(t, tt.v, v)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func TestVarintRoundTripAnyWidth(t *testing.T) {
	t.Parallel()
	for _, v := range []uint64{0, 1, 2, 1<<7 - 1, 1 << 7, 1<<14 - 1, 1 << 14, math.MaxUint32, math.MaxUint64} {
		enc := wire.AppendVarint(nil, v)
		assert.Len(t, enc, wire.SizeVarint(v))
		got, n, err := wire.ConsumeVarint(enc)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(enc), n)
	}
}

func TestVarintSignedWithoutZigZagIsAlways10BytesWhenNegative(t *testing.T) {
	t.Parallel()
	for _, v := range []int64{-1, -2, math.MinInt64, math.MinInt32} {
		enc := wire.AppendVarint(nil, uint64(v))
		assert.Len(t, enc, wire.MaxVarintLen64)
	}
	for _, v := range []int64{0, 1, 1000, math.MaxInt64} {
		enc := wire.AppendVarint(nil, uint64(v))
		assert.Less(t, len(enc), wire.MaxVarintLen64)
	}
}

func TestVarintTruncated(t *testing.T) {
	t.Parallel()
	// A continuation byte with nothing following.
	_, _, err := wire.ConsumeVarint([]byte{0x80})
	require.ErrorIs(t, err, wire.ErrVarintIncomplete)

	// Ten continuation bytes with no terminator, padded to trigger the
	// fast path.
	buf := make([]byte, wire.MaxVarintLen64)
	for i := range buf {
		buf[i] = 0x80
	}
	_, _, err = wire.ConsumeVarint(buf)
	require.ErrorIs(t, err, wire.ErrVarintIncomplete)
}

func TestVarintTooLarge(t *testing.T) {
	t.Parallel()
	// An 11th-byte-equivalent: the 10th byte carries bits above bit 63.
	buf := []byte{
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0x02,
	}
	_, _, err := wire.ConsumeVarint(buf)
	require.ErrorIs(t, err, wire.ErrVarintTooLarge)

	_, _, err = wire.ConsumeVarint32([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0x1F})
	require.ErrorIs(t, err, wire.ErrVarintTooLarge)
}

func TestZigZag32(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint32(0), wire.EncodeZigZag32(0))
	assert.Equal(t, uint32(1), wire.EncodeZigZag32(-1))
	assert.Equal(t, uint32(2), wire.EncodeZigZag32(1))
	assert.Equal(t, uint32(0xFFFFFFFF), wire.EncodeZigZag32(math.MinInt32))

	for _, v := range []int32{0, 1, -1, 42, -42, math.MaxInt32, math.MinInt32} {
		assert.Equal(t, v, wire.DecodeZigZag32(wire.EncodeZigZag32(v)))
	}
}

func TestZigZag64(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint64(1), wire.EncodeZigZag64(-1))
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, v, wire.DecodeZigZag64(wire.EncodeZigZag64(v)))
	}
}

func TestTag(t *testing.T) {
	t.Parallel()
	tag := wire.MakeTag(5, wire.Bytes)
	assert.Equal(t, uint32(5), tag.Number())
	assert.Equal(t, wire.Bytes, tag.WireType())
	assert.True(t, tag.Valid())
	assert.False(t, wire.Tag(0).Valid())
}
