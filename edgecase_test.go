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

package pb2_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-pb2/pb2"
)

type scored struct {
	Value int32
}

func scoredMessage() *pb2.Message[scored] {
	return pb2.NewMessage("Scored", pb2.Int32(1, "value", pb2.Accessor[scored, int32]{
		Get:        func(d *scored) int32 { return d.Value },
		Set:        func(d *scored, v int32) { d.Value = v },
		HasDefault: true,
		Validate: func(d *scored) error {
			if d.Value < 0 {
				return pb2.ErrValidationFailed
			}
			return nil
		},
	}))
}

func TestValidatorFailureWrapsFieldName(t *testing.T) {
	t.Parallel()
	m := scoredMessage()
	buf := m.Write(&scored{Value: -5})

	var out scored
	err := m.FullRead(buf, &out)
	require.Error(t, err)
	require.True(t, errors.Is(err, pb2.ErrValidationFailed))

	var fe *pb2.FieldError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "value", fe.Field)
}

func TestUnknownFieldIsSkipped(t *testing.T) {
	t.Parallel()
	m := scoredMessage()

	// Field 9 (varint, unknown to Scored) followed by the known field 1.
	buf := []byte{
		0x48, 0x2a, // tag (9<<3)|0, value 42
		0x08, 0x07, // tag (1<<3)|0, value 7
	}
	var out scored
	require.NoError(t, m.FullRead(buf, &out))
	require.Equal(t, int32(7), out.Value)
}

func TestUnknownGroupWireTypeIsFatal(t *testing.T) {
	t.Parallel()
	m := scoredMessage()

	// Field 9 with wire type 3 (start group), which this package does not
	// support and cannot skip.
	buf := []byte{0x4b} // tag (9<<3)|3
	var out scored
	err := m.FullRead(buf, &out)
	require.Error(t, err)
	require.True(t, errors.Is(err, pb2.ErrTagMismatch))
}

type fixedTriple struct {
	Values []int32
}

func fixedTripleMessage() *pb2.Message[fixedTriple] {
	return pb2.NewMessage("FixedTriple",
		pb2.WithFixedLen(pb2.RepeatedInt32(1, "values", pb2.RepeatedAccessor[fixedTriple, int32]{
			Get: func(d *fixedTriple) []int32 { return d.Values },
			Set: func(d *fixedTriple, v []int32) { d.Values = v },
		}), 3),
	)
}

func TestRepeatedFixedLenMismatch(t *testing.T) {
	t.Parallel()
	m := fixedTripleMessage()

	ok := fixedTriple{Values: []int32{1, 2, 3}}
	buf := m.Write(&ok)
	var out fixedTriple
	require.NoError(t, m.FullRead(buf, &out))
	require.Equal(t, ok.Values, out.Values)

	bad := fixedTriple{Values: []int32{1, 2}}
	buf = m.Write(&bad)
	err := m.FullRead(buf, &fixedTriple{})
	require.Error(t, err)
	require.True(t, errors.Is(err, pb2.ErrInvalidLength))
}

type tallies struct {
	Counts map[string]int32
}

func talliesMessage() *pb2.Message[tallies] {
	return pb2.NewMessage("Tallies",
		pb2.Map(1, "counts", "string", "int32", pb2.StringMapKey(), pb2.Int32MapValue(),
			pb2.MapAccessor[tallies, string, int32]{
				Get: func(d *tallies) map[string]int32 { return d.Counts },
				Set: func(d *tallies, v map[string]int32) { d.Counts = v },
			}),
	)
}

func TestMapTruncatedEntryErrors(t *testing.T) {
	t.Parallel()
	m := talliesMessage()

	// Field 1 (counts, map<string,int32>), tag (1<<3)|2 = 0x0a, with a
	// length prefix claiming more bytes than actually follow.
	buf := []byte{0x0a, 0x10, 0x0a, 0x01, 'x'}
	var out tallies
	err := m.FullRead(buf, &out)
	require.Error(t, err)
	require.True(t, errors.Is(err, pb2.ErrMsgIncomplete))
}
