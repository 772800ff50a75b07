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

type address struct {
	City string
	Zip  string
}

func addressMessage() *pb2.Message[address] {
	return pb2.NewMessage("Address",
		pb2.String(1, "city", pb2.StringAccessor[address]{
			Get: func(d *address) string { return d.City },
			Set: func(d *address, v string) { d.City = v },
			HasDefault: true,
		}),
		pb2.String(2, "zip", pb2.StringAccessor[address]{
			Get: func(d *address) string { return d.Zip },
			Set: func(d *address, v string) { d.Zip = v },
			HasDefault: true,
		}),
	)
}

type person struct {
	Name    string
	Age     int32
	Tags    []string
	Scores  []int32
	Home    *address
	Attrs   map[string]int32
	Contact pb2.OneofCase
}

func personMessage() *pb2.Message[person] {
	home := addressMessage()
	return pb2.NewMessage("Person",
		pb2.String(1, "name", pb2.StringAccessor[person]{
			Get: func(d *person) string { return d.Name },
			Set: func(d *person, v string) { d.Name = v },
		}), // required: no Has/Clear/Default configured
		pb2.Int32(2, "age", pb2.Accessor[person, int32]{
			Get: func(d *person) int32 { return d.Age },
			Set: func(d *person, v int32) { d.Age = v },
			HasDefault: true,
		}),
		pb2.RepeatedString(3, "tags", pb2.RepeatedAccessor[person, string]{
			Get: func(d *person) []string { return d.Tags },
			Set: func(d *person, v []string) { d.Tags = v },
		}),
		pb2.RepeatedInt32(4, "scores", pb2.RepeatedAccessor[person, int32]{
			Get: func(d *person) []int32 { return d.Scores },
			Set: func(d *person, v []int32) { d.Scores = v },
		}),
		pb2.SubMessage(5, "home", home, pb2.MessageAccessor[person, address]{
			Get: func(d *person) *address { return d.Home },
			Set: func(d *person, v *address) { d.Home = v },
		}),
		pb2.Map(6, "attrs", "string", "int32", pb2.StringMapKey(), pb2.Int32MapValue(),
			pb2.MapAccessor[person, string, int32]{
				Get: func(d *person) map[string]int32 { return d.Attrs },
				Set: func(d *person, v map[string]int32) { d.Attrs = v },
			}),
		pb2.Oneof("contact", pb2.OneofCaseAccessor(func(d *person) *pb2.OneofCase { return &d.Contact }),
			pb2.String(7, "email", pb2.CaseString(7, func(d *person) *pb2.OneofCase { return &d.Contact })),
			pb2.Int64(8, "phone", pb2.CaseValue[person, int64](8, func(d *person) *pb2.OneofCase { return &d.Contact })),
		),
	)
}

func TestMessageRoundTrip(t *testing.T) {
	t.Parallel()
	m := personMessage()

	in := person{
		Name:   "Ada",
		Age:    30,
		Tags:   []string{"engineer", "mathematician"},
		Scores: []int32{1, 2, 3},
		Home:   &address{City: "London", Zip: "E1"},
		Attrs:  map[string]int32{"x": 1, "y": 2},
	}
	in.Contact.Which() // exercise the no-op accessor before activation

	buf := m.Write(&in)

	var out person
	require.NoError(t, m.FullRead(buf, &out))
	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.Age, out.Age)
	require.Equal(t, in.Tags, out.Tags)
	require.Equal(t, in.Scores, out.Scores)
	require.Equal(t, in.Home, out.Home)
	require.Equal(t, in.Attrs, out.Attrs)
}

func TestMessageRequiredFieldMissing(t *testing.T) {
	t.Parallel()
	m := personMessage()

	// "name" is required (no Has/Clear/Default configured): Write always
	// serializes a required field regardless of its value, so the only
	// way to observe the missing-required-field error is to hand-craft
	// wire bytes that never carry field 1's tag — field 2 (age), varint,
	// value 1.
	buf := []byte{0x10, 0x01}
	var out person
	err := m.FullRead(buf, &out)
	require.Error(t, err)
	require.True(t, errors.Is(err, pb2.ErrRequiredFieldMissing))
}

func TestMessageLenPrefixedBackToBack(t *testing.T) {
	t.Parallel()
	m := addressMessage()

	a := address{City: "Paris", Zip: "75000"}
	b := address{City: "Berlin", Zip: "10115"}

	var buf []byte
	buf = append(buf, m.WriteLenPrefixed(&a)...)
	buf = append(buf, m.WriteLenPrefixed(&b)...)

	var gotA, gotB address
	rest, err := m.ReadLenPrefixed(buf, &gotA)
	require.NoError(t, err)
	_, err = m.ReadLenPrefixed(rest, &gotB)
	require.NoError(t, err)
	require.Equal(t, a, gotA)
	require.Equal(t, b, gotB)
}

func TestOneofSwitch(t *testing.T) {
	t.Parallel()
	m := personMessage()
	contact := func(d *person) *pb2.OneofCase { return &d.Contact }

	var in person
	in.Name = "Grace"
	pb2.CaseString(7, contact).Set(&in, "grace@example.com")

	buf := m.Write(&in)
	var out person
	require.NoError(t, m.FullRead(buf, &out))
	require.Equal(t, uint32(7), out.Contact.Which())

	// Switching to the other alternative deactivates the first.
	pb2.CaseValue[person, int64](8, contact).Set(&in, 5551234)
	buf = m.Write(&in)
	out = person{}
	require.NoError(t, m.FullRead(buf, &out))
	require.Equal(t, uint32(8), out.Contact.Which())
}

func TestMessageTruncatedInput(t *testing.T) {
	t.Parallel()
	m := addressMessage()
	a := address{City: "Rome", Zip: "00100"}
	buf := m.Write(&a)

	err := m.FullRead(buf[:len(buf)-1], &address{})
	require.Error(t, err)
}
