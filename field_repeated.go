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
	"github.com/go-pb2/pb2/internal/wire"
)

// RepeatedAccessor is the parameter pack for a repeated field (spec.md
// §4.D). Repeated fields are always optional in proto2's sense — they
// simply omit when the backing slice is empty — so there is no
// has/default/clear to configure, unlike [Accessor].
type RepeatedAccessor[D any, T any] struct {
	Get func(d *D) []T
	Set func(d *D, v []T)
}

// repeatedPackedField implements the packed-repeated form of spec.md
// §4.D: varint and fixed32/fixed64 elements always pack into one tag,
// one varint length, and back-to-back element payloads.
type repeatedPackedField[D any, T any] struct {
	name       string
	id         uint32
	typeName   string
	tag        Tag
	acc        RepeatedAccessor[D, T]
	fixedWidth int // 4 or 8 for fixed-width elements, 0 for varint elements
	toWire     func(T) uint64
	fromWire   func(uint64) T
	// fixedLen, if >0, requires the decoded element count to equal this
	// value exactly (spec.md §4.D "Fixed-size range" backing); 0 means
	// the ordinary resizable-slice backing that accepts any count.
	fixedLen int
}

func (f *repeatedPackedField[D, T]) Name() string           { return f.name }
func (f *repeatedPackedField[D, T]) ID() uint32              { return f.id }
func (f *repeatedPackedField[D, T]) SchemaTypeName() string  { return "repeated " + f.typeName }
func (f *repeatedPackedField[D, T]) Optional() bool          { return true }
func (f *repeatedPackedField[D, T]) WireType() wire.Type     { return wire.Bytes }
func (f *repeatedPackedField[D, T]) setFixedLen(n int)       { f.fixedLen = n }

func (f *repeatedPackedField[D, T]) bodyLen(vs []T) int {
	if f.fixedWidth > 0 {
		return f.fixedWidth * len(vs)
	}
	n := 0
	for _, v := range vs {
		n += wire.SizeVarint(f.toWire(v))
	}
	return n
}

func (f *repeatedPackedField[D, T]) cacheSlots(d *D) int {
	if len(f.acc.Get(d)) == 0 {
		return 0
	}
	return 1
}

func (f *repeatedPackedField[D, T]) wireSize(d *D, lc *lenCache) int {
	vs := f.acc.Get(d)
	if len(vs) == 0 {
		return 0
	}
	body := f.bodyLen(vs)
	lc.push(body)
	return wire.SizeVarint32(uint32(f.tag)) + wire.SizeVarint(uint64(body)) + body
}

func (f *repeatedPackedField[D, T]) appendTo(out []byte, d *D, lc *lenCache) []byte {
	vs := f.acc.Get(d)
	if len(vs) == 0 {
		return out
	}
	body := lc.take()
	out = wire.AppendVarint(out, uint64(f.tag))
	out = wire.AppendVarint(out, uint64(body))
	for _, v := range vs {
		switch f.fixedWidth {
		case 4:
			out = wire.AppendFixed32(out, uint32(f.toWire(v)))
		case 8:
			out = wire.AppendFixed64(out, f.toWire(v))
		default:
			out = wire.AppendVarint(out, f.toWire(v))
		}
	}
	return out
}

func (f *repeatedPackedField[D, T]) readBody(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(f.name, ErrInvalidLength)
	}
	body, rest := buf[:n], buf[n:]

	var vs []T
	if f.fixedWidth > 0 {
		if int(n)%f.fixedWidth != 0 {
			return nil, fieldErr(f.name, ErrInvalidLength)
		}
		vs = make([]T, 0, int(n)/f.fixedWidth)
		for len(body) > 0 {
			var u uint64
			var consumed int
			var err error
			if f.fixedWidth == 4 {
				var v32 uint32
				v32, consumed, err = wire.ConsumeFixed32(body)
				u = uint64(v32)
			} else {
				u, consumed, err = wire.ConsumeFixed64(body)
			}
			if err != nil {
				return nil, fieldErr(f.name, err)
			}
			vs = append(vs, f.fromWire(u))
			body = body[consumed:]
		}
	} else {
		for len(body) > 0 {
			u, consumed, err := wire.ConsumeVarint(body)
			if err != nil {
				return nil, fieldErr(f.name, err)
			}
			vs = append(vs, f.fromWire(u))
			body = body[consumed:]
		}
	}

	if f.fixedLen > 0 && len(vs) != f.fixedLen {
		return nil, fieldErr(f.name, ErrInvalidLength)
	}

	f.acc.Set(d, vs)
	return rest, nil
}

func (f *repeatedPackedField[D, T]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: false,
		read:        f.readBody,
		clearAbsent: func(d *D) { f.acc.Set(d, nil) },
	}}
}

func newRepeatedPacked[D any, T any](
	id uint32, name, typeName string, acc RepeatedAccessor[D, T],
	fixedWidth int, toWire func(T) uint64, fromWire func(uint64) T,
) Field[D] {
	return &repeatedPackedField[D, T]{
		name: name, id: id, typeName: typeName, acc: acc,
		tag: wire.MakeTag(id, wire.Bytes), fixedWidth: fixedWidth, toWire: toWire, fromWire: fromWire,
	}
}

// RepeatedInt32 declares a `repeated int32` field.
func RepeatedInt32[D any](id uint32, name string, acc RepeatedAccessor[D, int32]) Field[D] {
	return newRepeatedPacked(id, name, "int32", acc, 0,
		func(v int32) uint64 { return uint64(int64(v)) }, func(u uint64) int32 { return int32(int64(u)) })
}

// RepeatedInt64 declares a `repeated int64` field.
func RepeatedInt64[D any](id uint32, name string, acc RepeatedAccessor[D, int64]) Field[D] {
	return newRepeatedPacked(id, name, "int64", acc, 0,
		func(v int64) uint64 { return uint64(v) }, func(u uint64) int64 { return int64(u) })
}

// RepeatedUint32 declares a `repeated uint32` field.
func RepeatedUint32[D any](id uint32, name string, acc RepeatedAccessor[D, uint32]) Field[D] {
	return newRepeatedPacked(id, name, "uint32", acc, 0,
		func(v uint32) uint64 { return uint64(v) }, func(u uint64) uint32 { return uint32(u) })
}

// RepeatedUint64 declares a `repeated uint64` field.
func RepeatedUint64[D any](id uint32, name string, acc RepeatedAccessor[D, uint64]) Field[D] {
	return newRepeatedPacked(id, name, "uint64", acc, 0,
		func(v uint64) uint64 { return v }, func(u uint64) uint64 { return u })
}

// RepeatedSInt32 declares a `repeated sint32` field (zig-zag encoded).
func RepeatedSInt32[D any](id uint32, name string, acc RepeatedAccessor[D, int32]) Field[D] {
	return newRepeatedPacked(id, name, "sint32", acc, 0,
		func(v int32) uint64 { return uint64(wire.EncodeZigZag32(v)) },
		func(u uint64) int32 { return wire.DecodeZigZag32(uint32(u)) })
}

// RepeatedSInt64 declares a `repeated sint64` field (zig-zag encoded).
func RepeatedSInt64[D any](id uint32, name string, acc RepeatedAccessor[D, int64]) Field[D] {
	return newRepeatedPacked(id, name, "sint64", acc, 0, wire.EncodeZigZag64, wire.DecodeZigZag64)
}

// RepeatedBool declares a `repeated bool` field. Packed bool elements are
// a string of one-byte varints, not fixed-width framing, so this goes
// through the ordinary varint loop (fixedWidth 0) rather than the
// fixed32/fixed64 chunked path.
func RepeatedBool[D any](id uint32, name string, acc RepeatedAccessor[D, bool]) Field[D] {
	return newRepeatedPacked(id, name, "bool", acc, 0,
		func(v bool) uint64 {
			if v {
				return 1
			}
			return 0
		},
		func(u uint64) bool { return u != 0 })
}

// RepeatedFixed32 declares a `repeated fixed32` field.
func RepeatedFixed32[D any](id uint32, name string, acc RepeatedAccessor[D, uint32]) Field[D] {
	return newRepeatedPacked(id, name, "fixed32", acc, 4,
		func(v uint32) uint64 { return uint64(v) }, func(u uint64) uint32 { return uint32(u) })
}

// RepeatedFixed64 declares a `repeated fixed64` field.
func RepeatedFixed64[D any](id uint32, name string, acc RepeatedAccessor[D, uint64]) Field[D] {
	return newRepeatedPacked(id, name, "fixed64", acc, 8,
		func(v uint64) uint64 { return v }, func(u uint64) uint64 { return u })
}

// RepeatedSFixed32 declares a `repeated sfixed32` field.
func RepeatedSFixed32[D any](id uint32, name string, acc RepeatedAccessor[D, int32]) Field[D] {
	return newRepeatedPacked(id, name, "sfixed32", acc, 4,
		func(v int32) uint64 { return uint64(uint32(v)) }, func(u uint64) int32 { return int32(uint32(u)) })
}

// RepeatedSFixed64 declares a `repeated sfixed64` field.
func RepeatedSFixed64[D any](id uint32, name string, acc RepeatedAccessor[D, int64]) Field[D] {
	return newRepeatedPacked(id, name, "sfixed64", acc, 8,
		func(v int64) uint64 { return uint64(v) }, func(u uint64) int64 { return int64(u) })
}

// RepeatedFloat declares a `repeated float` field.
func RepeatedFloat[D any](id uint32, name string, acc RepeatedAccessor[D, float32]) Field[D] {
	return newRepeatedPacked(id, name, "float", acc, 4, float32ToBits, bitsToFloat32)
}

// RepeatedDouble declares a `repeated double` field.
func RepeatedDouble[D any](id uint32, name string, acc RepeatedAccessor[D, float64]) Field[D] {
	return newRepeatedPacked(id, name, "double", acc, 8, float64ToBits, bitsToFloat64)
}

// fixedLenSetter is implemented by every repeatedPackedField instantiation
// regardless of its element type T, so [WithFixedLen] can reach it through
// a type assertion without itself being generic over T.
type fixedLenSetter interface {
	setFixedLen(n int)
}

// WithFixedLen constrains a packed-repeated field built above to require
// exactly n elements on decode, implementing the "Fixed-size range"
// backing of spec.md §4.D: a wire payload with a different element count
// yields [ErrInvalidLength]. It is a no-op on field kinds that don't
// support a fixed-size backing (unpacked string/bytes/message fields).
func WithFixedLen[D any](f Field[D], n int) Field[D] {
	if s, ok := f.(fixedLenSetter); ok {
		s.setFixedLen(n)
	}
	return f
}

// repeatedUnpackedField implements the unpacked-repeated form of spec.md
// §4.D for len_dlm elements (string, bytes, message): each occurrence
// carries its own tag and length prefix, and the enclosing message
// dispatches one occurrence at a time (spec.md §4.D "Unpacked dispatch").
type repeatedUnpackedField[D any, T any] struct {
	name     string
	id       uint32
	typeName string
	tag      Tag
	acc      RepeatedAccessor[D, T]
	size     func(T) int
	encode   func(out []byte, v T) []byte
	decode   func(body []byte) (T, error)
}

func (f *repeatedUnpackedField[D, T]) Name() string           { return f.name }
func (f *repeatedUnpackedField[D, T]) ID() uint32              { return f.id }
func (f *repeatedUnpackedField[D, T]) SchemaTypeName() string  { return "repeated " + f.typeName }
func (f *repeatedUnpackedField[D, T]) Optional() bool          { return true }
func (f *repeatedUnpackedField[D, T]) WireType() wire.Type     { return wire.Bytes }

func (f *repeatedUnpackedField[D, T]) cacheSlots(d *D) int { return len(f.acc.Get(d)) }

func (f *repeatedUnpackedField[D, T]) wireSize(d *D, lc *lenCache) int {
	total := 0
	for _, v := range f.acc.Get(d) {
		n := f.size(v)
		lc.push(n)
		total += wire.SizeVarint32(uint32(f.tag)) + wire.SizeVarint(uint64(n)) + n
	}
	return total
}

func (f *repeatedUnpackedField[D, T]) appendTo(out []byte, d *D, lc *lenCache) []byte {
	for _, v := range f.acc.Get(d) {
		n := lc.take()
		out = wire.AppendVarint(out, uint64(f.tag))
		out = wire.AppendVarint(out, uint64(n))
		out = f.encode(out, v)
	}
	return out
}

func (f *repeatedUnpackedField[D, T]) readBody(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(f.name, ErrMsgIncomplete)
	}
	body, rest := buf[:n], buf[n:]
	v, err := f.decode(body)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	f.acc.Set(d, append(f.acc.Get(d), v))
	return rest, nil
}

func (f *repeatedUnpackedField[D, T]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: false,
		read:        f.readBody,
		clearAbsent: func(d *D) { f.acc.Set(d, nil) },
	}}
}

// RepeatedBytes declares a `repeated bytes` field.
func RepeatedBytes[D any](id uint32, name string, acc RepeatedAccessor[D, []byte]) Field[D] {
	return &repeatedUnpackedField[D, []byte]{
		name: name, id: id, typeName: "bytes", tag: wire.MakeTag(id, wire.Bytes), acc: acc,
		size:   func(v []byte) int { return len(v) },
		encode: func(out []byte, v []byte) []byte { return append(out, v...) },
		decode: func(body []byte) ([]byte, error) {
			v := make([]byte, len(body))
			copy(v, body)
			return v, nil
		},
	}
}

// RepeatedString declares a `repeated string` field.
func RepeatedString[D any](id uint32, name string, acc RepeatedAccessor[D, string]) Field[D] {
	return &repeatedUnpackedField[D, string]{
		name: name, id: id, typeName: "string", tag: wire.MakeTag(id, wire.Bytes), acc: acc,
		size:   func(v string) int { return len(v) },
		encode: func(out []byte, v string) []byte { return append(out, v...) },
		decode: func(body []byte) (string, error) { return string(body), nil },
	}
}
