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

// varintField implements the varint scalar kinds of spec.md §4.C (bool,
// int32/64, uint32/64, sint32/64). Each proto kind gets its own
// constructor below, supplying the encode/decode/size thunks for T;
// keeping one generic implementation avoids six near-duplicate field
// types the way hyperpb keeps one archetype table per wire-type family
// instead of one type per protoreflect.Kind.
type varintField[D any, T comparable] struct {
	name       string
	id         uint32
	typeName   string
	tag        Tag
	acc        Accessor[D, T]
	toWire     func(T) uint64
	fromWire   func(uint64) T
	staticSize int // 0 when size depends on the value (non-bool)
}

func newVarintField[D any, T comparable](
	id uint32, name, typeName string, acc Accessor[D, T],
	toWire func(T) uint64, fromWire func(uint64) T, staticSize int,
) *varintField[D, T] {
	return &varintField[D, T]{
		name: name, id: id, typeName: typeName, acc: acc,
		tag: wire.MakeTag(id, wire.Varint),
		toWire: toWire, fromWire: fromWire, staticSize: staticSize,
	}
}

func (f *varintField[D, T]) Name() string            { return f.name }
func (f *varintField[D, T]) ID() uint32               { return f.id }
func (f *varintField[D, T]) SchemaTypeName() string   { return f.typeName }
func (f *varintField[D, T]) Optional() bool           { return f.acc.isOptional() }
func (f *varintField[D, T]) WireType() wire.Type      { return wire.Varint }
func (f *varintField[D, T]) cacheSlots(*D) int        { return 0 }

func (f *varintField[D, T]) bodySize(v T) int {
	if f.staticSize != 0 {
		return f.staticSize
	}
	return wire.SizeVarint(f.toWire(v))
}

func (f *varintField[D, T]) wireSize(d *D, _ *lenCache) int {
	if f.acc.isOptional() && !f.acc.has(d) {
		return 0
	}
	return wire.SizeVarint32(uint32(f.tag)) + f.bodySize(f.acc.Get(d))
}

func (f *varintField[D, T]) appendTo(out []byte, d *D, _ *lenCache) []byte {
	if f.acc.isOptional() && !f.acc.has(d) {
		return out
	}
	out = wire.AppendVarint(out, uint64(f.tag))
	v := f.acc.Get(d)
	if f.staticSize == 1 {
		// bool: always exactly one byte.
		return wire.AppendBool(out, f.toWire(v) != 0)
	}
	return wire.AppendVarint(out, f.toWire(v))
}

func (f *varintField[D, T]) readBody(buf []byte, d *D) ([]byte, error) {
	u, n, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	f.acc.Set(d, f.fromWire(u))
	return buf[n:], nil
}

func (f *varintField[D, T]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: !f.acc.isOptional(),
		read: f.readBody, validate: f.acc.validate, clearAbsent: f.acc.clear,
	}}
}

// Bool declares a proto2 `bool` field.
func Bool[D any](id uint32, name string, acc Accessor[D, bool]) Field[D] {
	return newVarintField[D, bool](id, name, "bool", acc,
		func(v bool) uint64 {
			if v {
				return 1
			}
			return 0
		},
		func(u uint64) bool { return u != 0 },
		1,
	)
}

// Int32 declares a proto2 `int32` field (no zig-zag; negatives cost the
// full 10 wire bytes, per spec.md §4.A).
func Int32[D any](id uint32, name string, acc Accessor[D, int32]) Field[D] {
	return newVarintField[D, int32](id, name, "int32", acc,
		func(v int32) uint64 { return uint64(int64(v)) },
		func(u uint64) int32 { return int32(int64(u)) },
		0,
	)
}

// Int64 declares a proto2 `int64` field.
func Int64[D any](id uint32, name string, acc Accessor[D, int64]) Field[D] {
	return newVarintField[D, int64](id, name, "int64", acc,
		func(v int64) uint64 { return uint64(v) },
		func(u uint64) int64 { return int64(u) },
		0,
	)
}

// Uint32 declares a proto2 `uint32` field.
func Uint32[D any](id uint32, name string, acc Accessor[D, uint32]) Field[D] {
	return newVarintField[D, uint32](id, name, "uint32", acc,
		func(v uint32) uint64 { return uint64(v) },
		func(u uint64) uint32 { return uint32(u) },
		0,
	)
}

// Uint64 declares a proto2 `uint64` field.
func Uint64[D any](id uint32, name string, acc Accessor[D, uint64]) Field[D] {
	return newVarintField[D, uint64](id, name, "uint64", acc,
		func(v uint64) uint64 { return v },
		func(u uint64) uint64 { return u },
		0,
	)
}

// SInt32 declares a proto2 `sint32` field (zig-zag encoded).
func SInt32[D any](id uint32, name string, acc Accessor[D, int32]) Field[D] {
	return newVarintField[D, int32](id, name, "sint32", acc,
		func(v int32) uint64 { return uint64(wire.EncodeZigZag32(v)) },
		func(u uint64) int32 { return wire.DecodeZigZag32(uint32(u)) },
		0,
	)
}

// SInt64 declares a proto2 `sint64` field (zig-zag encoded).
func SInt64[D any](id uint32, name string, acc Accessor[D, int64]) Field[D] {
	return newVarintField[D, int64](id, name, "sint64", acc,
		wire.EncodeZigZag64,
		wire.DecodeZigZag64,
		0,
	)
}

// fixedField implements the fixed32/fixed64 scalar kinds of spec.md §4.C
// (fixed32/64, sfixed32/64, float, double): always static-size when
// non-optional.
type fixedField[D any, T comparable] struct {
	name     string
	id       uint32
	typeName string
	tag      Tag
	wt       wire.Type
	width    int // 4 or 8
	acc      Accessor[D, T]
	toWire   func(T) uint64
	fromWire func(uint64) T
}

func (f *fixedField[D, T]) Name() string          { return f.name }
func (f *fixedField[D, T]) ID() uint32            { return f.id }
func (f *fixedField[D, T]) SchemaTypeName() string { return f.typeName }
func (f *fixedField[D, T]) Optional() bool        { return f.acc.isOptional() }
func (f *fixedField[D, T]) WireType() wire.Type   { return f.wt }
func (f *fixedField[D, T]) cacheSlots(*D) int     { return 0 }

func (f *fixedField[D, T]) wireSize(d *D, _ *lenCache) int {
	if f.acc.isOptional() && !f.acc.has(d) {
		return 0
	}
	return wire.SizeVarint32(uint32(f.tag)) + f.width
}

func (f *fixedField[D, T]) appendTo(out []byte, d *D, _ *lenCache) []byte {
	if f.acc.isOptional() && !f.acc.has(d) {
		return out
	}
	out = wire.AppendVarint(out, uint64(f.tag))
	u := f.toWire(f.acc.Get(d))
	if f.width == 4 {
		return wire.AppendFixed32(out, uint32(u))
	}
	return wire.AppendFixed64(out, u)
}

func (f *fixedField[D, T]) readBody(buf []byte, d *D) ([]byte, error) {
	var u uint64
	var n int
	var err error
	if f.width == 4 {
		var v32 uint32
		v32, n, err = wire.ConsumeFixed32(buf)
		u = uint64(v32)
	} else {
		u, n, err = wire.ConsumeFixed64(buf)
	}
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	f.acc.Set(d, f.fromWire(u))
	return buf[n:], nil
}

func (f *fixedField[D, T]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: !f.acc.isOptional(),
		read: f.readBody, validate: f.acc.validate, clearAbsent: f.acc.clear,
	}}
}

func newFixedField[D any, T comparable](
	id uint32, name, typeName string, wt wire.Type, width int, acc Accessor[D, T],
	toWire func(T) uint64, fromWire func(uint64) T,
) Field[D] {
	return &fixedField[D, T]{
		name: name, id: id, typeName: typeName, wt: wt, width: width, acc: acc,
		tag: wire.MakeTag(id, wt), toWire: toWire, fromWire: fromWire,
	}
}

// Fixed32 declares a proto2 `fixed32` field.
func Fixed32[D any](id uint32, name string, acc Accessor[D, uint32]) Field[D] {
	return newFixedField[D, uint32](id, name, "fixed32", wire.Fixed32, 4, acc,
		func(v uint32) uint64 { return uint64(v) },
		func(u uint64) uint32 { return uint32(u) },
	)
}

// Fixed64 declares a proto2 `fixed64` field.
func Fixed64[D any](id uint32, name string, acc Accessor[D, uint64]) Field[D] {
	return newFixedField[D, uint64](id, name, "fixed64", wire.Fixed64, 8, acc,
		func(v uint64) uint64 { return v },
		func(u uint64) uint64 { return u },
	)
}

// SFixed32 declares a proto2 `sfixed32` field.
func SFixed32[D any](id uint32, name string, acc Accessor[D, int32]) Field[D] {
	return newFixedField[D, int32](id, name, "sfixed32", wire.Fixed32, 4, acc,
		func(v int32) uint64 { return uint64(uint32(v)) },
		func(u uint64) int32 { return int32(uint32(u)) },
	)
}

// SFixed64 declares a proto2 `sfixed64` field.
func SFixed64[D any](id uint32, name string, acc Accessor[D, int64]) Field[D] {
	return newFixedField[D, int64](id, name, "sfixed64", wire.Fixed64, 8, acc,
		func(v int64) uint64 { return uint64(v) },
		func(u uint64) int64 { return int64(u) },
	)
}

// Float declares a proto2 `float` field.
func Float[D any](id uint32, name string, acc Accessor[D, float32]) Field[D] {
	return newFixedField[D, float32](id, name, "float", wire.Fixed32, 4, acc,
		float32ToBits, bitsToFloat32,
	)
}

// Double declares a proto2 `double` field.
func Double[D any](id uint32, name string, acc Accessor[D, float64]) Field[D] {
	return newFixedField[D, float64](id, name, "double", wire.Fixed64, 8, acc,
		float64ToBits, bitsToFloat64,
	)
}
