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

// mapCodec is one side (key or value) of a map entry: enough to size,
// append, and parse one scalar occurrence without needing the rest of
// the [Field] interface, since a map entry's key and value never carry
// their own presence, default, or repeated-ness (spec.md §4.F).
type mapCodec[T any] struct {
	wt     wire.Type
	size   func(T) int
	append func(out []byte, v T) []byte
	read   func(buf []byte) (T, []byte, error)
}

func varintMapCodec[T any](toWire func(T) uint64, fromWire func(uint64) T) mapCodec[T] {
	return mapCodec[T]{
		wt:   wire.Varint,
		size: func(v T) int { return wire.SizeVarint(toWire(v)) },
		append: func(out []byte, v T) []byte {
			return wire.AppendVarint(out, toWire(v))
		},
		read: func(buf []byte) (T, []byte, error) {
			u, n, err := wire.ConsumeVarint(buf)
			var zero T
			if err != nil {
				return zero, nil, err
			}
			return fromWire(u), buf[n:], nil
		},
	}
}

func fixedMapCodec[T any](width int, toWire func(T) uint64, fromWire func(uint64) T) mapCodec[T] {
	wt := wire.Fixed32
	if width == 8 {
		wt = wire.Fixed64
	}
	return mapCodec[T]{
		wt:   wt,
		size: func(T) int { return width },
		append: func(out []byte, v T) []byte {
			if width == 4 {
				return wire.AppendFixed32(out, uint32(toWire(v)))
			}
			return wire.AppendFixed64(out, toWire(v))
		},
		read: func(buf []byte) (T, []byte, error) {
			var zero T
			if width == 4 {
				v, n, err := wire.ConsumeFixed32(buf)
				if err != nil {
					return zero, nil, err
				}
				return fromWire(uint64(v)), buf[n:], nil
			}
			v, n, err := wire.ConsumeFixed64(buf)
			if err != nil {
				return zero, nil, err
			}
			return fromWire(v), buf[n:], nil
		},
	}
}

func bytesMapCodec[T any](toBytes func(T) []byte, fromBytes func([]byte) T) mapCodec[T] {
	return mapCodec[T]{
		wt:   wire.Bytes,
		size: func(v T) int { return len(toBytes(v)) },
		append: func(out []byte, v T) []byte {
			return append(out, toBytes(v)...)
		},
		read: func(body []byte) (T, []byte, error) {
			cp := make([]byte, len(body))
			copy(cp, body)
			return fromBytes(cp), nil, nil
		},
	}
}

// Int32MapKey, StringMapKey, and friends below hand back a mapCodec for
// every scalar kind spec.md §4.F allows as a map key: the varint integer
// kinds, fixed32/64 and their signed forms, and string.
func Int32MapKey() mapCodec[int32] {
	return varintMapCodec(func(v int32) uint64 { return uint64(int64(v)) }, func(u uint64) int32 { return int32(int64(u)) })
}
func Int64MapKey() mapCodec[int64] {
	return varintMapCodec(func(v int64) uint64 { return uint64(v) }, func(u uint64) int64 { return int64(u) })
}
func Uint32MapKey() mapCodec[uint32] {
	return varintMapCodec(func(v uint32) uint64 { return uint64(v) }, func(u uint64) uint32 { return uint32(u) })
}
func Uint64MapKey() mapCodec[uint64] {
	return varintMapCodec(func(v uint64) uint64 { return v }, func(u uint64) uint64 { return u })
}
func SInt32MapKey() mapCodec[int32] {
	return varintMapCodec(func(v int32) uint64 { return uint64(wire.EncodeZigZag32(v)) }, func(u uint64) int32 { return wire.DecodeZigZag32(uint32(u)) })
}
func SInt64MapKey() mapCodec[int64] {
	return varintMapCodec(wire.EncodeZigZag64, wire.DecodeZigZag64)
}
func BoolMapKey() mapCodec[bool] {
	return varintMapCodec(func(v bool) uint64 {
		if v {
			return 1
		}
		return 0
	}, func(u uint64) bool { return u != 0 })
}
func Fixed32MapKey() mapCodec[uint32] {
	return fixedMapCodec(4, func(v uint32) uint64 { return uint64(v) }, func(u uint64) uint32 { return uint32(u) })
}
func Fixed64MapKey() mapCodec[uint64] {
	return fixedMapCodec(8, func(v uint64) uint64 { return v }, func(u uint64) uint64 { return u })
}
func SFixed32MapKey() mapCodec[int32] {
	return fixedMapCodec(4, func(v int32) uint64 { return uint64(uint32(v)) }, func(u uint64) int32 { return int32(uint32(u)) })
}
func SFixed64MapKey() mapCodec[int64] {
	return fixedMapCodec(8, func(v int64) uint64 { return uint64(v) }, func(u uint64) int64 { return int64(u) })
}
func StringMapKey() mapCodec[string] {
	return bytesMapCodec(func(v string) []byte { return []byte(v) }, func(b []byte) string { return string(b) })
}

// Scalar map-value codecs mirror the scalar field kinds of
// field_scalar.go; MessageMapValue below handles the sub-message case.
func Int32MapValue() mapCodec[int32]    { return Int32MapKey() }
func Int64MapValue() mapCodec[int64]    { return Int64MapKey() }
func Uint32MapValue() mapCodec[uint32]  { return Uint32MapKey() }
func Uint64MapValue() mapCodec[uint64]  { return Uint64MapKey() }
func SInt32MapValue() mapCodec[int32]   { return SInt32MapKey() }
func SInt64MapValue() mapCodec[int64]   { return SInt64MapKey() }
func BoolMapValue() mapCodec[bool]      { return BoolMapKey() }
func Fixed32MapValue() mapCodec[uint32] { return Fixed32MapKey() }
func Fixed64MapValue() mapCodec[uint64] { return Fixed64MapKey() }
func SFixed32MapValue() mapCodec[int32] { return SFixed32MapKey() }
func SFixed64MapValue() mapCodec[int64] { return SFixed64MapKey() }
func StringMapValue() mapCodec[string]  { return StringMapKey() }
func BytesMapValue() mapCodec[[]byte] {
	return bytesMapCodec(func(v []byte) []byte { return v }, func(b []byte) []byte { return b })
}
func FloatMapValue() mapCodec[float32] {
	return fixedMapCodec(4, float32ToBits, bitsToFloat32)
}
func DoubleMapValue() mapCodec[float64] {
	return fixedMapCodec(8, float64ToBits, bitsToFloat64)
}

// MessageMapValue builds a map-value codec from a nested [Message]
// descriptor, for `map<K, SubMessage>` (spec.md §4.F — any field kind
// except map, repeated, or oneof is a legal map value).
func MessageMapValue[C any](sub *Message[C]) mapCodec[*C] {
	return mapCodec[*C]{
		wt:   wire.Bytes,
		size: func(c *C) int { return len(sub.Write(c)) },
		append: func(out []byte, c *C) []byte {
			return append(out, sub.Write(c)...)
		},
		read: func(body []byte) (*C, []byte, error) {
			c := new(C)
			if _, err := sub.bodyRead(body, c); err != nil {
				return nil, nil, err
			}
			return c, nil, nil
		},
	}
}

// MapAccessor is the parameter pack for a map field.
type MapAccessor[D any, K comparable, V any] struct {
	Get func(d *D) map[K]V
	Set func(d *D, v map[K]V)
}

// mapField implements spec.md §4.F: a map<K, V> is framed on the wire as
// a repeated, unpacked synthetic two-field entry message (field 1 = key,
// field 2 = value), with duplicate keys across occurrences resolving to
// the last one seen (proto2's standard map merge rule).
type mapField[D any, K comparable, V any] struct {
	name    string
	id      uint32
	keyType string
	valType string
	tag     Tag
	key     mapCodec[K]
	val     mapCodec[V]
	keyTag  Tag
	valTag  Tag
	acc     MapAccessor[D, K, V]
}

func newMapField[D any, K comparable, V any](id uint32, name, keyType, valType string, key mapCodec[K], val mapCodec[V], acc MapAccessor[D, K, V]) Field[D] {
	return &mapField[D, K, V]{
		name: name, id: id, keyType: keyType, valType: valType,
		tag:    wire.MakeTag(id, wire.Bytes),
		key:    key,
		val:    val,
		keyTag: wire.MakeTag(1, key.wt), valTag: wire.MakeTag(2, val.wt),
		acc: acc,
	}
}

// Map declares a `map<K, V>` field from a key codec ([Int32MapKey] and
// friends) and a value codec ([Int32MapValue], [StringMapValue],
// [MessageMapValue], ...).
func Map[D any, K comparable, V any](id uint32, name, keyType, valType string, key mapCodec[K], val mapCodec[V], acc MapAccessor[D, K, V]) Field[D] {
	return newMapField(id, name, keyType, valType, key, val, acc)
}

func (f *mapField[D, K, V]) Name() string          { return f.name }
func (f *mapField[D, K, V]) ID() uint32             { return f.id }
func (f *mapField[D, K, V]) SchemaTypeName() string { return "map<" + f.keyType + ", " + f.valType + ">" }
func (f *mapField[D, K, V]) Optional() bool         { return true }
func (f *mapField[D, K, V]) WireType() wire.Type    { return wire.Bytes }

func (f *mapField[D, K, V]) keyBodySize(k K) int {
	if f.key.wt == wire.Bytes {
		return wire.SizeVarint(uint64(f.key.size(k))) + f.key.size(k)
	}
	return f.key.size(k)
}

func (f *mapField[D, K, V]) valBodySize(v V) int {
	if f.val.wt == wire.Bytes {
		return wire.SizeVarint(uint64(f.val.size(v))) + f.val.size(v)
	}
	return f.val.size(v)
}

func (f *mapField[D, K, V]) entrySize(k K, v V) int {
	return wire.SizeVarint32(uint32(f.keyTag)) + f.keyBodySize(k) +
		wire.SizeVarint32(uint32(f.valTag)) + f.valBodySize(v)
}

func (f *mapField[D, K, V]) cacheSlots(d *D) int { return len(f.acc.Get(d)) }

func (f *mapField[D, K, V]) wireSize(d *D, lc *lenCache) int {
	total := 0
	for k, v := range f.acc.Get(d) {
		n := f.entrySize(k, v)
		lc.push(n)
		total += wire.SizeVarint32(uint32(f.tag)) + wire.SizeVarint(uint64(n)) + n
	}
	return total
}

func (f *mapField[D, K, V]) appendEntry(out []byte, k K, v V) []byte {
	out = wire.AppendVarint(out, uint64(f.keyTag))
	if f.key.wt == wire.Bytes {
		out = wire.AppendVarint(out, uint64(f.key.size(k)))
	}
	out = f.key.append(out, k)
	out = wire.AppendVarint(out, uint64(f.valTag))
	if f.val.wt == wire.Bytes {
		out = wire.AppendVarint(out, uint64(f.val.size(v)))
	}
	out = f.val.append(out, v)
	return out
}

func (f *mapField[D, K, V]) appendTo(out []byte, d *D, lc *lenCache) []byte {
	for k, v := range f.acc.Get(d) {
		// Go map iteration order differs between the size pass and this
		// one, so the slot at this position may hold another entry's
		// length: consume it to keep the cursor aligned, and recompute.
		lc.take()
		n := f.entrySize(k, v)
		out = wire.AppendVarint(out, uint64(f.tag))
		out = wire.AppendVarint(out, uint64(n))
		out = f.appendEntry(out, k, v)
	}
	return out
}

func (f *mapField[D, K, V]) readBody(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(f.name, ErrMsgIncomplete)
	}
	body, rest := buf[:n], buf[n:]

	var key K
	var val V
	for len(body) > 0 {
		tv, tn, err := wire.ConsumeVarint(body)
		if err != nil {
			return nil, fieldErr(f.name, err)
		}
		body = body[tn:]
		tag := Tag(tv)
		switch tag {
		case f.keyTag:
			if f.key.wt == wire.Bytes {
				ln, ln2, err := wire.ConsumeVarint(body)
				if err != nil {
					return nil, fieldErr(f.name, err)
				}
				body = body[ln2:]
				if uint64(len(body)) < ln {
					return nil, fieldErr(f.name, ErrMsgIncomplete)
				}
				key, _, err = f.key.read(body[:ln])
				if err != nil {
					return nil, fieldErr(f.name, err)
				}
				body = body[ln:]
			} else {
				var rest2 []byte
				key, rest2, err = f.key.read(body)
				if err != nil {
					return nil, fieldErr(f.name, err)
				}
				body = rest2
			}
		case f.valTag:
			if f.val.wt == wire.Bytes {
				ln, ln2, err := wire.ConsumeVarint(body)
				if err != nil {
					return nil, fieldErr(f.name, err)
				}
				body = body[ln2:]
				if uint64(len(body)) < ln {
					return nil, fieldErr(f.name, ErrMsgIncomplete)
				}
				val, _, err = f.val.read(body[:ln])
				if err != nil {
					return nil, fieldErr(f.name, err)
				}
				body = body[ln:]
			} else {
				var rest2 []byte
				val, rest2, err = f.val.read(body)
				if err != nil {
					return nil, fieldErr(f.name, err)
				}
				body = rest2
			}
		default:
			body, err = skipByWireType(body, tag.WireType())
			if err != nil {
				return nil, fieldErr(f.name, err)
			}
		}
	}

	m := f.acc.Get(d)
	if m == nil {
		m = make(map[K]V)
	}
	m[key] = val // last occurrence for a duplicate key wins, per proto2 map-merge semantics.
	f.acc.Set(d, m)
	return rest, nil
}

func (f *mapField[D, K, V]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: false,
		read:        f.readBody,
		clearAbsent: func(d *D) { f.acc.Set(d, nil) },
	}}
}
