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

// OneofAccessor reads and writes a oneof's "which word": the field id of
// the currently active alternative, or 0 when none is set (spec.md §9 —
// a oneof's presence lives entirely in this discriminant, never in a
// per-alternative bit).
type OneofAccessor[D any] struct {
	Which    func(d *D) uint32
	SetWhich func(d *D, id uint32)
}

// oneofField implements spec.md §4.G: each alternative is an ordinary
// field descriptor (built with [Int32], [String], [SubMessage], ...)
// whose tag is injected directly into the enclosing message's dispatch
// table, exactly like any other field, except that decoding one
// alternative activates it by writing its id into the which word, and at
// most one alternative's bytes are ever written for a given datum.
type oneofField[D any] struct {
	name  string
	which OneofAccessor[D]
	alts  []Field[D]
	byID  map[uint32]int
}

// Oneof declares a proto2 oneof named name from a which-word accessor and
// two or more alternative field descriptors. Each alternative keeps its
// own id, name, and wire framing; Oneof only adds the active/inactive
// gating and which-word bookkeeping around them.
func Oneof[D any](name string, which OneofAccessor[D], alts ...Field[D]) Field[D] {
	byID := make(map[uint32]int, len(alts))
	for i, a := range alts {
		byID[a.ID()] = i
	}
	return &oneofField[D]{name: name, which: which, alts: alts, byID: byID}
}

func (f *oneofField[D]) Name() string          { return f.name }
func (f *oneofField[D]) ID() uint32             { return 0 }
func (f *oneofField[D]) SchemaTypeName() string { return "oneof" }
func (f *oneofField[D]) Optional() bool         { return true }
func (f *oneofField[D]) WireType() wire.Type    { return wire.Bytes }

// alternatives exposes the declared alternatives to the schema emitter
// (component I), which renders a `oneof name { ... }` block rather than
// treating this as a single typed field.
func (f *oneofField[D]) alternatives() []Field[D] { return f.alts }

func (f *oneofField[D]) active(d *D) (Field[D], bool) {
	id := f.which.Which(d)
	if id == 0 {
		return nil, false
	}
	i, ok := f.byID[id]
	if !ok {
		return nil, false
	}
	return f.alts[i], true
}

func (f *oneofField[D]) cacheSlots(d *D) int {
	if a, ok := f.active(d); ok {
		return a.cacheSlots(d)
	}
	return 0
}

func (f *oneofField[D]) wireSize(d *D, lc *lenCache) int {
	if a, ok := f.active(d); ok {
		return a.wireSize(d, lc)
	}
	return 0
}

func (f *oneofField[D]) appendTo(out []byte, d *D, lc *lenCache) []byte {
	if a, ok := f.active(d); ok {
		return a.appendTo(out, d, lc)
	}
	return out
}

func (f *oneofField[D]) inject() []injected[D] {
	out := make([]injected[D], 0, len(f.alts))
	for _, alt := range f.alts {
		id := alt.ID()
		for _, e := range alt.inject() {
			read, validate, name := e.read, e.validate, e.name
			out = append(out, injected[D]{
				tag: e.tag, name: name, partOfOneof: true,
				read: func(buf []byte, d *D) ([]byte, error) {
					// Activate this alternative before delegating to its own
					// read: the active-member index is the sole source of
					// truth for which alternative is set, and the delegate's
					// read/validate may itself inspect it (e.g. a CaseValue
					// reading through the shared OneofCase cell).
					f.which.SetWhich(d, id)
					rest, err := read(buf, d)
					if err != nil {
						return nil, err
					}
					if validate != nil {
						if verr := validate(d); verr != nil {
							return nil, fieldErr(name, verr)
						}
					}
					return rest, nil
				},
			})
		}
	}
	return out
}

// OneofCase is a convenience tagged-union cell for a oneof: the active
// alternative's field id plus its boxed value, for datum types that
// would rather store one shared field than one Go field per
// alternative. Use [OneofCaseAccessor] for the oneof's which-word and
// [CaseValue] for each alternative's Accessor.
type OneofCase struct {
	which uint32
	value any
}

// Which reports the field id of the active alternative, or 0.
func (c *OneofCase) Which() uint32 { return c.which }

// OneofCaseAccessor builds an [OneofAccessor] backed by a *OneofCase
// reached through get.
func OneofCaseAccessor[D any](get func(d *D) *OneofCase) OneofAccessor[D] {
	return OneofAccessor[D]{
		Which:    func(d *D) uint32 { return get(d).which },
		SetWhich: func(d *D, id uint32) { get(d).which = id },
	}
}

// CaseValue builds an [Accessor] for oneof alternative id backed by a
// shared *OneofCase cell: Get reads the zero value of T whenever another
// alternative is active, and Set both stores v and activates id.
func CaseValue[D any, T comparable](id uint32, get func(d *D) *OneofCase) Accessor[D, T] {
	return Accessor[D, T]{
		Get: func(d *D) T {
			c := get(d)
			if c.which != id {
				var zero T
				return zero
			}
			v, _ := c.value.(T)
			return v
		},
		Set: func(d *D, v T) {
			c := get(d)
			c.which = id
			c.value = v
		},
	}
}

// CaseBlob is [CaseValue] for the bytes alternative kind, which uses
// [BlobAccessor] instead of [Accessor].
func CaseBlob[D any](id uint32, get func(d *D) *OneofCase) BlobAccessor[D] {
	return BlobAccessor[D]{
		Get: func(d *D) []byte {
			c := get(d)
			if c.which != id {
				return nil
			}
			v, _ := c.value.([]byte)
			return v
		},
		Set: func(d *D, v []byte) {
			c := get(d)
			c.which = id
			c.value = v
		},
	}
}

// CaseString is [CaseValue] for the string alternative kind, which uses
// [StringAccessor] instead of [Accessor].
func CaseString[D any](id uint32, get func(d *D) *OneofCase) StringAccessor[D] {
	return StringAccessor[D]{
		Get: func(d *D) string {
			c := get(d)
			if c.which != id {
				return ""
			}
			v, _ := c.value.(string)
			return v
		},
		Set: func(d *D, v string) {
			c := get(d)
			c.which = id
			c.value = v
		},
	}
}
