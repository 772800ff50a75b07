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

// lenCache is the scratch array of precomputed body lengths described in
// spec.md §3 and §4.K: the size pass pushes one entry per length-delimited
// framing, in pre-order, and the write pass consumes them in the same
// order. Mis-ordering silently corrupts output (spec.md §9), so
// reserve/set/push/take are the only ways to touch vals.
type lenCache struct {
	vals []int
	i    int
}

func newLenCache(n int) *lenCache {
	return &lenCache{vals: make([]int, 0, n)}
}

// reserve claims the next slot, in pre-order, without yet knowing its
// value — used by a message sub-field, which must consume its own length
// before its children's (spec.md §4.E) even though that length is only
// known after recursing into them.
func (c *lenCache) reserve() int {
	c.vals = append(c.vals, 0)
	return len(c.vals) - 1
}

// set fills in a slot reserved earlier with reserve.
func (c *lenCache) set(idx, n int) { c.vals[idx] = n }

// push is reserve+set for a length known immediately (one packed-repeated
// body, one unpacked-repeated element, one map entry). Scalar bytes/string
// fields take their length from the value itself and use no slot.
func (c *lenCache) push(n int) int {
	idx := c.reserve()
	c.set(idx, n)
	return idx
}

func (c *lenCache) take() int {
	v := c.vals[c.i]
	c.i++
	return v
}

// reset rewinds the cursor to the start of vals without reallocating, so
// the same cache can be walked twice (size pass, then write pass).
func (c *lenCache) reset() { c.i = 0 }

// Field is the compile-time descriptor contract every field kind (scalar,
// bytes/string, repeated, map, oneof, sub-message) implements for a given
// datum type D, per spec.md §3 and §4.B.
//
// Implementations are immutable once constructed and safe to share across
// goroutines; all methods take the datum by pointer but never retain it.
type Field[D any] interface {
	// Name is this field's declared name; empty only for the anonymous
	// root of a [Message].
	Name() string
	// ID is this field's declared field id; 0 for the root.
	ID() uint32
	// SchemaTypeName is the proto2 type name used by the schema emitter,
	// e.g. "int32", "repeated Bar", "map<string, Foo>".
	SchemaTypeName() string
	// Optional reports whether this field may be absent on the wire, per
	// the is_optional rule in spec.md §3 (resolved statically from the
	// bound parameters, never from runtime data).
	Optional() bool
	// WireType is the wire type this field is framed with. A oneof has no
	// framing of its own and reports wire.Bytes; each of its alternatives
	// reports its own.
	WireType() wire.Type

	// cacheSlots returns how many lenCache slots this field's wireSize
	// fills for datum d, used to pre-size the write driver's lenCache
	// (spec.md §4.K).
	cacheSlots(d *D) int
	// wireSize returns this field's total encoded size (tag + any length
	// prefix + body) for datum d, pushing each length-delimited body
	// length into lc in pre-order as it recurses.
	wireSize(d *D, lc *lenCache) int
	// appendTo appends this field's encoding to out, consuming entries
	// from lc in the same pre-order wireSize pushed them in.
	appendTo(out []byte, d *D, lc *lenCache) []byte
	// inject returns the dispatch entries this field contributes to its
	// enclosing message's tag-to-reader table: one entry for every kind
	// except oneof, which contributes one entry per alternative
	// (spec.md §4.G, "injected field").
	inject() []injected[D]
}

// injected is one entry in a message's flattened tag-dispatch table
// (spec.md §4.E, "Injected-field list").
type injected[D any] struct {
	tag Tag
	// name and required describe the declared field this entry belongs
	// to, for the required-field exam pass and schema text; oneof
	// alternatives are never required (required=false always for them).
	name     string
	required bool
	// partOfOneof marks an entry contributed by a oneof's inject(): such
	// entries get no presence bit of their own, because spec.md §9
	// ("Presence tracking") makes the oneof's active-member index the
	// sole source of truth for whether one of its alternatives is set.
	partOfOneof bool
	// read decodes one occurrence of this field (the bytes immediately
	// following its tag) out of buf into d, returning the unconsumed
	// remainder.
	read func(buf []byte, d *D) ([]byte, error)
	// validate runs the field's user validator, if any, once its
	// presence bit is set; nil means no validator.
	validate func(d *D) error
	// clearAbsent resets the field to its defaulted/empty state; called
	// by the message's exam pass when the field's presence bit was never
	// set (spec.md §4.E: "if optional, call clear_val(d)").
	clearAbsent func(d *D)
}

// Tag re-exports [wire.Tag] so callers composing descriptors outside this
// package never need to import the internal wire package directly.
type Tag = wire.Tag

// Accessor bundles the get/set/has/clear/validate roles of spec.md §3's
// "parameter pack" for a field of element type T bound into a datum of
// type D.
//
// Has and Clear are optional: when nil, Has falls back to "Get(d) !=
// zero value" (or, if Default is set, "Get(d) != Default") and Clear
// falls back to "Set(d, zero value)" (or, if Default is set, "Set(d,
// Default)") — mirroring spec.md §3's
// "(default: uval not equal to default, or ... has/clear predicate)".
type Accessor[D any, T comparable] struct {
	Get   func(d *D) T
	Set   func(d *D, v T)
	Has   func(d *D) bool
	Clear func(d *D)

	// Default is this field's proto2 default value. The zero value of T
	// means "no explicit default" only when HasDefault is also false;
	// set HasDefault to distinguish an explicit default of T's zero
	// value (e.g. `default(0)`) from no default at all.
	Default    T
	HasDefault bool

	// Validate runs after a successful decode, per spec.md §3's
	// validate(d). A non-nil return is wrapped in a [FieldError] naming
	// this field and surfaced as-is from [Message.Read]/[Message.FullRead]
	// — it need not be [ErrValidationFailed] itself; that sentinel exists
	// for validators with no more specific failure to report.
	Validate func(d *D) error
}

func (a Accessor[D, T]) has(d *D) bool {
	if a.Has != nil {
		return a.Has(d)
	}
	var zero T
	if a.HasDefault {
		return a.Get(d) != a.Default
	}
	return a.Get(d) != zero
}

func (a Accessor[D, T]) clear(d *D) {
	if a.Clear != nil {
		a.Clear(d)
		return
	}
	var zero T
	if a.HasDefault {
		a.Set(d, a.Default)
		return
	}
	a.Set(d, zero)
}

func (a Accessor[D, T]) validate(d *D) error {
	if a.Validate == nil {
		return nil
	}
	return a.Validate(d)
}

// isOptional resolves spec.md §3's is_optional rule for an Accessor-backed
// field: optional iff a default is configured or a custom has/clear
// predicate pair was supplied. A field with neither is non-optional
// (required).
func (a Accessor[D, T]) isOptional() bool {
	return a.HasDefault || a.Has != nil || a.Clear != nil
}
