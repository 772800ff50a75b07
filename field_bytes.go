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

// BlobAccessor is the parameter pack for a length-delimited scalar
// (spec.md §4.C, "Bytes/string"). It is not [Accessor] because []byte is
// not comparable, so the Default-equality fallback Accessor uses cannot
// apply here; instead Has defaults to "non-empty", matching spec.md's
// "has_val treats an empty buffer as absent".
type BlobAccessor[D any] struct {
	Get   func(d *D) []byte
	Set   func(d *D, v []byte)
	Has   func(d *D) bool
	Clear func(d *D)

	Default    []byte
	HasDefault bool

	// Validate runs after a successful decode; for string fields this is
	// where a caller opts in to UTF-8 checking (spec.md §4.C, §9 — this
	// package never validates UTF-8 implicitly).
	Validate func(d *D) error
}

func (a BlobAccessor[D]) has(d *D) bool {
	if a.Has != nil {
		return a.Has(d)
	}
	if a.HasDefault {
		return string(a.Get(d)) != string(a.Default)
	}
	return len(a.Get(d)) != 0
}

func (a BlobAccessor[D]) clear(d *D) {
	if a.Clear != nil {
		a.Clear(d)
		return
	}
	if a.HasDefault {
		a.Set(d, a.Default)
		return
	}
	a.Set(d, nil)
}

func (a BlobAccessor[D]) isOptional() bool {
	return a.HasDefault || a.Has != nil || a.Clear != nil
}

func (a BlobAccessor[D]) validate(d *D) error {
	if a.Validate == nil {
		return nil
	}
	return a.Validate(d)
}

// blobField implements both `bytes` and `string` (spec.md §4.C); the two
// constructors below only differ in SchemaTypeName and in how the
// caller's string<->[]byte accessor is wired up.
type blobField[D any] struct {
	name     string
	id       uint32
	typeName string
	tag      Tag
	acc      BlobAccessor[D]
}

func (f *blobField[D]) Name() string          { return f.name }
func (f *blobField[D]) ID() uint32            { return f.id }
func (f *blobField[D]) SchemaTypeName() string { return f.typeName }
func (f *blobField[D]) Optional() bool        { return f.acc.isOptional() }
func (f *blobField[D]) WireType() wire.Type   { return wire.Bytes }
func (f *blobField[D]) cacheSlots(*D) int     { return 0 }

func (f *blobField[D]) wireSize(d *D, _ *lenCache) int {
	if f.acc.isOptional() && !f.acc.has(d) {
		return 0
	}
	n := len(f.acc.Get(d))
	return wire.SizeVarint32(uint32(f.tag)) + wire.SizeVarint(uint64(n)) + n
}

func (f *blobField[D]) appendTo(out []byte, d *D, _ *lenCache) []byte {
	if f.acc.isOptional() && !f.acc.has(d) {
		return out
	}
	v := f.acc.Get(d)
	out = wire.AppendVarint(out, uint64(f.tag))
	out = wire.AppendVarint(out, uint64(len(v)))
	return append(out, v...)
}

func (f *blobField[D]) readBody(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(f.name, ErrMsgIncomplete)
	}
	// Copy rather than alias the wire buffer: spec.md §1 excludes
	// zero-copy views into wire bytes for string/bytes fields.
	v := make([]byte, n)
	copy(v, buf[:n])
	f.acc.Set(d, v)
	return buf[n:], nil
}

func (f *blobField[D]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: !f.acc.isOptional(),
		read: f.readBody, validate: f.acc.validate, clearAbsent: f.acc.clear,
	}}
}

// Bytes declares a proto2 `bytes` field.
func Bytes[D any](id uint32, name string, acc BlobAccessor[D]) Field[D] {
	return &blobField[D]{name: name, id: id, typeName: "bytes", tag: wire.MakeTag(id, wire.Bytes), acc: acc}
}

// String declares a proto2 `string` field. validate, if set on acc, runs
// after every successful decode; this package performs no implicit UTF-8
// validation (spec.md §9).
func String[D any](id uint32, name string, acc StringAccessor[D]) Field[D] {
	return &blobField[D]{
		name: name, id: id, typeName: "string", tag: wire.MakeTag(id, wire.Bytes),
		acc: acc.toBlob(),
	}
}

// StringAccessor is [BlobAccessor] specialized to Go strings, to spare
// callers from writing []byte<->string conversions for the common case.
type StringAccessor[D any] struct {
	Get        func(d *D) string
	Set        func(d *D, v string)
	Has        func(d *D) bool
	Clear      func(d *D)
	Default    string
	HasDefault bool
	Validate   func(d *D) error
}

func (a StringAccessor[D]) toBlob() BlobAccessor[D] {
	b := BlobAccessor[D]{
		Get:        func(d *D) []byte { return []byte(a.Get(d)) },
		Set:        func(d *D, v []byte) { a.Set(d, string(v)) },
		HasDefault: a.HasDefault,
		Default:    []byte(a.Default),
		Validate:   a.Validate,
	}
	if a.Has != nil {
		b.Has = a.Has
	}
	if a.Clear != nil {
		b.Clear = a.Clear
	}
	return b
}
