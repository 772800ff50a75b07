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

// MessageAccessor is the parameter pack for a sub-message field (spec.md
// §4.H): get/set a pointer to the child datum, with presence carried by
// nilness rather than a separate has/clear pair.
type MessageAccessor[D any, C any] struct {
	Get func(d *D) *C
	Set func(d *D, v *C)

	// Validate runs after a successful decode of a present sub-message.
	Validate func(d *D) error
}

// messageField implements a singular (non-repeated, non-map) sub-message
// field: one nested [Message] framed as a length-delimited occurrence,
// spec.md §4.H. Unlike every other field kind, the child's own wire
// format recurses through a second [Message] descriptor rather than a
// leaf toWire/fromWire pair.
type messageField[D any, C any] struct {
	name     string
	id       uint32
	typeName string
	tag      Tag
	sub      *Message[C]
	acc      MessageAccessor[D, C]
	required bool
}

func (f *messageField[D, C]) Name() string          { return f.name }
func (f *messageField[D, C]) ID() uint32             { return f.id }
func (f *messageField[D, C]) SchemaTypeName() string { return f.typeName }
func (f *messageField[D, C]) Optional() bool         { return !f.required }
func (f *messageField[D, C]) WireType() wire.Type    { return wire.Bytes }

func (f *messageField[D, C]) cacheSlots(d *D) int {
	c := f.acc.Get(d)
	if c == nil {
		return 0
	}
	return 1 + f.sub.bodyCacheSlots(c)
}

func (f *messageField[D, C]) wireSize(d *D, lc *lenCache) int {
	c := f.acc.Get(d)
	if c == nil {
		return 0
	}
	// Reserve this message's own length slot before recursing into its
	// children: the write pass must consume it first (tag, then length,
	// then body), even though its value is only known once the children
	// have been sized (spec.md §4.E, §4.K).
	idx := lc.reserve()
	body := f.sub.bodySize(c, lc)
	lc.set(idx, body)
	return wire.SizeVarint32(uint32(f.tag)) + wire.SizeVarint(uint64(body)) + body
}

func (f *messageField[D, C]) appendTo(out []byte, d *D, lc *lenCache) []byte {
	c := f.acc.Get(d)
	if c == nil {
		return out
	}
	body := lc.take()
	out = wire.AppendVarint(out, uint64(f.tag))
	out = wire.AppendVarint(out, uint64(body))
	return f.sub.bodyWrite(out, c, lc)
}

func (f *messageField[D, C]) readBody(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(f.name, ErrMsgIncomplete)
	}
	body, rest := buf[:n], buf[n:]

	c := new(C)
	if _, err := f.sub.bodyRead(body, c); err != nil {
		return nil, err
	}
	f.acc.Set(d, c)
	return rest, nil
}

func (f *messageField[D, C]) clearAbsent(d *D) { f.acc.Set(d, nil) }

func (f *messageField[D, C]) validate(d *D) error {
	if f.acc.Validate == nil {
		return nil
	}
	return f.acc.Validate(d)
}

func (f *messageField[D, C]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: f.required,
		read: f.readBody, validate: f.validate, clearAbsent: f.clearAbsent,
	}}
}

// SubMessage declares an optional proto2 message-typed field: on decode,
// each occurrence is decoded by sub's own read into a fresh child that
// replaces the prior value, rather than merging field-by-field (spec.md §4.H — this package
// treats non-repeated sub-message re-occurrence as overwrite, not merge,
// unlike proto2's usual merge-on-repeat rule for message fields).
func SubMessage[D any, C any](id uint32, name string, sub *Message[C], acc MessageAccessor[D, C]) Field[D] {
	return &messageField[D, C]{
		name: name, id: id, typeName: sub.Name(), tag: wire.MakeTag(id, wire.Bytes), sub: sub, acc: acc,
	}
}

// RequiredSubMessage declares a required proto2 message-typed field: a
// decode that never sees this field's tag fails with
// [ErrRequiredFieldMissing].
func RequiredSubMessage[D any, C any](id uint32, name string, sub *Message[C], acc MessageAccessor[D, C]) Field[D] {
	return &messageField[D, C]{
		name: name, id: id, typeName: sub.Name(), tag: wire.MakeTag(id, wire.Bytes), sub: sub, acc: acc, required: true,
	}
}

// repeatedMessageField implements `repeated SubMessage` (spec.md §4.D,
// §4.H): unpacked by construction, since message elements are never
// packable, with one nested [Message] recursion per occurrence.
type repeatedMessageField[D any, C any] struct {
	name     string
	id       uint32
	typeName string
	tag      Tag
	sub      *Message[C]
	acc      RepeatedAccessor[D, *C]
}

func (f *repeatedMessageField[D, C]) Name() string           { return f.name }
func (f *repeatedMessageField[D, C]) ID() uint32              { return f.id }
func (f *repeatedMessageField[D, C]) SchemaTypeName() string  { return "repeated " + f.typeName }
func (f *repeatedMessageField[D, C]) Optional() bool          { return true }
func (f *repeatedMessageField[D, C]) WireType() wire.Type     { return wire.Bytes }

func (f *repeatedMessageField[D, C]) cacheSlots(d *D) int {
	n := 0
	for _, c := range f.acc.Get(d) {
		n += 1 + f.sub.bodyCacheSlots(c)
	}
	return n
}

func (f *repeatedMessageField[D, C]) wireSize(d *D, lc *lenCache) int {
	total := 0
	for _, c := range f.acc.Get(d) {
		idx := lc.reserve()
		body := f.sub.bodySize(c, lc)
		lc.set(idx, body)
		total += wire.SizeVarint32(uint32(f.tag)) + wire.SizeVarint(uint64(body)) + body
	}
	return total
}

func (f *repeatedMessageField[D, C]) appendTo(out []byte, d *D, lc *lenCache) []byte {
	for _, c := range f.acc.Get(d) {
		body := lc.take()
		out = wire.AppendVarint(out, uint64(f.tag))
		out = wire.AppendVarint(out, uint64(body))
		out = f.sub.bodyWrite(out, c, lc)
	}
	return out
}

func (f *repeatedMessageField[D, C]) readBody(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(f.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(f.name, ErrMsgIncomplete)
	}
	body, rest := buf[:n], buf[n:]

	c := new(C)
	if _, err := f.sub.bodyRead(body, c); err != nil {
		return nil, err
	}
	f.acc.Set(d, append(f.acc.Get(d), c))
	return rest, nil
}

func (f *repeatedMessageField[D, C]) inject() []injected[D] {
	return []injected[D]{{
		tag: f.tag, name: f.name, required: false,
		read:        f.readBody,
		clearAbsent: func(d *D) { f.acc.Set(d, nil) },
	}}
}

// RepeatedSubMessage declares a `repeated SubMessage` field.
func RepeatedSubMessage[D any, C any](id uint32, name string, sub *Message[C], acc RepeatedAccessor[D, *C]) Field[D] {
	return &repeatedMessageField[D, C]{name: name, id: id, typeName: sub.Name(), tag: wire.MakeTag(id, wire.Bytes), sub: sub, acc: acc}
}
