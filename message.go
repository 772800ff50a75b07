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

// Message is a compile-time descriptor for a proto2 message bound to a Go
// datum type D, built once by [NewMessage] from a declaration list of
// [Field] values (spec.md §3, §4.E).
//
// A *Message[D] is immutable after construction and safe for concurrent
// use by multiple goroutines reading/writing distinct datums.
type Message[D any] struct {
	name   string
	fields []Field[D]

	// injected is every field's inject() output flattened into
	// declaration order; entries contributed by a oneof's alternatives
	// sit alongside ordinary fields with partOfOneof set.
	injected []injected[D]
	// presenceBit[i] is the index into the per-read presence bitset for
	// injected[i], or -1 for oneof-contributed entries (spec.md §9:
	// oneof presence lives in the active-member index, not a bit).
	presenceBit   []int
	presenceCount int

	byTag map[Tag]int
}

// NewMessage builds a message descriptor named name from fields, declared
// in the same order they should appear in the generated schema text.
//
// NewMessage panics if two fields (after oneof injection) collide on field
// id or on name — spec.md §3's invariant that a message's flattened tag
// space is injective. This mirrors the teacher's practice of failing
// fast on a malformed compile-time descriptor rather than returning an
// error from a construction path that every caller treats as infallible.
func NewMessage[D any](name string, fields ...Field[D]) *Message[D] {
	m := &Message[D]{name: name, fields: fields, byTag: map[Tag]int{}}

	seenID := map[uint32]bool{}
	seenName := map[string]bool{}
	bit := 0
	for _, f := range fields {
		for _, e := range f.inject() {
			if seenID[e.tag.Number()] {
				panic("pb2: duplicate field id in message " + name + ": " + e.name)
			}
			if seenName[e.name] {
				panic("pb2: duplicate field name in message " + name + ": " + e.name)
			}
			seenID[e.tag.Number()] = true
			seenName[e.name] = true

			pb := -1
			if !e.partOfOneof {
				pb = bit
				bit++
			}
			m.byTag[e.tag] = len(m.injected)
			m.presenceBit = append(m.presenceBit, pb)
			m.injected = append(m.injected, e)
		}
	}
	m.presenceCount = bit
	return m
}

// Name is this message's declared name.
func (m *Message[D]) Name() string { return m.name }

// bodyCacheSlots sums the length-delimited framing points this message's
// own fields contribute for datum d (spec.md §4.K); used both at the root
// (by [Message.Write]) and by messageField, which adds one slot of its
// own on top for the embedding tag+length.
func (m *Message[D]) bodyCacheSlots(d *D) int {
	n := 0
	for _, f := range m.fields {
		n += f.cacheSlots(d)
	}
	return n
}

func (m *Message[D]) bodySize(d *D, lc *lenCache) int {
	total := 0
	for _, f := range m.fields {
		total += f.wireSize(d, lc)
	}
	return total
}

func (m *Message[D]) bodyWrite(out []byte, d *D, lc *lenCache) []byte {
	for _, f := range m.fields {
		out = f.appendTo(out, d, lc)
	}
	return out
}

// Write runs the two-pass encoder of spec.md §4.K and returns the
// message's body bytes with no outer length prefix — the representation
// gRPC and similar framed transports expect, where the length lives in an
// outer envelope rather than in these bytes.
func (m *Message[D]) Write(d *D) []byte {
	lc := newLenCache(m.bodyCacheSlots(d))
	size := m.bodySize(d, lc)
	lc.reset()
	out := make([]byte, 0, size)
	return m.bodyWrite(out, d, lc)
}

// WriteLenPrefixed returns Write's output preceded by its own varint
// length, the representation used when concatenating several messages
// back to back in one buffer.
func (m *Message[D]) WriteLenPrefixed(d *D) []byte {
	body := m.Write(d)
	out := make([]byte, 0, wire.SizeVarint(uint64(len(body)))+len(body))
	out = wire.AppendVarint(out, uint64(len(body)))
	return append(out, body...)
}

// skipByWireType discards one field occurrence of the given wire type
// without decoding it, for the tag-mismatch case of spec.md §4.E (an
// unrecognized field id on the wire). Wire types outside the four this
// package supports (start/end-group) are fatal per spec.md §1's non-goal
// on group/proto2-extension support.
func skipByWireType(buf []byte, wt wire.Type) ([]byte, error) {
	switch wt {
	case wire.Varint:
		n, err := wire.SkipVarint(buf)
		if err != nil {
			return nil, err
		}
		return buf[n:], nil
	case wire.Fixed64:
		if len(buf) < 8 {
			return nil, ErrFixedIncomplete
		}
		return buf[8:], nil
	case wire.Fixed32:
		if len(buf) < 4 {
			return nil, ErrFixedIncomplete
		}
		return buf[4:], nil
	case wire.Bytes:
		n, sz, err := wire.ConsumeVarint(buf)
		if err != nil {
			return nil, err
		}
		buf = buf[sz:]
		if uint64(len(buf)) < n {
			return nil, ErrInvalidLength
		}
		return buf[n:], nil
	default:
		return nil, ErrTagMismatch
	}
}

// bodyRead runs the single-pass decoder of spec.md §4.E against buf,
// which must hold exactly one message's worth of bytes (the caller has
// already stripped any outer length prefix), and returns buf fully
// consumed on success.
func (m *Message[D]) bodyRead(buf []byte, d *D) ([]byte, error) {
	present := make([]bool, m.presenceCount)

	for len(buf) > 0 {
		tv, n, err := wire.ConsumeVarint(buf)
		if err != nil {
			return nil, fieldErr(m.name, err)
		}
		buf = buf[n:]
		tag := Tag(tv)
		if !tag.Valid() {
			return nil, fieldErr(m.name, ErrTagMismatch)
		}

		idx, ok := m.byTag[tag]
		if !ok {
			buf, err = skipByWireType(buf, tag.WireType())
			if err != nil {
				return nil, fieldErr(m.name, err)
			}
			continue
		}

		e := m.injected[idx]
		buf, err = e.read(buf, d)
		if err != nil {
			return nil, err
		}
		if pb := m.presenceBit[idx]; pb >= 0 {
			present[pb] = true
		}
	}

	for i, e := range m.injected {
		if e.partOfOneof {
			continue
		}
		if present[m.presenceBit[i]] {
			if e.validate != nil {
				if verr := e.validate(d); verr != nil {
					return nil, fieldErr(e.name, verr)
				}
			}
			continue
		}
		if e.required {
			return nil, fieldErr(e.name, ErrRequiredFieldMissing)
		}
		if e.clearAbsent != nil {
			e.clearAbsent(d)
		}
	}

	return buf, nil
}

// Read decodes one message from the start of buf, treating the whole of
// buf as that message's body (no length prefix), and returns the
// (always empty) remainder for symmetry with the field-level read
// signature.
func (m *Message[D]) Read(buf []byte, d *D) ([]byte, error) {
	return m.bodyRead(buf, d)
}

// ReadLenPrefixed decodes one length-prefixed message from the start of
// buf — the counterpart to [Message.WriteLenPrefixed] — and returns
// whatever follows it in buf.
func (m *Message[D]) ReadLenPrefixed(buf []byte, d *D) ([]byte, error) {
	n, sz, err := wire.ConsumeVarint(buf)
	if err != nil {
		return nil, fieldErr(m.name, err)
	}
	buf = buf[sz:]
	if uint64(len(buf)) < n {
		return nil, fieldErr(m.name, ErrMsgIncomplete)
	}
	body, rest := buf[:n], buf[n:]
	if _, err := m.bodyRead(body, d); err != nil {
		return nil, err
	}
	return rest, nil
}

// FullRead decodes buf as exactly one message with no length prefix and
// fails with [ErrMoreDataThanRequired] if any bytes remain, for callers
// that already know buf holds precisely one message (spec.md §6).
func (m *Message[D]) FullRead(buf []byte, d *D) error {
	rest, err := m.bodyRead(buf, d)
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrMoreDataThanRequired
	}
	return nil
}
