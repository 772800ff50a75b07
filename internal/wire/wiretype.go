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

package wire

import "fmt"

// Type is one of the four wire types a protobuf tag can carry.
type Type uint8

// The wire types this codec knows how to frame. Group-based wire types
// (StartGroup/EndGroup, 3 and 4) are not part of proto2's non-group
// surface and are intentionally absent.
const (
	Varint  Type = 0
	Fixed64 Type = 1
	Bytes   Type = 2
	Fixed32 Type = 5
)

// String implements [fmt.Stringer].
func (t Type) String() string {
	switch t {
	case Varint:
		return "varint"
	case Fixed64:
		return "fix64"
	case Bytes:
		return "len_dlm"
	case Fixed32:
		return "fix32"
	default:
		return fmt.Sprintf("wiretype(%d)", uint8(t))
	}
}

// Tag is the unsigned 32-bit value (field_id<<3)|wire_type written before
// every non-root field occurrence.
type Tag uint32

// NoTag is the sentinel tag for a root message written with its tag
// elided (spec.md §3: "tag 0 is reserved to signal 'no enclosing tag'").
const NoTag Tag = 0

// MakeTag builds the tag for a field id and wire type.
func MakeTag(id uint32, t Type) Tag {
	return Tag(id<<3) | Tag(t&0x7)
}

// Number extracts the field id component of a tag.
func (t Tag) Number() uint32 { return uint32(t) >> 3 }

// WireType extracts the wire-type component of a tag.
func (t Tag) WireType() Type { return Type(uint32(t) & 0x7) }

// Valid reports whether t carries a field id in the legal proto range
// (positive, and not within the reserved 19000-19999 band).
func (t Tag) Valid() bool {
	n := t.Number()
	return n > 0 && n < 1<<29 && !(n >= 19000 && n <= 19999)
}
