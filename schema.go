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
	"fmt"
	"strings"
)

// reservedWords are proto2 keywords that spec.md §4.I forbids as a
// message, field, or oneof name in generated schema text.
var reservedWords = map[string]bool{
	"message": true, "required": true, "optional": true, "repeated": true,
	"oneof": true, "map": true, "reserved": true, "extend": true,
	"extensions": true, "package": true, "syntax": true, "import": true,
	"service": true, "rpc": true, "returns": true, "option": true,
	"group": true, "enum": true, "default": true, "true": true, "false": true,
}

// packedField is implemented by field kinds whose wire framing can carry
// `[packed=true]` (spec.md §4.D): the packed varint/fixed32/fixed64
// repeated kinds, never string/bytes/message.
type packedField interface{ isPacked() bool }

func (f *repeatedPackedField[D, T]) isPacked() bool { return true }

// oneofAlternatives is implemented by a oneof field so the schema emitter
// can render its alternatives as a `oneof { ... }` block instead of as
// one flat field.
type oneofAlternatives[D any] interface {
	alternatives() []Field[D]
}

// SchemaText renders m as proto2 schema text (spec.md §4.I): one line
// per declared field, in declaration order, naming types the way this
// package's field constructors do (field_scalar.go's SchemaTypeName,
// field_bytes.go's "bytes"/"string", field_message.go's sub-message
// name, field_map.go's "map<K, V>"), with oneofs grouped into their own
// block.
//
// SchemaText panics if m, any of its fields, any oneof, or any oneof
// alternative uses a reserved proto2 keyword as its name — the same fail-fast posture [NewMessage] takes on
// a malformed descriptor.
//
// SchemaText renders a single message block with no surrounding file
// preamble; use [GenDef] to assemble a complete, compilable proto2
// document out of one or more messages.
func (m *Message[D]) SchemaText() string {
	if reservedWords[m.name] {
		panic("pb2: reserved word used as message name: " + m.name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "message %s {\n", m.name)
	for _, f := range m.fields {
		writeFieldLine(&b, "  ", f)
	}
	b.WriteString("}\n")
	return b.String()
}

// schemaTexter is satisfied by any *Message[D] regardless of D: a set of
// messages assembled into one document almost never shares a single
// datum type, so [GenDef] takes this type-erased view rather than being
// generic over D itself.
type schemaTexter interface{ SchemaText() string }

// GenDef assembles a complete proto2 document from one or more message
// descriptors, in the order given, the way the original's
// pb_gen_def<S, ExtraHeaders...>(msgs...) does (spec.md §6, "Schema
// text"): a `syntax = "proto2";` line, then headerLines (each one
// verbatim plus a trailing newline, e.g. a `package` or `import`
// statement), then each message's [Message.SchemaText], separated by a
// blank line.
//
// msgs must be passed in declaration order, matching pb_gen_def's own
// documented requirement; GenDef does not reorder or deduplicate them.
func GenDef(headerLines []string, msgs ...schemaTexter) string {
	var b strings.Builder
	b.WriteString("syntax = \"proto2\";\n\n")

	for _, h := range headerLines {
		b.WriteString(h)
		b.WriteString("\n")
	}
	if len(headerLines) > 0 {
		b.WriteString("\n")
	}

	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.SchemaText())
	}
	return b.String()
}

func writeFieldLine[D any](b *strings.Builder, indent string, f Field[D]) {
	if alts, ok := f.(oneofAlternatives[D]); ok {
		if reservedWords[f.Name()] {
			panic("pb2: reserved word used as oneof name: " + f.Name())
		}
		fmt.Fprintf(b, "%soneof %s {\n", indent, f.Name())
		for _, alt := range alts.alternatives() {
			if reservedWords[alt.Name()] {
				panic("pb2: reserved word used as field name: " + alt.Name())
			}
			// Members of a oneof carry no optional/required/repeated label.
			fmt.Fprintf(b, "%s  %s %s = %d;\n", indent, alt.SchemaTypeName(), alt.Name(), alt.ID())
		}
		fmt.Fprintf(b, "%s}\n", indent)
		return
	}

	if reservedWords[f.Name()] {
		panic("pb2: reserved word used as field name: " + f.Name())
	}

	label := "optional"
	if !f.Optional() {
		label = "required"
	}
	typeName := f.SchemaTypeName()
	if strings.HasPrefix(typeName, "repeated ") {
		label = "repeated"
		typeName = strings.TrimPrefix(typeName, "repeated ")
	} else if strings.HasPrefix(typeName, "map<") {
		// map<K, V> fields carry no optional/required/repeated label.
		fmt.Fprintf(b, "%s%s %s = %d;\n", indent, typeName, f.Name(), f.ID())
		return
	}

	annotation := ""
	if pf, ok := f.(packedField); ok && pf.isPacked() {
		annotation = " [packed=true]"
	}
	fmt.Fprintf(b, "%s%s %s %s = %d%s;\n", indent, label, typeName, f.Name(), f.ID(), annotation)
}
