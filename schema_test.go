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

package pb2_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-pb2/pb2"
	"github.com/go-pb2/pb2/internal/schemacheck"
)

func TestSchemaTextIsValidProto2(t *testing.T) {
	t.Parallel()
	text := personMessage().SchemaText()

	require.Contains(t, text, "message Person {")
	require.Contains(t, text, "required string name = 1;")
	require.Contains(t, text, "optional int32 age = 2;")
	require.Contains(t, text, "repeated string tags = 3;")
	require.Contains(t, text, "repeated int32 scores = 4 [packed=true];")
	require.Contains(t, text, "optional Address home = 5;")
	require.Contains(t, text, "map<string, int32> attrs = 6;")
	require.Contains(t, text, "oneof contact {")
	require.Contains(t, text, "    string email = 7;")
	require.Contains(t, text, "    int64 phone = 8;")

	// Person's "home" field refers to Address by name, so it only
	// compiles alongside Address's own message block, not in isolation.
	doc := pb2.GenDef(nil, addressMessage(), personMessage())
	require.NoError(t, schemacheck.ValidateDocument("person.proto", doc))
}

func TestSchemaTextAddressIsValidProto2(t *testing.T) {
	t.Parallel()
	text := addressMessage().SchemaText()
	require.NoError(t, schemacheck.Validate("address.proto", text))
}

func TestGenDefAssemblesMultiMessageDocument(t *testing.T) {
	t.Parallel()
	doc := pb2.GenDef([]string{`package example;`}, addressMessage(), personMessage())

	require.True(t, strings.HasPrefix(doc, "syntax = \"proto2\";\n\n"))
	require.Contains(t, doc, "package example;\n\n")
	require.Contains(t, doc, "message Address {")
	require.Contains(t, doc, "message Person {")
	// Messages land in declaration order, separated by a blank line.
	require.Less(t, strings.Index(doc, "message Address"), strings.Index(doc, "message Person"))

	require.NoError(t, schemacheck.ValidateDocument("bundle.proto", doc))
}

func TestGenDefWithNoHeaderLines(t *testing.T) {
	t.Parallel()
	doc := pb2.GenDef(nil, addressMessage())
	require.Equal(t, "syntax = \"proto2\";\n\n"+addressMessage().SchemaText(), doc)
	require.NoError(t, schemacheck.ValidateDocument("solo.proto", doc))
}

func TestSchemaRejectsReservedWord(t *testing.T) {
	t.Parallel()
	type d struct{ V int32 }
	m := pb2.NewMessage("message", pb2.Int32(1, "v", pb2.Accessor[d, int32]{
		Get: func(dd *d) int32 { return dd.V },
		Set: func(dd *d, v int32) { dd.V = v },
	}))

	require.Panics(t, func() { _ = m.SchemaText() })
}
