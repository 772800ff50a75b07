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

// Package schemacheck validates this module's generated proto2 schema
// text against an independent parser (bufbuild/protocompile), so the
// schema emitter's output is checked against something other than its
// own assumptions about proto2 grammar.
package schemacheck

import (
	"context"
	"fmt"

	"github.com/bufbuild/protocompile"
)

// Validate parses body (one bare message block, e.g. the output of
// [pb2.Message.SchemaText]) as a complete proto2 file and reports any
// grammar error protocompile finds, after prepending the `syntax =
// "proto2";` preamble that a bare message block doesn't carry on its
// own. name is used only as the virtual filename in diagnostics.
func Validate(name, body string) error {
	const header = "syntax = \"proto2\";\n\n"
	return compile(name, header+body)
}

// ValidateDocument parses doc (a complete document already carrying its
// own syntax preamble, e.g. the output of [pb2.GenDef]) and reports any
// grammar error protocompile finds. Unlike Validate, it prepends
// nothing.
func ValidateDocument(name, doc string) error {
	return compile(name, doc)
}

func compile(name, src string) error {
	files := map[string]string{name: src}

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			Accessor: protocompile.SourceAccessorFromMap(files),
		}),
	}
	_, err := compiler.Compile(context.Background(), name)
	if err != nil {
		return fmt.Errorf("schemacheck: %s: %w", name, err)
	}
	return nil
}
