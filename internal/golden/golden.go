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

// Package golden loads wire-format test vectors written as Protoscope
// text in a YAML fixture file, for tests that want a human-readable
// on-disk representation of a byte string instead of a Go byte-slice
// literal.
package golden

import (
	"fmt"
	"os"

	"github.com/protocolbuffers/protoscope"
	"gopkg.in/yaml.v3"
)

// Case is one named wire-format test vector.
type Case struct {
	Name       string `yaml:"name"`
	Protoscope string `yaml:"protoscope"`
}

// Load parses a YAML file of cases from path.
func Load(path string) ([]Case, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cases []Case
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("golden: parsing %s: %w", path, err)
	}
	return cases, nil
}

// Bytes renders this case's Protoscope text to the wire bytes it
// describes.
func (c Case) Bytes() ([]byte, error) {
	p := &protoscope.Parser{Input: c.Protoscope}
	b, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("golden: case %q: %w", c.Name, err)
	}
	return b, nil
}

// Render renders raw wire bytes back to Protoscope text, for printing a
// readable diff when a round-trip test fails.
func Render(data []byte) string {
	return protoscope.Write(data, protoscope.WriterOptions{})
}
