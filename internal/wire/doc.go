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

// Package wire implements the base-128 varint codec, zig-zag transform,
// and tag/wire-type arithmetic that the rest of pb2 builds on.
//
// Nothing in this package knows about messages, fields, or descriptors; it
// is pure mechanism, kept separate from the policy layer in the parent
// package the way hyperpb separates internal/zigzag from its field logic.
package wire
