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

// Package pb2 is a compile-time-declarative proto2 wire codec.
//
// User code declares a message's shape as a tree of field descriptors
// bound to accessors into a user-owned Go struct (the "datum"), then uses
// the resulting [*Message] to serialize and deserialize that struct to
// and from the standard Protocol Buffers wire format.
//
// A message descriptor is built once, with [NewMessage], and is immutable
// and safe for concurrent use thereafter; each [Message.Write] or
// [Message.Read] call operates on one buffer and one datum owned by one
// caller — there is no hidden allocator, goroutine, or shared mutable
// state inside the codec itself.
//
// # Support status
//
// This package targets the proto2 dialect only. The following are
// intentionally out of scope:
//
//   - proto3 implicit-presence semantics.
//   - Preserving unknown fields across a read/write round trip.
//   - Reflection-based or JSON encoding.
//   - Merging a non-repeated sub-message across more than one wire
//     occurrence (the last occurrence wins; see [SubMessage]).
//   - RPC of any kind.
//   - Zero-copy views into the wire buffer for string/bytes fields.
//   - Building or mutating a schema at runtime from anything other than
//     Go source calling this package's constructors.
package pb2
