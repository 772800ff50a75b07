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

import "math"

func float32ToBits(v float32) uint64 { return uint64(math.Float32bits(v)) }
func bitsToFloat32(u uint64) float32 { return math.Float32frombits(uint32(u)) }
func float64ToBits(v float64) uint64 { return math.Float64bits(v) }
func bitsToFloat64(u uint64) float64 { return math.Float64frombits(u) }
