// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package arena

import "fmt"

// HeaderBytes is the size of the persisted header, which holds value_top and
// task_top as big-endian uint32 values.
const HeaderBytes = 8

// WordBytes is the width of a single scratch word (i.e. one field element).
const WordBytes = 32

// Region identifies one of the fixed scratch windows which follow the stack
// area of an arena.  Regions are addressed directly by tasks, rather than
// through the stacks, and ownership is purely by convention: each task
// documents which regions it reads and/or writes.
type Region uint8

const (
	// ProofRecord holds the (read-only) proof being verified.
	ProofRecord Region = iota
	// Coefficients holds shared polynomial coefficients.
	Coefficients
	// DomainValues holds shared evaluation-domain values (e.g. challenges and
	// out-of-domain sample points).
	DomainValues
	// PowerTable holds a working table of successive powers.
	PowerTable
	// Transcript holds the Fiat-Shamir transcript state (digest, counter).
	Transcript
	// NumRegions is the number of scratch regions in every arena.
	NumRegions
)

var regionNames = [NumRegions]string{"proof", "coefficients", "domain", "powers", "transcript"}

func (r Region) String() string {
	if r < NumRegions {
		return regionNames[r]
	}
	//
	return fmt.Sprintf("region(%d)", uint8(r))
}

// Layout determines the fixed geometry of an arena: the capacity of the stack
// area shared by the value and task stacks, followed by the size (in bytes) of
// each scratch region.  The persisted image of an arena is laid out as:
//
//	[value_top:u32][task_top:u32][stack area (capacity bytes)][region 0]...[region n-1]
//
// The layout itself is not persisted, hence an image can only be loaded
// against the layout it was created with.
type Layout struct {
	Capacity uint32
	Regions  [NumRegions]uint32
}

// DefaultLayout returns a layout suitable for verifying small proofs.
func DefaultLayout() Layout {
	var layout Layout
	//
	layout.Capacity = 64 * 1024
	layout.Regions[ProofRecord] = 64 * 1024
	layout.Regions[Coefficients] = 256 * WordBytes
	layout.Regions[DomainValues] = 64 * WordBytes
	layout.Regions[PowerTable] = 256 * WordBytes
	layout.Regions[Transcript] = 2 * WordBytes
	//
	return layout
}

// Size returns the total number of bytes in an arena image with this layout.
func (p Layout) Size() int {
	return int(p.Offset(NumRegions))
}

// Offset returns the byte offset of a given region within an arena image.
// Passing NumRegions gives the end of the last region.
func (p Layout) Offset(region Region) uint64 {
	var offset = uint64(HeaderBytes) + uint64(p.Capacity)
	//
	for i := Region(0); i < region; i++ {
		offset += uint64(p.Regions[i])
	}
	//
	return offset
}

// Validate checks that every region holds a whole number of words.
func (p Layout) Validate() error {
	for i, size := range p.Regions {
		if size%WordBytes != 0 {
			return fmt.Errorf("%s region size %d is not a multiple of %d", Region(i), size, WordBytes)
		}
	}
	//
	return nil
}
