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

// Region returns the byte window of a given scratch region.  The returned
// slice aliases the arena, and writes through it are persisted.  Accessing a
// region never moves either stack pointer.
func (p *Arena) Region(region Region) []byte {
	var (
		start = p.layout.Offset(region)
		end   = start + uint64(p.layout.Regions[region])
	)
	//
	return p.data[start:end]
}

// NumWords returns the number of 32-byte words in a given scratch region.
func (p *Arena) NumWords(region Region) uint {
	return uint(p.layout.Regions[region]) / WordBytes
}

// Word returns the ith 32-byte word of a given scratch region.  The returned
// slice aliases the arena.  Addressing a word beyond the end of the region
// panics.
func (p *Arena) Word(region Region, index uint) []byte {
	if index >= p.NumWords(region) {
		panic(fmt.Sprintf("word %d out-of-bounds for %s region (%d words)", index, region, p.NumWords(region)))
	}
	//
	var offset = index * WordBytes
	//
	return p.Region(region)[offset : offset+WordBytes]
}

// Words returns n consecutive 32-byte words of a given scratch region starting
// from a given index, as a single slice aliasing the arena.
func (p *Arena) Words(region Region, index uint, n uint) []byte {
	if index+n > p.NumWords(region) {
		panic(fmt.Sprintf("words [%d,%d) out-of-bounds for %s region (%d words)", index, index+n, region,
			p.NumWords(region)))
	}
	//
	return p.Region(region)[index*WordBytes : (index+n)*WordBytes]
}

// ClearRegion zeroes every byte of a given scratch region.
func (p *Arena) ClearRegion(region Region) {
	clear(p.Region(region))
}
