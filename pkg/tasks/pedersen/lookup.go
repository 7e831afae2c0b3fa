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
package pedersen

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// NibblesPerStep bounds the number of table additions performed by a single
// Lookup step.
const NibblesPerStep = 8

// Lookup accumulates the multiple of a given generator point determined by the
// bytes [From,To) of a big-endian operand.  The byte immediately before To is
// the least significant, hence byte i contributes nibbles 2(To-i-1) and
// 2(To-i-1)+1.  The accumulator is expected on top of the value stack, and is
// updated in place.
type Lookup struct {
	Point   uint8
	Operand [stark252.Bytes]byte
	From    uint8
	To      uint8
	// Cursor is the next byte to process.
	Cursor uint8
}

// NewLookup constructs a lookup over a given range of operand bytes.
func NewLookup(point uint8, operand [stark252.Bytes]byte, from uint8, to uint8) *Lookup {
	return &Lookup{point, operand, from, to, from}
}

// Tag implementation for the engine.Task interface.
func (p *Lookup) Tag() engine.Tag {
	return tag.PedersenLookup
}

// Execute implementation for the engine.Task interface.
func (p *Lookup) Execute(ws *arena.Arena) (engine.Result, error) {
	if p.Point >= NumPoints || p.From > p.To || p.To > stark252.Bytes || p.Cursor < p.From || p.Cursor > p.To {
		return engine.Result{}, engine.Violation("invalid lookup (point %d, bytes [%d,%d), cursor %d)", p.Point,
			p.From, p.To, p.Cursor)
	}
	//
	var (
		record = ws.PeekValue(PointBytes)
		end    = min(p.To, p.Cursor+NibblesPerStep/2)
	)
	//
	acc, err := getPoint(record)
	if err != nil {
		return engine.Result{}, err
	}
	//
	for ; p.Cursor < end; p.Cursor++ {
		var (
			val   = p.Operand[p.Cursor]
			index = uint(p.To - p.Cursor - 1)
		)
		//
		if low := val & 0x0F; low > 0 {
			acc.AddAssign(lookup(p.Point, 2*index, low))
		}
		//
		if high := val >> 4; high > 0 {
			acc.AddAssign(lookup(p.Point, 2*index+1, high))
		}
	}
	//
	putPoint(record, &acc)
	//
	if p.Cursor == p.To {
		return engine.Finish(), nil
	}
	//
	return engine.Continue(), nil
}
