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

// Phases of the Hash task.
const (
	LookupTable1 uint8 = iota
	LookupTable2
	LookupTable3
	LookupTable4
	Combine
	Done
)

// Hash computes the Pedersen hash of two field elements x and y, which are
// expected on the value stack (with y on top).  On completion both operands
// have been replaced by the hash.
//
// The hash is the x coordinate of shift + x_low*P0 + x_high*P1 + y_low*P2 +
// y_high*P3, where low covers the bottom 248 bits and high the top 4 bits.
// Each lookup phase spawns a child which walks the corresponding table,
// accumulating into a Jacobian point held on the value stack.
type Hash struct {
	Phase uint8
	// Operands, captured from the value stack by the first phase.
	X [stark252.Bytes]byte
	Y [stark252.Bytes]byte
}

// NewHash constructs a hash task ready to run.
func NewHash() *Hash {
	return &Hash{Phase: LookupTable1}
}

// Tag implementation for the engine.Task interface.
func (p *Hash) Tag() engine.Tag {
	return tag.PedersenHash
}

// Execute implementation for the engine.Task interface.
func (p *Hash) Execute(ws *arena.Arena) (engine.Result, error) {
	switch p.Phase {
	case LookupTable1:
		// Capture operands and start the accumulator at the shift point.
		y, err := engine.PopFelt(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		x, err := engine.PopFelt(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		p.X, p.Y = x.Encode(), y.Encode()
		p.Phase = LookupTable2
		//
		return engine.Continue(NewLookup(0, p.X, 1, stark252.Bytes)), pushPoint(ws, &shiftPoint)
	case LookupTable2:
		p.Phase = LookupTable3
		return engine.Continue(NewLookup(1, p.X, 0, 1)), nil
	case LookupTable3:
		p.Phase = LookupTable4
		return engine.Continue(NewLookup(2, p.Y, 1, stark252.Bytes)), nil
	case LookupTable4:
		p.Phase = Combine
		return engine.Continue(NewLookup(3, p.Y, 0, 1)), nil
	case Combine:
		acc, err := popPoint(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		p.Phase = Done
		//
		return engine.Finish(), engine.PushFelt(ws, stark252.Element{Element: affineX(&acc)})
	}
	//
	return engine.Result{}, engine.Violation("invalid hash phase %d", p.Phase)
}
