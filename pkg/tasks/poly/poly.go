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
package poly

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// PowersPerStep bounds the number of powers computed by a single step.
const PowersPerStep = 32

// TermsPerStep bounds the number of terms summed by a single step.
const TermsPerStep = 32

// Powers fills the first Count words of the power table with z^0 ... z^(n-1),
// where z is held in a given word of the domain values region.
type Powers struct {
	Point uint32
	Count uint32
	// Index is the next power to compute.
	Index uint32
}

// NewPowers constructs a task filling the power table.
func NewPowers(point uint32, count uint32) *Powers {
	return &Powers{point, count, 0}
}

// Tag implementation for the engine.Task interface.
func (p *Powers) Tag() engine.Tag {
	return tag.PolyPowers
}

// Execute implementation for the engine.Task interface.
func (p *Powers) Execute(ws *arena.Arena) (engine.Result, error) {
	if uint(p.Count) > ws.NumWords(arena.PowerTable) || uint(p.Point) >= ws.NumWords(arena.DomainValues) {
		return engine.Result{}, engine.Violation("%d powers of domain value %d out-of-bounds", p.Count, p.Point)
	}
	//
	z, err := engine.LoadFelt(ws, arena.DomainValues, uint(p.Point))
	if err != nil {
		return engine.Result{}, err
	}
	//
	for end := min(p.Index+PowersPerStep, p.Count); p.Index < end; p.Index++ {
		var power = stark252.One()
		//
		if p.Index > 0 {
			prev, err := engine.LoadFelt(ws, arena.PowerTable, uint(p.Index-1))
			if err != nil {
				return engine.Result{}, err
			}
			//
			power = prev.Mul(z)
		}
		//
		engine.StoreFelt(ws, arena.PowerTable, uint(p.Index), power)
	}
	//
	if p.Index == p.Count {
		return engine.Finish(), nil
	}
	//
	return engine.Continue(), nil
}

// Evaluate computes the sum of coefficient i times power i, for the first
// Count words of the coefficients region and power table.  Hence, if the power
// table holds successive powers of z, this evaluates the polynomial at z.  The
// result is pushed onto the value stack.
type Evaluate struct {
	Count uint32
	// Index is the next term to add.
	Index uint32
	// Acc is the running sum.
	Acc [stark252.Bytes]byte
}

// NewEvaluate constructs a task evaluating a polynomial with a given number of
// coefficients.
func NewEvaluate(count uint32) *Evaluate {
	return &Evaluate{Count: count}
}

// Tag implementation for the engine.Task interface.
func (p *Evaluate) Tag() engine.Tag {
	return tag.PolyEvaluate
}

// Execute implementation for the engine.Task interface.
func (p *Evaluate) Execute(ws *arena.Arena) (engine.Result, error) {
	if uint(p.Count) > ws.NumWords(arena.Coefficients) || uint(p.Count) > ws.NumWords(arena.PowerTable) {
		return engine.Result{}, engine.Violation("%d terms out-of-bounds", p.Count)
	}
	//
	acc, err := stark252.FromBytes(p.Acc[:])
	if err != nil {
		return engine.Result{}, engine.Violation("evaluation accumulator: %s", err)
	}
	//
	for end := min(p.Index+TermsPerStep, p.Count); p.Index < end; p.Index++ {
		coeff, err := engine.LoadFelt(ws, arena.Coefficients, uint(p.Index))
		if err != nil {
			return engine.Result{}, err
		}
		//
		power, err := engine.LoadFelt(ws, arena.PowerTable, uint(p.Index))
		if err != nil {
			return engine.Result{}, err
		}
		//
		acc = acc.Add(coeff.Mul(power))
	}
	//
	p.Acc = acc.Encode()
	//
	if p.Index == p.Count {
		return engine.Finish(), engine.PushFelt(ws, acc)
	}
	//
	return engine.Continue(), nil
}

// Eval evaluates a polynomial at a given point directly, without going through
// the task engine.
func Eval(coeffs []stark252.Element, z stark252.Element) stark252.Element {
	var acc stark252.Element
	//
	for i := len(coeffs) - 1; i >= 0; i-- {
		acc = acc.Mul(z).Add(coeffs[i])
	}
	//
	return acc
}
