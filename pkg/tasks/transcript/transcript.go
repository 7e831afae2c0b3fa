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
package transcript

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// Words of the transcript region.
const (
	DigestWord = iota
	CounterWord
)

// Init resets the transcript held in an arena to a given seed.
func Init(ws *arena.Arena, seed stark252.Element) {
	engine.StoreFelt(ws, arena.Transcript, DigestWord, seed)
	engine.StoreFelt(ws, arena.Transcript, CounterWord, stark252.Zero())
}

// State returns the digest and counter of the transcript held in an arena.
func State(ws *arena.Arena) (digest stark252.Element, counter stark252.Element, err error) {
	if digest, err = engine.LoadFelt(ws, arena.Transcript, DigestWord); err != nil {
		return digest, counter, err
	}
	//
	counter, err = engine.LoadFelt(ws, arena.Transcript, CounterWord)
	//
	return digest, counter, err
}

// Reference is a transcript computed directly, without going through the task
// engine.  This allows a prover to derive the same challenges as the verifier.
type Reference struct {
	Digest  stark252.Element
	Counter stark252.Element
}

// NewReference constructs a reference transcript from a given seed.
func NewReference(seed stark252.Element) *Reference {
	return &Reference{seed, stark252.Zero()}
}

// RandomElement draws the next pseudo-random element.
func (p *Reference) RandomElement() stark252.Element {
	var x = poseidon.Sum(p.Digest, p.Counter)
	//
	p.Counter = p.Counter.Add(stark252.One())
	//
	return x
}

// Absorb one or more elements into the transcript.
func (p *Reference) Absorb(elems ...stark252.Element) {
	var inputs = append([]stark252.Element{p.Digest.Add(stark252.One())}, elems...)
	//
	p.Digest = poseidon.Sum(inputs...)
	p.Counter = stark252.Zero()
}
