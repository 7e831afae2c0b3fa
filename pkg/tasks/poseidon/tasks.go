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
package poseidon

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// StateBytes is the size of the permutation state on the value stack.
const StateBytes = Width * stark252.Bytes

// PartialRoundsPerStep bounds the number of partial rounds applied by a single
// Permutation step.
const PartialRoundsPerStep = 28

// Phases of the Permutation task.
const (
	FirstFull uint8 = iota
	Partial
	LastFull
	Done
)

// Permutation applies the Hades permutation to the state held in the top three
// records of the value stack (with the last state element on top), in place.
type Permutation struct {
	Phase uint8
	// Round is the next round to apply.
	Round uint8
}

// NewPermutation constructs a permutation task ready to run.
func NewPermutation() *Permutation {
	return &Permutation{FirstFull, 0}
}

// Tag implementation for the engine.Task interface.
func (p *Permutation) Tag() engine.Tag {
	return tag.PoseidonPermutation
}

// Execute implementation for the engine.Task interface.
func (p *Permutation) Execute(ws *arena.Arena) (engine.Result, error) {
	const lastPartial = FullRounds/2 + PartialRounds
	//
	var (
		from = uint(p.Round)
		to   uint
		next = p.Phase
	)
	//
	switch {
	case p.Phase == FirstFull && from == 0:
		to, next = FullRounds/2, Partial
	case p.Phase == Partial && from >= FullRounds/2 && from < lastPartial:
		to = min(from+PartialRoundsPerStep, lastPartial)
		//
		if to == lastPartial {
			next = LastFull
		}
	case p.Phase == LastFull && from == lastPartial:
		to, next = NumRounds, Done
	default:
		return engine.Result{}, engine.Violation("invalid permutation state (phase %d, round %d)", p.Phase, p.Round)
	}
	//
	state, err := loadState(ws)
	if err != nil {
		return engine.Result{}, err
	}
	//
	applyRounds(&state, from, to)
	storeState(ws, &state)
	p.Phase, p.Round = next, uint8(to)
	//
	if p.Phase == Done {
		return engine.Finish(), nil
	}
	//
	return engine.Continue(), nil
}

// loadState reads the permutation state from the top of the value stack.
func loadState(ws *arena.Arena) (State, error) {
	var state State
	//
	for i := range Width {
		x, err := engine.PeekFeltAt(ws, uint(Width-1-i))
		if err != nil {
			return state, err
		}
		//
		state[i] = x
	}
	//
	return state, nil
}

// storeState overwrites the permutation state on top of the value stack.
func storeState(ws *arena.Arena, state *State) {
	var record = ws.PeekValue(StateBytes)
	//
	for i := range Width {
		state[i].Put(record[i*stark252.Bytes:])
	}
}
