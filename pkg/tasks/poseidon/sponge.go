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

// Phases of the HashMany task.
const (
	Absorb uint8 = iota
	Collect
)

// FromStack indicates a HashMany reads its inputs from the value stack.
const FromStack = 0

// HashMany computes the sponge hash of a sequence of field elements.  The
// sequence consists of an optional prefix element, followed by Length inputs
// read either from the value stack (the top Length records, with the last
// input on top) or from consecutive words of a scratch region.  The sequence
// is padded with a single one and then zeros to an even length, and absorbed
// two elements at a time into a state initially all zero, with a permutation
// applied after each absorption.  On completion, any inputs read from the value
// stack have been replaced by the first state element.
//
// Whilst hashing, the sponge state sits on the value stack above the inputs.
type HashMany struct {
	Phase     uint8
	HasPrefix bool
	// Source is FromStack, or one more than the region holding the inputs.
	Source  uint8
	Length  uint32
	Offset  uint32
	Counter uint32
	Prefix  [stark252.Bytes]byte
}

// NewHashMany constructs a hash over the top length records of the value
// stack.
func NewHashMany(length uint32) *HashMany {
	return &HashMany{Length: length}
}

// NewHashRegion constructs a hash over length words of a given scratch region,
// starting from a given word.
func NewHashRegion(region arena.Region, offset uint32, length uint32) *HashMany {
	return &HashMany{Source: uint8(region) + 1, Offset: offset, Length: length}
}

// WithPrefix returns this hash updated to absorb a given element ahead of its
// inputs.
func (p *HashMany) WithPrefix(prefix stark252.Element) *HashMany {
	p.HasPrefix, p.Prefix = true, prefix.Encode()
	//
	return p
}

// Tag implementation for the engine.Task interface.
func (p *HashMany) Tag() engine.Tag {
	return tag.PoseidonHashMany
}

// PaddedLength returns the number of elements absorbed by this hash.
func (p *HashMany) PaddedLength() uint64 {
	var n = uint64(p.Length)
	//
	if p.HasPrefix {
		n++
	}
	//
	return (n + 2) &^ 1
}

// Execute implementation for the engine.Task interface.
func (p *HashMany) Execute(ws *arena.Arena) (engine.Result, error) {
	var padded = p.PaddedLength()
	//
	switch {
	case p.Phase == Absorb && uint64(p.Counter) < padded && p.Counter%2 == 0:
		if p.Counter == 0 {
			if err := p.start(ws); err != nil {
				return engine.Result{}, err
			}
		}
		//
		if err := p.absorb(ws); err != nil {
			return engine.Result{}, err
		}
		//
		p.Counter += 2
		//
		if uint64(p.Counter) == padded {
			p.Phase = Collect
		}
		//
		return engine.Continue(NewPermutation()), nil
	case p.Phase == Collect:
		digest, err := engine.PeekFeltAt(ws, Width-1)
		if err != nil {
			return engine.Result{}, err
		}
		//
		ws.DropValue(StateBytes)
		//
		if p.Source == FromStack {
			ws.DropValue(uint(p.Length) * stark252.Bytes)
		}
		//
		p.Phase = Done
		//
		return engine.Finish(), engine.PushFelt(ws, digest)
	}
	//
	return engine.Result{}, engine.Violation("invalid sponge state (phase %d, counter %d)", p.Phase, p.Counter)
}

// start checks the inputs are available, and pushes the initial state.
func (p *HashMany) start(ws *arena.Arena) error {
	var length = uint64(p.Length)
	//
	if p.Source == FromStack && length*stark252.Bytes > uint64(ws.ValueTop()) {
		return engine.Violation("sponge expects %d inputs on value stack (found %d bytes)", p.Length, ws.ValueTop())
	} else if p.Source > uint8(arena.NumRegions) {
		return engine.Violation("sponge source %d is not a region", p.Source)
	} else if p.Source != FromStack && uint64(p.Offset)+length > uint64(ws.NumWords(p.region())) {
		return engine.Violation("sponge inputs [%d,%d) out-of-bounds for %s region", p.Offset,
			uint64(p.Offset)+length, p.region())
	}
	//
	return ws.PushValue(make([]byte, StateBytes))
}

// absorb adds the next two elements of the padded sequence into the rate.
func (p *HashMany) absorb(ws *arena.Arena) error {
	state, err := loadState(ws)
	if err != nil {
		return err
	}
	//
	for i := range uint32(2) {
		x, err := p.input(ws, p.Counter+i)
		if err != nil {
			return err
		}
		//
		state[i] = state[i].Add(x)
	}
	//
	storeState(ws, &state)
	//
	return nil
}

// input returns the kth element of the padded sequence.
func (p *HashMany) input(ws *arena.Arena, k uint32) (stark252.Element, error) {
	if p.HasPrefix && k == 0 {
		x, err := stark252.FromBytes(p.Prefix[:])
		if err != nil {
			return x, engine.Violation("sponge prefix: %s", err)
		}
		//
		return x, nil
	} else if p.HasPrefix {
		k--
	}
	//
	switch {
	case k < p.Length && p.Source == FromStack:
		return engine.PeekFeltAt(ws, uint(Width+p.Length-1-k))
	case k < p.Length:
		return engine.LoadFelt(ws, p.region(), uint(p.Offset+k))
	case k == p.Length:
		return stark252.One(), nil
	default:
		return stark252.Zero(), nil
	}
}

func (p *HashMany) region() arena.Region {
	return arena.Region(p.Source - 1)
}

// Sum computes the sponge hash of zero or more elements directly, without
// going through the task engine.
func Sum(inputs ...stark252.Element) stark252.Element {
	var (
		state State
		seq   = append(append([]stark252.Element{}, inputs...), stark252.One())
	)
	//
	if len(seq)%2 == 1 {
		seq = append(seq, stark252.Zero())
	}
	//
	for i := 0; i < len(seq); i += 2 {
		state[0] = state[0].Add(seq[i])
		state[1] = state[1].Add(seq[i+1])
		Permute(&state)
	}
	//
	return state[0]
}
