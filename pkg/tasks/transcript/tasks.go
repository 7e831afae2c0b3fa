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
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// Phases of the absorb tasks.
const (
	Hash uint8 = iota
	Update
	Done
)

// RandomElement derives a pseudo-random element from the transcript as the hash
// of its digest and counter, and then increments the counter.  The element is
// left on the value stack.
type RandomElement struct{}

// Tag implementation for the engine.Task interface.
func (p *RandomElement) Tag() engine.Tag {
	return tag.TranscriptRandom
}

// Execute implementation for the engine.Task interface.
func (p *RandomElement) Execute(ws *arena.Arena) (engine.Result, error) {
	digest, counter, err := State(ws)
	if err != nil {
		return engine.Result{}, err
	}
	//
	engine.StoreFelt(ws, arena.Transcript, CounterWord, counter.Add(stark252.One()))
	//
	return engine.Finish(poseidon.NewHashMany(2)), engine.PushFelts(ws, digest, counter)
}

// AbsorbOne absorbs the element on top of the value stack into the transcript,
// such that the new digest is the hash of the old digest plus one and the
// element.  The counter is reset, and the element consumed.
type AbsorbOne struct {
	Phase uint8
}

// Tag implementation for the engine.Task interface.
func (p *AbsorbOne) Tag() engine.Tag {
	return tag.TranscriptAbsorbOne
}

// Execute implementation for the engine.Task interface.
func (p *AbsorbOne) Execute(ws *arena.Arena) (engine.Result, error) {
	return absorb(ws, &p.Phase, poseidon.NewHashMany(1))
}

// AbsorbMany absorbs a vector of elements into the transcript, such that the
// new digest is the hash of the old digest plus one followed by the elements.
// The elements are read either from the value stack (and consumed), or from a
// scratch region.
type AbsorbMany struct {
	Phase  uint8
	Source uint8
	Offset uint32
	Length uint32
}

// NewAbsorbMany constructs a task absorbing the top length records of the
// value stack.
func NewAbsorbMany(length uint32) *AbsorbMany {
	return &AbsorbMany{Hash, poseidon.FromStack, 0, length}
}

// NewAbsorbRegion constructs a task absorbing length words of a scratch
// region, starting from a given word.
func NewAbsorbRegion(region arena.Region, offset uint32, length uint32) *AbsorbMany {
	return &AbsorbMany{Hash, uint8(region) + 1, offset, length}
}

// Tag implementation for the engine.Task interface.
func (p *AbsorbMany) Tag() engine.Tag {
	return tag.TranscriptAbsorbMany
}

// Execute implementation for the engine.Task interface.
func (p *AbsorbMany) Execute(ws *arena.Arena) (engine.Result, error) {
	var hash = poseidon.NewHashMany(p.Length)
	//
	if p.Source != poseidon.FromStack {
		hash = poseidon.NewHashRegion(arena.Region(p.Source-1), p.Offset, p.Length)
	}
	//
	return absorb(ws, &p.Phase, hash)
}

// absorb implements the two phases common to both absorb tasks: spawn a hash
// prefixed by the digest plus one, and then store its result as the new
// digest.
func absorb(ws *arena.Arena, phase *uint8, hash *poseidon.HashMany) (engine.Result, error) {
	switch *phase {
	case Hash:
		digest, err := engine.LoadFelt(ws, arena.Transcript, DigestWord)
		if err != nil {
			return engine.Result{}, err
		}
		//
		*phase = Update
		//
		return engine.Continue(hash.WithPrefix(digest.Add(stark252.One()))), nil
	case Update:
		digest, err := engine.PopFelt(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		Init(ws, digest)
		*phase = Done
		//
		return engine.Finish(), nil
	}
	//
	return engine.Result{}, engine.Violation("invalid absorb phase %d", *phase)
}
