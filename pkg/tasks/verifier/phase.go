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
package verifier

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/commit"
	"github.com/consensys/go-starkstep/pkg/tasks/merkle"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/consensys/go-starkstep/pkg/tasks/poly"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/tasks/pow"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/tasks/transcript"
)

// Phases of the verifier.
const (
	CommitTrace uint8 = iota
	DeriveOods
	StashOods
	Powers
	Evaluate
	CheckComposition
	AbsorbClaim
	ProofOfWork
	Decommit
	HashProgram
	HashOutput
	Done
)

// Phase is the root task of a proof verification.  It walks through the
// stages of verification, spawning one child per stage, with everything else
// read from the proof record.  On success, the value stack holds the program
// hash with the output hash on top.  Any inconsistency in the proof is an
// invariant violation.
type Phase struct {
	Phase uint8
}

// New constructs the root task of a proof verification.
func New() *Phase {
	return &Phase{CommitTrace}
}

// Tag implementation for the engine.Task interface.
func (p *Phase) Tag() engine.Tag {
	return tag.VerifierPhase
}

// Execute implementation for the engine.Task interface.
func (p *Phase) Execute(ws *arena.Arena) (engine.Result, error) {
	header, err := ReadHeader(ws)
	if err != nil {
		return engine.Result{}, err
	}
	//
	switch p.Phase {
	case CommitTrace:
		p.Phase = DeriveOods
		//
		return engine.Continue(&commit.CommitTrace{
			Rows:               header.Rows,
			MainOffset:         TraceWord,
			MainColumns:        header.MainColumns,
			InteractionOffset:  uint32(header.InteractionWord()),
			InteractionColumns: header.InteractionColumns,
		}), nil
	case DeriveOods:
		p.Phase = StashOods
		return engine.Continue(&transcript.RandomElement{}), nil
	case StashOods:
		z, err := engine.PopFelt(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		engine.StoreFelt(ws, arena.DomainValues, OodsWord, z)
		p.Phase = Powers
		//
		return engine.Continue(), nil
	case Powers:
		p.Phase = Evaluate
		return engine.Continue(poly.NewPowers(OodsWord, header.NumCoefficients)), nil
	case Evaluate:
		p.Phase = CheckComposition
		return engine.Continue(poly.NewEvaluate(header.NumCoefficients)), nil
	case CheckComposition:
		value, err := engine.PopFelt(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		claim, err := engine.LoadFelt(ws, arena.ProofRecord, ClaimWord)
		if err != nil {
			return engine.Result{}, err
		} else if !value.Equal(claim) {
			return engine.Result{}, engine.Violation("composition value %s does not match claim %s", value, claim)
		}
		//
		p.Phase = AbsorbClaim
		//
		return engine.Continue(), nil
	case AbsorbClaim:
		claim, err := engine.LoadFelt(ws, arena.ProofRecord, ClaimWord)
		if err != nil {
			return engine.Result{}, err
		}
		//
		p.Phase = ProofOfWork
		//
		return engine.Continue(&transcript.AbsorbOne{}), engine.PushFelt(ws, claim)
	case ProofOfWork:
		nonce, err := ReadNonce(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		p.Phase = Decommit
		//
		return engine.Continue(&pow.ProofOfWork{Bits: uint8(header.PowBits), Nonce: nonce}), nil
	case Decommit:
		p.Phase = HashProgram
		//
		return engine.Continue(merkle.NewVerifyPath(uint32(header.PathWord()), uint8(header.MerkleDepth),
			uint64(header.MerkleIndex))), nil
	case HashProgram:
		p.Phase = HashOutput
		//
		return engine.Continue(poseidon.NewHashRegion(arena.ProofRecord, uint32(header.ProgramWord()),
			header.ProgramLength)), nil
	case HashOutput:
		for i := uint(0); i < 2; i++ {
			x, err := engine.LoadFelt(ws, arena.ProofRecord, OutputWord+i)
			if err != nil {
				return engine.Result{}, err
			} else if err := engine.PushFelt(ws, x); err != nil {
				return engine.Result{}, err
			}
		}
		//
		p.Phase = Done
		//
		return engine.Finish(pedersen.NewHash()), nil
	}
	//
	return engine.Result{}, engine.Violation("invalid verifier phase %d", p.Phase)
}
