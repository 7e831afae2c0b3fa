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
	"encoding/binary"
	"fmt"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/commit"
	"github.com/consensys/go-starkstep/pkg/tasks/merkle"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/consensys/go-starkstep/pkg/tasks/poly"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/tasks/pow"
	"github.com/consensys/go-starkstep/pkg/tasks/transcript"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// Proof is the prover-side view of a proof.  The caller fills in the trace,
// composition coefficients, decommitment and public data, then calls Seal to
// derive the remaining fields exactly as the verifier will.
type Proof struct {
	// Seed initialises the transcript.
	Seed stark252.Element
	// Main and Interaction are row-major trace tables with equal row counts.
	Main        [][]stark252.Element
	Interaction [][]stark252.Element
	// Coefficients of the composition polynomial.
	Coefficients []stark252.Element
	// PowBits is the work threshold.
	PowBits uint8
	// Leaf, Siblings and Index form the decommitment.
	Leaf     merkle.Node
	Siblings []merkle.Node
	Index    uint32
	// Program and Output are the public data being attested.
	Program []stark252.Element
	Output  [2]stark252.Element
	// Derived by Seal.
	Claim stark252.Element
	Nonce uint64
	Root  merkle.Node
}

// Seal derives the composition claim, the proof-of-work nonce and the
// decommitment root by running the verifier's transcript directly.
func (p *Proof) Seal() {
	var ref = transcript.NewReference(p.Seed)
	//
	commit.Trace(ref, p.Main, p.Interaction)
	//
	z := ref.RandomElement()
	p.Claim = poly.Eval(p.Coefficients, z)
	ref.Absorb(p.Claim)
	p.Nonce = pow.Solve(ref.Digest, p.PowBits)
	p.Root = merkle.Root(p.Leaf, p.Siblings, uint64(p.Index))
}

// Expected returns the program and output hashes left by a successful
// verification of this proof.
func (p *Proof) Expected() (program stark252.Element, output stark252.Element) {
	return poseidon.Sum(p.Program...), pedersen.Sum(p.Output[0], p.Output[1])
}

// Header returns the header describing this proof.
func (p *Proof) Header() (Header, error) {
	var header = Header{
		Rows:               uint32(len(p.Main)),
		MainColumns:        columns(p.Main),
		InteractionColumns: columns(p.Interaction),
		NumCoefficients:    uint32(len(p.Coefficients)),
		PowBits:            uint32(p.PowBits),
		MerkleDepth:        uint32(len(p.Siblings)),
		MerkleIndex:        p.Index,
		ProgramLength:      uint32(len(p.Program)),
	}
	//
	switch {
	case len(p.Interaction) != len(p.Main):
		return header, fmt.Errorf("main (%d rows) and interaction (%d rows) differ", len(p.Main), len(p.Interaction))
	case !rectangular(p.Main) || !rectangular(p.Interaction):
		return header, fmt.Errorf("ragged trace table")
	case len(p.Siblings) > merkle.MaxDepth:
		return header, fmt.Errorf("authentication path depth %d exceeds %d", len(p.Siblings), merkle.MaxDepth)
	}
	//
	return header, nil
}

// Write lays this proof out into the proof record and coefficients regions of
// a given arena, and initialises its transcript.
func (p *Proof) Write(ws *arena.Arena) error {
	header, err := p.Header()
	//
	if err != nil {
		return err
	} else if header.Words() > uint64(ws.NumWords(arena.ProofRecord)) {
		return fmt.Errorf("proof of %d words exceeds record of %d", header.Words(), ws.NumWords(arena.ProofRecord))
	} else if len(p.Coefficients) > int(ws.NumWords(arena.Coefficients)) {
		return fmt.Errorf("%d coefficients exceed region of %d", len(p.Coefficients), ws.NumWords(arena.Coefficients))
	}
	//
	ws.ClearRegion(arena.ProofRecord)
	ws.ClearRegion(arena.Coefficients)
	header.Put(ws.Word(arena.ProofRecord, HeaderWord))
	binary.BigEndian.PutUint64(ws.Word(arena.ProofRecord, NonceWord)[arena.WordBytes-8:], p.Nonce)
	engine.StoreFelt(ws, arena.ProofRecord, ClaimWord, p.Claim)
	engine.StoreFelt(ws, arena.ProofRecord, OutputWord, p.Output[0])
	engine.StoreFelt(ws, arena.ProofRecord, OutputWord+1, p.Output[1])
	// Trace tables
	store(ws, TraceWord, p.Main...)
	store(ws, uint(header.InteractionWord()), p.Interaction...)
	// Decommitment
	var path = uint(header.PathWord())
	//
	copy(ws.Word(arena.ProofRecord, path), p.Leaf[:])
	//
	for i, sibling := range p.Siblings {
		copy(ws.Word(arena.ProofRecord, path+1+uint(i)), sibling[:])
	}
	//
	copy(ws.Word(arena.ProofRecord, path+1+uint(len(p.Siblings))), p.Root[:])
	// Program
	store(ws, uint(header.ProgramWord()), p.Program)
	//
	for i, c := range p.Coefficients {
		engine.StoreFelt(ws, arena.Coefficients, uint(i), c)
	}
	//
	transcript.Init(ws, p.Seed)
	//
	return nil
}

func store(ws *arena.Arena, word uint, rows ...[]stark252.Element) {
	for _, row := range rows {
		for _, x := range row {
			engine.StoreFelt(ws, arena.ProofRecord, word, x)
			word++
		}
	}
}

func columns(table [][]stark252.Element) uint32 {
	if len(table) == 0 {
		return 0
	}
	//
	return uint32(len(table[0]))
}

func rectangular(table [][]stark252.Element) bool {
	for _, row := range table {
		if len(row) != len(table[0]) {
			return false
		}
	}
	//
	return true
}
