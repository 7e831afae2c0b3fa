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

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/merkle"
	"github.com/consensys/go-starkstep/pkg/tasks/pow"
)

// Fixed words of the proof record.
const (
	HeaderWord = iota
	NonceWord
	ClaimWord
	OutputWord
	// TraceWord is the first word of the main trace.  The output occupies
	// two words.
	TraceWord = OutputWord + 2
)

// OodsWord is the word of the domain values region holding the out-of-domain
// sampling point.
const OodsWord = 1

// Header describes the shape of the proof held in the proof record.  It is
// encoded as eight big-endian 32-bit fields in the first word of the record.
type Header struct {
	Rows               uint32
	MainColumns        uint32
	InteractionColumns uint32
	NumCoefficients    uint32
	PowBits            uint32
	MerkleDepth        uint32
	MerkleIndex        uint32
	ProgramLength      uint32
}

// ReadNonce decodes the proof-of-work nonce held in the proof record of a given
// arena.  The nonce occupies the low eight bytes of its word, and any other
// non-zero byte is an invariant violation.
func ReadNonce(ws *arena.Arena) (uint64, error) {
	var word = ws.Word(arena.ProofRecord, NonceWord)
	//
	for _, b := range word[:arena.WordBytes-8] {
		if b != 0 {
			return 0, engine.Violation("nonce word %x exceeds 64 bits", word)
		}
	}
	//
	return binary.BigEndian.Uint64(word[arena.WordBytes-8:]), nil
}

// ReadHeader decodes the header held in the proof record of a given arena.
// A header describing a proof which does not fit in the arena is an invariant
// violation.
func ReadHeader(ws *arena.Arena) (Header, error) {
	var header Header
	//
	if ws.NumWords(arena.ProofRecord) <= TraceWord {
		return header, engine.Violation("proof record too small (%d words)", ws.NumWords(arena.ProofRecord))
	} else if _, err := binary.Decode(ws.Word(arena.ProofRecord, HeaderWord), binary.BigEndian, &header); err != nil {
		return header, engine.Violation("proof header: %s", err)
	}
	//
	switch {
	case header.PowBits > pow.MaxBits:
		return header, engine.Violation("work threshold of %d bits exceeds %d", header.PowBits, pow.MaxBits)
	case header.MerkleDepth > merkle.MaxDepth:
		return header, engine.Violation("authentication path depth %d exceeds %d", header.MerkleDepth, merkle.MaxDepth)
	case header.NumCoefficients > uint32(ws.NumWords(arena.Coefficients)):
		return header, engine.Violation("%d coefficients exceed region", header.NumCoefficients)
	case header.NumCoefficients > uint32(ws.NumWords(arena.PowerTable)):
		return header, engine.Violation("%d coefficients exceed power table", header.NumCoefficients)
	case header.Words() > uint64(ws.NumWords(arena.ProofRecord)):
		return header, engine.Violation("proof of %d words exceeds record", header.Words())
	}
	//
	return header, nil
}

// Put encodes this header into a given word.
func (p Header) Put(word []byte) {
	_, _ = binary.Encode(word, binary.BigEndian, &p)
}

// InteractionWord returns the first word of the interaction trace.
func (p Header) InteractionWord() uint64 {
	return TraceWord + uint64(p.Rows)*uint64(p.MainColumns)
}

// PathWord returns the first word of the authentication path.
func (p Header) PathWord() uint64 {
	return p.InteractionWord() + uint64(p.Rows)*uint64(p.InteractionColumns)
}

// ProgramWord returns the first word of the program.
func (p Header) ProgramWord() uint64 {
	return p.PathWord() + uint64(p.MerkleDepth) + 2
}

// Words returns the total number of proof record words used.
func (p Header) Words() uint64 {
	return p.ProgramWord() + uint64(p.ProgramLength)
}
