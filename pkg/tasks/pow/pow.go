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
package pow

import (
	"encoding/binary"
	"math/bits"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/tasks/transcript"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
	"golang.org/x/crypto/sha3"
)

// Magic prefixes the initial hash of every proof-of-work check.
const Magic uint64 = 0x0123456789abcded

// MaxBits is the largest supported work threshold.
const MaxBits = 64

// ProofOfWork checks that a nonce meets a given work threshold for the current
// transcript digest.  Specifically, keccak(keccak(magic || digest || bits) ||
// nonce) must have at least Bits leading zero bits.  A nonce which does not is
// an invariant violation.  On success, the nonce is absorbed into the
// transcript.
type ProofOfWork struct {
	Bits  uint8
	Nonce uint64
}

// Tag implementation for the engine.Task interface.
func (p *ProofOfWork) Tag() engine.Tag {
	return tag.ProofOfWork
}

// Execute implementation for the engine.Task interface.
func (p *ProofOfWork) Execute(ws *arena.Arena) (engine.Result, error) {
	if p.Bits > MaxBits {
		return engine.Result{}, engine.Violation("work threshold of %d bits exceeds %d", p.Bits, MaxBits)
	}
	//
	digest, err := engine.LoadFelt(ws, arena.Transcript, transcript.DigestWord)
	if err != nil {
		return engine.Result{}, err
	}
	//
	if !Check(digest, p.Bits, p.Nonce) {
		return engine.Result{}, engine.Violation("nonce %d does not meet %d bit work threshold", p.Nonce, p.Bits)
	}
	//
	return engine.Finish(&transcript.AbsorbOne{}), engine.PushFelt(ws, stark252.New(p.Nonce))
}

// Check whether a nonce meets a given work threshold for a given digest.
func Check(digest stark252.Element, bits uint8, nonce uint64) bool {
	var (
		init = seed(digest, bits)
		buf  [8]byte
	)
	//
	binary.BigEndian.PutUint64(buf[:], nonce)
	//
	return leadingZeros(keccak(init[:], buf[:])) >= uint(bits)
}

// Solve finds the smallest nonce meeting a given work threshold for a given
// digest.
func Solve(digest stark252.Element, bits uint8) uint64 {
	var nonce uint64
	//
	for !Check(digest, bits, nonce) {
		nonce++
	}
	//
	return nonce
}

func seed(digest stark252.Element, bits uint8) [32]byte {
	var (
		magic [8]byte
		enc   = digest.Encode()
	)
	//
	binary.BigEndian.PutUint64(magic[:], Magic)
	//
	return keccak(magic[:], enc[:], []byte{bits})
}

func keccak(chunks ...[]byte) [32]byte {
	var (
		hash = sha3.NewLegacyKeccak256()
		out  [32]byte
	)
	//
	for _, chunk := range chunks {
		hash.Write(chunk)
	}
	//
	hash.Sum(out[:0])
	//
	return out
}

func leadingZeros(hash [32]byte) uint {
	var n uint
	//
	for _, b := range hash {
		if b != 0 {
			return n + uint(bits.LeadingZeros8(b))
		}
		//
		n += 8
	}
	//
	return n
}
