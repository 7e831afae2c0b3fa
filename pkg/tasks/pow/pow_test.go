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
package pow_test

import (
	"testing"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks"
	"github.com/consensys/go-starkstep/pkg/tasks/pow"
	"github.com/consensys/go-starkstep/pkg/tasks/transcript"
	"github.com/consensys/go-starkstep/pkg/util/assert"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

var digest = stark252.FromHex("0xd1e57")

func fresh() *arena.Arena {
	var ws = engine.Initialize(arena.DefaultLayout())
	//
	transcript.Init(ws, digest)
	//
	return ws
}

func Test_Pow_Solve(t *testing.T) {
	for _, bits := range []uint8{0, 1, 4, 8, 12} {
		var nonce = pow.Solve(digest, bits)
		//
		assert.True(t, pow.Check(digest, bits, nonce), "bits %d", bits)
		// Solve returns the smallest solution
		for n := uint64(0); n < nonce; n++ {
			assert.False(t, pow.Check(digest, bits, n), "bits %d, nonce %d", bits, n)
		}
	}
}

func Test_Pow_Valid(t *testing.T) {
	var (
		ws    = fresh()
		ref   = transcript.NewReference(digest)
		nonce = pow.Solve(digest, 10)
	)
	//
	_, err := tasks.Run(ws, &pow.ProofOfWork{Bits: 10, Nonce: nonce})
	assert.NoError(t, err)
	assert.True(t, ws.IsValueEmpty())
	// The nonce is absorbed into the transcript
	ref.Absorb(stark252.New(nonce))
	//
	d, c, err := transcript.State(ws)
	assert.NoError(t, err)
	assert.Equal(t, ref.Digest, d)
	assert.Equal(t, ref.Counter, c)
}

func Test_Pow_Invalid(t *testing.T) {
	var nonce uint64
	// Find a nonce which fails the threshold
	for pow.Check(digest, 10, nonce) {
		nonce++
	}
	//
	_, err := tasks.Run(fresh(), &pow.ProofOfWork{Bits: 10, Nonce: nonce})
	assert.ErrorIs(t, err, engine.ErrInvariantViolation)
	// Solutions are bound to the digest
	var (
		ws    = engine.Initialize(arena.DefaultLayout())
		other = stark252.FromHex("0xbad")
	)
	//
	nonce = pow.Solve(digest, 12)
	//
	if !pow.Check(other, 12, nonce) {
		transcript.Init(ws, other)
		_, err = tasks.Run(ws, &pow.ProofOfWork{Bits: 12, Nonce: nonce})
		assert.ErrorIs(t, err, engine.ErrInvariantViolation)
	}
}

func Test_Pow_TooManyBits(t *testing.T) {
	_, err := tasks.Run(fresh(), &pow.ProofOfWork{Bits: pow.MaxBits + 1})
	assert.ErrorIs(t, err, engine.ErrInvariantViolation)
}
