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
package pedersen_test

import (
	"bytes"
	"math/rand"
	"testing"

	pedersenhash "github.com/consensys/gnark-crypto/ecc/stark-curve/pedersen-hash"
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/consensys/go-starkstep/pkg/util/assert"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// Steps taken by a single hash: five phases, plus two 31-byte walks of eight
// steps each and two 1-byte walks of one step each.
const hashSteps = 23

func Test_Pedersen_Vector(t *testing.T) {
	var (
		x        = stark252.FromHex("0x03d937c035c878245caf64531a5756109c53068da139362728feb561405371cb")
		y        = stark252.FromHex("0x0208a0a10250e382e1e4bbe2880906c2791bf6275695e02fbbc6aeff9cd8b31a")
		expected = stark252.FromHex("0x030e480bed5fe53fa909cc0f8c4d99b8f9f2c016be4c41e13a4848797979c662")
		ws       = engine.Initialize(arena.DefaultLayout())
	)
	//
	assert.NoError(t, engine.PushFelts(ws, x, y))
	//
	n, err := tasks.Run(ws, pedersen.NewHash())
	assert.NoError(t, err)
	assert.Equal(t, hashSteps, n)
	// Exactly one record remains
	assert.Equal(t, engine.FeltBytes, ws.ValueTop())
	//
	enc := expected.Encode()
	assert.Bytes(t, enc[:], engine.ReadValue(ws, engine.FeltBytes))
	// Consuming it restores both stack pointers
	engine.DropTopValue(ws, engine.FeltBytes)
	assert.Equal(t, 0, ws.ValueTop())
	assert.Equal(t, ws.Capacity(), ws.TaskTop())
	// Direct computation agrees
	assert.Equal(t, expected, pedersen.Sum(x, y))
}

func Test_Pedersen_Reference(t *testing.T) {
	var rng = rand.New(rand.NewSource(2))
	//
	for i := 0; i < 8; i++ {
		var (
			x = randomElement(rng)
			y = randomElement(rng)
		)
		//
		checkHash(t, x, y)
	}
}

func Test_Pedersen_Edges(t *testing.T) {
	var minusOne = stark252.Zero().Sub(stark252.One())
	//
	checkHash(t, stark252.Zero(), stark252.Zero())
	checkHash(t, stark252.One(), stark252.Zero())
	checkHash(t, stark252.Zero(), minusOne)
	checkHash(t, minusOne, minusOne)
}

func Test_Pedersen_Array(t *testing.T) {
	var (
		elems    = []stark252.Element{stark252.New(1), stark252.New(2), stark252.New(3)}
		expected = pedersenhash.PedersenArray(&elems[0].Element, &elems[1].Element, &elems[2].Element)
		actual   = pedersen.SumArray(elems...)
	)
	//
	assert.True(t, expected.Equal(&actual.Element))
}

func Test_Pedersen_CountSteps(t *testing.T) {
	var ws = engine.Initialize(arena.DefaultLayout())
	//
	assert.NoError(t, engine.PushFelts(ws, stark252.New(1), stark252.New(2)))
	assert.NoError(t, engine.Seed(ws, pedersen.NewHash()))
	//
	n, err := tasks.NewScheduler().CountSteps(ws)
	assert.NoError(t, err)
	assert.Equal(t, hashSteps, n)
}

func Test_Pedersen_NonCanonical(t *testing.T) {
	var ws = engine.Initialize(arena.DefaultLayout())
	//
	assert.NoError(t, ws.PushValue(make([]byte, engine.FeltBytes)))
	assert.NoError(t, ws.PushValue(bytes.Repeat([]byte{0xff}, engine.FeltBytes)))
	//
	_, err := tasks.Run(ws, pedersen.NewHash())
	assert.ErrorIs(t, err, engine.ErrInvariantViolation)
}

func Test_Pedersen_InvalidLookup(t *testing.T) {
	var ws = engine.Initialize(arena.DefaultLayout())
	//
	assert.NoError(t, ws.PushValue(make([]byte, pedersen.PointBytes)))
	//
	_, err := tasks.Run(ws, &pedersen.Lookup{Point: 7, To: 1})
	assert.ErrorIs(t, err, engine.ErrInvariantViolation)
}

func checkHash(t *testing.T, x, y stark252.Element) {
	t.Helper()
	//
	var ws = engine.Initialize(arena.DefaultLayout())
	//
	assert.NoError(t, engine.PushFelts(ws, x, y))
	//
	_, err := tasks.Run(ws, pedersen.NewHash())
	assert.NoError(t, err)
	//
	actual, err := engine.PopFelt(ws)
	assert.NoError(t, err)
	assert.True(t, ws.IsValueEmpty())
	//
	expected := pedersenhash.Pedersen(&x.Element, &y.Element)
	assert.True(t, expected.Equal(&actual.Element), "hash(%s, %s) = %s, expected 0x%s", x, y, actual,
		expected.Text(16))
	assert.Equal(t, actual, pedersen.Sum(x, y))
}

func randomElement(rng *rand.Rand) stark252.Element {
	var buf [stark252.Bytes]byte
	//
	rng.Read(buf[:])
	//
	return stark252.Reduce(buf[:])
}
