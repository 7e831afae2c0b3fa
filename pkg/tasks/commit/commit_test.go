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
package commit_test

import (
	"testing"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks"
	"github.com/consensys/go-starkstep/pkg/tasks/commit"
	"github.com/consensys/go-starkstep/pkg/tasks/transcript"
	"github.com/consensys/go-starkstep/pkg/util/assert"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

var seed = stark252.New(7)

func table(rows, columns int, start uint64) [][]stark252.Element {
	var t = make([][]stark252.Element, rows)
	//
	for i := range t {
		t[i] = make([]stark252.Element, columns)
		//
		for j := range t[i] {
			t[i][j] = stark252.New(start + uint64(i*columns+j))
		}
	}
	//
	return t
}

func write(ws *arena.Arena, offset uint, t [][]stark252.Element) {
	for _, row := range t {
		for _, x := range row {
			engine.StoreFelt(ws, arena.ProofRecord, offset, x)
			offset++
		}
	}
}

func Test_Commit_Table(t *testing.T) {
	var (
		ws   = engine.Initialize(arena.DefaultLayout())
		ref  = transcript.NewReference(seed)
		main = table(3, 2, 100)
	)
	//
	transcript.Init(ws, seed)
	write(ws, 5, main)
	//
	_, err := tasks.Run(ws, commit.NewCommitTable(5, 2, 3))
	assert.NoError(t, err)
	assert.True(t, ws.IsValueEmpty())
	//
	commit.Table(ref, main)
	//
	digest, counter, err := transcript.State(ws)
	assert.NoError(t, err)
	assert.Equal(t, ref.Digest, digest)
	assert.Equal(t, ref.Counter, counter)
}

func Test_Commit_EmptyTable(t *testing.T) {
	var ws = engine.Initialize(arena.DefaultLayout())
	//
	transcript.Init(ws, seed)
	//
	n, err := tasks.Run(ws, commit.NewCommitTable(0, 4, 0))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	//
	digest, _, err := transcript.State(ws)
	assert.NoError(t, err)
	assert.Equal(t, seed, digest)
}

func Test_Commit_Trace(t *testing.T) {
	var (
		ws          = engine.Initialize(arena.DefaultLayout())
		ref         = transcript.NewReference(seed)
		main        = table(2, 3, 1)
		interaction = table(2, 1, 50)
	)
	//
	transcript.Init(ws, seed)
	write(ws, 0, main)
	write(ws, 6, interaction)
	//
	_, err := tasks.Run(ws, &commit.CommitTrace{Rows: 2, MainOffset: 0, MainColumns: 3, InteractionOffset: 6,
		InteractionColumns: 1})
	assert.NoError(t, err)
	assert.True(t, ws.IsValueEmpty())
	//
	challenge := commit.Trace(ref, main, interaction)
	//
	stashed, err := engine.LoadFelt(ws, arena.DomainValues, commit.ChallengeWord)
	assert.NoError(t, err)
	assert.Equal(t, challenge, stashed)
	//
	digest, _, err := transcript.State(ws)
	assert.NoError(t, err)
	assert.Equal(t, ref.Digest, digest)
}

func Test_Commit_OutOfBounds(t *testing.T) {
	var (
		ws    = engine.Initialize(arena.DefaultLayout())
		words = uint32(ws.NumWords(arena.ProofRecord))
	)
	//
	_, err := tasks.Run(ws, commit.NewCommitTable(words-1, 2, 1))
	assert.ErrorIs(t, err, engine.ErrInvariantViolation)
}
