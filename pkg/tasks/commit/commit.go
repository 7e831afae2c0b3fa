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
package commit

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"github.com/consensys/go-starkstep/pkg/tasks/transcript"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// ChallengeWord is the word of the domain values region holding the
// interaction challenge drawn between committing the main and interaction
// tables.
const ChallengeWord = 0

// Phases of the CommitTable task.
const (
	HashRow uint8 = iota
	AbsorbRow
)

// CommitTable commits to a row-major table of field elements held in the proof
// record, starting from a given word.  Each row is hashed and the result
// absorbed into the transcript.
type CommitTable struct {
	Phase   uint8
	Offset  uint32
	Columns uint32
	Rows    uint32
	// Row is the next row to commit.
	Row uint32
}

// NewCommitTable constructs a task committing to a table.
func NewCommitTable(offset uint32, columns uint32, rows uint32) *CommitTable {
	return &CommitTable{HashRow, offset, columns, rows, 0}
}

// Tag implementation for the engine.Task interface.
func (p *CommitTable) Tag() engine.Tag {
	return tag.CommitTable
}

// Execute implementation for the engine.Task interface.
func (p *CommitTable) Execute(ws *arena.Arena) (engine.Result, error) {
	switch {
	case p.Row >= p.Rows:
		return engine.Finish(), nil
	case p.Phase == HashRow:
		var offset = uint64(p.Offset) + uint64(p.Row)*uint64(p.Columns)
		//
		if offset+uint64(p.Columns) > uint64(ws.NumWords(arena.ProofRecord)) {
			return engine.Result{}, engine.Violation("table row %d out-of-bounds", p.Row)
		}
		//
		p.Phase = AbsorbRow
		//
		return engine.Continue(poseidon.NewHashRegion(arena.ProofRecord, uint32(offset), p.Columns)), nil
	case p.Phase == AbsorbRow:
		p.Phase, p.Row = HashRow, p.Row+1
		//
		if p.Row == p.Rows {
			return engine.Finish(&transcript.AbsorbOne{}), nil
		}
		//
		return engine.Continue(&transcript.AbsorbOne{}), nil
	}
	//
	return engine.Result{}, engine.Violation("invalid table phase %d", p.Phase)
}

// Phases of the CommitTrace task.
const (
	CommitMain uint8 = iota
	DrawChallenge
	StashChallenge
	CommitInteraction
	Done
)

// CommitTrace commits to a full execution trace.  That is, it commits to the
// main table, draws the interaction challenge (which is stashed in the domain
// values region), and then commits to the interaction table.
type CommitTrace struct {
	Phase              uint8
	Rows               uint32
	MainOffset         uint32
	MainColumns        uint32
	InteractionOffset  uint32
	InteractionColumns uint32
}

// Tag implementation for the engine.Task interface.
func (p *CommitTrace) Tag() engine.Tag {
	return tag.CommitTrace
}

// Execute implementation for the engine.Task interface.
func (p *CommitTrace) Execute(ws *arena.Arena) (engine.Result, error) {
	switch p.Phase {
	case CommitMain:
		p.Phase = DrawChallenge
		return engine.Continue(NewCommitTable(p.MainOffset, p.MainColumns, p.Rows)), nil
	case DrawChallenge:
		p.Phase = StashChallenge
		return engine.Continue(&transcript.RandomElement{}), nil
	case StashChallenge:
		challenge, err := engine.PopFelt(ws)
		if err != nil {
			return engine.Result{}, err
		}
		//
		engine.StoreFelt(ws, arena.DomainValues, ChallengeWord, challenge)
		p.Phase = CommitInteraction
		//
		return engine.Continue(), nil
	case CommitInteraction:
		p.Phase = Done
		return engine.Finish(NewCommitTable(p.InteractionOffset, p.InteractionColumns, p.Rows)), nil
	}
	//
	return engine.Result{}, engine.Violation("invalid trace phase %d", p.Phase)
}

// Table commits to a row-major table directly, without going through the task
// engine.
func Table(ref *transcript.Reference, rows [][]stark252.Element) {
	for _, row := range rows {
		ref.Absorb(poseidon.Sum(row...))
	}
}

// Trace commits to a main and interaction table directly, without going
// through the task engine, returning the interaction challenge.
func Trace(ref *transcript.Reference, main [][]stark252.Element, interaction [][]stark252.Element) stark252.Element {
	Table(ref, main)
	//
	challenge := ref.RandomElement()
	//
	Table(ref, interaction)
	//
	return challenge
}
