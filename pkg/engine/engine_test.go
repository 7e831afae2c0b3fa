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
package engine

import (
	"bytes"
	"testing"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/util/assert"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

const (
	traceTag Tag = 1
	stuckTag Tag = 2
	failTag  Tag = 3
)

// traceTask records entry and exit on the value stack, spawning its children
// (as given by the tree table) in between.
type traceTask struct {
	Id    uint8
	Phase uint8
}

// Task tree used for call/return tests: 1 -> [2, 3], 2 -> [4].
var tree = map[uint8][]uint8{1: {2, 3}, 2: {4}}

func (p *traceTask) Tag() Tag { return traceTag }

func (p *traceTask) Execute(ws *arena.Arena) (Result, error) {
	switch p.Phase {
	case 0:
		var children []Task
		//
		for _, id := range tree[p.Id] {
			children = append(children, &traceTask{id, 0})
		}
		//
		p.Phase = 1
		//
		return Continue(children...), ws.PushValue([]byte{p.Id})
	default:
		return Finish(), ws.PushValue([]byte{100 + p.Id})
	}
}

// stuckTask never changes its own state.
type stuckTask struct {
	Count uint32
}

func (p *stuckTask) Tag() Tag { return stuckTag }

func (p *stuckTask) Execute(ws *arena.Arena) (Result, error) {
	return Continue(), nil
}

// failTask always detects a violation.
type failTask struct {
	Reason uint8
}

func (p *failTask) Tag() Tag { return failTag }

func (p *failTask) Execute(ws *arena.Arena) (Result, error) {
	return Result{}, Violation("reason %d", p.Reason)
}

type testCodec struct{}

func (testCodec) Decode(tag Tag, data []byte) (Task, error) {
	switch tag {
	case traceTag:
		return DecodeInto(data, &traceTask{})
	case stuckTag:
		return DecodeInto(data, &stuckTask{})
	case failTag:
		return DecodeInto(data, &failTask{})
	}
	//
	return nil, UnknownTag(tag)
}

func (testCodec) Name(tag Tag) string {
	switch tag {
	case traceTag:
		return "trace"
	case stuckTag:
		return "stuck"
	case failTag:
		return "fail"
	}
	//
	return "unknown"
}

func testLayout() arena.Layout {
	var layout arena.Layout
	//
	layout.Capacity = 1024
	layout.Regions[arena.ProofRecord] = 2 * arena.WordBytes
	//
	return layout
}

func seeded(t *testing.T, root Task) *arena.Arena {
	var ws = Initialize(testLayout())
	//
	assert.NoError(t, Seed(ws, root))
	//
	return ws
}

// ============================================================================
// Codec
// ============================================================================

func Test_Codec_RoundTrip(t *testing.T) {
	var (
		task = &traceTask{7, 1}
		blob = Encode(task)
	)
	//
	assert.Bytes(t, []byte{0, 0, 0, 1, 7, 1}, blob)
	//
	decoded, err := Decode(testCodec{}, blob)
	assert.NoError(t, err)
	assert.Equal(t, task, decoded)
}

func Test_Codec_UnknownTag(t *testing.T) {
	_, err := Decode(testCodec{}, []byte{0, 0, 0, 99, 1, 2})
	assert.ErrorIs(t, err, ErrCodec)
	//
	_, err = Decode(testCodec{}, []byte{0, 0})
	assert.ErrorIs(t, err, ErrCodec)
}

func Test_Codec_WrongLength(t *testing.T) {
	_, err := Decode(testCodec{}, []byte{0, 0, 0, 1, 7})
	assert.ErrorIs(t, err, ErrCodec)
	//
	_, err = Decode(testCodec{}, []byte{0, 0, 0, 2, 0, 0, 0, 0, 0})
	assert.ErrorIs(t, err, ErrCodec)
}

// ============================================================================
// Scheduler
// ============================================================================

func Test_Scheduler_CallReturn(t *testing.T) {
	var (
		ws    = seeded(t, &traceTask{1, 0})
		sched = NewScheduler(testCodec{})
	)
	//
	n, err := sched.Run(ws)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.True(t, IsDone(ws))
	// Children run to completion in declaration order before the parent resumes.
	assert.Bytes(t, []byte{1, 2, 4, 104, 102, 3, 103, 101}, ReadValue(ws, 8))
	//
	DropTopValue(ws, 8)
	assert.True(t, ws.IsValueEmpty())
}

func Test_Scheduler_EmptyStep(t *testing.T) {
	var (
		ws     = Initialize(testLayout())
		before = ws.Clone()
	)
	//
	assert.NoError(t, NewScheduler(testCodec{}).Step(ws))
	assert.True(t, ws.Equal(before))
}

func Test_Scheduler_Determinism(t *testing.T) {
	var (
		sched = NewScheduler(testCodec{})
		ws    = seeded(t, &traceTask{1, 0})
	)
	//
	for !IsDone(ws) {
		var (
			left  = ws.Clone()
			right = ws.Clone()
		)
		//
		assert.NoError(t, sched.Step(left))
		assert.NoError(t, sched.Step(right))
		assert.True(t, left.Equal(right), "step diverged")
		//
		ws = left
	}
}

func Test_Scheduler_CountSteps(t *testing.T) {
	var (
		sched  = NewScheduler(testCodec{})
		ws     = seeded(t, &traceTask{1, 0})
		before = ws.Clone()
	)
	//
	for i := 0; !IsDone(ws); i++ {
		count, err := sched.CountSteps(ws)
		assert.NoError(t, err)
		assert.Equal(t, 8-i, count)
		//
		assert.NoError(t, sched.Step(ws))
	}
	// Counting never mutates the arena
	count, err := sched.CountSteps(before)
	assert.NoError(t, err)
	assert.Equal(t, 8, count)
	assert.True(t, before.Equal(seeded(t, &traceTask{1, 0})))
}

func Test_Scheduler_StepLimit(t *testing.T) {
	var sched = NewScheduler(testCodec{}).WithStepLimit(5)
	//
	n, err := sched.CountSteps(seeded(t, &traceTask{1, 0}))
	assert.ErrorIs(t, err, ErrStepLimit)
	assert.Equal(t, 5, n)
}

func Test_Scheduler_NoProgress(t *testing.T) {
	var ws = seeded(t, &stuckTask{3})
	//
	assert.ErrorIs(t, NewScheduler(testCodec{}).Step(ws), ErrNoProgress)
	//
	_, err := NewScheduler(testCodec{}).CountSteps(seeded(t, &stuckTask{3}))
	assert.ErrorIs(t, err, ErrNoProgress)
}

func Test_Scheduler_Violation(t *testing.T) {
	var ws = seeded(t, &failTask{9})
	//
	assert.ErrorIs(t, NewScheduler(testCodec{}).Step(ws), ErrInvariantViolation)
}

func Test_Scheduler_CorruptTag(t *testing.T) {
	var ws = Initialize(testLayout())
	//
	assert.NoError(t, ws.PushTask([]byte{0xde, 0xad, 0xbe, 0xef, 0}))
	assert.ErrorIs(t, NewScheduler(testCodec{}).Step(ws), ErrCodec)
}

func Test_Scheduler_CapacityExceeded(t *testing.T) {
	var layout arena.Layout
	// Room for the root, but not for the root plus its children.
	layout.Capacity = 12
	ws := Initialize(layout)
	//
	assert.NoError(t, Seed(ws, &traceTask{1, 0}))
	assert.ErrorIs(t, NewScheduler(testCodec{}).Step(ws), arena.ErrCapacityExceeded)
}

// ============================================================================
// Boundary
// ============================================================================

func Test_Seed_NonEmpty(t *testing.T) {
	var ws = seeded(t, &traceTask{1, 0})
	//
	assert.ErrorIs(t, Seed(ws, &traceTask{2, 0}), ErrSeeded)
}

func Test_Felt_Helpers(t *testing.T) {
	var (
		ws = Initialize(testLayout())
		x  = stark252.New(5)
		y  = stark252.FromHex("0x1234")
	)
	//
	assert.NoError(t, PushFelts(ws, x, y))
	//
	top, err := PeekFeltAt(ws, 0)
	assert.NoError(t, err)
	assert.Equal(t, y, top)
	//
	below, err := PeekFeltAt(ws, 1)
	assert.NoError(t, err)
	assert.Equal(t, x, below)
	//
	StoreFelt(ws, arena.ProofRecord, 1, y)
	loaded, err := LoadFelt(ws, arena.ProofRecord, 1)
	assert.NoError(t, err)
	assert.Equal(t, y, loaded)
	//
	popped, err := PopFelt(ws)
	assert.NoError(t, err)
	assert.Equal(t, y, popped)
	// Non-canonical encodings are rejected
	DropTopValue(ws, FeltBytes)
	assert.NoError(t, ws.PushValue(bytes.Repeat([]byte{0xff}, FeltBytes)))
	_, err = PopFelt(ws)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

// ============================================================================
// Machine & Checkpoints
// ============================================================================

func Test_Machine_ExecuteAll(t *testing.T) {
	var machine = NewMachine(NewScheduler(testCodec{}), seeded(t, &traceTask{1, 0}))
	//
	n, err := ExecuteAll(machine, 3)
	assert.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, 8, machine.Steps())
	assert.True(t, machine.IsDone())
}

func Test_Machine_Checkpoint(t *testing.T) {
	var machine = NewMachine(NewScheduler(testCodec{}), seeded(t, &traceTask{1, 0}))
	//
	n, err := machine.Execute(3)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
	//
	cp, err := machine.Checkpoint()
	assert.NoError(t, err)
	assert.Equal(t, 5, cp.ValidFor())
	//
	data, err := cp.MarshalBinary()
	assert.NoError(t, err)
	//
	var restored Checkpoint
	//
	assert.NoError(t, restored.UnmarshalBinary(data))
	assert.Equal(t, cp, restored)
	//
	ws, err := restored.Restore(testLayout())
	assert.NoError(t, err)
	assert.True(t, ws.Equal(machine.Arena()))
	// Resumed execution matches uninterrupted execution
	rest, err := ExecuteAll(NewMachine(NewScheduler(testCodec{}), ws), 100)
	assert.NoError(t, err)
	assert.Equal(t, 5, rest)
	assert.Bytes(t, []byte{1, 2, 4, 104, 102, 3, 103, 101}, ReadValue(ws, 8))
}
