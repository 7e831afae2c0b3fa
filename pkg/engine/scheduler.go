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
	"errors"
	"fmt"

	"github.com/consensys/go-starkstep/pkg/arena"
	log "github.com/sirupsen/logrus"
)

// ErrStepLimit is returned when counting steps exceeds the configured limit.
var ErrStepLimit = errors.New("step limit exceeded")

// Number of steps executed between checks for termination by Run.
const runChunk = 1024

// Scheduler drives execution of the task stack held in an arena, one task step
// at a time.  The scheduler itself is stateless: everything it needs lives in
// the arena, hence any number of arenas can be driven by the same scheduler.
type Scheduler struct {
	codec Codec
	// Maximum number of steps considered by CountSteps (0 means unbounded).
	limit uint64
}

// NewScheduler constructs a scheduler for the closed set of tasks recognised
// by a given codec.
func NewScheduler(codec Codec) *Scheduler {
	return &Scheduler{codec, 0}
}

// WithStepLimit returns a scheduler identical to this one, except that
// CountSteps gives up after a given number of steps.
func (p *Scheduler) WithStepLimit(limit uint64) *Scheduler {
	return &Scheduler{p.codec, limit}
}

// Codec returns the codec used by this scheduler.
func (p *Scheduler) Codec() Codec {
	return p.codec
}

// Step executes exactly one task step.  Specifically, it pops the top task
// blob, decodes and executes it.  If the task is unfinished, its updated state
// is pushed back.  Then, any spawned children are pushed such that the first
// child ends up on top.  Stepping an arena whose task stack is empty does
// nothing.
//
// Any error returned is fatal, and the arena's contents are unspecified
// afterwards.  Callers are expected to discard the image rather than persist
// it.
func (p *Scheduler) Step(ws *arena.Arena) error {
	if ws.IsTaskEmpty() {
		return nil
	}
	// Pop & decode
	blob, err := ws.PopTask()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCodec, err)
	}
	//
	task, err := Decode(p.codec, blob)
	if err != nil {
		return err
	}
	//
	name := p.codec.Name(task.Tag())
	// Execute
	result, err := task.Execute(ws)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	// Persist the continuation (if applicable)
	if !result.Done {
		next := Encode(task)
		//
		if len(result.Spawn) == 0 && bytes.Equal(next, blob) {
			return fmt.Errorf("%w: %s", ErrNoProgress, name)
		} else if err := ws.PushTask(next); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	// Push children in reverse so the first runs first
	for i := len(result.Spawn) - 1; i >= 0; i-- {
		if err := ws.PushTask(Encode(result.Spawn[i])); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	//
	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("step %s (done=%t, spawned=%d, values=%d, tasks=%d)", name, result.Done,
			len(result.Spawn), ws.ValueTop(), ws.Capacity()-ws.TaskTop())
	}
	//
	return nil
}

// CountSteps determines how many steps remain before the task stack of a given
// arena is empty.  This runs the scheduler on a clone, hence the given arena
// is unchanged.  Since each step is deterministic, the count matches exactly
// the number of Step calls needed on the original.  If any step fails, the
// number of steps completed before the failure is returned with the error.
func (p *Scheduler) CountSteps(ws *arena.Arena) (uint64, error) {
	var (
		clone = ws.Clone()
		n     uint64
	)
	//
	for !clone.IsTaskEmpty() {
		if p.limit != 0 && n >= p.limit {
			return n, fmt.Errorf("%w (%d steps)", ErrStepLimit, p.limit)
		} else if err := p.Step(clone); err != nil {
			return n, err
		}
		//
		n++
	}
	//
	log.Debugf("counted %d steps", n)
	//
	return n, nil
}

// Run executes steps until the task stack of a given arena is empty, returning
// the number of steps executed.
func (p *Scheduler) Run(ws *arena.Arena) (uint64, error) {
	var machine = NewMachine(p, ws)
	//
	_, err := ExecuteAll(machine, runChunk)
	//
	return machine.Steps(), err
}
