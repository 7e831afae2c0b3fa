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
	"errors"
	"fmt"

	"github.com/consensys/go-starkstep/pkg/arena"
)

// ErrInvariantViolation signals that a task detected an unrecoverable
// condition, such as a failed cryptographic check or a malformed input.  Since
// verification is binary, this always means the proof is rejected.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrNoProgress signals that a task reported it was unfinished, but neither
// spawned a child nor changed its own state.  Such a task would be executed
// forever.
var ErrNoProgress = errors.New("task made no progress")

// Violation constructs an error wrapping ErrInvariantViolation.
func Violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// Tag is the stable identifier of a task variant, written ahead of the task's
// state whenever it is encoded.
type Tag uint32

// Task represents one variant from a closed set of resumable state machines.
// Every implementation must be a pointer to a struct whose fields are all
// fixed-width (i.e. integers, booleans and arrays thereof), since tasks are
// persisted as the raw byte image of that struct.  A task typically holds an
// explicit phase (i.e. its program counter) along with whatever intermediate
// values must survive suspension.
type Task interface {
	// Tag returns the stable identifier for this variant.
	Tag() Tag
	// Execute performs exactly one bounded unit of work: either a single phase
	// transition or spawning of children.  The task may read and write the
	// value stack and any scratch regions its contract allows, and may mutate
	// its own fields.  An error is always fatal for the current invocation.
	Execute(ws *arena.Arena) (Result, error)
}

// Result describes the outcome of executing a single task step.
type Result struct {
	// Done indicates whether the task has completed.  If not, it is persisted
	// again (with its mutated state) beneath any spawned children.
	Done bool
	// Spawn holds zero or more children which must run to completion before
	// the task itself resumes.  The first child runs first.
	Spawn []Task
}

// Continue indicates the task is unfinished, optionally spawning children
// which run before it resumes.
func Continue(children ...Task) Result {
	return Result{false, children}
}

// Finish indicates the task has completed, optionally spawning children which
// run in its place (i.e. a tail call).
func Finish(children ...Task) Result {
	return Result{true, children}
}
