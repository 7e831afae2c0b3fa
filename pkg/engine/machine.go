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
	"github.com/consensys/go-starkstep/pkg/arena"
)

// Core represents anything which can be executed in bounded chunks of steps.
type Core interface {
	// Execute for (upto) the given number of steps, returning the actual
	// number of steps executed and an error (if execution failed).  Fewer
	// steps than requested are executed only when execution has terminated.
	Execute(steps uint) (uint, error)
}

// ExecuteAll executes a given machine to completion in chunks of n steps,
// returning the number of steps executed and/or any error arising.
func ExecuteAll[M Core](machine M, n uint) (uint, error) {
	var nsteps uint
	//
	for {
		// Execute upto n steps
		m, err := machine.Execute(n)
		// update the tally
		nsteps += m
		// check for termination
		if err != nil || m < n {
			return nsteps, err
		}
	}
}

// Machine binds an arena to the scheduler driving it, keeping a tally of the
// steps executed so far.  This is useful when a host executes many steps in
// one go (e.g. off-chain), rather than one step per invocation.
type Machine struct {
	scheduler *Scheduler
	arena     *arena.Arena
	steps     uint64
}

// NewMachine constructs a machine for a given arena.
func NewMachine(scheduler *Scheduler, ws *arena.Arena) *Machine {
	return &Machine{scheduler, ws, 0}
}

// Arena returns the arena being executed by this machine.
func (p *Machine) Arena() *arena.Arena {
	return p.arena
}

// Steps returns the number of steps executed by this machine so far.
func (p *Machine) Steps() uint64 {
	return p.steps
}

// IsDone checks whether this machine has terminated.
func (p *Machine) IsDone() bool {
	return p.arena.IsTaskEmpty()
}

// Execute implementation for the Core interface.
func (p *Machine) Execute(steps uint) (uint, error) {
	var nsteps uint
	//
	for ; nsteps < steps && !p.arena.IsTaskEmpty(); nsteps++ {
		if err := p.scheduler.Step(p.arena); err != nil {
			return nsteps, err
		}
		//
		p.steps++
	}
	//
	return nsteps, nil
}

// Checkpoint captures the current state of this machine.
func (p *Machine) Checkpoint() (Checkpoint, error) {
	remaining, err := p.scheduler.CountSteps(p.arena)
	//
	if err != nil {
		return Checkpoint{}, err
	}
	//
	return NewCheckpoint(p.arena, remaining), nil
}
