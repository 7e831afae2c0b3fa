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
package driver

import (
	"context"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks"
	"github.com/consensys/go-starkstep/pkg/util"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/sha3"
)

// ErrExists is returned when starting a run whose identifier is already in
// use.
var ErrExists = errors.New("run already exists")

// ErrNotDone is returned when reading the result of an unfinished run.
var ErrNotDone = errors.New("run not finished")

// Driver plays the role of the host which repeatedly invokes the engine, one
// step per invocation.  Between invocations, the arena image of every run
// lives in a store.  Nothing else carries over, hence a driver can be
// restarted at any point.
type Driver struct {
	layout    arena.Layout
	store     Store
	scheduler *engine.Scheduler
	// Remaining step counts, keyed by image digest.
	plans *lru.Cache[[32]byte, uint64]
}

// New constructs a driver over a given store.
func New(config Config, store Store) (*Driver, error) {
	layout, err := config.Arena.Layout()
	if err != nil {
		return nil, errors.Wrap(err, "arena layout")
	}
	//
	plans, err := lru.New[[32]byte, uint64](config.Planner.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "planner cache")
	}
	//
	scheduler := tasks.NewScheduler().WithStepLimit(config.Planner.MaxSteps)
	//
	return &Driver{layout, store, scheduler, plans}, nil
}

// Layout returns the layout of arenas managed by this driver.
func (p *Driver) Layout() arena.Layout {
	return p.layout
}

// Start a new run, whose arena is prepared by a given setup function (e.g. to
// push operands, or write a proof record) before the root task is seeded.
func (p *Driver) Start(run string, root engine.Task, setup func(*arena.Arena) error) error {
	if err := p.unused(run); err != nil {
		return err
	}
	//
	ws := engine.Initialize(p.layout)
	//
	if setup != nil {
		if err := setup(ws); err != nil {
			return errors.Wrap(err, "setup")
		}
	}
	//
	if err := engine.Seed(ws, root); err != nil {
		return err
	}
	//
	log.Debugf("starting run %s with %s", run, tasks.Codec{}.Name(root.Tag()))
	//
	return p.save(run, ws)
}

// Plan returns the number of invocations needed to complete a given run.
func (p *Driver) Plan(run string) (uint64, error) {
	cp, err := p.Checkpoint(run)
	//
	return cp.ValidFor(), err
}

// Checkpoint captures the current image of a given run, along with the number
// of invocations for which it remains valid.
func (p *Driver) Checkpoint(run string) (engine.Checkpoint, error) {
	ws, err := p.load(run)
	if err != nil {
		return engine.Checkpoint{}, err
	}
	//
	digest := sha3.Sum256(ws.Bytes())
	//
	if n, ok := p.plans.Get(digest); ok {
		return engine.NewCheckpoint(ws, n), nil
	}
	//
	stats := util.NewPerfStats()
	cp, err := engine.NewMachine(p.scheduler, ws).Checkpoint()
	//
	if err != nil {
		return cp, err
	}
	//
	stats.Log("planning", cp.ValidFor())
	p.plans.Add(digest, cp.ValidFor())
	//
	return cp, nil
}

// Restore starts a new run from a previously captured checkpoint, whose image
// is checked against the layout of this driver.
func (p *Driver) Restore(run string, cp engine.Checkpoint) error {
	if err := p.unused(run); err != nil {
		return err
	}
	//
	ws, err := cp.Restore(p.layout)
	if err != nil {
		return errors.Wrap(err, "checkpoint")
	}
	//
	log.Debugf("restoring run %s with %d steps remaining", run, cp.ValidFor())
	//
	return p.save(run, ws)
}

// Invoke executes exactly one step of a given run.  The index identifies the
// invocation, and is only logged.  If the step fails, the stored image is left
// untouched.  This returns true once the run has finished.
func (p *Driver) Invoke(run string, index uint64) (bool, error) {
	ws, err := p.load(run)
	if err != nil {
		return false, err
	} else if engine.IsDone(ws) {
		return true, nil
	}
	//
	log.Debugf("invocation %d of run %s", index, run)
	//
	if err := p.scheduler.Step(ws); err != nil {
		log.Errorf("invocation %d of run %s failed: %s", index, run, err)
		return false, err
	} else if err := p.save(run, ws); err != nil {
		return false, err
	}
	//
	return engine.IsDone(ws), nil
}

// Run invokes a given run until it finishes, checking for cancellation
// between invocations.  This returns the number of invocations made.
func (p *Driver) Run(ctx context.Context, run string) (uint64, error) {
	var (
		stats = util.NewPerfStats()
		n     uint64
	)
	//
	if done, err := p.Done(run); err != nil || done {
		return 0, err
	}
	//
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		//
		done, err := p.Invoke(run, n)
		if err != nil {
			return n, err
		}
		//
		n++
		//
		if done {
			stats.Log("run "+run, n)
			return n, nil
		}
	}
}

// Done checks whether a given run has finished.
func (p *Driver) Done(run string) (bool, error) {
	ws, err := p.load(run)
	if err != nil {
		return false, err
	}
	//
	return engine.IsDone(ws), nil
}

// Result returns the top n bytes of the value stack of a finished run.
func (p *Driver) Result(run string, n uint) ([]byte, error) {
	ws, err := p.load(run)
	if err != nil {
		return nil, err
	} else if !engine.IsDone(ws) {
		return nil, errors.Wrap(ErrNotDone, run)
	} else if uint(ws.ValueTop()) < n {
		return nil, errors.Errorf("run %s holds only %d result bytes", run, ws.ValueTop())
	}
	//
	return engine.ReadValue(ws, n), nil
}

// Delete discards a given run.
func (p *Driver) Delete(run string) error {
	return p.store.Delete(run)
}

// unused checks that no run with a given identifier exists.
func (p *Driver) unused(run string) error {
	if _, err := p.store.Load(run); err == nil {
		return errors.Wrap(ErrExists, run)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	//
	return nil
}

func (p *Driver) load(run string) (*arena.Arena, error) {
	image, err := p.store.Load(run)
	if err != nil {
		return nil, err
	}
	//
	return arena.Load(p.layout, image)
}

func (p *Driver) save(run string, ws *arena.Arena) error {
	image, err := ws.MarshalBinary()
	if err != nil {
		return err
	}
	//
	return p.store.Save(run, image)
}
