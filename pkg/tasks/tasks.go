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
package tasks

import (
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
)

// NewScheduler constructs a scheduler over the closed task set.
func NewScheduler() *engine.Scheduler {
	return engine.NewScheduler(Codec{})
}

// Run seeds a given root task into an arena, and then steps the arena until
// its task stack is empty.  This returns the number of steps taken.
func Run(ws *arena.Arena, root engine.Task) (uint64, error) {
	if err := engine.Seed(ws, root); err != nil {
		return 0, err
	}
	//
	return NewScheduler().Run(ws)
}
