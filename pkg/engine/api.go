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

	"github.com/consensys/go-starkstep/pkg/arena"
)

// ErrSeeded is returned when seeding an arena whose task stack is not empty.
var ErrSeeded = errors.New("arena already has pending tasks")

// Initialize constructs a fresh arena with empty stacks and zeroed regions.
func Initialize(layout arena.Layout) *arena.Arena {
	return arena.New(layout)
}

// Seed pushes the root task of a computation onto an arena's task stack.  The
// task stack must be empty, though the value stack may already hold the root
// task's operands.
func Seed(ws *arena.Arena, root Task) error {
	if !ws.IsTaskEmpty() {
		return ErrSeeded
	}
	//
	return ws.PushTask(Encode(root))
}

// IsDone checks whether the computation held in an arena has completed.
func IsDone(ws *arena.Arena) bool {
	return ws.IsTaskEmpty()
}

// ReadValue returns a copy of the top n bytes of an arena's value stack,
// leaving the stack unchanged.
func ReadValue(ws *arena.Arena, n uint) []byte {
	return bytes.Clone(ws.PeekValue(n))
}

// DropTopValue discards the top n bytes of an arena's value stack.
func DropTopValue(ws *arena.Arena, n uint) {
	ws.DropValue(n)
}
