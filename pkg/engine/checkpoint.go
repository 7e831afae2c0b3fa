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
	"encoding/binary"
	"fmt"

	"github.com/consensys/go-starkstep/pkg/arena"
)

// Checkpoint represents a captured arena image, such that execution can be
// continued later from this position (sometimes also known as a
// "continuation").  Since the arena holds all of the execution state, the
// image alone suffices.  A checkpoint also records how many steps remained
// when it was taken, which is its validity window: after that many steps the
// task stack is empty and there is nothing further to execute.
type Checkpoint struct {
	// Image is the verbatim arena image.
	Image []byte
	// Remaining is the number of steps needed to empty the task stack.
	Remaining uint64
}

// NewCheckpoint captures a copy of a given arena's image.
func NewCheckpoint(ws *arena.Arena, remaining uint64) Checkpoint {
	image, _ := ws.MarshalBinary()
	//
	return Checkpoint{image, remaining}
}

// ValidFor returns the number of execution steps for which this checkpoint is
// valid.
func (p Checkpoint) ValidFor() uint64 {
	return p.Remaining
}

// Restore the arena from this checkpoint, checking it against a given layout.
func (p Checkpoint) Restore(layout arena.Layout) (*arena.Arena, error) {
	return arena.Load(layout, p.Image)
}

// MarshalBinary encodes this checkpoint as the remaining step count (8 bytes,
// big-endian) followed by the image.
func (p Checkpoint) MarshalBinary() ([]byte, error) {
	var bytes = make([]byte, 8, 8+len(p.Image))
	//
	binary.BigEndian.PutUint64(bytes, p.Remaining)
	//
	return append(bytes, p.Image...), nil
}

// UnmarshalBinary decodes a checkpoint previously encoded with MarshalBinary.
func (p *Checkpoint) UnmarshalBinary(bytes []byte) error {
	if len(bytes) < 8 {
		return fmt.Errorf("%w: checkpoint of %d bytes", arena.ErrMalformed, len(bytes))
	}
	//
	p.Remaining = binary.BigEndian.Uint64(bytes)
	p.Image = append([]byte(nil), bytes[8:]...)
	//
	return nil
}
