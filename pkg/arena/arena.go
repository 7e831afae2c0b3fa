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
package arena

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrCapacityExceeded is returned by any push which would cause the value
// stack and the task stack to overlap.  This is always fatal.
var ErrCapacityExceeded = errors.New("arena capacity exceeded")

// ErrMalformed is returned when an arena image (or an entry on its task stack)
// is inconsistent with the layout it is being read against.
var ErrMalformed = errors.New("malformed arena image")

// taskPrefixBytes is the size of the length prefix on each task stack entry.
const taskPrefixBytes = 4

// Arena is a fixed-capacity byte buffer holding two stacks which grow towards
// each other, followed by a fixed set of scratch regions.  The value stack
// grows upwards from offset 0 and carries untyped operand records between
// tasks.  The task stack grows downwards from the capacity and holds tagged
// task blobs.  The entire state lives in a single byte slice so that it can be
// persisted verbatim between invocations.
type Arena struct {
	layout Layout
	data   []byte
}

// New constructs a zeroed arena with the given layout and empty stacks.
func New(layout Layout) *Arena {
	var arena = &Arena{layout, make([]byte, layout.Size())}
	//
	arena.setTaskTop(layout.Capacity)
	//
	return arena
}

// Load constructs an arena from a persisted image.  The image is copied, and
// its header is checked against the given layout.
func Load(layout Layout, image []byte) (*Arena, error) {
	var arena = &Arena{layout: layout}
	//
	if err := arena.UnmarshalBinary(image); err != nil {
		return nil, err
	}
	//
	return arena, nil
}

// Layout returns the layout of this arena.
func (p *Arena) Layout() Layout {
	return p.layout
}

// Capacity returns the size of the stack area shared by both stacks.
func (p *Arena) Capacity() uint32 {
	return p.layout.Capacity
}

// ValueTop returns the exclusive upper bound of the value stack.
func (p *Arena) ValueTop() uint32 {
	return binary.BigEndian.Uint32(p.data[0:4])
}

// TaskTop returns the inclusive lower bound of the task stack.
func (p *Arena) TaskTop() uint32 {
	return binary.BigEndian.Uint32(p.data[4:8])
}

// Free returns the number of unused bytes between the two stacks.
func (p *Arena) Free() uint32 {
	return p.TaskTop() - p.ValueTop()
}

// IsValueEmpty checks whether the value stack is empty.
func (p *Arena) IsValueEmpty() bool {
	return p.ValueTop() == 0
}

// IsTaskEmpty checks whether the task stack is empty.  This is the halting
// condition for the scheduler.
func (p *Arena) IsTaskEmpty() bool {
	return p.TaskTop() == p.layout.Capacity
}

// ============================================================================
// Value Stack
// ============================================================================

// PushValue copies a record onto the top of the value stack.  If there is
// insufficient space, ErrCapacityExceeded is returned and the arena is left
// unchanged.
func (p *Arena) PushValue(record []byte) error {
	var (
		vtop = uint64(p.ValueTop())
		n    = uint64(len(record))
	)
	//
	if n > uint64(p.Free()) {
		return fmt.Errorf("%w: pushing %d byte value with %d bytes free", ErrCapacityExceeded, n, p.Free())
	}
	//
	copy(p.stack()[vtop:vtop+n], record)
	p.setValueTop(uint32(vtop + n))
	//
	return nil
}

// PopValue removes the top n bytes of the value stack, returning a copy of
// them.  Records carry no length prefix, hence the caller must know the size
// of the record it expects.  Popping past the bottom of the stack panics.
func (p *Arena) PopValue(n uint) []byte {
	var record = bytes.Clone(p.PeekValue(n))
	//
	p.setValueTop(p.ValueTop() - uint32(n))
	//
	return record
}

// PeekValue returns the top n bytes of the value stack without removing them.
// The returned slice aliases the arena and is only valid until the next push.
func (p *Arena) PeekValue(n uint) []byte {
	return p.PeekValueAt(0, n)
}

// PeekValueAt returns n bytes of the value stack ending depth bytes below the
// top.  The returned slice aliases the arena.
func (p *Arena) PeekValueAt(depth uint, n uint) []byte {
	var vtop = uint(p.ValueTop())
	//
	if depth+n > vtop {
		panic(fmt.Sprintf("value stack underflow (reading %d bytes at depth %d of %d)", n, depth, vtop))
	}
	//
	return p.stack()[vtop-depth-n : vtop-depth]
}

// DropValue discards the top n bytes of the value stack.
func (p *Arena) DropValue(n uint) {
	var vtop = uint(p.ValueTop())
	//
	if n > vtop {
		panic(fmt.Sprintf("value stack underflow (dropping %d of %d bytes)", n, vtop))
	}
	//
	p.setValueTop(uint32(vtop - n))
}

// ============================================================================
// Task Stack
// ============================================================================

// PushTask copies a tagged task blob onto the top of the task stack.  Each
// entry is prefixed with its length, such that it can be popped without any
// knowledge of its contents.  If there is insufficient space,
// ErrCapacityExceeded is returned and the arena is left unchanged.
func (p *Arena) PushTask(blob []byte) error {
	var (
		ttop = uint64(p.TaskTop())
		n    = uint64(len(blob)) + taskPrefixBytes
	)
	//
	if n > uint64(p.Free()) {
		return fmt.Errorf("%w: pushing %d byte task with %d bytes free", ErrCapacityExceeded, n, p.Free())
	}
	//
	ttop -= n
	binary.BigEndian.PutUint32(p.stack()[ttop:], uint32(len(blob)))
	copy(p.stack()[ttop+taskPrefixBytes:], blob)
	p.setTaskTop(uint32(ttop))
	//
	return nil
}

// PopTask removes the top-most task blob, returning a copy of it.  Popping from
// an empty task stack panics.
func (p *Arena) PopTask() ([]byte, error) {
	var blob, err = p.PeekTask()
	//
	if err != nil {
		return nil, err
	}
	//
	blob = bytes.Clone(blob)
	p.setTaskTop(p.TaskTop() + uint32(len(blob)) + taskPrefixBytes)
	//
	return blob, nil
}

// PeekTask returns the top-most task blob without removing it.  The returned
// slice aliases the arena.
func (p *Arena) PeekTask() ([]byte, error) {
	var ttop = uint64(p.TaskTop())
	//
	if p.IsTaskEmpty() {
		panic("cannot pop from empty task stack")
	} else if ttop+taskPrefixBytes > uint64(p.layout.Capacity) {
		return nil, fmt.Errorf("%w: truncated task entry at %d", ErrMalformed, ttop)
	}
	//
	var (
		n     = uint64(binary.BigEndian.Uint32(p.stack()[ttop:]))
		start = ttop + taskPrefixBytes
	)
	//
	if start+n > uint64(p.layout.Capacity) {
		return nil, fmt.Errorf("%w: task entry at %d overruns capacity (%d bytes)", ErrMalformed, ttop, n)
	}
	//
	return p.stack()[start : start+n], nil
}

// ============================================================================
// Persistence
// ============================================================================

// Bytes returns the underlying image of this arena (without copying).
func (p *Arena) Bytes() []byte {
	return p.data
}

// MarshalBinary returns a copy of the persisted image of this arena.
func (p *Arena) MarshalBinary() ([]byte, error) {
	return bytes.Clone(p.data), nil
}

// UnmarshalBinary replaces the contents of this arena with a copy of the given
// image, which must match this arena's layout.
func (p *Arena) UnmarshalBinary(image []byte) error {
	var arena = Arena{p.layout, bytes.Clone(image)}
	//
	if err := arena.check(); err != nil {
		return err
	}
	//
	p.data = arena.data
	//
	return nil
}

// Clone returns a deep copy of this arena.
func (p *Arena) Clone() *Arena {
	return &Arena{p.layout, bytes.Clone(p.data)}
}

// Equal checks whether two arenas have byte-identical images.
func (p *Arena) Equal(other *Arena) bool {
	return p.layout == other.layout && bytes.Equal(p.data, other.data)
}

func (p *Arena) check() error {
	if err := p.layout.Validate(); err != nil {
		return err
	} else if len(p.data) != p.layout.Size() {
		return fmt.Errorf("%w: image has %d bytes (expected %d)", ErrMalformed, len(p.data), p.layout.Size())
	}
	//
	var (
		vtop = p.ValueTop()
		ttop = p.TaskTop()
	)
	//
	if vtop > ttop || ttop > p.layout.Capacity {
		return fmt.Errorf("%w: stack pointers out of order (%d, %d, %d)", ErrMalformed, vtop, ttop, p.layout.Capacity)
	}
	//
	return nil
}

func (p *Arena) stack() []byte {
	return p.data[HeaderBytes : HeaderBytes+uint64(p.layout.Capacity)]
}

func (p *Arena) setValueTop(top uint32) {
	binary.BigEndian.PutUint32(p.data[0:4], top)
}

func (p *Arena) setTaskTop(top uint32) {
	binary.BigEndian.PutUint32(p.data[4:8], top)
}
