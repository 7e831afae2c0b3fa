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
	"math/rand"
	"testing"

	"github.com/consensys/go-starkstep/pkg/util/assert"
)

func smallLayout(capacity uint32) Layout {
	var layout Layout
	//
	layout.Capacity = capacity
	layout.Regions[ProofRecord] = 4 * WordBytes
	layout.Regions[Transcript] = 2 * WordBytes
	//
	return layout
}

func Test_Arena_New(t *testing.T) {
	var a = New(smallLayout(128))
	//
	assert.Equal(t, 0, a.ValueTop())
	assert.Equal(t, 128, a.TaskTop())
	assert.True(t, a.IsValueEmpty())
	assert.True(t, a.IsTaskEmpty())
	assert.Equal(t, HeaderBytes+128+6*WordBytes, len(a.Bytes()))
}

func Test_Arena_ValueStack(t *testing.T) {
	var (
		a = New(smallLayout(128))
		x = bytes.Repeat([]byte{0xaa}, 32)
		y = bytes.Repeat([]byte{0xbb}, 16)
	)
	//
	assert.NoError(t, a.PushValue(x))
	assert.NoError(t, a.PushValue(y))
	assert.Equal(t, 48, a.ValueTop())
	assert.Bytes(t, y, a.PeekValue(16))
	assert.Bytes(t, x, a.PeekValueAt(16, 32))
	assert.Bytes(t, y, a.PopValue(16))
	assert.Bytes(t, x, a.PopValue(32))
	assert.True(t, a.IsValueEmpty())
	assert.Panics(t, func() { a.PopValue(1) })
}

func Test_Arena_PopValueCopies(t *testing.T) {
	var a = New(smallLayout(64))
	//
	assert.NoError(t, a.PushValue([]byte{1, 2, 3}))
	//
	v := a.PopValue(3)
	assert.NoError(t, a.PushValue([]byte{9, 9, 9}))
	assert.Bytes(t, []byte{1, 2, 3}, v)
}

func Test_Arena_TaskStack(t *testing.T) {
	var a = New(smallLayout(128))
	//
	assert.NoError(t, a.PushTask([]byte("first")))
	assert.NoError(t, a.PushTask([]byte("second!")))
	assert.Equal(t, 128-9-11, a.TaskTop())
	//
	top, err := a.PopTask()
	assert.NoError(t, err)
	assert.Bytes(t, []byte("second!"), top)
	//
	top, err = a.PopTask()
	assert.NoError(t, err)
	assert.Bytes(t, []byte("first"), top)
	assert.True(t, a.IsTaskEmpty())
	assert.Panics(t, func() { _, _ = a.PopTask() })
}

func Test_Arena_CapacityExceeded(t *testing.T) {
	var a = New(smallLayout(40))
	//
	assert.Equal(t, 40, a.Free())
	assert.NoError(t, a.PushValue(make([]byte, 30)))
	assert.Equal(t, 10, a.Free())
	before := a.Clone()
	//
	err := a.PushTask(make([]byte, 8))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.True(t, a.Equal(before), "failed push mutated arena")
	//
	assert.NoError(t, a.PushTask(make([]byte, 6)))
	assert.Equal(t, a.ValueTop(), a.TaskTop())
	assert.Equal(t, 0, a.Free())
	assert.ErrorIs(t, a.PushValue([]byte{0}), ErrCapacityExceeded)
	assert.NoError(t, a.PushValue(nil))
}

// Random interleavings of pushes never allow the two stacks to cross, and a
// failed push never changes the image.
func Test_Arena_NonOverlap(t *testing.T) {
	var (
		rng = rand.New(rand.NewSource(1))
		a   = New(smallLayout(512))
	)
	//
	for i := 0; i < 2000; i++ {
		var (
			before = a.Clone()
			record = make([]byte, rng.Intn(48))
			err    error
		)
		//
		switch rng.Intn(4) {
		case 0:
			err = a.PushValue(record)
		case 1:
			err = a.PushTask(record)
		case 2:
			if a.ValueTop() >= 8 {
				a.DropValue(8)
			}
		case 3:
			if !a.IsTaskEmpty() {
				_, err = a.PopTask()
			}
		}
		//
		if err != nil {
			assert.ErrorIs(t, err, ErrCapacityExceeded)
			assert.True(t, a.Equal(before), "failed push mutated arena (iteration %d)", i)
		}
		//
		assert.True(t, a.ValueTop() <= a.TaskTop() && a.TaskTop() <= a.Capacity(), "iteration %d", i)
	}
}

func Test_Arena_Regions(t *testing.T) {
	var a = New(smallLayout(64))
	//
	copy(a.Word(ProofRecord, 3), bytes.Repeat([]byte{7}, WordBytes))
	copy(a.Word(Transcript, 0), bytes.Repeat([]byte{9}, WordBytes))
	//
	assert.Equal(t, 4, a.NumWords(ProofRecord))
	assert.Equal(t, 0, a.NumWords(Coefficients))
	assert.Bytes(t, bytes.Repeat([]byte{7}, WordBytes), a.Words(ProofRecord, 3, 1))
	assert.Equal(t, 0, a.ValueTop())
	assert.Equal(t, 64, a.TaskTop())
	assert.Panics(t, func() { a.Word(ProofRecord, 4) })
	//
	a.ClearRegion(ProofRecord)
	assert.Bytes(t, make([]byte, 4*WordBytes), a.Region(ProofRecord))
	assert.Bytes(t, bytes.Repeat([]byte{9}, WordBytes), a.Word(Transcript, 0))
}

func Test_Arena_Persistence(t *testing.T) {
	var (
		layout = smallLayout(96)
		a      = New(layout)
	)
	//
	assert.NoError(t, a.PushValue([]byte{1, 2, 3, 4}))
	assert.NoError(t, a.PushTask([]byte{5, 6}))
	copy(a.Word(ProofRecord, 0), []byte{0xff})
	//
	image, err := a.MarshalBinary()
	assert.NoError(t, err)
	// Header is big-endian value_top then task_top
	assert.Bytes(t, []byte{0, 0, 0, 4, 0, 0, 0, 90}, image[:HeaderBytes])
	//
	b, err := Load(layout, image)
	assert.NoError(t, err)
	assert.True(t, a.Equal(b))
	//
	_, err = Load(smallLayout(64), image)
	assert.ErrorIs(t, err, ErrMalformed)
	// Corrupt header: value_top beyond task_top
	image[3] = 200
	_, err = Load(layout, image)
	assert.ErrorIs(t, err, ErrMalformed)
}

func Test_Arena_MalformedTask(t *testing.T) {
	var a = New(smallLayout(32))
	//
	assert.NoError(t, a.PushTask([]byte{1, 2, 3}))
	// Corrupt length prefix so the entry overruns capacity
	a.Bytes()[HeaderBytes+a.TaskTop()+3] = 0xff
	//
	_, err := a.PopTask()
	assert.ErrorIs(t, err, ErrMalformed)
}
