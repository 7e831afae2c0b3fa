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
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// FeltBytes is the width of a field element record on the value stack.
const FeltBytes = stark252.Bytes

// PushFelt pushes the canonical encoding of a field element onto the value
// stack.
func PushFelt(ws *arena.Arena, x stark252.Element) error {
	var enc = x.Encode()
	//
	return ws.PushValue(enc[:])
}

// PushFelts pushes zero or more field elements onto the value stack, such that
// the last ends up on top.
func PushFelts(ws *arena.Arena, xs ...stark252.Element) error {
	for _, x := range xs {
		if err := PushFelt(ws, x); err != nil {
			return err
		}
	}
	//
	return nil
}

// PopFelt pops a field element from the value stack.  A record which is not a
// canonical encoding is an invariant violation.
func PopFelt(ws *arena.Arena) (stark252.Element, error) {
	x, err := stark252.FromBytes(ws.PopValue(FeltBytes))
	//
	if err != nil {
		return x, Violation("popping field element: %s", err)
	}
	//
	return x, nil
}

// PeekFeltAt reads the field element index records below the top of the value
// stack (where 0 is the top) without removing it.
func PeekFeltAt(ws *arena.Arena, index uint) (stark252.Element, error) {
	x, err := stark252.FromBytes(ws.PeekValueAt(index*FeltBytes, FeltBytes))
	//
	if err != nil {
		return x, Violation("reading field element %d below top: %s", index, err)
	}
	//
	return x, nil
}

// LoadFelt reads the field element held in a given word of a scratch region.
func LoadFelt(ws *arena.Arena, region arena.Region, index uint) (stark252.Element, error) {
	x, err := stark252.FromBytes(ws.Word(region, index))
	//
	if err != nil {
		return x, Violation("reading %s word %d: %s", region, index, err)
	}
	//
	return x, nil
}

// StoreFelt writes a field element into a given word of a scratch region.
func StoreFelt(ws *arena.Arena, region arena.Region, index uint, x stark252.Element) {
	x.Put(ws.Word(region, index))
}
