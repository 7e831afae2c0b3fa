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
package pedersen

import (
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

// Sum computes the Pedersen hash of two field elements directly, without
// going through the task engine.  This is used by provers laying out proofs,
// and as a reference in tests.
func Sum(x, y stark252.Element) stark252.Element {
	var (
		acc = shiftPoint
		xs  = x.Encode()
		ys  = y.Encode()
	)
	//
	for _, seg := range []struct {
		point   uint8
		operand []byte
	}{{0, xs[1:]}, {1, xs[:1]}, {2, ys[1:]}, {3, ys[:1]}} {
		for i, val := range seg.operand {
			index := uint(len(seg.operand) - i - 1)
			//
			if low := val & 0x0F; low > 0 {
				acc.AddAssign(lookup(seg.point, 2*index, low))
			}
			//
			if high := val >> 4; high > 0 {
				acc.AddAssign(lookup(seg.point, 2*index+1, high))
			}
		}
	}
	//
	return stark252.Element{Element: affineX(&acc)}
}

// SumArray computes the Pedersen hash chain of zero or more elements,
// terminated by their count.
func SumArray(elems ...stark252.Element) stark252.Element {
	var digest stark252.Element
	//
	for _, e := range elems {
		digest = Sum(digest, e)
	}
	//
	return Sum(digest, stark252.New(uint64(len(elems))))
}
