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
package poseidon

import (
	"fmt"

	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
)

const (
	// Width of the permutation state, of which two elements form the rate.
	Width = 3
	// FullRounds is the total number of full rounds, split evenly before and
	// after the partial rounds.
	FullRounds = 8
	// PartialRounds is the number of partial rounds.
	PartialRounds = 83
	// NumRounds is the total number of rounds.
	NumRounds = FullRounds + PartialRounds
)

// State of the permutation.
type State = [Width]stark252.Element

// roundKeys are added to the state at the start of each round.
var roundKeys [NumRounds]State

func init() {
	for r, keys := range roundKeyTable {
		for i, key := range keys {
			var err error
			//
			if roundKeys[r][i], err = stark252.Parse(key); err != nil {
				panic(fmt.Sprintf("round key %d.%d: %s", r, i, err))
			}
		}
	}
}

// Permute applies the full Hades permutation to a given state, in place.
func Permute(state *State) {
	applyRounds(state, 0, NumRounds)
}

// applyRounds applies rounds [from,to) of the permutation.
func applyRounds(state *State, from, to uint) {
	for r := from; r < to; r++ {
		var keys = &roundKeys[r]
		//
		for i := range state {
			state[i] = state[i].Add(keys[i])
		}
		//
		if isFullRound(r) {
			for i := range state {
				state[i] = state[i].Cube()
			}
		} else {
			state[Width-1] = state[Width-1].Cube()
		}
		//
		mix(state)
	}
}

func isFullRound(r uint) bool {
	return r < FullRounds/2 || r >= FullRounds/2+PartialRounds
}

// mix multiplies the state by the MDS matrix [[3,1,1],[1,-1,1],[1,1,-2]].
func mix(state *State) {
	var t = state[0].Add(state[1]).Add(state[2])
	//
	state[0] = t.Add(state[0].Double())
	state[1] = t.Sub(state[1].Double())
	state[2] = t.Sub(state[2].Double().Add(state[2]))
}
