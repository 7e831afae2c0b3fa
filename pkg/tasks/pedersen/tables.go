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
	"sync"

	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// NumPoints is the number of generator points (i.e. lookup tables) used by the
// hash.  Points 0 and 1 cover the low 248 bits and high 4 bits of the first
// operand, whilst points 2 and 3 do the same for the second operand.
const NumPoints = 4

// nibbleCount is the number of 4-bit windows needed to cover a field element.
const nibbleCount = fp.Bits / 4

var (
	shiftPoint starkcurve.G1Jac
	points     [NumPoints]starkcurve.G1Jac
	// tables[p][n][s] holds s * 2^(4n) * points[p], where entry 0 is unused.
	tables     [NumPoints][nibbleCount][16]starkcurve.G1Jac
	tablesOnce sync.Once
)

func init() {
	setPoint(&shiftPoint,
		"2089986280348253421170679821480865132823066470938446095505822317253594081284",
		"1713931329540660377023406109199410414810705867260802078187082345529207694986")
	setPoint(&points[0],
		"996781205833008774514500082376783249102396023663454813447423147977397232763",
		"1668503676786377725805489344771023921079126552019160156920634619255970485781")
	setPoint(&points[1],
		"2251563274489750535117886426533222435294046428347329203627021249169616184184",
		"1798716007562728905295480679789526322175868328062420237419143593021674992973")
	setPoint(&points[2],
		"2138414695194151160943305727036575959195309218611738193261179310511854807447",
		"113410276730064486255102093846540133784865286929052426931474106396135072156")
	setPoint(&points[3],
		"2379962749567351885752724891227938183011949129833673362440656643086021394946",
		"776496453633298175483985398648758586525933812536653089401905292063708816422")
}

func setPoint(p *starkcurve.G1Jac, x string, y string) {
	if _, err := p.X.SetString(x); err != nil {
		panic(err)
	} else if _, err := p.Y.SetString(y); err != nil {
		panic(err)
	}
	//
	p.Z.SetOne()
}

// lookup returns the precomputed multiple of a given point for a given nibble
// position and value.  Tables are built on first use.
func lookup(point uint8, nibble uint, value uint8) *starkcurve.G1Jac {
	tablesOnce.Do(buildTables)
	//
	return &tables[point][nibble][value]
}

func buildTables() {
	for p := range points {
		var base = points[p]
		//
		for n := range nibbleCount {
			var row = &tables[p][n]
			// Entry 0 is the point at infinity
			row[0].X.SetOne()
			row[0].Y.SetOne()
			row[1] = base
			//
			for s := 2; s < 16; s++ {
				row[s] = row[s-1]
				row[s].AddAssign(&base)
			}
			// Move to the next window
			for range 4 {
				base.DoubleAssign()
			}
		}
	}
}
