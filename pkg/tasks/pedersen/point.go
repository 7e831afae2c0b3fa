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
	starkcurve "github.com/consensys/gnark-crypto/ecc/stark-curve"
	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
)

// PointBytes is the size of the accumulator record on the value stack, which
// holds the Jacobian coordinates X, Y and Z (in that order).
const PointBytes = 3 * fp.Bytes

func pushPoint(ws *arena.Arena, p *starkcurve.G1Jac) error {
	var record [PointBytes]byte
	//
	putPoint(record[:], p)
	//
	return ws.PushValue(record[:])
}

func popPoint(ws *arena.Arena) (starkcurve.G1Jac, error) {
	p, err := getPoint(ws.PeekValue(PointBytes))
	//
	ws.DropValue(PointBytes)
	//
	return p, err
}

func putPoint(record []byte, p *starkcurve.G1Jac) {
	fp.BigEndian.PutElement((*[fp.Bytes]byte)(record[0:fp.Bytes]), p.X)
	fp.BigEndian.PutElement((*[fp.Bytes]byte)(record[fp.Bytes:2*fp.Bytes]), p.Y)
	fp.BigEndian.PutElement((*[fp.Bytes]byte)(record[2*fp.Bytes:3*fp.Bytes]), p.Z)
}

func getPoint(record []byte) (starkcurve.G1Jac, error) {
	var p starkcurve.G1Jac
	//
	for i, coord := range []*fp.Element{&p.X, &p.Y, &p.Z} {
		if err := coord.SetBytesCanonical(record[i*fp.Bytes : (i+1)*fp.Bytes]); err != nil {
			return p, engine.Violation("malformed accumulator: %s", err)
		}
	}
	//
	return p, nil
}

// affineX recovers the affine x coordinate of a Jacobian point.
func affineX(p *starkcurve.G1Jac) fp.Element {
	var x fp.Element
	//
	x.Inverse(&p.Z).Square(&x)
	x.Mul(&p.X, &x)
	//
	return x
}
