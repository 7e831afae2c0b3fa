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
package stark252

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
)

// Bytes is the width (in bytes) of the canonical big-endian encoding of an
// element.  Every value record and scratch word in the arena uses this width.
const Bytes = fp.Bytes

// Element wraps fp.Element (i.e. the base field of the STARK curve, with
// modulus 2^251 + 17*2^192 + 1) to give it value semantics.
type Element struct {
	fp.Element
}

// Zero returns the additive identity.
func Zero() Element {
	return Element{}
}

// One returns the multiplicative identity.
func One() Element {
	var x Element
	//
	x.Element.SetOne()
	//
	return x
}

// New constructs an element from a given uint64.
func New(val uint64) Element {
	return Element{fp.NewElement(val)}
}

// FromHex constructs an element from a hex string (with or without a leading
// "0x").  This panics if the string is malformed, and is intended for
// constants.
func FromHex(s string) Element {
	var x Element
	//
	if len(s) < 2 || s[:2] != "0x" {
		s = "0x" + s
	}
	//
	if _, err := x.Element.SetString(s); err != nil {
		panic(fmt.Sprintf("invalid field constant %q: %s", s, err))
	}
	//
	return x
}

// Parse an element given in decimal, or in hexadecimal with a "0x" prefix.  An
// error is returned if the string is malformed, or denotes a value outside the
// field.
func Parse(s string) (Element, error) {
	var val, ok = new(big.Int).SetString(s, 0)
	//
	if !ok {
		return Element{}, fmt.Errorf("malformed integer %q", s)
	} else if val.Sign() < 0 || val.Cmp(fp.Modulus()) >= 0 {
		return Element{}, fmt.Errorf("%s is not a field element", s)
	}
	//
	return FromBigInt(val), nil
}

// FromBigInt constructs an element from a given big.Int, reducing it modulo
// the field modulus.
func FromBigInt(val *big.Int) Element {
	var x Element
	//
	x.Element.SetBigInt(val)
	//
	return x
}

// FromBytes decodes a canonical big-endian encoding.  An error is returned if
// the encoding has the wrong width or denotes a value not less than the
// modulus.
func FromBytes(bytes []byte) (Element, error) {
	var x Element
	//
	if len(bytes) != Bytes {
		return x, fmt.Errorf("field element requires %d bytes (was %d)", Bytes, len(bytes))
	} else if err := x.Element.SetBytesCanonical(bytes); err != nil {
		return x, err
	}
	//
	return x, nil
}

// Reduce decodes an arbitrary big-endian byte string, reducing it modulo the
// field modulus.  This never fails.
func Reduce(bytes []byte) Element {
	var x Element
	//
	x.Element.SetBytes(bytes)
	//
	return x
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res fp.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var res fp.Element
	//
	res.Sub(&x.Element, &y.Element)
	//
	return Element{res}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var res fp.Element
	//
	res.Mul(&x.Element, &y.Element)
	//
	return Element{res}
}

// Square x * x
func (x Element) Square() Element {
	var res fp.Element
	//
	res.Square(&x.Element)
	//
	return Element{res}
}

// Double 2x
func (x Element) Double() Element {
	var res fp.Element
	//
	res.Double(&x.Element)
	//
	return Element{res}
}

// Neg -x
func (x Element) Neg() Element {
	var res fp.Element
	//
	res.Neg(&x.Element)
	//
	return Element{res}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var res fp.Element
	//
	res.Inverse(&x.Element)
	//
	return Element{res}
}

// Cube x * x * x
func (x Element) Cube() Element {
	return x.Square().Mul(x)
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// Equal checks whether x = y.
func (x Element) Equal(y Element) bool {
	return x.Element.Equal(&y.Element)
}

// IsZero implementation for the Element interface
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// IsOne implementation for the Element interface
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// Encode returns the canonical big-endian encoding of this element.
func (x Element) Encode() [Bytes]byte {
	return x.Element.Bytes()
}

// Put writes the canonical big-endian encoding of this element into the given
// slice, which must have at least Bytes bytes.
func (x Element) Put(bytes []byte) {
	fp.BigEndian.PutElement((*[Bytes]byte)(bytes[:Bytes]), x.Element)
}

// BigInt returns the (regular) numerical value of this element.
func (x Element) BigInt() *big.Int {
	var res big.Int
	//
	return x.Element.BigInt(&res)
}

// Text implementation for the Element interface
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}

func (x Element) String() string {
	return "0x" + x.Element.Text(16)
}
