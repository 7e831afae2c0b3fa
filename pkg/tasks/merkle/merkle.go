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
package merkle

import (
	"bytes"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/tag"
	"golang.org/x/crypto/sha3"
)

// LevelsPerStep bounds the number of hashes computed by a single step.
const LevelsPerStep = 8

// MaxDepth is the deepest authentication path supported.
const MaxDepth = 64

// Node of a Merkle tree.
type Node = [arena.WordBytes]byte

// VerifyPath checks a Keccak-256 authentication path held in the proof record.
// Starting from a given word, the record holds the leaf, then one sibling per
// level (from the bottom up), and finally the expected root.  Bit l of Index
// determines whether the running node is the right child at level l.  A path
// which does not lead to the expected root is an invariant violation.
type VerifyPath struct {
	Offset uint32
	Depth  uint8
	Index  uint64
	// Level is the next level to hash.
	Level uint8
	// Node is the running hash, valid once Level is non-zero.
	Node Node
}

// NewVerifyPath constructs a task checking an authentication path.
func NewVerifyPath(offset uint32, depth uint8, index uint64) *VerifyPath {
	return &VerifyPath{Offset: offset, Depth: depth, Index: index}
}

// Words returns the number of proof record words used by this path.
func (p *VerifyPath) Words() uint {
	return uint(p.Depth) + 2
}

// Tag implementation for the engine.Task interface.
func (p *VerifyPath) Tag() engine.Tag {
	return tag.MerkleVerify
}

// Execute implementation for the engine.Task interface.
func (p *VerifyPath) Execute(ws *arena.Arena) (engine.Result, error) {
	var offset = uint(p.Offset)
	//
	if p.Depth > MaxDepth || p.Level > p.Depth || offset+p.Words() > ws.NumWords(arena.ProofRecord) {
		return engine.Result{}, engine.Violation("invalid authentication path (depth %d, level %d, offset %d)",
			p.Depth, p.Level, p.Offset)
	}
	//
	if p.Level == 0 {
		copy(p.Node[:], ws.Word(arena.ProofRecord, offset))
	}
	//
	for end := min(p.Level+LevelsPerStep, p.Depth); p.Level < end; p.Level++ {
		var sibling = (Node)(ws.Word(arena.ProofRecord, offset+1+uint(p.Level)))
		//
		if (p.Index>>p.Level)&1 == 0 {
			p.Node = Hash(p.Node, sibling)
		} else {
			p.Node = Hash(sibling, p.Node)
		}
	}
	//
	if p.Level < p.Depth {
		return engine.Continue(), nil
	}
	//
	if root := ws.Word(arena.ProofRecord, offset+p.Words()-1); !bytes.Equal(p.Node[:], root) {
		return engine.Result{}, engine.Violation("authentication path for leaf %d does not match root", p.Index)
	}
	//
	return engine.Finish(), nil
}

// Hash combines two child nodes into their parent.
func Hash(left, right Node) Node {
	var (
		hash   = sha3.NewLegacyKeccak256()
		parent Node
	)
	//
	hash.Write(left[:])
	hash.Write(right[:])
	hash.Sum(parent[:0])
	//
	return parent
}

// Root computes the root reached by an authentication path directly, without
// going through the task engine.
func Root(leaf Node, siblings []Node, index uint64) Node {
	var node = leaf
	//
	for level, sibling := range siblings {
		if (index>>level)&1 == 0 {
			node = Hash(node, sibling)
		} else {
			node = Hash(sibling, node)
		}
	}
	//
	return node
}
