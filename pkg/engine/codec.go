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
	"errors"
	"fmt"
)

// ErrCodec signals that a task blob could not be decoded, either because its
// tag is unknown or its length does not match the variant.  Since the codec is
// the only producer of task blobs, this indicates memory corruption or a
// mismatch between the persisted image and the running code.
var ErrCodec = errors.New("task codec error")

// TagBytes is the width of the tag prefixing every encoded task.
const TagBytes = 4

// Codec provides a closed dispatch from tags to concrete task variants.
type Codec interface {
	// Decode a task of the given variant from its raw state image.  An unknown
	// tag, or an image of the wrong size, gives an error wrapping ErrCodec.
	Decode(tag Tag, data []byte) (Task, error)
	// Name returns a human-readable name for the given tag.
	Name(tag Tag) string
}

// Encode writes a task's tag followed by the fixed-size big-endian image of its
// state.  This panics if the task is not a pointer to a fixed-size struct,
// since that is a programming error.
func Encode(task Task) []byte {
	var (
		size = binary.Size(task)
		blob = make([]byte, TagBytes, TagBytes+max(size, 0))
	)
	//
	binary.BigEndian.PutUint32(blob, uint32(task.Tag()))
	//
	blob, err := binary.Append(blob, binary.BigEndian, task)
	if err != nil {
		panic(fmt.Sprintf("task %d is not fixed-size: %s", task.Tag(), err))
	}
	//
	return blob
}

// SplitTag separates an encoded task into its tag and its state image.
func SplitTag(blob []byte) (Tag, []byte, error) {
	if len(blob) < TagBytes {
		return 0, nil, fmt.Errorf("%w: blob of %d bytes has no tag", ErrCodec, len(blob))
	}
	//
	return Tag(binary.BigEndian.Uint32(blob)), blob[TagBytes:], nil
}

// DecodeInto fills a given task from its state image, checking the image has
// exactly the size of the task's struct.
func DecodeInto[T Task](data []byte, task T) (Task, error) {
	if n := binary.Size(task); n != len(data) {
		return nil, fmt.Errorf("%w: tag %d expects %d bytes (was %d)", ErrCodec, task.Tag(), n, len(data))
	} else if _, err := binary.Decode(data, binary.BigEndian, task); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCodec, err)
	}
	//
	return task, nil
}

// Decode splits a blob and decodes it with a given codec.
func Decode(codec Codec, blob []byte) (Task, error) {
	tag, data, err := SplitTag(blob)
	//
	if err != nil {
		return nil, err
	}
	//
	return codec.Decode(tag, data)
}

// UnknownTag constructs the error returned by a codec for an unrecognised tag.
func UnknownTag(tag Tag) error {
	return fmt.Errorf("%w: unknown tag %d", ErrCodec, tag)
}
