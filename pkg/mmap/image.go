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
package mmap

import (
	"encoding/binary"
	"io"

	pkgErrors "github.com/pkg/errors"
)

// imageHeaderBytes is the width of the length prefix of an image file.
const imageHeaderBytes = 8

// ImageFile holds a single arena image in a memory-mapped file.  The file
// begins with the image length (8 bytes, big-endian), followed by the image
// itself.  A zero length means the file holds no image.
type ImageFile struct {
	file *File
}

// OpenImage opens (or creates) an image file able to hold images of upto
// maxImageBytes bytes.
func OpenImage(path string, maxImageBytes int) (*ImageFile, error) {
	file, err := NewFile(path, imageHeaderBytes+maxImageBytes)
	if err != nil {
		return nil, err
	}

	return &ImageFile{file}, nil
}

// Capacity returns the largest image this file can hold.
func (p *ImageFile) Capacity() int {
	return int(p.file.BlockDevice.Size()) - imageHeaderBytes
}

// Read returns a copy of the image held in this file, or nil if it holds
// none.
func (p *ImageFile) Read() ([]byte, error) {
	var header [imageHeaderBytes]byte

	if _, err := p.file.BlockDevice.ReadAt(header[:], 0); err != nil {
		return nil, pkgErrors.Wrap(err, "failed to read image header")
	}

	n := binary.BigEndian.Uint64(header[:])

	if n == 0 {
		return nil, nil
	} else if n > uint64(p.Capacity()) {
		return nil, pkgErrors.Errorf("image of %d bytes exceeds file capacity %d", n, p.Capacity())
	}

	image := make([]byte, n)

	if _, err := p.file.BlockDevice.ReadAt(image, imageHeaderBytes); err != nil && err != io.EOF {
		return nil, pkgErrors.Wrap(err, "failed to read image")
	}

	return image, nil
}

// Write replaces the image held in this file, and syncs it to storage.
func (p *ImageFile) Write(image []byte) error {
	var header [imageHeaderBytes]byte

	if len(image) > p.Capacity() {
		return pkgErrors.Errorf("image of %d bytes exceeds file capacity %d", len(image), p.Capacity())
	} else if _, err := p.file.BlockDevice.WriteAt(image, imageHeaderBytes); err != nil {
		return err
	}

	binary.BigEndian.PutUint64(header[:], uint64(len(image)))

	if _, err := p.file.BlockDevice.WriteAt(header[:], 0); err != nil {
		return err
	}

	return p.file.BlockDevice.Sync()
}

// Close releases this image file.
func (p *ImageFile) Close() error {
	return p.file.Close()
}
