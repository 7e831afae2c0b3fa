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
	"errors"
	"io"
	"runtime/debug"
	"syscall"

	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// BlockDevice represents a read-write memory map over an open file descriptor.
type BlockDevice struct {
	FileDescriptor int
	Data           []byte
}

// NewBlockDevice maps the first sizeBytes bytes of a file descriptor referring
// either to a regular file or UNIX device node.  Reads go through the memory
// map, whilst writes go through the descriptor.
func NewBlockDevice(fileDescriptor, sizeBytes int) (*BlockDevice, error) {
	data, err := unix.Mmap(fileDescriptor, 0, sizeBytes, syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "failed to memory map block device")
	}

	return &BlockDevice{
		FileDescriptor: fileDescriptor,
		Data:           data,
	}, nil
}

// Size returns the number of bytes mapped.
func (bd *BlockDevice) Size() int64 {
	return int64(len(bd.Data))
}

// ReadAt reads through the memory map at a given offset.
func (bd *BlockDevice) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, syscall.EINVAL
	}

	if off > int64(len(bd.Data)) {
		return 0, io.EOF
	}
	// Page faults against the map (e.g. after the file was truncated
	// underneath us) are reported as errors rather than crashing.
	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)

		if recover() != nil {
			err = errors.New("page fault occurred while reading from memory map")
		}
	}()

	n = copy(p, bd.Data[off:])
	if n < len(p) {
		err = io.EOF
	}

	return
}

// WriteAt writes at a given offset through the file descriptor.  Writes past
// the end of the map are rejected, since they would not be visible to ReadAt.
func (bd *BlockDevice) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off+int64(len(p)) > int64(len(bd.Data)) {
		return 0, syscall.EINVAL
	}
	// pwrite() may return a short write without an error, hence it is invoked
	// repeatedly until everything is written.
	nTotal := 0

	for len(p) > 0 {
		n, err := unix.Pwrite(bd.FileDescriptor, p, off)
		nTotal += n

		if err != nil {
			return nTotal, pkgErrors.Wrap(err, "failed to write block device")
		}

		p = p[n:]
		off += int64(n)
	}

	return nTotal, nil
}

// Sync synchronizes a file's in-core state with storage device.
func (bd *BlockDevice) Sync() error {
	return pkgErrors.Wrap(unix.Fsync(bd.FileDescriptor), "failed to sync block device")
}

// Close unmaps the device and closes its file descriptor.
func (bd *BlockDevice) Close() error {
	if err := unix.Munmap(bd.Data); err != nil {
		return pkgErrors.Wrap(err, "failed to unmap block device")
	}

	bd.Data = nil

	return pkgErrors.Wrap(unix.Close(bd.FileDescriptor), "failed to close block device")
}
