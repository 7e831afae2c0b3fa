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
	pkgErrors "github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// File represents a memory-mapped file, sized in whole sectors.
type File struct {
	BlockDevice     *BlockDevice
	SectorSizeBytes int
	SectorCount     int64
}

// NewFile opens (or creates) a file holding at least minimumSizeBytes bytes,
// and maps it.  An existing file is grown if necessary, but never shrunk, hence
// its contents are preserved.
func NewFile(path string, minimumSizeBytes int) (*File, error) {
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR, 0666)
	if err != nil {
		return nil, pkgErrors.Wrapf(err, "failed to open file %#v", path)
	}
	// Use the block size returned by fstat() to determine the sector size and
	// the number of sectors needed to store the desired amount of space.
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, pkgErrors.Wrapf(err, "failed to obtain size of file %#v", path)
	}

	sectorSizeBytes := int(stat.Blksize)
	sectorCount := int64((uint64(minimumSizeBytes) + uint64(stat.Blksize) - 1) / uint64(stat.Blksize))
	sizeBytes := max(int64(sectorSizeBytes)*sectorCount, stat.Size)

	if sizeBytes != stat.Size {
		if err := unix.Ftruncate(fd, sizeBytes); err != nil {
			unix.Close(fd)
			return nil, pkgErrors.Wrapf(err, "failed to truncate file %#v to %d bytes", path, sizeBytes)
		}
	}

	bd, err := NewBlockDevice(fd, int(sizeBytes))
	if err != nil {
		unix.Close(fd)
		return nil, err
	}

	return &File{
		BlockDevice:     bd,
		SectorSizeBytes: sectorSizeBytes,
		SectorCount:     sectorCount,
	}, nil
}

// Close releases the memory map and the underlying file.
func (f *File) Close() error {
	return f.BlockDevice.Close()
}
