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
package driver

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/consensys/go-starkstep/pkg/mmap"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when loading a run which has no stored image.
var ErrNotFound = errors.New("run not found")

// Store persists arena images between invocations, keyed by run identifier.
type Store interface {
	// Load returns the image stored for a given run, or ErrNotFound.
	Load(run string) ([]byte, error)
	// Save replaces the image stored for a given run.
	Save(run string, image []byte) error
	// Delete removes the image stored for a given run (if any).
	Delete(run string) error
	// Close releases the store.
	Close() error
}

// OpenStore opens the store described by a given configuration, sized for
// images of a given layout.
func OpenStore(config StoreConfig, imageBytes int) (Store, error) {
	switch config.Kind {
	case "pebble":
		return NewPebbleStore(config)
	case "file":
		return NewFileStore(config.Path, imageBytes)
	}
	//
	return nil, errors.Errorf("unknown store kind %q", config.Kind)
}

// ============================================================================
// Pebble
// ============================================================================

// PebbleStore keeps arena images in a pebble key-value store.
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore opens a pebble store at the configured path.
func NewPebbleStore(config StoreConfig) (*PebbleStore, error) {
	var opts = &pebble.Options{}
	//
	if config.InMemoryDONOTUSE {
		opts.FS = vfs.NewMem()
	}
	//
	db, err := pebble.Open(config.Path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %s", config.Path)
	}
	//
	return &PebbleStore{db}, nil
}

// Load implementation for the Store interface.
func (p *PebbleStore) Load(run string) ([]byte, error) {
	value, closer, err := p.db.Get(runKey(run))
	//
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrap(ErrNotFound, run)
	} else if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	//
	defer closer.Close()
	//
	return append([]byte(nil), value...), nil
}

// Save implementation for the Store interface.
func (p *PebbleStore) Save(run string, image []byte) error {
	return errors.Wrap(p.db.Set(runKey(run), image, pebble.Sync), "save")
}

// Delete implementation for the Store interface.
func (p *PebbleStore) Delete(run string) error {
	return errors.Wrap(p.db.Delete(runKey(run), pebble.Sync), "delete")
}

// Close implementation for the Store interface.
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func runKey(run string) []byte {
	return append([]byte("run/"), run...)
}

// ============================================================================
// Memory-mapped files
// ============================================================================

// FileStore keeps each arena image in its own memory-mapped file.
type FileStore struct {
	dir        string
	imageBytes int
}

// NewFileStore constructs a store holding images of upto imageBytes bytes in
// a given directory, which is created if necessary.
func NewFileStore(dir string, imageBytes int) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create store %s", dir)
	}
	//
	return &FileStore{dir, imageBytes}, nil
}

// Load implementation for the Store interface.
func (p *FileStore) Load(run string) ([]byte, error) {
	path, err := p.path(run)
	if err != nil {
		return nil, err
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNotFound, run)
	}
	//
	file, err := mmap.OpenImage(path, p.imageBytes)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	//
	defer file.Close()
	//
	image, err := file.Read()
	if err != nil {
		return nil, errors.Wrap(err, "load")
	} else if image == nil {
		return nil, errors.Wrap(ErrNotFound, run)
	}
	//
	return image, nil
}

// Save implementation for the Store interface.
func (p *FileStore) Save(run string, image []byte) error {
	path, err := p.path(run)
	if err != nil {
		return err
	}
	//
	file, err := mmap.OpenImage(path, max(p.imageBytes, len(image)))
	if err != nil {
		return errors.Wrap(err, "save")
	}
	//
	if err := file.Write(image); err != nil {
		file.Close()
		return errors.Wrap(err, "save")
	}
	//
	return file.Close()
}

// Delete implementation for the Store interface.
func (p *FileStore) Delete(run string) error {
	path, err := p.path(run)
	if err != nil {
		return err
	} else if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete")
	}
	//
	return nil
}

// Close implementation for the Store interface.
func (p *FileStore) Close() error {
	return nil
}

func (p *FileStore) path(run string) (string, error) {
	if run == "" || filepath.Base(run) != run || run == "." || run == ".." {
		return "", errors.Errorf("invalid run identifier %q", run)
	}
	//
	return filepath.Join(p.dir, run+".img"), nil
}
