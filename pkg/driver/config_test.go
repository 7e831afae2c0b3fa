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
	"testing"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	//
	require.Equal(t, "pebble", config.Store.Kind)
	require.Equal(t, defaultCacheSize, config.Planner.CacheSize)
	require.Equal(t, "info", config.Log.Level)
	//
	layout, err := config.Arena.Layout()
	require.NoError(t, err)
	require.Equal(t, arena.DefaultLayout(), layout)
}

func TestConfig_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starkstep.yaml")
	yaml := `
arena:
  capacity: 4096
  regions:
    proof: 1024
store:
  kind: file
  path: /tmp/runs
planner:
  maxSteps: 1000
log:
  level: debug
  json: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))
	//
	config, err := LoadConfig(path)
	require.NoError(t, err)
	//
	require.Equal(t, uint32(4096), config.Arena.Capacity)
	require.Equal(t, "file", config.Store.Kind)
	require.Equal(t, "/tmp/runs", config.Store.Path)
	require.Equal(t, uint64(1000), config.Planner.MaxSteps)
	require.Equal(t, defaultCacheSize, config.Planner.CacheSize)
	require.True(t, config.Log.JSON)
	//
	layout, err := config.Arena.Layout()
	require.NoError(t, err)
	require.Equal(t, uint32(1024), layout.Regions[arena.ProofRecord])
	require.Equal(t, arena.DefaultLayout().Regions[arena.PowerTable], layout.Regions[arena.PowerTable])
}

func TestConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	// Unknown keys are rejected
	path := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arena:\n  size: 12\n"), 0644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	// Regions must hold whole words
	path = filepath.Join(dir, "ragged.yaml")
	require.NoError(t, os.WriteFile(path, []byte("arena:\n  regions:\n    proof: 33\n"), 0644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	_, err = config.Arena.Layout()
	require.Error(t, err)
	// Missing files are reported
	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
