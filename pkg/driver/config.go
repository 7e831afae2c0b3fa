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

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	defaultStoreKind = "pebble"
	defaultStorePath = ".starkstep"
	defaultCacheSize = 128
	defaultLogLevel  = "info"
)

// Config is the configuration of a driver, as read from a YAML file.
type Config struct {
	Arena   ArenaConfig   `yaml:"arena"`
	Store   StoreConfig   `yaml:"store"`
	Planner PlannerConfig `yaml:"planner"`
	Log     LogConfig     `yaml:"log"`
}

// ArenaConfig determines the layout of every arena managed by a driver.  All
// sizes are in bytes.
type ArenaConfig struct {
	Capacity uint32        `yaml:"capacity"`
	Regions  RegionsConfig `yaml:"regions"`
}

// RegionsConfig gives the size of each scratch region.
type RegionsConfig struct {
	Proof        uint32 `yaml:"proof"`
	Coefficients uint32 `yaml:"coefficients"`
	Domain       uint32 `yaml:"domain"`
	Powers       uint32 `yaml:"powers"`
	Transcript   uint32 `yaml:"transcript"`
}

// StoreConfig determines where arena images are persisted between
// invocations.
type StoreConfig struct {
	// Kind is either "pebble" or "file".
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`

	// Test-only parameters, do not enable outside of tests
	InMemoryDONOTUSE bool `yaml:"inMemory"`
}

// PlannerConfig controls step counting.
type PlannerConfig struct {
	// Number of plans cached, keyed by image digest.
	CacheSize int `yaml:"cacheSize"`
	// Upper bound on the number of steps counted (0 means unbounded).
	MaxSteps uint64 `yaml:"maxSteps"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// LoadConfig reads a configuration file, filling in defaults for anything
// missing.  An empty path gives the default configuration.
func LoadConfig(path string) (Config, error) {
	var config Config
	//
	if path != "" {
		bytes, err := os.ReadFile(path)
		if err != nil {
			return config, errors.Wrapf(err, "reading config %s", path)
		} else if err := yaml.UnmarshalStrict(bytes, &config); err != nil {
			return config, errors.Wrapf(err, "parsing config %s", path)
		}
	}
	//
	return config.WithDefaults(), nil
}

// WithDefaults returns a copy of the Config with any missing fields set to
// their default values.
func (c Config) WithDefaults() Config {
	cpy := c
	cpy.Arena = c.Arena.WithDefaults()
	cpy.Store = c.Store.WithDefaults()
	cpy.Planner = c.Planner.WithDefaults()
	cpy.Log = c.Log.WithDefaults()
	//
	return cpy
}

// WithDefaults returns a copy of the ArenaConfig with any missing fields set
// to their default values.
func (c ArenaConfig) WithDefaults() ArenaConfig {
	var (
		cpy      = c
		defaults = arena.DefaultLayout()
	)
	//
	if cpy.Capacity == 0 {
		cpy.Capacity = defaults.Capacity
	}
	//
	fill(&cpy.Regions.Proof, defaults.Regions[arena.ProofRecord])
	fill(&cpy.Regions.Coefficients, defaults.Regions[arena.Coefficients])
	fill(&cpy.Regions.Domain, defaults.Regions[arena.DomainValues])
	fill(&cpy.Regions.Powers, defaults.Regions[arena.PowerTable])
	fill(&cpy.Regions.Transcript, defaults.Regions[arena.Transcript])
	//
	return cpy
}

// Layout returns the arena layout described by this configuration.
func (c ArenaConfig) Layout() (arena.Layout, error) {
	var layout arena.Layout
	//
	layout.Capacity = c.Capacity
	layout.Regions[arena.ProofRecord] = c.Regions.Proof
	layout.Regions[arena.Coefficients] = c.Regions.Coefficients
	layout.Regions[arena.DomainValues] = c.Regions.Domain
	layout.Regions[arena.PowerTable] = c.Regions.Powers
	layout.Regions[arena.Transcript] = c.Regions.Transcript
	//
	return layout, layout.Validate()
}

// WithDefaults returns a copy of the StoreConfig with any missing fields set
// to their default values.
func (c StoreConfig) WithDefaults() StoreConfig {
	cpy := c
	if cpy.Kind == "" {
		cpy.Kind = defaultStoreKind
	}
	if cpy.Path == "" {
		cpy.Path = defaultStorePath
	}
	return cpy
}

// WithDefaults returns a copy of the PlannerConfig with any missing fields set
// to their default values.
func (c PlannerConfig) WithDefaults() PlannerConfig {
	cpy := c
	if cpy.CacheSize == 0 {
		cpy.CacheSize = defaultCacheSize
	}
	return cpy
}

// WithDefaults returns a copy of the LogConfig with any missing fields set to
// their default values.
func (c LogConfig) WithDefaults() LogConfig {
	cpy := c
	if cpy.Level == "" {
		cpy.Level = defaultLogLevel
	}
	return cpy
}

// Apply configures the standard logger accordingly.
func (c LogConfig) Apply() error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	//
	log.SetLevel(level)
	//
	if c.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	}
	//
	return nil
}

func fill(size *uint32, value uint32) {
	if *size == 0 {
		*size = value
	}
}
