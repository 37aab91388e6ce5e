//----------------------------------------------------------------------
// This file is part of gnfs.
// Copyright (C) 2023-present, Bernd Fix  >Y<
//
// gnfs is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnfs is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

// Package config handles runtime configuration: a YAML file with
// defaults, overridden by process environment variables.
package config

import (
	"os"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized by the pipeline.
const (
	EnvThreads    = "GNFS_THREADS"
	EnvBufferSize = "GNFS_RELATION_BUFFER_SIZE"
)

// BufferConfig controls relation streaming.
type BufferConfig struct {
	MaxMemoryBytes int `yaml:"max_memory_bytes"` // soft buffer cap
	MinRelations   int `yaml:"min_relations"`    // lower flush threshold
	MaxRelations   int `yaml:"max_relations"`    // upper flush threshold
}

// PerformanceConfig holds tuning multipliers.
type PerformanceConfig struct {
	PrimeBoundMultiplier       float64 `yaml:"prime_bound_multiplier"`
	RelationQuantityMultiplier float64 `yaml:"relation_quantity_multiplier"`
}

// Config is the top-level runtime configuration.
type Config struct {
	OutputDir   string            `yaml:"output_dir"` // root for persisted state
	Cleanup     bool              `yaml:"cleanup"`    // remove working dir on success
	Threads     int               `yaml:"threads"`    // pool size (0 = all cores)
	LogLevel    string            `yaml:"log_level"`
	Buffer      BufferConfig      `yaml:"buffer"`
	Performance PerformanceConfig `yaml:"performance"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OutputDir: ".",
		Cleanup:   false,
		Threads:   0,
		LogLevel:  "info",
		Buffer: BufferConfig{
			MaxMemoryBytes: 100 * 1024 * 1024,
			MinRelations:   25,
			MaxRelations:   1000,
		},
		Performance: PerformanceConfig{
			PrimeBoundMultiplier:       1.0,
			RelationQuantityMultiplier: 1.0,
		},
	}
}

// Load reads a configuration file and applies environment overrides.
// A missing file is not an error; defaults are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Threads = n
		}
	}
}

// Workers returns the effective worker-pool size.
func (c *Config) Workers() int {
	if c.Threads > 0 {
		return c.Threads
	}
	return runtime.NumCPU()
}

// WorkerCount returns the process-wide worker-pool size: the
// GNFS_THREADS environment variable if set, otherwise all cores.
func WorkerCount() int {
	if v := os.Getenv(EnvThreads); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// RelationBufferSize returns the smooth-relation flush threshold in
// rows: the GNFS_RELATION_BUFFER_SIZE environment variable if set,
// otherwise the given default.
func RelationBufferSize(dflt int) int {
	if v := os.Getenv(EnvBufferSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return dflt
}
