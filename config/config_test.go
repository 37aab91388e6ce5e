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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.OutputDir)
	assert.False(t, cfg.Cleanup)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 100*1024*1024, cfg.Buffer.MaxMemoryBytes)
	assert.Equal(t, 25, cfg.Buffer.MinRelations)
	assert.Equal(t, 1000, cfg.Buffer.MaxRelations)
	assert.Equal(t, 1.0, cfg.Performance.PrimeBoundMultiplier)
	assert.Equal(t, 1.0, cfg.Performance.RelationQuantityMultiplier)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.OutputDir)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnfs.yaml")
	data := `
output_dir: /tmp/gnfs-work
cleanup: true
threads: 3
log_level: debug
buffer:
  max_memory_bytes: 1048576
  min_relations: 10
  max_relations: 500
performance:
  prime_bound_multiplier: 1.5
  relation_quantity_multiplier: 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gnfs-work", cfg.OutputDir)
	assert.True(t, cfg.Cleanup)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 1048576, cfg.Buffer.MaxMemoryBytes)
	assert.Equal(t, 10, cfg.Buffer.MinRelations)
	assert.Equal(t, 500, cfg.Buffer.MaxRelations)
	assert.Equal(t, 1.5, cfg.Performance.PrimeBoundMultiplier)
	assert.Equal(t, 3, cfg.Workers())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvThreads, "7")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Threads)
	assert.Equal(t, 7, WorkerCount())

	t.Setenv(EnvBufferSize, "123")
	assert.Equal(t, 123, RelationBufferSize(50))
}

func TestRelationBufferDefault(t *testing.T) {
	t.Setenv(EnvBufferSize, "")
	assert.Equal(t, 50, RelationBufferSize(50))
	t.Setenv(EnvBufferSize, "garbage")
	assert.Equal(t, 50, RelationBufferSize(50))
}
