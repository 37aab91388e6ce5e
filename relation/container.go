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

package relation

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"

	"github.com/bfix/gnfs/backend"
	"github.com/bfix/gnfs/config"
	gerr "github.com/bfix/gnfs/errors"
	"github.com/bfix/gnfs/logger"
)

// DefaultBufferSize is the smooth-relation flush threshold in rows
// (overridable via GNFS_RELATION_BUFFER_SIZE).
const DefaultBufferSize = 50

// Container holds the three relation streams. Only the smooth stream
// spills to disk; rough relations are retained for large-prime
// variants and free relations are the matrix solution sets.
type Container[T backend.Num[T]] struct {
	Smooth []*Relation[T]
	Rough  []*Relation[T]
	Free   [][]*Relation[T]

	spillPath     string // JSON-lines spill file ("" = memory only)
	totalStreamed int    // relations already written to disk
	bufferSize    int    // flush threshold
}

// NewContainer creates a container with the configured buffer size.
func NewContainer[T backend.Num[T]]() *Container[T] {
	return &Container[T]{
		bufferSize: config.RelationBufferSize(DefaultBufferSize),
	}
}

// InitStreaming routes smooth relations to a spill file. With fresh
// set, an existing file from a previous (abandoned) run is removed and
// the streamed count is reset; otherwise an existing file is kept and
// later flushes append to it.
func (c *Container[T]) InitStreaming(path string, fresh bool) error {
	c.spillPath = path
	if fresh {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return gerr.New(gerr.ErrStorage, "remove spill file %s", path)
		}
		c.totalStreamed = 0
	}
	return nil
}

// AddSmooth appends smooth relations and flushes the buffer when the
// threshold is reached.
func (c *Container[T]) AddSmooth(rels ...*Relation[T]) error {
	c.Smooth = append(c.Smooth, rels...)
	if len(c.Smooth) >= c.bufferSize {
		return c.Flush()
	}
	return nil
}

// Flush writes all buffered smooth relations to the spill file and
// resets the buffer to minimal capacity, bounding memory between
// flushes. Relations already persisted are skipped, so a repeated
// flush never duplicates file content. On error the buffer is kept.
func (c *Container[T]) Flush() error {
	if len(c.Smooth) == 0 || c.spillPath == "" {
		return nil
	}
	fp, err := os.OpenFile(c.spillPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return gerr.New(gerr.ErrStorage, "open spill file %s", c.spillPath)
	}
	defer fp.Close()
	wrt := bufio.NewWriter(fp)
	count := 0
	for _, rel := range c.Smooth {
		if rel.IsPersisted {
			continue
		}
		data, err := json.Marshal(rel)
		if err != nil {
			return gerr.New(gerr.ErrStorage, "marshal relation")
		}
		if _, err := wrt.Write(append(data, '\n')); err != nil {
			return gerr.New(gerr.ErrStorage, "write spill file %s", c.spillPath)
		}
		rel.IsPersisted = true
		count++
	}
	if err := wrt.Flush(); err != nil {
		return gerr.New(gerr.ErrStorage, "flush spill file %s", c.spillPath)
	}
	c.totalStreamed += count
	logger.Logger().Debug().
		Int("flushed", count).
		Int("streamed", c.totalStreamed).
		Msg("smooth relations spilled")

	// drop the buffer; a fresh small slice bounds the memory envelope
	c.Smooth = make([]*Relation[T], 0, c.bufferSize/2)
	return nil
}

// LoadSmooth returns all smooth relations: the spill file content
// followed by the current buffer.
func (c *Container[T]) LoadSmooth() ([]*Relation[T], error) {
	var res []*Relation[T]
	if c.spillPath != "" {
		data, err := os.ReadFile(c.spillPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, gerr.New(gerr.ErrStorage, "read spill file %s", c.spillPath)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			rel := new(Relation[T])
			if err := json.Unmarshal([]byte(line), rel); err != nil {
				return nil, gerr.New(gerr.ErrStorage, "parse spill line")
			}
			res = append(res, rel)
		}
	}
	res = append(res, c.Smooth...)
	return res, nil
}

// SmoothCount returns the total number of smooth relations (buffer
// plus streamed).
func (c *Container[T]) SmoothCount() int {
	return len(c.Smooth) + c.totalStreamed
}

// SaveRough rewrites the rough-relation file; rough relations are few
// and mutable (purging), so they are persisted wholesale rather than
// streamed.
func (c *Container[T]) SaveRough(path string) error {
	if len(c.Rough) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(c.Rough, "", "  ")
	if err != nil {
		return gerr.New(gerr.ErrStorage, "marshal rough relations")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return gerr.New(gerr.ErrStorage, "write %s", path)
	}
	return nil
}

// LoadRough restores the rough-relation stream.
func (c *Container[T]) LoadRough(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return gerr.New(gerr.ErrStorage, "read %s", path)
	}
	var rough []*Relation[T]
	if err := json.Unmarshal(data, &rough); err != nil {
		return gerr.New(gerr.ErrStorage, "parse %s", path)
	}
	c.Rough = rough
	return nil
}
