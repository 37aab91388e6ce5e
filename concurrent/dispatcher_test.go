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

package concurrent

import (
	"context"
	"testing"
)

// squarer computes squares on the pool and sums the results.
type squarer struct {
	sum  int
	seen int
}

func (s *squarer) Worker(ctx context.Context, n int, taskCh <-chan int, resCh chan<- int) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-taskCh:
			if !ok {
				return
			}
			resCh <- t * t
		}
	}
}

func (s *squarer) Eval(result int) bool {
	s.sum += result
	s.seen++
	return false
}

func TestDispatcherFanOut(t *testing.T) {
	s := new(squarer)
	d := NewDispatcher[int, int](context.Background(), 4, s)
	want := 0
	for i := 1; i <= 100; i++ {
		if !d.Process(i) {
			t.Fatal("dispatcher stopped early")
		}
		want += i * i
	}
	d.Wait()
	if s.seen != 100 {
		t.Fatalf("evaluated %d of 100 results", s.seen)
	}
	if s.sum != want {
		t.Fatalf("sum = %d, want %d", s.sum, want)
	}
}

// stopper cancels after a fixed number of results.
type stopper struct {
	squarer
	limit int
}

func (s *stopper) Eval(result int) bool {
	s.seen++
	return s.seen >= s.limit
}

func TestDispatcherEarlyStop(t *testing.T) {
	s := &stopper{limit: 5}
	d := NewDispatcher[int, int](context.Background(), 2, s)
	for i := 0; i < 1000; i++ {
		if !d.Process(i) {
			break
		}
	}
	d.Wait()
	if s.seen < s.limit {
		t.Fatalf("stopped after %d results, want at least %d", s.seen, s.limit)
	}
}

func TestDispatcherQuit(t *testing.T) {
	s := new(squarer)
	d := NewDispatcher[int, int](context.Background(), 2, s)
	d.Process(1)
	d.Quit()
	// workers drain within a few attempts once the context is gone
	ok := true
	for i := 0; i < 100 && ok; i++ {
		ok = d.Process(2)
	}
	if ok {
		t.Fatal("Process must fail after Quit")
	}
}
