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

// Package concurrent provides the fork/join worker pool used for the
// data-parallel loops of the sieve. All parallelism is intra-process;
// cancellation is cooperative through the context.
package concurrent

import (
	"context"
	"sync"
)

// Dispatchable interface
type Dispatchable[T, R any] interface {

	// Worker using channels to read tasks and write results. The
	// implementation returns when the task channel closes or the
	// context is cancelled.
	Worker(ctx context.Context, n int, taskCh <-chan T, resCh chan<- R)

	// Eval receives results (single-threaded); returning true stops
	// the dispatcher early.
	Eval(result R) bool
}

// Dispatcher managing worker go-routines
type Dispatcher[T, R any] struct {
	taskCh chan T
	resCh  chan R
	done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher runs a new dispatcher with given number of workers and
// a Dispatchable implementation.
func NewDispatcher[T, R any](ctx context.Context, numWorker int, disp Dispatchable[T, R]) *Dispatcher[T, R] {
	d := new(Dispatcher[T, R])
	d.taskCh = make(chan T)
	d.resCh = make(chan R, numWorker)
	d.done = make(chan struct{})
	d.ctx, d.cancel = context.WithCancel(ctx)

	// start worker go-routines
	wg := new(sync.WaitGroup)
	for n := 0; n < numWorker; n++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			disp.Worker(d.ctx, num, d.taskCh, d.resCh)
		}(n)
	}
	// close the result channel once all workers have returned
	go func() {
		wg.Wait()
		close(d.resCh)
	}()
	// evaluation loop (single consumer)
	go func() {
		defer close(d.done)
		for res := range d.resCh {
			if disp.Eval(res) {
				d.cancel()
			}
		}
	}()
	return d
}

// Process a task. Returns false if the dispatcher was stopped.
func (d *Dispatcher[T, R]) Process(task T) bool {
	select {
	case <-d.ctx.Done():
		return false
	case d.taskCh <- task:
		return true
	}
}

// Quit aborts processing; queued tasks are dropped.
func (d *Dispatcher[T, R]) Quit() {
	d.cancel()
}

// Wait closes the task stream and blocks until all results have been
// evaluated.
func (d *Dispatcher[T, R]) Wait() {
	close(d.taskCh)
	<-d.done
	d.cancel()
}
