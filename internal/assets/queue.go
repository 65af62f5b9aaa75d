package assets

import (
	"context"
	"sync/atomic"
)

// Queue runs blocking work (file reads, decoding) on worker goroutines and
// hands the results back to the goroutine that calls Pump. Completion
// callbacks therefore run on the owner's goroutine, between frames, and may
// touch scene state without locks.
//
// Once the queue's context is canceled, workers that have not delivered
// their result drop it and their completion never runs.
type Queue struct {
	ctx      context.Context
	done     chan func()
	inflight atomic.Int64
}

// NewQueue creates a queue whose workers observe ctx. capacity bounds the
// number of finished jobs waiting for Pump before workers block.
func NewQueue(ctx context.Context, capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{
		ctx:  ctx,
		done: make(chan func(), capacity),
	}
}

// Submit runs work on a new goroutine and schedules complete with its result
// for the next Pump. Must be called from the owner goroutine.
func Submit[T any](q *Queue, work func(ctx context.Context) (T, error), complete func(T, error)) {
	q.inflight.Add(1)
	go func() {
		v, err := work(q.ctx)
		select {
		case q.done <- func() { complete(v, err) }:
		case <-q.ctx.Done():
			q.inflight.Add(-1)
		}
	}()
}

// Pump runs every completion that is ready without blocking and returns how
// many ran.
func (q *Queue) Pump() int {
	n := 0
	for {
		select {
		case fn := <-q.done:
			q.inflight.Add(-1)
			fn()
			n++
		default:
			return n
		}
	}
}

// Settle blocks until no work is in flight, running completions as they
// arrive. Completions that submit more work extend the wait. It returns
// the queue's context error once that context is canceled, or ctx's error
// if ctx ends first.
func (q *Queue) Settle(ctx context.Context) error {
	for q.inflight.Load() > 0 {
		if err := q.ctx.Err(); err != nil {
			return err
		}
		select {
		case fn := <-q.done:
			q.inflight.Add(-1)
			fn()
		case <-q.ctx.Done():
			return q.ctx.Err()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Pending returns the number of submitted jobs whose completion has neither
// run nor been dropped.
func (q *Queue) Pending() int {
	return int(q.inflight.Load())
}
