// Package workpool provides two thread-pool flavors: an owned-worker Pool
// for fire-and-forget background work, and a ScopedPool that runs a queue
// in size-sized chunks and blocks until each chunk finishes. Both are built
// on goroutines, channels and sync.WaitGroup.
package workpool

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Task is a unit of work submitted to a Pool.
type Task func()

// Pool is a bounded owned-worker pool: at most `size` tasks run
// concurrently, with excess Spawn calls blocking until a slot frees up. An
// optional rate.Limiter caps how fast tasks are admitted, for pacing calls
// against a rate-limited external collaborator.
type Pool struct {
	sem     chan struct{}
	wg      sync.WaitGroup
	limiter *rate.Limiter
}

// NewPool returns a Pool that runs at most size tasks concurrently. limiter
// may be nil to disable rate limiting.
func NewPool(size int, limiter *rate.Limiter) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{sem: make(chan struct{}, size), limiter: limiter}
}

// Spawn submits task to the pool, blocking until a worker slot is free (and,
// if a limiter is set, until the limiter admits it). It returns an error
// only if ctx is cancelled while waiting on the limiter.
func (p *Pool) Spawn(ctx context.Context, task Task) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() { <-p.sem }()
		task()
	}()
	return nil
}

// Wait blocks until every task submitted so far has finished, the
// goroutine-based equivalent of TaskPool's join-on-drop.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// ScopedPool runs a queue of tasks in size-sized chunks, blocking until each
// chunk completes before starting the next. Used to parallelize the import
// of a single chunk of source paths (see pkg/pipeline), as opposed to Pool
// which parallelizes whole background batches.
type ScopedPool struct {
	size  int
	queue []Task
}

// NewScopedPool returns a ScopedPool that runs at most size tasks
// concurrently per chunk.
func NewScopedPool(size int) *ScopedPool {
	if size <= 0 {
		size = 1
	}
	return &ScopedPool{size: size}
}

// Spawn enqueues task, to be run the next time Run is called.
func (s *ScopedPool) Spawn(task Task) *ScopedPool {
	s.queue = append(s.queue, task)
	return s
}

// Run drains the queue in size-sized chunks, running each chunk's tasks
// concurrently and blocking until the whole chunk finishes before starting
// the next one.
func (s *ScopedPool) Run() {
	for len(s.queue) > 0 {
		n := len(s.queue)
		if n > s.size {
			n = s.size
		}
		chunk := s.queue[:n]
		s.queue = s.queue[n:]

		var wg sync.WaitGroup
		wg.Add(len(chunk))
		for _, task := range chunk {
			task := task
			go func() {
				defer wg.Done()
				task()
			}()
		}
		wg.Wait()
	}
}
