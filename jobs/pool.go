// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package jobs

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a work-stealing goroutine pool implementing JobSystem.
//
// Each worker owns a queue and primarily pulls from it, stealing from other
// workers when its own queue runs dry. Stealing balances load when some
// tasks are much slower than others, which is common for submission task
// lists (one heavy pass next to several cheap ones).
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	// workers is the number of worker goroutines.
	workers int

	// queues holds per-worker job queues.
	queues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to exit.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// idleMu/idleCond guard outstanding, the number of enqueued jobs that
	// have not finished. WaitIdle blocks until it reaches zero.
	idleMu      sync.Mutex
	idleCond    *sync.Cond
	outstanding int

	// logger is set via SetLogger; defaults to discard.
	logger atomic.Pointer[slog.Logger]
}

// NewPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// Workers start immediately and wait for jobs.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	// Buffer 2-4x workers to hide handoff latency.
	queueSize := workers * 4
	if queueSize < 8 {
		queueSize = 8
	}

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	p.idleCond = sync.NewCond(&p.idleMu)
	p.logger.Store(slog.New(slog.DiscardHandler))

	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	myQueue := p.queues[id]

	for {
		select {
		case <-p.done:
			// Drain remaining work before exiting.
			p.drainQueue(myQueue)
			return

		case job := <-myQueue:
			if job != nil {
				job()
			}

		default:
			// Try to steal work from another worker.
			if stolen := p.steal(id); stolen != nil {
				stolen()
			} else {
				// No work available anywhere, block on own queue.
				select {
				case <-p.done:
					p.drainQueue(myQueue)
					return
				case job := <-myQueue:
					if job != nil {
						job()
					}
				}
			}
		}
	}
}

// drainQueue executes all remaining work in a queue.
func (p *Pool) drainQueue(queue chan func()) {
	for {
		select {
		case job := <-queue:
			if job != nil {
				job()
			}
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
// Returns nil if no work is available.
func (p *Pool) steal(myID int) func() {
	for i := range p.workers {
		if i == myID {
			continue
		}
		select {
		case job := <-p.queues[i]:
			return job
		default:
			// Queue is empty, try next.
		}
	}
	return nil
}

// Enqueue schedules fn on the worker with the shortest queue. Nil is
// ignored. After Close the pool has no workers left, so fn runs inline on
// the calling goroutine; every accepted job still runs exactly once, and
// callers joining on their own synchronization never hang on a dropped job.
func (p *Pool) Enqueue(fn func()) {
	if fn == nil {
		return
	}
	if !p.running.Load() {
		fn()
		return
	}

	p.idleMu.Lock()
	p.outstanding++
	p.idleMu.Unlock()

	job := func() {
		defer p.jobDone()
		fn()
	}

	// Shortest queue wins (simple load balancing); stealing evens out the
	// rest.
	minLen := len(p.queues[0])
	minIdx := 0
	for i := 1; i < p.workers; i++ {
		if qLen := len(p.queues[i]); qLen < minLen {
			minLen = qLen
			minIdx = i
		}
	}

	select {
	case p.queues[minIdx] <- job:
		// Successfully queued.
	case <-p.done:
		// Pool is closing; run inline so the job is not lost.
		job()
	}
}

// jobDone retires one outstanding job and wakes WaitIdle waiters when the
// pool goes idle.
func (p *Pool) jobDone() {
	p.idleMu.Lock()
	p.outstanding--
	if p.outstanding == 0 {
		p.idleCond.Broadcast()
	}
	p.idleMu.Unlock()
}

// WaitIdle blocks until every job enqueued before the call has finished.
// On an idle pool it returns immediately.
func (p *Pool) WaitIdle() {
	p.idleMu.Lock()
	for p.outstanding > 0 {
		p.idleCond.Wait()
	}
	p.idleMu.Unlock()
}

// WorkerCount returns the number of workers in the pool.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *Pool) IsRunning() bool {
	return p.running.Load()
}

// QueuedJobs returns the total number of jobs currently queued.
// This is an approximation as queues can change while iterating.
func (p *Pool) QueuedJobs() int {
	total := 0
	for _, q := range p.queues {
		total += len(q)
	}
	return total
}

// Close gracefully shuts down the pool.
// It lets workers drain their queues and waits for all of them to exit;
// Enqueue calls arriving after Close run their jobs inline instead.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		// Already closed.
		return
	}

	close(p.done)
	p.wg.Wait()
	p.logger.Load().Debug("worker pool closed", "workers", p.workers)
}

// SetLogger configures the pool's logger. Pass nil to silence it.
// SetLogger is safe for concurrent use.
func (p *Pool) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	p.logger.Store(l)
}

// Ensure Pool implements JobSystem.
var _ JobSystem = (*Pool)(nil)
