// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package jobs defines the worker contract consumed by the rhi runtime and
// provides ready-made implementations.
//
// The runtime never spawns goroutines itself: hosts inject a JobSystem and
// the runtime fans submission tasks out through it. Pool is the default
// work-stealing implementation; Serial runs everything inline for
// deterministic single-threaded operation.
package jobs

// JobSystem is the execution backend for fanned-out tasks.
//
// Implementations must run each enqueued function exactly once and must
// make WaitIdle block until every function enqueued before the call has
// returned.
type JobSystem interface {
	// Enqueue schedules fn to run on a worker. fn must not be nil-checked
	// by callers; implementations ignore nil.
	Enqueue(fn func())

	// WaitIdle blocks until all previously enqueued work has completed.
	WaitIdle()

	// WorkerCount returns the number of workers executing jobs.
	WorkerCount() int
}

// Serial is a JobSystem that runs every job inline on the calling
// goroutine. It is always idle and reports a single worker.
//
// Serial gives deterministic execution order, which makes it the right
// backend for tests and for hosts that want the scheduling semantics of the
// runtime without any concurrency.
type Serial struct{}

// Enqueue runs fn immediately on the calling goroutine.
func (Serial) Enqueue(fn func()) {
	if fn != nil {
		fn()
	}
}

// WaitIdle is a no-op: inline execution is never outstanding.
func (Serial) WaitIdle() {}

// WorkerCount returns 1.
func (Serial) WorkerCount() int { return 1 }

// Ensure Serial implements JobSystem.
var _ JobSystem = Serial{}
