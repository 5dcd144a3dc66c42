// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

import (
	"sync"

	"github.com/gogpu/rhi/jobs"
)

// Runtime is the CPU-side emulation of a multi-queue GPU submission and
// synchronization model. It owns the timeline-semaphore and fence
// registries, the frames-in-flight slot ring, and one pending-submission
// queue per QueueClass.
//
// Thread Safety: Runtime is NOT thread-safe. The frame driver methods
// (BeginFrame, Submit, ExecuteAll, EndFrame) must all be called from a
// single goroutine. The only concurrency is inside ExecuteAll, where the
// tasks of one submission may fan out onto job-system workers; that fan-out
// is joined before ExecuteAll touches any registry again, so the runtime's
// own state is only ever mutated by the driving goroutine and no internal
// locking is needed. Worker goroutines see nothing but the task closures.
type Runtime struct {
	// js is the host-supplied job system, nil for serial-only operation.
	js jobs.JobSystem

	// device is the host-supplied GPU device handle, nil if none.
	device DeviceHandle

	// parallelTasks gates parallel dispatch globally.
	parallelTasks bool

	// slots is the frames-in-flight ring; slot is the index selected by the
	// most recent BeginFrame.
	slots []frameSlot
	slot  int

	// pending holds submitted-but-unexecuted submissions per queue class.
	pending [NumQueueClasses][]Submission

	// timelines maps semaphore IDs to their monotonic timeline values.
	timelines map[SemaphoreID]uint64

	// fences maps fence IDs to their signaled state.
	fences map[FenceID]bool

	// queueSems memoizes the per-queue-class timeline semaphores.
	queueSems [NumQueueClasses]SemaphoreID

	// nextID feeds semaphore and fence allocation. Starts at 1; 0 is
	// InvalidID.
	nextID uint64

	stats FrameStats
}

// NewRuntime creates a submission runtime.
//
// With no options the runtime uses DefaultFramesInFlight slots, runs every
// task serially on the calling goroutine, and carries no device handle.
func NewRuntime(opts ...Option) *Runtime {
	o := defaultRuntimeOptions()
	for _, opt := range opts {
		opt(&o)
	}

	r := &Runtime{
		js:        o.js,
		device:    o.device,
		timelines: make(map[SemaphoreID]uint64),
		fences:    make(map[FenceID]bool),
		nextID:    1,
	}
	r.Configure(o.framesInFlight, o.parallelTasks)

	if o.js != nil {
		propagateLogger(o.js, Logger())
	}

	Logger().Debug("runtime created",
		"framesInFlight", r.FramesInFlight(),
		"parallelTasks", r.parallelTasks,
		"jobSystem", o.js != nil)
	return r
}

// Configure resizes the frame-slot ring and sets the parallel-task policy.
// framesInFlight is clamped to a minimum of 1.
//
// Configure may be called after frames have run, but it resets all slot
// bookkeeping and drops pending submissions: there is no in-flight
// continuity across a reconfigure. Callers should configure before the
// first BeginFrame. Semaphore and fence registries are preserved.
func (r *Runtime) Configure(framesInFlight int, allowParallelTasks bool) {
	if framesInFlight < 1 {
		framesInFlight = 1
	}
	r.slots = newFrameSlots(framesInFlight)
	r.slot = 0
	r.parallelTasks = allowParallelTasks
	r.clearPending()
}

// BeginFrame acquires the slot for the given frame index and resets the
// per-frame stats counters.
//
// Pending submissions from a prior frame that were never drained by
// ExecuteAll are dropped here; flushing before the next BeginFrame is the
// caller's contract, not enforced.
//
// If the slot's previous occupant is still in flight and its retirement
// fence has not signaled, BeginFrame blocks on the job system's WaitIdle
// (the emulation of waiting for frame N-k to retire on the GPU) and then
// force-signals that fence. This bounds the number of in-flight frames to
// the ring size.
func (r *Runtime) BeginFrame(frame uint64) {
	r.slot = int(frame % uint64(len(r.slots)))
	r.stats = FrameStats{}
	r.clearPending()

	s := &r.slots[r.slot]
	if s.inFlight && !r.FenceSignaled(s.fence) {
		Logger().Debug("frame slot busy, draining job system",
			"slot", r.slot, "retiringFrame", s.frame, "frame", frame)
		if r.js != nil {
			r.js.WaitIdle()
		}
		r.signalFence(s.fence)
	}

	s.frame = frame
	s.fence = InvalidID
	s.inFlight = false
}

// Submit enqueues a submission on the pending queue for its class.
//
// Submit is a pure enqueue: no dependency validation and no registry access
// happen here, and submissions may arrive in any order relative to their
// logical dependencies. Ordering is resolved entirely by ExecuteAll. The
// submission is copied; the caller must not reuse its task closures.
func (r *Runtime) Submit(sub *Submission) {
	if sub == nil {
		return
	}
	q := sub.Queue
	if q >= NumQueueClasses {
		// Out-of-range classes land on the graphics queue.
		q = QueueGraphics
	}
	r.pending[q] = append(r.pending[q], *sub)
	r.stats.Submissions++
}

// ExecuteAll drains all four pending queues in dependency order.
//
// Each pass scans every queue in order and executes any submission whose
// waits are all satisfied; executing one submission can unblock others in
// the same pass. When a full pass makes no progress while work remains, the
// front submission of the first non-empty queue (graphics first, present
// last) is force-executed with its waits unmet and StalledSubmissions is
// incremented. The forced-progress fallback trades strict ordering for
// termination: a cyclic or unsatisfiable graph still drains, observable
// only through the stall counter.
//
// Worst case this greedy drain is quadratic in the number of pending
// submissions, which is fine at render-graph scale.
func (r *Runtime) ExecuteAll() {
	for {
		progress := false
		remaining := 0
		for q := range r.pending {
			queue := r.pending[q]
			kept := queue[:0]
			for i := range queue {
				sub := queue[i]
				if r.waitsSatisfied(&sub) {
					r.executeSubmission(&sub)
					progress = true
				} else {
					kept = append(kept, sub)
				}
			}
			// Zero the tail so consumed closures are collectable.
			for i := len(kept); i < len(queue); i++ {
				queue[i] = Submission{}
			}
			r.pending[q] = kept
			remaining += len(kept)
		}

		if remaining == 0 {
			return
		}
		if !progress {
			r.forceExecuteFront()
		}
	}
}

// forceExecuteFront executes the front submission of the first non-empty
// queue regardless of its unmet waits.
func (r *Runtime) forceExecuteFront() {
	for q := range r.pending {
		queue := r.pending[q]
		if len(queue) == 0 {
			continue
		}
		sub := queue[0]
		copy(queue, queue[1:])
		queue[len(queue)-1] = Submission{}
		r.pending[q] = queue[:len(queue)-1]

		r.stats.StalledSubmissions++
		Logger().Warn("forcing submission with unmet waits",
			"queue", QueueClass(q).String(), "label", sub.Label)
		r.executeSubmission(&sub)
		return
	}
}

// executeSubmission runs the submission's tasks and applies its signals.
//
// The parallel path fans tasks out through the job system and joins them on
// a WaitGroup before returning, so from the runtime's point of view every
// submission executes synchronously and submissions never overlap.
func (r *Runtime) executeSubmission(sub *Submission) {
	parallel := sub.ParallelTasks && r.parallelTasks && r.js != nil && len(sub.Tasks) > 1

	if parallel {
		Logger().Debug("dispatching tasks in parallel",
			"label", sub.Label, "tasks", len(sub.Tasks), "workers", r.js.WorkerCount())
		var wg sync.WaitGroup
		wg.Add(len(sub.Tasks))
		for i := range sub.Tasks {
			run := sub.Tasks[i].Run
			r.js.Enqueue(func() {
				defer wg.Done()
				if run != nil {
					run()
				}
			})
		}
		wg.Wait()
		r.stats.TasksParallel += uint64(len(sub.Tasks))
	} else {
		for i := range sub.Tasks {
			if run := sub.Tasks[i].Run; run != nil {
				run()
			}
		}
	}

	for i := range sub.Signals {
		r.signalTimeline(sub.Signals[i].Semaphore, sub.Signals[i].Value)
	}
	r.signalFence(sub.Fence)

	r.stats.SubmissionsExecuted++
	r.stats.TasksExecuted += uint64(len(sub.Tasks))
}

// EndFrame marks the current slot in flight and arms its retirement fence.
//
// The fence is allocated unsignaled: on the CPU there is no GPU to retire
// the frame, so the wraparound BeginFrame for this slot is what waits for
// the job system and signals it.
func (r *Runtime) EndFrame() {
	s := &r.slots[r.slot]
	s.inFlight = true
	if s.fence == InvalidID {
		s.fence = r.NewFence(false)
	} else {
		r.signalFence(s.fence)
	}
}

// JobSystem returns the attached job system, or nil if the runtime runs
// everything serially.
func (r *Runtime) JobSystem() jobs.JobSystem {
	return r.js
}

// clearPending empties all four pending queues, zeroing entries so dropped
// task closures are collectable.
func (r *Runtime) clearPending() {
	for q := range r.pending {
		queue := r.pending[q]
		for i := range queue {
			queue[i] = Submission{}
		}
		r.pending[q] = queue[:0]
	}
}

// PendingSubmissions returns the total number of submissions waiting in the
// four queues. This is normally zero between ExecuteAll and the next Submit.
func (r *Runtime) PendingSubmissions() int {
	n := 0
	for q := range r.pending {
		n += len(r.pending[q])
	}
	return n
}

// allocID returns the next ID from the per-runtime counter.
func (r *Runtime) allocID() uint64 {
	id := r.nextID
	r.nextID++
	return id
}
