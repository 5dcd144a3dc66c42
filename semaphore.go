// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

// Timeline semaphores.
//
// A timeline semaphore is a monotonically increasing 64-bit counter used to
// express happens-after dependencies between submissions. The registry lives
// on the Runtime, not in package state, so independent runtimes (for example
// in tests) never interfere.

// NewSemaphore allocates a new timeline semaphore with value 0.
func (r *Runtime) NewSemaphore() SemaphoreID {
	return SemaphoreID(r.allocID())
}

// QueueTimelineSemaphore returns the per-queue-class timeline semaphore,
// allocating it on first use. The same ID is returned for every subsequent
// call with the same class.
func (r *Runtime) QueueTimelineSemaphore(queue QueueClass) SemaphoreID {
	if queue >= NumQueueClasses {
		return InvalidID
	}
	if r.queueSems[queue] == InvalidID {
		r.queueSems[queue] = r.NewSemaphore()
	}
	return r.queueSems[queue]
}

// TimelineValue returns the current value of a timeline semaphore.
// A semaphore that was never signaled reads as 0; this includes IDs the
// runtime has never seen, so a wait on an unknown semaphore is satisfied by
// any signal that reaches its target value, never by an error.
func (r *Runtime) TimelineValue(sem SemaphoreID) uint64 {
	return r.timelines[sem]
}

// signalTimeline raises a semaphore to value. Timeline values are monotonic:
// a signal below the current value leaves the semaphore untouched.
func (r *Runtime) signalTimeline(sem SemaphoreID, value uint64) {
	if value > r.timelines[sem] {
		r.timelines[sem] = value
	}
}

// waitsSatisfied reports whether every wait of the submission has been
// reached on its semaphore's timeline.
func (r *Runtime) waitsSatisfied(sub *Submission) bool {
	for i := range sub.Waits {
		w := &sub.Waits[i]
		if r.timelines[w.Semaphore] < w.Value {
			return false
		}
	}
	return true
}
