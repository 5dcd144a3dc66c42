// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

// FrameStats counts scheduling activity for the current frame.
// All counters reset to zero on Runtime.BeginFrame.
type FrameStats struct {
	// Submissions is the number of submissions accepted by Submit.
	Submissions uint64

	// SubmissionsExecuted is the number of submissions that completed
	// execution, including force-executed ones.
	SubmissionsExecuted uint64

	// StalledSubmissions is the number of submissions force-executed with
	// unmet waits. Nonzero means the declared dependency graph could not be
	// drained in order (typically a cycle or a wait nothing signals).
	StalledSubmissions uint64

	// TasksExecuted is the total number of tasks run.
	TasksExecuted uint64

	// TasksParallel is the number of tasks dispatched through the job
	// system rather than run inline.
	TasksParallel uint64
}

// Stats returns a snapshot of the current frame's counters.
func (r *Runtime) Stats() FrameStats {
	return r.stats
}
