// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

// Task is a single unit of recorded work inside a Submission.
//
// The closure is owned by its Submission until the submission is dispatched;
// during execution ownership transfers to the job system, and the closure is
// dropped once the submission completes. Tasks must not be shared between
// submissions.
type Task struct {
	// Label is a diagnostic name for the task.
	Label string

	// Run is the work to execute. A nil Run is skipped.
	Run func()
}

// Submission is the atomic unit of scheduled work: an ordered batch of tasks
// plus the wait/signal dependencies that order it against other submissions.
//
// Lifecycle: build a Submission (directly or via NewSubmission), hand it to
// Runtime.Submit, which copies it into the pending queue for its class. It is
// consumed exactly once by Runtime.ExecuteAll and then discarded. There is no
// retry and no cancellation.
type Submission struct {
	// Label is a diagnostic name for the submission.
	Label string

	// Queue selects which of the four pending queues receives the submission.
	Queue QueueClass

	// Waits must all be satisfied before the submission may execute.
	// A wait on a semaphore that was never signaled reads timeline value 0.
	Waits []SemaphoreOp

	// Signals are applied after every task has completed.
	Signals []SemaphoreOp

	// Fence, if not InvalidID, is signaled after the submission completes.
	Fence FenceID

	// ParallelTasks requests fan-out of the task list onto the job system.
	// Honored only when the runtime is also configured for parallel tasks,
	// a job system is attached, and there is more than one task.
	ParallelTasks bool

	// Tasks is the ordered work list. On the serial path tasks run in list
	// order; on the parallel path they may run in any order and must touch
	// disjoint data.
	Tasks []Task
}

// NewSubmission returns an empty submission for the given queue class.
//
// The builder methods return the submission so graphs read naturally:
//
//	sub := rhi.NewSubmission(rhi.QueueCompute, "light-cull").
//	    Wait(gfxSem, 1, rhi.StageComputeShader).
//	    Signal(compSem, 1, rhi.StageComputeShader).
//	    AddTask("cull", func() { cull(scene) })
func NewSubmission(queue QueueClass, label string) *Submission {
	return &Submission{Label: label, Queue: queue}
}

// AddTask appends a task to the submission.
func (s *Submission) AddTask(label string, run func()) *Submission {
	s.Tasks = append(s.Tasks, Task{Label: label, Run: run})
	return s
}

// Wait adds a timeline wait: the submission will not execute until sem
// reaches value.
func (s *Submission) Wait(sem SemaphoreID, value uint64, stage PipelineStage) *Submission {
	s.Waits = append(s.Waits, SemaphoreOp{Semaphore: sem, Value: value, Stage: stage})
	return s
}

// Signal adds a timeline signal applied after the submission completes.
func (s *Submission) Signal(sem SemaphoreID, value uint64, stage PipelineStage) *Submission {
	s.Signals = append(s.Signals, SemaphoreOp{Semaphore: sem, Value: value, Stage: stage})
	return s
}

// SignalFence sets the fence signaled on completion.
func (s *Submission) SignalFence(fence FenceID) *Submission {
	s.Fence = fence
	return s
}

// Parallel marks the task list as safe for parallel dispatch.
func (s *Submission) Parallel() *Submission {
	s.ParallelTasks = true
	return s
}
