// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

// Resource IDs
//
// These opaque IDs identify synchronization objects owned by a Runtime.
// IDs are uint64 and allocated from a per-runtime monotonic counter, so
// independent runtimes never share or collide on IDs.

// SemaphoreID is an opaque handle to a timeline semaphore.
type SemaphoreID uint64

// FenceID is an opaque handle to a binary fence.
type FenceID uint64

// InvalidID is the zero value, representing an invalid/absent object.
const InvalidID = 0

// QueueClass identifies one of the four fixed submission queues.
//
// The ordinal value doubles as the scan priority when the scheduler has to
// force progress: graphics drains first, present last.
type QueueClass uint32

// Queue classes.
const (
	// QueueGraphics is the graphics queue.
	QueueGraphics QueueClass = iota

	// QueueCompute is the async compute queue.
	QueueCompute

	// QueueTransfer is the transfer/copy queue.
	QueueTransfer

	// QueuePresent is the presentation queue.
	QueuePresent
)

// NumQueueClasses is the number of submission queue classes.
const NumQueueClasses = 4

// String returns the queue class name.
func (q QueueClass) String() string {
	switch q {
	case QueueGraphics:
		return "graphics"
	case QueueCompute:
		return "compute"
	case QueueTransfer:
		return "transfer"
	case QueuePresent:
		return "present"
	default:
		return "unknown"
	}
}

// PipelineStage identifies a pipeline stage for wait/signal scoping.
//
// Stages are carried on semaphore operations for diagnostics and API
// compatibility with real drivers; the CPU emulation never branches on them.
type PipelineStage uint32

// Pipeline stages.
const (
	// StageNone means no stage was specified.
	StageNone PipelineStage = iota

	// StageTopOfPipe is the earliest pipeline stage.
	StageTopOfPipe

	// StageVertexShader is vertex shader execution.
	StageVertexShader

	// StageFragmentShader is fragment shader execution.
	StageFragmentShader

	// StageComputeShader is compute shader execution.
	StageComputeShader

	// StageTransfer covers copy and blit operations.
	StageTransfer

	// StageColorAttachmentOutput is color attachment write-out.
	StageColorAttachmentOutput

	// StageBottomOfPipe is the latest pipeline stage.
	StageBottomOfPipe
)

// String returns the pipeline stage name.
func (s PipelineStage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageTopOfPipe:
		return "top-of-pipe"
	case StageVertexShader:
		return "vertex-shader"
	case StageFragmentShader:
		return "fragment-shader"
	case StageComputeShader:
		return "compute-shader"
	case StageTransfer:
		return "transfer"
	case StageColorAttachmentOutput:
		return "color-attachment-output"
	case StageBottomOfPipe:
		return "bottom-of-pipe"
	default:
		return "unknown"
	}
}

// SemaphoreOp describes one wait or signal on a timeline semaphore.
//
// As a wait, the operation is satisfied once the semaphore's timeline value
// reaches Value. As a signal, the semaphore's timeline value is raised to
// Value (never lowered; see Runtime.TimelineValue).
type SemaphoreOp struct {
	// Semaphore is the timeline semaphore to wait on or signal.
	Semaphore SemaphoreID

	// Value is the timeline value to wait for or signal to.
	Value uint64

	// Stage is the pipeline stage scope. Diagnostic only.
	Stage PipelineStage
}
