// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package rhi emulates a multi-queue GPU command-submission and
// synchronization model on the CPU.
//
// # Overview
//
// rhi provides timeline semaphores, binary fences, frames-in-flight
// tracking, and dependency-ordered execution of submissions — the
// synchronization skeleton of a Vulkan-style renderer — without a real GPU
// driver. It is built for prototyping and testing render-graph scheduling:
// submissions carry real closures, dependencies resolve in dependency order
// rather than call order, and everything is observable through per-frame
// stats.
//
// # Quick Start
//
//	import "github.com/gogpu/rhi"
//
//	rt := rhi.NewRuntime()
//
//	gfxDone := rt.NewSemaphore()
//
//	rt.BeginFrame(0)
//	rt.Submit(rhi.NewSubmission(rhi.QueuePresent, "present").
//	    Wait(gfxDone, 1, rhi.StageTopOfPipe).
//	    AddTask("flip", func() { present() }))
//	rt.Submit(rhi.NewSubmission(rhi.QueueGraphics, "scene").
//	    Signal(gfxDone, 1, rhi.StageColorAttachmentOutput).
//	    AddTask("draw", func() { draw() }))
//	rt.ExecuteAll() // scene runs before present, despite submit order
//	rt.EndFrame()
//
// # Scheduling Model
//
// Four fixed queues (graphics, compute, transfer, present) hold pending
// submissions. ExecuteAll repeatedly executes every submission whose
// timeline waits are satisfied; when nothing can make progress and work
// remains, it force-executes the front of the first non-empty queue so the
// drain always terminates. Forced executions are counted in
// FrameStats.StalledSubmissions — a nonzero count is how dependency cycles
// surface. There are no errors on the scheduling path; unknown semaphores
// read as value 0 and unknown fences read as signaled.
//
// # Concurrency
//
// The frame driver (BeginFrame, Submit, ExecuteAll, EndFrame) is
// single-goroutine by contract. The only fan-out is within one submission:
// when parallel tasks are enabled, its tasks run on job-system workers and
// are joined before the runtime proceeds. The runtime's registries are
// therefore touched by exactly one goroutine and need no locks. Tasks
// dispatched in parallel must touch disjoint data, mirroring the hardware
// contract for independent command buffers.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Runtime, Submission, Task, SemaphoreOp, FrameStats
//   - jobs/: the JobSystem contract plus Pool (work-stealing) and Serial
//   - Device injection: DeviceHandle (gpucontext.DeviceProvider) for hosts
//     that drive a real device through the same frame loop
package rhi

// Library version.
const (
	// Version is the full semantic version string.
	Version = "0.1.0-alpha.1"

	// Numeric components of Version.
	VersionMajor = 0
	VersionMinor = 1
	VersionPatch = 0

	// VersionPrerelease is the prerelease tag, empty for releases.
	VersionPrerelease = "alpha.1"
)
