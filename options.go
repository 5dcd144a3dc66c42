// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

import "github.com/gogpu/rhi/jobs"

// Option configures a Runtime during creation.
// Use functional options to customize Runtime behavior.
//
// Example:
//
//	// Default: 2 frames in flight, serial task execution
//	rt := rhi.NewRuntime()
//
//	// Parallel task dispatch on a shared worker pool (dependency injection)
//	rt := rhi.NewRuntime(
//	    rhi.WithJobSystem(pool),
//	    rhi.WithParallelTasks(true),
//	)
type Option func(*runtimeOptions)

// runtimeOptions holds optional configuration for Runtime creation.
type runtimeOptions struct {
	framesInFlight int
	parallelTasks  bool
	js             jobs.JobSystem
	device         DeviceHandle
}

// defaultRuntimeOptions returns the default runtime options.
func defaultRuntimeOptions() runtimeOptions {
	return runtimeOptions{
		framesInFlight: DefaultFramesInFlight,
	}
}

// DefaultFramesInFlight is the default frame-slot ring size.
const DefaultFramesInFlight = 2

// WithFramesInFlight sets the number of frames that may be in flight
// simultaneously. Values below 1 are clamped to 1.
func WithFramesInFlight(n int) Option {
	return func(o *runtimeOptions) {
		o.framesInFlight = n
	}
}

// WithParallelTasks enables parallel task dispatch for submissions that
// request it. Without a job system (see WithJobSystem) tasks still run
// serially on the calling goroutine.
func WithParallelTasks(enabled bool) Option {
	return func(o *runtimeOptions) {
		o.parallelTasks = enabled
	}
}

// WithJobSystem attaches a host-supplied job system for parallel task
// dispatch. The runtime never spawns goroutines itself; all fan-out goes
// through the job system.
//
// Example:
//
//	pool := jobs.NewPool(0) // GOMAXPROCS workers
//	defer pool.Close()
//	rt := rhi.NewRuntime(rhi.WithJobSystem(pool), rhi.WithParallelTasks(true))
func WithJobSystem(js jobs.JobSystem) Option {
	return func(o *runtimeOptions) {
		o.js = js
	}
}

// WithDevice attaches a host-supplied GPU device handle.
// The emulation never talks to the device; the handle is carried so hosts
// that drive a real device through the same frame loop can reach it from the
// runtime (see Runtime.Device).
func WithDevice(h DeviceHandle) Option {
	return func(o *runtimeOptions) {
		o.device = h
	}
}
