// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

// Binary fences.
//
// A fence is a boolean completion flag, distinct from timeline semaphores:
// fences gate frame-slot reuse (frame-level retirement) while semaphores
// order individual submissions.

// NewFence allocates a fence in the given initial state.
func (r *Runtime) NewFence(signaled bool) FenceID {
	id := FenceID(r.allocID())
	r.fences[id] = signaled
	return id
}

// FenceSignaled reports whether the fence has been signaled.
//
// An unknown fence ID reads as signaled. This is the deliberate fail-open
// default: a frame slot or caller referencing a fence that was never created
// is never blocked forever. InvalidID means "no fence" and also reads as
// signaled.
func (r *Runtime) FenceSignaled(fence FenceID) bool {
	if v, ok := r.fences[fence]; ok {
		return v
	}
	return true
}

// signalFence marks a fence signaled. Signaling InvalidID is a no-op.
func (r *Runtime) signalFence(fence FenceID) {
	if fence != InvalidID {
		r.fences[fence] = true
	}
}
