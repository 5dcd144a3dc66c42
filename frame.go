// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

// frameSlot tracks one entry of the frames-in-flight ring.
//
// Exactly framesInFlight slots exist, indexed by frame % framesInFlight.
// Invariant: before a slot is reused for a new frame, the previous
// occupant's retirement fence must be signaled. BeginFrame enforces this by
// draining the job system and force-signaling the fence, which bounds the
// number of simultaneously in-flight frames.
type frameSlot struct {
	// frame is the index of the frame that last occupied this slot.
	frame uint64

	// fence gates reuse of the slot. Assigned at EndFrame, InvalidID until
	// then.
	fence FenceID

	// inFlight is set by EndFrame and cleared when the slot is reacquired.
	inFlight bool
}

// newFrameSlots returns a fresh ring of n slots with no bookkeeping.
func newFrameSlots(n int) []frameSlot {
	return make([]frameSlot, n)
}

// FramesInFlight returns the size of the frame-slot ring.
func (r *Runtime) FramesInFlight() int {
	return len(r.slots)
}
