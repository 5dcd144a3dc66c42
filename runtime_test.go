// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

import (
	"sync"
	"testing"

	"github.com/gogpu/rhi/jobs"
)

func TestNewRuntime_Defaults(t *testing.T) {
	rt := NewRuntime()

	if rt.FramesInFlight() != DefaultFramesInFlight {
		t.Errorf("FramesInFlight() = %d, want %d", rt.FramesInFlight(), DefaultFramesInFlight)
	}
	if rt.JobSystem() != nil {
		t.Error("JobSystem() should be nil by default")
	}
	if rt.PendingSubmissions() != 0 {
		t.Errorf("PendingSubmissions() = %d, want 0", rt.PendingSubmissions())
	}
}

func TestConfigure_ClampsFramesInFlight(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero", 0, 1},
		{"negative", -3, 1},
		{"one", 1, 1},
		{"three", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRuntime(WithFramesInFlight(tt.in))
			if rt.FramesInFlight() != tt.want {
				t.Errorf("FramesInFlight() = %d, want %d", rt.FramesInFlight(), tt.want)
			}
		})
	}
}

func TestConfigure_DropsPending(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)
	rt.Submit(NewSubmission(QueueGraphics, "orphan").AddTask("t", func() {}))

	rt.Configure(3, false)

	if rt.PendingSubmissions() != 0 {
		t.Errorf("PendingSubmissions() = %d after Configure, want 0", rt.PendingSubmissions())
	}
	if rt.FramesInFlight() != 3 {
		t.Errorf("FramesInFlight() = %d, want 3", rt.FramesInFlight())
	}
}

func TestSubmit_PureEnqueue(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	ran := false
	rt.Submit(NewSubmission(QueueGraphics, "g").AddTask("t", func() { ran = true }))

	if ran {
		t.Error("Submit must not execute tasks")
	}
	if got := rt.Stats().Submissions; got != 1 {
		t.Errorf("Stats().Submissions = %d, want 1", got)
	}
	if rt.PendingSubmissions() != 1 {
		t.Errorf("PendingSubmissions() = %d, want 1", rt.PendingSubmissions())
	}
}

func TestSubmit_Nil(t *testing.T) {
	rt := NewRuntime()

	// Should not panic or count.
	rt.Submit(nil)

	if got := rt.Stats().Submissions; got != 0 {
		t.Errorf("Stats().Submissions = %d, want 0", got)
	}
}

func TestExecuteAll_OrderIndependence(t *testing.T) {
	// S1 signals X=1, S2 waits X>=1. Either submit order must produce the
	// same final state with no stalls.
	for _, tt := range []struct {
		name     string
		reversed bool
	}{
		{"dependency first", false},
		{"dependent first", true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRuntime()
			rt.BeginFrame(0)

			x := rt.NewSemaphore()
			var order []string
			s1 := NewSubmission(QueueGraphics, "s1").
				Signal(x, 1, StageBottomOfPipe).
				AddTask("t1", func() { order = append(order, "s1") })
			s2 := NewSubmission(QueueCompute, "s2").
				Wait(x, 1, StageTopOfPipe).
				AddTask("t2", func() { order = append(order, "s2") })

			if tt.reversed {
				rt.Submit(s2)
				rt.Submit(s1)
			} else {
				rt.Submit(s1)
				rt.Submit(s2)
			}
			rt.ExecuteAll()

			if got := rt.TimelineValue(x); got != 1 {
				t.Errorf("TimelineValue(x) = %d, want 1", got)
			}
			stats := rt.Stats()
			if stats.SubmissionsExecuted != 2 {
				t.Errorf("SubmissionsExecuted = %d, want 2", stats.SubmissionsExecuted)
			}
			if stats.StalledSubmissions != 0 {
				t.Errorf("StalledSubmissions = %d, want 0", stats.StalledSubmissions)
			}
			if len(order) != 2 || order[0] != "s1" || order[1] != "s2" {
				t.Errorf("execution order = %v, want [s1 s2]", order)
			}
		})
	}
}

func TestExecuteAll_DependencyChainAcrossQueues(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	gfx := rt.NewSemaphore()
	comp := rt.NewSemaphore()
	var order []string

	// Submit present -> compute -> graphics, reverse of dependency order.
	rt.Submit(NewSubmission(QueuePresent, "present").
		Wait(comp, 1, StageTopOfPipe).
		AddTask("flip", func() { order = append(order, "present") }))
	rt.Submit(NewSubmission(QueueCompute, "compute").
		Wait(gfx, 1, StageComputeShader).
		Signal(comp, 1, StageComputeShader).
		AddTask("post", func() { order = append(order, "compute") }))
	rt.Submit(NewSubmission(QueueGraphics, "graphics").
		Signal(gfx, 1, StageColorAttachmentOutput).
		AddTask("draw", func() { order = append(order, "graphics") }))

	rt.ExecuteAll()

	want := []string{"graphics", "compute", "present"}
	if len(order) != len(want) {
		t.Fatalf("executed %d submissions, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
	if got := rt.Stats().StalledSubmissions; got != 0 {
		t.Errorf("StalledSubmissions = %d, want 0", got)
	}
}

func TestExecuteAll_Monotonicity(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	x := rt.NewSemaphore()
	rt.Submit(NewSubmission(QueueGraphics, "high").Signal(x, 5, StageBottomOfPipe))
	rt.Submit(NewSubmission(QueueGraphics, "low").Signal(x, 3, StageBottomOfPipe))
	rt.ExecuteAll()

	// The later, smaller signal must not regress the timeline.
	if got := rt.TimelineValue(x); got != 5 {
		t.Errorf("TimelineValue(x) = %d, want 5", got)
	}
}

func TestExecuteAll_CycleLiveness(t *testing.T) {
	// Two submissions each waiting on a semaphore only the other signals.
	// The drain must still terminate, with at least one forced execution.
	rt := NewRuntime()
	rt.BeginFrame(0)

	a := rt.NewSemaphore()
	b := rt.NewSemaphore()
	executed := 0

	rt.Submit(NewSubmission(QueueGraphics, "needs-b").
		Wait(b, 1, StageTopOfPipe).
		Signal(a, 1, StageBottomOfPipe).
		AddTask("t", func() { executed++ }))
	rt.Submit(NewSubmission(QueueCompute, "needs-a").
		Wait(a, 1, StageTopOfPipe).
		Signal(b, 1, StageBottomOfPipe).
		AddTask("t", func() { executed++ }))

	rt.ExecuteAll()

	if executed != 2 {
		t.Errorf("executed = %d, want 2 (both submissions must drain)", executed)
	}
	stats := rt.Stats()
	if stats.StalledSubmissions < 1 {
		t.Errorf("StalledSubmissions = %d, want >= 1", stats.StalledSubmissions)
	}
	if stats.SubmissionsExecuted != 2 {
		t.Errorf("SubmissionsExecuted = %d, want 2", stats.SubmissionsExecuted)
	}
	if rt.PendingSubmissions() != 0 {
		t.Errorf("PendingSubmissions() = %d, want 0", rt.PendingSubmissions())
	}
}

func TestExecuteAll_UnsatisfiableWaitDrains(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	// Nothing ever signals this semaphore.
	x := rt.NewSemaphore()
	ran := false
	rt.Submit(NewSubmission(QueueTransfer, "stuck").
		Wait(x, 99, StageTransfer).
		AddTask("t", func() { ran = true }))

	rt.ExecuteAll()

	if !ran {
		t.Error("submission with unsatisfiable wait must still be force-executed")
	}
	if got := rt.Stats().StalledSubmissions; got != 1 {
		t.Errorf("StalledSubmissions = %d, want 1", got)
	}
}

func TestExecuteAll_StallPriorityOrder(t *testing.T) {
	// On a total stall the graphics queue drains first: its forced signal
	// can then satisfy the compute wait without a second stall.
	rt := NewRuntime()
	rt.BeginFrame(0)

	never := rt.NewSemaphore()
	gfx := rt.NewSemaphore()
	var order []string

	rt.Submit(NewSubmission(QueueCompute, "compute").
		Wait(gfx, 1, StageTopOfPipe).
		AddTask("t", func() { order = append(order, "compute") }))
	rt.Submit(NewSubmission(QueueGraphics, "graphics").
		Wait(never, 1, StageTopOfPipe).
		Signal(gfx, 1, StageBottomOfPipe).
		AddTask("t", func() { order = append(order, "graphics") }))

	rt.ExecuteAll()

	if len(order) != 2 || order[0] != "graphics" || order[1] != "compute" {
		t.Errorf("order = %v, want [graphics compute]", order)
	}
	if got := rt.Stats().StalledSubmissions; got != 1 {
		t.Errorf("StalledSubmissions = %d, want 1 (only graphics was forced)", got)
	}
}

func TestExecuteAll_Idempotent(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	x := rt.NewSemaphore()
	rt.Submit(NewSubmission(QueueGraphics, "g").
		Signal(x, 1, StageBottomOfPipe).
		AddTask("t", func() {}))
	rt.ExecuteAll()

	before := rt.Stats()
	rt.ExecuteAll()
	after := rt.Stats()

	if before != after {
		t.Errorf("second ExecuteAll changed stats: before=%+v after=%+v", before, after)
	}
}

func TestExecuteAll_TasksRunInListOrder(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	var order []int
	sub := NewSubmission(QueueGraphics, "ordered")
	for i := range 5 {
		sub.AddTask("t", func() { order = append(order, i) })
	}
	rt.Submit(sub)
	rt.ExecuteAll()

	for i, v := range order {
		if v != i {
			t.Fatalf("task order = %v, want ascending", order)
		}
	}
}

func TestExecuteAll_NilTaskSkipped(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	rt.Submit(NewSubmission(QueueGraphics, "g").AddTask("nil", nil))
	rt.ExecuteAll()

	if got := rt.Stats().SubmissionsExecuted; got != 1 {
		t.Errorf("SubmissionsExecuted = %d, want 1", got)
	}
}

func TestExecuteAll_FenceSignaledOnCompletion(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	fence := rt.NewFence(false)
	rt.Submit(NewSubmission(QueueGraphics, "g").
		SignalFence(fence).
		AddTask("t", func() {}))

	if rt.FenceSignaled(fence) {
		t.Fatal("fence signaled before ExecuteAll")
	}
	rt.ExecuteAll()
	if !rt.FenceSignaled(fence) {
		t.Error("fence not signaled after ExecuteAll")
	}
}

func TestExecuteAll_ParallelDispatch(t *testing.T) {
	pool := jobs.NewPool(4)
	defer pool.Close()

	rt := NewRuntime(WithJobSystem(pool), WithParallelTasks(true))
	rt.BeginFrame(0)

	var mu sync.Mutex
	ran := 0
	sub := NewSubmission(QueueGraphics, "fanout").Parallel()
	for range 3 {
		sub.AddTask("t", func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	rt.Submit(sub)
	rt.ExecuteAll()

	if ran != 3 {
		t.Errorf("ran = %d, want 3", ran)
	}
	stats := rt.Stats()
	if stats.TasksExecuted != 3 {
		t.Errorf("TasksExecuted = %d, want 3", stats.TasksExecuted)
	}
	if stats.TasksParallel != 3 {
		t.Errorf("TasksParallel = %d, want 3", stats.TasksParallel)
	}
	if stats.SubmissionsExecuted != 1 {
		t.Errorf("SubmissionsExecuted = %d, want 1", stats.SubmissionsExecuted)
	}
	if stats.StalledSubmissions != 0 {
		t.Errorf("StalledSubmissions = %d, want 0", stats.StalledSubmissions)
	}
}

func TestExecuteAll_ParallelRequiresEveryGate(t *testing.T) {
	pool := jobs.NewPool(2)
	defer pool.Close()

	tests := []struct {
		name         string
		opts         []Option
		subParallel  bool
		tasks        int
		wantParallel uint64
	}{
		{"all gates open", []Option{WithJobSystem(pool), WithParallelTasks(true)}, true, 3, 3},
		{"runtime disallows", []Option{WithJobSystem(pool)}, true, 3, 0},
		{"submission disallows", []Option{WithJobSystem(pool), WithParallelTasks(true)}, false, 3, 0},
		{"no job system", []Option{WithParallelTasks(true)}, true, 3, 0},
		{"single task", []Option{WithJobSystem(pool), WithParallelTasks(true)}, true, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRuntime(tt.opts...)
			rt.BeginFrame(0)

			var mu sync.Mutex
			ran := 0
			sub := NewSubmission(QueueGraphics, "s")
			if tt.subParallel {
				sub.Parallel()
			}
			for range tt.tasks {
				sub.AddTask("t", func() {
					mu.Lock()
					ran++
					mu.Unlock()
				})
			}
			rt.Submit(sub)
			rt.ExecuteAll()

			if ran != tt.tasks {
				t.Errorf("ran = %d, want %d", ran, tt.tasks)
			}
			stats := rt.Stats()
			if stats.TasksParallel != tt.wantParallel {
				t.Errorf("TasksParallel = %d, want %d", stats.TasksParallel, tt.wantParallel)
			}
			if stats.TasksExecuted != uint64(tt.tasks) {
				t.Errorf("TasksExecuted = %d, want %d", stats.TasksExecuted, tt.tasks)
			}
		})
	}
}

func TestBeginFrame_ResetsStatsAndDropsPending(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	ran := false
	rt.Submit(NewSubmission(QueueGraphics, "lost").AddTask("t", func() { ran = true }))

	// Next frame without ExecuteAll: the unflushed submission is dropped.
	rt.BeginFrame(1)

	if got := rt.Stats(); got != (FrameStats{}) {
		t.Errorf("Stats() = %+v after BeginFrame, want zero", got)
	}
	if rt.PendingSubmissions() != 0 {
		t.Errorf("PendingSubmissions() = %d, want 0", rt.PendingSubmissions())
	}

	rt.ExecuteAll()
	if ran {
		t.Error("dropped submission must not execute")
	}
}

func TestOutOfRangeQueueLandsOnGraphics(t *testing.T) {
	rt := NewRuntime()
	rt.BeginFrame(0)

	ran := false
	rt.Submit(NewSubmission(QueueClass(17), "weird").AddTask("t", func() { ran = true }))
	rt.ExecuteAll()

	if !ran {
		t.Error("submission with out-of-range queue class was lost")
	}
}
