// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package rhi

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The runtime emulates submission scheduling on the CPU and never records
// or submits real GPU work, but hosts that drive an actual device through
// the same frame loop can attach their device here (WithDevice) and reach
// it from anywhere the runtime is available.
//
// Key principle: rhi RECEIVES the device from the host, it does NOT create
// one. DeviceHandle is an alias for gpucontext.DeviceProvider, so any
// GoGPU-ecosystem host (e.g. gogpu.App) satisfies it directly.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no device behind it.
// It is what Runtime.Device returns when the host attached nothing,
// keeping the accessor nil-safe for pure CPU-side use.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo returns the zero AdapterInfo, meaning "unknown adapter".
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{}
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// Device returns the host-supplied device handle, or NullDeviceHandle if
// none was attached.
func (r *Runtime) Device() DeviceHandle {
	if r.device == nil {
		return NullDeviceHandle{}
	}
	return r.device
}
