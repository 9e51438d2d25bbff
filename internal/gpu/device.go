// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Device errors.
var (
	// ErrNoBackend is returned when the Vulkan backend is not compiled in.
	ErrNoBackend = errors.New("gpu: vulkan backend not available")

	// ErrNoAdapter is returned when neither a discrete nor an integrated
	// GPU adapter is available. Adapter fallback is disabled: a software
	// rasterizer is never selected.
	ErrNoAdapter = errors.New("gpu: no compatible GPU adapter found")
)

// Context owns the GPU resources shared by one consumer: instance,
// device and queue. Contexts are not safe for concurrent submission;
// each consumer creates its own.
type Context struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	// AdapterName is the human-readable name of the selected adapter.
	AdapterName string
}

// NewContext creates a standalone compute context on the adapter that
// best matches the given power preference. HighPerformance prefers a
// discrete GPU over an integrated one; LowPower prefers integrated over
// discrete. CPU (fallback) adapters are never selected.
func NewContext(power gputypes.PowerPreference) (*Context, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoBackend
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	selected := selectAdapter(adapters, power)
	if selected == nil {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}

	Logger().Info("gpu: context initialized",
		"adapter", selected.Info.Name,
		"type", selected.Info.DeviceType)

	return &Context{
		instance:    instance,
		device:      openDev.Device,
		queue:       openDev.Queue,
		AdapterName: selected.Info.Name,
	}, nil
}

// NewContextFrom wraps an externally owned device and queue, e.g. the
// noop backend in tests. Close will not destroy them.
func NewContextFrom(device hal.Device, queue hal.Queue) *Context {
	return &Context{device: device, queue: queue}
}

// selectAdapter picks the adapter matching the power preference.
// Software adapters are skipped entirely.
func selectAdapter(adapters []hal.ExposedAdapter, power gputypes.PowerPreference) *hal.ExposedAdapter {
	preferred := gputypes.DeviceTypeDiscreteGPU
	secondary := gputypes.DeviceTypeIntegratedGPU
	if power == gputypes.PowerPreferenceLowPower {
		preferred, secondary = secondary, preferred
	}
	var fallback *hal.ExposedAdapter
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case preferred:
			return &adapters[i]
		case secondary:
			if fallback == nil {
				fallback = &adapters[i]
			}
		}
	}
	return fallback
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Close releases the context's GPU resources in reverse order of
// creation. Externally owned devices (NewContextFrom) are left alone.
func (c *Context) Close() {
	if c.instance != nil {
		if c.device != nil {
			c.device.Destroy()
		}
		c.instance.Destroy()
		c.instance = nil
	}
	c.device = nil
	c.queue = nil
}
