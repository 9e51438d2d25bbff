// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fenceWaitSlice is the granularity of a single fence wait. GPU work is
// allowed to take arbitrarily long, so callers loop over waits of this
// length instead of imposing a deadline.
const fenceWaitSlice = 5 * time.Second

// CreateBufferInit creates a GPU buffer and uploads data into it. The
// buffer is sized to the data, with a 4-byte floor so that zero-length
// uploads still produce a bindable buffer.
func (c *Context) CreateBufferInit(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	size := uint64(len(data))
	if size < 4 {
		size = 4
	}
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create %s buffer: %w", label, err)
	}
	if len(data) > 0 {
		c.queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

// SubmitAndWait submits the command buffer and blocks until the GPU has
// finished executing it. There is no overall deadline; waiting continues
// until the fence signals or the device reports an error.
func (c *Context) SubmitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	for {
		ok, err := c.device.Wait(fence, 1, fenceWaitSlice)
		if err != nil {
			return fmt.Errorf("gpu: wait for GPU: %w", err)
		}
		if ok {
			return nil
		}
		Logger().Debug("gpu: still waiting for submitted work")
	}
}

// Readback copies size bytes out of a GPU buffer into host memory. The
// source buffer needs CopySrc usage; a temporary staging buffer with
// MapRead|CopyDst carries the transfer.
func (c *Context) Readback(src hal.Buffer, size uint64) ([]byte, error) {
	staging, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "staging_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(staging)

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "readback",
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("readback"); err != nil {
		return nil, fmt.Errorf("gpu: begin readback encoding: %w", err)
	}
	encoder.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: end readback encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	if err := c.SubmitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	result := make([]byte, size)
	if err := c.queue.ReadBuffer(staging, 0, result); err != nil {
		return nil, fmt.Errorf("gpu: read staging buffer: %w", err)
	}
	return result, nil
}
