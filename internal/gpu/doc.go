// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu provides the device harness shared by the GPU-accelerated
// parts of the point-cloud toolkit: instance/adapter/device/queue
// bring-up over gogpu/wgpu, WGSL shader compilation through naga, and
// buffer upload/readback helpers.
package gpu
