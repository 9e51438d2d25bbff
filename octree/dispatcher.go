// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package octree

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/pointcloud/internal/gpu"
)

//go:embed shaders/partition_nodes.wgsl
var partitionShaderSource string

// debugBufferSize is the wire size of the shader's debug trace:
// 3 midpoint words, 8 partition borders, thread id, start and end.
const debugBufferSize = 14 * 4

// gpuPartitioner runs the partition shader on a wgpu device. The
// positions buffer is uploaded once and stays resident for the whole
// build; the index permutation is uploaded at the start of every level
// and downloaded after the dispatch. Node buffers are per-level scratch.
type gpuPartitioner struct {
	ctx *gpu.Context

	module         hal.ShaderModule
	nodesLayout    hal.BindGroupLayout
	pointsLayout   hal.BindGroupLayout
	pipelineLayout hal.PipelineLayout
	pipeline       hal.ComputePipeline

	positionsBuf hal.Buffer
	indicesBuf   hal.Buffer
	debugBuf     hal.Buffer

	numPoints    int
	debugCapture bool
}

// newGPUPartitioner compiles the partition shader, builds the pipeline
// and uploads the position data. rawPositions holds numPoints * 24
// bytes of little-endian f64 triples.
func newGPUPartitioner(ctx *gpu.Context, rawPositions []byte, numPoints int, debugCapture bool) (*gpuPartitioner, error) {
	p := &gpuPartitioner{ctx: ctx, numPoints: numPoints, debugCapture: debugCapture}
	if err := p.initPipeline(); err != nil {
		p.Close()
		return nil, err
	}
	if err := p.initBuffers(rawPositions); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func (p *gpuPartitioner) initPipeline() error {
	device := p.ctx.Device()

	module, err := p.ctx.CreateShaderModule("octree_partition", partitionShaderSource)
	if err != nil {
		return err
	}
	p.module = module

	storage := func(binding uint32, readOnly bool) gputypes.BindGroupLayoutEntry {
		bindingType := gputypes.BufferBindingTypeStorage
		if readOnly {
			bindingType = gputypes.BufferBindingTypeReadOnlyStorage
		}
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: bindingType},
		}
	}

	// Group 0: parent nodes (r/w), child nodes (written by the shader).
	nodesLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "octree_nodes_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{storage(0, false), storage(1, false)},
	})
	if err != nil {
		return fmt.Errorf("octree: create node bind group layout: %w", err)
	}
	p.nodesLayout = nodesLayout

	// Group 1: positions (read only), index permutation, debug trace.
	pointsLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "octree_points_bgl",
		Entries: []gputypes.BindGroupLayoutEntry{storage(0, true), storage(1, false), storage(2, false)},
	})
	if err != nil {
		return fmt.Errorf("octree: create point bind group layout: %w", err)
	}
	p.pointsLayout = pointsLayout

	pipelineLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "octree_partition_pl",
		BindGroupLayouts: []hal.BindGroupLayout{nodesLayout, pointsLayout},
	})
	if err != nil {
		return fmt.Errorf("octree: create pipeline layout: %w", err)
	}
	p.pipelineLayout = pipelineLayout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "octree_partition",
		Layout: pipelineLayout,
		Compute: hal.ComputeState{
			Module:     module,
			EntryPoint: "main",
		},
	})
	if err != nil {
		return fmt.Errorf("octree: create compute pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

func (p *gpuPartitioner) initBuffers(rawPositions []byte) error {
	positionsBuf, err := p.ctx.CreateBufferInit("octree_positions", rawPositions, gputypes.BufferUsageStorage)
	if err != nil {
		return err
	}
	p.positionsBuf = positionsBuf

	// The index buffer holds the permutation in its first half and
	// per-thread scratch for the stable rewrite in its second half.
	indicesBuf, err := p.ctx.CreateBufferInit("octree_indices",
		make([]byte, 2*p.numPoints*4),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	p.indicesBuf = indicesBuf

	debugBuf, err := p.ctx.CreateBufferInit("octree_debug",
		make([]byte, debugBufferSize),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return err
	}
	p.debugBuf = debugBuf
	return nil
}

// PartitionLevel uploads the parents and the permutation, dispatches one
// thread per parent, and downloads the mutated permutation, the parents'
// partitioning arrays and the child array.
func (p *gpuPartitioner) PartitionLevel(parents []*Node, perm []uint32) ([]Node, error) {
	device := p.ctx.Device()
	queue := p.ctx.Queue()
	numParents := len(parents)

	permBytes := make([]byte, len(perm)*4)
	for i, id := range perm {
		binary.LittleEndian.PutUint32(permBytes[i*4:], id)
	}
	queue.WriteBuffer(p.indicesBuf, 0, permBytes)

	parentRaw := make([]byte, numParents*rawNodeSize)
	for i, node := range parents {
		node.intoRaw(parentRaw[i*rawNodeSize:])
	}
	parentBuf, err := p.ctx.CreateBufferInit("octree_parent_nodes", parentRaw,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	if err != nil {
		return nil, err
	}
	defer device.DestroyBuffer(parentBuf)

	childSize := uint64(numParents * 8 * rawNodeSize)
	childBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "octree_child_nodes",
		Size:  childSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("octree: create child buffer: %w", err)
	}
	defer device.DestroyBuffer(childBuf)

	bufferEntry := func(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
		return gputypes.BindGroupEntry{
			Binding:  binding,
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle()},
		}
	}
	nodesBG, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:   "octree_nodes_bg",
		Layout:  p.nodesLayout,
		Entries: []gputypes.BindGroupEntry{bufferEntry(0, parentBuf), bufferEntry(1, childBuf)},
	})
	if err != nil {
		return nil, fmt.Errorf("octree: create node bind group: %w", err)
	}
	defer device.DestroyBindGroup(nodesBG)

	pointsBG, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "octree_points_bg",
		Layout: p.pointsLayout,
		Entries: []gputypes.BindGroupEntry{
			bufferEntry(0, p.positionsBuf),
			bufferEntry(1, p.indicesBuf),
			bufferEntry(2, p.debugBuf),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("octree: create point bind group: %w", err)
	}
	defer device.DestroyBindGroup(pointsBG)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "octree_partition",
	})
	if err != nil {
		return nil, fmt.Errorf("octree: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("octree_partition"); err != nil {
		return nil, fmt.Errorf("octree: begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "octree_partition"})
	pass.SetPipeline(p.pipeline)
	pass.SetBindGroup(0, nodesBG, nil)
	pass.SetBindGroup(1, pointsBG, nil)
	pass.Dispatch(uint32(numParents), 1, 1)
	pass.End()
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("octree: end encoding: %w", err)
	}
	defer device.FreeCommandBuffer(cmdBuf)

	if err := p.ctx.SubmitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	// Download the mutated permutation (first half of the buffer only).
	indexBytes, err := p.ctx.Readback(p.indicesBuf, uint64(p.numPoints*4))
	if err != nil {
		return nil, err
	}
	for i := range perm {
		perm[i] = binary.LittleEndian.Uint32(indexBytes[i*4:])
	}

	// Download the parents: the shader filled in their partitioning.
	parentBytes, err := p.ctx.Readback(parentBuf, uint64(numParents*rawNodeSize))
	if err != nil {
		return nil, err
	}
	for i, node := range parents {
		raw := nodeFromRaw(parentBytes[i*rawNodeSize:])
		node.nodePartitioning = raw.nodePartitioning
		node.pointsPerPartition = raw.pointsPerPartition
	}

	childBytes, err := p.ctx.Readback(childBuf, childSize)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, numParents*8)
	for i := range nodes {
		nodes[i] = nodeFromRaw(childBytes[i*rawNodeSize:])
	}

	if p.debugCapture {
		p.logDebugTrace()
	}
	return nodes, nil
}

// logDebugTrace downloads the shader debug buffer and logs it. The
// trace reflects thread 0 of the last dispatch only.
func (p *gpuPartitioner) logDebugTrace() {
	raw, err := p.ctx.Readback(p.debugBuf, debugBufferSize)
	if err != nil {
		gpu.Logger().Warn("octree: debug buffer readback failed", "error", err)
		return
	}
	words := make([]uint32, debugBufferSize/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	gpu.Logger().Debug("octree: partition trace",
		"midpoint_hi", words[0:3],
		"borders", words[3:11],
		"thread", words[11],
		"range", words[12:14])
}

// Close releases every GPU resource owned by the partitioner.
func (p *gpuPartitioner) Close() {
	device := p.ctx.Device()
	if p.debugBuf != nil {
		device.DestroyBuffer(p.debugBuf)
		p.debugBuf = nil
	}
	if p.indicesBuf != nil {
		device.DestroyBuffer(p.indicesBuf)
		p.indicesBuf = nil
	}
	if p.positionsBuf != nil {
		device.DestroyBuffer(p.positionsBuf)
		p.positionsBuf = nil
	}
	if p.pipeline != nil {
		device.DestroyComputePipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipelineLayout != nil {
		device.DestroyPipelineLayout(p.pipelineLayout)
		p.pipelineLayout = nil
	}
	if p.pointsLayout != nil {
		device.DestroyBindGroupLayout(p.pointsLayout)
		p.pointsLayout = nil
	}
	if p.nodesLayout != nil {
		device.DestroyBindGroupLayout(p.nodesLayout)
		p.nodesLayout = nil
	}
	if p.module != nil {
		device.DestroyShaderModule(p.module)
		p.module = nil
	}
}
