// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package octree

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/pointcloud/containers"
	"github.com/gogpu/pointcloud/internal/gpu"
	"github.com/gogpu/pointcloud/layout"
	"github.com/gogpu/pointcloud/math/md3"
)

// createNoopDevice creates a noop device and queue for testing.
// Returns the device, queue, and a cleanup function.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// The partition shader must compile through naga and wire up into a
// pipeline with the two bind group layouts of the contract. The noop
// backend accepts resource creation without a physical GPU.
func TestPartitionPipelineWiring(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	ctx := gpu.NewContextFrom(device, queue)
	positions := []md3.Vec{{X: 1}, {Y: 2}, {Z: 3}}
	p, err := newGPUPartitioner(ctx, rawPositionBytes(positions), len(positions), false)
	if err != nil {
		t.Fatalf("newGPUPartitioner failed: %v", err)
	}
	defer p.Close()

	if p.pipeline == nil {
		t.Error("compute pipeline not created")
	}
	if p.nodesLayout == nil || p.pointsLayout == nil {
		t.Error("bind group layouts not created")
	}
	if p.positionsBuf == nil || p.indicesBuf == nil || p.debugBuf == nil {
		t.Error("resident buffers not created")
	}
}

func TestPartitionShaderCompiles(t *testing.T) {
	words, err := gpu.CompileWGSL(partitionShaderSource)
	if err != nil {
		t.Fatalf("shader does not compile: %v", err)
	}
	if len(words) == 0 {
		t.Fatal("empty SPIR-V output")
	}
	// SPIR-V magic number, after naga's WGSL front end and SPIR-V back
	// end have validated the module.
	if words[0] != 0x07230203 {
		t.Fatalf("SPIR-V magic = %#x", words[0])
	}
}

// positionBuffer builds an interleaved buffer holding only positions.
func positionBuffer(t *testing.T, positions []md3.Vec) *containers.VectorBuffer {
	t.Helper()
	type positionPoint struct {
		Position md3.Vec `point:"Position3D"`
	}
	buffer := containers.NewVectorBufferWithCapacity(layout.Of[positionPoint](), len(positions))
	for _, pos := range positions {
		containers.Push(buffer, positionPoint{Position: pos})
	}
	return buffer
}

// buildOnGPU builds an octree on the real GPU, skipping the test when no
// adapter is available.
func buildOnGPU(t *testing.T, positions []md3.Vec, bounds md3.Box, pointsPerNode uint32) *Octree {
	t.Helper()
	o, err := Build(positionBuffer(t, positions), bounds, pointsPerNode)
	if err != nil {
		if errors.Is(err, ErrGPUUnavailable) {
			t.Skipf("no GPU available: %v", err)
		}
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(o.Close)
	return o
}

func TestGPUBuildEmpty(t *testing.T) {
	o := buildOnGPU(t, nil, md3.NewBox(-1, -1, -1, 1, 1, 1), 8)
	if !o.Root().IsLeaf() || len(o.PointsIn(o.Root())) != 0 {
		t.Fatal("empty build must produce a single empty leaf")
	}
}

func TestGPUBuildUnitCubeCorners(t *testing.T) {
	positions := make([]md3.Vec, 8)
	for k := 0; k < 8; k++ {
		positions[k] = md3.Vec{
			X: float64(k & 1),
			Y: float64(k >> 1 & 1),
			Z: float64(k >> 2 & 1),
		}
	}
	o := buildOnGPU(t, positions, md3.NewBox(0, 0, 0, 1, 1, 1), 1)
	checkTreeInvariants(t, o, positions, 1)

	kids := o.Root().Children()
	if kids == nil {
		t.Fatal("root must subdivide")
	}
	for k := range kids {
		got := o.PointsIn(&kids[k])
		if len(got) != 1 || int(got[0]) != k {
			t.Fatalf("child %d holds %v, want [%d]", k, got, k)
		}
	}
}

// The GPU build must agree with the host reference partitioner bit for
// bit: same permutation, same tree shape, same node ranges.
func TestGPUMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(77))
	positions := make([]md3.Vec, 500)
	for i := range positions {
		positions[i] = md3.Vec{
			X: rng.Float64()*64 - 32,
			Y: rng.Float64()*64 - 32,
			Z: rng.Float64()*64 - 32,
		}
	}
	bounds := md3.NewBox(-32, -32, -32, 32, 32, 32)

	gpuTree := buildOnGPU(t, positions, bounds, 16)
	checkTreeInvariants(t, gpuTree, positions, 16)

	refTree := buildWithReference(t, positions, bounds, 16)

	if len(gpuTree.pointPartitioning) != len(refTree.pointPartitioning) {
		t.Fatal("permutation lengths differ")
	}
	for i := range gpuTree.pointPartitioning {
		if gpuTree.pointPartitioning[i] != refTree.pointPartitioning[i] {
			t.Fatalf("permutation differs at %d: gpu %d, reference %d",
				i, gpuTree.pointPartitioning[i], refTree.pointPartitioning[i])
		}
	}

	var compare func(a, b *Node)
	compare = func(a, b *Node) {
		if a.bounds != b.bounds {
			t.Fatalf("bounds differ: gpu %+v, reference %+v", a.bounds, b.bounds)
		}
		if a.pointStart != b.pointStart || a.pointEnd != b.pointEnd {
			t.Fatalf("ranges differ: gpu [%d,%d), reference [%d,%d)",
				a.pointStart, a.pointEnd, b.pointStart, b.pointEnd)
		}
		if a.IsLeaf() != b.IsLeaf() {
			t.Fatal("tree shapes differ")
		}
		if a.IsLeaf() {
			return
		}
		for k := 0; k < 8; k++ {
			compare(&a.Children()[k], &b.Children()[k])
		}
	}
	compare(gpuTree.Root(), refTree.Root())
}

func TestGPUBuildWithDebugCapture(t *testing.T) {
	positions := []md3.Vec{
		{X: 0.25, Y: 0.25, Z: 0.25},
		{X: 0.75, Y: 0.75, Z: 0.75},
	}
	o, err := Build(positionBuffer(t, positions), md3.NewBox(0, 0, 0, 1, 1, 1), 1,
		WithDebugCapture())
	if err != nil {
		if errors.Is(err, ErrGPUUnavailable) {
			t.Skipf("no GPU available: %v", err)
		}
		t.Fatalf("Build failed: %v", err)
	}
	defer o.Close()
	checkTreeInvariants(t, o, positions, 1)
}
