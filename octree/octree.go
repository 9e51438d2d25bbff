// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package octree

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/pointcloud/containers"
	"github.com/gogpu/pointcloud/internal/gpu"
	"github.com/gogpu/pointcloud/layout"
	"github.com/gogpu/pointcloud/math/md3"
)

// maxTreeDepth caps subdivision. Coincident points always fall into the
// same octant, so the leaf threshold alone cannot terminate the build on
// degenerate input; a node at the cap stays a leaf regardless of its
// point count. 32 halvings shrink any extent below one part in 4e9 of
// the root, far past useful spatial resolution.
const maxTreeDepth = 32

// Octree errors.
var (
	// ErrGPUUnavailable is returned by New when no compatible GPU
	// adapter or device can be acquired.
	ErrGPUUnavailable = errors.New("octree: no compatible GPU device")

	// ErrGPUSubmission is returned by Construct when a GPU submission or
	// readback fails mid-build. The partially built tree is discarded;
	// there is no retry.
	ErrGPUSubmission = errors.New("octree: GPU submission failed")

	// ErrNoPositions is returned when the point buffer's layout has no
	// Position3D attribute, or its stored datatype cannot be converted
	// to f64 positions.
	ErrNoPositions = errors.New("octree: buffer has no usable Position3D attribute")
)

// Octree is a breadth-first GPU-built octree over a point buffer. The
// GPU device, queue and compiled pipeline live on the handle; create it
// with New, build with Construct and release with Close.
//
// The tree does not copy any point data. Each node refers to a
// contiguous slice of an index permutation over the buffer, obtainable
// through PointsIn.
type Octree struct {
	buffer        containers.BorrowedBuffer
	bounds        md3.Box
	pointsPerNode uint32

	positions         []md3.Vec
	pointPartitioning []uint32
	root              *Node

	ctx  *gpu.Context
	part partitioner
}

// New creates an octree builder for the given buffer. bounds is the
// root bounding box and must contain all positions; points outside fall
// into the nearest octant, which is undefined behaviour. Pass bounds
// obtained from algorithms.CalculateBounds. pointsPerNode is the leaf
// threshold: nodes with at most that many points are not subdivided.
//
// New acquires the GPU device and compiles the partition pipeline;
// GpuUnavailable conditions surface here, not during Construct.
func New(buffer containers.BorrowedBuffer, bounds md3.Box, pointsPerNode uint32, opts ...Option) (*Octree, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	positions, err := collectPositions(buffer)
	if err != nil {
		return nil, err
	}

	ctx, err := gpu.NewContext(cfg.adapter.powerPreference())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}
	part, err := newGPUPartitioner(ctx, rawPositionBytes(positions), len(positions), cfg.debugCapture)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: %v", ErrGPUUnavailable, err)
	}

	gpu.Logger().Info("octree: builder ready",
		"points", len(positions),
		"points_per_node", pointsPerNode,
		"adapter", ctx.AdapterName)

	return &Octree{
		buffer:        buffer,
		bounds:        bounds,
		pointsPerNode: pointsPerNode,
		positions:     positions,
		ctx:           ctx,
		part:          part,
	}, nil
}

// Build is a convenience wrapper: New followed by Construct. The caller
// still owns the returned handle and must Close it.
func Build(buffer containers.BorrowedBuffer, bounds md3.Box, pointsPerNode uint32, opts ...Option) (*Octree, error) {
	o, err := New(buffer, bounds, pointsPerNode, opts...)
	if err != nil {
		return nil, err
	}
	if err := o.Construct(); err != nil {
		o.Close()
		return nil, err
	}
	return o, nil
}

// Construct builds the tree level by level. Within a level every active
// node is partitioned by one GPU dispatch; levels are strictly
// sequential. An empty buffer yields a tree whose root is a single
// empty leaf.
func (o *Octree) Construct() error {
	return o.construct(o.part)
}

// construct is the level driver, independent of where the partitioning
// runs. The host never mutates the permutation or the node arrays while
// a level is in flight; all mutation happens inside PartitionLevel.
func (o *Octree) construct(part partitioner) error {
	n := len(o.positions)
	o.pointPartitioning = make([]uint32, n)
	for i := range o.pointPartitioning {
		o.pointPartitioning[i] = uint32(i)
	}

	root := &Node{bounds: o.bounds, pointEnd: uint32(n)}
	root.nodePartitioning[0] = uint32(n)
	root.pointsPerPartition[0] = uint32(n)
	o.root = nil

	current := []*Node{}
	if !root.isLeafFor(o.pointsPerNode) {
		current = append(current, root)
	}

	level := 0
	for len(current) > 0 {
		children, err := part.PartitionLevel(current, o.pointPartitioning)
		if err != nil {
			return fmt.Errorf("%w: level %d: %v", ErrGPUSubmission, level, err)
		}

		var next []*Node
		for i, parent := range current {
			kids := new([8]Node)
			copy(kids[:], children[i*8:(i+1)*8])
			parent.children = kids
			if level+1 >= maxTreeDepth {
				continue
			}
			for k := range kids {
				child := &kids[k]
				if !child.isEmpty() && !child.isLeafFor(o.pointsPerNode) {
					next = append(next, child)
				}
			}
		}

		gpu.Logger().Debug("octree: level complete",
			"level", level,
			"nodes", len(current),
			"next", len(next))
		current = next
		level++
	}

	o.root = root
	return nil
}

// Root returns the root node of the constructed tree, or nil before a
// successful Construct.
func (o *Octree) Root() *Node { return o.root }

// PointsIn returns the indices of the points inside the given node, as a
// slice of the build's index permutation. The slice aliases the
// permutation; it stays valid until the octree is rebuilt.
func (o *Octree) PointsIn(node *Node) []uint32 {
	return o.pointPartitioning[node.pointStart:node.pointEnd]
}

// Close releases the GPU resources held by the handle. The tree itself
// (nodes and permutation) remains readable.
func (o *Octree) Close() {
	if o.part != nil {
		o.part.Close()
		o.part = nil
	}
	if o.ctx != nil {
		o.ctx.Close()
		o.ctx = nil
	}
}

// collectPositions reads the Position3D attribute of every point into
// host vectors, converting from the stored datatype when it is not the
// default vec3 of f64.
func collectPositions(buffer containers.BorrowedBuffer) ([]md3.Vec, error) {
	member := buffer.PointLayout().GetAttributeByName(layout.Position3D.Name())
	if member == nil {
		return nil, ErrNoPositions
	}
	positions := make([]md3.Vec, 0, buffer.Len())
	if member.Datatype() == layout.Position3D.Datatype() {
		view := containers.ViewAttribute[md3.Vec](buffer, layout.Position3D)
		for pos := range view.Values() {
			positions = append(positions, pos)
		}
		return positions, nil
	}
	view, err := containers.ViewAttributeWithConversion[md3.Vec](buffer, layout.Position3D)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPositions, err)
	}
	for pos := range view.Values() {
		positions = append(positions, pos)
	}
	return positions, nil
}

// rawPositionBytes serializes positions as consecutive little-endian
// f64 triples, 24 bytes per point, the layout the shader reads.
func rawPositionBytes(positions []md3.Vec) []byte {
	raw := make([]byte, len(positions)*24)
	le := binary.LittleEndian
	for i, pos := range positions {
		le.PutUint64(raw[i*24:], math.Float64bits(pos.X))
		le.PutUint64(raw[i*24+8:], math.Float64bits(pos.Y))
		le.PutUint64(raw[i*24+16:], math.Float64bits(pos.Z))
	}
	return raw
}
