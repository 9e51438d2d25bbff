// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package octree

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/pointcloud/math/md3"
)

// rawNodeSize is the exact wire size of one node in the host<->GPU node
// buffers: 48 bytes of bounds, two 8-lane u32 arrays, and the index
// range. All fields little-endian.
const rawNodeSize = 120

// Node is one octree node. A node owns the contiguous slice
// [start, end) of the build's index permutation (see PointRange); the indices
// in that slice are exactly the points inside the node's bounds.
type Node struct {
	bounds   md3.Box
	children *[8]Node

	// nodePartitioning holds the cumulative end offsets of the eight
	// octant ranges, relative to pointStart. pointsPerPartition holds
	// the per-octant point counts. Both are filled by the partition
	// shader when the node is processed.
	nodePartitioning   [8]uint32
	pointsPerPartition [8]uint32

	pointStart uint32
	pointEnd   uint32
}

// Bounds returns the node's axis-aligned bounding box.
func (n *Node) Bounds() md3.Box { return n.bounds }

// Children returns the node's eight children in canonical octant order,
// or nil if the node is a leaf.
func (n *Node) Children() *[8]Node { return n.children }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.children == nil }

// PointRange returns the node's slice bounds into the index permutation.
func (n *Node) PointRange() (start, end uint32) { return n.pointStart, n.pointEnd }

// NumPoints returns the number of points inside the node.
func (n *Node) NumPoints() uint32 { return n.pointEnd - n.pointStart }

// isEmpty reports whether the node contains no points. Empty nodes are
// terminal leaves.
func (n *Node) isEmpty() bool { return n.pointEnd == n.pointStart }

// isLeafFor reports whether the node is at or below the leaf threshold.
func (n *Node) isLeafFor(pointsPerNode uint32) bool {
	return n.NumPoints() <= pointsPerNode
}

// intoRaw serializes the node into its 120-byte wire representation.
// dst must hold at least rawNodeSize bytes. The children pointer is a
// host-only concern and has no wire representation.
func (n *Node) intoRaw(dst []byte) {
	le := binary.LittleEndian
	le.PutUint64(dst[0:], math.Float64bits(n.bounds.Min.X))
	le.PutUint64(dst[8:], math.Float64bits(n.bounds.Min.Y))
	le.PutUint64(dst[16:], math.Float64bits(n.bounds.Min.Z))
	le.PutUint64(dst[24:], math.Float64bits(n.bounds.Max.X))
	le.PutUint64(dst[32:], math.Float64bits(n.bounds.Max.Y))
	le.PutUint64(dst[40:], math.Float64bits(n.bounds.Max.Z))
	for k := 0; k < 8; k++ {
		le.PutUint32(dst[48+k*4:], n.nodePartitioning[k])
		le.PutUint32(dst[80+k*4:], n.pointsPerPartition[k])
	}
	le.PutUint32(dst[112:], n.pointStart)
	le.PutUint32(dst[116:], n.pointEnd)
}

// nodeFromRaw deserializes a node from its 120-byte wire representation.
// The returned node has no children.
func nodeFromRaw(src []byte) Node {
	le := binary.LittleEndian
	var n Node
	n.bounds.Min.X = math.Float64frombits(le.Uint64(src[0:]))
	n.bounds.Min.Y = math.Float64frombits(le.Uint64(src[8:]))
	n.bounds.Min.Z = math.Float64frombits(le.Uint64(src[16:]))
	n.bounds.Max.X = math.Float64frombits(le.Uint64(src[24:]))
	n.bounds.Max.Y = math.Float64frombits(le.Uint64(src[32:]))
	n.bounds.Max.Z = math.Float64frombits(le.Uint64(src[40:]))
	for k := 0; k < 8; k++ {
		n.nodePartitioning[k] = le.Uint32(src[48+k*4:])
		n.pointsPerPartition[k] = le.Uint32(src[80+k*4:])
	}
	n.pointStart = le.Uint32(src[112:])
	n.pointEnd = le.Uint32(src[116:])
	return n
}
