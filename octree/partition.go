// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package octree

import "github.com/gogpu/pointcloud/math/md3"

// partitioner runs one breadth-first level of the build: it partitions
// the permutation slice of every parent node into octants and produces
// the eight children of each parent, in canonical octant order.
//
// The GPU implementation lives in dispatcher.go. cpuPartitioner below is
// the host reference that the WGSL shader mirrors; the two must place
// every point in the same octant bit for bit.
type partitioner interface {
	// PartitionLevel partitions the slices of the given parents inside
	// perm and returns their children, 8 per parent, in parent order.
	// The parents' partitioning arrays are updated in place.
	PartitionLevel(parents []*Node, perm []uint32) ([]Node, error)
	// Close releases the partitioner's resources.
	Close()
}

// midpoint returns the split point of a parent interval. Host and
// shader both compute (lo + hi) / 2 with IEEE round-to-nearest-even, so
// the octant test agrees across the two implementations.
func midpoint(lo, hi float64) float64 {
	return (lo + hi) / 2
}

// boxMidpoint returns the split point of a node's bounds on all axes.
func boxMidpoint(b md3.Box) md3.Vec {
	return md3.Vec{
		X: midpoint(b.Min.X, b.Max.X),
		Y: midpoint(b.Min.Y, b.Max.Y),
		Z: midpoint(b.Min.Z, b.Max.Z),
	}
}

// partitionNode is the reference partition algorithm for a single node:
// the shader's per-thread work on host f64 arithmetic.
//
// Pass one counts the node's points per octant and fills the parent's
// partitioning arrays. Pass two rewrites perm[start:end] so the octants
// become contiguous in canonical order, using a snapshot of the slice
// and eight write cursors; the relative order of points within an
// octant is preserved. Finally the eight children are emitted with the
// split bounds and their sub-ranges.
func partitionNode(parent *Node, positions []md3.Vec, perm, scratch []uint32, children []Node) {
	mid := boxMidpoint(parent.bounds)
	start, end := parent.pointStart, parent.pointEnd

	var counts [8]uint32
	for _, id := range perm[start:end] {
		counts[md3.OctantIndex(mid, positions[id])]++
	}

	var cum [8]uint32
	acc := uint32(0)
	for k := 0; k < 8; k++ {
		acc += counts[k]
		cum[k] = acc
	}
	parent.nodePartitioning = cum
	parent.pointsPerPartition = counts

	snapshot := scratch[:end-start]
	copy(snapshot, perm[start:end])
	var cursor [8]uint32
	cursor[0] = start
	for k := 1; k < 8; k++ {
		cursor[k] = start + cum[k-1]
	}
	for _, id := range snapshot {
		k := md3.OctantIndex(mid, positions[id])
		perm[cursor[k]] = id
		cursor[k]++
	}

	for k := 0; k < 8; k++ {
		childStart := start
		if k > 0 {
			childStart = start + cum[k-1]
		}
		children[k] = Node{
			bounds:     parent.bounds.Octant(k),
			pointStart: childStart,
			pointEnd:   childStart + counts[k],
		}
	}
}

// cpuPartitioner runs the partition algorithm on the host. It backs the
// deterministic end-to-end tests of the level driver and doubles as the
// executable specification of the shader contract.
type cpuPartitioner struct {
	positions []md3.Vec
	scratch   []uint32
}

func newCPUPartitioner(positions []md3.Vec) *cpuPartitioner {
	return &cpuPartitioner{
		positions: positions,
		scratch:   make([]uint32, len(positions)),
	}
}

func (p *cpuPartitioner) PartitionLevel(parents []*Node, perm []uint32) ([]Node, error) {
	children := make([]Node, len(parents)*8)
	for i, parent := range parents {
		partitionNode(parent, p.positions, perm, p.scratch, children[i*8:(i+1)*8])
	}
	return children, nil
}

func (p *cpuPartitioner) Close() {}
