// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package octree builds point-cloud octrees on the GPU.
//
// Construction is breadth first: all nodes of one tree level are
// partitioned by a single compute dispatch, one shader thread per node.
// The points themselves never move; the builder maintains an index
// permutation of the point buffer and each node owns a contiguous slice
// of it. A thread counts the points of its node per octant, rewrites its
// slice of the permutation so the octants become contiguous (stable
// within each octant), and emits the eight children. The host attaches
// the children and schedules the next level until every remaining node
// is at or below the leaf threshold or 32 levels below the root; a node
// at that depth stays a leaf whatever its point count.
//
// The compute shader works on double-precision positions. WGSL has no
// f64 type, so the shader carries software double-precision kernels: a
// bitwise total-order comparison for the octant test and a correctly
// rounded add-and-halve for midpoints. Host and shader therefore place
// every point in the same octant bit for bit.
package octree
