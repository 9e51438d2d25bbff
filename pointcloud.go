// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pointcloud is a toolkit for processing in-memory point clouds.
//
// The toolkit is organised as a small set of sub-packages:
//
//   - layout describes the memory layout of point records: attribute
//     datatypes, attribute definitions and point layouts, plus the
//     conversion registry between attribute datatypes.
//   - containers implements interleaved and columnar point buffers and
//     the strongly typed views and iterators over them.
//   - algorithms holds processing passes over buffers, such as bounding
//     box computation.
//   - octree builds point-cloud octrees on the GPU via gogpu/wgpu, with
//     a breadth-first compute-shader partitioning pass per tree level.
//   - math/md3 provides the double-precision vector and box math used
//     throughout.
//
// This root package carries only module-wide concerns, currently the
// logging configuration.
package pointcloud
