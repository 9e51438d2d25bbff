// Package md3 implements double-precision 3D vector and bounding box
// math for point-cloud geometry. All types use float64 components with
// no padding so that a Vec is bit-compatible with three consecutive
// little-endian f64 values in GPU and file buffers.
package md3
