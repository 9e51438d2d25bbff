// Package containers implements point buffers and the typed views over
// them.
//
// A point buffer is a contiguous region of point records described by a
// layout.PointLayout. Buffers come in two physical layouts: interleaved
// (all attributes of one point contiguous, VectorBuffer) and columnar
// (all values of one attribute contiguous, ColumnarVectorBuffer). What a
// buffer supports is expressed through capability interfaces rather than
// runtime flags: BorrowedBuffer for raw read access, BorrowedMutBuffer
// for in-place writes, InterleavedBuffer/ColumnarBuffer for zero-copy
// byte windows specific to the physical layout, and OwningBuffer for
// resizing. Typed views are constructed from a specific capability, so a
// view combination the buffer cannot support (say, mutable per-attribute
// iteration over an interleaved buffer) is refused by the type system.
//
// Raw accessors treat an out-of-range index as a programmer error and
// panic; the same holds for constructing a typed view whose type does
// not match the buffer's layout.
package containers
