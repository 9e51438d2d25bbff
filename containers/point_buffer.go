package containers

import (
	"fmt"

	"github.com/gogpu/pointcloud/layout"
)

// BorrowedBuffer is the basic read capability of every point buffer:
// byte-level access to whole points and single attributes, in any
// physical layout.
type BorrowedBuffer interface {
	// Len returns the number of points in the buffer.
	Len() int
	// PointLayout returns the layout of one point record. The layout is
	// fixed for the lifetime of the buffer.
	PointLayout() *layout.PointLayout
	// GetPoint copies the record of the point at index into dst, which
	// must hold at least SizeOfPoint bytes.
	GetPoint(index int, dst []byte)
	// GetAttribute copies the bytes of the given attribute of the point
	// at index into dst. It panics if the attribute is not part of the
	// buffer's layout.
	GetAttribute(attribute layout.PointAttributeDefinition, index int, dst []byte)
	// GetAttributeMember is like GetAttribute but takes a resolved
	// member of the buffer's own layout, skipping the name lookup. The
	// typed views use it on their hot paths.
	GetAttributeMember(member *layout.PointAttributeMember, index int, dst []byte)
}

// BorrowedMutBuffer adds in-place mutation of existing points. It does
// not allow growing or shrinking the buffer; see OwningBuffer.
type BorrowedMutBuffer interface {
	BorrowedBuffer
	// SetPoint overwrites the record of the point at index with src.
	SetPoint(index int, src []byte)
	// SetAttribute overwrites the bytes of the given attribute of the
	// point at index with src.
	SetAttribute(attribute layout.PointAttributeDefinition, index int, src []byte)
}

// InterleavedBuffer is implemented by buffers that store each point's
// attributes contiguously and can hand out zero-copy windows over whole
// point records.
type InterleavedBuffer interface {
	BorrowedBuffer
	// GetPointRef returns the bytes of the point at index without
	// copying. The window stays valid until the buffer is resized.
	GetPointRef(index int) []byte
	// GetPointRange returns the bytes of the points in [lo, hi) without
	// copying.
	GetPointRange(lo, hi int) []byte
}

// InterleavedBufferMut adds mutable zero-copy windows to an interleaved
// buffer.
type InterleavedBufferMut interface {
	InterleavedBuffer
	BorrowedMutBuffer
	// GetPointMut returns the bytes of the point at index for writing.
	GetPointMut(index int) []byte
	// GetPointRangeMut returns the bytes of the points in [lo, hi) for
	// writing.
	GetPointRangeMut(lo, hi int) []byte
}

// ColumnarBuffer is implemented by buffers that store each attribute's
// values contiguously and can hand out zero-copy windows over single
// attribute values.
type ColumnarBuffer interface {
	BorrowedBuffer
	// GetAttributeRef returns the bytes of the given attribute of the
	// point at index without copying.
	GetAttributeRef(attribute layout.PointAttributeDefinition, index int) []byte
}

// ColumnarBufferMut adds mutable zero-copy attribute windows to a
// columnar buffer.
type ColumnarBufferMut interface {
	ColumnarBuffer
	BorrowedMutBuffer
	// GetAttributeMut returns the bytes of the given attribute of the
	// point at index for writing.
	GetAttributeMut(attribute layout.PointAttributeDefinition, index int) []byte
}

// OwningBuffer is implemented by buffers that own their storage and can
// grow or shrink.
type OwningBuffer interface {
	BorrowedMutBuffer
	// Resize grows or truncates the buffer to n points. New points are
	// zeroed.
	Resize(n int)
	// PushPoints appends raw point records. The length of pointBytes
	// must be a multiple of the record size.
	PushPoints(pointBytes []byte)
}

// checkIndex panics if index is outside [0, len). Every raw accessor
// runs through it; an out-of-range index is a programmer error.
func checkIndex(index, len int) {
	if index < 0 || index >= len {
		panic(fmt.Sprintf("containers: point index %d out of range [0, %d)", index, len))
	}
}

// checkRange panics if [lo, hi) is not a valid range over len points.
func checkRange(lo, hi, len int) {
	if lo < 0 || hi < lo || hi > len {
		panic(fmt.Sprintf("containers: point range [%d, %d) invalid for buffer of %d points", lo, hi, len))
	}
}

// memberOrPanic resolves an attribute inside the buffer layout by name
// and datatype. Requesting an attribute that is not part of the layout
// is a programmer error on the raw access path.
func memberOrPanic(l *layout.PointLayout, attribute layout.PointAttributeDefinition) *layout.PointAttributeMember {
	m := l.GetAttribute(attribute)
	if m == nil {
		panic(fmt.Sprintf("containers: attribute %s not found in buffer layout %s", attribute, l))
	}
	return m
}
