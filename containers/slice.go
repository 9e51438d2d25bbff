package containers

import "github.com/gogpu/pointcloud/layout"

// BufferSlice presents the sub-range [lo, hi) of an interleaved buffer
// as a read-only buffer with the same layout. The slice borrows the
// underlying buffer; it must not outlive it.
type BufferSlice struct {
	buffer InterleavedBuffer
	lo, hi int
}

var _ InterleavedBuffer = (*BufferSlice)(nil)

// Slice creates a read-only view of the points [lo, hi) of an
// interleaved buffer.
func Slice(buffer InterleavedBuffer, lo, hi int) *BufferSlice {
	checkRange(lo, hi, buffer.Len())
	return &BufferSlice{buffer: buffer, lo: lo, hi: hi}
}

// Len returns the number of points in the slice.
func (s *BufferSlice) Len() int { return s.hi - s.lo }

// PointLayout returns the layout of one point record.
func (s *BufferSlice) PointLayout() *layout.PointLayout { return s.buffer.PointLayout() }

// GetPoint copies the record of the point at index into dst.
func (s *BufferSlice) GetPoint(index int, dst []byte) {
	checkIndex(index, s.Len())
	s.buffer.GetPoint(s.lo+index, dst)
}

// GetAttribute copies the bytes of the given attribute of the point at
// index into dst.
func (s *BufferSlice) GetAttribute(attribute layout.PointAttributeDefinition, index int, dst []byte) {
	checkIndex(index, s.Len())
	s.buffer.GetAttribute(attribute, s.lo+index, dst)
}

// GetAttributeMember copies the bytes of the resolved attribute member
// of the point at index into dst.
func (s *BufferSlice) GetAttributeMember(member *layout.PointAttributeMember, index int, dst []byte) {
	checkIndex(index, s.Len())
	s.buffer.GetAttributeMember(member, s.lo+index, dst)
}

// GetPointRef returns the bytes of the point at index without copying.
func (s *BufferSlice) GetPointRef(index int) []byte {
	checkIndex(index, s.Len())
	return s.buffer.GetPointRef(s.lo + index)
}

// GetPointRange returns the bytes of the points in [lo, hi) without
// copying.
func (s *BufferSlice) GetPointRange(lo, hi int) []byte {
	checkRange(lo, hi, s.Len())
	return s.buffer.GetPointRange(s.lo+lo, s.lo+hi)
}

// BufferSliceMut presents the sub-range [lo, hi) of a mutable
// interleaved buffer as a mutable buffer with the same layout.
type BufferSliceMut struct {
	BufferSlice
	mut InterleavedBufferMut
}

var _ InterleavedBufferMut = (*BufferSliceMut)(nil)

// SliceMut creates a mutable view of the points [lo, hi) of a mutable
// interleaved buffer.
func SliceMut(buffer InterleavedBufferMut, lo, hi int) *BufferSliceMut {
	checkRange(lo, hi, buffer.Len())
	return &BufferSliceMut{
		BufferSlice: BufferSlice{buffer: buffer, lo: lo, hi: hi},
		mut:         buffer,
	}
}

// SetPoint overwrites the record of the point at index with src.
func (s *BufferSliceMut) SetPoint(index int, src []byte) {
	checkIndex(index, s.Len())
	s.mut.SetPoint(s.lo+index, src)
}

// SetAttribute overwrites the bytes of the given attribute of the point
// at index with src.
func (s *BufferSliceMut) SetAttribute(attribute layout.PointAttributeDefinition, index int, src []byte) {
	checkIndex(index, s.Len())
	s.mut.SetAttribute(attribute, s.lo+index, src)
}

// GetPointMut returns the bytes of the point at index for writing.
func (s *BufferSliceMut) GetPointMut(index int) []byte {
	checkIndex(index, s.Len())
	return s.mut.GetPointMut(s.lo + index)
}

// GetPointRangeMut returns the bytes of the points in [lo, hi) for
// writing.
func (s *BufferSliceMut) GetPointRangeMut(lo, hi int) []byte {
	checkRange(lo, hi, s.Len())
	return s.mut.GetPointRangeMut(s.lo+lo, s.lo+hi)
}

// ColumnarSlice presents the sub-range [lo, hi) of a columnar buffer as
// a read-only columnar buffer with the same layout.
type ColumnarSlice struct {
	buffer ColumnarBuffer
	lo, hi int
}

var _ ColumnarBuffer = (*ColumnarSlice)(nil)

// SliceColumnar creates a read-only view of the points [lo, hi) of a
// columnar buffer.
func SliceColumnar(buffer ColumnarBuffer, lo, hi int) *ColumnarSlice {
	checkRange(lo, hi, buffer.Len())
	return &ColumnarSlice{buffer: buffer, lo: lo, hi: hi}
}

// Len returns the number of points in the slice.
func (s *ColumnarSlice) Len() int { return s.hi - s.lo }

// PointLayout returns the layout of one point record.
func (s *ColumnarSlice) PointLayout() *layout.PointLayout { return s.buffer.PointLayout() }

// GetPoint copies the record of the point at index into dst.
func (s *ColumnarSlice) GetPoint(index int, dst []byte) {
	checkIndex(index, s.Len())
	s.buffer.GetPoint(s.lo+index, dst)
}

// GetAttribute copies the bytes of the given attribute of the point at
// index into dst.
func (s *ColumnarSlice) GetAttribute(attribute layout.PointAttributeDefinition, index int, dst []byte) {
	checkIndex(index, s.Len())
	s.buffer.GetAttribute(attribute, s.lo+index, dst)
}

// GetAttributeMember copies the bytes of the resolved attribute member
// of the point at index into dst.
func (s *ColumnarSlice) GetAttributeMember(member *layout.PointAttributeMember, index int, dst []byte) {
	checkIndex(index, s.Len())
	s.buffer.GetAttributeMember(member, s.lo+index, dst)
}

// GetAttributeRef returns the bytes of the given attribute of the point
// at index without copying.
func (s *ColumnarSlice) GetAttributeRef(attribute layout.PointAttributeDefinition, index int) []byte {
	checkIndex(index, s.Len())
	return s.buffer.GetAttributeRef(attribute, s.lo+index)
}
