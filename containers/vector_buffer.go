package containers

import (
	"fmt"

	"github.com/gogpu/pointcloud/layout"
)

// VectorBuffer is an interleaved, owning point buffer backed by a single
// flat byte slice. Point i occupies the bytes
// [i*SizeOfPoint, (i+1)*SizeOfPoint). Whole-point access is a single
// window into the storage; per-attribute access strides through it.
type VectorBuffer struct {
	storage []byte
	layout  *layout.PointLayout
}

var (
	_ InterleavedBufferMut = (*VectorBuffer)(nil)
	_ OwningBuffer         = (*VectorBuffer)(nil)
)

// NewVectorBuffer creates an empty interleaved buffer with the given
// layout.
func NewVectorBuffer(l *layout.PointLayout) *VectorBuffer {
	return &VectorBuffer{layout: l}
}

// NewVectorBufferWithCapacity creates an empty interleaved buffer with
// storage preallocated for capacity points.
func NewVectorBufferWithCapacity(l *layout.PointLayout, capacity int) *VectorBuffer {
	return &VectorBuffer{
		storage: make([]byte, 0, capacity*int(l.SizeOfPoint())),
		layout:  l,
	}
}

func (b *VectorBuffer) recordSize() int { return int(b.layout.SizeOfPoint()) }

// Len returns the number of points in the buffer.
func (b *VectorBuffer) Len() int {
	rs := b.recordSize()
	if rs == 0 {
		return 0
	}
	return len(b.storage) / rs
}

// PointLayout returns the layout of one point record.
func (b *VectorBuffer) PointLayout() *layout.PointLayout { return b.layout }

// GetPoint copies the record of the point at index into dst.
func (b *VectorBuffer) GetPoint(index int, dst []byte) {
	copy(dst, b.GetPointRef(index))
}

// GetAttribute copies the bytes of the given attribute of the point at
// index into dst.
func (b *VectorBuffer) GetAttribute(attribute layout.PointAttributeDefinition, index int, dst []byte) {
	b.GetAttributeMember(memberOrPanic(b.layout, attribute), index, dst)
}

// GetAttributeMember copies the bytes of the resolved attribute member
// of the point at index into dst.
func (b *VectorBuffer) GetAttributeMember(member *layout.PointAttributeMember, index int, dst []byte) {
	checkIndex(index, b.Len())
	start := index*b.recordSize() + int(member.Offset())
	copy(dst, b.storage[start:start+int(member.Size())])
}

// GetPointRef returns the bytes of the point at index without copying.
func (b *VectorBuffer) GetPointRef(index int) []byte {
	checkIndex(index, b.Len())
	rs := b.recordSize()
	return b.storage[index*rs : (index+1)*rs : (index+1)*rs]
}

// GetPointRange returns the bytes of the points in [lo, hi) without
// copying.
func (b *VectorBuffer) GetPointRange(lo, hi int) []byte {
	checkRange(lo, hi, b.Len())
	rs := b.recordSize()
	return b.storage[lo*rs : hi*rs : hi*rs]
}

// GetPointMut returns the bytes of the point at index for writing.
func (b *VectorBuffer) GetPointMut(index int) []byte { return b.GetPointRef(index) }

// GetPointRangeMut returns the bytes of the points in [lo, hi) for
// writing.
func (b *VectorBuffer) GetPointRangeMut(lo, hi int) []byte { return b.GetPointRange(lo, hi) }

// SetPoint overwrites the record of the point at index with src.
func (b *VectorBuffer) SetPoint(index int, src []byte) {
	copy(b.GetPointMut(index), src[:b.recordSize()])
}

// SetAttribute overwrites the bytes of the given attribute of the point
// at index with src.
func (b *VectorBuffer) SetAttribute(attribute layout.PointAttributeDefinition, index int, src []byte) {
	member := memberOrPanic(b.layout, attribute)
	checkIndex(index, b.Len())
	start := index*b.recordSize() + int(member.Offset())
	copy(b.storage[start:start+int(member.Size())], src)
}

// Resize grows or truncates the buffer to n points. New points are
// zeroed.
func (b *VectorBuffer) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("containers: negative buffer size %d", n))
	}
	want := n * b.recordSize()
	if want <= len(b.storage) {
		b.storage = b.storage[:want]
		return
	}
	grown := make([]byte, want)
	copy(grown, b.storage)
	b.storage = grown
}

// PushPoints appends raw point records to the buffer.
func (b *VectorBuffer) PushPoints(pointBytes []byte) {
	rs := b.recordSize()
	if len(pointBytes)%rs != 0 {
		panic(fmt.Sprintf("containers: pushed %d bytes, not a multiple of the record size %d", len(pointBytes), rs))
	}
	b.storage = append(b.storage, pointBytes...)
}
