package containers

import (
	"fmt"

	"github.com/gogpu/pointcloud/layout"
)

// ColumnarVectorBuffer is a columnar, owning point buffer: one flat byte
// slice per attribute, each holding len * attributeSize bytes with no
// padding between values. Per-attribute iteration touches a single
// contiguous column; whole-point access gathers from every column.
type ColumnarVectorBuffer struct {
	columns [][]byte // parallel to layout.Members()
	layout  *layout.PointLayout
	length  int
}

var (
	_ ColumnarBufferMut = (*ColumnarVectorBuffer)(nil)
	_ OwningBuffer      = (*ColumnarVectorBuffer)(nil)
)

// NewColumnarBuffer creates an empty columnar buffer with the given
// layout.
func NewColumnarBuffer(l *layout.PointLayout) *ColumnarVectorBuffer {
	return &ColumnarVectorBuffer{
		columns: make([][]byte, len(l.Members())),
		layout:  l,
	}
}

// memberIndex resolves the column index of a member inside the buffer
// layout.
func (b *ColumnarVectorBuffer) memberIndex(member *layout.PointAttributeMember) int {
	members := b.layout.Members()
	for i := range members {
		if &members[i] == member || members[i].Name() == member.Name() {
			return i
		}
	}
	panic(fmt.Sprintf("containers: attribute %s not found in buffer layout %s", member.AttributeDefinition(), b.layout))
}

// Len returns the number of points in the buffer.
func (b *ColumnarVectorBuffer) Len() int { return b.length }

// PointLayout returns the layout of one point record.
func (b *ColumnarVectorBuffer) PointLayout() *layout.PointLayout { return b.layout }

// GetPoint gathers the record of the point at index from every column
// into dst.
func (b *ColumnarVectorBuffer) GetPoint(index int, dst []byte) {
	checkIndex(index, b.length)
	members := b.layout.Members()
	for i := range members {
		size := int(members[i].Size())
		copy(dst[members[i].Offset():], b.columns[i][index*size:(index+1)*size])
	}
}

// GetAttribute copies the bytes of the given attribute of the point at
// index into dst.
func (b *ColumnarVectorBuffer) GetAttribute(attribute layout.PointAttributeDefinition, index int, dst []byte) {
	copy(dst, b.GetAttributeRef(attribute, index))
}

// GetAttributeMember copies the bytes of the resolved attribute member
// of the point at index into dst.
func (b *ColumnarVectorBuffer) GetAttributeMember(member *layout.PointAttributeMember, index int, dst []byte) {
	checkIndex(index, b.length)
	col := b.columns[b.memberIndex(member)]
	size := int(member.Size())
	copy(dst, col[index*size:(index+1)*size])
}

// GetAttributeRef returns the bytes of the given attribute of the point
// at index without copying.
func (b *ColumnarVectorBuffer) GetAttributeRef(attribute layout.PointAttributeDefinition, index int) []byte {
	member := memberOrPanic(b.layout, attribute)
	checkIndex(index, b.length)
	col := b.columns[b.memberIndex(member)]
	size := int(member.Size())
	return col[index*size : (index+1)*size : (index+1)*size]
}

// GetAttributeMut returns the bytes of the given attribute of the point
// at index for writing.
func (b *ColumnarVectorBuffer) GetAttributeMut(attribute layout.PointAttributeDefinition, index int) []byte {
	return b.GetAttributeRef(attribute, index)
}

// SetPoint scatters the record in src across every column.
func (b *ColumnarVectorBuffer) SetPoint(index int, src []byte) {
	checkIndex(index, b.length)
	members := b.layout.Members()
	for i := range members {
		size := int(members[i].Size())
		copy(b.columns[i][index*size:(index+1)*size], src[members[i].Offset():])
	}
}

// SetAttribute overwrites the bytes of the given attribute of the point
// at index with src.
func (b *ColumnarVectorBuffer) SetAttribute(attribute layout.PointAttributeDefinition, index int, src []byte) {
	copy(b.GetAttributeMut(attribute, index), src)
}

// Resize grows or truncates the buffer to n points. New points are
// zeroed.
func (b *ColumnarVectorBuffer) Resize(n int) {
	if n < 0 {
		panic(fmt.Sprintf("containers: negative buffer size %d", n))
	}
	members := b.layout.Members()
	for i := range members {
		want := n * int(members[i].Size())
		if want <= len(b.columns[i]) {
			b.columns[i] = b.columns[i][:want]
			continue
		}
		grown := make([]byte, want)
		copy(grown, b.columns[i])
		b.columns[i] = grown
	}
	b.length = n
}

// PushPoints appends raw point records, splitting each record across the
// attribute columns.
func (b *ColumnarVectorBuffer) PushPoints(pointBytes []byte) {
	rs := int(b.layout.SizeOfPoint())
	if len(pointBytes)%rs != 0 {
		panic(fmt.Sprintf("containers: pushed %d bytes, not a multiple of the record size %d", len(pointBytes), rs))
	}
	count := len(pointBytes) / rs
	members := b.layout.Members()
	for p := 0; p < count; p++ {
		record := pointBytes[p*rs : (p+1)*rs]
		for i := range members {
			off := int(members[i].Offset())
			b.columns[i] = append(b.columns[i], record[off:off+int(members[i].Size())]...)
		}
	}
	b.length += count
}
