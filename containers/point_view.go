package containers

import (
	"fmt"
	"iter"
	"slices"
	"unsafe"

	"github.com/gogpu/pointcloud/layout"
)

// bytesOf returns the in-memory bytes of *p. The typed views use it to
// move whole values between buffer storage and Go values without an
// intermediate encoding step; the layout checks at view construction
// time guarantee that the reinterpretation is sound.
func bytesOf[T any](p *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(unsafe.Sizeof(*p)))
}

// checkPointType panics unless the derived layout of T equals the
// buffer's layout. A mismatch is a programmer error: the view would
// reinterpret bytes under the wrong type.
func checkPointType[T any](buffer BorrowedBuffer) {
	derived := layout.Of[T]()
	if !derived.Equal(buffer.PointLayout()) {
		panic(fmt.Sprintf("containers: point type layout %s does not match buffer layout %s",
			derived, buffer.PointLayout()))
	}
}

// PointView is a strongly typed read view over the points of a buffer.
// It makes no assumption about the buffer's physical layout, so it
// provides access by value only. Construct it with View.
type PointView[T any] struct {
	buffer BorrowedBuffer
}

// View creates a typed view over the buffer. It panics if the derived
// layout of T differs from the buffer's layout.
func View[T any](buffer BorrowedBuffer) PointView[T] {
	checkPointType[T](buffer)
	return PointView[T]{buffer: buffer}
}

// Len returns the number of points in the view.
func (v PointView[T]) Len() int { return v.buffer.Len() }

// At returns the point at index by value. It panics if index is out of
// range.
func (v PointView[T]) At(index int) T {
	var point T
	v.buffer.GetPoint(index, bytesOf(&point))
	return point
}

// Points returns an iterator over all points by value.
func (v PointView[T]) Points() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.buffer.Len(); i++ {
			if !yield(v.At(i)) {
				return
			}
		}
	}
}

// PointRefView is a typed view over an interleaved buffer. Because each
// point record is contiguous, points can additionally be borrowed
// without copying. Construct it with ViewRef.
type PointRefView[T any] struct {
	PointView[T]
	inter InterleavedBuffer
}

// ViewRef creates a typed by-reference view over an interleaved buffer.
// It panics if the derived layout of T differs from the buffer's layout.
func ViewRef[T any](buffer InterleavedBuffer) PointRefView[T] {
	checkPointType[T](buffer)
	return PointRefView[T]{PointView: PointView[T]{buffer: buffer}, inter: buffer}
}

// AtRef returns a pointer to the point at index inside the buffer's
// storage. The pointer stays valid until the buffer is resized.
func (v PointRefView[T]) AtRef(index int) *T {
	return (*T)(unsafe.Pointer(&v.inter.GetPointRef(index)[0]))
}

// Refs returns an iterator over all points by reference.
func (v PointRefView[T]) Refs() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := 0; i < v.inter.Len(); i++ {
			if !yield(v.AtRef(i)) {
				return
			}
		}
	}
}

// PointMutView is a strongly typed mutable view over the points of a
// buffer with unknown physical layout: reads and writes go by value.
// Construct it with ViewMut.
type PointMutView[T any] struct {
	PointView[T]
	mut BorrowedMutBuffer
}

// ViewMut creates a typed mutable view over the buffer. It panics if the
// derived layout of T differs from the buffer's layout.
func ViewMut[T any](buffer BorrowedMutBuffer) PointMutView[T] {
	checkPointType[T](buffer)
	return PointMutView[T]{PointView: PointView[T]{buffer: buffer}, mut: buffer}
}

// SetAt overwrites the point at index.
func (v PointMutView[T]) SetAt(index int, point T) {
	v.mut.SetPoint(index, bytesOf(&point))
}

// PointRefMutView is a typed mutable view over a mutable interleaved
// buffer. Points can be borrowed mutably and the whole buffer can be
// sorted in place. Construct it with ViewRefMut.
type PointRefMutView[T any] struct {
	PointRefView[T]
	mut InterleavedBufferMut
}

// ViewRefMut creates a typed mutable by-reference view over a mutable
// interleaved buffer. It panics if the derived layout of T differs from
// the buffer's layout.
func ViewRefMut[T any](buffer InterleavedBufferMut) PointRefMutView[T] {
	checkPointType[T](buffer)
	return PointRefMutView[T]{
		PointRefView: PointRefView[T]{PointView: PointView[T]{buffer: buffer}, inter: buffer},
		mut:          buffer,
	}
}

// SetAt overwrites the point at index.
func (v PointRefMutView[T]) SetAt(index int, point T) {
	v.mut.SetPoint(index, bytesOf(&point))
}

// AtMut returns a mutable pointer to the point at index inside the
// buffer's storage.
func (v PointRefMutView[T]) AtMut(index int) *T {
	return (*T)(unsafe.Pointer(&v.mut.GetPointMut(index)[0]))
}

// Muts returns an iterator over all points by mutable reference.
func (v PointRefMutView[T]) Muts() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := 0; i < v.mut.Len(); i++ {
			if !yield(v.AtMut(i)) {
				return
			}
		}
	}
}

// SortBy sorts the points of the whole buffer in place using the given
// comparison function. The sort is stable; the buffer's length and
// layout are unchanged. Any index permutation held outside the buffer is
// invalidated by the reordering.
func (v PointRefMutView[T]) SortBy(cmp func(a, b T) int) {
	n := v.mut.Len()
	if n < 2 {
		return
	}
	window := v.mut.GetPointRangeMut(0, n)
	points := unsafe.Slice((*T)(unsafe.Pointer(&window[0])), n)
	slices.SortStableFunc(points, cmp)
}

// Push appends typed points to an owning buffer. It panics if the
// derived layout of T differs from the buffer's layout.
func Push[T any](buffer OwningBuffer, points ...T) {
	checkPointType[T](buffer)
	for i := range points {
		buffer.PushPoints(bytesOf(&points[i]))
	}
}
