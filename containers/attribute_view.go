package containers

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
	"unsafe"

	"github.com/gogpu/pointcloud/layout"
)

// ErrNoConversion is returned when a converting attribute view is
// requested but no converter exists between the stored and the requested
// attribute datatype.
var ErrNoConversion = errors.New("containers: no conversion between attribute types")

// checkAttributeType panics unless the Go type T is the primitive
// representation of the attribute's datatype, and returns the attribute
// resolved inside the buffer's layout. Requesting a typed attribute view
// with the wrong element type is a programmer error.
func checkAttributeType[T any](buffer BorrowedBuffer, attribute layout.PointAttributeDefinition) *layout.PointAttributeMember {
	got := layout.DataTypeOf(reflect.TypeFor[T]())
	if got != attribute.Datatype() {
		panic(fmt.Sprintf("containers: view type %s (%s) does not match attribute %s",
			reflect.TypeFor[T](), got, attribute))
	}
	member := buffer.PointLayout().GetAttribute(attribute)
	if member == nil {
		panic(fmt.Sprintf("containers: attribute %s not found in buffer layout %s",
			attribute, buffer.PointLayout()))
	}
	return member
}

// AttributeView is a strongly typed read view over one attribute of a
// buffer. It makes no assumption about the buffer's physical layout, so
// it provides access by value only. Construct it with ViewAttribute.
type AttributeView[T any] struct {
	buffer BorrowedBuffer
	member *layout.PointAttributeMember
}

// ViewAttribute creates a typed view over one attribute of the buffer.
// It panics if T does not represent the attribute's datatype or if the
// attribute is not part of the buffer's layout.
func ViewAttribute[T any](buffer BorrowedBuffer, attribute layout.PointAttributeDefinition) AttributeView[T] {
	return AttributeView[T]{
		buffer: buffer,
		member: checkAttributeType[T](buffer, attribute),
	}
}

// Len returns the number of points in the view.
func (v AttributeView[T]) Len() int { return v.buffer.Len() }

// At returns the attribute value of the point at index. It panics if
// index is out of range.
func (v AttributeView[T]) At(index int) T {
	var value T
	v.buffer.GetAttributeMember(v.member, index, bytesOf(&value))
	return value
}

// Values returns an iterator over the attribute values of all points.
func (v AttributeView[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.buffer.Len(); i++ {
			if !yield(v.At(i)) {
				return
			}
		}
	}
}

// AttributeRefView is a typed attribute view over a columnar buffer.
// Because each attribute column is contiguous, values can additionally
// be borrowed without copying. Construct it with ViewAttributeRef.
type AttributeRefView[T any] struct {
	AttributeView[T]
	columnar ColumnarBuffer
}

// ViewAttributeRef creates a typed by-reference view over one attribute
// of a columnar buffer.
func ViewAttributeRef[T any](buffer ColumnarBuffer, attribute layout.PointAttributeDefinition) AttributeRefView[T] {
	return AttributeRefView[T]{
		AttributeView: AttributeView[T]{buffer: buffer, member: checkAttributeType[T](buffer, attribute)},
		columnar:      buffer,
	}
}

// AtRef returns a pointer to the attribute value of the point at index
// inside the buffer's storage.
func (v AttributeRefView[T]) AtRef(index int) *T {
	bytes := v.columnar.GetAttributeRef(v.member.AttributeDefinition(), index)
	return (*T)(unsafe.Pointer(&bytes[0]))
}

// Refs returns an iterator over the attribute values by reference.
func (v AttributeRefView[T]) Refs() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := 0; i < v.columnar.Len(); i++ {
			if !yield(v.AtRef(i)) {
				return
			}
		}
	}
}

// AttributeMutView is a typed mutable attribute view over a buffer with
// unknown physical layout: reads and writes go by value. Construct it
// with ViewAttributeMut.
type AttributeMutView[T any] struct {
	AttributeView[T]
	mut BorrowedMutBuffer
}

// ViewAttributeMut creates a typed mutable view over one attribute of
// the buffer.
func ViewAttributeMut[T any](buffer BorrowedMutBuffer, attribute layout.PointAttributeDefinition) AttributeMutView[T] {
	return AttributeMutView[T]{
		AttributeView: AttributeView[T]{buffer: buffer, member: checkAttributeType[T](buffer, attribute)},
		mut:           buffer,
	}
}

// SetAt overwrites the attribute value of the point at index.
func (v AttributeMutView[T]) SetAt(index int, value T) {
	v.mut.SetAttribute(v.member.AttributeDefinition(), index, bytesOf(&value))
}

// AttributeRefMutView is a typed mutable attribute view over a mutable
// columnar buffer. Values can be borrowed mutably. Construct it with
// ViewAttributeRefMut.
type AttributeRefMutView[T any] struct {
	AttributeMutView[T]
	columnar ColumnarBufferMut
}

// ViewAttributeRefMut creates a typed mutable by-reference view over one
// attribute of a mutable columnar buffer.
func ViewAttributeRefMut[T any](buffer ColumnarBufferMut, attribute layout.PointAttributeDefinition) AttributeRefMutView[T] {
	return AttributeRefMutView[T]{
		AttributeMutView: AttributeMutView[T]{
			AttributeView: AttributeView[T]{buffer: buffer, member: checkAttributeType[T](buffer, attribute)},
			mut:           buffer,
		},
		columnar: buffer,
	}
}

// AtMut returns a mutable pointer to the attribute value of the point at
// index inside the buffer's storage.
func (v AttributeRefMutView[T]) AtMut(index int) *T {
	bytes := v.columnar.GetAttributeMut(v.member.AttributeDefinition(), index)
	return (*T)(unsafe.Pointer(&bytes[0]))
}

// Muts returns an iterator over the attribute values by mutable
// reference.
func (v AttributeRefMutView[T]) Muts() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := 0; i < v.columnar.Len(); i++ {
			if !yield(v.AtMut(i)) {
				return
			}
		}
	}
}

// ConvertingAttributeView is a typed attribute view whose element type T
// differs from the datatype stored in the buffer. Every access reads the
// stored bytes into a scratch buffer and runs the registered converter,
// so access is by value only. The view is not safe for concurrent use;
// the scratch buffer is shared between accesses.
type ConvertingAttributeView[T any] struct {
	buffer    BorrowedBuffer
	member    *layout.PointAttributeMember
	converter layout.AttributeConversionFn
	scratch   []byte
}

// ViewAttributeWithConversion creates a typed view over one attribute of
// the buffer whose stored datatype differs from T. It panics if T does
// not represent the requested attribute's datatype or if the attribute
// is missing from the buffer's layout, and returns ErrNoConversion if no
// converter between the stored and the requested datatype is registered.
func ViewAttributeWithConversion[T any](buffer BorrowedBuffer, attribute layout.PointAttributeDefinition) (*ConvertingAttributeView[T], error) {
	got := layout.DataTypeOf(reflect.TypeFor[T]())
	if got != attribute.Datatype() {
		panic(fmt.Sprintf("containers: view type %s (%s) does not match attribute %s",
			reflect.TypeFor[T](), got, attribute))
	}
	member := buffer.PointLayout().GetAttributeByName(attribute.Name())
	if member == nil {
		panic(fmt.Sprintf("containers: attribute %s not found in buffer layout %s",
			attribute, buffer.PointLayout()))
	}
	converter := layout.GetConverterForAttributes(member.AttributeDefinition(), attribute)
	if converter == nil {
		return nil, fmt.Errorf("%w: %s -> %s", ErrNoConversion, member.Datatype(), attribute.Datatype())
	}
	return &ConvertingAttributeView[T]{
		buffer:    buffer,
		member:    member,
		converter: converter,
		scratch:   make([]byte, member.Size()),
	}, nil
}

// Len returns the number of points in the view.
func (v *ConvertingAttributeView[T]) Len() int { return v.buffer.Len() }

// At returns the attribute value of the point at index, converted to T.
func (v *ConvertingAttributeView[T]) At(index int) T {
	var value T
	v.buffer.GetAttributeMember(v.member, index, v.scratch)
	v.converter(v.scratch, bytesOf(&value))
	return value
}

// Values returns an iterator over the converted attribute values of all
// points.
func (v *ConvertingAttributeView[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.buffer.Len(); i++ {
			if !yield(v.At(i)) {
				return
			}
		}
	}
}
