package layout

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// AttributeConversionFn reads one attribute value from src and writes it
// to dst in a different datatype. src must hold at least the size of the
// source datatype and dst at least the size of the destination datatype.
type AttributeConversionFn func(src, dst []byte)

// GetConverterForAttributes returns a converter from values of the
// `from` attribute to values of the `to` attribute, or nil if no
// conversion exists. Conversions exist only between attributes with the
// same name; converting between two different attributes is never
// meaningful. For equal datatypes the converter is a plain copy. Scalar
// conversions follow numeric-cast semantics: integer conversions
// truncate or wrap like a Go conversion, float to integer truncates
// toward zero, and conversions into floats round per IEEE 754. Vector
// conversions apply the scalar conversion component-wise; scalars and
// vectors are not convertible into each other.
func GetConverterForAttributes(from, to PointAttributeDefinition) AttributeConversionFn {
	if from.name != to.name {
		return nil
	}
	if from.datatype == to.datatype {
		size := from.Size()
		return func(src, dst []byte) {
			copy(dst[:size], src[:size])
		}
	}
	fromVec, fromElem := from.datatype.Vector()
	toVec, toElem := to.datatype.Vector()
	if fromVec != toVec {
		return nil
	}
	if !fromVec {
		return scalarConverter(from.datatype, to.datatype)
	}
	scalar := scalarConverter(fromElem, toElem)
	if scalar == nil {
		return nil
	}
	srcSize, dstSize := fromElem.Size(), toElem.Size()
	return func(src, dst []byte) {
		for c := uint64(0); c < 3; c++ {
			scalar(src[c*srcSize:], dst[c*dstSize:])
		}
	}
}

// scalar is the constraint satisfied by every Go type that backs a
// scalar datatype.
type scalar interface {
	constraints.Integer | constraints.Float
}

// scalarAt reinterprets the head of b as a host-native value of type T.
func scalarAt[T scalar](b []byte) T {
	return *(*T)(unsafe.Pointer(&b[0]))
}

// putScalar writes v to the head of b in host-native byte order.
func putScalar[T scalar](b []byte, v T) {
	*(*T)(unsafe.Pointer(&b[0])) = v
}

// castConverter converts one scalar with Go's native numeric cast
// semantics: S -> D truncates, wraps or rounds exactly like D(s) does.
func castConverter[S, D scalar]() AttributeConversionFn {
	return func(src, dst []byte) {
		putScalar(dst, D(scalarAt[S](src)))
	}
}

// converterFrom resolves the destination type for a known source type S.
func converterFrom[S scalar](to PointAttributeDataType) AttributeConversionFn {
	switch to {
	case U8:
		return castConverter[S, uint8]()
	case U16:
		return castConverter[S, uint16]()
	case U32:
		return castConverter[S, uint32]()
	case U64:
		return castConverter[S, uint64]()
	case I8:
		return castConverter[S, int8]()
	case I16:
		return castConverter[S, int16]()
	case I32:
		return castConverter[S, int32]()
	case I64:
		return castConverter[S, int64]()
	case F32:
		return castConverter[S, float32]()
	case F64:
		return castConverter[S, float64]()
	default:
		return nil
	}
}

func scalarConverter(from, to PointAttributeDataType) AttributeConversionFn {
	switch from {
	case U8:
		return converterFrom[uint8](to)
	case U16:
		return converterFrom[uint16](to)
	case U32:
		return converterFrom[uint32](to)
	case U64:
		return converterFrom[uint64](to)
	case I8:
		return converterFrom[int8](to)
	case I16:
		return converterFrom[int16](to)
	case I32:
		return converterFrom[int32](to)
	case I64:
		return converterFrom[int64](to)
	case F32:
		return converterFrom[float32](to)
	case F64:
		return converterFrom[float64](to)
	default:
		return nil
	}
}
