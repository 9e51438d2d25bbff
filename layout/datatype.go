package layout

import (
	"fmt"
	"reflect"

	"github.com/gogpu/pointcloud/math/md3"
)

// PointAttributeDataType is the element type of a point attribute. The
// set of supported types is closed: the unsigned and signed integer
// widths, the two IEEE float widths, and fixed-length 3-vectors of each.
type PointAttributeDataType uint8

const (
	// InvalidDataType is the zero value; it is not a valid datatype.
	InvalidDataType PointAttributeDataType = iota

	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F32
	F64

	Vec3U8
	Vec3U16
	Vec3U32
	Vec3U64
	Vec3I8
	Vec3I16
	Vec3I32
	Vec3I64
	Vec3F32
	Vec3F64
)

// Size returns the byte size of one value of the datatype.
func (t PointAttributeDataType) Size() uint64 {
	switch t {
	case U8, I8:
		return 1
	case U16, I16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	case Vec3U8, Vec3I8:
		return 3
	case Vec3U16, Vec3I16:
		return 6
	case Vec3U32, Vec3I32, Vec3F32:
		return 12
	case Vec3U64, Vec3I64, Vec3F64:
		return 24
	default:
		return 0
	}
}

// Alignment returns the natural alignment of the datatype. For vector
// types this is the alignment of the component type.
func (t PointAttributeDataType) Alignment() uint64 {
	if vec, elem := t.Vector(); vec {
		return elem.Alignment()
	}
	return t.Size()
}

// Vector reports whether the datatype is a 3-vector and, if so, returns
// its component type.
func (t PointAttributeDataType) Vector() (bool, PointAttributeDataType) {
	switch t {
	case Vec3U8:
		return true, U8
	case Vec3U16:
		return true, U16
	case Vec3U32:
		return true, U32
	case Vec3U64:
		return true, U64
	case Vec3I8:
		return true, I8
	case Vec3I16:
		return true, I16
	case Vec3I32:
		return true, I32
	case Vec3I64:
		return true, I64
	case Vec3F32:
		return true, F32
	case Vec3F64:
		return true, F64
	default:
		return false, InvalidDataType
	}
}

// String returns the lower-case name of the datatype, e.g. "u16" or
// "vec3f64".
func (t PointAttributeDataType) String() string {
	switch t {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	case Vec3U8:
		return "vec3u8"
	case Vec3U16:
		return "vec3u16"
	case Vec3U32:
		return "vec3u32"
	case Vec3U64:
		return "vec3u64"
	case Vec3I8:
		return "vec3i8"
	case Vec3I16:
		return "vec3i16"
	case Vec3I32:
		return "vec3i32"
	case Vec3I64:
		return "vec3i64"
	case Vec3F32:
		return "vec3f32"
	case Vec3F64:
		return "vec3f64"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(t))
	}
}

// goTypeToDataType maps the Go representation of each primitive type to
// its datatype. Vectors are represented as [3]T arrays; md3.Vec is an
// additional representation of vec3f64 so that positions can be handled
// with vector math directly.
var goTypeToDataType = map[reflect.Type]PointAttributeDataType{
	reflect.TypeOf(uint8(0)):      U8,
	reflect.TypeOf(uint16(0)):     U16,
	reflect.TypeOf(uint32(0)):     U32,
	reflect.TypeOf(uint64(0)):     U64,
	reflect.TypeOf(int8(0)):       I8,
	reflect.TypeOf(int16(0)):      I16,
	reflect.TypeOf(int32(0)):      I32,
	reflect.TypeOf(int64(0)):      I64,
	reflect.TypeOf(float32(0)):    F32,
	reflect.TypeOf(float64(0)):    F64,
	reflect.TypeOf(bool(false)):   U8,
	reflect.TypeOf([3]uint8{}):    Vec3U8,
	reflect.TypeOf([3]uint16{}):   Vec3U16,
	reflect.TypeOf([3]uint32{}):   Vec3U32,
	reflect.TypeOf([3]uint64{}):   Vec3U64,
	reflect.TypeOf([3]int8{}):     Vec3I8,
	reflect.TypeOf([3]int16{}):    Vec3I16,
	reflect.TypeOf([3]int32{}):    Vec3I32,
	reflect.TypeOf([3]int64{}):    Vec3I64,
	reflect.TypeOf([3]float32{}):  Vec3F32,
	reflect.TypeOf([3]float64{}):  Vec3F64,
	reflect.TypeOf(md3.Vec{}):     Vec3F64,
}

// DataTypeOf returns the datatype that corresponds to the given Go type,
// or InvalidDataType if the type has no primitive representation. Note
// that bool maps to U8 (stored as one byte, 0 or 1).
func DataTypeOf(t reflect.Type) PointAttributeDataType {
	return goTypeToDataType[t]
}
