// Package layout describes the memory layout of point records.
//
// A point cloud stores its points as opaque byte regions. The types in
// this package give those bytes meaning: a PointAttributeDataType names
// one of the supported primitive element types, a
// PointAttributeDefinition names a typed attribute such as the 3D
// position or the intensity of a point, and a PointLayout is the ordered
// sequence of attributes, with byte offsets, that makes up one point
// record.
//
// Layouts can be built member by member with PointLayout.AddAttribute,
// or derived from a Go struct type with Of, in which case the member
// offsets are the struct's real field offsets so that typed views can
// reinterpret point records in place.
//
// The conversion registry (GetConverterForAttributes) yields byte-level
// converters between attributes that share a name but differ in
// datatype, following numeric-cast semantics.
package layout
