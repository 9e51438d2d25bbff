package layout

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// structLayouts caches derived layouts per Go type. Derivation walks the
// struct via reflection once; all later lookups are a map read.
var structLayouts sync.Map // reflect.Type -> *PointLayout

// Of derives the PointLayout of the Go struct type T. Every field must
// carry a `point:"..."` tag naming either a canonical attribute (e.g.
// `point:"Position3D"`) or a custom one (`point:"custom:HeatValue"`).
// The member datatype is taken from the field's Go type, the member
// offset is the field's real offset inside the struct, and the size of
// a point equals the size of the struct. A value of type T is therefore
// bit-compatible with a point record of the derived layout, which is
// what allows typed views to reinterpret buffer memory in place.
//
// Of panics if T is not a struct, if a field is untagged or names an
// unknown attribute, or if a field type has no primitive datatype.
// These are programmer errors in the point type definition.
func Of[T any]() *PointLayout {
	t := reflect.TypeFor[T]()
	if cached, ok := structLayouts.Load(t); ok {
		return cached.(*PointLayout)
	}
	l, err := layoutOfStruct(t)
	if err != nil {
		panic(err)
	}
	actual, _ := structLayouts.LoadOrStore(t, l)
	return actual.(*PointLayout)
}

func layoutOfStruct(t reflect.Type) (*PointLayout, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("layout: point type %s is not a struct", t)
	}
	l := &PointLayout{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("point")
		if !ok {
			return nil, fmt.Errorf("layout: field %s.%s has no point tag", t, field.Name)
		}
		datatype := DataTypeOf(field.Type)
		if datatype == InvalidDataType {
			return nil, fmt.Errorf("layout: field %s.%s has non-primitive type %s", t, field.Name, field.Type)
		}
		def, err := attributeForTag(tag, datatype)
		if err != nil {
			return nil, fmt.Errorf("layout: field %s.%s: %w", t, field.Name, err)
		}
		if l.GetAttributeByName(def.name) != nil {
			return nil, fmt.Errorf("layout: field %s.%s: %w: %q", t, field.Name, ErrDuplicateAttribute, def.name)
		}
		l.members = append(l.members, PointAttributeMember{def: def, offset: uint64(field.Offset)})
	}
	// The record size is the struct size, trailing padding included, so
	// that records laid out back to back match a []T slice exactly.
	l.sizeOfPoint = uint64(t.Size())
	return l, nil
}

func attributeForTag(tag string, datatype PointAttributeDataType) (PointAttributeDefinition, error) {
	if name, isCustom := strings.CutPrefix(tag, "custom:"); isCustom {
		if name == "" {
			return PointAttributeDefinition{}, fmt.Errorf("empty custom attribute name")
		}
		return NewAttribute(name, datatype), nil
	}
	builtin, ok := builtinAttributes[tag]
	if !ok {
		return PointAttributeDefinition{}, fmt.Errorf("unknown attribute %q", tag)
	}
	return builtin.WithCustomDatatype(datatype), nil
}
