package layout

import (
	"errors"
	"fmt"
	"strings"
)

// ErrDuplicateAttribute is returned when an attribute is added to a
// layout that already contains a member with the same name.
var ErrDuplicateAttribute = errors.New("layout: attribute already present in layout")

// PointAttributeMember is an attribute placed inside a point record: the
// attribute definition plus its byte offset from the start of the
// record.
type PointAttributeMember struct {
	def    PointAttributeDefinition
	offset uint64
}

// AttributeDefinition returns the member's attribute definition.
func (m *PointAttributeMember) AttributeDefinition() PointAttributeDefinition { return m.def }

// Name returns the member's attribute name.
func (m *PointAttributeMember) Name() string { return m.def.name }

// Datatype returns the member's attribute datatype.
func (m *PointAttributeMember) Datatype() PointAttributeDataType { return m.def.datatype }

// Offset returns the byte offset of the member inside a point record.
func (m *PointAttributeMember) Offset() uint64 { return m.offset }

// Size returns the byte size of the member.
func (m *PointAttributeMember) Size() uint64 { return m.def.Size() }

// PointLayout is the ordered sequence of attribute members that defines
// the wire layout of one point record. Member names are unique and
// member offsets are strictly increasing and non-overlapping.
//
// The zero value is an empty layout ready for use.
type PointLayout struct {
	members     []PointAttributeMember
	sizeOfPoint uint64
}

// NewPointLayout creates a layout from the given attribute definitions,
// packed in order with no padding. It panics if a name repeats; use
// AddAttribute to handle the error.
func NewPointLayout(attributes ...PointAttributeDefinition) *PointLayout {
	l := &PointLayout{}
	for _, a := range attributes {
		if err := l.AddAttribute(a); err != nil {
			panic(err)
		}
	}
	return l
}

// AddAttribute appends the attribute to the layout at the next packed
// offset (no padding). It fails if the layout already contains a member
// with the same name.
func (l *PointLayout) AddAttribute(def PointAttributeDefinition) error {
	return l.addAttributeAt(def, l.sizeOfPoint)
}

// AddAttributeAligned appends the attribute at the next offset aligned
// to the given alignment. Packedness is a property of the layout, not of
// any buffer using it, so alignment is always an explicit request by the
// caller.
func (l *PointLayout) AddAttributeAligned(def PointAttributeDefinition, alignment uint64) error {
	offset := l.sizeOfPoint
	if alignment > 1 {
		offset = (offset + alignment - 1) / alignment * alignment
	}
	return l.addAttributeAt(def, offset)
}

func (l *PointLayout) addAttributeAt(def PointAttributeDefinition, offset uint64) error {
	if l.GetAttributeByName(def.name) != nil {
		return fmt.Errorf("%w: %q", ErrDuplicateAttribute, def.name)
	}
	l.members = append(l.members, PointAttributeMember{def: def, offset: offset})
	l.sizeOfPoint = offset + def.Size()
	return nil
}

// SizeOfPoint returns the byte size of one point record.
func (l *PointLayout) SizeOfPoint() uint64 { return l.sizeOfPoint }

// Members returns the attribute members in order. The returned slice
// must not be modified.
func (l *PointLayout) Members() []PointAttributeMember { return l.members }

// GetAttribute returns the member matching the given definition (name
// and datatype), or nil if the layout contains no such member.
func (l *PointLayout) GetAttribute(def PointAttributeDefinition) *PointAttributeMember {
	m := l.GetAttributeByName(def.name)
	if m == nil || m.def.datatype != def.datatype {
		return nil
	}
	return m
}

// GetAttributeByName returns the member with the given attribute name
// regardless of datatype, or nil if the layout contains no such member.
func (l *PointLayout) GetAttributeByName(name string) *PointAttributeMember {
	for i := range l.members {
		if l.members[i].def.name == name {
			return &l.members[i]
		}
	}
	return nil
}

// HasAttribute reports whether the layout contains a member with the
// name of the given definition, regardless of datatype.
func (l *PointLayout) HasAttribute(def PointAttributeDefinition) bool {
	return l.GetAttributeByName(def.name) != nil
}

// Equal reports whether two layouts have structurally equal member
// sequences (same names, datatypes and offsets in the same order) and
// the same record size.
func (l *PointLayout) Equal(other *PointLayout) bool {
	if l == other {
		return true
	}
	if other == nil || len(l.members) != len(other.members) || l.sizeOfPoint != other.sizeOfPoint {
		return false
	}
	for i := range l.members {
		if l.members[i] != other.members[i] {
			return false
		}
	}
	return true
}

func (l *PointLayout) String() string {
	var sb strings.Builder
	sb.WriteString("PointLayout{")
	for i := range l.members {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s@%d", l.members[i].def, l.members[i].offset)
	}
	sb.WriteString("}")
	return sb.String()
}
