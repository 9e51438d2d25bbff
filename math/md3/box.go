package md3

import "math"

// Box is a 3D axis-aligned bounding box. Well formed Boxes have Min
// components smaller than or equal to Max components. Max is the most
// positive/largest vertex, Min is the most negative/smallest vertex.
type Box struct {
	Min, Max Vec
}

// NewBox is shorthand for Box{Min:Vec{x0,y0,z0}, Max:Vec{x1,y1,z1}}.
// The sides are swapped so that the resulting Box is well formed.
func NewBox(x0, y0, z0, x1, y1, z1 float64) Box {
	return Box{
		Min: Vec{X: math.Min(x0, x1), Y: math.Min(y0, y1), Z: math.Min(z0, z1)},
		Max: Vec{X: math.Max(x0, x1), Y: math.Max(y0, y1), Z: math.Max(z0, z1)},
	}
}

// Empty returns true if a Box's volume is zero
// or if a Min component is greater than its Max component.
func (a Box) Empty() bool {
	return a.Min.X >= a.Max.X || a.Min.Y >= a.Max.Y || a.Min.Z >= a.Max.Z
}

// Size returns the size of the Box.
func (a Box) Size() Vec {
	return Sub(a.Max, a.Min)
}

// Center returns the center of the Box.
func (a Box) Center() Vec {
	return Scale(0.5, Add(a.Min, a.Max))
}

// Contains reports whether v lies within the box. Both faces are
// inclusive, so points exactly on the boundary are contained.
func (a Box) Contains(v Vec) bool {
	return a.Min.X <= v.X && v.X <= a.Max.X &&
		a.Min.Y <= v.Y && v.Y <= a.Max.Y &&
		a.Min.Z <= v.Z && v.Z <= a.Max.Z
}

// Union returns a box enclosing both the receiver and argument Boxes.
func (a Box) Union(b Box) Box {
	return Box{
		Min: MinElem(a.Min, b.Min),
		Max: MaxElem(a.Max, b.Max),
	}
}

// Octant returns the k-th of the 8 sub-boxes produced by splitting the
// box at its center. Octants are numbered by the xyz bit pattern of the
// coordinate relative to the center: bit 0 set means the high half in x,
// bit 1 in y, bit 2 in z.
func (a Box) Octant(k int) Box {
	if k < 0 || k > 7 {
		panic("md3: octant index out of range")
	}
	mid := a.Center()
	out := Box{Min: a.Min, Max: mid}
	if k&1 != 0 {
		out.Min.X = mid.X
		out.Max.X = a.Max.X
	}
	if k&2 != 0 {
		out.Min.Y = mid.Y
		out.Max.Y = a.Max.Y
	}
	if k&4 != 0 {
		out.Min.Z = mid.Z
		out.Max.Z = a.Max.Z
	}
	return out
}

// OctantIndex returns the index of the octant of the box centered at mid
// that contains v. A coordinate greater than or equal to the midpoint
// selects the high half on that axis.
func OctantIndex(mid, v Vec) int {
	k := 0
	if v.X >= mid.X {
		k |= 1
	}
	if v.Y >= mid.Y {
		k |= 2
	}
	if v.Z >= mid.Z {
		k |= 4
	}
	return k
}
