package algorithms

import (
	"iter"
	"math"

	"github.com/gogpu/pointcloud/containers"
	"github.com/gogpu/pointcloud/layout"
	"github.com/gogpu/pointcloud/math/md3"
)

// CalculateBounds computes the axis-aligned bounding box of the points
// in the buffer. It returns ok == false if the buffer contains zero
// points or if the buffer's layout does not contain the Position3D
// attribute. The box is tight: its faces touch the extreme positions.
//
// If the stored position datatype is not the default vec3 of f64, the
// positions are converted on the fly through a converting view.
func CalculateBounds(buffer containers.BorrowedBuffer) (bounds md3.Box, ok bool) {
	if buffer.Len() == 0 {
		return md3.Box{}, false
	}
	member := buffer.PointLayout().GetAttributeByName(layout.Position3D.Name())
	if member == nil {
		return md3.Box{}, false
	}

	if member.Datatype() == layout.Position3D.Datatype() {
		view := containers.ViewAttribute[md3.Vec](buffer, layout.Position3D)
		return boundsOfPositions(view.Values()), true
	}
	view, err := containers.ViewAttributeWithConversion[md3.Vec](buffer, layout.Position3D)
	if err != nil {
		return md3.Box{}, false
	}
	return boundsOfPositions(view.Values()), true
}

func boundsOfPositions(positions iter.Seq[md3.Vec]) md3.Box {
	min := md3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	max := md3.Vec{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for pos := range positions {
		min = md3.MinElem(min, pos)
		max = md3.MaxElem(max, pos)
	}
	return md3.Box{Min: min, Max: max}
}
