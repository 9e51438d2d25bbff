package containers

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pointcloud/layout"
	"github.com/gogpu/pointcloud/math/md3"
)

type testPoint struct {
	Position  md3.Vec `point:"Position3D"`
	Intensity uint16  `point:"Intensity"`
	Class     uint8   `point:"Classification"`
}

func randomTestPoints(rng *rand.Rand, n int) []testPoint {
	points := make([]testPoint, n)
	for i := range points {
		points[i] = testPoint{
			Position: md3.Vec{
				X: rng.Float64()*200 - 100,
				Y: rng.Float64()*200 - 100,
				Z: rng.Float64()*200 - 100,
			},
			Intensity: uint16(rng.Intn(1 << 16)),
			Class:     uint8(rng.Intn(1 << 8)),
		}
	}
	return points
}

// newBuffers returns one buffer of each family, filled with the same
// points.
func newBuffers(t *testing.T, points []testPoint) (*VectorBuffer, *ColumnarVectorBuffer) {
	t.Helper()
	l := layout.Of[testPoint]()
	interleaved := NewVectorBufferWithCapacity(l, len(points))
	columnar := NewColumnarBuffer(l)
	Push(interleaved, points...)
	Push(columnar, points...)
	require.Equal(t, len(points), interleaved.Len())
	require.Equal(t, len(points), columnar.Len())
	return interleaved, columnar
}

// A whole-point read must equal the gather of all attribute reads, on
// both buffer families.
func TestGetPointEqualsAttributeGather(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	points := randomTestPoints(rng, 64)
	interleaved, columnar := newBuffers(t, points)

	for _, buffer := range []BorrowedBuffer{interleaved, columnar} {
		l := buffer.PointLayout()
		record := make([]byte, l.SizeOfPoint())
		gathered := make([]byte, l.SizeOfPoint())
		for i := 0; i < buffer.Len(); i++ {
			buffer.GetPoint(i, record)
			members := l.Members()
			for m := range members {
				buffer.GetAttribute(members[m].AttributeDefinition(), i, gathered[members[m].Offset():])
			}
			assert.Equal(t, record, gathered, "point %d", i)
		}
	}
}

func TestInterleavedAndColumnarAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	points := randomTestPoints(rng, 32)
	interleaved, columnar := newBuffers(t, points)

	record := make([]byte, interleaved.PointLayout().SizeOfPoint())
	for i := range points {
		columnar.GetPoint(i, record)
		assert.Equal(t, interleaved.GetPointRef(i), record, "point %d", i)
	}
}

func TestSetPointAndSetAttribute(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	points := randomTestPoints(rng, 8)
	interleaved, columnar := newBuffers(t, points)

	replacement := testPoint{Position: md3.Vec{X: 1, Y: 2, Z: 3}, Intensity: 7, Class: 9}
	for _, buffer := range []BorrowedMutBuffer{interleaved, columnar} {
		buffer.SetPoint(4, bytesOf(&replacement))
		var got testPoint
		buffer.GetPoint(4, bytesOf(&got))
		assert.Equal(t, replacement, got)

		intensity := uint16(512)
		buffer.SetAttribute(layout.Intensity, 2, bytesOf(&intensity))
		var gotIntensity uint16
		buffer.GetAttribute(layout.Intensity, 2, bytesOf(&gotIntensity))
		assert.Equal(t, intensity, gotIntensity)
	}
}

func TestResize(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	points := randomTestPoints(rng, 10)
	interleaved, columnar := newBuffers(t, points)

	for _, buffer := range []OwningBuffer{interleaved, columnar} {
		buffer.Resize(4)
		assert.Equal(t, 4, buffer.Len())

		buffer.Resize(6)
		assert.Equal(t, 6, buffer.Len())

		// Grown points are zeroed.
		var got testPoint
		buffer.GetPoint(5, bytesOf(&got))
		assert.Equal(t, testPoint{}, got)

		// Surviving points are untouched.
		buffer.GetPoint(3, bytesOf(&got))
		assert.Equal(t, points[3], got)
	}
}

func TestOutOfRangePanics(t *testing.T) {
	interleaved, columnar := newBuffers(t, randomTestPoints(rand.New(rand.NewSource(5)), 4))
	record := make([]byte, interleaved.PointLayout().SizeOfPoint())

	assert.Panics(t, func() { interleaved.GetPoint(4, record) })
	assert.Panics(t, func() { interleaved.GetPoint(-1, record) })
	assert.Panics(t, func() { interleaved.GetPointRef(4) })
	assert.Panics(t, func() { columnar.GetPoint(4, record) })
	assert.Panics(t, func() { columnar.GetAttributeRef(layout.Intensity, 4) })
}

func TestUnknownAttributePanics(t *testing.T) {
	interleaved, _ := newBuffers(t, randomTestPoints(rand.New(rand.NewSource(6)), 4))
	var gps float64
	assert.Panics(t, func() { interleaved.GetAttribute(layout.GPSTime, 0, bytesOf(&gps)) })
}

func TestSlices(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := randomTestPoints(rng, 16)
	interleaved, columnar := newBuffers(t, points)

	s := Slice(interleaved, 4, 12)
	assert.Equal(t, 8, s.Len())
	var got testPoint
	s.GetPoint(0, bytesOf(&got))
	assert.Equal(t, points[4], got)
	assert.Panics(t, func() { s.GetPoint(8, bytesOf(&got)) })

	cs := SliceColumnar(columnar, 2, 5)
	assert.Equal(t, 3, cs.Len())
	cs.GetPoint(2, bytesOf(&got))
	assert.Equal(t, points[4], got)

	ms := SliceMut(interleaved, 0, 4)
	replacement := testPoint{Intensity: 1}
	ms.SetPoint(1, bytesOf(&replacement))
	interleaved.GetPoint(1, bytesOf(&got))
	assert.Equal(t, replacement, got)
}

// Copying an interleaved buffer into a columnar buffer attribute by
// attribute and back must reproduce the exact point bytes.
func TestLayoutRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	points := randomTestPoints(rng, 1000)
	l := layout.Of[testPoint]()

	interleaved := NewVectorBufferWithCapacity(l, len(points))
	Push(interleaved, points...)

	columnar := NewColumnarBuffer(l)
	columnar.Resize(len(points))
	scratch := make([]byte, l.SizeOfPoint())
	for m := range l.Members() {
		member := &l.Members()[m]
		value := scratch[:member.Size()]
		for i := 0; i < interleaved.Len(); i++ {
			interleaved.GetAttributeMember(member, i, value)
			columnar.SetAttribute(member.AttributeDefinition(), i, value)
		}
	}

	back := NewVectorBufferWithCapacity(l, len(points))
	back.Resize(len(points))
	record := make([]byte, l.SizeOfPoint())
	for i := 0; i < columnar.Len(); i++ {
		columnar.GetPoint(i, record)
		back.SetPoint(i, record)
	}

	require.Equal(t, interleaved.Len(), back.Len())
	for i := 0; i < interleaved.Len(); i++ {
		assert.Equal(t, interleaved.GetPointRef(i), back.GetPointRef(i), "point %d", i)
	}
}
