package containers

import (
	"cmp"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/pointcloud/layout"
	"github.com/gogpu/pointcloud/math/md3"
)

func TestPointViewAtAndIter(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	points := randomTestPoints(rng, 32)
	interleaved, columnar := newBuffers(t, points)

	for _, buffer := range []BorrowedBuffer{interleaved, columnar} {
		view := View[testPoint](buffer)
		require.Equal(t, len(points), view.Len())

		collected := slices.Collect(view.Points())
		require.Len(t, collected, len(points))
		for i := range points {
			assert.Equal(t, points[i], view.At(i))
			assert.Equal(t, view.At(i), collected[i])
		}
	}
}

func TestPointViewLayoutMismatchPanics(t *testing.T) {
	type otherPoint struct {
		Position md3.Vec `point:"Position3D"`
	}
	interleaved, _ := newBuffers(t, randomTestPoints(rand.New(rand.NewSource(11)), 4))
	assert.Panics(t, func() { View[otherPoint](interleaved) })
}

func TestPointRefView(t *testing.T) {
	points := randomTestPoints(rand.New(rand.NewSource(12)), 16)
	interleaved, _ := newBuffers(t, points)

	view := ViewRef[testPoint](interleaved)
	for i := range points {
		assert.Equal(t, points[i], *view.AtRef(i))
	}

	i := 0
	for p := range view.Refs() {
		assert.Equal(t, points[i], *p)
		i++
	}
	assert.Equal(t, len(points), i)
}

func TestPointViewMutSetAt(t *testing.T) {
	points := randomTestPoints(rand.New(rand.NewSource(13)), 8)
	interleaved, columnar := newBuffers(t, points)

	for _, buffer := range []BorrowedMutBuffer{interleaved, columnar} {
		view := ViewMut[testPoint](buffer)
		replacement := testPoint{Position: md3.Vec{X: -1}, Intensity: 11}
		view.SetAt(3, replacement)
		assert.Equal(t, replacement, view.At(3))
	}
}

func TestPointRefMutViewMutation(t *testing.T) {
	points := randomTestPoints(rand.New(rand.NewSource(14)), 8)
	interleaved, _ := newBuffers(t, points)

	view := ViewRefMut[testPoint](interleaved)
	view.AtMut(2).Intensity = 999
	assert.Equal(t, uint16(999), view.At(2).Intensity)

	for p := range view.Muts() {
		p.Class = 5
	}
	for i := 0; i < view.Len(); i++ {
		assert.Equal(t, uint8(5), view.At(i).Class)
	}
}

// Sorting must leave the multiset of points unchanged and order the
// sequence by the comparator; the sort is stable.
func TestSortBy(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	points := randomTestPoints(rng, 100)
	// Duplicate classes so stability is observable.
	for i := range points {
		points[i].Class = uint8(i % 7)
		points[i].Intensity = uint16(i)
	}
	interleaved, _ := newBuffers(t, points)

	view := ViewRefMut[testPoint](interleaved)
	view.SortBy(func(a, b testPoint) int {
		return cmp.Compare(a.Class, b.Class)
	})

	sorted := slices.Collect(view.Points())
	require.Len(t, sorted, len(points))
	assert.Equal(t, len(points), interleaved.Len())

	for i := 1; i < len(sorted); i++ {
		require.LessOrEqual(t, sorted[i-1].Class, sorted[i].Class)
		if sorted[i-1].Class == sorted[i].Class {
			// Stability: original order within equal keys.
			require.Less(t, sorted[i-1].Intensity, sorted[i].Intensity)
		}
	}

	want := slices.Clone(points)
	slices.SortFunc(want, func(a, b testPoint) int { return cmp.Compare(a.Intensity, b.Intensity) })
	got := slices.Clone(sorted)
	slices.SortFunc(got, func(a, b testPoint) int { return cmp.Compare(a.Intensity, b.Intensity) })
	assert.Equal(t, want, got, "sorting must not change the multiset of points")
}

func TestAttributeView(t *testing.T) {
	points := randomTestPoints(rand.New(rand.NewSource(16)), 24)
	interleaved, columnar := newBuffers(t, points)

	for _, buffer := range []BorrowedBuffer{interleaved, columnar} {
		view := ViewAttribute[uint16](buffer, layout.Intensity)
		values := slices.Collect(view.Values())
		require.Len(t, values, len(points))
		for i := range points {
			assert.Equal(t, points[i].Intensity, view.At(i))
			assert.Equal(t, points[i].Intensity, values[i])
		}
	}
}

func TestAttributeViewWrongTypePanics(t *testing.T) {
	interleaved, _ := newBuffers(t, randomTestPoints(rand.New(rand.NewSource(17)), 4))
	assert.Panics(t, func() { ViewAttribute[uint32](interleaved, layout.Intensity) })
	assert.Panics(t, func() { ViewAttribute[uint16](interleaved, layout.GPSTime) })
}

func TestAttributeRefViews(t *testing.T) {
	points := randomTestPoints(rand.New(rand.NewSource(18)), 12)
	_, columnar := newBuffers(t, points)

	view := ViewAttributeRef[uint16](columnar, layout.Intensity)
	for i := range points {
		assert.Equal(t, points[i].Intensity, *view.AtRef(i))
	}

	mut := ViewAttributeRefMut[uint16](columnar, layout.Intensity)
	for v := range mut.Muts() {
		*v = *v / 2
	}
	for i := range points {
		assert.Equal(t, points[i].Intensity/2, mut.At(i))
	}
}

func TestAttributeViewMutSetAt(t *testing.T) {
	points := randomTestPoints(rand.New(rand.NewSource(19)), 6)
	interleaved, columnar := newBuffers(t, points)

	for _, buffer := range []BorrowedMutBuffer{interleaved, columnar} {
		view := ViewAttributeMut[uint8](buffer, layout.Classification)
		view.SetAt(1, 42)
		assert.Equal(t, uint8(42), view.At(1))
	}
}

type intPositionPoint struct {
	Position [3]int32 `point:"Position3D"`
}

func TestConvertingAttributeView(t *testing.T) {
	l := layout.Of[intPositionPoint]()
	buffer := NewVectorBuffer(l)
	Push(buffer,
		intPositionPoint{Position: [3]int32{1, -2, 3}},
		intPositionPoint{Position: [3]int32{-40, 50, -60}},
	)

	view, err := ViewAttributeWithConversion[md3.Vec](buffer, layout.Position3D)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Len())
	assert.Equal(t, md3.Vec{X: 1, Y: -2, Z: 3}, view.At(0))
	assert.Equal(t, md3.Vec{X: -40, Y: 50, Z: -60}, view.At(1))

	collected := slices.Collect(view.Values())
	assert.Equal(t, []md3.Vec{{X: 1, Y: -2, Z: 3}, {X: -40, Y: 50, Z: -60}}, collected)
}

func TestConvertingViewNoConversion(t *testing.T) {
	type scalarPosition struct {
		Position float64 `point:"Position3D"`
	}
	buffer := NewVectorBuffer(layout.Of[scalarPosition]())
	Push(buffer, scalarPosition{Position: 1})

	// Scalar-stored positions cannot convert to a vector type.
	_, err := ViewAttributeWithConversion[md3.Vec](buffer, layout.Position3D)
	require.ErrorIs(t, err, ErrNoConversion)
}

func TestPushThroughTypedView(t *testing.T) {
	l := layout.Of[testPoint]()
	buffer := NewVectorBuffer(l)
	p := testPoint{Position: md3.Vec{X: 4}, Intensity: 2}
	Push(buffer, p)
	require.Equal(t, 1, buffer.Len())
	assert.Equal(t, p, View[testPoint](buffer).At(0))
}
