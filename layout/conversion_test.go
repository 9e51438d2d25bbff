package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterRequiresSameName(t *testing.T) {
	assert.Nil(t, GetConverterForAttributes(Intensity, Classification.WithCustomDatatype(U16)))
}

func TestIdentityConverterIsCopy(t *testing.T) {
	conv := GetConverterForAttributes(Intensity, Intensity)
	require.NotNil(t, conv)

	src := []byte{0x34, 0x12}
	dst := make([]byte, 2)
	conv(src, dst)
	assert.Equal(t, src, dst)
}

func TestScalarVectorMismatch(t *testing.T) {
	assert.Nil(t, GetConverterForAttributes(
		Position3D,
		Position3D.WithCustomDatatype(F64),
	))
	assert.Nil(t, GetConverterForAttributes(
		Intensity,
		Intensity.WithCustomDatatype(Vec3U16),
	))
}

func TestScalarConversionValues(t *testing.T) {
	attr := NewAttribute("Value", InvalidDataType)

	convert := func(from, to PointAttributeDataType, src []byte, dstSize int) []byte {
		t.Helper()
		conv := GetConverterForAttributes(
			attr.WithCustomDatatype(from), attr.WithCustomDatatype(to))
		require.NotNil(t, conv, "converter %s -> %s", from, to)
		dst := make([]byte, dstSize)
		conv(src, dst)
		return dst
	}

	t.Run("widening unsigned", func(t *testing.T) {
		got := convert(U8, U32, []byte{200}, 4)
		assert.Equal(t, []byte{200, 0, 0, 0}, got)
	})

	t.Run("narrowing wraps", func(t *testing.T) {
		// 0x1234 as u8 keeps the low byte, like a Go conversion.
		got := convert(U16, U8, []byte{0x34, 0x12}, 1)
		assert.Equal(t, []byte{0x34}, got)
	})

	t.Run("signed to unsigned wraps", func(t *testing.T) {
		got := convert(I8, U16, []byte{0xFB}, 2) // -5
		assert.Equal(t, []byte{0xFB, 0xFF}, got) // 0xFFFB
	})

	t.Run("integer to float", func(t *testing.T) {
		got := convert(I16, F64, []byte{0xFB, 0xFF}, 8) // -5
		assert.Equal(t, -5.0, scalarAt[float64](got))
	})

	t.Run("float to integer truncates", func(t *testing.T) {
		var src [8]byte
		putScalar(src[:], 3.9)
		got := convert(F64, I32, src[:], 4)
		assert.Equal(t, int32(3), scalarAt[int32](got))

		putScalar(src[:], -3.9)
		got = convert(F64, I32, src[:], 4)
		assert.Equal(t, int32(-3), scalarAt[int32](got))
	})

	t.Run("float widening", func(t *testing.T) {
		var src [4]byte
		putScalar(src[:], float32(1.5))
		got := convert(F32, F64, src[:], 8)
		assert.Equal(t, 1.5, scalarAt[float64](got))
	})
}

func TestVectorConversionComponentwise(t *testing.T) {
	conv := GetConverterForAttributes(
		ColorRGB,
		ColorRGB.WithCustomDatatype(Vec3F32),
	)
	require.NotNil(t, conv)

	var src [6]byte
	putScalar(src[0:], uint16(1))
	putScalar(src[2:], uint16(2))
	putScalar(src[4:], uint16(65535))
	dst := make([]byte, 12)
	conv(src[:], dst)
	assert.Equal(t, float32(1), scalarAt[float32](dst[0:]))
	assert.Equal(t, float32(2), scalarAt[float32](dst[4:]))
	assert.Equal(t, float32(65535), scalarAt[float32](dst[8:]))
}

// Round trips through a wider type must be the identity as long as the
// value fits the destination range.
func TestConversionRoundTrips(t *testing.T) {
	attr := NewAttribute("Value", InvalidDataType)
	pairs := []struct {
		narrow, wide PointAttributeDataType
	}{
		{U8, U16}, {U8, I32}, {U16, U64}, {U16, F32},
		{I8, I16}, {I8, F64}, {I16, I64}, {I32, F64},
		{U32, U64}, {F32, F64},
	}
	for _, p := range pairs {
		up := GetConverterForAttributes(attr.WithCustomDatatype(p.narrow), attr.WithCustomDatatype(p.wide))
		down := GetConverterForAttributes(attr.WithCustomDatatype(p.wide), attr.WithCustomDatatype(p.narrow))
		require.NotNil(t, up, "%s -> %s", p.narrow, p.wide)
		require.NotNil(t, down, "%s -> %s", p.wide, p.narrow)

		src := make([]byte, p.narrow.Size())
		mid := make([]byte, p.wide.Size())
		back := make([]byte, p.narrow.Size())
		for _, fill := range []byte{0x00, 0x01, 0x42} {
			for i := range src {
				src[i] = fill
			}
			up(src, mid)
			down(mid, back)
			assert.Equal(t, src, back, "round trip %s -> %s -> %s of %#x", p.narrow, p.wide, p.narrow, fill)
		}
	}
}
