// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"encoding/binary"
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/bcn"
)

// patternImage builds a deterministic image; opaque forces alpha to 255.
func patternImage(w, h int, opaque bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range w * h {
		img.Pix[i*4+0] = uint8(i * 7)
		img.Pix[i*4+1] = uint8(i*13 + 5)
		img.Pix[i*4+2] = uint8(255 - i*3)
		img.Pix[i*4+3] = uint8(i*29 + 1)
		if opaque {
			img.Pix[i*4+3] = 0xff
		}
	}

	return img
}

// alphaOnlyImage builds a white image with varying alpha.
func alphaOnlyImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range w * h {
		img.Pix[i*4+0], img.Pix[i*4+1], img.Pix[i*4+2] = 0xff, 0xff, 0xff
		img.Pix[i*4+3] = uint8(i * 17)
	}

	return img
}

func TestUncompressedRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		format Format
		build  func(w, h int) *image.NRGBA
	}{
		{name: "rgba32", format: FormatRGBA32, build: func(w, h int) *image.NRGBA { return patternImage(w, h, false) }},
		{name: "argb32", format: FormatARGB32, build: func(w, h int) *image.NRGBA { return patternImage(w, h, false) }},
		{name: "bgra32", format: FormatBGRA32, build: func(w, h int) *image.NRGBA { return patternImage(w, h, false) }},
		{name: "rgb24", format: FormatRGB24, build: func(w, h int) *image.NRGBA { return patternImage(w, h, true) }},
		{name: "alpha8", format: FormatAlpha8, build: alphaOnlyImage},
	}

	dims := [][2]int{{1, 1}, {2, 2}, {3, 5}, {16, 9}}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			for _, d := range dims {
				src := tc.build(d[0], d[1])
				data, written, err := EncodeLevel(src, tc.format, QualityBalanced)
				require.NoError(t, err, "EncodeLevel(%dx%d)", d[0], d[1])
				require.Equal(t, tc.format, written)
				require.Len(t, data, ByteSize(tc.format, d[0], d[1]))

				got, err := Decode(data, d[0], d[1], tc.format)
				require.NoError(t, err, "Decode(%dx%d)", d[0], d[1])
				require.Equal(t, src.Pix, got.Pix, "round trip mismatch for %dx%d", d[0], d[1])
			}
		})
	}
}

func TestDecodeChannelOrder(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		format Format
		data   []byte
		want   [4]byte
	}{
		{name: "bgra32", format: FormatBGRA32, data: []byte{1, 2, 3, 4}, want: [4]byte{3, 2, 1, 4}},
		{name: "argb32", format: FormatARGB32, data: []byte{4, 1, 2, 3}, want: [4]byte{1, 2, 3, 4}},
		{name: "rgb565-white", format: FormatRGB565, data: []byte{0xff, 0xff}, want: [4]byte{255, 255, 255, 255}},
		{name: "rgb565-red", format: FormatRGB565, data: []byte{0x00, 0xf8}, want: [4]byte{255, 0, 0, 255}},
		{name: "argb4444", format: FormatARGB4444, data: []byte{0x0f, 0xf0}, want: [4]byte{0, 0, 255, 255}},
		{name: "rgba4444", format: FormatRGBA4444, data: []byte{0x0f, 0xf0}, want: [4]byte{255, 0, 0, 255}},
		{name: "r8", format: FormatR8, data: []byte{9}, want: [4]byte{9, 0, 0, 255}},
		{name: "rg16", format: FormatRG16, data: []byte{9, 8}, want: [4]byte{9, 8, 0, 255}},
		{name: "r16", format: FormatR16, data: []byte{0x00, 0x80}, want: [4]byte{128, 0, 0, 255}},
		{name: "rhalf-one", format: FormatRHalf, data: []byte{0x00, 0x3c}, want: [4]byte{255, 0, 0, 255}},
		{name: "rgba64", format: FormatRGBA64, data: []byte{0, 1, 0, 2, 0, 3, 0, 4}, want: [4]byte{1, 2, 3, 4}},
		{name: "rgb9e5-one", format: FormatRGB9e5Float, data: le32(1<<8 | 16<<27), want: [4]byte{255, 0, 0, 255}},
	}

	for _, tc := range testCases {
		got, err := Decode(tc.data, 1, 1, tc.format)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, [4]byte(got.Pix[:4]), tc.name)
	}
}

func TestDecodeFloatFormats(t *testing.T) {
	t.Parallel()

	data := make([]byte, 16)
	binary.LittleEndian.PutUint32(data[0:], math.Float32bits(1))
	binary.LittleEndian.PutUint32(data[4:], math.Float32bits(0.5))
	binary.LittleEndian.PutUint32(data[8:], math.Float32bits(-3))
	binary.LittleEndian.PutUint32(data[12:], math.Float32bits(7))

	got, err := Decode(data, 1, 1, FormatRGBAFloat)
	require.NoError(t, err)
	assert.Equal(t, [4]byte{255, 128, 0, 255}, [4]byte(got.Pix[:4]))
}

func TestHalfToFloat32(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   uint16
		want float32
	}{
		{in: 0x0000, want: 0},
		{in: 0x3c00, want: 1},
		{in: 0x3800, want: 0.5},
		{in: 0xc000, want: -2},
		{in: 0x7bff, want: 65504},
		{in: 0x0001, want: float32(math.Ldexp(1, -24))},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, halfToFloat32(tc.in), "halfToFloat32(%#04x)", tc.in)
	}

	assert.True(t, math.IsInf(float64(halfToFloat32(0x7c00)), 1), "halfToFloat32(0x7c00) is not +Inf")
}

func TestDecodeUnsupported(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{
		FormatASTCRGB4x4, FormatETC2RGBA8, FormatPVRTCRGBA4, FormatETCRGB4,
		FormatDXT1Crunched, FormatETC2RGBA8Crunched, FormatBC7, FormatYUY2, Format(999),
	} {
		_, err := Decode(make([]byte, 4096), 16, 16, f)
		require.ErrorIs(t, err, ErrUnsupported, "Decode(%s)", f)
		require.False(t, CanDecode(f), "CanDecode(%s)", f)
	}
}

func TestDecodeValidation(t *testing.T) {
	t.Parallel()

	_, err := Decode(make([]byte, 15), 2, 2, FormatRGBA32)
	require.ErrorIs(t, err, ErrShortData)

	_, err = Decode(nil, 0, 2, FormatRGBA32)
	require.ErrorIs(t, err, ErrInvalidSize)

	// Trailing mip data is ignored.
	src := patternImage(2, 2, false)
	data := append(append([]byte(nil), src.Pix...), 1, 2, 3, 4)
	got, err := Decode(data, 2, 2, FormatRGBA32)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, got.Pix, "base level mismatch")
}

func TestDecodeHugeDimensions(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		format Format
		w, h   int
		want   error
	}{
		{name: "pixel count overflow", format: FormatRGBA32, w: 1 << 31, h: 1 << 31, want: ErrInvalidSize},
		{name: "max int width", format: FormatAlpha8, w: math.MaxInt, h: 1, want: ErrInvalidSize},
		{name: "block overflow", format: FormatDXT1, w: 1 << 40, h: 1 << 40, want: ErrInvalidSize},
		{name: "fits but short", format: FormatAlpha8, w: 1 << 20, h: 1 << 20, want: ErrShortData},
	}

	for _, tc := range testCases {
		assert.NotPanics(t, func() {
			_, err := Decode(make([]byte, 16), tc.w, tc.h, tc.format)
			assert.ErrorIs(t, err, tc.want, tc.name)
		}, tc.name)
	}
}

func TestEncodeBlockFormats(t *testing.T) {
	t.Parallel()

	src := patternImage(8, 8, false)
	for _, f := range []Format{FormatDXT1, FormatDXT5} {
		data, written, err := EncodeLevel(src, f, QualityBalanced)
		require.NoError(t, err, "EncodeLevel(%s)", f)
		require.Equal(t, f, written)
		require.Len(t, data, ByteSize(f, 8, 8))

		img, err := Decode(data, 8, 8, f)
		require.NoError(t, err, "Decode(%s)", f)
		assert.Equal(t, image.Rect(0, 0, 8, 8), img.Rect)
	}
}

func TestBcnOptionsQualityTiers(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		quality int
		want    int
	}{
		{quality: QualityFast, want: bcn.QualityLevelFast},
		{quality: QualityBalanced - 1, want: bcn.QualityLevelFast},
		{quality: QualityBalanced, want: bcn.QualityLevelBalanced},
		{quality: 0, want: bcn.QualityLevelBalanced},
		{quality: QualityBest - 1, want: bcn.QualityLevelBalanced},
		{quality: QualityBest, want: bcn.QualityLevelBest},
	}

	for _, tc := range testCases {
		assert.EqualValues(t, tc.want, bcnOptions(tc.quality).QualityLevel, "quality %d", tc.quality)
	}
}

func TestEncodeSubstitutesETC(t *testing.T) {
	t.Parallel()

	enc, err := Encode(patternImage(64, 64, true), FormatETCRGB4, QualityBalanced, 1)
	require.NoError(t, err)
	assert.Equal(t, FormatDXT1, enc.Format)
	assert.True(t, enc.Substituted(FormatETCRGB4))
	assert.Len(t, enc.Data, ByteSize(FormatDXT1, 64, 64))
}

func TestEncodeUnsupported(t *testing.T) {
	t.Parallel()

	for _, f := range []Format{FormatASTCRGB4x4, FormatBC7, FormatR8, FormatRGBAHalf} {
		_, err := Encode(patternImage(4, 4, false), f, QualityBalanced, 1)
		require.ErrorIs(t, err, ErrUnsupported, "Encode(%s)", f)
		require.False(t, CanEncode(f), "CanEncode(%s)", f)
	}
}

func TestEncodeMipChain(t *testing.T) {
	t.Parallel()

	enc, err := Encode(patternImage(4, 4, false), FormatRGBA32, QualityBalanced, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, enc.MipCount)
	assert.Len(t, enc.Data, MipChainSize(FormatRGBA32, 4, 4, 3))

	// Non-square input drops to a single level.
	enc, err = Encode(patternImage(8, 4, false), FormatRGBA32, QualityBalanced, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, enc.MipCount)
	assert.Len(t, enc.Data, 8*4*4)
}

func TestClampMipCount(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		w, h, mips int
		want       int
	}{
		{w: 64, h: 64, mips: 7, want: 7},
		{w: 64, h: 64, mips: 20, want: 7},
		{w: 64, h: 32, mips: 7, want: 1},
		{w: 48, h: 48, mips: 3, want: 1},
		{w: 1, h: 1, mips: 3, want: 1},
		{w: 16, h: 16, mips: 0, want: 1},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, ClampMipCount(tc.w, tc.h, tc.mips), "ClampMipCount(%d,%d,%d)", tc.w, tc.h, tc.mips)
	}
}

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
