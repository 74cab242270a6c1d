// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"

	"github.com/woozymasta/bcn"
)

// pixelDecoder expands one source pixel into 4 bytes of non-premultiplied RGBA.
type pixelDecoder func(src, dst []byte)

var (
	// blockDecoders maps engine block formats onto bcn decoder formats.
	blockDecoders = map[Format]bcn.Format{
		FormatDXT1: bcn.FormatDXT1,
		FormatDXT5: bcn.FormatDXT5,
		FormatBC4:  bcn.FormatBC4,
		FormatBC5:  bcn.FormatBC5,
	}

	// pixelDecoders holds uncompressed formats with a per-pixel expansion.
	pixelDecoders = map[Format]pixelDecoder{
		FormatAlpha8: func(s, d []byte) { d[0], d[1], d[2], d[3] = 0xff, 0xff, 0xff, s[0] },
		FormatR8:     func(s, d []byte) { d[0], d[1], d[2], d[3] = s[0], 0, 0, 0xff },
		FormatR16:    func(s, d []byte) { d[0], d[1], d[2], d[3] = s[1], 0, 0, 0xff },
		FormatRG16:   func(s, d []byte) { d[0], d[1], d[2], d[3] = s[0], s[1], 0, 0xff },
		FormatRGB24:  func(s, d []byte) { d[0], d[1], d[2], d[3] = s[0], s[1], s[2], 0xff },
		FormatRGBA32: func(s, d []byte) { copy(d[:4], s[:4]) },
		FormatARGB32: func(s, d []byte) { d[0], d[1], d[2], d[3] = s[1], s[2], s[3], s[0] },
		FormatBGRA32: func(s, d []byte) { d[0], d[1], d[2], d[3] = s[2], s[1], s[0], s[3] },
		FormatRGB565: decodeRGB565,
		FormatARGB4444: func(s, d []byte) {
			v := binary.LittleEndian.Uint16(s)
			d[0], d[1], d[2], d[3] = nibble(v>>8), nibble(v>>4), nibble(v), nibble(v>>12)
		},
		FormatRGBA4444: func(s, d []byte) {
			v := binary.LittleEndian.Uint16(s)
			d[0], d[1], d[2], d[3] = nibble(v>>12), nibble(v>>8), nibble(v>>4), nibble(v)
		},
		FormatRHalf: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = unitToByte(halfAt(s, 0)), 0, 0, 0xff
		},
		FormatRGHalf: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = unitToByte(halfAt(s, 0)), unitToByte(halfAt(s, 1)), 0, 0xff
		},
		FormatRGBAHalf: func(s, d []byte) {
			for c := range 4 {
				d[c] = unitToByte(halfAt(s, c))
			}
		},
		FormatRFloat: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = unitToByte(floatAt(s, 0)), 0, 0, 0xff
		},
		FormatRGFloat: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = unitToByte(floatAt(s, 0)), unitToByte(floatAt(s, 1)), 0, 0xff
		},
		FormatRGBAFloat: func(s, d []byte) {
			for c := range 4 {
				d[c] = unitToByte(floatAt(s, c))
			}
		},
		FormatRGB9e5Float: decodeRGB9e5,
		FormatRG32: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = s[1], s[3], 0, 0xff
		},
		FormatRGB48: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = s[1], s[3], s[5], 0xff
		},
		FormatRGBA64: func(s, d []byte) {
			d[0], d[1], d[2], d[3] = s[1], s[3], s[5], s[7]
		},
	}
)

// CanDecode reports whether Decode has an in-process path for f.
func CanDecode(f Format) bool {
	if _, ok := blockDecoders[f]; ok {
		return true
	}

	_, ok := pixelDecoders[f]
	return ok
}

// Decode converts the first image level of data into non-premultiplied RGBA.
// Rows are returned in stored order; callers flip when they need top-down output.
func Decode(data []byte, width, height int, f Format) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if _, ok := mulSize(4, width, height); !ok {
		return nil, fmt.Errorf("%w: %dx%d overflows", ErrInvalidSize, width, height)
	}

	if f.IsCrunched() {
		return nil, fmt.Errorf("%w: %s (crunched)", ErrUnsupported, f)
	}

	if !CanDecode(f) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, f)
	}

	levelSize := ByteSize(f, width, height)
	if len(data) < levelSize {
		return nil, fmt.Errorf("%w: %s %dx%d needs %d bytes, got %d", ErrShortData, f, width, height, levelSize, len(data))
	}
	data = data[:levelSize]

	if bf, ok := blockDecoders[f]; ok {
		img, err := bcn.DecodeImageWithOptions(data, width, height, bf, nil)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f, err)
		}

		return ToNRGBA(img), nil
	}

	return decodePixels(data, width, height, f, pixelDecoders[f]), nil
}

// decodePixels expands every pixel of an uncompressed level.
func decodePixels(data []byte, width, height int, f Format, decode pixelDecoder) *image.NRGBA {
	bpp := bytesPerPixel[f]
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := range width * height {
		decode(data[i*bpp:(i+1)*bpp], img.Pix[i*4:i*4+4])
	}

	return img
}

// decodeRGB565 expands 5:6:5 packed color.
func decodeRGB565(s, d []byte) {
	v := binary.LittleEndian.Uint16(s)
	r := uint8(v>>11) & 0x1f
	g := uint8(v>>5) & 0x3f
	b := uint8(v) & 0x1f
	d[0], d[1], d[2], d[3] = r<<3|r>>2, g<<2|g>>4, b<<3|b>>2, 0xff
}

// decodeRGB9e5 expands shared-exponent 9:9:9:5 color.
func decodeRGB9e5(s, d []byte) {
	v := binary.LittleEndian.Uint32(s)
	scale := math.Ldexp(1, int(v>>27)-15-9)
	d[0] = unitToByte(float32(float64(v&0x1ff) * scale))
	d[1] = unitToByte(float32(float64((v>>9)&0x1ff) * scale))
	d[2] = unitToByte(float32(float64((v>>18)&0x1ff) * scale))
	d[3] = 0xff
}

// nibble scales the low 4 bits of v to 8 bits.
func nibble(v uint16) uint8 {
	return uint8(v&0x0f) * 17
}

// halfAt reads the c-th little-endian half float of s.
func halfAt(s []byte, c int) float32 {
	return halfToFloat32(binary.LittleEndian.Uint16(s[c*2:]))
}

// floatAt reads the c-th little-endian float32 of s.
func floatAt(s []byte, c int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(s[c*4:]))
}

// unitToByte maps [0,1] to [0,255], clamping out-of-range and NaN values.
func unitToByte(v float32) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 0xff
	}

	return uint8(v*255 + 0.5)
}

// halfToFloat32 converts an IEEE 754 binary16 value.
func halfToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	frac := uint32(h) & 0x3ff

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// subnormal
		f := float32(frac) / 1024 / 16384
		if sign != 0 {
			return -f
		}
		return f
	case 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | frac<<13)
	default:
		return math.Float32frombits(sign | (exp+112)<<23 | frac<<13)
	}
}
