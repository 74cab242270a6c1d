// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/anthonynsimon/bild/transform"
	"github.com/woozymasta/bcn"
)

// Encoder quality tiers accepted by Encode and EncodeLevel.
const (
	QualityFast     = 1
	QualityBalanced = 5
	QualityBest     = 10
)

var (
	// blockEncoders maps engine block formats onto bcn encoder formats.
	blockEncoders = map[Format]bcn.Format{
		FormatDXT1: bcn.FormatDXT1,
		FormatDXT5: bcn.FormatDXT5,
	}

	// encodeSubstitutes re-targets formats without an encoder to the nearest supported one.
	encodeSubstitutes = map[Format]Format{
		FormatETCRGB4: FormatDXT1,
	}
)

// Encoded is one encoded texture payload including its mip chain.
type Encoded struct {
	// Data holds all mip levels, largest first.
	Data []byte `json:"-" yaml:"-"`
	// Format is the format actually written; it differs from the request on substitution.
	Format Format `json:"format" yaml:"format"`
	// Width of the base level.
	Width int `json:"width" yaml:"width"`
	// Height of the base level.
	Height int `json:"height" yaml:"height"`
	// MipCount is the number of levels in Data after clamping.
	MipCount int `json:"mip_count" yaml:"mip_count"`
}

// Substituted reports whether encoding re-targeted requested to another format.
func (e Encoded) Substituted(requested Format) bool {
	return e.Format != requested
}

// EncodeTarget returns the format Encode writes for requested.
func EncodeTarget(requested Format) Format {
	if sub, ok := encodeSubstitutes[requested]; ok {
		return sub
	}

	return requested
}

// CanEncode reports whether Encode has a path for requested, substitution included.
func CanEncode(requested Format) bool {
	switch EncodeTarget(requested) {
	case FormatRGBA32, FormatARGB32, FormatBGRA32, FormatRGB24, FormatAlpha8:
		return true
	default:
		_, ok := blockEncoders[EncodeTarget(requested)]
		return ok
	}
}

// ClampMipCount limits mips to 1 unless the base level is square and a power of two.
func ClampMipCount(width, height, mips int) int {
	if mips < 1 || width != height || width <= 0 || bits.OnesCount(uint(width)) != 1 {
		return 1
	}

	return min(mips, bits.Len(uint(width)))
}

// Encode encodes img into requested format with a mip chain of up to mipCount levels.
// Every level after the first is resized from img to half the previous size.
func Encode(img *image.NRGBA, requested Format, quality, mipCount int) (Encoded, error) {
	if img == nil {
		return Encoded{}, ErrNilImage
	}

	base := ToNRGBA(img)
	width, height := base.Rect.Dx(), base.Rect.Dy()
	if width <= 0 || height <= 0 {
		return Encoded{}, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	target := EncodeTarget(requested)
	mips := ClampMipCount(width, height, mipCount)
	out := make([]byte, 0, MipChainSize(target, width, height, mips))

	level := base
	for i := range mips {
		if i > 0 {
			lw, lh := width>>i, height>>i
			if lw < 1 || lh < 1 {
				mips = i
				break
			}
			level = ToNRGBA(transform.Resize(base, lw, lh, transform.Linear))
		}

		data, _, err := EncodeLevel(level, requested, quality)
		if err != nil {
			return Encoded{}, err
		}
		out = append(out, data...)
	}

	return Encoded{
		Data:     out,
		Format:   target,
		Width:    width,
		Height:   height,
		MipCount: mips,
	}, nil
}

// EncodeLevel encodes one image level and returns the bytes with the format written.
func EncodeLevel(img *image.NRGBA, requested Format, quality int) ([]byte, Format, error) {
	if img == nil {
		return nil, FormatUnknown, ErrNilImage
	}

	src := ToNRGBA(img)
	target := EncodeTarget(requested)

	switch target {
	case FormatRGBA32:
		return append([]byte(nil), src.Pix...), target, nil
	case FormatARGB32:
		return projectPixels(src, 4, func(p, d []byte) { d[0], d[1], d[2], d[3] = p[3], p[0], p[1], p[2] }), target, nil
	case FormatBGRA32:
		return projectPixels(src, 4, func(p, d []byte) { d[0], d[1], d[2], d[3] = p[2], p[1], p[0], p[3] }), target, nil
	case FormatRGB24:
		return projectPixels(src, 3, func(p, d []byte) { d[0], d[1], d[2] = p[0], p[1], p[2] }), target, nil
	case FormatAlpha8:
		return projectPixels(src, 1, func(p, d []byte) { d[0] = p[3] }), target, nil
	}

	bf, ok := blockEncoders[target]
	if !ok {
		return nil, FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupported, requested)
	}

	data, _, _, err := bcn.EncodeImageWithOptions(src, bf, bcnOptions(quality))
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("encode %s: %w", target, err)
	}

	return data, target, nil
}

// projectPixels writes bpp bytes per pixel produced by project from each RGBA pixel.
func projectPixels(src *image.NRGBA, bpp int, project func(p, d []byte)) []byte {
	n := src.Rect.Dx() * src.Rect.Dy()
	out := make([]byte, n*bpp)
	for i := range n {
		project(src.Pix[i*4:i*4+4], out[i*bpp:(i+1)*bpp])
	}

	return out
}

// bcnOptions maps a quality tier onto bcn encoder options with mip generation off.
func bcnOptions(quality int) *bcn.EncodeOptions {
	switch {
	case quality > 0 && quality < QualityBalanced:
		return &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelFast}
	case quality >= QualityBest:
		return &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelBest}
	default:
		return &bcn.EncodeOptions{QualityLevel: bcn.QualityLevelBalanced}
	}
}
