// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"math"
	"math/bits"
	"sync/atomic"
)

// unknownBytesPerPixel is the conservative estimate used for formats without a size rule.
const unknownBytesPerPixel = 16

// blockLayout describes one block-compressed footprint.
type blockLayout struct {
	width  int
	height int
	bytes  int
}

var (
	// bytesPerPixel holds uncompressed formats.
	bytesPerPixel = map[Format]int{
		FormatAlpha8:      1,
		FormatR8:          1,
		FormatARGB4444:    2,
		FormatRGBA4444:    2,
		FormatRGB565:      2,
		FormatR16:         2,
		FormatRG16:        2,
		FormatRHalf:       2,
		FormatYUY2:        2,
		FormatRGB24:       3,
		FormatRGBA32:      4,
		FormatARGB32:      4,
		FormatBGRA32:      4,
		FormatRGHalf:      4,
		FormatRFloat:      4,
		FormatRGB9e5Float: 4,
		FormatRG32:        4,
		FormatRGB48:       6,
		FormatRGBAHalf:    8,
		FormatRGFloat:     8,
		FormatRGBA64:      8,
		FormatRGBAFloat:   16,
	}

	// blockLayouts holds block-compressed formats.
	blockLayouts = map[Format]blockLayout{
		FormatDXT1:          {4, 4, 8},
		FormatBC4:           {4, 4, 8},
		FormatETCRGB4:       {4, 4, 8},
		FormatETCRGB43DS:    {4, 4, 8},
		FormatEACR:          {4, 4, 8},
		FormatEACRSigned:    {4, 4, 8},
		FormatDXT5:          {4, 4, 16},
		FormatBC5:           {4, 4, 16},
		FormatBC6H:          {4, 4, 16},
		FormatBC7:           {4, 4, 16},
		FormatEACRG:         {4, 4, 16},
		FormatEACRGSigned:   {4, 4, 16},
		FormatETC2RGB4:      {4, 4, 16},
		FormatETC2RGBA1:     {4, 4, 16},
		FormatETC2RGBA8:     {4, 4, 16},
		FormatETCRGBA83DS:   {4, 4, 16},
		FormatPVRTCRGB2:     {8, 4, 8},
		FormatPVRTCRGBA2:    {8, 4, 8},
		FormatPVRTCRGB4:     {4, 4, 8},
		FormatPVRTCRGBA4:    {4, 4, 8},
		FormatASTCRGB4x4:    {4, 4, 16},
		FormatASTCRGB5x5:    {5, 5, 16},
		FormatASTCRGB6x6:    {6, 6, 16},
		FormatASTCRGB8x8:    {8, 8, 16},
		FormatASTCRGB10x10:  {10, 10, 16},
		FormatASTCRGB12x12:  {12, 12, 16},
		FormatASTCRGBA4x4:   {4, 4, 16},
		FormatASTCRGBA5x5:   {5, 5, 16},
		FormatASTCRGBA6x6:   {6, 6, 16},
		FormatASTCRGBA8x8:   {8, 8, 16},
		FormatASTCRGBA10x10: {10, 10, 16},
		FormatASTCRGBA12x12: {12, 12, 16},
		FormatASTCHDR4x4:    {4, 4, 16},
		FormatASTCHDR5x5:    {5, 5, 16},
		FormatASTCHDR6x6:    {6, 6, 16},
		FormatASTCHDR8x8:    {8, 8, 16},
		FormatASTCHDR10x10:  {10, 10, 16},
		FormatASTCHDR12x12:  {12, 12, 16},
	}

	// unknownLookups counts ByteSize calls that fell back to the estimate.
	unknownLookups atomic.Uint64
)

// ByteSize returns the byte length of one image level of format f.
// It never fails; formats without a size rule use a 16 bytes-per-pixel estimate.
func ByteSize(f Format, width, height int) int {
	size, _ := ByteSizeKnown(f, width, height)
	return size
}

// ByteSizeKnown is ByteSize that also reports whether f has an exact size rule.
// When known is false the result is an estimate and may be wrong.
// A size that does not fit in int is clamped to math.MaxInt and reported as unknown.
func ByteSizeKnown(f Format, width, height int) (size int, known bool) {
	width = max(width, 0)
	height = max(height, 0)

	if bpp, ok := bytesPerPixel[f]; ok {
		return mulSize(bpp, width, height)
	}

	if layout, ok := blockLayouts[f]; ok {
		return mulSize(layout.bytes, ceilDiv(width, layout.width), ceilDiv(height, layout.height))
	}

	unknownLookups.Add(1)
	size, _ = mulSize(unknownBytesPerPixel, width, height)
	return size, false
}

// UnknownSizeLookups returns how many size lookups used the unknown-format estimate.
func UnknownSizeLookups() uint64 {
	return unknownLookups.Load()
}

// BlockFootprint returns block width, height and byte size for block formats.
func BlockFootprint(f Format) (width, height, size int, ok bool) {
	layout, ok := blockLayouts[f]
	if !ok {
		return 0, 0, 0, false
	}

	return layout.width, layout.height, layout.bytes, true
}

// MipChainSize sums ByteSize over mips levels, halving dimensions with a floor of 1.
func MipChainSize(f Format, width, height, mips int) int {
	total := 0
	for level := 0; level < max(mips, 1); level++ {
		n := ByteSize(f, width, height)
		if total > math.MaxInt-n {
			return math.MaxInt
		}
		total += n
		width = max(width/2, 1)
		height = max(height/2, 1)
	}

	return total
}

// ceilDiv divides rounding up for non-negative n and positive d.
func ceilDiv(n, d int) int {
	return n/d + min(n%d, 1)
}

// mulSize multiplies non-negative factors. On overflow it returns math.MaxInt and false.
func mulSize(factors ...int) (int, bool) {
	product := uint64(1)
	for _, f := range factors {
		hi, lo := bits.Mul64(product, uint64(f))
		if hi != 0 || lo > math.MaxInt {
			return math.MaxInt, false
		}
		product = lo
	}

	return int(product), true
}
