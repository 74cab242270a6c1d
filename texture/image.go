// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoder for staged images
	_ "image/png"  // register decoder for staged images
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/bmp"  // register decoder for staged images
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff" // register decoder for staged images
	_ "golang.org/x/image/webp" // register decoder for staged images
)

// imageExtensions lists staged file extensions accepted as texture sources.
var imageExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

// IsImagePath reports whether path has an extension LoadImage can decode.
func IsImagePath(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadImage decodes an image file into non-premultiplied RGBA.
func LoadImage(path string) (*image.NRGBA, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}

	return ToNRGBA(img), nil
}

// SavePNG writes img to path as PNG, replacing any existing file.
func SavePNG(path string, img image.Image) error {
	if img == nil {
		return ErrNilImage
	}

	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}

	return nil
}

// ToNRGBA returns img as *image.NRGBA anchored at the origin, converting when needed.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}

	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)

	return out
}

// FlipVertical returns a copy of img with rows in reverse order.
func FlipVertical(img *image.NRGBA) *image.NRGBA {
	src := ToNRGBA(img)
	h := src.Rect.Dy()
	rowLen := src.Rect.Dx() * 4

	out := image.NewNRGBA(src.Rect)
	for y := range h {
		copy(out.Pix[y*out.Stride:y*out.Stride+rowLen], src.Pix[(h-1-y)*src.Stride:(h-1-y)*src.Stride+rowLen])
	}

	return out
}
