// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlipVertical(t *testing.T) {
	t.Parallel()

	src := patternImage(3, 4, false)
	flipped := FlipVertical(src)

	for y := range 4 {
		for x := range 3 {
			require.Equal(t, src.NRGBAAt(x, 3-y), flipped.NRGBAAt(x, y), "pixel (%d,%d) not mirrored", x, y)
		}
	}

	assert.Equal(t, src.Pix, FlipVertical(flipped).Pix, "double flip is not identity")
}

func TestToNRGBAConvertsAndRebases(t *testing.T) {
	t.Parallel()

	gray := image.NewGray(image.Rect(2, 3, 4, 5))
	gray.SetGray(2, 3, color.Gray{Y: 200})

	out := ToNRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 2, 2), out.Rect)
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, out.NRGBAAt(0, 0))

	same := patternImage(2, 2, false)
	assert.Same(t, same, ToNRGBA(same), "origin-anchored NRGBA was copied")
}

func TestSaveLoadPNGKeepsAlpha(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	src := patternImage(5, 3, false)

	require.NoError(t, SavePNG(path, src))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	got, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, got.Pix, "png round trip mismatch")

	require.NoError(t, SavePNG(path, src))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second, "png output is not deterministic")
}

func TestIsImagePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path string
		want bool
	}{
		{path: "a.png", want: true},
		{path: "a.PNG", want: true},
		{path: "dir/a.tiff", want: true},
		{path: "a.webp", want: true},
		{path: "a.json", want: false},
		{path: "a", want: false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, IsImagePath(tc.path), "IsImagePath(%q)", tc.path)
	}

	assert.ErrorIs(t, SavePNG(filepath.Join(t.TempDir(), "x.png"), nil), ErrNilImage)
}
