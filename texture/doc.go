// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

/*
Package texture computes payload sizes for engine pixel formats and converts
texture payloads to and from non-premultiplied RGBA images.

Size rules:
  - uncompressed formats use a fixed bytes-per-pixel table;
  - block formats use ceil(w/bw) * ceil(h/bh) * blockBytes;
  - anything else is estimated at 16 bytes per pixel and reported as unknown.

Decode covers DXT1/DXT5/BC4/BC5 and the uncompressed families. Encode covers
RGBA32, ARGB32, BGRA32, RGB24, Alpha8, DXT1 and DXT5; ETC_RGB4 is written as
DXT1 and Encoded.Format records that. Every other format fails with
ErrUnsupported:

	img, err := texture.Decode(data, 256, 256, texture.FormatDXT5)
	if errors.Is(err, texture.ErrUnsupported) {
	    // skip asset
	}

	enc, err := texture.Encode(img, texture.FormatDXT5, texture.QualityBalanced, 9)
	if err != nil {
	    return err
	}
	_ = enc.Data
*/
package texture
