// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import "errors"

// Sentinel errors for texture operations. Use errors.Is in callers.
var (
	// ErrUnsupported means the format has no in-process codec path.
	ErrUnsupported = errors.New("unsupported texture format")
	// ErrShortData means the payload is smaller than the format requires.
	ErrShortData = errors.New("texture data shorter than expected")
	// ErrInvalidSize means width or height is zero or negative.
	ErrInvalidSize = errors.New("invalid texture dimensions")
	// ErrNilImage means the source image is nil.
	ErrNilImage = errors.New("image is nil")
)
