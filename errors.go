// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import "errors"

// Sentinel errors for patch sessions. Use errors.Is in callers.
var (
	// ErrFatalIO means the source archive is unreadable or the output is unwritable.
	ErrFatalIO = errors.New("fatal archive I/O")
	// ErrUnsupportedFormat means a texture format has no codec path.
	ErrUnsupportedFormat = errors.New("unsupported texture format")
	// ErrDecodeFailure means an asset or staged file could not be decoded.
	ErrDecodeFailure = errors.New("decode failure")
	// ErrKeyMismatch means a staged file has no matching asset key.
	ErrKeyMismatch = errors.New("no asset matches staged file")
	// ErrInvalidState means an operation was called out of pipeline order.
	ErrInvalidState = errors.New("operation not allowed in current session state")
	// ErrInvalidConfig means configuration values are invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNilSession means the session is nil.
	ErrNilSession = errors.New("session is nil")
)
