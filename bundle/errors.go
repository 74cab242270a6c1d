// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import "errors"

// Sentinel errors for bundle operations. Use errors.Is in callers.
var (
	// ErrInvalidHeader means the bundle signature or version is wrong.
	ErrInvalidHeader = errors.New("invalid bundle: missing or bad header")
	// ErrTruncated means a table or payload ends before its declared size.
	ErrTruncated = errors.New("bundle data truncated")
	// ErrSizeOverflow means a size exceeds the range of its on-disk field.
	ErrSizeOverflow = errors.New("size exceeds field range")
	// ErrUnknownCompression means a block uses an unknown compression scheme.
	ErrUnknownCompression = errors.New("unknown block compression")
	// ErrBlockSizeMismatch means a block decompressed to an unexpected size.
	ErrBlockSizeMismatch = errors.New("block decompressed size mismatch")
	// ErrNodeOutOfRange means a directory node points outside the data stream.
	ErrNodeOutOfRange = errors.New("node outside data stream")
	// ErrSubFileNotFound means no sub-file has the requested name.
	ErrSubFileNotFound = errors.New("sub-file not found")
	// ErrInvalidAssetsFile means a serialized assets file header or table is malformed.
	ErrInvalidAssetsFile = errors.New("invalid serialized assets file")
	// ErrInvalidFieldTree means a field tree payload is malformed.
	ErrInvalidFieldTree = errors.New("invalid field tree")
	// ErrFieldNotFound means a required field is missing from a tree.
	ErrFieldNotFound = errors.New("field not found")
	// ErrFieldKind means a field has a different kind than requested.
	ErrFieldKind = errors.New("unexpected field kind")
)
