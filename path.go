// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"path"
	"strings"
)

// defaultBlobExt is used for blobs without a container path extension.
const defaultBlobExt = ".json"

// NormalizePath converts a container or staged path to normalized slash-separated form.
// It trims spaces, accepts both "/" and "\", removes leading "./" and "/", and cleans "." segments.
func NormalizePath(raw string) string {
	raw = normalizePathForMatching(raw)
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}

// normalizePathForMatching normalizes user/input paths for matcher use.
func normalizePathForMatching(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, `\`, `/`)
	return strings.TrimPrefix(p, "./")
}

// blobExtension returns the lower-case extension of a container path, or ".json".
func blobExtension(container string) string {
	ext := strings.ToLower(path.Ext(NormalizePath(container)))
	if ext == "" || ext == "." {
		return defaultBlobExt
	}

	return ext
}

// streamResourceName maps a stream path such as "archive:/CAB-x/CAB-x.resS" to a sub-file name.
func streamResourceName(streamPath string) string {
	return path.Base(NormalizePath(streamPath))
}

// stagedKey returns the asset key encoded in a staged file name.
func stagedKey(fileName string) string {
	base := path.Base(normalizePathForMatching(fileName))
	return strings.TrimSuffix(base, path.Ext(base))
}
