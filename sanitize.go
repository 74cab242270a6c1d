// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode"
)

const (
	// maxNameLen keeps a full key plus extension under common 255-byte limits.
	maxNameLen = 160
	// unnamedAsset replaces empty m_Name values.
	unnamedAsset = "unnamed"
)

// reservedDeviceNames contains case-insensitive Windows device names.
var reservedDeviceNames = func() map[string]struct{} {
	names := map[string]struct{}{
		"con":    {},
		"prn":    {},
		"aux":    {},
		"nul":    {},
		"clock$": {},
	}
	for i := 1; i <= 9; i++ {
		names["com"+strconv.Itoa(i)] = struct{}{}
		names["lpt"+strconv.Itoa(i)] = struct{}{}
	}

	return names
}()

// SanitizeName rewrites an asset or sub-file name into one file-system-safe segment.
// Separators, reserved punctuation and control runes become "_".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return unnamedAsset
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isUnsafeNameRune(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			b.WriteRune('_')
			continue
		}

		b.WriteRune(r)
	}

	sanitized := strings.TrimRight(b.String(), ". ")
	if sanitized == "" {
		return "_"
	}
	if isReservedDeviceName(sanitized) {
		sanitized = "_" + sanitized
	}
	if len(sanitized) > maxNameLen {
		sanitized = shortenNameDeterministic(sanitized, maxNameLen)
	}

	return sanitized
}

// assetKey builds the stable export key of one object.
func assetKey(name, subFile string, pathID int64) string {
	return SanitizeName(name) + "-" + SanitizeName(subFile) + "-" + strconv.FormatInt(pathID, 10)
}

// isUnsafeNameRune reports whether rune must not appear in file names.
func isUnsafeNameRune(r rune) bool {
	if unicode.IsControl(r) || unicode.In(r, unicode.Cf) {
		return true
	}

	// U+FFFD comes from invalid byte sequences in names.
	return r == '\uFFFD'
}

// isReservedDeviceName reports whether name, without extension, is a device name.
func isReservedDeviceName(name string) bool {
	candidate := strings.ToLower(strings.TrimSpace(name))
	if dot := strings.IndexByte(candidate, '.'); dot >= 0 {
		candidate = candidate[:dot]
	}
	if candidate == "" {
		return false
	}

	_, ok := reservedDeviceNames[candidate]
	return ok
}

// shortenNameDeterministic cuts value to maxLen keeping an fnv hash of the full value.
// The cut never splits a UTF-8 sequence.
func shortenNameDeterministic(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())

	prefixLen := max(maxLen-len(hashPart), 1)
	cut := 0
	for i := range value {
		if i > prefixLen {
			break
		}
		cut = i
	}

	return value[:cut] + hashPart
}
