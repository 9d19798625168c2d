// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"fmt"
	"hash/fnv"
	"strings"
	"unicode"
)

// maxExtractSegmentLen limits one extracted path segment to a common filesystem-safe length.
const maxExtractSegmentLen = 240

// reservedDeviceNames are the case-insensitive DOS/Windows device names.
var reservedDeviceNames = map[string]struct{}{
	"aux": {}, "clock$": {}, "con": {}, "nul": {}, "prn": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// sanitizeExtractPath rewrites every segment of a validated relative slash
// path so it can be created on any common filesystem.
func sanitizeExtractPath(rel string) string {
	parts := strings.Split(rel, "/")
	for i, part := range parts {
		parts[i] = sanitizeExtractSegment(part)
	}

	return strings.Join(parts, "/")
}

// sanitizeExtractSegment replaces characters Windows rejects, trims trailing
// dots and spaces, prefixes reserved device names and shortens long names.
func sanitizeExtractSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for _, r := range segment {
		if isUnsafeNameRune(r) || strings.ContainsRune(`<>:"|?*`, r) {
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

	return shortenSegment(sanitized, maxExtractSegmentLen)
}

// isUnsafeNameRune reports whether r is a control, format or replacement rune.
func isUnsafeNameRune(r rune) bool {
	return unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == unicode.ReplacementChar
}

// isReservedDeviceName reports whether the part of name before the first dot is a device name.
func isReservedDeviceName(name string) bool {
	base, _, _ := strings.Cut(strings.ToLower(name), ".")
	_, ok := reservedDeviceNames[strings.TrimRight(base, " ")]
	return ok
}

// shortenSegment cuts value to maxLen bytes keeping a stable hash suffix.
func shortenSegment(value string, maxLen int) string {
	if len(value) <= maxLen {
		return value
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(value))
	hashPart := fmt.Sprintf("~%08x", h.Sum32())

	return strings.ToValidUTF8(value[:maxLen-len(hashPart)], "") + hashPart
}
