// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"path"
	"strings"
)

// NormalizePath converts a native path to the logical slash-separated form.
// Every "\" becomes "/", a leading drive prefix "C:" is rewritten to "/C:",
// repeated separators, "." segments and trailing slashes are removed.
// Whitespace is part of a name and is kept. Relative paths stay relative; NormalizePath(NormalizePath(p)) == NormalizePath(p).
func NormalizePath(raw string) string {
	raw = strings.ReplaceAll(raw, `\`, `/`)
	if raw == "" {
		return ""
	}

	if hasDrivePrefix(raw) {
		raw = "/" + raw
	}

	raw = path.Clean(raw)
	if raw == "." {
		return ""
	}

	return raw
}

// NormalizeResource returns the resource form of p: normalized, with no
// leading or trailing slash.
func NormalizeResource(raw string) string {
	return strings.TrimPrefix(NormalizePath(raw), "/")
}

// IsAbs reports whether a normalized path is absolute in logical form.
func IsAbs(normalized string) bool {
	return strings.HasPrefix(normalized, "/")
}

// splitFirst splits a relative logical path into its first segment and the rest.
func splitFirst(rel string) (string, string) {
	first, rest, _ := strings.Cut(strings.TrimPrefix(rel, "/"), "/")
	return first, rest
}

// splitLast splits a relative logical path into its parent and leaf.
func splitLast(rel string) (string, string) {
	idx := strings.LastIndexByte(rel, '/')
	if idx < 0 {
		return "", rel
	}

	return rel[:idx], rel[idx+1:]
}

// trimRoot returns p relative to root when p lies strictly below root.
func trimRoot(p, root string) (string, bool) {
	if root == "" {
		return "", false
	}
	if root == "/" {
		rel := strings.TrimPrefix(p, "/")
		return rel, rel != "" && IsAbs(p)
	}

	rel, ok := strings.CutPrefix(p, root+"/")
	if !ok || rel == "" {
		return "", false
	}

	return rel, true
}

// hasDrivePrefix reports whether p starts with a drive designator like "C:".
func hasDrivePrefix(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	if len(p) > 2 && p[2] != '/' {
		return false
	}

	return isASCIIAlpha(p[0])
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// validPackage reports whether pkg is a single usable path segment.
func validPackage(pkg string) bool {
	switch pkg {
	case "", ".", "..":
		return false
	}

	return !strings.ContainsAny(pkg, `/\`) && !strings.ContainsRune(pkg, 0)
}

// validResource reports whether a normalized resource path stays below its package.
func validResource(res string) bool {
	if res == "" || strings.ContainsRune(res, 0) || hasDrivePrefix(res) {
		return false
	}

	for _, part := range strings.Split(res, "/") {
		if part == ".." {
			return false
		}
	}

	return true
}
