// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extractTempPattern names temporary directories created for extracted entries.
const extractTempPattern = "pkgres-"

// extractToTemp writes one archive entry under a fresh temporary directory,
// keeping the entry's relative directory layout, and returns the absolute
// file path. Segments unsafe for the local filesystem are rewritten. The
// directory is removed again when writing fails.
func extractToTemp(stored string, data []byte) (string, error) {
	rel, err := normalizeExtractEntryPath(stored)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", stored, err)
	}

	dir, err := os.MkdirTemp("", extractTempPattern)
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	outPath, err := writeExtractFile(dir, sanitizeExtractPath(rel), data)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("extract %s: %w", stored, err)
	}

	return outPath, nil
}

// writeExtractFile writes data to root/rel, creating parent directories.
func writeExtractFile(root, rel string, data []byte) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}

	outPath := filepath.Join(rootAbs, filepath.FromSlash(rel))
	if err := EnsureDir(filepath.Dir(outPath)); err != nil {
		return "", err
	}

	if err := os.WriteFile(outPath, data, 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", outPath, err)
	}

	return outPath, nil
}

// normalizeExtractEntryPath validates an archive entry name and converts it
// to a safe relative slash path. Absolute names, drive prefixes, NUL bytes
// and ".." segments are rejected.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := entryPath
	if strings.TrimSpace(raw) == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if strings.HasPrefix(raw, "/") || hasDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, "/")
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, "/"), nil
}
