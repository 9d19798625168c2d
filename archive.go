// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Format reads one family of package archives.
// Implementations open the archive on every call and keep no state, so one
// Format value may serve concurrent callers.
type Format interface {
	// Name returns a short format name for logs.
	Name() string
	// Entries returns every entry name exactly as stored, in archive order.
	Entries(ctx context.Context, archivePath string) ([]string, error)
	// Read returns the content of the entry with the stored name.
	Read(ctx context.Context, archivePath, name string) ([]byte, error)
}

// ListArchiveEntries returns every entry name of an archive, unfiltered and
// as stored. A missing archive yields an empty list and no error; an archive
// that cannot be opened yields an error wrapping ErrMalformedArchive.
func ListArchiveEntries(ctx context.Context, format Format, archivePath string) ([]string, error) {
	if format == nil {
		return nil, ErrUnknownFormat
	}

	exists, err := regularFileExists(archivePath)
	if err != nil || !exists {
		return nil, err
	}

	entries, err := format.Entries(ctx, archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedArchive, archivePath, err)
	}

	return entries, nil
}

// ReadArchiveEntry reads one entry of an archive according to opts.
//
// With opts.Recursive the entry is any stored name ending with name; an exact
// match wins, otherwise the lexicographically smallest candidate is used.
// With opts.GetPath the entry is extracted into a fresh temporary directory
// and Resource.Path holds its absolute path; the caller owns that directory.
// A missing archive or entry reports ok == false with a nil error.
func ReadArchiveEntry(ctx context.Context, format Format, archivePath, name string, opts FetchOptions) (Resource, bool, error) {
	opts.applyDefaults()

	entries, err := ListArchiveEntries(ctx, format, archivePath)
	if err != nil || entries == nil {
		return Resource{}, false, err
	}

	stored, ok := selectEntry(entries, name, opts.Recursive)
	if !ok {
		return Resource{}, false, nil
	}

	data, err := format.Read(ctx, archivePath, stored)
	if errors.Is(err, errEntryNotFound) {
		return Resource{}, false, nil
	}
	if err != nil {
		return Resource{}, false, fmt.Errorf("%w: %s: read %s: %w", ErrMalformedArchive, archivePath, stored, err)
	}

	res := Resource{Name: NormalizeResource(stored)}
	if opts.GetPath {
		res.Path, err = extractToTemp(stored, data)
		if err != nil {
			return Resource{}, false, err
		}

		return res, true, nil
	}

	if err := res.setContent(data, opts); err != nil {
		return Resource{}, false, err
	}

	return res, true, nil
}

// selectEntry picks the stored entry name that serves a lookup.
// Directory entries never match.
func selectEntry(entries []string, name string, recursive bool) (string, bool) {
	want := NormalizeResource(name)
	if want == "" {
		return "", false
	}

	best := ""
	bestNormalized := ""
	for _, stored := range entries {
		if isDirEntry(stored) {
			continue
		}

		normalized := NormalizeResource(stored)
		if normalized == want {
			return stored, true
		}

		if !recursive || !strings.HasSuffix(normalized, want) {
			continue
		}

		if best == "" || normalized < bestNormalized {
			best, bestNormalized = stored, normalized
		}
	}

	return best, best != ""
}

// isDirEntry reports whether a stored archive name denotes a directory.
func isDirEntry(stored string) bool {
	return strings.HasSuffix(stored, "/") || strings.HasSuffix(stored, `\`)
}

// setContent stores raw bytes and, unless binary output is requested, decoded text.
func (res *Resource) setContent(data []byte, opts FetchOptions) error {
	res.Data = data
	if opts.Binary {
		return nil
	}

	text, err := DecodeText(data, opts.Encoding)
	if err != nil {
		return fmt.Errorf("%s: %w", res.Name, err)
	}

	res.Text = text
	return nil
}

// regularFileExists reports whether path names an existing non-directory.
// Errors other than absence are returned.
func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}

	return !info.IsDir(), nil
}
