// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pbo

import (
	"fmt"
	"io"
	"math"
	"path"
	"strings"

	"github.com/woozymasta/lzss"
)

// NormalizeName converts an entry name to clean slash-separated form.
func NormalizeName(raw string) string {
	raw = strings.ReplaceAll(raw, `\`, `/`)
	raw = strings.TrimPrefix(path.Clean("/"+raw), "/")
	if raw == "." {
		return ""
	}

	return raw
}

// Find resolves one entry by name; separators and leading "./" are ignored.
func (r *Reader) Find(name string) (Entry, bool) {
	lookup := NormalizeName(name)
	for i := range r.entries {
		if NormalizeName(r.entries[i].Name) == lookup {
			return r.entries[i], true
		}
	}

	return Entry{}, false
}

// OpenEntry opens an entry for reading.
// The stream yields decompressed content for LZSS-compressed entries.
func (r *Reader) OpenEntry(name string) (io.ReadCloser, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}

	entry, ok := r.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	sr := io.NewSectionReader(r.ra, int64(entry.Offset), int64(entry.DataSize))
	if !entry.IsCompressed() {
		return io.NopCloser(sr), nil
	}

	if uint64(entry.OriginalSize) > uint64(math.MaxInt) {
		return nil, fmt.Errorf("resolve output size for %s: %w", name, ErrSizeOverflow)
	}

	pr, pw := io.Pipe()
	go streamDecompress(entry.Name, pw, sr, int(entry.OriginalSize))

	return pr, nil
}

// ReadEntry reads the full (decompressed) content of an entry.
func (r *Reader) ReadEntry(name string) ([]byte, error) {
	rc, err := r.OpenEntry(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return io.ReadAll(rc)
}

// streamDecompress decodes one compressed entry into the pipe writer.
func streamDecompress(name string, dst *io.PipeWriter, src io.Reader, outLen int) {
	if _, err := lzss.DecompressToWriter(dst, src, outLen, nil); err != nil {
		_ = dst.CloseWithError(fmt.Errorf("decompress entry %s: %w", name, err))
		return
	}

	_ = dst.Close()
}
