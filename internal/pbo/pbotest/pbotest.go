// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

// Package pbotest writes minimal PBO archives for tests.
package pbotest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	mimeHeader   uint32 = 0x56657273 // "Vers"
	mimeCompress uint32 = 0x43707273 // "Cprs"
)

// Entry is one archive record. A non-zero OriginalSize marks Data as LZSS-compressed.
type Entry struct {
	Name         string
	Data         []byte
	OriginalSize uint32
}

// Write creates dir/name holding entries in the given order and returns its path.
func Write(tb testing.TB, dir, name string, entries []Entry) string {
	tb.Helper()
	return WriteWithHeaders(tb, dir, name, nil, entries)
}

// WriteWithHeaders is Write with key/value header pairs (flattened key, value, key, value...).
func WriteWithHeaders(tb testing.TB, dir, name string, headers []string, entries []Entry) string {
	tb.Helper()

	var buf bytes.Buffer
	header := make([]byte, 21)
	binary.LittleEndian.PutUint32(header[1:5], mimeHeader)
	buf.Write(header)
	for _, h := range headers {
		buf.WriteString(h)
		buf.WriteByte(0)
	}
	buf.WriteByte(0)

	for _, e := range entries {
		buf.WriteString(e.Name)
		buf.WriteByte(0)

		fields := make([]byte, 20)
		if e.OriginalSize != 0 {
			binary.LittleEndian.PutUint32(fields[0:4], mimeCompress)
			binary.LittleEndian.PutUint32(fields[4:8], e.OriginalSize)
		}
		binary.LittleEndian.PutUint32(fields[16:20], uint32(len(e.Data))) //nolint:gosec // test payloads are small
		buf.Write(fields)
	}

	// Terminator record: empty name plus zeroed fields.
	buf.WriteByte(0)
	buf.Write(make([]byte, 20))

	for _, e := range entries {
		buf.Write(e.Data)
	}

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		tb.Fatalf("create archive dir: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		tb.Fatalf("write PBO: %v", err)
	}

	return path
}
