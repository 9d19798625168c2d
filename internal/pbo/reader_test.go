// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pbo

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/lzss"
	"github.com/woozymasta/pkgres/internal/pbo/pbotest"
)

func TestOpen_InvalidHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.pbo")
	if err := os.WriteFile(path, []byte("not a pbo header\x00\x00\x00\x00\x00\x00"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.pbo")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("expected ErrInvalidHeader, got %v", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.pbo"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestReader_ReadsRawAndCompressedEntries(t *testing.T) {
	t.Parallel()

	plain := bytes.Repeat([]byte("config "), 200)
	packed, err := lzss.Compress(plain, lzss.DefaultCompressOptions())
	if err != nil {
		t.Fatalf("lzss.Compress: %v", err)
	}

	path := pbotest.Write(t, t.TempDir(), "mixed.pbo", []pbotest.Entry{
		{Name: `scripts\main.c`, Data: []byte("void main() {}")},
		{Name: "config.cpp", Data: packed, OriginalSize: uint32(len(plain))},
	})

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = r.Close() }()

	entries := r.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(entries))
	}
	if entries[0].Name != `scripts\main.c` {
		t.Fatalf("entries[0].Name=%q, want scripts\\main.c", entries[0].Name)
	}
	if !entries[1].IsCompressed() {
		t.Fatal("config.cpp must be reported as compressed")
	}

	got, err := r.ReadEntry("scripts/main.c")
	if err != nil {
		t.Fatalf("ReadEntry scripts/main.c: %v", err)
	}
	if string(got) != "void main() {}" {
		t.Fatalf("scripts/main.c=%q", got)
	}

	got, err = r.ReadEntry("config.cpp")
	if err != nil {
		t.Fatalf("ReadEntry config.cpp: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("config.cpp decompressed to %d bytes, want %d", len(got), len(plain))
	}
}

func TestReader_HeaderPairsAreSkipped(t *testing.T) {
	t.Parallel()

	path := pbotest.WriteWithHeaders(t, t.TempDir(), "prefixed.pbo",
		[]string{"prefix", `x\addon`, "version", "1"},
		[]pbotest.Entry{{Name: "a.txt", Data: []byte("hello")}},
	)

	entries, err := ListEntries(path)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "a.txt" {
		t.Fatalf("entries=%+v, want single a.txt", entries)
	}
}

func TestReadEntry_NotFound(t *testing.T) {
	t.Parallel()

	path := pbotest.Write(t, t.TempDir(), "one.pbo", []pbotest.Entry{{Name: "a.txt", Data: []byte("hello")}})
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = r.Close() }()

	if _, err := r.ReadEntry("nonexistent.txt"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestReadEntry_Closed(t *testing.T) {
	t.Parallel()

	path := pbotest.Write(t, t.TempDir(), "one.pbo", []pbotest.Entry{{Name: "a.txt", Data: []byte("hello")}})
	r, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := r.ReadEntry("a.txt"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpen_PayloadOutOfBounds(t *testing.T) {
	t.Parallel()

	path := pbotest.Write(t, t.TempDir(), "short.pbo", []pbotest.Entry{{Name: "a.txt", Data: []byte("hello")}})
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw[:len(raw)-2], 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Open(path); !errors.Is(err, ErrInvalidEntryOffset) {
		t.Fatalf("expected ErrInvalidEntryOffset, got %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "slash", in: "/", want: ""},
		{name: "windows", in: `.\scripts\5_Mission\`, want: "scripts/5_Mission"},
		{name: "dot segments", in: "./a/../b//c.txt", want: "b/c.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeName(tc.in); got != tc.want {
				t.Fatalf("NormalizeName(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPbotestWrite_HeaderLayout(t *testing.T) {
	t.Parallel()

	path := pbotest.Write(t, t.TempDir(), "layout.pbo", nil)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if MimeType(binary.LittleEndian.Uint32(raw[1:5])) != MimeHeader {
		t.Fatal("test archive must start with the Vers record")
	}
}
