// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pbo

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
)

// tableBufferSize is a sequential read buffer for entry table parsing.
const tableBufferSize = 64 * 1024

// Reader provides read-only access to a parsed PBO file.
// One Reader owns one file handle; open a Reader per concurrent consumer.
type Reader struct {
	ra      io.ReaderAt
	file    *os.File
	entries []Entry
	mu      sync.Mutex
	closed  bool
}

// Open opens a PBO file by path and parses its header and entry table.
func Open(path string) (*Reader, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f, size)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	r.file = f
	return r, nil
}

// NewReader parses a PBO from a random-access source of known size.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	entries, err := parse(ra, size)
	if err != nil {
		return nil, err
	}

	return &Reader{ra: ra, entries: entries}, nil
}

// ListEntries opens a PBO and returns its index without reading payloads.
func ListEntries(path string) ([]Entry, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parse(f, size)
}

// Entries returns a copy of parsed entries in index order.
func (r *Reader) Entries() []Entry {
	if r == nil {
		return nil
	}

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// Close closes the underlying file if the reader owns one.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}

	r.closed = true
	if r.file != nil {
		return r.file.Close()
	}

	return nil
}

// parse validates the header, skips header pairs and reads the entry table.
func parse(ra io.ReaderAt, size int64) ([]Entry, error) {
	if size < headerSize {
		return nil, fmt.Errorf("%w: short header", ErrInvalidHeader)
	}
	if size > maxPBOData {
		return nil, ErrSizeOverflow
	}

	tableOffset, err := skipHeaderSection(ra, size)
	if err != nil {
		return nil, err
	}

	entries, dataStart, err := parseEntryTable(ra, tableOffset, size)
	if err != nil {
		return nil, err
	}

	if err := assignOffsets(entries, dataStart, size); err != nil {
		return nil, err
	}

	return entries, nil
}

// skipHeaderSection checks the "Vers" record and returns the entry table offset.
func skipHeaderSection(ra io.ReaderAt, size int64) (int64, error) {
	header := make([]byte, headerSize)
	if _, err := ra.ReadAt(header, 0); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	if MimeType(binary.LittleEndian.Uint32(header[1:5])) != MimeHeader {
		return 0, ErrInvalidHeader
	}

	br := bufio.NewReader(io.NewSectionReader(ra, headerSize, size-headerSize))
	off := int64(headerSize)

	// Key/value pairs end with an empty key.
	for {
		key, err := br.ReadBytes(0)
		if err != nil {
			return 0, fmt.Errorf("read header key: %w", err)
		}

		off += int64(len(key))
		if len(key) == 1 {
			return off, nil
		}

		value, err := br.ReadBytes(0)
		if err != nil {
			return 0, fmt.Errorf("read header value: %w", err)
		}

		off += int64(len(value))
	}
}

// parseEntryTable reads index records until the zero terminator record.
func parseEntryTable(ra io.ReaderAt, tableOffset int64, size int64) ([]Entry, int64, error) {
	if tableOffset >= size {
		return nil, 0, fmt.Errorf("read entry name: %w", io.EOF)
	}

	br := bufio.NewReaderSize(io.NewSectionReader(ra, tableOffset, size-tableOffset), tableBufferSize)
	off := tableOffset
	entries := make([]Entry, 0, 64)

	for {
		name, err := br.ReadBytes(0)
		if err != nil {
			return nil, 0, fmt.Errorf("read entry name: %w", err)
		}

		off += int64(len(name))
		name = bytes.TrimSuffix(name, []byte{0})

		var fields [fieldsSize]byte
		if _, err := io.ReadFull(br, fields[:]); err != nil {
			return nil, 0, fmt.Errorf("read entry fields: %w", err)
		}

		off += fieldsSize
		if len(name) == 0 && fields == [fieldsSize]byte{} {
			return entries, off, nil
		}

		if len(name) > maxNameLen {
			return nil, 0, ErrNameTooLong
		}

		entries = append(entries, Entry{
			Name:         string(name),
			MimeType:     MimeType(binary.LittleEndian.Uint32(fields[0:4])),
			OriginalSize: binary.LittleEndian.Uint32(fields[4:8]),
			DataSize:     binary.LittleEndian.Uint32(fields[16:20]),
		})
	}
}

// assignOffsets lays payloads out sequentially after the table and checks bounds.
// Stored index offsets are unreliable in the wild and are ignored.
func assignOffsets(entries []Entry, dataStart int64, size int64) error {
	if dataStart < 0 || uint64(dataStart) > uint64(math.MaxUint32) {
		return fmt.Errorf("%w: data start offset %d", ErrSizeOverflow, dataStart)
	}

	current := dataStart
	for i := range entries {
		end := current + int64(entries[i].DataSize)
		if end > size {
			return fmt.Errorf("%w: entry %s payload out of file bounds", ErrInvalidEntryOffset, entries[i].Name)
		}

		entries[i].Offset = uint32(current) //nolint:gosec // bounded by size <= maxPBOData
		current = end
	}

	return nil
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open PBO: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
