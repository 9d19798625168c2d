// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pbo

// Binary layout limits.
const (
	headerSize = 21      // fixed PBO header size in bytes
	fieldsSize = 20      // entry record size after the NUL-terminated name
	maxNameLen = 512     // max entry name length
	maxPBOData = 1 << 32 // max addressable payload in classic PBO (4 GiB)
)

// MimeType is the 4-byte PBO entry type (stored little-endian).
type MimeType uint32

// PBO entry mime constants.
const (
	// MimeHeader marks the first header record ("Vers").
	MimeHeader MimeType = 0x56657273
	// MimeCompress marks LZSS-compressed data ("Cprs").
	MimeCompress MimeType = 0x43707273
	// MimeNil marks uncompressed or terminator entry.
	MimeNil MimeType = 0x00000000
)

// Entry describes one parsed PBO index record.
type Entry struct {
	// Name is the entry path as stored in the index, usually "\" separated.
	Name string
	// Offset is the absolute byte offset of the entry payload.
	Offset uint32
	// DataSize is the stored payload size in bytes.
	DataSize uint32
	// OriginalSize is the unpacked size for compressed entries; zero otherwise.
	OriginalSize uint32
	// MimeType stores the entry mime marker.
	MimeType MimeType
}

// IsCompressed reports whether the entry payload is LZSS-compressed.
func (e *Entry) IsCompressed() bool {
	return e.MimeType == MimeCompress || (e.OriginalSize != 0 && e.DataSize < e.OriginalSize)
}
