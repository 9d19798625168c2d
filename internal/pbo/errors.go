// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pbo

import "errors"

// Sentinel errors for PBO reads. Use errors.Is in callers.
var (
	// ErrInvalidHeader means the file is missing or has a bad PBO header.
	ErrInvalidHeader = errors.New("invalid PBO file: missing or bad header")
	// ErrNameTooLong means an entry name exceeds the maximum length.
	ErrNameTooLong = errors.New("entry name exceeds maximum length")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrClosed means the reader is already closed.
	ErrClosed = errors.New("reader already closed")
	// ErrSizeOverflow means entry sizes exceed the 4 GiB PBO limit.
	ErrSizeOverflow = errors.New("size exceeds uint32 or 4 GiB PBO limit")
	// ErrInvalidEntryOffset means an entry payload lies outside the file.
	ErrInvalidEntryOffset = errors.New("invalid entry offset")
)
