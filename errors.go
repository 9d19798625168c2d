// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import "errors"

// Sentinel errors for resolver operations. Use errors.Is in callers.
// A missing package, archive or resource is never an error: lookups report it
// through a false ok result or an empty listing.
var (
	// ErrMalformedArchive means a package archive exists but cannot be read.
	ErrMalformedArchive = errors.New("malformed package archive")
	// ErrDecode means resource bytes are not valid in the requested text encoding.
	ErrDecode = errors.New("decode resource text")
	// ErrUnknownEncoding means the requested text encoding name is not recognized.
	ErrUnknownEncoding = errors.New("unknown text encoding")
	// ErrInvalidIgnorePattern means one of the ignore patterns does not compile.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
	// ErrInvalidExtractPath means an archive entry name is unsafe for extraction.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrUnknownFormat means an archive suffix is configured without a format.
	ErrUnknownFormat = errors.New("unknown archive format")
	// ErrNoLooseTier means an operation needs the loose tier but no root is configured.
	ErrNoLooseTier = errors.New("loose tier is not configured")
)

// errEntryNotFound is returned by formats when an entry is absent from an archive.
var errEntryNotFound = errors.New("entry not found")
