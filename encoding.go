// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
)

// DecodeText decodes data from the named encoding into a Go string.
// Names follow the WHATWG encoding labels ("utf-8", "windows-1252",
// "shift_jis", ...); empty means utf-8. Invalid input yields ErrDecode
// rather than replacement characters.
//
// Per WHATWG, "latin1", "iso-8859-1" and "ascii" all select windows-1252,
// so bytes 0x80-0x9f decode to its printable characters, not C1 controls.
func DecodeText(data []byte, name string) (string, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		label = DefaultEncoding
	}

	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}

	canonical, _ := htmlindex.Name(enc)
	if canonical == "utf-8" {
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: invalid utf-8", ErrDecode)
		}

		return string(data), nil
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrDecode, canonical, err)
	}
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		// U+FFFD is either substituted for invalid input or encoded in data;
		// only the latter survives a round trip.
		encoded, err := enc.NewEncoder().Bytes(decoded)
		if err != nil || !bytes.Equal(encoded, data) {
			return "", fmt.Errorf("%w: invalid %s input", ErrDecode, canonical)
		}
	}

	return string(decoded), nil
}
