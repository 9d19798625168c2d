// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/woozymasta/pkgres/internal/pbo"
)

// PBOFormat reads PBO package archives. Stored entry names use "\" separators;
// compressed entries are expanded transparently.
type PBOFormat struct{}

// Name implements Format.
func (PBOFormat) Name() string { return "pbo" }

// Entries implements Format.
func (PBOFormat) Entries(ctx context.Context, archivePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := pbo.ListEntries(archivePath)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}

	return names, nil
}

// Read implements Format.
func (PBOFormat) Read(ctx context.Context, archivePath, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := pbo.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data, err := r.ReadEntry(name)
	if errors.Is(err, pbo.ErrEntryNotFound) {
		return nil, fmt.Errorf("%w: %s", errEntryNotFound, name)
	}

	return data, err
}
