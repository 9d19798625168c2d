// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mholt/archives"
)

// errStopWalk ends a zip walk once the wanted entry was read.
var errStopWalk = errors.New("stop archive walk")

// ZipFormat reads zip package archives.
type ZipFormat struct{}

// Name implements Format.
func (ZipFormat) Name() string { return "zip" }

// Entries implements Format.
func (ZipFormat) Entries(ctx context.Context, archivePath string) ([]string, error) {
	var names []string
	err := walkZip(ctx, archivePath, func(_ context.Context, info archives.FileInfo) error {
		names = append(names, info.NameInArchive)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return names, nil
}

// Read implements Format.
func (ZipFormat) Read(ctx context.Context, archivePath, name string) ([]byte, error) {
	var (
		data  []byte
		found bool
	)

	err := walkZip(ctx, archivePath, func(_ context.Context, info archives.FileInfo) error {
		if info.NameInArchive != name || info.IsDir() {
			return nil
		}

		file, err := info.Open()
		if err != nil {
			return fmt.Errorf("open entry %s: %w", name, err)
		}
		defer func() { _ = file.Close() }()

		data, err = io.ReadAll(file)
		if err != nil {
			return fmt.Errorf("read entry %s: %w", name, err)
		}

		found = true
		return errStopWalk
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", errEntryNotFound, name)
	}

	return data, nil
}

// walkZip calls handle for every entry of the zip archive at archivePath.
func walkZip(ctx context.Context, archivePath string, handle archives.FileHandler) error {
	file, err := os.Open(archivePath) //nolint:gosec // archive paths come from configured roots
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer func() { _ = file.Close() }()

	return archives.Zip{}.Extract(ctx, file, handle)
}
