// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// zipEntry is one record of a test zip archive.
type zipEntry struct {
	name string
	data string
}

// writeZip creates a zip archive holding entries in the given order.
// Names ending with "/" become directory records.
func writeZip(tb testing.TB, path string, entries ...zipEntry) string {
	tb.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			tb.Fatalf("zip create %s: %v", e.name, err)
		}
		if _, err := w.Write([]byte(e.data)); err != nil {
			tb.Fatalf("zip write %s: %v", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		tb.Fatalf("zip close: %v", err)
	}

	writeFile(tb, path, buf.String())
	return path
}

// writeFile creates path with content, creating parent directories.
func writeFile(tb testing.TB, path, content string) {
	tb.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}

// readFile returns the content of path.
func readFile(tb testing.TB, path string) string {
	tb.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read %s: %v", path, err)
	}

	return string(data)
}

// testRoots holds the tier roots of one test layout.
type testRoots struct {
	loose     string
	installed string
	bundled   string
}

// newTestRoots creates empty tier directories below a fresh temp dir.
func newTestRoots(tb testing.TB) testRoots {
	tb.Helper()

	base := tb.TempDir()
	roots := testRoots{
		loose:     filepath.Join(base, "Packages"),
		installed: filepath.Join(base, "Installed Packages"),
		bundled:   filepath.Join(base, "App", "Packages"),
	}
	for _, dir := range []string{roots.loose, roots.installed, roots.bundled} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			tb.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	return roots
}

// options returns resolver options for the layout.
func (roots testRoots) options() Options {
	return Options{Roots: Roots{
		Loose:     roots.loose,
		Installed: roots.installed,
		Bundled:   roots.bundled,
	}}
}

// newTestResolver builds a resolver or fails the test.
func newTestResolver(tb testing.TB, opts Options) *Resolver {
	tb.Helper()

	r, err := New(opts)
	if err != nil {
		tb.Fatalf("New: %v", err)
	}

	return r
}

// cleanupExtracted removes the temporary directory that holds an entry
// extracted as rel at path.
func cleanupExtracted(tb testing.TB, path, rel string) {
	tb.Helper()

	dir := filepath.Clean(strings.TrimSuffix(path, filepath.FromSlash(rel)))
	if !strings.HasPrefix(filepath.Base(dir), extractTempPattern) {
		tb.Fatalf("extracted path %s is not below a %s* directory", path, extractTempPattern)
	}

	tb.Cleanup(func() { _ = os.RemoveAll(dir) })
}
