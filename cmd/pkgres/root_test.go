// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/woozymasta/pathrules"
	"github.com/woozymasta/pkgres"
)

// fixture is a temp layout with one loose and one installed package plus a config file.
type fixture struct {
	loose     string
	installed string
	config    string
}

func newFixture(t *testing.T, extraConfig string) fixture {
	t.Helper()

	base := t.TempDir()
	f := fixture{
		loose:     filepath.Join(base, "Packages"),
		installed: filepath.Join(base, "Installed Packages"),
		config:    filepath.Join(base, "pkgres.yaml"),
	}

	mustWrite(t, filepath.Join(f.loose, "Demo", "a.py"), []byte("loose a"))
	mustWrite(t, filepath.Join(f.loose, "Demo", "sub", "b.py"), []byte("loose b"))
	mustWrite(t, filepath.Join(f.loose, "Foo", "f.py"), []byte("f"))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range map[string]string{"a.py": "archived a", "themes/dark.json": "{}"} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(data)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	mustWrite(t, filepath.Join(f.installed, "Demo.sublime-package"), buf.Bytes())

	config := "roots:\n" +
		"  loose: " + yamlQuote(f.loose) + "\n" +
		"  installed: " + yamlQuote(f.installed) + "\n" +
		"ignored_packages: [Foo]\n" + extraConfig
	mustWrite(t, f.config, []byte(config))

	return f
}

func mustWrite(t *testing.T, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func yamlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// run executes the CLI with args and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestCLI_Commands(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "packages", args: []string{"packages"}, want: "Demo\n"},
		{name: "packages all", args: []string{"packages", "--all"}, want: "Demo\nFoo\n"},
		{name: "list", args: []string{"list", "Demo"}, want: "a.py\nsub/b.py\nthemes/dark.json\n"},
		{name: "list glob", args: []string{"list", "Demo", "--glob", "**/*.py"}, want: "a.py\nsub/b.py\n"},
		{name: "ls root", args: []string{"ls", "Demo"}, want: "sub/\nthemes/\na.py\n"},
		{name: "ls dir", args: []string{"ls", "Demo", "themes"}, want: "dark.json\n"},
		{name: "cat loose wins", args: []string{"cat", "Demo", "a.py"}, want: "loose a"},
		{name: "cat archive", args: []string{"cat", "Demo", "themes/dark.json"}, want: "{}"},
		{name: "cat recursive", args: []string{"cat", "Demo", "b.py", "--recursive"}, want: "loose b"},
		{name: "path loose", args: []string{"path", "Demo", "sub/b.py"}, want: filepath.Join(f.loose, "Demo", "sub", "b.py") + "\n"},
		{name: "resolve", args: []string{"resolve", filepath.Join(f.installed, "Demo.sublime-package", "a.py")}, want: "Demo\ta.py\n"},
		{name: "resolve relative", args: []string{"resolve", `Packages\Demo\sub\b.py`}, want: "Demo\tsub/b.py\n"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, append([]string{"--config", f.config}, tc.args...)...)
			if err != nil {
				t.Fatalf("pkgres %s: %v", strings.Join(tc.args, " "), err)
			}
			if got != tc.want {
				t.Fatalf("pkgres %s=%q, want %q", strings.Join(tc.args, " "), got, tc.want)
			}
		})
	}
}

func TestCLI_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "ignore_patterns: ['^sub$']\n")
	other := t.TempDir()
	mustWrite(t, filepath.Join(other, "Other", "x.txt"), []byte("x"))

	got, err := run(t, "--config", f.config, "list", "Demo")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got != "a.py\nthemes/dark.json\n" {
		t.Fatalf("list with ignore pattern=%q", got)
	}

	got, err = run(t, "--config", f.config, "list", "Demo", "--no-ignore")
	if err != nil {
		t.Fatalf("list --no-ignore: %v", err)
	}
	if got != "a.py\nsub/b.py\nthemes/dark.json\n" {
		t.Fatalf("list --no-ignore=%q", got)
	}

	got, err = run(t, "--config", f.config, "--loose", other, "packages")
	if err != nil {
		t.Fatalf("packages: %v", err)
	}
	if got != "Demo\nOther\n" {
		t.Fatalf("packages with --loose=%q, want Demo and Other", got)
	}
}

func TestCLI_Edit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")

	got, err := run(t, "--config", f.config, "edit", "Demo", "themes/dark.json")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	want := filepath.Join(f.loose, "Demo", "themes", "dark.json")
	if strings.TrimSpace(got) != want {
		t.Fatalf("edit printed %q, want %q", got, want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read materialized file: %v", err)
	}
	if string(data) != "{}" {
		t.Fatalf("materialized content=%q", data)
	}
}

func TestCLI_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "")

	for _, args := range [][]string{
		{"cat", "Ghost", "x"},
		{"path", "Demo", "missing.py"},
		{"edit", "Demo", "missing.py"},
		{"ls", "Demo", "nowhere"},
		{"resolve", "/somewhere/else/x.py"},
	} {
		_, err := run(t, append([]string{"--config", f.config}, args...)...)
		if !errors.Is(err, errNotFound) {
			t.Fatalf("pkgres %s: expected errNotFound, got %v", strings.Join(args, " "), err)
		}
	}
}

func TestCLI_BadConfig(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "archives:\n  - suffix: .rar\n    format: rar\n")

	_, err := run(t, "--config", f.config, "packages")
	if !errors.Is(err, pkgres.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "packages")
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestParseRules(t *testing.T) {
	t.Parallel()

	got := parseRules([]string{"# comment", "", "*.md", "!README.md", "  docs/ "})
	want := []pathrules.Rule{
		{Action: pathrules.ActionExclude, Pattern: "*.md"},
		{Action: pathrules.ActionInclude, Pattern: "README.md"},
		{Action: pathrules.ActionExclude, Pattern: "docs/"},
	}

	if len(got) != len(want) {
		t.Fatalf("len(rules)=%d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Action != want[i].Action || got[i].Pattern != want[i].Pattern {
			t.Fatalf("rules[%d]=%+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFormatByName(t *testing.T) {
	t.Parallel()

	if f, err := formatByName("PBO"); err != nil || f.Name() != "pbo" {
		t.Fatalf("formatByName(PBO)=(%v, %v)", f, err)
	}
	if f, err := formatByName(""); err != nil || f.Name() != "zip" {
		t.Fatalf("formatByName(\"\")=(%v, %v)", f, err)
	}
	if _, err := formatByName("rar"); !errors.Is(err, pkgres.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
