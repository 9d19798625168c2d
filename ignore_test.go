// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"errors"
	"regexp"
	"slices"
	"testing"

	"github.com/woozymasta/pathrules"
)

func TestIsIgnored(t *testing.T) {
	t.Parallel()

	patterns := []*regexp.Regexp{regexp.MustCompile(`^sub$`), regexp.MustCompile(`\.pyc$`)}

	testCases := []struct {
		path string
		want bool
	}{
		{path: "a.py", want: false},
		{path: "sub", want: true},
		{path: "sub/b.py", want: true},
		{path: "x/sub/deep/c.py", want: true},
		{path: "subway/b.py", want: false},
		{path: "cache/b.pyc", want: true},
		{path: "", want: false},
	}

	for _, tc := range testCases {
		if got := IsIgnored(tc.path, patterns); got != tc.want {
			t.Fatalf("IsIgnored(%q)=%v, want %v", tc.path, got, tc.want)
		}
	}

	if IsIgnored("sub/b.py", nil) {
		t.Fatal("IsIgnored without patterns must be false")
	}
}

func TestIsIgnored_AncestorHidesDescendants(t *testing.T) {
	t.Parallel()

	patterns := []*regexp.Regexp{regexp.MustCompile(`^\.git$`)}
	paths := []string{".git/HEAD", ".git/refs/heads/main", "a/.git/objects/pack/x.idx"}
	for _, p := range paths {
		if !IsIgnored(p, patterns) {
			t.Fatalf("IsIgnored(%q)=false, want true", p)
		}
	}
}

func TestNewIgnoreMatcher_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewIgnoreMatcher([]string{"("}, nil)
	if !errors.Is(err, ErrInvalidIgnorePattern) {
		t.Fatalf("expected ErrInvalidIgnorePattern, got %v", err)
	}
}

func TestIgnoreMatcher_Rules(t *testing.T) {
	t.Parallel()

	m, err := NewIgnoreMatcher([]string{`^__pycache__$`}, []pathrules.Rule{
		{Action: pathrules.ActionExclude, Pattern: "*.md"},
		{Action: pathrules.ActionInclude, Pattern: "README.md"},
		{Action: pathrules.ActionExclude, Pattern: `tests\`},
	})
	if err != nil {
		t.Fatalf("NewIgnoreMatcher: %v", err)
	}

	got := m.Filter([]string{
		"main.py",
		"CHANGES.md",
		"README.md",
		"__pycache__/main.pyc",
		"tests/test_main.py",
		"lib/util.py",
	})
	want := []string{"main.py", "README.md", "lib/util.py"}
	if !slices.Equal(got, want) {
		t.Fatalf("Filter=%q, want %q", got, want)
	}
}

func TestIgnoreMatcher_Nil(t *testing.T) {
	t.Parallel()

	var m *IgnoreMatcher
	if m.Ignored("a/b") {
		t.Fatal("nil matcher must not ignore anything")
	}
}
