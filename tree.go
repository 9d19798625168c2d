// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"slices"
	"strings"
)

// Tree is a directory view over a flat resource listing, as returned by
// Resolver.List. It is immutable after NewTree.
type Tree struct {
	dirs map[string]*treeDir
}

// treeDir holds the direct children of one directory.
type treeDir struct {
	dirs  []string
	files []string
}

// NewTree builds a directory view of paths. Paths are normalized first;
// the package root is the directory "".
func NewTree(paths []string) *Tree {
	t := &Tree{dirs: map[string]*treeDir{"": {}}}

	for _, raw := range paths {
		p := NormalizeResource(raw)
		if p == "" {
			continue
		}

		parent, leaf := splitLast(p)
		t.dir(parent).files = append(t.dir(parent).files, leaf)
	}

	for _, d := range t.dirs {
		slices.Sort(d.dirs)
		d.dirs = slices.Compact(d.dirs)
		slices.Sort(d.files)
		d.files = slices.Compact(d.files)
	}

	return t
}

// dir returns the node of name, creating it and its ancestors.
func (t *Tree) dir(name string) *treeDir {
	if d, ok := t.dirs[name]; ok {
		return d
	}

	d := &treeDir{}
	t.dirs[name] = d

	parent, leaf := splitLast(name)
	t.dir(parent).dirs = append(t.dir(parent).dirs, leaf+"/")
	return d
}

// Entries returns the sub-directories (with a trailing "/") and files directly
// inside dir, each sorted. dir may carry a trailing "/"; "" is the root.
// Unknown directories report ok == false.
func (t *Tree) Entries(dir string) ([]string, []string, bool) {
	d, ok := t.dirs[NormalizeResource(strings.TrimSuffix(dir, "/"))]
	if !ok {
		return nil, nil, false
	}

	return slices.Clone(d.dirs), slices.Clone(d.files), true
}
