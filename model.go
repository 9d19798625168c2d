// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"github.com/charmbracelet/log"
	"github.com/woozymasta/pathrules"
)

// Defaults applied by Options.applyDefaults.
const (
	// DefaultArchiveSuffix is the package archive suffix used when none is configured.
	DefaultArchiveSuffix = ".sublime-package"
	// DefaultRelativeMarker is the leading segment of package-relative paths ("Packages/<pkg>/...").
	DefaultRelativeMarker = "Packages"
	// DefaultEncoding is the text encoding used when FetchOptions.Encoding is empty.
	DefaultEncoding = "utf-8"
)

// Tier identifies one backing store. Lower values win on lookups.
type Tier int

// Backing stores in priority order.
const (
	// TierLoose is the directory of unpacked package folders.
	TierLoose Tier = iota
	// TierInstalled is the directory of user-installed package archives.
	TierInstalled
	// TierBundled is the directory of archives shipped with the application.
	TierBundled
)

// String returns the tier name used in logs and CLI output.
func (t Tier) String() string {
	switch t {
	case TierLoose:
		return "loose"
	case TierInstalled:
		return "installed"
	case TierBundled:
		return "bundled"
	default:
		return "unknown"
	}
}

// Roots holds the absolute locations of the three backing stores.
// An empty root disables its tier.
type Roots struct {
	// Loose is the directory holding one sub-directory per package.
	Loose string `json:"loose,omitempty" yaml:"loose,omitempty"`
	// Installed is the directory holding user-installed package archives.
	Installed string `json:"installed,omitempty" yaml:"installed,omitempty"`
	// Bundled is the directory holding package archives shipped with the application.
	Bundled string `json:"bundled,omitempty" yaml:"bundled,omitempty"`
}

// ArchiveType binds a package archive file suffix to the format that reads it.
type ArchiveType struct {
	// Suffix is the file name suffix including the dot, e.g. ".sublime-package".
	Suffix string
	// Format reads archives with this suffix.
	Format Format
}

// Options configures a Resolver.
type Options struct {
	// Logger receives debug records for tier lookups and warnings for unreadable archives.
	// Nil disables logging.
	Logger *log.Logger `json:"-" yaml:"-"`
	// Roots are the backing store locations.
	Roots Roots `json:"roots" yaml:"roots"`
	// Archives lists recognized package archive types, checked in order.
	// Empty means DefaultArchiveSuffix read as zip.
	Archives []ArchiveType `json:"-" yaml:"-"`
	// IgnorePatterns are regular expressions matched against every path segment.
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	// IgnoreRules are gitignore-style rules applied after IgnorePatterns.
	IgnoreRules []pathrules.Rule `json:"ignore_rules,omitempty" yaml:"ignore_rules,omitempty"`
	// IgnoredPackages are package names hidden from Packages(ctx, true).
	IgnoredPackages []string `json:"ignored_packages,omitempty" yaml:"ignored_packages,omitempty"`
	// RelativeMarker is the optional first segment of package-relative paths.
	RelativeMarker string `json:"relative_marker,omitempty" yaml:"relative_marker,omitempty"`
}

// FetchOptions controls how a resource is returned.
type FetchOptions struct {
	// Encoding names the text encoding for decoding; empty means utf-8.
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	// GetPath returns a filesystem path instead of content. Loose resources
	// return their own path; archive entries are extracted to a fresh
	// temporary directory that the caller must remove.
	GetPath bool `json:"get_path,omitempty" yaml:"get_path,omitempty"`
	// Recursive matches by file name below the resource directory instead of
	// by exact path. Ties resolve to the lexicographically smallest path.
	Recursive bool `json:"recursive,omitempty" yaml:"recursive,omitempty"`
	// Binary skips text decoding; content is returned in Resource.Data only.
	Binary bool `json:"binary,omitempty" yaml:"binary,omitempty"`
}

// Resource is the result of a successful lookup.
type Resource struct {
	// Package is the package identifier.
	Package string `json:"package" yaml:"package"`
	// Name is the resource path as found in the tier that served it.
	Name string `json:"name" yaml:"name"`
	// Path is the filesystem path when FetchOptions.GetPath was set.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Text is the decoded content unless Binary or GetPath was set.
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	// Data is the raw content unless GetPath was set.
	Data []byte `json:"-" yaml:"-"`
	// Tier is the backing store that served the resource.
	Tier Tier `json:"tier" yaml:"tier"`
}

// applyDefaults fills zero-valued options with defaults.
func (opts *Options) applyDefaults() {
	if len(opts.Archives) == 0 {
		opts.Archives = []ArchiveType{{Suffix: DefaultArchiveSuffix, Format: ZipFormat{}}}
	}

	if opts.RelativeMarker == "" {
		opts.RelativeMarker = DefaultRelativeMarker
	}

	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
}

// applyDefaults fills zero-valued fetch options with defaults.
func (opts *FetchOptions) applyDefaults() {
	if opts.Encoding == "" {
		opts.Encoding = DefaultEncoding
	}
}
