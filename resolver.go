// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"

	"github.com/charmbracelet/log"
)

// Resolver resolves packages and resources across the loose, installed and
// bundled tiers as one namespace. Earlier tiers shadow later ones.
//
// A Resolver holds only configuration; it is safe for concurrent use and
// every call reads the filesystem afresh.
type Resolver struct {
	logger   *log.Logger
	ignore   *IgnoreMatcher
	ignored  map[string]struct{}
	loose    *looseStore
	stores   []store
	archives []ArchiveType
	marker   string
}

// New validates opts and returns a Resolver.
func New(opts Options) (*Resolver, error) {
	opts.applyDefaults()

	for _, archive := range opts.Archives {
		if archive.Format == nil || archive.Suffix == "" {
			return nil, fmt.Errorf("%w: suffix %q", ErrUnknownFormat, archive.Suffix)
		}
	}

	ignore, err := NewIgnoreMatcher(opts.IgnorePatterns, opts.IgnoreRules)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		logger:   opts.Logger,
		ignore:   ignore,
		ignored:  make(map[string]struct{}, len(opts.IgnoredPackages)),
		archives: slices.Clone(opts.Archives),
		marker:   NormalizeResource(opts.RelativeMarker),
	}

	for _, pkg := range opts.IgnoredPackages {
		r.ignored[pkg] = struct{}{}
	}

	if opts.Roots.Loose != "" {
		r.loose = newLooseStore(opts.Roots.Loose)
		r.stores = append(r.stores, r.loose)
	}
	if opts.Roots.Installed != "" {
		r.stores = append(r.stores, newArchiveStore(TierInstalled, opts.Roots.Installed, r.archives, r.logger))
	}
	if opts.Roots.Bundled != "" {
		r.stores = append(r.stores, newArchiveStore(TierBundled, opts.Roots.Bundled, r.archives, r.logger))
	}

	return r, nil
}

// Packages returns every package present in any tier, deduplicated and
// sorted. With excludeIgnored, names listed in Options.IgnoredPackages are
// left out. Missing tier roots contribute nothing.
func (r *Resolver) Packages(ctx context.Context, excludeIgnored bool) ([]string, error) {
	seen := make(map[string]struct{})
	for _, s := range r.stores {
		names, err := s.packages(ctx)
		if err != nil {
			return nil, err
		}

		for _, name := range names {
			seen[name] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		if _, skip := r.ignored[name]; excludeIgnored && skip {
			continue
		}

		out = append(out, name)
	}

	slices.Sort(out)
	return out, nil
}

// List returns every resource of pkg across all tiers: normalized, with
// ignored paths removed, deduplicated and sorted. An unknown package yields
// an empty list. Unreadable archives are skipped; the resources of the other
// tiers are returned together with an error wrapping ErrMalformedArchive.
func (r *Resolver) List(ctx context.Context, pkg string) ([]string, error) {
	return r.ListIgnoring(ctx, pkg, nil)
}

// ListIgnoring is List with ignore overriding the configured matcher for
// this call. A nil ignore uses the configured one.
func (r *Resolver) ListIgnoring(ctx context.Context, pkg string, ignore *IgnoreMatcher) ([]string, error) {
	if !validPackage(pkg) {
		return nil, nil
	}
	if ignore == nil {
		ignore = r.ignore
	}

	var (
		seen = make(map[string]struct{})
		errs []error
	)

	for _, s := range r.stores {
		entries, err := s.list(ctx, pkg)
		if err != nil {
			if !errors.Is(err, ErrMalformedArchive) {
				return nil, err
			}

			errs = append(errs, err)
		}

		for _, entry := range entries {
			if isDirEntry(entry) {
				continue
			}

			res := NormalizeResource(entry)
			if res == "" || ignore.Ignored(res) {
				continue
			}

			seen[res] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for res := range seen {
		out = append(out, res)
	}

	slices.Sort(out)
	return out, errors.Join(errs...)
}

// Decompose maps a path back to its package and resource.
//
// An absolute path is matched against the tier roots in priority order; the
// first segment below the root is the package (archive suffix stripped for
// archive tiers) and the rest is the resource. A relative path may start with
// the relative marker ("Packages/<pkg>/<resource>"); its first segment is the
// package with any archive suffix stripped. A path outside every root, or
// without a package segment, reports ok == false. The resource is empty when
// p names the package itself.
func (r *Resolver) Decompose(p string) (string, string, bool) {
	normalized := NormalizePath(p)
	if normalized == "" {
		return "", "", false
	}

	if !IsAbs(normalized) {
		if first, rest := splitFirst(normalized); r.marker != "" && first == r.marker && rest != "" {
			normalized = rest
		}

		pkg, res := splitFirst(normalized)
		pkg, _ = trimArchiveSuffix(pkg, r.archives)
		return pkg, res, validPackage(pkg)
	}

	for _, s := range r.stores {
		rel, ok := trimRoot(normalized, NormalizePath(s.root()))
		if !ok {
			continue
		}

		pkg, res := splitFirst(rel)
		if s.tier() != TierLoose {
			pkg, _ = trimArchiveSuffix(pkg, r.archives)
		}

		return pkg, res, validPackage(pkg)
	}

	return "", "", false
}

// Fetch returns one resource of pkg from the first tier that holds it.
//
// A resource absent from every tier reports ok == false with a nil error.
// An unreadable archive does not stop the search: it is logged and the next
// tier is tried; when no tier holds the resource the collected failures are
// returned. Decoding failures are returned at once and wrap ErrDecode.
func (r *Resolver) Fetch(ctx context.Context, pkg, resource string, opts FetchOptions) (Resource, bool, error) {
	opts.applyDefaults()

	res := NormalizeResource(resource)
	if !validPackage(pkg) || !validResource(res) {
		return Resource{}, false, nil
	}

	var errs []error
	for _, s := range r.stores {
		if err := ctx.Err(); err != nil {
			return Resource{}, false, err
		}

		out, ok, err := s.fetch(ctx, pkg, res, opts)
		if err != nil {
			if !errors.Is(err, ErrMalformedArchive) {
				return Resource{}, false, err
			}

			errs = append(errs, err)
			continue
		}
		if !ok {
			r.logger.Debug("Resource not in tier", "tier", s.tier(), "package", pkg, "resource", res)
			continue
		}

		out.Package = pkg
		out.Tier = s.tier()
		return out, true, nil
	}

	return Resource{}, false, errors.Join(errs...)
}

// Materialize returns the loose-tier path of a resource so it can be edited.
// When only an archive tier holds the resource, its bytes are copied to the
// loose path first, creating parent directories. Existing loose files are
// never overwritten. A resource found nowhere reports ok == false.
func (r *Resolver) Materialize(ctx context.Context, pkg, resource string) (string, bool, error) {
	if r.loose == nil {
		return "", false, ErrNoLooseTier
	}

	res := NormalizeResource(resource)
	if !validPackage(pkg) || !validResource(res) {
		return "", false, nil
	}

	exists, err := r.loose.isFile(path.Join(pkg, res))
	if err != nil {
		return "", false, err
	}
	if exists {
		return r.loose.nativePath(pkg, res), true, nil
	}

	found, ok, err := r.Fetch(ctx, pkg, res, FetchOptions{Binary: true})
	if err != nil || !ok {
		return "", false, err
	}

	target, err := r.loose.create(pkg, res, found.Data)
	if err != nil {
		return "", false, err
	}

	r.logger.Info("Materialized package resource", "package", pkg, "resource", res, "from", found.Tier, "path", target)
	return target, true, nil
}

// discardLogger returns a logger that drops every record.
func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
