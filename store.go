// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// store is one backing tier. Package names and resource paths passed in are
// already validated; resource paths returned are raw as found in the tier.
type store interface {
	tier() Tier
	root() string
	packages(ctx context.Context) ([]string, error)
	list(ctx context.Context, pkg string) ([]string, error)
	fetch(ctx context.Context, pkg, res string, opts FetchOptions) (Resource, bool, error)
}

// looseStore serves unpacked package directories below one root.
type looseStore struct {
	fs  billy.Filesystem
	dir string
}

// newLooseStore returns a store rooted at dir.
func newLooseStore(dir string) *looseStore {
	return &looseStore{fs: osfs.New(dir), dir: dir}
}

func (s *looseStore) tier() Tier   { return TierLoose }
func (s *looseStore) root() string { return s.dir }

// packages returns every sub-directory of the root.
func (s *looseStore) packages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := s.fs.ReadDir("")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read loose root %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if s.resolvesToDir(info.Name(), info) {
			names = append(names, info.Name())
		}
	}

	return names, nil
}

// resolvesToDir reports whether rel, described by the unfollowed info, is a
// directory or a symlink to one.
func (s *looseStore) resolvesToDir(rel string, info os.FileInfo) bool {
	if info.IsDir() {
		return true
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return false
	}

	target, err := s.fs.Stat(rel)
	return err == nil && target.IsDir()
}

// list returns every file below the package directory relative to it.
func (s *looseStore) list(ctx context.Context, pkg string) ([]string, error) {
	return s.walkFiles(ctx, pkg)
}

// fetch looks a resource up inside the package directory.
func (s *looseStore) fetch(ctx context.Context, pkg, res string, opts FetchOptions) (Resource, bool, error) {
	rel := res
	if opts.Recursive {
		found, ok, err := s.findByName(ctx, pkg, res)
		if err != nil || !ok {
			return Resource{}, false, err
		}

		rel = found
	}

	ok, err := s.isFile(path.Join(pkg, rel))
	if err != nil || !ok {
		return Resource{}, false, err
	}

	out := Resource{Name: rel}
	if opts.GetPath {
		out.Path = s.nativePath(pkg, rel)
		return out, true, nil
	}

	data, err := util.ReadFile(s.fs, path.Join(pkg, rel))
	if err != nil {
		return Resource{}, false, fmt.Errorf("read %s: %w", s.nativePath(pkg, rel), err)
	}

	if err := out.setContent(data, opts); err != nil {
		return Resource{}, false, err
	}

	return out, true, nil
}

// findByName searches for the leaf of res below the package directory joined
// with the directory part of res. The lexicographically smallest match wins.
func (s *looseStore) findByName(ctx context.Context, pkg, res string) (string, bool, error) {
	dir, leaf := splitLast(res)

	files, err := s.walkFiles(ctx, path.Join(pkg, dir))
	if err != nil {
		return "", false, err
	}

	best := ""
	for _, file := range files {
		if path.Base(file) != leaf {
			continue
		}

		if best == "" || file < best {
			best = file
		}
	}
	if best == "" {
		return "", false, nil
	}

	return path.Join(dir, best), true, nil
}

// walkFiles returns every file below base, relative to base. base itself
// may be a symlink; links below it are listed when they point to a file and
// never descended into. A missing base yields nothing.
func (s *looseStore) walkFiles(ctx context.Context, base string) ([]string, error) {
	info, err := s.fs.Stat(base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.nativePath(base, ""), err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []string
	if err := s.walkDir(ctx, base, "", &files); err != nil {
		return nil, err
	}

	return files, nil
}

// walkDir appends the files of base/rel to files.
func (s *looseStore) walkDir(ctx context.Context, base, rel string, files *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := path.Join(base, rel)
	infos, err := s.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("walk %s: %w", s.nativePath(dir, ""), err)
	}

	for _, info := range infos {
		child := path.Join(rel, info.Name())
		switch {
		case info.IsDir():
			if err := s.walkDir(ctx, base, child, files); err != nil {
				return err
			}
		case info.Mode()&fs.ModeSymlink != 0:
			// Dangling links and links to directories are not resources.
			target, err := s.fs.Stat(path.Join(base, child))
			if err == nil && !target.IsDir() {
				*files = append(*files, child)
			}
		default:
			*files = append(*files, child)
		}
	}

	return nil
}

// isFile reports whether rel names an existing non-directory.
func (s *looseStore) isFile(rel string) (bool, error) {
	info, err := s.fs.Stat(rel)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.nativePath(rel, ""), err)
	}

	return !info.IsDir(), nil
}

// create writes data to pkg/res unless the file already exists.
// Parent directories are created as needed.
func (s *looseStore) create(pkg, res string, data []byte) (string, error) {
	target := s.nativePath(pkg, res)
	if err := EnsureDir(filepath.Dir(target)); err != nil {
		return "", err
	}

	file, err := s.fs.OpenFile(path.Join(pkg, res), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", target, err)
	}

	return target, nil
}

// nativePath joins slash paths below the root into an OS path.
func (s *looseStore) nativePath(pkg, rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(pkg), filepath.FromSlash(rel))
}

// archiveStore serves package archives below one root. Each package may
// exist as one archive per configured type; types are consulted in order.
type archiveStore struct {
	fs       billy.Filesystem
	logger   *log.Logger
	dir      string
	archives []ArchiveType
	t        Tier
}

// newArchiveStore returns an archive store for tier t rooted at dir.
func newArchiveStore(t Tier, dir string, archives []ArchiveType, logger *log.Logger) *archiveStore {
	return &archiveStore{
		fs:       osfs.New(dir),
		logger:   logger,
		dir:      dir,
		archives: archives,
		t:        t,
	}
}

func (s *archiveStore) tier() Tier   { return s.t }
func (s *archiveStore) root() string { return s.dir }

// packages returns the names of archives with a known suffix, suffix stripped.
func (s *archiveStore) packages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	infos, err := s.fs.ReadDir("")
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s root %s: %w", s.t, s.dir, err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}

		if pkg, ok := trimArchiveSuffix(info.Name(), s.archives); ok {
			names = append(names, pkg)
		}
	}

	return names, nil
}

// list unions the entries of every archive of the package.
// Malformed archives are skipped and reported in the joined error.
func (s *archiveStore) list(ctx context.Context, pkg string) ([]string, error) {
	var (
		entries []string
		errs    []error
	)

	for _, archive := range s.archives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		archivePath := s.archivePath(pkg, archive)
		names, err := ListArchiveEntries(ctx, archive.Format, archivePath)
		if err != nil {
			if !errors.Is(err, ErrMalformedArchive) {
				return nil, err
			}

			s.logger.Warn("Skipping unreadable package archive", "tier", s.t, "archive", archivePath, "err", err)
			errs = append(errs, err)
			continue
		}

		entries = append(entries, names...)
	}

	return entries, errors.Join(errs...)
}

// fetch reads the resource from the first archive of the package holding it.
func (s *archiveStore) fetch(ctx context.Context, pkg, res string, opts FetchOptions) (Resource, bool, error) {
	var errs []error
	for _, archive := range s.archives {
		if err := ctx.Err(); err != nil {
			return Resource{}, false, err
		}

		archivePath := s.archivePath(pkg, archive)
		out, ok, err := ReadArchiveEntry(ctx, archive.Format, archivePath, res, opts)
		if err != nil {
			if !errors.Is(err, ErrMalformedArchive) {
				return Resource{}, false, err
			}

			s.logger.Warn("Skipping unreadable package archive", "tier", s.t, "archive", archivePath, "err", err)
			errs = append(errs, err)
			continue
		}
		if ok {
			s.logger.Debug("Resource found in archive", "tier", s.t, "archive", archivePath, "entry", out.Name)
			return out, true, nil
		}
	}

	return Resource{}, false, errors.Join(errs...)
}

// archivePath returns the location of the package archive of one type.
func (s *archiveStore) archivePath(pkg string, archive ArchiveType) string {
	return filepath.Join(s.dir, pkg+archive.Suffix)
}

// trimArchiveSuffix strips the first configured suffix name ends with.
// A bare suffix is not a package.
func trimArchiveSuffix(name string, archives []ArchiveType) (string, bool) {
	for _, archive := range archives {
		if archive.Suffix == "" {
			continue
		}

		if pkg, ok := strings.CutSuffix(name, archive.Suffix); ok && pkg != "" {
			return pkg, true
		}
	}

	return name, false
}
