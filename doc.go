// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

/*
Package pkgres resolves packages and their resources across three backing
tiers treated as one namespace:

  - loose: a directory holding one unpacked folder per package;
  - installed: a directory of user-installed package archives;
  - bundled: a directory of archives shipped with the application.

Lookups walk the tiers in that order and the first tier holding a resource
wins, so a loose file overrides the same path inside an archive.

Archive types are bound to file suffixes (Options.Archives). The default is
".sublime-package" read as zip; PBO archives are available via PBOFormat.

# Resolving

	r, err := pkgres.New(pkgres.Options{
	    Roots: pkgres.Roots{
	        Loose:     "/opt/app/Packages",
	        Installed: "/opt/app/Installed Packages",
	        Bundled:   "/usr/share/app/Packages",
	    },
	    IgnorePatterns:  []string{`^\.git$`},
	    IgnoredPackages: []string{"Vintage"},
	})
	if err != nil {
	    return err
	}

	pkgs, err := r.Packages(ctx, true)
	if err != nil {
	    return err
	}
	files, err := r.List(ctx, pkgs[0])
	if err != nil {
	    return err
	}
	res, ok, err := r.Fetch(ctx, pkgs[0], files[0], pkgres.FetchOptions{})
	if err != nil || !ok {
	    return err
	}
	_ = res.Text

Absence is never an error: Fetch reports ok == false and List returns an
empty slice. Unreadable archives are skipped during lookups and reported
through errors wrapping ErrMalformedArchive.

# Paths

Resource paths are slash-separated and relative to the package root.
Decompose maps filesystem paths and "Packages/<pkg>/<resource>" strings back
to a package and resource:

	pkg, resource, ok := r.Decompose(`C:\App\Packages\Demo\sub\b.py`)

# Extracting

With FetchOptions.GetPath, loose resources return their own path and archive
entries are extracted into a fresh temporary directory. The caller owns that
directory and must remove it.

	res, ok, err := r.Fetch(ctx, "Demo", "a.py", pkgres.FetchOptions{GetPath: true})

To edit a resource shipped only inside an archive, Materialize copies it into
the loose tier once and returns the loose path.
*/
package pkgres
