// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package main

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/woozymasta/pkgres"
)

func (a *app) packagesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "packages",
		Short: "List packages from every tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pkgs, err := a.resolver.Packages(cmd.Context(), !all)
			if err != nil {
				return err
			}

			return printLines(cmd, pkgs)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include ignored packages")

	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var (
		glob     string
		noIgnore bool
	)

	cmd := &cobra.Command{
		Use:   "list <package>",
		Short: "List every resource of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if glob != "" && !doublestar.ValidatePattern(glob) {
				return fmt.Errorf("invalid glob %q: %w", glob, doublestar.ErrBadPattern)
			}

			var ignore *pkgres.IgnoreMatcher
			if noIgnore {
				ignore, _ = pkgres.NewIgnoreMatcher(nil, nil)
			}

			resources, err := a.resolver.ListIgnoring(cmd.Context(), args[0], ignore)
			if err != nil && !a.warnPartial(err) {
				return err
			}

			out := resources[:0]
			for _, res := range resources {
				if glob != "" {
					if ok, _ := doublestar.Match(glob, res); !ok {
						continue
					}
				}

				out = append(out, res)
			}

			return printLines(cmd, out)
		},
	}
	cmd.Flags().StringVarP(&glob, "glob", "g", "", "only show resources matching a doublestar pattern")
	cmd.Flags().BoolVar(&noIgnore, "no-ignore", false, "show resources hidden by ignore patterns")

	return cmd
}

func (a *app) lsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls <package> [dir]",
		Short: "Browse one directory level of a package",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resources, err := a.resolver.List(cmd.Context(), args[0])
			if err != nil && !a.warnPartial(err) {
				return err
			}

			dir := ""
			if len(args) == 2 {
				dir = args[1]
			}

			dirs, files, ok := pkgres.NewTree(resources).Entries(dir)
			if !ok {
				return fmt.Errorf("directory %q in package %q: %w", dir, args[0], errNotFound)
			}

			return printLines(cmd, append(dirs, files...))
		},
	}
}

func (a *app) catCmd() *cobra.Command {
	var opts pkgres.FetchOptions

	cmd := &cobra.Command{
		Use:   "cat <package> <resource>",
		Short: "Print the content of a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Encoding == "" {
				opts.Encoding = a.cfg.Encoding
			}

			res, err := a.fetch(cmd, args[0], args[1], opts)
			if err != nil {
				return err
			}

			if opts.Binary {
				_, err = cmd.OutOrStdout().Write(res.Data)
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), res.Text)
			return err
		},
	}
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "match the resource file name anywhere below its directory")
	cmd.Flags().BoolVarP(&opts.Binary, "binary", "b", false, "write raw bytes without decoding")
	cmd.Flags().StringVarP(&opts.Encoding, "encoding", "e", "", "text encoding of the resource (default from config)")

	return cmd
}

func (a *app) pathCmd() *cobra.Command {
	var opts pkgres.FetchOptions

	cmd := &cobra.Command{
		Use:   "path <package> <resource>",
		Short: "Print a filesystem path for a resource, extracting archive entries to a temp dir",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.GetPath = true

			res, err := a.fetch(cmd, args[0], args[1], opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			return err
		},
	}
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "match the resource file name anywhere below its directory")

	return cmd
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <path>",
		Short: "Split a path into package and resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, res, ok := a.resolver.Decompose(args[0])
			if !ok {
				return fmt.Errorf("path %q is outside every package root: %w", args[0], errNotFound)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", pkg, res)
			return err
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <package> <resource>",
		Short: "Copy a resource into the loose tier for editing and print its path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, ok, err := a.resolver.Materialize(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("resource %s/%s: %w", args[0], args[1], errNotFound)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

// fetch resolves one resource and turns absence into errNotFound.
func (a *app) fetch(cmd *cobra.Command, pkg, resource string, opts pkgres.FetchOptions) (pkgres.Resource, error) {
	res, ok, err := a.resolver.Fetch(cmd.Context(), pkg, resource, opts)
	if err != nil {
		return pkgres.Resource{}, err
	}
	if !ok {
		return pkgres.Resource{}, fmt.Errorf("resource %s/%s: %w", pkg, resource, errNotFound)
	}

	a.logger.Debug("Resolved resource", "package", pkg, "resource", res.Name, "tier", res.Tier)
	return res, nil
}

// printLines writes one value per line.
func printLines(cmd *cobra.Command, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}
