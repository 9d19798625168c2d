// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/woozymasta/pkgres"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// errNotFound is returned by commands when a package resource does not exist.
var errNotFound = errors.New("not found")

// app carries state shared by the subcommands of one invocation.
type app struct {
	v        *viper.Viper
	logger   *log.Logger
	resolver *pkgres.Resolver
	cfg      *Config
	cfgFile  string
	verbose  bool
}

// versionString returns a formatted version string for display.
func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}

	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// newRootCmd builds the command tree. Each call returns independent state.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "pkgres",
		Short: "Browse package resources across loose folders and archives",
		Long: `pkgres resolves packages and their resources across three tiers:
a loose directory of unpacked packages, installed package archives and
bundled package archives. Loose files override archive entries.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/pkgres/config.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.String("loose", "", "loose packages directory")
	flags.String("installed", "", "installed package archives directory")
	flags.String("bundled", "", "bundled package archives directory")
	flags.StringSlice("ignore", nil, "ignore pattern matched against every path segment (repeatable)")

	_ = a.v.BindPFlag("roots.loose", flags.Lookup("loose"))
	_ = a.v.BindPFlag("roots.installed", flags.Lookup("installed"))
	_ = a.v.BindPFlag("roots.bundled", flags.Lookup("bundled"))
	_ = a.v.BindPFlag("ignore_patterns", flags.Lookup("ignore"))

	root.AddCommand(
		a.packagesCmd(),
		a.listCmd(),
		a.lsCmd(),
		a.catCmd(),
		a.pathCmd(),
		a.resolveCmd(),
		a.editCmd(),
	)

	return root
}

// init loads configuration and builds the logger and resolver.
func (a *app) init(cmd *cobra.Command) error {
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "pkgres",
		Level:  log.WarnLevel,
	})
	if a.verbose {
		a.logger.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("Loaded config", "file", used)
	}

	opts, err := cfg.resolverOptions()
	if err != nil {
		return err
	}
	opts.Logger = a.logger

	resolver, err := pkgres.New(opts)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.resolver = resolver
	return nil
}

// warnPartial logs a contained archive failure and reports whether err was one.
func (a *app) warnPartial(err error) bool {
	if !errors.Is(err, pkgres.ErrMalformedArchive) {
		return false
	}

	a.logger.Warn("Some package archives could not be read", "err", err)
	return true
}
