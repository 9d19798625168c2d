// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/woozymasta/pathrules"
	"github.com/woozymasta/pkgres"
)

const (
	// appName names the config directory and the environment prefix.
	appName = "pkgres"
	// configName is the config file name without extension.
	configName = "config"
)

// Config is the CLI configuration. Every key may also be set through
// PKGRES_* environment variables, e.g. PKGRES_ROOTS_LOOSE.
type Config struct {
	Roots           RootsConfig     `mapstructure:"roots"`
	Archives        []ArchiveConfig `mapstructure:"archives"`
	IgnorePatterns  []string        `mapstructure:"ignore_patterns"`
	IgnoreRules     []string        `mapstructure:"ignore_rules"`
	IgnoredPackages []string        `mapstructure:"ignored_packages"`
	RelativeMarker  string          `mapstructure:"relative_marker"`
	Encoding        string          `mapstructure:"encoding"`
}

// RootsConfig holds the tier roots.
type RootsConfig struct {
	Loose     string `mapstructure:"loose"`
	Installed string `mapstructure:"installed"`
	Bundled   string `mapstructure:"bundled"`
}

// ArchiveConfig binds an archive suffix to a format name ("zip" or "pbo").
type ArchiveConfig struct {
	Suffix string `mapstructure:"suffix"`
	Format string `mapstructure:"format"`
}

// loadConfig reads configuration from file (explicit path, user config dir
// or working directory) and environment into v.
// A missing config file is not an error.
func loadConfig(v *viper.Viper, path string) (*Config, error) {
	v.SetDefault("roots.loose", "")
	v.SetDefault("roots.installed", "")
	v.SetDefault("roots.bundled", "")
	v.SetDefault("archives", []map[string]string{{"suffix": pkgres.DefaultArchiveSuffix, "format": "zip"}})
	v.SetDefault("ignore_patterns", []string{})
	v.SetDefault("ignore_rules", []string{})
	v.SetDefault("ignored_packages", []string{})
	v.SetDefault("relative_marker", pkgres.DefaultRelativeMarker)
	v.SetDefault("encoding", pkgres.DefaultEncoding)

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, appName))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return &cfg, nil
}

// resolverOptions converts the configuration into resolver options.
func (cfg *Config) resolverOptions() (pkgres.Options, error) {
	opts := pkgres.Options{
		Roots: pkgres.Roots{
			Loose:     strings.TrimSpace(cfg.Roots.Loose),
			Installed: strings.TrimSpace(cfg.Roots.Installed),
			Bundled:   strings.TrimSpace(cfg.Roots.Bundled),
		},
		IgnorePatterns:  cfg.IgnorePatterns,
		IgnoreRules:     parseRules(cfg.IgnoreRules),
		IgnoredPackages: cfg.IgnoredPackages,
		RelativeMarker:  cfg.RelativeMarker,
	}

	for _, archive := range cfg.Archives {
		format, err := formatByName(archive.Format)
		if err != nil {
			return pkgres.Options{}, err
		}

		opts.Archives = append(opts.Archives, pkgres.ArchiveType{Suffix: archive.Suffix, Format: format})
	}

	return opts, nil
}

// formatByName returns the archive format registered under name.
func formatByName(name string) (pkgres.Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "zip":
		return pkgres.ZipFormat{}, nil
	case "pbo":
		return pkgres.PBOFormat{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", pkgres.ErrUnknownFormat, name)
	}
}

// parseRules converts gitignore-style lines into exclude rules.
// A leading "!" re-includes; blank lines and "#" comments are skipped.
func parseRules(lines []string) []pathrules.Rule {
	rules := make([]pathrules.Rule, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if pattern, ok := strings.CutPrefix(line, "!"); ok {
			rules = append(rules, pathrules.Rule{Action: pathrules.ActionInclude, Pattern: pattern})
			continue
		}

		rules = append(rules, pathrules.Rule{Action: pathrules.ActionExclude, Pattern: line})
	}

	return rules
}
