// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/pkgres

package pkgres

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/woozymasta/pathrules"
)

// IsIgnored reports whether any segment of p, from the leaf up to the first
// segment, matches any pattern. A match on a directory name hides every
// descendant, not only its direct children.
func IsIgnored(p string, patterns []*regexp.Regexp) bool {
	if len(patterns) == 0 {
		return false
	}

	for rest := NormalizeResource(p); rest != ""; {
		parent, leaf := splitLast(rest)
		for _, re := range patterns {
			if re.MatchString(leaf) {
				return true
			}
		}

		rest = parent
	}

	return false
}

// IgnoreMatcher is the compiled ignore configuration of a Resolver.
// It is immutable and safe for concurrent use.
type IgnoreMatcher struct {
	patterns []*regexp.Regexp
	rules    *pathrules.Matcher
}

// NewIgnoreMatcher compiles per-segment regular expressions and optional
// gitignore-style rules. Rules with ActionExclude hide matching paths;
// ActionInclude rules re-include paths hidden by earlier rules.
func NewIgnoreMatcher(patterns []string, rules []pathrules.Rule) (*IgnoreMatcher, error) {
	m := &IgnoreMatcher{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidIgnorePattern, pattern, err)
		}

		m.patterns = append(m.patterns, re)
	}

	rules = normalizeRules(rules)
	if len(rules) == 0 {
		return m, nil
	}

	matcher, err := pathrules.NewMatcher(rules, pathrules.MatcherOptions{
		DefaultAction: pathrules.ActionInclude,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidIgnorePattern, err)
	}

	m.rules = matcher
	return m, nil
}

// Ignored reports whether a resource path is hidden by the patterns or rules.
func (m *IgnoreMatcher) Ignored(p string) bool {
	if m == nil {
		return false
	}

	p = NormalizeResource(p)
	if IsIgnored(p, m.patterns) {
		return true
	}
	if m.rules == nil || p == "" {
		return false
	}

	if !m.rules.Included(p, false) {
		return true
	}

	for dir, _ := splitLast(p); dir != ""; dir, _ = splitLast(dir) {
		if !m.rules.Included(dir, true) {
			return true
		}
	}

	return false
}

// Filter returns the paths that are not ignored, preserving order.
func (m *IgnoreMatcher) Filter(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if m.Ignored(p) {
			continue
		}

		out = append(out, p)
	}

	return out
}

// normalizeRules normalizes rule patterns and drops empty ones.
func normalizeRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePattern(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// normalizePattern converts rule separators without cleaning, so a trailing
// "/" directory marker survives.
func normalizePattern(pattern string) string {
	pattern = strings.ReplaceAll(strings.TrimSpace(pattern), `\`, `/`)
	return strings.TrimPrefix(pattern, "./")
}
