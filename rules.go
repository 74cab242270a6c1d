// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// importMatcher holds compiled rules selecting staged files.
type importMatcher struct {
	matcher *pathrules.Matcher
}

// newImportMatcher compiles import path rules. No rules means every file is staged.
func newImportMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*importMatcher, error) {
	rules = normalizeImportRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile import rules: %w", ErrInvalidConfig, err)
	}

	return &importMatcher{matcher: matcher}, nil
}

// normalizeImportRules normalizes rule patterns and drops empty patterns.
func normalizeImportRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizePathForMatching(rule.Pattern)
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

// Match reports whether a staged file name is selected for import.
func (m *importMatcher) Match(name string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := NormalizePath(name)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}
