// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// fieldReplacement is one compiled `"field": "value"` rewrite.
type fieldReplacement struct {
	pattern *regexp.Regexp
	field   string
	value   string
	literal string
}

// quoteJSON returns s as a JSON string literal without HTML escaping.
func quoteJSON(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// compileFieldReplacements builds rewrites in field name order.
func compileFieldReplacements(fields map[string]string) ([]fieldReplacement, error) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]fieldReplacement, 0, len(names))
	for _, name := range names {
		quotedName, err := quoteJSON(name)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrInvalidConfig, name, err)
		}
		quotedValue, err := quoteJSON(fields[name])
		if err != nil {
			return nil, fmt.Errorf("%w: field %q value: %w", ErrInvalidConfig, name, err)
		}

		out = append(out, fieldReplacement{
			pattern: regexp.MustCompile(regexp.QuoteMeta(quotedName) + `\s*:\s*"([^"]*)"`),
			field:   name,
			value:   fields[name],
			literal: quotedName + ": " + quotedValue,
		})
	}

	return out, nil
}

// apply rewrites the first occurrence of the field when its value differs.
// It returns the new content, the old value and whether content changed.
func (r fieldReplacement) apply(content string) (string, string, bool) {
	loc := r.pattern.FindStringSubmatchIndex(content)
	if loc == nil {
		return content, "", false
	}

	old := content[loc[2]:loc[3]]
	if r.matches(old) {
		return content, old, false
	}

	return content[:loc[0]] + r.literal + content[loc[1]:], old, true
}

// matches reports whether the raw JSON string body old already decodes to the value.
func (r fieldReplacement) matches(old string) bool {
	if old == r.value {
		return true
	}

	var decoded string
	if err := json.Unmarshal([]byte(`"`+old+`"`), &decoded); err != nil {
		return false
	}

	return decoded == r.value
}

// PreprocessJSON forces Config.FieldReplacements in every *.json file of ImportDir.
// Files whose base name contains a FieldReplacementFilters keyword are left alone.
// Files are rewritten in place; per-file failures are logged and counted.
func (s *Session) PreprocessJSON() (BatchResult, error) {
	var result BatchResult
	if s == nil {
		return result, ErrNilSession
	}
	if len(s.cfg.FieldReplacements) == 0 {
		return result, nil
	}

	replacements, err := compileFieldReplacements(s.cfg.FieldReplacements)
	if err != nil {
		return result, err
	}

	entries, err := os.ReadDir(s.cfg.ImportDir)
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("%w: read import dir: %w", ErrFatalIO, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if keyword, ok := matchesKeyword(base, s.cfg.FieldReplacementFilters); ok {
			s.log.Debug().Str("file", entry.Name()).Str("filter", keyword).Msg("skip field replacement")
			result.Skipped++
			continue
		}

		changed, err := s.preprocessFile(filepath.Join(s.cfg.ImportDir, entry.Name()), replacements)
		switch {
		case err != nil:
			result.Failed++
			s.log.Error().Err(err).Str("file", entry.Name()).Msg("field replacement failed")
		case changed:
			result.Processed++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// preprocessFile applies replacements to one file and reports whether it was rewritten.
func (s *Session) preprocessFile(path string, replacements []fieldReplacement) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	content := string(raw)
	modified := false
	for _, r := range replacements {
		next, old, changed := r.apply(content)
		if !changed {
			continue
		}

		s.log.Info().
			Str("file", filepath.Base(path)).
			Str("field", r.field).
			Str("from", old).
			Str("to", r.value).
			Msg("field replaced")
		content = next
		modified = true
	}

	if !modified {
		return false, nil
	}

	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return false, err
	}

	return true, nil
}

// matchesKeyword returns the first keyword contained in name, ignoring case.
func matchesKeyword(name string, keywords []string) (string, bool) {
	lower := strings.ToLower(name)
	for _, keyword := range keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k != "" && strings.Contains(lower, k) {
			return keyword, true
		}
	}

	return "", false
}
