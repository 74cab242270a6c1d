// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"encoding/json"
	"fmt"
)

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFieldTree, k)
	}

	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}

	return fmt.Errorf("%w: unknown kind %q", ErrInvalidFieldTree, text)
}

// MarshalFieldTreeJSON renders a field tree as indented JSON.
func MarshalFieldTreeJSON(root *Field) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidFieldTree)
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal field tree: %w", err)
	}

	return append(out, '\n'), nil
}

// UnmarshalFieldTreeJSON parses JSON produced by MarshalFieldTreeJSON.
func UnmarshalFieldTreeJSON(data []byte) (*Field, error) {
	var root Field
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFieldTree, err)
	}

	if err := validateTree(&root, 0); err != nil {
		return nil, err
	}

	return &root, nil
}

// validateTree checks kinds and nesting of a tree built outside ReadFieldTree.
func validateTree(f *Field, depth int) error {
	if f == nil {
		return fmt.Errorf("%w: null field", ErrInvalidFieldTree)
	}
	if depth > maxFieldDepth {
		return fmt.Errorf("%w: nesting deeper than %d", ErrInvalidFieldTree, maxFieldDepth)
	}
	if _, ok := kindNames[f.Kind]; !ok {
		return fmt.Errorf("%w: field %q has %s", ErrInvalidFieldTree, f.Name, f.Kind)
	}
	if len(f.Children) > 0 && !f.Kind.hasChildren() {
		return fmt.Errorf("%w: %s field %q has children", ErrInvalidFieldTree, f.Kind, f.Name)
	}

	for _, c := range f.Children {
		if err := validateTree(c, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// SameShape reports whether a and b have equal names and kinds at every node.
func SameShape(a, b *Field) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Name != b.Name || a.Kind != b.Kind {
		return false
	}

	if a.Kind == KindArray {
		return true
	}
	if len(a.Children) != len(b.Children) {
		return false
	}

	for i := range a.Children {
		if !SameShape(a.Children[i], b.Children[i]) {
			return false
		}
	}

	return true
}
