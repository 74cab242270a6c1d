// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

// PatchSet holds at most one pending Replacer per asset key. The newest Stage wins.
type PatchSet struct {
	byKey map[string]Replacer
	order []string
}

// NewPatchSet returns an empty patch set.
func NewPatchSet() *PatchSet {
	return &PatchSet{byKey: make(map[string]Replacer, 16)}
}

// Stage records r for key and reports whether an earlier replacer was overwritten.
// An overwritten key keeps its first staging position.
func (p *PatchSet) Stage(key string, r Replacer) bool {
	_, replaced := p.byKey[key]
	if !replaced {
		p.order = append(p.order, key)
	}

	p.byKey[key] = r
	return replaced
}

// Get returns the pending replacer for key.
func (p *PatchSet) Get(key string) (Replacer, bool) {
	r, ok := p.byKey[key]
	return r, ok
}

// Len returns the number of pending keys.
func (p *PatchSet) Len() int {
	return len(p.byKey)
}

// Keys returns pending keys in staging order.
func (p *PatchSet) Keys() []string {
	return append([]string(nil), p.order...)
}

// Drain groups pending replacers by sub-file name and empties the set.
func (p *PatchSet) Drain() map[string][]Replacer {
	out := make(map[string][]Replacer, 4)
	for _, key := range p.order {
		r := p.byKey[key]
		out[r.SubFile] = append(out[r.SubFile], r)
	}

	p.byKey = make(map[string]Replacer, 16)
	p.order = nil

	return out
}
