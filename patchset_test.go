// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchSetNewestWins(t *testing.T) {
	t.Parallel()

	p := NewPatchSet()
	assert.False(t, p.Stage("a", Replacer{SubFile: "s1", PathID: 1, Data: []byte("r1")}))
	assert.False(t, p.Stage("b", Replacer{SubFile: "s2", PathID: 2, Data: []byte("x")}))
	assert.True(t, p.Stage("a", Replacer{SubFile: "s1", PathID: 1, Data: []byte("r2")}))

	require.Equal(t, 2, p.Len())
	got, ok := p.Get("a")
	require.True(t, ok)
	assert.Equal(t, "r2", string(got.Data))
	assert.Equal(t, []string{"a", "b"}, p.Keys())

	drained := p.Drain()
	require.Len(t, drained["s1"], 1)
	assert.Equal(t, "r2", string(drained["s1"][0].Data))
	assert.Len(t, drained["s2"], 1)

	assert.Zero(t, p.Len())
	_, ok = p.Get("a")
	assert.False(t, ok)
}

func TestPatchSetGroupsBySubFile(t *testing.T) {
	t.Parallel()

	p := NewPatchSet()
	for i, key := range []string{"k1", "k2", "k3"} {
		p.Stage(key, Replacer{SubFile: "shared", PathID: int64(i)})
	}

	drained := p.Drain()
	require.Len(t, drained, 1)
	ids := make([]int64, 0, 3)
	for _, r := range drained["shared"] {
		ids = append(ids, r.PathID)
	}
	assert.Equal(t, []int64{0, 1, 2}, ids)
}
