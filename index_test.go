// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/assetpatch/bundle"
)

func TestBuildIndex(t *testing.T) {
	t.Parallel()

	good, err := bundle.WriteFieldTree(textTree("Credits", []byte("x")))
	require.NoError(t, err)

	manager := bundle.NewStruct("Base",
		bundle.NewArray("m_Container",
			bundle.NewStruct("data",
				bundle.NewString("first", "resources/credits.txt"),
				bundle.NewStruct("second",
					bundle.NewInt("m_FileID", 0),
					bundle.NewInt("m_PathID", 2),
				),
			),
			bundle.NewStruct("data",
				bundle.NewString("first", "external/other.txt"),
				bundle.NewStruct("second",
					bundle.NewInt("m_FileID", 1),
					bundle.NewInt("m_PathID", 3),
				),
			),
		),
	)
	managerData, err := bundle.WriteFieldTree(manager)
	require.NoError(t, err)

	serialized, err := (&bundle.AssetsFile{Objects: []*bundle.Object{
		{PathID: 1, ClassID: bundle.ClassResourceManager, Data: managerData},
		{PathID: 2, ClassID: bundle.ClassTextAsset, Data: good},
		{PathID: 3, ClassID: bundle.ClassTextAsset, Data: good},
		{PathID: 4, ClassID: bundle.ClassTexture2D, Data: []byte{0xff}},
	}}).Bytes(nil)
	require.NoError(t, err)

	undecodable, err := (&bundle.AssetsFile{Objects: []*bundle.Object{
		{PathID: 9, ClassID: bundle.ClassTextAsset, Data: []byte{0xfe, 0x01}},
	}}).Bytes(nil)
	require.NoError(t, err)

	archive := &bundle.Archive{SubFiles: []*bundle.SubFile{
		{Name: "CAB-a", Flags: bundle.NodeSerialized, Data: serialized},
		{Name: "CAB-undecodable", Flags: bundle.NodeSerialized, Data: undecodable},
		{Name: "CAB-broken", Flags: bundle.NodeSerialized, Data: []byte("ASF1garbage")},
		{Name: "CAB-a.resS", Data: []byte{1, 2, 3}},
	}}

	idx, err := BuildIndex(archive, nil)
	require.NoError(t, err)

	keys := make([]string, 0, idx.Len())
	for _, rec := range idx.Records() {
		keys = append(keys, rec.Key)
	}
	assert.Equal(t, []string{"Credits-CAB-a-2", "Credits-CAB-a-3", "unnamed-CAB-a-1"}, keys)

	rec, ok := idx.Get("Credits-CAB-a-2")
	require.True(t, ok)
	assert.Equal(t, "resources/credits.txt", rec.Container)
	assert.Equal(t, AssetBlob, rec.Type)

	rec, ok = idx.Get("Credits-CAB-a-3")
	require.True(t, ok)
	assert.Empty(t, rec.Container)

	rec, ok = idx.Get("unnamed-CAB-a-1")
	require.True(t, ok)
	assert.Equal(t, AssetOther, rec.Type)

	_, ok = idx.assetsFile("CAB-broken")
	assert.False(t, ok)
	_, ok = idx.assetsFile("CAB-undecodable")
	assert.False(t, ok, "sub-file without loaded records must not be rebuilt")
	_, ok = idx.assetsFile("CAB-a")
	assert.True(t, ok)

	_, err = BuildIndex(nil, nil)
	assert.Error(t, err)
}
