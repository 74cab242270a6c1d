// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestAssetsFile() *AssetsFile {
	return &AssetsFile{
		EngineVersion: "2021.3.8f1",
		Platform:      13,
		Objects: []*Object{
			{PathID: 1, ClassID: ClassAssetBundle, Data: []byte("bundle")},
			{PathID: -5, ClassID: ClassTextAsset, Data: []byte("text")},
			{PathID: 42, ClassID: ClassTexture2D, Data: nil},
		},
	}
}

func TestAssetsFileRoundTrip(t *testing.T) {
	t.Parallel()

	src := createTestAssetsFile()
	data, err := src.Bytes(nil)
	require.NoError(t, err)
	require.True(t, IsAssetsFile(data))

	got, err := ParseAssetsFile(data)
	require.NoError(t, err)
	assert.Equal(t, src.EngineVersion, got.EngineVersion)
	assert.Equal(t, src.Platform, got.Platform)
	require.Len(t, got.Objects, 3)

	for i, obj := range src.Objects {
		g := got.Objects[i]
		assert.Equal(t, obj.PathID, g.PathID, "object %d", i)
		assert.Equal(t, obj.ClassID, g.ClassID, "object %d", i)
		assert.Equal(t, string(obj.Data), string(g.Data), "object %d", i)
	}

	again, err := got.Bytes(nil)
	require.NoError(t, err)
	assert.Equal(t, data, again, "re-serialized assets file differs")
}

func TestAssetsFileBytesReplaces(t *testing.T) {
	t.Parallel()

	src := createTestAssetsFile()
	data, err := src.Bytes(map[int64][]byte{-5: []byte("patched text")})
	require.NoError(t, err)

	got, err := ParseAssetsFile(data)
	require.NoError(t, err)
	assert.Equal(t, "patched text", string(got.Object(-5).Data))
	assert.Equal(t, "bundle", string(got.Object(1).Data))
	assert.Nil(t, got.Object(99))
	assert.Equal(t, "text", string(src.Object(-5).Data), "Bytes mutated source object")
}

func TestParseAssetsFileErrors(t *testing.T) {
	t.Parallel()

	valid, err := createTestAssetsFile().Bytes(nil)
	require.NoError(t, err)

	dup := &AssetsFile{Objects: []*Object{{PathID: 3}, {PathID: 3}}}
	dupData, err := dup.Bytes(nil)
	require.NoError(t, err)

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{name: "signature", data: []byte("ASF0....????"), want: ErrInvalidAssetsFile},
		{name: "short", data: valid[:14], want: ErrTruncated},
		{name: "payload", data: valid[:len(valid)-2], want: ErrInvalidAssetsFile},
		{name: "duplicate", data: dupData, want: ErrInvalidAssetsFile},
	}

	for _, tc := range testCases {
		_, err := ParseAssetsFile(tc.data)
		assert.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestClassIDString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Texture2D", ClassTexture2D.String())
	assert.Equal(t, "Class(1)", ClassID(1).String())
}
