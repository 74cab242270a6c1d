// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/woozymasta/assetpatch/bundle"
	"github.com/woozymasta/assetpatch/texture"
)

// testSubFile is the serialized sub-file name used by fixtures.
const testSubFile = "CAB-test"

// testObject is one object placed into a fixture bundle.
type testObject struct {
	tree    *bundle.Field
	pathID  int64
	classID bundle.ClassID
}

// textureTree builds a Texture2D field tree with inline pixel data.
func textureTree(name string, f texture.Format, w, h, mips int, data []byte) *bundle.Field {
	return bundle.NewStruct("Base",
		bundle.NewString("m_Name", name),
		bundle.NewInt("m_Width", int64(w)),
		bundle.NewInt("m_Height", int64(h)),
		bundle.NewInt("m_CompleteImageSize", int64(len(data))),
		bundle.NewInt("m_TextureFormat", int64(f)),
		bundle.NewInt("m_MipCount", int64(mips)),
		bundle.NewBool("m_IsReadable", false),
		bundle.NewArray("m_PlatformBlob"),
		bundle.NewStruct("m_StreamData",
			bundle.NewInt("offset", 0),
			bundle.NewInt("size", 0),
			bundle.NewString("path", ""),
		),
		bundle.NewBytes("image data", data),
	)
}

// textTree builds a TextAsset field tree.
func textTree(name string, script []byte) *bundle.Field {
	return bundle.NewStruct("Base",
		bundle.NewString("m_Name", name),
		bundle.NewBytes("m_Script", script),
	)
}

// containerTree builds an AssetBundle tree mapping container paths to local path ids.
func containerTree(paths map[string]int64) *bundle.Field {
	table := bundle.NewArray("m_Container")
	for p, id := range paths {
		table.Children = append(table.Children, bundle.NewStruct("data",
			bundle.NewString("first", p),
			bundle.NewStruct("second",
				bundle.NewInt("preloadIndex", 0),
				bundle.NewStruct("asset",
					bundle.NewInt("m_FileID", 0),
					bundle.NewInt("m_PathID", id),
				),
			),
		))
	}

	return bundle.NewStruct("Base",
		bundle.NewString("m_Name", "bundle"),
		table,
	)
}

// rgbaPixels returns w*h RGBA32 pixels with distinct channel values.
func rgbaPixels(w, h int) []byte {
	out := make([]byte, w*h*4)
	for i := range out {
		out[i] = byte(i*37 + 11)
	}

	return out
}

// writeTestBundle encodes objects into one serialized sub-file plus extra raw sub-files.
func writeTestBundle(t *testing.T, dir string, objects []testObject, extra ...*bundle.SubFile) string {
	t.Helper()

	af := &bundle.AssetsFile{EngineVersion: "2021.3.8f1", Platform: 5}
	for _, obj := range objects {
		data, err := bundle.WriteFieldTree(obj.tree)
		require.NoError(t, err)
		af.Objects = append(af.Objects, &bundle.Object{PathID: obj.pathID, ClassID: obj.classID, Data: data})
	}

	serialized, err := af.Bytes(nil)
	require.NoError(t, err)

	archive := &bundle.Archive{
		BlockSize: 4096,
		SubFiles:  append([]*bundle.SubFile{{Name: testSubFile, Flags: bundle.NodeSerialized, Data: serialized}}, extra...),
	}

	packed, err := bundle.Encode(archive, bundle.CompressionLZ4)
	require.NoError(t, err)

	path := filepath.Join(dir, "source.bundle")
	require.NoError(t, os.WriteFile(path, packed, 0o600))

	return path
}

// objectPayloads opens a bundle file and returns object payloads of the test sub-file.
func objectPayloads(t *testing.T, path string) map[int64][]byte {
	t.Helper()

	archive, err := bundle.OpenArchive(path)
	require.NoError(t, err)

	sf := archive.SubFile(testSubFile)
	require.NotNil(t, sf)

	af, err := bundle.ParseAssetsFile(sf.Data)
	require.NoError(t, err)

	out := make(map[int64][]byte, len(af.Objects))
	for _, obj := range af.Objects {
		out[obj.PathID] = obj.Data
	}

	return out
}

// objectTree reads one object tree of the test sub-file.
func objectTree(t *testing.T, path string, pathID int64) *bundle.Field {
	t.Helper()

	data, ok := objectPayloads(t, path)[pathID]
	require.True(t, ok, "path id %d missing", pathID)

	tree, err := bundle.ReadFieldTree(data)
	require.NoError(t, err)

	return tree
}
