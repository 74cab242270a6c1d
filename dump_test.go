// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woozymasta/assetpatch/bundle"
	"github.com/woozymasta/assetpatch/texture"
)

func TestDumpRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exportDir := filepath.Join(dir, "export")
	importDir := filepath.Join(dir, "import")
	require.NoError(t, os.MkdirAll(importDir, 0o755))

	source := writeTestBundle(t, dir, []testObject{
		{pathID: 1, classID: bundle.ClassTexture2D, tree: textureTree("T", texture.FormatRGBA32, 1, 1, 1, []byte{1, 2, 3, 4})},
		{pathID: 2, classID: bundle.ClassMonoBehaviour, tree: bundle.NewStruct("Base",
			bundle.NewString("m_Name", "Settings"),
			bundle.NewInt("m_Volume", 3),
		)},
	})

	s, err := Open(source, Config{ExportDir: exportDir, ImportDir: importDir})
	require.NoError(t, err)

	res, err := s.BatchExportDump(nil)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Processed: 2}, res)

	raw, err := os.ReadFile(filepath.Join(exportDir, "Settings-CAB-test-2.json"))
	require.NoError(t, err)
	tree, err := bundle.UnmarshalFieldTreeJSON(raw)
	require.NoError(t, err)
	require.NoError(t, tree.SetInt("m_Volume", 9))

	edited, err := bundle.MarshalFieldTreeJSON(tree)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "Settings-CAB-test-2.json"), edited, 0o600))

	reshaped := bundle.NewStruct("Base", bundle.NewString("m_Name", "T"))
	reshapedJSON, err := bundle.MarshalFieldTreeJSON(reshaped)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(importDir, "T-CAB-test-1.json"), reshapedJSON, 0o600))

	res, err = s.BatchImportDump()
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Processed: 1, Failed: 1}, res)

	_, err = s.Flush()
	require.NoError(t, err)
	out := filepath.Join(dir, "out.bundle")
	_, err = s.Repack(out, bundle.CompressionLZSS)
	require.NoError(t, err)

	volume, err := objectTree(t, out, 2).IntValue("m_Volume")
	require.NoError(t, err)
	assert.Equal(t, int64(9), volume)

	width, err := objectTree(t, out, 1).IntValue("m_Width")
	require.NoError(t, err)
	assert.Equal(t, int64(1), width)
}
