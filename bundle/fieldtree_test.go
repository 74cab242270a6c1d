// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTexture() *Field {
	return NewStruct("Base",
		NewString("m_Name", "icon"),
		NewInt("m_Width", 2),
		NewInt("m_Height", 2),
		NewInt("m_TextureFormat", 4),
		NewInt("m_MipCount", 1),
		NewBool("m_IsReadable", true),
		NewFloat("m_MipBias", -0.5),
		NewStruct("m_StreamData",
			NewInt("offset", 0),
			NewInt("size", 0),
			NewString("path", ""),
		),
		NewArray("m_PlatformBlob", NewInt("", 1), NewInt("", -300)),
		NewBytes("image data", []byte{1, 2, 3, 4}),
	)
}

func TestFieldTreeRoundTrip(t *testing.T) {
	t.Parallel()

	src := createTestTexture()
	data, err := WriteFieldTree(src)
	require.NoError(t, err)

	got, err := ReadFieldTree(data)
	require.NoError(t, err)
	assert.Equal(t, src, got)

	again, err := WriteFieldTree(got)
	require.NoError(t, err)
	assert.Equal(t, data, again, "encoding is not stable")
}

func TestFieldAccessors(t *testing.T) {
	t.Parallel()

	tree := createTestTexture()

	width, err := tree.IntValue("m_Width")
	require.NoError(t, err)
	assert.EqualValues(t, 2, width)

	name, err := tree.StringValue("m_Name")
	require.NoError(t, err)
	assert.Equal(t, "icon", name)

	_, err = tree.IntValue("m_Name")
	assert.ErrorIs(t, err, ErrFieldKind)
	_, err = tree.BytesValue("m_Script")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	require.NoError(t, tree.SetInt("m_Width", 64))
	require.NoError(t, tree.Path("m_StreamData").SetString("path", "archive:/x"))
	require.NoError(t, tree.SetBytes("image data", nil))
	assert.Equal(t, "archive:/x", tree.Path("m_StreamData", "path").Str)
	assert.Nil(t, tree.Path("m_StreamData", "missing"))
	assert.NotNil(t, tree.Find("size"))
	assert.Nil(t, tree.Find("nope"))
	assert.True(t, tree.Has("m_MipCount"))
	assert.False(t, tree.Has("m_Script"))

	var nilField *Field
	assert.Nil(t, nilField.Child("x"))
	assert.Nil(t, nilField.Find("x"))
}

func TestFieldClone(t *testing.T) {
	t.Parallel()

	src := createTestTexture()
	cp := src.Clone()
	require.Equal(t, src, cp)

	cp.Child("image data").Bytes[0] = 99
	_ = cp.Path("m_StreamData").SetInt("size", 7)
	assert.EqualValues(t, 1, src.Child("image data").Bytes[0], "clone shares bytes with source")
	assert.Zero(t, src.Path("m_StreamData", "size").Int, "clone shares children with source")
}

func TestReadFieldTreeErrors(t *testing.T) {
	t.Parallel()

	valid, err := WriteFieldTree(createTestTexture())
	require.NoError(t, err)

	deep := NewInt("leaf", 1)
	for range maxFieldDepth + 2 {
		deep = NewStruct("s", deep)
	}
	deepData, err := WriteFieldTree(deep)
	require.NoError(t, err)

	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "bad-kind", data: []byte{0x42, 0, 0}},
		{name: "truncated", data: valid[:len(valid)-3]},
		{name: "trailing", data: append(bytes.Clone(valid), 0)},
		{name: "too-deep", data: deepData},
		{name: "huge-count", data: []byte{byte(KindStruct), 0, 0xff, 0xff, 0x03}},
	}

	for _, tc := range testCases {
		_, err := ReadFieldTree(tc.data)
		assert.ErrorIs(t, err, ErrInvalidFieldTree, tc.name)
	}

	_, err = WriteFieldTree(&Field{Name: "x", Kind: Kind(0)})
	assert.ErrorIs(t, err, ErrInvalidFieldTree)
}

func TestFieldTreeJSON(t *testing.T) {
	t.Parallel()

	src := createTestTexture()
	data, err := MarshalFieldTreeJSON(src)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind": "struct"`)

	got, err := UnmarshalFieldTreeJSON(data)
	require.NoError(t, err)

	want, err := WriteFieldTree(src)
	require.NoError(t, err)
	have, err := WriteFieldTree(got)
	require.NoError(t, err)
	assert.Equal(t, want, have, "json round trip changed encoded tree")
	assert.True(t, SameShape(got, src))

	bad := []string{
		`{"name":"x","kind":"nope"}`,
		`{"name":"x"}`,
		`{"name":"x","kind":"int","children":[{"name":"y","kind":"int"}]}`,
		`not json`,
	}
	for _, raw := range bad {
		_, err := UnmarshalFieldTreeJSON([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidFieldTree, raw)
	}
}

func TestSameShape(t *testing.T) {
	t.Parallel()

	a := createTestTexture()
	b := createTestTexture()
	_ = b.SetInt("m_Width", 512)
	b.Child("m_PlatformBlob").Children = nil
	assert.True(t, SameShape(a, b), "value and array length changes must keep shape")

	b.Children = b.Children[1:]
	assert.False(t, SameShape(a, b), "missing field must change shape")
}
