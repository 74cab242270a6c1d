// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"

	"github.com/woozymasta/assetpatch/bundle"
	"github.com/woozymasta/assetpatch/texture"
)

// Texture2D field names.
const (
	fieldTextureFormat     = "m_TextureFormat"
	fieldWidth             = "m_Width"
	fieldHeight            = "m_Height"
	fieldMipCount          = "m_MipCount"
	fieldCompleteImageSize = "m_CompleteImageSize"
	fieldPlatformBlob      = "m_PlatformBlob"
	fieldStreamData        = "m_StreamData"
	fieldImageData         = "image data"
	fieldScript            = "m_Script"
)

// readTextureDescriptor reads the texture layout fields of tree.
func readTextureDescriptor(tree *bundle.Field) (TextureDescriptor, error) {
	rawFormat, err := tree.IntValue(fieldTextureFormat)
	if err != nil {
		return TextureDescriptor{}, err
	}
	width, err := tree.IntValue(fieldWidth)
	if err != nil {
		return TextureDescriptor{}, err
	}
	height, err := tree.IntValue(fieldHeight)
	if err != nil {
		return TextureDescriptor{}, err
	}

	desc := TextureDescriptor{
		Format:   texture.Format(rawFormat),
		Width:    int(width),
		Height:   int(height),
		MipCount: 1,
	}

	if mips, err := tree.IntValue(fieldMipCount); err == nil && mips > 0 {
		desc.MipCount = int(mips)
	}

	if blob := tree.Child(fieldPlatformBlob); blob != nil && blob.Kind == bundle.KindArray {
		for _, item := range blob.Children {
			desc.PlatformBlob = append(desc.PlatformBlob, item.Int)
		}
	}

	if stream := tree.Child(fieldStreamData); stream != nil {
		desc.StreamOffset, _ = stream.IntValue("offset")
		desc.StreamSize, _ = stream.IntValue("size")
		desc.StreamPath, _ = stream.StringValue("path")
	}

	return desc, nil
}

// texturePixels returns the stored pixel payload, inline or from the streamed resource.
func texturePixels(archive *bundle.Archive, tree *bundle.Field, desc TextureDescriptor) ([]byte, error) {
	if desc.StreamSize <= 0 {
		data, err := tree.BytesValue(fieldImageData)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
		}

		return data, nil
	}

	name := streamResourceName(desc.StreamPath)
	resource := archive.SubFile(name)
	if resource == nil {
		return nil, fmt.Errorf("%w: stream resource %q not in archive", ErrDecodeFailure, desc.StreamPath)
	}

	end := desc.StreamOffset + desc.StreamSize
	if desc.StreamOffset < 0 || end < desc.StreamOffset || end > int64(len(resource.Data)) {
		return nil, fmt.Errorf("%w: stream range %d+%d exceeds %s (%d bytes)",
			ErrDecodeFailure, desc.StreamOffset, desc.StreamSize, name, len(resource.Data))
	}

	return resource.Data[desc.StreamOffset:end], nil
}

// applyEncodedTexture writes enc into tree. Inline data replaces any stream reference.
// tree is left untouched when a required field is missing.
func applyEncodedTexture(tree *bundle.Field, enc texture.Encoded) error {
	next := tree.Clone()

	if stream := next.Child(fieldStreamData); stream != nil {
		if err := stream.SetInt("offset", 0); err != nil {
			return err
		}
		if err := stream.SetInt("size", 0); err != nil {
			return err
		}
		if err := stream.SetString("path", ""); err != nil {
			return err
		}
	}

	if next.Has(fieldMipCount) {
		if err := next.SetInt(fieldMipCount, int64(enc.MipCount)); err != nil {
			return err
		}
	}
	if next.Has(fieldCompleteImageSize) {
		if err := next.SetInt(fieldCompleteImageSize, int64(len(enc.Data))); err != nil {
			return err
		}
	}

	if err := next.SetInt(fieldTextureFormat, int64(enc.Format)); err != nil {
		return err
	}
	if err := next.SetInt(fieldWidth, int64(enc.Width)); err != nil {
		return err
	}
	if err := next.SetInt(fieldHeight, int64(enc.Height)); err != nil {
		return err
	}
	if err := next.SetBytes(fieldImageData, enc.Data); err != nil {
		return err
	}

	*tree = *next
	return nil
}
