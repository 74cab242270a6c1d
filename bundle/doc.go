// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

/*
Package bundle reads and writes asset bundles: block-compressed containers
holding named sub-files, some of which are serialized assets files made of
objects whose payloads are self-describing field trees.

Layout (little-endian):
  - header: "AssetBundle\x00", version, block size, block count, node count;
  - block table: compressed size, uncompressed size, scheme per block;
  - node table: offset, size, flags, name into the decompressed stream;
  - block payloads.

Blocks are compressed with one of none, lzma, lz4, lz4hc, lzss or zstd. A block
that does not shrink is stored raw, so a bundle may mix schemes.

# Reading

	a, err := bundle.OpenArchive("ui.bundle")
	if err != nil {
	    return err
	}
	for _, sf := range a.SubFiles {
	    if !sf.IsSerialized() {
	        continue
	    }
	    af, err := bundle.ParseAssetsFile(sf.Data)
	    if err != nil {
	        return err
	    }
	    for _, obj := range af.Objects {
	        tree, _ := bundle.ReadFieldTree(obj.Data)
	        _ = tree.Child("m_Name")
	    }
	}

# Writing

Replace object payloads, rebuild the sub-file, then encode:

	data, err := af.Bytes(map[int64][]byte{pathID: payload})
	if err != nil {
	    return err
	}
	_ = a.ReplaceData(sf.Name, data)
	raw, err := bundle.Serialize(a)
	if err != nil {
	    return err
	}
	packed, err := bundle.Compress(raw, bundle.CompressionLZ4)
*/
package bundle
