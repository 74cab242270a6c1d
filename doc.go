// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

/*
Package assetpatch patches asset bundles in place: it exports textures and
text assets to editable files, stages edited files back as replacers and
repacks a bundle compatible with the original.

A Session walks one archive through fixed states:

	opened -> exported (optional) -> patched -> flushed -> repacked

Calls out of order fail with ErrInvalidState. Per-asset problems (unsupported
texture format, corrupt image, file without a matching key) are logged and
counted in BatchResult; only ErrFatalIO and ErrInvalidState abort a batch.

Every indexed asset has a key "{name}-{subFile}-{pathID}". Exported and
staged files are named key.<ext>: textures use .png, text assets use the
extension of their container path or .json.

# Export

	s, err := assetpatch.Open("ui.bundle", assetpatch.Config{
	    ExportDir: "export",
	})
	if err != nil {
	    return err
	}
	res, err := s.BatchExport([]string{"icon", "localization"})
	if err != nil {
	    return err
	}
	fmt.Println(res.Processed, res.Skipped, res.Failed)

# Import and repack

	s, err := assetpatch.Open("ui.bundle", assetpatch.Config{
	    ImportDir: "import",
	    FieldReplacements: map[string]string{
	        "Language": "zh-CN",
	    },
	    BackupKeep: 1,
	})
	if err != nil {
	    return err
	}
	if _, err := s.BatchImport(); err != nil {
	    return err
	}
	if _, err := s.Flush(); err != nil {
	    return err
	}
	out, err := s.Repack("ui.patched.bundle", bundle.CompressionLZ4)
	if err != nil {
	    return err
	}
	fmt.Println(out.Digest)

Textures are re-encoded into the format recorded on the asset. Formats without
an encoder are substituted (ETC_RGB4 is written as DXT1) and the asset format
field records what was written.

# Dump mode

BatchExportDump and BatchImportDump move whole field trees as JSON, so any
object type can be edited as long as its field layout is kept.
*/
package assetpatch
