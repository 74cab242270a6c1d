// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	"github.com/rs/zerolog"
	"github.com/woozymasta/assetpatch/bundle"
	"github.com/woozymasta/assetpatch/texture"
	"github.com/woozymasta/pathrules"
)

// Default working directories.
const (
	DefaultImportDir = "import"
	DefaultExportDir = "export"
	DefaultWorkDir   = "work"
)

// AssetType tags how a record is exported and imported.
type AssetType uint8

// Asset type tags.
const (
	// AssetOther is passed through untouched.
	AssetOther AssetType = iota
	// AssetTexture is a Texture2D exported as PNG.
	AssetTexture
	// AssetBlob is a TextAsset exported as raw script bytes.
	AssetBlob
)

// String returns the lower-case type name.
func (t AssetType) String() string {
	switch t {
	case AssetTexture:
		return "texture"
	case AssetBlob:
		return "blob"
	default:
		return "other"
	}
}

// State is the pipeline position of a Session.
type State uint8

// Session states in pipeline order.
const (
	StateOpened State = iota + 1
	StateExported
	StatePatched
	StateFlushed
	StateRepacked
)

var stateNames = map[State]string{
	StateOpened:   "opened",
	StateExported: "exported",
	StatePatched:  "patched",
	StateFlushed:  "flushed",
	StateRepacked: "repacked",
}

// String returns the state name.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return fmt.Sprintf("state(%d)", uint8(s))
}

// Config configures a patch session. It is copied on Open and never mutated afterwards.
type Config struct {
	// Logger receives pipeline events. Nil means a no-op logger.
	Logger *zerolog.Logger `json:"-" yaml:"-"`
	// ImportDir holds edited files picked up by BatchImport.
	ImportDir string `json:"import_dir,omitempty" yaml:"import_dir,omitempty"`
	// ExportDir receives files written by BatchExport.
	ExportDir string `json:"export_dir,omitempty" yaml:"export_dir,omitempty"`
	// WorkDir receives the uncompressed bundle when KeepIntermediate is set.
	WorkDir string `json:"work_dir,omitempty" yaml:"work_dir,omitempty"`
	// ExportWhitelist limits export to records whose name or key contains one of the terms.
	ExportWhitelist []string `json:"export_whitelist,omitempty" yaml:"export_whitelist,omitempty"`
	// ImportRules are ordered path rules selecting files from ImportDir. Empty means all files.
	ImportRules []pathrules.Rule `json:"import_rules,omitempty" yaml:"import_rules,omitempty"`
	// ImportMatcherOptions control ImportRules matching.
	ImportMatcherOptions pathrules.MatcherOptions `json:"import_matcher_options,omitzero" yaml:"import_matcher_options,omitzero"`
	// FieldReplacements maps JSON string fields to the values forced before import.
	FieldReplacements map[string]string `json:"field_replacements,omitempty" yaml:"field_replacements,omitempty"`
	// FieldReplacementFilters skip preprocessing for files whose name contains a keyword.
	FieldReplacementFilters []string `json:"field_replacement_filters,omitempty" yaml:"field_replacement_filters,omitempty"`
	// Compression is the default repack scheme used by the CLI. Nil means lz4.
	Compression *bundle.Compression `json:"compression,omitempty" yaml:"compression,omitempty"`
	// Quality is the texture encoder tier. Default is texture.QualityBalanced.
	Quality int `json:"quality,omitempty" yaml:"quality,omitempty"`
	// BackupKeep controls how many backup generations of the repack output are kept.
	// 0 means no backup, 1 keeps only `<output>.bak`, N keeps `.bak` + `.bak.1..N-1`.
	BackupKeep int `json:"backup_keep,omitempty" yaml:"backup_keep,omitempty"`
	// DisableTextures skips texture records on export and import.
	DisableTextures bool `json:"disable_textures,omitempty" yaml:"disable_textures,omitempty"`
	// KeepIntermediate writes the uncompressed bundle to WorkDir during Repack.
	KeepIntermediate bool `json:"keep_intermediate,omitempty" yaml:"keep_intermediate,omitempty"`
}

// applyDefaults fills empty values with defaults.
func (c *Config) applyDefaults() {
	if c.Logger == nil {
		nop := zerolog.Nop()
		c.Logger = &nop
	}
	if strings.TrimSpace(c.ImportDir) == "" {
		c.ImportDir = DefaultImportDir
	}
	if strings.TrimSpace(c.ExportDir) == "" {
		c.ExportDir = DefaultExportDir
	}
	if strings.TrimSpace(c.WorkDir) == "" {
		c.WorkDir = DefaultWorkDir
	}
	if c.Quality == 0 {
		c.Quality = texture.QualityBalanced
	}
	if c.ImportMatcherOptions == (pathrules.MatcherOptions{}) {
		c.ImportMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}

	if c.ImportMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		c.ImportMatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}

// RepackScheme returns the configured repack scheme, lz4 when unset.
func (c Config) RepackScheme() bundle.Compression {
	if c.Compression == nil {
		return bundle.CompressionLZ4
	}

	return *c.Compression
}

// validate reports unusable values after defaults are applied.
func (c *Config) validate() error {
	if c.Quality < texture.QualityFast || c.Quality > texture.QualityBest {
		return fmt.Errorf("%w: quality %d out of range [%d..%d]",
			ErrInvalidConfig, c.Quality, texture.QualityFast, texture.QualityBest)
	}
	if c.BackupKeep < 0 {
		return fmt.Errorf("%w: backup_keep %d is negative", ErrInvalidConfig, c.BackupKeep)
	}
	if c.Compression != nil && !c.Compression.Valid() {
		return fmt.Errorf("%w: compression %s", ErrInvalidConfig, *c.Compression)
	}
	for field := range c.FieldReplacements {
		if strings.TrimSpace(field) == "" {
			return fmt.Errorf("%w: empty field replacement name", ErrInvalidConfig)
		}
	}

	return nil
}

// AssetRecord is one indexed object of a serialized sub-file.
type AssetRecord struct {
	// Tree is the decoded field tree. Import mutates it in place.
	Tree *bundle.Field `json:"-" yaml:"-"`
	// Key is "{name}-{subFile}-{pathID}" and names exported files.
	Key string `json:"key" yaml:"key"`
	// Name is the sanitized m_Name value.
	Name string `json:"name" yaml:"name"`
	// SubFile is the owning sub-file name.
	SubFile string `json:"sub_file" yaml:"sub_file"`
	// Container is the path resolved from container tables, if any.
	Container string `json:"container,omitempty" yaml:"container,omitempty"`
	// PathID identifies the object inside SubFile.
	PathID int64 `json:"path_id" yaml:"path_id"`
	// ClassID is the object class.
	ClassID bundle.ClassID `json:"class_id" yaml:"class_id"`
	// Type is derived from ClassID.
	Type AssetType `json:"type" yaml:"type"`
}

// MarshalZerologObject writes record identity fields to a log event.
func (r *AssetRecord) MarshalZerologObject(e *zerolog.Event) {
	if r == nil {
		return
	}

	e.Str("key", r.Key).
		Str("subfile", r.SubFile).
		Int64("path_id", r.PathID).
		Str("type", r.Type.String())
}

// Replacer is a pending object payload. Data is owned by the PatchSet until flush.
type Replacer struct {
	// SubFile names the sub-file holding the object.
	SubFile string `json:"sub_file" yaml:"sub_file"`
	// Data is the serialized field tree.
	Data []byte `json:"-" yaml:"-"`
	// PathID identifies the replaced object.
	PathID int64 `json:"path_id" yaml:"path_id"`
	// ClassID is the replaced object class.
	ClassID bundle.ClassID `json:"class_id" yaml:"class_id"`
}

// TextureDescriptor is read from a texture field tree on every use.
type TextureDescriptor struct {
	// StreamPath names the resource holding streamed pixel data.
	StreamPath string `json:"stream_path,omitempty" yaml:"stream_path,omitempty"`
	// PlatformBlob is the opaque platform-specific blob, if any.
	PlatformBlob []int64 `json:"platform_blob,omitempty" yaml:"platform_blob,omitempty"`
	// Format is the stored pixel format.
	Format texture.Format `json:"format" yaml:"format"`
	// Width of the base level.
	Width int `json:"width" yaml:"width"`
	// Height of the base level.
	Height int `json:"height" yaml:"height"`
	// MipCount is the stored level count; 1 when absent.
	MipCount int `json:"mip_count" yaml:"mip_count"`
	// StreamOffset is the byte offset in StreamPath.
	StreamOffset int64 `json:"stream_offset,omitempty" yaml:"stream_offset,omitempty"`
	// StreamSize is the byte size in StreamPath; zero means inline data.
	StreamSize int64 `json:"stream_size,omitempty" yaml:"stream_size,omitempty"`
}

// BatchResult counts per-asset outcomes of one batch call.
type BatchResult struct {
	// Processed is the number of assets written or staged.
	Processed int `json:"processed" yaml:"processed"`
	// Skipped is the number of assets filtered, unsupported or unmatched.
	Skipped int `json:"skipped" yaml:"skipped"`
	// Failed is the number of assets that raised a per-asset error.
	Failed int `json:"failed" yaml:"failed"`
}

// FlushResult reports what Flush rewrote.
type FlushResult struct {
	// SubFiles lists re-serialized sub-files in archive order.
	SubFiles []string `json:"sub_files" yaml:"sub_files"`
	// Replaced is the number of replacers applied.
	Replaced int `json:"replaced" yaml:"replaced"`
}

// RepackResult describes the written archive.
type RepackResult struct {
	// Path is the output file path.
	Path string `json:"path" yaml:"path"`
	// Digest is the sha256 digest of the written bytes.
	Digest digest.Digest `json:"digest" yaml:"digest"`
	// Size is the written byte count.
	Size int64 `json:"size" yaml:"size"`
	// Compression is the requested block scheme.
	Compression bundle.Compression `json:"compression" yaml:"compression"`
}
