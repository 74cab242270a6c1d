// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"github.com/woozymasta/assetpatch/bundle"
)

// errNilArchive is returned by BuildIndex for a nil archive.
var errNilArchive = errors.New("archive is nil")

// Index maps asset keys to records of one opened archive.
type Index struct {
	records map[string]*AssetRecord
	files   map[string]*bundle.AssetsFile
	keys    []string
}

// objectRef identifies an object by owning sub-file and path id.
type objectRef struct {
	subFile string
	pathID  int64
}

// BuildIndex parses every serialized sub-file of archive and indexes its objects.
// Sub-files and objects that fail to decode are logged and left out; they still
// pass through repack untouched, as do sub-files without any loaded record.
func BuildIndex(archive *bundle.Archive, logger *zerolog.Logger) (*Index, error) {
	if archive == nil {
		return nil, errNilArchive
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	idx := &Index{
		records: make(map[string]*AssetRecord, 64),
		files:   make(map[string]*bundle.AssetsFile, len(archive.SubFiles)),
	}
	containers := make(map[objectRef]string, 16)

	for _, sf := range archive.SubFiles {
		if !sf.IsSerialized() {
			continue
		}

		af, err := bundle.ParseAssetsFile(sf.Data)
		if err != nil {
			logger.Warn().Err(err).Str("subfile", sf.Name).Msg("skip undecodable sub-file")
			continue
		}
		loaded := 0
		for _, obj := range af.Objects {
			tree, err := bundle.ReadFieldTree(obj.Data)
			if err != nil {
				logger.Warn().Err(err).
					Str("subfile", sf.Name).
					Int64("path_id", obj.PathID).
					Msg("skip undecodable object")
				continue
			}

			if obj.ClassID == bundle.ClassAssetBundle || obj.ClassID == bundle.ClassResourceManager {
				collectContainers(tree, sf.Name, containers)
			}

			name, _ := tree.StringValue("m_Name")
			rec := &AssetRecord{
				Key:     assetKey(name, sf.Name, obj.PathID),
				Name:    SanitizeName(name),
				SubFile: sf.Name,
				PathID:  obj.PathID,
				ClassID: obj.ClassID,
				Type:    assetTypeOf(obj.ClassID),
				Tree:    tree,
			}

			if prev, exists := idx.records[rec.Key]; exists {
				logger.Warn().
					Object("asset", rec).
					Str("previous_subfile", prev.SubFile).
					Msg("skip object with colliding key")
				continue
			}

			idx.records[rec.Key] = rec
			idx.keys = append(idx.keys, rec.Key)
			loaded++
		}

		// Only sub-files with loaded records are rebuilt on flush.
		if loaded > 0 {
			idx.files[sf.Name] = af
		}
	}

	for _, rec := range idx.records {
		rec.Container = containers[objectRef{subFile: rec.SubFile, pathID: rec.PathID}]
	}
	sort.Strings(idx.keys)

	logger.Debug().
		Int("records", len(idx.keys)).
		Int("assets_files", len(idx.files)).
		Int("containers", len(containers)).
		Msg("index built")

	return idx, nil
}

// assetTypeOf maps a class id to its export tag.
func assetTypeOf(class bundle.ClassID) AssetType {
	switch class {
	case bundle.ClassTexture2D:
		return AssetTexture
	case bundle.ClassTextAsset:
		return AssetBlob
	default:
		return AssetOther
	}
}

// collectContainers reads m_Container pairs of an AssetBundle or ResourceManager tree.
// Only local references (m_FileID 0 or absent) are resolved; the first path wins.
func collectContainers(tree *bundle.Field, subFile string, out map[objectRef]string) {
	table := tree.Child("m_Container")
	if table == nil || table.Kind != bundle.KindArray {
		return
	}

	for _, pair := range table.Children {
		pathField := pair.Child("first")
		target := pair.Child("second")
		if pathField == nil || pathField.Kind != bundle.KindString || target == nil {
			continue
		}

		if fileID := target.Find("m_FileID"); fileID != nil && fileID.Int != 0 {
			continue
		}

		pathID := target.Find("m_PathID")
		if pathID == nil || pathID.Kind != bundle.KindInt || pathField.Str == "" {
			continue
		}

		ref := objectRef{subFile: subFile, pathID: pathID.Int}
		if _, exists := out[ref]; !exists {
			out[ref] = pathField.Str
		}
	}
}

// Get returns the record for key.
func (i *Index) Get(key string) (*AssetRecord, bool) {
	rec, ok := i.records[key]
	return rec, ok
}

// Len returns the number of indexed records.
func (i *Index) Len() int {
	return len(i.keys)
}

// Records returns records in key order.
func (i *Index) Records() []*AssetRecord {
	out := make([]*AssetRecord, 0, len(i.keys))
	for _, key := range i.keys {
		out = append(out, i.records[key])
	}

	return out
}

// assetsFile returns the parsed assets file of a sub-file.
func (i *Index) assetsFile(subFile string) (*bundle.AssetsFile, bool) {
	af, ok := i.files[subFile]
	return af, ok
}

// setAssetsFile replaces the parsed assets file after a flush.
func (i *Index) setAssetsFile(subFile string, af *bundle.AssetsFile) {
	i.files[subFile] = af
}
