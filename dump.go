// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/assetpatch/bundle"
)

// dumpExt is the extension of field tree dumps.
const dumpExt = ".json"

// BatchExportDump writes the whole field tree of every whitelisted record as key.json.
// Unlike BatchExport it covers every asset type, so any object can be edited.
func (s *Session) BatchExportDump(whitelist []string) (BatchResult, error) {
	if err := s.requireState("export dump", StateOpened, StateExported); err != nil {
		return BatchResult{}, err
	}
	if whitelist == nil {
		whitelist = s.cfg.ExportWhitelist
	}

	if err := os.MkdirAll(s.cfg.ExportDir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("%w: create export dir: %w", ErrFatalIO, err)
	}

	var result BatchResult
	for _, rec := range s.index.Records() {
		err := errFiltered
		if whitelisted(rec, whitelist) {
			err = s.exportDump(rec)
		}

		s.count(&result, rec, "export dump", err)
	}

	s.state = StateExported
	s.log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("dump export finished")

	return result, nil
}

// exportDump writes one record tree as indented JSON.
func (s *Session) exportDump(rec *AssetRecord) error {
	data, err := bundle.MarshalFieldTreeJSON(rec.Tree)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	return os.WriteFile(filepath.Join(s.cfg.ExportDir, rec.Key+dumpExt), data, 0o644)
}

// BatchImportDump stages every key.json dump of ImportDir.
// A dump must keep the field layout of the indexed tree; values and array lengths may change.
func (s *Session) BatchImportDump() (BatchResult, error) {
	if err := s.requireState("import dump", StateOpened, StateExported, StatePatched); err != nil {
		return BatchResult{}, err
	}

	files, err := s.stagedFiles()
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, name := range files {
		if !strings.EqualFold(filepath.Ext(name), dumpExt) {
			continue
		}

		key := stagedKey(name)
		rec, ok := s.index.Get(key)
		if !ok {
			result.Skipped++
			s.log.Warn().
				Err(fmt.Errorf("%w: %s", ErrKeyMismatch, key)).
				Str("file", name).
				Msg("dump skipped")
			continue
		}

		s.count(&result, rec, "import dump", s.importDump(rec, filepath.Join(s.cfg.ImportDir, name)))
	}

	s.state = StatePatched
	s.log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("pending", s.patches.Len()).
		Msg("dump import finished")

	return result, nil
}

// importDump replaces the record tree with a dumped tree of the same layout and stages it.
func (s *Session) importDump(rec *AssetRecord, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tree, err := bundle.UnmarshalFieldTreeJSON(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if !bundle.SameShape(rec.Tree, tree) {
		return fmt.Errorf("%w: dump layout differs from %s", ErrDecodeFailure, rec.ClassID)
	}

	*rec.Tree = *tree
	return s.stage(rec)
}
