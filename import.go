// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/woozymasta/assetpatch/bundle"
	"github.com/woozymasta/assetpatch/texture"
)

// BatchImport stages every file of ImportDir whose name matches an asset key.
// JSON field replacements run first. Files without a matching key are skipped
// with ErrKeyMismatch; staging a key again replaces the earlier replacer.
func (s *Session) BatchImport() (BatchResult, error) {
	if err := s.requireState("import", StateOpened, StateExported, StatePatched); err != nil {
		return BatchResult{}, err
	}

	if _, err := s.PreprocessJSON(); err != nil {
		return BatchResult{}, err
	}

	files, err := s.stagedFiles()
	if err != nil {
		return BatchResult{}, err
	}

	var result BatchResult
	for _, name := range files {
		key := stagedKey(name)
		rec, ok := s.index.Get(key)
		if !ok {
			result.Skipped++
			s.log.Warn().
				Err(fmt.Errorf("%w: %s", ErrKeyMismatch, key)).
				Str("file", name).
				Msg("staged file skipped")
			continue
		}

		path := filepath.Join(s.cfg.ImportDir, name)
		switch rec.Type {
		case AssetTexture:
			err = s.importTexture(rec, path)
		case AssetBlob:
			err = s.importBlob(rec, path)
		default:
			err = fmt.Errorf("%w: %s has no import path", errFiltered, rec.ClassID)
		}

		s.count(&result, rec, "import", err)
	}

	s.state = StatePatched
	s.log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Int("pending", s.patches.Len()).
		Msg("import finished")

	return result, nil
}

// stagedFiles lists regular files of ImportDir selected by import rules, sorted by name.
func (s *Session) stagedFiles() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.ImportDir)
	if err != nil {
		return nil, fmt.Errorf("%w: read import dir: %w", ErrFatalIO, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !s.matcher.Match(entry.Name()) {
			s.log.Debug().Str("file", entry.Name()).Msg("excluded by import rules")
			continue
		}

		files = append(files, entry.Name())
	}

	return files, nil
}

// importTexture encodes an edited image into the recorded format and stages it.
func (s *Session) importTexture(rec *AssetRecord, path string) error {
	if s.cfg.DisableTextures {
		return errFiltered
	}
	if !texture.IsImagePath(path) {
		return fmt.Errorf("%w: %s is not an image", ErrDecodeFailure, filepath.Base(path))
	}

	desc, err := readTextureDescriptor(rec.Tree)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if !texture.CanEncode(desc.Format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}

	img, err := texture.LoadImage(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	enc, err := texture.Encode(texture.FlipVertical(img), desc.Format, s.cfg.Quality, desc.MipCount)
	if errors.Is(err, texture.ErrUnsupported) {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrDecodeFailure, err)
	}

	if enc.Substituted(desc.Format) {
		s.log.Warn().
			Object("asset", rec).
			Stringer("requested", desc.Format).
			Stringer("written", enc.Format).
			Msg("texture format substituted")
	}

	if err := applyEncodedTexture(rec.Tree, enc); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	return s.stage(rec)
}

// importBlob replaces m_Script with the file bytes and stages the record.
func (s *Session) importBlob(rec *AssetRecord, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	field := rec.Tree.Child(fieldScript)
	switch {
	case field == nil:
		return fmt.Errorf("%w: %w: %s", ErrDecodeFailure, bundle.ErrFieldNotFound, fieldScript)
	case field.Kind == bundle.KindString:
		field.Str = string(data)
	case field.Kind == bundle.KindBytes:
		field.Bytes = data
	default:
		return fmt.Errorf("%w: %w: %s is %s", ErrDecodeFailure, bundle.ErrFieldKind, fieldScript, field.Kind)
	}

	return s.stage(rec)
}

// stage serializes the record tree and records it as the pending replacer of its key.
func (s *Session) stage(rec *AssetRecord) error {
	data, err := bundle.WriteFieldTree(rec.Tree)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	replaced := s.patches.Stage(rec.Key, Replacer{
		SubFile: rec.SubFile,
		PathID:  rec.PathID,
		ClassID: rec.ClassID,
		Data:    data,
	})
	if replaced {
		s.log.Debug().Object("asset", rec).Msg("pending replacer overwritten")
	}

	return nil
}
