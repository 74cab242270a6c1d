// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/assetpatch/bundle"
	"github.com/woozymasta/assetpatch/texture"
)

var (
	// errEmptyTexture marks textures with a zero dimension.
	errEmptyTexture = errors.New("texture has zero size")
	// errFiltered marks records left out by whitelist or config.
	errFiltered = errors.New("asset filtered")
)

// BatchExport writes whitelisted textures as key.png and blobs as key<ext> into ExportDir.
// A nil whitelist falls back to Config.ExportWhitelist; an empty one exports everything.
// Existing files are overwritten. Only ErrFatalIO and ErrInvalidState are returned.
func (s *Session) BatchExport(whitelist []string) (BatchResult, error) {
	if err := s.requireState("export", StateOpened, StateExported); err != nil {
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
		if rec.Type == AssetOther {
			continue
		}

		err := errFiltered
		if whitelisted(rec, whitelist) {
			switch rec.Type {
			case AssetTexture:
				err = s.exportTexture(rec)
			case AssetBlob:
				err = s.exportBlob(rec)
			}
		}

		s.count(&result, rec, "export", err)
	}

	s.state = StateExported
	s.log.Info().
		Int("processed", result.Processed).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("export finished")

	return result, nil
}

// exportTexture decodes one texture and writes it as an upright PNG.
func (s *Session) exportTexture(rec *AssetRecord) error {
	if s.cfg.DisableTextures {
		return errFiltered
	}

	desc, err := readTextureDescriptor(rec.Tree)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", errEmptyTexture, desc.Width, desc.Height)
	}

	if _, known := texture.ByteSizeKnown(desc.Format, desc.Width, desc.Height); !known {
		s.log.Warn().Object("asset", rec).Stringer("format", desc.Format).Msg("texture size unknown, may be wrong")
	}
	if !texture.CanDecode(desc.Format) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}

	data, err := texturePixels(s.archive, rec.Tree, desc)
	if err != nil {
		return err
	}

	img, err := texture.Decode(data, desc.Width, desc.Height, desc.Format)
	if errors.Is(err, texture.ErrUnsupported) {
		return fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	return texture.SavePNG(filepath.Join(s.cfg.ExportDir, rec.Key+".png"), texture.FlipVertical(img))
}

// exportBlob writes the raw m_Script payload of one text asset.
func (s *Session) exportBlob(rec *AssetRecord) error {
	script, err := scriptBytes(rec.Tree)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	name := rec.Key + blobExtension(rec.Container)
	return os.WriteFile(filepath.Join(s.cfg.ExportDir, name), script, 0o644)
}

// scriptBytes reads m_Script stored as bytes or string.
func scriptBytes(tree *bundle.Field) ([]byte, error) {
	field := tree.Child(fieldScript)
	if field == nil {
		return nil, fmt.Errorf("%w: %s", bundle.ErrFieldNotFound, fieldScript)
	}

	switch field.Kind {
	case bundle.KindBytes:
		return field.Bytes, nil
	case bundle.KindString:
		return []byte(field.Str), nil
	default:
		return nil, fmt.Errorf("%w: %s is %s", bundle.ErrFieldKind, fieldScript, field.Kind)
	}
}

// whitelisted reports whether rec name or key contains one of terms, ignoring case.
// No terms means every record matches.
func whitelisted(rec *AssetRecord, terms []string) bool {
	if len(terms) == 0 {
		return true
	}

	name := strings.ToLower(rec.Name)
	key := strings.ToLower(rec.Key)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if strings.Contains(name, term) || strings.Contains(key, term) {
			return true
		}
	}

	return false
}

// count classifies one per-asset outcome into result and logs it.
func (s *Session) count(result *BatchResult, rec *AssetRecord, op string, err error) {
	switch {
	case err == nil:
		result.Processed++
		s.log.Debug().Object("asset", rec).Str("op", op).Msg("asset done")
	case errors.Is(err, errFiltered):
		result.Skipped++
	case errors.Is(err, ErrUnsupportedFormat), errors.Is(err, errEmptyTexture), errors.Is(err, ErrKeyMismatch):
		result.Skipped++
		s.log.Warn().Err(err).Object("asset", rec).Str("op", op).Msg("asset skipped")
	default:
		result.Failed++
		s.log.Error().Err(err).Object("asset", rec).Str("op", op).Msg("asset failed")
	}
}
