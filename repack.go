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

	"github.com/opencontainers/go-digest"
	"github.com/woozymasta/assetpatch/bundle"
)

// Repack serializes the flushed archive, compresses it with scheme and writes outputPath.
// The file is written through a temp file and rename; an existing output is kept as
// a backup when Config.BackupKeep > 0 and restored when the final rename fails.
func (s *Session) Repack(outputPath string, scheme bundle.Compression) (RepackResult, error) {
	if err := s.requireState("repack", StateFlushed, StateRepacked); err != nil {
		return RepackResult{}, err
	}

	outputPath = strings.TrimSpace(outputPath)
	if outputPath == "" {
		return RepackResult{}, fmt.Errorf("%w: empty output path", ErrInvalidConfig)
	}
	if !scheme.Valid() {
		return RepackResult{}, fmt.Errorf("%w: %w: %d", ErrInvalidConfig, bundle.ErrUnknownCompression, uint16(scheme))
	}

	raw, err := bundle.Serialize(s.archive)
	if err != nil {
		return RepackResult{}, fmt.Errorf("%w: serialize: %w", ErrFatalIO, err)
	}

	if s.cfg.KeepIntermediate {
		if err := s.writeIntermediate(outputPath, raw); err != nil {
			return RepackResult{}, err
		}
	}

	packed, err := bundle.Compress(raw, scheme)
	if err != nil {
		return RepackResult{}, fmt.Errorf("%w: compress %s: %w", ErrFatalIO, scheme, err)
	}

	if err := writeFileAtomic(outputPath, packed, s.cfg.BackupKeep); err != nil {
		return RepackResult{}, fmt.Errorf("%w: write %s: %w", ErrFatalIO, outputPath, err)
	}

	result := RepackResult{
		Path:        outputPath,
		Size:        int64(len(packed)),
		Digest:      digest.FromBytes(packed),
		Compression: scheme,
	}

	s.state = StateRepacked
	s.log.Info().
		Str("output", outputPath).
		Int64("size", result.Size).
		Int("uncompressed", len(raw)).
		Stringer("digest", result.Digest).
		Stringer("compression", scheme).
		Msg("archive repacked")

	return result, nil
}

// writeIntermediate stores the uncompressed archive in WorkDir.
func (s *Session) writeIntermediate(outputPath string, raw []byte) error {
	if err := os.MkdirAll(s.cfg.WorkDir, 0o755); err != nil {
		return fmt.Errorf("%w: create work dir: %w", ErrFatalIO, err)
	}

	path := filepath.Join(s.cfg.WorkDir, filepath.Base(outputPath)+".uncompressed")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write intermediate: %w", ErrFatalIO, err)
	}

	s.log.Debug().Str("path", path).Int("size", len(raw)).Msg("intermediate archive written")
	return nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte, backupKeep int) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp: %w", err)
	}

	backupPath := path + ".bak"
	backedUp := false
	if backupKeep > 0 {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := prepareBackupSlot(backupPath, backupKeep); err != nil {
				return err
			}
			if err := os.Rename(path, backupPath); err != nil {
				return fmt.Errorf("backup %s: %w", path, err)
			}
			backedUp = true
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if backedUp {
			if rbErr := rollbackFromBackup(path, backupPath); rbErr != nil {
				return errors.Join(fmt.Errorf("rename temp: %w", err), rbErr)
			}
		}

		return fmt.Errorf("rename temp: %w", err)
	}

	return nil
}

// prepareBackupSlot rotates existing backup generations before a new write.
func prepareBackupSlot(backupPath string, keep int) error {
	if keep < 0 {
		keep = 0
	}

	switch keep {
	case 0, 1:
		return removeIfExists(backupPath)
	default:
		oldest := fmt.Sprintf("%s.%d", backupPath, keep-1)
		if err := removeIfExists(oldest); err != nil {
			return err
		}

		for i := keep - 2; i >= 1; i-- {
			from := fmt.Sprintf("%s.%d", backupPath, i)
			to := fmt.Sprintf("%s.%d", backupPath, i+1)
			if err := renameIfExists(from, to); err != nil {
				return err
			}
		}

		return renameIfExists(backupPath, backupPath+".1")
	}
}

// renameIfExists renames source to destination when source exists.
func renameIfExists(from string, to string) error {
	_, err := os.Stat(from)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", from, err)
	}

	if err := removeIfExists(to); err != nil {
		return err
	}

	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename %s to %s: %w", from, to, err)
	}

	return nil
}

// removeIfExists removes file when present.
func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) || err == nil {
		return nil
	}

	return fmt.Errorf("remove %s: %w", path, err)
}

// rollbackFromBackup restores the previous output after a failed write.
func rollbackFromBackup(path string, backupPath string) error {
	_ = os.Remove(path)

	if err := os.Rename(backupPath, path); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	return nil
}
