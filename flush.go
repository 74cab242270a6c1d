// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"

	"github.com/woozymasta/assetpatch/bundle"
)

// Flush moves staged replacers into new sub-file buffers.
// Every sub-file with at least one indexed record is re-serialized, with or
// without replacers; other sub-files pass through unchanged.
func (s *Session) Flush() (FlushResult, error) {
	if err := s.requireState("flush", StatePatched); err != nil {
		return FlushResult{}, err
	}

	pending := s.patches.Drain()
	result := FlushResult{SubFiles: make([]string, 0, len(pending))}

	for _, sf := range s.archive.SubFiles {
		af, ok := s.index.assetsFile(sf.Name)
		if !ok {
			continue
		}

		replacers := pending[sf.Name]
		delete(pending, sf.Name)

		replace := make(map[int64][]byte, len(replacers))
		for _, r := range replacers {
			if obj := af.Object(r.PathID); obj == nil || obj.ClassID != r.ClassID {
				return result, fmt.Errorf("%w: replacer %s/%d does not match a %s object",
					ErrFatalIO, sf.Name, r.PathID, r.ClassID)
			}
			replace[r.PathID] = r.Data
		}

		data, err := af.Bytes(replace)
		if err != nil {
			return result, fmt.Errorf("%w: serialize %s: %w", ErrFatalIO, sf.Name, err)
		}

		rebuilt, err := bundle.ParseAssetsFile(data)
		if err != nil {
			return result, fmt.Errorf("%w: reparse %s: %w", ErrFatalIO, sf.Name, err)
		}

		if err := s.archive.ReplaceData(sf.Name, data); err != nil {
			return result, fmt.Errorf("%w: %w", ErrFatalIO, err)
		}
		s.index.setAssetsFile(sf.Name, rebuilt)

		result.SubFiles = append(result.SubFiles, sf.Name)
		result.Replaced += len(replacers)

		s.log.Debug().
			Str("subfile", sf.Name).
			Int("replacers", len(replacers)).
			Int("size", len(data)).
			Msg("sub-file rebuilt")
	}

	for subFile, replacers := range pending {
		s.log.Warn().Str("subfile", subFile).Int("replacers", len(replacers)).Msg("replacers dropped, sub-file not loaded")
	}

	s.state = StateFlushed
	s.log.Info().
		Int("subfiles", len(result.SubFiles)).
		Int("replaced", result.Replaced).
		Msg("flush finished")

	return result, nil
}
