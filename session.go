// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package assetpatch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/woozymasta/assetpatch/bundle"
)

// Session is one open-export-import-flush-repack run over a single archive.
// A Session is not safe for concurrent use.
type Session struct {
	archive *bundle.Archive
	index   *Index
	patches *PatchSet
	matcher *importMatcher
	log     *zerolog.Logger
	path    string
	cfg     Config
	state   State
}

// Open reads the archive at path, decompresses every block and indexes its assets.
// Any read or parse failure wraps ErrFatalIO.
func Open(path string, cfg Config) (*Session, error) {
	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return nil, fmt.Errorf("%w: empty archive path", ErrInvalidConfig)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	matcher, err := newImportMatcher(cfg.ImportRules, cfg.ImportMatcherOptions)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger.With().Str("archive", trimmedPath).Logger()

	archive, err := bundle.OpenArchive(trimmedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrFatalIO, trimmedPath, err)
	}

	index, err := BuildIndex(archive, &logger)
	if err != nil {
		return nil, fmt.Errorf("%w: index %s: %w", ErrFatalIO, trimmedPath, err)
	}

	logger.Info().
		Int("subfiles", len(archive.SubFiles)).
		Int("assets", index.Len()).
		Str("compression", archive.Compression.String()).
		Msg("archive opened")

	return &Session{
		archive: archive,
		index:   index,
		patches: NewPatchSet(),
		matcher: matcher,
		log:     &logger,
		path:    trimmedPath,
		cfg:     cfg,
		state:   StateOpened,
	}, nil
}

// State returns the current pipeline state.
func (s *Session) State() State {
	return s.state
}

// Index returns the asset index built on Open.
func (s *Session) Index() *Index {
	return s.index
}

// Archive returns the decompressed archive. Flush updates it in place.
func (s *Session) Archive() *bundle.Archive {
	return s.archive
}

// Pending returns the number of staged replacers.
func (s *Session) Pending() int {
	return s.patches.Len()
}

// requireState fails with ErrInvalidState unless the session is in one of allowed.
func (s *Session) requireState(op string, allowed ...State) error {
	if s == nil {
		return ErrNilSession
	}
	if slices.Contains(allowed, s.state) {
		return nil
	}

	return fmt.Errorf("%w: %s in state %s", ErrInvalidState, op, s.state)
}
