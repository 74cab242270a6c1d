// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/assetpatch"
	"gopkg.in/yaml.v3"
)

// loadConfig reads a YAML config file. An empty path returns the zero Config.
// Unknown keys are rejected.
func loadConfig(path string) (assetpatch.Config, error) {
	var cfg assetpatch.Config
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %w", assetpatch.ErrInvalidConfig, path, err)
	}

	return cfg, nil
}
