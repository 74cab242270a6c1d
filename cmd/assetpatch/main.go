// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

// Command assetpatch exports assets from a bundle and repacks edited ones.
//
//	assetpatch export [-config file] [-dump] [-whitelist a,b] [-v] <bundle>
//	assetpatch import [-config file] [-dump] [-compression lz4] [-v] <bundle> <output>
//	assetpatch info [-v] <bundle>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/woozymasta/assetpatch"
	"github.com/woozymasta/assetpatch/bundle"
)

const usage = `usage:
  assetpatch export [-config file] [-dump] [-whitelist a,b] [-v] <bundle>
  assetpatch import [-config file] [-dump] [-compression scheme] [-v] <bundle> <output>
  assetpatch info [-v] <bundle>
`

// errUsage marks invalid command lines.
var errUsage = errors.New("invalid arguments")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "export":
		err = runExport(args[1:], stdout, stderr)
	case "import":
		err = runImport(args[1:], stdout, stderr)
	case "info":
		err = runInfo(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		_, _ = fmt.Fprint(stdout, usage)
		return 0
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	if err == nil {
		return 0
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}

	_, _ = fmt.Fprintf(stderr, "assetpatch: %v\n", err)
	if errors.Is(err, errUsage) {
		_, _ = fmt.Fprint(stderr, usage)
		return 2
	}

	return 1
}

// commonFlags are shared by export and import.
type commonFlags struct {
	configPath string
	dump       bool
	verbose    bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML config file")
	fs.BoolVar(&c.dump, "dump", false, "move whole field trees as JSON")
	fs.BoolVar(&c.verbose, "v", false, "debug logging")
}

// session loads config, attaches a console logger and opens the bundle.
func (c *commonFlags) session(path string, stderr io.Writer) (*assetpatch.Session, assetpatch.Config, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return nil, cfg, err
	}

	logger := newLogger(stderr, c.verbose)
	cfg.Logger = &logger

	s, err := assetpatch.Open(path, cfg)
	return s, cfg, err
}

func runExport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	whitelist := fs.String("whitelist", "", "comma-separated name/key keywords")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: export takes one bundle path", errUsage)
	}

	s, _, err := common.session(fs.Arg(0), stderr)
	if err != nil {
		return err
	}

	var terms []string
	if *whitelist != "" {
		terms = splitList(*whitelist)
	}

	var res assetpatch.BatchResult
	if common.dump {
		res, err = s.BatchExportDump(terms)
	} else {
		res, err = s.BatchExport(terms)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "exported: %d processed, %d skipped, %d failed\n", res.Processed, res.Skipped, res.Failed)
	return nil
}

func runImport(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var common commonFlags
	common.register(fs)
	scheme := fs.String("compression", "", "block compression: none, lzma, lz4, lz4hc, lzss, zstd")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("%w: import takes bundle and output paths", errUsage)
	}

	s, cfg, err := common.session(fs.Arg(0), stderr)
	if err != nil {
		return err
	}

	compression := cfg.RepackScheme()
	if *scheme != "" {
		compression, err = bundle.ParseCompression(*scheme)
		if err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
	}

	var res assetpatch.BatchResult
	if common.dump {
		res, err = s.BatchImportDump()
	} else {
		res, err = s.BatchImport()
	}
	if err != nil {
		return err
	}

	if _, err := s.Flush(); err != nil {
		return err
	}

	out, err := s.Repack(fs.Arg(1), compression)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(stdout, "imported: %d processed, %d skipped, %d failed\n", res.Processed, res.Skipped, res.Failed)
	_, _ = fmt.Fprintf(stdout, "written: %s (%d bytes, %s, %s)\n", out.Path, out.Size, out.Compression, out.Digest)
	return nil
}

func runInfo(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: info takes one bundle path", errUsage)
	}

	logger := newLogger(stderr, *verbose)
	s, err := assetpatch.Open(fs.Arg(0), assetpatch.Config{Logger: &logger})
	if err != nil {
		return err
	}

	archive := s.Archive()
	_, _ = fmt.Fprintf(stdout, "compression: %s\n", archive.Compression)
	_, _ = fmt.Fprintf(stdout, "sub-files: %d\n", len(archive.SubFiles))
	for _, sf := range archive.SubFiles {
		_, _ = fmt.Fprintf(stdout, "  %-40s %10d bytes serialized=%t\n", sf.Name, len(sf.Data), sf.IsSerialized())
	}

	_, _ = fmt.Fprintf(stdout, "assets: %d\n", s.Index().Len())
	for _, rec := range s.Index().Records() {
		line := fmt.Sprintf("  %-8s %-16s %s", rec.Type, rec.ClassID, rec.Key)
		if rec.Container != "" {
			line += "  <" + rec.Container + ">"
		}
		_, _ = fmt.Fprintln(stdout, line)
	}

	return nil
}

// newLogger builds a console logger writing to w.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// splitList splits a comma-separated list and drops empty items.
func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
