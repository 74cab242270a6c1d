// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz/lzma"
	"github.com/woozymasta/lzss"
)

// Compression is the per-block compression scheme stored in the block table.
type Compression uint16

// Block compression schemes.
const (
	CompressionNone  Compression = 0
	CompressionLZMA  Compression = 1
	CompressionLZ4   Compression = 2
	CompressionLZ4HC Compression = 3
	CompressionLZSS  Compression = 4
	CompressionZstd  Compression = 5
)

var compressionNames = map[Compression]string{
	CompressionNone:  "none",
	CompressionLZMA:  "lzma",
	CompressionLZ4:   "lz4",
	CompressionLZ4HC: "lz4hc",
	CompressionLZSS:  "lzss",
	CompressionZstd:  "zstd",
}

// String returns the lower-case scheme name.
func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}

	return "compression(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is a known scheme.
func (c Compression) Valid() bool {
	_, ok := compressionNames[c]
	return ok
}

// ParseCompression resolves a scheme by name, case-insensitive.
func ParseCompression(raw string) (Compression, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for c, name := range compressionNames {
		if name == raw {
			return c, nil
		}
	}

	return CompressionNone, fmt.Errorf("%w: %q", ErrUnknownCompression, raw)
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(text []byte) error {
	parsed, err := ParseCompression(string(text))
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// blockCodec compresses and decompresses blocks of one archive pass.
// zstd coders are created on first use and released by close.
type blockCodec struct {
	zenc *zstd.Encoder
	zdec *zstd.Decoder
}

// close releases zstd coders.
func (bc *blockCodec) close() {
	if bc.zenc != nil {
		_ = bc.zenc.Close()
	}
	if bc.zdec != nil {
		bc.zdec.Close()
	}
}

// compress returns src compressed with scheme.
// A nil result means the block did not shrink and must be stored raw.
func (bc *blockCodec) compress(scheme Compression, src []byte) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch scheme {
	case CompressionNone:
		return nil, nil
	case CompressionLZ4:
		out = make([]byte, lz4.CompressBlockBound(len(src)))
		var n int
		n, err = lz4.CompressBlock(src, out, nil)
		out = out[:n]
	case CompressionLZ4HC:
		out = make([]byte, lz4.CompressBlockBound(len(src)))
		var n int
		n, err = lz4.CompressBlockHC(src, out, 0, nil, nil)
		out = out[:n]
	case CompressionLZMA:
		out, err = compressLZMA(src)
	case CompressionLZSS:
		out, err = lzss.Compress(src, lzss.DefaultCompressOptions())
	case CompressionZstd:
		if bc.zenc == nil {
			bc.zenc, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
			if err != nil {
				return nil, fmt.Errorf("create zstd encoder: %w", err)
			}
		}
		out = bc.zenc.EncodeAll(src, nil)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, scheme)
	}

	if err != nil {
		return nil, fmt.Errorf("compress %s block: %w", scheme, err)
	}
	if len(out) == 0 || len(out) >= len(src) {
		return nil, nil
	}

	return out, nil
}

// decompress expands src into exactly size bytes.
func (bc *blockCodec) decompress(scheme Compression, src []byte, size int) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch scheme {
	case CompressionNone:
		out = src
	case CompressionLZ4, CompressionLZ4HC:
		out = make([]byte, size)
		var n int
		n, err = lz4.UncompressBlock(src, out)
		out = out[:max(n, 0)]
	case CompressionLZMA:
		out, err = decompressLZMA(src, size)
	case CompressionLZSS:
		var buf bytes.Buffer
		buf.Grow(size)
		_, err = lzss.DecompressToWriter(&buf, bytes.NewReader(src), size, nil)
		out = buf.Bytes()
	case CompressionZstd:
		if bc.zdec == nil {
			bc.zdec, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, fmt.Errorf("create zstd decoder: %w", err)
			}
		}
		out, err = bc.zdec.DecodeAll(src, make([]byte, 0, size))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, scheme)
	}

	if err != nil {
		return nil, fmt.Errorf("decompress %s block: %w", scheme, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: %s got %d, want %d", ErrBlockSizeMismatch, scheme, len(out), size)
	}

	return out, nil
}

// compressLZMA writes src as a classic LZMA stream with end marker.
func compressLZMA(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(src); err != nil {
		_ = w.Close()
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decompressLZMA reads exactly size bytes from a classic LZMA stream.
func decompressLZMA(src []byte, size int) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, err
	}

	return out, nil
}
