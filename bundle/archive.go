// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
)

// Internal binary layout and format limits.
const (
	signature        = "AssetBundle\x00"
	formatVersion    = 1
	headerSize       = len(signature) + 16 // signature + version, block size, block count, node count
	blockRecordSize  = 10                  // compressed u32, uncompressed u32, scheme u16
	nodeRecordSize   = 22                  // offset u64, size u64, flags u32, name length u16
	maxNodeNameLen   = math.MaxUint16
	maxStreamSize    = 1 << 32 // max decompressed stream held in memory (4 GiB)
	DefaultBlockSize = 128 * 1024
)

// NodeFlags is the directory node flag word.
type NodeFlags uint32

// Directory node flags.
const (
	// NodeDirectory marks a directory placeholder node.
	NodeDirectory NodeFlags = 0x1
	// NodeDeleted marks a node kept only for layout compatibility.
	NodeDeleted NodeFlags = 0x2
	// NodeSerialized marks a serialized assets file.
	NodeSerialized NodeFlags = 0x4
)

// SubFile is one named byte stream inside an archive.
type SubFile struct {
	// Name is the directory node path.
	Name string `json:"name" yaml:"name"`
	// Data holds the decompressed sub-file bytes.
	Data []byte `json:"-" yaml:"-"`
	// Flags are the directory node flags.
	Flags NodeFlags `json:"flags" yaml:"flags"`
}

// IsSerialized reports whether the sub-file holds a serialized assets file.
func (s *SubFile) IsSerialized() bool {
	return s.Flags&NodeSerialized != 0 || IsAssetsFile(s.Data)
}

// Archive is a fully decompressed bundle.
type Archive struct {
	// SubFiles are kept in directory order.
	SubFiles []*SubFile `json:"sub_files" yaml:"sub_files"`
	// BlockSize is the uncompressed block size used when encoding.
	BlockSize int `json:"block_size" yaml:"block_size"`
	// Compression is the scheme of the first compressed block on read.
	Compression Compression `json:"compression" yaml:"compression"`
}

// SubFile returns the sub-file with name, or nil.
func (a *Archive) SubFile(name string) *SubFile {
	for _, sf := range a.SubFiles {
		if sf.Name == name {
			return sf
		}
	}

	return nil
}

// ReplaceData swaps the buffer of the named sub-file.
func (a *Archive) ReplaceData(name string, data []byte) error {
	sf := a.SubFile(name)
	if sf == nil {
		return fmt.Errorf("%w: %s", ErrSubFileNotFound, name)
	}

	sf.Data = data
	return nil
}

// blockInfo is one storage block table record.
type blockInfo struct {
	compressedSize   uint32
	uncompressedSize uint32
	scheme           Compression
}

// nodeInfo is one directory node record.
type nodeInfo struct {
	name   string
	offset uint64
	size   uint64
	flags  NodeFlags
}

// OpenArchive reads and fully decompresses the bundle at path.
func OpenArchive(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	a, err := ParseArchive(data)
	if err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}

	return a, nil
}

// ParseArchive decodes bundle bytes, decompressing every storage block.
func ParseArchive(data []byte) (*Archive, error) {
	if len(data) < headerSize || string(data[:len(signature)]) != signature {
		return nil, ErrInvalidHeader
	}

	p := data[len(signature):]
	version := binary.LittleEndian.Uint32(p[0:])
	if version != formatVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidHeader, version)
	}
	blockSize := binary.LittleEndian.Uint32(p[4:])
	blockCount := int(binary.LittleEndian.Uint32(p[8:]))
	nodeCount := int(binary.LittleEndian.Uint32(p[12:]))
	pos := headerSize

	if blockCount > (len(data)-pos)/blockRecordSize {
		return nil, fmt.Errorf("%w: block table", ErrTruncated)
	}

	blocks := make([]blockInfo, blockCount)
	var streamSize uint64
	for i := range blocks {
		rec := data[pos : pos+blockRecordSize]
		blocks[i] = blockInfo{
			compressedSize:   binary.LittleEndian.Uint32(rec[0:]),
			uncompressedSize: binary.LittleEndian.Uint32(rec[4:]),
			scheme:           Compression(binary.LittleEndian.Uint16(rec[8:])),
		}
		streamSize += uint64(blocks[i].uncompressedSize)
		pos += blockRecordSize
	}

	nodes := make([]nodeInfo, 0, min(nodeCount, len(data)/nodeRecordSize))
	for range nodeCount {
		if len(data)-pos < nodeRecordSize {
			return nil, fmt.Errorf("%w: node table", ErrTruncated)
		}

		rec := data[pos : pos+nodeRecordSize]
		node := nodeInfo{
			offset: binary.LittleEndian.Uint64(rec[0:]),
			size:   binary.LittleEndian.Uint64(rec[8:]),
			flags:  NodeFlags(binary.LittleEndian.Uint32(rec[16:])),
		}
		nameLen := int(binary.LittleEndian.Uint16(rec[20:]))
		pos += nodeRecordSize

		if len(data)-pos < nameLen {
			return nil, fmt.Errorf("%w: node name", ErrTruncated)
		}
		node.name = string(data[pos : pos+nameLen])
		pos += nameLen

		if node.offset > streamSize || node.size > streamSize-node.offset {
			return nil, fmt.Errorf("%w: %s", ErrNodeOutOfRange, node.name)
		}

		nodes = append(nodes, node)
	}

	stream, scheme, err := readBlocks(data[pos:], blocks, streamSize)
	if err != nil {
		return nil, err
	}

	a := &Archive{
		SubFiles:    make([]*SubFile, 0, len(nodes)),
		BlockSize:   int(blockSize),
		Compression: scheme,
	}
	for _, node := range nodes {
		a.SubFiles = append(a.SubFiles, &SubFile{
			Name:  node.name,
			Flags: node.flags,
			Data:  bytes.Clone(stream[node.offset : node.offset+node.size]),
		})
	}

	return a, nil
}

// readBlocks decompresses storage blocks into one contiguous stream.
func readBlocks(payload []byte, blocks []blockInfo, streamSize uint64) ([]byte, Compression, error) {
	if streamSize > maxStreamSize {
		return nil, CompressionNone, fmt.Errorf("%w: stream %d bytes", ErrSizeOverflow, streamSize)
	}

	var codec blockCodec
	defer codec.close()

	stream := make([]byte, 0, min(int(streamSize), len(payload)*4))
	scheme := CompressionNone
	pos := 0
	for i, b := range blocks {
		if uint64(len(payload)-pos) < uint64(b.compressedSize) {
			return nil, CompressionNone, fmt.Errorf("%w: block %d", ErrTruncated, i)
		}

		raw := payload[pos : pos+int(b.compressedSize)]
		pos += int(b.compressedSize)

		out, err := codec.decompress(b.scheme, raw, int(b.uncompressedSize))
		if err != nil {
			return nil, CompressionNone, fmt.Errorf("block %d: %w", i, err)
		}
		if scheme == CompressionNone {
			scheme = b.scheme
		}

		stream = append(stream, out...)
	}

	return stream, scheme, nil
}

// Encode writes the archive as bundle bytes with blocks compressed by scheme.
// Blocks that do not shrink are stored raw.
func Encode(a *Archive, scheme Compression) ([]byte, error) {
	if !scheme.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, scheme)
	}

	blockSize := a.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	blockSize32, err := u32FromInt(blockSize)
	if err != nil {
		return nil, err
	}

	var stream bytes.Buffer
	nodes := make([]nodeInfo, 0, len(a.SubFiles))
	for _, sf := range a.SubFiles {
		if len(sf.Name) > maxNodeNameLen {
			return nil, fmt.Errorf("%w: node name %q", ErrSizeOverflow, sf.Name)
		}

		nodes = append(nodes, nodeInfo{
			name:   sf.Name,
			offset: uint64(stream.Len()),
			size:   uint64(len(sf.Data)),
			flags:  sf.Flags,
		})
		stream.Write(sf.Data)
	}

	blocks, payload, err := writeBlocks(stream.Bytes(), blockSize, scheme)
	if err != nil {
		return nil, err
	}

	blockCount, err := u32FromInt(len(blocks))
	if err != nil {
		return nil, err
	}
	nodeCount, err := u32FromInt(len(nodes))
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	out.Grow(headerSize + len(blocks)*blockRecordSize + len(nodes)*nodeRecordSize + len(payload))
	out.WriteString(signature)
	out.Write(binary.LittleEndian.AppendUint32(nil, formatVersion))
	out.Write(binary.LittleEndian.AppendUint32(nil, blockSize32))
	out.Write(binary.LittleEndian.AppendUint32(nil, blockCount))
	out.Write(binary.LittleEndian.AppendUint32(nil, nodeCount))

	for _, b := range blocks {
		rec := make([]byte, blockRecordSize)
		binary.LittleEndian.PutUint32(rec[0:], b.compressedSize)
		binary.LittleEndian.PutUint32(rec[4:], b.uncompressedSize)
		binary.LittleEndian.PutUint16(rec[8:], uint16(b.scheme))
		out.Write(rec)
	}

	for _, n := range nodes {
		rec := make([]byte, nodeRecordSize)
		binary.LittleEndian.PutUint64(rec[0:], n.offset)
		binary.LittleEndian.PutUint64(rec[8:], n.size)
		binary.LittleEndian.PutUint32(rec[16:], uint32(n.flags))
		binary.LittleEndian.PutUint16(rec[20:], uint16(len(n.name)))
		out.Write(rec)
		out.WriteString(n.name)
	}

	out.Write(payload)
	return out.Bytes(), nil
}

// writeBlocks splits stream into blocks and compresses each with scheme.
func writeBlocks(stream []byte, blockSize int, scheme Compression) ([]blockInfo, []byte, error) {
	var codec blockCodec
	defer codec.close()

	blocks := make([]blockInfo, 0, len(stream)/blockSize+1)
	var payload bytes.Buffer
	for start := 0; start < len(stream); start += blockSize {
		chunk := stream[start:min(start+blockSize, len(stream))]

		packed, err := codec.compress(scheme, chunk)
		if err != nil {
			return nil, nil, err
		}

		info := blockInfo{
			uncompressedSize: uint32(len(chunk)),
			scheme:           scheme,
		}
		if packed == nil {
			packed = chunk
			info.scheme = CompressionNone
		}
		info.compressedSize = uint32(len(packed))

		blocks = append(blocks, info)
		payload.Write(packed)
	}

	return blocks, payload.Bytes(), nil
}

// Serialize writes the archive without block compression.
func Serialize(a *Archive) ([]byte, error) {
	return Encode(a, CompressionNone)
}

// Compress re-encodes serialized bundle bytes with scheme.
func Compress(data []byte, scheme Compression) ([]byte, error) {
	a, err := ParseArchive(data)
	if err != nil {
		return nil, err
	}

	return Encode(a, scheme)
}

// u32FromInt converts a non-negative int to uint32.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, ErrSizeOverflow
	}

	return uint32(n), nil
}
