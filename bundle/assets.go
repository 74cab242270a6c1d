// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// Serialized assets file layout.
const (
	assetsSignature     = "ASF1"
	assetsVersion       = 1
	assetsHeaderSize    = len(assetsSignature) + 8 // signature + version, platform
	assetsObjectRecSize = 20                       // path id i64, class id i32, offset u32, size u32
)

// ClassID is the engine class identifier of a serialized object.
type ClassID int32

// Engine class identifiers used by the patch pipeline.
const (
	ClassTexture2D       ClassID = 28
	ClassTextAsset       ClassID = 49
	ClassMonoBehaviour   ClassID = 114
	ClassAssetBundle     ClassID = 142
	ClassResourceManager ClassID = 147
)

var classNames = map[ClassID]string{
	ClassTexture2D:       "Texture2D",
	ClassTextAsset:       "TextAsset",
	ClassMonoBehaviour:   "MonoBehaviour",
	ClassAssetBundle:     "AssetBundle",
	ClassResourceManager: "ResourceManager",
}

// String returns the class name or its number.
func (c ClassID) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}

	return fmt.Sprintf("Class(%d)", int32(c))
}

// Object is one serialized object of an assets file.
type Object struct {
	// Data is the field tree payload.
	Data []byte `json:"-" yaml:"-"`
	// PathID is unique within its assets file.
	PathID int64 `json:"path_id" yaml:"path_id"`
	// ClassID selects the object schema.
	ClassID ClassID `json:"class_id" yaml:"class_id"`
}

// AssetsFile is a parsed serialized assets file.
type AssetsFile struct {
	// EngineVersion is the free-form engine version string.
	EngineVersion string `json:"engine_version" yaml:"engine_version"`
	// Objects are kept in table order.
	Objects []*Object `json:"objects" yaml:"objects"`
	// Platform is the target platform tag.
	Platform uint32 `json:"platform" yaml:"platform"`
}

// IsAssetsFile reports whether data starts with the assets file signature.
func IsAssetsFile(data []byte) bool {
	return len(data) >= assetsHeaderSize && string(data[:len(assetsSignature)]) == assetsSignature
}

// Object returns the object with pathID, or nil.
func (f *AssetsFile) Object(pathID int64) *Object {
	for _, obj := range f.Objects {
		if obj.PathID == pathID {
			return obj
		}
	}

	return nil
}

// ParseAssetsFile decodes a serialized assets file. Object payloads are copied.
func ParseAssetsFile(data []byte) (*AssetsFile, error) {
	if !IsAssetsFile(data) {
		return nil, fmt.Errorf("%w: bad signature", ErrInvalidAssetsFile)
	}

	pos := len(assetsSignature)
	version := binary.LittleEndian.Uint32(data[pos:])
	if version != assetsVersion {
		return nil, fmt.Errorf("%w: version %d", ErrInvalidAssetsFile, version)
	}
	f := &AssetsFile{Platform: binary.LittleEndian.Uint32(data[pos+4:])}
	pos = assetsHeaderSize

	if len(data)-pos < 2 {
		return nil, fmt.Errorf("%w: engine version", ErrTruncated)
	}
	verLen := int(binary.LittleEndian.Uint16(data[pos:]))
	pos += 2
	if len(data)-pos < verLen+4 {
		return nil, fmt.Errorf("%w: engine version", ErrTruncated)
	}
	f.EngineVersion = string(data[pos : pos+verLen])
	pos += verLen

	count := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if count > (len(data)-pos)/assetsObjectRecSize {
		return nil, fmt.Errorf("%w: object table", ErrTruncated)
	}

	dataStart := pos + count*assetsObjectRecSize
	body := data[dataStart:]
	seen := make(map[int64]struct{}, count)
	f.Objects = make([]*Object, 0, count)
	for range count {
		rec := data[pos : pos+assetsObjectRecSize]
		pos += assetsObjectRecSize

		obj := &Object{
			PathID:  int64(binary.LittleEndian.Uint64(rec[0:])),
			ClassID: ClassID(int32(binary.LittleEndian.Uint32(rec[8:]))),
		}
		offset := uint64(binary.LittleEndian.Uint32(rec[12:]))
		size := uint64(binary.LittleEndian.Uint32(rec[16:]))
		if offset+size > uint64(len(body)) {
			return nil, fmt.Errorf("%w: object %d outside data", ErrInvalidAssetsFile, obj.PathID)
		}
		if _, dup := seen[obj.PathID]; dup {
			return nil, fmt.Errorf("%w: duplicate path id %d", ErrInvalidAssetsFile, obj.PathID)
		}
		seen[obj.PathID] = struct{}{}

		obj.Data = bytes.Clone(body[offset : offset+size])
		f.Objects = append(f.Objects, obj)
	}

	return f, nil
}

// Bytes serializes the assets file, substituting payloads from replace by path id.
// Objects keep their table order; payloads are laid out contiguously.
func (f *AssetsFile) Bytes(replace map[int64][]byte) ([]byte, error) {
	if len(f.EngineVersion) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: engine version", ErrSizeOverflow)
	}
	count, err := u32FromInt(len(f.Objects))
	if err != nil {
		return nil, err
	}

	var table, body bytes.Buffer
	for _, obj := range f.Objects {
		payload := obj.Data
		if r, ok := replace[obj.PathID]; ok {
			payload = r
		}

		offset, err := u32FromInt(body.Len())
		if err != nil {
			return nil, err
		}
		size, err := u32FromInt(len(payload))
		if err != nil {
			return nil, err
		}

		rec := make([]byte, assetsObjectRecSize)
		binary.LittleEndian.PutUint64(rec[0:], uint64(obj.PathID))
		binary.LittleEndian.PutUint32(rec[8:], uint32(obj.ClassID))
		binary.LittleEndian.PutUint32(rec[12:], offset)
		binary.LittleEndian.PutUint32(rec[16:], size)
		table.Write(rec)
		body.Write(payload)
	}

	var out bytes.Buffer
	out.Grow(assetsHeaderSize + 6 + len(f.EngineVersion) + table.Len() + body.Len())
	out.WriteString(assetsSignature)
	out.Write(binary.LittleEndian.AppendUint32(nil, assetsVersion))
	out.Write(binary.LittleEndian.AppendUint32(nil, f.Platform))
	out.Write(binary.LittleEndian.AppendUint16(nil, uint16(len(f.EngineVersion))))
	out.WriteString(f.EngineVersion)
	out.Write(binary.LittleEndian.AppendUint32(nil, count))
	out.Write(table.Bytes())
	out.Write(body.Bytes())

	return out.Bytes(), nil
}
