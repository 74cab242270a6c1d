// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/assetpatch

package texture

import (
	"strconv"
	"strings"
)

// Format is the engine pixel format tag stored in m_TextureFormat.
type Format int32

// Pixel formats as numbered by the engine serializer.
const (
	FormatUnknown            Format = 0
	FormatAlpha8             Format = 1
	FormatARGB4444           Format = 2
	FormatRGB24              Format = 3
	FormatRGBA32             Format = 4
	FormatARGB32             Format = 5
	FormatRGB565             Format = 7
	FormatR16                Format = 9
	FormatDXT1               Format = 10
	FormatDXT5               Format = 12
	FormatRGBA4444           Format = 13
	FormatBGRA32             Format = 14
	FormatRHalf              Format = 15
	FormatRGHalf             Format = 16
	FormatRGBAHalf           Format = 17
	FormatRFloat             Format = 18
	FormatRGFloat            Format = 19
	FormatRGBAFloat          Format = 20
	FormatYUY2               Format = 21
	FormatRGB9e5Float        Format = 22
	FormatBC6H               Format = 24
	FormatBC7                Format = 25
	FormatBC4                Format = 26
	FormatBC5                Format = 27
	FormatDXT1Crunched       Format = 28
	FormatDXT5Crunched       Format = 29
	FormatPVRTCRGB2          Format = 30
	FormatPVRTCRGBA2         Format = 31
	FormatPVRTCRGB4          Format = 32
	FormatPVRTCRGBA4         Format = 33
	FormatETCRGB4            Format = 34
	FormatEACR               Format = 41
	FormatEACRSigned         Format = 42
	FormatEACRG              Format = 43
	FormatEACRGSigned        Format = 44
	FormatETC2RGB4           Format = 45
	FormatETC2RGBA1          Format = 46
	FormatETC2RGBA8          Format = 47
	FormatASTCRGB4x4         Format = 48
	FormatASTCRGB5x5         Format = 49
	FormatASTCRGB6x6         Format = 50
	FormatASTCRGB8x8         Format = 51
	FormatASTCRGB10x10       Format = 52
	FormatASTCRGB12x12       Format = 53
	FormatASTCRGBA4x4        Format = 54
	FormatASTCRGBA5x5        Format = 55
	FormatASTCRGBA6x6        Format = 56
	FormatASTCRGBA8x8        Format = 57
	FormatASTCRGBA10x10      Format = 58
	FormatASTCRGBA12x12      Format = 59
	FormatETCRGB43DS         Format = 60
	FormatETCRGBA83DS        Format = 61
	FormatRG16               Format = 62
	FormatR8                 Format = 63
	FormatETCRGB4Crunched    Format = 64
	FormatETC2RGBA8Crunched  Format = 65
	FormatASTCHDR4x4         Format = 66
	FormatASTCHDR5x5         Format = 67
	FormatASTCHDR6x6         Format = 68
	FormatASTCHDR8x8         Format = 69
	FormatASTCHDR10x10       Format = 70
	FormatASTCHDR12x12       Format = 71
	FormatRG32               Format = 72
	FormatRGB48              Format = 73
	FormatRGBA64             Format = 74
)

var formatNames = map[Format]string{
	FormatUnknown:           "Unknown",
	FormatAlpha8:            "Alpha8",
	FormatARGB4444:          "ARGB4444",
	FormatRGB24:             "RGB24",
	FormatRGBA32:            "RGBA32",
	FormatARGB32:            "ARGB32",
	FormatRGB565:            "RGB565",
	FormatR16:               "R16",
	FormatDXT1:              "DXT1",
	FormatDXT5:              "DXT5",
	FormatRGBA4444:          "RGBA4444",
	FormatBGRA32:            "BGRA32",
	FormatRHalf:             "RHalf",
	FormatRGHalf:            "RGHalf",
	FormatRGBAHalf:          "RGBAHalf",
	FormatRFloat:            "RFloat",
	FormatRGFloat:           "RGFloat",
	FormatRGBAFloat:         "RGBAFloat",
	FormatYUY2:              "YUY2",
	FormatRGB9e5Float:       "RGB9e5Float",
	FormatBC6H:              "BC6H",
	FormatBC7:               "BC7",
	FormatBC4:               "BC4",
	FormatBC5:               "BC5",
	FormatDXT1Crunched:      "DXT1Crunched",
	FormatDXT5Crunched:      "DXT5Crunched",
	FormatPVRTCRGB2:         "PVRTC_RGB2",
	FormatPVRTCRGBA2:        "PVRTC_RGBA2",
	FormatPVRTCRGB4:         "PVRTC_RGB4",
	FormatPVRTCRGBA4:        "PVRTC_RGBA4",
	FormatETCRGB4:           "ETC_RGB4",
	FormatEACR:              "EAC_R",
	FormatEACRSigned:        "EAC_R_SIGNED",
	FormatEACRG:             "EAC_RG",
	FormatEACRGSigned:       "EAC_RG_SIGNED",
	FormatETC2RGB4:          "ETC2_RGB4",
	FormatETC2RGBA1:         "ETC2_RGBA1",
	FormatETC2RGBA8:         "ETC2_RGBA8",
	FormatASTCRGB4x4:        "ASTC_RGB_4x4",
	FormatASTCRGB5x5:        "ASTC_RGB_5x5",
	FormatASTCRGB6x6:        "ASTC_RGB_6x6",
	FormatASTCRGB8x8:        "ASTC_RGB_8x8",
	FormatASTCRGB10x10:      "ASTC_RGB_10x10",
	FormatASTCRGB12x12:      "ASTC_RGB_12x12",
	FormatASTCRGBA4x4:       "ASTC_RGBA_4x4",
	FormatASTCRGBA5x5:       "ASTC_RGBA_5x5",
	FormatASTCRGBA6x6:       "ASTC_RGBA_6x6",
	FormatASTCRGBA8x8:       "ASTC_RGBA_8x8",
	FormatASTCRGBA10x10:     "ASTC_RGBA_10x10",
	FormatASTCRGBA12x12:     "ASTC_RGBA_12x12",
	FormatETCRGB43DS:        "ETC_RGB4_3DS",
	FormatETCRGBA83DS:       "ETC_RGBA8_3DS",
	FormatRG16:              "RG16",
	FormatR8:                "R8",
	FormatETCRGB4Crunched:   "ETC_RGB4Crunched",
	FormatETC2RGBA8Crunched: "ETC2_RGBA8Crunched",
	FormatASTCHDR4x4:        "ASTC_HDR_4x4",
	FormatASTCHDR5x5:        "ASTC_HDR_5x5",
	FormatASTCHDR6x6:        "ASTC_HDR_6x6",
	FormatASTCHDR8x8:        "ASTC_HDR_8x8",
	FormatASTCHDR10x10:      "ASTC_HDR_10x10",
	FormatASTCHDR12x12:      "ASTC_HDR_12x12",
	FormatRG32:              "RG32",
	FormatRGB48:             "RGB48",
	FormatRGBA64:            "RGBA64",
}

// String returns the engine name of the format, or its number when unknown.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// ParseFormat resolves a format by engine name (case-insensitive) or number.
func ParseFormat(raw string) (Format, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		f := Format(n)
		_, ok := formatNames[f]
		return f, ok
	}

	for f, name := range formatNames {
		if strings.EqualFold(name, raw) {
			return f, true
		}
	}

	return FormatUnknown, false
}

// IsCrunched reports whether the format is a crunch-compressed variant.
func (f Format) IsCrunched() bool {
	switch f {
	case FormatDXT1Crunched, FormatDXT5Crunched, FormatETCRGB4Crunched, FormatETC2RGBA8Crunched:
		return true
	default:
		return false
	}
}
