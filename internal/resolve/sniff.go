package resolve

import (
	"bytes"
	"path"
	"strings"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

// signature is a leading byte sequence identifying a file format.
type signature struct {
	magic  []byte
	format model.FileFormat
}

// signatures is checked in order; the first match wins.
var signatures = []signature{
	{[]byte("%PDF"), model.FormatPDF},
	{[]byte{0xFF, 0xD8, 0xFF}, model.FormatJPEG},
	{[]byte{0x89, 'P', 'N', 'G'}, model.FormatPNG},
	{[]byte("GIF"), model.FormatGIF},
	{[]byte{'I', 'I', 0x2A, 0x00}, model.FormatTIFF},
	{[]byte{'M', 'M', 0x00, 0x2A}, model.FormatTIFF},
	{[]byte("BM"), model.FormatBMP},
}

// DefaultFormat is assumed for payloads with no recognized signature. The
// source application stores most unlabeled raster payloads as PNG.
const DefaultFormat = model.FormatPNG

// Sniff identifies a payload's format from its leading bytes.
func Sniff(data []byte) model.FileFormat {
	for _, s := range signatures {
		if bytes.HasPrefix(data, s.magic) {
			return s.format
		}
	}
	return DefaultFormat
}

var contentTypes = map[string]string{
	"jpg":        "image/jpeg",
	"jpeg":       "image/jpeg",
	"png":        "image/png",
	"gif":        "image/gif",
	"webp":       "image/webp",
	"svg":        "image/svg+xml",
	"tiff":       "image/tiff",
	"tif":        "image/tiff",
	"bmp":        "image/bmp",
	"pdf":        "application/pdf",
	"webarchive": "application/x-webarchive",
}

// FileName derives a payload file name from a record name and format.
func FileName(name string, f model.FileFormat) string {
	return name + "." + f.Extension()
}

// ContentType returns the MIME type for a file name's extension, or
// application/octet-stream when the extension is unknown.
func ContentType(fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
