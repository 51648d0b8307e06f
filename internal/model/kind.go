package model

import "fmt"

// Kind is the semantic type of a decoded record.
type Kind string

const (
	KindNote         Kind = "note"
	KindBookmark     Kind = "bookmark"
	KindPassword     Kind = "password"
	KindSerialNumber Kind = "serial_number"
	KindImage        Kind = "image"
	KindPDF          Kind = "pdf"
)

// KindOrder is the canonical display order for record kinds.
var KindOrder = []Kind{
	KindNote,
	KindBookmark,
	KindPassword,
	KindSerialNumber,
	KindImage,
	KindPDF,
}

// ValidateKind returns an error if k is not a recognized kind.
func ValidateKind(k Kind) error {
	for _, v := range KindOrder {
		if k == v {
			return nil
		}
	}
	return fmt.Errorf("invalid type %q: must be one of %v", k, KindOrder)
}

// IsBinary reports whether records of this kind carry a file payload
// instead of text content.
func (k Kind) IsBinary() bool {
	return k == KindImage || k == KindPDF
}

// Color returns a color name string suitable for terminal rendering.
func (k Kind) Color() string {
	switch k {
	case KindNote:
		return "white"
	case KindBookmark:
		return "blue"
	case KindPassword:
		return "red"
	case KindSerialNumber:
		return "yellow"
	case KindImage:
		return "magenta"
	case KindPDF:
		return "green"
	default:
		return "gray"
	}
}

// Icon returns a single-character icon for the kind.
func (k Kind) Icon() string {
	switch k {
	case KindNote:
		return "✎"
	case KindBookmark:
		return "★"
	case KindPassword:
		return "⚿"
	case KindSerialNumber:
		return "#"
	case KindImage:
		return "▣"
	case KindPDF:
		return "▤"
	default:
		return "?"
	}
}

// FileFormat is a file type identified from leading magic bytes.
type FileFormat string

const (
	FormatNone FileFormat = ""
	FormatPDF  FileFormat = "pdf"
	FormatJPEG FileFormat = "jpg"
	FormatPNG  FileFormat = "png"
	FormatGIF  FileFormat = "gif"
	FormatTIFF FileFormat = "tiff"
	FormatBMP  FileFormat = "bmp"
)

// Extension returns the file extension for the format, without a dot.
func (f FileFormat) Extension() string {
	return string(f)
}
