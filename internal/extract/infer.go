package extract

import (
	"math"
	"time"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

// AppleEpochOffset is the number of seconds between the Unix epoch and the
// source timestamp epoch, 2001-01-01T00:00:00Z.
const AppleEpochOffset = 978307200

// maxTimestamp bounds accepted source timestamps to roughly ±3000 years.
const maxTimestamp = 1e11

// Entity codes observed in the source item table.
const (
	EntityImage        = 17
	EntityNote         = 18
	EntityPDF          = 19
	EntityWebArchive   = 20
	EntityPassword     = 21
	EntitySerialNumber = 22
	EntityBookmark     = 23
)

// InferKind picks a record's semantic type from weak signals, in priority
// order: a resolved PDF payload, any other resolved payload, the URL hint,
// the serial-number hint, the location and account hints together, and
// finally note.
func InferKind(hints model.Hints, sniffed model.FileFormat) model.Kind {
	switch {
	case sniffed == model.FormatPDF:
		return model.KindPDF
	case sniffed != model.FormatNone:
		return model.KindImage
	case hints.URL != "":
		return model.KindBookmark
	case hints.SerialNumber != "":
		return model.KindSerialNumber
	case hints.Location != "" && hints.Account != "":
		return model.KindPassword
	default:
		return model.KindNote
	}
}

// EntityKind maps an entity-type code to the kind it nominally denotes.
// The code is unreliable; it is only used to report disagreements.
func EntityKind(code int64) (model.Kind, bool) {
	switch code {
	case EntityImage:
		return model.KindImage, true
	case EntityNote, EntityWebArchive:
		return model.KindNote, true
	case EntityPDF:
		return model.KindPDF, true
	case EntityPassword:
		return model.KindPassword, true
	case EntitySerialNumber:
		return model.KindSerialNumber, true
	case EntityBookmark:
		return model.KindBookmark, true
	default:
		return "", false
	}
}

// ConvertTimestamp converts seconds since the source epoch to a UTC time
// with millisecond precision. NULL, zero and out-of-range values become now.
func ConvertTimestamp(ts *float64, now time.Time) time.Time {
	if ts == nil || *ts == 0 || math.IsNaN(*ts) || math.Abs(*ts) > maxTimestamp {
		return now.UTC()
	}
	ms := int64(math.Round(*ts * 1000))
	return time.UnixMilli(AppleEpochOffset*1000 + ms).UTC()
}
