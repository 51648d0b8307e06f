package output

import (
	"encoding/json"
	"io"
)

// ErrorCode represents a machine-readable error classification.
type ErrorCode string

// Error code constants.
const (
	ErrGeneral    ErrorCode = "GENERAL_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrConflict   ErrorCode = "CONFLICT"

	// ErrArchiveUnreadable: the upload is not a zip or holds no database.
	ErrArchiveUnreadable ErrorCode = "ARCHIVE_UNREADABLE"
	// ErrDatabaseCorrupt: the embedded database cannot be opened or queried.
	ErrDatabaseCorrupt ErrorCode = "DATABASE_CORRUPT"
)

// Exit code constants.
const (
	ExitSuccess    = 0
	ExitGeneral    = 1
	ExitNotFound   = 2
	ExitValidation = 3
	ExitConflict   = 4
	ExitArchive    = 5
	ExitDatabase   = 6
)

// ExitCodeForError maps an ErrorCode to its corresponding exit code.
func ExitCodeForError(code ErrorCode) int {
	switch code {
	case ErrNotFound:
		return ExitNotFound
	case ErrValidation:
		return ExitValidation
	case ErrConflict:
		return ExitConflict
	case ErrArchiveUnreadable:
		return ExitArchive
	case ErrDatabaseCorrupt:
		return ExitDatabase
	default:
		return ExitGeneral
	}
}

// successEnvelope is the JSON structure for successful responses.
type successEnvelope struct {
	OK      bool   `json:"ok"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// errorEnvelope is the JSON structure for error responses.
type errorEnvelope struct {
	OK    bool      `json:"ok"`
	Error string    `json:"error"`
	Code  ErrorCode `json:"code"`
}

// EncodeJSON writes v to w as JSON without HTML escaping. Indented output
// is used for files meant to be read by people.
func EncodeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// writeJSONSuccess writes a success envelope to w.
func writeJSONSuccess(w io.Writer, data any, message string) {
	EncodeJSON(w, successEnvelope{
		OK:      true,
		Data:    data,
		Message: message,
	}, false)
}

// writeJSONError writes an error envelope to w.
func writeJSONError(w io.Writer, err error, code ErrorCode) {
	EncodeJSON(w, errorEnvelope{
		OK:    false,
		Error: err.Error(),
		Code:  code,
	}, false)
}
