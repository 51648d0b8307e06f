package decoder

import "errors"

// Sentinel errors for the two fatal decode failures. Use errors.Is.
var (
	ErrArchiveUnreadable = errors.New("archive unreadable")
	ErrDatabaseCorrupt   = errors.New("database corrupt")
)

// Error is a fatal decode error.
type Error struct {
	// Kind is ErrArchiveUnreadable or ErrDatabaseCorrupt.
	Kind error
	Err  error
}

func (e *Error) Error() string { return e.Kind.Error() + ": " + e.Err.Error() }

// Unwrap exposes both the kind and the underlying cause to errors.Is.
func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

func archiveErr(err error) *Error  { return &Error{Kind: ErrArchiveUnreadable, Err: err} }
func databaseErr(err error) *Error { return &Error{Kind: ErrDatabaseCorrupt, Err: err} }
