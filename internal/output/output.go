package output

import (
	"fmt"
	"io"
	"os"
)

// Writer routes command results either to a JSON envelope or to
// human-readable lines.
type Writer struct {
	JSONMode  bool
	QuietMode bool
	Stdout    io.Writer
	Stderr    io.Writer
}

// New returns a Writer on the process's stdout and stderr.
func New(jsonMode, quietMode bool) *Writer {
	return &Writer{
		JSONMode:  jsonMode,
		QuietMode: quietMode,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Success reports a result: data in JSON mode, message otherwise.
func (w *Writer) Success(data any, message string) {
	if w.JSONMode {
		writeJSONSuccess(w.Stdout, data, message)
		return
	}
	writeHumanSuccess(w.Stdout, message)
}

// Error reports err and returns the process exit code for code. JSON
// errors go to Stdout inside the envelope; human errors go to Stderr.
func (w *Writer) Error(err error, code ErrorCode) int {
	if w.JSONMode {
		writeJSONError(w.Stdout, err, code)
	} else {
		writeHumanError(w.Stderr, err)
	}
	return ExitCodeForError(code)
}

// Info writes a diagnostic line to Stderr. Quiet and JSON modes drop it.
func (w *Writer) Info(format string, args ...any) {
	if w.QuietMode || w.JSONMode {
		return
	}
	infoNotice.write(w.Stderr, fmt.Sprintf(format, args...))
}

// Warn writes a warning to Stderr. Quiet mode keeps warnings; JSON mode
// drops them since the envelope is the only output.
func (w *Writer) Warn(format string, args ...any) {
	if w.JSONMode {
		return
	}
	warnNotice.write(w.Stderr, fmt.Sprintf(format, args...))
}
