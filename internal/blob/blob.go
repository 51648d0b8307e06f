// Package blob classifies the raw bytes of a source blob column and
// salvages readable text from archived-object blobs.
//
// Text salvage is a heuristic, not a parse of the object-archive format:
// the blob is split into runs of printable ASCII, runs that look like
// archiver metadata are dropped, and the longest surviving run is taken as
// the user's text. It is known to be wrong when a note is shorter than an
// embedded metadata string that escapes the denylist.
package blob

import (
	"bytes"
	"strings"

	"github.com/google/uuid"
)

// Kind is the classification of a blob.
type Kind int

const (
	// KindEmpty means the blob is absent or too short to classify.
	KindEmpty Kind = iota
	// KindEncrypted means the owning row is encrypted; the blob was not read.
	KindEncrypted
	// KindFileRef means the blob is a pointer to a loose archive member.
	KindFileRef
	// KindArchived means the blob is an archived object graph.
	KindArchived
	// KindUnknown means the blob has an unrecognized prefix or a malformed
	// file reference.
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindEncrypted:
		return "encrypted"
	case KindFileRef:
		return "file_ref"
	case KindArchived:
		return "archived"
	case KindUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

const (
	// MinHeaderLen is the shortest blob worth inspecting.
	MinHeaderLen = 10

	// MinRunLen is the trimmed length a printable run must exceed to be
	// kept as salvaged text.
	MinRunLen = 5

	prefixArchived = 0x01
	prefixFileRef  = 0x02

	archiveMagic = "bplist"
)

// Result is the outcome of classifying one blob.
type Result struct {
	Kind Kind
	// UUID is the uppercased file reference when Kind is KindFileRef.
	UUID string
	// Text is the salvaged content when Kind is KindArchived. It may be empty.
	Text string
}

// Classify inspects a blob. When encrypted is true the bytes are never read.
func Classify(data []byte, encrypted bool) Result {
	if encrypted {
		return Result{Kind: KindEncrypted}
	}
	if len(data) < MinHeaderLen {
		return Result{Kind: KindEmpty}
	}

	switch data[0] {
	case prefixFileRef:
		id, ok := FileRef(data)
		if !ok {
			return Result{Kind: KindUnknown}
		}
		return Result{Kind: KindFileRef, UUID: id}
	case prefixArchived:
		if string(data[1:1+len(archiveMagic)]) != archiveMagic {
			return Result{Kind: KindUnknown}
		}
		return Result{Kind: KindArchived, Text: Scrub(data)}
	default:
		return Result{Kind: KindUnknown}
	}
}

// IsFileRef reports whether data carries the file-reference prefix, whether
// or not the reference itself is well formed. Such rows never carry text.
func IsFileRef(data []byte) bool {
	return len(data) > 0 && data[0] == prefixFileRef
}

// FileRef extracts the NUL-terminated UUID from a file-reference blob and
// returns it uppercased. It reports false unless the string is exactly a
// canonical 8-4-4-4-12 hexadecimal UUID.
func FileRef(data []byte) (string, bool) {
	if len(data) < MinHeaderLen || data[0] != prefixFileRef {
		return "", false
	}

	s := data[1:]
	if i := bytes.IndexByte(s, 0x00); i >= 0 {
		s = s[:i]
	}
	return CanonicalUUID(string(s))
}

// CanonicalUUID reports whether s is a hyphenated 36-character UUID and
// returns it uppercased.
func CanonicalUUID(s string) (string, bool) {
	if len(s) != 36 {
		return "", false
	}
	if err := uuid.Validate(s); err != nil {
		return "", false
	}
	return strings.ToUpper(s), true
}

// Scrub returns the longest printable run in data that is not archiver
// metadata, or "" if none survives.
func Scrub(data []byte) string {
	var best string
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		run := strings.TrimSpace(string(data[start:end]))
		start = -1
		if len(run) <= MinRunLen || IsMetadata(run) {
			return
		}
		if len(run) > len(best) {
			best = run
		}
	}

	for i, b := range data {
		if isPrintable(b) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))

	return best
}

func isPrintable(b byte) bool {
	return (b >= 0x20 && b <= 0x7E) || b == '\t' || b == '\n' || b == '\r'
}
