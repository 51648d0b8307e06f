package testutil

import (
	"archive/zip"
	"bytes"
	"sort"
	"testing"
)

// BackupRoot is the top-level directory of a synthetic backup archive.
const BackupRoot = "Yojimbo Backup/"

// ExternalDataDir holds the UUID-named loose payload files.
const ExternalDataDir = BackupRoot + "_EXTERNAL_DATA/"

// DatabasePath is the archive path of the embedded database.
const DatabasePath = BackupRoot + "Database.sqlite"

// Magic-byte prefixes for payload fixtures.
var (
	PNGMagic  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	JPEGMagic = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	PDFMagic  = []byte("%PDF-1.4\n")
	GIFMagic  = []byte("GIF89a")
)

// Zip builds a ZIP archive from the given members, written in path order.
func Zip(t testing.TB, members map[string][]byte) []byte {
	t.Helper()

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating zip member %q: %v", name, err)
		}
		if _, err := w.Write(members[name]); err != nil {
			t.Fatalf("writing zip member %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// Backup builds a complete backup archive holding db at DatabasePath and
// each payload at ExternalDataDir/<uuid>.
func Backup(t testing.TB, db []byte, payloads map[string][]byte) []byte {
	t.Helper()

	members := map[string][]byte{DatabasePath: db}
	for uuid, data := range payloads {
		members[ExternalDataDir+uuid] = data
	}
	return Zip(t, members)
}

// FileRefBlob encodes a file-reference blob pointing at uuid.
func FileRefBlob(uuid string) []byte {
	b := []byte{0x02}
	b = append(b, uuid...)
	return append(b, 0x00)
}

// ArchivedBlob encodes an archived-object blob whose printable runs are the
// given strings, separated by non-printable framing bytes.
func ArchivedBlob(runs ...string) []byte {
	b := []byte{0x01}
	b = append(b, "bplist00"...)
	b = append(b, 0xD4, 0x01, 0x02)
	for _, r := range runs {
		b = append(b, 0x00, 0x80)
		b = append(b, r...)
	}
	return append(b, 0x00, 0x08, 0x11)
}
