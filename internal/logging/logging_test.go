package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewFormatsRecords(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)

	l.Info("decoded archive", "records", 3, "encrypted", 1)

	line := strings.TrimSpace(buf.String())
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		t.Fatalf("fields = %q, want 5", fields)
	}
	if fields[1] != "INFO" || fields[2] != "decoded archive" {
		t.Errorf("level/message = %q/%q", fields[1], fields[2])
	}
	if fields[3] != "records=3" || fields[4] != "encrypted=1" {
		t.Errorf("attrs = %q", fields[3:])
	}
}

func TestNewSuppressesDebugUnlessVerbose(t *testing.T) {
	var quiet, verbose bytes.Buffer

	New(&quiet, false).Debug("row degraded", "pk", 1)
	New(&verbose, true).Debug("row degraded", "pk", 1)

	if quiet.Len() != 0 {
		t.Errorf("expected no debug output, got %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "DEBUG\trow degraded\tpk=1") {
		t.Errorf("verbose output = %q", verbose.String())
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NewNopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
}
