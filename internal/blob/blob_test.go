package blob

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/ALT-F4-LLC/salvage/internal/testutil"
)

const sampleUUID = "6ad254be-37ad-47a2-8f68-c9050f50b132"

func TestClassifyEncryptedNeverReadsBlob(t *testing.T) {
	got := Classify(testutil.FileRefBlob(sampleUUID), true)
	if got.Kind != KindEncrypted || got.UUID != "" || got.Text != "" {
		t.Errorf("Classify(encrypted) = %+v", got)
	}
}

func TestClassifyShortOrAbsent(t *testing.T) {
	for _, data := range [][]byte{nil, {}, {0x02}, []byte("\x01bplist0")} {
		if got := Classify(data, false); got.Kind != KindEmpty {
			t.Errorf("Classify(%x).Kind = %v, want empty", data, got.Kind)
		}
	}
}

func TestClassifyFileRef(t *testing.T) {
	got := Classify(testutil.FileRefBlob(sampleUUID), false)
	if got.Kind != KindFileRef {
		t.Fatalf("Kind = %v, want file_ref", got.Kind)
	}
	if got.UUID != strings.ToUpper(sampleUUID) {
		t.Errorf("UUID = %q, want uppercased %q", got.UUID, sampleUUID)
	}
}

func TestClassifyFileRefWithoutTerminator(t *testing.T) {
	data := append([]byte{0x02}, sampleUUID...)
	got := Classify(data, false)
	if got.Kind != KindFileRef {
		t.Fatalf("Kind = %v, want file_ref", got.Kind)
	}
}

func TestClassifyMalformedFileRef(t *testing.T) {
	tests := []string{
		"not-a-uuid-at-all",
		"6AD254BE37AD47A28F68C9050F50B132",
		"{6AD254BE-37AD-47A2-8F68-C9050F50B132}",
		"urn:uuid:6AD254BE-37AD-47A2-8F68-C9050F50B132",
		"6AD254BE-37AD-47A2-8F68-C9050F50B13Z",
		"6AD254BE-37AD-47A2-8F68-C9050F50B132-extra",
	}
	for _, s := range tests {
		got := Classify(testutil.FileRefBlob(s), false)
		if got.Kind != KindUnknown || got.UUID != "" {
			t.Errorf("Classify(%q) = %+v, want unknown", s, got)
		}
	}
}

func TestIsFileRef(t *testing.T) {
	tests := []struct {
		data []byte
		want bool
	}{
		{nil, false},
		{[]byte{0x02}, true},
		{[]byte{0x02, 'x', 0x00}, true},
		{[]byte{0x01, 'b', 'p'}, false},
	}
	for _, tt := range tests {
		if got := IsFileRef(tt.data); got != tt.want {
			t.Errorf("IsFileRef(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestClassifyUnknownPrefix(t *testing.T) {
	data := append([]byte{0x03}, "bplist00 some longer payload"...)
	if got := Classify(data, false); got.Kind != KindUnknown || got.Text != "" {
		t.Errorf("Classify(0x03...) = %+v, want unknown with no text", got)
	}

	data = append([]byte{0x01}, "xmlpls00 some longer payload"...)
	if got := Classify(data, false); got.Kind != KindUnknown {
		t.Errorf("Classify(0x01 without magic).Kind = %v, want unknown", got.Kind)
	}
}

func TestClassifyArchived(t *testing.T) {
	data := testutil.ArchivedBlob("NSAttributedString", "Buy milk and eggs", "NSParagraphStyle")
	got := Classify(data, false)
	if got.Kind != KindArchived {
		t.Fatalf("Kind = %v, want archived", got.Kind)
	}
	if got.Text != "Buy milk and eggs" {
		t.Errorf("Text = %q, want %q", got.Text, "Buy milk and eggs")
	}
}

func TestScrubLongestSentenceAmongMetadata(t *testing.T) {
	sentence := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 5)
	sentence = strings.TrimSpace(sentence[:200])
	tokens := []string{
		"NSKeyedArchiver", "$archiver", "YNSParagraphStyle", "VNSFont",
		"WNSColor", "XNSfFlags", "]NSStrokeColor", "\\NSColorSpace",
		"_NSBackgroundColor", "X$versionY$archiver",
	}

	var runs []string
	for i, tok := range tokens {
		runs = append(runs, tok)
		if i == 4 {
			runs = append(runs, sentence)
		}
	}

	if got := Scrub(testutil.ArchivedBlob(runs...)); got != sentence {
		t.Errorf("Scrub = %q, want the sentence", got)
	}
}

func TestScrubNeverReturnsMetadata(t *testing.T) {
	data := testutil.ArchivedBlob("NSKeyedArchiver", "NSMutableParagraphStyle", "NS.objects", "$objects")
	if got := Scrub(data); got != "" {
		t.Errorf("Scrub = %q, want empty", got)
	}
}

func TestScrubDropsShortRuns(t *testing.T) {
	data := testutil.ArchivedBlob("Hello", "  hi   ")
	if got := Scrub(data); got != "" {
		t.Errorf("Scrub = %q, want empty", got)
	}
}

func TestScrubKeepsWhitespaceInsideRun(t *testing.T) {
	data := testutil.ArchivedBlob("line one\nline two\tend")
	if got := Scrub(data); got != "line one\nline two\tend" {
		t.Errorf("Scrub = %q", got)
	}
}

func TestScrubTrailingRun(t *testing.T) {
	data := append([]byte{0x01, 0x00}, "trailing text"...)
	if got := Scrub(data); got != "trailing text" {
		t.Errorf("Scrub = %q, want %q", got, "trailing text")
	}
}

func TestIsMetadata(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"NSKeyedArchiver", true},
		{"NS.string", true},
		{"YNSParagraphStyle", true},
		{"abcYNSTableRows", true},
		{".IEC 61966-2.1", true},
		{"bplist00", true},
		{"Meeting notes for Tuesday", false},
		{"buy NS stuff", false},
	}
	for _, tt := range tests {
		if got := IsMetadata(tt.s); got != tt.want {
			t.Errorf("IsMetadata(%q) = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestClassifyFuzzNeverPanics(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		n := rng.Intn(64)
		data := make([]byte, n)
		rng.Read(data)
		if n > 0 && i%3 == 0 {
			data[0] = byte(1 + i%2)
		}
		got := Classify(data, false)
		if got.Kind == KindFileRef && len(got.UUID) != 36 {
			t.Fatalf("file ref with bad uuid %q from %x", got.UUID, data)
		}
	}
}
