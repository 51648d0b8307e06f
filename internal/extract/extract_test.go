package extract

import (
	"testing"
	"time"

	"github.com/ALT-F4-LLC/salvage/internal/archive"
	"github.com/ALT-F4-LLC/salvage/internal/model"
	"github.com/ALT-F4-LLC/salvage/internal/resolve"
	"github.com/ALT-F4-LLC/salvage/internal/source"
	"github.com/ALT-F4-LLC/salvage/internal/testutil"
)

const (
	pngUUID  = "6AD254BE-37AD-47A2-8F68-C9050F50B132"
	pdfUUID  = "0F1E2D3C-4B5A-6978-8796-A5B4C3D2E1F0"
	lostUUID = "11111111-2222-3333-4444-555555555555"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newExtractor(t *testing.T, labels []testutil.Label) *Extractor {
	t.Helper()

	a, err := archive.Open(testutil.Zip(t, map[string][]byte{
		testutil.ExternalDataDir + pngUUID: testutil.PNGMagic,
		testutil.ExternalDataDir + pdfUUID: testutil.PDFMagic,
	}))
	if err != nil {
		t.Fatalf("archive.Open: %v", err)
	}

	db, err := source.Load(testutil.SourceDatabase(t, labels, nil))
	if err != nil {
		t.Fatalf("source.Load: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	idx, err := db.LabelIndex()
	if err != nil {
		t.Fatalf("LabelIndex: %v", err)
	}

	return &Extractor{
		Resolver: resolve.New(a, resolve.BuildIndex(a)),
		Labels:   idx,
		Workers:  2,
		Now:      func() time.Time { return fixedNow },
	}
}

func TestInferKindPriority(t *testing.T) {
	all := model.Hints{
		URL: "https://x", SerialNumber: "S-1", Location: "site", Account: "me",
	}
	tests := []struct {
		name    string
		hints   model.Hints
		sniffed model.FileFormat
		want    model.Kind
	}{
		{"pdf beats hints", all, model.FormatPDF, model.KindPDF},
		{"raster beats hints", all, model.FormatGIF, model.KindImage},
		{"url", all, model.FormatNone, model.KindBookmark},
		{"serial", model.Hints{SerialNumber: "S-1", Location: "a", Account: "b"}, model.FormatNone, model.KindSerialNumber},
		{"password", model.Hints{Location: "a", Account: "b"}, model.FormatNone, model.KindPassword},
		{"location only", model.Hints{Location: "a"}, model.FormatNone, model.KindNote},
		{"account only", model.Hints{Account: "b"}, model.FormatNone, model.KindNote},
		{"source url only", model.Hints{SourceURL: "https://x"}, model.FormatNone, model.KindNote},
		{"nothing", model.Hints{}, model.FormatNone, model.KindNote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferKind(tt.hints, tt.sniffed); got != tt.want {
				t.Errorf("InferKind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertTimestamp(t *testing.T) {
	tests := []struct {
		name string
		ts   *float64
		want time.Time
	}{
		{"nil", nil, fixedNow},
		{"zero", testutil.Float64(0), fixedNow},
		{"one second", testutil.Float64(1), time.Date(2001, 1, 1, 0, 0, 1, 0, time.UTC)},
		{"fractional", testutil.Float64(86400.25), time.Date(2001, 1, 2, 0, 0, 0, 250_000_000, time.UTC)},
		{"before epoch", testutil.Float64(-86400), time.Date(2000, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"absurd", testutil.Float64(1e300), fixedNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConvertTimestamp(tt.ts, fixedNow); !got.Equal(tt.want) {
				t.Errorf("ConvertTimestamp = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractAssemblesRecords(t *testing.T) {
	e := newExtractor(t, []testutil.Label{{PK: 4, Name: "Receipts"}})

	rows := []model.RawItemRow{
		{PK: 1, Name: "Greeting", StringRep: "Hello", Blob: testutil.ArchivedBlob("ignored archived text")},
		{PK: 2, Name: "Site", Flagged: true, Hints: model.Hints{URL: "https://example.com"}},
		{PK: 3, Name: "Photo", EntityCode: EntityImage, Blob: testutil.FileRefBlob(pngUUID)},
		{PK: 4, Name: "Invoice", LabelPK: testutil.Int64(4), Blob: testutil.FileRefBlob(pdfUUID), StringRep: "not used"},
		{PK: 5, Name: "", Trashed: true, Blob: testutil.ArchivedBlob("NSAttributedString", "Salvaged body text")},
		{PK: 6, Name: "Secret", Encrypted: true, Blob: testutil.FileRefBlob(pngUUID)},
		{PK: 7, Name: "Lost", LabelPK: testutil.Int64(99), Hints: model.Hints{URL: "https://lost"}, Blob: testutil.FileRefBlob(lostUUID)},
		{PK: 8, Name: "Odd", Blob: []byte("\x07mystery bytes here")},
	}
	out := e.Extract(rows)
	if len(out) != len(rows) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(rows))
	}

	greeting := out[0].Record
	if greeting.Type != model.KindNote || greeting.Content != "Hello" {
		t.Errorf("greeting = %+v, want note with string rep content", greeting)
	}
	if !greeting.CreatedAt.Equal(fixedNow) {
		t.Errorf("greeting created = %v, want decode time", greeting.CreatedAt)
	}

	site := out[1].Record
	if site.Type != model.KindBookmark || !site.Flagged || site.Content != "" {
		t.Errorf("site = %+v", site)
	}

	photo := out[2].Record
	if photo.Type != model.KindImage || photo.Attachment == nil {
		t.Fatalf("photo = %+v, want image with attachment", photo)
	}
	if photo.Attachment.FileName != "Photo.png" || photo.Attachment.ContentType != "image/png" {
		t.Errorf("photo attachment = %+v", photo.Attachment)
	}

	invoice := out[3].Record
	if invoice.Type != model.KindPDF || invoice.Attachment == nil || invoice.Content != "" {
		t.Errorf("invoice = %+v, want pdf with attachment and no content", invoice)
	}
	if invoice.LabelOrEmpty() != "Receipts" {
		t.Errorf("invoice label = %q, want Receipts", invoice.LabelOrEmpty())
	}

	untitled := out[4].Record
	if untitled.Name != Untitled || untitled.Content != "Salvaged body text" || !untitled.Trashed {
		t.Errorf("untitled = %+v", untitled)
	}

	if !out[5].Encrypted || out[5].Record != nil {
		t.Errorf("secret outcome = %+v, want encrypted without record", out[5])
	}

	lost := out[6]
	if !lost.Dangling || lost.Record.Type != model.KindBookmark || lost.Record.Attachment != nil {
		t.Errorf("lost = %+v / %+v, want dangling bookmark without payload", lost, lost.Record)
	}
	if lost.Record.LabelName != nil {
		t.Errorf("lost label = %q, want nil", *lost.Record.LabelName)
	}

	odd := out[7]
	if !odd.Unreadable || odd.Record.Content != "" || odd.Record.Type != model.KindNote {
		t.Errorf("odd = %+v / %+v", odd, odd.Record)
	}
}

func TestExtractPayloadInvariant(t *testing.T) {
	e := newExtractor(t, nil)
	e.Workers = 8

	var rows []model.RawItemRow
	for i := 0; i < 200; i++ {
		row := model.RawItemRow{PK: int64(i), Name: "r"}
		switch i % 4 {
		case 0:
			row.Blob = testutil.FileRefBlob(pngUUID)
		case 1:
			row.Blob = testutil.FileRefBlob(lostUUID)
		case 2:
			row.Blob = testutil.ArchivedBlob("Some archived note text")
		case 3:
			row.Hints.SerialNumber = "XYZ"
		}
		rows = append(rows, row)
	}

	for i, o := range e.Extract(rows) {
		r := o.Record
		if (r.Attachment != nil) != r.Type.IsBinary() {
			t.Errorf("row %d: attachment=%v type=%q violates payload invariant", i, r.Attachment != nil, r.Type)
		}
		if r.Type.IsBinary() && r.Content != "" {
			t.Errorf("row %d: binary record has content %q", i, r.Content)
		}
	}
}

func TestExtractMalformedFileRefHasNoContent(t *testing.T) {
	e := newExtractor(t, nil)

	badUUID := append([]byte{0x02}, "not-a-uuid-at-all-xxxxxxxxxxxxxxxxxx"...)
	badUUID = append(badUUID, 0x00)
	rows := []model.RawItemRow{
		{PK: 1, Name: "Bad ref", StringRep: "stale string rep", Blob: badUUID},
		{PK: 2, Name: "Short ref", StringRep: "stale string rep", Blob: []byte{0x02, 'A', 'B', 0x00}},
	}
	out := e.Extract(rows)

	if !out[0].Unreadable {
		t.Errorf("bad ref outcome = %+v, want unreadable", out[0])
	}
	for i, o := range out {
		r := o.Record
		if r.Content != "" || r.Attachment != nil || r.Type != model.KindNote {
			t.Errorf("row %d: content = %q, attachment = %v, type = %q; want empty note", i, r.Content, r.Attachment, r.Type)
		}
	}
}

func TestExtractWithoutResolver(t *testing.T) {
	e := &Extractor{Now: func() time.Time { return fixedNow }}
	out := e.Extract([]model.RawItemRow{{PK: 1, Blob: testutil.FileRefBlob(pngUUID)}})
	if !out[0].Dangling || out[0].Record.Type != model.KindNote {
		t.Errorf("outcome = %+v", out[0])
	}
}

func TestEntityKind(t *testing.T) {
	if k, ok := EntityKind(EntityWebArchive); !ok || k != model.KindNote {
		t.Errorf("EntityKind(web archive) = %q, %v", k, ok)
	}
	if _, ok := EntityKind(99); ok {
		t.Error("EntityKind(99) ok = true, want false")
	}
}
