package db

import (
	"bytes"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

func strPtr(s string) *string { return &s }

func sampleRecords() []*model.Record {
	base := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	return []*model.Record{
		{
			Name: "Groceries", Type: model.KindNote, Content: "eggs & <milk>\n\nbread",
			CreatedAt: base, UpdatedAt: base.Add(3 * time.Hour), LabelName: strPtr("Home"),
		},
		{
			Name: "Docs", Type: model.KindBookmark, Hints: model.Hints{URL: "https://go.dev"},
			CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(2 * time.Hour), LabelName: strPtr("Work"),
		},
		{
			Name: "Scan", Type: model.KindImage, Trashed: true,
			CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(time.Hour),
			Attachment: &model.Attachment{
				FileName: "Scan.png", ContentType: "image/png", Format: model.FormatPNG,
				Data: []byte{0x89, 'P', 'N', 'G'},
			},
		},
		{
			Name: "Router", Type: model.KindPassword, Content: "hunter2",
			Hints:     model.Hints{Location: "192.168.1.1", Account: "admin"},
			CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base, LabelName: strPtr("Unknown"),
		},
	}
}

func mustImport(t *testing.T, records []*model.Record, batchSize int) (*sql.DB, ImportStats) {
	t.Helper()
	db := mustInit(t)
	ids, err := ImportLabels(db, []model.Label{{Name: "Work", DisplayIndex: 0}, {Name: "Home", DisplayIndex: 1}})
	if err != nil {
		t.Fatalf("ImportLabels failed: %v", err)
	}
	stats, err := ImportRecords(db, records, ids, batchSize)
	if err != nil {
		t.Fatalf("ImportRecords failed: %v", err)
	}
	return db, stats
}

func TestNoteHTML(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"hello", "<p>hello</p>"},
		{"a\n\nb", "<p>a</p><p><br></p><p>b</p>"},
		{`<b> & "q" 'x'`, `<p>&lt;b&gt; &amp; &quot;q&quot; 'x'</p>`},
	}
	for _, tt := range tests {
		if got := NoteHTML(tt.in); got != tt.want {
			t.Errorf("NoteHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImportRecords(t *testing.T) {
	db, stats := mustImport(t, sampleRecords(), 3)

	want := ImportStats{Inserted: 4, Attachments: 1, Labeled: 2, Batches: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	items, total, err := ListItems(db, ListOptions{IncludeTrashed: true, Sort: "name", SortDir: "asc"})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if total != 4 || len(items) != 4 {
		t.Fatalf("total = %d, len = %d, want 4", total, len(items))
	}

	byName := map[string]*model.Item{}
	for _, it := range items {
		byName[it.Name] = it
	}

	note := byName["Groceries"]
	if note.ContentFormat != model.ContentHTML {
		t.Errorf("note format = %q, want html", note.ContentFormat)
	}
	if note.Content != "<p>eggs &amp; &lt;milk&gt;</p><p><br></p><p>bread</p>" {
		t.Errorf("note content = %q", note.Content)
	}
	if len(note.Labels) != 1 || note.Labels[0] != "Home" {
		t.Errorf("note labels = %v, want [Home]", note.Labels)
	}
	if !note.UpdatedAt.Equal(time.Date(2023, 6, 1, 15, 0, 0, 0, time.UTC)) {
		t.Errorf("note updated_at = %v", note.UpdatedAt)
	}

	if bm := byName["Docs"]; bm.Hints.URL != "https://go.dev" || bm.Content != "" {
		t.Errorf("bookmark = %+v", bm)
	}

	img := byName["Scan"]
	if !img.Trashed || img.FileName != "Scan.png" || img.Size != 4 || img.ContentType != "image/png" {
		t.Errorf("image = %+v", img)
	}
	data, err := GetAttachmentData(db, img.ID)
	if err != nil {
		t.Fatalf("GetAttachmentData failed: %v", err)
	}
	if !bytes.Equal(data, []byte{0x89, 'P', 'N', 'G'}) {
		t.Errorf("attachment data = %x", data)
	}

	pw := byName["Router"]
	if pw.Content != "hunter2" || pw.ContentFormat != model.ContentPlain || len(pw.Labels) != 0 {
		t.Errorf("password = %+v", pw)
	}
}

func TestImportRecordsIsIdempotent(t *testing.T) {
	records := sampleRecords()
	db, _ := mustImport(t, records, 50)

	records[0].Content = "eggs"
	stats, err := ImportRecords(db, records, nil, 50)
	if err != nil {
		t.Fatalf("second ImportRecords failed: %v", err)
	}
	if stats.Inserted != 0 || stats.Updated != 4 || stats.Labeled != 0 {
		t.Errorf("stats = %+v, want 0 inserted, 4 updated, 0 labeled", stats)
	}

	count, err := CountItems(db)
	if err != nil {
		t.Fatalf("CountItems failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d, want 4", count)
	}

	items, _, err := ListItems(db, ListOptions{Types: []string{"note"}})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 || items[0].Content != "<p>eggs</p>" {
		t.Errorf("note after re-import = %+v", items)
	}
}

func TestImportRecordsRefreshesFlags(t *testing.T) {
	created := time.Date(2022, 1, 2, 3, 4, 5, 0, time.UTC)
	first := []*model.Record{
		{Name: "N", Type: model.KindNote, Content: "draft", CreatedAt: created, UpdatedAt: created},
	}
	db, _ := mustImport(t, first, 50)

	later := created.Add(48 * time.Hour)
	second := []*model.Record{
		{Name: "N", Type: model.KindNote, Content: "final", Flagged: true, Trashed: true, CreatedAt: created, UpdatedAt: later},
	}
	stats, err := ImportRecords(db, second, nil, 50)
	if err != nil {
		t.Fatalf("second ImportRecords failed: %v", err)
	}
	if stats.Inserted != 0 || stats.Updated != 1 {
		t.Errorf("stats = %+v, want 0 inserted, 1 updated", stats)
	}

	items, _, err := ListItems(db, ListOptions{IncludeTrashed: true})
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	it := items[0]
	if !it.Flagged || !it.Trashed {
		t.Errorf("flagged = %v, trashed = %v; want both true", it.Flagged, it.Trashed)
	}
	if !it.UpdatedAt.Equal(later) {
		t.Errorf("updated_at = %v, want %v", it.UpdatedAt, later)
	}
	if it.Content != "<p>final</p>" {
		t.Errorf("content = %q", it.Content)
	}
}

func TestImportRecordsSkipsEncrypted(t *testing.T) {
	records := []*model.Record{
		{Name: "secret", Type: model.KindNote, Encrypted: true, CreatedAt: time.Unix(0, 0), UpdatedAt: time.Unix(0, 0)},
	}
	db, stats := mustImport(t, records, 0)
	if stats.Inserted != 0 || stats.Batches != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if n, _ := CountItems(db); n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
}

func TestListItemsFilters(t *testing.T) {
	db, _ := mustImport(t, sampleRecords(), 10)

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"default excludes trashed", ListOptions{Sort: "name", SortDir: "asc"}, []string{"Docs", "Groceries", "Router"}},
		{"type filter", ListOptions{Types: []string{"bookmark", "password"}, Sort: "name", SortDir: "asc"}, []string{"Docs", "Router"}},
		{"label filter", ListOptions{Labels: []string{"Work"}}, []string{"Docs"}},
		{"label and filter", ListOptions{Labels: []string{"Work", "Home"}}, nil},
		{"trashed", ListOptions{IncludeTrashed: true, Types: []string{"image"}}, []string{"Scan"}},
		{"default sort updated desc", ListOptions{}, []string{"Groceries", "Docs", "Router"}},
		{"limit offset", ListOptions{Sort: "name", SortDir: "asc", Limit: 1, Offset: 1}, []string{"Groceries"}},
		{"bad sort falls back", ListOptions{Sort: "name; DROP TABLE items"}, []string{"Groceries", "Docs", "Router"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, _, err := ListItems(db, tt.opts)
			if err != nil {
				t.Fatalf("ListItems failed: %v", err)
			}
			var got []string
			for _, it := range items {
				got = append(got, it.Name)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountsAndClear(t *testing.T) {
	db, _ := mustImport(t, sampleRecords(), 2)

	byType, err := CountByType(db)
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	if byType["note"] != 1 || byType["image"] != 1 || byType["pdf"] != 0 {
		t.Errorf("byType = %v", byType)
	}
	if n, _ := CountTrashed(db); n != 1 {
		t.Errorf("trashed = %d, want 1", n)
	}
	if n, _ := AttachmentBytes(db); n != 4 {
		t.Errorf("attachment bytes = %d, want 4", n)
	}

	if err := ClearAllData(db); err != nil {
		t.Fatalf("ClearAllData failed: %v", err)
	}
	if n, _ := CountItems(db); n != 0 {
		t.Errorf("count after clear = %d", n)
	}
	labels, _ := ListAllLabels(db)
	if len(labels) != 0 {
		t.Errorf("labels after clear = %d", len(labels))
	}
	if v, err := SchemaVersion(db); err != nil || v != currentSchemaVersion {
		t.Errorf("schema version after clear = %d, %v", v, err)
	}
}
