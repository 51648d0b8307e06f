package filter

import (
	"fmt"
	"testing"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

func strPtr(s string) *string { return &s }

func names(records []*model.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestToStringSet(t *testing.T) {
	if ToStringSet(nil) != nil {
		t.Error("ToStringSet(nil) should be nil")
	}
	set := ToStringSet([]string{"a", "b", "a"})
	if len(set) != 2 {
		t.Errorf("len = %d, want 2", len(set))
	}
}

func TestRecords(t *testing.T) {
	records := []*model.Record{
		{Name: "a", Type: model.KindNote, LabelName: strPtr("Home")},
		{Name: "b", Type: model.KindBookmark, LabelName: strPtr("Work")},
		{Name: "c", Type: model.KindNote, Trashed: true},
		{Name: "d", Type: model.KindImage},
	}

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"default hides trashed", Options{}, "[a b d]"},
		{"include trashed", Options{IncludeTrashed: true}, "[a b c d]"},
		{"types", Options{Types: []string{"note", "image"}}, "[a d]"},
		{"labels", Options{Labels: []string{"Work"}}, "[b]"},
		{"types and labels", Options{Types: []string{"note"}, Labels: []string{"Work"}}, "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Records(records, tt.opts))
			if s := fmt.Sprint(got); s != tt.want {
				t.Errorf("got %s, want %s", s, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if err := (Options{Types: []string{"note", "pdf"}}).Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if err := (Options{Types: []string{"web_archive"}}).Validate(); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestFindByName(t *testing.T) {
	records := []*model.Record{{Name: "x"}, {Name: "y"}, {Name: "x"}}
	if got := FindByName(records, "x"); len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
	if got := FindByName(records, "z"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
