package render

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

type field struct {
	name, value string
}

// recordFields lists the populated metadata of a record in display order.
func recordFields(r *model.Record) []field {
	fields := []field{{"Type", kindLabel(r.Type)}}
	if r.LabelName != nil {
		fields = append(fields, field{"Label", *r.LabelName})
	}
	if f := flags(Row{Flagged: r.Flagged, Trashed: r.Trashed}); f != "" {
		fields = append(fields, field{"Flags", f})
	}

	hints := []field{
		{"URL", r.Hints.URL},
		{"Source", r.Hints.SourceURL},
		{"Location", r.Hints.Location},
		{"Account", r.Hints.Account},
		{"Serial", r.Hints.SerialNumber},
		{"Owner", r.Hints.OwnerName},
		{"Email", r.Hints.OwnerEmail},
		{"Organization", r.Hints.Organization},
	}
	for _, h := range hints {
		if h.value != "" {
			fields = append(fields, h)
		}
	}

	if att := r.Attachment; att != nil {
		fields = append(fields, field{"File", fmt.Sprintf("%s (%s, %s)",
			att.FileName, att.ContentType, humanize.Bytes(uint64(len(att.Data))))})
	}

	fields = append(fields,
		field{"Created", model.FormatTimestamp(r.CreatedAt) + " (" + humanize.Time(r.CreatedAt) + ")"},
		field{"Updated", model.FormatTimestamp(r.UpdatedAt) + " (" + humanize.Time(r.UpdatedAt) + ")"},
	)
	return fields
}

// RenderRecordDetail renders a full view of one decoded record: header,
// metadata, and the salvaged content rendered as markdown.
func RenderRecordDetail(r *model.Record) string {
	if !ColorsEnabled() {
		return renderPlainDetail(r)
	}

	kindStyle := lipgloss.NewStyle().Foreground(ColorFromName(r.Type.Color())).Bold(true)
	titleStyle := lipgloss.NewStyle().Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))

	sections := []string{
		fmt.Sprintf("%s  %s", kindStyle.Render(r.Type.Icon()), titleStyle.Render(r.Name)),
	}

	var lines []string
	for _, f := range recordFields(r) {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(f.name+":"), f.value))
	}
	sections = append(sections, strings.Join(lines, "\n"))

	if r.Content != "" {
		rendered, err := RenderMarkdown(r.Content)
		if err != nil {
			rendered = r.Content
		}
		sections = append(sections, sectionStyle.Render("Content")+"\n"+rendered)
	}

	return strings.Join(sections, "\n\n")
}

// renderPlainDetail renders a detail view without any color or styling.
func renderPlainDetail(r *model.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n\n", r.Type.Icon(), r.Name)
	for _, f := range recordFields(r) {
		fmt.Fprintf(&b, "%s: %s\n", f.name, f.value)
	}
	if r.Content != "" {
		fmt.Fprintf(&b, "\nContent\n%s\n", r.Content)
	}

	return b.String()
}
