package render

import (
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

const (
	minNameWidth     = 20
	maxNameWidth     = 60
	defaultTermWidth = 100
	fixedColumnWidth = 60 // type, label, payload, flags, updated, borders
	maxWrapWidth     = 100
)

// StyledText applies a lipgloss style to text when colors are enabled.
// When colors are disabled, it returns the plain text unchanged.
func StyledText(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// ColorFromName maps model color name strings to lipgloss colors.
// Hex colors such as label palette entries pass through unchanged.
func ColorFromName(name string) lipgloss.Color {
	switch name {
	case "red":
		return lipgloss.Color("9")
	case "yellow":
		return lipgloss.Color("11")
	case "blue":
		return lipgloss.Color("12")
	case "green":
		return lipgloss.Color("10")
	case "magenta":
		return lipgloss.Color("13")
	case "gray":
		return lipgloss.Color("8")
	case "white":
		return lipgloss.Color("15")
	}
	if strings.HasPrefix(name, "#") {
		return lipgloss.Color(name)
	}
	return lipgloss.Color("15")
}

// truncate shortens a string to maxLen runes, appending an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// terminalWidth returns the current terminal width, falling back to a default.
func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

// nameWidth sizes the name column to the terminal.
func nameWidth() int {
	return min(max(terminalWidth()-fixedColumnWidth, minNameWidth), maxNameWidth)
}

// kindLabel returns a kind string with icon, e.g. "★ bookmark".
func kindLabel(k model.Kind) string {
	return k.Icon() + " " + string(k)
}

// EmptyState renders a styled empty-state message with an optional contextual hint.
// When colors are enabled the message is rendered in dim gray and the hint is italic.
// When quiet is true the hint is suppressed.
func EmptyState(message, hint string, quiet bool) string {
	if !ColorsEnabled() {
		if quiet || hint == "" {
			return message
		}
		return message + "\n" + hint
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	result := dimStyle.Render(message)
	if !quiet && hint != "" {
		result += "\n" + hintStyle.Render(hint)
	}
	return result
}

// Row is one line of a record listing. Decoded records and library items
// both render through it.
type Row struct {
	Type    model.Kind
	Name    string
	Label   string
	Size    int64
	Flagged bool
	Trashed bool
	Updated time.Time
}

// RecordRows converts decoded records to table rows.
func RecordRows(records []*model.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			Type:    r.Type,
			Name:    r.Name,
			Label:   r.LabelOrEmpty(),
			Flagged: r.Flagged,
			Trashed: r.Trashed,
			Updated: r.UpdatedAt,
		}
		if r.Attachment != nil {
			row.Size = int64(len(r.Attachment.Data))
		}
		rows = append(rows, row)
	}
	return rows
}

// ItemRows converts library items to table rows.
func ItemRows(items []*model.Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			Type:    it.Type,
			Name:    it.Name,
			Label:   strings.Join(it.Labels, ", "),
			Size:    it.Size,
			Flagged: it.Flagged,
			Trashed: it.Trashed,
			Updated: it.UpdatedAt,
		})
	}
	return rows
}

func flags(r Row) string {
	var f []string
	if r.Flagged {
		f = append(f, "⚑")
	}
	if r.Trashed {
		f = append(f, "trashed")
	}
	return strings.Join(f, " ")
}

func payload(r Row) string {
	if r.Size == 0 {
		return ""
	}
	return humanize.Bytes(uint64(r.Size))
}

// RenderTable renders rows as a formatted table.
func RenderTable(rows []Row) string {
	if len(rows) == 0 {
		return EmptyState("No records found.", "Decode a backup with: salvage list <archive>", false)
	}

	if !ColorsEnabled() {
		return renderPlainTable(rows)
	}

	width := nameWidth()
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			kindLabel(r.Type),
			truncate(r.Name, width),
			truncate(r.Label, 20),
			payload(r),
			flags(r),
			humanize.Time(r.Updated),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers("Type", "Name", "Label", "Payload", "Flags", "Updated").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)

			if row == table.HeaderRow {
				return s.Bold(true).Foreground(lipgloss.Color("15"))
			}

			if row < 0 || row >= len(rows) {
				return s
			}

			switch col {
			case 0: // Type
				return s.Foreground(ColorFromName(rows[row].Type.Color()))
			case 1: // Name
				return s.Bold(true)
			case 2, 3, 5:
				return s.Foreground(lipgloss.Color("8"))
			case 4: // Flags
				return s.Foreground(lipgloss.Color("11"))
			default:
				return s
			}
		})

	return t.Render()
}

func renderPlainTable(rows []Row) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%-16s %-40s %-20s %-10s %-10s %s\n",
		"Type", "Name", "Label", "Payload", "Flags", "Updated")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 110))

	for _, r := range rows {
		fmt.Fprintf(&b, "%-16s %-40s %-20s %-10s %-10s %s\n",
			kindLabel(r.Type),
			truncate(r.Name, 40),
			truncate(r.Label, 20),
			payload(r),
			flags(r),
			humanize.Time(r.Updated),
		)
	}

	return b.String()
}
