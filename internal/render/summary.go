package render

import (
	"fmt"
	"strings"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/ALT-F4-LLC/salvage/internal/model"
)

const maxBarWidth = 30

// formatBar renders a proportional bar like "▰▰▰▱▱".
func formatBar(n, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := (n * width) / total
	if n > 0 && filled == 0 {
		filled = 1
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

// kindCounts renders one line per kind present in counts, in KindOrder.
func kindCounts(counts map[model.Kind]int, total int) []string {
	barWidth := min(max(terminalWidth()-40, 10), maxBarWidth)
	var lines []string
	for _, k := range model.KindOrder {
		n := counts[k]
		if n == 0 {
			continue
		}
		label := fmt.Sprintf("%-16s %6d", kindLabel(k), n)
		if !ColorsEnabled() {
			lines = append(lines, label)
			continue
		}
		bar := lipgloss.NewStyle().Foreground(ColorFromName(k.Color())).Render(formatBar(n, total, barWidth))
		lines = append(lines, label+"  "+bar)
	}
	return lines
}

// RenderSummary renders the counters of a decode run.
func RenderSummary(s model.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%d rows: %d imported, %d encrypted\n", s.Total, s.Imported, s.Encrypted)
	for _, line := range kindCounts(s.ByType, s.Imported) {
		fmt.Fprintf(&b, "  %s\n", line)
	}

	var degraded []string
	if s.DanglingRefs > 0 {
		degraded = append(degraded, fmt.Sprintf("%d dangling file references", s.DanglingRefs))
	}
	if s.UnreadableBlobs > 0 {
		degraded = append(degraded, fmt.Sprintf("%d unreadable blobs", s.UnreadableBlobs))
	}
	if len(degraded) > 0 {
		msg := "degraded: " + strings.Join(degraded, ", ")
		b.WriteString(StyledText(msg, lipgloss.NewStyle().Foreground(lipgloss.Color("11"))))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderStats renders library totals.
func RenderStats(s model.LibraryStats) string {
	if s.Items == 0 {
		return EmptyState("The library is empty.", "Import a backup with: salvage import <archive>", false)
	}

	var b strings.Builder
	header := fmt.Sprintf("%d items, %d labels, %s of attachments", s.Items, s.Labels, humanize.Bytes(uint64(s.AttachmentBytes)))
	b.WriteString(StyledText(header, lipgloss.NewStyle().Bold(true)))
	b.WriteString("\n")
	for _, line := range kindCounts(s.ByType, s.Items) {
		fmt.Fprintf(&b, "  %s\n", line)
	}
	if s.Trashed > 0 {
		fmt.Fprintf(&b, "%s in trash\n", humanize.Comma(int64(s.Trashed)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderLabelTree renders the archive's labels as a tree under the archive
// name, with the number of decoded records carrying each label.
func RenderLabelTree(root string, labels []model.Label, counts map[string]int) string {
	if len(labels) == 0 {
		return EmptyState("No labels found.", "", false)
	}

	t := tree.New().Root(root)
	for _, l := range labels {
		text := fmt.Sprintf("%s (%d)", l.Name, counts[l.Name])
		if ColorsEnabled() {
			color := ColorFromName(model.LabelColor(l.DisplayIndex))
			text = lipgloss.NewStyle().Foreground(color).Render(l.Name) +
				lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(fmt.Sprintf(" (%d)", counts[l.Name]))
		}
		t.Child(text)
	}
	return t.String()
}

// RenderLibraryLabels renders the library's labels with their colors and counts.
func RenderLibraryLabels(labels []*model.LabelWithCount) string {
	if len(labels) == 0 {
		return EmptyState("No labels in the library.", "Import a backup with: salvage import <archive>", false)
	}

	var b strings.Builder
	for _, l := range labels {
		name := l.Name
		if ColorsEnabled() && l.Color != "" {
			name = lipgloss.NewStyle().Foreground(ColorFromName(l.Color)).Render("● " + l.Name)
		}
		fmt.Fprintf(&b, "%s  %d\n", name, l.Count)
	}
	return strings.TrimRight(b.String(), "\n")
}
