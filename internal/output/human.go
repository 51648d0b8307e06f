package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ALT-F4-LLC/salvage/internal/render"
)

// notice describes how one class of human-mode line is decorated.
type notice struct {
	icon  string
	label string
	color lipgloss.Color
	bold  bool
	dim   bool
}

var (
	successNotice = notice{icon: "✔", color: "2"}
	infoNotice    = notice{icon: "ℹ", color: "8", dim: true}
	warnNotice    = notice{icon: "⚠", label: "Warning:", color: "3", bold: true}
	errorNotice   = notice{icon: "✘", label: "Error:", color: "1", bold: true}
)

// line formats msg for n. Without colors only the label is kept.
func (n notice) line(msg string) string {
	if !render.ColorsEnabled() {
		if n.label == "" {
			return msg
		}
		return n.label + " " + msg
	}

	style := lipgloss.NewStyle().Foreground(n.color).Bold(n.bold)
	parts := []string{style.Render(n.icon)}
	if n.label != "" {
		parts = append(parts, style.Render(n.label))
	}
	if n.dim {
		msg = style.Render(msg)
	}
	return strings.Join(append(parts, msg), " ")
}

func (n notice) write(w io.Writer, msg string) {
	fmt.Fprintln(w, n.line(msg))
}

// writeHumanSuccess prints message to w. Multi-line output such as tables
// and detail views is printed untouched.
func writeHumanSuccess(w io.Writer, message string) {
	switch {
	case message == "":
	case strings.Contains(message, "\n"):
		fmt.Fprintln(w, message)
	default:
		successNotice.write(w, message)
	}
}

func writeHumanError(w io.Writer, err error) {
	errorNotice.write(w, err.Error())
}
