package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
)

// ColorsEnabled reports whether styled output is allowed. NO_COLOR (any
// value, even empty) and TERM=dumb turn it off.
func ColorsEnabled() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}

// noteMarkdown turns plain note text into markdown that keeps its line
// structure: single newlines become hard breaks.
func noteMarkdown(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	for i, l := range lines {
		if i+1 < len(lines) && l != "" && lines[i+1] != "" {
			lines[i] = strings.TrimRight(l, " ") + "  "
		}
	}
	return strings.Join(lines, "\n")
}

// RenderMarkdown renders note content for the terminal, wrapped to its
// width. Without colors the content is returned as is.
func RenderMarkdown(content string) (string, error) {
	if content == "" || !ColorsEnabled() {
		return content, nil
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithEnvironmentConfig(),
		glamour.WithWordWrap(min(terminalWidth(), maxWrapWidth)),
	)
	if err != nil {
		return content, err
	}
	out, err := r.Render(noteMarkdown(content))
	if err != nil {
		return content, err
	}
	return strings.TrimSpace(out), nil
}
