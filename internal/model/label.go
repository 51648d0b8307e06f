package model

// Label is a label from the source archive's label table.
type Label struct {
	Name         string `json:"name"`
	DisplayIndex int    `json:"display_index"`
}

// LabelWithCount extends Label with the number of library items using it.
type LabelWithCount struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	Count int    `json:"item_count"`
}

// LabelColors is the palette assigned to labels by display index.
var LabelColors = []string{
	"#3b82f6", "#10b981", "#ef4444", "#f59e0b", "#8b5cf6",
	"#ec4899", "#06b6d4", "#84cc16", "#f97316", "#6366f1",
}

// LabelColor returns the palette color for a label display index.
func LabelColor(index int) string {
	if index < 0 {
		index = -index
	}
	return LabelColors[index%len(LabelColors)]
}
