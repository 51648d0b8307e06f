package model

// Summary counts the outcome of a decode run.
type Summary struct {
	Total           int          `json:"total"`
	Imported        int          `json:"imported"`
	Encrypted       int          `json:"encrypted"`
	ByType          map[Kind]int `json:"byType"`
	DanglingRefs    int          `json:"dangling_refs"`
	UnreadableBlobs int          `json:"unreadable_blobs"`
}

// Result is the complete output of a decode run.
type Result struct {
	Records []*Record `json:"items"`
	Labels  []Label   `json:"labels"`
	Summary Summary   `json:"summary"`
}

// NewSummary computes a Summary from the importable records and the number
// of rows skipped because they were encrypted.
func NewSummary(records []*Record, encrypted, dangling, unreadable int) Summary {
	byType := make(map[Kind]int)
	for _, r := range records {
		byType[r.Type]++
	}
	return Summary{
		Total:           len(records) + encrypted,
		Imported:        len(records),
		Encrypted:       encrypted,
		ByType:          byType,
		DanglingRefs:    dangling,
		UnreadableBlobs: unreadable,
	}
}
