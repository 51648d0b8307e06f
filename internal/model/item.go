package model

import (
	"encoding/json"
	"time"
)

// ContentFormat describes how an item's content column is encoded.
type ContentFormat string

const (
	ContentPlain ContentFormat = "plain"
	ContentHTML  ContentFormat = "html"
)

// Item is a record persisted in the local library.
type Item struct {
	ID            int
	Name          string
	Type          Kind
	Content       string
	ContentFormat ContentFormat
	Flagged       bool
	Trashed       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Hints         Hints
	Labels        []string
	FileName      string
	ContentType   string
	Size          int64
}

type itemJSON struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Type          Kind          `json:"type"`
	Content       string        `json:"content,omitempty"`
	ContentFormat ContentFormat `json:"content_format"`
	Flagged       bool          `json:"is_flagged"`
	Trashed       bool          `json:"is_trashed"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	URL           string        `json:"url,omitempty"`
	Location      string        `json:"location,omitempty"`
	Account       string        `json:"account,omitempty"`
	SerialNumber  string        `json:"serial_number,omitempty"`
	Labels        []string      `json:"labels"`
	FileName      string        `json:"file_name,omitempty"`
	ContentType   string        `json:"content_type,omitempty"`
	Size          int64         `json:"size,omitempty"`
}

// MarshalJSON implements json.Marshaler. Payload bytes are never included.
func (i Item) MarshalJSON() ([]byte, error) {
	labels := i.Labels
	if labels == nil {
		labels = []string{}
	}
	return json.Marshal(itemJSON{
		ID:            i.ID,
		Name:          i.Name,
		Type:          i.Type,
		Content:       i.Content,
		ContentFormat: i.ContentFormat,
		Flagged:       i.Flagged,
		Trashed:       i.Trashed,
		CreatedAt:     FormatTimestamp(i.CreatedAt),
		UpdatedAt:     FormatTimestamp(i.UpdatedAt),
		URL:           i.Hints.URL,
		Location:      i.Hints.Location,
		Account:       i.Hints.Account,
		SerialNumber:  i.Hints.SerialNumber,
		Labels:        labels,
		FileName:      i.FileName,
		ContentType:   i.ContentType,
		Size:          i.Size,
	})
}

// LibraryStats summarizes the contents of the local library.
type LibraryStats struct {
	Items           int          `json:"items"`
	Trashed         int          `json:"trashed"`
	Labels          int          `json:"labels"`
	AttachmentBytes int64        `json:"attachment_bytes"`
	ByType          map[Kind]int `json:"by_type"`
}
