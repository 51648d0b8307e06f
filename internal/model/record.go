package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for record timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Hints holds the optional type-hint columns of a source item row. The
// source application populates them inconsistently across versions.
type Hints struct {
	URL          string
	SourceURL    string
	Location     string
	Account      string
	SerialNumber string
	OwnerName    string
	OwnerEmail   string
	Organization string
}

// RawItemRow is one row of the source item table joined with its blob.
type RawItemRow struct {
	PK         int64
	EntityCode int64
	Name       string
	Encrypted  bool
	Flagged    bool
	Trashed    bool
	LabelPK    *int64
	Created    *float64
	Modified   *float64
	Hints      Hints
	StringRep  string
	Blob       []byte
}

// Attachment is the binary payload of an image or pdf record.
type Attachment struct {
	FileName    string
	ContentType string
	Format      FileFormat
	Data        []byte
}

// Record is a normalized record decoded from the source archive.
type Record struct {
	Name       string
	Type       Kind
	Content    string
	Flagged    bool
	Trashed    bool
	Encrypted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LabelName  *string
	Hints      Hints
	Attachment *Attachment
}

// LabelOrEmpty returns the label name or the empty string.
func (r *Record) LabelOrEmpty() string {
	if r.LabelName == nil {
		return ""
	}
	return *r.LabelName
}

// recordJSON is the JSON wire format for Record.
type recordJSON struct {
	Name         string  `json:"name"`
	Type         Kind    `json:"type"`
	Content      string  `json:"content"`
	IsFlagged    bool    `json:"is_flagged"`
	IsTrashed    bool    `json:"is_trashed"`
	IsEncrypted  bool    `json:"is_encrypted"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
	LabelName    *string `json:"label_name"`
	URL          string  `json:"url,omitempty"`
	SourceURL    string  `json:"source_url,omitempty"`
	Location     string  `json:"location,omitempty"`
	Account      string  `json:"account,omitempty"`
	SerialNumber string  `json:"serial_number,omitempty"`
	OwnerName    string  `json:"owner_name,omitempty"`
	OwnerEmail   string  `json:"owner_email,omitempty"`
	Organization string  `json:"organization,omitempty"`
	FileData     []byte  `json:"file_data,omitempty"`
	FileName     string  `json:"file_name,omitempty"`
	ContentType  string  `json:"content_type,omitempty"`
}

// MarshalJSON implements custom JSON serialization for Record.
func (r Record) MarshalJSON() ([]byte, error) {
	j := recordJSON{
		Name:         r.Name,
		Type:         r.Type,
		Content:      r.Content,
		IsFlagged:    r.Flagged,
		IsTrashed:    r.Trashed,
		IsEncrypted:  r.Encrypted,
		CreatedAt:    FormatTimestamp(r.CreatedAt),
		UpdatedAt:    FormatTimestamp(r.UpdatedAt),
		LabelName:    r.LabelName,
		URL:          r.Hints.URL,
		SourceURL:    r.Hints.SourceURL,
		Location:     r.Hints.Location,
		Account:      r.Hints.Account,
		SerialNumber: r.Hints.SerialNumber,
		OwnerName:    r.Hints.OwnerName,
		OwnerEmail:   r.Hints.OwnerEmail,
		Organization: r.Hints.Organization,
	}
	if r.Attachment != nil {
		j.FileData = r.Attachment.Data
		j.FileName = r.Attachment.FileName
		j.ContentType = r.Attachment.ContentType
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements custom JSON deserialization for Record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var j recordJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if err := ValidateKind(j.Type); err != nil {
		return err
	}

	createdAt, err := time.Parse(TimestampLayout, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	updatedAt, err := time.Parse(TimestampLayout, j.UpdatedAt)
	if err != nil {
		return fmt.Errorf("parsing updated_at: %w", err)
	}

	*r = Record{
		Name:      j.Name,
		Type:      j.Type,
		Content:   j.Content,
		Flagged:   j.IsFlagged,
		Trashed:   j.IsTrashed,
		Encrypted: j.IsEncrypted,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		LabelName: j.LabelName,
		Hints: Hints{
			URL:          j.URL,
			SourceURL:    j.SourceURL,
			Location:     j.Location,
			Account:      j.Account,
			SerialNumber: j.SerialNumber,
			OwnerName:    j.OwnerName,
			OwnerEmail:   j.OwnerEmail,
			Organization: j.Organization,
		},
	}
	if j.FileData != nil {
		r.Attachment = &Attachment{
			FileName:    j.FileName,
			ContentType: j.ContentType,
			Format:      FileFormat(extensionOf(j.FileName)),
			Data:        j.FileData,
		}
	}
	return nil
}

func extensionOf(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
		if name[i] == '/' {
			break
		}
	}
	return ""
}
