// Package resolve maps file-reference UUIDs to archive members and
// identifies the referenced payloads.
package resolve

import (
	"path"

	"github.com/ALT-F4-LLC/salvage/internal/archive"
	"github.com/ALT-F4-LLC/salvage/internal/blob"
	"github.com/ALT-F4-LLC/salvage/internal/model"
)

// FileIndex maps an uppercased UUID to the archive member holding its
// payload. It is read-only after BuildIndex returns.
type FileIndex map[string]string

// BuildIndex scans every member name for a base name that is exactly a
// UUID.
func BuildIndex(a *archive.Archive) FileIndex {
	idx := make(FileIndex)
	for _, name := range a.Members() {
		if id, ok := blob.CanonicalUUID(path.Base(name)); ok {
			idx[id] = name
		}
	}
	return idx
}

// Payload is a resolved file reference.
type Payload struct {
	Path   string
	Format model.FileFormat
	Data   []byte
}

// Attachment builds the record attachment for a payload owned by a record
// with the given name.
func (p *Payload) Attachment(recordName string) *model.Attachment {
	fileName := FileName(recordName, p.Format)
	return &model.Attachment{
		FileName:    fileName,
		ContentType: ContentType(fileName),
		Format:      p.Format,
		Data:        p.Data,
	}
}

// Resolver reads referenced payloads out of an archive.
type Resolver struct {
	archive *archive.Archive
	index   FileIndex
}

// New returns a Resolver over a and its prebuilt index.
func New(a *archive.Archive, idx FileIndex) *Resolver {
	return &Resolver{archive: a, index: idx}
}

// Resolve reads and sniffs the payload for id. It reports false when the
// reference is dangling or the member cannot be read. Safe for concurrent
// use.
func (r *Resolver) Resolve(id string) (*Payload, bool) {
	key, ok := blob.CanonicalUUID(id)
	if !ok {
		return nil, false
	}
	p, ok := r.index[key]
	if !ok {
		return nil, false
	}

	data, err := r.archive.ReadMember(p)
	if err != nil {
		return nil, false
	}

	return &Payload{Path: p, Format: Sniff(data), Data: data}, true
}
