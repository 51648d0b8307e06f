// Package archive reads members out of an in-memory ZIP container.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// ErrNotAZip is returned when the input is not a readable ZIP archive.
var ErrNotAZip = errors.New("not a zip archive")

// ErrMemberNotFound is returned when a requested member does not exist.
var ErrMemberNotFound = errors.New("archive member not found")

// resourceForkPrefix marks AppleDouble sidecar entries written by the
// source OS. They carry file metadata, never user data.
const resourceForkPrefix = "._"

const resourceForkDir = "__MACOSX/"

// Archive is an opened ZIP container. Member contents are only
// decompressed when requested.
type Archive struct {
	files map[string]*zip.File
	names []string
}

// Open parses data as a ZIP archive and indexes its members.
func Open(data []byte) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAZip, err)
	}

	a := &Archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		if IsResourceFork(f.Name) {
			continue
		}
		if _, dup := a.files[f.Name]; dup {
			continue
		}
		a.files[f.Name] = f
		a.names = append(a.names, f.Name)
	}
	sort.Strings(a.names)

	return a, nil
}

// IsResourceFork reports whether name is an AppleDouble sidecar entry.
func IsResourceFork(name string) bool {
	if strings.HasPrefix(name, resourceForkDir) || strings.Contains(name, "/"+resourceForkDir) {
		return true
	}
	return strings.HasPrefix(path.Base(name), resourceForkPrefix)
}

// Members returns the sorted paths of every user-data file in the archive.
func (a *Archive) Members() []string {
	out := make([]string, len(a.names))
	copy(out, a.names)
	return out
}

// Size returns the uncompressed size of the named member.
func (a *Archive) Size(name string) (uint64, error) {
	f, ok := a.files[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}
	return f.UncompressedSize64, nil
}

// ReadMember decompresses and returns the full contents of the named member.
// It is safe to call concurrently.
func (a *Archive) ReadMember(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, name)
	}

	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening member %q: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading member %q: %w", name, err)
	}
	return data, nil
}
