package obby

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"path"
	"time"
)

// Interface compliance.
var (
	_ fs.FS         = (*Archive)(nil)
	_ fs.StatFS     = (*Archive)(nil)
	_ fs.ReadFileFS = (*Archive)(nil)
)

// Open implements fs.FS.
//
// The named entry is extracted fully into memory and returned as an
// fs.File; the format has no streaming read. The facade exposes the flat
// entry names as stored in the table and synthesizes no directories.
// Missing names fail with fs.ErrNotExist.
func (a *Archive) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	entry, ok := a.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	data, err := a.ExtractEntry(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &entryFile{Reader: *bytes.NewReader(data), entry: entry, size: int64(len(data))}, nil
}

// Stat implements fs.StatFS.
//
// Stat performs no I/O; the reported size is the entry's declared
// uncompressed size, which the format does not guarantee to match the
// decoded content.
func (a *Archive) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	entry, ok := a.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return entryInfo{entry: entry, size: int64(entry.OriginalSize)}, nil
}

// ReadFile implements fs.ReadFileFS.
//
// ReadFile is ExtractEntry behind the fs error conventions: a missing
// name fails with fs.ErrNotExist instead of ErrEntryNotFound.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	data, err := a.ExtractEntry(name)
	if errors.Is(err, ErrEntryNotFound) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	return data, err
}

// entryFile is an fs.File over an entry's decoded content.
type entryFile struct {
	bytes.Reader
	entry Entry
	size  int64
}

func (f *entryFile) Stat() (fs.FileInfo, error) {
	return entryInfo{entry: f.entry, size: f.size}, nil
}

func (f *entryFile) Close() error {
	return nil
}

// entryInfo is the fs.FileInfo for an archive entry. The format records
// no mode or modification time.
type entryInfo struct {
	entry Entry
	size  int64
}

func (i entryInfo) Name() string       { return path.Base(i.entry.Name) }
func (i entryInfo) Size() int64        { return i.size }
func (i entryInfo) Mode() fs.FileMode  { return 0o444 }
func (i entryInfo) ModTime() time.Time { return time.Time{} }
func (i entryInfo) IsDir() bool        { return false }
func (i entryInfo) Sys() any           { return nil }

// Interface compliance for entryFile.
var _ io.ReadSeeker = (*entryFile)(nil)
