package obby

import (
	"fmt"
	"os"
)

// ArchiveFile wraps an Archive with its underlying file handle.
// Close must be called to release the file.
type ArchiveFile struct {
	*Archive
	file *os.File
}

// Close closes the underlying file.
func (af *ArchiveFile) Close() error {
	if af.file == nil {
		return nil
	}
	err := af.file.Close()
	af.file = nil
	return err
}

// Open opens a .obby archive from a path.
//
// The file is opened for random access and parsed immediately. The
// returned ArchiveFile must be closed to release the file handle.
func Open(path string, opts ...Option) (*ArchiveFile, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	a, err := New(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &ArchiveFile{
		Archive: a,
		file:    f,
	}, nil
}
