package obby

import (
	"errors"

	"github.com/0xnim/obsidian-lib/internal/decode"
	"github.com/0xnim/obsidian-lib/internal/format"
)

// Re-export types from internal/format for public API.
type (
	// Entry describes one file packaged in the archive.
	Entry = format.Entry

	// Metadata holds the header fields that precede the entry table.
	Metadata = format.Metadata
)

// Sentinel errors re-exported from internal packages.
var (
	// ErrInvalidHeader is returned when the magic tag does not match or a
	// count/size field is negative.
	ErrInvalidHeader = format.ErrInvalidHeader

	// ErrTruncated is returned when the source ends in the middle of a
	// field or an entry's stored bytes.
	ErrTruncated = decode.ErrTruncated
)

// Sentinel errors specific to extraction.
var (
	// ErrEntryNotFound is returned when a name is absent from the table.
	ErrEntryNotFound = errors.New("obby: entry not found")

	// ErrCorruptData is returned when a compressed entry's deflate stream
	// is malformed.
	ErrCorruptData = errors.New("obby: corrupt compressed data")

	// ErrInvalidEncoding is returned by the strict text conveniences when
	// an entry expected to be UTF-8 is not.
	ErrInvalidEncoding = errors.New("obby: invalid utf-8")
)
