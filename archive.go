package obby

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"log/slog"

	"github.com/klauspost/compress/flate"

	"github.com/0xnim/obsidian-lib/internal/decode"
	"github.com/0xnim/obsidian-lib/internal/format"
)

// Archive provides random access to the entries of one .obby container.
//
// Construction parses the header and entry table eagerly in a single
// forward pass; afterwards the table is immutable. The Archive owns the
// seek position of its source for its whole lifetime, so it must not be
// shared across goroutines without external locking.
type Archive struct {
	src          io.ReadSeeker
	entries      map[string]Entry
	table        []Entry
	meta         Metadata
	payloadStart int64
	logger       *slog.Logger
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// New creates an Archive from any seekable byte source.
//
// New consumes the header/metadata/entry-table region of src and records
// the position where entry payloads begin. The source must stay open for
// the Archive's lifetime; New takes exclusive use of its seek position.
//
// A source whose first four bytes are not the magic tag fails with
// ErrInvalidHeader; a source that ends mid-field fails with ErrTruncated.
// There is no partial result: on error the source's position is
// unspecified and no Archive is returned.
func New(src io.ReadSeeker, opts ...Option) (*Archive, error) {
	table, err := format.Parse(decode.NewReader(src))
	if err != nil {
		return nil, err
	}

	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("locate payload region: %w", err)
	}

	a := &Archive{
		src:          src,
		entries:      make(map[string]Entry, len(table.Entries)),
		table:        table.Entries,
		meta:         table.Meta,
		payloadStart: pos,
	}
	for _, opt := range opts {
		opt(a)
	}
	// Later records shadow earlier ones with the same name; their payload
	// bytes still count toward every subsequent offset.
	for _, e := range table.Entries {
		a.entries[e.Name] = e
	}

	a.log().Debug("archive parsed",
		"entries", len(a.table),
		"payload_start", a.payloadStart,
		"plugin", a.meta.PluginID,
	)
	return a, nil
}

// Metadata returns the header metadata read during construction.
func (a *Archive) Metadata() Metadata {
	return a.meta
}

// PayloadStart returns the absolute offset in the source where entry
// payload bytes begin.
func (a *Archive) PayloadStart() int64 {
	return a.payloadStart
}

// ListEntries returns the names of all entries in the table. The order is
// unspecified. No I/O is performed.
func (a *Archive) ListEntries() []string {
	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	return names
}

// Entries iterates over every table record in table order, including
// records shadowed by a later duplicate name.
func (a *Archive) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range a.table {
			if !yield(e) {
				return
			}
		}
	}
}

// ExtractEntry returns the decoded content of the named entry.
//
// The stored bytes are read in full and deflate-decompressed when the
// entry was stored compressed. Nothing is cached: repeated calls re-read
// and re-decode from the source. A failed extraction leaves the Archive
// usable; each call seeks independently.
func (a *Archive) ExtractEntry(name string) ([]byte, error) {
	entry, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrEntryNotFound, name)
	}

	if _, err := a.src.Seek(a.payloadStart+int64(entry.DataOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek entry %q: %w", name, err)
	}

	stored, err := decode.NewReader(a.src).Bytes(int(entry.DataSize))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", name, err)
	}

	if !entry.Compressed() {
		return stored, nil
	}

	a.log().Debug("decompressing entry",
		"name", name,
		"stored", entry.DataSize,
		"uncompressed", entry.OriginalSize,
	)

	fr := flate.NewReader(bytes.NewReader(stored))
	defer fr.Close()

	out := bytes.NewBuffer(make([]byte, 0, entry.OriginalSize))
	if _, err := io.Copy(out, fr); err != nil {
		return nil, fmt.Errorf("%w: entry %q: %w", ErrCorruptData, name, err)
	}
	// The declared uncompressed size is a hint, not a contract; the
	// decoded length is not cross-checked against it.
	return out.Bytes(), nil
}
