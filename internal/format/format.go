// Package format parses the header and entry table of the obby container
// format.
//
// The container is a flat little-endian layout consumed in a single
// forward pass: a 4-byte magic tag, an API version string, a 48-byte
// content hash, a signed flag with an optional 384-byte signature, a
// declared payload length, two plugin identity strings, and the entry
// table. Strings are length-prefixed with a base-128 varint. Entry
// payloads follow the table back to back, in table order, with no padding.
package format

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/0xnim/obsidian-lib/internal/decode"
)

// Magic is the fixed tag beginning every archive.
var Magic = []byte("OBBY")

const (
	// HashSize is the length of the content hash block.
	HashSize = 48

	// SignatureSize is the length of the optional signature block.
	SignatureSize = 384
)

// ErrInvalidHeader is returned when the archive fails structural
// validation: a magic mismatch, a negative entry count, or a negative
// entry size field.
var ErrInvalidHeader = errors.New("obby: invalid header")

// Table is the result of one parse pass: the header metadata plus every
// entry record in table order. Lookup maps are built by the caller so the
// shadowing semantics for duplicate names stay in one place.
type Table struct {
	Meta    Metadata
	Entries []Entry
}

// Parse consumes the header and entry table from r, leaving the cursor at
// the first byte of the payload region.
//
// Duplicate names are legal in the wire format: every record still
// occupies its slice position (and its payload bytes still count toward
// subsequent offsets), so callers that index by name must let the last
// record win without discarding the offset contribution of shadowed ones.
func Parse(r *decode.Reader) (*Table, error) {
	magic, err := r.Bytes(len(Magic))
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(magic, Magic) {
		return nil, fmt.Errorf("%w: bad magic %q", ErrInvalidHeader, magic)
	}

	var meta Metadata
	if meta.APIVersion, err = r.String(); err != nil {
		return nil, fmt.Errorf("api version: %w", err)
	}

	hash, err := r.Bytes(HashSize)
	if err != nil {
		return nil, fmt.Errorf("content hash: %w", err)
	}
	meta.ContentDigest = digest.NewDigestFromEncoded(digest.SHA384, hex.EncodeToString(hash))

	flag, err := r.Uint8()
	if err != nil {
		return nil, fmt.Errorf("signed flag: %w", err)
	}
	meta.Signed = flag != 0
	if meta.Signed {
		// Skipped, never verified.
		if _, err := r.Bytes(SignatureSize); err != nil {
			return nil, fmt.Errorf("signature: %w", err)
		}
	}

	if meta.DeclaredDataLength, err = r.Int32(); err != nil {
		return nil, fmt.Errorf("data length: %w", err)
	}
	if meta.PluginID, err = r.String(); err != nil {
		return nil, fmt.Errorf("plugin id: %w", err)
	}
	if meta.PluginVersion, err = r.String(); err != nil {
		return nil, fmt.Errorf("plugin version: %w", err)
	}

	count, err := r.Int32()
	if err != nil {
		return nil, fmt.Errorf("entry count: %w", err)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative entry count %d", ErrInvalidHeader, count)
	}

	entries := make([]Entry, 0, count)
	var offset uint64
	for i := int32(0); i < count; i++ {
		var e Entry
		if e.Name, err = r.String(); err != nil {
			return nil, fmt.Errorf("entry %d name: %w", i, err)
		}
		if e.OriginalSize, err = r.Int32(); err != nil {
			return nil, fmt.Errorf("entry %q size: %w", e.Name, err)
		}
		if e.DataSize, err = r.Int32(); err != nil {
			return nil, fmt.Errorf("entry %q stored size: %w", e.Name, err)
		}
		if e.OriginalSize < 0 || e.DataSize < 0 {
			return nil, fmt.Errorf("%w: entry %q has negative size", ErrInvalidHeader, e.Name)
		}
		e.DataOffset = offset
		offset += uint64(e.DataSize)
		entries = append(entries, e)
	}

	return &Table{Meta: meta, Entries: entries}, nil
}
