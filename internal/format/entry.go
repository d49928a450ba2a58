package format

import "github.com/opencontainers/go-digest"

// Entry describes one file packaged in the archive.
type Entry struct {
	// Name is the entry's unique key within the table, e.g. "plugin.json".
	Name string

	// DataOffset is the byte offset of the entry's content relative to the
	// start of the payload region. The format never stores it; it is the
	// running sum of the stored sizes of every preceding table record.
	DataOffset uint64

	// DataSize is the size in bytes of the content as stored in the
	// payload region. For compressed entries, this is the compressed size.
	DataSize int32

	// OriginalSize is the declared uncompressed size in bytes.
	// Equal to DataSize for uncompressed entries.
	OriginalSize int32
}

// Compressed reports whether the entry's content is deflate-compressed.
//
// The format carries no explicit flag; inequality of the two size fields
// is the only signal. A compressed entry whose stored size happens to
// equal its uncompressed size is indistinguishable from a stored one.
// That ambiguity is part of the wire contract.
func (e Entry) Compressed() bool {
	return e.DataSize != e.OriginalSize
}

// Metadata holds the header fields that precede the entry table.
//
// The content digest is carried as written; nothing verifies it. The
// signature block, when present, is skipped during parsing and never
// retained.
type Metadata struct {
	// APIVersion is the plugin API version marker.
	APIVersion string

	// ContentDigest is the 48-byte content hash presented as a SHA-384
	// digest. It is informational only.
	ContentDigest digest.Digest

	// Signed reports whether the archive carried a signature block.
	Signed bool

	// DeclaredDataLength is the header's total payload length field. The
	// parser does not cross-check it against the entry table.
	DeclaredDataLength int32

	// PluginID is the plugin assembly identifier.
	PluginID string

	// PluginVersion is the plugin's own version string.
	PluginVersion string
}
