// Package obby reads .obby archives, the container format used to package
// Obsidian plugins.
//
// An archive is a flat little-endian layout: a fixed magic tag, header
// metadata (API version, content hash, optional signature, plugin
// identity), an entry table, and the concatenated entry payloads. Entries
// may be stored raw or deflate-compressed; the format signals compression
// by the stored size differing from the uncompressed size.
//
// The package is read-only. It validates structure, not trust: the content
// hash and signature are carried or skipped, never verified.
//
// # Quick Start
//
// Open an archive and extract a file:
//
//	a, err := obby.Open("plugin.obby")
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	data, err := a.ExtractEntry("plugin.json")
//
// Or read from any io.ReadSeeker:
//
//	a, err := obby.New(bytes.NewReader(buf))
//
// Plugin metadata has a dedicated shortcut:
//
//	manifest, err := obby.ExtractPluginManifest("plugin.obby")
//
// # Concurrency
//
// An Archive is not safe for concurrent use: every extraction seeks the
// shared source. Open independent handles for concurrent readers.
package obby
