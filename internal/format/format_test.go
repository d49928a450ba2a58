package format

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xnim/obsidian-lib/internal/decode"
)

// headerSpec holds the knobs for building a synthetic container header.
type headerSpec struct {
	magic      []byte
	apiVersion string
	signed     bool
	dataLength int32
	pluginID   string
	pluginVer  string
	records    []record
}

type record struct {
	name   string
	size   int32
	stored int32
}

// buildHeader writes a container header (everything up to the payload
// region) in wire order.
func buildHeader(tb testing.TB, spec headerSpec) []byte {
	tb.Helper()

	var buf bytes.Buffer
	magic := spec.magic
	if magic == nil {
		magic = Magic
	}
	buf.Write(magic)
	writeString(&buf, spec.apiVersion)
	buf.Write(make([]byte, HashSize))
	if spec.signed {
		buf.WriteByte(1)
		buf.Write(make([]byte, SignatureSize))
	} else {
		buf.WriteByte(0)
	}
	writeInt32(&buf, spec.dataLength)
	writeString(&buf, spec.pluginID)
	writeString(&buf, spec.pluginVer)
	writeInt32(&buf, int32(len(spec.records)))
	for _, rec := range spec.records {
		writeString(&buf, rec.name)
		writeInt32(&buf, rec.size)
		writeInt32(&buf, rec.stored)
	}
	return buf.Bytes()
}

// writeString writes a base-128 varint length followed by the raw bytes.
func writeString(buf *bytes.Buffer, s string) {
	n := uint32(len(s))
	for n >= 0x80 {
		buf.WriteByte(byte(n) | 0x80)
		n >>= 7
	}
	buf.WriteByte(byte(n))
	buf.WriteString(s)
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func TestParse(t *testing.T) {
	t.Parallel()

	data := buildHeader(t, headerSpec{
		apiVersion: "1.19.4",
		dataLength: 42,
		pluginID:   "ExamplePlugin",
		pluginVer:  "2.0.1",
		records: []record{
			{name: "plugin.json", size: 10, stored: 10},
			{name: "Plugin.dll", size: 4096, stored: 1000},
		},
	})

	r := decode.NewReader(bytes.NewReader(data))
	table, err := Parse(r)
	require.NoError(t, err)

	assert.Equal(t, "1.19.4", table.Meta.APIVersion)
	assert.False(t, table.Meta.Signed)
	assert.Equal(t, int32(42), table.Meta.DeclaredDataLength)
	assert.Equal(t, "ExamplePlugin", table.Meta.PluginID)
	assert.Equal(t, "2.0.1", table.Meta.PluginVersion)
	assert.Equal(t, "sha384", string(table.Meta.ContentDigest.Algorithm()))

	require.Len(t, table.Entries, 2)
	assert.Equal(t, Entry{Name: "plugin.json", DataOffset: 0, DataSize: 10, OriginalSize: 10}, table.Entries[0])
	assert.Equal(t, Entry{Name: "Plugin.dll", DataOffset: 10, DataSize: 1000, OriginalSize: 4096}, table.Entries[1])
	assert.False(t, table.Entries[0].Compressed())
	assert.True(t, table.Entries[1].Compressed())

	// The cursor must sit at the first payload byte.
	assert.Equal(t, int64(len(data)), r.Offset())
}

func TestParseSigned(t *testing.T) {
	t.Parallel()

	data := buildHeader(t, headerSpec{signed: true})

	table, err := Parse(decode.NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.True(t, table.Meta.Signed)
	assert.Empty(t, table.Entries)
}

func TestParseBadMagic(t *testing.T) {
	t.Parallel()

	r := decode.NewReader(bytes.NewReader([]byte("ZIP\x00trailing bytes")))
	_, err := Parse(r)
	require.ErrorIs(t, err, ErrInvalidHeader)

	// Parsing stops at the magic; no further bytes are consumed.
	assert.Equal(t, int64(4), r.Offset())
}

func TestParseTruncated(t *testing.T) {
	t.Parallel()

	data := buildHeader(t, headerSpec{
		apiVersion: "1.0",
		signed:     true,
		pluginID:   "p",
		pluginVer:  "1",
		records:    []record{{name: "a.txt", size: 3, stored: 3}},
	})

	// Every cut past the magic must fail with ErrTruncated.
	for n := len(Magic); n < len(data); n++ {
		_, err := Parse(decode.NewReader(bytes.NewReader(data[:n])))
		require.ErrorIs(t, err, decode.ErrTruncated, "cut at %d bytes", n)
	}
}

func TestParseShortMagic(t *testing.T) {
	t.Parallel()

	_, err := Parse(decode.NewReader(bytes.NewReader([]byte("OB"))))
	require.ErrorIs(t, err, decode.ErrTruncated)
}

func TestParseNegativeEntryCount(t *testing.T) {
	t.Parallel()

	data := buildHeader(t, headerSpec{})
	// Rewrite the trailing entry count with -1.
	copy(data[len(data)-4:], []byte{0xff, 0xff, 0xff, 0xff})

	_, err := Parse(decode.NewReader(bytes.NewReader(data)))
	require.ErrorIs(t, err, ErrInvalidHeader)
}

func TestParseNegativeEntrySize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		rec  record
	}{
		{name: "negative uncompressed", rec: record{name: "f", size: -1, stored: 5}},
		{name: "negative stored", rec: record{name: "f", size: 5, stored: -9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data := buildHeader(t, headerSpec{records: []record{tt.rec}})
			_, err := Parse(decode.NewReader(bytes.NewReader(data)))
			require.ErrorIs(t, err, ErrInvalidHeader)
		})
	}
}

func TestParseDuplicateNames(t *testing.T) {
	t.Parallel()

	data := buildHeader(t, headerSpec{
		records: []record{
			{name: "dup", size: 4, stored: 4},
			{name: "other", size: 6, stored: 6},
			{name: "dup", size: 8, stored: 8},
		},
	})

	table, err := Parse(decode.NewReader(bytes.NewReader(data)))
	require.NoError(t, err)

	// Every record keeps its slice position and its offset contribution;
	// name-keyed shadowing is the caller's concern.
	require.Len(t, table.Entries, 3)
	assert.Equal(t, uint64(0), table.Entries[0].DataOffset)
	assert.Equal(t, uint64(4), table.Entries[1].DataOffset)
	assert.Equal(t, uint64(10), table.Entries[2].DataOffset)
}
