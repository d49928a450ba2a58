package obby

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `{
	"id": "test-plugin",
	"name": "Test Plugin",
	"version": "1.0.0",
	"description": "A test plugin"
}`

// writeTestArchive builds an archive and writes it to a temp file.
func writeTestArchive(tb testing.TB, spec testArchive) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "plugin.obby")
	require.NoError(tb, os.WriteFile(path, buildTestArchive(tb, spec), 0o644))
	return path
}

func TestExtractPluginJSON(t *testing.T) {
	t.Parallel()

	path := writeTestArchive(t, testArchive{
		pluginID: "TestPlugin",
		entries: []testEntry{
			{name: "plugin.json", content: []byte(testManifest)},
			{name: "Plugin.dll", content: []byte{0x4d, 0x5a, 0x00, 0x01}},
		},
	})

	text, err := ExtractPluginJSON(path)
	require.NoError(t, err)
	assert.Equal(t, testManifest, text)
}

func TestExtractPluginJSONMissingEntry(t *testing.T) {
	t.Parallel()

	path := writeTestArchive(t, testArchive{
		entries: []testEntry{{name: "readme.md", content: []byte("no manifest here")}},
	})

	_, err := ExtractPluginJSON(path)
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestExtractPluginJSONInvalidEncoding(t *testing.T) {
	t.Parallel()

	path := writeTestArchive(t, testArchive{
		entries: []testEntry{{name: "plugin.json", content: []byte{0xff, 0xfe, '{', '}'}}},
	})

	_, err := ExtractPluginJSON(path)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestExtractPluginManifest(t *testing.T) {
	t.Parallel()

	path := writeTestArchive(t, testArchive{
		entries: []testEntry{{name: "plugin.json", content: []byte(testManifest)}},
	})

	m, err := ExtractPluginManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "test-plugin", m.ID)
	assert.Equal(t, "Test Plugin", m.Name)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, "A test plugin", m.Description)
}

func TestExtractPluginManifestBadJSON(t *testing.T) {
	t.Parallel()

	path := writeTestArchive(t, testArchive{
		entries: []testEntry{{name: "plugin.json", content: []byte("{not json")}},
	})

	_, err := ExtractPluginManifest(path)
	require.Error(t, err)
}
