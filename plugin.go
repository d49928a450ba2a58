package obby

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// PluginManifestName is the conventional name of the plugin metadata entry.
const PluginManifestName = "plugin.json"

// PluginManifest is the decoded plugin.json metadata entry.
type PluginManifest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// ExtractPluginJSON opens the archive at path and returns the plugin.json
// entry as text.
//
// Unlike the lossy string fields of the container header, this strict path
// fails with ErrInvalidEncoding when the entry is not valid UTF-8.
func ExtractPluginJSON(path string) (string, error) {
	a, err := Open(path)
	if err != nil {
		return "", err
	}
	defer a.Close()

	data, err := a.ExtractEntry(PluginManifestName)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrInvalidEncoding, PluginManifestName)
	}
	return string(data), nil
}

// ExtractPluginManifest opens the archive at path and decodes its
// plugin.json entry.
func ExtractPluginManifest(path string) (*PluginManifest, error) {
	text, err := ExtractPluginJSON(path)
	if err != nil {
		return nil, err
	}
	var m PluginManifest
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", PluginManifestName, err)
	}
	return &m, nil
}
