package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaffoldWritesStarterDocument(t *testing.T) {
	dir := t.TempDir()

	path, err := Scaffold(dir, StarterPolicy())

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".claude", "settings.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc.Permissions.Allow, "Bash(git status)")
	assert.Contains(t, doc.Permissions.Deny, "Bash(git push --force *)")
	assert.Contains(t, doc.Permissions.Ask, "WebFetch")
}

func TestScaffoldRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()

	_, err := Scaffold(dir, StarterPolicy())
	require.NoError(t, err)

	path, err := Scaffold(dir, StarterPolicy())
	assert.Error(t, err)
	assert.Equal(t, filepath.Join(dir, ".claude", "settings.json"), path)
}

func TestScaffoldPolicyIsLoadable(t *testing.T) {
	dir := t.TempDir()
	_, err := Scaffold(dir, StarterPolicy())
	require.NoError(t, err)

	loader := &Loader{projectDir: dir}
	merged := loader.Load()
	assert.Equal(t, StarterPolicy().Allow, merged.Allow)
}
