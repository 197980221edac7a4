package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, name string, doc Document) {
	t.Helper()
	claudeDir := filepath.Join(dir, ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, name), data, 0644))
}

func permissions(allow, deny, ask []string) Document {
	return Document{Permissions: PolicySet{Allow: allow, Deny: deny, Ask: ask}}
}

func TestLoadFromProjectDir(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "settings.json", permissions(
		[]string{"Bash(git *)"}, []string{"Bash(rm -rf *)"}, nil,
	))

	loader := &Loader{projectDir: dir}
	perms := loader.Load()

	assert.Contains(t, perms.Allow, "Bash(git *)")
	assert.Contains(t, perms.Deny, "Bash(rm -rf *)")
}

func TestLocalOverridesProject(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "settings.json", permissions([]string{"Bash(npm *)"}, nil, nil))
	writeSettings(t, dir, "settings.local.json", permissions([]string{"Bash(yarn *)"}, nil, nil))

	loader := &Loader{projectDir: dir}
	perms := loader.Load()

	require.Equal(t, []string{"Bash(yarn *)", "Bash(npm *)"}, perms.Allow)
}

func TestHomeRulesComeLast(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	writeSettings(t, dir, "settings.local.json", permissions([]string{"Bash(yarn *)"}, nil, nil))
	writeSettings(t, dir, "settings.json", permissions([]string{"Bash(npm *)"}, nil, nil))
	writeSettings(t, home, "settings.json", permissions([]string{"Bash(go *)"}, nil, nil))

	loader := &Loader{projectDir: dir, homeDir: home}
	perms := loader.Load()

	require.Equal(t, []string{"Bash(yarn *)", "Bash(npm *)", "Bash(go *)"}, perms.Allow)
}

func TestMissingFilesContributeNothing(t *testing.T) {
	loader := &Loader{projectDir: t.TempDir()}
	perms := loader.Load()

	assert.Empty(t, perms.Allow)
	assert.Empty(t, perms.Deny)
	assert.Empty(t, perms.Ask)
}

func TestMalformedJSONSkipped(t *testing.T) {
	dir := t.TempDir()
	claudeDir := filepath.Join(dir, ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(claudeDir, "settings.json"), []byte("not valid json{{{"), 0644))

	loader := &Loader{projectDir: dir}
	perms := loader.Load()

	assert.Empty(t, perms.Allow)
	assert.Empty(t, perms.Deny)
	assert.Empty(t, perms.Ask)
}

func TestCandidatePathsOrder(t *testing.T) {
	loader := &Loader{projectDir: "/proj", homeDir: "/home/dev"}
	paths := loader.CandidatePaths()

	require.Equal(t, []string{
		filepath.Join("/proj", ".claude", "settings.local.json"),
		filepath.Join("/proj", ".claude", "settings.json"),
		filepath.Join("/home/dev", ".claude", "settings.json"),
	}, paths)
}
