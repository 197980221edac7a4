package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLAUDE_PROJECT_DIR", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, DefaultJudgeProvider, cfg.Judge.Provider)
	assert.Equal(t, DefaultJudgeTimeout, cfg.Judge.Timeout)
	assert.True(t, cfg.Audit.Enabled)
	assert.Contains(t, cfg.Audit.Path, filepath.Join(".claude", "safety-audit.ndjson"))
	assert.False(t, cfg.Notify.Slack.Enabled)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	configPath := filepath.Join(dir, "config.yaml")
	content := `
log_level: debug
judge:
  provider: openai
  model: gpt-4o
  timeout: 30s
audit:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cmd := &cobra.Command{}
	cmd.Flags().String("config", configPath, "")

	cfg, err := Load(cmd)

	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "openai", cfg.Judge.Provider)
	assert.Equal(t, "gpt-4o", cfg.Judge.Model)
	assert.Equal(t, "30s", cfg.Judge.Timeout)
	assert.False(t, cfg.Audit.Enabled)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SAFETYJUDGE_LOG_LEVEL", "warn")

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadProjectDirFromHostEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CLAUDE_PROJECT_DIR", dir)

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectDir)
}

func TestLoadAPIKeyFallsBackToProviderEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.Judge.APIKey)
}

func TestLoadExpandsAuditPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SAFETYJUDGE_AUDIT_PATH", "~/logs/audit.ndjson")

	cfg, err := Load(nil)

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "audit.ndjson"), cfg.Audit.Path)
}

func TestJudgeTimeout(t *testing.T) {
	cfg := &Config{Judge: JudgeConfig{Timeout: "45s"}}
	d, err := cfg.JudgeTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, d)

	cfg.Judge.Timeout = ""
	d, err = cfg.JudgeTimeout()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, d)

	cfg.Judge.Timeout = "bogus"
	_, err = cfg.JudgeTimeout()
	assert.Error(t, err)
}
