package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	LogLevel   string       `koanf:"log_level"`
	ProjectDir string       `koanf:"project_dir"`
	Judge      JudgeConfig  `koanf:"judge"`
	Audit      AuditConfig  `koanf:"audit"`
	Notify     NotifyConfig `koanf:"notify"`
}

type JudgeConfig struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   string `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
	Timeout  string `koanf:"timeout"`
}

type AuditConfig struct {
	Enabled        bool     `koanf:"enabled"`
	Path           string   `koanf:"path"`
	RedactPatterns []string `koanf:"redact_patterns"`
}

type NotifyConfig struct {
	Slack SlackConfig `koanf:"slack"`
}

type SlackConfig struct {
	Enabled  bool   `koanf:"enabled"`
	BotToken string `koanf:"bot_token"`
	Channel  string `koanf:"channel"`
}

const (
	DefaultLogLevel      = "info"
	DefaultJudgeProvider = "anthropic"
	DefaultJudgeTimeout  = "15s"
	DefaultAuditEnabled  = true
)

// Load layers configuration sources lowest priority first: hardcoded
// defaults, then the config file, then SAFETYJUDGE_ environment variables,
// then CLI flags.
func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"log_level":             DefaultLogLevel,
		"project_dir":           "",
		"judge.provider":        DefaultJudgeProvider,
		"judge.model":           "",
		"judge.api_key":         "",
		"judge.base_url":        "",
		"judge.timeout":         DefaultJudgeTimeout,
		"audit.enabled":         DefaultAuditEnabled,
		"audit.path":            "",
		"audit.redact_patterns": []string{},
		"notify.slack.enabled":  false,
		"notify.slack.channel":  "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".safetyjudge", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	k.Load(env.Provider("SAFETYJUDGE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SAFETYJUDGE_")), "_", ".", -1)
	}), nil)

	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	if cfg.ProjectDir == "" {
		cfg.ProjectDir = os.Getenv("CLAUDE_PROJECT_DIR")
	}
	if cfg.ProjectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.ProjectDir = wd
		}
	}

	if err := normalizePathFields(&cfg); err != nil {
		return nil, err
	}

	// The audit log stays project local unless pointed elsewhere.
	if cfg.Audit.Path == "" && cfg.ProjectDir != "" {
		cfg.Audit.Path = filepath.Join(cfg.ProjectDir, ".claude", "safety-audit.ndjson")
	}

	// Provider keys come from the conventional env vars unless the config
	// sets one explicitly.
	if cfg.Judge.APIKey == "" {
		switch cfg.Judge.Provider {
		case "", "anthropic":
			cfg.Judge.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "openai":
			cfg.Judge.APIKey = os.Getenv("OPENAI_API_KEY")
		case "gemini":
			cfg.Judge.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	return &cfg, nil
}

func normalizePathFields(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	projectDir, err := expandConfiguredPath(cfg.ProjectDir)
	if err != nil {
		return err
	}
	if projectDir != "" {
		cfg.ProjectDir = projectDir
	}

	auditPath, err := expandConfiguredPath(cfg.Audit.Path)
	if err != nil {
		return err
	}
	if auditPath != "" {
		cfg.Audit.Path = auditPath
	}

	return nil
}
