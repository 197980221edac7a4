package main

import (
	"fmt"

	"github.com/Z-Lemke/claude-auto-learn/internal/audit"
	"github.com/Z-Lemke/claude-auto-learn/internal/config"
	"github.com/Z-Lemke/claude-auto-learn/internal/engine"
	"github.com/Z-Lemke/claude-auto-learn/internal/judge"
	"github.com/Z-Lemke/claude-auto-learn/internal/notify"
	"github.com/Z-Lemke/claude-auto-learn/internal/settings"
)

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	timeout, err := cfg.JudgeTimeout()
	if err != nil {
		return nil, fmt.Errorf("failed to parse judge timeout: %w", err)
	}

	j, err := judge.NewFromSettings(cfg.Judge.Provider, cfg.Judge.APIKey, cfg.Judge.BaseURL, cfg.Judge.Model, timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to build judge: %w", err)
	}

	var auditor *audit.Logger
	if cfg.Audit.Enabled {
		auditor = audit.NewLogger(cfg.Audit.Path, cfg.Audit.RedactPatterns)
	}

	var notifier notify.Notifier
	if cfg.Notify.Slack.Enabled {
		notifier = notify.NewSlackNotifier(cfg.Notify.Slack.BotToken, cfg.Notify.Slack.Channel)
	}

	loader := settings.NewLoader(cfg.ProjectDir)
	return engine.New(loader, j, auditor, notifier), nil
}
