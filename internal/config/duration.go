package config

import (
	"fmt"
	"strings"
	"time"
)

// JudgeTimeout parses the configured judge timeout, falling back to the
// default when unset.
func (c *Config) JudgeTimeout() (time.Duration, error) {
	return durationOrDefault(c.Judge.Timeout, DefaultJudgeTimeout)
}

func durationOrDefault(value, defaultValue string) (time.Duration, error) {
	candidate := strings.TrimSpace(value)
	if candidate == "" {
		candidate = strings.TrimSpace(defaultValue)
	}
	if candidate == "" {
		return 0, fmt.Errorf("duration value is empty")
	}

	d, err := time.ParseDuration(candidate)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", candidate, err)
	}
	return d, nil
}
