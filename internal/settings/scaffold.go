package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// StarterPolicy is the permission set written by Scaffold: everyday
// read-only operations allowed, history rewrites and force pushes gated.
func StarterPolicy() PolicySet {
	return PolicySet{
		Allow: []string{
			"Bash(git status)",
			"Bash(git diff *)",
			"Bash(git log *)",
			"Bash(ls *)",
			"Read",
			"Glob",
			"Grep",
		},
		Deny: []string{
			"Bash(git push --force *)",
		},
		Ask: []string{
			"Bash(git push *)",
			"WebFetch",
		},
	}
}

// Scaffold writes a starter project settings document. An existing document
// is left untouched.
func Scaffold(projectDir string, policy PolicySet) (string, error) {
	path := filepath.Join(projectDir, ".claude", "settings.json")
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("settings document already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(Document{Permissions: policy}, "", "  ")
	if err != nil {
		return "", err
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return path, nil
}
