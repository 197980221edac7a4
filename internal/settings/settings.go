// Package settings loads and merges layered permission documents.
package settings

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	claErrors "github.com/Z-Lemke/claude-auto-learn/internal/errors"
)

// PolicySet holds merged rule strings per bucket, highest-priority rules
// first within each bucket.
type PolicySet struct {
	Allow []string `json:"allow" yaml:"allow"`
	Deny  []string `json:"deny" yaml:"deny"`
	Ask   []string `json:"ask" yaml:"ask"`
}

// Document is the on-disk shape of one settings file. Missing keys default
// to empty arrays.
type Document struct {
	Permissions PolicySet `json:"permissions"`
}

// Loader resolves and merges settings documents for one project directory.
// The project directory is threaded in explicitly so evaluation stays pure;
// no environment lookups happen here.
type Loader struct {
	projectDir string
	homeDir    string
}

func NewLoader(projectDir string) *Loader {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &Loader{projectDir: projectDir, homeDir: home}
}

// CandidatePaths returns settings locations in priority order, most
// specific/local first. Paths need not exist.
func (l *Loader) CandidatePaths() []string {
	paths := []string{
		filepath.Join(l.projectDir, ".claude", "settings.local.json"),
		filepath.Join(l.projectDir, ".claude", "settings.json"),
	}
	if l.homeDir != "" {
		paths = append(paths, filepath.Join(l.homeDir, ".claude", "settings.json"))
	}
	return paths
}

// Load merges all candidate documents into one PolicySet. Documents are
// folded lowest-priority first so each higher-priority document prepends its
// rules, keeping merge order deterministic. Missing or malformed files
// contribute nothing; malformed ones are logged as warnings, never raised.
func (l *Loader) Load() PolicySet {
	var merged PolicySet
	candidates := l.CandidatePaths()
	for i := len(candidates) - 1; i >= 0; i-- {
		doc, err := readDocument(candidates[i])
		if err != nil {
			if !os.IsNotExist(err) {
				slog.Warn("Skipping settings document", "path", candidates[i], "error", err)
			}
			continue
		}
		merged.Allow = append(doc.Permissions.Allow, merged.Allow...)
		merged.Deny = append(doc.Permissions.Deny, merged.Deny...)
		merged.Ask = append(doc.Permissions.Ask, merged.Ask...)
	}
	return merged
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", claErrors.ErrMalformedSettings, err)
	}
	return &doc, nil
}
