// Package content scans file-write and notebook-cell payloads for dangerous
// shell fragments before they reach disk. A hit escalates to ask rather than
// deny: the content is being authored, not executed, and a developer may have
// a legitimate reason to write it.
package content

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/Z-Lemke/claude-auto-learn/internal/denylist"
)

// Extensions whose content is treated as executable and scanned. Plain text
// and data files bypass scanning entirely.
var scriptExtensions = map[string]struct{}{
	".sh":   {},
	".bash": {},
	".zsh":  {},
	".fish": {},
	".py":   {},
	".rb":   {},
	".pl":   {},
	".js":   {},
	".mjs":  {},
	".ps1":  {},
}

type obfuscation struct {
	re     *regexp.Regexp
	reason string
}

type rawObfuscation struct {
	pattern string
	reason  string
}

// Command-substitution and pipe-to-shell idioms that hide intent from the
// glob matcher. Checked in addition to the catastrophe denylist.
var rawObfuscations = []rawObfuscation{
	{`base64\s+(-d|--decode)[^|]*\|\s*(ba|z|da)?sh\b`, "base64 decode piped to shell"},
	{`(curl|wget)[^|\n]*\$\(`, "network fetch with command substitution"},
	{`(curl|wget)[^|\n]*\|\s*(ba|z)?sh\b`, "network fetch piped to shell"},
	{`\$\([^)]*rm\s+-rf`, "command substitution wrapping recursive delete"},
}

var (
	obfuscations []obfuscation
	compileOnce  sync.Once
)

func compile() {
	compileOnce.Do(func() {
		obfuscations = make([]obfuscation, len(rawObfuscations))
		for i, raw := range rawObfuscations {
			obfuscations[i] = obfuscation{
				re:     regexp.MustCompile(`(?i)` + raw.pattern),
				reason: raw.reason,
			}
		}
	})
}

// Evaluate scans the payload of a content-writing tool call. It returns a
// human-readable reason and true when the content should be escalated to ask.
// Tools that do not write interpretable content always pass.
func Evaluate(toolName string, input json.RawMessage) (string, bool) {
	switch toolName {
	case "Write", "Edit":
		var args struct {
			FilePath string `json:"file_path"`
			Content  string `json:"content"`
			NewStr   string `json:"new_string"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return "", false
		}
		body := args.Content
		if body == "" {
			body = args.NewStr
		}
		return evaluateScript(args.FilePath, body)
	case "NotebookEdit":
		var args struct {
			NewSource string `json:"new_source"`
		}
		if err := json.Unmarshal(input, &args); err != nil {
			return "", false
		}
		return evaluateNotebook(args.NewSource)
	default:
		return "", false
	}
}

func evaluateScript(path, body string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := scriptExtensions[ext]; !ok {
		return "", false
	}
	if reason, hit := scanFragment(body); hit {
		return "suspicious content pattern in script: " + reason, true
	}
	return "", false
}

func evaluateNotebook(source string) (string, bool) {
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "!") && !strings.HasPrefix(trimmed, "%%bash") {
			continue
		}
		fragment := strings.TrimPrefix(trimmed, "!")
		if reason, hit := scanFragment(fragment); hit {
			return "dangerous bash command in notebook cell: " + reason, true
		}
	}
	// Non-bang cell content can still hide shell idioms in string literals.
	if reason, hit := scanObfuscations(source); hit {
		return "dangerous bash command in notebook cell: " + reason, true
	}
	return "", false
}

func scanFragment(fragment string) (string, bool) {
	if reason, hit := denylist.Scan(fragment); hit {
		return reason, true
	}
	return scanObfuscations(fragment)
}

func scanObfuscations(fragment string) (string, bool) {
	compile()
	for _, o := range obfuscations {
		if o.re.MatchString(fragment) {
			return o.reason, true
		}
	}
	return "", false
}
