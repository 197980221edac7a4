// Package rule implements permission rule parsing and tool-call matching.
//
// Rule grammar:
//
//	Tool              matches every invocation of the tool
//	Tool(pattern)     pattern semantics depend on the tool category
//	Tool(prefix:*)    deprecated alias for Tool(prefix *)
package rule

import (
	"encoding/json"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// Category groups tools by how their patterns are matched.
type Category int

const (
	// CategoryShell matches glob patterns against the command string with
	// word-boundary semantics ("ls *" matches "ls -la" but not "lsof").
	CategoryShell Category = iota
	// CategoryFetch matches "domain:<suffix>" patterns against the URL host.
	CategoryFetch
	// CategoryBroad matches every call of the tool, pattern or not.
	CategoryBroad
	// CategoryPath matches glob patterns against the file path and basename.
	CategoryPath
	// CategoryOther never matches a patterned rule.
	CategoryOther
)

// CategoryOf returns the matching category for a tool name. Unknown tools
// fall into CategoryOther so a patterned rule for them can never match.
func CategoryOf(toolName string) Category {
	switch toolName {
	case "Bash":
		return CategoryShell
	case "WebFetch":
		return CategoryFetch
	case "WebSearch":
		return CategoryBroad
	case "Read", "Edit", "Write", "Glob", "Grep":
		return CategoryPath
	default:
		return CategoryOther
	}
}

// Rule is one parsed permission rule. Immutable once parsed.
type Rule struct {
	Tool       string
	Pattern    string
	HasPattern bool
}

var ruleRe = regexp.MustCompile(`(?s)^(\w+)(?:\((.*)\))?$`)

// Parse splits a rule string into tool name and optional pattern. Strings
// that do not fit the grammar are treated as a bare tool name with no
// pattern: parsing fails open, the decision layer does not.
func Parse(raw string) Rule {
	trimmed := strings.TrimSpace(raw)
	idx := ruleRe.FindStringSubmatchIndex(trimmed)
	if idx == nil {
		return Rule{Tool: trimmed}
	}
	r := Rule{Tool: trimmed[idx[2]:idx[3]]}
	if idx[4] >= 0 {
		r.Pattern = trimmed[idx[4]:idx[5]]
		r.HasPattern = true
	}
	return r
}

// Matches reports whether a tool call matches this rule. A tool mismatch
// short-circuits before any pattern logic runs; a rule with no pattern
// matches every invocation of its tool.
func (r Rule) Matches(toolName string, input json.RawMessage) bool {
	if r.Tool != toolName {
		return false
	}
	if !r.HasPattern {
		return true
	}

	switch CategoryOf(toolName) {
	case CategoryShell:
		command, ok := extractCommand(input)
		if !ok {
			return false
		}
		return ShellPatternMatches(command, r.Pattern)
	case CategoryFetch:
		return fetchPatternMatches(input, r.Pattern)
	case CategoryBroad:
		return true
	case CategoryPath:
		return pathPatternMatches(input, r.Pattern)
	default:
		return false
	}
}

var colonSuffixRe = regexp.MustCompile(`^(.+?):\*$`)

// NormalizeShellPattern rewrites the deprecated "prefix:*" form into
// "prefix *". Colons elsewhere in the pattern are left alone.
func NormalizeShellPattern(pattern string) string {
	if m := colonSuffixRe.FindStringSubmatch(pattern); m != nil {
		return m[1] + " *"
	}
	return pattern
}

// ShellPatternMatches matches a shell command against a glob pattern.
// Every literal character is escaped and each "*" becomes an unanchored
// wildcard; the whole pattern is anchored at both ends, which is what gives
// the trailing-space word boundary its meaning.
func ShellPatternMatches(command, pattern string) bool {
	pattern = NormalizeShellPattern(pattern)
	if pattern == "*" {
		return true
	}
	return globRegexp(pattern, false).MatchString(command)
}

// globRegexp translates a glob into an anchored regexp. Path globs also
// translate "?" to keep fnmatch-style single-character wildcards working.
func globRegexp(pattern string, pathGlob bool) *regexp.Regexp {
	var b strings.Builder
	b.WriteString(`(?s)^`)
	for _, c := range pattern {
		switch {
		case c == '*':
			b.WriteString(`.*`)
		case pathGlob && c == '?':
			b.WriteString(`.`)
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`$`)
	return regexp.MustCompile(b.String())
}

func fetchPatternMatches(input json.RawMessage, pattern string) bool {
	suffix, ok := strings.CutPrefix(pattern, "domain:")
	if !ok {
		return false
	}
	host, ok := extractHost(input)
	if !ok {
		return false
	}
	return strings.Contains(host, strings.ToLower(strings.TrimSpace(suffix)))
}

func pathPatternMatches(input json.RawMessage, pattern string) bool {
	path, ok := extractFilePath(input)
	if !ok || path == "" {
		return false
	}
	re := globRegexp(pattern, true)
	return re.MatchString(path) || re.MatchString(filepath.Base(path))
}

func extractCommand(input json.RawMessage) (string, bool) {
	var args struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", false
	}
	return args.Command, true
}

func extractHost(input json.RawMessage) (string, bool) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", false
	}
	parsed, err := url.Parse(strings.TrimSpace(args.URL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(strings.TrimSpace(parsed.Hostname()))
	if host == "" {
		return "", false
	}
	return host, true
}

func extractFilePath(input json.RawMessage) (string, bool) {
	var args struct {
		FilePath string `json:"file_path"`
		Path     string `json:"path"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return "", false
	}
	if args.FilePath != "" {
		return args.FilePath, true
	}
	return args.Path, true
}
