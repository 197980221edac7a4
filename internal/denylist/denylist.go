// Package denylist holds the fixed catastrophe patterns checked before any
// policy rule. A hit here is a hard deny that no allow rule can override;
// ambiguous cases belong to the semantic judge, which escalates to ask.
package denylist

import (
	"regexp"
	"sync"
)

type entry struct {
	re     *regexp.Regexp
	reason string
}

type rawEntry struct {
	pattern string
	reason  string
}

// Ordered list of catastrophic, irreversible operations. Case-insensitive.
var rawEntries = []rawEntry{
	{`rm\s+-rf\s+/`, "Recursive delete from root"},
	{`rm\s+-rf\s+~`, "Recursive delete from home"},
	{`rm\s+-rf\s+\.\s*$`, "Recursive delete current directory"},
	{`DROP\s+DATABASE`, "SQL database drop"},
	{`TRUNCATE\s+TABLE`, "SQL table truncation"},
	{`:\(\)\{.*:\|:&.*\};:`, "Fork bomb"},
	{`>\s*/dev/sd[a-z]`, "Direct disk write"},
	{`mkfs\.`, "Filesystem format"},
	{`dd\s+.*of=/dev/`, "Raw disk overwrite"},
}

var (
	entries     []entry
	compileOnce sync.Once
)

func compile() {
	compileOnce.Do(func() {
		entries = make([]entry, len(rawEntries))
		for i, raw := range rawEntries {
			entries[i] = entry{
				re:     regexp.MustCompile(`(?i)` + raw.pattern),
				reason: raw.reason,
			}
		}
	})
}

// Scan returns the reason for the first catastrophic pattern found in the
// command, or false if none match.
func Scan(command string) (string, bool) {
	compile()
	for _, e := range entries {
		if e.re.MatchString(command) {
			return e.reason, true
		}
	}
	return "", false
}
