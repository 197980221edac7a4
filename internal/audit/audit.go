// Package audit appends one structured record per permission decision to an
// append-only NDJSON log, the system of record for post-hoc review.
package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/Z-Lemke/claude-auto-learn/internal/logger"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
)

// Record is one immutable audit line. Timestamp and ID are auto-filled on
// write when the caller leaves them empty.
type Record struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id"`
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
	Decision  string          `json:"decision"`
	Reason    string          `json:"reason"`
	Command   string          `json:"command,omitempty"`
}

type Filter struct {
	SessionID string
	ToolName  string
	Decision  string
	StartTime time.Time
	EndTime   time.Time
}

// Logger serializes appends with an in-process mutex plus a file lock so
// concurrent evaluations, in this process or another, never interleave a
// record mid-line.
type Logger struct {
	mu             sync.RWMutex
	logPath        string
	fileLock       *flock.Flock
	redactPatterns []string
}

// NewLogger returns a logger appending to logPath. An empty path disables
// logging entirely.
func NewLogger(logPath string, redactPatterns []string) *Logger {
	l := &Logger{logPath: logPath, redactPatterns: redactPatterns}
	if logPath != "" {
		l.fileLock = flock.New(logPath + ".lock")
	}
	return l
}

func (l *Logger) Enabled() bool {
	return l != nil && l.logPath != ""
}

// Log appends one record. Logging is a side effect of the decision, never a
// gate: callers must not let a returned error change the verdict.
func (l *Logger) Log(ctx context.Context, record *Record) error {
	if !l.Enabled() {
		return nil
	}
	if record == nil {
		return fmt.Errorf("audit record cannot be nil")
	}

	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if record.ID == "" {
		record.ID = ulid.Make().String()
	}
	if record.SessionID == "" {
		record.SessionID = logger.GetSessionID(ctx)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	redacted := l.redact(record)
	line, err := json.Marshal(redacted)
	if err != nil {
		slog.Error("Failed to marshal audit record", "error", err)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(l.logPath), 0755); err != nil {
		slog.Error("Failed to create audit log directory", "error", err)
		return err
	}

	if err := l.fileLock.Lock(); err != nil {
		slog.Error("Failed to lock audit log", "error", err)
		return err
	}
	defer func() {
		if err := l.fileLock.Unlock(); err != nil {
			slog.Error("Failed to unlock audit log", "error", err)
		}
	}()

	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		slog.Error("Failed to open audit log", "error", err)
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		slog.Error("Failed to write audit record", "error", err)
		return err
	}

	slog.Debug("Audit record logged", "id", record.ID, "tool", record.ToolName, "decision", record.Decision)
	return nil
}

// Query reads all records back, skipping unparsable lines, and applies the
// optional filter.
func (l *Logger) Query(ctx context.Context, filter *Filter) ([]*Record, error) {
	if !l.Enabled() {
		return []*Record{}, nil
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	file, err := os.Open(l.logPath)
	if os.IsNotExist(err) {
		return []*Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var records []*Record
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			slog.Warn("Failed to parse audit record", "line", string(line), "error", err)
			continue
		}
		records = append(records, &record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if filter == nil {
		return records, nil
	}

	var filtered []*Record
	for _, record := range records {
		if matchesFilter(record, filter) {
			filtered = append(filtered, record)
		}
	}
	return filtered, nil
}

func matchesFilter(record *Record, filter *Filter) bool {
	if filter.SessionID != "" && record.SessionID != filter.SessionID {
		return false
	}
	if filter.ToolName != "" && record.ToolName != filter.ToolName {
		return false
	}
	if filter.Decision != "" && record.Decision != filter.Decision {
		return false
	}
	if !filter.StartTime.IsZero() && record.Timestamp.Before(filter.StartTime) {
		return false
	}
	if !filter.EndTime.IsZero() && record.Timestamp.After(filter.EndTime) {
		return false
	}
	return true
}

func (l *Logger) redact(record *Record) *Record {
	redacted := *record
	for _, pattern := range l.redactPatterns {
		redacted.ToolInput = redactRaw(redacted.ToolInput, pattern)
		redacted.Reason = redactString(redacted.Reason, pattern)
	}
	return &redacted
}

func redactRaw(data json.RawMessage, pattern string) json.RawMessage {
	return json.RawMessage(redactString(string(data), pattern))
}

func redactString(data, pattern string) string {
	if data == "" || pattern == "" {
		return data
	}
	if re, err := regexp.Compile(pattern); err == nil {
		return re.ReplaceAllString(data, "[REDACTED]")
	}
	return strings.ReplaceAll(data, pattern, "[REDACTED]")
}
