// Package exportlog provides structured JSONL logging for export runs and
// MCP tool calls.
package exportlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry is the schema for one JSONL line written per export run.
type Entry struct {
	Ts          string  `json:"ts"`
	RunID       string  `json:"run_id"`
	Target      string  `json:"target"`
	Format      string  `json:"format"`
	Source      string  `json:"source"`
	Nodes       int     `json:"nodes"`
	DurationMs  int64   `json:"duration_ms"`
	OutputBytes int     `json:"output_bytes"`
	Valid       bool    `json:"valid"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
	Cached      bool    `json:"cached,omitempty"`
	Error       *string `json:"error"`
}

// ToolEntry is the schema for one JSONL line written per MCP tool call.
type ToolEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	Error         *string        `json:"error"`
}

// Logger appends structured JSONL entries to a file.
// It is safe for concurrent use. A nil *Logger discards every entry.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens (or creates) the file at path for append-only writing.
// Parent directories are created automatically.
// Returns nil, nil if path is empty; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("exportlog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("exportlog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single JSONL entry. An empty Ts is stamped with Now.
// Errors are returned; callers log them and carry on so that log failures
// never affect an export.
func (l *Logger) Write(entry Entry) error {
	if l == nil {
		return nil
	}
	if entry.Ts == "" {
		entry.Ts = Now().UTC().Format(time.RFC3339)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// WriteTool appends a single tool call entry, stamped like Write.
func (l *Logger) WriteTool(entry ToolEntry) error {
	if l == nil {
		return nil
	}
	if entry.Ts == "" {
		entry.Ts = Now().UTC().Format(time.RFC3339)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// ErrorString returns a pointer to err's message, or nil.
func ErrorString(err error) *string {
	if err == nil {
		return nil
	}
	msg := err.Error()
	return &msg
}

// SanitizeParams returns a copy of args safe for logging.
// String values longer than shortStringMax bytes are replaced with a
// "{key}_len" integer entry so that page payloads are never written to the
// log file.
func SanitizeParams(args map[string]any) map[string]any {
	const shortStringMax = 64
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
