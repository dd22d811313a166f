package testutil

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/kbukum/modkit/logger"
)

// LogBuffer captures JSON log lines. It is safe for concurrent writes.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogger returns a debug-level JSON logger writing to a new LogBuffer.
func NewLogger() (*logger.Logger, *LogBuffer) {
	lb := &LogBuffer{}
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", lb), lb
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Contains reports whether any line contains s.
func (b *LogBuffer) Contains(s string) bool {
	return strings.Contains(b.String(), s)
}

// Entries decodes every line written so far. Lines that are not JSON are skipped.
func (b *LogBuffer) Entries() []map[string]any {
	var entries []map[string]any
	sc := bufio.NewScanner(strings.NewReader(b.String()))
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

// Find returns the entries whose message equals msg.
func (b *LogBuffer) Find(msg string) []map[string]any {
	var out []map[string]any
	for _, e := range b.Entries() {
		if e["message"] == msg {
			out = append(out, e)
		}
	}
	return out
}
