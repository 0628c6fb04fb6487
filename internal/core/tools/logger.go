package tools

import (
	"sync"

	"github.com/sandboxagent/sandboxagent/internal/logging"
)

// auditCapacity bounds the in-memory audit trail so a long-lived process
// doesn't grow this unboundedly; it is a ring buffer over the most recent
// invocations, not the full history.
const auditCapacity = 1000

// ToolLogger is the in-memory audit trail for tool invocations, with every
// entry also emitted as a structured log event via internal/logging.
type ToolLogger struct {
	mu      sync.Mutex
	entries []ToolLogEntry
}

// NewToolLogger creates a logger instance.
func NewToolLogger() *ToolLogger {
	return &ToolLogger{entries: make([]ToolLogEntry, 0, auditCapacity)}
}

// Log records a tool invocation. Called by the executor after every tool call.
func (l *ToolLogger) Log(entry ToolLogEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > auditCapacity {
		l.entries = l.entries[len(l.entries)-auditCapacity:]
	}
	l.mu.Unlock()

	logging.ToolInvoked(entry.ToolName, entry.DurationMs, entry.Result.IsError)
}

// Entries returns a copy of all log entries, newest last.
func (l *ToolLogger) Entries() []ToolLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]ToolLogEntry, len(l.entries))
	copy(result, l.entries)
	return result
}
