// Package tools implements the Tool Registry and Tool Executor: a typed
// catalog of file-operation tools backed by the workspace sandbox, plus
// the single entry point (Executor.Execute) that validates arguments,
// enforces a timeout, and logs every invocation.
package tools

import (
	"time"

	"github.com/sandboxagent/sandboxagent/internal/domain"
)

// ToolLogEntry captures one tool invocation for the audit trail.
type ToolLogEntry struct {
	Timestamp  time.Time         `json:"timestamp"`
	ToolName   string            `json:"tool_name"`
	Params     map[string]any    `json:"params"`
	Result     domain.ToolResult `json:"result"`
	DurationMs int64             `json:"duration_ms"`
}

// Tool is the interface every registered tool implements. A tool knows
// how to describe itself (for LLM and Tool Selector consumption) and how
// to execute — the Registry and Executor never hard-code a description.
type Tool interface {
	Name() string
	Descriptor() domain.ToolDescriptor
	Execute(params map[string]any) (domain.ToolResult, error)
}
