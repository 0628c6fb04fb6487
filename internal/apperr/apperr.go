// Package apperr defines the closed taxonomy of error kinds raised across
// the agent pipeline and the fixed rendering used to surface them to
// clients: machine code, message, context, recovery suggestions.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error kinds a component may raise.
type Kind string

const (
	KindAgentInit       Kind = "AGENT_INIT_ERROR"
	KindModelConfig     Kind = "MODEL_CONFIG_ERROR"
	KindToolExecution   Kind = "TOOL_EXECUTION_ERROR"
	KindReasoning       Kind = "REASONING_ERROR"
	KindSafetyViolation Kind = "SAFETY_VIOLATION"
	KindConversation    Kind = "CONVERSATION_ERROR" // never raised; see DESIGN.md Open Question
	KindRateLimit       Kind = "RATE_LIMIT_ERROR"
	KindPathTraversal   Kind = "PATH_TRAVERSAL"
	KindSymlink         Kind = "SYMLINK"
	KindSizeLimit       Kind = "SIZE_LIMIT_EXCEEDED"
	KindInvalidMode     Kind = "INVALID_MODE"
	KindFileNotFound    Kind = "FILE_NOT_FOUND"
	KindToolNotFound    Kind = "TOOL_NOT_FOUND"
	KindToolArgument    Kind = "TOOL_ARGUMENT_ERROR"
	KindWorkspace       Kind = "WORKSPACE_ERROR"
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
)

// AppError is the single typed-error carrier used across the pipeline.
// Every error surfaced to a caller (CLI, JSON-RPC client) is rendered
// from one of these, never from a bare string.
type AppError struct {
	Kind        Kind
	Message     string
	Context     map[string]any
	Suggestions []string
	cause       error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.cause }

// New creates an AppError with no wrapped cause.
func New(kind Kind, message string, suggestions ...string) *AppError {
	return &AppError{Kind: kind, Message: message, Suggestions: suggestions}
}

// Wrap creates an AppError that preserves an underlying cause via %w semantics.
func Wrap(kind Kind, cause error, message string, suggestions ...string) *AppError {
	return &AppError{Kind: kind, Message: message, cause: cause, Suggestions: suggestions}
}

// WithContext attaches machine-readable context and returns the same error
// for chaining at the call site.
func (e *AppError) WithContext(ctx map[string]any) *AppError {
	e.Context = ctx
	return e
}

// As is a convenience wrapper over errors.As for pulling an *AppError out
// of an arbitrary error chain.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Render formats the error for client display in a fixed layout.
// In debug mode the kind, and context map are appended.
func Render(err error, debug bool) string {
	ae, ok := As(err)
	if !ok {
		return fmt.Sprintf("❌ Error: %s", err.Error())
	}

	var b []byte
	b = append(b, []byte(fmt.Sprintf("❌ Error: %s", ae.Message))...)
	if len(ae.Suggestions) > 0 {
		b = append(b, []byte("\n💡 Suggestions:\n")...)
		for i, s := range ae.Suggestions {
			b = append(b, []byte(fmt.Sprintf("   %d. %s\n", i+1, s))...)
		}
	}
	if debug {
		b = append(b, []byte(fmt.Sprintf("\n[debug] kind=%s", ae.Kind))...)
		if len(ae.Context) > 0 {
			b = append(b, []byte(fmt.Sprintf(" context=%v", ae.Context))...)
		}
	}
	return string(b)
}
