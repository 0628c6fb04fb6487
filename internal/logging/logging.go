// Package logging wraps zerolog into the helpers the rest of the
// codebase calls (Init, L, SecurityEvent, ToolInvoked), backed by a structured
// event pipeline so downstream log consumers get real JSON fields
// instead of ANSI-decorated strings.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Init configures the process-wide logger. Safe to call multiple times;
// only the first call takes effect.
func Init(debug bool, w io.Writer) {
	once.Do(func() {
		if w == nil {
			w = os.Stderr
		}
		level := zerolog.InfoLevel
		if debug {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
		logger = zerolog.New(w).With().Timestamp().Logger()
	})
}

// L returns the process-wide logger, initializing it with defaults
// (info level, stderr) if Init was never called.
func L() zerolog.Logger {
	once.Do(func() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	})
	return logger
}

// SecurityEvent emits a structured moderation event:
// {event_type, conversation_id, query_preview, risks, confidence}.
func SecurityEvent(eventType, conversationID, queryPreview string, risks []string, confidence float64) {
	L().Info().
		Str("event_type", eventType).
		Str("conversation_id", conversationID).
		Str("query_preview", queryPreview).
		Strs("risks", risks).
		Float64("confidence", confidence).
		Time("emitted_at", time.Now()).
		Msg("security event")
}

// ToolInvoked logs one tool execution for the audit trail.
func ToolInvoked(toolName string, durationMs int64, isError bool) {
	ev := L().Info()
	if isError {
		ev = L().Warn()
	}
	ev.Str("tool_name", toolName).
		Int64("duration_ms", durationMs).
		Bool("is_error", isError).
		Msg("tool invoked")
}
