package protocol

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

// Dispatcher is the capability both transports need from the underlying
// mcp-go server: decode one JSON-RPC message and produce one reply
// (nil for a notification that expects none). *server.MCPServer
// implements this directly.
type Dispatcher interface {
	HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage
}

// responseIsError reports whether msg is a JSON-RPC error reply, for the
// metrics error counter.
func responseIsError(msg mcp.JSONRPCMessage) bool {
	if msg == nil {
		return false
	}
	_, isErr := msg.(mcp.JSONRPCError)
	return isErr
}

// extractToolName pulls the "name" param out of a tools/call request for
// the tool-call histogram. Returns "" for any other method or malformed
// payload — best-effort, never fails the request.
func extractToolName(raw []byte) string {
	var probe struct {
		Method string `json:"method"`
		Params struct {
			Name string `json:"name"`
		} `json:"params"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	if probe.Method != "tools/call" {
		return ""
	}
	return probe.Params.Name
}
