// Package protocol implements the Protocol Adapter (C10): a JSON-RPC 2.0
// surface over the Tool Registry/Executor, served over stdio or HTTP.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandboxagent/sandboxagent/internal/core/tools"
	"github.com/sandboxagent/sandboxagent/internal/domain"
)

const (
	serverName    = "sandboxagent"
	serverVersion = "0.1.0"
)

// NewMCPServer builds an mcp-go server exposing every tool the executor
// knows about: all built-in file-operation tools, plus
// answer_question_about_files when the executor has an analysis client.
func NewMCPServer(executor *tools.ToolExecutor) *server.MCPServer {
	srv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, false),
	)

	for _, desc := range executor.Descriptors() {
		srv.AddTool(buildTool(desc), makeHandler(executor, desc.Name))
	}

	return srv
}

// buildTool translates one domain.ToolDescriptor into an mcp.Tool,
// carrying over its JSON-Schema-draft-07-subset parameter shape.
func buildTool(desc domain.ToolDescriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	for name, p := range desc.Parameters {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(name, propOpts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(name, propOpts...))
		}
	}
	return mcp.NewTool(desc.Name, opts...)
}

// makeHandler adapts one tool's execution through the shared
// ToolExecutor. Each JSON-RPC call gets its own ToolChainContext —
// tools/call is stateless across calls, unlike the Reasoning Loop's
// per-request scratchpad.
func makeHandler(executor *tools.ToolExecutor, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, ok := req.Params.Arguments.(map[string]any)
		if !ok {
			args = map[string]any{}
		}
		tcc := domain.NewToolChainContext()
		result, execErr := executor.Execute(toolName, args, tcc)
		if execErr != nil {
			return mcp.NewToolResultError(execErr.Error()), nil
		}
		if result.IsError {
			return mcp.NewToolResultError(result.Content), nil
		}
		return mcp.NewToolResultText(result.Content), nil
	}
}

// marshalResponse is a small helper shared by the stdio and HTTP
// transports so both serialize an mcp.JSONRPCMessage identically.
func marshalResponse(msg mcp.JSONRPCMessage) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to marshal response: %w", err)
	}
	return data, nil
}
