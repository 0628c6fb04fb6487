package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

const (
	// DefaultTimeout is the maximum duration for any single tool call,
	// matching the reasoning loop's minimum tool-call deadline.
	DefaultTimeout = 30 * time.Second
)

// listingTools produces newline-separated bare names or relative paths —
// the executor parses their output directly into discovered_files. Tools
// not in this set (e.g. list_tree, whose output is a decorated ASCII
// tree) are excluded from that parsing.
var listingTools = map[string]bool{
	"list_files":            true,
	"list_directories":      true,
	"list_all":               true,
	"list_files_recursive":  true,
}

// ToolExecutor is the central coordinator for all tool operations (C3). It
// looks up a tool by name, enforces a timeout, logs every invocation, and
// folds the outcome into the caller's ToolChainContext.
type ToolExecutor struct {
	ws      *workspace.Workspace
	tools   map[string]Tool
	logger  *ToolLogger
	timeout time.Duration
}

// NewToolExecutor creates an executor bound to a workspace and registers
// the built-in file-operation tools plus, when analysis is non-nil, the
// answer_question_about_files analysis tool.
func NewToolExecutor(ws *workspace.Workspace, logger *ToolLogger, analysis AnalysisClient) *ToolExecutor {
	executor := &ToolExecutor{
		ws:      ws,
		tools:   make(map[string]Tool),
		logger:  logger,
		timeout: DefaultTimeout,
	}
	executor.registerBuiltinTools(analysis)
	return executor
}

// registerBuiltinTools initializes and registers all available tools.
// Adding a new tool requires only creating the tool file and adding a
// line here — the executor handles everything else.
func (e *ToolExecutor) registerBuiltinTools(analysis AnalysisClient) {
	builtins := []Tool{
		NewListFilesTool(e.ws),
		NewListDirectoriesTool(e.ws),
		NewListAllTool(e.ws),
		NewListFilesRecursiveTool(e.ws),
		NewListTreeTool(e.ws),
		NewReadFileTool(e.ws),
		NewReadFileByPathTool(e.ws),
		NewWriteFileTool(e.ws),
		NewDeleteFileTool(e.ws),
		NewFindFileByNameTool(e.ws),
		NewFindLargestFileTool(e.ws),
	}
	if analysis != nil {
		builtins = append(builtins, NewAnswerQuestionTool(e.ws, analysis, DefaultAnalysisConfig()))
	}

	for _, tool := range builtins {
		e.tools[tool.Name()] = tool
	}
}

// Execute runs a named tool with the given parameters and folds the
// outcome into tcc. This is the Reasoning Loop's sole entry point for
// invoking a tool.
//
// Special resolution: if toolName == "read_file" and the "filename"
// argument is the literal "LATEST_FILE", the newest file in the
// workspace is substituted before the tool runs.
func (e *ToolExecutor) Execute(toolName string, params map[string]any, tcc *domain.ToolChainContext) (domain.ToolResult, error) {
	tool, exists := e.tools[toolName]
	if !exists {
		result := domain.ToolResult{
			Content: fmt.Sprintf("Unknown tool: %q. Available tools: %v", toolName, e.ToolNames()),
			IsError: true,
		}
		e.record(toolName, params, result, 0)
		return result, nil
	}

	if toolName == "read_file" {
		if name, _ := params["filename"].(string); name == "LATEST_FILE" {
			if resolved, ok := e.resolveLatestFile(); ok {
				params["filename"] = resolved
			}
		}
	}

	start := time.Now()
	result := e.runWithTimeout(tool, params)
	duration := time.Since(start)

	if tcc != nil {
		e.updateContext(tcc, toolName, params, result)
	}
	e.record(toolName, params, result, duration.Milliseconds())

	return result, nil
}

// runWithTimeout invokes the tool on its own goroutine so a hung
// implementation cannot block the reasoning loop past e.timeout.
func (e *ToolExecutor) runWithTimeout(tool Tool, params map[string]any) domain.ToolResult {
	resultCh := make(chan domain.ToolResult, 1)

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	go func() {
		result, err := tool.Execute(params)
		if err != nil {
			result = domain.ToolResult{Content: err.Error(), IsError: true}
		}
		resultCh <- result
	}()

	select {
	case <-ctx.Done():
		return domain.ToolResult{
			Content: fmt.Sprintf("Tool %q timed out after %s", tool.Name(), e.timeout),
			IsError: true,
		}
	case result := <-resultCh:
		return result
	}
}

// updateContext folds a tool outcome into the per-request scratchpad per
// listings append to discovered_files, file reads populate
// file_content_cache, and every call appends a trimmed operation-history
// entry.
func (e *ToolExecutor) updateContext(tcc *domain.ToolChainContext, toolName string, params map[string]any, result domain.ToolResult) {
	if !result.IsError {
		if listingTools[toolName] {
			var names []string
			for _, line := range strings.Split(result.Content, "\n") {
				line = strings.TrimSuffix(strings.TrimSpace(line), "/")
				if line != "" {
					names = append(names, line)
				}
			}
			tcc.RecordDiscoveredFiles(names)
		}

		if toolName == "read_file" || toolName == "read_file_by_path" {
			key, _ := params["filename"].(string)
			if key == "" {
				key, _ = params["path"].(string)
			}
			if key != "" {
				tcc.FileContentCache[key] = result.Content
			}
		}
	}

	tcc.ToolOutputs[toolName] = result.Content
	tcc.RecordOperation(fmt.Sprintf("%s(%s) -> %s", toolName, summarizeParams(params), statusWord(result)))
}

func statusWord(result domain.ToolResult) string {
	if result.IsError {
		return "error"
	}
	return "ok"
}

func summarizeParams(params map[string]any) string {
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ", ")
}

// resolveLatestFile lists top-level files and returns the newest one.
func (e *ToolExecutor) resolveLatestFile() (string, bool) {
	files, err := e.ws.ListFiles()
	if err != nil || len(files) == 0 {
		return "", false
	}
	return files[0], true // ListFiles is newest-first
}

func (e *ToolExecutor) record(toolName string, params map[string]any, result domain.ToolResult, durationMs int64) {
	if e.logger == nil {
		return
	}
	e.logger.Log(ToolLogEntry{
		Timestamp:  time.Now(),
		ToolName:   toolName,
		Params:     params,
		Result:     result,
		DurationMs: durationMs,
	})
}

// GetTool returns a tool by name, if it exists.
func (e *ToolExecutor) GetTool(name string) (Tool, bool) {
	tool, exists := e.tools[name]
	return tool, exists
}

// ToolNames returns the names of all registered tools.
func (e *ToolExecutor) ToolNames() []string {
	names := make([]string, 0, len(e.tools))
	for name := range e.tools {
		names = append(names, name)
	}
	return names
}

// Descriptors returns every registered tool's metadata, ready to be
// rendered into an LLM prompt or a JSON-RPC tools/list response.
func (e *ToolExecutor) Descriptors() []domain.ToolDescriptor {
	out := make([]domain.ToolDescriptor, 0, len(e.tools))
	for _, tool := range e.tools {
		out = append(out, tool.Descriptor())
	}
	return out
}

// RootPath returns the sandbox root for display purposes.
func (e *ToolExecutor) RootPath() string {
	return e.ws.Root()
}
