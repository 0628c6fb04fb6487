package tools

import (
	"fmt"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// WriteFileTool creates or replaces a top-level workspace file.
type WriteFileTool struct{ ws *workspace.Workspace }

func NewWriteFileTool(ws *workspace.Workspace) *WriteFileTool { return &WriteFileTool{ws: ws} }

func (t *WriteFileTool) Name() string { return "write_file" }

func (t *WriteFileTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Write content to a top-level workspace file, creating it if needed. mode is 'overwrite' (default) or 'append'.",
		Parameters: map[string]domain.ParamDescriptor{
			"filename": {Type: "string", Required: true, Description: "Bare filename, no path separators"},
			"content":  {Type: "string", Required: true, Description: "Text to write"},
			"mode":     {Type: "string", Required: false, Description: "'overwrite' or 'append', default 'overwrite'"},
		},
		Examples: []string{"create notes.txt with 'todo list'", "append a line to log.txt"},
	}
}

func (t *WriteFileTool) Execute(params map[string]any) (domain.ToolResult, error) {
	name, err := extractString(params, "filename", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}
	content, err := extractString(params, "content", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}
	modeStr, err := extractStringDefault(params, "mode", string(workspace.ModeOverwrite))
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}

	if werr := t.ws.WriteFile(name, content, workspace.WriteMode(modeStr)); werr != nil {
		return errResult(werr), nil
	}
	return domain.ToolResult{Content: fmt.Sprintf("wrote %d bytes to %q (%s)", len(content), name, modeStr)}, nil
}
