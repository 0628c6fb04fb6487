package tools

import (
	"fmt"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// DeleteFileTool removes a top-level workspace file.
type DeleteFileTool struct{ ws *workspace.Workspace }

func NewDeleteFileTool(ws *workspace.Workspace) *DeleteFileTool { return &DeleteFileTool{ws: ws} }

func (t *DeleteFileTool) Name() string { return "delete_file" }

func (t *DeleteFileTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Delete a top-level workspace file by name. Refuses to delete directories.",
		Parameters: map[string]domain.ParamDescriptor{
			"filename": {Type: "string", Required: true, Description: "Bare filename, no path separators"},
		},
		Examples: []string{"delete scratch.txt"},
	}
}

func (t *DeleteFileTool) Execute(params map[string]any) (domain.ToolResult, error) {
	name, err := extractString(params, "filename", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}

	if werr := t.ws.DeleteFile(name); werr != nil {
		return errResult(werr), nil
	}
	return domain.ToolResult{Content: fmt.Sprintf("deleted %q", name)}, nil
}
