package tools

import (
	"fmt"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// FindLargestFileTool locates the largest regular file in the workspace
// tree by byte size. Exists to support chained requests such as "what's
// in the largest file".
type FindLargestFileTool struct{ ws *workspace.Workspace }

func NewFindLargestFileTool(ws *workspace.Workspace) *FindLargestFileTool {
	return &FindLargestFileTool{ws: ws}
}

func (t *FindLargestFileTool) Name() string { return "find_largest_file" }

func (t *FindLargestFileTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Find the largest regular file anywhere in the workspace and report its path and size.",
		Parameters:  map[string]domain.ParamDescriptor{},
		Examples:    []string{"what's the biggest file here", "find the largest file"},
	}
}

func (t *FindLargestFileTool) Execute(params map[string]any) (domain.ToolResult, error) {
	path, size, err := t.ws.FindLargestFile()
	if err != nil {
		return errResult(err), nil
	}
	return domain.ToolResult{Content: fmt.Sprintf("%s (%d bytes)", path, size)}, nil
}
