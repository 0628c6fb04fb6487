package tools

import (
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ListFilesRecursiveTool walks the full workspace tree, excluding hidden
// directories and __pycache__, newest first.
type ListFilesRecursiveTool struct{ ws *workspace.Workspace }

func NewListFilesRecursiveTool(ws *workspace.Workspace) *ListFilesRecursiveTool {
	return &ListFilesRecursiveTool{ws: ws}
}

func (t *ListFilesRecursiveTool) Name() string { return "list_files_recursive" }

func (t *ListFilesRecursiveTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Recursively list every file under the workspace root, newest first, skipping hidden directories and __pycache__.",
		Parameters:  map[string]domain.ParamDescriptor{},
		Examples:    []string{"find every file in any subfolder"},
	}
}

func (t *ListFilesRecursiveTool) Execute(params map[string]any) (domain.ToolResult, error) {
	files, err := t.ws.ListFilesRecursive()
	if err != nil {
		return errResult(err), nil
	}
	if len(files) == 0 {
		return domain.ToolResult{Content: "(workspace tree has no files)"}, nil
	}
	return domain.ToolResult{Content: strings.Join(files, "\n")}, nil
}
