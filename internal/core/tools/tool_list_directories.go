package tools

import (
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ListDirectoriesTool lists top-level directories, newest first.
type ListDirectoriesTool struct{ ws *workspace.Workspace }

func NewListDirectoriesTool(ws *workspace.Workspace) *ListDirectoriesTool {
	return &ListDirectoriesTool{ws: ws}
}

func (t *ListDirectoriesTool) Name() string { return "list_directories" }

func (t *ListDirectoriesTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "List directories at the top level of the workspace, newest first.",
		Parameters:  map[string]domain.ParamDescriptor{},
		Examples:    []string{"what folders are here", "list directories"},
	}
}

func (t *ListDirectoriesTool) Execute(params map[string]any) (domain.ToolResult, error) {
	dirs, err := t.ws.ListDirectories()
	if err != nil {
		return errResult(err), nil
	}
	if len(dirs) == 0 {
		return domain.ToolResult{Content: "(workspace has no top-level directories)"}, nil
	}
	return domain.ToolResult{Content: strings.Join(dirs, "\n")}, nil
}
