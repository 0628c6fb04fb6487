package tools

import (
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ListAllTool lists top-level files and directories together, newest
// first, with directory names suffixed by "/".
type ListAllTool struct{ ws *workspace.Workspace }

func NewListAllTool(ws *workspace.Workspace) *ListAllTool { return &ListAllTool{ws: ws} }

func (t *ListAllTool) Name() string { return "list_all" }

func (t *ListAllTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "List all top-level files and directories together, newest first, directories suffixed by '/'.",
		Parameters:  map[string]domain.ParamDescriptor{},
		Examples:    []string{"lista tutti i files e directory", "list everything here"},
	}
}

func (t *ListAllTool) Execute(params map[string]any) (domain.ToolResult, error) {
	all, err := t.ws.ListAll()
	if err != nil {
		return errResult(err), nil
	}
	if len(all) == 0 {
		return domain.ToolResult{Content: "(workspace is empty)"}, nil
	}
	return domain.ToolResult{Content: strings.Join(all, "\n")}, nil
}
