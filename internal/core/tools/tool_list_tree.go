package tools

import (
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ListTreeTool renders the workspace as a formatted ASCII tree.
type ListTreeTool struct{ ws *workspace.Workspace }

func NewListTreeTool(ws *workspace.Workspace) *ListTreeTool { return &ListTreeTool{ws: ws} }

func (t *ListTreeTool) Name() string { return "list_tree" }

func (t *ListTreeTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Render the workspace directory structure as an indented ASCII tree.",
		Parameters:  map[string]domain.ParamDescriptor{},
		Examples:    []string{"show me the directory structure", "display the file tree"},
	}
}

func (t *ListTreeTool) Execute(params map[string]any) (domain.ToolResult, error) {
	lines, err := t.ws.ListTree()
	if err != nil {
		return errResult(err), nil
	}
	if len(lines) == 0 {
		return domain.ToolResult{Content: "(workspace is empty)"}, nil
	}

	var b strings.Builder
	b.WriteString(".\n")
	for _, l := range lines {
		b.WriteString(strings.Repeat("  ", l.Depth))
		b.WriteString("├── ")
		b.WriteString(l.Name)
		if l.IsDir {
			b.WriteString("/")
		}
		b.WriteString("\n")
	}
	return domain.ToolResult{Content: strings.TrimRight(b.String(), "\n")}, nil
}
