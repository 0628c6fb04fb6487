package tools

import (
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// FindFileByNameTool locates a file anywhere in the workspace tree by its
// base name, returning the path relative to the workspace root.
type FindFileByNameTool struct{ ws *workspace.Workspace }

func NewFindFileByNameTool(ws *workspace.Workspace) *FindFileByNameTool {
	return &FindFileByNameTool{ws: ws}
}

func (t *FindFileByNameTool) Name() string { return "find_file_by_name" }

func (t *FindFileByNameTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Search the whole workspace tree for a file with the given base name and return its relative path.",
		Parameters: map[string]domain.ParamDescriptor{
			"filename": {Type: "string", Required: true, Description: "Base filename to search for"},
		},
		Examples: []string{"find secure_agent.py", "where is config.toml"},
	}
}

func (t *FindFileByNameTool) Execute(params map[string]any) (domain.ToolResult, error) {
	name, err := extractString(params, "filename", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}

	rel, werr := t.ws.FindFileByName(name)
	if werr != nil {
		return errResult(werr), nil
	}
	return domain.ToolResult{Content: rel}, nil
}
