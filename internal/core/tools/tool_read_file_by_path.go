package tools

import (
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ReadFileByPathTool reads a file anywhere under the workspace root given
// a relative path — typically one previously surfaced by
// list_files_recursive or find_file_by_name.
type ReadFileByPathTool struct{ ws *workspace.Workspace }

func NewReadFileByPathTool(ws *workspace.Workspace) *ReadFileByPathTool {
	return &ReadFileByPathTool{ws: ws}
}

func (t *ReadFileByPathTool) Name() string { return "read_file_by_path" }

func (t *ReadFileByPathTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Read a file anywhere under the workspace, given a path relative to the workspace root.",
		Parameters: map[string]domain.ParamDescriptor{
			"path": {Type: "string", Required: true, Description: "Path relative to the workspace root, e.g. 'src/main.go'"},
		},
		Examples: []string{"read src/util.py"},
	}
}

func (t *ReadFileByPathTool) Execute(params map[string]any) (domain.ToolResult, error) {
	rel, err := extractString(params, "path", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}

	content, werr := t.ws.ReadFileByPath(rel)
	if werr != nil {
		return errResult(werr), nil
	}
	return domain.ToolResult{Content: content}, nil
}
