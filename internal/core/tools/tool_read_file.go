package tools

import (
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ReadFileTool reads a top-level workspace file by bare name. The
// executor resolves the sentinel filename "LATEST_FILE" to the newest
// top-level file before this tool ever sees it.
type ReadFileTool struct{ ws *workspace.Workspace }

func NewReadFileTool(ws *workspace.Workspace) *ReadFileTool { return &ReadFileTool{ws: ws} }

func (t *ReadFileTool) Name() string { return "read_file" }

func (t *ReadFileTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Read the full content of a top-level workspace file by name. Use \"LATEST_FILE\" to read the most recently modified file.",
		Parameters: map[string]domain.ParamDescriptor{
			"filename": {Type: "string", Required: true, Description: "Bare filename, no path separators"},
		},
		Examples: []string{"read config.txt", "show me the content of LATEST_FILE"},
	}
}

func (t *ReadFileTool) Execute(params map[string]any) (domain.ToolResult, error) {
	name, err := extractString(params, "filename", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}

	content, werr := t.ws.ReadFile(name)
	if werr != nil {
		return errResult(werr), nil
	}
	return domain.ToolResult{Content: content}, nil
}
