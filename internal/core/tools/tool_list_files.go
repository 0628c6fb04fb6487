package tools

import (
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/apperr"
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// ListFilesTool lists the workspace's top-level regular files, newest
// modification time first.
type ListFilesTool struct{ ws *workspace.Workspace }

func NewListFilesTool(ws *workspace.Workspace) *ListFilesTool { return &ListFilesTool{ws: ws} }

func (t *ListFilesTool) Name() string { return "list_files" }

func (t *ListFilesTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "List regular files at the top level of the workspace, newest first.",
		Parameters:  map[string]domain.ParamDescriptor{},
		Examples:    []string{"list the files here", "what files do I have"},
	}
}

func (t *ListFilesTool) Execute(params map[string]any) (domain.ToolResult, error) {
	files, err := t.ws.ListFiles()
	if err != nil {
		return errResult(err), nil
	}
	if len(files) == 0 {
		return domain.ToolResult{Content: "(workspace has no top-level files)"}, nil
	}
	return domain.ToolResult{Content: strings.Join(files, "\n")}, nil
}

// errResult renders any error (typed or not) into a soft ToolResult so the
// reasoning loop can observe it and plan recovery, per §4.2's propagation
// policy — workspace errors are surfaced verbatim, not as a hard Go error.
func errResult(err error) domain.ToolResult {
	if ae, ok := apperr.As(err); ok {
		return domain.ToolResult{Content: ae.Error(), IsError: true}
	}
	return domain.ToolResult{Content: err.Error(), IsError: true}
}
