package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandboxagent/sandboxagent/internal/apperr"
	"github.com/sandboxagent/sandboxagent/internal/domain"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

// AnalysisClient is the capability the answer_question_about_files tool
// needs from the provider layer: a single-shot completion call against
// whichever provider the file_analysis role resolves to, including its
// fallback chain. The tool itself is provider-agnostic.
type AnalysisClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// AnalysisConfig bounds how much of the workspace answer_question_about_files
// is allowed to read into a single prompt.
type AnalysisConfig struct {
	MaxFiles           int
	MaxContentPerFile  int
}

// DefaultAnalysisConfig returns the default limits (10 files / 2048 chars).
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{MaxFiles: 10, MaxContentPerFile: 2048}
}

// AnswerQuestionTool answers a free-form question about the workspace's
// contents by concatenating a bounded sample of files into a prompt and
// delegating to the configured file_analysis LLM.
type AnswerQuestionTool struct {
	ws     *workspace.Workspace
	client AnalysisClient
	cfg    AnalysisConfig
}

func NewAnswerQuestionTool(ws *workspace.Workspace, client AnalysisClient, cfg AnalysisConfig) *AnswerQuestionTool {
	return &AnswerQuestionTool{ws: ws, client: client, cfg: cfg}
}

func (t *AnswerQuestionTool) Name() string { return "answer_question_about_files" }

func (t *AnswerQuestionTool) Descriptor() domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        t.Name(),
		Description: "Answer a natural-language question about the contents of files in the workspace by reading a sample of files and asking an analysis model.",
		Parameters: map[string]domain.ParamDescriptor{
			"question": {Type: "string", Required: true, Description: "The question to answer about the workspace's files"},
		},
		Examples: []string{"what does this project do", "which file defines the main entry point"},
	}
}

const answerQuestionSystemPrompt = `You are a file analysis assistant. You are given the contents of ` +
	`several files from a workspace, each preceded by a "=== path ===" header. Answer the user's ` +
	`question using only the given file contents. If the answer is not contained in them, say so.`

func (t *AnswerQuestionTool) Execute(params map[string]any) (domain.ToolResult, error) {
	question, err := extractString(params, "question", true)
	if err != nil {
		return domain.ToolResult{Content: err.Error(), IsError: true}, nil
	}
	if t.client == nil {
		return domain.ToolResult{Content: "no analysis model is configured", IsError: true}, nil
	}

	files, werr := t.ws.ListFilesRecursive()
	if werr != nil {
		return errResult(werr), nil
	}
	if len(files) > t.cfg.MaxFiles {
		files = files[:t.cfg.MaxFiles]
	}

	var body strings.Builder
	for _, rel := range files {
		content, rerr := t.ws.ReadFileByPath(rel)
		if rerr != nil {
			continue // unreadable files are skipped, not fatal to the analysis
		}
		if len(content) > t.cfg.MaxContentPerFile {
			content = content[:t.cfg.MaxContentPerFile]
		}
		fmt.Fprintf(&body, "=== %s ===\n%s\n\n", rel, content)
	}

	userPrompt := fmt.Sprintf("%s\n\nQuestion: %s", body.String(), question)

	answer, cerr := t.client.Complete(context.Background(), answerQuestionSystemPrompt, userPrompt)
	if cerr != nil {
		ae := apperr.Wrap(apperr.KindModelConfig, cerr, "file analysis model call failed")
		return errResult(ae), nil
	}
	return domain.ToolResult{Content: answer}, nil
}
