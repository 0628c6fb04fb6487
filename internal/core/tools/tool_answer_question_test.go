package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

type stubAnalysisClient struct {
	lastUserPrompt string
	answer         string
	err            error
}

func (s *stubAnalysisClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.lastUserPrompt = userPrompt
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func TestAnswerQuestionTool_ComposesFileHeaders(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("a file-ops agent"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ws, err := workspace.New(dir, workspace.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	client := &stubAnalysisClient{answer: "it manages files"}
	tool := NewAnswerQuestionTool(ws, client, DefaultAnalysisConfig())

	result, err := tool.Execute(map[string]any{"question": "what does this do"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", result.Content)
	}
	if result.Content != "it manages files" {
		t.Fatalf("expected stubbed answer, got %q", result.Content)
	}
	if !strings.Contains(client.lastUserPrompt, "=== readme.txt ===") {
		t.Fatalf("expected prompt to contain file header, got %q", client.lastUserPrompt)
	}
}

func TestAnswerQuestionTool_NoClientConfigured(t *testing.T) {
	dir := t.TempDir()
	ws, err := workspace.New(dir, workspace.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}

	tool := NewAnswerQuestionTool(ws, nil, DefaultAnalysisConfig())
	result, err := tool.Execute(map[string]any{"question": "anything"})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result when no analysis client is configured")
	}
}
