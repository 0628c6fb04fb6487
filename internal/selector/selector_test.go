package selector

import (
	"context"
	"testing"

	"github.com/sandboxagent/sandboxagent/internal/domain"
)

type stubClient struct {
	reply string
	err   error
}

func (s *stubClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return s.reply, s.err
}

var tools = []domain.ToolDescriptor{
	{Name: "read_file", Description: "reads a file", Parameters: map[string]domain.ParamDescriptor{
		"filename": {Type: "string", Required: true},
	}},
	{Name: "list_files", Description: "lists files"},
	{Name: "help", Description: "shows help"},
}

func TestSelect_ExtractsQuotedToolName(t *testing.T) {
	sel := New(&stubClient{reply: "I clearly believe the 'read_file' tool is what we need here."})
	result := sel.Select(context.Background(), "show me notes.txt", tools, "")
	if result.SelectedTool != "read_file" {
		t.Fatalf("expected read_file, got %q", result.SelectedTool)
	}
	if result.Confidence != 0.9 {
		t.Fatalf("expected confidence 0.9 for 'clearly', got %v", result.Confidence)
	}
}

func TestSelect_FallsBackToScoringWhenNoPatternMatches(t *testing.T) {
	sel := New(&stubClient{reply: "list_files seems like the right approach, list_files handles this well."})
	result := sel.Select(context.Background(), "show me everything", tools, "")
	if result.SelectedTool != "list_files" {
		t.Fatalf("expected list_files via scoring, got %q", result.SelectedTool)
	}
}

func TestSelect_NoMatchDefaultsToHelp(t *testing.T) {
	sel := New(&stubClient{reply: "I am not sure what to do here at all."})
	result := sel.Select(context.Background(), "do something vague", tools, "")
	if result.SelectedTool != "help" {
		t.Fatalf("expected default help tool, got %q", result.SelectedTool)
	}
}

func TestSelect_NoClientReturnsFailureFallback(t *testing.T) {
	sel := New(nil)
	result := sel.Select(context.Background(), "anything", tools, "")
	if result.SelectedTool != "help" || result.Confidence != 0.1 {
		t.Fatalf("expected failure fallback, got %+v", result)
	}
}

func TestSelect_ExtractsFilenameParameter(t *testing.T) {
	sel := New(&stubClient{reply: "definitely use 'read_file' on report.txt to satisfy this request."})
	result := sel.Select(context.Background(), "read report.txt", tools, "")
	if result.SelectedTool != "read_file" {
		t.Fatalf("expected read_file, got %q", result.SelectedTool)
	}
	if !result.RequiresParameters {
		t.Fatal("expected RequiresParameters to be true for read_file")
	}
	if result.SuggestedParameters["filename"] != "report.txt" {
		t.Fatalf("expected suggested filename report.txt, got %v", result.SuggestedParameters)
	}
}

func TestSelect_ErrorFallsBack(t *testing.T) {
	sel := New(&stubClient{err: context.DeadlineExceeded})
	result := sel.Select(context.Background(), "anything", tools, "")
	if result.SelectedTool != "help" || result.Confidence != 0.1 {
		t.Fatalf("expected failure fallback on error, got %+v", result)
	}
}
