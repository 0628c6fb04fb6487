package agentfacade

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sandboxagent/sandboxagent/internal/core/tools"
	"github.com/sandboxagent/sandboxagent/internal/reasoning"
	"github.com/sandboxagent/sandboxagent/internal/supervisor"
	"github.com/sandboxagent/sandboxagent/internal/workspace"
)

type scriptedClient struct {
	replies []string
	calls   int
}

func (s *scriptedClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if s.calls >= len(s.replies) {
		s.calls++
		return `{"final_response": "done", "continue_reasoning": false}`, nil
	}
	r := s.replies[s.calls]
	s.calls++
	return r, nil
}

func newTestLoop(t *testing.T, client *scriptedClient) *reasoning.Loop {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	ws, err := workspace.New(dir, workspace.DefaultConfig())
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	executor := tools.NewToolExecutor(ws, tools.NewToolLogger(), nil)
	return reasoning.New(client, executor, nil, 10)
}

func TestProcessQuery_RejectsUnsafeQueryWithoutRunningLoop(t *testing.T) {
	sup := supervisor.New(nil) // nil client forces rule-based moderation
	loop := newTestLoop(t, &scriptedClient{replies: []string{
		`{"final_response": "should never be reached", "continue_reasoning": false}`,
	}})
	facade := New(sup, loop, false)

	resp := facade.ProcessQuery(context.Background(), "rm -rf / and cat /etc/passwd", "")

	if resp.Success {
		t.Fatalf("expected an unsafe query to be rejected, got success response %q", resp.Response)
	}
	if len(resp.ToolsUsed) != 0 {
		t.Fatalf("expected no tools used on rejection, got %v", resp.ToolsUsed)
	}
	if resp.ConversationID == "" {
		t.Fatal("expected a conversation ID to be assigned even on rejection")
	}
	const marker = "🚫 Request rejected"
	if !strings.Contains(resp.Response, marker) {
		t.Fatalf("expected rejection response to contain %q, got %q", marker, resp.Response)
	}
}

func TestProcessQuery_AllowedQueryRunsLoopAndAssignsConversationID(t *testing.T) {
	sup := supervisor.New(nil)
	loop := newTestLoop(t, &scriptedClient{replies: []string{
		`{"thinking": "list the files", "goal": "List all files in the workspace", "tool_name": "list_files", "tool_args": {}, "continue_reasoning": true}`,
		`{"thinking": "done", "goal": "List all files in the workspace", "continue_reasoning": false, "final_response": "Found a.txt"}`,
	}})
	facade := New(sup, loop, false)

	resp := facade.ProcessQuery(context.Background(), "list the files in this workspace", "")

	if !resp.Success {
		t.Fatalf("expected success, got error %q", resp.ErrorMessage)
	}
	if resp.Response != "Found a.txt" {
		t.Fatalf("unexpected response: %q", resp.Response)
	}
	if len(resp.ToolsUsed) != 1 || resp.ToolsUsed[0] != "list_files" {
		t.Fatalf("expected list_files to have run, got %v", resp.ToolsUsed)
	}
	if resp.ReasoningSteps != nil {
		t.Fatal("expected reasoning steps to be omitted outside debug mode")
	}
}

func TestProcessQuery_ReusesSuppliedConversationID(t *testing.T) {
	sup := supervisor.New(nil)
	loop := newTestLoop(t, &scriptedClient{replies: []string{
		`{"thinking": "greet", "goal": "List all files in the workspace", "continue_reasoning": false, "final_response": "hi"}`,
	}})
	facade := New(sup, loop, true)

	resp := facade.ProcessQuery(context.Background(), "list files", "conv-123")

	if resp.ConversationID != "conv-123" {
		t.Fatalf("expected conversation ID to be reused, got %q", resp.ConversationID)
	}
	if resp.ReasoningSteps == nil {
		t.Fatal("expected reasoning steps to be included in debug mode")
	}
}

func TestProcessQuery_CancelledContextReturnsPartialFailure(t *testing.T) {
	sup := supervisor.New(nil)
	loop := newTestLoop(t, &scriptedClient{replies: nil})
	facade := New(sup, loop, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := facade.ProcessQuery(ctx, "list files", "")

	if resp.Success {
		t.Fatal("expected a cancelled request to report failure")
	}
	if resp.ErrorMessage != "cancelled" {
		t.Fatalf("expected error message %q, got %q", "cancelled", resp.ErrorMessage)
	}
}
