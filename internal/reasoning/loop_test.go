package reasoning

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sandboxagent/sandboxagent/internal/core/tools"
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

func newTestExecutor(t *testing.T, dir string) *tools.ToolExecutor {
	t.Helper()
	ws, err := workspace.New(dir, workspace.DefaultConfig())
	if err != nil {
		t.Fatalf("failed to create workspace: %v", err)
	}
	return tools.NewToolExecutor(ws, tools.NewToolLogger(), nil)
}

func TestRun_FinalResponseFirstIteration(t *testing.T) {
	dir := t.TempDir()
	executor := newTestExecutor(t, dir)
	client := &scriptedClient{replies: []string{
		`{"thinking": "the user just wants a greeting", "goal": "Greet the user", "continue_reasoning": false, "final_response": "Hello! How can I help with your files?"}`,
	}}

	loop := New(client, executor, nil, 10)
	out := loop.Run(context.Background(), "hello there")

	if out.Response != "Hello! How can I help with your files?" {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if len(out.ToolsUsed) != 0 {
		t.Fatalf("expected no tools used, got %v", out.ToolsUsed)
	}
}

func TestRun_ToolCallThenFinalResponse(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello world"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	executor := newTestExecutor(t, dir)
	client := &scriptedClient{replies: []string{
		`{"thinking": "I should list the files first", "goal": "Read and analyze the specified file content", "tool_name": "list_files", "tool_args": {}, "continue_reasoning": true}`,
		`{"thinking": "now read a.txt", "goal": "Read and analyze the specified file content", "tool_name": "read_file", "tool_args": {"filename": "a.txt"}, "continue_reasoning": true}`,
		`{"thinking": "done", "goal": "Read and analyze the specified file content", "continue_reasoning": false, "final_response": "a.txt contains: hello world"}`,
	}}

	loop := New(client, executor, nil, 10)
	out := loop.Run(context.Background(), "read a.txt")

	if out.Response != "a.txt contains: hello world" {
		t.Fatalf("unexpected response: %q", out.Response)
	}
	if len(out.ToolsUsed) != 2 || out.ToolsUsed[0] != "list_files" || out.ToolsUsed[1] != "read_file" {
		t.Fatalf("expected list_files then read_file, got %v", out.ToolsUsed)
	}
	if out.GoalCompliance == nil {
		t.Fatal("expected goal compliance to be attached")
	}
}

func TestRun_VagueQueryProducesClarification(t *testing.T) {
	dir := t.TempDir()
	executor := newTestExecutor(t, dir)
	client := &scriptedClient{replies: []string{
		`{"thinking": "unclear what the user wants", "continue_reasoning": true}`,
	}}

	loop := New(client, executor, nil, 10)
	out := loop.Run(context.Background(), "what can you do")

	if out.Goal != goalAmbiguousRequest {
		t.Fatalf("expected AMBIGUOUS_REQUEST goal, got %q", out.Goal)
	}
	if len(out.ToolsUsed) != 0 {
		t.Fatalf("expected no tool execution for an ambiguous request, got %v", out.ToolsUsed)
	}
}

func TestRun_TwoWordFileQueryReachesToolCallNotClarification(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "secure_agent.py"), []byte("print('hi')"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	executor := newTestExecutor(t, dir)
	client := &scriptedClient{replies: []string{
		`{"thinking": "reading the file", "tool_name": "read_file", "tool_args": {"filename": "secure_agent.py"}, "continue_reasoning": true}`,
		`{"thinking": "done", "continue_reasoning": false, "final_response": "secure_agent.py prints a greeting"}`,
	}}

	loop := New(client, executor, nil, 10)
	out := loop.Run(context.Background(), "describe secure_agent.py")

	if out.Goal == goalAmbiguousRequest {
		t.Fatalf("expected a two-word file-bearing query to resolve a concrete goal, got %q", out.Goal)
	}
	if len(out.ToolsUsed) != 1 || out.ToolsUsed[0] != "read_file" {
		t.Fatalf("expected read_file to have run instead of a clarification request, got tools %v, response %q", out.ToolsUsed, out.Response)
	}
	if out.Response != "secure_agent.py prints a greeting" {
		t.Fatalf("expected the final response to come through, got %q", out.Response)
	}
}

func TestRun_MaxIterationsCap(t *testing.T) {
	dir := t.TempDir()
	executor := newTestExecutor(t, dir)
	client := &scriptedClient{}
	for i := 0; i < 20; i++ {
		client.replies = append(client.replies, fmt.Sprintf(`{"thinking": "step %d", "goal": "List all files in the workspace", "continue_reasoning": true}`, i))
	}

	loop := New(client, executor, nil, 3)
	out := loop.Run(context.Background(), "list files please")

	if client.calls != 3 {
		t.Fatalf("expected exactly 3 LLM calls (iteration cap), got %d", client.calls)
	}
	if out.Response == "" {
		t.Fatal("expected a non-empty response even when the cap is hit")
	}
}
