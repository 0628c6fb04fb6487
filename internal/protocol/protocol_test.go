package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// stubDispatcher is a Dispatcher double that records every message it was
// asked to handle and replays a scripted response, avoiding any
// dependency on mcp-go's own JSON-RPC routing internals for these tests.
type stubDispatcher struct {
	lastMessage json.RawMessage
	reply       mcp.JSONRPCMessage
}

func (s *stubDispatcher) HandleMessage(ctx context.Context, message json.RawMessage) mcp.JSONRPCMessage {
	s.lastMessage = message
	return s.reply
}

func TestServeStdio_ParseErrorRepliesAndContinuesReading(t *testing.T) {
	in := strings.NewReader("not json\n{\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/list\"}\n")
	var out bytes.Buffer
	metrics := NewMetrics()
	dispatch := &stubDispatcher{}

	if err := ServeStdio(context.Background(), dispatch, metrics, in, &out); err != nil {
		t.Fatalf("ServeStdio returned error: %v", err)
	}

	// The stub's reply is nil (a notification with no response), so only
	// the malformed line's parse-error reply is written to out.
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 response line (the parse error), got %d: %q", len(lines), out.String())
	}

	var parseErr parseErrorResponse
	if err := json.Unmarshal([]byte(lines[0]), &parseErr); err != nil {
		t.Fatalf("first line is not a parse-error response: %v", err)
	}
	if parseErr.Error.Code != CodeParseError {
		t.Fatalf("expected code %d, got %d", CodeParseError, parseErr.Error.Code)
	}
	if parseErr.ID != nil {
		t.Fatalf("expected id: null on parse error, got %v", parseErr.ID)
	}

	if dispatch.lastMessage == nil {
		t.Fatal("expected the second, valid line to reach the dispatcher")
	}

	snap := metrics.Snapshot()
	if snap.TotalRequests != 2 {
		t.Fatalf("expected 2 total requests counted, got %d", snap.TotalRequests)
	}
}

func TestHTTPServer_HealthAndMetrics(t *testing.T) {
	dispatch := &stubDispatcher{}
	metrics := NewMetrics()
	srv := NewHTTPServer(dispatch, metrics)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode metrics snapshot: %v", err)
	}
}

func TestHTTPServer_McpPostDispatchesAndRecordsMetrics(t *testing.T) {
	dispatch := &stubDispatcher{}
	metrics := NewMetrics()
	srv := NewHTTPServer(dispatch, metrics)

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"list_files","arguments":{}}}`
	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	// A nil reply from the dispatcher (notification semantics) yields 202
	// Accepted with no body.
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if dispatch.lastMessage == nil {
		t.Fatal("expected the request body to reach the dispatcher")
	}

	snap := metrics.Snapshot()
	if snap.ToolCallsByName["list_files"] != 1 {
		t.Fatalf("expected list_files to be counted once, got %v", snap.ToolCallsByName)
	}
}

func TestHTTPServer_InvalidJSONReturnsParseError(t *testing.T) {
	dispatch := &stubDispatcher{}
	metrics := NewMetrics()
	srv := NewHTTPServer(dispatch, metrics)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp parseErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a parse-error body: %v", err)
	}
	if resp.Error.Code != CodeParseError {
		t.Fatalf("expected code %d, got %d", CodeParseError, resp.Error.Code)
	}
}

func TestMetrics_SlidingWindowDropsOldestSample(t *testing.T) {
	m := NewMetrics()
	for i := 0; i < responseTimeCapacity+10; i++ {
		m.RecordRequest(time.Millisecond, false, "")
	}
	if len(m.responseTimes) != responseTimeCapacity {
		t.Fatalf("expected window capped at %d, got %d", responseTimeCapacity, len(m.responseTimes))
	}
	snap := m.Snapshot()
	if snap.TotalRequests != int64(responseTimeCapacity+10) {
		t.Fatalf("expected total_requests to count every call, got %d", snap.TotalRequests)
	}
}

func TestExtractToolName(t *testing.T) {
	msg := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"read_file","arguments":{}}}`)
	if got := extractToolName(msg); got != "read_file" {
		t.Fatalf("expected read_file, got %q", got)
	}
	msg = []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if got := extractToolName(msg); got != "" {
		t.Fatalf("expected empty tool name for tools/list, got %q", got)
	}
}
