package protocol

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPServer wires the JSON-RPC /mcp endpoint alongside /health and
// /metrics, using a plain mux/CORS/writeJSON shape generalized from a
// single-purpose scan API to a generic JSON-RPC + operational-endpoint
// surface.
type HTTPServer struct {
	mux       *http.ServeMux
	dispatch  Dispatcher
	metrics   *Metrics
	startedAt time.Time
}

// NewHTTPServer builds the handler. dispatch is typically the
// *server.MCPServer returned by NewMCPServer.
func NewHTTPServer(dispatch Dispatcher, metrics *Metrics) *HTTPServer {
	s := &HTTPServer{
		mux:       http.NewServeMux(),
		dispatch:  dispatch,
		metrics:   metrics,
		startedAt: time.Now(),
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler, applying CORS for local tooling
// before dispatching to the registered routes.
func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	s.mux.ServeHTTP(w, r)
}

func (s *HTTPServer) registerRoutes() {
	s.mux.HandleFunc("POST /mcp", s.handleRPC)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
}

func (s *HTTPServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, parseErrorResponse{
			JSONRPC: "2.0", ID: nil,
			Error: rpcError{Code: CodeParseError, Message: "Parse error"},
		})
		return
	}

	if !json.Valid(body) {
		s.metrics.RecordRequest(0, true, "")
		writeJSON(w, http.StatusOK, parseErrorResponse{
			JSONRPC: "2.0", ID: nil,
			Error: rpcError{Code: CodeParseError, Message: "Parse error"},
		})
		return
	}

	toolName := extractToolName(body)
	start := time.Now()
	resp := s.dispatch.HandleMessage(r.Context(), json.RawMessage(body))
	s.metrics.RecordRequest(time.Since(start), responseIsError(resp), toolName)

	if resp == nil {
		w.WriteHeader(http.StatusAccepted)
		return
	}
	data, err := marshalResponse(resp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Seconds(),
	})
}

func (s *HTTPServer) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("protocol: error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
