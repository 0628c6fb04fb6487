package protocol

import (
	"sync"
	"time"
)

// responseTimeCapacity is the sliding window size kept for metrics: the
// last 1000 response-time samples, older ones discarded. Same ring-buffer
// shape as the Tool Executor's audit trail (internal/core/tools.ToolLogger).
const responseTimeCapacity = 1000

// Metrics accumulates the counters the /metrics endpoint (and a metrics
// MCP client) reads: total requests, a tool-call histogram, an error
// count, and a trailing window of response-time samples.
type Metrics struct {
	mu              sync.Mutex
	startedAt       time.Time
	totalRequests   int64
	errorCount      int64
	toolCallsByName map[string]int64
	responseTimes   []float64
}

// NewMetrics creates a Metrics instance with its clock started now.
func NewMetrics() *Metrics {
	return &Metrics{
		startedAt:       time.Now(),
		toolCallsByName: make(map[string]int64),
	}
}

// RecordRequest folds one dispatched request into the counters. toolName
// is empty for non-tools/call methods.
func (m *Metrics) RecordRequest(d time.Duration, isError bool, toolName string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	if isError {
		m.errorCount++
	}
	if toolName != "" {
		m.toolCallsByName[toolName]++
	}

	m.responseTimes = append(m.responseTimes, d.Seconds())
	if len(m.responseTimes) > responseTimeCapacity {
		m.responseTimes = m.responseTimes[len(m.responseTimes)-responseTimeCapacity:]
	}
}

// Snapshot is the JSON shape returned by GET /metrics.
type Snapshot struct {
	TotalRequests              int64            `json:"total_requests"`
	ToolCallsByName            map[string]int64 `json:"tool_calls_by_name"`
	ErrorCount                 int64            `json:"error_count"`
	AverageResponseTimeSeconds float64          `json:"average_response_time_seconds"`
	UptimeSeconds              float64          `json:"uptime"`
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	byName := make(map[string]int64, len(m.toolCallsByName))
	for k, v := range m.toolCallsByName {
		byName[k] = v
	}

	var avg float64
	if len(m.responseTimes) > 0 {
		var sum float64
		for _, s := range m.responseTimes {
			sum += s
		}
		avg = sum / float64(len(m.responseTimes))
	}

	return Snapshot{
		TotalRequests:              m.totalRequests,
		ToolCallsByName:            byName,
		ErrorCount:                 m.errorCount,
		AverageResponseTimeSeconds: avg,
		UptimeSeconds:              time.Since(m.startedAt).Seconds(),
	}
}
