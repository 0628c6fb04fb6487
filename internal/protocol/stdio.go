package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"time"
)

// parseErrorResponse is the fixed reply for a line that isn't valid JSON,
// {id: null, error: {code: -32700}}.
type parseErrorResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Error   rpcError    `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ServeStdio reads one JSON-RPC message per line from in, dispatches it
// through srv, and writes one JSON-RPC message per line to out. A line
// that fails to parse as JSON gets the fixed parse-error reply and
// reading continues — it never terminates the loop.
func ServeStdio(ctx context.Context, srv Dispatcher, metrics *Metrics, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	writer := bufio.NewWriter(out)
	defer writer.Flush()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		if !json.Valid(line) {
			metrics.RecordRequest(0, true, "")
			if err := writeLine(writer, parseErrorResponse{
				JSONRPC: "2.0",
				ID:      nil,
				Error:   rpcError{Code: CodeParseError, Message: "Parse error"},
			}); err != nil {
				return err
			}
			continue
		}

		toolName := extractToolName(line)
		start := time.Now()
		resp := srv.HandleMessage(ctx, append([]byte(nil), line...))
		isErr := responseIsError(resp)
		metrics.RecordRequest(time.Since(start), isErr, toolName)

		if resp == nil {
			continue
		}
		data, err := marshalResponse(resp)
		if err != nil {
			return err
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if _, err := writer.Write([]byte("\n")); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeLine(w *bufio.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return err
	}
	return w.Flush()
}
