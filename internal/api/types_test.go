package api_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"playbridge/internal/api"
)

func TestRPCResponseOmitsAbsentMember(t *testing.T) {
	data, err := json.Marshal(api.RPCResponse{
		JSONRPC: api.JSONRPCVersion,
		ID:      json.RawMessage(`1`),
		Error:   &api.RPCError{Code: api.CodeMethodNotFound, Message: "method not found"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), `"result"`) {
		t.Fatalf("error response carried result: %s", data)
	}

	data, err = json.Marshal(api.RPCResponse{JSONRPC: api.JSONRPCVersion, ID: json.RawMessage(`2`), Result: json.RawMessage(`null`)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"result":null`) {
		t.Fatalf("success response must carry result: %s", data)
	}
}

func TestFormatTime(t *testing.T) {
	if got := api.FormatTime(time.Time{}); got != "" {
		t.Fatalf("zero time rendered %q", got)
	}
	ts := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)
	if got := api.FormatTime(ts); got != "2026-03-04T05:06:07.008Z" {
		t.Fatalf("unexpected format %q", got)
	}
}
