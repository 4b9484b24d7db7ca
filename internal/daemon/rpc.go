package daemon

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
	"playbridge/internal/logging"
	"playbridge/internal/services"
)

const maxRPCBodyBytes int64 = 1 << 20

// handleRPC serves one JSON-RPC 2.0 call against the bridge dispatcher.
// Params are positional and bound against the method registry.
func (s *apiServer) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if !s.limiter.allow(clientKey(r), time.Now()) {
		s.metrics.rateLimited.Inc()
		writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRPCBodyBytes)
	var req api.RPCRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeRPC(w, api.RPCResponse{
			JSONRPC: api.JSONRPCVersion,
			Error:   &api.RPCError{Code: api.CodeParseError, Message: "parse error"},
		})
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeRPCError(w, req.ID, api.CodeInvalidRequest, "invalid request")
		return
	}
	if req.JSONRPC != api.JSONRPCVersion || req.Method == "" {
		writeRPCError(w, req.ID, api.CodeInvalidRequest, "invalid request")
		return
	}

	method := bridge.Method(req.Method)
	spec, ok := bridge.Lookup(method)
	if !ok {
		writeRPCError(w, req.ID, api.CodeMethodNotFound, "method not found")
		return
	}
	args, err := decodeParams(req.Params)
	if err != nil {
		writeRPCError(w, req.ID, api.CodeInvalidParams, "invalid params: "+err.Error())
		return
	}
	if _, err := spec.Bind(args); err != nil {
		writeRPCError(w, req.ID, api.CodeInvalidParams, "invalid params: "+err.Error())
		return
	}

	ctx := services.WithRequestID(services.WithMethod(r.Context(), req.Method), string(req.ID))
	logger := logging.WithContext(ctx, s.log())
	started := time.Now()

	res := s.dispatcher.Invoke(ctx, method, args...)
	if info := res.Error(); info != nil {
		logger.Warn("rpc failed",
			logging.String(logging.FieldEventType, "rpc_failed"),
			logging.String("error_kind", string(info.Kind)),
			logging.String("error_message", info.Message),
			logging.Duration("latency", time.Since(started)))
		writeRPCError(w, req.ID, codeForKind(info.Kind), info.Message)
		return
	}

	value, _ := res.Value()
	result, err := json.Marshal(value)
	if err != nil {
		writeRPCError(w, req.ID, api.CodeCallFailed, "encode result: "+err.Error())
		return
	}
	logger.Debug("rpc response", logging.Duration("latency", time.Since(started)))
	writeRPC(w, api.RPCResponse{JSONRPC: api.JSONRPCVersion, ID: req.ID, Result: result})
}

// decodeParams accepts an absent or null params member as no arguments.
func decodeParams(raw json.RawMessage) ([]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var args []any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, errors.New("params must be an array")
	}
	return args, nil
}

func codeForKind(kind bridge.ErrorKind) int {
	switch kind {
	case bridge.KindMethodNotFound:
		return api.CodeMethodNotFound
	case bridge.KindNoHost:
		return api.CodeHostNotReady
	default:
		return api.CodeCallFailed
	}
}

func writeRPC(w http.ResponseWriter, resp api.RPCResponse) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeRPCError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	writeRPC(w, api.RPCResponse{
		JSONRPC: api.JSONRPCVersion,
		ID:      id,
		Error:   &api.RPCError{Code: code, Message: message},
	})
}
