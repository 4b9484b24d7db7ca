package hostclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"playbridge/internal/api"
	"playbridge/internal/logging"
)

// Client talks to a playbridge daemon over HTTP.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// New builds a client for the daemon at baseURL. A nil httpClient uses a
// client without timeout so event streams stay open; per-call deadlines come
// from the caller's context.
func New(baseURL, token string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		http:    httpClient,
		logger:  logging.NewComponentLogger(logger, "hostclient"),
	}
}

// BaseURL returns the daemon address the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

// Call performs one JSON-RPC call and returns the raw result.
func (c *Client) Call(ctx context.Context, method string, args []any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	params, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	id, _ := json.Marshal(uuid.NewString())
	body, err := json.Marshal(api.RPCRequest{
		JSONRPC: api.JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rpc", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var out api.RPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !bytes.Equal(out.ID, id) {
		return nil, fmt.Errorf("call %s: response id %s does not match request", method, out.ID)
	}
	if out.Error != nil {
		return nil, out.Error
	}
	return out.Result, nil
}

// Status fetches the daemon status document.
func (c *Client) Status(ctx context.Context) (*api.DaemonStatus, error) {
	var status api.DaemonStatus
	if err := c.getJSON(ctx, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Healthy reports whether the daemon answers and whether its surface is installed.
func (c *Client) Healthy(ctx context.Context) (bool, error) {
	var health struct {
		OK    bool `json:"ok"`
		Ready bool `json:"ready"`
	}
	if err := c.getJSON(ctx, "/healthz", &health); err != nil {
		return false, err
	}
	return health.OK && health.Ready, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}
