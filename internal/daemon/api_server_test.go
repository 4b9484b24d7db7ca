package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
	"playbridge/internal/config"
	"playbridge/internal/playlist"
	"playbridge/internal/testsupport"
)

func testSurface() bridge.MapSurface {
	return bridge.MapSurface{
		bridge.MethodGetPlaylists: func(context.Context, []any) (any, error) {
			return []playlist.Summary{{PlaylistID: "PL1", Title: "Focus"}}, nil
		},
		bridge.MethodGetPlaylistItems: func(_ context.Context, args []any) (any, error) {
			return playlist.Details{ID: args[0].(string)}, nil
		},
		bridge.MethodClearAllCache: func(context.Context, []any) (any, error) {
			return nil, errors.New("cache locked")
		},
	}
}

func newTestAPI(t *testing.T, cfg *config.Config, host *bridge.Host) (*apiServer, *httptest.Server) {
	t.Helper()
	m := newMetrics()
	d := bridge.NewDispatcher(host,
		bridge.WithReadiness(bridge.NewEventMonitor(host, 200*time.Millisecond)),
		bridge.WithObserver(m.observe))
	srv := newAPIServer(cfg, host, d, newBroker(), m, func(context.Context) api.DaemonStatus {
		return api.DaemonStatus{Running: true}
	}, nil)
	srv.heartbeat = 20 * time.Millisecond
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return srv, ts
}

func postRPC(t *testing.T, url, body string) api.RPCResponse {
	t.Helper()
	resp, err := http.Post(url+"/rpc", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	var out api.RPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestRPCDispatchesRegisteredMethods(t *testing.T) {
	host := bridge.NewHost()
	host.Install(testSurface())
	_, ts := newTestAPI(t, testsupport.NewConfig(t), host)

	resp := postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":1,"method":"get_playlist_items","params":["PL42"]}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error %+v", resp.Error)
	}
	var details playlist.Details
	if err := json.Unmarshal(resp.Result, &details); err != nil || details.ID != "PL42" {
		t.Fatalf("unexpected result %s (%v)", resp.Result, err)
	}
	if string(resp.ID) != "1" {
		t.Fatalf("id not echoed: %s", resp.ID)
	}
}

func TestRPCErrorCodes(t *testing.T) {
	host := bridge.NewHost()
	host.Install(testSurface())
	_, ts := newTestAPI(t, testsupport.NewConfig(t), host)

	cases := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{"parse error", `{"jsonrpc":`, api.CodeParseError, ""},
		{"wrong version", `{"jsonrpc":"1.0","id":1,"method":"get_playlists"}`, api.CodeInvalidRequest, ""},
		{"unknown method", `{"jsonrpc":"2.0","id":1,"method":"drop_tables"}`, api.CodeMethodNotFound, ""},
		{"params not array", `{"jsonrpc":"2.0","id":1,"method":"get_playlist_items","params":{"id":"x"}}`, api.CodeInvalidParams, ""},
		{"bad param type", `{"jsonrpc":"2.0","id":1,"method":"get_playlist_items","params":[7]}`, api.CodeInvalidParams, ""},
		{"not on surface", `{"jsonrpc":"2.0","id":1,"method":"generate_auth_header","params":["x"]}`, api.CodeMethodNotFound, ""},
		{"call failed", `{"jsonrpc":"2.0","id":1,"method":"clear_all_cache"}`, api.CodeCallFailed, "cache locked"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postRPC(t, ts.URL, tc.body)
			if resp.Error == nil || resp.Error.Code != tc.code {
				t.Fatalf("expected code %d, got %+v", tc.code, resp.Error)
			}
			if tc.message != "" && resp.Error.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, resp.Error.Message)
			}
			if resp.Result != nil {
				t.Fatalf("error response carried result %s", resp.Result)
			}
		})
	}
}

func TestRPCReportsHostNotReady(t *testing.T) {
	_, ts := newTestAPI(t, testsupport.NewConfig(t), bridge.NewHost())

	resp := postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":"a","method":"get_playlists"}`)
	if resp.Error == nil || resp.Error.Code != api.CodeHostNotReady {
		t.Fatalf("expected host-not-ready, got %+v", resp.Error)
	}
	if resp.Error.Message != "host initialization timed out" {
		t.Fatalf("unexpected message %q", resp.Error.Message)
	}
}

func TestAPITokenRequired(t *testing.T) {
	host := bridge.NewHost()
	host.Install(testSurface())
	_, ts := newTestAPI(t, testsupport.NewConfig(t, testsupport.WithAPIToken("secret")), host)

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz should not require a token, got %d", resp.StatusCode)
	}
}

func TestRPCRateLimited(t *testing.T) {
	host := bridge.NewHost()
	host.Install(testSurface())
	_, ts := newTestAPI(t, testsupport.NewConfig(t, testsupport.WithRateLimit(0.001, 1)), host)

	body := `{"jsonrpc":"2.0","id":1,"method":"get_playlists"}`
	if resp := postRPC(t, ts.URL, body); resp.Error != nil {
		t.Fatalf("first call should pass: %+v", resp.Error)
	}
	resp, err := http.Post(ts.URL+"/rpc", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
}

func TestEventStreamAnnouncesLateInstall(t *testing.T) {
	host := bridge.NewHost()
	srv, ts := newTestAPI(t, testsupport.NewConfig(t), host)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	go func() {
		time.Sleep(30 * time.Millisecond)
		host.Install(testSurface())
		srv.broker.emit("cache_cleared", map[string]int{"cleared": 2})
	}()

	reader := bufio.NewReader(resp.Body)
	event, data := readEvent(t, reader)
	if event != api.EventReady {
		t.Fatalf("expected ready event first, got %q", event)
	}
	var ready api.ReadyEvent
	if err := json.Unmarshal([]byte(data), &ready); err != nil {
		t.Fatalf("decode ready: %v", err)
	}
	if len(ready.Methods) != 3 {
		t.Fatalf("expected 3 advertised methods, got %v", ready.Methods)
	}
}

func TestEventStreamLateSubscriberGetsReady(t *testing.T) {
	host := bridge.NewHost()
	host.Install(testSurface())
	_, ts := newTestAPI(t, testsupport.NewConfig(t), host)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()

	if event, _ := readEvent(t, bufio.NewReader(resp.Body)); event != api.EventReady {
		t.Fatalf("expected ready, got %q", event)
	}
}

func TestMetricsCountCalls(t *testing.T) {
	host := bridge.NewHost()
	host.Install(testSurface())
	_, ts := newTestAPI(t, testsupport.NewConfig(t), host)

	postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":1,"method":"get_playlists"}`)
	postRPC(t, ts.URL, `{"jsonrpc":"2.0","id":2,"method":"clear_all_cache"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	text := string(body)
	for _, want := range []string{
		`playbridge_bridge_calls_total{method="get_playlists",outcome="ok"} 1`,
		`playbridge_bridge_calls_total{method="clear_all_cache",outcome="CALL_FAILED"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

// readEvent returns the next named event, skipping comments and retry hints.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read event stream: %v", err)
		}
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if event != "" {
				return event, data
			}
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
	}
}
