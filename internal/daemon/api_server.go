package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
	"playbridge/internal/config"
	"playbridge/internal/logging"
)

type apiServer struct {
	bind       string
	logger     *slog.Logger
	host       *bridge.Host
	dispatcher *bridge.Dispatcher
	broker     *broker
	metrics    *metrics
	limiter    *clientLimiter
	status     func(context.Context) api.DaemonStatus
	heartbeat  time.Duration

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, host *bridge.Host, dispatcher *bridge.Dispatcher, b *broker, m *metrics, status func(context.Context) api.DaemonStatus, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:       strings.TrimSpace(cfg.Paths.APIBind),
		logger:     logger,
		host:       host,
		dispatcher: dispatcher,
		broker:     b,
		metrics:    m,
		limiter:    newClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		status:     status,
		heartbeat:  defaultHeartbeat,
	}

	token := cfg.Paths.APIToken
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/rpc", authMiddleware(token, srv.handleRPC))
	mux.HandleFunc("/api/events", authMiddleware(token, srv.handleEvents))
	mux.HandleFunc("/api/status", authMiddleware(token, srv.handleStatus))
	mux.Handle("/metrics", authMiddleware(token, m.handler().ServeHTTP))

	// No write timeout: the event stream is long-lived.
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	// Request contexts end with the daemon so event streams unblock shutdown.
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			_ = s.server.Close()
		}
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, ready := s.host.Surface()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true, "ready": ready})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.status(r.Context()))
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
