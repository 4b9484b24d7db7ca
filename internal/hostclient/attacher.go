package hostclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
	"playbridge/internal/logging"
)

const defaultRetryInterval = time.Second

// Attacher installs the daemon's remote surface into a bridge.Host once the
// daemon reports ready.
type Attacher struct {
	client *Client
	host   *bridge.Host
	retry  time.Duration
}

// NewAttacher binds client to host. retry is the reconnect and probe period.
func NewAttacher(client *Client, host *bridge.Host, retry time.Duration) *Attacher {
	if retry <= 0 {
		retry = defaultRetryInterval
	}
	return &Attacher{client: client, host: host, retry: retry}
}

// Attach runs Probe for the poll strategy and Watch otherwise.
func (a *Attacher) Attach(ctx context.Context, strategy string) error {
	if strategy == bridge.StrategyPoll {
		return a.Probe(ctx)
	}
	return a.Watch(ctx)
}

// Watch subscribes to the daemon event stream and installs the surface on
// the ready event. It reconnects until installation succeeds or ctx ends.
func (a *Attacher) Watch(ctx context.Context) error {
	for {
		methods, err := a.awaitReadyEvent(ctx)
		if err == nil {
			a.install(methods)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		a.client.logger.Debug("event stream unavailable", logging.Error(err))
		if err := sleep(ctx, a.retry); err != nil {
			return err
		}
	}
}

// Probe polls the health and status endpoints and installs the surface once
// the daemon reports ready.
func (a *Attacher) Probe(ctx context.Context) error {
	for {
		ready, err := a.client.Healthy(ctx)
		if err == nil && ready {
			status, err := a.client.Status(ctx)
			if err == nil && status.Ready {
				a.install(status.Methods)
				return nil
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := sleep(ctx, a.retry); err != nil {
			return err
		}
	}
}

func (a *Attacher) install(methods []string) {
	if a.host.Install(a.client.Surface(methods)) {
		a.client.logger.Info("remote host surface installed",
			logging.String("daemon", a.client.BaseURL()),
			logging.Strings("methods", methods))
	}
}

func (a *Attacher) awaitReadyEvent(ctx context.Context) ([]string, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	req, err := a.client.newRequest(streamCtx, http.MethodGet, "/api/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := a.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("connect event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if event == api.EventReady {
				var payload api.ReadyEvent
				if err := json.Unmarshal([]byte(data), &payload); err != nil {
					return nil, fmt.Errorf("decode ready event: %w", err)
				}
				return payload.Methods, nil
			}
			event, data = "", ""
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read event stream: %w", err)
	}
	return nil, errors.New("event stream closed before ready")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
