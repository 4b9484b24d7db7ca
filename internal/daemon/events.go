package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"playbridge/internal/api"
	"playbridge/internal/bridge"
	"playbridge/internal/logging"
	"playbridge/internal/musicapi"
)

const defaultHeartbeat = 15 * time.Second

type message struct {
	Event string
	Data  string
}

type broker struct {
	mu   sync.Mutex
	subs map[chan message]struct{}
}

func newBroker() *broker {
	return &broker{subs: make(map[chan message]struct{})}
}

func (b *broker) subscribe() chan message {
	ch := make(chan message, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *broker) unsubscribe(ch chan message) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}

// publish drops the message for subscribers whose buffer is full.
func (b *broker) publish(msg message) {
	b.mu.Lock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *broker) emit(event string, payload any) {
	data, _ := json.Marshal(payload)
	b.publish(message{Event: event, Data: string(data)})
}

// publishHostEvent forwards musicapi events to stream subscribers.
func (b *broker) publishHostEvent(e musicapi.Event) {
	if e.Data == nil {
		b.emit(e.Type, struct{}{})
		return
	}
	b.emit(e.Type, e.Data)
}

func readyPayload(host *bridge.Host) api.ReadyEvent {
	methods := make([]string, 0, len(bridge.Methods()))
	for _, m := range bridge.Methods() {
		if host.Has(m) {
			methods = append(methods, string(m))
		}
	}
	return api.ReadyEvent{Methods: methods}
}

// handleEvents streams host events. The ready event is sent as soon as the
// surface is installed; subscribers that connect later receive it first.
func (s *apiServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, "retry: 2000\n\n")
	flusher.Flush()

	ch := s.broker.subscribe()
	defer s.broker.unsubscribe(ch)
	s.metrics.streams.Inc()
	defer s.metrics.streams.Dec()

	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	ready := s.host.Ready()
	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return

		case <-ready:
			ready = nil
			data, _ := json.Marshal(readyPayload(s.host))
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", api.EventReady, data)
			flusher.Flush()
			s.log().Debug("ready event delivered", logging.String("client", clientKey(r)))

		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()

		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
			flusher.Flush()
		}
	}
}
