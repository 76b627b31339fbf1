package dashboard

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-admin-hub/components/theme"
)

// PresetEvent is pushed to open pages when the theme preset changes so they
// can update the root attribute without a reload.
type PresetEvent struct {
	ID        string       `json:"id"`
	Attribute string       `json:"attribute"`
	Previous  theme.Preset `json:"previous"`
	Preset    theme.Preset `json:"preset"`
	At        time.Time    `json:"at"`
}

// BroadcastHook fans out preset changes to in-process subscribers. It
// satisfies theme.ChangeHook.
type BroadcastHook struct {
	attribute string
	mu        sync.RWMutex
	subs      map[int]chan PresetEvent
	next      int
}

// NewBroadcastHook creates a broadcast hook for the given root attribute.
func NewBroadcastHook(attribute string) *BroadcastHook {
	if attribute == "" {
		attribute = theme.AttributeName
	}
	return &BroadcastHook{
		attribute: attribute,
		subs:      make(map[int]chan PresetEvent),
	}
}

// PresetChanged broadcasts change. Slow subscribers miss events rather than
// blocking the store.
func (h *BroadcastHook) PresetChanged(_ context.Context, change theme.Change) error {
	event := PresetEvent{
		ID:        change.ID,
		Attribute: h.attribute,
		Previous:  change.Previous,
		Preset:    change.Current,
		At:        change.At,
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of preset events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan PresetEvent, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan PresetEvent, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Subscribers reports the number of open subscriptions.
func (h *BroadcastHook) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams preset events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	// A hijacked request's context outlives the client, so the read side
	// ends the stream once the peer closes or goes away.
	go func() {
		defer stop()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	events, cancel := h.Subscribe()
	defer cancel()
	h.stream(ctx, events, conn.WriteJSON)
}

// ServeSSE provides a Server-Sent Events endpoint for preset events.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	h.stream(r.Context(), events, func(event any) error {
		if _, err := w.Write([]byte("event: preset\ndata: ")); err != nil {
			return err
		}
		if err := encoder.Encode(event); err != nil {
			return err
		}
		if _, err := w.Write([]byte("\n")); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
}

func (h *BroadcastHook) stream(ctx context.Context, events <-chan PresetEvent, write func(any) error) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := write(event); err != nil {
				return
			}
		}
	}
}
