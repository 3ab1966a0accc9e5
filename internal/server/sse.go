package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// sseHistorySize is how many recent events are retained for clients
	// reconnecting with Last-Event-ID.
	sseHistorySize = 1000

	// sseKeepaliveInterval is how often an idle stream gets a comment line.
	sseKeepaliveInterval = 15 * time.Second

	// sseClientBuffer is the per-client queue; a full queue drops events.
	sseClientBuffer = 64
)

// sseEvent is one published event as streamed to clients.
type sseEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}

// sseHub fans published events out to connected dashboards and keeps a
// bounded history for replay.
type sseHub struct {
	mu      sync.Mutex
	lastID  uint64
	history []sseEvent // oldest first, at most sseHistorySize
	clients map[*sseClient]struct{}
}

// sseClient is one open stream.
type sseClient struct {
	patterns []string // empty matches every topic
	ch       chan sseEvent
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[*sseClient]struct{})}
}

// broadcast assigns the next event id, records the event and delivers it
// to matching clients without blocking.
func (h *sseHub) broadcast(topic string, data []byte) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	evt := sseEvent{ID: h.lastID, Topic: topic, Data: data}

	if len(h.history) == sseHistorySize {
		copy(h.history, h.history[1:])
		h.history = h.history[:sseHistorySize-1]
	}
	h.history = append(h.history, evt)

	for c := range h.clients {
		if !c.wants(topic) {
			continue
		}
		select {
		case c.ch <- evt:
		default:
		}
	}
	return evt.ID
}

// subscribe registers a stream for the given topic patterns.
func (h *sseHub) subscribe(patterns []string) *sseClient {
	c := &sseClient{patterns: patterns, ch: make(chan sseEvent, sseClientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *sseHub) unsubscribe(c *sseClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// since returns retained events newer than lastID, oldest first.
func (h *sseHub) since(lastID uint64) []sseEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []sseEvent
	for _, evt := range h.history {
		if evt.ID > lastID {
			out = append(out, evt)
		}
	}
	return out
}

func (h *sseHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *sseClient) wants(topic string) bool {
	if len(c.patterns) == 0 {
		return true
	}
	for _, p := range c.patterns {
		if matchTopicPattern(p, topic) {
			return true
		}
	}
	return false
}

// matchTopicPattern matches a dot-separated topic NATS-style: "*" stands for
// exactly one segment and a trailing ">" for one or more.
func matchTopicPattern(pattern, topic string) bool {
	pat := strings.Split(pattern, ".")
	top := strings.Split(topic, ".")
	for i, seg := range pat {
		if seg == ">" {
			return i == len(pat)-1 && len(top) > i
		}
		if i >= len(top) || (seg != "*" && seg != top[i]) {
			return false
		}
	}
	return len(pat) == len(top)
}

// parseTopics splits the comma-separated ?topics= parameter.
func parseTopics(raw string) []string {
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// handleEventStream handles GET /v1/events/stream.
// ?topics=leads.session.*,leads.graph.built narrows the stream.
func (s *LeadServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	client := s.sseHub.subscribe(parseTopics(r.URL.Query().Get("topics")))
	defer s.sseHub.unsubscribe(client)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	// Events broadcast after subscribe can be both in the replay and in
	// client.ch; replayed holds the highest id already written.
	var replayed uint64
	if last, err := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64); err == nil {
		replayed = s.replay(w, client, last)
	}
	flusher.Flush()

	keepalive := time.NewTicker(sseKeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-client.ch:
			if evt.ID <= replayed {
				continue
			}
			writeSSEEvent(w, evt)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
			flusher.Flush()
		}
	}
}

// replay writes the history after last that client wants and returns the
// highest id it covered.
func (s *LeadServer) replay(w io.Writer, client *sseClient, last uint64) uint64 {
	high := last
	for _, evt := range s.sseHub.since(last) {
		if client.wants(evt.Topic) {
			writeSSEEvent(w, evt)
		}
		high = evt.ID
	}
	return high
}

func writeSSEEvent(w io.Writer, evt sseEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", evt.ID, evt.Topic, evt.Data)
}

// broadcastEvent encodes event and hands it to the SSE hub.
func (s *LeadServer) broadcastEvent(topic string, event any) {
	if s.sseHub == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event for SSE broadcast", "topic", topic, "error", err)
		return
	}
	s.sseHub.broadcast(topic, payload)
}
