// Package telemetry broadcasts structured run events (frame advanced,
// signal fired, assertion failed) to websocket subscribers,
// so a dashboard can watch a RECORD or REPLAY run live instead of only
// reading the finished test file.
package telemetry

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"gmtrace/internal/logging"
)

// Event is one structured telemetry message, JSON-encoded before broadcast.
type Event struct {
	Kind      string `json:"kind"`
	Mode      string `json:"mode,omitempty"`
	Frame     int    `json:"frame,omitempty"`
	SignalID  int32  `json:"signal_id,omitempty"`
	Message   string `json:"message,omitempty"`
	FireCount int    `json:"fire_count,omitempty"`
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans out Events to every currently-connected websocket subscriber. A
// slow subscriber is dropped rather than allowed to block the run.
type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]bool
	upgrader    websocket.Upgrader
	log         *logging.Logger
	broadcasts  int
}

// NewHub constructs an empty Hub. originChecker, if non-nil, overrides the
// default same-origin websocket upgrade check.
func NewHub(log *logging.Logger, originChecker func(*http.Request) bool) *Hub {
	if log == nil {
		log = logging.L()
	}
	h := &Hub{
		subscribers: make(map[*subscriber]bool),
		log:         log,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if originChecker != nil {
		h.upgrader.CheckOrigin = originChecker
	}
	return h
}

// ServeHTTP upgrades the connection and registers it as a subscriber until
// it disconnects or falls behind. The handshake carries and echoes
// X-Trace-ID so operator tooling can correlate a live-watch session with
// the structured log lines the same run produced; the websocket upgrade
// hijacks the connection directly, so the trace header has to ride in the
// upgrade's own response header set rather than a wrapping middleware.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	incoming := strings.TrimSpace(r.Header.Get(logging.TraceIDHeader))
	_, log, traceID := logging.WithTrace(r.Context(), h.log, incoming)

	responseHeader := http.Header{}
	responseHeader.Set(logging.TraceIDHeader, traceID)

	conn, err := h.upgrader.Upgrade(w, r, responseHeader)
	if err != nil {
		log.Warn("telemetry upgrade failed", logging.Error(err))
		return
	}
	sub := &subscriber{conn: conn, send: make(chan []byte, 32)}

	h.mu.Lock()
	h.subscribers[sub] = true
	h.mu.Unlock()

	log.Debug("telemetry subscriber connected")
	go h.writePump(sub)
	go h.readPump(sub)
}

func (h *Hub) readPump(sub *subscriber) {
	defer h.deregister(sub)
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()
	for msg := range sub.send {
		if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

func (h *Hub) deregister(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
	h.mu.Unlock()
}

// Broadcast JSON-encodes ev and pushes it to every connected subscriber,
// dropping (and deregistering) any subscriber whose send buffer is full.
func (h *Hub) Broadcast(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Warn("telemetry encode failed", logging.Error(err))
		return
	}
	h.mu.Lock()
	h.broadcasts++
	for sub := range h.subscribers {
		select {
		case sub.send <- data:
		default:
			delete(h.subscribers, sub)
			close(sub.send)
		}
	}
	h.mu.Unlock()
}

// Subscribers reports the current connected-subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcasts reports the lifetime count of Broadcast calls.
func (h *Hub) Broadcasts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.broadcasts
}
