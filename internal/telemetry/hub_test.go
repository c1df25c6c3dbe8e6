package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"gmtrace/internal/logging"
)

func TestBroadcastReachesSubscriber(t *testing.T) {
	hub := NewHub(logging.NewTestLogger(), nil)
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, time.Millisecond)

	hub.Broadcast(Event{Kind: "frame", Mode: "record", Frame: 3})

	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Contains(t, string(data), `"kind":"frame"`)
	require.Contains(t, string(data), `"frame":3`)
	require.Equal(t, 1, hub.Broadcasts())
}

func TestServeHTTPEchoesTraceID(t *testing.T) {
	hub := NewHub(logging.NewTestLogger(), nil)
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{}
	header.Set(logging.TraceIDHeader, "trace-abc")
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Equal(t, "trace-abc", resp.Header.Get(logging.TraceIDHeader))
}

func TestSlowSubscriberIsDropped(t *testing.T) {
	hub := NewHub(logging.NewTestLogger(), nil)
	server := httptest.NewServer(hub)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, time.Millisecond)

	for i := 0; i < 64; i++ {
		hub.Broadcast(Event{Kind: "frame", Frame: i})
	}

	require.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, time.Millisecond)
}
