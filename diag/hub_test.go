package diag

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"spuders/engine/logging"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d subscribers, have %d", want, hub.SubscriberCount())
}

func TestHubBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	defer hub.Close()

	first := dialHub(t, server)
	second := dialHub(t, server)
	waitForSubscribers(t, hub, 2)

	hub.Broadcast([]byte(`{"type":"strike.dispatched"}`))

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if kind != websocket.TextMessage {
			t.Fatalf("expected a text frame, got %d", kind)
		}
		if string(data) != `{"type":"strike.dispatched"}` {
			t.Fatalf("unexpected frame %s", data)
		}
	}
}

func TestHubDropsClosedSubscribers(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	defer hub.Close()

	conn := dialHub(t, server)
	waitForSubscribers(t, hub, 1)

	conn.Close()
	waitForSubscribers(t, hub, 0)

	// Broadcasting with nobody connected must not panic.
	hub.Broadcast([]byte(`{}`))
}

func TestHubCloseDisconnectsAll(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dialHub(t, server)
	waitForSubscribers(t, hub, 1)

	hub.Close()
	if hub.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers after close")
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected the connection to be closed")
	}
}

func TestSinkMarshalsEvents(t *testing.T) {
	hub := NewHub(nil)
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	defer hub.Close()

	conn := dialHub(t, server)
	waitForSubscribers(t, hub, 1)

	sink := NewSink(hub)
	event := logging.Event{
		Type:     "strike.resolved",
		Tick:     42,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryStrike,
	}
	if err := sink.Write(event); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var decoded logging.Event
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Type != "strike.resolved" || decoded.Tick != 42 {
		t.Fatalf("unexpected frame %+v", decoded)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sink.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	var nilSink *Sink
	if err := nilSink.Write(event); err != nil {
		t.Fatalf("expected a nil sink write to be a no-op, got %v", err)
	}
}
