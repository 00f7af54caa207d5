package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func waitForClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Count() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Count = %d, want %d", h.Count(), n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	c1 := dial(t, srv)
	c2 := dial(t, srv)
	waitForClients(t, h, 2)

	h.BroadcastEvent(context.Background(), "run.status", map[string]any{"run_id": "r1"})

	for _, conn := range []*websocket.Conn{c1, c2} {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			t.Fatalf("read: %v", err)
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if msg.Type != "run.status" {
			t.Errorf("Type = %q", msg.Type)
		}
		var payload map[string]any
		_ = json.Unmarshal(msg.Payload, &payload)
		if payload["run_id"] != "r1" {
			t.Errorf("payload = %v", payload)
		}
	}
}

func TestDisconnectRemovesClient(t *testing.T) {
	h := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWS))
	defer srv.Close()

	conn := dial(t, srv)
	waitForClients(t, h, 1)

	_ = conn.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, h, 0)
}

func TestBroadcastWithNoClients(t *testing.T) {
	h := NewHub()
	// Must not panic or block.
	h.BroadcastEvent(context.Background(), "run.status", map[string]any{"run_id": "r1"})
	if h.Count() != 0 {
		t.Errorf("Count = %d", h.Count())
	}
}
