package live

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"kobetex/middleware"
)

func TestBroadcastReachesSubscribers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c1 := &Client{Send: make(chan []byte, 4)}
	c2 := &Client{Send: make(chan []byte, 4)}
	hub.register <- c1
	hub.register <- c2

	hub.Broadcast("order_created", map[string]any{"id": 7})

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				t.Fatalf("bad payload: %v", err)
			}
			if ev.Event != "order_created" {
				t.Fatalf("expected order_created, got %s", ev.Event)
			}
			if ev.Timestamp == 0 {
				t.Fatal("event must carry a timestamp")
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for the broadcast")
		}
	}
}

func TestUnregisteredClientStopsReceiving(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	c := &Client{Send: make(chan []byte, 4)}
	hub.register <- c
	hub.unregister <- c

	// channel is closed on unregister
	select {
	case _, ok := <-c.Send:
		if ok {
			t.Fatal("expected a closed channel, got data")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the channel to close")
	}
}

func TestSlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// full buffer that is never drained: the fan-out cannot deliver
	slow := &Client{Send: make(chan []byte, 1)}
	slow.Send <- []byte("backlog")
	hub.register <- slow

	hub.Broadcast("sessions", nil)

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-slow.Send:
			if !ok {
				return // dropped: channel closed by the hub
			}
		case <-deadline:
			t.Fatal("timed out waiting for the drop")
		}
	}
}

func TestDropAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	c := &Client{Send: make(chan []byte, 1)}
	done := make(chan struct{})
	go func() {
		hub.drop(c)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("drop blocked after the hub stopped")
	}
}

func TestWebSocketRequiresAdminToken(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	router := httprouter.New()
	router.GET("/ws/admin", WebSocketHandler(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/admin"

	if _, resp, err := websocket.DefaultDialer.Dial(base, nil); err == nil {
		t.Fatal("anonymous dial must be refused")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous dial, got %v", resp)
	}

	userToken, err := middleware.CreateToken("jean", "u1", []string{"user"}, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, resp, err := websocket.DefaultDialer.Dial(base+"?token="+userToken, nil); err == nil {
		t.Fatal("user token must not open the feed")
	} else if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for a non-admin token, got %v", resp)
	}

	adminToken, err := middleware.CreateToken("admin", "admin", []string{"admin"}, time.Minute)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+adminToken, nil)
	if err != nil {
		t.Fatalf("admin dial: %v", err)
	}
	defer conn.Close()

	// registration happens server-side after the handshake; wait for it
	deadline := time.Now().Add(time.Second)
	for {
		hub.mu.Lock()
		n := len(hub.clients)
		hub.mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("client never registered with the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast("order_created", map[string]any{"id": 1})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	if ev.Event != "order_created" {
		t.Fatalf("expected order_created, got %s", ev.Event)
	}
}
