package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Anuragp22/axiom-sub000/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.SubscriberCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("subscriber count never reached %d, at %d", want, hub.SubscriberCount())
}

func TestHubBroadcastReachesSubscriber(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.Serve)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	waitForSubscribers(t, hub, 1)

	hub.Broadcast(domain.Event{
		Type:      domain.EventPriceUpdate,
		Data:      []domain.PriceDelta{{Address: "a", PriceUSD: 1.5}},
		Timestamp: time.Now().UnixMilli(),
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("unparseable event %q: %v", payload, err)
	}
	if event.Type != domain.EventPriceUpdate {
		t.Errorf("expected price_update event, got %q", event.Type)
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub()
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", hub.Serve)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}

	waitForSubscribers(t, hub, 1)
	conn.Close()
	waitForSubscribers(t, hub, 0)
}

func TestBroadcastNeverBlocks(t *testing.T) {
	hub := NewHub()
	// No Run loop draining: the queue fills, then further events drop.
	for i := 0; i < 100; i++ {
		hub.Broadcast(domain.Event{Type: domain.EventNewToken})
	}
}
