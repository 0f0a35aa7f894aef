package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/Anuragp22/axiom-sub000/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token data is public; cross-origin subscribers are allowed.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub is the subscriber registry the delta publisher fans out through.
// Registration, unregistration, and broadcast all funnel through one loop, so
// the client set needs no locking.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan domain.Event
	clients    map[*client]struct{}
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan domain.Event, 16),
		clients:    make(map[*client]struct{}),
	}
}

// Run drives the hub loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.close()
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
				h.count.Store(int64(len(h.clients)))
			}
		case event := <-h.broadcast:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("ws event marshal dropped: %v", err)
				continue
			}
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Slow consumer: drop it rather than stall the fanout.
					delete(h.clients, c)
					c.close()
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// Broadcast queues an event for fanout to every subscriber.
func (h *Hub) Broadcast(event domain.Event) {
	select {
	case h.broadcast <- event:
	default:
		log.Printf("ws broadcast queue full, dropping %s event", event.Type)
	}
}

// SubscriberCount reports the current number of connected subscribers. The
// publisher uses it to skip upstream fetches when nobody is listening.
func (h *Hub) SubscriberCount() int {
	return int(h.count.Load())
}

// Serve godoc
// @Summary      Subscribe to token updates
// @Description  Upgrades to a WebSocket carrying price_update and new_token events
// @Tags         stream
// @Router       /ws [get]
func (h *Hub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	cl := newClient(h, conn)
	h.register <- cl

	go cl.writePump()
	go cl.readPump()
}
