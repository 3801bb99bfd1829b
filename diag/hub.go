// Package diag streams the engine's structured events to live balance-tuning
// dashboards over websockets. The hub is an optional observer: the engine
// core never depends on it, it just shows up as one more logging sink.
package diag

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Hub fans event frames out to every connected dashboard. Slow or failed
// subscribers are dropped rather than allowed to stall a broadcast.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	upgrader    websocket.Upgrader
	logger      *log.Logger
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// Handler upgrades an HTTP request into a dashboard subscription.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Printf("diag: upgrade failed: %v", err)
			return
		}
		id := uuid.NewString()
		h.mu.Lock()
		h.subscribers[id] = &subscriber{conn: conn}
		h.mu.Unlock()

		// Drain (and discard) client reads so pings and close frames are
		// processed; dashboards are receive-only.
		go func() {
			defer h.drop(id)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

// Broadcast sends one JSON frame to every subscriber.
func (h *Hub) Broadcast(data []byte) {
	h.mu.Lock()
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		sub.mu.Lock()
		sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := sub.conn.WriteMessage(websocket.TextMessage, data)
		sub.mu.Unlock()
		if err != nil {
			h.logger.Printf("diag: dropping subscriber %s: %v", id, err)
			h.drop(id)
		}
	}
}

// SubscriberCount reports the number of connected dashboards.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*subscriber)
	h.mu.Unlock()
	for _, sub := range subs {
		sub.conn.Close()
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if ok {
		sub.conn.Close()
	}
}
