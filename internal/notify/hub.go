package notify

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub pushes fired-alert events to connected websocket clients. When a redis
// subscriber is attached the hub relays the shared channel, so clients of any
// instance see firings from all instances; without redis it serves as a
// direct in-process Sink.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Event]struct{}
	logger  *zap.Logger
}

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[chan Event]struct{}),
		logger:  logger,
	}
}

// Emit broadcasts the event to every connected client. A client too slow to
// drain its buffer has the event dropped rather than stalling the broadcast.
func (h *Hub) Emit(_ context.Context, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for clientChan := range h.clients {
		select {
		case clientChan <- event:
		default:
			h.logger.Warn("alert event dropped, slow websocket client",
				zap.String("alert_id", event.AlertID))
		}
	}
}

// Relay pumps events from a redis subscription into the hub until ctx ends.
// Run it in its own goroutine.
func (h *Hub) Relay(ctx context.Context, sub *RedisSubscriber) {
	h.logger.Info("relaying alert events from redis to websocket clients")
	for {
		event, err := sub.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			h.logger.Error("failed to receive alert event", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		h.Emit(ctx, event)
	}
}

// ServeHTTP upgrades the connection and streams events until the client
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	clientChan := make(chan Event, 10)

	h.mu.Lock()
	h.clients[clientChan] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("websocket client connected", zap.Int("total_clients", total))

	defer func() {
		h.mu.Lock()
		delete(h.clients, clientChan)
		total := len(h.clients)
		h.mu.Unlock()
		h.logger.Info("websocket client disconnected", zap.Int("total_clients", total))
	}()

	// Reader goroutine: its only job is to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case event := <-clientChan:
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Warn("failed to write to websocket client", zap.Error(err))
				return
			}
		case <-heartbeat.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
