package monitor

import (
	"context"
	"sync"
	"time"

	"voicebot-relay/internal/observability"

	"github.com/gorilla/websocket"
)

// Event is one observational call event streamed to monitor subscribers.
type Event struct {
	CallUUID  string    `json:"call_uuid"`
	Kind      string    `json:"kind"` // answered, transcript, forwarded, reply, barge_in, completed
	Text      string    `json:"text,omitempty"`
	Phase     string    `json:"phase,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const writeTimeout = 5 * time.Second

// Hub fans call events out to connected websocket subscribers. Publishing
// never blocks call handling; slow or dead subscribers are dropped.
type Hub struct {
	logger *observability.Logger

	mu          sync.Mutex
	subscribers map[*websocket.Conn]struct{}
}

// NewHub creates an empty monitor hub
func NewHub(logger *observability.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[*websocket.Conn]struct{}),
	}
}

// Subscribe registers a websocket connection and blocks until it closes.
// The read loop only consumes control frames; subscribers never send data.
func (h *Hub) Subscribe(ctx context.Context, conn *websocket.Conn) {
	h.mu.Lock()
	h.subscribers[conn] = struct{}{}
	count := len(h.subscribers)
	h.mu.Unlock()

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "monitor_subscribers", Value: count},
	)
	h.logger.Info(ctx, "monitor subscriber connected")

	defer func() {
		h.mu.Lock()
		delete(h.subscribers, conn)
		h.mu.Unlock()
		conn.Close()
		h.logger.Info(ctx, "monitor subscriber disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish sends an event to every subscriber. Write failures drop the
// subscriber; the event itself is never retried.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.subscribers {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			delete(h.subscribers, conn)
			conn.Close()
		}
	}
}

// SubscriberCount reports the number of connected monitor clients
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}
