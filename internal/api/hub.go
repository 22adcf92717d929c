package api

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/nuravs/ojas-wellness-glow-sub001/internal/insights"
)

// insightEvent is the frame pushed to subscribed clients.
type insightEvent struct {
	Type     string                      `json:"type"`
	UserID   string                      `json:"user_id"`
	Insights []insights.ProactiveInsight `json:"insights"`
}

// Hub fans freshly generated insights out to WebSocket subscribers. Clients
// subscribe to one user ID each.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*websocket.Conn]bool
	logger *zap.Logger
	closed bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[string]map[*websocket.Conn]bool),
		logger: logger,
	}
}

func (h *Hub) subscribe(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*websocket.Conn]bool)
	}
	h.subs[userID][conn] = true
}

func (h *Hub) unsubscribe(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.subs[userID]; conns != nil {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, userID)
		}
	}
}

// BroadcastInsights sends a batch to every connection subscribed to the
// user. Write failures drop the connection from the hub; the read loop in
// the stream handler cleans it up.
func (h *Hub) BroadcastInsights(userID string, batch []insights.ProactiveInsight) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.subs[userID]))
	for conn := range h.subs[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	event := insightEvent{Type: "insights", UserID: userID, Insights: batch}
	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Warn("websocket write failed", zap.String("user_id", userID), zap.Error(err))
			h.unsubscribe(userID, conn)
		}
	}
}

// SubscriberCount reports how many connections follow a user.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// Close drops all subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for userID, conns := range h.subs {
		for conn := range conns {
			conn.Close()
		}
		delete(h.subs, userID)
	}
}

// handleInsightStream subscribes a WebSocket client to a user's insight
// pushes and sends the current batch immediately.
func (s *Server) handleInsightStream(c *websocket.Conn) {
	defer c.Close()

	userID := c.Query("user_id")
	if userID == "" {
		c.WriteJSON(map[string]string{"error": "user_id is required"})
		return
	}

	s.hub.subscribe(userID, c)
	defer s.hub.unsubscribe(userID, c)

	if batch, err := s.wellapp.InsightsForUser(userID); err == nil {
		c.WriteJSON(insightEvent{Type: "insights", UserID: userID, Insights: batch})
	}

	// Block on reads until the client goes away.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
