package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pokerun/leaderboard/internal/broker"
	"github.com/pokerun/leaderboard/pkg/logger"
	"go.uber.org/zap"
)

const (
	feedWriteWait = 10 * time.Second
	feedPongWait  = 60 * time.Second
	feedPingEvery = (feedPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // add origin check in production
	},
}

// FeedHandler streams run-created events to websocket clients. The feed is
// read-only: clients never send application messages, only pong frames.
type FeedHandler struct {
	events  broker.RunEventBroker
	clients map[*websocket.Conn]struct{}
	mu      sync.RWMutex
}

func NewFeedHandler(events broker.RunEventBroker) *FeedHandler {
	return &FeedHandler{
		events:  events,
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Start subscribes to the broker once and fans events out to every connected
// client. Call it before the server begins accepting connections.
func (h *FeedHandler) Start() error {
	events, err := h.events.Subscribe()
	if err != nil {
		return err
	}

	go func() {
		for event := range events {
			h.broadcast(event)
		}
	}()

	return nil
}

func (h *FeedHandler) broadcast(event broker.RunEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
		if err := conn.WriteJSON(event); err != nil {
			h.removeClient(conn)
		}
	}
}

func (h *FeedHandler) HandleFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Warn("Failed to upgrade feed connection",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		return
	}

	h.mu.Lock()
	h.clients[conn] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	logger.Log.Debug("Feed client connected", zap.Int("total", total))

	go h.keepAlive(conn)
}

// keepAlive pings the peer and drops the connection when it stops answering.
func (h *FeedHandler) keepAlive(conn *websocket.Conn) {
	defer h.removeClient(conn)

	conn.SetReadDeadline(time.Now().Add(feedPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(feedPongWait))
		return nil
	})

	ticker := time.NewTicker(feedPingEvery)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			// Reads only service control frames; any client data is discarded.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *FeedHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
