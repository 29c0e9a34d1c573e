package events

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/postboard/backend/internal/service/feed"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
)

// Handler streams post mutation events to websocket clients.
type Handler struct {
	hub      *feed.Hub
	upgrader websocket.Upgrader
}

// New creates an events handler fed by the given hub.
func New(hub *feed.Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the events endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/posts/events", h.handleEvents)
}

// handleEvents upgrades the connection and forwards hub events until the
// client goes away.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[events] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	id, eventsCh := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)
	defer log.Printf("[events] subscriber disconnected id=%s", id)

	log.Printf("[events] subscriber connected id=%s total=%d", id, h.hub.Subscribers())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongTimeout))
		return nil
	})

	// Clients never send data frames, but reading still has to happen so
	// pong and close frames are processed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go h.pingLoop(ctx, conn)

	hello := map[string]any{
		"type":       "connected",
		"subscriber": id,
		"timestamp":  time.Now().Unix(),
	}
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(hello); err != nil {
		log.Printf("[events] write hello failed: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-eventsCh:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				log.Printf("[events] write event failed: %v", err)
				return
			}
		}
	}
}

// pingLoop keeps the connection alive between events.
func (h *Handler) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
