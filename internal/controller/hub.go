package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/qugu2427/alienpls-api/internal/domain"
	"github.com/qugu2427/alienpls-api/internal/repository/eventbus"
)

// wsClient wraps a connection with a write lock, since the hub pump and the
// session's own replies write from different goroutines.
type wsClient struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		id:   uuid.NewString(),
		conn: conn,
	}
}

func (c *wsClient) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) writeEvent(event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return c.write(data)
}

type roomSubscription struct {
	clients map[*wsClient]struct{}
	close   func() error
}

// hub delivers bus events to this instance's connections. It holds one bus
// subscription per room with at least one local client; events published by
// any instance reach every client through it.
type hub struct {
	bus    *eventbus.Bus
	logger *slog.Logger
	mu     sync.Mutex
	rooms  map[string]*roomSubscription
}

func newHub(bus *eventbus.Bus, logger *slog.Logger) *hub {
	return &hub{
		bus:    bus,
		logger: logger,
		rooms:  make(map[string]*roomSubscription),
	}
}

func (h *hub) add(room string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.rooms[room]
	if !ok {
		events, closeFn := h.bus.Subscribe(context.Background(), room)
		sub = &roomSubscription{
			clients: make(map[*wsClient]struct{}),
			close:   closeFn,
		}
		h.rooms[room] = sub
		go h.pump(room, events)
	}

	sub.clients[client] = struct{}{}
}

func (h *hub) remove(room string, client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub, ok := h.rooms[room]
	if !ok {
		return
	}

	delete(sub.clients, client)
	if len(sub.clients) == 0 {
		if err := sub.close(); err != nil {
			h.logger.Debug("failed to close subscription", "room", room, "error", err)
		}
		delete(h.rooms, room)
	}
}

func (h *hub) pump(room string, events <-chan []byte) {
	for data := range events {
		h.fanOut(room, data)
	}
}

func (h *hub) fanOut(room string, data []byte) {
	h.mu.Lock()
	sub, ok := h.rooms[room]
	if !ok {
		h.mu.Unlock()
		return
	}
	clients := make([]*wsClient, 0, len(sub.clients))
	for client := range sub.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.write(data); err != nil {
			// The client's reader will notice the broken conn and clean up.
			h.logger.Debug("failed to write to client", "client_id", client.id, "room", room, "error", err)
		}
	}
}
