// Package websocket pushes change notifications to connected users. Events
// carry only what changed; clients re-fetch the affected lists.
package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
)

const sendBuffer = 16

// Client is one open connection. A user may hold several.
type Client struct {
	UserID uuid.UUID
	Send   chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{UserID: userID, Send: make(chan []byte, sendBuffer)}
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan services.ChangeEvent

	mu      sync.RWMutex
	clients map[uuid.UUID]map[*Client]struct{}
}

var _ services.EventPublisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan services.ChangeEvent, 256),
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client)   { h.register <- c }
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Publish queues ev for delivery. It never blocks the caller; when the queue
// is full the event is dropped and clients catch up on their next fetch.
func (h *Hub) Publish(ev services.ChangeEvent) {
	select {
	case h.events <- ev:
	default:
		logger.Warn().Str("kind", ev.Kind).Msg("event queue full, dropping change event")
	}
}

// Connected reports how many connections a user has open.
func (h *Hub) Connected(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.mu.Lock()
			if h.clients[c.UserID] == nil {
				h.clients[c.UserID] = make(map[*Client]struct{})
			}
			h.clients[c.UserID][c] = struct{}{}
			h.mu.Unlock()
			logger.Debug().Str("user_id", c.UserID.String()).Msg("client registered")
		case c := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.clients[c.UserID]; ok {
				if _, ok := conns[c]; ok {
					delete(conns, c)
					close(c.Send)
				}
				if len(conns) == 0 {
					delete(h.clients, c.UserID)
				}
			}
			h.mu.Unlock()
			logger.Debug().Str("user_id", c.UserID.String()).Msg("client unregistered")
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev services.ChangeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error().Err(err).Msg("marshal change event")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userID := range ev.Recipients {
		for c := range h.clients[userID] {
			select {
			case c.Send <- payload:
			default:
				logger.Warn().Str("user_id", userID.String()).Msg("client too slow, dropping change event")
			}
		}
	}
}
