// Package ws bridges a single idle game session to browser clients over
// websockets: game events are broadcast as JSON frames and client frames are
// dispatched as game intents.
package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/idlequest/internal/gameserver"
)

// Hub fans game events out to connected clients. It implements
// gameserver.Sink; state syncs are coalesced and built outside the game lock.
type Hub struct {
	logger *zap.Logger

	mu      sync.RWMutex
	clients map[*Client]bool
	stopped bool

	register   chan *Client
	unregister chan *Client
	dirty      chan struct{}
	done       chan struct{}
}

var _ gameserver.Sink = (*Hub)(nil)

// NewHub returns a Hub. Nothing is delivered until Run is called.
//
// Precondition: logger must be non-nil.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dirty:      make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Run delivers registrations and state syncs until ctx is cancelled, then
// closes every client.
//
// Precondition: game must be non-nil and must not be locked by the caller.
func (h *Hub) Run(ctx context.Context, game Game) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			h.stopped = true
			for c := range h.clients {
				c.close()
			}
			clear(h.clients)
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[c] = true
			}
			h.mu.Unlock()
			if data, ok := h.stateFrame(game); ok {
				c.trySend(data)
			}
			h.logger.Debug("client registered", zap.String("remote", c.remote))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("remote", c.remote))

		case <-h.dirty:
			if data, ok := h.stateFrame(game); ok {
				h.broadcast(data)
			}
		}
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register adds c to the broadcast set and sends it the current state.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// LogMessage implements gameserver.Sink.
func (h *Hub) LogMessage(text string) {
	h.send(MessageTypeLog, LogPayload{Text: text})
}

// CombatText implements gameserver.Sink.
func (h *Hub) CombatText(ct gameserver.CombatText) {
	h.send(MessageTypeCombatText, ct)
}

// StateChanged implements gameserver.Sink. Bursts collapse into one sync.
func (h *Hub) StateChanged() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

func (h *Hub) send(t MessageType, payload any) {
	msg, err := NewMessage(t, payload)
	if err != nil {
		h.logger.Error("encoding frame", zap.String("type", string(t)), zap.Error(err))
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding frame", zap.String("type", string(t)), zap.Error(err))
		return
	}
	h.broadcast(data)
}

// broadcast never blocks; a client whose buffer is full misses the frame.
func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.trySend(data) {
			h.logger.Warn("client send buffer full, frame dropped", zap.String("remote", c.remote))
		}
	}
}

func (h *Hub) stateFrame(game Game) ([]byte, bool) {
	msg, err := NewMessage(MessageTypeStateSync, game.Snapshot())
	if err != nil {
		h.logger.Error("encoding state", zap.Error(err))
		return nil, false
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding state", zap.Error(err))
		return nil, false
	}
	return data, true
}
