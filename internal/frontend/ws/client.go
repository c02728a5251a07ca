package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 256
)

// Client is one websocket connection.
type Client struct {
	hub    *Hub
	game   Game
	conn   *websocket.Conn
	logger *zap.Logger
	remote string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// NewClient wraps conn. Call ReadPump and WritePump on separate goroutines.
func NewClient(hub *Hub, game Game, conn *websocket.Conn, logger *zap.Logger) *Client {
	remote := conn.RemoteAddr().String()
	return &Client{
		hub:    hub,
		game:   game,
		conn:   conn,
		logger: logger.With(zap.String("remote", remote)),
		remote: remote,
		send:   make(chan []byte, sendBuffer),
	}
}

// ReadPump decodes client frames and dispatches them until the connection
// fails.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket error", zap.Error(err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("INVALID_MESSAGE", "frame is not a JSON message")
			continue
		}
		c.handleMessage(&msg)
	}
}

func (c *Client) handleMessage(msg *Message) {
	if msg.Type == MessageTypeSyncState {
		if data, ok := c.hub.stateFrame(c.game); ok {
			c.trySend(data)
		}
		return
	}
	if err := Dispatch(c.game, msg); err != nil {
		c.logger.Debug("intent failed", zap.String("type", string(msg.Type)), zap.Error(err))
		c.sendError(errorCode(err), err.Error())
	}
}

// WritePump writes queued frames and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.trySend(data)
}

// trySend queues data without blocking. It reports false when the buffer
// is full or the client is closed.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
