package realtime

import (
	"encoding/json"
	"time"

	"kree/models"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 256
)

// EventHandler dispatches one inbound client event. Handler failures must be
// reported to the originating session only, never broadcast.
type EventHandler interface {
	HandleEvent(c *Client, env Envelope)
}

// Client is one live authenticated session: a websocket connection plus the
// identity resolved during the handshake. Room membership lives in the Hub.
type Client struct {
	UserID   string
	Role     models.Role
	UserName string

	conn    *websocket.Conn
	hub     *Hub
	handler EventHandler
	logger  *zap.Logger
	send    chan ServerEvent
	stop    chan struct{}
}

// NewClient wraps an upgraded connection with its session identity.
func NewClient(user *models.User, conn *websocket.Conn, hub *Hub, handler EventHandler, logger *zap.Logger) *Client {
	return &Client{
		UserID:   user.ID,
		Role:     user.Role,
		UserName: user.DisplayName(),
		conn:     conn,
		hub:      hub,
		handler:  handler,
		logger:   logger,
		send:     make(chan ServerEvent, sendQueueSize),
		stop:     make(chan struct{}),
	}
}

// Queue enqueues an outbound event, reporting false when the session's send
// queue is full (the event is dropped, per best-effort delivery).
func (c *Client) Queue(event string, payload interface{}) bool {
	select {
	case c.send <- ServerEvent{Event: event, Data: payload}:
		return true
	default:
		return false
	}
}

// QueueError sends an error event to this session only.
func (c *Client) QueueError(message string) {
	c.Queue(EventError, ErrorPayload{Message: message})
}

// WritePump flushes the send queue to the connection and keeps the
// connection alive with pings. It exits when the connection dies or the
// client is stopped.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.stop:
			return
		}
	}
}

// ReadPump processes inbound events in arrival order until the connection
// closes, then tears the session down.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		close(c.stop)
		c.conn.Close()
		c.logger.Info("session disconnected",
			zap.String("user", c.UserID),
			zap.String("role", string(c.Role)))
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.QueueError("invalid message format")
			continue
		}
		c.handler.HandleEvent(c, env)
	}
}
