// Package routinews pushes committed routine changes to every open websocket
// session of the routine's owner.
package routinews

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
	"github.com/soniarr234/fitlover-back/internal/events"
)

// Hub owns the client sets; all mutation happens on the Run goroutine.
// done is closed when Run returns.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan events.RoutineEvent
	done       chan struct{}
	logger     logrus.FieldLogger
}

// Client is one websocket session. send is never closed; dropping the
// client closes done exactly once.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	userID    int64
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Frame is the JSON envelope written to clients.
type Frame struct {
	Type      string               `json:"type"`
	Event     *events.RoutineEvent `json:"event,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp string               `json:"timestamp"`
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan events.RoutineEvent, 64),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
		done:   make(chan struct{}),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Run serves registrations and deliveries until ctx is done, then closes
// every remaining client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for userID, set := range h.clients {
				for client := range set {
					client.close()
				}
				delete(h.clients, userID)
			}
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Register adds the client. After the hub has stopped the client is closed
// straight away.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

// Publish queues the event for the owner's sessions. It implements
// events.Publisher.
func (h *Hub) Publish(ctx context.Context, event events.RoutineEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) drop(client *Client) {
	client.close()

	set, ok := h.clients[client.userID]
	if !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(h.clients, client.userID)
	}
}

func (h *Hub) deliver(event events.RoutineEvent) {
	payload, err := encodeFrame(Frame{Type: "routine_event", Event: &event, Timestamp: formatTimestamp(event.OccurredAt)})
	if err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Warn("encode routine event frame")
		}
		return
	}

	set, ok := h.clients[event.UserID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- payload:
		default:
			// Slow consumer: drop the session rather than block the hub.
			delete(set, client)
			client.close()
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.UserID)
	}
}

func encodeFrame(frame Frame) ([]byte, error) {
	return json.Marshal(frame)
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.UTC().Format(time.RFC3339)
}

// ReadPump keeps the connection alive. Clients may only send pings; routine
// changes go through the HTTP API.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.reply(Frame{Type: "error", Error: "invalid message payload"})
			continue
		}
		if incoming.Type != "ping" {
			c.reply(Frame{Type: "error", Error: "unsupported message type"})
			continue
		}
		c.reply(Frame{Type: "pong"})
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

func (c *Client) reply(frame Frame) {
	frame.Timestamp = formatTimestamp(time.Now())
	payload, err := encodeFrame(frame)
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- payload:
	default:
		c.hub.Unregister(c)
	}
}
