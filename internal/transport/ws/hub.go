package ws

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	actionJoin  = "join"
	actionLeave = "leave"
)

// controlMessage is what a client sends to enroll in or leave an order's
// channel.
type controlMessage struct {
	Action  string `json:"action"`
	OrderID int64  `json:"orderId"`
}

// statusNotice is the transition notice pushed to enrolled connections.
type statusNotice struct {
	OrderID   int64        `json:"orderId"`
	Status    order.Status `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}

// client wraps a connection with a write lock, since notices for different
// orders may fan out to the same connection concurrently.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v any, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))

	return c.conn.WriteJSON(v)
}

// Hub fans status notices out to clients subscribed to per-order channels.
// Nothing is persisted or replayed: a client that joins after a transition
// has fired will not see it.
type Hub struct {
	mu           sync.RWMutex
	rooms        map[int64]map[*client]struct{}
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int64]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			// The upstream gateway is responsible for origin policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		writeTimeout: 5 * time.Second,
	}
}

// HandleWS upgrades the connection and serves join/leave control messages
// until the client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", "error", err)

		return
	}

	c := &client{conn: conn}
	defer h.drop(c)

	for {
		var msg controlMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Action {
		case actionJoin:
			h.join(c, msg.OrderID)
		case actionLeave:
			h.leave(c, msg.OrderID)
		}
	}
}

// NotifyStatus pushes a transition notice to every connection enrolled in
// the order's channel. It returns immediately; delivery happens in the
// background and failed connections are dropped.
func (h *Hub) NotifyStatus(orderID int64, status order.Status, ts time.Time) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.rooms[orderID]))
	for c := range h.rooms[orderID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	notice := statusNotice{
		OrderID:   orderID,
		Status:    status,
		Timestamp: ts,
	}

	go func() {
		g := errgroup.Group{}
		g.SetLimit(3)

		for _, c := range clients {
			c := c
			g.Go(func() error {
				if err := c.send(notice, h.writeTimeout); err != nil {
					slog.Warn("Failed to push status notice, dropping subscriber",
						"order_id", orderID,
						"error", err,
					)
					h.drop(c)
				}

				return nil
			})
		}

		_ = g.Wait()
	}()
}

func (h *Hub) join(c *client, orderID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[orderID]
	if !ok {
		room = make(map[*client]struct{})
		h.rooms[orderID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) leave(c *client, orderID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c, orderID)
}

// drop removes the client from every room and closes the connection.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	for orderID := range h.rooms {
		h.removeLocked(c, orderID)
	}
	h.mu.Unlock()

	_ = c.conn.Close()
}

func (h *Hub) removeLocked(c *client, orderID int64) {
	room, ok := h.rooms[orderID]
	if !ok {
		return
	}

	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, orderID)
	}
}

// subscribers reports how many connections are enrolled in an order's
// channel.
func (h *Hub) subscribers(orderID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[orderID])
}
