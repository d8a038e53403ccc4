package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/foodcourt/orders/internal/service/models/order"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, orderID int64, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.subscribers(orderID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("order %d never reached %d subscribers", orderID, want)
}

func TestHub_JoinReceivesNotice(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(controlMessage{Action: actionJoin, OrderID: 42}))
	waitForSubscribers(t, hub, 42, 1)

	ts := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	hub.NotifyStatus(42, order.StatusConfirmed, ts)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var notice statusNotice
	require.NoError(t, conn.ReadJSON(&notice))
	assert.Equal(t, int64(42), notice.OrderID)
	assert.Equal(t, order.StatusConfirmed, notice.Status)
	assert.Equal(t, ts, notice.Timestamp.UTC())
}

func TestHub_NoticeScopedToOrder(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(controlMessage{Action: actionJoin, OrderID: 42}))
	waitForSubscribers(t, hub, 42, 1)

	hub.NotifyStatus(43, order.StatusConfirmed, time.Now())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var notice statusNotice
	assert.Error(t, conn.ReadJSON(&notice), "notice for another order must not be delivered")
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(controlMessage{Action: actionJoin, OrderID: 42}))
	waitForSubscribers(t, hub, 42, 1)
	require.NoError(t, conn.WriteJSON(controlMessage{Action: actionLeave, OrderID: 42}))
	waitForSubscribers(t, hub, 42, 0)

	hub.NotifyStatus(42, order.StatusConfirmed, time.Now())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var notice statusNotice
	assert.Error(t, conn.ReadJSON(&notice))
}

func TestHub_LateJoinGetsNothingRetroactively(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	hub.NotifyStatus(42, order.StatusConfirmed, time.Now())

	require.NoError(t, conn.WriteJSON(controlMessage{Action: actionJoin, OrderID: 42}))
	waitForSubscribers(t, hub, 42, 1)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	var notice statusNotice
	assert.Error(t, conn.ReadJSON(&notice), "transitions before the join must not be replayed")
}

func TestHub_DisconnectPrunesRooms(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.NoError(t, conn.WriteJSON(controlMessage{Action: actionJoin, OrderID: 42}))
	waitForSubscribers(t, hub, 42, 1)

	require.NoError(t, conn.Close())
	waitForSubscribers(t, hub, 42, 0)
}
