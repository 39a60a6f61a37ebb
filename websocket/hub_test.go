package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HSouheill/admarket_backend/models"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func TestHubRoutesToEveryConnectionOfUser(t *testing.T) {
	hub := startHub(t)
	user := primitive.NewObjectID()

	first, second := newClient(user), newClient(user)
	require.True(t, hub.add(first))
	require.True(t, hub.add(second))
	require.Eventually(t, func() bool { return hub.Connected(user) }, time.Second, time.Millisecond)

	event := models.StatusChangeEvent{ApplicationID: primitive.NewObjectID(), From: models.StatusEmployeeReview, To: models.StatusClientReview}
	require.NoError(t, hub.NotifyStatusChange(user, event))

	for _, c := range []*Client{first, second} {
		n := <-c.send
		assert.Equal(t, NotificationTypeStatusChange, n.Type)
		assert.Equal(t, event, n.Data)
		assert.Contains(t, n.Message, "client_review")
	}

	err := hub.NotifyStatusChange(primitive.NewObjectID(), event)
	assert.ErrorIs(t, err, ErrNotConnected)

	hub.remove(first)
	hub.remove(second)
	assert.Eventually(t, func() bool { return !hub.Connected(user) }, time.Second, time.Millisecond)
	_, open := <-first.send
	assert.False(t, open)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := startHub(t)
	user := primitive.NewObjectID()
	client := newClient(user)
	require.True(t, hub.add(client))
	require.Eventually(t, func() bool { return hub.Connected(user) }, time.Second, time.Millisecond)

	for i := 0; i < sendBuffer+5; i++ {
		require.NoError(t, hub.SendToUser(user, Notification{Type: "ping"}))
	}
	assert.Len(t, client.send, sendBuffer)
}

func TestHubStopsOnCancel(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := newClient(primitive.NewObjectID())
	require.True(t, hub.add(client))
	cancel()
	<-stopped

	_, open := <-client.send
	assert.False(t, open)
	assert.False(t, hub.add(newClient(primitive.NewObjectID())))
	hub.remove(client)
}

func TestHandleWebSocket(t *testing.T) {
	hub := startHub(t)
	user := primitive.NewObjectID()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(c, hub, user)
	})
	server := httptest.NewServer(e)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var welcome Notification
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, NotificationTypeConnected, welcome.Type)
	assert.Equal(t, user.Hex(), welcome.UserID)

	require.Eventually(t, func() bool { return hub.Connected(user) }, time.Second, time.Millisecond)
	require.NoError(t, hub.NotifyStatusChange(user, models.StatusChangeEvent{From: models.StatusClientReview, To: models.StatusApproved}))

	var pushed Notification
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&pushed))
	assert.Equal(t, NotificationTypeStatusChange, pushed.Type)
	data, ok := pushed.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "approved", data["to"])
}
