package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artfolio/internal/domain"
	"artfolio/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID int64, buf int) *client {
	return &client{userID: userID, send: make(chan []byte, buf)}
}

func TestHub_SendToAllConnectionsOfUser(t *testing.T) {
	hub := NewHub()
	a := newTestClient(1, 1)
	b := newTestClient(1, 1)
	other := newTestClient(2, 1)
	hub.register(a)
	hub.register(b)
	hub.register(other)

	n := hub.SendToUser(1, newNotificationEvent(domain.Notification{ID: 1, UserID: 1}))
	assert.Equal(t, 2, n)
	assert.Len(t, a.send, 1)
	assert.Len(t, b.send, 1)
	assert.Len(t, other.send, 0)
	assert.Equal(t, 3, hub.ConnectionCount())
}

func TestHub_SlowClientIsSkipped(t *testing.T) {
	hub := NewHub()
	slow := newTestClient(1, 1)
	hub.register(slow)

	assert.Equal(t, 1, hub.SendToUser(1, Event{Type: "notification"}))
	assert.Equal(t, 0, hub.SendToUser(1, Event{Type: "notification"}))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	c := newTestClient(4, 1)
	hub.register(c)
	require.True(t, hub.IsOnline(4))

	hub.unregister(c)
	hub.unregister(c)

	assert.False(t, hub.IsOnline(4))
	_, ok := <-c.send
	assert.False(t, ok)
}

func TestRedisBroker_HandleDeliversLocally(t *testing.T) {
	hub := NewHub()
	c := newTestClient(8, 1)
	hub.register(c)
	b := &RedisBroker{hub: hub, channel: Channel}

	payload, err := json.Marshal(domain.Notification{ID: 3, UserID: 8, Type: domain.NotifArtworkSold})
	require.NoError(t, err)
	b.handle(string(payload))
	b.handle("not json")

	require.Len(t, c.send, 1)
	var ev Event
	require.NoError(t, json.Unmarshal(<-c.send, &ev))
	assert.Equal(t, "notification", ev.Type)
	assert.Equal(t, int64(3), ev.Payload.ID)
}

func TestWebSocket_ReceivesNotification(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwtSvc := jwt.New("ws-secret", time.Hour)
	hub := NewHub()
	h := NewHandler(nil, hub, jwtSvc, nil)

	r := gin.New()
	h.RegisterWebSocket(r.Group("/api"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := jwtSvc.GenerateToken(11, "visitor")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.IsOnline(11) }, 2*time.Second, 10*time.Millisecond)

	pub := NewLocalPublisher(hub)
	require.NoError(t, pub.Publish(context.Background(), domain.Notification{ID: 5, UserID: 11, Title: "hi"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "notification", ev.Type)
	assert.Equal(t, "hi", ev.Payload.Title)
}

func TestWebSocket_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewHandler(nil, NewHub(), jwt.New("ws-secret", time.Hour), nil)
	r := gin.New()
	h.RegisterWebSocket(r.Group("/api"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notifications/ws?token=bad", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notifications/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
