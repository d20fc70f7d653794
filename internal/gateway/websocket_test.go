package gateway

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/collab-editor/internal/document"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) received {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var r received
	require.NoError(t, conn.ReadJSON(&r))
	return r
}

func writeEvent(t *testing.T, conn *websocket.Conn, event string, data interface{}) {
	t.Helper()
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Envelope{Event: event, Data: b}))
}

func TestWebSocket_TwoSessionsEditDefault(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g, _ := newTestGateway(t)
	r := gin.New()
	r.GET("/ws", g.Handler())
	srv := httptest.NewServer(r)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	a := dial(t, url)
	b := dial(t, url)

	writeEvent(t, a, EventJoinDocument, map[string]interface{}{"documentId": document.DefaultID, "user": map[string]string{"id": "A"}})
	require.Equal(t, EventDocumentLoaded, readEvent(t, a).Event)
	require.Equal(t, EventUsersUpdate, readEvent(t, a).Event)

	writeEvent(t, b, EventJoinDocument, map[string]interface{}{"documentId": document.DefaultID, "user": map[string]string{"id": "B"}})
	require.Equal(t, EventDocumentLoaded, readEvent(t, b).Event)
	require.Equal(t, EventUsersUpdate, readEvent(t, b).Event)
	require.Equal(t, EventUsersUpdate, readEvent(t, a).Event)

	writeEvent(t, a, EventDocumentChange, map[string]interface{}{"documentId": document.DefaultID, "content": "hello", "user": map[string]string{"id": "A"}})
	got := readEvent(t, b)
	require.Equal(t, EventDocumentUpdate, got.Event)
	var upd DocumentUpdate
	require.NoError(t, json.Unmarshal(got.Data, &upd))
	require.Equal(t, "hello", upd.Content)
	require.JSONEq(t, `{"id":"A"}`, string(upd.User))

	// A's next frame is B's cursor, so A never saw its own change
	writeEvent(t, b, EventCursorPosition, map[string]interface{}{"documentId": document.DefaultID, "position": 5, "user": map[string]string{"id": "B"}})
	require.Equal(t, EventCursorUpdate, readEvent(t, a).Event)

	// B leaves; A gets the shrunken roster
	require.NoError(t, b.Close())
	left := readEvent(t, a)
	require.Equal(t, EventUsersUpdate, left.Event)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(left.Data, &users))
	require.Len(t, users, 1)
	require.Equal(t, "A", users[0]["id"])

	require.Eventually(t, func() bool { return g.SessionCount() == 1 }, time.Second, 10*time.Millisecond)
	g.Shutdown()
	require.Eventually(t, func() bool { return g.SessionCount() == 0 }, time.Second, 10*time.Millisecond)
}
