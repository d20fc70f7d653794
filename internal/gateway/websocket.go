package gateway

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/collab-editor/pkg/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 8 << 20
)

// Handler upgrades the request to a WebSocket and serves the session until
// the connection drops.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := g.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			logger.Warnf("websocket upgrade failed: %v", err)
			return
		}
		c := g.register(conn)
		go g.writePump(c)
		g.readPump(c)
	}
}

func (g *Gateway) readPump(c *Client) {
	defer func() {
		g.Disconnect(c)
		c.kick()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("websocket read %s: %v", c.ID, err)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := g.Dispatch(c, message); err != nil {
			logger.Warnf("ignoring message from %s: %v", c.ID, err)
		}
	}
}

func (g *Gateway) writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.kick()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
