// Package gateway owns WebSocket sessions and turns their events into
// registry and presence operations plus room broadcasts.
package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gogotex/collab-editor/internal/document"
	"github.com/gogotex/collab-editor/internal/presence"
	"github.com/gogotex/collab-editor/pkg/logger"
	"github.com/gogotex/collab-editor/pkg/metrics"
	"github.com/gorilla/websocket"
	"github.com/segmentio/ksuid"
)

// Documents is the part of the document registry the gateway uses.
type Documents interface {
	Get(id string) (*document.Document, error)
	UpdateContent(id, content string) bool
}

// Client is one live session. Outbound messages queue on send and are
// written in order by the session's write pump.
type Client struct {
	ID string

	send      chan []byte
	conn      *websocket.Conn
	closeOnce sync.Once
}

// Messages exposes the outbound queue.
func (c *Client) Messages() <-chan []byte { return c.send }

// kick closes the underlying connection; the read pump then runs the
// regular disconnect path.
func (c *Client) kick() {
	c.closeOnce.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// Gateway dispatches session events. Handlers run one at a time under mu so
// each event's registry, presence and broadcast steps are atomic.
type Gateway struct {
	docs       Documents
	presence   *presence.Tracker
	newID      func() string
	sendBuffer int
	upgrader   websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*Client
}

type Option func(*Gateway)

// WithSendBuffer sets the per-session outbound queue length.
func WithSendBuffer(n int) Option {
	return func(g *Gateway) {
		if n > 0 {
			g.sendBuffer = n
		}
	}
}

func WithSessionIDGenerator(gen func() string) Option { return func(g *Gateway) { g.newID = gen } }

func New(docs Documents, tracker *presence.Tracker, opts ...Option) *Gateway {
	g := &Gateway{
		docs:       docs,
		presence:   tracker,
		newID:      func() string { return ksuid.New().String() },
		sendBuffer: 256,
		clients:    make(map[string]*Client),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		// any origin may connect, matching the HTTP API's CORS policy
		CheckOrigin: func(_ *http.Request) bool { return true },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Connect registers a new session with a fresh id.
func (g *Gateway) Connect() *Client {
	return g.register(nil)
}

func (g *Gateway) register(conn *websocket.Conn) *Client {
	c := &Client{ID: g.newID(), send: make(chan []byte, g.sendBuffer), conn: conn}
	g.mu.Lock()
	g.clients[c.ID] = c
	g.mu.Unlock()
	metrics.SessionsConnected.Inc()
	logger.Infof("user connected: %s", c.ID)
	return c
}

// Disconnect removes the session from every room and tells the remaining
// members. Calling it twice is harmless.
func (g *Gateway) Disconnect(c *Client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.clients[c.ID] != c {
		return
	}
	delete(g.clients, c.ID)
	close(c.send)
	metrics.SessionsConnected.Dec()
	logger.Infof("user disconnected: %s", c.ID)

	for _, u := range g.presence.Leave(c.ID) {
		g.broadcastLocked(u.DocumentID, "", EventUsersUpdate, u.Members)
	}
}

// SessionCount returns the number of connected sessions.
func (g *Gateway) SessionCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.clients)
}

// Shutdown closes every connection.
func (g *Gateway) Shutdown() {
	g.mu.Lock()
	clients := make([]*Client, 0, len(g.clients))
	for _, c := range g.clients {
		clients = append(clients, c)
	}
	g.mu.Unlock()
	for _, c := range clients {
		c.kick()
	}
}

// Dispatch handles one inbound message from c. A malformed envelope or an
// unknown event returns an error and changes nothing. Payload fields are read
// best-effort: a field of the wrong type falls back to its zero value.
func (g *Gateway) Dispatch(c *Client, raw []byte) error {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.clients[c.ID] != c {
		return fmt.Errorf("session %s is not connected", c.ID)
	}

	switch env.Event {
	case EventJoinDocument, EventDocumentChange, EventCursorPosition:
	default:
		return fmt.Errorf("unknown event %q", env.Event)
	}
	metrics.EventsReceived.WithLabelValues(env.Event).Inc()

	p := decodePayload(env.Data)
	switch env.Event {
	case EventJoinDocument:
		g.joinLocked(c, p)
	case EventDocumentChange:
		g.changeLocked(c, p)
	case EventCursorPosition:
		g.broadcastLocked(p.documentID(), c.ID, EventCursorUpdate, CursorUpdate{Position: p.Position, User: p.User})
	}
	return nil
}

func (g *Gateway) joinLocked(c *Client, p payload) {
	docID := p.documentID()
	members := g.presence.Join(docID, c.ID, presence.User(p.user()))
	if doc, err := g.docs.Get(docID); err == nil {
		g.emitLocked(c, EventDocumentLoaded, doc)
	}
	g.broadcastLocked(docID, "", EventUsersUpdate, members)
}

func (g *Gateway) changeLocked(c *Client, p payload) {
	docID, content := p.documentID(), p.content()
	if !g.docs.UpdateContent(docID, content) {
		logger.Debugf("dropping change from %s for unknown document %q", c.ID, docID)
		return
	}
	g.broadcastLocked(docID, c.ID, EventDocumentUpdate, DocumentUpdate{Content: content, User: p.User})
}

func (g *Gateway) emitLocked(c *Client, event string, data interface{}) {
	msg, err := encode(event, data)
	if err != nil {
		logger.Errorf("encode %s: %v", event, err)
		return
	}
	g.deliverLocked(c, msg)
}

// broadcastLocked sends to every session in the document's room except the
// one whose id equals exclude.
func (g *Gateway) broadcastLocked(documentID, exclude, event string, data interface{}) {
	msg, err := encode(event, data)
	if err != nil {
		logger.Errorf("encode %s: %v", event, err)
		return
	}
	for _, id := range g.presence.Sessions(documentID) {
		if id == exclude {
			continue
		}
		if c, ok := g.clients[id]; ok {
			g.deliverLocked(c, msg)
		}
	}
}

func (g *Gateway) deliverLocked(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		metrics.MessagesDropped.Inc()
		logger.Warnf("session %s send queue full, closing connection", c.ID)
		c.kick()
	}
}
