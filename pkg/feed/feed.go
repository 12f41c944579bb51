// Package feed serves live capture audio over WebSocket. A Hub fans one
// stream of PCM frames out to every connected client: on connect a client
// receives one JSON text message describing the format, then binary
// messages carrying raw frames.
package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/presentformyfriends/sphinx4/pkg/audio/pcm"
)

const (
	writeTimeout = 5 * time.Second

	// clientQueue is the per-client frame backlog. A client that falls
	// further behind is disconnected rather than slowing the hub down.
	clientQueue = 32
)

// header is the JSON format announcement sent on connect.
type header struct {
	SampleRate int    `json:"sample_rate"`
	Depth      int    `json:"depth"`
	Channels   int    `json:"channels"`
	Signed     bool   `json:"signed"`
	ByteOrder  string `json:"byte_order"`
}

// Hub broadcasts PCM frames to websocket clients.
type Hub struct {
	log      *slog.Logger
	upgrader websocket.Upgrader
	header   []byte

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub announcing the given capture format to clients.
func NewHub(f pcm.Format, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	order := "le"
	if f.BigEndian {
		order = "be"
	}
	hdr, _ := json.Marshal(header{
		SampleRate: f.SampleRate,
		Depth:      f.Depth,
		Channels:   f.Channels,
		Signed:     f.Signed,
		ByteOrder:  order,
	})
	return &Hub{
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 8192,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		header:  hdr,
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and streams frames until the client
// disconnects or the hub closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, clientQueue)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.log.Debug("feed client connected", "remote", conn.RemoteAddr())

	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, h.header); err != nil {
		h.drop(c)
		return
	}

	// Reader loop: we never expect client data, but reading is how the
	// peer's close frame is noticed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(c)
				return
			}
		}
	}()

	for frame := range c.send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			h.drop(c)
			return
		}
	}
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
}

// Broadcast queues one frame for every connected client. Clients whose
// backlog is full are disconnected.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- frame:
		default:
			h.log.Warn("feed client too slow, dropping", "remote", c.conn.RemoteAddr())
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients. Broadcast afterwards is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// drop disconnects one client.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	c.conn.Close()
}
