// Package websocket serves live search sessions. Each connection owns a
// search view; the hub routes client events to it and pushes rendered
// state back. The hub also fans out log entries to subscribed clients.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cinefinder/cinefinder/internal/metrics"
	"github.com/cinefinder/cinefinder/internal/searchview"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096

	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FragmentRenderer renders the results and suggestions partials.
type FragmentRenderer interface {
	Fragment(name string, data any) (string, error)
}

// incomingMessage wraps a message from a client.
type incomingMessage struct {
	client  *Client
	message []byte
}

// Hub manages live search connections.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan incomingMessage
	mu         sync.RWMutex

	fetcher  searchview.Fetcher
	renderer FragmentRenderer
	opts     searchview.Options
	logger   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// Message is the envelope of every frame in both directions.
type Message struct {
	Type      string `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
}

// NewHub creates a hub whose sessions search through fetcher.
func NewHub(fetcher searchview.Fetcher, renderer FragmentRenderer, opts searchview.Options, logger zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	opts.Logger = logger
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan incomingMessage, 256),
		fetcher:    fetcher,
		renderer:   renderer,
		opts:       opts,
		logger:     logger.With().Str("component", "websocket").Logger(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run starts the hub's main loop. It returns when ctx is done, after
// closing every session.
func (h *Hub) Run(ctx context.Context) {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.ActiveSessions.Inc()
			h.logger.Debug().Str("session", client.id).Msg("Session opened")
			go client.watch()

		case client := <-h.unregister:
			h.remove(client)

		case incoming := <-h.incoming:
			h.handleIncoming(incoming)
		}
	}
}

// remove drops a client and closes its session. It is a no-op for clients
// already removed.
func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.mu.Unlock()

	client.view.Close()
	metrics.ActiveSessions.Dec()
	h.logger.Debug().Str("session", client.id).Msg("Session closed")
}

func (h *Hub) shutdown() {
	h.cancel()

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
}

// Broadcast sends a message to every client subscribed to logs. Slow
// clients miss entries rather than block the caller.
func (h *Hub) Broadcast(msgType string, payload any) {
	data, err := encode(msgType, payload)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if !client.logs.Load() {
			continue
		}
		select {
		case client.send <- data:
		default:
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ReapIdle disconnects sessions with no client activity for maxIdle and
// returns how many were closed.
func (h *Hub) ReapIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	h.mu.RLock()
	var idle []*Client
	for c := range h.clients {
		if c.lastSeen().Before(cutoff) {
			idle = append(idle, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range idle {
		h.logger.Info().Str("session", c.id).Msg("Closing idle session")
		c.conn.Close()
	}
	return len(idle)
}

// HandleWebSocket upgrades the request and starts a session.
func (h *Hub) HandleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		view: searchview.New(h.ctx, h.fetcher, h.opts),
	}
	client.touch()

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		client.view.Close()
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()

	return nil
}

// enqueue queues data for client unless it has been removed. Nothing is
// logged while h.mu is held: the log writer broadcasts through the hub.
func (h *Hub) enqueue(client *Client, data []byte) bool {
	h.mu.RLock()
	if !h.clients[client] {
		h.mu.RUnlock()
		return false
	}
	queued := false
	select {
	case client.send <- data:
		queued = true
	default:
	}
	h.mu.RUnlock()

	if !queued {
		h.logger.Warn().Str("session", client.id).Msg("Send buffer full, dropping state")
	}
	return queued
}

func encode(msgType string, payload any) ([]byte, error) {
	return json.Marshal(Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
