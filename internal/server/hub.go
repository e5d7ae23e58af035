package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Event is one message on the live score feed.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one connected WebSocket subscriber.
type Client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans accepted scores out to WebSocket subscribers.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

// NewHub initializes and returns a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- event:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues an event for all subscribers without blocking the caller.
func (h *Hub) Publish(event Event) {
	select {
	case h.broadcast <- event:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a WebSocket subscription.
func ServeWs(h *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	client := &Client{conn: conn, send: make(chan Event, 256)}
	h.register <- client
	go client.writePump()
	go client.readPump(h)
}

// readPump drains the connection so close frames are processed.
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		if cerr := c.conn.Close(); cerr != nil {
			// Best-effort connection close.
			_ = cerr
		}
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read failed: %v", err)
			}
			return
		}
	}
}

// writePump sends queued events to the connection.
func (c *Client) writePump() {
	defer func() {
		if cerr := c.conn.Close(); cerr != nil {
			// Best-effort connection close.
			_ = cerr
		}
	}()
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
}
