// Package realtime streams board notifications to websocket clients and
// feeds each client's drag events into its own drag engine.
package realtime

import (
	"context"
	"encoding/json"
	"log"

	"kanboard/internal/notify"
)

const broadcastBuffer = 256

// Message is the envelope exchanged over the websocket in both directions.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	boardID string
	payload []byte
}

// Hub maintains the set of connected clients and fans notifications out to
// the clients watching the affected board.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
}

var _ notify.Notifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan outbound, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Register adds client to the hub. It reports false once the hub stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Notify queues n for every client on n.BoardID. Workspace-level
// notifications, which carry no board, go to every client. A full queue
// drops the notification rather than stall the mutation that produced it.
func (h *Hub) Notify(n notify.Notification) {
	payload, err := encode(TypeNotification, n)
	if err != nil {
		log.Printf("Error marshalling notification: %v", err)
		return
	}
	select {
	case h.broadcast <- outbound{boardID: n.BoardID, payload: payload}:
	default:
		log.Printf("⚠️  Broadcast queue full, dropping %s notification", n.Kind)
	}
}

// Run is the hub's main loop. When ctx is done it closes every connection
// and returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				client.conn.Close()
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client connected: %s (board %s)", client.userID, client.boardID)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client disconnected: %s (board %s)", client.userID, client.boardID)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if msg.boardID != "" && client.boardID != msg.boardID {
					continue
				}
				select {
				case client.send <- msg.payload:
				default:
					log.Printf("Client send buffer full, dropping message for %s", client.userID)
				}
			}
		}
	}
}

func encode(kind string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: kind, Data: raw})
}
