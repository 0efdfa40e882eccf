package realtime

import (
	"encoding/json"
	"log"
	"time"

	"kanboard/internal/dragdrop"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024

	sendBuffer = 64
)

// Client message types
const (
	TypePing      = "ping"
	TypeDragStart = "dragStart"
	TypeDragOver  = "dragOver"
	TypeDrop      = "drop"
	TypeDragEnd   = "dragEnd"
)

// Server message types
const (
	TypePong         = "pong"
	TypeNotification = "notification"
	TypeHighlight    = "highlight"
	TypeDropResult   = "dropResult"
	TypeError        = "error"
)

// DragStartData starts a card drag when CardID is set, a list drag
// otherwise.
type DragStartData struct {
	CardID string `json:"card_id,omitempty"`
	ListID string `json:"list_id"`
}

// DragOverData carries either the element path under the pointer or an
// already resolved target. A nil CardIndex means the end of the list.
type DragOverData struct {
	Path      []dragdrop.Element `json:"path,omitempty"`
	ListID    string             `json:"list_id,omitempty"`
	CardIndex *int               `json:"card_index,omitempty"`
}

type HighlightData struct {
	Previous dragdrop.Target `json:"previous"`
	Next     dragdrop.Target `json:"next"`
}

type DropResultData struct {
	Outcome      string `json:"outcome"`
	CardID       string `json:"card_id,omitempty"`
	ListID       string `json:"list_id,omitempty"`
	SourceListID string `json:"source_list_id,omitempty"`
	TargetListID string `json:"target_list_id,omitempty"`
	Index        int    `json:"index"`
}

type ErrorData struct {
	Error string `json:"error"`
}

// Client is one websocket connection watching one board. Its drag engine is
// only touched from the read pump.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	userID  string
	boardID string
	engine  *dragdrop.Engine
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, boardID string, store dragdrop.BoardStore) *Client {
	c := &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
		userID:  userID,
		boardID: boardID,
	}
	c.engine = dragdrop.New(store, dragdrop.WithHighlighter(func(prev, next dragdrop.Target) {
		c.reply(TypeHighlight, HighlightData{Previous: prev, Next: next})
	}))
	return c
}

// ReadPump reads drag events until the connection fails, then drops any
// drag in progress and unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.engine.Cancel()
		close(c.done)
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.reply(TypeError, ErrorData{Error: "malformed message"})
			continue
		}
		c.handle(msg)
	}
}

func (c *Client) handle(msg Message) {
	switch msg.Type {
	case TypePing:
		c.reply(TypePong, map[string]string{"timestamp": time.Now().Format(time.RFC3339)})

	case TypeDragStart:
		var data DragStartData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.reply(TypeError, ErrorData{Error: "invalid dragStart data"})
			return
		}
		var started bool
		if data.CardID != "" {
			started = c.engine.StartCard(data.CardID, data.ListID)
		} else {
			started = c.engine.StartList(data.ListID)
		}
		if !started {
			c.reply(TypeError, ErrorData{Error: "drag already in progress"})
		}

	case TypeDragOver:
		var data DragOverData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.reply(TypeError, ErrorData{Error: "invalid dragOver data"})
			return
		}
		if len(data.Path) > 0 {
			c.engine.OverPath(data.Path)
			return
		}
		target := dragdrop.Target{ListID: data.ListID, CardIndex: dragdrop.EndOfList}
		if data.CardIndex != nil {
			target.CardIndex = *data.CardIndex
		}
		c.engine.Over(target)

	case TypeDrop:
		res := c.engine.Drop()
		c.reply(TypeDropResult, DropResultData{
			Outcome:      res.Outcome.String(),
			CardID:       res.CardID,
			ListID:       res.ListID,
			SourceListID: res.SourceListID,
			TargetListID: res.TargetListID,
			Index:        res.Index,
		})

	case TypeDragEnd:
		c.engine.Cancel()

	default:
		c.reply(TypeError, ErrorData{Error: "unknown message type " + msg.Type})
	}
}

// reply queues a message for this client only.
func (c *Client) reply(kind string, data interface{}) {
	payload, err := encode(kind, data)
	if err != nil {
		log.Printf("Error marshalling %s message: %v", kind, err)
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Printf("Client send buffer full, dropping %s for %s", kind, c.userID)
	}
}

// WritePump writes queued messages and keeps the connection alive with
// pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
