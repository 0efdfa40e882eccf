package realtime

import (
	"errors"
	"log"
	"net/http"

	"kanboard/internal/middleware"
	"kanboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	kanban   *service.Kanban
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts websocket connections from allowedOrigins. A "*"
// entry accepts any origin.
func NewHandler(kanban *service.Kanban, hub *Hub, allowedOrigins []string) *Handler {
	return &Handler{
		kanban: kanban,
		hub:    hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWS upgrades the request and serves drag events for one board until
// the client disconnects.
func (h *Handler) ServeWS(c *gin.Context) {
	boardID := c.Param("board_id")
	userID, _ := middleware.UserID(c)

	store, err := h.kanban.Session(c.Request.Context(), boardID)
	if err != nil {
		if errors.Is(err, service.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open board"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, userID, boardID, store)
	if !h.hub.Register(client) {
		conn.Close()
		return
	}

	go client.WritePump()
	// The read pump runs on the request goroutine so the request context,
	// which persists moves, lives as long as the connection.
	client.ReadPump()
}
