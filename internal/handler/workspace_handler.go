package handler

import (
	"net/http"
	"time"

	"kanboard/internal/model"
	"kanboard/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkspaceHandler struct {
	kanban *service.Kanban
}

func NewWorkspaceHandler(kanban *service.Kanban) *WorkspaceHandler {
	return &WorkspaceHandler{kanban: kanban}
}

type WorkspaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type BoardSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ListCount int       `json:"list_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WorkspaceResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	Current     bool           `json:"current"`
	Boards      []BoardSummary `json:"boards"`
}

func (h *WorkspaceHandler) toResponse(ws model.Workspace) WorkspaceResponse {
	current, _ := h.kanban.Current()
	boards := make([]BoardSummary, len(ws.Boards))
	for i, b := range ws.Boards {
		boards[i] = BoardSummary{
			ID:        b.ID,
			Title:     b.Title,
			ListCount: len(b.Lists),
			UpdatedAt: b.UpdatedAt,
		}
	}
	return WorkspaceResponse{
		ID:          ws.ID,
		Title:       ws.Title,
		Description: ws.Description,
		CreatedAt:   ws.CreatedAt,
		Current:     ws.ID == current.ID,
		Boards:      boards,
	}
}

// GetAll godoc
// @Summary      List workspaces
// @Tags         Workspaces
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} WorkspaceResponse
// @Router       /workspaces [get]
func (h *WorkspaceHandler) GetAll(c *gin.Context) {
	workspaces := h.kanban.Workspaces()
	response := make([]WorkspaceResponse, len(workspaces))
	for i, ws := range workspaces {
		response[i] = h.toResponse(ws)
	}
	c.JSON(http.StatusOK, response)
}

func (h *WorkspaceHandler) GetByID(c *gin.Context) {
	ws, err := h.kanban.Workspace(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(ws))
}

// Create godoc
// @Summary      Create a workspace
// @Tags         Workspaces
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body WorkspaceRequest true "Workspace"
// @Success      201 {object} WorkspaceResponse
// @Failure      400 {object} map[string]string
// @Router       /workspaces [post]
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	ws, err := h.kanban.CreateWorkspace(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toResponse(ws))
}

func (h *WorkspaceHandler) Update(c *gin.Context) {
	var req WorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	id := c.Param("id")
	if _, err := h.kanban.UpdateWorkspace(c.Request.Context(), id, req.Title, req.Description); err != nil {
		respondError(c, err)
		return
	}
	ws, err := h.kanban.Workspace(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResponse(ws))
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	if err := h.kanban.DeleteWorkspace(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workspace deleted successfully"})
}

// GetCurrent returns the active workspace.
func (h *WorkspaceHandler) GetCurrent(c *gin.Context) {
	ws, ok := h.kanban.Current()
	if !ok {
		notFound(c, "Workspace")
		return
	}
	c.JSON(http.StatusOK, h.toResponse(ws))
}

func (h *WorkspaceHandler) SetCurrent(c *gin.Context) {
	id := c.Param("id")
	if err := h.kanban.SetCurrent(id); err != nil {
		respondError(c, err)
		return
	}
	ws, _ := h.kanban.Workspace(id)
	c.JSON(http.StatusOK, h.toResponse(ws))
}
