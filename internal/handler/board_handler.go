package handler

import (
	"net/http"

	"kanboard/internal/board"
	"kanboard/internal/model"
	"kanboard/internal/service"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	kanban *service.Kanban
}

func NewBoardHandler(kanban *service.Kanban) *BoardHandler {
	return &BoardHandler{kanban: kanban}
}

type TitleRequest struct {
	Title string `json:"title" binding:"required"`
}

// CoverRequest sets a color or image cover. An empty body removes it.
type CoverRequest struct {
	Color string `json:"color"`
	URL   string `json:"url"`
}

func (r CoverRequest) cover() *model.Cover {
	if r.Color == "" && r.URL == "" {
		return nil
	}
	return &model.Cover{Color: r.Color, URL: r.URL}
}

type MoveListRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

type MoveResponse struct {
	Moved bool `json:"moved"`
}

// Create godoc
// @Summary      Add a board to a workspace
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string       true "Workspace ID"
// @Param        request body TitleRequest true "Board"
// @Success      201 {object} model.Board
// @Failure      404 {object} map[string]string
// @Router       /workspaces/{id}/boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	b, err := h.kanban.AddBoard(c.Request.Context(), c.Param("id"), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetByID godoc
// @Summary      Get a board with its lists and cards
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        board_id path string true "Board ID"
// @Success      200 {object} model.Board
// @Failure      404 {object} map[string]string
// @Router       /boards/{board_id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
	b, err := h.kanban.Board(c.Param("board_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BoardHandler) Update(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	boardID := c.Param("board_id")
	if _, err := h.kanban.UpdateBoardTitle(c.Request.Context(), boardID, req.Title); err != nil {
		respondError(c, err)
		return
	}
	b, err := h.kanban.Board(boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BoardHandler) Delete(c *gin.Context) {
	if err := h.kanban.DeleteBoard(c.Request.Context(), c.Param("id"), c.Param("board_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Board deleted successfully"})
}

func (h *BoardHandler) AddList(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var list model.List
	_, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		list = s.AddList(req.Title)
		return true
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

func (h *BoardHandler) UpdateList(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.mutateList(c, func(s *board.Store, listID string) bool {
		return s.UpdateListTitle(listID, req.Title)
	})
}

func (h *BoardHandler) UpdateListCover(c *gin.Context) {
	var req CoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.mutateList(c, func(s *board.Store, listID string) bool {
		return s.UpdateListCover(listID, req.cover())
	})
}

func (h *BoardHandler) DeleteList(c *gin.Context) {
	found := false
	_, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		found = s.DeleteList(c.Param("list_id"))
		return found
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		notFound(c, "List")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "List deleted successfully"})
}

// MoveList godoc
// @Summary      Move a list to a new position
// @Tags         Lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id path string          true "Board ID"
// @Param        list_id  path string          true "List ID"
// @Param        request  body MoveListRequest true "Target index"
// @Success      200 {object} MoveResponse
// @Failure      404 {object} map[string]string
// @Router       /boards/{board_id}/lists/{list_id}/move [post]
func (h *BoardHandler) MoveList(c *gin.Context) {
	var req MoveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	listID := c.Param("list_id")
	found := false
	moved, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		if _, found = s.List(listID); !found {
			return false
		}
		return s.MoveList(listID, *req.Index)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		notFound(c, "List")
		return
	}
	c.JSON(http.StatusOK, MoveResponse{Moved: moved})
}

// mutateList applies fn to an existing list and answers with the list as it
// is afterwards. An update that changes nothing still answers 200.
func (h *BoardHandler) mutateList(c *gin.Context, fn func(s *board.Store, listID string) bool) {
	listID := c.Param("list_id")
	var (
		list  model.List
		found bool
	)
	_, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		if _, found = s.List(listID); !found {
			return false
		}
		changed := fn(s, listID)
		list, _ = s.List(listID)
		return changed
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		notFound(c, "List")
		return
	}
	c.JSON(http.StatusOK, list)
}
