package handler

import (
	"net/http"
	"time"

	"kanboard/internal/board"
	"kanboard/internal/model"
	"kanboard/internal/repository"
	"kanboard/internal/service"

	"github.com/gin-gonic/gin"
)

type CardHandler struct {
	kanban   *service.Kanban
	userRepo repository.UserRepositoryInterface
}

func NewCardHandler(kanban *service.Kanban, userRepo repository.UserRepositoryInterface) *CardHandler {
	return &CardHandler{kanban: kanban, userRepo: userRepo}
}

type LabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required"`
}

type CreateCardRequest struct {
	Title       string         `json:"title" binding:"required"`
	Description string         `json:"description"`
	Labels      []LabelRequest `json:"labels" binding:"dive"`
	DueDate     *time.Time     `json:"due_date"`
	Cover       *CoverRequest  `json:"cover"`
}

type UpdateCardRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// MoveCardRequest moves a card to index in the target list. Without an
// index the card goes to the end.
type MoveCardRequest struct {
	SourceListID string `json:"source_list_id" binding:"required"`
	TargetListID string `json:"target_list_id" binding:"required"`
	Index        *int   `json:"index" binding:"omitempty,min=0"`
}

type CardResponse struct {
	model.Card
	ListID             string `json:"list_id"`
	ChecklistCompleted int    `json:"checklist_completed"`
	ChecklistTotal     int    `json:"checklist_total"`
}

func toCardResponse(listID string, card model.Card) CardResponse {
	done, total := card.ChecklistProgress()
	return CardResponse{
		Card:               card,
		ListID:             listID,
		ChecklistCompleted: done,
		ChecklistTotal:     total,
	}
}

// Create godoc
// @Summary      Add a card to a list
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id path string            true "Board ID"
// @Param        list_id  path string            true "List ID"
// @Param        request  body CreateCardRequest true "Card"
// @Success      201 {object} CardResponse
// @Failure      404 {object} map[string]string
// @Router       /boards/{board_id}/lists/{list_id}/cards [post]
func (h *CardHandler) Create(c *gin.Context) {
	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	fields := model.CardFields{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	for _, l := range req.Labels {
		fields.Labels = append(fields.Labels, model.Label{Name: l.Name, Color: l.Color})
	}
	if req.Cover != nil {
		fields.Cover = req.Cover.cover()
	}

	listID := c.Param("list_id")
	var card model.Card
	added, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		var ok bool
		card, ok = s.AddCard(listID, fields)
		return ok
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if !added {
		notFound(c, "List")
		return
	}
	c.JSON(http.StatusCreated, toCardResponse(listID, card))
}

func (h *CardHandler) GetByID(c *gin.Context) {
	b, err := h.kanban.Board(c.Param("board_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	listID, cardID := c.Param("list_id"), c.Param("card_id")
	for _, l := range b.Lists {
		if l.ID != listID {
			continue
		}
		if j := l.IndexOfCard(cardID); j >= 0 {
			c.JSON(http.StatusOK, toCardResponse(listID, l.Cards[j]))
			return
		}
	}
	notFound(c, "Card")
}

func (h *CardHandler) Update(c *gin.Context) {
	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.respondCard(c, func(s *board.Store, listID string, card model.Card) bool {
		card.Title = req.Title
		card.Description = req.Description
		return s.UpdateCard(listID, card)
	})
}

func (h *CardHandler) Delete(c *gin.Context) {
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		return s.DeleteCard(listID, card.ID)
	}); !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Card deleted successfully"})
}

// Move godoc
// @Summary      Move a card within or across lists
// @Tags         Cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        board_id path string          true "Board ID"
// @Param        card_id  path string          true "Card ID"
// @Param        request  body MoveCardRequest true "Move"
// @Success      200 {object} MoveResponse
// @Failure      404 {object} map[string]string
// @Router       /boards/{board_id}/cards/{card_id}/move [post]
func (h *CardHandler) Move(c *gin.Context) {
	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	cardID := c.Param("card_id")
	var cardFound, targetFound bool
	moved, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		if _, cardFound = s.Card(req.SourceListID, cardID); !cardFound {
			return false
		}
		count, ok := s.CardCount(req.TargetListID)
		if targetFound = ok; !ok {
			return false
		}
		index := count
		if req.Index != nil {
			index = *req.Index
		}
		return s.MoveCard(cardID, req.SourceListID, req.TargetListID, index)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	switch {
	case !cardFound:
		notFound(c, "Card")
	case !targetFound:
		notFound(c, "List")
	default:
		c.JSON(http.StatusOK, MoveResponse{Moved: moved})
	}
}

// mutateCard runs fn against an existing card of the addressed list. ok is
// false when a response has already been written.
func (h *CardHandler) mutateCard(c *gin.Context, fn func(s *board.Store, listID string, card model.Card) bool) (changed, ok bool) {
	listID, cardID := c.Param("list_id"), c.Param("card_id")
	found := false
	changed, err := h.kanban.Mutate(c.Request.Context(), c.Param("board_id"), func(s *board.Store) bool {
		var card model.Card
		if card, found = s.Card(listID, cardID); !found {
			return false
		}
		return fn(s, listID, card)
	})
	if err != nil {
		respondError(c, err)
		return false, false
	}
	if !found {
		notFound(c, "Card")
		return false, false
	}
	return changed, true
}

// respondCard is mutateCard followed by the card as it is afterwards.
func (h *CardHandler) respondCard(c *gin.Context, fn func(s *board.Store, listID string, card model.Card) bool) {
	listID, cardID := c.Param("list_id"), c.Param("card_id")
	var after model.Card
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		changed := fn(s, listID, card)
		after, _ = s.Card(listID, cardID)
		return changed
	}); !ok {
		return
	}
	c.JSON(http.StatusOK, toCardResponse(listID, after))
}
