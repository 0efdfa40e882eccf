package handler

import (
	"net/http"
	"time"

	"kanboard/internal/board"
	"kanboard/internal/middleware"
	"kanboard/internal/model"

	"github.com/gin-gonic/gin"
)

const defaultCommentAuthor = "Current User"

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type ChecklistItemRequest struct {
	Text string `json:"text" binding:"required"`
}

type ChecklistItemUpdateRequest struct {
	Checked *bool `json:"checked" binding:"required"`
}

type AssignRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type DueDateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

type AttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"omitempty,oneof=file link"`
}

func (h *CardHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	author := h.authorName(c)
	var comment model.Comment
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		var added bool
		comment, added = s.AddComment(listID, card.ID, req.Text, author)
		return added
	}); !ok {
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// authorName resolves the authenticated user's display name.
func (h *CardHandler) authorName(c *gin.Context) string {
	userID, ok := middleware.UserID(c)
	if !ok || h.userRepo == nil {
		return defaultCommentAuthor
	}
	user, err := h.userRepo.GetByID(c.Request.Context(), userID)
	if err != nil || user == nil {
		return defaultCommentAuthor
	}
	return user.Name
}

func (h *CardHandler) DeleteComment(c *gin.Context) {
	h.deleteDetail(c, "Comment", func(s *board.Store, listID, cardID string) bool {
		return s.DeleteComment(listID, cardID, c.Param("comment_id"))
	})
}

func (h *CardHandler) AddChecklist(c *gin.Context) {
	var req TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var checklist model.Checklist
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		var added bool
		checklist, added = s.AddChecklist(listID, card.ID, req.Title)
		return added
	}); !ok {
		return
	}
	c.JSON(http.StatusCreated, checklist)
}

func (h *CardHandler) DeleteChecklist(c *gin.Context) {
	h.deleteDetail(c, "Checklist", func(s *board.Store, listID, cardID string) bool {
		return s.DeleteChecklist(listID, cardID, c.Param("checklist_id"))
	})
}

func (h *CardHandler) AddChecklistItem(c *gin.Context) {
	var req ChecklistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var item model.ChecklistItem
	added, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		var added bool
		item, added = s.AddChecklistItem(listID, card.ID, c.Param("checklist_id"), req.Text)
		return added
	})
	if !ok {
		return
	}
	if !added {
		notFound(c, "Checklist")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateChecklistItem toggles an item and answers with the whole card so
// the client can refresh its progress display.
func (h *CardHandler) UpdateChecklistItem(c *gin.Context) {
	var req ChecklistItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	checklistID, itemID := c.Param("checklist_id"), c.Param("item_id")
	exists := false
	h.respondCardIf(c, "Checklist item", &exists, func(s *board.Store, listID string, card model.Card) bool {
		exists = hasChecklistItem(card, checklistID, itemID)
		return s.UpdateChecklistItem(listID, card.ID, checklistID, itemID, *req.Checked)
	})
}

func (h *CardHandler) DeleteChecklistItem(c *gin.Context) {
	h.deleteDetail(c, "Checklist item", func(s *board.Store, listID, cardID string) bool {
		return s.DeleteChecklistItem(listID, cardID, c.Param("checklist_id"), c.Param("item_id"))
	})
}

func (h *CardHandler) AddLabel(c *gin.Context) {
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var label model.Label
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		var added bool
		label, added = s.AddLabel(listID, card.ID, req.Name, req.Color)
		return added
	}); !ok {
		return
	}
	c.JSON(http.StatusCreated, label)
}

func (h *CardHandler) DeleteLabel(c *gin.Context) {
	h.deleteDetail(c, "Label", func(s *board.Store, listID, cardID string) bool {
		return s.DeleteLabel(listID, cardID, c.Param("label_id"))
	})
}

// AssignUser adds a user from the directory to the card. Assigning twice
// is not an error.
func (h *CardHandler) AssignUser(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.userRepo.GetByID(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}
	if user == nil {
		notFound(c, "User")
		return
	}

	h.respondCard(c, func(s *board.Store, listID string, card model.Card) bool {
		return s.AssignUser(listID, card.ID, user.ID)
	})
}

func (h *CardHandler) UnassignUser(c *gin.Context) {
	h.deleteDetail(c, "Assignment", func(s *board.Store, listID, cardID string) bool {
		return s.UnassignUser(listID, cardID, c.Param("user_id"))
	})
}

// UpdateDueDate sets the due date; a null due_date removes it.
func (h *CardHandler) UpdateDueDate(c *gin.Context) {
	var req DueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.respondCard(c, func(s *board.Store, listID string, card model.Card) bool {
		return s.UpdateDueDate(listID, card.ID, req.DueDate)
	})
}

func (h *CardHandler) AddAttachment(c *gin.Context) {
	var req AttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	var attachment model.Attachment
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		var added bool
		attachment, added = s.AddAttachment(listID, card.ID, req.Name, req.URL, req.Type)
		return added
	}); !ok {
		return
	}
	c.JSON(http.StatusCreated, attachment)
}

func (h *CardHandler) DeleteAttachment(c *gin.Context) {
	h.deleteDetail(c, "Attachment", func(s *board.Store, listID, cardID string) bool {
		return s.DeleteAttachment(listID, cardID, c.Param("attachment_id"))
	})
}

func (h *CardHandler) UpdateCover(c *gin.Context) {
	var req CoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	h.respondCard(c, func(s *board.Store, listID string, card model.Card) bool {
		return s.UpdateCardCover(listID, card.ID, req.cover())
	})
}

func (h *CardHandler) deleteDetail(c *gin.Context, what string, fn func(s *board.Store, listID, cardID string) bool) {
	deleted, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		return fn(s, listID, card.ID)
	})
	if !ok {
		return
	}
	if !deleted {
		notFound(c, what)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": what + " deleted successfully"})
}

// respondCardIf is respondCard for updates of a sub-entity: when fn leaves
// *exists false the answer is 404 for what.
func (h *CardHandler) respondCardIf(c *gin.Context, what string, exists *bool, fn func(s *board.Store, listID string, card model.Card) bool) {
	listID, cardID := c.Param("list_id"), c.Param("card_id")
	var after model.Card
	if _, ok := h.mutateCard(c, func(s *board.Store, listID string, card model.Card) bool {
		changed := fn(s, listID, card)
		after, _ = s.Card(listID, cardID)
		return changed
	}); !ok {
		return
	}
	if !*exists {
		notFound(c, what)
		return
	}
	c.JSON(http.StatusOK, toCardResponse(listID, after))
}

func hasChecklistItem(card model.Card, checklistID, itemID string) bool {
	for _, cl := range card.Checklists {
		if cl.ID != checklistID {
			continue
		}
		for _, it := range cl.Items {
			if it.ID == itemID {
				return true
			}
		}
	}
	return false
}
