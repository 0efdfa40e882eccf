package board

import (
	"time"

	"kanboard/internal/model"
	"kanboard/internal/notify"
)

func (s *Store) AddComment(listID, cardID, text, author string) (model.Comment, bool) {
	comment := model.Comment{
		ID:        s.newID(),
		Text:      text,
		Author:    author,
		CreatedAt: s.now(),
	}
	ok := s.updateCard(listID, cardID, func(c *model.Card) bool {
		c.Comments = appendCopy(c.Comments, comment)
		return true
	})
	if !ok {
		return model.Comment{}, false
	}
	s.emit(notify.CommentAdded, "Comment added", listID, cardID)
	return comment, true
}

func (s *Store) DeleteComment(listID, cardID, commentID string) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		var ok bool
		c.Comments, ok = removeByID(c.Comments, commentID, func(v model.Comment) string { return v.ID })
		return ok
	})
	if changed {
		s.emit(notify.CommentDeleted, "Comment deleted", listID, cardID)
	}
	return changed
}

func (s *Store) AddChecklist(listID, cardID, title string) (model.Checklist, bool) {
	checklist := model.Checklist{
		ID:    s.newID(),
		Title: title,
		Items: []model.ChecklistItem{},
	}
	ok := s.updateCard(listID, cardID, func(c *model.Card) bool {
		c.Checklists = appendCopy(c.Checklists, checklist)
		return true
	})
	if !ok {
		return model.Checklist{}, false
	}
	s.emit(notify.ChecklistAdded, "Checklist added", listID, cardID)
	return checklist, true
}

func (s *Store) DeleteChecklist(listID, cardID, checklistID string) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		var ok bool
		c.Checklists, ok = removeByID(c.Checklists, checklistID, func(v model.Checklist) string { return v.ID })
		return ok
	})
	if changed {
		s.emit(notify.ChecklistDeleted, "Checklist deleted", listID, cardID)
	}
	return changed
}

func (s *Store) AddChecklistItem(listID, cardID, checklistID, text string) (model.ChecklistItem, bool) {
	item := model.ChecklistItem{
		ID:   s.newID(),
		Text: text,
	}
	ok := s.updateChecklist(listID, cardID, checklistID, func(cl *model.Checklist) bool {
		cl.Items = appendCopy(cl.Items, item)
		return true
	})
	if !ok {
		return model.ChecklistItem{}, false
	}
	s.emit(notify.ChecklistItemAdded, "Checklist item added", listID, cardID)
	return item, true
}

func (s *Store) UpdateChecklistItem(listID, cardID, checklistID, itemID string, checked bool) bool {
	changed := s.updateChecklist(listID, cardID, checklistID, func(cl *model.Checklist) bool {
		for i, item := range cl.Items {
			if item.ID != itemID {
				continue
			}
			if item.Checked == checked {
				return false
			}
			items := append([]model.ChecklistItem(nil), cl.Items...)
			items[i].Checked = checked
			cl.Items = items
			return true
		}
		return false
	})
	if changed {
		s.emit(notify.ChecklistItemUpdate, "Checklist item updated", listID, cardID)
	}
	return changed
}

func (s *Store) DeleteChecklistItem(listID, cardID, checklistID, itemID string) bool {
	changed := s.updateChecklist(listID, cardID, checklistID, func(cl *model.Checklist) bool {
		var ok bool
		cl.Items, ok = removeByID(cl.Items, itemID, func(v model.ChecklistItem) string { return v.ID })
		return ok
	})
	if changed {
		s.emit(notify.ChecklistItemDelete, "Checklist item deleted", listID, cardID)
	}
	return changed
}

func (s *Store) AddLabel(listID, cardID, name, color string) (model.Label, bool) {
	label := model.Label{
		ID:    s.newID(),
		Name:  name,
		Color: color,
	}
	ok := s.updateCard(listID, cardID, func(c *model.Card) bool {
		c.Labels = appendCopy(c.Labels, label)
		return true
	})
	if !ok {
		return model.Label{}, false
	}
	s.emit(notify.LabelAdded, "Label added", listID, cardID)
	return label, true
}

func (s *Store) DeleteLabel(listID, cardID, labelID string) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		var ok bool
		c.Labels, ok = removeByID(c.Labels, labelID, func(v model.Label) string { return v.ID })
		return ok
	})
	if changed {
		s.emit(notify.LabelDeleted, "Label deleted", listID, cardID)
	}
	return changed
}

// AssignUser adds userID to the card's assignees. Assigning a user twice
// changes nothing.
func (s *Store) AssignUser(listID, cardID, userID string) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		if c.IsAssigned(userID) {
			return false
		}
		c.AssignedUsers = appendCopy(c.AssignedUsers, userID)
		return true
	})
	if changed {
		s.emit(notify.UserAssigned, "User assigned", listID, cardID)
	}
	return changed
}

func (s *Store) UnassignUser(listID, cardID, userID string) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		var ok bool
		c.AssignedUsers, ok = removeByID(c.AssignedUsers, userID, func(v string) string { return v })
		return ok
	})
	if changed {
		s.emit(notify.UserUnassigned, "User unassigned", listID, cardID)
	}
	return changed
}

// UpdateDueDate sets the card's due date; nil clears it.
func (s *Store) UpdateDueDate(listID, cardID string, due *time.Time) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		switch {
		case c.DueDate == nil && due == nil:
			return false
		case c.DueDate != nil && due != nil && c.DueDate.Equal(*due):
			return false
		}
		if due == nil {
			c.DueDate = nil
			return true
		}
		d := *due
		c.DueDate = &d
		return true
	})
	if changed {
		msg := "Due date updated"
		if due == nil {
			msg = "Due date removed"
		}
		s.emit(notify.DueDateUpdated, msg, listID, cardID)
	}
	return changed
}

// AddAttachment records a file or link on the card. An empty kind is
// stored as a link.
func (s *Store) AddAttachment(listID, cardID, name, url, kind string) (model.Attachment, bool) {
	if kind == "" {
		kind = model.AttachmentLink
	}
	attachment := model.Attachment{
		ID:        s.newID(),
		Name:      name,
		URL:       url,
		Type:      kind,
		CreatedAt: s.now(),
	}
	ok := s.updateCard(listID, cardID, func(c *model.Card) bool {
		c.Attachments = appendCopy(c.Attachments, attachment)
		return true
	})
	if !ok {
		return model.Attachment{}, false
	}
	s.emit(notify.AttachmentAdded, "Attachment added", listID, cardID)
	return attachment, true
}

func (s *Store) DeleteAttachment(listID, cardID, attachmentID string) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		var ok bool
		c.Attachments, ok = removeByID(c.Attachments, attachmentID, func(v model.Attachment) string { return v.ID })
		return ok
	})
	if changed {
		s.emit(notify.AttachmentDeleted, "Attachment deleted", listID, cardID)
	}
	return changed
}

// UpdateCardCover sets the card cover; nil removes it.
func (s *Store) UpdateCardCover(listID, cardID string, cover *model.Cover) bool {
	changed := s.updateCard(listID, cardID, func(c *model.Card) bool {
		if c.Cover == nil && cover == nil {
			return false
		}
		if c.Cover != nil && cover != nil && *c.Cover == *cover {
			return false
		}
		c.Cover = copyCover(cover)
		return true
	})
	if changed {
		msg := "Cover updated"
		if cover == nil {
			msg = "Cover removed"
		}
		s.emit(notify.CoverUpdated, msg, listID, cardID)
	}
	return changed
}

func (s *Store) updateChecklist(listID, cardID, checklistID string, fn func(cl *model.Checklist) bool) bool {
	return s.updateCard(listID, cardID, func(c *model.Card) bool {
		for i, cl := range c.Checklists {
			if cl.ID != checklistID {
				continue
			}
			if !fn(&cl) {
				return false
			}
			checklists := append([]model.Checklist(nil), c.Checklists...)
			checklists[i] = cl
			c.Checklists = checklists
			return true
		}
		return false
	})
}

// appendCopy appends v to a fresh copy of items so the previous tree keeps
// its own backing array.
func appendCopy[T any](items []T, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, v)
}

// removeByID filters out the element whose id matches. ok is false when no
// element matched.
func removeByID[T any](items []T, id string, idOf func(T) string) (out []T, ok bool) {
	for i, v := range items {
		if idOf(v) == id {
			return removeAt(items, i), true
		}
	}
	return items, false
}
