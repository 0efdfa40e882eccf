// Package notify carries the user-facing "what changed" side channel of the
// board and workspace stores.
package notify

import (
	"log"
	"sync"
	"time"
)

// Notification kinds
const (
	WorkspaceCreated = "workspace.created"
	WorkspaceUpdated = "workspace.updated"
	WorkspaceDeleted = "workspace.deleted"
	BoardAdded       = "board.added"
	BoardUpdated     = "board.updated"
	BoardDeleted     = "board.deleted"

	ListAdded   = "list.added"
	ListUpdated = "list.updated"
	ListDeleted = "list.deleted"
	ListMoved   = "list.moved"

	CardAdded   = "card.added"
	CardUpdated = "card.updated"
	CardDeleted = "card.deleted"
	CardMoved   = "card.moved"

	CommentAdded        = "comment.added"
	CommentDeleted      = "comment.deleted"
	ChecklistAdded      = "checklist.added"
	ChecklistDeleted    = "checklist.deleted"
	ChecklistItemAdded  = "checklist_item.added"
	ChecklistItemUpdate = "checklist_item.updated"
	ChecklistItemDelete = "checklist_item.deleted"
	LabelAdded          = "label.added"
	LabelDeleted        = "label.deleted"
	UserAssigned        = "user.assigned"
	UserUnassigned      = "user.unassigned"
	DueDateUpdated      = "due_date.updated"
	AttachmentAdded     = "attachment.added"
	AttachmentDeleted   = "attachment.deleted"
	CoverUpdated        = "cover.updated"
)

type Notification struct {
	Kind        string    `json:"kind"`
	Message     string    `json:"message"`
	WorkspaceID string    `json:"workspace_id,omitempty"`
	BoardID     string    `json:"board_id,omitempty"`
	ListID      string    `json:"list_id,omitempty"`
	CardID      string    `json:"card_id,omitempty"`
	At          time.Time `json:"at"`
}

// Notifier receives one notification per successful mutation.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(Notification) {})

type multi []Notifier

func (m multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}

// Multi fans a notification out to every non-nil notifier in order.
func Multi(notifiers ...Notifier) Notifier {
	var m multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	if n.BoardID != "" {
		log.Printf("🔔 [%s] %s (board %s)", n.Kind, n.Message, n.BoardID)
		return
	}
	log.Printf("🔔 [%s] %s", n.Kind, n.Message)
}

// Recorder keeps every notification it receives. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Kinds returns the recorded kinds in arrival order.
func (r *Recorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.items))
	for i, n := range r.items {
		kinds[i] = n.Kind
	}
	return kinds
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}
