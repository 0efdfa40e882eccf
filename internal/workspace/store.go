// Package workspace owns the workspaces, the active workspace and the
// boards inside each workspace.
package workspace

import (
	"sync"
	"time"

	"kanboard/internal/model"
	"kanboard/internal/notify"

	"github.com/google/uuid"
)

type Store struct {
	mu         sync.RWMutex
	workspaces []model.Workspace
	currentID  string

	notifier notify.Notifier
	newID    func() string
	now      func() time.Time
}

type Option func(*Store)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New creates a store holding a copy of workspaces. The first workspace, if
// any, becomes current.
func New(workspaces []model.Workspace, opts ...Option) *Store {
	s := &Store{
		notifier: notify.Discard,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load(workspaces)
	return s
}

// Load replaces every workspace, e.g. after reading them from storage.
// The current workspace is kept when it still exists.
func (s *Store) Load(workspaces []model.Workspace) {
	next := make([]model.Workspace, len(workspaces))
	for i, w := range workspaces {
		next[i] = w.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.workspaces = next
	if indexOfWorkspace(next, s.currentID) < 0 {
		s.currentID = ""
		if len(next) > 0 {
			s.currentID = next[0].ID
		}
	}
}

func (s *Store) Workspaces() []model.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Workspace, len(s.workspaces))
	for i, w := range s.workspaces {
		out[i] = w.Clone()
	}
	return out
}

func (s *Store) Workspace(id string) (model.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfWorkspace(s.workspaces, id)
	if i < 0 {
		return model.Workspace{}, false
	}
	return s.workspaces[i].Clone(), true
}

// Current returns the active workspace. ok is false when there is none.
func (s *Store) Current() (model.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfWorkspace(s.workspaces, s.currentID)
	if i < 0 {
		return model.Workspace{}, false
	}
	return s.workspaces[i].Clone(), true
}

func (s *Store) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if indexOfWorkspace(s.workspaces, id) < 0 || s.currentID == id {
		return false
	}
	s.currentID = id
	return true
}

func (s *Store) AddWorkspace(title, description string) model.Workspace {
	ws := model.Workspace{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
		Boards:      []model.Board{},
	}

	s.mu.Lock()
	ws.Position = nextPosition(s.workspaces, func(w model.Workspace) int { return w.Position })
	s.workspaces = append(cloneSlice(s.workspaces), ws)
	if s.currentID == "" {
		s.currentID = ws.ID
	}
	s.mu.Unlock()

	s.emit(notify.WorkspaceCreated, "Workspace created", ws.ID, "")
	return ws.Clone()
}

func (s *Store) UpdateWorkspace(id, title, description string) bool {
	s.mu.Lock()
	i := indexOfWorkspace(s.workspaces, id)
	if i < 0 || (s.workspaces[i].Title == title && s.workspaces[i].Description == description) {
		s.mu.Unlock()
		return false
	}
	next := cloneSlice(s.workspaces)
	next[i].Title = title
	next[i].Description = description
	s.workspaces = next
	s.mu.Unlock()

	s.emit(notify.WorkspaceUpdated, "Workspace updated", id, "")
	return true
}

// DeleteWorkspace removes the workspace and its boards. When the current
// workspace is deleted the first remaining one becomes current.
func (s *Store) DeleteWorkspace(id string) bool {
	s.mu.Lock()
	i := indexOfWorkspace(s.workspaces, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	next := make([]model.Workspace, 0, len(s.workspaces)-1)
	next = append(next, s.workspaces[:i]...)
	next = append(next, s.workspaces[i+1:]...)
	s.workspaces = next
	if s.currentID == id {
		s.currentID = ""
		if len(next) > 0 {
			s.currentID = next[0].ID
		}
	}
	s.mu.Unlock()

	s.emit(notify.WorkspaceDeleted, "Workspace deleted", id, "")
	return true
}

// AddBoard creates an empty board in workspaceID.
func (s *Store) AddBoard(workspaceID, title string) (model.Board, bool) {
	b := model.Board{
		ID:          s.newID(),
		WorkspaceID: workspaceID,
		Title:       title,
		Lists:       []model.List{},
		UpdatedAt:   s.now(),
	}

	s.mu.Lock()
	i := indexOfWorkspace(s.workspaces, workspaceID)
	if i < 0 {
		s.mu.Unlock()
		return model.Board{}, false
	}
	b.Position = nextPosition(s.workspaces[i].Boards, func(o model.Board) int { return o.Position })
	next := cloneSlice(s.workspaces)
	next[i].Boards = append(cloneSlice(next[i].Boards), b)
	s.workspaces = next
	s.mu.Unlock()

	s.emit(notify.BoardAdded, "Board added", workspaceID, b.ID)
	return b.Clone(), true
}

func (s *Store) DeleteBoard(workspaceID, boardID string) bool {
	s.mu.Lock()
	i := indexOfWorkspace(s.workspaces, workspaceID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	j := indexOfBoard(s.workspaces[i].Boards, boardID)
	if j < 0 {
		s.mu.Unlock()
		return false
	}
	next := cloneSlice(s.workspaces)
	boards := make([]model.Board, 0, len(next[i].Boards)-1)
	boards = append(boards, next[i].Boards[:j]...)
	next[i].Boards = append(boards, next[i].Boards[j+1:]...)
	s.workspaces = next
	s.mu.Unlock()

	s.emit(notify.BoardDeleted, "Board deleted", workspaceID, boardID)
	return true
}

func (s *Store) UpdateBoardTitle(boardID, title string) bool {
	changed := s.updateBoard(boardID, func(b *model.Board) bool {
		if b.Title == title {
			return false
		}
		b.Title = title
		return true
	})
	if changed {
		b, _ := s.Board(boardID)
		s.emit(notify.BoardUpdated, "Board updated", b.WorkspaceID, boardID)
	}
	return changed
}

// Board finds a board in any workspace.
func (s *Store) Board(boardID string) (model.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.workspaces {
		if j := indexOfBoard(w.Boards, boardID); j >= 0 {
			return w.Boards[j].Clone(), true
		}
	}
	return model.Board{}, false
}

// SaveBoardLists stores the committed list tree of an open board. It sends
// no notification; the board session has already reported the change.
func (s *Store) SaveBoardLists(boardID string, lists []model.List) bool {
	cp := model.CloneLists(lists)
	return s.updateBoard(boardID, func(b *model.Board) bool {
		b.Lists = cp
		b.UpdatedAt = s.now()
		return true
	})
}

func (s *Store) updateBoard(boardID string, fn func(b *model.Board) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.workspaces {
		j := indexOfBoard(w.Boards, boardID)
		if j < 0 {
			continue
		}
		b := w.Boards[j]
		if !fn(&b) {
			return false
		}
		next := cloneSlice(s.workspaces)
		next[i].Boards = cloneSlice(w.Boards)
		next[i].Boards[j] = b
		s.workspaces = next
		return true
	}
	return false
}

func (s *Store) emit(kind, message, workspaceID, boardID string) {
	s.notifier.Notify(notify.Notification{
		Kind:        kind,
		Message:     message,
		WorkspaceID: workspaceID,
		BoardID:     boardID,
		At:          s.now(),
	})
}

func indexOfWorkspace(workspaces []model.Workspace, id string) int {
	if id == "" {
		return -1
	}
	for i, w := range workspaces {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func indexOfBoard(boards []model.Board, id string) int {
	for i, b := range boards {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// nextPosition is one past the highest position in items, so appended
// entries sort last even when earlier ones were deleted.
func nextPosition[T any](items []T, position func(T) int) int {
	next := 0
	for _, item := range items {
		if p := position(item); p >= next {
			next = p + 1
		}
	}
	return next
}

func cloneSlice[T any](items []T) []T {
	return append(make([]T, 0, len(items)+1), items...)
}
