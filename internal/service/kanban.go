// Package service ties the workspace store, the open board sessions and
// optional persistence together.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"kanboard/internal/board"
	"kanboard/internal/model"
	"kanboard/internal/notify"
	"kanboard/internal/workspace"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrBoardNotFound     = errors.New("board not found")
)

type WorkspaceRepository interface {
	Create(ctx context.Context, ws *model.Workspace) error
	GetAll(ctx context.Context) ([]model.Workspace, error)
	Update(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, id string) error
}

type BoardRepository interface {
	Create(ctx context.Context, board *model.Board) error
	GetByID(ctx context.Context, id string) (*model.Board, error)
	UpdateTitle(ctx context.Context, id, title string) error
	SaveLists(ctx context.Context, id string, lists []model.List) error
	Delete(ctx context.Context, id string) error
}

// session is one open board. mu serializes mutate-and-commit so write-backs
// land in mutation order.
type session struct {
	mu    sync.Mutex
	store *board.Store
}

// Kanban is the application service behind the HTTP and websocket layers.
// The in-memory stores are authoritative; repositories, when configured,
// receive every committed change.
type Kanban struct {
	workspaces *workspace.Store
	notifier   notify.Notifier
	newID      func() string
	now        func() time.Time

	wsRepo    WorkspaceRepository
	boardRepo BoardRepository

	mu       sync.Mutex
	sessions map[string]*session
}

type Option func(*Kanban)

func WithNotifier(n notify.Notifier) Option {
	return func(k *Kanban) {
		if n != nil {
			k.notifier = n
		}
	}
}

// WithPersistence enables write-through to the given repositories.
func WithPersistence(workspaces WorkspaceRepository, boards BoardRepository) Option {
	return func(k *Kanban) {
		k.wsRepo = workspaces
		k.boardRepo = boards
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(k *Kanban) { k.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(k *Kanban) { k.now = fn }
}

func New(opts ...Option) *Kanban {
	k := &Kanban{
		notifier: notify.Discard,
		sessions: make(map[string]*session),
	}
	for _, opt := range opts {
		opt(k)
	}
	k.workspaces = workspace.New(nil,
		workspace.WithNotifier(k.notifier),
		workspace.WithIDGenerator(k.newID),
		workspace.WithClock(k.now),
	)
	return k
}

// Load hydrates the workspace tree. With persistence configured the tree is
// read from the database, and seed is written there when it is empty.
// Without persistence seed is loaded as is.
func (k *Kanban) Load(ctx context.Context, seed []model.Workspace) error {
	seed = numbered(seed)
	workspaces := seed
	if k.wsRepo != nil {
		stored, err := k.wsRepo.GetAll(ctx)
		if err != nil {
			return fmt.Errorf("failed to load workspaces: %w", err)
		}
		if len(stored) == 0 && len(seed) > 0 {
			if err := k.persistSeed(ctx, seed); err != nil {
				return err
			}
		} else {
			workspaces = stored
		}
	}

	k.mu.Lock()
	k.sessions = make(map[string]*session)
	k.mu.Unlock()
	k.workspaces.Load(workspaces)
	return nil
}

func (k *Kanban) persistSeed(ctx context.Context, seed []model.Workspace) error {
	for _, ws := range seed {
		w := ws.Clone()
		if err := k.wsRepo.Create(ctx, &w); err != nil {
			return fmt.Errorf("failed to seed workspace %q: %w", ws.Title, err)
		}
		for _, b := range ws.Boards {
			b := b.Clone()
			b.WorkspaceID = ws.ID
			if err := k.boardRepo.Create(ctx, &b); err != nil {
				return fmt.Errorf("failed to seed board %q: %w", b.Title, err)
			}
		}
	}
	log.Printf("🌱 Seeded %d sample workspaces", len(seed))
	return nil
}

// numbered copies seed with workspace and board positions set to their
// slice order.
func numbered(seed []model.Workspace) []model.Workspace {
	if seed == nil {
		return nil
	}
	out := make([]model.Workspace, len(seed))
	for i, ws := range seed {
		out[i] = ws.Clone()
		out[i].Position = i
		for j := range out[i].Boards {
			out[i].Boards[j].Position = j
		}
	}
	return out
}

func (k *Kanban) Workspaces() []model.Workspace {
	return k.workspaces.Workspaces()
}

func (k *Kanban) Workspace(id string) (model.Workspace, error) {
	ws, ok := k.workspaces.Workspace(id)
	if !ok {
		return model.Workspace{}, ErrWorkspaceNotFound
	}
	return ws, nil
}

func (k *Kanban) Current() (model.Workspace, bool) {
	return k.workspaces.Current()
}

// SetCurrent selects the active workspace. Selecting the current one again
// is not an error.
func (k *Kanban) SetCurrent(id string) error {
	if _, ok := k.workspaces.Workspace(id); !ok {
		return ErrWorkspaceNotFound
	}
	k.workspaces.SetCurrent(id)
	return nil
}

func (k *Kanban) CreateWorkspace(ctx context.Context, title, description string) (model.Workspace, error) {
	ws := k.workspaces.AddWorkspace(title, description)
	if k.wsRepo != nil {
		if err := k.wsRepo.Create(ctx, &ws); err != nil {
			return ws, fmt.Errorf("failed to persist workspace: %w", err)
		}
	}
	return ws, nil
}

// UpdateWorkspace reports whether anything changed.
func (k *Kanban) UpdateWorkspace(ctx context.Context, id, title, description string) (bool, error) {
	if _, ok := k.workspaces.Workspace(id); !ok {
		return false, ErrWorkspaceNotFound
	}
	if !k.workspaces.UpdateWorkspace(id, title, description) {
		return false, nil
	}
	if k.wsRepo != nil {
		ws := model.Workspace{ID: id, Title: title, Description: description}
		if err := k.wsRepo.Update(ctx, &ws); err != nil {
			return true, fmt.Errorf("failed to persist workspace: %w", err)
		}
	}
	return true, nil
}

// DeleteWorkspace removes the workspace, its boards and their open sessions.
func (k *Kanban) DeleteWorkspace(ctx context.Context, id string) error {
	ws, ok := k.workspaces.Workspace(id)
	if !ok || !k.workspaces.DeleteWorkspace(id) {
		return ErrWorkspaceNotFound
	}
	for _, b := range ws.Boards {
		k.closeBoard(b.ID)
	}
	if k.wsRepo != nil {
		if err := k.wsRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete workspace: %w", err)
		}
	}
	return nil
}

func (k *Kanban) AddBoard(ctx context.Context, workspaceID, title string) (model.Board, error) {
	b, ok := k.workspaces.AddBoard(workspaceID, title)
	if !ok {
		return model.Board{}, ErrWorkspaceNotFound
	}
	if k.boardRepo != nil {
		if err := k.boardRepo.Create(ctx, &b); err != nil {
			return b, fmt.Errorf("failed to persist board: %w", err)
		}
	}
	return b, nil
}

func (k *Kanban) DeleteBoard(ctx context.Context, workspaceID, boardID string) error {
	if !k.workspaces.DeleteBoard(workspaceID, boardID) {
		return ErrBoardNotFound
	}
	k.closeBoard(boardID)
	if k.boardRepo != nil {
		if err := k.boardRepo.Delete(ctx, boardID); err != nil {
			return fmt.Errorf("failed to delete board: %w", err)
		}
	}
	return nil
}

func (k *Kanban) UpdateBoardTitle(ctx context.Context, boardID, title string) (bool, error) {
	if _, ok := k.workspaces.Board(boardID); !ok {
		return false, ErrBoardNotFound
	}
	if !k.workspaces.UpdateBoardTitle(boardID, title) {
		return false, nil
	}
	if k.boardRepo != nil {
		if err := k.boardRepo.UpdateTitle(ctx, boardID, title); err != nil {
			return true, fmt.Errorf("failed to persist board title: %w", err)
		}
	}
	return true, nil
}

// Board returns the committed state of a board.
func (k *Kanban) Board(boardID string) (model.Board, error) {
	b, ok := k.workspaces.Board(boardID)
	if !ok {
		return model.Board{}, ErrBoardNotFound
	}
	return b, nil
}

// OpenBoard returns the live store of a board, creating the session from
// the committed tree on first use.
func (k *Kanban) OpenBoard(ctx context.Context, boardID string) (*board.Store, error) {
	s, err := k.session(boardID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store, nil
}

func (k *Kanban) session(boardID string) (*session, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if s, ok := k.sessions[boardID]; ok {
		return s, nil
	}
	b, ok := k.workspaces.Board(boardID)
	if !ok {
		return nil, ErrBoardNotFound
	}
	s := &session{store: k.newStore(boardID, b.Lists)}
	k.sessions[boardID] = s
	return s, nil
}

func (k *Kanban) newStore(boardID string, lists []model.List) *board.Store {
	return board.New(boardID, lists,
		board.WithNotifier(k.notifier),
		board.WithIDGenerator(k.newID),
		board.WithClock(k.now),
	)
}

func (k *Kanban) closeBoard(boardID string) {
	k.mu.Lock()
	delete(k.sessions, boardID)
	k.mu.Unlock()
}

// Mutate runs fn against the board's live store. When fn reports a change
// the new tree is written back to the workspace store and persisted.
func (k *Kanban) Mutate(ctx context.Context, boardID string, fn func(s *board.Store) bool) (bool, error) {
	s, err := k.session(boardID)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(s.store) {
		return false, nil
	}
	return true, k.commit(ctx, boardID, s.store.Lists())
}

func (k *Kanban) commit(ctx context.Context, boardID string, lists []model.List) error {
	if !k.workspaces.SaveBoardLists(boardID, lists) {
		// deleted while the session was still open
		return nil
	}
	if k.boardRepo != nil {
		if err := k.boardRepo.SaveLists(ctx, boardID, lists); err != nil {
			return fmt.Errorf("failed to persist board lists: %w", err)
		}
	}
	return nil
}
