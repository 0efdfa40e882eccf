package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"kanboard/internal/board"
	"kanboard/internal/model"
	"kanboard/internal/notify"
	"kanboard/internal/repository"
	"kanboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sharedDB stands in for one database used by several server instances.
type sharedDB struct {
	mu         sync.Mutex
	workspaces []model.Workspace
	boards     []model.Board
}

type sharedWorkspaces struct{ db *sharedDB }

func (r sharedWorkspaces) Create(_ context.Context, ws *model.Workspace) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	w := ws.Clone()
	w.Boards = nil
	r.db.workspaces = append(r.db.workspaces, w)
	return nil
}

func (r sharedWorkspaces) GetAll(_ context.Context) ([]model.Workspace, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]model.Workspace, len(r.db.workspaces))
	for i, w := range r.db.workspaces {
		out[i] = w.Clone()
		out[i].Boards = []model.Board{}
		for _, b := range r.db.boards {
			if b.WorkspaceID == w.ID {
				out[i].Boards = append(out[i].Boards, b.Clone())
			}
		}
	}
	return out, nil
}

func (r sharedWorkspaces) Update(_ context.Context, ws *model.Workspace) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.workspaces {
		if r.db.workspaces[i].ID == ws.ID {
			r.db.workspaces[i].Title = ws.Title
			r.db.workspaces[i].Description = ws.Description
			return nil
		}
	}
	return repository.ErrWorkspaceNotFound
}

func (r sharedWorkspaces) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, w := range r.db.workspaces {
		if w.ID == id {
			r.db.workspaces = append(r.db.workspaces[:i:i], r.db.workspaces[i+1:]...)
			return nil
		}
	}
	return repository.ErrWorkspaceNotFound
}

type sharedBoards struct{ db *sharedDB }

func (r sharedBoards) Create(_ context.Context, b *model.Board) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.boards = append(r.db.boards, b.Clone())
	return nil
}

func (r sharedBoards) GetByID(_ context.Context, id string) (*model.Board, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, b := range r.db.boards {
		if b.ID == id {
			cp := b.Clone()
			return &cp, nil
		}
	}
	return nil, repository.ErrBoardNotFound
}

func (r sharedBoards) UpdateTitle(_ context.Context, id, title string) error {
	return r.update(id, func(b *model.Board) { b.Title = title })
}

func (r sharedBoards) SaveLists(_ context.Context, id string, lists []model.List) error {
	return r.update(id, func(b *model.Board) { b.Lists = model.CloneLists(lists) })
}

func (r sharedBoards) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, b := range r.db.boards {
		if b.ID == id {
			r.db.boards = append(r.db.boards[:i:i], r.db.boards[i+1:]...)
			return nil
		}
	}
	return repository.ErrBoardNotFound
}

func (r sharedBoards) update(id string, fn func(b *model.Board)) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.boards {
		if r.db.boards[i].ID == id {
			fn(&r.db.boards[i])
			return nil
		}
	}
	return repository.ErrBoardNotFound
}

func prefixedIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// newInstance starts one server instance on db and returns the
// notifications it emits.
func newInstance(t *testing.T, db *sharedDB, name string, seedData []model.Workspace) (*service.Kanban, *notify.Recorder) {
	rec := &notify.Recorder{}
	k := service.New(
		service.WithNotifier(rec),
		service.WithIDGenerator(prefixedIDs(name)),
		service.WithPersistence(sharedWorkspaces{db}, sharedBoards{db}),
	)
	require.NoError(t, k.Load(context.Background(), seedData))
	return k, rec
}

func last(rec *notify.Recorder) notify.Notification {
	all := rec.All()
	return all[len(all)-1]
}

func TestApply_BoardChangeFromAnotherInstanceIsKept(t *testing.T) {
	// Arrange
	db := &sharedDB{}
	ctx := context.Background()
	a, recA := newInstance(t, db, "a", seed())
	b, _ := newInstance(t, db, "b", nil)
	_, err := b.OpenBoard(ctx, "b1")
	require.NoError(t, err)

	// Act
	_, err = a.Mutate(ctx, "b1", func(s *board.Store) bool { return s.MoveCard("c1", "L1", "L2", 0) })
	require.NoError(t, err)
	require.NoError(t, b.Apply(ctx, last(recA)))
	_, err = b.Mutate(ctx, "b1", func(s *board.Store) bool {
		s.AddList("Review")
		return true
	})
	require.NoError(t, err)

	// Assert
	stored, err := sharedBoards{db}.GetByID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, stored.Lists, 3)
	assert.Equal(t, "c2", stored.Lists[0].Cards[0].ID)
	assert.Equal(t, "c1", stored.Lists[1].Cards[0].ID)
	assert.Equal(t, "Review", stored.Lists[2].Title)

	local, err := b.Board("b1")
	require.NoError(t, err)
	assert.Equal(t, stored.Lists, local.Lists)
}

func TestApply_StructureChangeReloadsTree(t *testing.T) {
	// Arrange
	db := &sharedDB{}
	ctx := context.Background()
	a, recA := newInstance(t, db, "a", seed())
	b, _ := newInstance(t, db, "b", nil)
	require.NoError(t, b.SetCurrent("w2"))

	// Act
	ws, err := a.CreateWorkspace(ctx, "Side projects", "")
	require.NoError(t, err)
	require.NoError(t, b.Apply(ctx, last(recA)))
	ideas, err := a.AddBoard(ctx, ws.ID, "Ideas")
	require.NoError(t, err)
	require.NoError(t, b.Apply(ctx, last(recA)))

	// Assert
	got, err := b.Workspace(ws.ID)
	require.NoError(t, err)
	require.Len(t, got.Boards, 1)
	assert.Equal(t, ideas.ID, got.Boards[0].ID)
	current, _ := b.Current()
	assert.Equal(t, "w2", current.ID, "reload keeps the current workspace")
}

func TestRefreshBoard_MissingBoardKeepsTree(t *testing.T) {
	db := &sharedDB{}
	ctx := context.Background()
	a, _ := newInstance(t, db, "a", seed())
	require.NoError(t, sharedBoards{db}.Delete(ctx, "b1"))

	err := a.RefreshBoard(ctx, "b1")

	require.NoError(t, err)
	_, err = a.Board("b1")
	assert.NoError(t, err, "the board stays until its deletion is applied")
}

func TestApply_WithoutPersistenceDoesNothing(t *testing.T) {
	k, _ := newKanban(t)

	err := k.Apply(context.Background(), notify.Notification{Kind: notify.CardMoved, BoardID: "b1"})

	require.NoError(t, err)
	b, _ := k.Board("b1")
	assert.Len(t, b.Lists[0].Cards, 2)
}
