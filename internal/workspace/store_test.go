package workspace_test

import (
	"fmt"
	"testing"
	"time"

	"kanboard/internal/model"
	"kanboard/internal/notify"
	"kanboard/internal/workspace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

func newStore(workspaces []model.Workspace) (*workspace.Store, *notify.Recorder) {
	n := 0
	rec := &notify.Recorder{}
	s := workspace.New(workspaces,
		workspace.WithNotifier(rec),
		workspace.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("ws-id-%d", n)
		}),
		workspace.WithClock(func() time.Time { return now }),
	)
	return s, rec
}

func twoWorkspaces() []model.Workspace {
	return []model.Workspace{
		{ID: "w1", Title: "Personal", Boards: []model.Board{{ID: "b1", WorkspaceID: "w1", Title: "Alpha"}}},
		{ID: "w2", Title: "Work", Boards: []model.Board{{ID: "b2", WorkspaceID: "w2", Title: "Clients"}}},
	}
}

func TestNew_FirstWorkspaceIsCurrent(t *testing.T) {
	s, _ := newStore(twoWorkspaces())

	cur, ok := s.Current()

	require.True(t, ok)
	assert.Equal(t, "w1", cur.ID)
}

func TestNew_EmptyHasNoCurrent(t *testing.T) {
	s, _ := newStore(nil)

	_, ok := s.Current()

	assert.False(t, ok)
}

func TestAddWorkspace(t *testing.T) {
	s, rec := newStore(nil)

	ws := s.AddWorkspace("Side projects", "weekend hacking")

	assert.Equal(t, "ws-id-1", ws.ID)
	assert.Equal(t, now, ws.CreatedAt)
	assert.Empty(t, ws.Boards)
	cur, ok := s.Current()
	require.True(t, ok, "first workspace becomes current")
	assert.Equal(t, ws.ID, cur.ID)
	assert.Equal(t, []string{notify.WorkspaceCreated}, rec.Kinds())
}

func TestUpdateWorkspace_ReflectsInCurrent(t *testing.T) {
	s, rec := newStore(twoWorkspaces())

	assert.True(t, s.UpdateWorkspace("w1", "Home", "chores"))
	assert.False(t, s.UpdateWorkspace("w1", "Home", "chores"))
	assert.False(t, s.UpdateWorkspace("missing", "x", "y"))

	cur, _ := s.Current()
	assert.Equal(t, "Home", cur.Title)
	assert.Equal(t, "chores", cur.Description)
	assert.Equal(t, []string{notify.WorkspaceUpdated}, rec.Kinds())
}

func TestSetCurrent(t *testing.T) {
	s, _ := newStore(twoWorkspaces())

	assert.True(t, s.SetCurrent("w2"))
	assert.False(t, s.SetCurrent("w2"))
	assert.False(t, s.SetCurrent("missing"))

	cur, _ := s.Current()
	assert.Equal(t, "w2", cur.ID)
}

func TestDeleteWorkspace_CurrentFallsBack(t *testing.T) {
	s, rec := newStore(twoWorkspaces())

	require.True(t, s.DeleteWorkspace("w1"))
	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "w2", cur.ID)

	require.True(t, s.DeleteWorkspace("w2"))
	_, ok = s.Current()
	assert.False(t, ok)

	assert.False(t, s.DeleteWorkspace("w2"))
	assert.Equal(t, []string{notify.WorkspaceDeleted, notify.WorkspaceDeleted}, rec.Kinds())
}

func TestDeleteWorkspace_NonCurrentKeepsCurrent(t *testing.T) {
	s, _ := newStore(twoWorkspaces())

	require.True(t, s.DeleteWorkspace("w2"))

	cur, _ := s.Current()
	assert.Equal(t, "w1", cur.ID)
	_, ok := s.Board("b2")
	assert.False(t, ok, "boards go with their workspace")
}

func TestAddAndDeleteBoard(t *testing.T) {
	s, rec := newStore(twoWorkspaces())

	b, ok := s.AddBoard("w1", "Beta")
	require.True(t, ok)
	assert.Equal(t, "w1", b.WorkspaceID)
	assert.NotNil(t, b.Lists)

	ws, _ := s.Workspace("w1")
	require.Len(t, ws.Boards, 2)
	assert.Equal(t, "Beta", ws.Boards[1].Title)

	_, ok = s.AddBoard("missing", "x")
	assert.False(t, ok)

	assert.True(t, s.DeleteBoard("w1", "b1"))
	assert.False(t, s.DeleteBoard("w1", "b1"))
	assert.False(t, s.DeleteBoard("w2", b.ID), "board belongs to another workspace")

	ws, _ = s.Workspace("w1")
	require.Len(t, ws.Boards, 1)
	assert.Equal(t, b.ID, ws.Boards[0].ID)
	assert.Equal(t, []string{notify.BoardAdded, notify.BoardDeleted}, rec.Kinds())
}

func TestSaveBoardLists(t *testing.T) {
	s, rec := newStore(twoWorkspaces())
	lists := []model.List{{ID: "L1", Title: "To Do", Cards: []model.Card{{ID: "c1"}}}}

	require.True(t, s.SaveBoardLists("b2", lists))
	lists[0].Title = "mutated"

	b, ok := s.Board("b2")
	require.True(t, ok)
	assert.Equal(t, "To Do", b.Lists[0].Title)
	assert.Equal(t, now, b.UpdatedAt)
	assert.False(t, s.SaveBoardLists("missing", lists))
	assert.Empty(t, rec.Kinds())
}

func TestUpdateBoardTitle(t *testing.T) {
	s, rec := newStore(twoWorkspaces())

	assert.True(t, s.UpdateBoardTitle("b1", "Alpha v2"))
	assert.False(t, s.UpdateBoardTitle("b1", "Alpha v2"))
	assert.False(t, s.UpdateBoardTitle("missing", "x"))

	b, _ := s.Board("b1")
	assert.Equal(t, "Alpha v2", b.Title)
	require.Len(t, rec.All(), 1)
	assert.Equal(t, "w1", rec.All()[0].WorkspaceID)
}

func TestLoad_KeepsCurrentWhenPresent(t *testing.T) {
	s, _ := newStore(twoWorkspaces())
	require.True(t, s.SetCurrent("w2"))

	s.Load(twoWorkspaces())
	cur, _ := s.Current()
	assert.Equal(t, "w2", cur.ID)

	s.Load([]model.Workspace{{ID: "w9"}})
	cur, _ = s.Current()
	assert.Equal(t, "w9", cur.ID)
}

func TestSample(t *testing.T) {
	ws := workspace.Sample(now)

	require.Len(t, ws, 2)
	assert.Equal(t, "Personal", ws[0].Title)
	require.Len(t, ws[0].Boards, 1)
	alpha := ws[0].Boards[0]
	assert.Equal(t, ws[0].ID, alpha.WorkspaceID)
	require.Len(t, alpha.Lists, 3)
	assert.Len(t, alpha.Lists[0].Cards, 2)
	assert.Equal(t, "Client Projects", ws[1].Boards[0].Title)
}

func TestAdd_AppendsAfterHighestPosition(t *testing.T) {
	// Arrange
	loaded := twoWorkspaces()
	loaded[0].Position = 0
	loaded[1].Position = 5
	loaded[1].Boards[0].Position = 3
	s, _ := newStore(loaded)

	// Act
	ws := s.AddWorkspace("Side projects", "")
	b, ok := s.AddBoard("w2", "Invoices")

	// Assert
	require.True(t, ok)
	assert.Equal(t, 6, ws.Position)
	assert.Equal(t, 4, b.Position)

	first, ok := s.AddBoard(ws.ID, "Ideas")
	require.True(t, ok)
	assert.Equal(t, 0, first.Position)
}
