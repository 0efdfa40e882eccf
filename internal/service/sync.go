package service

import (
	"context"
	"errors"
	"fmt"

	"kanboard/internal/model"
	"kanboard/internal/notify"
	"kanboard/internal/repository"
)

// Apply brings this instance up to date with a change another instance
// committed. Workspace and board structure changes reload the whole tree.
// Changes inside a board reload only that board. Without persistence there
// is nothing shared to reload from and Apply does nothing.
func (k *Kanban) Apply(ctx context.Context, n notify.Notification) error {
	if k.wsRepo == nil || k.boardRepo == nil {
		return nil
	}
	switch n.Kind {
	case notify.WorkspaceCreated, notify.WorkspaceUpdated, notify.WorkspaceDeleted,
		notify.BoardAdded, notify.BoardUpdated, notify.BoardDeleted:
		return k.Reload(ctx)
	}
	if n.BoardID == "" {
		return nil
	}
	return k.RefreshBoard(ctx, n.BoardID)
}

// Reload replaces the workspace tree with the stored one and closes every
// open board session.
func (k *Kanban) Reload(ctx context.Context) error {
	return k.Load(ctx, nil)
}

// RefreshBoard rereads one board's lists from the database. An open
// session keeps serving, now on the stored tree, so later commits build on
// what other instances wrote.
func (k *Kanban) RefreshBoard(ctx context.Context, boardID string) error {
	if k.boardRepo == nil {
		return nil
	}
	stored, err := k.boardRepo.GetByID(ctx, boardID)
	if errors.Is(err, repository.ErrBoardNotFound) || (err == nil && stored == nil) {
		k.closeBoard(boardID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to refresh board %s: %w", boardID, err)
	}

	k.mu.Lock()
	s := k.sessions[boardID]
	k.mu.Unlock()

	if s == nil {
		k.workspaces.SaveBoardLists(boardID, stored.Lists)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = k.newStore(boardID, model.CloneLists(stored.Lists))
	k.workspaces.SaveBoardLists(boardID, stored.Lists)
	return nil
}
