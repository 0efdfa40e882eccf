package service

import (
	"context"
	"log"

	"kanboard/internal/board"
	"kanboard/internal/dragdrop"
)

// Session returns a drag target for boardID. Moves committed through it
// are written back and persisted like any other mutation.
func (k *Kanban) Session(ctx context.Context, boardID string) (dragdrop.BoardStore, error) {
	if _, err := k.session(boardID); err != nil {
		return nil, err
	}
	return &dragSession{ctx: ctx, kanban: k, boardID: boardID}, nil
}

type dragSession struct {
	ctx     context.Context
	kanban  *Kanban
	boardID string
}

var _ dragdrop.BoardStore = (*dragSession)(nil)

func (d *dragSession) MoveCard(cardID, sourceListID, targetListID string, targetIndex int) bool {
	return d.mutate(func(s *board.Store) bool {
		return s.MoveCard(cardID, sourceListID, targetListID, targetIndex)
	})
}

func (d *dragSession) MoveList(listID string, targetIndex int) bool {
	return d.mutate(func(s *board.Store) bool {
		return s.MoveList(listID, targetIndex)
	})
}

func (d *dragSession) CardCount(listID string) (int, bool) {
	s, err := d.kanban.OpenBoard(d.ctx, d.boardID)
	if err != nil {
		return 0, false
	}
	return s.CardCount(listID)
}

func (d *dragSession) ListIDs() []string {
	s, err := d.kanban.OpenBoard(d.ctx, d.boardID)
	if err != nil {
		return nil
	}
	return s.ListIDs()
}

func (d *dragSession) mutate(fn func(s *board.Store) bool) bool {
	changed, err := d.kanban.Mutate(d.ctx, d.boardID, fn)
	if err != nil {
		log.Printf("⚠️  Board %s: %v", d.boardID, err)
	}
	return changed
}
