// Package board holds the canonical list/card tree of one open board.
//
// Every mutation computes the next tree from the current one and publishes
// it in a single step under the store lock, so readers never observe a
// half-applied change such as a card removed from its source list but not
// yet inserted into its target. Operations addressing a list, card or
// sub-entity that does not exist change nothing and report false.
package board

import (
	"reflect"
	"sync"
	"time"

	"kanboard/internal/model"
	"kanboard/internal/notify"

	"github.com/google/uuid"
)

type Store struct {
	mu      sync.RWMutex
	boardID string
	lists   []model.List

	notifier notify.Notifier
	newID    func() string
	now      func() time.Time
}

type Option func(*Store)

// WithNotifier sets the collaborator told about every successful mutation.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithIDGenerator replaces uuid-based id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Store) {
		if fn != nil {
			s.now = fn
		}
	}
}

// New creates a store for boardID seeded with a copy of lists.
func New(boardID string, lists []model.List, opts ...Option) *Store {
	s := &Store{
		boardID:  boardID,
		lists:    model.CloneLists(lists),
		notifier: notify.Discard,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	if s.lists == nil {
		s.lists = []model.List{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) BoardID() string {
	return s.boardID
}

// Lists returns a deep copy of the current tree.
func (s *Store) Lists() []model.List {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneLists(s.lists)
}

func (s *Store) List(listID string) (model.List, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfList(s.lists, listID)
	if i < 0 {
		return model.List{}, false
	}
	return s.lists[i].Clone(), true
}

func (s *Store) Card(listID, cardID string) (model.Card, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfList(s.lists, listID)
	if i < 0 {
		return model.Card{}, false
	}
	j := s.lists[i].IndexOfCard(cardID)
	if j < 0 {
		return model.Card{}, false
	}
	return s.lists[i].Cards[j].Clone(), true
}

// ListIDs returns list ids in board order.
func (s *Store) ListIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.lists))
	for i, l := range s.lists {
		ids[i] = l.ID
	}
	return ids
}

// CardCount returns the number of cards in listID.
func (s *Store) CardCount(listID string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOfList(s.lists, listID)
	if i < 0 {
		return 0, false
	}
	return len(s.lists[i].Cards), true
}

// FindCard locates cardID anywhere on the board.
func (s *Store) FindCard(cardID string) (listID string, index int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lists {
		if j := l.IndexOfCard(cardID); j >= 0 {
			return l.ID, j, true
		}
	}
	return "", -1, false
}

func (s *Store) AddList(title string) model.List {
	list := model.List{
		ID:    s.newID(),
		Title: title,
		Cards: []model.Card{},
	}

	s.mu.Lock()
	next := make([]model.List, len(s.lists), len(s.lists)+1)
	copy(next, s.lists)
	s.lists = append(next, list)
	s.mu.Unlock()

	s.emit(notify.ListAdded, "List added", list.ID, "")
	return list.Clone()
}

func (s *Store) UpdateListTitle(listID, title string) bool {
	changed := s.updateList(listID, func(l *model.List) bool {
		if l.Title == title {
			return false
		}
		l.Title = title
		return true
	})
	if changed {
		s.emit(notify.ListUpdated, "List updated", listID, "")
	}
	return changed
}

// UpdateListCover sets or, with a nil cover, removes the list cover.
func (s *Store) UpdateListCover(listID string, cover *model.Cover) bool {
	changed := s.updateList(listID, func(l *model.List) bool {
		if reflect.DeepEqual(l.Cover, cover) {
			return false
		}
		l.Cover = copyCover(cover)
		return true
	})
	if changed {
		s.emit(notify.CoverUpdated, "List cover updated", listID, "")
	}
	return changed
}

// DeleteList removes the list together with all of its cards.
func (s *Store) DeleteList(listID string) bool {
	s.mu.Lock()
	i := indexOfList(s.lists, listID)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.lists = removeAt(s.lists, i)
	s.mu.Unlock()

	s.emit(notify.ListDeleted, "List deleted", listID, "")
	return true
}

// MoveList places listID at targetIndex, where targetIndex is the list's
// final position once it has been taken out of the current order. The
// index is clamped to the valid range.
func (s *Store) MoveList(listID string, targetIndex int) bool {
	s.mu.Lock()
	from := indexOfList(s.lists, listID)
	if from < 0 {
		s.mu.Unlock()
		return false
	}
	rest := removeAt(s.lists, from)
	to := clamp(targetIndex, 0, len(rest))
	if to == from {
		s.mu.Unlock()
		return false
	}
	s.lists = insertAt(rest, to, s.lists[from])
	s.mu.Unlock()

	s.emit(notify.ListMoved, "List moved", listID, "")
	return true
}

// AddCard appends a new card to listID. When the list does not exist the
// card is dropped and ok is false.
func (s *Store) AddCard(listID string, fields model.CardFields) (model.Card, bool) {
	card := model.Card{
		ID:          s.newID(),
		Title:       fields.Title,
		Description: fields.Description,
		Created:     s.now(),
		Cover:       copyCover(fields.Cover),
	}
	if fields.DueDate != nil {
		due := *fields.DueDate
		card.DueDate = &due
	}
	for _, label := range fields.Labels {
		if label.ID == "" {
			label.ID = s.newID()
		}
		card.Labels = append(card.Labels, label)
	}

	ok := s.updateList(listID, func(l *model.List) bool {
		l.Cards = append(l.Cards, card)
		return true
	})
	if !ok {
		return model.Card{}, false
	}

	s.emit(notify.CardAdded, "Card added", listID, card.ID)
	return card.Clone(), true
}

// UpdateCard replaces the card with the same id inside listID, keeping its
// position.
func (s *Store) UpdateCard(listID string, updated model.Card) bool {
	changed := s.updateCard(listID, updated.ID, func(c *model.Card) bool {
		if reflect.DeepEqual(*c, updated) {
			return false
		}
		*c = updated.Clone()
		return true
	})
	if changed {
		s.emit(notify.CardUpdated, "Card updated", listID, updated.ID)
	}
	return changed
}

func (s *Store) DeleteCard(listID, cardID string) bool {
	changed := s.updateList(listID, func(l *model.List) bool {
		j := l.IndexOfCard(cardID)
		if j < 0 {
			return false
		}
		l.Cards = removeAt(l.Cards, j)
		return true
	})
	if changed {
		s.emit(notify.CardDeleted, "Card deleted", listID, cardID)
	}
	return changed
}

// MoveCard relocates cardID from sourceListID to targetListID.
//
// targetIndex is the card's final position in the target list, counted
// after the card has been removed from its source. It is clamped to
// [0, len(target cards)], so any index past the end appends. For a move
// within one list, dropping [c1 c2 c3] c1 at 2 gives [c2 c3 c1].
//
// A missing source list, card or target list leaves the tree untouched, as
// does a move onto the card's current position.
func (s *Store) MoveCard(cardID, sourceListID, targetListID string, targetIndex int) bool {
	s.mu.Lock()
	src := indexOfList(s.lists, sourceListID)
	if src < 0 {
		s.mu.Unlock()
		return false
	}
	from := s.lists[src].IndexOfCard(cardID)
	if from < 0 {
		s.mu.Unlock()
		return false
	}
	dst := indexOfList(s.lists, targetListID)
	if dst < 0 {
		s.mu.Unlock()
		return false
	}

	card := s.lists[src].Cards[from]
	next := make([]model.List, len(s.lists))
	copy(next, s.lists)
	next[src].Cards = removeAt(next[src].Cards, from)

	to := clamp(targetIndex, 0, len(next[dst].Cards))
	if src == dst && to == from {
		s.mu.Unlock()
		return false
	}
	next[dst].Cards = insertAt(next[dst].Cards, to, card)
	s.lists = next
	s.mu.Unlock()

	msg := "Card moved"
	if src == dst {
		msg = "Card reordered"
	}
	s.emit(notify.CardMoved, msg, targetListID, cardID)
	return true
}

// updateList applies fn to a copy of listID and publishes the result when fn
// reports a change. fn receives a list whose Cards slice it may modify in
// place; card sub-slices are still shared and must be replaced, not edited.
func (s *Store) updateList(listID string, fn func(l *model.List) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfList(s.lists, listID)
	if i < 0 {
		return false
	}
	l := s.lists[i]
	l.Cards = append([]model.Card(nil), l.Cards...)
	if !fn(&l) {
		return false
	}
	if l.Cards == nil {
		l.Cards = []model.Card{}
	}

	next := make([]model.List, len(s.lists))
	copy(next, s.lists)
	next[i] = l
	s.lists = next
	return true
}

func (s *Store) updateCard(listID, cardID string, fn func(c *model.Card) bool) bool {
	return s.updateList(listID, func(l *model.List) bool {
		j := l.IndexOfCard(cardID)
		if j < 0 {
			return false
		}
		c := l.Cards[j]
		if !fn(&c) {
			return false
		}
		l.Cards[j] = c
		return true
	})
}

func (s *Store) emit(kind, message, listID, cardID string) {
	s.notifier.Notify(notify.Notification{
		Kind:    kind,
		Message: message,
		BoardID: s.boardID,
		ListID:  listID,
		CardID:  cardID,
		At:      s.now(),
	})
}

func indexOfList(lists []model.List, listID string) int {
	for i, l := range lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// removeAt returns a new slice without element i.
func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// insertAt returns a new slice with v inserted before position i.
func insertAt[T any](items []T, i int, v T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items[:i]...)
	out = append(out, v)
	return append(out, items[i:]...)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func copyCover(c *model.Cover) *model.Cover {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
