// Package dragdrop turns a stream of pointer drag events into a single
// reorder call against a board store.
//
// The engine only tracks what is being dragged and where the pointer is.
// It never touches the board tree until Drop, and then calls exactly one
// move operation. An Engine is owned by one interaction source and is not
// safe for concurrent use.
package dragdrop

// BoardStore is the move contract the engine drives.
type BoardStore interface {
	MoveCard(cardID, sourceListID, targetListID string, targetIndex int) bool
	MoveList(listID string, targetIndex int) bool
	CardCount(listID string) (int, bool)
	ListIDs() []string
}

type State int

const (
	Idle State = iota
	DraggingCard
	DraggingList
)

func (s State) String() string {
	switch s {
	case DraggingCard:
		return "dragging_card"
	case DraggingList:
		return "dragging_list"
	default:
		return "idle"
	}
}

// EndOfList is the card index meaning "after the last card".
const EndOfList = -1

// Target is the drop location under the pointer.
type Target struct {
	ListID    string `json:"list_id"`
	CardIndex int    `json:"card_index"`
}

// Outcome of a Drop.
type Outcome int

const (
	// NotDragging: Drop was called while idle.
	NotDragging Outcome = iota
	// NoTarget: the pointer never entered a list.
	NoTarget
	// Ignored: the store changed nothing (stale ids or a move onto the
	// current position).
	Ignored
	Moved
)

func (o Outcome) String() string {
	switch o {
	case NoTarget:
		return "no_target"
	case Ignored:
		return "ignored"
	case Moved:
		return "moved"
	default:
		return "not_dragging"
	}
}

type Result struct {
	Outcome      Outcome
	CardID       string
	ListID       string
	SourceListID string
	TargetListID string
	Index        int
}

type Engine struct {
	store     BoardStore
	highlight func(prev, next Target)

	state        State
	cardID       string
	listID       string
	sourceListID string
	target       Target
	hasTarget    bool
}

type Option func(*Engine)

// WithHighlighter registers a callback invoked whenever the resolved drop
// target changes. When a drag ends the callback receives a zero next
// target so the presentation can clear its highlight.
func WithHighlighter(fn func(prev, next Target)) Option {
	return func(e *Engine) {
		e.highlight = fn
	}
}

func New(store BoardStore, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) State() State {
	return e.state
}

// Dragged returns the id of the dragged card or list, and for a card its
// source list.
func (e *Engine) Dragged() (id, sourceListID string) {
	switch e.state {
	case DraggingCard:
		return e.cardID, e.sourceListID
	case DraggingList:
		return e.listID, ""
	}
	return "", ""
}

// Target returns the last resolved drop target.
func (e *Engine) Target() (Target, bool) {
	return e.target, e.hasTarget
}

// StartCard begins dragging cardID out of listID. It fails while another
// drag is in progress.
func (e *Engine) StartCard(cardID, listID string) bool {
	if e.state != Idle || cardID == "" || listID == "" {
		return false
	}
	e.state = DraggingCard
	e.cardID = cardID
	e.sourceListID = listID
	return true
}

// StartList begins dragging a whole list.
func (e *Engine) StartList(listID string) bool {
	if e.state != Idle || listID == "" {
		return false
	}
	e.state = DraggingList
	e.listID = listID
	return true
}

// Over records the target under the pointer. It reports whether the target
// changed. Targets without a list id are ignored, so the last list entered
// stays the drop target.
func (e *Engine) Over(t Target) bool {
	if e.state == Idle || t.ListID == "" {
		return false
	}
	if t.CardIndex < 0 {
		t.CardIndex = EndOfList
	}
	if e.hasTarget && e.target == t {
		return false
	}
	prev := e.target
	e.target = t
	e.hasTarget = true
	if e.highlight != nil {
		e.highlight(prev, t)
	}
	return true
}

// OverPath resolves the element ancestry under the pointer and records it.
func (e *Engine) OverPath(path []Element) bool {
	t, ok := Resolve(path)
	if !ok {
		return false
	}
	return e.Over(t)
}

// Drop finishes the drag. A card drop moves the card to the hovered card's
// index, or to the end of the target list when no card is hovered. A list
// drop moves the dragged list to the position the hovered list had before
// the drop. The engine is idle afterwards whatever the outcome.
func (e *Engine) Drop() Result {
	defer e.reset()

	switch e.state {
	case DraggingCard:
		return e.dropCard()
	case DraggingList:
		return e.dropList()
	}
	return Result{Outcome: NotDragging}
}

// Cancel abandons the drag without touching the store.
func (e *Engine) Cancel() {
	e.reset()
}

func (e *Engine) dropCard() Result {
	res := Result{
		Outcome:      NoTarget,
		CardID:       e.cardID,
		SourceListID: e.sourceListID,
	}
	if !e.hasTarget {
		return res
	}

	index := e.target.CardIndex
	if index < 0 {
		index, _ = e.store.CardCount(e.target.ListID)
	}
	res.TargetListID = e.target.ListID
	res.Index = index
	if e.store.MoveCard(e.cardID, e.sourceListID, e.target.ListID, index) {
		res.Outcome = Moved
	} else {
		res.Outcome = Ignored
	}
	return res
}

func (e *Engine) dropList() Result {
	res := Result{
		Outcome: NoTarget,
		ListID:  e.listID,
	}
	if !e.hasTarget {
		return res
	}

	res.TargetListID = e.target.ListID
	res.Outcome = Ignored
	if e.target.ListID == e.listID {
		return res
	}
	order := e.store.ListIDs()
	index := indexOf(order, e.target.ListID)
	if index < 0 || indexOf(order, e.listID) < 0 {
		return res
	}
	res.Index = index
	if e.store.MoveList(e.listID, index) {
		res.Outcome = Moved
	}
	return res
}

func (e *Engine) reset() {
	if e.hasTarget && e.highlight != nil {
		e.highlight(e.target, Target{})
	}
	e.state = Idle
	e.cardID = ""
	e.listID = ""
	e.sourceListID = ""
	e.target = Target{}
	e.hasTarget = false
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
