package model

import "time"

type Workspace struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Position    int       `gorm:"not null;default:0" json:"-"`

	Boards []Board `gorm:"foreignKey:WorkspaceID;constraint:OnDelete:CASCADE" json:"boards"`
}

type Board struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	WorkspaceID string    `gorm:"not null;index" json:"workspace_id"`
	Title       string    `gorm:"not null" json:"title"`
	Lists       []List    `gorm:"type:jsonb;serializer:json" json:"lists"`
	UpdatedAt   time.Time `json:"updated_at"`
	Position    int       `gorm:"not null;default:0" json:"-"`
}

// List is an ordered column of cards. Card order is the slice order.
type List struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
	Cover *Cover `json:"cover,omitempty"`
}

// Cover is either a color (URL empty) or an image.
type Cover struct {
	Color string `json:"color,omitempty"`
	URL   string `json:"url,omitempty"`
}

// IsImage reports whether the cover renders an image rather than a color.
func (c Cover) IsImage() bool {
	return c.URL != ""
}

// CloneLists returns a deep copy of lists. The result shares no backing
// arrays with the input.
func CloneLists(lists []List) []List {
	if lists == nil {
		return nil
	}
	out := make([]List, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}

func (l List) Clone() List {
	out := l
	out.Cover = cloneCover(l.Cover)
	if l.Cards != nil {
		out.Cards = make([]Card, len(l.Cards))
		for i, c := range l.Cards {
			out.Cards[i] = c.Clone()
		}
	}
	return out
}

// IndexOfCard returns the position of cardID in the list, or -1.
func (l List) IndexOfCard(cardID string) int {
	for i, c := range l.Cards {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func (b Board) Clone() Board {
	out := b
	out.Lists = CloneLists(b.Lists)
	return out
}

func (w Workspace) Clone() Workspace {
	out := w
	if w.Boards != nil {
		out.Boards = make([]Board, len(w.Boards))
		for i, b := range w.Boards {
			out.Boards[i] = b.Clone()
		}
	}
	return out
}

func cloneCover(c *Cover) *Cover {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
