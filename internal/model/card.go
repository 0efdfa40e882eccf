package model

import "time"

// Card is a unit of work. Sub-entities are owned by the card; AssignedUsers
// holds ids from the user directory and owns nothing.
type Card struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Created       time.Time    `json:"created"`
	Labels        []Label      `json:"labels,omitempty"`
	Checklists    []Checklist  `json:"checklists,omitempty"`
	Comments      []Comment    `json:"comments,omitempty"`
	AssignedUsers []string     `json:"assigned_users,omitempty"`
	DueDate       *time.Time   `json:"due_date,omitempty"`
	Attachments   []Attachment `json:"attachments,omitempty"`
	Cover         *Cover       `json:"cover,omitempty"`
}

// CardFields are the caller-supplied fields of a new card. Id and creation
// time are assigned by the store.
type CardFields struct {
	Title       string
	Description string
	Labels      []Label
	DueDate     *time.Time
	Cover       *Cover
}

type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
}

// Attachment types
const (
	AttachmentFile = "file"
	AttachmentLink = "link"
)

type Attachment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type Checklist struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

type ChecklistItem struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

// Progress returns the number of checked items and the total item count.
func (c Checklist) Progress() (completed, total int) {
	for _, item := range c.Items {
		if item.Checked {
			completed++
		}
	}
	return completed, len(c.Items)
}

// Percent returns completion in the range 0..100. An empty checklist is 0.
func (c Checklist) Percent() int {
	completed, total := c.Progress()
	if total == 0 {
		return 0
	}
	return completed * 100 / total
}

// ChecklistProgress sums progress over every checklist on the card.
func (c Card) ChecklistProgress() (completed, total int) {
	for _, cl := range c.Checklists {
		done, all := cl.Progress()
		completed += done
		total += all
	}
	return completed, total
}

// IsAssigned reports whether userID is among the card's assignees.
func (c Card) IsAssigned(userID string) bool {
	for _, id := range c.AssignedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

func (c Card) Clone() Card {
	out := c
	out.Cover = cloneCover(c.Cover)
	if c.DueDate != nil {
		d := *c.DueDate
		out.DueDate = &d
	}
	if c.Labels != nil {
		out.Labels = append([]Label(nil), c.Labels...)
	}
	if c.Comments != nil {
		out.Comments = append([]Comment(nil), c.Comments...)
	}
	if c.AssignedUsers != nil {
		out.AssignedUsers = append([]string(nil), c.AssignedUsers...)
	}
	if c.Attachments != nil {
		out.Attachments = append([]Attachment(nil), c.Attachments...)
	}
	if c.Checklists != nil {
		out.Checklists = make([]Checklist, len(c.Checklists))
		for i, cl := range c.Checklists {
			out.Checklists[i] = cl
			if cl.Items != nil {
				out.Checklists[i].Items = append([]ChecklistItem(nil), cl.Items...)
			}
		}
	}
	return out
}
