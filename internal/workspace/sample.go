package workspace

import (
	"time"

	"kanboard/internal/model"

	"github.com/google/uuid"
)

// Sample returns the starter workspaces shown on first launch: a personal
// workspace with one populated board and an empty work workspace.
func Sample(now time.Time) []model.Workspace {
	personalID := uuid.NewString()
	workID := uuid.NewString()

	card := func(title, description string) model.Card {
		return model.Card{ID: uuid.NewString(), Title: title, Description: description, Created: now}
	}

	return []model.Workspace{
		{
			ID:          personalID,
			Title:       "Personal",
			Description: "My personal tasks and projects",
			CreatedAt:   now,
			Boards: []model.Board{
				{
					ID:          uuid.NewString(),
					WorkspaceID: personalID,
					Title:       "Project Alpha",
					UpdatedAt:   now,
					Lists: []model.List{
						{
							ID:    uuid.NewString(),
							Title: "To Do",
							Cards: []model.Card{
								card("Learn Go", "Study interfaces and goroutines"),
								card("Build a Trello clone", "Create a kanban board with drag and drop"),
							},
						},
						{
							ID:    uuid.NewString(),
							Title: "In Progress",
							Cards: []model.Card{card("Create UI components", "Design and implement reusable components")},
						},
						{
							ID:    uuid.NewString(),
							Title: "Done",
							Cards: []model.Card{card("Setup project", "Initialize the module and install dependencies")},
						},
					},
				},
			},
		},
		{
			ID:          workID,
			Title:       "Work",
			Description: "Professional tasks and projects",
			CreatedAt:   now,
			Boards: []model.Board{
				{
					ID:          uuid.NewString(),
					WorkspaceID: workID,
					Title:       "Client Projects",
					Lists:       []model.List{},
					UpdatedAt:   now,
				},
			},
		},
	}
}
