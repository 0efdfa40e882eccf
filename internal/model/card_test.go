package model_test

import (
	"testing"
	"time"

	"kanboard/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestChecklist_Progress(t *testing.T) {
	checklist := model.Checklist{
		ID:    "k1",
		Title: "Release",
		Items: []model.ChecklistItem{
			{ID: "i1", Text: "tag", Checked: true},
			{ID: "i2", Text: "changelog", Checked: false},
			{ID: "i3", Text: "announce", Checked: true},
			{ID: "i4", Text: "deploy", Checked: false},
		},
	}

	completed, total := checklist.Progress()

	assert.Equal(t, 2, completed)
	assert.Equal(t, 4, total)
	assert.Equal(t, 50, checklist.Percent())
}

func TestChecklist_PercentEmpty(t *testing.T) {
	assert.Equal(t, 0, model.Checklist{ID: "k1"}.Percent())
}

func TestCard_ChecklistProgress(t *testing.T) {
	card := model.Card{
		Checklists: []model.Checklist{
			{ID: "a", Items: []model.ChecklistItem{{ID: "1", Checked: true}}},
			{ID: "b", Items: []model.ChecklistItem{{ID: "2"}, {ID: "3", Checked: true}}},
		},
	}

	completed, total := card.ChecklistProgress()

	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, total)
}

func TestCard_CloneIsDeep(t *testing.T) {
	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	original := model.Card{
		ID:            "c1",
		Labels:        []model.Label{{ID: "l1", Name: "bug", Color: "red"}},
		Checklists:    []model.Checklist{{ID: "k1", Items: []model.ChecklistItem{{ID: "i1"}}}},
		AssignedUsers: []string{"u1"},
		DueDate:       &due,
		Cover:         &model.Cover{Color: "blue"},
	}

	clone := original.Clone()
	clone.Labels[0].Name = "feature"
	clone.Checklists[0].Items[0].Checked = true
	clone.AssignedUsers[0] = "u2"
	*clone.DueDate = due.AddDate(0, 0, 1)
	clone.Cover.Color = "green"

	assert.Equal(t, "bug", original.Labels[0].Name)
	assert.False(t, original.Checklists[0].Items[0].Checked)
	assert.Equal(t, "u1", original.AssignedUsers[0])
	assert.Equal(t, due, *original.DueDate)
	assert.Equal(t, "blue", original.Cover.Color)
}

func TestList_IndexOfCard(t *testing.T) {
	list := model.List{ID: "L1", Cards: []model.Card{{ID: "c1"}, {ID: "c2"}}}

	assert.Equal(t, 1, list.IndexOfCard("c2"))
	assert.Equal(t, -1, list.IndexOfCard("missing"))
}

func TestCloneLists_Nil(t *testing.T) {
	assert.Nil(t, model.CloneLists(nil))
}
