package dragdrop_test

import (
	"testing"

	"kanboard/internal/dragdrop"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		path   []dragdrop.Element
		want   dragdrop.Target
		wantOK bool
	}{
		{
			name:   "empty path",
			path:   nil,
			wantOK: false,
		},
		{
			name:   "outside any list",
			path:   []dragdrop.Element{{}, {}},
			wantOK: false,
		},
		{
			name: "pointer on card title inside card",
			path: []dragdrop.Element{
				{},
				{ListID: "L1", CardID: "c2", CardIndex: 1},
				{ListID: "L1"},
			},
			want:   dragdrop.Target{ListID: "L1", CardIndex: 1},
			wantOK: true,
		},
		{
			name: "empty area of list",
			path: []dragdrop.Element{
				{ListID: "L2"},
				{},
			},
			want:   dragdrop.Target{ListID: "L2", CardIndex: dragdrop.EndOfList},
			wantOK: true,
		},
		{
			name: "first card of list",
			path: []dragdrop.Element{
				{ListID: "L1", CardID: "c1", CardIndex: 0},
				{ListID: "L1"},
			},
			want:   dragdrop.Target{ListID: "L1", CardIndex: 0},
			wantOK: true,
		},
		{
			name: "card from another list is ignored",
			path: []dragdrop.Element{
				{ListID: "L3"},
				{ListID: "L1", CardID: "c1", CardIndex: 4},
			},
			want:   dragdrop.Target{ListID: "L3", CardIndex: dragdrop.EndOfList},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dragdrop.Resolve(tt.path)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
