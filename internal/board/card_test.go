package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCardTrimsInput(t *testing.T) {
	card, err := NewCard("  c1  ", "  Title  ")
	require.NoError(t, err)
	assert.Equal(t, "c1", card.ID)
	assert.Equal(t, "Title", card.Title)
}

func TestNewCardRequiresID(t *testing.T) {
	_, err := NewCard("   ", "Title")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCardFieldResolution(t *testing.T) {
	card := Card{
		ID:          "c1",
		Title:       "Title",
		Description: "desc",
		CoverImage:  "cover.png",
		Fields: map[string]any{
			"assignee": "ada",
			"points":   5,
			"ghost":    nil,
		},
	}

	for name, want := range map[string]any{
		"id":          "c1",
		"title":       "Title",
		"description": "desc",
		"coverImage":  "cover.png",
		"assignee":    "ada",
		"points":      5,
	} {
		got, ok := card.Field(name)
		require.True(t, ok, "field %s", name)
		assert.Equal(t, want, got, "field %s", name)
	}

	_, ok := card.Field("missing")
	assert.False(t, ok)
	_, ok = card.Field("ghost")
	assert.False(t, ok, "null stored value reads as missing")

	empty := Card{ID: "c2", Title: "T"}
	_, ok = empty.Field("description")
	assert.False(t, ok)
	_, ok = empty.Field("coverImage")
	assert.False(t, ok)
	_, ok = empty.Field("anything")
	assert.False(t, ok)
}

func TestColumnHelpers(t *testing.T) {
	col, err := NewColumn("todo", "To Do", 0)
	require.NoError(t, err)
	col.Cards = []Card{{ID: "c1"}, {ID: "c2"}}

	assert.Equal(t, 1, col.IndexOfCard("c2"))
	assert.Equal(t, -1, col.IndexOfCard("missing"))

	assert.False(t, col.OverLimit())
	col.Limit = 1
	assert.True(t, col.OverLimit())
	col.Limit = 2
	assert.False(t, col.OverLimit())
}
