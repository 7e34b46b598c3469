package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCard(t *testing.T, id, title string) Card {
	t.Helper()
	card, err := NewCard(id, title)
	require.NoError(t, err)
	return card
}

func twoColumnBoard(t *testing.T) Board {
	t.Helper()
	return New([]Column{
		{ID: "todo", Title: "To Do", Cards: []Card{
			mustCard(t, "c1", "One"),
			mustCard(t, "c2", "Two"),
			mustCard(t, "c3", "Three"),
		}},
		{ID: "done", Title: "Done", Cards: []Card{
			mustCard(t, "c4", "Four"),
		}},
	})
}

func TestNewNormalizesNilCardLists(t *testing.T) {
	b := New([]Column{{ID: "todo", Title: "To Do"}})
	require.Len(t, b.Columns, 1)
	require.NotNil(t, b.Columns[0].Cards)
	assert.Empty(t, b.Columns[0].Cards)
}

func TestFindColumn(t *testing.T) {
	b := twoColumnBoard(t)

	col, ok := b.FindColumn("done")
	require.True(t, ok)
	assert.Equal(t, "Done", col.Title)

	_, ok = b.FindColumn("missing")
	assert.False(t, ok)
}

func TestFindColumnOfCard(t *testing.T) {
	b := twoColumnBoard(t)

	col, idx, ok := b.FindColumnOfCard("c2")
	require.True(t, ok)
	assert.Equal(t, "todo", col.ID)
	assert.Equal(t, 1, idx)

	_, _, ok = b.FindColumnOfCard("missing")
	assert.False(t, ok)
}

func TestFindColumnOfCardFirstMatchWins(t *testing.T) {
	b := New([]Column{
		{ID: "a", Cards: []Card{mustCard(t, "dup", "First")}},
		{ID: "b", Cards: []Card{mustCard(t, "dup", "Second")}},
	})
	col, idx, ok := b.FindColumnOfCard("dup")
	require.True(t, ok)
	assert.Equal(t, "a", col.ID)
	assert.Equal(t, 0, idx)
}

func TestValidateReportsDuplicateCardIDs(t *testing.T) {
	b := twoColumnBoard(t)
	require.NoError(t, b.Validate())

	b.Columns[1].Cards = append(b.Columns[1].Cards, mustCard(t, "c1", "Copy"))
	err := b.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateCardID)
	assert.Contains(t, err.Error(), "todo")
	assert.Contains(t, err.Error(), "done")
}

func TestCardIDsAndCount(t *testing.T) {
	b := twoColumnBoard(t)
	assert.Equal(t, []string{"c1", "c2", "c3", "c4"}, b.CardIDs())
	assert.Equal(t, 4, b.CardCount())
}

func TestCloneIsDeep(t *testing.T) {
	b := twoColumnBoard(t)
	b.Columns[0].Cards[0].Badges = []string{"urgent"}
	b.Columns[0].Cards[0].Fields = map[string]any{"assignee": "ada"}

	clone := b.Clone()
	clone.Columns[0].Cards[0].Title = "Changed"
	clone.Columns[0].Cards[0].Badges[0] = "low"
	clone.Columns[0].Cards[0].Fields["assignee"] = "lin"
	clone.Columns[0].Cards = clone.Columns[0].Cards[:1]

	assert.Equal(t, "One", b.Columns[0].Cards[0].Title)
	assert.Equal(t, []string{"urgent"}, b.Columns[0].Cards[0].Badges)
	assert.Equal(t, "ada", b.Columns[0].Cards[0].Fields["assignee"])
	assert.Len(t, b.Columns[0].Cards, 3)
}
