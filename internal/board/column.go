package board

import "strings"

// Column is a named, ordered bucket of cards. Limit is advisory only:
// exceeding it never blocks insertion, it only changes presentation.
type Column struct {
	ID        string
	Title     string
	Cards     []Card
	Limit     int
	Collapsed bool
}

// NewColumn constructs a column with a trimmed id and title and a non-nil
// card list.
func NewColumn(id, title string, limit int) (Column, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if limit < 0 {
		limit = 0
	}
	return Column{ID: id, Title: strings.TrimSpace(title), Cards: []Card{}, Limit: limit}, nil
}

// IndexOfCard returns the position of the card in this column, or -1.
func (c Column) IndexOfCard(cardID string) int {
	for idx, card := range c.Cards {
		if card.ID == cardID {
			return idx
		}
	}
	return -1
}

// OverLimit reports whether the advisory limit is exceeded.
func (c Column) OverLimit() bool {
	return c.Limit > 0 && len(c.Cards) > c.Limit
}

// Clone returns a deep copy of the column.
func (c Column) Clone() Column {
	out := c
	out.Cards = make([]Card, len(c.Cards))
	for idx, card := range c.Cards {
		out.Cards[idx] = card.Clone()
	}
	return out
}
