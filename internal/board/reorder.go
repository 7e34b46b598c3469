package board

// moveWithin applies an in-place array move: remove at from, insert at to.
// Indices are clamped so lists with 0 or 1 cards are always left unchanged.
func moveWithin(cards []Card, from, to int) {
	if len(cards) < 2 {
		return
	}
	from = clampIndex(from, len(cards)-1)
	to = clampIndex(to, len(cards)-1)
	if from == to {
		return
	}
	card := cards[from]
	if from < to {
		copy(cards[from:to], cards[from+1:to+1])
	} else {
		copy(cards[to+1:from+1], cards[to:from])
	}
	cards[to] = card
}

func clampIndex(idx, max int) int {
	if idx < 0 {
		return 0
	}
	if idx > max {
		return max
	}
	return idx
}

// Reorder repositions a card within a single column. The multiset of card ids
// and the column length are preserved.
func (b *Board) Reorder(columnID string, from, to int) error {
	col, ok := b.FindColumn(columnID)
	if !ok {
		return ErrUnknownColumn
	}
	moveWithin(col.Cards, from, to)
	return nil
}

// Transfer relocates a card from one column to another, inserting at the
// requested index (clamped to the destination length). It returns the index
// the card actually landed at.
func (b *Board) Transfer(cardID, fromColumnID, toColumnID string, insertAt int) (int, error) {
	src, ok := b.FindColumn(fromColumnID)
	if !ok {
		return 0, ErrUnknownColumn
	}
	dst, ok := b.FindColumn(toColumnID)
	if !ok {
		return 0, ErrUnknownColumn
	}
	idx := src.IndexOfCard(cardID)
	if idx < 0 {
		return 0, ErrUnknownCard
	}

	card := src.Cards[idx]
	src.Cards = append(src.Cards[:idx], src.Cards[idx+1:]...)

	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(dst.Cards) {
		insertAt = len(dst.Cards)
	}
	dst.Cards = append(dst.Cards, Card{})
	copy(dst.Cards[insertAt+1:], dst.Cards[insertAt:])
	dst.Cards[insertAt] = card
	return insertAt, nil
}
