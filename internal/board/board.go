package board

import "fmt"

// Board is the full ordered set of columns. It is the top-level aggregate and
// is replaced wholesale whenever new column data arrives from outside.
type Board struct {
	Columns []Column
}

// New constructs a board from externally supplied columns after normalizing
// them.
func New(columns []Column) Board {
	return Board{Columns: Normalize(columns)}
}

// Normalize guarantees every column carries a non-nil card list. Malformed
// input is repaired, never rejected.
func Normalize(columns []Column) []Column {
	out := make([]Column, len(columns))
	for idx, col := range columns {
		if col.Cards == nil {
			col.Cards = []Card{}
		}
		out[idx] = col
	}
	return out
}

// FindColumn looks a column up by id.
func (b *Board) FindColumn(columnID string) (*Column, bool) {
	for idx := range b.Columns {
		if b.Columns[idx].ID == columnID {
			return &b.Columns[idx], true
		}
	}
	return nil, false
}

// FindColumnOfCard scans columns in order and returns the first column whose
// card list contains the id, together with the card's index in that column.
// Card ids are expected to be globally unique; Validate reports violations.
func (b *Board) FindColumnOfCard(cardID string) (*Column, int, bool) {
	for idx := range b.Columns {
		if cardIdx := b.Columns[idx].IndexOfCard(cardID); cardIdx >= 0 {
			return &b.Columns[idx], cardIdx, true
		}
	}
	return nil, -1, false
}

// CardIDs returns every card id across all columns in column order.
func (b Board) CardIDs() []string {
	out := make([]string, 0)
	for _, col := range b.Columns {
		for _, card := range col.Cards {
			out = append(out, card.ID)
		}
	}
	return out
}

// CardCount returns the total number of cards on the board.
func (b Board) CardCount() int {
	count := 0
	for _, col := range b.Columns {
		count += len(col.Cards)
	}
	return count
}

// Validate reports a card id that appears in more than one place on the
// board. Lookup helpers tolerate duplicates by returning the first match in
// column order; Validate lets callers surface the inconsistency instead.
func (b Board) Validate() error {
	seen := map[string]string{}
	for _, col := range b.Columns {
		for _, card := range col.Cards {
			if prev, ok := seen[card.ID]; ok {
				return fmt.Errorf("%w: %s in columns %s and %s", ErrDuplicateCardID, card.ID, prev, col.ID)
			}
			seen[card.ID] = col.ID
		}
	}
	return nil
}

// Clone returns a deep copy of the board for snapshot/rollback use.
func (b Board) Clone() Board {
	out := Board{Columns: make([]Column, len(b.Columns))}
	for idx, col := range b.Columns {
		out.Columns[idx] = col.Clone()
	}
	return out
}
