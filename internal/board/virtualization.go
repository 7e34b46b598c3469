package board

// Rendering constants for the windowed strategy. Row height is an estimate
// in terminal lines per card; overscan is the number of extra cards kept
// materialized beyond the viewport on each side.
const (
	EstimatedRowHeight = 3
	OverscanCards      = 4
)

// Strategy describes how a column's card views should be materialized. The
// decision never alters logical card order.
type Strategy struct {
	Windowed  bool
	RowHeight int
	Overscan  int
}

// DecideStrategy selects windowed rendering above the threshold and direct
// rendering at or below it.
func DecideStrategy(cardCount, threshold int) Strategy {
	if cardCount > threshold {
		return Strategy{Windowed: true, RowHeight: EstimatedRowHeight, Overscan: OverscanCards}
	}
	return Strategy{Windowed: false}
}

// Window returns the slice bounds [start, end) of cards to materialize for a
// viewport showing viewRows lines starting at scrollTop cards, including the
// overscan buffer. For a direct strategy the whole list is returned.
func (s Strategy) Window(cardCount, scrollTop, viewRows int) (int, int) {
	if !s.Windowed || cardCount == 0 {
		return 0, cardCount
	}
	visible := viewRows / s.RowHeight
	if visible < 1 {
		visible = 1
	}
	start := scrollTop - s.Overscan
	if start < 0 {
		start = 0
	}
	end := scrollTop + visible + s.Overscan
	if end > cardCount {
		end = cardCount
	}
	if start > end {
		start = end
	}
	return start, end
}
