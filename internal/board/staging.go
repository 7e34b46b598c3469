package board

// QuickAddStaging keeps a local working copy of a card list that otherwise
// mirrors an externally supplied list. While a drag is in flight external
// resyncs are suppressed so the gesture is not clobbered by a concurrent
// refresh; outside that window every external change replaces the buffer
// wholesale.
type QuickAddStaging struct {
	cards    []Card
	dragging bool
}

// NewQuickAddStaging seeds the buffer from the current external list.
func NewQuickAddStaging(cards []Card) *QuickAddStaging {
	s := &QuickAddStaging{}
	s.replace(cards)
	return s
}

// StartDrag opens the suppress-resync window.
func (s *QuickAddStaging) StartDrag() {
	s.dragging = true
}

// EndDrag closes the suppress-resync window.
func (s *QuickAddStaging) EndDrag() {
	s.dragging = false
}

// Dragging reports whether the suppress-resync window is open.
func (s *QuickAddStaging) Dragging() bool {
	return s.dragging
}

// Sync applies an external list change. During a drag the change is ignored;
// otherwise the buffer is fully replaced, no diffing or merging.
func (s *QuickAddStaging) Sync(external []Card) {
	if s.dragging {
		return
	}
	s.replace(external)
}

// OnReorder applies an array move directly to the local buffer.
func (s *QuickAddStaging) OnReorder(from, to int) {
	moveWithin(s.cards, from, to)
}

// Cards returns the current local buffer.
func (s *QuickAddStaging) Cards() []Card {
	return s.cards
}

func (s *QuickAddStaging) replace(cards []Card) {
	s.cards = make([]Card, len(cards))
	copy(s.cards, cards)
}
