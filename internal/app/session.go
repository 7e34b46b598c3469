package app

import (
	"github.com/hylla/tavle/internal/board"
)

// SessionState represents the drag gesture lifecycle.
type SessionState int

const (
	StateIdle SessionState = iota
	StateDragging
	StateCommitting
	StateCancelled
)

// DropOutcome reports how a drop resolved.
type DropOutcome int

const (
	// DropNoop covers same-id drops and drops outside an active session.
	DropNoop DropOutcome = iota
	// DropReordered is a same-column in-place move. No callback fires.
	DropReordered
	// DropTransferred is an authorized cross-column move. OnCardMove fired
	// exactly once.
	DropTransferred
	// DropCancelled means no target resolved; the pre-drag snapshot was
	// restored.
	DropCancelled
	// DropRejected means the swimlane allow-list refused the transfer
	// before any mutation.
	DropRejected
)

// DragSession is the transient state machine spanning gesture start through
// drop or cancellation. At most one session is active per board instance.
type DragSession struct {
	board       *board.Board
	grouper     board.Grouper
	hooks       Hooks
	coordinator DragCoordinator

	state          SessionState
	activeCardID   string
	sourceColumnID string
	sourceLane     string
	snapshot       board.Board
}

// NewDragSession coordinates gestures against the given board. The
// coordinator may be nil.
func NewDragSession(b *board.Board, grouper board.Grouper, hooks Hooks, coordinator DragCoordinator) *DragSession {
	return &DragSession{
		board:       b,
		grouper:     grouper,
		hooks:       hooks,
		coordinator: coordinator,
	}
}

// State returns the current lifecycle state.
func (s *DragSession) State() SessionState {
	return s.state
}

// Active reports whether a gesture is in flight.
func (s *DragSession) Active() bool {
	return s.state == StateDragging
}

// ActiveCardID returns the card being dragged, or "".
func (s *DragSession) ActiveCardID() string {
	return s.activeCardID
}

// SourceColumnID returns the column the active card started in, or "".
func (s *DragSession) SourceColumnID() string {
	return s.sourceColumnID
}

// Start begins a gesture for the card. A second gesture cannot start before
// the previous one resolves.
func (s *DragSession) Start(cardID string) error {
	if s.state != StateIdle {
		return ErrDragActive
	}
	col, idx, ok := s.board.FindColumnOfCard(cardID)
	if !ok {
		return board.ErrUnknownCard
	}

	s.state = StateDragging
	s.activeCardID = cardID
	s.sourceColumnID = col.ID
	if s.grouper.Enabled() {
		s.sourceLane = s.grouper.LaneOf(col.Cards[idx])
	}
	s.snapshot = s.board.Clone()

	if s.coordinator != nil {
		s.coordinator.StartDrag(DragItem{
			CardID:       cardID,
			SourceColumn: s.sourceColumnID,
			SourceLane:   s.sourceLane,
		})
	}
	return nil
}

// MoveOver is a pure preview signal. It resolves the hover target so callers
// can highlight a drop zone but never mutates committed data.
func (s *DragSession) MoveOver(targetID string) (columnID string, ok bool) {
	if s.state != StateDragging {
		return "", false
	}
	if col, found := s.board.FindColumn(targetID); found {
		return col.ID, true
	}
	if col, _, found := s.board.FindColumnOfCard(targetID); found {
		return col.ID, true
	}
	return "", false
}

// Drop commits the gesture onto the target, which may be a card id or a
// column id. The board always moves from one fully consistent snapshot to
// the next in a single step.
func (s *DragSession) Drop(targetID string) DropOutcome {
	if s.state != StateDragging {
		return DropNoop
	}
	s.state = StateCommitting

	if targetID == s.activeCardID {
		s.finish("")
		return DropNoop
	}

	destColumnID, insertAt, destLane, resolved := s.resolveTarget(targetID)
	if !resolved {
		return s.cancelInternal()
	}

	if destColumnID == s.sourceColumnID {
		src, fromIdx, _ := s.board.FindColumnOfCard(s.activeCardID)
		to := insertAt
		if to < 0 {
			to = len(src.Cards) - 1
		}
		_ = s.board.Reorder(src.ID, fromIdx, to)
		s.finish(targetID)
		return DropReordered
	}

	if s.grouper.Enabled() && !s.grouper.Authorized(s.sourceLane, destLane) {
		s.finish(targetID)
		return DropRejected
	}

	cardID := s.activeCardID
	fromColumnID := s.sourceColumnID
	if insertAt < 0 {
		dst, _ := s.board.FindColumn(destColumnID)
		insertAt = len(dst.Cards)
	}
	newIdx, err := s.board.Transfer(cardID, fromColumnID, destColumnID, insertAt)
	if err != nil {
		return s.cancelInternal()
	}
	s.finish(targetID)
	if s.hooks.OnCardMove != nil {
		s.hooks.OnCardMove(cardID, fromColumnID, destColumnID, newIdx)
	}
	return DropTransferred
}

// Cancel aborts the gesture and restores the exact pre-drag snapshot. No
// mutation survives and no callback fires.
func (s *DragSession) Cancel() {
	if s.state != StateDragging {
		return
	}
	s.cancelInternal()
}

// resolveTarget maps a drop target id onto a destination column, an
// insertion index (-1 means end of column), and a destination lane.
func (s *DragSession) resolveTarget(targetID string) (columnID string, insertAt int, lane string, ok bool) {
	if col, found := s.board.FindColumn(targetID); found {
		// Dropping on the column itself keeps the source lane.
		return col.ID, -1, s.sourceLane, true
	}
	if col, idx, found := s.board.FindColumnOfCard(targetID); found {
		return col.ID, idx, s.grouper.LaneOf(col.Cards[idx]), true
	}
	return "", 0, "", false
}

func (s *DragSession) cancelInternal() DropOutcome {
	*s.board = s.snapshot.Clone()
	s.state = StateCancelled
	s.finish("")
	return DropCancelled
}

// finish resolves the session back to idle and notifies the coordinator.
func (s *DragSession) finish(targetID string) {
	if s.coordinator != nil {
		s.coordinator.EndDrag(targetID)
	}
	s.state = StateIdle
	s.activeCardID = ""
	s.sourceColumnID = ""
	s.sourceLane = ""
	s.snapshot = board.Board{}
}
