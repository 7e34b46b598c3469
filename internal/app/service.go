package app

import (
	"context"
	"strings"

	"github.com/hylla/tavle/internal/board"
)

// IDGenerator returns unique identifiers for new cards.
type IDGenerator func() string

// ServiceConfig holds configuration for the board engine facade.
type ServiceConfig struct {
	GroupField          string
	LaneRules           map[string]board.LaneRule
	FormatRules         []board.FormatRule
	Layout              LayoutConfig
	VirtualizeThreshold int
	Hooks               Hooks
	Coordinator         DragCoordinator
	Source              BoardSource
	Store               PreferenceStore
	IDGen               IDGenerator
}

// Service owns one board instance and coordinates the drag session, layout
// preferences, swimlane grouping, and quick-add staging around it. All
// mutations happen synchronously on the caller's event loop.
type Service struct {
	board   board.Board
	grouper board.Grouper
	session *DragSession
	layout  *LayoutPreferences
	rules   []board.FormatRule
	hooks   Hooks
	source  BoardSource
	idGen   IDGenerator

	virtualizeThreshold int

	staging       *board.QuickAddStaging
	stagingColumn string
}

// NewService constructs the engine facade.
func NewService(cfg ServiceConfig) *Service {
	if cfg.IDGen == nil {
		cfg.IDGen = func() string { return "" }
	}
	s := &Service{
		grouper:             board.NewGrouper(cfg.GroupField, cfg.LaneRules),
		rules:               cfg.FormatRules,
		hooks:               cfg.Hooks,
		source:              cfg.Source,
		idGen:               cfg.IDGen,
		virtualizeThreshold: cfg.VirtualizeThreshold,
	}
	s.board = board.New(nil)
	s.session = NewDragSession(&s.board, s.grouper, cfg.Hooks, cfg.Coordinator)
	s.layout = NewLayoutPreferences(cfg.Layout, cfg.Store, s.grouper.CollapseKey())
	return s
}

// Refresh replaces the board wholesale from externally supplied columns. Any
// in-flight gesture is cancelled first so the replacement lands on a
// consistent snapshot. A quick-add staging buffer tracking one column is
// resynced through its own suppress window.
func (s *Service) Refresh(columns []board.Column) {
	if s.session.Active() {
		s.session.Cancel()
	}
	s.board = board.New(columns)
	s.syncStaging()
}

// Reload pulls fresh columns from the configured board source and applies
// Refresh semantics.
func (s *Service) Reload(ctx context.Context) error {
	if s.source == nil {
		return nil
	}
	columns, err := s.source.LoadBoard(ctx)
	if err != nil {
		return err
	}
	s.Refresh(columns)
	return nil
}

// Board exposes the current board snapshot.
func (s *Service) Board() *board.Board {
	return &s.board
}

// Columns returns the current column list.
func (s *Service) Columns() []board.Column {
	return s.board.Columns
}

// StartDrag begins a gesture for the card.
func (s *Service) StartDrag(cardID string) error {
	if err := s.session.Start(cardID); err != nil {
		return err
	}
	if s.staging != nil {
		s.staging.StartDrag()
	}
	return nil
}

// MoveOver previews the hover target without mutating anything.
func (s *Service) MoveOver(targetID string) (string, bool) {
	return s.session.MoveOver(targetID)
}

// Drop commits the active gesture onto the target.
func (s *Service) Drop(targetID string) DropOutcome {
	outcome := s.session.Drop(targetID)
	if s.staging != nil {
		s.staging.EndDrag()
	}
	return outcome
}

// CancelDrag aborts the active gesture and restores the pre-drag snapshot.
func (s *Service) CancelDrag() {
	s.session.Cancel()
	if s.staging != nil {
		s.staging.EndDrag()
	}
}

// DragActive reports whether a gesture is in flight.
func (s *Service) DragActive() bool {
	return s.session.Active()
}

// ActiveCardID returns the card being dragged, or "".
func (s *Service) ActiveCardID() string {
	return s.session.ActiveCardID()
}

// ToggleColumn flips a column's collapsed flag and notifies the toggle hook.
// Collapsing never discards the column's cards.
func (s *Service) ToggleColumn(columnID string) (bool, error) {
	col, ok := s.board.FindColumn(columnID)
	if !ok {
		return false, board.ErrUnknownColumn
	}
	col.Collapsed = !col.Collapsed
	if s.hooks.OnColumnToggle != nil {
		s.hooks.OnColumnToggle(columnID, col.Collapsed)
	}
	return col.Collapsed, nil
}

// QuickAdd commits an inline card creation. An empty title after trimming
// invokes nothing and reports ok=false. The card is appended optimistically
// and the quick-add hook fires once.
func (s *Service) QuickAdd(columnID, title string) (board.Card, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return board.Card{}, false
	}
	col, ok := s.board.FindColumn(columnID)
	if !ok {
		return board.Card{}, false
	}
	card, err := board.NewCard(s.idGen(), title)
	if err != nil {
		return board.Card{}, false
	}
	col.Cards = append(col.Cards, card)
	s.syncStaging()
	if s.hooks.OnQuickAdd != nil {
		s.hooks.OnQuickAdd(columnID, title)
	}
	return card, true
}

// BeginQuickAdd seeds the staging buffer for the column an inline creation
// targets, so concurrent refreshes cannot clobber an in-flight reorder.
func (s *Service) BeginQuickAdd(columnID string) {
	col, ok := s.board.FindColumn(columnID)
	if !ok {
		return
	}
	s.stagingColumn = columnID
	s.staging = board.NewQuickAddStaging(col.Cards)
}

// EndQuickAdd drops the staging buffer.
func (s *Service) EndQuickAdd() {
	s.staging = nil
	s.stagingColumn = ""
}

// StagedCards returns the quick-add staging buffer, if one is active.
func (s *Service) StagedCards() []board.Card {
	if s.staging == nil {
		return nil
	}
	return s.staging.Cards()
}

// StageReorder applies an array move to the staging buffer.
func (s *Service) StageReorder(from, to int) {
	if s.staging == nil {
		return
	}
	s.staging.OnReorder(from, to)
}

// CardClick reports a non-drag activation of a card.
func (s *Service) CardClick(cardID string) {
	col, idx, ok := s.board.FindColumnOfCard(cardID)
	if !ok {
		return
	}
	if s.hooks.OnCardClick != nil {
		s.hooks.OnCardClick(col.Cards[idx])
	}
}

// StyleFor evaluates the conditional format rules for a card.
func (s *Service) StyleFor(card board.Card) board.StyleOverride {
	return board.Evaluate(card, s.rules)
}

// StrategyFor selects the rendering strategy for a column.
func (s *Service) StrategyFor(col board.Column) board.Strategy {
	return board.DecideStrategy(len(col.Cards), s.virtualizeThreshold)
}

// Grouper exposes the swimlane projection.
func (s *Service) Grouper() board.Grouper {
	return s.grouper
}

// Lanes returns the sorted lane keys for the current board.
func (s *Service) Lanes() []string {
	return s.grouper.Lanes(s.board)
}

// Layout exposes width and collapsed-lane preferences.
func (s *Service) Layout() *LayoutPreferences {
	return s.layout
}

// syncStaging mirrors the staged column's card list back into the buffer,
// honoring its suppress-resync window.
func (s *Service) syncStaging() {
	if s.staging == nil {
		return
	}
	col, ok := s.board.FindColumn(s.stagingColumn)
	if !ok {
		s.staging.Sync(nil)
		return
	}
	s.staging.Sync(col.Cards)
}
