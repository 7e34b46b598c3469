package app

import (
	"context"

	"github.com/hylla/tavle/internal/board"
)

// PreferenceStore persists small serialized layout records under flat keys.
// Reads and writes are best-effort: callers swallow failures and fall back
// to in-memory defaults.
type PreferenceStore interface {
	GetPreference(context.Context, string) ([]byte, error)
	SetPreference(context.Context, string, []byte) error
	DeletePreference(context.Context, string) error
}

// BoardSource supplies the externally owned column data the engine mirrors.
// Every load is a full replacement of local state, never a merge.
type BoardSource interface {
	LoadBoard(context.Context) ([]board.Column, error)
}

// DragItem describes the payload handed to an external drag coordinator.
type DragItem struct {
	CardID       string
	SourceColumn string
	SourceLane   string
}

// DragCoordinator is an optional injected capability notified at gesture
// start and end for cross-component bridging. Its absence must not affect
// engine correctness.
type DragCoordinator interface {
	StartDrag(DragItem)
	EndDrag(targetID string)
}

// Hooks carries the external notifications the engine emits. Any field may
// be nil.
type Hooks struct {
	// OnCardMove fires exactly once per authorized cross-column transfer.
	// Never for same-column reorders, same-id no-ops, cancellations, or
	// unauthorized transfers.
	OnCardMove func(cardID, fromColumnID, toColumnID string, newIndex int)
	// OnColumnToggle fires on every explicit collapse toggle.
	OnColumnToggle func(columnID string, collapsed bool)
	// OnQuickAdd fires only with a non-empty, trimmed title on commit.
	OnQuickAdd func(columnID, title string)
	// OnCardClick fires for a non-drag pointer interaction.
	OnCardClick func(card board.Card)
}
