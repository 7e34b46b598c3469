package app

import (
	"context"
	"encoding/json"
	"strings"
)

// LayoutConfig holds the width resolution parameters and the storage key the
// width overrides persist under.
type LayoutConfig struct {
	DefaultWidth int
	MinWidth     int
	MaxWidth     int
	StorageKey   string
}

// LayoutPreferences tracks per-column width overrides and the collapsed-lane
// set. Persistence is fire-and-forget through the PreferenceStore: failures
// are swallowed at the boundary and the engine keeps functioning on
// in-memory state.
type LayoutPreferences struct {
	cfg      LayoutConfig
	store    PreferenceStore
	laneKey  string
	widths   map[string]int
	collapse map[string]struct{}
}

// NewLayoutPreferences loads any persisted widths and collapsed lanes.
// Corrupt or missing persisted data yields empty defaults rather than an
// error. The store may be nil; laneKey comes from Grouper.CollapseKey.
func NewLayoutPreferences(cfg LayoutConfig, store PreferenceStore, laneKey string) *LayoutPreferences {
	l := &LayoutPreferences{
		cfg:      cfg,
		store:    store,
		laneKey:  laneKey,
		widths:   map[string]int{},
		collapse: map[string]struct{}{},
	}
	l.load()
	return l
}

// ColumnWidth resolves a column's width as override-or-default.
func (l *LayoutPreferences) ColumnWidth(columnID string) int {
	if w, ok := l.widths[columnID]; ok {
		return w
	}
	return l.cfg.DefaultWidth
}

// SetColumnWidth clamps the value into [min, max], stores it, and persists
// the flat column-id to width mapping. The clamped width is returned.
func (l *LayoutPreferences) SetColumnWidth(columnID string, width int) int {
	width = l.clamp(width)
	l.widths[columnID] = width
	l.persistWidths()
	return width
}

// ResetWidths clears all in-memory overrides and removes the persisted
// entry.
func (l *LayoutPreferences) ResetWidths() {
	l.widths = map[string]int{}
	if l.store != nil && strings.TrimSpace(l.cfg.StorageKey) != "" {
		_ = l.store.DeletePreference(context.Background(), l.cfg.StorageKey)
	}
}

// LaneCollapsed reports whether the lane is collapsed.
func (l *LayoutPreferences) LaneCollapsed(lane string) bool {
	_, ok := l.collapse[lane]
	return ok
}

// ToggleLane flips a lane's collapsed state, persists the set, and returns
// the new state.
func (l *LayoutPreferences) ToggleLane(lane string) bool {
	if _, ok := l.collapse[lane]; ok {
		delete(l.collapse, lane)
	} else {
		l.collapse[lane] = struct{}{}
	}
	l.persistLanes()
	return l.LaneCollapsed(lane)
}

// CollapsedLanes returns the current collapsed-lane set as a slice.
func (l *LayoutPreferences) CollapsedLanes() []string {
	out := make([]string, 0, len(l.collapse))
	for lane := range l.collapse {
		out = append(out, lane)
	}
	return out
}

func (l *LayoutPreferences) clamp(width int) int {
	if l.cfg.MinWidth > 0 && width < l.cfg.MinWidth {
		width = l.cfg.MinWidth
	}
	if l.cfg.MaxWidth > 0 && width > l.cfg.MaxWidth {
		width = l.cfg.MaxWidth
	}
	return width
}

func (l *LayoutPreferences) load() {
	if l.store == nil {
		return
	}
	ctx := context.Background()
	if key := strings.TrimSpace(l.cfg.StorageKey); key != "" {
		if raw, err := l.store.GetPreference(ctx, key); err == nil {
			widths := map[string]int{}
			if json.Unmarshal(raw, &widths) == nil {
				for id, w := range widths {
					l.widths[id] = l.clamp(w)
				}
			}
		}
	}
	if key := strings.TrimSpace(l.laneKey); key != "" {
		if raw, err := l.store.GetPreference(ctx, key); err == nil {
			var lanes []string
			if json.Unmarshal(raw, &lanes) == nil {
				for _, lane := range lanes {
					l.collapse[lane] = struct{}{}
				}
			}
		}
	}
}

func (l *LayoutPreferences) persistWidths() {
	if l.store == nil || strings.TrimSpace(l.cfg.StorageKey) == "" {
		return
	}
	raw, err := json.Marshal(l.widths)
	if err != nil {
		return
	}
	_ = l.store.SetPreference(context.Background(), l.cfg.StorageKey, raw)
}

func (l *LayoutPreferences) persistLanes() {
	if l.store == nil || strings.TrimSpace(l.laneKey) == "" {
		return
	}
	raw, err := json.Marshal(l.CollapsedLanes())
	if err != nil {
		return
	}
	_ = l.store.SetPreference(context.Background(), l.laneKey, raw)
}
