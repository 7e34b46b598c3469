package app

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"
)

type fakeStore struct {
	values map[string][]byte
	fail   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string][]byte{}}
}

func (s *fakeStore) GetPreference(_ context.Context, key string) ([]byte, error) {
	if s.fail {
		return nil, errors.New("store down")
	}
	value, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (s *fakeStore) SetPreference(_ context.Context, key string, value []byte) error {
	if s.fail {
		return errors.New("store down")
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *fakeStore) DeletePreference(_ context.Context, key string) error {
	if s.fail {
		return errors.New("store down")
	}
	delete(s.values, key)
	return nil
}

func testLayoutConfig() LayoutConfig {
	return LayoutConfig{
		DefaultWidth: 300,
		MinWidth:     200,
		MaxWidth:     500,
		StorageKey:   "tavle.columns.width",
	}
}

func TestColumnWidthDefaultsAndClamping(t *testing.T) {
	l := NewLayoutPreferences(testLayoutConfig(), newFakeStore(), "")

	if got := l.ColumnWidth("todo"); got != 300 {
		t.Fatalf("expected default width 300, got %d", got)
	}
	if got := l.SetColumnWidth("todo", 100); got != 200 {
		t.Fatalf("expected clamp to min 200, got %d", got)
	}
	if got := l.SetColumnWidth("todo", 900); got != 500 {
		t.Fatalf("expected clamp to max 500, got %d", got)
	}
	if got := l.SetColumnWidth("todo", 350); got != 350 {
		t.Fatalf("expected in-range width kept, got %d", got)
	}
	if got := l.ColumnWidth("todo"); got != 350 {
		t.Fatalf("expected override resolved, got %d", got)
	}
	if got := l.ColumnWidth("done"); got != 300 {
		t.Fatalf("expected untouched column at default, got %d", got)
	}
}

func TestLayoutPersistenceRoundTrip(t *testing.T) {
	store := newFakeStore()
	l := NewLayoutPreferences(testLayoutConfig(), store, "tavle.lanes.collapsed.lane")
	l.SetColumnWidth("todo", 420)
	l.ToggleLane("alpha")

	reloaded := NewLayoutPreferences(testLayoutConfig(), store, "tavle.lanes.collapsed.lane")
	if got := reloaded.ColumnWidth("todo"); got != 420 {
		t.Fatalf("expected persisted width 420, got %d", got)
	}
	if !reloaded.LaneCollapsed("alpha") {
		t.Fatal("expected persisted collapsed lane")
	}

	raw, ok := store.values["tavle.columns.width"]
	if !ok {
		t.Fatal("expected widths persisted under the storage key")
	}
	widths := map[string]int{}
	if err := json.Unmarshal(raw, &widths); err != nil {
		t.Fatalf("expected flat json map, got %v", err)
	}
	if widths["todo"] != 420 {
		t.Fatalf("unexpected persisted mapping %v", widths)
	}
}

func TestLayoutLoadClampsPersistedWidths(t *testing.T) {
	store := newFakeStore()
	store.values["tavle.columns.width"] = []byte(`{"todo": 50, "done": 9000}`)

	l := NewLayoutPreferences(testLayoutConfig(), store, "")
	if got := l.ColumnWidth("todo"); got != 200 {
		t.Fatalf("expected persisted width clamped up, got %d", got)
	}
	if got := l.ColumnWidth("done"); got != 500 {
		t.Fatalf("expected persisted width clamped down, got %d", got)
	}
}

func TestLayoutCorruptDataYieldsDefaults(t *testing.T) {
	store := newFakeStore()
	store.values["tavle.columns.width"] = []byte(`{broken`)
	store.values["lanes"] = []byte(`42`)

	l := NewLayoutPreferences(testLayoutConfig(), store, "lanes")
	if got := l.ColumnWidth("todo"); got != 300 {
		t.Fatalf("expected default after corrupt widths, got %d", got)
	}
	if len(l.CollapsedLanes()) != 0 {
		t.Fatalf("expected no collapsed lanes, got %v", l.CollapsedLanes())
	}
}

func TestLayoutStoreFailuresAreSwallowed(t *testing.T) {
	store := newFakeStore()
	store.fail = true

	l := NewLayoutPreferences(testLayoutConfig(), store, "lanes")
	if got := l.SetColumnWidth("todo", 400); got != 400 {
		t.Fatalf("expected in-memory width despite store failure, got %d", got)
	}
	if got := l.ColumnWidth("todo"); got != 400 {
		t.Fatalf("expected in-memory override, got %d", got)
	}
	if !l.ToggleLane("alpha") {
		t.Fatal("expected lane collapsed in memory")
	}
}

func TestLayoutNilStore(t *testing.T) {
	l := NewLayoutPreferences(testLayoutConfig(), nil, "lanes")
	if got := l.SetColumnWidth("todo", 250); got != 250 {
		t.Fatalf("expected width without a store, got %d", got)
	}
	l.ResetWidths()
	if got := l.ColumnWidth("todo"); got != 300 {
		t.Fatalf("expected default after reset, got %d", got)
	}
}

func TestResetWidthsClearsPersistedEntry(t *testing.T) {
	store := newFakeStore()
	l := NewLayoutPreferences(testLayoutConfig(), store, "")
	l.SetColumnWidth("todo", 450)
	l.ResetWidths()

	if got := l.ColumnWidth("todo"); got != 300 {
		t.Fatalf("expected default after reset, got %d", got)
	}
	if _, ok := store.values["tavle.columns.width"]; ok {
		t.Fatal("expected persisted entry removed")
	}
}

func TestToggleLaneRoundTrip(t *testing.T) {
	l := NewLayoutPreferences(testLayoutConfig(), newFakeStore(), "lanes")

	if !l.ToggleLane("alpha") {
		t.Fatal("expected alpha collapsed")
	}
	if !l.ToggleLane("beta") {
		t.Fatal("expected beta collapsed")
	}
	lanes := l.CollapsedLanes()
	sort.Strings(lanes)
	if len(lanes) != 2 || lanes[0] != "alpha" || lanes[1] != "beta" {
		t.Fatalf("unexpected collapsed set %v", lanes)
	}
	if l.ToggleLane("alpha") {
		t.Fatal("expected alpha expanded again")
	}
	if l.LaneCollapsed("alpha") {
		t.Fatal("expected alpha reported expanded")
	}
}
