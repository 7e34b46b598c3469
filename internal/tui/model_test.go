package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/hylla/tavle/internal/app"
	"github.com/hylla/tavle/internal/board"
)

type memStore struct {
	values map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{values: map[string][]byte{}}
}

func (s *memStore) GetPreference(_ context.Context, key string) ([]byte, error) {
	value, ok := s.values[key]
	if !ok {
		return nil, app.ErrNotFound
	}
	return value, nil
}

func (s *memStore) SetPreference(_ context.Context, key string, value []byte) error {
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) DeletePreference(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}

type staticSource struct {
	columns []board.Column
}

func (s *staticSource) LoadBoard(context.Context) ([]board.Column, error) {
	return s.columns, nil
}

func testCard(id, title string, fields map[string]any) board.Card {
	card, err := board.NewCard(id, title)
	if err != nil {
		panic(err)
	}
	card.Fields = fields
	return card
}

func newTestService(columns []board.Column, cfg app.ServiceConfig) *app.Service {
	seq := 0
	cfg.Layout = app.LayoutConfig{
		DefaultWidth: 24,
		MinWidth:     16,
		MaxWidth:     40,
		StorageKey:   "tavle.columns.width",
	}
	if cfg.Store == nil {
		cfg.Store = newMemStore()
	}
	if cfg.VirtualizeThreshold == 0 {
		cfg.VirtualizeThreshold = 50
	}
	cfg.Source = &staticSource{columns: columns}
	cfg.IDGen = func() string {
		seq++
		return fmt.Sprintf("gen-%d", seq)
	}
	return app.NewService(cfg)
}

func defaultColumns() []board.Column {
	todo, _ := board.NewColumn("todo", "To Do", 0)
	todo.Cards = []board.Card{
		testCard("c1", "One", map[string]any{"assignee": "ada"}),
		testCard("c2", "Two", map[string]any{"assignee": "lin"}),
	}
	done, _ := board.NewColumn("done", "Done", 0)
	done.Cards = []board.Card{
		testCard("c3", "Three", map[string]any{"assignee": "ada"}),
	}
	return []board.Column{todo, done}
}

func loadReadyModel(t *testing.T, m Model) Model {
	t.Helper()
	return applyMsg(t, applyCmd(t, m, m.Init()), tea.WindowSizeMsg{Width: 120, Height: 40})
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

func viewContent(v tea.View) string {
	return fmt.Sprintf("%v", v.Content)
}

func TestModelLoadAndNavigation(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	content := viewContent(m.View())
	if !strings.Contains(content, "To Do") || !strings.Contains(content, "Done") {
		t.Fatalf("expected column titles in view, got:\n%s", content)
	}
	if !strings.Contains(content, "One") {
		t.Fatalf("expected card title in view, got:\n%s", content)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if m.selectedColumn != 1 {
		t.Fatalf("expected column 1 selected, got %d", m.selectedColumn)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyLeft})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.selectedColumn != 0 || m.selectedCard != 1 {
		t.Fatalf("expected card 1 in column 0, got column %d card %d", m.selectedColumn, m.selectedCard)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyUp})
	if m.selectedCard != 0 {
		t.Fatalf("expected card 0 selected, got %d", m.selectedCard)
	}
}

func TestModelKeyboardDragDrop(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'g', Text: "g"})
	if !svc.DragActive() || svc.ActiveCardID() != "c1" {
		t.Fatalf("expected c1 dragging, active=%v id=%q", svc.DragActive(), svc.ActiveCardID())
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'l', Text: "l"})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if svc.DragActive() {
		t.Fatal("expected drag finished after drop")
	}

	columns := svc.Columns()
	if len(columns[0].Cards) != 1 || len(columns[1].Cards) != 2 {
		t.Fatalf("expected transfer into done, got %d/%d cards", len(columns[0].Cards), len(columns[1].Cards))
	}
	if columns[1].Cards[0].ID != "c1" {
		t.Fatalf("expected c1 first in done, got %q", columns[1].Cards[0].ID)
	}
}

func TestModelKeyboardDragCancel(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'g', Text: "g"})
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if svc.DragActive() {
		t.Fatal("expected drag cancelled")
	}
	if got := len(svc.Columns()[0].Cards); got != 2 {
		t.Fatalf("expected board restored, got %d cards in todo", got)
	}
}

func TestModelMouseClickAndDrag(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	// column boxes are 24+4 cells wide; first card row starts below the
	// border, header, and spacer lines.
	firstCardY := m.boardTop() + 3
	m = applyMsg(t, m, tea.MouseClickMsg{X: 2, Y: firstCardY, Button: tea.MouseLeft})
	if m.selectedColumn != 0 || m.selectedCard != 0 {
		t.Fatalf("expected card c1 selected, got column %d card %d", m.selectedColumn, m.selectedCard)
	}

	m = applyMsg(t, m, tea.MouseMotionMsg{X: 30, Y: firstCardY})
	if !svc.DragActive() {
		t.Fatal("expected motion past the threshold to start a drag")
	}
	if m.hoverTarget != "done" {
		t.Fatalf("expected hover over done, got %q", m.hoverTarget)
	}

	m = applyMsg(t, m, tea.MouseReleaseMsg{X: 30, Y: firstCardY, Button: tea.MouseLeft})
	if svc.DragActive() {
		t.Fatal("expected drop to finish the drag")
	}
	if got := len(svc.Columns()[1].Cards); got != 2 {
		t.Fatalf("expected c1 transferred into done, got %d cards", got)
	}
}

func TestModelMouseClickWithoutTravelActivatesCard(t *testing.T) {
	var clicked []string
	svc := newTestService(defaultColumns(), app.ServiceConfig{
		Hooks: app.Hooks{
			OnCardClick: func(card board.Card) { clicked = append(clicked, card.ID) },
		},
	})
	m := loadReadyModel(t, NewModel(svc))

	firstCardY := m.boardTop() + 3
	m = applyMsg(t, m, tea.MouseClickMsg{X: 2, Y: firstCardY, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseMotionMsg{X: 3, Y: firstCardY})
	if svc.DragActive() {
		t.Fatal("expected sub-threshold travel to stay a click")
	}
	_ = applyMsg(t, m, tea.MouseReleaseMsg{X: 3, Y: firstCardY, Button: tea.MouseLeft})
	if len(clicked) != 1 || clicked[0] != "c1" {
		t.Fatalf("expected one click activation for c1, got %v", clicked)
	}
}

func TestModelMouseReleaseOutsideCancels(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	firstCardY := m.boardTop() + 3
	m = applyMsg(t, m, tea.MouseClickMsg{X: 2, Y: firstCardY, Button: tea.MouseLeft})
	m = applyMsg(t, m, tea.MouseMotionMsg{X: 30, Y: firstCardY})
	if !svc.DragActive() {
		t.Fatal("expected drag active")
	}
	_ = applyMsg(t, m, tea.MouseReleaseMsg{X: 110, Y: 39, Button: tea.MouseLeft})
	if svc.DragActive() {
		t.Fatal("expected release outside the board to end the drag")
	}
	if got := len(svc.Columns()[0].Cards); got != 2 {
		t.Fatalf("expected board restored after cancel, got %d cards in todo", got)
	}
}

func TestModelQuickAdd(t *testing.T) {
	var added []string
	svc := newTestService(defaultColumns(), app.ServiceConfig{
		Hooks: app.Hooks{
			OnQuickAdd: func(columnID, title string) {
				added = append(added, columnID+":"+title)
			},
		},
	})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'n', Text: "n"})
	if m.mode != modeQuickAdd || m.quickAddColumn != "todo" {
		t.Fatalf("expected quick add mode for todo, got mode=%d column=%q", m.mode, m.quickAddColumn)
	}
	m = typeText(t, m, "Ship it")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeNone {
		t.Fatal("expected quick add mode exited")
	}
	if len(added) != 1 || added[0] != "todo:Ship it" {
		t.Fatalf("expected one quick-add notification, got %v", added)
	}
	cards := svc.Columns()[0].Cards
	if cards[len(cards)-1].Title != "Ship it" {
		t.Fatalf("expected new card appended, got %q", cards[len(cards)-1].Title)
	}
}

func TestModelQuickAddEmptyTitleCancels(t *testing.T) {
	var added []string
	svc := newTestService(defaultColumns(), app.ServiceConfig{
		Hooks: app.Hooks{
			OnQuickAdd: func(columnID, title string) { added = append(added, title) },
		},
	})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'n', Text: "n"})
	m = typeText(t, m, "   ")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if len(added) != 0 {
		t.Fatalf("expected no notification for blank title, got %v", added)
	}
	if got := len(svc.Columns()[0].Cards); got != 2 {
		t.Fatalf("expected no card added, got %d", got)
	}
}

func TestModelToggleColumnKeepsCards(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'c', Text: "c"})
	columns := svc.Columns()
	if !columns[0].Collapsed {
		t.Fatal("expected todo collapsed")
	}
	if len(columns[0].Cards) != 2 {
		t.Fatalf("expected cards retained while collapsed, got %d", len(columns[0].Cards))
	}
	_ = applyMsg(t, m, tea.KeyPressMsg{Code: 'c', Text: "c"})
	if svc.Columns()[0].Collapsed {
		t.Fatal("expected todo expanded again")
	}
}

func TestModelColumnResizeKeys(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: '>', Text: ">"})
	if got := svc.Layout().ColumnWidth("todo"); got != 28 {
		t.Fatalf("expected width 28 after widen, got %d", got)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: '<', Text: "<"})
	if got := svc.Layout().ColumnWidth("todo"); got != 24 {
		t.Fatalf("expected width 24 after narrow, got %d", got)
	}
	_ = applyMsg(t, m, tea.KeyPressMsg{Code: '0', Text: "0"})
	if got := svc.Layout().ColumnWidth("todo"); got != 24 {
		t.Fatalf("expected default width after reset, got %d", got)
	}
}

func TestModelLaneView(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{GroupField: "assignee"})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 's', Text: "s"})
	if !m.laneView {
		t.Fatal("expected lane view enabled")
	}
	content := viewContent(m.View())
	if !strings.Contains(content, "ada") || !strings.Contains(content, "lin") {
		t.Fatalf("expected lane headers in view, got:\n%s", content)
	}

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'x', Text: "x"})
	if !svc.Layout().LaneCollapsed("ada") {
		t.Fatal("expected first lane collapsed")
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.selectedLane != 1 {
		t.Fatalf("expected lane 1 selected, got %d", m.selectedLane)
	}
	_ = applyMsg(t, m, tea.KeyPressMsg{Code: 's', Text: "s"})
}

func TestModelLaneViewRequiresGrouping(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: 's', Text: "s"})
	if m.laneView {
		t.Fatal("expected lane view unavailable without a group field")
	}
}

func TestModelCardInfoPanel(t *testing.T) {
	columns := defaultColumns()
	columns[0].Cards[0].Description = "# Detail\n\nbody"
	svc := newTestService(columns, app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.KeyPressMsg{Code: 'i', Text: "i"})
	if m.mode != modeCardInfo {
		t.Fatal("expected card info mode")
	}
	content := viewContent(m.View())
	if !strings.Contains(content, "Detail") {
		t.Fatalf("expected rendered description in view, got:\n%s", content)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatal("expected info panel dismissed")
	}
}

func TestModelMouseWheelScrollsColumn(t *testing.T) {
	todo, _ := board.NewColumn("todo", "To Do", 0)
	for i := 0; i < 20; i++ {
		todo.Cards = append(todo.Cards, testCard(fmt.Sprintf("c%d", i), fmt.Sprintf("Card %d", i), nil))
	}
	svc := newTestService([]board.Column{todo}, app.ServiceConfig{VirtualizeThreshold: 10})
	m := loadReadyModel(t, NewModel(svc))

	m = applyMsg(t, m, tea.MouseWheelMsg{X: 2, Y: 6, Button: tea.MouseWheelDown})
	if m.colScroll["todo"] != 1 {
		t.Fatalf("expected scroll 1, got %d", m.colScroll["todo"])
	}
	m = applyMsg(t, m, tea.MouseWheelMsg{X: 2, Y: 6, Button: tea.MouseWheelUp})
	m = applyMsg(t, m, tea.MouseWheelMsg{X: 2, Y: 6, Button: tea.MouseWheelUp})
	if m.colScroll["todo"] != 0 {
		t.Fatalf("expected scroll clamped at 0, got %d", m.colScroll["todo"])
	}
}

func TestModelConditionalStyling(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{
		FormatRules: []board.FormatRule{
			{Field: "assignee", Operator: board.OpEquals, Value: "ada", BackgroundColor: "52"},
		},
	})
	m := loadReadyModel(t, NewModel(svc))
	if style := svc.StyleFor(svc.Columns()[0].Cards[0]); style.BackgroundColor != "52" {
		t.Fatalf("expected matched rule style, got %+v", style)
	}
	content := viewContent(m.View())
	if !strings.Contains(content, "One") {
		t.Fatalf("expected styled card still rendered, got:\n%s", content)
	}
}

func TestModelQuitKey(t *testing.T) {
	svc := newTestService(nil, app.ServiceConfig{})
	m := NewModel(svc)
	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if updated == nil {
		t.Fatal("expected model return value")
	}
	if cmd == nil {
		t.Fatal("expected quit cmd")
	}
}

func TestModelViewStates(t *testing.T) {
	svc := newTestService(nil, app.ServiceConfig{})
	m := NewModel(svc)
	v := m.View()
	if v.Content == nil || v.MouseMode != tea.MouseModeCellMotion {
		t.Fatal("expected loading view with mouse enabled")
	}
	m.err = fmt.Errorf("boom")
	if !strings.Contains(viewContent(m.View()), "boom") {
		t.Fatal("expected error view content")
	}
}

func TestHitTestGeometry(t *testing.T) {
	svc := newTestService(defaultColumns(), app.ServiceConfig{})
	m := loadReadyModel(t, NewModel(svc))

	if idx, ok := m.columnAt(2); !ok || idx != 0 {
		t.Fatalf("expected column 0 at x=2, got %d ok=%v", idx, ok)
	}
	if idx, ok := m.columnAt(30); !ok || idx != 1 {
		t.Fatalf("expected column 1 at x=30, got %d ok=%v", idx, ok)
	}
	if _, ok := m.columnAt(200); ok {
		t.Fatal("expected miss beyond the last column")
	}

	firstCardY := m.boardTop() + 3
	if idx, ok := m.cardAt(0, firstCardY); !ok || idx != 0 {
		t.Fatalf("expected card 0, got %d ok=%v", idx, ok)
	}
	if idx, ok := m.cardAt(0, firstCardY+cardRowHeight); !ok || idx != 1 {
		t.Fatalf("expected card 1, got %d ok=%v", idx, ok)
	}
	if _, ok := m.cardAt(0, firstCardY+5*cardRowHeight); ok {
		t.Fatal("expected miss past the last card")
	}

	if target, ok := m.dropTargetAt(30, firstCardY); !ok || target != "c3" {
		t.Fatalf("expected drop target c3, got %q ok=%v", target, ok)
	}
	if target, ok := m.dropTargetAt(30, 38); !ok || target != "done" {
		t.Fatalf("expected column drop target done, got %q ok=%v", target, ok)
	}
}

func TestHelpers(t *testing.T) {
	if got := truncate("hello world", 5); got != "hell…" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncate("hi", 5); got != "hi" {
		t.Fatalf("expected no truncation, got %q", got)
	}
	if got := clamp(7, 0, 5); got != 5 {
		t.Fatalf("expected clamp to 5, got %d", got)
	}
	if got := fitLines("a\nb\nc", 2); got != "a\n…" {
		t.Fatalf("unexpected fitLines %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Fatalf("unexpected padding %q", got)
	}
}
