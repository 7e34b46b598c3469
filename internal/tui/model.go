package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/hylla/tavle/internal/app"
	"github.com/hylla/tavle/internal/board"
)

// Service represents the board engine surface this view drives.
type Service interface {
	Columns() []board.Column
	Reload(context.Context) error
	StartDrag(string) error
	MoveOver(string) (string, bool)
	Drop(string) app.DropOutcome
	CancelDrag()
	DragActive() bool
	ActiveCardID() string
	ToggleColumn(string) (bool, error)
	QuickAdd(string, string) (board.Card, bool)
	BeginQuickAdd(string)
	EndQuickAdd()
	StageReorder(int, int)
	StagedCards() []board.Card
	CardClick(string)
	StyleFor(board.Card) board.StyleOverride
	StrategyFor(board.Column) board.Strategy
	Grouper() board.Grouper
	Lanes() []string
	Layout() *app.LayoutPreferences
}

// inputMode selects which overlay owns key input.
type inputMode int

const (
	modeNone inputMode = iota
	modeQuickAdd
	modeCardInfo
)

// cardRowHeight is the fixed number of rendered lines per card. Mouse hit
// testing depends on it.
const cardRowHeight = 3

// collapsedColumnWidth is the inner width of a collapsed column box.
const collapsedColumnWidth = 1

// dragActivationCells is the minimum pointer travel before a press becomes
// a drag instead of a click.
const dragActivationCells = 2

// widthStep is the column resize increment for the keyboard bindings.
const widthStep = 4

// loadedMsg reports a completed external reload.
type loadedMsg struct {
	err error
}

// Model is the bubbletea model for the board view.
type Model struct {
	svc Service

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	cardFields CardFieldConfig

	selectedColumn int
	selectedCard   int

	laneView     bool
	selectedLane int

	mode           inputMode
	quickAddInput  textinput.Model
	quickAddColumn string

	// keyboard drag target; targetCard == len(cards) means end of column.
	keyboardDrag bool
	targetColumn int
	targetCard   int

	// mouse press tracking for the click-vs-drag activation threshold.
	pressActive bool
	pressX      int
	pressY      int
	pressCardID string

	hoverTarget string

	colScroll map[string]int

	markdown   markdownRenderer
	infoCardID string
}

// NewModel builds the board view over the given engine.
func NewModel(svc Service, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	quickAddInput := textinput.New()
	quickAddInput.Prompt = "> "
	quickAddInput.Placeholder = "card title"
	quickAddInput.CharLimit = 120
	m := Model{
		svc:           svc,
		status:        "loading...",
		help:          h,
		keys:          newKeyMap(),
		cardFields:    DefaultCardFieldConfig(),
		quickAddInput: quickAddInput,
		colScroll:     map[string]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init kicks off the initial board load.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// loadData reloads the board from its external source.
func (m Model) loadData() tea.Msg {
	return loadedMsg{err: m.svc.Reload(context.Background())}
}

// Update routes incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = "ready"
		m.clampSelections()
		return m, nil

	case tea.KeyPressMsg:
		if m.mode == modeQuickAdd {
			return m.handleQuickAddKey(msg)
		}
		if m.mode == modeCardInfo {
			m.mode = modeNone
			m.infoCardID = ""
			return m, nil
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	case tea.MouseMotionMsg:
		return m.handleMouseMotion(msg)

	case tea.MouseReleaseMsg:
		return m.handleMouseRelease(msg)

	default:
		return m, nil
	}
}

// handleNormalModeKey handles navigation and board actions.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	columns := m.svc.Columns()

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case msg.String() == "esc":
		if m.svc.DragActive() {
			m.svc.CancelDrag()
			m.keyboardDrag = false
			m.hoverTarget = ""
			m.status = "drag cancelled"
		}
		return m, nil

	case key.Matches(msg, m.keys.reload):
		m.status = "reloading..."
		return m, m.loadData

	case key.Matches(msg, m.keys.moveLeft):
		if m.keyboardDrag {
			return m.moveKeyboardTarget(-1, 0), nil
		}
		if m.selectedColumn > 0 {
			m.selectedColumn--
			m.selectedCard = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.moveRight):
		if m.keyboardDrag {
			return m.moveKeyboardTarget(1, 0), nil
		}
		if m.selectedColumn < len(columns)-1 {
			m.selectedColumn++
			m.selectedCard = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.moveDown):
		if m.keyboardDrag {
			return m.moveKeyboardTarget(0, 1), nil
		}
		if m.laneView && m.groupingActive() {
			lanes := m.svc.Lanes()
			if m.selectedLane < len(lanes)-1 {
				m.selectedLane++
			}
			return m, nil
		}
		if cards := m.currentColumnCards(); m.selectedCard < len(cards)-1 {
			m.selectedCard++
		}
		return m, nil

	case key.Matches(msg, m.keys.moveUp):
		if m.keyboardDrag {
			return m.moveKeyboardTarget(0, -1), nil
		}
		if m.laneView && m.groupingActive() {
			if m.selectedLane > 0 {
				m.selectedLane--
			}
			return m, nil
		}
		if m.selectedCard > 0 {
			m.selectedCard--
		}
		return m, nil

	case key.Matches(msg, m.keys.grabCard):
		card, ok := m.selectedCardInColumn()
		if !ok {
			m.status = "no card selected"
			return m, nil
		}
		if err := m.svc.StartDrag(card.ID); err != nil {
			m.status = "cannot grab: " + err.Error()
			return m, nil
		}
		m.keyboardDrag = true
		m.targetColumn = m.selectedColumn
		m.targetCard = m.selectedCard
		m.status = fmt.Sprintf("dragging %q", truncate(card.Title, 28))
		return m, nil

	case key.Matches(msg, m.keys.dropCard):
		if !m.keyboardDrag {
			return m, nil
		}
		target := m.keyboardDropTarget()
		outcome := m.svc.Drop(target)
		m.keyboardDrag = false
		m.hoverTarget = ""
		m.status = dropStatus(outcome)
		m.clampSelections()
		return m, nil

	case key.Matches(msg, m.keys.quickAdd):
		if len(columns) == 0 {
			return m, nil
		}
		col := columns[clamp(m.selectedColumn, 0, len(columns)-1)]
		m.mode = modeQuickAdd
		m.quickAddColumn = col.ID
		m.quickAddInput.SetValue("")
		m.svc.BeginQuickAdd(col.ID)
		return m, m.quickAddInput.Focus()

	case key.Matches(msg, m.keys.cardInfo):
		card, ok := m.selectedCardInColumn()
		if !ok {
			return m, nil
		}
		m.mode = modeCardInfo
		m.infoCardID = card.ID
		m.svc.CardClick(card.ID)
		return m, nil

	case key.Matches(msg, m.keys.toggleColumn):
		col, ok := m.currentColumn()
		if !ok {
			return m, nil
		}
		collapsed, err := m.svc.ToggleColumn(col.ID)
		if err != nil {
			return m, nil
		}
		if collapsed {
			m.status = fmt.Sprintf("collapsed %q", col.Title)
		} else {
			m.status = fmt.Sprintf("expanded %q", col.Title)
		}
		return m, nil

	case key.Matches(msg, m.keys.laneView):
		if !m.groupingActive() {
			m.status = "swimlane grouping is not configured"
			return m, nil
		}
		m.laneView = !m.laneView
		m.selectedLane = 0
		return m, nil

	case key.Matches(msg, m.keys.toggleLane):
		if !m.laneView || !m.groupingActive() {
			return m, nil
		}
		lanes := m.svc.Lanes()
		if len(lanes) == 0 {
			return m, nil
		}
		lane := lanes[clamp(m.selectedLane, 0, len(lanes)-1)]
		if m.svc.Layout().ToggleLane(lane) {
			m.status = fmt.Sprintf("collapsed lane %q", lane)
		} else {
			m.status = fmt.Sprintf("expanded lane %q", lane)
		}
		return m, nil

	case key.Matches(msg, m.keys.widen):
		return m.resizeCurrentColumn(widthStep), nil

	case key.Matches(msg, m.keys.narrow):
		return m.resizeCurrentColumn(-widthStep), nil

	case key.Matches(msg, m.keys.resetWidths):
		m.svc.Layout().ResetWidths()
		m.status = "column widths reset"
		return m, nil
	}
	return m, nil
}

// handleQuickAddKey handles the inline creation input.
func (m Model) handleQuickAddKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.commitQuickAdd(), nil
	case "esc":
		m.mode = modeNone
		m.quickAddInput.Blur()
		m.svc.EndQuickAdd()
		m.status = "quick add cancelled"
		return m, nil
	case "ctrl+down":
		m.svc.StageReorder(m.selectedCard, m.selectedCard+1)
		return m, nil
	case "ctrl+up":
		m.svc.StageReorder(m.selectedCard, m.selectedCard-1)
		return m, nil
	}
	var cmd tea.Cmd
	m.quickAddInput, cmd = m.quickAddInput.Update(msg)
	return m, cmd
}

// commitQuickAdd finishes inline creation. Empty titles invoke nothing.
func (m Model) commitQuickAdd() Model {
	title := m.quickAddInput.Value()
	m.mode = modeNone
	m.quickAddInput.Blur()
	if card, ok := m.svc.QuickAdd(m.quickAddColumn, title); ok {
		m.status = fmt.Sprintf("added %q", truncate(card.Title, 28))
	} else {
		m.status = "quick add cancelled"
	}
	m.svc.EndQuickAdd()
	m.quickAddColumn = ""
	return m
}

// handleMouseWheel scrolls the column under the pointer.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.laneView {
		return m, nil
	}
	colIdx, ok := m.columnAt(msg.X)
	if !ok {
		return m, nil
	}
	columns := m.svc.Columns()
	col := columns[colIdx]
	scroll := m.colScroll[col.ID]
	switch msg.Button {
	case tea.MouseWheelUp:
		scroll--
	case tea.MouseWheelDown:
		scroll++
	}
	m.colScroll[col.ID] = clamp(scroll, 0, max(0, len(col.Cards)-1))
	return m, nil
}

// handleMouseClick records the press; whether it becomes a click or a drag
// is decided by pointer travel.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if msg.Button != tea.MouseLeft || m.laneView {
		return m, nil
	}
	if m.mode == modeQuickAdd {
		// Clicking away commits, mirroring commit-on-blur.
		return m.commitQuickAdd(), nil
	}
	if m.mode == modeCardInfo {
		m.mode = modeNone
		m.infoCardID = ""
		return m, nil
	}

	colIdx, ok := m.columnAt(msg.X)
	if !ok {
		return m, nil
	}
	m.selectedColumn = colIdx
	if cardIdx, found := m.cardAt(colIdx, msg.Y); found {
		m.selectedCard = cardIdx
		cards := m.svc.Columns()[colIdx].Cards
		m.pressActive = true
		m.pressX = msg.X
		m.pressY = msg.Y
		m.pressCardID = cards[cardIdx].ID
	}
	m.clampSelections()
	return m, nil
}

// handleMouseMotion turns a pressed pointer into a drag once it travels past
// the activation threshold, then tracks the hover target.
func (m Model) handleMouseMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	if m.pressActive && !m.svc.DragActive() {
		if abs(msg.X-m.pressX)+abs(msg.Y-m.pressY) >= dragActivationCells {
			if err := m.svc.StartDrag(m.pressCardID); err == nil {
				m.status = "dragging"
			}
		}
	}
	if m.svc.DragActive() {
		target, _ := m.dropTargetAt(msg.X, msg.Y)
		if columnID, ok := m.svc.MoveOver(target); ok {
			m.hoverTarget = columnID
		} else {
			m.hoverTarget = ""
		}
	}
	return m, nil
}

// handleMouseRelease resolves the gesture: a sub-threshold press is a card
// activation, anything else drops on whatever is under the pointer.
func (m Model) handleMouseRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	if !m.pressActive {
		return m, nil
	}
	m.pressActive = false
	m.hoverTarget = ""

	if !m.svc.DragActive() {
		m.svc.CardClick(m.pressCardID)
		m.pressCardID = ""
		return m, nil
	}

	target, _ := m.dropTargetAt(msg.X, msg.Y)
	outcome := m.svc.Drop(target)
	m.status = dropStatus(outcome)
	m.pressCardID = ""
	m.clampSelections()
	return m, nil
}

// moveKeyboardTarget shifts the keyboard drop target.
func (m Model) moveKeyboardTarget(dx, dy int) Model {
	columns := m.svc.Columns()
	if len(columns) == 0 {
		return m
	}
	m.targetColumn = clamp(m.targetColumn+dx, 0, len(columns)-1)
	cards := columns[m.targetColumn].Cards
	m.targetCard = clamp(m.targetCard+dy, 0, len(cards))
	return m
}

// keyboardDropTarget maps the keyboard target onto a card or column id.
func (m Model) keyboardDropTarget() string {
	columns := m.svc.Columns()
	if len(columns) == 0 {
		return ""
	}
	col := columns[clamp(m.targetColumn, 0, len(columns)-1)]
	if m.targetCard >= len(col.Cards) {
		return col.ID
	}
	return col.Cards[m.targetCard].ID
}

// dropTargetAt resolves screen coordinates to a card id, a column id, or ""
// when the pointer is outside every recognized zone.
func (m Model) dropTargetAt(x, y int) (string, bool) {
	colIdx, ok := m.columnAt(x)
	if !ok {
		return "", false
	}
	col := m.svc.Columns()[colIdx]
	if cardIdx, found := m.cardAt(colIdx, y); found {
		return col.Cards[cardIdx].ID, true
	}
	return col.ID, true
}

// columnAt maps a screen x onto a column index.
func (m Model) columnAt(x int) (int, bool) {
	columns := m.svc.Columns()
	x0 := 0
	for idx, col := range columns {
		total := m.columnOuterWidth(col)
		if x >= x0 && x < x0+total {
			return idx, true
		}
		x0 += total
	}
	return 0, false
}

// cardAt maps a screen y onto a card index inside the column, accounting for
// the rendering window.
func (m Model) cardAt(colIdx int, y int) (int, bool) {
	columns := m.svc.Columns()
	col := columns[colIdx]
	if col.Collapsed || len(col.Cards) == 0 {
		return 0, false
	}
	// border top + header line + blank line precede the first card row.
	rel := y - m.boardTop() - 3
	if rel < 0 {
		return 0, false
	}
	idx := rel / cardRowHeight
	start, end := m.windowFor(col)
	idx += start
	if idx >= end || idx >= len(col.Cards) {
		return 0, false
	}
	return idx, true
}

// windowFor returns the materialized card range for a column.
func (m Model) windowFor(col board.Column) (int, int) {
	strategy := m.svc.StrategyFor(col)
	scroll := clamp(m.colScroll[col.ID], 0, max(0, len(col.Cards)-1))
	return strategy.Window(len(col.Cards), scroll, m.boardBodyLines())
}

// boardTop returns the number of lines above the column boxes.
func (m Model) boardTop() int {
	return 2
}

// boardBodyLines returns the card-area height inside a column box.
func (m Model) boardBodyLines() int {
	// borders, header and blank line, status/help area.
	return max(cardRowHeight, m.height-m.boardTop()-8)
}

// columnOuterWidth returns the full rendered width of a column box.
func (m Model) columnOuterWidth(col board.Column) int {
	if col.Collapsed {
		return collapsedColumnWidth + 4
	}
	return m.svc.Layout().ColumnWidth(col.ID) + 4
}

// resizeCurrentColumn adjusts the selected column's width override.
func (m Model) resizeCurrentColumn(delta int) Model {
	col, ok := m.currentColumn()
	if !ok {
		return m
	}
	layout := m.svc.Layout()
	width := layout.SetColumnWidth(col.ID, layout.ColumnWidth(col.ID)+delta)
	m.status = fmt.Sprintf("column %q width %d", col.Title, width)
	return m
}

// currentColumn returns the selected column.
func (m Model) currentColumn() (board.Column, bool) {
	columns := m.svc.Columns()
	if len(columns) == 0 {
		return board.Column{}, false
	}
	return columns[clamp(m.selectedColumn, 0, len(columns)-1)], true
}

// currentColumnCards returns the selected column's cards.
func (m Model) currentColumnCards() []board.Card {
	col, ok := m.currentColumn()
	if !ok {
		return nil
	}
	return col.Cards
}

// selectedCardInColumn returns the selected card.
func (m Model) selectedCardInColumn() (board.Card, bool) {
	cards := m.currentColumnCards()
	if len(cards) == 0 {
		return board.Card{}, false
	}
	return cards[clamp(m.selectedCard, 0, len(cards)-1)], true
}

// groupingActive reports whether swimlane grouping is configured.
func (m Model) groupingActive() bool {
	return m.svc.Grouper().Enabled()
}

// clampSelections keeps the cursor inside the current board.
func (m *Model) clampSelections() {
	columns := m.svc.Columns()
	if len(columns) == 0 {
		m.selectedColumn = 0
		m.selectedCard = 0
		return
	}
	m.selectedColumn = clamp(m.selectedColumn, 0, len(columns)-1)
	cards := columns[m.selectedColumn].Cards
	if len(cards) == 0 {
		m.selectedCard = 0
		return
	}
	m.selectedCard = clamp(m.selectedCard, 0, len(cards)-1)
}

// View renders the full frame.
func (m Model) View() tea.View {
	if m.err != nil {
		v := tea.NewView("error: " + m.err.Error() + "\n\npress r to retry • q quit\n")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}
	if !m.ready {
		v := tea.NewView("loading...")
		v.MouseMode = tea.MouseModeCellMotion
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("tavle")
	if m.svc.DragActive() {
		header += statusStyle.Render("  • dragging " + m.svc.ActiveCardID())
	}

	var body string
	if m.laneView && m.groupingActive() {
		body = m.renderLanes(accent, muted, dim)
	} else {
		body = m.renderBoard(accent, muted, dim)
	}

	sections := []string{header, "", body}
	if m.mode == modeQuickAdd {
		sections = append(sections, m.renderQuickAdd(muted))
	}
	if m.mode == modeCardInfo {
		sections = append(sections, m.renderCardInfo(muted))
	}
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}

	v := tea.NewView(content + "\n" + helpLine)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderBoard renders the plain column view.
func (m Model) renderBoard(accent, muted, dim color.Color) string {
	columns := m.svc.Columns()
	if len(columns) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("no columns configured • n to add cards once columns exist")
	}

	columnViews := make([]string, 0, len(columns))
	for colIdx, col := range columns {
		columnViews = append(columnViews, m.renderColumn(colIdx, col, col.Cards, accent, muted, dim))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columnViews...)
}

// renderColumn renders one column box with the given cards.
func (m Model) renderColumn(colIdx int, col board.Column, cards []board.Card, accent, muted, dim color.Color) string {
	colWidth := m.svc.Layout().ColumnWidth(col.ID)
	warningStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	headerStyle := lipgloss.NewStyle().Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(muted)

	borderColor := dim
	if colIdx == m.selectedColumn {
		borderColor = accent
	}
	if m.hoverTarget == col.ID || (m.keyboardDrag && colIdx == m.targetColumn) {
		borderColor = lipgloss.Color("212")
	}
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	if col.Collapsed {
		content := fmt.Sprintf("%d", len(cards))
		return boxStyle.Width(collapsedColumnWidth + 2).Render(mutedStyle.Render(content))
	}

	header := fmt.Sprintf("%s (%d)", col.Title, len(cards))
	if col.Limit > 0 {
		header = fmt.Sprintf("%s (%d/%d)", col.Title, len(cards), col.Limit)
	}
	lines := []string{headerStyle.Render(truncate(header, colWidth))}
	if col.OverLimit() {
		lines = append(lines, warningStyle.Render(truncate("limit exceeded", colWidth)))
	} else {
		lines = append(lines, "")
	}

	if m.mode == modeQuickAdd && m.quickAddColumn == col.ID {
		if staged := m.svc.StagedCards(); staged != nil {
			cards = staged
		}
	}

	if len(cards) == 0 {
		lines = append(lines, mutedStyle.Render("(empty)"))
	} else {
		start, end := m.windowFor(col)
		for cardIdx := start; cardIdx < end; cardIdx++ {
			lines = append(lines, m.renderCard(colIdx, cardIdx, cards[cardIdx], colWidth, muted)...)
		}
		if end < len(cards) {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("… %d more", len(cards)-end)))
		}
	}

	bodyLines := m.boardBodyLines() + 2
	content := fitLines(strings.Join(lines, "\n"), bodyLines)
	return boxStyle.Width(colWidth + 2).Render(content)
}

// renderCard renders one card as exactly cardRowHeight lines.
func (m Model) renderCard(colIdx, cardIdx int, card board.Card, colWidth int, muted color.Color) []string {
	style := m.svc.StyleFor(card)
	selected := colIdx == m.selectedColumn && cardIdx == m.selectedCard && !m.keyboardDrag
	dragTarget := m.keyboardDrag && colIdx == m.targetColumn && cardIdx == m.targetCard
	dragging := m.svc.ActiveCardID() == card.ID

	prefix := "  "
	switch {
	case dragging:
		prefix = "◆ "
	case dragTarget:
		prefix = "▸ "
	case selected:
		prefix = "│ "
	}

	titleStyle := lipgloss.NewStyle()
	if style.BackgroundColor != "" {
		titleStyle = titleStyle.Background(lipgloss.Color(style.BackgroundColor))
	}
	if style.BorderColor != "" {
		titleStyle = titleStyle.Foreground(lipgloss.Color(style.BorderColor))
	}
	if selected || dragging {
		titleStyle = titleStyle.Bold(true)
	}

	title := prefix + truncate(card.Title, max(1, colWidth-4))
	sub := m.cardSecondary(card)
	if sub != "" {
		sub = prefix + truncate(sub, max(1, colWidth-4))
	}

	mutedStyle := lipgloss.NewStyle().Foreground(muted)
	return []string{
		titleStyle.Render(title),
		mutedStyle.Render(sub),
		"",
	}
}

// cardSecondary builds the second display line for a card.
func (m Model) cardSecondary(card board.Card) string {
	if m.cardFields.ShowBadges && len(card.Badges) > 0 {
		return strings.Join(card.Badges, " • ")
	}
	if m.cardFields.ShowDescription && card.Description != "" {
		if idx := strings.IndexByte(card.Description, '\n'); idx >= 0 {
			return card.Description[:idx]
		}
		return card.Description
	}
	return ""
}

// renderLanes renders the swimlane view: one section per lane spanning all
// columns, collapsed lanes reduced to their header.
func (m Model) renderLanes(accent, muted, dim color.Color) string {
	columns := m.svc.Columns()
	lanes := m.svc.Lanes()
	grouper := m.svc.Grouper()
	layout := m.svc.Layout()

	laneHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(muted)
	selectedLaneStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)

	sections := make([]string, 0, len(lanes)*2)
	for laneIdx, lane := range lanes {
		count := 0
		perColumn := make([][]board.Card, len(columns))
		for colIdx, col := range columns {
			perColumn[colIdx] = grouper.Partition(col)[lane]
			count += len(perColumn[colIdx])
		}

		marker := "▾"
		if layout.LaneCollapsed(lane) {
			marker = "▸"
		}
		headerText := fmt.Sprintf("%s %s (%d)", marker, lane, count)
		if laneIdx == clamp(m.selectedLane, 0, len(lanes)-1) {
			sections = append(sections, selectedLaneStyle.Render(headerText))
		} else {
			sections = append(sections, laneHeaderStyle.Render(headerText))
		}
		if layout.LaneCollapsed(lane) {
			continue
		}

		columnViews := make([]string, 0, len(columns))
		for colIdx, col := range columns {
			laneCol := col
			laneCol.Cards = perColumn[colIdx]
			columnViews = append(columnViews, m.renderColumn(colIdx, laneCol, laneCol.Cards, accent, muted, dim))
		}
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, columnViews...))
	}
	if len(sections) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("no cards")
	}
	return strings.Join(sections, "\n")
}

// renderQuickAdd renders the inline creation input line.
func (m Model) renderQuickAdd(muted color.Color) string {
	label := lipgloss.NewStyle().Foreground(muted).Render("new card in " + m.quickAddColumn + " ")
	return label + m.quickAddInput.View()
}

// renderCardInfo renders the markdown description panel for the open card.
func (m Model) renderCardInfo(muted color.Color) string {
	card, ok := m.cardByID(m.infoCardID)
	if !ok {
		return ""
	}
	body := card.Description
	if body == "" {
		body = "_no description_"
	}
	rendered := m.markdown.render(body, max(24, m.width-8))
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1).
		Render(card.Title + "\n\n" + rendered)
	return panel
}

// cardByID finds a card on the current board.
func (m Model) cardByID(cardID string) (board.Card, bool) {
	for _, col := range m.svc.Columns() {
		for _, card := range col.Cards {
			if card.ID == cardID {
				return card, true
			}
		}
	}
	return board.Card{}, false
}

// dropStatus maps a drop outcome onto a status message.
func dropStatus(outcome app.DropOutcome) string {
	switch outcome {
	case app.DropReordered:
		return "card reordered"
	case app.DropTransferred:
		return "card moved"
	case app.DropRejected:
		return "transfer not allowed from this lane"
	case app.DropCancelled:
		return "drag cancelled"
	default:
		return "ready"
	}
}

// clamp clamps v into [minV, maxV].
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// abs returns the absolute value.
func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// truncate shortens a string to a display width, runewidth-aware.
func truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// fitLines pads or trims content to exactly maxLines lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}
