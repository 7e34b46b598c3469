package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	moveLeft     key.Binding
	moveRight    key.Binding
	moveUp       key.Binding
	moveDown     key.Binding
	grabCard     key.Binding
	dropCard     key.Binding
	quickAdd     key.Binding
	cardInfo     key.Binding
	toggleColumn key.Binding
	laneView     key.Binding
	toggleLane   key.Binding
	widen        key.Binding
	narrow       key.Binding
	resetWidths  key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:    key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		grabCard:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "grab card")),
		dropCard:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop card")),
		quickAdd:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "quick add")),
		cardInfo:     key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "card info")),
		toggleColumn: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collapse column")),
		laneView:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "swimlane view")),
		toggleLane:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "collapse lane")),
		widen:        key.NewBinding(key.WithKeys(">", "+"), key.WithHelp(">", "widen column")),
		narrow:       key.NewBinding(key.WithKeys("<", "-"), key.WithHelp("<", "narrow column")),
		resetWidths:  key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset widths")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.grabCard, k.dropCard, k.quickAdd, k.cardInfo, k.laneView, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.grabCard, k.dropCard, k.quickAdd, k.cardInfo},
		{k.toggleColumn, k.laneView, k.toggleLane, k.widen, k.narrow, k.resetWidths},
		{k.reload, k.toggleHelp, k.quit},
	}
}
