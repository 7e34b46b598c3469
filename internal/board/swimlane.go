package board

import (
	"fmt"
	"sort"
	"strings"
)

// SentinelLane collects cards whose grouping field is missing or null.
const SentinelLane = "unassigned"

// LaneRule declares which source lanes a destination lane accepts transfers
// from. An empty AcceptFrom list means accept all.
type LaneRule struct {
	AcceptFrom []string
}

// Grouper projects cards into horizontal swimlanes by reading a configured
// field off each card. Lanes are not stored entities; they are recomputed
// from current card data.
type Grouper struct {
	Field string
	Rules map[string]LaneRule
}

// NewGrouper constructs a grouper for the given card field. An empty field
// disables grouping.
func NewGrouper(field string, rules map[string]LaneRule) Grouper {
	return Grouper{Field: strings.TrimSpace(field), Rules: rules}
}

// Enabled reports whether swimlane grouping is active.
func (g Grouper) Enabled() bool {
	return g.Field != ""
}

// LaneOf returns the lane key for a card. Missing or null field values map
// to the sentinel lane.
func (g Grouper) LaneOf(card Card) string {
	if !g.Enabled() {
		return SentinelLane
	}
	v, ok := card.Field(g.Field)
	if !ok {
		return SentinelLane
	}
	key := strings.TrimSpace(fmt.Sprint(v))
	if key == "" {
		return SentinelLane
	}
	return key
}

// Lanes returns the sorted set of distinct lane keys across every column.
func (g Grouper) Lanes(b Board) []string {
	seen := map[string]struct{}{}
	for _, col := range b.Columns {
		for _, card := range col.Cards {
			seen[g.LaneOf(card)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for lane := range seen {
		out = append(out, lane)
	}
	sort.Strings(out)
	return out
}

// Partition splits a column's cards by lane, preserving column order inside
// each lane.
func (g Grouper) Partition(col Column) map[string][]Card {
	out := map[string][]Card{}
	for _, card := range col.Cards {
		lane := g.LaneOf(card)
		out[lane] = append(out[lane], card)
	}
	return out
}

// Authorized reports whether a transfer from one lane into another is
// allowed. A destination lane with no rule or an empty allow-list accepts
// everything. Relocating within the same lane is always allowed.
func (g Grouper) Authorized(fromLane, toLane string) bool {
	if fromLane == toLane {
		return true
	}
	rule, ok := g.Rules[toLane]
	if !ok || len(rule.AcceptFrom) == 0 {
		return true
	}
	for _, accepted := range rule.AcceptFrom {
		if accepted == fromLane {
			return true
		}
	}
	return false
}

// CollapseKey derives the persistence key for the collapsed-lane set from
// the grouping field name.
func (g Grouper) CollapseKey() string {
	return "tavle.lanes.collapsed." + g.Field
}
