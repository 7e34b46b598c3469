package board

import (
	"fmt"
	"strings"
)

// Operator represents a selectable comparison operator for format rules.
type Operator string

const (
	OpEquals    Operator = "equals"
	OpNotEquals Operator = "not_equals"
	OpContains  Operator = "contains"
	OpIn        Operator = "in"
)

// FormatRule maps a field comparison to style overrides.
type FormatRule struct {
	Field           string
	Operator        Operator
	Value           any
	BackgroundColor string
	BorderColor     string
}

// StyleOverride carries the colors a matched rule applies to a card.
type StyleOverride struct {
	BackgroundColor string
	BorderColor     string
}

// IsZero reports whether no rule matched.
func (s StyleOverride) IsZero() bool {
	return s.BackgroundColor == "" && s.BorderColor == ""
}

// Evaluate runs rules in list order against a card and returns the overrides
// of the first matching rule. Rules whose field is missing or null on the
// card are skipped. Missing fields never cause an error.
func Evaluate(card Card, rules []FormatRule) StyleOverride {
	for _, rule := range rules {
		value, ok := card.Field(rule.Field)
		if !ok {
			continue
		}
		if ruleMatches(value, rule) {
			return StyleOverride{
				BackgroundColor: rule.BackgroundColor,
				BorderColor:     rule.BorderColor,
			}
		}
	}
	return StyleOverride{}
}

// ruleMatches coerces both sides to string before comparing, except for the
// in operator which requires the rule value to be a list and tests
// membership of the stringified card value.
func ruleMatches(cardValue any, rule FormatRule) bool {
	got := fmt.Sprint(cardValue)
	switch rule.Operator {
	case OpEquals:
		return got == fmt.Sprint(rule.Value)
	case OpNotEquals:
		return got != fmt.Sprint(rule.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(got), strings.ToLower(fmt.Sprint(rule.Value)))
	case OpIn:
		for _, candidate := range ruleValueList(rule.Value) {
			if got == candidate {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func ruleValueList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}
