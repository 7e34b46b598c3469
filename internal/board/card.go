package board

import "strings"

// Card represents one unit of work on the board. Beyond the named fields a
// card may carry arbitrary extra fields used by grouping and formatting.
type Card struct {
	ID          string
	Title       string
	Description string
	Badges      []string
	CoverImage  string
	Fields      map[string]any
}

// NewCard constructs a card with a trimmed id and title.
func NewCard(id, title string) (Card, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Card{}, ErrInvalidID
	}
	return Card{ID: id, Title: strings.TrimSpace(title)}, nil
}

// Field resolves a named field on the card. The well-known fields are checked
// first, then the free-form Fields map. A nil stored value reports ok=false so
// callers can treat null and missing the same way.
func (c Card) Field(name string) (any, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "title":
		return c.Title, true
	case "description":
		if c.Description == "" {
			return nil, false
		}
		return c.Description, true
	case "coverImage":
		if c.CoverImage == "" {
			return nil, false
		}
		return c.CoverImage, true
	}
	if c.Fields == nil {
		return nil, false
	}
	v, ok := c.Fields[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.Badges != nil {
		out.Badges = append([]string(nil), c.Badges...)
	}
	if c.Fields != nil {
		out.Fields = make(map[string]any, len(c.Fields))
		for k, v := range c.Fields {
			out.Fields[k] = v
		}
	}
	return out
}
