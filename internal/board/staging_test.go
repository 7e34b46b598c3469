package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStagingSeedIsACopy(t *testing.T) {
	external := []Card{{ID: "c1"}, {ID: "c2"}}
	s := NewQuickAddStaging(external)

	external[0].ID = "mutated"
	assert.Equal(t, "c1", s.Cards()[0].ID)
}

func TestStagingSyncReplacesWholesale(t *testing.T) {
	s := NewQuickAddStaging([]Card{{ID: "c1"}})
	s.OnReorder(0, 0)

	s.Sync([]Card{{ID: "x1"}, {ID: "x2"}})
	assert.Equal(t, []string{"x1", "x2"}, cardIDs(s.Cards()))
}

func TestStagingSuppressesSyncDuringDrag(t *testing.T) {
	s := NewQuickAddStaging([]Card{{ID: "c1"}, {ID: "c2"}})

	s.StartDrag()
	assert.True(t, s.Dragging())
	s.Sync([]Card{{ID: "x1"}})
	assert.Equal(t, []string{"c1", "c2"}, cardIDs(s.Cards()), "external change ignored mid-drag")

	s.EndDrag()
	assert.False(t, s.Dragging())
	s.Sync([]Card{{ID: "x1"}})
	assert.Equal(t, []string{"x1"}, cardIDs(s.Cards()), "resync resumes after the drag")
}

func TestStagingReorder(t *testing.T) {
	s := NewQuickAddStaging([]Card{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}})
	s.OnReorder(2, 0)
	assert.Equal(t, []string{"c3", "c1", "c2"}, cardIDs(s.Cards()))

	s.OnReorder(-4, 9)
	assert.Equal(t, []string{"c1", "c2", "c3"}, cardIDs(s.Cards()))
}
