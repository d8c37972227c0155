package editor

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

// Snapshot is a captured selection. It is consumed by at most one Replace
// and is re-validated against the document at that time.
type Snapshot struct {
	Text   string
	Anchor Anchor
	Owner  Component
}

// Capture reads the current selection of s. It returns
// common.ErrSelectionInvalid when nothing, or only whitespace, is selected.
func Capture(s Surface) (*Snapshot, error) {
	sel, ok := s.Selection()
	if !ok || strings.TrimSpace(sel.Text) == "" {
		return nil, common.ErrSelectionInvalid
	}
	return &Snapshot{Text: sel.Text, Anchor: sel.Anchor, Owner: sel.Owner}, nil
}

// Tracker keeps the most recent non-empty selection, so that UI which
// steals focus does not lose it.
type Tracker struct {
	mu   sync.Mutex
	snap *Snapshot
}

// OnSelectionChange is called on every selection change. An empty selection
// clears the tracker.
func (t *Tracker) OnSelectionChange(s Surface) {
	snap, err := Capture(s)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.snap = nil
		return
	}
	t.snap = snap
}

// Current returns the tracked snapshot or common.ErrSelectionInvalid.
func (t *Tracker) Current() (*Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snap == nil {
		return nil, common.ErrSelectionInvalid
	}
	return t.snap, nil
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	t.snap = nil
	t.mu.Unlock()
}
