package editor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

type fakeComponent struct {
	id       string
	hasField bool
	field    string
	inner    string
	setErr   error
	sets     int
}

func (c *fakeComponent) ID() string { return c.id }

func (c *fakeComponent) ContentField() (string, bool) { return c.field, c.hasField }

func (c *fakeComponent) SetContentField(text string) {
	c.field = text
	c.inner = text
}

func (c *fakeComponent) InnerHTML() string { return c.inner }

func (c *fakeComponent) SetComponents(markup string) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets++
	c.inner = markup
	return nil
}

// fakeNode is a text node of the owner's inner markup.
type fakeNode struct{ attached bool }

type fakeSurface struct {
	sel      Selection
	has      bool
	replaced int
	owner    *fakeComponent
}

func (s *fakeSurface) Selection() (Selection, bool) { return s.sel, s.has }

func (s *fakeSurface) ReplaceRange(a Anchor, text string) error {
	for _, b := range []Boundary{a.Start, a.End} {
		n, ok := b.Node.(*fakeNode)
		if !ok || !n.attached {
			return ErrDetached
		}
	}
	s.replaced++
	s.owner.inner = s.owner.inner[:a.Start.Offset] + text + s.owner.inner[a.End.Offset:]
	return nil
}

func newScenario(inner, needle string) (*fakeSurface, *fakeComponent, *fakeNode) {
	owner := &fakeComponent{id: "c1", inner: inner}
	node := &fakeNode{attached: true}
	start := strings.Index(inner, needle)
	s := &fakeSurface{
		has:   true,
		owner: owner,
		sel: Selection{
			Text:  needle,
			Owner: owner,
			Anchor: Anchor{
				Start: Boundary{Node: node, Offset: start},
				End:   Boundary{Node: node, Offset: start + len(needle)},
			},
		},
	}
	return s, owner, node
}

func TestCapture(t *testing.T) {
	cases := []struct {
		name string
		sel  Selection
		has  bool
		want error
	}{
		{"no selection", Selection{}, false, common.ErrSelectionInvalid},
		{"empty", Selection{Text: ""}, true, common.ErrSelectionInvalid},
		{"whitespace", Selection{Text: " \n\t "}, true, common.ErrSelectionInvalid},
		{"text", Selection{Text: " Hello world"}, true, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			snap, err := Capture(&fakeSurface{sel: tc.sel, has: tc.has})
			if tc.want != nil {
				require.ErrorIs(t, err, tc.want)
				assert.Nil(t, snap)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.sel.Text, snap.Text)
		})
	}
}

func TestReplace_RangeOnUnmodifiedDocument(t *testing.T) {
	s, owner, _ := newScenario("Hello world, Hello world", "Hello world")
	snap, err := Capture(s)
	require.NoError(t, err)

	outcome, err := Replace(s, snap, "Hi there")
	require.NoError(t, err)
	assert.Equal(t, RangeReplace, outcome)
	assert.Equal(t, "Hi there, Hello world", owner.inner)
	assert.Equal(t, 1, s.replaced)
	assert.Equal(t, 1, owner.sets, "owner resynced from markup")
}

func TestReplace_RangeResyncFailureStillSucceeds(t *testing.T) {
	s, owner, _ := newScenario("Hello world", "Hello world")
	owner.setErr = errors.New("boom")
	snap, _ := Capture(s)

	outcome, err := Replace(s, snap, "Hi there")
	require.NoError(t, err)
	assert.Equal(t, RangeReplace, outcome)
	assert.Equal(t, "Hi there", owner.inner)
}

func TestReplace_DetachedFallsBackToField(t *testing.T) {
	s, owner, node := newScenario("Say Hello world now", "Hello world")
	owner.hasField, owner.field = true, "Say Hello world now"
	snap, _ := Capture(s)

	node.attached = false

	outcome, err := Replace(s, snap, "Hi there")
	require.NoError(t, err)
	assert.Equal(t, FieldReplace, outcome)
	assert.Equal(t, "Say Hi there now", owner.field)
	assert.Zero(t, s.replaced)
}

func TestReplace_FieldMissingTextFallsBackToSubstring(t *testing.T) {
	s, owner, node := newScenario("<b>Hello world</b> and Hello world", "Hello world")
	owner.hasField, owner.field = true, "edited since"
	snap, _ := Capture(s)
	node.attached = false

	outcome, err := Replace(s, snap, "Hi there")
	require.NoError(t, err)
	assert.Equal(t, SubstringReplace, outcome)
	assert.Equal(t, "<b>Hi there</b> and Hello world", owner.inner)
	assert.Equal(t, "edited since", owner.field)
}

func TestReplace_SubstringEscapesText(t *testing.T) {
	s, owner, node := newScenario("Tom &amp; Jerry", "Tom &amp; Jerry")
	s.sel.Text = "Tom & Jerry"
	snap, _ := Capture(s)
	node.attached = false

	outcome, err := Replace(s, snap, "Salt & Pepper")
	require.NoError(t, err)
	assert.Equal(t, SubstringReplace, outcome)
	assert.Equal(t, "Salt &amp; Pepper", owner.inner)
}

func TestReplace_UnrecoverableLeavesContent(t *testing.T) {
	s, owner, node := newScenario("Hello world", "Hello world")
	owner.hasField, owner.field = true, "Goodbye"
	snap, _ := Capture(s)

	node.attached = false
	owner.inner = "Goodbye"

	outcome, err := Replace(s, snap, "Hi there")
	require.ErrorIs(t, err, common.ErrReplaceUnrecoverable)
	assert.Equal(t, Unrecoverable, outcome)
	assert.Equal(t, "Goodbye", owner.inner)
	assert.Equal(t, "Goodbye", owner.field)
	assert.Zero(t, owner.sets)
}

func TestReplace_NilSnapshot(t *testing.T) {
	outcome, err := Replace(&fakeSurface{}, nil, "x")
	require.ErrorIs(t, err, common.ErrSelectionInvalid)
	assert.Equal(t, Unrecoverable, outcome)
}

func TestReplace_NoOwnerAndDetached(t *testing.T) {
	s, _, node := newScenario("Hello world", "Hello world")
	s.sel.Owner = nil
	snap, _ := Capture(s)
	node.attached = false

	_, err := Replace(s, snap, "Hi")
	require.ErrorIs(t, err, common.ErrReplaceUnrecoverable)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "range", RangeReplace.String())
	assert.Equal(t, "field", FieldReplace.String())
	assert.Equal(t, "substring", SubstringReplace.String())
	assert.Equal(t, "unrecoverable", Unrecoverable.String())
}

func TestTracker(t *testing.T) {
	var tr Tracker

	_, err := tr.Current()
	require.ErrorIs(t, err, common.ErrSelectionInvalid)

	s, _, _ := newScenario("Hello world", "Hello world")
	tr.OnSelectionChange(s)
	snap, err := tr.Current()
	require.NoError(t, err)
	assert.Equal(t, "Hello world", snap.Text)

	tr.OnSelectionChange(&fakeSurface{has: true, sel: Selection{Text: "  "}})
	_, err = tr.Current()
	require.ErrorIs(t, err, common.ErrSelectionInvalid, "empty selection event clears")

	tr.OnSelectionChange(s)
	tr.Clear()
	_, err = tr.Current()
	require.ErrorIs(t, err, common.ErrSelectionInvalid)
}
