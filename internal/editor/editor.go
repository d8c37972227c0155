// Package editor captures text selections on a rendering surface and splices
// replacement text back into exactly the captured span.
//
// The surface and its components are black boxes behind the Surface and
// Component interfaces; package surface provides an HTML implementation.
//
// Replacement walks a ladder of strategies, first success wins:
//
//  1. RangeReplace: the surface deletes the anchored range and inserts the
//     new text, then the owner is re-synced from its element's markup.
//  2. FieldReplace: the owner's structured content field gets the first
//     occurrence of the captured text replaced.
//  3. SubstringReplace: the owner's inner HTML gets the first occurrence
//     replaced and is pushed back as the component's content. When the
//     captured text is not unique inside the element this may hit the wrong
//     occurrence, or text that is part of markup.
//
// If every tier fails the document is left untouched and Replace returns
// common.ErrReplaceUnrecoverable.
package editor

import "errors"

// ErrDetached is returned by Surface.ReplaceRange when a node referenced by
// the anchor is no longer part of the document.
var ErrDetached = errors.New("anchor node detached from document")

// Boundary is one end of a range: an opaque node handle owned by the surface
// and a byte offset into that node's text.
type Boundary struct {
	Node   any
	Offset int
}

// Anchor is the structural position of a selection.
type Anchor struct {
	Start Boundary
	End   Boundary
}

// Component is an editable block of the document.
type Component interface {
	ID() string
	// ContentField returns the structured text content, if the component
	// has one.
	ContentField() (string, bool)
	SetContentField(text string)
	InnerHTML() string
	// SetComponents replaces the component's children with markup. Nodes
	// that were children before are detached afterwards.
	SetComponents(markup string) error
}

// Selection is what a surface reports as currently selected.
type Selection struct {
	Anchor Anchor
	Text   string
	Owner  Component
}

// Surface is the rendered document.
type Surface interface {
	// Selection returns the current selection, false when there is none.
	Selection() (Selection, bool)
	// ReplaceRange deletes the contents of a and inserts text as a single
	// text node. It must not mutate anything when it returns an error.
	ReplaceRange(a Anchor, text string) error
}

// Outcome reports which tier performed a replacement.
type Outcome int

const (
	Unrecoverable Outcome = iota
	RangeReplace
	FieldReplace
	SubstringReplace
)

func (o Outcome) String() string {
	switch o {
	case RangeReplace:
		return "range"
	case FieldReplace:
		return "field"
	case SubstringReplace:
		return "substring"
	default:
		return "unrecoverable"
	}
}
