package editor

import (
	"html"
	"strings"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

// Replace splices newText into the span captured by snap. See the package
// documentation for the order of attempts.
func Replace(s Surface, snap *Snapshot, newText string) (Outcome, error) {
	if snap == nil || snap.Text == "" {
		return Unrecoverable, common.ErrSelectionInvalid
	}

	if replaceRange(s, snap, newText) {
		return RangeReplace, nil
	}
	if snap.Owner == nil {
		return Unrecoverable, common.ErrReplaceUnrecoverable
	}
	if replaceField(snap, newText) {
		return FieldReplace, nil
	}
	if replaceSubstring(snap, newText) {
		return SubstringReplace, nil
	}
	return Unrecoverable, common.ErrReplaceUnrecoverable
}

func replaceRange(s Surface, snap *Snapshot, newText string) bool {
	if snap.Anchor.Start.Node == nil || snap.Anchor.End.Node == nil {
		return false
	}
	if err := s.ReplaceRange(snap.Anchor, newText); err != nil {
		return false
	}
	if snap.Owner != nil {
		// The range edit has already landed; a failed resync leaves the
		// element's own markup as the truth.
		_ = snap.Owner.SetComponents(snap.Owner.InnerHTML())
	}
	return true
}

func replaceField(snap *Snapshot, newText string) bool {
	field, ok := snap.Owner.ContentField()
	if !ok || !strings.Contains(field, snap.Text) {
		return false
	}
	snap.Owner.SetContentField(strings.Replace(field, snap.Text, newText, 1))
	return true
}

// replaceSubstring works on serialized markup, where the captured text
// appears escaped.
func replaceSubstring(snap *Snapshot, newText string) bool {
	inner := snap.Owner.InnerHTML()
	needle := html.EscapeString(snap.Text)
	if !strings.Contains(inner, needle) {
		return false
	}
	err := snap.Owner.SetComponents(strings.Replace(inner, needle, html.EscapeString(newText), 1))
	return err == nil
}
