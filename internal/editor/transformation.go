package editor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

// State of a single transformation attempt.
type State int

const (
	Idle State = iota
	Selected
	Submitted
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Submitted:
		return "submitted"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// CustomTone is the tone name the API expects for a free-form prompt.
const CustomTone = "Custom"

// Tones lists the predefined tones.
var Tones = []string{"Professional", "Casual", "Friendly", "Formal", "Humorous", "Persuasive", "Educational"}

var (
	ErrToneRequired   = errors.New("select a tone")
	ErrPromptRequired = errors.New("enter a custom prompt")
	ErrEmptyResult    = errors.New("empty response from server")
	ErrBadTransition  = errors.New("invalid transformation step")
)

// Request is what gets sent for rewriting.
type Request struct {
	Text   string
	Tone   string
	Prompt string
}

// Transformation drives Idle -> Selected -> Submitted -> Succeeded|Failed.
// Both terminal states fall back to Idle at once; Last reports which one
// was reached.
type Transformation struct {
	state State
	snap  *Snapshot
	tone  string
	last  State
}

func (t *Transformation) State() State { return t.state }

// Last is the outcome of the most recent finished attempt, Idle if none.
func (t *Transformation) Last() State { return t.last }

func (t *Transformation) Snapshot() *Snapshot { return t.snap }

// Select starts (or restarts) an attempt for snap.
func (t *Transformation) Select(snap *Snapshot) error {
	if t.state == Submitted {
		return fmt.Errorf("%w: a transformation is in flight", ErrBadTransition)
	}
	if snap == nil || strings.TrimSpace(snap.Text) == "" {
		return common.ErrSelectionInvalid
	}
	t.state, t.snap, t.tone = Selected, snap, ""
	return nil
}

// Submit picks the tone and returns the request to send. A tone matching
// "custom" (any case, with or without the "Tone" suffix) needs a prompt and
// is sent as CustomTone.
func (t *Transformation) Submit(tone, prompt string) (Request, error) {
	if t.state != Selected {
		return Request{}, fmt.Errorf("%w: nothing selected", ErrBadTransition)
	}

	tone = strings.TrimSpace(tone)
	if tone == "" {
		return Request{}, ErrToneRequired
	}
	name, ok := canonicalTone(tone)
	if !ok {
		return Request{}, fmt.Errorf("%w: unknown tone %q", ErrToneRequired, tone)
	}
	if name == CustomTone && strings.TrimSpace(prompt) == "" {
		return Request{}, ErrPromptRequired
	}

	t.state, t.tone = Submitted, name
	return Request{Text: t.snap.Text, Tone: name, Prompt: prompt}, nil
}

// Succeed clears the selection, snapshot and tone.
func (t *Transformation) Succeed() {
	if t.state != Submitted {
		return
	}
	t.reset()
	t.last = Succeeded
}

// Fail ends the attempt and returns err for notification.
func (t *Transformation) Fail(err error) error {
	t.reset()
	t.last = Failed
	return err
}

// Cancel abandons the attempt without recording an outcome.
func (t *Transformation) Cancel() {
	t.reset()
}

func (t *Transformation) reset() {
	t.state, t.snap, t.tone = Idle, nil, ""
}

func canonicalTone(tone string) (string, bool) {
	lower := strings.ToLower(tone)
	if lower == "custom" || lower == "custom tone" {
		return CustomTone, true
	}
	for _, known := range Tones {
		if strings.EqualFold(known, tone) {
			return known, true
		}
	}
	return "", false
}
