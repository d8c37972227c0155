package cli

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/editor"
)

// Transform rewrites the selected text in a tone and splices the result back
// into the document. "custom" and "custom tone" take the rest of the line as
// the prompt and ask for one when it is empty.
func (a *App) Transform(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage(fmt.Sprintf("transform <%s|custom> [prompt...]", strings.Join(editor.Tones, "|")))
	}

	snap, err := a.tracker.Current()
	if err != nil {
		return err
	}
	if err := a.tx.Select(snap); err != nil {
		return err
	}

	tone, rest := args[0], args[1:]
	custom := strings.EqualFold(tone, editor.CustomTone)
	if custom && len(rest) > 0 && strings.EqualFold(rest[0], "tone") {
		tone, rest = tone+" "+rest[0], rest[1:]
	}
	prompt := strings.Join(rest, " ")
	if custom && prompt == "" {
		if prompt, err = ReadParagraph(a.reader, "Rewrite instruction", a.out); err != nil {
			a.tx.Cancel()
			return err
		}
	}

	req, err := a.tx.Submit(tone, prompt)
	if err != nil {
		return err
	}

	a.printf("Transforming %q (%s)...", req.Text, req.Tone)
	text, err := a.transformer.TransformText(ctx, models.TransformRequest{Text: req.Text, Tone: req.Tone, Prompt: req.Prompt})
	if err != nil {
		return a.tx.Fail(err)
	}
	if strings.TrimSpace(text) == "" {
		return a.tx.Fail(editor.ErrEmptyResult)
	}

	outcome, err := editor.Replace(a.doc, snap, text)
	a.metrics.IncReplace(outcome.String())
	if err != nil {
		return a.tx.Fail(err)
	}

	a.tx.Succeed()
	a.tracker.Clear()
	a.doc.ClearSelection()
	a.project.dirty = true
	a.log.Debug(ctx, "selection replaced", "outcome", outcome.String())
	a.printf("Text transformed successfully")
	return nil
}

// Cancel closes the transformation and forgets the selection.
func (a *App) Cancel(context.Context) error {
	a.tx.Cancel()
	a.tracker.Clear()
	a.doc.ClearSelection()
	return nil
}

// Image generates an image from a prompt and puts it into a component: an
// img component gets a new src, any other component gets an img appended.
func (a *App) Image(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage("image <component> <prompt...>")
	}
	c, err := a.doc.Component(args[0])
	if err != nil {
		return err
	}
	prompt := strings.Join(args[1:], " ")

	a.printf("Generating image...")
	src, err := a.images.Generate(ctx, prompt)
	if err != nil {
		return err
	}

	if c.Tag() == "img" {
		c.SetAttribute("src", src)
		c.SetAttribute("alt", prompt)
	} else {
		markup := c.InnerHTML() + fmt.Sprintf(`<img src="%s" alt="%s" style="max-width: 100%%;">`,
			html.EscapeString(src), html.EscapeString(prompt))
		if err := c.SetComponents(markup); err != nil {
			return err
		}
	}
	a.project.dirty = true
	a.printf("Image added to %s", c.ID())
	return nil
}
