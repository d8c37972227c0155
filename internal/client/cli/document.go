package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/client/services"
	"github.com/dmitrijs2005/letterpress/internal/common"
)

var errUsage = errors.New("usage")

func usage(s string) error {
	return fmt.Errorf("%w: %s", errUsage, s)
}

// Open resolves a version and renders it. Without an argument the server's
// default template is opened; "0" opens a blank document. A result that
// arrives after a newer open started is dropped.
func (a *App) Open(ctx context.Context, args []string) error {
	versionID := ""
	if len(args) > 0 {
		versionID = args[0]
	}
	gen := a.generation.Add(1)

	res, err := a.loader.Resolve(ctx, versionID)
	if a.generation.Load() != gen {
		a.log.Debug(ctx, "superseded open discarded", "version_id", versionID)
		return nil
	}
	if res == nil {
		return err
	}

	if lerr := a.doc.Load(res.State); lerr != nil {
		return fmt.Errorf("render %s: %w", versionID, lerr)
	}
	a.tracker.Clear()
	a.tx.Cancel()
	a.project = project{
		versionID: res.VersionID,
		projectID: res.ProjectID,
		name:      res.ProjectName,
		status:    res.Status,
		source:    res.Source,
	}

	if res.Source == services.SourceFallback {
		return err
	}
	a.printf("Opened %q from %s", res.ProjectName, res.Source)
	return err
}

// Select marks the first occurrence of a text inside a component.
func (a *App) Select(_ context.Context, args []string) error {
	if len(args) < 2 {
		return usage("select <component> <text...>")
	}
	if err := a.doc.SelectText(args[0], strings.Join(args[1:], " ")); err != nil {
		return err
	}
	a.tracker.OnSelectionChange(a.doc)

	snap, err := a.tracker.Current()
	if err != nil {
		return err
	}
	a.printf("Selected %q in %s", snap.Text, snap.Owner.ID())
	return nil
}

// Rename sets the newsletter name used by the next save.
func (a *App) Rename(_ context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return usage("rename <name...>")
	}
	a.project.name = name
	a.project.dirty = true
	return nil
}

// SetStatus sets the status used by the next save.
func (a *App) SetStatus(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("status <DRAFT|PUBLISHED|ARCHIVED>")
	}
	st, err := models.ParseStatus(args[0])
	if err != nil {
		return err
	}
	a.project.status = st
	a.project.dirty = true
	return nil
}

// Save uploads the document as a new version and makes it the open one.
func (a *App) Save(ctx context.Context) error {
	data, err := a.doc.ProjectData()
	if err != nil {
		return err
	}

	a.printf("Saving...")
	res, err := a.saver.Save(ctx, services.SaveInput{
		ProjectID:   a.project.projectID,
		ProjectName: a.project.name,
		Status:      a.project.status,
		ProjectData: data,
		FullHTML:    a.doc.FullHTML(),
	})
	if err != nil {
		return err
	}

	a.project.versionID = res.ID.String()
	a.project.projectID = res.ProjectID.String()
	a.project.name = res.ProjectName
	a.project.status = res.Status
	a.project.dirty = false
	a.printf("Saved %q as version %d (%s)", res.ProjectName, res.Version, res.ID)
	return nil
}

// Show prints the open project and its components.
func (a *App) Show(context.Context) error {
	p := a.project
	a.printf("Project: %s (id %s, version %s, %s, from %s)", p.name, orDash(p.projectID), orDash(p.versionID), p.status, p.source)
	for _, c := range a.doc.Components() {
		text := truncate(strings.Join(strings.Fields(c.Text()), " "), 60)
		a.printf("  #%-20s <%s> %s", c.ID(), c.Tag(), text)
	}
	if snap, err := a.tracker.Current(); err == nil {
		a.printf("Selection: %q in %s", snap.Text, snap.Owner.ID())
	}
	return nil
}

// Preview prints the document as markdown.
func (a *App) Preview(context.Context) error {
	md, err := a.doc.Markdown()
	if err != nil {
		return err
	}
	a.printf("%s", md)
	return nil
}

func orDash(s string) string {
	if s == "" || s == common.BlankVersionID {
		return "-"
	}
	return s
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
