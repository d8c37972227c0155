package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
)

// List prints the latest version of every newsletter, grouped by status.
func (a *App) List(ctx context.Context) error {
	g, err := a.library.ListCurrent(ctx)
	if err != nil {
		return err
	}
	for _, st := range []models.Status{models.StatusDraft, models.StatusPublished, models.StatusArchived} {
		a.printf("%s (%d)", st, len(g[st]))
		for _, s := range g[st] {
			a.printf("  %s", s.Label())
		}
	}
	return nil
}

// Versions prints the history of a project, the open one by default.
func (a *App) Versions(ctx context.Context, args []string) error {
	projectID := a.project.projectID
	if len(args) > 0 {
		projectID = args[0]
	}
	if projectID == "" {
		return usage("versions <project>")
	}

	vs, err := a.library.ListVersions(ctx, projectID)
	if err != nil {
		return err
	}
	if len(vs) == 0 {
		a.printf("No versions")
	}
	for _, v := range vs {
		a.printf("  %s", v.Label())
	}
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("delete <version>")
	}
	if err := a.library.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Deleted %s", args[0])
	return nil
}

func (a *App) Duplicate(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("duplicate <version>")
	}
	name, err := a.library.Duplicate(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Duplicated as %q", name)
	return nil
}

// Restore makes an older version the latest one of its project.
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("restore <version>")
	}
	if err := a.library.Restore(ctx, args[0]); err != nil {
		return err
	}
	a.printf("Restored %s", args[0])
	return nil
}

// Stats prints the client counters.
func (a *App) Stats(context.Context) error {
	if a.stats == nil {
		return fmt.Errorf("metrics are disabled")
	}
	_, err := a.stats.WriteTo(a.out)
	return err
}
