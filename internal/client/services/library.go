package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/letterpress/internal/client/client"
	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/logging"
)

// LibraryService is the dashboard: listing, deleting, duplicating and
// restoring newsletters. It never touches the local cache.
type LibraryService struct {
	client client.Client
	log    logging.Logger
}

func NewLibraryService(c client.Client, log logging.Logger) *LibraryService {
	return &LibraryService{client: c, log: log}
}

// ListCurrent returns the latest version of every newsletter, grouped by
// status. Every known status is present in the result.
func (s *LibraryService) ListCurrent(ctx context.Context) (models.Grouped, error) {
	g, err := s.client.ListCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list newsletters: %w", err)
	}
	if g == nil {
		g = models.Grouped{}
	}
	for _, st := range []models.Status{models.StatusDraft, models.StatusPublished, models.StatusArchived} {
		if _, ok := g[st]; !ok {
			g[st] = nil
		}
	}
	return g, nil
}

// ListVersions returns every version of a project, newest first.
func (s *LibraryService) ListVersions(ctx context.Context, projectID string) ([]models.Summary, error) {
	vs, err := s.client.ListVersions(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list versions of %s: %w", projectID, err)
	}
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Version > vs[j].Version })
	return vs, nil
}

func (s *LibraryService) Delete(ctx context.Context, versionID string) error {
	if err := s.client.DeleteVersion(ctx, versionID); err != nil {
		return fmt.Errorf("delete %s: %w", versionID, err)
	}
	s.log.Info(ctx, "version deleted", "version_id", versionID)
	return nil
}

// Duplicate returns the name of the new copy.
func (s *LibraryService) Duplicate(ctx context.Context, versionID string) (string, error) {
	name, err := s.client.Duplicate(ctx, versionID)
	if err != nil {
		return "", fmt.Errorf("duplicate %s: %w", versionID, err)
	}
	return name, nil
}

func (s *LibraryService) Restore(ctx context.Context, versionID string) error {
	if err := s.client.Restore(ctx, versionID); err != nil {
		return fmt.Errorf("restore %s: %w", versionID, err)
	}
	return nil
}
