package services

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/dmitrijs2005/letterpress/internal/client/client"
	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/client/repositories/cache"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/logging"
	"github.com/dmitrijs2005/letterpress/internal/metrics"
	"github.com/dmitrijs2005/letterpress/internal/tracing"
)

// Source tells where a resolved document came from.
type Source string

const (
	SourceBlank    Source = "blank"
	SourceTemplate Source = "template"
	SourceCache    Source = "cache"
	SourceNetwork  Source = "network"
	SourceFallback Source = "fallback"
)

// BlankTemplate is the fixed document behind the blank version id.
const BlankTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Blank Newsletter</title>
</head>
<body>
  <h1 id="heading">Start building your newsletter here</h1>
</body>
</html>`

// PlaceholderTemplate is rendered when nothing could be loaded.
const PlaceholderTemplate = `<div id="placeholder" style="padding: 20px; text-align: center;">` +
	`<h1 id="placeholder-title">Welcome to the Editor</h1>` +
	`<p id="placeholder-text" data-type="text">Could not load initial template. Starting with default content.</p>` +
	`</div>`

// Resolution is a document ready for the rendering surface.
type Resolution struct {
	State       models.DocumentState
	VersionID   string
	ProjectID   string
	ProjectName string
	Status      models.Status
	Source      Source
}

// ProjectLoader decides which version of a newsletter to display, preferring
// the local cache over the network.
type ProjectLoader struct {
	client   client.Client
	cache    cache.Store
	tokens   client.TokenSource
	log      logging.Logger
	metrics  metrics.Recorder
	sanitize func(string) (string, error)
}

// NewProjectLoader wires a loader. sanitize cleans the default template
// before it reaches the surface; nil keeps it as received.
func NewProjectLoader(c client.Client, store cache.Store, tokens client.TokenSource,
	log logging.Logger, rec metrics.Recorder, sanitize func(string) (string, error)) *ProjectLoader {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if sanitize == nil {
		sanitize = func(s string) (string, error) { return s, nil }
	}
	return &ProjectLoader{client: c, cache: store, tokens: tokens, log: log, metrics: rec, sanitize: sanitize}
}

// Resolve produces the document for versionID.
//
//   - common.BlankVersionID: the blank template; no cache, no network.
//   - "": the server's default template, or the placeholder together with an
//     error wrapping common.ErrNetworkFailure.
//   - anything else: the cached record with that id, or a fetch that is then
//     cached under its project id. Auth failures return no document. Other
//     failures return the placeholder together with the error.
func (l *ProjectLoader) Resolve(ctx context.Context, versionID string) (res *Resolution, err error) {
	ctx, span := tracing.Tracer().Start(ctx, "ProjectLoader.Resolve")
	span.SetAttributes(attribute.String("version_id", versionID))
	defer func() {
		if res != nil {
			span.SetAttributes(attribute.String("source", string(res.Source)))
			l.metrics.IncResolve(string(res.Source))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	switch versionID {
	case common.BlankVersionID:
		return newResolution(models.DocumentState{HTML: BlankTemplate}, SourceBlank), nil
	case "":
		return l.defaultTemplate(ctx)
	}

	rec, err := l.lookupCache(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		l.metrics.IncCache(metrics.CacheHit)
		l.log.Debug(ctx, "version served from cache", "version_id", versionID)
		return recordResolution(*rec, SourceCache), nil
	}
	l.metrics.IncCache(metrics.CacheMiss)

	if _, err := l.tokens.Token(ctx); err != nil {
		return nil, err
	}

	fetched, err := l.client.GetVersion(ctx, versionID)
	if err != nil {
		if common.IsAuth(err) {
			return nil, err
		}
		l.log.Warn(ctx, "version fetch failed", "version_id", versionID, "error", err)
		return placeholder(), err
	}

	l.store(ctx, *fetched)
	return recordResolution(*fetched, SourceNetwork), nil
}

func (l *ProjectLoader) defaultTemplate(ctx context.Context) (*Resolution, error) {
	page, err := l.client.DefaultTemplate(ctx)
	if err != nil {
		l.log.Warn(ctx, "default template unavailable", "error", err)
		return placeholder(), fmt.Errorf("load default template: %w", err)
	}
	clean, err := l.sanitize(page)
	if err != nil {
		return placeholder(), fmt.Errorf("load default template: %w: %v", common.ErrNetworkFailure, err)
	}
	return newResolution(models.DocumentState{HTML: clean}, SourceTemplate), nil
}

// lookupCache scans every cached project for a record with id versionID.
// Entries that cannot be read are deleted and skipped.
func (l *ProjectLoader) lookupCache(ctx context.Context, versionID string) (*models.VersionRecord, error) {
	keys, err := l.cache.Keys(ctx, common.CacheKeyPrefix)
	if err != nil {
		l.log.Warn(ctx, "cache scan failed", "error", err)
		return nil, nil
	}

	for _, key := range keys {
		raw, err := l.cache.Get(ctx, key)
		if err != nil && !errors.Is(err, common.ErrCacheCorrupt) {
			l.log.Warn(ctx, "cache read failed", "key", key, "error", err)
			continue
		}
		if raw == nil && err == nil {
			continue
		}

		var rec models.VersionRecord
		if err == nil {
			err = decodeRecord(raw, &rec)
		}
		if err != nil {
			l.metrics.IncCache(metrics.CacheCorrupt)
			l.log.Warn(ctx, "dropping corrupt cache entry", "key", key, "error", err)
			if derr := l.cache.Delete(ctx, key); derr != nil {
				l.log.Warn(ctx, "cache delete failed", "key", key, "error", derr)
			}
			continue
		}

		if rec.ID.String() == versionID {
			return &rec, nil
		}
	}
	return nil, nil
}

func decodeRecord(raw []byte, rec *models.VersionRecord) error {
	if err := json.Unmarshal(raw, rec); err != nil {
		return fmt.Errorf("%w: %v", common.ErrCacheCorrupt, err)
	}
	if rec.ID == "" || len(rec.ProjectData) == 0 {
		return fmt.Errorf("%w: record without id or document", common.ErrCacheCorrupt)
	}
	return nil
}

// store caches rec as the latest version of its project. Failures only cost
// a future network round trip.
func (l *ProjectLoader) store(ctx context.Context, rec models.VersionRecord) {
	if rec.ProjectID == "" {
		return
	}
	b, err := json.Marshal(rec)
	if err == nil {
		err = l.cache.Set(ctx, common.CacheKey(rec.ProjectID.String()), b)
	}
	if err != nil {
		l.log.Warn(ctx, "cache write failed", "project_id", rec.ProjectID, "error", err)
	}
}

func newResolution(state models.DocumentState, src Source) *Resolution {
	return &Resolution{
		State:       state,
		ProjectName: common.DefaultProjectName,
		Status:      models.StatusDraft,
		Source:      src,
	}
}

func recordResolution(rec models.VersionRecord, src Source) *Resolution {
	rec = rec.WithDefaults()
	return &Resolution{
		State:       models.DocumentState{ProjectData: rec.ProjectData},
		VersionID:   rec.ID.String(),
		ProjectID:   rec.ProjectID.String(),
		ProjectName: rec.ProjectName,
		Status:      rec.Status,
		Source:      src,
	}
}

func placeholder() *Resolution {
	return newResolution(models.DocumentState{HTML: PlaceholderTemplate}, SourceFallback)
}
