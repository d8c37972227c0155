package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dmitrijs2005/letterpress/internal/client/client"
	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/client/repositories/cache"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/logging"
	"github.com/dmitrijs2005/letterpress/internal/metrics"
	"github.com/dmitrijs2005/letterpress/internal/tracing"
)

// SaveInput is the editor state to persist as a new version.
type SaveInput struct {
	ProjectID   string
	ProjectName string
	Status      models.Status
	ProjectData json.RawMessage
	FullHTML    string
}

// Saver uploads versions. At most one save runs at a time; a second call
// while one is in flight fails with common.ErrSaveInProgress.
type Saver struct {
	client   client.Client
	cache    cache.Store
	timeout  time.Duration
	log      logging.Logger
	metrics  metrics.Recorder
	validate *validator.Validate
	busy     atomic.Bool
}

func NewSaver(c client.Client, store cache.Store, timeout time.Duration, log logging.Logger, rec metrics.Recorder) *Saver {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Saver{client: c, cache: store, timeout: timeout, log: log, metrics: rec, validate: validator.New()}
}

// Save uploads in under the configured timeout. On success the new version
// becomes the cached latest version of its project.
func (s *Saver) Save(ctx context.Context, in SaveInput) (*models.SaveResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		s.metrics.IncSave("busy")
		return nil, common.ErrSaveInProgress
	}
	defer s.busy.Store(false)

	ctx, span := tracing.Tracer().Start(ctx, "Saver.Save")
	defer span.End()
	span.SetAttributes(attribute.String("project_id", in.ProjectID))

	req := models.SaveRequest{
		ProjectName: strings.TrimSpace(in.ProjectName),
		Status:      in.Status,
		ProjectData: in.ProjectData,
		ProjectID:   models.ID(in.ProjectID),
		FullHTML:    in.FullHTML,
	}
	if req.ProjectName == "" {
		req.ProjectName = common.DefaultProjectName
	}
	if req.Status == "" {
		req.Status = models.StatusDraft
	}
	if err := s.validate.Struct(req); err != nil {
		s.metrics.IncSave("invalid")
		return nil, fmt.Errorf("invalid save request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.UploadProject(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, common.ErrTimeout) {
			err = fmt.Errorf("%w: %v", common.ErrTimeout, err)
		}
		if errors.Is(err, common.ErrTimeout) {
			s.metrics.IncSave("timeout")
		} else {
			s.metrics.IncSave("error")
		}
		return nil, fmt.Errorf("save %q: %w", req.ProjectName, err)
	}
	s.metrics.IncSave("ok")

	if res.ProjectID == "" {
		res.ProjectID = req.ProjectID
	}
	if res.ProjectName == "" {
		res.ProjectName = req.ProjectName
	}
	if res.Status == "" {
		res.Status = req.Status
	}
	s.remember(ctx, req, res)

	s.log.Info(ctx, "version saved", "project_id", res.ProjectID, "version_id", res.ID, "version", res.Version)
	return res, nil
}

func (s *Saver) remember(ctx context.Context, req models.SaveRequest, res *models.SaveResult) {
	if res.ProjectID == "" || res.ID == "" {
		return
	}
	version := res.Version
	rec := models.VersionRecord{
		ID:          res.ID,
		ProjectID:   res.ProjectID,
		ProjectName: res.ProjectName,
		Status:      res.Status,
		ProjectData: req.ProjectData,
		Version:     &version,
	}
	b, err := json.Marshal(rec)
	if err == nil {
		err = s.cache.Set(context.WithoutCancel(ctx), common.CacheKey(res.ProjectID.String()), b)
	}
	if err != nil {
		s.log.Warn(ctx, "cache write failed", "project_id", res.ProjectID, "error", err)
	}
}
