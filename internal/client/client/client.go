package client

import (
	"context"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
)

// Client is the newsletter backend as seen by the editor.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Logout(ctx context.Context) error

	DefaultTemplate(ctx context.Context) (string, error)
	GetVersion(ctx context.Context, versionID string) (*models.VersionRecord, error)
	UploadProject(ctx context.Context, req models.SaveRequest) (*models.SaveResult, error)

	ListCurrent(ctx context.Context) (models.Grouped, error)
	ListVersions(ctx context.Context, projectID string) ([]models.Summary, error)
	DeleteVersion(ctx context.Context, versionID string) error
	Duplicate(ctx context.Context, versionID string) (string, error)
	Restore(ctx context.Context, versionID string) error

	TransformText(ctx context.Context, req models.TransformRequest) (string, error)
	GenerateImage(ctx context.Context, prompt string) (*models.GeneratedImage, error)
}

// TokenSource yields the bearer token for authenticated calls. It returns
// an error wrapping common.ErrAuthRequired when nobody is signed in.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }
