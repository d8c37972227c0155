package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/common"
)

// fakeClient implements client.Client for unit tests of the services.
type fakeClient struct {
	mu sync.Mutex

	LoginToken string
	LoginErr   error
	LogoutErr  error
	LastCreds  models.Credentials

	TemplateHTML string
	TemplateErr  error

	Versions       map[string]*models.VersionRecord
	GetVersionErr  error
	GetVersionHits int

	UploadFn   func(ctx context.Context, req models.SaveRequest) (*models.SaveResult, error)
	LastUpload models.SaveRequest

	Current      models.Grouped
	ProjectVers  []models.Summary
	LibraryErr   error
	Deleted      []string
	Restored     []string
	DuplicateRet string

	Transformed  string
	TransformErr error
	LastTransReq models.TransformRequest

	Image    *models.GeneratedImage
	ImageErr error
}

func (f *fakeClient) Login(_ context.Context, creds models.Credentials) (string, error) {
	f.LastCreds = creds
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) Logout(context.Context) error { return f.LogoutErr }

func (f *fakeClient) DefaultTemplate(context.Context) (string, error) {
	return f.TemplateHTML, f.TemplateErr
}

func (f *fakeClient) GetVersion(_ context.Context, id string) (*models.VersionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetVersionHits++
	if f.GetVersionErr != nil {
		return nil, f.GetVersionErr
	}
	rec, ok := f.Versions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeClient) UploadProject(ctx context.Context, req models.SaveRequest) (*models.SaveResult, error) {
	f.mu.Lock()
	f.LastUpload = req
	fn := f.UploadFn
	f.mu.Unlock()
	return fn(ctx, req)
}

func (f *fakeClient) ListCurrent(context.Context) (models.Grouped, error) {
	return f.Current, f.LibraryErr
}

func (f *fakeClient) ListVersions(context.Context, string) ([]models.Summary, error) {
	return f.ProjectVers, f.LibraryErr
}

func (f *fakeClient) DeleteVersion(_ context.Context, id string) error {
	f.Deleted = append(f.Deleted, id)
	return f.LibraryErr
}

func (f *fakeClient) Duplicate(context.Context, string) (string, error) {
	return f.DuplicateRet, f.LibraryErr
}

func (f *fakeClient) Restore(_ context.Context, id string) error {
	f.Restored = append(f.Restored, id)
	return f.LibraryErr
}

func (f *fakeClient) TransformText(_ context.Context, req models.TransformRequest) (string, error) {
	f.LastTransReq = req
	return f.Transformed, f.TransformErr
}

func (f *fakeClient) GenerateImage(context.Context, string) (*models.GeneratedImage, error) {
	return f.Image, f.ImageErr
}

// mapStore is an in-memory cache.Store that stores values as given.
type mapStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	deletes []string
	sets    int
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	delete(m.data, key)
	return nil
}

func (m *mapStore) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token(context.Context) (string, error) { return s.token, s.err }
