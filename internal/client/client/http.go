package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/common"
	"github.com/dmitrijs2005/letterpress/internal/logging"
	"github.com/dmitrijs2005/letterpress/internal/metrics"
)

// maxErrorBody bounds how much of a failed response is read for a message.
const maxErrorBody = 4 << 10

// HTTPClient talks to the newsletter REST API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
	metrics metrics.Recorder
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for the API rooted at baseURL. Requests go
// through an otelhttp transport; per-call deadlines come from the context.
func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger, rec metrics.Recorder) *HTTPClient {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		tokens:  tokens,
		log:     log,
		metrics: rec,
	}
}

// envelope is the {success, error, message} wrapper most endpoints use.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e envelope) failed() bool { return e.Success != nil && !*e.Success }

func (e envelope) reason() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

type call struct {
	endpoint string
	method   string
	path     string
	auth     bool
	// withSession sends the bearer token when a session exists but does not
	// require one.
	withSession bool
	body        any
}

// do performs c and returns the raw body of a 2xx answer. 401 and 403 map to
// common.ErrAuthRejected, everything else that fails to common.ErrNetworkFailure.
func (s *HTTPClient) do(ctx context.Context, c call) ([]byte, error) {
	var reader io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", c.endpoint, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, s.baseURL+c.path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", c.endpoint, err)
	}
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)

	if c.auth || c.withSession {
		token, err := s.token(ctx)
		switch {
		case err == nil:
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
		case c.auth:
			return nil, err
		}
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		s.metrics.ObserveRequest(c.endpoint, 0, time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w", c.endpoint, common.ErrTimeout)
		}
		return nil, fmt.Errorf("%s: %w: %v", c.endpoint, common.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()
	s.metrics.ObserveRequest(c.endpoint, resp.StatusCode, time.Since(start))

	s.log.Debug(ctx, "api call", "endpoint", c.endpoint, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var env envelope
		_ = json.Unmarshal(raw, &env)

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%s: %w", c.endpoint, common.ErrAuthRejected)
		case http.StatusNotFound:
			return nil, fmt.Errorf("%s: %w: %w", c.endpoint, common.ErrNetworkFailure, common.ErrNotFound)
		}
		if msg := env.reason(); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", c.endpoint, common.ErrNetworkFailure, msg)
		}
		return nil, fmt.Errorf("%s: %w: status %d", c.endpoint, common.ErrNetworkFailure, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w: %v", c.endpoint, common.ErrNetworkFailure, err)
	}
	return raw, nil
}

func (s *HTTPClient) token(ctx context.Context) (string, error) {
	if s.tokens == nil {
		return "", common.ErrAuthRequired
	}
	return s.tokens.Token(ctx)
}

// doJSON performs c and decodes the answer into out. A body with
// "success": false is a failure even on 2xx.
func (s *HTTPClient) doJSON(ctx context.Context, c call, out any) error {
	raw, err := s.do(ctx, c)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.failed() {
		msg := env.reason()
		if msg == "" {
			msg = "request failed"
		}
		return fmt.Errorf("%s: %w: %s", c.endpoint, common.ErrNetworkFailure, msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %v", c.endpoint, common.ErrNetworkFailure, err)
	}
	return nil
}

func (s *HTTPClient) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := s.doJSON(ctx, call{endpoint: "login", method: http.MethodPost, path: "/api/auth/login", body: creds}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login: %w: no token in response", common.ErrAuthRejected)
	}
	return resp.Token, nil
}

func (s *HTTPClient) Logout(ctx context.Context) error {
	return s.doJSON(ctx, call{endpoint: "logout", method: http.MethodPost, path: "/api/auth/logout"}, nil)
}

func (s *HTTPClient) DefaultTemplate(ctx context.Context) (string, error) {
	raw, err := s.do(ctx, call{endpoint: "default_template", method: http.MethodGet, path: "/api/generated_output.html"})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (s *HTTPClient) GetVersion(ctx context.Context, versionID string) (*models.VersionRecord, error) {
	var rec models.VersionRecord
	err := s.doJSON(ctx, call{
		endpoint: "get_version",
		method:   http.MethodGet,
		path:     "/api/newsletters/" + url.PathEscape(versionID),
		auth:     true,
	}, &rec)
	if err != nil {
		return nil, err
	}
	if len(rec.ProjectData) == 0 || string(rec.ProjectData) == "null" {
		return nil, fmt.Errorf("get_version: %w: no json_path in response", common.ErrNetworkFailure)
	}
	return &rec, nil
}

func (s *HTTPClient) UploadProject(ctx context.Context, req models.SaveRequest) (*models.SaveResult, error) {
	var res models.SaveResult
	err := s.doJSON(ctx, call{endpoint: "upload_project", method: http.MethodPost, path: "/api/upload-project", auth: true, body: req}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *HTTPClient) ListCurrent(ctx context.Context) (models.Grouped, error) {
	var resp struct {
		Data models.Grouped `json:"data"`
	}
	err := s.doJSON(ctx, call{endpoint: "list_current", method: http.MethodGet, path: "/api/newsletters-current", auth: true}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = models.Grouped{}
	}
	return resp.Data, nil
}

func (s *HTTPClient) ListVersions(ctx context.Context, projectID string) ([]models.Summary, error) {
	var resp struct {
		Versions []models.Summary `json:"versions"`
	}
	err := s.doJSON(ctx, call{
		endpoint: "list_versions",
		method:   http.MethodGet,
		path:     "/api/newsletters/" + url.PathEscape(projectID) + "/versions",
		auth:     true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

func (s *HTTPClient) DeleteVersion(ctx context.Context, versionID string) error {
	return s.doJSON(ctx, call{
		endpoint: "delete_version",
		method:   http.MethodDelete,
		path:     "/api/delete/" + url.PathEscape(versionID),
		auth:     true,
	}, nil)
}

// Duplicate copies a newsletter and returns the name of the copy.
func (s *HTTPClient) Duplicate(ctx context.Context, versionID string) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	err := s.doJSON(ctx, call{
		endpoint: "duplicate",
		method:   http.MethodPost,
		path:     "/api/" + url.PathEscape(versionID) + "/duplicate",
		auth:     true,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Name, nil
}

func (s *HTTPClient) Restore(ctx context.Context, versionID string) error {
	return s.doJSON(ctx, call{
		endpoint: "restore",
		method:   http.MethodPost,
		path:     "/api/restore/" + url.PathEscape(versionID),
		auth:     true,
	}, nil)
}

func (s *HTTPClient) TransformText(ctx context.Context, req models.TransformRequest) (string, error) {
	var resp struct {
		Transformed string `json:"transformed"`
	}
	err := s.doJSON(ctx, call{endpoint: "transform_text", method: http.MethodPost, path: "/api/transformText", withSession: true, body: req}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Transformed, nil
}

func (s *HTTPClient) GenerateImage(ctx context.Context, prompt string) (*models.GeneratedImage, error) {
	var img models.GeneratedImage
	body := map[string]string{"prompt": prompt}
	err := s.doJSON(ctx, call{endpoint: "generate_image", method: http.MethodPost, path: "/api/generateImage", withSession: true, body: body}, &img)
	if err != nil {
		return nil, err
	}
	if img.ImageBase64 == "" || img.MimeType == "" {
		return nil, fmt.Errorf("generate_image: %w", common.ErrInvalidImage)
	}
	return &img, nil
}
