// Package models defines the client-side data models of letterpress:
// newsletter version records, summaries and request/response payloads.
package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/dmitrijs2005/letterpress/internal/common"
)

// Status is the publication state of a version.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

// ParseStatus normalizes s (case-insensitive) into a known Status.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(s)); st {
	case StatusDraft, StatusPublished, StatusArchived:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}

// ID is a server-assigned identifier. The API emits ids either as JSON
// strings or as numbers; both decode to the same ID.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("id must be a string or a number: %s", b)
	}
	*id = ID(b)
	return nil
}

func (id ID) String() string { return string(id) }

// VersionRecord is one immutable saved snapshot of a newsletter. Versions of
// the same newsletter share ProjectID. ProjectData is opaque to the client
// core and travels under the wire name json_path.
type VersionRecord struct {
	ID          ID              `json:"id"`
	ProjectID   ID              `json:"project_id"`
	ProjectName string          `json:"project_name"`
	Status      Status          `json:"status"`
	ProjectData json.RawMessage `json:"json_path"`
	Version     *int64          `json:"version,omitempty"`
}

// WithDefaults fills an empty name and status the way the editor shows them.
func (r VersionRecord) WithDefaults() VersionRecord {
	if r.ProjectName == "" {
		r.ProjectName = common.DefaultProjectName
	}
	if r.Status == "" {
		r.Status = StatusDraft
	}
	return r
}

// Summary is a dashboard row: one version without its document payload.
type Summary struct {
	ID          ID     `json:"id"`
	ProjectID   ID     `json:"project_id"`
	ProjectName string `json:"project_name"`
	Status      Status `json:"status"`
	Version     int64  `json:"version"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// Label renders s as a single line for listings.
func (s Summary) Label() string {
	return fmt.Sprintf("%-10s v%-3s %-9s %s", s.ID, strconv.FormatInt(s.Version, 10), s.Status, s.ProjectName)
}
