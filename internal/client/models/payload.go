package models

import json "github.com/goccy/go-json"

// SaveRequest is the body of POST /api/upload-project. An empty ProjectID
// asks the server to start a new project.
type SaveRequest struct {
	ProjectName string          `json:"project_name" validate:"required,max=200"`
	Status      Status          `json:"status" validate:"required,oneof=DRAFT PUBLISHED ARCHIVED"`
	ProjectData json.RawMessage `json:"project_data" validate:"required"`
	ProjectID   ID              `json:"project_id,omitempty"`
	FullHTML    string          `json:"project_fullHtml"`
}

// SaveResult is the server's answer to a save.
type SaveResult struct {
	ID          ID     `json:"id"`
	ProjectID   ID     `json:"project_id"`
	ProjectName string `json:"project_name"`
	Status      Status `json:"status"`
	Version     int64  `json:"version"`
}

// TransformRequest is the body of POST /api/transformText.
type TransformRequest struct {
	Text   string `json:"text"`
	Tone   string `json:"tone"`
	Prompt string `json:"prompt"`
}

// GeneratedImage is the answer of POST /api/generateImage.
type GeneratedImage struct {
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Grouped is the dashboard listing, one bucket per status.
type Grouped map[Status][]Summary

// DocumentState is what the rendering surface loads. Exactly one of HTML
// and ProjectData is set.
type DocumentState struct {
	HTML        string
	ProjectData json.RawMessage
}

// IsEmpty reports whether nothing can be rendered from d.
func (d DocumentState) IsEmpty() bool {
	return d.HTML == "" && len(d.ProjectData) == 0
}

// Credentials is the body of POST /api/auth/login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is a signed-in user as kept by the client.
type Session struct {
	AccessToken string
	Email       string
}
