package dto

import (
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
)

type AddClipboardRequest struct {
	Username    string `json:"username"`
	Content     string `json:"content"`
	DeviceID    string `json:"device_id"`
	ContentType string `json:"content_type,omitempty"`
}

func (r *AddClipboardRequest) Validate() error {
	return apperr.Required(
		apperr.Field{Name: "username", Present: r.Username != ""},
		apperr.Field{Name: "content", Present: r.Content != ""},
		apperr.Field{Name: "device_id", Present: r.DeviceID != ""},
	)
}

type DeleteClipboardRequest struct {
	Username string `json:"username"`
	ClipID   string `json:"clip_id"`
}

func (r *DeleteClipboardRequest) Validate() error {
	return apperr.Required(
		apperr.Field{Name: "username", Present: r.Username != ""},
		apperr.Field{Name: "clip_id", Present: r.ClipID != ""},
	)
}

type ClearClipboardsRequest struct {
	Username string `json:"username"`
}

func (r *ClearClipboardsRequest) Validate() error {
	return apperr.Required(apperr.Field{Name: "username", Present: r.Username != ""})
}

type AddClipboardResponse struct {
	Success    bool                     `json:"success"`
	Message    string                   `json:"message"`
	ClipID     string                   `json:"clip_id"`
	Clipboards []models.ClipboardRecord `json:"clipboards"`
}

type ClipboardsResponse struct {
	Success    bool                     `json:"success"`
	Clipboards []models.ClipboardRecord `json:"clipboards"`
	Count      int                      `json:"count"`
}

type DeleteClipboardResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ClipID         string `json:"clip_id"`
	RemainingClips int    `json:"remaining_clips"`
}

type ClearClipboardsResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}
