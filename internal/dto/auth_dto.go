package dto

import (
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	return apperr.Required(
		apperr.Field{Name: "username", Present: r.Username != ""},
		apperr.Field{Name: "password", Present: r.Password != ""},
	)
}

type LoginRequest struct {
	Username   string      `json:"username"`
	Password   string      `json:"password"`
	DeviceInfo *DeviceInfo `json:"device_info"`
}

func (r *LoginRequest) Validate() error {
	if err := apperr.Required(
		apperr.Field{Name: "username", Present: r.Username != ""},
		apperr.Field{Name: "password", Present: r.Password != ""},
		apperr.Field{Name: "device_info", Present: r.DeviceInfo != nil},
	); err != nil {
		return err
	}
	return r.DeviceInfo.Validate()
}

type RegisterResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	UserCount int    `json:"user_count"`
	Username  string `json:"username"`
}

type LoginResponse struct {
	Success       bool                     `json:"success"`
	Message       string                   `json:"message"`
	Token         string                   `json:"token"`
	DeviceID      string                   `json:"device_id"`
	Devices       []models.Device          `json:"devices"`
	CurrentDevice models.Device            `json:"current_device"`
	Clipboards    []models.ClipboardRecord `json:"clipboards"`
}

// ErrorResponse is the envelope every failed request returns.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	UserCount int    `json:"user_count"`
}
