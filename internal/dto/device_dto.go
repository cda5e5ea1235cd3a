package dto

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
)

// DeviceInfo is the host description a client sends on login. Keys other than
// the well-known ones are carried in Metadata and flattened back on encode.
type DeviceInfo struct {
	DeviceID  string
	Label     string
	OS        string
	IPAddress string
	Metadata  map[string]any
}

var deviceInfoKeys = []string{"device_id", "label", "os", "ip_address"}

func (d *DeviceInfo) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return apperr.Invalid("device_info must be an object")
	}
	*d = DeviceInfo{
		DeviceID:  stringValue(raw["device_id"]),
		Label:     stringValue(raw["label"]),
		OS:        stringValue(raw["os"]),
		IPAddress: stringValue(raw["ip_address"]),
	}
	for _, k := range deviceInfoKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		d.Metadata = raw
	}
	return nil
}

func (d DeviceInfo) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Metadata)+4)
	maps.Copy(out, d.Metadata)
	out["device_id"] = d.DeviceID
	if d.Label != "" {
		out["label"] = d.Label
	}
	if d.OS != "" {
		out["os"] = d.OS
	}
	if d.IPAddress != "" {
		out["ip_address"] = d.IPAddress
	}
	return json.Marshal(out)
}

func (d *DeviceInfo) Validate() error {
	if d.DeviceID == "" {
		return apperr.Invalid("device_info is missing device_id")
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

type UpdateDeviceLabelRequest struct {
	Username string `json:"username"`
	DeviceID string `json:"device_id"`
	NewLabel string `json:"new_label"`
}

func (r *UpdateDeviceLabelRequest) Validate() error {
	return apperr.Required(
		apperr.Field{Name: "username", Present: r.Username != ""},
		apperr.Field{Name: "device_id", Present: r.DeviceID != ""},
		apperr.Field{Name: "new_label", Present: r.NewLabel != ""},
	)
}

type RemoveDeviceRequest struct {
	Username string `json:"username"`
	DeviceID string `json:"device_id"`
}

func (r *RemoveDeviceRequest) Validate() error {
	return apperr.Required(
		apperr.Field{Name: "username", Present: r.Username != ""},
		apperr.Field{Name: "device_id", Present: r.DeviceID != ""},
	)
}

type UpdateDeviceLabelResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	DeviceID string `json:"device_id"`
	NewLabel string `json:"new_label"`
}

type RemoveDeviceResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	DeviceID         string `json:"device_id"`
	RemovedClipCount int    `json:"removed_clip_count"`
}

type DevicesResponse struct {
	Success bool            `json:"success"`
	Devices []models.Device `json:"devices"`
	Count   int             `json:"count"`
}
