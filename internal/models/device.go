package models

import (
	"maps"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Device is a host a user has logged in from. DeviceID is unique per user.
type Device struct {
	ID         uuid.UUID         `gorm:"type:uuid;primaryKey" json:"-"`
	Username   string            `gorm:"size:150;not null;uniqueIndex:idx_devices_user_device,priority:1" json:"-"`
	DeviceID   string            `gorm:"size:255;not null;uniqueIndex:idx_devices_user_device,priority:2" json:"device_id"`
	Label      string            `gorm:"size:255" json:"label"`
	OS         string            `gorm:"size:100" json:"os"`
	IPAddress  string            `gorm:"size:64" json:"ip_address"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	FirstLogin time.Time         `json:"first_login"`
	LastLogin  time.Time         `json:"last_login"`
}

// IsCurrent reports whether d is the device the caller is using.
func (d Device) IsCurrent(currentDeviceID string) bool {
	return currentDeviceID != "" && d.DeviceID == currentDeviceID
}

// Clone returns a copy that shares no mutable state with d.
func (d Device) Clone() Device {
	if d.Metadata != nil {
		d.Metadata = maps.Clone(d.Metadata)
	}
	return d
}
