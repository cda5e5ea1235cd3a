package services

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultLabelFormat names a device that logged in without a label; the verb
// is the device's position in the user's list.
const DefaultLabelFormat = "设备%d"

// DeviceRegistry owns every mutation of a user's device list.
type DeviceRegistry struct {
	store *store.Store
	clips *ClipboardStore
	now   func() time.Time
}

func NewDeviceRegistry(st *store.Store, clips *ClipboardStore) *DeviceRegistry {
	return &DeviceRegistry{store: st, clips: clips, now: time.Now}
}

// UpsertOnLogin creates the device on first sight, otherwise overwrites the
// supplied metadata and refreshes last_login. first_login never changes.
func (r *DeviceRegistry) UpsertOnLogin(ctx context.Context, username string, info dto.DeviceInfo) (models.Device, error) {
	if err := info.Validate(); err != nil {
		return models.Device{}, err
	}

	now := r.now()
	var (
		result  models.Device
		created bool
	)
	err := r.store.Update(ctx, username, func(tx *store.Tx) error {
		existing, ok := tx.Device(info.DeviceID)
		if !ok {
			result = models.Device{
				ID:         uuid.New(),
				DeviceID:   info.DeviceID,
				Label:      info.Label,
				OS:         info.OS,
				IPAddress:  info.IPAddress,
				FirstLogin: now,
				LastLogin:  now,
			}
			if len(info.Metadata) > 0 {
				result.Metadata = datatypes.JSONMap(maps.Clone(info.Metadata))
			}
			if result.Label == "" {
				result.Label = fmt.Sprintf(DefaultLabelFormat, len(tx.Devices())+1)
			}
			created = true
		} else {
			result = existing.Clone()
			applyDeviceInfo(&result, info)
			result.LastLogin = now
		}
		tx.PutDevice(result)
		return nil
	})
	if err != nil {
		return models.Device{}, err
	}

	result.Username = username
	if created {
		metrics.Logins.WithLabelValues("new").Inc()
	} else {
		metrics.Logins.WithLabelValues("returning").Inc()
	}
	return result, nil
}

func applyDeviceInfo(d *models.Device, info dto.DeviceInfo) {
	if info.Label != "" {
		d.Label = info.Label
	}
	if info.OS != "" {
		d.OS = info.OS
	}
	if info.IPAddress != "" {
		d.IPAddress = info.IPAddress
	}
	if len(info.Metadata) > 0 {
		if d.Metadata == nil {
			d.Metadata = datatypes.JSONMap{}
		}
		maps.Copy(d.Metadata, info.Metadata)
	}
}

func (r *DeviceRegistry) List(username string) ([]models.Device, error) {
	var out []models.Device
	err := r.store.View(username, func(tx *store.Tx) error {
		out = make([]models.Device, 0, len(tx.Devices()))
		for _, d := range tx.Devices() {
			out = append(out, d.Clone())
		}
		return nil
	})
	return out, err
}

func (r *DeviceRegistry) Rename(ctx context.Context, username, deviceID, label string) error {
	return r.store.Update(ctx, username, func(tx *store.Tx) error {
		d, ok := tx.Device(deviceID)
		if !ok {
			return apperr.ErrDeviceNotFound
		}
		d = d.Clone()
		d.Label = label
		tx.PutDevice(d)
		return nil
	})
}

// Remove deletes the device and, in the same critical section, every
// clipboard record it produced. It returns the number of records purged.
func (r *DeviceRegistry) Remove(ctx context.Context, username, deviceID string) (int, error) {
	var purged int
	err := r.store.Update(ctx, username, func(tx *store.Tx) error {
		if !tx.DeleteDevice(deviceID) {
			return apperr.ErrDeviceNotFound
		}
		purged = r.clips.purge(tx, deviceID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.DevicesRemoved.Inc()
	metrics.ClipsRemoved.WithLabelValues("cascade").Add(float64(purged))
	return purged, nil
}
