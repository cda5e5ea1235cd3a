package store

import (
	"slices"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
)

// Tx is a view of one user's data inside View or Update. Slices returned by
// its accessors must not be retained after the callback returns.
type Tx struct {
	username string
	devices  []models.Device
	clips    []models.ClipboardRecord
	changes  []Change
	readOnly bool
}

func (tx *Tx) Username() string { return tx.username }

func (tx *Tx) Devices() []models.Device { return tx.devices }

func (tx *Tx) Clips() []models.ClipboardRecord { return tx.clips }

// Device looks up a device by its device_id.
func (tx *Tx) Device(deviceID string) (models.Device, bool) {
	i := tx.deviceIndex(deviceID)
	if i < 0 {
		return models.Device{}, false
	}
	return tx.devices[i], true
}

// PutDevice inserts d, or replaces the device with the same device_id in place.
func (tx *Tx) PutDevice(d models.Device) {
	tx.mustWrite()
	d.Username = tx.username
	if i := tx.deviceIndex(d.DeviceID); i >= 0 {
		tx.devices[i] = d
	} else {
		tx.devices = append(tx.devices, d)
	}
	tx.record(Change{Kind: ChangeUpsertDevice, Device: d.Clone()})
}

func (tx *Tx) DeleteDevice(deviceID string) bool {
	tx.mustWrite()
	i := tx.deviceIndex(deviceID)
	if i < 0 {
		return false
	}
	tx.devices = slices.Delete(tx.devices, i, i+1)
	tx.record(Change{Kind: ChangeDeleteDevice, DeviceID: deviceID})
	return true
}

func (tx *Tx) AppendClip(c models.ClipboardRecord) {
	tx.mustWrite()
	c.Username = tx.username
	tx.clips = append(tx.clips, c)
	tx.record(Change{Kind: ChangeInsertClip, Clip: c})
}

func (tx *Tx) DeleteClip(clipID string) (models.ClipboardRecord, bool) {
	tx.mustWrite()
	i := slices.IndexFunc(tx.clips, func(c models.ClipboardRecord) bool { return c.ClipID == clipID })
	if i < 0 {
		return models.ClipboardRecord{}, false
	}
	removed := tx.clips[i]
	tx.clips = slices.Delete(tx.clips, i, i+1)
	tx.record(Change{Kind: ChangeDeleteClip, ClipID: clipID})
	return removed, true
}

// DeleteClipsByDevice removes every record originating from deviceID and
// returns how many were removed.
func (tx *Tx) DeleteClipsByDevice(deviceID string) int {
	tx.mustWrite()
	before := len(tx.clips)
	tx.clips = slices.DeleteFunc(tx.clips, func(c models.ClipboardRecord) bool { return c.DeviceID == deviceID })
	removed := before - len(tx.clips)
	if removed > 0 {
		tx.record(Change{Kind: ChangeDeleteDeviceClips, DeviceID: deviceID})
	}
	return removed
}

func (tx *Tx) ClearClips() int {
	tx.mustWrite()
	n := len(tx.clips)
	tx.clips = nil
	if n > 0 {
		tx.record(Change{Kind: ChangeClearClips})
	}
	return n
}

func (tx *Tx) deviceIndex(deviceID string) int {
	return slices.IndexFunc(tx.devices, func(d models.Device) bool { return d.DeviceID == deviceID })
}

func (tx *Tx) record(c Change) {
	tx.changes = append(tx.changes, c)
}

func (tx *Tx) mustWrite() {
	if tx.readOnly {
		panic("store: write inside View")
	}
}
