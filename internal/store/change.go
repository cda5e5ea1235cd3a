package store

import "github.com/ahmetcoskunkizilkaya/clipsync/internal/models"

type ChangeKind int

const (
	ChangeUpsertDevice ChangeKind = iota + 1
	ChangeDeleteDevice
	ChangeInsertClip
	ChangeDeleteClip
	ChangeDeleteDeviceClips
	ChangeClearClips
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeUpsertDevice:
		return "upsert_device"
	case ChangeDeleteDevice:
		return "delete_device"
	case ChangeInsertClip:
		return "insert_clip"
	case ChangeDeleteClip:
		return "delete_clip"
	case ChangeDeleteDeviceClips:
		return "delete_device_clips"
	case ChangeClearClips:
		return "clear_clips"
	default:
		return "unknown"
	}
}

// Change describes one mutation staged by a Tx. Which fields are set depends
// on Kind.
type Change struct {
	Kind     ChangeKind
	Device   models.Device
	Clip     models.ClipboardRecord
	DeviceID string
	ClipID   string
}
