package database

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Persister writes store mutations through to PostgreSQL. Each Apply call is
// one database transaction, so a device removal and its cascade land together.
type Persister struct {
	db *gorm.DB
}

func NewPersister(db *gorm.DB) *Persister {
	return &Persister{db: db}
}

func (p *Persister) CreateUser(ctx context.Context, user *models.User) error {
	return p.db.WithContext(ctx).Create(user).Error
}

func (p *Persister) Apply(ctx context.Context, username string, changes []store.Change) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range changes {
			if err := applyChange(tx, username, c); err != nil {
				return fmt.Errorf("%s: %w", c.Kind, err)
			}
		}
		return nil
	})
}

func applyChange(tx *gorm.DB, username string, c store.Change) error {
	switch c.Kind {
	case store.ChangeUpsertDevice:
		d := c.Device
		d.Username = username
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}, {Name: "device_id"}},
			UpdateAll: true,
		}).Create(&d).Error
	case store.ChangeDeleteDevice:
		return tx.Scopes(ForUser(username)).
			Where("device_id = ?", c.DeviceID).
			Delete(&models.Device{}).Error
	case store.ChangeInsertClip:
		clip := c.Clip
		clip.Username = username
		return tx.Create(&clip).Error
	case store.ChangeDeleteClip:
		return tx.Scopes(ForUser(username)).
			Where("clip_id = ?", c.ClipID).
			Delete(&models.ClipboardRecord{}).Error
	case store.ChangeDeleteDeviceClips:
		return tx.Scopes(ForUser(username)).
			Where("device_id = ?", c.DeviceID).
			Delete(&models.ClipboardRecord{}).Error
	case store.ChangeClearClips:
		return tx.Scopes(ForUser(username)).
			Delete(&models.ClipboardRecord{}).Error
	default:
		return fmt.Errorf("unsupported change kind %d", c.Kind)
	}
}

// Load reads every user with their devices and records, in the order the
// store expects them.
func (p *Persister) Load(ctx context.Context) ([]store.Snapshot, error) {
	db := p.db.WithContext(ctx)

	var users []models.User
	if err := db.Order("created_at").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	var devices []models.Device
	if err := db.Order("first_login").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to load devices: %w", err)
	}
	var clips []models.ClipboardRecord
	if err := db.Order("created_at").Find(&clips).Error; err != nil {
		return nil, fmt.Errorf("failed to load clipboard records: %w", err)
	}

	return groupSnapshots(users, devices, clips), nil
}

func groupSnapshots(users []models.User, devices []models.Device, clips []models.ClipboardRecord) []store.Snapshot {
	snaps := make([]store.Snapshot, len(users))
	index := make(map[string]int, len(users))
	for i, u := range users {
		snaps[i].User = u
		index[u.Username] = i
	}
	for _, d := range devices {
		if i, ok := index[d.Username]; ok {
			snaps[i].Devices = append(snaps[i].Devices, d)
		}
	}
	for _, c := range clips {
		if i, ok := index[c.Username]; ok {
			snaps[i].Clips = append(snaps[i].Clips, c)
		}
	}
	return snaps
}
