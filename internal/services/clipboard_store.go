package services

import (
	"context"
	"slices"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"github.com/google/uuid"
)

// ClipboardStore owns every mutation of a user's clipboard records.
type ClipboardStore struct {
	store *store.Store
	now   func() time.Time
	newID func() string
}

func NewClipboardStore(st *store.Store) *ClipboardStore {
	return &ClipboardStore{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Append stores a new record stamped with created_at == last_modified == now.
func (s *ClipboardStore) Append(ctx context.Context, username, content, deviceID, contentType string) (models.ClipboardRecord, error) {
	if contentType == "" {
		contentType = models.DefaultContentType
	}
	now := s.now()
	rec := models.ClipboardRecord{
		DeviceID:     deviceID,
		Content:      content,
		ContentType:  contentType,
		CreatedAt:    now,
		LastModified: now,
	}

	err := s.store.Update(ctx, username, func(tx *store.Tx) error {
		rec.ClipID = s.uniqueID(tx.Clips())
		tx.AppendClip(rec)
		return nil
	})
	if err != nil {
		return models.ClipboardRecord{}, err
	}
	rec.Username = username
	metrics.ClipsAppended.Inc()
	return rec, nil
}

// List returns the user's records in insertion order.
func (s *ClipboardStore) List(username string) ([]models.ClipboardRecord, error) {
	var out []models.ClipboardRecord
	err := s.store.View(username, func(tx *store.Tx) error {
		out = make([]models.ClipboardRecord, len(tx.Clips()))
		copy(out, tx.Clips())
		return nil
	})
	return out, err
}

// Remove deletes one record and returns it together with the number of
// records left.
func (s *ClipboardStore) Remove(ctx context.Context, username, clipID string) (models.ClipboardRecord, int, error) {
	var (
		removed   models.ClipboardRecord
		remaining int
	)
	err := s.store.Update(ctx, username, func(tx *store.Tx) error {
		rec, ok := tx.DeleteClip(clipID)
		if !ok {
			return apperr.ErrClipNotFound
		}
		removed, remaining = rec, len(tx.Clips())
		return nil
	})
	if err != nil {
		return models.ClipboardRecord{}, 0, err
	}
	metrics.ClipsRemoved.WithLabelValues("delete").Inc()
	return removed, remaining, nil
}

// PurgeByDevice removes every record that originated from deviceID. It is
// idempotent and reports 0 when nothing matched.
func (s *ClipboardStore) PurgeByDevice(ctx context.Context, username, deviceID string) (int, error) {
	var n int
	err := s.store.Update(ctx, username, func(tx *store.Tx) error {
		n = s.purge(tx, deviceID)
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.ClipsRemoved.WithLabelValues("cascade").Add(float64(n))
	return n, nil
}

// Clear removes all of the user's records and returns the prior count.
func (s *ClipboardStore) Clear(ctx context.Context, username string) (int, error) {
	var n int
	err := s.store.Update(ctx, username, func(tx *store.Tx) error {
		n = tx.ClearClips()
		return nil
	})
	if err != nil {
		return 0, err
	}
	metrics.ClipsRemoved.WithLabelValues("clear").Add(float64(n))
	return n, nil
}

// purge runs inside a caller's transaction so device removal and the cascade
// commit together.
func (s *ClipboardStore) purge(tx *store.Tx, deviceID string) int {
	return tx.DeleteClipsByDevice(deviceID)
}

func (s *ClipboardStore) uniqueID(existing []models.ClipboardRecord) string {
	for {
		id := s.newID()
		if !slices.ContainsFunc(existing, func(c models.ClipboardRecord) bool { return c.ClipID == id }) {
			return id
		}
	}
}
