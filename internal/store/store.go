// Package store keeps every user's devices and clipboard records in memory,
// partitioned per user. Each user has its own mutex; all reads and writes of a
// user's data happen inside View or Update so invariants spanning devices and
// clipboard records hold under concurrent requests.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
)

// Persister receives every committed mutation. A non-nil error aborts the
// mutation and leaves the in-memory state untouched.
type Persister interface {
	CreateUser(ctx context.Context, user *models.User) error
	Apply(ctx context.Context, username string, changes []Change) error
}

// Snapshot is one user's full state, used to hydrate the store at startup.
type Snapshot struct {
	User    models.User
	Devices []models.Device
	Clips   []models.ClipboardRecord
}

type bucket struct {
	mu      sync.Mutex
	user    models.User
	devices []models.Device
	clips   []models.ClipboardRecord
}

type Store struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
	persist Persister
}

type Option func(*Store)

// WithPersister makes every mutation write through p before it is committed.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

func New(opts ...Option) *Store {
	s := &Store{buckets: make(map[string]*bucket)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads snapshots without passing them to the persister.
func (s *Store) Restore(snaps []Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, snap := range snaps {
		s.buckets[snap.User.Username] = &bucket{
			user:    snap.User,
			devices: slices.Clone(snap.Devices),
			clips:   slices.Clone(snap.Clips),
		}
	}
}

// CreateUser registers a new user and returns the resulting user count.
func (s *Store) CreateUser(ctx context.Context, user models.User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[user.Username]; ok {
		return 0, apperr.ErrConflict
	}
	if s.persist != nil {
		if err := s.persist.CreateUser(ctx, &user); err != nil {
			return 0, fmt.Errorf("failed to persist user: %w", err)
		}
	}
	s.buckets[user.Username] = &bucket{user: user}
	return len(s.buckets), nil
}

func (s *Store) User(username string) (models.User, error) {
	b, err := s.bucket(username)
	if err != nil {
		return models.User{}, err
	}
	return b.user, nil
}

func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

// View runs fn with read-only access to one user's data.
func (s *Store) View(username string, fn func(tx *Tx) error) error {
	b, err := s.bucket(username)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	return fn(&Tx{username: username, devices: b.devices, clips: b.clips, readOnly: true})
}

// Update runs fn against a staged copy of one user's data under that user's
// lock. The copy replaces the live data only if fn and the persister succeed.
func (s *Store) Update(ctx context.Context, username string, fn func(tx *Tx) error) error {
	b, err := s.bucket(username)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	tx := &Tx{
		username: username,
		devices:  slices.Clone(b.devices),
		clips:    slices.Clone(b.clips),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.changes) == 0 {
		return nil
	}
	if s.persist != nil {
		if err := s.persist.Apply(ctx, username, tx.changes); err != nil {
			return fmt.Errorf("failed to persist changes: %w", err)
		}
	}
	b.devices = tx.devices
	b.clips = tx.clips
	return nil
}

func (s *Store) bucket(username string) (*bucket, error) {
	s.mu.RLock()
	b, ok := s.buckets[username]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.ErrUserNotFound
	}
	return b, nil
}
