// Package monitor turns local clipboard changes into uploaded records.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/client"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/clipboard"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/google/uuid"
)

// DefaultPollInterval is the fallback re-check period used alongside the
// clipboard's own change notifications.
const DefaultPollInterval = 30 * time.Second

var (
	ErrRunning = errors.New("monitor is already running")
	ErrStopped = errors.New("monitor is not running")
)

// Syncer is the part of the sync client the monitor drives.
type Syncer interface {
	AddLocal(rec models.ClipboardRecord) client.DisplayRecord
	Upload(username, deviceID, content, contentType string) (models.ClipboardRecord, error)
}

type Option func(*Monitor)

func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) { m.interval = d }
}

// WithNotifier sets the callback for transient user notifications.
func WithNotifier(fn func(msg string)) Option {
	return func(m *Monitor) { m.notify = fn }
}

func withClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

type copyRequest struct {
	content string
	done    chan error
}

// Monitor watches the clipboard from a single intake goroutine, so the
// last-seen content is only ever touched sequentially. Detected content is
// uploaded by one worker in detection order.
type Monitor struct {
	clip     clipboard.Clipboard
	sync     Syncer
	username string
	deviceID string
	interval time.Duration
	notify   func(string)
	now      func() time.Time

	copies chan copyRequest

	queueMu sync.Mutex
	queue   []string
	wake    chan struct{}
	started bool
	done    chan struct{}

	lastSeen string
}

func New(clip clipboard.Clipboard, s Syncer, username, deviceID string, opts ...Option) *Monitor {
	m := &Monitor{
		clip:     clip,
		sync:     s,
		username: username,
		deviceID: deviceID,
		interval: DefaultPollInterval,
		notify:   func(string) {},
		now:      time.Now,
		copies:   make(chan copyRequest),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run consumes change notifications, poll ticks and copy requests until ctx
// is cancelled. Uploads still queued when it returns are finished by the
// worker; Wait blocks until it exits.
func (m *Monitor) Run(ctx context.Context) error {
	m.queueMu.Lock()
	if m.started {
		m.queueMu.Unlock()
		return ErrRunning
	}
	m.started = true
	m.queueMu.Unlock()

	// The worker outlives the intake loop so nothing enqueued is dropped.
	stopped := make(chan struct{})
	defer close(stopped)
	go m.uploadLoop(stopped)

	changes := m.clip.Watch(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("clipboard monitor started", "username", m.username, "device_id", m.deviceID, "poll_interval", m.interval)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case content, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			m.intake(content)

		case <-ticker.C:
			content, err := m.clip.Read()
			if err != nil {
				slog.Warn("clipboard read failed", "error", err)
				continue
			}
			m.intake(content)

		case req := <-m.copies:
			req.done <- m.copyBack(req.content)
		}
	}
}

// intake must only run on the Run goroutine.
func (m *Monitor) intake(raw string) bool {
	content := strings.TrimSpace(raw)
	if content == "" || content == m.lastSeen {
		return false
	}
	m.lastSeen = content

	now := m.now()
	rec := models.ClipboardRecord{
		ClipID:       "local-" + uuid.NewString(),
		DeviceID:     m.deviceID,
		Content:      content,
		ContentType:  models.DefaultContentType,
		CreatedAt:    now,
		LastModified: now,
	}
	m.sync.AddLocal(rec)
	m.notify("New clipboard content detected")

	m.enqueue(content)
	return true
}

// enqueue never blocks the intake goroutine.
func (m *Monitor) enqueue(content string) {
	m.queueMu.Lock()
	m.queue = append(m.queue, content)
	m.queueMu.Unlock()

	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Monitor) next() (string, bool) {
	m.queueMu.Lock()
	defer m.queueMu.Unlock()
	if len(m.queue) == 0 {
		return "", false
	}
	content := m.queue[0]
	m.queue = m.queue[1:]
	return content, true
}

// uploadLoop is the only goroutine that talks to the gateway, so records
// reach it in the order they were detected.
func (m *Monitor) uploadLoop(stopped <-chan struct{}) {
	defer close(m.done)
	for {
		select {
		case <-m.wake:
			m.drain()
		case <-stopped:
			m.drain()
			return
		}
	}
}

func (m *Monitor) drain() {
	for {
		content, ok := m.next()
		if !ok {
			return
		}
		m.upload(content)
	}
}

func (m *Monitor) upload(content string) {
	if _, err := m.sync.Upload(m.username, m.deviceID, content, models.DefaultContentType); err != nil {
		slog.Warn("clipboard upload failed", "username", m.username, "error", err)
		return
	}
	slog.Debug("clipboard uploaded", "username", m.username, "device_id", m.deviceID)
}

func (m *Monitor) copyBack(content string) error {
	if err := m.clip.Write(content); err != nil {
		return err
	}
	m.lastSeen = strings.TrimSpace(content)
	m.notify("Copied to clipboard")
	return nil
}

// Copy writes content to the local clipboard through the intake goroutine so
// that it is not uploaded again as a new record.
func (m *Monitor) Copy(ctx context.Context, content string) error {
	req := copyRequest{content: content, done: make(chan error, 1)}
	select {
	case m.copies <- req:
	case <-ctx.Done():
		return ErrStopped
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until the upload worker has exited after Run's context was
// cancelled. Without a running worker it uploads whatever is queued itself.
func (m *Monitor) Wait() {
	m.queueMu.Lock()
	started := m.started
	m.queueMu.Unlock()
	if !started {
		m.drain()
		return
	}
	<-m.done
}
