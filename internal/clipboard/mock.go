package clipboard

import (
	"context"
	"sync"
	"time"
)

// MockClipboard is an in-memory Clipboard for tests.
type MockClipboard struct {
	mu      sync.RWMutex
	content string
	readErr error

	watcherMu sync.Mutex
	watchers  []chan string
}

func NewMockClipboard() *MockClipboard {
	return &MockClipboard{}
}

func (m *MockClipboard) Read() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	return m.content, nil
}

// Write sets the content without notifying watchers, like an OS clipboard
// written by this process.
func (m *MockClipboard) Write(content string) error {
	m.mu.Lock()
	m.content = content
	m.mu.Unlock()
	return nil
}

// SetReadError makes subsequent reads fail with err until cleared with nil.
func (m *MockClipboard) SetReadError(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

func (m *MockClipboard) Watch(ctx context.Context) <-chan string {
	ch := make(chan string)

	m.watcherMu.Lock()
	m.watchers = append(m.watchers, ch)
	m.watcherMu.Unlock()

	go func() {
		<-ctx.Done()
		m.watcherMu.Lock()
		defer m.watcherMu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch
}

// EmitChange simulates a change made by another application.
func (m *MockClipboard) EmitChange(content string) {
	m.mu.Lock()
	m.content = content
	m.mu.Unlock()

	m.watcherMu.Lock()
	defer m.watcherMu.Unlock()
	for _, ch := range m.watchers {
		select {
		case ch <- content:
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// WatcherCount returns the number of active watchers.
func (m *MockClipboard) WatcherCount() int {
	m.watcherMu.Lock()
	defer m.watcherMu.Unlock()
	return len(m.watchers)
}
