// Package clipboard gives the sync client read, write and change-watch access
// to the local system clipboard.
package clipboard

import (
	"context"
	"errors"
)

// ErrNotSupported is returned when no clipboard tool is available.
var ErrNotSupported = errors.New("clipboard: no supported clipboard tool found")

// Clipboard is the host clipboard surface the monitor depends on.
type Clipboard interface {
	// Read returns the current text contents.
	Read() (string, error)

	// Write replaces the clipboard text.
	Write(content string) error

	// Watch emits the clipboard text whenever it changes. The channel is
	// closed when ctx is cancelled.
	Watch(ctx context.Context) <-chan string
}
