package clipboard

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

const (
	commandTimeout  = 5 * time.Second
	defaultInterval = 500 * time.Millisecond
)

type tool struct {
	read      string
	readArgs  []string
	write     string
	writeArgs []string
}

// tools lists clipboard command pairs per OS in order of preference.
var tools = map[string][]tool{
	"linux": {
		{read: "wl-paste", readArgs: []string{"--no-newline"}, write: "wl-copy"},
		{read: "xsel", readArgs: []string{"--output", "--clipboard"}, write: "xsel", writeArgs: []string{"--input", "--clipboard"}},
		{read: "xclip", readArgs: []string{"-out", "-selection", "clipboard"}, write: "xclip", writeArgs: []string{"-in", "-selection", "clipboard"}},
	},
	"darwin": {
		{read: "pbpaste", write: "pbcopy"},
	},
	"windows": {
		{read: "powershell", readArgs: []string{"-NoProfile", "-Command", "Get-Clipboard -Raw"}, write: "clip"},
	},
}

// ExecClipboard drives the OS clipboard through command-line tools and
// watches it by polling for content changes.
type ExecClipboard struct {
	tool     tool
	interval time.Duration
	run      func(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error)

	mu       sync.Mutex
	lastHash [sha256.Size]byte
}

// NewPlatform returns an ExecClipboard using the first tool found on PATH.
func NewPlatform() (*ExecClipboard, error) {
	for _, t := range tools[runtime.GOOS] {
		if _, err := exec.LookPath(t.read); err != nil {
			continue
		}
		if _, err := exec.LookPath(t.write); err != nil {
			continue
		}
		return newExecClipboard(t), nil
	}
	return nil, fmt.Errorf("%w on %s (install wl-clipboard, xsel or xclip)", ErrNotSupported, runtime.GOOS)
}

func newExecClipboard(t tool) *ExecClipboard {
	return &ExecClipboard{tool: t, interval: defaultInterval, run: runCommand}
}

func runCommand(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	out, err := cmd.Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%s timed out after %v", name, commandTimeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		// Several tools exit 1 on an empty clipboard.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(out) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

func (c *ExecClipboard) Read() (string, error) {
	out, err := c.run(context.Background(), c.tool.read, c.tool.readArgs, nil)
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return string(out), nil
}

func (c *ExecClipboard) Write(content string) error {
	if _, err := c.run(context.Background(), c.tool.write, c.tool.writeArgs, []byte(content)); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	// Our own write is not reported as a change.
	c.mu.Lock()
	c.lastHash = sha256.Sum256([]byte(content))
	c.mu.Unlock()
	return nil
}

func (c *ExecClipboard) Watch(ctx context.Context) <-chan string {
	ch := make(chan string)

	go func() {
		defer close(ch)

		if content, err := c.Read(); err == nil {
			c.mu.Lock()
			c.lastHash = sha256.Sum256([]byte(content))
			c.mu.Unlock()
		}

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				content, err := c.Read()
				if err != nil {
					continue
				}
				if !c.changed(content) {
					continue
				}
				select {
				case ch <- content:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}

func (c *ExecClipboard) changed(content string) bool {
	h := sha256.Sum256([]byte(content))
	c.mu.Lock()
	defer c.mu.Unlock()
	if h == c.lastHash {
		return false
	}
	c.lastHash = h
	return true
}
