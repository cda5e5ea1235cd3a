package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/client"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/clipboard"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/monitor"
)

// App binds the sync client and the clipboard monitor to a terminal.
type App struct {
	client       *client.Client
	clip         clipboard.Clipboard
	pollInterval time.Duration
	device       func() dto.DeviceInfo
	username     string

	reader *bufio.Reader
	out    io.Writer

	mon     *monitor.Monitor
	stopMon context.CancelFunc
	monDone chan struct{}
}

func NewApp(c *client.Client, clip clipboard.Clipboard, pollInterval time.Duration, username string, in io.Reader, out io.Writer) *App {
	return &App{
		client:       c,
		clip:         clip,
		pollInterval: pollInterval,
		device:       client.HostDevice,
		username:     username,
		reader:       bufio.NewReader(in),
		out:          out,
	}
}

func (a *App) isLoggedIn() bool {
	user, _ := a.client.Session()
	return user != ""
}

func (a *App) status() string {
	user, _ := a.client.Session()
	if user == "" {
		return "not logged in"
	}
	if s := a.client.Status(); s != "" {
		return user + " | " + s
	}
	return user
}

func (a *App) credentials() (string, string, error) {
	username := a.username
	if username == "" {
		var err error
		username, err = GetSimpleText(a.reader, "Enter username", a.out)
		if err != nil {
			return "", "", err
		}
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	if username == "" || password == "" {
		return "", "", errors.New("username and password must not be empty")
	}
	return username, password, nil
}

func (a *App) Register(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	resp, err := a.client.Register(username, password)
	if err != nil {
		fmt.Fprintln(a.out, a.client.Status())
		return err
	}
	a.username = resp.Username
	fmt.Fprintf(a.out, "Registered %s (%d users)\n", resp.Username, resp.UserCount)
	return nil
}

// Login authenticates this host and starts the clipboard monitor.
func (a *App) Login(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	resp, err := a.client.Login(username, password, a.device())
	if err != nil {
		fmt.Fprintln(a.out, a.client.Status())
		return err
	}
	a.username = username
	fmt.Fprintf(a.out, "Logged in as %s on %s, %d devices, %d records\n",
		username, resp.CurrentDevice.Label, len(resp.Devices), len(resp.Clipboards))

	a.startMonitor(ctx, username, resp.DeviceID)
	return nil
}

func (a *App) startMonitor(ctx context.Context, username, deviceID string) {
	a.stopMonitor()
	monCtx, cancel := context.WithCancel(ctx)
	a.mon = monitor.New(a.clip, a.client, username, deviceID,
		monitor.WithPollInterval(a.pollInterval),
		monitor.WithNotifier(func(msg string) { a.client.SetStatus(msg) }),
	)
	a.stopMon = cancel
	a.monDone = make(chan struct{})
	go func(m *monitor.Monitor, done chan struct{}) {
		defer close(done)
		_ = m.Run(monCtx)
	}(a.mon, a.monDone)
}

func (a *App) stopMonitor() {
	if a.stopMon == nil {
		return
	}
	a.stopMon()
	<-a.monDone
	a.mon.Wait()
	a.mon, a.stopMon, a.monDone = nil, nil, nil
}

// Close stops the monitor and waits for pending uploads.
func (a *App) Close() {
	a.stopMonitor()
}

func (a *App) List(ctx context.Context) error {
	records := a.client.Records()
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No clipboard records")
		return nil
	}
	for _, r := range records {
		fmt.Fprintln(a.out, formatRecord(r))
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	user, _ := a.client.Session()
	if _, err := a.client.Refresh(user); err != nil {
		fmt.Fprintln(a.out, a.client.Status())
		return err
	}
	return a.List(ctx)
}

func (a *App) Delete(ctx context.Context, clipID string) error {
	user, _ := a.client.Session()
	err := a.client.Delete(user, clipID)
	fmt.Fprintln(a.out, a.client.Status())
	return err
}

// Copy writes a displayed record back to the local clipboard.
func (a *App) Copy(ctx context.Context, clipID string) error {
	rec, ok := a.client.Record(clipID)
	if !ok {
		fmt.Fprintln(a.out, "No such record:", clipID)
		return fmt.Errorf("record %s not found", clipID)
	}
	if a.mon == nil {
		return a.clip.Write(rec.Content)
	}
	if err := a.mon.Copy(ctx, rec.Content); err != nil {
		fmt.Fprintln(a.out, "Copy failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Copied", clipID)
	return nil
}

func (a *App) Devices(ctx context.Context) error {
	user, current := a.client.Session()
	devices, err := a.client.Devices(user)
	if err != nil {
		fmt.Fprintln(a.out, a.client.Status())
		return err
	}
	for _, d := range devices {
		marker := " "
		if d.IsCurrent(current) {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %s  %s  %s  last login %s\n",
			marker, d.DeviceID, d.Label, d.OS, d.LastLogin.Local().Format(time.DateTime))
	}
	return nil
}

func (a *App) Rename(ctx context.Context, deviceID, label string) error {
	user, _ := a.client.Session()
	err := a.client.RenameDevice(user, deviceID, label)
	fmt.Fprintln(a.out, a.client.Status())
	return err
}

func (a *App) RemoveDevice(ctx context.Context, deviceID string) error {
	user, _ := a.client.Session()
	_, err := a.client.RemoveDevice(user, deviceID)
	fmt.Fprintln(a.out, a.client.Status())
	return err
}

func (a *App) Clear(ctx context.Context) error {
	user, _ := a.client.Session()
	_, err := a.client.Clear(user)
	fmt.Fprintln(a.out, a.client.Status())
	return err
}

const previewLen = 60

func formatRecord(r client.DisplayRecord) string {
	return fmt.Sprintf("[%s] %s  %s\n    %s",
		r.ClipID, r.CreatedAt.Local().Format(time.DateTime), r.DeviceLabel, r.Preview(previewLen))
}
