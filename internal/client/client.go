// Package client is the desktop side of clipsync: it talks to the sync gateway
// and keeps the locally displayed clipboard history.
package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
)

// UnknownDeviceLabel is shown for records whose device was removed.
const UnknownDeviceLabel = "unknown device"

// ErrSync reports that the clipboard list could not be fetched after the
// device list was. The previously displayed records are kept.
var ErrSync = errors.New("sync failed")

// DisplayRecord is a clipboard record joined with its device label.
type DisplayRecord struct {
	models.ClipboardRecord
	DeviceLabel string `json:"device_label"`
}

type Client struct {
	api *transport

	mu       sync.RWMutex
	username string
	deviceID string
	records  []DisplayRecord
	labels   map[string]string
	status   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		api:    newTransport(baseURL, timeout),
		labels: map[string]string{},
	}
}

// Session returns the logged-in username and device id.
func (c *Client) Session() (username, deviceID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.username, c.deviceID
}

// Status returns the last message meant for the user.
func (c *Client) Status() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) SetStatus(msg string) {
	c.mu.Lock()
	c.status = msg
	c.mu.Unlock()
	slog.Info("status", "message", msg)
}

// fail records err as the user-visible status and returns it.
func (c *Client) fail(action string, err error) error {
	c.SetStatus(action + " failed: " + describe(err))
	return err
}

func describe(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Records returns a copy of the displayed list, most recent first.
func (c *Client) Records() []DisplayRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// Record looks up a displayed record by clip id.
func (c *Client) Record(clipID string) (DisplayRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := slices.IndexFunc(c.records, func(r DisplayRecord) bool { return r.ClipID == clipID })
	if i < 0 {
		return DisplayRecord{}, false
	}
	return c.records[i], true
}

// AddLocal puts rec at the top of the displayed list without contacting the
// gateway.
func (c *Client) AddLocal(rec models.ClipboardRecord) DisplayRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := DisplayRecord{ClipboardRecord: rec, DeviceLabel: c.labelFor(rec.DeviceID)}
	c.records = slices.Insert(c.records, 0, d)
	return d
}

// labelFor requires c.mu.
func (c *Client) labelFor(deviceID string) string {
	if l, ok := c.labels[deviceID]; ok && l != "" {
		return l
	}
	return UnknownDeviceLabel
}

func (c *Client) Register(username, password string) (*dto.RegisterResponse, error) {
	var resp dto.RegisterResponse
	if err := c.api.post("/register", dto.RegisterRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, c.fail("register", err)
	}
	c.SetStatus(resp.Message)
	return &resp, nil
}

// Login authenticates this device and seeds the displayed list from the
// login response.
func (c *Client) Login(username, password string, device dto.DeviceInfo) (*dto.LoginResponse, error) {
	req := dto.LoginRequest{Username: username, Password: password, DeviceInfo: &device}
	var resp dto.LoginResponse
	if err := c.api.post("/login", req, &resp); err != nil {
		return nil, c.fail("login", err)
	}
	c.api.setToken(resp.Token)

	c.mu.Lock()
	c.username = username
	c.deviceID = resp.DeviceID
	c.labels = labelIndex(resp.Devices)
	c.records = join(resp.Clipboards, c.labels)
	c.mu.Unlock()

	c.SetStatus(resp.Message)
	return &resp, nil
}

// Refresh fetches devices then clipboards for username and replaces the
// displayed list. A failed device fetch leaves everything untouched; a failed
// clipboard fetch keeps the old list and returns an error wrapping ErrSync.
func (c *Client) Refresh(username string) ([]DisplayRecord, error) {
	devices, err := c.fetchDevices(username)
	if err != nil {
		return nil, c.fail("refresh", err)
	}

	var clips dto.ClipboardsResponse
	if err := c.api.get("/get_clipboards", url.Values{"username": {username}}, &clips); err != nil {
		return nil, c.fail("refresh", fmt.Errorf("%w: %w", ErrSync, err))
	}

	labels := labelIndex(devices)
	records := join(clips.Clipboards, labels)

	c.mu.Lock()
	c.labels = labels
	c.records = records
	c.mu.Unlock()

	c.SetStatus(fmt.Sprintf("synced %d records", len(records)))
	return slices.Clone(records), nil
}

// Upload posts content as a new record. The displayed list is not changed
// here; callers add the optimistic record themselves.
func (c *Client) Upload(username, deviceID, content, contentType string) (models.ClipboardRecord, error) {
	req := dto.AddClipboardRequest{Username: username, Content: content, DeviceID: deviceID, ContentType: contentType}
	var resp dto.AddClipboardResponse
	if err := c.api.post("/add_clipboard", req, &resp); err != nil {
		return models.ClipboardRecord{}, c.fail("upload", err)
	}

	c.SetStatus("uploaded " + resp.ClipID)
	i := slices.IndexFunc(resp.Clipboards, func(r models.ClipboardRecord) bool { return r.ClipID == resp.ClipID })
	if i < 0 {
		return models.ClipboardRecord{ClipID: resp.ClipID, DeviceID: deviceID, Content: content, ContentType: contentType}, nil
	}
	return resp.Clipboards[i], nil
}

// Delete removes a record on the gateway and then from the displayed list.
func (c *Client) Delete(username, clipID string) error {
	var resp dto.DeleteClipboardResponse
	if err := c.api.post("/delete_clipboard", dto.DeleteClipboardRequest{Username: username, ClipID: clipID}, &resp); err != nil {
		return c.fail("delete", err)
	}

	c.mu.Lock()
	c.records = slices.DeleteFunc(c.records, func(r DisplayRecord) bool { return r.ClipID == clipID })
	c.mu.Unlock()

	c.SetStatus(resp.Message)
	return nil
}

func (c *Client) Devices(username string) ([]models.Device, error) {
	devices, err := c.fetchDevices(username)
	if err != nil {
		return nil, c.fail("list devices", err)
	}
	c.mu.Lock()
	c.labels = labelIndex(devices)
	c.mu.Unlock()
	return devices, nil
}

func (c *Client) fetchDevices(username string) ([]models.Device, error) {
	var resp dto.DevicesResponse
	if err := c.api.get("/get_devices", url.Values{"username": {username}}, &resp); err != nil {
		return nil, err
	}
	return resp.Devices, nil
}

// RenameDevice relabels a device and updates labels in the displayed list.
func (c *Client) RenameDevice(username, deviceID, label string) error {
	req := dto.UpdateDeviceLabelRequest{Username: username, DeviceID: deviceID, NewLabel: label}
	var resp dto.UpdateDeviceLabelResponse
	if err := c.api.post("/update_device_label", req, &resp); err != nil {
		return c.fail("rename device", err)
	}

	c.mu.Lock()
	c.labels[deviceID] = resp.NewLabel
	for i := range c.records {
		if c.records[i].DeviceID == deviceID {
			c.records[i].DeviceLabel = resp.NewLabel
		}
	}
	c.mu.Unlock()

	c.SetStatus(resp.Message)
	return nil
}

// RemoveDevice deletes a device and drops its records from the displayed
// list, mirroring the gateway's cascade.
func (c *Client) RemoveDevice(username, deviceID string) (int, error) {
	var resp dto.RemoveDeviceResponse
	if err := c.api.post("/remove_device", dto.RemoveDeviceRequest{Username: username, DeviceID: deviceID}, &resp); err != nil {
		return 0, c.fail("remove device", err)
	}

	c.mu.Lock()
	delete(c.labels, deviceID)
	c.records = slices.DeleteFunc(c.records, func(r DisplayRecord) bool { return r.DeviceID == deviceID })
	c.mu.Unlock()

	c.SetStatus(resp.Message)
	return resp.RemovedClipCount, nil
}

func (c *Client) Clear(username string) (int, error) {
	var resp dto.ClearClipboardsResponse
	if err := c.api.post("/clear_clipboards", dto.ClearClipboardsRequest{Username: username}, &resp); err != nil {
		return 0, c.fail("clear", err)
	}

	c.mu.Lock()
	c.records = nil
	c.mu.Unlock()

	c.SetStatus(resp.Message)
	return resp.DeletedCount, nil
}

func labelIndex(devices []models.Device) map[string]string {
	labels := make(map[string]string, len(devices))
	for _, d := range devices {
		labels[d.DeviceID] = d.Label
	}
	return labels
}

// join labels every record and orders the result newest first. Records with
// equal timestamps keep their fetch order.
func join(clips []models.ClipboardRecord, labels map[string]string) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(clips))
	for _, rec := range clips {
		label := labels[rec.DeviceID]
		if strings.TrimSpace(label) == "" {
			label = UnknownDeviceLabel
		}
		out = append(out, DisplayRecord{ClipboardRecord: rec, DeviceLabel: label})
	}
	slices.SortStableFunc(out, func(a, b DisplayRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}
