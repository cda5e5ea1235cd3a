package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/dto"
	"github.com/ahmetcoskunkizilkaya/clipsync/internal/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	store   *store.Store
	clips   *ClipboardStore
	devices *DeviceRegistry
	auth    *AuthService
	sync    *SyncService
	clock   *fakeClock
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.New()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}

	clips := NewClipboardStore(st)
	clips.now = clock.Now
	devices := NewDeviceRegistry(st, clips)
	devices.now = clock.Now
	auth := NewAuthService(st, devices, clips, NewTokenIssuer("", time.Hour))
	auth.hashCost = bcrypt.MinCost

	return &fixture{
		store:   st,
		clips:   clips,
		devices: devices,
		auth:    auth,
		sync:    NewSyncService(devices, clips),
		clock:   clock,
	}
}

func (f *fixture) register(t *testing.T, username, password string) {
	t.Helper()
	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Username: username, Password: password})
	require.NoError(t, err)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "pw1"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.UserCount)
	assert.Equal(t, "alice", resp.Username)

	_, err = f.auth.Register(ctx, &dto.RegisterRequest{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestRegister_PasswordIsHashed(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")

	u, err := f.store.User("alice")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("pw1")))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	info := &dto.DeviceInfo{DeviceID: "d1"}

	_, err := f.auth.Login(context.Background(), &dto.LoginRequest{Username: "alice", Password: "nope", DeviceInfo: info})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = f.auth.Login(context.Background(), &dto.LoginRequest{Username: "bob", Password: "pw1", DeviceInfo: info})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestLogin_NewThenReturningDevice(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	resp, err := f.auth.Login(ctx, &dto.LoginRequest{
		Username: "alice", Password: "pw1",
		DeviceInfo: &dto.DeviceInfo{DeviceID: "d1", OS: "Linux"},
	})
	require.NoError(t, err)
	assert.Equal(t, PlaceholderToken, resp.Token)
	assert.Equal(t, "d1", resp.DeviceID)
	require.Len(t, resp.Devices, 1)
	assert.Equal(t, resp.CurrentDevice.FirstLogin, resp.CurrentDevice.LastLogin)
	assert.Equal(t, "设备1", resp.CurrentDevice.Label)
	assert.NotNil(t, resp.Clipboards)
	first := resp.CurrentDevice.FirstLogin

	f.clock.Advance(time.Minute)
	resp, err = f.auth.Login(ctx, &dto.LoginRequest{
		Username: "alice", Password: "pw1",
		DeviceInfo: &dto.DeviceInfo{DeviceID: "d1", OS: "Darwin", IPAddress: "10.0.0.9"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Devices, 1)
	assert.Equal(t, first, resp.CurrentDevice.FirstLogin)
	assert.True(t, resp.CurrentDevice.LastLogin.After(first))
	assert.Equal(t, "Darwin", resp.CurrentDevice.OS)
	assert.Equal(t, "10.0.0.9", resp.CurrentDevice.IPAddress)
	assert.Equal(t, "设备1", resp.CurrentDevice.Label)
}

func TestUpsertOnLogin_DefaultLabelSequence(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	d1, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: "a"})
	require.NoError(t, err)
	d2, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: "b", Label: "work laptop"})
	require.NoError(t, err)
	d3, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: "c"})
	require.NoError(t, err)

	assert.Equal(t, "设备1", d1.Label)
	assert.Equal(t, "work laptop", d2.Label)
	assert.Equal(t, "设备3", d3.Label)
}

func TestUpsertOnLogin_RequiresDeviceID(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")

	_, err := f.devices.UpsertOnLogin(context.Background(), "alice", dto.DeviceInfo{OS: "Linux"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpsertOnLogin_MergesMetadata(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	_, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: "d1", Metadata: map[string]any{"os_version": "1"}})
	require.NoError(t, err)
	d, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: "d1", Metadata: map[string]any{"mac_address": "aa"}})
	require.NoError(t, err)

	assert.Equal(t, "1", d.Metadata["os_version"])
	assert.Equal(t, "aa", d.Metadata["mac_address"])
}

func TestDeviceRegistry_UnknownUserOrDevice(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	_, err := f.devices.List("ghost")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)

	assert.ErrorIs(t, f.devices.Rename(ctx, "ghost", "d1", "x"), apperr.ErrUserNotFound)
	assert.ErrorIs(t, f.devices.Rename(ctx, "alice", "d1", "x"), apperr.ErrDeviceNotFound)

	_, err = f.devices.Remove(ctx, "alice", "d1")
	assert.ErrorIs(t, err, apperr.ErrDeviceNotFound)
}

func TestRename(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	_, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: "d1"})
	require.NoError(t, err)
	require.NoError(t, f.devices.Rename(ctx, "alice", "d1", "kitchen"))

	list, err := f.devices.List("alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kitchen", list[0].Label)
}

func TestRemove_CascadesOnlyMatchingDevice(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	f.register(t, "bob", "pw2")
	ctx := context.Background()

	for _, id := range []string{"d1", "d2"} {
		_, err := f.devices.UpsertOnLogin(ctx, "alice", dto.DeviceInfo{DeviceID: id})
		require.NoError(t, err)
	}
	for _, dev := range []string{"d1", "d2", "d1", "d1"} {
		_, err := f.clips.Append(ctx, "alice", "x", dev, "")
		require.NoError(t, err)
	}
	_, err := f.clips.Append(ctx, "bob", "bob's", "d1", "")
	require.NoError(t, err)

	n, err := f.devices.Remove(ctx, "alice", "d1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	clips, err := f.clips.List("alice")
	require.NoError(t, err)
	require.Len(t, clips, 1)
	assert.Equal(t, "d2", clips[0].DeviceID)

	devices, err := f.devices.List("alice")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "d2", devices[0].DeviceID)

	bobClips, err := f.clips.List("bob")
	require.NoError(t, err)
	assert.Len(t, bobClips, 1)
}

func TestAppend_StampsAndUniqueIDs(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	a, err := f.clips.Append(ctx, "alice", "hello", "d1", "")
	require.NoError(t, err)
	b, err := f.clips.Append(ctx, "alice", "world", "d1", "text/uri-list")
	require.NoError(t, err)

	assert.Equal(t, a.CreatedAt, a.LastModified)
	assert.Equal(t, "text/plain", a.ContentType)
	assert.Equal(t, "text/uri-list", b.ContentType)
	assert.NotEmpty(t, a.ClipID)
	assert.NotEqual(t, a.ClipID, b.ClipID)

	list, err := f.clips.List("alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hello", list[0].Content)
	assert.Equal(t, "world", list[1].Content)
}

func TestAppend_RetriesCollidingID(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ids := []string{"same", "same", "other"}
	f.clips.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	ctx := context.Background()

	a, err := f.clips.Append(ctx, "alice", "1", "d1", "")
	require.NoError(t, err)
	b, err := f.clips.Append(ctx, "alice", "2", "d1", "")
	require.NoError(t, err)
	assert.Equal(t, "same", a.ClipID)
	assert.Equal(t, "other", b.ClipID)
}

func TestAppend_UnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.clips.Append(context.Background(), "ghost", "x", "d1", "")
	assert.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestClear_ReturnsPriorCount(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.clips.Append(ctx, "alice", "x", "d1", "")
		require.NoError(t, err)
	}
	n, err := f.clips.Clear(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := f.clips.List("alice")
	require.NoError(t, err)
	assert.Empty(t, list)

	n, err = f.clips.Clear(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRemoveClip(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	rec, err := f.clips.Append(ctx, "alice", "hello", "d1", "")
	require.NoError(t, err)

	_, _, err = f.clips.Remove(ctx, "alice", "missing")
	assert.ErrorIs(t, err, apperr.ErrClipNotFound)

	removed, remaining, err := f.clips.Remove(ctx, "alice", rec.ClipID)
	require.NoError(t, err)
	assert.Equal(t, "hello", removed.Content)
	assert.Equal(t, 0, remaining)
}

func TestPurgeByDevice_Idempotent(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	_, err := f.clips.Append(ctx, "alice", "x", "d1", "")
	require.NoError(t, err)

	n, err := f.clips.PurgeByDevice(ctx, "alice", "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = f.clips.PurgeByDevice(ctx, "alice", "d1")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestSyncService_DeleteClipboardPreview(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	ctx := context.Background()

	long := "abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz0123"
	added, err := f.sync.AddClipboard(ctx, &dto.AddClipboardRequest{Username: "alice", Content: long, DeviceID: "d1"})
	require.NoError(t, err)
	require.Len(t, added.Clipboards, 1)

	resp, err := f.sync.DeleteClipboard(ctx, &dto.DeleteClipboardRequest{Username: "alice", ClipID: added.ClipID})
	require.NoError(t, err)
	assert.Equal(t, "Clipboard content deleted: '"+long[:50]+"...'", resp.Message)
	assert.Equal(t, 0, resp.RemainingClips)
}

func TestSyncService_MissingUsernameParam(t *testing.T) {
	f := newFixture(t)
	_, err := f.sync.GetDevices("")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = f.sync.GetClipboards("")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestIsCurrent(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "pw1")
	d, err := f.devices.UpsertOnLogin(context.Background(), "alice", dto.DeviceInfo{DeviceID: "d1"})
	require.NoError(t, err)

	assert.True(t, d.IsCurrent("d1"))
	assert.False(t, d.IsCurrent("d2"))
	assert.False(t, d.IsCurrent(""))
}

func TestTokenIssuer(t *testing.T) {
	tok, err := NewTokenIssuer("", time.Hour).Issue("alice", "d1")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderToken, tok)

	tok, err = NewTokenIssuer("secret", time.Hour).Issue("alice", "d1")
	require.NoError(t, err)

	parsed, err := jwt.Parse(tok, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "d1", claims["device_id"])
}

func TestSeedDemo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.auth.SeedDemo(ctx))
	require.NoError(t, f.auth.SeedDemo(ctx))

	devices, err := f.devices.List(DemoUsername)
	require.NoError(t, err)
	assert.Len(t, devices, 3)
	clips, err := f.clips.List(DemoUsername)
	require.NoError(t, err)
	assert.Len(t, clips, 5)

	_, err = f.auth.Login(ctx, &dto.LoginRequest{
		Username: DemoUsername, Password: DemoPassword,
		DeviceInfo: &dto.DeviceInfo{DeviceID: "device-001"},
	})
	assert.NoError(t, err)
}
