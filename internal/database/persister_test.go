package database

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/clipsync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupSnapshots(t *testing.T) {
	users := []models.User{{Username: "alice"}, {Username: "bob"}}
	devices := []models.Device{
		{Username: "alice", DeviceID: "d1"},
		{Username: "bob", DeviceID: "d9"},
		{Username: "ghost", DeviceID: "dx"},
	}
	clips := []models.ClipboardRecord{
		{Username: "alice", ClipID: "c1"},
		{Username: "alice", ClipID: "c2"},
	}

	snaps := groupSnapshots(users, devices, clips)
	require.Len(t, snaps, 2)

	assert.Equal(t, "alice", snaps[0].User.Username)
	assert.Len(t, snaps[0].Devices, 1)
	assert.Len(t, snaps[0].Clips, 2)
	assert.Equal(t, "c1", snaps[0].Clips[0].ClipID)

	assert.Equal(t, "bob", snaps[1].User.Username)
	assert.Len(t, snaps[1].Devices, 1)
	assert.Empty(t, snaps[1].Clips)
}

func TestPingDisabled(t *testing.T) {
	DB = nil
	assert.Equal(t, "disabled", Ping())
	assert.NoError(t, Close())
}
