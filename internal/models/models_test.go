package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDevice_IsCurrent(t *testing.T) {
	d := Device{DeviceID: "d1"}
	assert.True(t, d.IsCurrent("d1"))
	assert.False(t, d.IsCurrent("d2"))
	assert.False(t, d.IsCurrent(""))
	assert.False(t, Device{}.IsCurrent(""))
}

func TestClipboardRecord_Preview(t *testing.T) {
	assert.Equal(t, "short", ClipboardRecord{Content: "short"}.Preview(10))
	assert.Equal(t, "剪贴...", ClipboardRecord{Content: "剪贴板内容"}.Preview(2))
	assert.Equal(t, "exact", ClipboardRecord{Content: "exact"}.Preview(5))
}

func TestDevice_CloneDetachesMetadata(t *testing.T) {
	d := Device{DeviceID: "d1", Metadata: map[string]any{"k": "v"}}
	c := d.Clone()
	c.Metadata["k"] = "changed"
	assert.Equal(t, "v", d.Metadata["k"])
}
