package models

import "time"

const DefaultContentType = "text/plain"

// ClipboardRecord is one shared clipboard entry. DeviceID is a weak reference
// used for labeling and for the device-removal cascade.
type ClipboardRecord struct {
	ClipID       string    `gorm:"size:64;primaryKey" json:"clip_id"`
	Username     string    `gorm:"size:150;not null;index" json:"-"`
	DeviceID     string    `gorm:"size:255;not null;index" json:"device_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ContentType  string    `gorm:"size:100;default:'text/plain'" json:"content_type"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// Preview returns the content shortened to at most n runes, marking
// truncation with "...".
func (c ClipboardRecord) Preview(n int) string {
	r := []rune(c.Content)
	if len(r) <= n {
		return c.Content
	}
	return string(r[:n]) + "..."
}

// TableName keeps the table name stable regardless of the struct name.
func (ClipboardRecord) TableName() string {
	return "clipboard_records"
}
