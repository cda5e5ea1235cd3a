package database

import "gorm.io/gorm"

// ForUser returns a GORM scope that filters by username.
func ForUser(username string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("username = ?", username)
	}
}
