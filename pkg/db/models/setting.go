package models

import "time"

// Setting is a key/value row for shop-wide presentation state (section
// banners, the shop logo file id).
type Setting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
