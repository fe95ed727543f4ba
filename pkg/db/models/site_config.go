package models

import "time"

// SiteConfig is a key/value row of storefront settings.
type SiteConfig struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SiteConfig) TableName() string {
	return "site_config"
}
