package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

// Promotion is a discount rule. The admin surface guarantees at most one is
// enabled at a time; this core reads, never writes. Window bounds are stored
// as RFC3339 text to match the upstream data shape; a malformed bound makes
// the promotion invalid rather than unbounded.
type Promotion struct {
	ID            uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code          string               `gorm:"column:code;not null"`
	PercentOff    int                  `gorm:"column:percent_off;not null"`
	Scope         enums.PromotionScope `gorm:"column:scope;type:text;not null;default:'global'"`
	CategorySlugs []string             `gorm:"column:category_slugs;type:text;serializer:json"`
	FreeShipping  bool                 `gorm:"column:free_shipping;not null;default:false"`
	Enabled       bool                 `gorm:"column:enabled;not null;default:false"`
	StartsAt      *string              `gorm:"column:starts_at"`
	EndsAt        *string              `gorm:"column:ends_at"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
