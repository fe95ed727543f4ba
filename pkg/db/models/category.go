package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products for display and promotion scoping. Promotions store
// slugs; products may reference a category by slug or by display name.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
