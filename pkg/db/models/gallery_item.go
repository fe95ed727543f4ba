package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

// GalleryItem is the public "sold gallery" projection. Rows are upserted keyed
// by (source_type, source_id); entries without an image stay hidden.
type GalleryItem struct {
	ID         uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SourceType enums.GallerySource `gorm:"column:source_type;type:text;not null;uniqueIndex:idx_gallery_source"`
	SourceID   uuid.UUID           `gorm:"column:source_id;type:uuid;not null;uniqueIndex:idx_gallery_source"`
	Status     string              `gorm:"column:status;not null;default:'sold'"`
	Title      string              `gorm:"column:title"`
	ImageURL   *string             `gorm:"column:image_url"`
	Hidden     bool                `gorm:"column:hidden;not null;default:false"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
