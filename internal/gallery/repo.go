package gallery

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Upsert(ctx context.Context, item *models.GalleryItem) error
	Visible(ctx context.Context, limit, offset int) ([]models.GalleryItem, error)
	FindBySource(ctx context.Context, sourceType enums.GallerySource, sourceID uuid.UUID) (*models.GalleryItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a gallery repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert inserts or refreshes the projection row for a source record.
// Re-running the same reconciliation overwrites in place, so duplicate
// webhook deliveries cannot produce duplicate gallery entries.
func (r *repository) Upsert(ctx context.Context, item *models.GalleryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "source_type"}, {Name: "source_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "title", "image_url", "hidden", "updated_at",
			}),
		}).
		Create(item).Error
}

// Visible lists the public gallery: not hidden and carrying an image, newest
// first.
func (r *repository) Visible(ctx context.Context, limit, offset int) ([]models.GalleryItem, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var items []models.GalleryItem
	err := r.db.WithContext(ctx).
		Where("hidden = ? AND image_url IS NOT NULL", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindBySource(ctx context.Context, sourceType enums.GallerySource, sourceID uuid.UUID) (*models.GalleryItem, error) {
	var item models.GalleryItem
	err := r.db.WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
