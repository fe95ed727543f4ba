package promotions

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/pkg/db/models"
)

// Repository reads promotion configuration. This side of the system never
// writes promotions; the admin surface owns them.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	MostRecentEnabled(ctx context.Context) (*models.Promotion, error)
	CategoriesBySlugs(ctx context.Context, slugs []string) ([]models.Category, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a promotions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// MostRecentEnabled returns the enabled promotion that was updated last, or
// nil when none is enabled. The admin surface keeps at most one enabled; the
// ordering makes stale duplicates harmless.
func (r *repository) MostRecentEnabled(ctx context.Context) (*models.Promotion, error) {
	var promo models.Promotion
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("updated_at DESC").
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promo, nil
}

// CategoriesBySlugs loads the named categories so scope checks can match a
// product's category by slug or display name.
func (r *repository) CategoriesBySlugs(ctx context.Context, slugs []string) ([]models.Category, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("slug IN ?", slugs).
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
