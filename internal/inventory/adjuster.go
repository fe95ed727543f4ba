package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

// Adjuster applies post-sale stock changes. All mutation happens in a single
// conditional UPDATE so concurrent webhook deliveries can never drive a
// quantity negative.
type Adjuster struct {
	db   *gorm.DB
	logg *logger.Logger
}

func NewAdjuster(db *gorm.DB, logg *logger.Logger) (*Adjuster, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle is required")
	}
	return &Adjuster{db: db, logg: logg}, nil
}

// Decrement reduces a product's available quantity by qty, clamping at zero.
// A NULL quantity means a one-of-a-kind piece: the quantity stays NULL and
// the product is marked sold. Returns false when no product matched; a
// missing product is the caller's concern, not an error.
//
// Both CASE expressions read the pre-update quantity, which is what makes the
// statement safe without a surrounding transaction.
func (a *Adjuster) Decrement(ctx context.Context, productID uuid.UUID, qty int64) (bool, error) {
	if qty <= 0 {
		qty = 1
	}

	res := a.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"quantity_available": gorm.Expr(
				"CASE WHEN quantity_available IS NULL THEN NULL WHEN quantity_available > ? THEN quantity_available - ? ELSE 0 END",
				qty, qty,
			),
			"is_sold": gorm.Expr(
				"CASE WHEN quantity_available IS NULL OR quantity_available <= ? THEN ? ELSE is_sold END",
				qty, true,
			),
		})
	if res.Error != nil {
		return false, fmt.Errorf("decrementing product %s: %w", productID, res.Error)
	}
	if res.RowsAffected == 0 {
		if a.logg != nil {
			a.logg.Warn(a.logg.WithField(ctx, "product_id", productID.String()), "inventory decrement matched no product")
		}
		return false, nil
	}
	return true, nil
}
