package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/pkg/db"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	FindByDisplayID(ctx context.Context, displayID string) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
}

// schemaCapabilities caches whether the deployed orders table carries the
// promo columns. Shared across WithTx copies so the probe runs once per
// process, not once per transaction.
type schemaCapabilities struct {
	mu           sync.Mutex
	probed       bool
	promoColumns bool
}

type repository struct {
	db   *gorm.DB
	caps *schemaCapabilities
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(gdb *gorm.DB) Repository {
	return &repository{db: gdb, caps: &schemaCapabilities{}}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, caps: r.caps}
}

// FindByPaymentIntentID returns nil when no order references the payment
// intent.
func (r *repository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("payment_intent_id = ?", paymentIntentID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// FindByDisplayID returns nil when no order carries the display ID.
func (r *repository) FindByDisplayID(ctx context.Context, displayID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("display_id = ?", displayID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder inserts the order row. When the deployed schema predates the
// promo columns the insert retries without them, so a webhook arriving
// mid-deploy still lands an order instead of a 500.
func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	if r.supportsPromoColumns(ctx) {
		err := r.db.WithContext(ctx).Omit("Items").Create(order).Error
		if err == nil || !db.IsMissingColumn(err) {
			return err
		}
		r.markLegacySchema()
	}
	return r.db.WithContext(ctx).
		Omit("Items", "CardBrand", "PromoCode", "PromoPercentOff", "PromoFreeShipping").
		Create(order).Error
}

func (r *repository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) supportsPromoColumns(ctx context.Context) bool {
	r.caps.mu.Lock()
	defer r.caps.mu.Unlock()
	if !r.caps.probed {
		err := r.db.WithContext(ctx).Exec("SELECT promo_code FROM orders WHERE 1=0").Error
		r.caps.promoColumns = !db.IsMissingColumn(err)
		r.caps.probed = true
	}
	return r.caps.promoColumns
}

func (r *repository) markLegacySchema() {
	r.caps.mu.Lock()
	defer r.caps.mu.Unlock()
	r.caps.probed = true
	r.caps.promoColumns = false
}
