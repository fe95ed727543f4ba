package customorders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomOrder, error)
	FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.CustomOrder, error)
	MarkPaid(ctx context.Context, id uuid.UUID, update PaidUpdate) (bool, error)
}

// PaidUpdate carries the checkout-derived fields written when a commission
// transitions to paid.
type PaidUpdate struct {
	SessionID       string
	PaymentIntentID string
	CustomerEmail   string
	ShippingName    string
	Line1           string
	Line2           string
	City            string
	State           string
	PostalCode      string
	Country         string
	ShippingCents   int64
	PaidAt          time.Time
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a custom orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomOrder, error) {
	var order models.CustomOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.CustomOrder, error) {
	var order models.CustomOrder
	err := r.db.WithContext(ctx).
		Where("stripe_payment_intent_id = ?", paymentIntentID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// MarkPaid flips a commission to paid. The payment-intent predicate makes the
// transition single-shot: once a payment intent is recorded, a redelivered
// webhook matches zero rows and the caller treats that as already-processed.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, update PaidUpdate) (bool, error) {
	paidAt := update.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	values := map[string]any{
		"status":  enums.CustomOrderStatusPaid,
		"paid_at": paidAt,
	}
	if update.SessionID != "" {
		values["stripe_session_id"] = update.SessionID
	}
	if update.PaymentIntentID != "" {
		values["stripe_payment_intent_id"] = update.PaymentIntentID
	}
	if update.CustomerEmail != "" {
		values["customer_email"] = update.CustomerEmail
	}
	if update.ShippingName != "" {
		values["shipping_name"] = update.ShippingName
		values["shipping_address_line1"] = update.Line1
		values["shipping_address_line2"] = update.Line2
		values["shipping_city"] = update.City
		values["shipping_state"] = update.State
		values["shipping_postal_code"] = update.PostalCode
		values["shipping_country"] = update.Country
	}
	if update.ShippingCents > 0 {
		values["shipping_cents"] = update.ShippingCents
	}

	res := r.db.WithContext(ctx).Model(&models.CustomOrder{}).
		Where("id = ? AND stripe_payment_intent_id IS NULL", id).
		Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
