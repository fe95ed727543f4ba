package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

// CustomOrder is a bespoke commission paid through a one-off checkout link.
// Status transitions pending -> paid exactly once; the payment intent column
// doubles as the reconciler's idempotency marker.
type CustomOrder struct {
	ID                    uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Status                enums.CustomOrderStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Description           string                  `gorm:"column:description"`
	AmountCents           int64                   `gorm:"column:amount_cents;not null"`
	ShippingCents         int64                   `gorm:"column:shipping_cents;not null;default:0"`
	CustomerEmail         string                  `gorm:"column:customer_email"`
	ShippingName          string                  `gorm:"column:shipping_name"`
	ShippingAddressLine1  string                  `gorm:"column:shipping_address_line1"`
	ShippingAddressLine2  string                  `gorm:"column:shipping_address_line2"`
	ShippingCity          string                  `gorm:"column:shipping_city"`
	ShippingState         string                  `gorm:"column:shipping_state"`
	ShippingPostalCode    string                  `gorm:"column:shipping_postal_code"`
	ShippingCountry       string                  `gorm:"column:shipping_country"`
	ImageURL              *string                 `gorm:"column:image_url"`
	StripeSessionID       *string                 `gorm:"column:stripe_session_id"`
	StripePaymentIntentID *string                 `gorm:"column:stripe_payment_intent_id;uniqueIndex"`
	PaidAt                *time.Time              `gorm:"column:paid_at"`
	CreatedAt             time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
