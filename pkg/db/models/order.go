package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/pkg/enums"
)

// Order is the durable record of one reconciled payment. Rows are created
// exactly once per payment intent and never mutated afterwards, except for
// display-ID backfill on legacy rows that predate the sequencer.
type Order struct {
	ID                   uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DisplayID            *string         `gorm:"column:display_id;uniqueIndex"`
	PaymentIntentID      *string         `gorm:"column:payment_intent_id;uniqueIndex"`
	TotalCents           int64           `gorm:"column:total_cents;not null"`
	Currency             string          `gorm:"column:currency;not null;default:'usd'"`
	CustomerEmail        string          `gorm:"column:customer_email"`
	ShippingName         string          `gorm:"column:shipping_name"`
	ShippingAddressLine1 string          `gorm:"column:shipping_address_line1"`
	ShippingAddressLine2 string          `gorm:"column:shipping_address_line2"`
	ShippingCity         string          `gorm:"column:shipping_city"`
	ShippingState        string          `gorm:"column:shipping_state"`
	ShippingPostalCode   string          `gorm:"column:shipping_postal_code"`
	ShippingCountry      string          `gorm:"column:shipping_country"`
	CardLast4            string          `gorm:"column:card_last4"`
	CardBrand            string          `gorm:"column:card_brand"`
	ShippingCents        int64           `gorm:"column:shipping_cents;not null;default:0"`
	PromoCode            *string         `gorm:"column:promo_code"`
	PromoPercentOff      *int            `gorm:"column:promo_percent_off"`
	PromoFreeShipping    bool            `gorm:"column:promo_free_shipping;not null;default:false"`
	OrderType            enums.OrderType `gorm:"column:order_type;type:text;not null;default:'shop'"`
	Description          string          `gorm:"column:description"`
	Items                []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
