package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog listing. A NULL QuantityAvailable means a single unique
// piece; the purchase path treats it as exactly one unit.
type Product struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string    `gorm:"column:name;not null"`
	Description       string    `gorm:"column:description"`
	Category          string    `gorm:"column:category"`
	PriceCents        int64     `gorm:"column:price_cents;not null"`
	QuantityAvailable *int64    `gorm:"column:quantity_available"`
	IsSold            bool      `gorm:"column:is_sold;not null;default:false"`
	ImageURL          *string   `gorm:"column:image_url"`
	StripeProductID   *string   `gorm:"column:stripe_product_id"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
