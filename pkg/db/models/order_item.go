package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one purchased line within an order. Rows are created alongside
// their order and never individually updated.
type OrderItem struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID    uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID  *uuid.UUID `gorm:"column:product_id;type:uuid"`
	Name       string     `gorm:"column:name;not null"`
	Quantity   int64      `gorm:"column:quantity;not null;default:1"`
	PriceCents int64      `gorm:"column:price_cents;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
