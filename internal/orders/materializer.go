package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/pkg/db"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

// ShippingDetails is the flattened destination captured at checkout.
type ShippingDetails struct {
	Name       string
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Country    string
}

// PromoContext records which promotion was in effect when the customer paid.
// It is informational: the charge already happened at the discounted amount.
type PromoContext struct {
	Code         string
	PercentOff   int
	FreeShipping bool
}

// ItemInput is one purchased line to persist.
type ItemInput struct {
	ProductID  *uuid.UUID
	Name       string
	Quantity   int64
	PriceCents int64
}

// MaterializeInput carries everything needed to turn a confirmed payment into
// a durable order.
type MaterializeInput struct {
	PaymentIntentID string
	// DisplayID, when set, pins the order's display ID instead of allocating
	// one, and keys idempotency for payments that carry no intent.
	DisplayID       string
	TotalCents      int64
	Currency        string
	CustomerEmail   string
	Shipping        ShippingDetails
	CardLast4       string
	CardBrand       string
	ShippingCents   int64
	Promo           *PromoContext
	OrderType       enums.OrderType
	Description     string
	Items           []ItemInput
	OccurredAt      time.Time
}

// DisplayIDAllocator hands out sequential display IDs.
type DisplayIDAllocator interface {
	Next(ctx context.Context, at time.Time) (string, error)
}

// Materializer creates orders exactly once per payment. The payment intent is
// the usual dedupe key; payments without one supply a display ID override and
// dedupe on that instead. Duplicate deliveries resolve to the existing order.
type Materializer struct {
	repo Repository
	seq  DisplayIDAllocator
	logg *logger.Logger
}

func NewMaterializer(repo Repository, seq DisplayIDAllocator, logg *logger.Logger) (*Materializer, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if seq == nil {
		return nil, fmt.Errorf("display id allocator is required")
	}
	return &Materializer{repo: repo, seq: seq, logg: logg}, nil
}

// Materialize persists the order, returning the row and whether this call
// created it. The order row is the durability boundary: once it exists the
// payment is reconciled, and item rows are best effort afterwards. A failed
// item insert is logged, not fatal, because failing the whole webhook would
// make the provider redeliver an event we can no longer apply.
func (m *Materializer) Materialize(ctx context.Context, input MaterializeInput) (*models.Order, bool, error) {
	if input.PaymentIntentID == "" && input.DisplayID == "" {
		return nil, false, fmt.Errorf("payment intent id or display id is required")
	}

	existing, err := m.findExisting(ctx, input)
	if err != nil {
		return nil, false, fmt.Errorf("checking for existing order: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	displayID := input.DisplayID
	if displayID == "" {
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = time.Now()
		}
		displayID, err = m.seq.Next(ctx, occurredAt)
		if err != nil {
			return nil, false, fmt.Errorf("allocating display id: %w", err)
		}
	}

	orderType := input.OrderType
	if !orderType.IsValid() {
		orderType = enums.OrderTypeShop
	}
	currency := input.Currency
	if currency == "" {
		currency = "usd"
	}

	order := &models.Order{
		ID:                   uuid.New(),
		DisplayID:            &displayID,
		TotalCents:           input.TotalCents,
		Currency:             currency,
		CustomerEmail:        input.CustomerEmail,
		ShippingName:         input.Shipping.Name,
		ShippingAddressLine1: input.Shipping.Line1,
		ShippingAddressLine2: input.Shipping.Line2,
		ShippingCity:         input.Shipping.City,
		ShippingState:        input.Shipping.State,
		ShippingPostalCode:   input.Shipping.PostalCode,
		ShippingCountry:      input.Shipping.Country,
		CardLast4:            input.CardLast4,
		CardBrand:            input.CardBrand,
		ShippingCents:        input.ShippingCents,
		OrderType:            orderType,
		Description:          input.Description,
	}
	if input.PaymentIntentID != "" {
		paymentIntentID := input.PaymentIntentID
		order.PaymentIntentID = &paymentIntentID
	}
	if input.Promo != nil {
		code := input.Promo.Code
		pct := input.Promo.PercentOff
		order.PromoCode = &code
		order.PromoPercentOff = &pct
		order.PromoFreeShipping = input.Promo.FreeShipping
	}

	if err := m.repo.CreateOrder(ctx, order); err != nil {
		if db.IsUniqueViolation(err, "") {
			// A concurrent delivery of the same payment won the insert.
			winner, findErr := m.findExisting(ctx, input)
			if findErr == nil && winner != nil {
				return winner, false, nil
			}
			return nil, false, fmt.Errorf("resolving duplicate order insert: %w", err)
		}
		return nil, false, fmt.Errorf("creating order: %w", err)
	}

	for _, in := range input.Items {
		item := &models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  in.ProductID,
			Name:       in.Name,
			Quantity:   in.Quantity,
			PriceCents: in.PriceCents,
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		if err := m.repo.CreateItem(ctx, item); err != nil {
			if m.logg != nil {
				lctx := m.logg.WithFields(ctx, map[string]any{
					"order_id":  order.ID.String(),
					"item_name": in.Name,
				})
				m.logg.Error(lctx, "order item insert failed, continuing", err)
			}
			continue
		}
		order.Items = append(order.Items, *item)
	}

	return order, true, nil
}

// findExisting looks the order up by whichever key dedupes this payment.
func (m *Materializer) findExisting(ctx context.Context, input MaterializeInput) (*models.Order, error) {
	if input.PaymentIntentID != "" {
		return m.repo.FindByPaymentIntentID(ctx, input.PaymentIntentID)
	}
	return m.repo.FindByDisplayID(ctx, input.DisplayID)
}
