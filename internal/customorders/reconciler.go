package customorders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoreline-studio/shop-backend/internal/gallery"
	"github.com/shoreline-studio/shop-backend/internal/orders"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

// ErrNotFound is returned when a checkout references a commission that does
// not exist.
var ErrNotFound = fmt.Errorf("custom order not found")

// PaymentInfo is the checkout-session view the reconciler consumes.
type PaymentInfo struct {
	SessionID       string
	PaymentIntentID string
	AmountCents     int64
	ShippingCents   int64
	Currency        string
	CustomerEmail   string
	Shipping        orders.ShippingDetails
	CardLast4       string
	CardBrand       string
	OccurredAt      time.Time
}

// Reconciler applies a confirmed payment to a bespoke commission: the status
// transition, the sold-gallery projection, and a matching order row.
type Reconciler struct {
	repo        Repository
	galleryRepo gallery.Repository
	orders      *orders.Materializer
	logg        *logger.Logger
}

func NewReconciler(repo Repository, galleryRepo gallery.Repository, mat *orders.Materializer, logg *logger.Logger) (*Reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("custom orders repository is required")
	}
	if galleryRepo == nil {
		return nil, fmt.Errorf("gallery repository is required")
	}
	if mat == nil {
		return nil, fmt.Errorf("orders materializer is required")
	}
	return &Reconciler{repo: repo, galleryRepo: galleryRepo, orders: mat, logg: logg}, nil
}

// Reconcile marks the commission paid and materializes its order. The status
// claim and the order write are independently idempotent: a redelivery that
// finds the commission already claimed still runs Materialize, which is a
// no-op when the order row landed and completes it when an earlier delivery
// crashed in between. Returns the commission and, when this call created it,
// the materialized order.
func (r *Reconciler) Reconcile(ctx context.Context, customOrderID uuid.UUID, info PaymentInfo) (*models.CustomOrder, *models.Order, error) {
	order, err := r.repo.FindByID(ctx, customOrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading custom order: %w", err)
	}
	if order == nil {
		return nil, nil, ErrNotFound
	}

	claimed, err := r.repo.MarkPaid(ctx, customOrderID, PaidUpdate{
		SessionID:       info.SessionID,
		PaymentIntentID: info.PaymentIntentID,
		CustomerEmail:   info.CustomerEmail,
		ShippingName:    info.Shipping.Name,
		Line1:           info.Shipping.Line1,
		Line2:           info.Shipping.Line2,
		City:            info.Shipping.City,
		State:           info.Shipping.State,
		PostalCode:      info.Shipping.PostalCode,
		Country:         info.Shipping.Country,
		ShippingCents:   info.ShippingCents,
		PaidAt:          info.OccurredAt,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marking custom order paid: %w", err)
	}

	refreshed, err := r.repo.FindByID(ctx, customOrderID)
	if err != nil {
		return nil, nil, fmt.Errorf("reloading custom order: %w", err)
	}
	order = refreshed

	if err := r.upsertGallery(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("upserting gallery projection: %w", err)
	}

	var materialized *models.Order
	if info.PaymentIntentID != "" {
		orderRow, created, err := r.orders.Materialize(ctx, r.orderInput(order, info))
		if err != nil {
			return nil, nil, fmt.Errorf("materializing commission order: %w", err)
		}
		if created {
			materialized = orderRow
		}
	}

	if !claimed && r.logg != nil {
		lctx := r.logg.WithField(ctx, "custom_order_id", customOrderID.String())
		r.logg.Info(lctx, "custom order already reconciled")
	}

	return order, materialized, nil
}

func (r *Reconciler) upsertGallery(ctx context.Context, order *models.CustomOrder) error {
	title := order.Description
	if title == "" {
		title = "Custom commission"
	}
	return r.galleryRepo.Upsert(ctx, &models.GalleryItem{
		SourceType: enums.GallerySourceCustomOrder,
		SourceID:   order.ID,
		Status:     "sold",
		Title:      title,
		ImageURL:   order.ImageURL,
		Hidden:     order.ImageURL == nil,
	})
}

// orderInput synthesizes the two-line order for a commission: one
// merchandise line for the piece itself, with shipping carried on the order
// row.
func (r *Reconciler) orderInput(order *models.CustomOrder, info PaymentInfo) orders.MaterializeInput {
	total := info.AmountCents
	if total == 0 {
		total = order.AmountCents + order.ShippingCents
	}
	shipping := info.ShippingCents
	if shipping == 0 {
		shipping = order.ShippingCents
	}
	lineName := order.Description
	if lineName == "" {
		lineName = "Custom commission"
	}
	merchandise := total - shipping
	if merchandise < 0 {
		merchandise = total
		shipping = 0
	}

	return orders.MaterializeInput{
		PaymentIntentID: info.PaymentIntentID,
		TotalCents:      total,
		Currency:        info.Currency,
		CustomerEmail:   info.CustomerEmail,
		Shipping:        info.Shipping,
		CardLast4:       info.CardLast4,
		CardBrand:       info.CardBrand,
		ShippingCents:   shipping,
		OrderType:       enums.OrderTypeCustom,
		Description:     order.Description,
		OccurredAt:      info.OccurredAt,
		Items: []orders.ItemInput{
			{Name: lineName, Quantity: 1, PriceCents: merchandise},
		},
	}
}
