package stripewebhook

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	"github.com/shoreline-studio/shop-backend/internal/customorders"
	"github.com/shoreline-studio/shop-backend/internal/orders"
	"github.com/shoreline-studio/shop-backend/internal/shipping"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/enums"
	pkgerrors "github.com/shoreline-studio/shop-backend/pkg/errors"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
	"github.com/shoreline-studio/shop-backend/pkg/metrics"
)

type sessionFetcher interface {
	FetchCheckoutSession(ctx context.Context, sessionID string) (*stripe.CheckoutSession, error)
}

type orderMaterializer interface {
	Materialize(ctx context.Context, input orders.MaterializeInput) (*models.Order, bool, error)
}

type stockAdjuster interface {
	Decrement(ctx context.Context, productID uuid.UUID, qty int64) (bool, error)
}

type promotionResolver interface {
	ActiveAt(ctx context.Context, now time.Time) (*models.Promotion, error)
}

type commissionReconciler interface {
	Reconcile(ctx context.Context, id uuid.UUID, info customorders.PaymentInfo) (*models.CustomOrder, *models.Order, error)
}

type notifier interface {
	OrderConfirmed(ctx context.Context, order *models.Order)
}

type ServiceParams struct {
	StripeClient  sessionFetcher
	Orders        orderMaterializer
	Inventory     stockAdjuster
	Promotions    promotionResolver
	CustomOrders  commissionReconciler
	Notifications notifier
	Metrics       *metrics.WebhookMetrics
	Logger        *logger.Logger
}

// Service reconciles payment-provider events into durable state. Everything
// it does must be safe to run twice with the same event.
type Service struct {
	stripe        sessionFetcher
	orders        orderMaterializer
	inventory     stockAdjuster
	promotions    promotionResolver
	customOrders  commissionReconciler
	notifications notifier
	metrics       *metrics.WebhookMetrics
	logg          *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.StripeClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "stripe client required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order materializer required")
	}
	if params.Inventory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "inventory adjuster required")
	}
	if params.Promotions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "promotion resolver required")
	}
	if params.CustomOrders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "custom order reconciler required")
	}
	return &Service{
		stripe:        params.StripeClient,
		orders:        params.Orders,
		inventory:     params.Inventory,
		promotions:    params.Promotions,
		customOrders:  params.CustomOrders,
		notifications: params.Notifications,
		metrics:       params.Metrics,
		logg:          params.Logger,
	}, nil
}

// HandleEvent routes a verified event. Payment-bearing session events drive
// the reconciliation pipeline; everything else is acknowledged after logging,
// since those events are observational only.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	eventType := string(event.Type)
	s.metrics.IncReceived(eventType)
	start := time.Now()
	defer func() {
		s.metrics.ObserveDuration(eventType, time.Since(start))
	}()

	if s.logg != nil {
		ctx = s.logg.WithEventID(ctx, event.ID)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		sessionID := event.GetObjectValue("id")
		if sessionID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing from event")
		}
		if err := s.processSession(ctx, sessionID, time.Unix(event.Created, 0).UTC()); err != nil {
			s.metrics.IncFailed(eventType)
			return err
		}
		return nil
	default:
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "event_type", eventType), "ignoring observational event")
		}
		return nil
	}
}

func (s *Service) processSession(ctx context.Context, sessionID string, occurredAt time.Time) error {
	sess, err := s.stripe.FetchCheckoutSession(ctx, sessionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch checkout session")
	}

	if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		// Async payment methods fire checkout.session.completed before the
		// money moves; the async_payment_succeeded event comes later.
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "session_id", sessionID), "session not paid yet, skipping")
		}
		return nil
	}

	view := newSessionView(sess, occurredAt)
	if view.PaymentIntentID == "" {
		// Payment-link style flows can complete without an intent; they must
		// carry a display_id in metadata so the order still dedupes.
		if _, ok := view.Metadata.DisplayID(); !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session has no payment intent")
		}
	} else if s.logg != nil {
		ctx = s.logg.WithPaymentIntent(ctx, view.PaymentIntentID)
	}

	if view.Metadata.IsCustomOrder() {
		return s.processCustomOrder(ctx, view)
	}
	return s.processStandardOrder(ctx, view)
}

func (s *Service) processStandardOrder(ctx context.Context, view sessionView) error {
	totals := shipping.Classify(view.Lines)
	shippingCents := view.AmountShipping
	if shippingCents == 0 {
		shippingCents = totals.ShippingCents
	}

	items := make([]orders.ItemInput, 0, len(view.Lines))
	// Aggregated per product, so two lines of the same product decrement once.
	purchased := make(map[uuid.UUID]int64)
	for _, line := range view.Lines {
		if shipping.IsShipping(line) {
			continue
		}
		item := orders.ItemInput{
			Name:       lineName(line),
			Quantity:   line.Quantity,
			PriceCents: line.TotalAmountCents,
		}
		if line.ProductID != "" {
			if id, err := uuid.Parse(line.ProductID); err == nil {
				item.ProductID = &id
				qty := line.Quantity
				if qty <= 0 {
					qty = 1
				}
				purchased[id] += qty
			} else if s.logg != nil {
				s.logg.Warn(s.logg.WithField(ctx, "product_id", line.ProductID), "line item carries unparseable product id")
			}
		}
		items = append(items, item)
	}

	input := orders.MaterializeInput{
		PaymentIntentID: view.PaymentIntentID,
		TotalCents:      view.AmountTotal,
		Currency:        view.Currency,
		CustomerEmail:   view.CustomerEmail,
		Shipping:        view.Shipping,
		CardLast4:       view.CardLast4,
		CardBrand:       view.CardBrand,
		ShippingCents:   shippingCents,
		Promo:           s.promoContext(ctx, view),
		OrderType:       enums.OrderTypeShop,
		Description:     view.Metadata.Description(),
		Items:           items,
		OccurredAt:      view.OccurredAt,
	}
	if displayID, ok := view.Metadata.DisplayID(); ok {
		input.DisplayID = displayID
	}

	order, created, err := s.orders.Materialize(ctx, input)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "materialize order")
	}
	if !created {
		if s.logg != nil {
			s.logg.Info(ctx, "order already exists for this payment, acknowledging duplicate")
		}
		return nil
	}

	for productID, qty := range purchased {
		if _, err := s.inventory.Decrement(ctx, productID, qty); err != nil {
			// Advisory: the order is durable; stock drift is fixable by hand,
			// a redelivered webhook is not.
			if s.logg != nil {
				s.logg.Error(s.logg.WithField(ctx, "product_id", productID.String()), "inventory decrement failed", err)
			}
		}
	}

	s.notify(ctx, order)
	return nil
}

func (s *Service) processCustomOrder(ctx context.Context, view sessionView) error {
	customOrderID, ok := view.Metadata.CustomOrderID()
	if !ok {
		// Metadata is wrong and will stay wrong; retrying cannot help.
		if s.logg != nil {
			s.logg.Error(ctx, "custom order session missing valid custom_order_id, acknowledging", nil)
		}
		return nil
	}

	info := customorders.PaymentInfo{
		SessionID:       view.SessionID,
		PaymentIntentID: view.PaymentIntentID,
		AmountCents:     view.AmountTotal,
		ShippingCents:   view.AmountShipping,
		Currency:        view.Currency,
		CustomerEmail:   view.CustomerEmail,
		Shipping:        view.Shipping,
		CardLast4:       view.CardLast4,
		CardBrand:       view.CardBrand,
		OccurredAt:      view.OccurredAt,
	}

	_, order, err := s.customOrders.Reconcile(ctx, customOrderID, info)
	if err != nil {
		if errors.Is(err, customorders.ErrNotFound) {
			if s.logg != nil {
				s.logg.Error(s.logg.WithField(ctx, "custom_order_id", customOrderID.String()), "custom order not found, acknowledging", err)
			}
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reconcile custom order")
	}

	if order != nil {
		s.notify(ctx, order)
	}
	return nil
}

// promoContext records which promotion applied to an already-completed
// charge. The session metadata, written at checkout creation, is
// authoritative; the resolver only fills gaps.
func (s *Service) promoContext(ctx context.Context, view sessionView) *orders.PromoContext {
	if code, ok := view.Metadata.PromoCode(); ok {
		promo := &orders.PromoContext{
			Code:         code,
			FreeShipping: view.Metadata.PromoFreeShipping(),
		}
		if pct, ok := view.Metadata.PromoPercentOff(); ok {
			promo.PercentOff = pct
			return promo
		}
		if active := s.resolveActive(ctx, view.OccurredAt); active != nil && active.Code == code {
			promo.PercentOff = active.PercentOff
			promo.FreeShipping = promo.FreeShipping || active.FreeShipping
		}
		return promo
	}
	return nil
}

func (s *Service) resolveActive(ctx context.Context, now time.Time) *models.Promotion {
	active, err := s.promotions.ActiveAt(ctx, now)
	if err != nil {
		// Promo context is informational; never fail the webhook over it.
		if s.logg != nil {
			s.logg.Error(ctx, "resolving active promotion failed", err)
		}
		return nil
	}
	return active
}

func (s *Service) notify(ctx context.Context, order *models.Order) {
	if s.notifications == nil {
		return
	}
	// Fire and forget: the financial side effects are already durable.
	go s.notifications.OrderConfirmed(context.WithoutCancel(ctx), order)
}

func lineName(line shipping.LineItem) string {
	if line.ProductName != "" {
		return line.ProductName
	}
	if line.Description != "" {
		return line.Description
	}
	return "Item"
}
