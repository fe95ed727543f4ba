package stripewebhook

import (
	"time"

	"github.com/stripe/stripe-go/v84"

	"github.com/shoreline-studio/shop-backend/internal/orders"
	"github.com/shoreline-studio/shop-backend/internal/shipping"
	"github.com/shoreline-studio/shop-backend/pkg/types"
)

// sessionView is the flattened projection of an expanded checkout session.
// Everything downstream of the fetch works off this, never the raw provider
// struct.
type sessionView struct {
	SessionID       string
	PaymentIntentID string
	AmountTotal     int64
	AmountShipping  int64
	Currency        string
	CustomerEmail   string
	Shipping        orders.ShippingDetails
	CardLast4       string
	CardBrand       string
	Metadata        types.Metadata
	Lines           []shipping.LineItem
	OccurredAt      time.Time
}

func newSessionView(sess *stripe.CheckoutSession, occurredAt time.Time) sessionView {
	view := sessionView{
		SessionID:   sess.ID,
		AmountTotal: sess.AmountTotal,
		Currency:    string(sess.Currency),
		Metadata:    types.NewMetadata(sess.Metadata),
		OccurredAt:  occurredAt,
	}

	if sess.PaymentIntent != nil {
		view.PaymentIntentID = sess.PaymentIntent.ID
		if pm := sess.PaymentIntent.PaymentMethod; pm != nil && pm.Card != nil {
			view.CardLast4 = pm.Card.Last4
			view.CardBrand = string(pm.Card.Brand)
		}
	}

	if sess.CustomerDetails != nil {
		view.CustomerEmail = sess.CustomerDetails.Email
	}

	if sess.TotalDetails != nil {
		view.AmountShipping = sess.TotalDetails.AmountShipping
	}

	if ci := sess.CollectedInformation; ci != nil && ci.ShippingDetails != nil {
		view.Shipping.Name = ci.ShippingDetails.Name
		if addr := ci.ShippingDetails.Address; addr != nil {
			view.Shipping.Line1 = addr.Line1
			view.Shipping.Line2 = addr.Line2
			view.Shipping.City = addr.City
			view.Shipping.State = addr.State
			view.Shipping.PostalCode = addr.PostalCode
			view.Shipping.Country = addr.Country
		}
	}

	if sess.LineItems != nil {
		view.Lines = make([]shipping.LineItem, 0, len(sess.LineItems.Data))
		for _, li := range sess.LineItems.Data {
			if li == nil {
				continue
			}
			line := shipping.LineItem{
				Description:      li.Description,
				Quantity:         li.Quantity,
				TotalAmountCents: li.AmountTotal,
			}
			if price := li.Price; price != nil {
				line.UnitAmountCents = price.UnitAmount
				line.PriceKey = price.LookupKey
				line.PriceNickname = price.Nickname
				line.Tag = price.Metadata["tag"]
				if product := price.Product; product != nil {
					line.ProductName = product.Name
					line.ProductID = product.Metadata["product_id"]
				}
			}
			view.Lines = append(view.Lines, line)
		}
	}

	return view
}
