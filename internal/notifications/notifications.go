package notifications

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/shoreline-studio/shop-backend/pkg/config"
	"github.com/shoreline-studio/shop-backend/pkg/db/models"
	"github.com/shoreline-studio/shop-backend/pkg/email"
	"github.com/shoreline-studio/shop-backend/pkg/logger"
)

// Service composes and sends transactional email. Sending is strictly best
// effort: a payment is reconciled whether or not the confirmation goes out,
// so failures are logged and swallowed.
type Service struct {
	sender email.Sender
	shop   config.ShopConfig
	logg   *logger.Logger
}

func NewService(sender email.Sender, shop config.ShopConfig, logg *logger.Logger) (*Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender is required")
	}
	return &Service{sender: sender, shop: shop, logg: logg}, nil
}

// OrderConfirmed sends the customer confirmation and the admin notification
// for a freshly materialized order. Safe on a nil receiver: callers hold the
// service behind an interface, and a typed nil must stay a silent no-op
// rather than take down the sending goroutine.
func (s *Service) OrderConfirmed(ctx context.Context, order *models.Order) {
	if s == nil || s.sender == nil || order == nil {
		return
	}

	if order.CustomerEmail != "" {
		s.send(ctx, ComposeOrderConfirmation(s.shop, order))
	}
	if s.shop.AdminEmail != "" {
		s.send(ctx, ComposeAdminNotification(s.shop, order))
	}
}

func (s *Service) send(ctx context.Context, msg email.Message) {
	if err := s.sender.Send(ctx, msg); err != nil {
		if s.logg != nil {
			lctx := s.logg.WithField(ctx, "recipient", msg.To)
			s.logg.Error(lctx, "notification send failed", err)
		}
	}
}

// ComposeOrderConfirmation builds the customer-facing receipt.
func ComposeOrderConfirmation(shop config.ShopConfig, order *models.Order) email.Message {
	displayID := ""
	if order.DisplayID != nil {
		displayID = *order.DisplayID
	}

	subject := fmt.Sprintf("%s: order %s confirmed", shop.Name, displayID)

	var lines strings.Builder
	var htmlLines strings.Builder
	for _, item := range order.Items {
		lines.WriteString(fmt.Sprintf("  %dx %s - %s\n", item.Quantity, item.Name, formatCents(item.PriceCents)))
		htmlLines.WriteString(fmt.Sprintf("<li>%dx %s &mdash; %s</li>", item.Quantity, html.EscapeString(item.Name), formatCents(item.PriceCents)))
	}

	text := fmt.Sprintf(
		"Thanks for your order!\n\nOrder %s\n%sShipping: %s\nTotal: %s\n\nWe'll email you again when it ships.\n",
		displayID, lines.String(), formatCents(order.ShippingCents), formatCents(order.TotalCents),
	)

	htmlBody := fmt.Sprintf(
		"<p>Thanks for your order!</p><p>Order <strong>%s</strong></p><ul>%s</ul><p>Shipping: %s<br>Total: <strong>%s</strong></p><p>We'll email you again when it ships.</p>",
		html.EscapeString(displayID), htmlLines.String(), formatCents(order.ShippingCents), formatCents(order.TotalCents),
	)

	return email.Message{
		To:      order.CustomerEmail,
		Subject: subject,
		Text:    text,
		HTML:    htmlBody,
	}
}

// ComposeAdminNotification builds the internal heads-up for a new sale.
func ComposeAdminNotification(shop config.ShopConfig, order *models.Order) email.Message {
	displayID := ""
	if order.DisplayID != nil {
		displayID = *order.DisplayID
	}

	subject := fmt.Sprintf("New %s order %s (%s)", order.OrderType, displayID, formatCents(order.TotalCents))

	var lines strings.Builder
	for _, item := range order.Items {
		lines.WriteString(fmt.Sprintf("  %dx %s - %s\n", item.Quantity, item.Name, formatCents(item.PriceCents)))
	}

	promo := ""
	if order.PromoCode != nil {
		promo = fmt.Sprintf("Promo: %s\n", *order.PromoCode)
	}

	text := fmt.Sprintf(
		"Order %s (%s)\nCustomer: %s\n%s%sShip to: %s, %s %s, %s %s, %s\nTotal: %s\n",
		displayID, order.OrderType, order.CustomerEmail, lines.String(), promo,
		order.ShippingName, order.ShippingAddressLine1, order.ShippingAddressLine2,
		order.ShippingCity, order.ShippingState, order.ShippingCountry,
		formatCents(order.TotalCents),
	)

	return email.Message{
		To:      shop.AdminEmail,
		Subject: subject,
		Text:    text,
		HTML:    "<pre>" + html.EscapeString(text) + "</pre>",
	}
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
