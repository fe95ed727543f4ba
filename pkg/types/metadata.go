package types

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Metadata wraps the free-form string map attached to provider sessions.
// Known keys get validated accessors; unknown keys are ignored, never
// propagated downstream.
type Metadata map[string]string

const (
	metaOrderType     = "order_type"
	metaCustomOrderID = "custom_order_id"
	metaDisplayID     = "display_id"
	metaDescription   = "description"
	metaPromoCode     = "promo_code"
	metaPromoPercent  = "promo_percent_off"
	metaPromoFreeShip = "promo_free_shipping"
)

func NewMetadata(raw map[string]string) Metadata {
	if raw == nil {
		return Metadata{}
	}
	return Metadata(raw)
}

func (m Metadata) get(key string) (string, bool) {
	v, ok := m[key]
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// OrderType reports the declared order kind, defaulting to "shop".
func (m Metadata) OrderType() string {
	v, ok := m.get(metaOrderType)
	if !ok {
		return "shop"
	}
	return strings.ToLower(v)
}

// IsCustomOrder reports whether the session belongs to a bespoke order flow.
func (m Metadata) IsCustomOrder() bool {
	if m.OrderType() == "custom" {
		return true
	}
	_, ok := m.CustomOrderID()
	return ok
}

// CustomOrderID returns the linked custom-order identifier when present and valid.
func (m Metadata) CustomOrderID() (uuid.UUID, bool) {
	v, ok := m.get(metaCustomOrderID)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// DisplayID returns a caller-provided display ID override, used by flows
// that have no payment intent to key idempotency on.
func (m Metadata) DisplayID() (string, bool) {
	return m.get(metaDisplayID)
}

func (m Metadata) Description() string {
	v, _ := m.get(metaDescription)
	return v
}

func (m Metadata) PromoCode() (string, bool) {
	return m.get(metaPromoCode)
}

// PromoPercentOff returns the advertised discount percentage when it parses
// as an integer in [1, 100].
func (m Metadata) PromoPercentOff() (int, bool) {
	v, ok := m.get(metaPromoPercent)
	if !ok {
		return 0, false
	}
	pct, err := strconv.Atoi(v)
	if err != nil || pct < 1 || pct > 100 {
		return 0, false
	}
	return pct, true
}

func (m Metadata) PromoFreeShipping() bool {
	v, ok := m.get(metaPromoFreeShip)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}
