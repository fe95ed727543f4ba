package shipping

import "strings"

// LineItem is the normalized view of a checkout line the classifier works on.
// Structured fields come from the price/product objects; Description and
// PriceNickname are free text entered by whoever configured the price.
type LineItem struct {
	Description      string
	Quantity         int64
	UnitAmountCents  int64
	TotalAmountCents int64

	Tag           string
	PriceKey      string
	PriceNickname string
	ProductName   string
	ProductID     string
}

// Totals splits a checkout's lines into shipping and merchandise amounts.
type Totals struct {
	ShippingCents    int64
	MerchandiseCents int64
}

// The one token that marks a line as a shipping charge. Carrier fees priced
// as "delivery" or "postage" stay merchandise on purpose: widening the net
// here would also swallow real products like a postage-stamp print.
const shippingSignal = "shipping"

// IsShipping reports whether a line represents a shipping charge rather than
// merchandise. Structured fields require an exact (case-insensitive) match so
// a product legitimately named "Shipping Container Set" is not misclassified;
// free-text fields match on substring since operators write things like
// "Local Shipping Fee".
func IsShipping(item LineItem) bool {
	if equalsSignal(item.Tag, shippingSignal) ||
		equalsSignal(item.PriceKey, shippingSignal) ||
		equalsSignal(item.ProductName, shippingSignal) {
		return true
	}
	return containsSignal(item.Description, shippingSignal) ||
		containsSignal(item.PriceNickname, shippingSignal)
}

// Classify sums line totals into shipping and merchandise buckets. A line's
// TotalAmountCents is preferred; when absent the unit amount times quantity
// is used.
func Classify(items []LineItem) Totals {
	var totals Totals
	for _, item := range items {
		amount := item.TotalAmountCents
		if amount == 0 && item.UnitAmountCents != 0 {
			qty := item.Quantity
			if qty <= 0 {
				qty = 1
			}
			amount = item.UnitAmountCents * qty
		}
		if IsShipping(item) {
			totals.ShippingCents += amount
		} else {
			totals.MerchandiseCents += amount
		}
	}
	return totals
}

func equalsSignal(value, signal string) bool {
	return strings.EqualFold(strings.TrimSpace(value), signal)
}

func containsSignal(value, signal string) bool {
	return strings.Contains(strings.ToLower(value), signal)
}
