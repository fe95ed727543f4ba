package shipping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsShipping(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
		want bool
	}{
		{
			name: "tag exact match",
			item: LineItem{Tag: "shipping"},
			want: true,
		},
		{
			name: "tag exact match case insensitive",
			item: LineItem{Tag: "Shipping"},
			want: true,
		},
		{
			name: "price key exact match",
			item: LineItem{PriceKey: "shipping"},
			want: true,
		},
		{
			name: "product name exact match",
			item: LineItem{ProductName: "Shipping"},
			want: true,
		},
		{
			name: "postage product is merchandise",
			item: LineItem{ProductName: "Postage"},
			want: false,
		},
		{
			name: "freight in description is merchandise",
			item: LineItem{Description: "Freight Train Model"},
			want: false,
		},
		{
			name: "product name containing signal is not shipping",
			item: LineItem{ProductName: "Shipping Container Set"},
			want: false,
		},
		{
			name: "description substring match",
			item: LineItem{Description: "Local Shipping Fee"},
			want: true,
		},
		{
			name: "nickname substring match",
			item: LineItem{PriceNickname: "flat-rate shipping"},
			want: true,
		},
		{
			name: "plain merchandise",
			item: LineItem{Description: "Ceramic vase", ProductName: "Vase"},
			want: false,
		},
		{
			name: "empty line",
			item: LineItem{},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsShipping(tt.item))
		})
	}
}

func TestClassify(t *testing.T) {
	items := []LineItem{
		{Description: "Ceramic vase", TotalAmountCents: 4500, Quantity: 1},
		{Description: "Local Shipping Fee", TotalAmountCents: 800, Quantity: 1},
		{ProductName: "Shipping Container Set", TotalAmountCents: 12000, Quantity: 2},
	}

	totals := Classify(items)

	assert.Equal(t, int64(800), totals.ShippingCents)
	assert.Equal(t, int64(16500), totals.MerchandiseCents)
}

func TestClassifyFallsBackToUnitAmount(t *testing.T) {
	items := []LineItem{
		{Description: "Print", UnitAmountCents: 2500, Quantity: 3},
		{Tag: "shipping", UnitAmountCents: 600},
	}

	totals := Classify(items)

	assert.Equal(t, int64(600), totals.ShippingCents)
	assert.Equal(t, int64(7500), totals.MerchandiseCents)
}

func TestClassifyEmpty(t *testing.T) {
	totals := Classify(nil)
	assert.Equal(t, int64(0), totals.ShippingCents)
	assert.Equal(t, int64(0), totals.MerchandiseCents)
}
