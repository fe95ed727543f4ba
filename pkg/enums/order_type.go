package enums

// OrderType distinguishes catalog purchases from bespoke commissions.
type OrderType string

const (
	OrderTypeShop   OrderType = "shop"
	OrderTypeCustom OrderType = "custom"
)

var validOrderTypes = []OrderType{
	OrderTypeShop,
	OrderTypeCustom,
}

// String implements fmt.Stringer.
func (o OrderType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderType.
func (o OrderType) IsValid() bool {
	for _, candidate := range validOrderTypes {
		if candidate == o {
			return true
		}
	}
	return false
}
