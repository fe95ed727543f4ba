package enums

// CustomOrderStatus tracks the lifecycle of a bespoke commission.
type CustomOrderStatus string

const (
	CustomOrderStatusPending   CustomOrderStatus = "pending"
	CustomOrderStatusPaid      CustomOrderStatus = "paid"
	CustomOrderStatusShipped   CustomOrderStatus = "shipped"
	CustomOrderStatusCanceled  CustomOrderStatus = "canceled"
	CustomOrderStatusCompleted CustomOrderStatus = "completed"
)

var validCustomOrderStatuses = []CustomOrderStatus{
	CustomOrderStatusPending,
	CustomOrderStatusPaid,
	CustomOrderStatusShipped,
	CustomOrderStatusCanceled,
	CustomOrderStatusCompleted,
}

// String implements fmt.Stringer.
func (c CustomOrderStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomOrderStatus.
func (c CustomOrderStatus) IsValid() bool {
	for _, candidate := range validCustomOrderStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}
