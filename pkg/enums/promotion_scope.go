package enums

// PromotionScope bounds which products a discount rule applies to.
type PromotionScope string

const (
	PromotionScopeGlobal     PromotionScope = "global"
	PromotionScopeCategories PromotionScope = "categories"
)

var validPromotionScopes = []PromotionScope{
	PromotionScopeGlobal,
	PromotionScopeCategories,
}

// String implements fmt.Stringer.
func (p PromotionScope) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PromotionScope.
func (p PromotionScope) IsValid() bool {
	for _, candidate := range validPromotionScopes {
		if candidate == p {
			return true
		}
	}
	return false
}
