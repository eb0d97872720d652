package catalog

import "time"

// ResolvePrice computes the effective unit price of a product at a given
// instant. Pure function: same product, attributes and instant always
// produce the same result, so checkout re-pricing is idempotent.
//
// The discount applies only inside its window and is re-checked per call,
// never cached past the window boundary. Attribute adjustments are summed
// after the discount, not compounded with it.
func ResolvePrice(p Product, attrs []AttributeValue, at time.Time) int64 {
	price := p.BasePrice

	if discountActive(p, at) {
		switch p.DiscountType {
		case DiscountPercentage:
			price -= p.BasePrice * p.DiscountValue / 100
		case DiscountFixed:
			price -= p.DiscountValue
		}
		if price < 0 {
			price = 0
		}
	}

	for _, a := range attrs {
		price += a.PriceAdjustment
	}

	// Negative adjustments can undercut a heavily discounted base price.
	if price < 0 {
		price = 0
	}
	return price
}

func discountActive(p Product, at time.Time) bool {
	if !p.IsOnSale || p.DiscountValue <= 0 {
		return false
	}
	if p.DiscountStart != nil && at.Before(*p.DiscountStart) {
		return false
	}
	if p.DiscountEnd != nil && at.After(*p.DiscountEnd) {
		return false
	}
	return true
}
