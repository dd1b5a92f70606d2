package domain

// PriceLineType enumerates the components a price breakdown is built from.
type PriceLineType string

const (
	// PriceLineBase is the product base price extended by quantity.
	PriceLineBase PriceLineType = "base"
	// PriceLineMaterial is the per-unit material surcharge extended by quantity.
	PriceLineMaterial PriceLineType = "material"
	// PriceLinePrintMethod is the area-based print cost extended by quantity.
	PriceLinePrintMethod PriceLineType = "print_method"
	// PriceLineSetup is a flat machine setup fee charged once per line item.
	PriceLineSetup PriceLineType = "setup"
	// PriceLineFinishing is a per-unit finishing fee extended by quantity.
	PriceLineFinishing PriceLineType = "finishing"
	// PriceLineUpsell is a flat add-on charged once per line item.
	PriceLineUpsell PriceLineType = "upsell"
	// PriceLineTierDiscount is the negative quantity-tier adjustment.
	PriceLineTierDiscount PriceLineType = "tier_discount"
)

// PriceLine is a single component of a price breakdown. Amount is the extended
// amount in the smallest currency unit; discounts carry negative amounts.
type PriceLine struct {
	Type        PriceLineType
	Ref         string
	Description string
	Quantity    int
	UnitAmount  int64
	Amount      int64
}

// PriceBreakdown is the structured decomposition of a line item's price.
// Total always equals the sum of line amounts; breakdowns are immutable
// snapshots and must be recomputed, never patched.
type PriceBreakdown struct {
	Currency     string
	Quantity     int
	Lines        []PriceLine
	Subtotal     int64
	TierDiscount int64
	Total        int64
	AreaSqM      *float64
}

// Sum returns the total implied by the breakdown's lines.
func (b PriceBreakdown) Sum() int64 {
	var total int64
	for _, line := range b.Lines {
		total += line.Amount
	}
	return total
}
