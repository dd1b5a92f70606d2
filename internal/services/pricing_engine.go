package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	domain "github.com/sanduta-art/api/internal/domain"
)

var (
	// ErrPricingInvalidInput signals malformed request data such as unknown
	// option ids or negative amounts.
	ErrPricingInvalidInput = errors.New("pricing engine: invalid input")
	// ErrPricingIncomplete signals a configuration missing a specification the
	// product requires. It is a distinguishable failure, never a silent zero.
	ErrPricingIncomplete = errors.New("pricing engine: incomplete configuration")
	// ErrPricingIncompatible signals a configuration the configurator filters
	// reject. A price is never computed for such a configuration.
	ErrPricingIncompatible = errors.New("pricing engine: incompatible configuration")
)

// QuantityTier grants a percentage discount on quantity-scaled lines once the
// run size reaches MinQuantity.
type QuantityTier struct {
	MinQuantity     int
	DiscountPercent int
}

// DefaultQuantityTiers reflects the storefront's standard run-size discounts.
func DefaultQuantityTiers() []QuantityTier {
	return []QuantityTier{
		{MinQuantity: 50, DiscountPercent: 5},
		{MinQuantity: 100, DiscountPercent: 10},
		{MinQuantity: 250, DiscountPercent: 15},
		{MinQuantity: 500, DiscountPercent: 20},
	}
}

// PricingEngine turns a product configuration into a price breakdown. It is a
// pure calculation: identical inputs always produce an identical breakdown,
// which makes recalculation idempotent and results cacheable.
type PricingEngine struct {
	tiers  []QuantityTier
	logger func(context.Context, string, map[string]any)
}

// PricingEngineDeps wires optional tier overrides and logging.
type PricingEngineDeps struct {
	Tiers  []QuantityTier
	Logger func(context.Context, string, map[string]any)
}

// NewPricingEngine constructs a PricingEngine, validating the tier table.
func NewPricingEngine(deps PricingEngineDeps) (*PricingEngine, error) {
	tiers := deps.Tiers
	if len(tiers) == 0 {
		tiers = DefaultQuantityTiers()
	}
	for _, tier := range tiers {
		if tier.MinQuantity <= 0 {
			return nil, errors.New("pricing engine: tier minimum quantity must be positive")
		}
		if tier.DiscountPercent < 0 || tier.DiscountPercent > 100 {
			return nil, errors.New("pricing engine: tier discount must be between 0 and 100")
		}
	}
	sorted := append([]QuantityTier(nil), tiers...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinQuantity < sorted[j].MinQuantity })

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &PricingEngine{tiers: sorted, logger: logger}, nil
}

// PriceConfiguration computes the full breakdown for a configured product.
// The configuration is cross-checked against the configurator filters first;
// a selection the filters would reject is refused with ErrPricingIncompatible.
func (e *PricingEngine) PriceConfiguration(ctx context.Context, cmd PriceConfigurationCommand) (PriceResult, error) {
	product := cmd.Product
	specs := cmd.Specifications

	if strings.TrimSpace(product.ID) == "" {
		return PriceResult{}, fmt.Errorf("%w: product is required", ErrPricingInvalidInput)
	}
	if product.BasePrice < 0 {
		return PriceResult{}, fmt.Errorf("%w: product base price cannot be negative", ErrPricingInvalidInput)
	}
	if specs.Quantity < 1 {
		return PriceResult{}, fmt.Errorf("%w: quantity must be at least 1", ErrPricingInvalidInput)
	}

	material, err := resolveMaterial(product, specs.MaterialID)
	if err != nil {
		return PriceResult{}, err
	}

	method, err := resolvePrintMethod(product, specs.PrintMethodID)
	if err != nil {
		return PriceResult{}, err
	}

	finishing, err := resolveFinishing(product, specs.FinishingIDs)
	if err != nil {
		return PriceResult{}, err
	}

	if err := e.checkFilterConsistency(ctx, product, specs); err != nil {
		return PriceResult{}, err
	}

	quantity := int64(specs.Quantity)
	currency := strings.ToUpper(strings.TrimSpace(product.Currency))

	var areaSqM *float64
	if method != nil && method.RatePerSquareMeter > 0 {
		dimension := domain.NormalizeDimension(specs.Dimension, product.Dimensions.DefaultUnit)
		if dimension == nil || dimension.Width == nil || dimension.Height == nil {
			return PriceResult{}, fmt.Errorf("%w: %s pricing requires width and height", ErrPricingIncomplete, method.Name)
		}
		areaSqM, err = domain.AreaSquareMeters(dimension.Width, dimension.Height, dimension.Unit)
		if err != nil {
			return PriceResult{}, fmt.Errorf("%w: %v", ErrPricingInvalidInput, err)
		}
		if areaSqM == nil || *areaSqM <= 0 {
			return PriceResult{}, fmt.Errorf("%w: dimensions must enclose a positive area", ErrPricingInvalidInput)
		}
	}

	lines := make([]PriceLine, 0, 4+len(finishing)+len(cmd.Upsells))

	baseAmount, err := extendAmount(product.BasePrice, quantity)
	if err != nil {
		return PriceResult{}, err
	}
	lines = append(lines, PriceLine{
		Type:        domain.PriceLineBase,
		Ref:         product.ID,
		Description: product.Name,
		Quantity:    specs.Quantity,
		UnitAmount:  product.BasePrice,
		Amount:      baseAmount,
	})

	if material.SurchargePerUnit > 0 {
		amount, err := extendAmount(material.SurchargePerUnit, quantity)
		if err != nil {
			return PriceResult{}, err
		}
		lines = append(lines, PriceLine{
			Type:        domain.PriceLineMaterial,
			Ref:         material.ID,
			Description: material.Name,
			Quantity:    specs.Quantity,
			UnitAmount:  material.SurchargePerUnit,
			Amount:      amount,
		})
	}

	if method != nil {
		if areaSqM != nil {
			perUnit := int64(math.Round(float64(method.RatePerSquareMeter) * *areaSqM))
			amount, err := extendAmount(perUnit, quantity)
			if err != nil {
				return PriceResult{}, err
			}
			lines = append(lines, PriceLine{
				Type:        domain.PriceLinePrintMethod,
				Ref:         method.ID,
				Description: fmt.Sprintf("%s (%.4f sqm)", method.Name, *areaSqM),
				Quantity:    specs.Quantity,
				UnitAmount:  perUnit,
				Amount:      amount,
			})
		}
		if method.SetupFee > 0 {
			lines = append(lines, PriceLine{
				Type:        domain.PriceLineSetup,
				Ref:         method.ID,
				Description: fmt.Sprintf("%s setup", method.Name),
				Quantity:    1,
				UnitAmount:  method.SetupFee,
				Amount:      method.SetupFee,
			})
		}
	}

	for _, option := range finishing {
		if option.Fee <= 0 {
			continue
		}
		amount, err := extendAmount(option.Fee, quantity)
		if err != nil {
			return PriceResult{}, err
		}
		lines = append(lines, PriceLine{
			Type:        domain.PriceLineFinishing,
			Ref:         option.ID,
			Description: option.Name,
			Quantity:    specs.Quantity,
			UnitAmount:  option.Fee,
			Amount:      amount,
		})
	}

	// Upsell order never affects the outcome; lines are emitted sorted by id.
	upsells := append([]Upsell(nil), cmd.Upsells...)
	sort.Slice(upsells, func(i, j int) bool { return upsells[i].ID < upsells[j].ID })
	for _, upsell := range upsells {
		if upsell.Price < 0 {
			return PriceResult{}, fmt.Errorf("%w: upsell %s price cannot be negative", ErrPricingInvalidInput, upsell.ID)
		}
		lines = append(lines, PriceLine{
			Type:        domain.PriceLineUpsell,
			Ref:         upsell.ID,
			Description: upsell.Name,
			Quantity:    1,
			UnitAmount:  upsell.Price,
			Amount:      upsell.Price,
		})
	}

	var subtotal, scaled int64
	for _, line := range lines {
		subtotal += line.Amount
		switch line.Type {
		case domain.PriceLineBase, domain.PriceLineMaterial, domain.PriceLinePrintMethod, domain.PriceLineFinishing:
			scaled += line.Amount
		}
	}

	tierDiscount := e.tierDiscount(specs.Quantity, scaled)
	if tierDiscount > 0 {
		lines = append(lines, PriceLine{
			Type:        domain.PriceLineTierDiscount,
			Ref:         fmt.Sprintf("qty-%d", specs.Quantity),
			Description: "Quantity discount",
			Quantity:    1,
			UnitAmount:  -tierDiscount,
			Amount:      -tierDiscount,
		})
	}

	total := subtotal - tierDiscount

	breakdown := PriceBreakdown{
		Currency:     currency,
		Quantity:     specs.Quantity,
		Lines:        lines,
		Subtotal:     subtotal,
		TierDiscount: tierDiscount,
		Total:        total,
		AreaSqM:      areaSqM,
	}

	return PriceResult{Breakdown: breakdown, Total: total}, nil
}

// checkFilterConsistency refuses configurations the configurator filters
// would flag, keeping filtering and pricing in lockstep.
func (e *PricingEngine) checkFilterConsistency(ctx context.Context, product ConfiguratorProduct, specs ItemSpecifications) error {
	selections := Selections{
		MaterialID:   &specs.MaterialID,
		FinishingIDs: specs.FinishingIDs,
		Dimension:    specs.Dimension,
	}
	if specs.PrintMethodID != "" {
		selections.PrintMethodID = &specs.PrintMethodID
	}

	methodResult, err := FilterPrintMethods(product, selections)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPricingInvalidInput, err)
	}
	issues := append([]string(nil), methodResult.Issues...)
	issues = append(issues, FilterFinishing(product, selections).Issues...)

	if len(issues) > 0 {
		e.logger(ctx, "pricing.rejected_configuration", map[string]any{
			"productId": product.ID,
			"issues":    issues,
		})
		return fmt.Errorf("%w: %s", ErrPricingIncompatible, strings.Join(issues, "; "))
	}
	return nil
}

func (e *PricingEngine) tierDiscount(quantity int, scaled int64) int64 {
	if scaled <= 0 {
		return 0
	}
	percent := 0
	for _, tier := range e.tiers {
		if quantity >= tier.MinQuantity {
			percent = tier.DiscountPercent
		}
	}
	if percent == 0 {
		return 0
	}
	return scaled * int64(percent) / 100
}

func resolveMaterial(product ConfiguratorProduct, materialID string) (Material, error) {
	materialID = strings.TrimSpace(materialID)
	if materialID == "" {
		return Material{}, fmt.Errorf("%w: material is required", ErrPricingIncomplete)
	}
	for _, material := range product.Materials {
		if material.ID == materialID {
			return material, nil
		}
	}
	return Material{}, fmt.Errorf("%w: unknown material %q", ErrPricingInvalidInput, materialID)
}

func resolvePrintMethod(product ConfiguratorProduct, methodID string) (*PrintMethod, error) {
	methodID = strings.TrimSpace(methodID)
	if methodID == "" {
		if len(product.PrintMethods) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: print method is required", ErrPricingIncomplete)
	}
	for i := range product.PrintMethods {
		if product.PrintMethods[i].ID == methodID {
			method := product.PrintMethods[i]
			return &method, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown print method %q", ErrPricingInvalidInput, methodID)
}

func resolveFinishing(product ConfiguratorProduct, finishingIDs []string) ([]FinishingOption, error) {
	if len(finishingIDs) == 0 {
		return nil, nil
	}
	byID := make(map[string]FinishingOption, len(product.Finishing))
	for _, option := range product.Finishing {
		byID[option.ID] = option
	}

	seen := make(map[string]bool, len(finishingIDs))
	var resolved []FinishingOption
	for _, id := range finishingIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		option, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown finishing option %q", ErrPricingInvalidInput, id)
		}
		resolved = append(resolved, option)
	}
	// Catalog order keeps the breakdown stable regardless of selection order.
	sort.SliceStable(resolved, func(i, j int) bool {
		return finishingIndex(product, resolved[i].ID) < finishingIndex(product, resolved[j].ID)
	})
	return resolved, nil
}

func finishingIndex(product ConfiguratorProduct, id string) int {
	for i, option := range product.Finishing {
		if option.ID == id {
			return i
		}
	}
	return len(product.Finishing)
}

func extendAmount(unitAmount, quantity int64) (int64, error) {
	if unitAmount < 0 {
		return 0, fmt.Errorf("%w: unit amount cannot be negative", ErrPricingInvalidInput)
	}
	if unitAmount > 0 && quantity > 0 && unitAmount > math.MaxInt64/quantity {
		return 0, fmt.Errorf("%w: line amount overflow", ErrPricingInvalidInput)
	}
	return unitAmount * quantity, nil
}
