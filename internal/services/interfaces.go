package services

import (
	"context"

	domain "github.com/sanduta-art/api/internal/domain"
)

// Type aliases expose domain models to the services package without reversing dependency direction.
type (
	Material             = domain.Material
	PrintMethod          = domain.PrintMethod
	FinishingOption      = domain.FinishingOption
	Dimension            = domain.Dimension
	Unit                 = domain.Unit
	DimensionConstraints = domain.DimensionConstraints
	ConfiguratorProduct  = domain.ConfiguratorProduct
	Selections           = domain.Selections
	ItemSpecifications   = domain.ItemSpecifications
	Upsell               = domain.Upsell
	Cart                 = domain.Cart
	CartItem             = domain.CartItem
	CartItemError        = domain.CartItemError
	PriceBreakdown       = domain.PriceBreakdown
	PriceLine            = domain.PriceLine
	ProductSummary       = domain.ProductSummary
)

// CatalogService exposes read-only product data to handlers and the configurator.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]ProductSummary, error)
	GetConfiguratorProduct(ctx context.Context, productID string) (ConfiguratorProduct, error)
	ListMaterials(ctx context.Context) ([]Material, error)
}

// ConfigurationPricer prices a fully specified product configuration.
type ConfigurationPricer interface {
	PriceConfiguration(ctx context.Context, cmd PriceConfigurationCommand) (PriceResult, error)
}

// PriceConfigurationCommand carries everything the pricing engine needs; the
// product is passed in so the engine stays a pure function over its inputs.
type PriceConfigurationCommand struct {
	Product        ConfiguratorProduct
	Specifications ItemSpecifications
	Upsells        []Upsell
}

// PriceResult pairs a breakdown with the total it implies.
type PriceResult struct {
	Breakdown PriceBreakdown
	Total     int64
}

// ConfiguratorService narrows option sets for a product as selections change.
type ConfiguratorService interface {
	DescribeConfiguration(ctx context.Context, query ConfigurationQuery) (ConfiguratorView, error)
}

// ConfigurationQuery identifies the product and the customer's current picks.
type ConfigurationQuery struct {
	ProductID  string
	Selections Selections
	Quantity   int
}

// ConfiguratorView is the filtered option space returned to the storefront.
// Issues are soft validation signals; the candidate sets stay usable even when
// an explicit selection no longer fits.
type ConfiguratorView struct {
	Product           ProductSummary
	Materials         []Material
	PrintMethods      []PrintMethod
	SelectedPrint     *PrintMethod
	Finishing         []FinishingOption
	SelectedFinishing []FinishingOption
	Issues            []string
	Preview           *PriceResult
}

// CartService orchestrates cart mutations; every price on a cart item flows
// through the recalculation path so breakdown snapshots never go stale.
type CartService interface {
	GetOrCreateCart(ctx context.Context, userID string) (Cart, error)
	AddItem(ctx context.Context, cmd AddCartItemCommand) (Cart, error)
	UpdateItem(ctx context.Context, cmd UpdateCartItemCommand) (Cart, error)
	RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (Cart, error)
	ClearCart(ctx context.Context, userID string) error
	RecalculateItemPrice(ctx context.Context, item CartItem, opts *RecalculateOptions) (ItemPrice, error)
	ValidateCheckout(ctx context.Context, userID string) ([]CartItemError, error)
}

// AddCartItemCommand adds a configured product to the user's cart.
type AddCartItemCommand struct {
	UserID         string
	ProductID      string
	Specifications ItemSpecifications
	Upsells        []Upsell
}

// UpdateCartItemCommand edits an existing line item through recalculation.
type UpdateCartItemCommand struct {
	UserID  string
	ItemID  string
	Options RecalculateOptions
}

// RemoveCartItemCommand deletes a line item from the user's cart.
type RemoveCartItemCommand struct {
	UserID string
	ItemID string
}

// SpecificationsPatch holds partial specification updates. Nil fields keep the
// item's current value; a non-nil FinishingIDs slice replaces the whole set.
type SpecificationsPatch struct {
	MaterialID    *string
	PrintMethodID *string
	FinishingIDs  []string
	Dimension     *Dimension
	Notes         *string
}

// RecalculateOptions describes a partial cart item update. Upsells are a full
// replacement when non-nil; callers pass the complete desired list.
type RecalculateOptions struct {
	Specifications *SpecificationsPatch
	Upsells        []Upsell
	Quantity       *int
}

// ItemPrice is the recalculation output the caller applies to the item.
type ItemPrice struct {
	PriceBreakdown PriceBreakdown
	TotalPrice     int64
}
