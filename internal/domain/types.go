package domain

import (
	"time"
)

// Material describes a printable substrate offered for a product. Compatibility
// lists on print methods and finishing options reference materials by ID.
type Material struct {
	ID               string
	Name             string
	Category         string
	SurchargePerUnit int64
	LeadTimeDays     int
	IsAvailable      bool
}

// PrintMethod describes a production technique. A nil MaterialIDs slice means
// the method supports every material; nil size limits mean the machine imposes
// no constraint on that axis. Size limits are expressed in millimetres.
type PrintMethod struct {
	ID                 string
	Name               string
	MaterialIDs        []string
	MaxWidthMm         *float64
	MaxHeightMm        *float64
	RatePerSquareMeter int64
	SetupFee           int64
}

// FinishingOption describes a post-print treatment. Nil compatibility slices
// mean the option is unrestricted on that axis.
type FinishingOption struct {
	ID             string
	Name           string
	MaterialIDs    []string
	PrintMethodIDs []string
	Fee            int64
}

// DimensionConstraints captures the dimension schema a product accepts.
type DimensionConstraints struct {
	MinWidthMm  *float64
	MaxWidthMm  *float64
	MinHeightMm *float64
	MaxHeightMm *float64
	DefaultUnit Unit
}

// ConfiguratorProduct is the read-only catalog view consumed by the
// configurator and pricing engine. Option slices keep catalog order.
type ConfiguratorProduct struct {
	ID           string
	SKU          string
	Name         string
	Currency     string
	BasePrice    int64
	Materials    []Material
	PrintMethods []PrintMethod
	Finishing    []FinishingOption
	Dimensions   DimensionConstraints
	Upsells      []Upsell
	IsPublished  bool
	UpdatedAt    time.Time
}

// Selections holds a customer's in-progress configurator choices. Every field
// is optional; the filters narrow candidate sets around whatever is present.
type Selections struct {
	MaterialID    *string
	PrintMethodID *string
	FinishingIDs  []string
	Dimension     *Dimension
}

// ItemSpecifications stores the committed configuration of a cart line item.
type ItemSpecifications struct {
	Quantity      int
	MaterialID    string
	PrintMethodID string
	FinishingIDs  []string
	Dimension     *Dimension
	Notes         string
}

// Upsell is an optional add-on contributing a flat amount to a line item's
// price. Upsell lists are summed; their order never affects the total.
type Upsell struct {
	ID    string
	Name  string
	Price int64
}

// CartItem is a configured product placed in a cart. The breakdown is an
// immutable snapshot: any change to specifications, upsells, or quantity must
// go through recalculation, never through direct field edits, so TotalPrice
// always equals the sum implied by PriceBreakdown.
type CartItem struct {
	ID             string
	ProductID      string
	Currency       string
	Specifications ItemSpecifications
	Upsells        []Upsell
	PriceBreakdown *PriceBreakdown
	TotalPrice     int64
	AddedAt        time.Time
	UpdatedAt      *time.Time
}

// Cart aggregates the mutable shopping cart state for a user.
type Cart struct {
	ID        string
	UserID    string
	Currency  string
	Items     []CartItem
	Metadata  map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItemError reports a single structural defect found by cart validation.
// An item can contribute several errors, one per violated rule.
type CartItemError struct {
	ItemID  string
	Field   string
	Message string
}

// ProductSummary represents public-facing product listing information.
type ProductSummary struct {
	ID          string
	SKU         string
	Name        string
	Currency    string
	BasePrice   int64
	IsPublished bool
}
