package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/sanduta-art/api/internal/repositories"
)

var (
	ErrCartInvalidInput = errors.New("cart service: invalid input")
	ErrCartNotFound     = errors.New("cart service: not found")
	ErrCartConflict     = errors.New("cart service: conflict")
	ErrCartUnavailable  = errors.New("cart service: repository unavailable")
)

type cartService struct {
	carts       repositories.CartRepository
	catalog     CatalogService
	pricer      ConfigurationPricer
	clock       func() time.Time
	idGenerator func() string
	logger      func(context.Context, string, map[string]any)
}

// CartServiceDeps wires repositories and collaborating services.
type CartServiceDeps struct {
	Carts       repositories.CartRepository
	Catalog     CatalogService
	Pricer      ConfigurationPricer
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(context.Context, string, map[string]any)
}

// NewCartService builds the cart orchestration service. Every price stored on
// a cart item is produced by the configured pricer, never edited in place.
func NewCartService(deps CartServiceDeps) (CartService, error) {
	if deps.Carts == nil {
		return nil, errors.New("cart service: cart repository is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("cart service: catalog service is required")
	}
	if deps.Pricer == nil {
		return nil, errors.New("cart service: pricer is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	idGenerator := deps.IDGenerator
	if idGenerator == nil {
		idGenerator = func() string { return ulid.Make().String() }
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &cartService{
		carts:       deps.Carts,
		catalog:     deps.Catalog,
		pricer:      deps.Pricer,
		clock:       clock,
		idGenerator: idGenerator,
		logger:      logger,
	}, nil
}

func (s *cartService) GetOrCreateCart(ctx context.Context, userID string) (Cart, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Cart{}, fmt.Errorf("%w: user id is required", ErrCartInvalidInput)
	}
	cart, err := s.carts.GetCart(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !isRepoNotFound(err) {
		return Cart{}, s.translateRepoError(ctx, "cart.get", err)
	}

	now := s.clock()
	created := Cart{
		ID:        s.idGenerator(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	stored, err := s.carts.UpsertCart(ctx, created, nil)
	if err != nil {
		return Cart{}, s.translateRepoError(ctx, "cart.create", err)
	}
	return stored, nil
}

func (s *cartService) AddItem(ctx context.Context, cmd AddCartItemCommand) (Cart, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return Cart{}, fmt.Errorf("%w: user id is required", ErrCartInvalidInput)
	}
	productID := strings.TrimSpace(cmd.ProductID)
	if productID == "" {
		return Cart{}, fmt.Errorf("%w: product id is required", ErrCartInvalidInput)
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return Cart{}, err
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if cart.Currency != "" && len(cart.Items) > 0 && !strings.EqualFold(cart.Currency, product.Currency) {
		return Cart{}, fmt.Errorf("%w: product currency %s does not match cart currency %s", ErrCartInvalidInput, product.Currency, cart.Currency)
	}

	specs := cloneSpecifications(cmd.Specifications)
	upsells := append([]Upsell(nil), cmd.Upsells...)

	price, err := s.priceConfiguration(ctx, product, specs, upsells)
	if err != nil {
		return Cart{}, err
	}

	now := s.clock()
	item := CartItem{
		ID:             s.idGenerator(),
		ProductID:      product.ID,
		Currency:       price.PriceBreakdown.Currency,
		Specifications: specs,
		Upsells:        upsells,
		PriceBreakdown: &price.PriceBreakdown,
		TotalPrice:     price.TotalPrice,
		AddedAt:        now,
	}

	expected := cart.UpdatedAt
	cart.Items = append(cart.Items, item)
	if cart.Currency == "" {
		cart.Currency = price.PriceBreakdown.Currency
	}
	cart.UpdatedAt = now

	stored, err := s.carts.UpsertCart(ctx, cart, &expected)
	if err != nil {
		return Cart{}, s.translateRepoError(ctx, "cart.add_item", err)
	}
	s.logger(ctx, "cart.item_added", map[string]any{
		"userId":    userID,
		"itemId":    item.ID,
		"productId": product.ID,
		"total":     item.TotalPrice,
	})
	return stored, nil
}

func (s *cartService) UpdateItem(ctx context.Context, cmd UpdateCartItemCommand) (Cart, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return Cart{}, fmt.Errorf("%w: user id is required", ErrCartInvalidInput)
	}
	itemID := strings.TrimSpace(cmd.ItemID)
	if itemID == "" {
		return Cart{}, fmt.Errorf("%w: item id is required", ErrCartInvalidInput)
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return Cart{}, s.translateRepoError(ctx, "cart.get", err)
	}

	index := -1
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			index = i
			break
		}
	}
	if index < 0 {
		return Cart{}, fmt.Errorf("%w: cart item %s", ErrCartNotFound, itemID)
	}

	updated, price, err := s.recalculate(ctx, cart.Items[index], &cmd.Options)
	if err != nil {
		return Cart{}, err
	}

	now := s.clock()
	updated.PriceBreakdown = &price.PriceBreakdown
	updated.TotalPrice = price.TotalPrice
	updated.Currency = price.PriceBreakdown.Currency
	updated.UpdatedAt = &now

	expected := cart.UpdatedAt
	cart.Items[index] = updated
	cart.UpdatedAt = now

	stored, err := s.carts.UpsertCart(ctx, cart, &expected)
	if err != nil {
		return Cart{}, s.translateRepoError(ctx, "cart.update_item", err)
	}
	return stored, nil
}

func (s *cartService) RemoveItem(ctx context.Context, cmd RemoveCartItemCommand) (Cart, error) {
	userID := strings.TrimSpace(cmd.UserID)
	if userID == "" {
		return Cart{}, fmt.Errorf("%w: user id is required", ErrCartInvalidInput)
	}
	itemID := strings.TrimSpace(cmd.ItemID)
	if itemID == "" {
		return Cart{}, fmt.Errorf("%w: item id is required", ErrCartInvalidInput)
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return Cart{}, s.translateRepoError(ctx, "cart.get", err)
	}

	remaining := make([]CartItem, 0, len(cart.Items))
	found := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		remaining = append(remaining, item)
	}
	if !found {
		return Cart{}, fmt.Errorf("%w: cart item %s", ErrCartNotFound, itemID)
	}

	expected := cart.UpdatedAt
	cart.Items = remaining
	cart.UpdatedAt = s.clock()

	stored, err := s.carts.UpsertCart(ctx, cart, &expected)
	if err != nil {
		return Cart{}, s.translateRepoError(ctx, "cart.remove_item", err)
	}
	return stored, nil
}

// ClearCart drops the user's cart entirely. A fresh cart is created lazily on
// the next read. Clearing an absent cart succeeds.
func (s *cartService) ClearCart(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrCartInvalidInput)
	}
	if err := s.carts.DeleteCart(ctx, userID); err != nil {
		return s.translateRepoError(ctx, "cart.clear", err)
	}
	s.logger(ctx, "cart.cleared", map[string]any{"user_id": userID})
	return nil
}

// RecalculateItemPrice reprices an item with optional partial changes applied.
// The input item is left untouched; callers decide whether to persist.
func (s *cartService) RecalculateItemPrice(ctx context.Context, item CartItem, opts *RecalculateOptions) (ItemPrice, error) {
	_, price, err := s.recalculate(ctx, item, opts)
	return price, err
}

func (s *cartService) ValidateCheckout(ctx context.Context, userID string) ([]CartItemError, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrCartInvalidInput)
	}
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, nil
		}
		return nil, s.translateRepoError(ctx, "cart.get", err)
	}
	return ValidateCart(cart.Items), nil
}

// ValidateCart checks every item against the structural checkout rules. Each
// violated rule yields its own error; items are never skipped early, so one
// pass reports everything the customer has to fix.
func ValidateCart(items []CartItem) []CartItemError {
	var issues []CartItemError
	for _, item := range items {
		if item.Specifications.Quantity < 1 {
			issues = append(issues, CartItemError{
				ItemID:  item.ID,
				Field:   "quantity",
				Message: "quantity must be at least 1",
			})
		}
		if strings.TrimSpace(item.Specifications.MaterialID) == "" {
			issues = append(issues, CartItemError{
				ItemID:  item.ID,
				Field:   "materialId",
				Message: "material selection is required",
			})
		}
	}
	return issues
}

func (s *cartService) recalculate(ctx context.Context, item CartItem, opts *RecalculateOptions) (CartItem, ItemPrice, error) {
	merged := applyRecalculateOptions(item, opts)

	product, err := s.getProduct(ctx, merged.ProductID)
	if err != nil {
		return CartItem{}, ItemPrice{}, err
	}

	price, err := s.priceConfiguration(ctx, product, merged.Specifications, merged.Upsells)
	if err != nil {
		return CartItem{}, ItemPrice{}, err
	}
	return merged, price, nil
}

// applyRecalculateOptions merges a partial update onto a copy of the item.
// Nil patch fields keep current values; non-nil slices replace wholesale.
func applyRecalculateOptions(item CartItem, opts *RecalculateOptions) CartItem {
	merged := item
	merged.Specifications = cloneSpecifications(item.Specifications)
	merged.Upsells = append([]Upsell(nil), item.Upsells...)
	if opts == nil {
		return merged
	}

	if patch := opts.Specifications; patch != nil {
		if patch.MaterialID != nil {
			merged.Specifications.MaterialID = *patch.MaterialID
		}
		if patch.PrintMethodID != nil {
			merged.Specifications.PrintMethodID = *patch.PrintMethodID
		}
		if patch.FinishingIDs != nil {
			merged.Specifications.FinishingIDs = append([]string(nil), patch.FinishingIDs...)
		}
		if patch.Dimension != nil {
			dimension := *patch.Dimension
			merged.Specifications.Dimension = &dimension
		}
		if patch.Notes != nil {
			merged.Specifications.Notes = *patch.Notes
		}
	}
	if opts.Upsells != nil {
		merged.Upsells = append([]Upsell(nil), opts.Upsells...)
	}
	if opts.Quantity != nil {
		merged.Specifications.Quantity = *opts.Quantity
	}
	return merged
}

func (s *cartService) getProduct(ctx context.Context, productID string) (ConfiguratorProduct, error) {
	product, err := s.catalog.GetConfiguratorProduct(ctx, productID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCatalogNotFound):
			return ConfiguratorProduct{}, fmt.Errorf("%w: unknown product %q", ErrCartInvalidInput, productID)
		case errors.Is(err, ErrCatalogInvalidInput):
			return ConfiguratorProduct{}, fmt.Errorf("%w: %v", ErrCartInvalidInput, err)
		case errors.Is(err, ErrCatalogUnavailable):
			return ConfiguratorProduct{}, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
		default:
			return ConfiguratorProduct{}, err
		}
	}
	return product, nil
}

func (s *cartService) priceConfiguration(ctx context.Context, product ConfiguratorProduct, specs ItemSpecifications, upsells []Upsell) (ItemPrice, error) {
	result, err := s.pricer.PriceConfiguration(ctx, PriceConfigurationCommand{
		Product:        product,
		Specifications: specs,
		Upsells:        upsells,
	})
	if err != nil {
		return ItemPrice{}, s.translatePricingError(err)
	}
	return ItemPrice{PriceBreakdown: result.Breakdown, TotalPrice: result.Total}, nil
}

func (s *cartService) translatePricingError(err error) error {
	switch {
	case errors.Is(err, ErrPricingInvalidInput),
		errors.Is(err, ErrPricingIncomplete),
		errors.Is(err, ErrPricingIncompatible):
		return fmt.Errorf("%w: %v", ErrCartInvalidInput, err)
	default:
		return err
	}
}

func (s *cartService) translateRepoError(ctx context.Context, op string, err error) error {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %s", ErrCartNotFound, op)
		case repoErr.IsConflict():
			return fmt.Errorf("%w: %s", ErrCartConflict, op)
		case repoErr.IsUnavailable():
			s.logger(ctx, "cart.repository_unavailable", map[string]any{"op": op, "error": err.Error()})
			return fmt.Errorf("%w: %s", ErrCartUnavailable, op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isRepoNotFound(err error) bool {
	var repoErr repositories.RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

func cloneSpecifications(specs ItemSpecifications) ItemSpecifications {
	cloned := specs
	cloned.FinishingIDs = append([]string(nil), specs.FinishingIDs...)
	if specs.Dimension != nil {
		dimension := *specs.Dimension
		cloned.Dimension = &dimension
	}
	return cloned
}
