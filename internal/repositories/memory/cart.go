package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	domain "github.com/sanduta-art/api/internal/domain"
	"github.com/sanduta-art/api/internal/repositories"
)

// CartRepository keeps one cart per user in memory, guarded by a mutex so it
// is safe for concurrent request handlers. Optimistic locking uses the cart's
// UpdatedAt timestamp, mirroring the semantics a database backend would offer.
type CartRepository struct {
	mu    sync.Mutex
	carts map[string]domain.Cart
}

// NewCartRepository constructs an empty cart store.
func NewCartRepository() *CartRepository {
	return &CartRepository{carts: make(map[string]domain.Cart)}
}

// GetCart loads the cart for a user.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[strings.TrimSpace(userID)]
	if !ok {
		return domain.Cart{}, repositories.NewNotFound("memory cart: get")
	}
	return cloneCart(cart), nil
}

// UpsertCart stores the cart, enforcing the expected UpdatedAt when provided.
func (r *CartRepository) UpsertCart(ctx context.Context, cart domain.Cart, expectedUpdatedAt *time.Time) (domain.Cart, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cart{}, err
	}
	userID := strings.TrimSpace(cart.UserID)
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.carts[userID]; ok && expectedUpdatedAt != nil {
		if !existing.UpdatedAt.UTC().Equal(expectedUpdatedAt.UTC()) {
			return domain.Cart{}, repositories.NewConflict("memory cart: upsert")
		}
	}

	r.carts[userID] = cloneCart(cart)
	return cloneCart(cart), nil
}

// DeleteCart removes the cart for a user. Deleting an absent cart is a no-op.
func (r *CartRepository) DeleteCart(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, strings.TrimSpace(userID))
	return nil
}

func cloneCart(cart domain.Cart) domain.Cart {
	dup := cart
	dup.Items = cloneItems(cart.Items)
	if cart.Metadata != nil {
		dup.Metadata = make(map[string]any, len(cart.Metadata))
		for k, v := range cart.Metadata {
			dup.Metadata[k] = v
		}
	}
	return dup
}

func cloneItems(items []domain.CartItem) []domain.CartItem {
	if items == nil {
		return nil
	}
	dup := make([]domain.CartItem, len(items))
	copy(dup, items)
	for i := range dup {
		dup[i].Specifications.FinishingIDs = append([]string(nil), items[i].Specifications.FinishingIDs...)
		if items[i].Specifications.Dimension != nil {
			d := *items[i].Specifications.Dimension
			dup[i].Specifications.Dimension = &d
		}
		dup[i].Upsells = append([]domain.Upsell(nil), items[i].Upsells...)
		if items[i].PriceBreakdown != nil {
			b := *items[i].PriceBreakdown
			b.Lines = append([]domain.PriceLine(nil), items[i].PriceBreakdown.Lines...)
			dup[i].PriceBreakdown = &b
		}
		if items[i].UpdatedAt != nil {
			ts := items[i].UpdatedAt.UTC()
			dup[i].UpdatedAt = &ts
		}
	}
	return dup
}
