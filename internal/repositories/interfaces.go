package repositories

import (
	"context"
	"time"

	domain "github.com/sanduta-art/api/internal/domain"
)

// RepositoryError wraps low-level persistence failures with categorisation used by services.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsConflict() bool
	IsUnavailable() bool
}

// CatalogRepository provides read-only access to configurable products. The
// configurator treats everything it returns as already-validated plain data.
type CatalogRepository interface {
	// ListProducts returns published product summaries in catalog order.
	ListProducts(ctx context.Context) ([]domain.ProductSummary, error)
	// GetProduct retrieves the full configurator view for a product. Returns a
	// RepositoryError with IsNotFound when the product is absent or unpublished.
	GetProduct(ctx context.Context, productID string) (domain.ConfiguratorProduct, error)
	// ListMaterials returns every material referenced by the catalog.
	ListMaterials(ctx context.Context) ([]domain.Material, error)
}

// CartRepository owns cart header + items persistence with optimistic locking
// on the cart's UpdatedAt timestamp.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (domain.Cart, error)
	UpsertCart(ctx context.Context, cart domain.Cart, expectedUpdatedAt *time.Time) (domain.Cart, error)
	DeleteCart(ctx context.Context, userID string) error
}
