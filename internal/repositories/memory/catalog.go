package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domain "github.com/sanduta-art/api/internal/domain"
	"github.com/sanduta-art/api/internal/repositories"
)

// CatalogRepository serves configurator products from memory. Products are
// loaded once at startup; reads copy option slices so callers can never
// mutate the shared catalog.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[string]domain.ConfiguratorProduct
}

// NewCatalogRepository builds a catalog from the provided products, indexing
// them by ID.
func NewCatalogRepository(products []domain.ConfiguratorProduct) *CatalogRepository {
	indexed := make(map[string]domain.ConfiguratorProduct, len(products))
	for _, product := range products {
		id := strings.TrimSpace(product.ID)
		if id == "" {
			continue
		}
		indexed[id] = product
	}
	return &CatalogRepository{products: indexed}
}

// ListProducts returns published product summaries sorted by SKU.
func (r *CatalogRepository) ListProducts(ctx context.Context) ([]domain.ProductSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]domain.ProductSummary, 0, len(r.products))
	for _, product := range r.products {
		if !product.IsPublished {
			continue
		}
		summaries = append(summaries, domain.ProductSummary{
			ID:          product.ID,
			SKU:         product.SKU,
			Name:        product.Name,
			Currency:    product.Currency,
			BasePrice:   product.BasePrice,
			IsPublished: product.IsPublished,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].SKU < summaries[j].SKU })
	return summaries, nil
}

// GetProduct retrieves a published product by ID.
func (r *CatalogRepository) GetProduct(ctx context.Context, productID string) (domain.ConfiguratorProduct, error) {
	if err := ctx.Err(); err != nil {
		return domain.ConfiguratorProduct{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[strings.TrimSpace(productID)]
	if !ok || !product.IsPublished {
		return domain.ConfiguratorProduct{}, repositories.NewNotFound("memory catalog: get product")
	}
	return cloneProduct(product), nil
}

// ListMaterials returns the union of materials across all products, sorted by ID.
func (r *CatalogRepository) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]domain.Material)
	for _, product := range r.products {
		for _, material := range product.Materials {
			if _, ok := seen[material.ID]; !ok {
				seen[material.ID] = material
			}
		}
	}
	materials := make([]domain.Material, 0, len(seen))
	for _, material := range seen {
		materials = append(materials, material)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].ID < materials[j].ID })
	return materials, nil
}

func cloneProduct(product domain.ConfiguratorProduct) domain.ConfiguratorProduct {
	dup := product
	dup.Materials = append([]domain.Material(nil), product.Materials...)
	dup.PrintMethods = make([]domain.PrintMethod, len(product.PrintMethods))
	for i, method := range product.PrintMethods {
		dup.PrintMethods[i] = method
		dup.PrintMethods[i].MaterialIDs = append([]string(nil), method.MaterialIDs...)
		dup.PrintMethods[i].MaxWidthMm = cloneFloatPtr(method.MaxWidthMm)
		dup.PrintMethods[i].MaxHeightMm = cloneFloatPtr(method.MaxHeightMm)
	}
	dup.Finishing = make([]domain.FinishingOption, len(product.Finishing))
	for i, option := range product.Finishing {
		dup.Finishing[i] = option
		dup.Finishing[i].MaterialIDs = append([]string(nil), option.MaterialIDs...)
		dup.Finishing[i].PrintMethodIDs = append([]string(nil), option.PrintMethodIDs...)
	}
	dup.Upsells = append([]domain.Upsell(nil), product.Upsells...)
	dup.Dimensions.MinWidthMm = cloneFloatPtr(product.Dimensions.MinWidthMm)
	dup.Dimensions.MaxWidthMm = cloneFloatPtr(product.Dimensions.MaxWidthMm)
	dup.Dimensions.MinHeightMm = cloneFloatPtr(product.Dimensions.MinHeightMm)
	dup.Dimensions.MaxHeightMm = cloneFloatPtr(product.Dimensions.MaxHeightMm)
	return dup
}

func cloneFloatPtr(value *float64) *float64 {
	if value == nil {
		return nil
	}
	dup := *value
	return &dup
}
