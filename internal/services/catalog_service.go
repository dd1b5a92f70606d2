package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sanduta-art/api/internal/repositories"
)

var (
	ErrCatalogInvalidInput = errors.New("catalog service: invalid input")
	ErrCatalogNotFound     = errors.New("catalog service: not found")
	ErrCatalogUnavailable  = errors.New("catalog service: repository unavailable")
)

type catalogService struct {
	catalog repositories.CatalogRepository
	logger  func(context.Context, string, map[string]any)
}

// CatalogServiceDeps wires the catalog repository into the service.
type CatalogServiceDeps struct {
	Catalog repositories.CatalogRepository
	Logger  func(context.Context, string, map[string]any)
}

// NewCatalogService exposes read access to the published product catalog.
func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("catalog service: catalog repository is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &catalogService{catalog: deps.Catalog, logger: logger}, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]ProductSummary, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, s.translateRepoError(ctx, "catalog.list_products", err)
	}
	summaries := make([]ProductSummary, 0, len(products))
	for _, product := range products {
		summaries = append(summaries, ProductSummary{
			ID:        product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			Currency:  product.Currency,
			BasePrice: product.BasePrice,
		})
	}
	return summaries, nil
}

func (s *catalogService) GetConfiguratorProduct(ctx context.Context, productID string) (ConfiguratorProduct, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ConfiguratorProduct{}, fmt.Errorf("%w: product id is required", ErrCatalogInvalidInput)
	}
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return ConfiguratorProduct{}, s.translateRepoError(ctx, "catalog.get_product", err)
	}
	return product, nil
}

func (s *catalogService) ListMaterials(ctx context.Context) ([]Material, error) {
	materials, err := s.catalog.ListMaterials(ctx)
	if err != nil {
		return nil, s.translateRepoError(ctx, "catalog.list_materials", err)
	}
	return materials, nil
}

func (s *catalogService) translateRepoError(ctx context.Context, op string, err error) error {
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return fmt.Errorf("%w: %s", ErrCatalogNotFound, op)
		case repoErr.IsUnavailable():
			s.logger(ctx, "catalog.repository_unavailable", map[string]any{"op": op, "error": err.Error()})
			return fmt.Errorf("%w: %s", ErrCatalogUnavailable, op)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
