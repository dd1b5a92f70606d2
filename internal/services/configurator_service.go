package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguratorInvalidInput = errors.New("configurator service: invalid input")
	ErrConfiguratorNotFound     = errors.New("configurator service: product not found")
	ErrConfiguratorUnavailable  = errors.New("configurator service: repository unavailable")
)

type configuratorService struct {
	catalog CatalogService
	pricer  ConfigurationPricer
	logger  func(context.Context, string, map[string]any)
}

// ConfiguratorServiceDeps wires the catalog and an optional pricer. Without a
// pricer the configurator still filters options but omits price previews.
type ConfiguratorServiceDeps struct {
	Catalog CatalogService
	Pricer  ConfigurationPricer
	Logger  func(context.Context, string, map[string]any)
}

// NewConfiguratorService builds the interactive option-filtering service.
func NewConfiguratorService(deps ConfiguratorServiceDeps) (ConfiguratorService, error) {
	if deps.Catalog == nil {
		return nil, errors.New("configurator service: catalog service is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &configuratorService{catalog: deps.Catalog, pricer: deps.Pricer, logger: logger}, nil
}

// DescribeConfiguration narrows the product's option space against the current
// selections and, when the configuration prices cleanly, attaches a preview.
func (s *configuratorService) DescribeConfiguration(ctx context.Context, query ConfigurationQuery) (ConfiguratorView, error) {
	productID := strings.TrimSpace(query.ProductID)
	if productID == "" {
		return ConfiguratorView{}, fmt.Errorf("%w: product id is required", ErrConfiguratorInvalidInput)
	}

	product, err := s.catalog.GetConfiguratorProduct(ctx, productID)
	if err != nil {
		switch {
		case errors.Is(err, ErrCatalogNotFound):
			return ConfiguratorView{}, fmt.Errorf("%w: %s", ErrConfiguratorNotFound, productID)
		case errors.Is(err, ErrCatalogInvalidInput):
			return ConfiguratorView{}, fmt.Errorf("%w: %v", ErrConfiguratorInvalidInput, err)
		case errors.Is(err, ErrCatalogUnavailable):
			return ConfiguratorView{}, fmt.Errorf("%w: %v", ErrConfiguratorUnavailable, err)
		default:
			return ConfiguratorView{}, err
		}
	}

	methodResult, err := FilterPrintMethods(product, query.Selections)
	if err != nil {
		return ConfiguratorView{}, fmt.Errorf("%w: %v", ErrConfiguratorInvalidInput, err)
	}
	finishingResult := FilterFinishing(product, query.Selections)

	issues := append([]string(nil), methodResult.Issues...)
	issues = append(issues, finishingResult.Issues...)

	view := ConfiguratorView{
		Product: ProductSummary{
			ID:        product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			Currency:  product.Currency,
			BasePrice: product.BasePrice,
		},
		Materials:         availableMaterials(product),
		PrintMethods:      methodResult.PrintMethods,
		SelectedPrint:     methodResult.SelectedPrintMethod,
		Finishing:         finishingResult.Finishing,
		SelectedFinishing: finishingResult.SelectedFinishing,
		Issues:            issues,
	}

	if preview := s.previewPrice(ctx, product, query, issues); preview != nil {
		view.Preview = preview
	}

	return view, nil
}

// previewPrice attempts a price preview for the current selections. Incomplete
// configurations are expected mid-session and simply yield no preview.
func (s *configuratorService) previewPrice(ctx context.Context, product ConfiguratorProduct, query ConfigurationQuery, issues []string) *PriceResult {
	if s.pricer == nil || len(issues) > 0 {
		return nil
	}
	if query.Selections.MaterialID == nil || strings.TrimSpace(*query.Selections.MaterialID) == "" {
		return nil
	}

	quantity := query.Quantity
	if quantity < 1 {
		quantity = 1
	}

	specs := ItemSpecifications{
		Quantity:     quantity,
		MaterialID:   *query.Selections.MaterialID,
		FinishingIDs: append([]string(nil), query.Selections.FinishingIDs...),
		Dimension:    query.Selections.Dimension,
	}
	if query.Selections.PrintMethodID != nil {
		specs.PrintMethodID = *query.Selections.PrintMethodID
	}

	result, err := s.pricer.PriceConfiguration(ctx, PriceConfigurationCommand{
		Product:        product,
		Specifications: specs,
	})
	if err != nil {
		if !errors.Is(err, ErrPricingIncomplete) {
			s.logger(ctx, "configurator.preview_failed", map[string]any{
				"productId": product.ID,
				"error":     err.Error(),
			})
		}
		return nil
	}
	return &result
}

func availableMaterials(product ConfiguratorProduct) []Material {
	materials := make([]Material, 0, len(product.Materials))
	for _, material := range product.Materials {
		if material.IsAvailable {
			materials = append(materials, material)
		}
	}
	return materials
}
