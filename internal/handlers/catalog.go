package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanduta-art/api/internal/platform/httpx"
	"github.com/sanduta-art/api/internal/services"
)

// CatalogHandlers exposes the public product catalog.
type CatalogHandlers struct {
	catalog services.CatalogService
}

// NewCatalogHandlers constructs the catalog endpoints.
func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// ProductRoutes wires product listing and detail endpoints.
func (h *CatalogHandlers) ProductRoutes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listProducts)
	r.Get("/{productID}", h.getProduct)
}

// MaterialRoutes wires the material listing endpoint.
func (h *CatalogHandlers) MaterialRoutes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.listMaterials)
}

type productSummaryPayload struct {
	ID        string `json:"id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Currency  string `json:"currency"`
	BasePrice int64  `json:"basePrice"`
}

type productDetailPayload struct {
	productSummaryPayload
	Materials    []materialPayload    `json:"materials"`
	PrintMethods []printMethodPayload `json:"printMethods"`
	Finishing    []finishingPayload   `json:"finishing"`
	Upsells      []upsellPayload      `json:"upsells"`
}

func (h *CatalogHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}
	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}
	payloads := make([]productSummaryPayload, 0, len(products))
	for _, product := range products {
		payloads = append(payloads, productSummaryPayload{
			ID:        product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			Currency:  product.Currency,
			BasePrice: product.BasePrice,
		})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"products": payloads})
}

func (h *CatalogHandlers) getProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}
	product, err := h.catalog.GetConfiguratorProduct(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}
	payload := productDetailPayload{
		productSummaryPayload: productSummaryPayload{
			ID:        product.ID,
			SKU:       product.SKU,
			Name:      product.Name,
			Currency:  product.Currency,
			BasePrice: product.BasePrice,
		},
		Materials:    buildMaterialPayloads(product.Materials),
		PrintMethods: buildPrintMethodPayloads(product.PrintMethods),
		Finishing:    buildFinishingPayloads(product.Finishing),
		Upsells:      buildUpsellPayloads(product.Upsells),
	}
	writeJSONResponse(w, http.StatusOK, payload)
}

func (h *CatalogHandlers) listMaterials(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.catalog == nil {
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog service is unavailable", http.StatusServiceUnavailable))
		return
	}
	materials, err := h.catalog.ListMaterials(ctx)
	if err != nil {
		h.writeCatalogError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{"materials": buildMaterialPayloads(materials)})
}

func (h *CatalogHandlers) writeCatalogError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCatalogInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCatalogNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCatalogUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog backend unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}
