package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanduta-art/api/internal/platform/httpx"
	"github.com/sanduta-art/api/internal/services"
)

const maxConfiguratorBodySize = 16 * 1024

// ConfiguratorHandlers exposes the interactive option-filtering endpoint.
type ConfiguratorHandlers struct {
	configurator services.ConfiguratorService
}

// NewConfiguratorHandlers constructs the configurator endpoints.
func NewConfiguratorHandlers(configurator services.ConfiguratorService) *ConfiguratorHandlers {
	return &ConfiguratorHandlers{configurator: configurator}
}

// Routes wires the configurator endpoint under the product resource.
func (h *ConfiguratorHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/{productID}/configurator", h.describeConfiguration)
}

type configuratorRequest struct {
	Selections struct {
		MaterialID    *string           `json:"materialId"`
		PrintMethodID *string           `json:"printMethodId"`
		FinishingIDs  []string          `json:"finishingIds"`
		Dimension     *dimensionPayload `json:"dimension"`
	} `json:"selections"`
	Quantity int `json:"quantity"`
}

type configuratorResponse struct {
	Product           productSummaryPayload `json:"product"`
	Materials         []materialPayload     `json:"materials"`
	PrintMethods      []printMethodPayload  `json:"printMethods"`
	SelectedPrint     *printMethodPayload   `json:"selectedPrintMethod,omitempty"`
	Finishing         []finishingPayload    `json:"finishing"`
	SelectedFinishing []finishingPayload    `json:"selectedFinishing,omitempty"`
	Issues            []string              `json:"issues"`
	Preview           *configuratorPreview  `json:"preview,omitempty"`
}

type configuratorPreview struct {
	Breakdown *priceBreakdownPayload `json:"breakdown"`
	Total     int64                  `json:"total"`
}

func (h *ConfiguratorHandlers) describeConfiguration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.configurator == nil {
		httpx.WriteError(ctx, w, httpx.NewError("configurator_unavailable", "configurator service is unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxConfiguratorBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req configuratorRequest
	if len(body) > 0 {
		if err := decodeJSONBody(body, &req); err != nil {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
			return
		}
	}

	view, err := h.configurator.DescribeConfiguration(ctx, services.ConfigurationQuery{
		ProductID: chi.URLParam(r, "productID"),
		Selections: services.Selections{
			MaterialID:    req.Selections.MaterialID,
			PrintMethodID: req.Selections.PrintMethodID,
			FinishingIDs:  req.Selections.FinishingIDs,
			Dimension:     parseDimensionPayload(req.Selections.Dimension),
		},
		Quantity: req.Quantity,
	})
	if err != nil {
		h.writeConfiguratorError(ctx, w, err)
		return
	}

	response := configuratorResponse{
		Product: productSummaryPayload{
			ID:        view.Product.ID,
			SKU:       view.Product.SKU,
			Name:      view.Product.Name,
			Currency:  view.Product.Currency,
			BasePrice: view.Product.BasePrice,
		},
		Materials:         buildMaterialPayloads(view.Materials),
		PrintMethods:      buildPrintMethodPayloads(view.PrintMethods),
		Finishing:         buildFinishingPayloads(view.Finishing),
		SelectedFinishing: buildFinishingPayloads(view.SelectedFinishing),
		Issues:            view.Issues,
	}
	if response.Issues == nil {
		response.Issues = []string{}
	}
	if view.SelectedPrint != nil {
		selected := buildPrintMethodPayload(*view.SelectedPrint)
		response.SelectedPrint = &selected
	}
	if view.Preview != nil {
		response.Preview = &configuratorPreview{
			Breakdown: buildBreakdownPayload(&view.Preview.Breakdown),
			Total:     view.Preview.Total,
		}
	}

	writeJSONResponse(w, http.StatusOK, response)
}

func (h *ConfiguratorHandlers) writeConfiguratorError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrConfiguratorInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrConfiguratorNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
	case errors.Is(err, services.ErrConfiguratorUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "catalog backend unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}

func writeBodyError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		httpx.WriteError(ctx, w, httpx.NewError("payload_too_large", "request body exceeds allowed size", http.StatusRequestEntityTooLarge))
		return
	}
	httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
}
