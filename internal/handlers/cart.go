package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanduta-art/api/internal/platform/auth"
	"github.com/sanduta-art/api/internal/platform/httpx"
	"github.com/sanduta-art/api/internal/services"
)

const maxCartBodySize = 16 * 1024

// CartHandlers exposes authenticated cart endpoints for the current caller.
type CartHandlers struct {
	carts services.CartService
}

// NewCartHandlers constructs the cart endpoints.
func NewCartHandlers(carts services.CartService) *CartHandlers {
	return &CartHandlers{carts: carts}
}

// Routes wires the /cart endpoints onto the provided router. The group is
// expected to run behind an identity guard; the router wires it via the cart
// middleware option.
func (h *CartHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.getCart)
	r.Delete("/", h.clearCart)
	r.Post("/items", h.addItem)
	r.Patch("/items/{itemID}", h.updateItem)
	r.Delete("/items/{itemID}", h.removeItem)
	r.Post("/validate", h.validateCart)
}

type cartItemPayload struct {
	ID             string                 `json:"id"`
	ProductID      string                 `json:"productId"`
	Currency       string                 `json:"currency"`
	Quantity       int                    `json:"quantity"`
	MaterialID     string                 `json:"materialId"`
	PrintMethodID  string                 `json:"printMethodId,omitempty"`
	FinishingIDs   []string               `json:"finishingIds,omitempty"`
	Dimension      *dimensionPayload      `json:"dimension,omitempty"`
	Notes          string                 `json:"notes,omitempty"`
	Upsells        []upsellPayload        `json:"upsells,omitempty"`
	PriceBreakdown *priceBreakdownPayload `json:"priceBreakdown,omitempty"`
	TotalPrice     int64                  `json:"totalPrice"`
	AddedAt        time.Time              `json:"addedAt"`
	UpdatedAt      *time.Time             `json:"updatedAt,omitempty"`
}

type cartPayload struct {
	ID        string            `json:"id"`
	Currency  string            `json:"currency,omitempty"`
	Items     []cartItemPayload `json:"items"`
	Total     int64             `json:"total"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type cartItemErrorPayload struct {
	ItemID  string `json:"itemId"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type addItemRequest struct {
	ProductID     string            `json:"productId"`
	Quantity      int               `json:"quantity"`
	MaterialID    string            `json:"materialId"`
	PrintMethodID string            `json:"printMethodId"`
	FinishingIDs  []string          `json:"finishingIds"`
	Dimension     *dimensionPayload `json:"dimension"`
	Notes         string            `json:"notes"`
	Upsells       []upsellRequest   `json:"upsells"`
}

type upsellRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type updateItemRequest struct {
	Quantity      *int              `json:"quantity"`
	MaterialID    *string           `json:"materialId"`
	PrintMethodID *string           `json:"printMethodId"`
	FinishingIDs  []string          `json:"finishingIds"`
	Dimension     *dimensionPayload `json:"dimension"`
	Notes         *string           `json:"notes"`
	Upsells       []upsellRequest   `json:"upsells"`
}

func (h *CartHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(ctx, w)
	if !ok {
		return
	}
	cart, err := h.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartPayload(cart))
}

func (h *CartHandlers) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(ctx, w)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req addItemRequest
	if err := decodeJSONBody(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	cart, err := h.carts.AddItem(ctx, services.AddCartItemCommand{
		UserID:    userID,
		ProductID: req.ProductID,
		Specifications: services.ItemSpecifications{
			Quantity:      req.Quantity,
			MaterialID:    req.MaterialID,
			PrintMethodID: req.PrintMethodID,
			FinishingIDs:  req.FinishingIDs,
			Dimension:     parseDimensionPayload(req.Dimension),
			Notes:         req.Notes,
		},
		Upsells: parseUpsellRequests(req.Upsells),
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, buildCartPayload(cart))
}

func (h *CartHandlers) updateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(ctx, w)
	if !ok {
		return
	}

	body, err := readLimitedBody(r, maxCartBodySize)
	if err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	var req updateItemRequest
	if err := decodeJSONBody(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	options := services.RecalculateOptions{Quantity: req.Quantity}
	if req.MaterialID != nil || req.PrintMethodID != nil || req.FinishingIDs != nil || req.Dimension != nil || req.Notes != nil {
		options.Specifications = &services.SpecificationsPatch{
			MaterialID:    req.MaterialID,
			PrintMethodID: req.PrintMethodID,
			FinishingIDs:  req.FinishingIDs,
			Dimension:     parseDimensionPayload(req.Dimension),
			Notes:         req.Notes,
		}
	}
	if req.Upsells != nil {
		options.Upsells = parseUpsellRequests(req.Upsells)
	}

	cart, err := h.carts.UpdateItem(ctx, services.UpdateCartItemCommand{
		UserID:  userID,
		ItemID:  chi.URLParam(r, "itemID"),
		Options: options,
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartPayload(cart))
}

func (h *CartHandlers) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(ctx, w)
	if !ok {
		return
	}
	cart, err := h.carts.RemoveItem(ctx, services.RemoveCartItemCommand{
		UserID: userID,
		ItemID: chi.URLParam(r, "itemID"),
	})
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, buildCartPayload(cart))
}

func (h *CartHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(ctx, w)
	if !ok {
		return
	}
	if err := h.carts.ClearCart(ctx, userID); err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandlers) validateCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.callerID(ctx, w)
	if !ok {
		return
	}
	issues, err := h.carts.ValidateCheckout(ctx, userID)
	if err != nil {
		h.writeCartError(ctx, w, err)
		return
	}
	payloads := make([]cartItemErrorPayload, 0, len(issues))
	for _, issue := range issues {
		payloads = append(payloads, cartItemErrorPayload{
			ItemID:  issue.ItemID,
			Field:   issue.Field,
			Message: issue.Message,
		})
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"valid":  len(payloads) == 0,
		"errors": payloads,
	})
}

func (h *CartHandlers) callerID(ctx context.Context, w http.ResponseWriter) (string, bool) {
	if h.carts == nil {
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart service is unavailable", http.StatusServiceUnavailable))
		return "", false
	}
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok || strings.TrimSpace(identity.UID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("unauthorized", "authentication required", http.StatusUnauthorized))
		return "", false
	}
	return identity.UID, true
}

func (h *CartHandlers) writeCartError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrCartInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case errors.Is(err, services.ErrCartNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "cart or item not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCartConflict):
		httpx.WriteError(ctx, w, httpx.NewError("conflict", "cart was modified concurrently, retry the request", http.StatusConflict))
	case errors.Is(err, services.ErrCartUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("cart_service_unavailable", "cart backend unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
	}
}

func buildCartPayload(cart services.Cart) cartPayload {
	items := make([]cartItemPayload, 0, len(cart.Items))
	var total int64
	for _, item := range cart.Items {
		total += item.TotalPrice
		items = append(items, cartItemPayload{
			ID:             item.ID,
			ProductID:      item.ProductID,
			Currency:       item.Currency,
			Quantity:       item.Specifications.Quantity,
			MaterialID:     item.Specifications.MaterialID,
			PrintMethodID:  item.Specifications.PrintMethodID,
			FinishingIDs:   item.Specifications.FinishingIDs,
			Dimension:      buildDimensionPayload(item.Specifications.Dimension),
			Notes:          item.Specifications.Notes,
			Upsells:        buildUpsellPayloads(item.Upsells),
			PriceBreakdown: buildBreakdownPayload(item.PriceBreakdown),
			TotalPrice:     item.TotalPrice,
			AddedAt:        item.AddedAt,
			UpdatedAt:      item.UpdatedAt,
		})
	}
	return cartPayload{
		ID:        cart.ID,
		Currency:  cart.Currency,
		Items:     items,
		Total:     total,
		UpdatedAt: cart.UpdatedAt,
	}
}

func parseUpsellRequests(requests []upsellRequest) []services.Upsell {
	if requests == nil {
		return nil
	}
	upsells := make([]services.Upsell, 0, len(requests))
	for _, request := range requests {
		upsells = append(upsells, services.Upsell{ID: request.ID, Name: request.Name, Price: request.Price})
	}
	return upsells
}
