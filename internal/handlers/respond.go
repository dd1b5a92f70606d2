package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sanduta-art/api/internal/platform/httpx"
	"github.com/sanduta-art/api/internal/services"
)

var errBodyTooLarge = errors.New("request body too large")

// readLimitedBody reads the request body up to limit bytes.
func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, errBodyTooLarge
	}
	return body, nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	httpx.WriteJSON(w, status, payload)
}

func decodeJSONBody(body []byte, dst any) error {
	if len(body) == 0 {
		return errors.New("request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

// Shared JSON payload shapes.

type dimensionPayload struct {
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Unit   string   `json:"unit,omitempty"`
}

type materialPayload struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category,omitempty"`
	SurchargePerUnit int64  `json:"surchargePerUnit"`
	LeadTimeDays     int    `json:"leadTimeDays,omitempty"`
}

type printMethodPayload struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	MaxWidthMm         *float64 `json:"maxWidthMm,omitempty"`
	MaxHeightMm        *float64 `json:"maxHeightMm,omitempty"`
	RatePerSquareMeter int64    `json:"ratePerSquareMeter"`
	SetupFee           int64    `json:"setupFee"`
}

type finishingPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Fee  int64  `json:"fee"`
}

type upsellPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type priceLinePayload struct {
	Type        string `json:"type"`
	Ref         string `json:"ref,omitempty"`
	Description string `json:"description,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitAmount  int64  `json:"unitAmount"`
	Amount      int64  `json:"amount"`
}

type priceBreakdownPayload struct {
	Currency     string             `json:"currency"`
	Quantity     int                `json:"quantity"`
	Lines        []priceLinePayload `json:"lines"`
	Subtotal     int64              `json:"subtotal"`
	TierDiscount int64              `json:"tierDiscount"`
	Total        int64              `json:"total"`
	AreaSqM      *float64           `json:"areaSqM,omitempty"`
}

func buildDimensionPayload(dimension *services.Dimension) *dimensionPayload {
	if dimension == nil {
		return nil
	}
	return &dimensionPayload{
		Width:  dimension.Width,
		Height: dimension.Height,
		Unit:   string(dimension.Unit),
	}
}

func buildMaterialPayloads(materials []services.Material) []materialPayload {
	payloads := make([]materialPayload, 0, len(materials))
	for _, material := range materials {
		payloads = append(payloads, materialPayload{
			ID:               material.ID,
			Name:             material.Name,
			Category:         material.Category,
			SurchargePerUnit: material.SurchargePerUnit,
			LeadTimeDays:     material.LeadTimeDays,
		})
	}
	return payloads
}

func buildPrintMethodPayload(method services.PrintMethod) printMethodPayload {
	return printMethodPayload{
		ID:                 method.ID,
		Name:               method.Name,
		MaxWidthMm:         method.MaxWidthMm,
		MaxHeightMm:        method.MaxHeightMm,
		RatePerSquareMeter: method.RatePerSquareMeter,
		SetupFee:           method.SetupFee,
	}
}

func buildPrintMethodPayloads(methods []services.PrintMethod) []printMethodPayload {
	payloads := make([]printMethodPayload, 0, len(methods))
	for _, method := range methods {
		payloads = append(payloads, buildPrintMethodPayload(method))
	}
	return payloads
}

func buildFinishingPayloads(options []services.FinishingOption) []finishingPayload {
	payloads := make([]finishingPayload, 0, len(options))
	for _, option := range options {
		payloads = append(payloads, finishingPayload{ID: option.ID, Name: option.Name, Fee: option.Fee})
	}
	return payloads
}

func buildUpsellPayloads(upsells []services.Upsell) []upsellPayload {
	payloads := make([]upsellPayload, 0, len(upsells))
	for _, upsell := range upsells {
		payloads = append(payloads, upsellPayload{ID: upsell.ID, Name: upsell.Name, Price: upsell.Price})
	}
	return payloads
}

func buildBreakdownPayload(breakdown *services.PriceBreakdown) *priceBreakdownPayload {
	if breakdown == nil {
		return nil
	}
	lines := make([]priceLinePayload, 0, len(breakdown.Lines))
	for _, line := range breakdown.Lines {
		lines = append(lines, priceLinePayload{
			Type:        string(line.Type),
			Ref:         line.Ref,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			Amount:      line.Amount,
		})
	}
	return &priceBreakdownPayload{
		Currency:     breakdown.Currency,
		Quantity:     breakdown.Quantity,
		Lines:        lines,
		Subtotal:     breakdown.Subtotal,
		TierDiscount: breakdown.TierDiscount,
		Total:        breakdown.Total,
		AreaSqM:      breakdown.AreaSqM,
	}
}

func parseDimensionPayload(payload *dimensionPayload) *services.Dimension {
	if payload == nil {
		return nil
	}
	return &services.Dimension{
		Width:  payload.Width,
		Height: payload.Height,
		Unit:   services.Unit(payload.Unit),
	}
}
