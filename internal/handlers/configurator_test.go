package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sanduta-art/api/internal/services"
)

type stubConfiguratorService struct {
	view      services.ConfiguratorView
	err       error
	lastQuery services.ConfigurationQuery
}

func (s *stubConfiguratorService) DescribeConfiguration(_ context.Context, query services.ConfigurationQuery) (services.ConfiguratorView, error) {
	s.lastQuery = query
	if s.err != nil {
		return services.ConfiguratorView{}, s.err
	}
	return s.view, nil
}

func newConfiguratorTestRouter(service services.ConfiguratorService) http.Handler {
	r := chi.NewRouter()
	r.Route("/products", NewConfiguratorHandlers(service).Routes)
	return r
}

func TestDescribeConfigurationEndpoint(t *testing.T) {
	service := &stubConfiguratorService{
		view: services.ConfiguratorView{
			Product: services.ProductSummary{ID: "prod-posters", Name: "Posters", Currency: "EUR", BasePrice: 500},
			Materials: []services.Material{
				{ID: "mat-paper", Name: "Coated paper 170g", IsAvailable: true},
			},
			PrintMethods: []services.PrintMethod{{ID: "pm-offset", Name: "Offset"}},
			Issues:       []string{"print method \"pm-large\" is not compatible with the current material or dimensions"},
		},
	}
	router := newConfiguratorTestRouter(service)

	body := `{
		"selections": {
			"materialId": "mat-paper",
			"printMethodId": "pm-large",
			"dimension": {"width": 210, "height": 297, "unit": "mm"}
		},
		"quantity": 25
	}`
	req := httptest.NewRequest(http.MethodPost, "/products/prod-posters/configurator", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if service.lastQuery.ProductID != "prod-posters" || service.lastQuery.Quantity != 25 {
		t.Fatalf("unexpected query: %+v", service.lastQuery)
	}
	if service.lastQuery.Selections.MaterialID == nil || *service.lastQuery.Selections.MaterialID != "mat-paper" {
		t.Fatalf("unexpected selections: %+v", service.lastQuery.Selections)
	}

	var payload configuratorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.Product.ID != "prod-posters" || len(payload.Issues) != 1 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDescribeConfigurationAllowsEmptyBody(t *testing.T) {
	service := &stubConfiguratorService{view: services.ConfiguratorView{
		Product: services.ProductSummary{ID: "prod-posters"},
	}}
	router := newConfiguratorTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/products/prod-posters/configurator", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var payload configuratorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if payload.Issues == nil {
		t.Fatal("expected issues to serialise as an empty array")
	}
}

func TestDescribeConfigurationUnknownProduct(t *testing.T) {
	service := &stubConfiguratorService{err: services.ErrConfiguratorNotFound}
	router := newConfiguratorTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/products/prod-missing/configurator", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDescribeConfigurationMalformedBody(t *testing.T) {
	router := newConfiguratorTestRouter(&stubConfiguratorService{})
	req := httptest.NewRequest(http.MethodPost, "/products/prod-posters/configurator", bytes.NewBufferString(`{`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
