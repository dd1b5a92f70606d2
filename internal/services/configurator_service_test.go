package services

import (
	"context"
	"errors"
	"testing"
)

func newTestConfiguratorService(t *testing.T) ConfiguratorService {
	t.Helper()
	catalog := &fakeCatalogService{products: map[string]ConfiguratorProduct{"prod-posters": fixtureProduct()}}
	service, err := NewConfiguratorService(ConfiguratorServiceDeps{
		Catalog: catalog,
		Pricer:  newTestPricingEngine(t),
	})
	if err != nil {
		t.Fatalf("NewConfiguratorService: %v", err)
	}
	return service
}

func TestDescribeConfigurationInitialView(t *testing.T) {
	service := newTestConfiguratorService(t)
	view, err := service.DescribeConfiguration(context.Background(), ConfigurationQuery{ProductID: "prod-posters"})
	if err != nil {
		t.Fatalf("DescribeConfiguration: %v", err)
	}
	if view.Product.ID != "prod-posters" {
		t.Fatalf("unexpected product: %+v", view.Product)
	}
	// Unavailable materials are not offered.
	if got := len(view.Materials); got != 2 {
		t.Fatalf("expected 2 available materials, got %d", got)
	}
	if got := methodIDs(view.PrintMethods); !equalIDs(got, []string{"pm-digital"}) {
		t.Fatalf("expected only the unrestricted method before a material is chosen, got %v", got)
	}
	if view.Preview != nil {
		t.Fatal("expected no preview without a material")
	}
}

func TestDescribeConfigurationWithPreview(t *testing.T) {
	service := newTestConfiguratorService(t)
	view, err := service.DescribeConfiguration(context.Background(), ConfigurationQuery{
		ProductID: "prod-posters",
		Selections: Selections{
			MaterialID:    strPtr("mat-paper"),
			PrintMethodID: strPtr("pm-offset"),
		},
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("DescribeConfiguration: %v", err)
	}
	if view.SelectedPrint == nil || view.SelectedPrint.ID != "pm-offset" {
		t.Fatalf("expected pm-offset selected, got %+v", view.SelectedPrint)
	}
	if view.Preview == nil {
		t.Fatal("expected a price preview")
	}
	if view.Preview.Total != 6500 {
		t.Fatalf("expected preview total 6500, got %d", view.Preview.Total)
	}
}

func TestDescribeConfigurationIssuesSuppressPreview(t *testing.T) {
	service := newTestConfiguratorService(t)
	view, err := service.DescribeConfiguration(context.Background(), ConfigurationQuery{
		ProductID: "prod-posters",
		Selections: Selections{
			MaterialID:    strPtr("mat-paper"),
			PrintMethodID: strPtr("pm-large"),
		},
		Quantity: 10,
	})
	if err != nil {
		t.Fatalf("DescribeConfiguration: %v", err)
	}
	if len(view.Issues) != 1 {
		t.Fatalf("expected one issue, got %v", view.Issues)
	}
	if view.Preview != nil {
		t.Fatal("expected no preview while issues are present")
	}
}

func TestDescribeConfigurationIncompleteSelectionHasNoPreview(t *testing.T) {
	service := newTestConfiguratorService(t)
	view, err := service.DescribeConfiguration(context.Background(), ConfigurationQuery{
		ProductID:  "prod-posters",
		Selections: Selections{MaterialID: strPtr("mat-paper")},
		Quantity:   10,
	})
	if err != nil {
		t.Fatalf("DescribeConfiguration: %v", err)
	}
	// Material chosen but no print method yet: filtering works, pricing waits.
	if view.Preview != nil {
		t.Fatal("expected no preview for an incomplete configuration")
	}
	if got := methodIDs(view.PrintMethods); !equalIDs(got, []string{"pm-digital", "pm-offset"}) {
		t.Fatalf("unexpected candidate methods: %v", got)
	}
}

func TestDescribeConfigurationUnknownProduct(t *testing.T) {
	service := newTestConfiguratorService(t)
	_, err := service.DescribeConfiguration(context.Background(), ConfigurationQuery{ProductID: "prod-missing"})
	if !errors.Is(err, ErrConfiguratorNotFound) {
		t.Fatalf("expected ErrConfiguratorNotFound, got %v", err)
	}
}

func TestDescribeConfigurationRequiresProductID(t *testing.T) {
	service := newTestConfiguratorService(t)
	_, err := service.DescribeConfiguration(context.Background(), ConfigurationQuery{})
	if !errors.Is(err, ErrConfiguratorInvalidInput) {
		t.Fatalf("expected ErrConfiguratorInvalidInput, got %v", err)
	}
}
