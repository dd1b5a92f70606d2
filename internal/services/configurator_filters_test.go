package services

import (
	"strings"
	"testing"

	domain "github.com/sanduta-art/api/internal/domain"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

// fixtureProduct models a poster product with one unrestricted digital method,
// an offset method bound to paper, and a large-format method bound to vinyl.
func fixtureProduct() ConfiguratorProduct {
	return ConfiguratorProduct{
		ID:        "prod-posters",
		SKU:       "POSTER-01",
		Name:      "Posters",
		Currency:  "eur",
		BasePrice: 500,
		Materials: []Material{
			{ID: "mat-paper", Name: "Coated paper 170g", IsAvailable: true},
			{ID: "mat-vinyl", Name: "Vinyl banner", SurchargePerUnit: 50, IsAvailable: true},
			{ID: "mat-foil", Name: "Metallic foil", IsAvailable: false},
		},
		PrintMethods: []PrintMethod{
			{ID: "pm-digital", Name: "Digital", MaxWidthMm: floatPtr(330), MaxHeightMm: floatPtr(480)},
			{ID: "pm-offset", Name: "Offset", MaterialIDs: []string{"mat-paper"}, SetupFee: 1500},
			{ID: "pm-large", Name: "Large format", MaterialIDs: []string{"mat-vinyl"}, RatePerSquareMeter: 1800, SetupFee: 1000},
		},
		Finishing: []FinishingOption{
			{ID: "fin-lam", Name: "Lamination", MaterialIDs: []string{"mat-paper", "mat-vinyl"}, Fee: 20},
			{ID: "fin-grommets", Name: "Grommets", MaterialIDs: []string{"mat-vinyl"}, PrintMethodIDs: []string{"pm-large"}, Fee: 35},
		},
		Dimensions: DimensionConstraints{DefaultUnit: domain.UnitMillimeter},
		Upsells: []Upsell{
			{ID: "up-design", Name: "Design service", Price: 2500},
			{ID: "up-rush", Name: "Rush production", Price: 1500},
		},
		IsPublished: true,
	}
}

func methodIDs(methods []PrintMethod) []string {
	ids := make([]string, 0, len(methods))
	for _, method := range methods {
		ids = append(ids, method.ID)
	}
	return ids
}

func finishingOptionIDs(options []FinishingOption) []string {
	ids := make([]string, 0, len(options))
	for _, option := range options {
		ids = append(ids, option.ID)
	}
	return ids
}

func equalIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFilterPrintMethodsExcludesRestrictedWithoutMaterial(t *testing.T) {
	result, err := FilterPrintMethods(fixtureProduct(), Selections{})
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	if got := methodIDs(result.PrintMethods); !equalIDs(got, []string{"pm-digital"}) {
		t.Fatalf("expected only the unrestricted method, got %v", got)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", result.Issues)
	}
}

func TestFilterPrintMethodsNarrowsByMaterial(t *testing.T) {
	result, err := FilterPrintMethods(fixtureProduct(), Selections{MaterialID: strPtr("mat-paper")})
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	if got := methodIDs(result.PrintMethods); !equalIDs(got, []string{"pm-digital", "pm-offset"}) {
		t.Fatalf("unexpected methods for paper: %v", got)
	}
}

func TestFilterPrintMethodsMachineFit(t *testing.T) {
	selections := Selections{
		MaterialID: strPtr("mat-vinyl"),
		Dimension: &Dimension{
			Width:  floatPtr(1000),
			Height: floatPtr(500),
			Unit:   domain.UnitMillimeter,
		},
	}
	result, err := FilterPrintMethods(fixtureProduct(), selections)
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	if got := methodIDs(result.PrintMethods); !equalIDs(got, []string{"pm-large"}) {
		t.Fatalf("expected the 1000mm width to exclude the digital press, got %v", got)
	}
}

func TestFilterPrintMethodsConvertsUnitsForFit(t *testing.T) {
	// 40cm exceeds the digital press width of 330mm.
	selections := Selections{
		MaterialID: strPtr("mat-paper"),
		Dimension: &Dimension{
			Width:  floatPtr(40),
			Height: floatPtr(30),
			Unit:   domain.UnitCentimeter,
		},
	}
	result, err := FilterPrintMethods(fixtureProduct(), selections)
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	if got := methodIDs(result.PrintMethods); !equalIDs(got, []string{"pm-offset"}) {
		t.Fatalf("expected the 40cm width to exclude the digital press, got %v", got)
	}
}

func TestFilterPrintMethodsDefersFitWithoutDimension(t *testing.T) {
	result, err := FilterPrintMethods(fixtureProduct(), Selections{MaterialID: strPtr("mat-vinyl")})
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	if got := methodIDs(result.PrintMethods); !equalIDs(got, []string{"pm-digital", "pm-large"}) {
		t.Fatalf("expected size limits to be ignored without a dimension, got %v", got)
	}
}

func TestFilterPrintMethodsReportsStaleSelection(t *testing.T) {
	selections := Selections{
		MaterialID:    strPtr("mat-paper"),
		PrintMethodID: strPtr("pm-large"),
	}
	result, err := FilterPrintMethods(fixtureProduct(), selections)
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	if result.SelectedPrintMethod != nil {
		t.Fatalf("expected no selected method, got %s", result.SelectedPrintMethod.ID)
	}
	if len(result.Issues) != 1 || !strings.Contains(result.Issues[0], "pm-large") {
		t.Fatalf("expected a single issue naming the stale method, got %v", result.Issues)
	}
}

func TestFilterPrintMethodsRejectsUnknownUnit(t *testing.T) {
	selections := Selections{
		Dimension: &Dimension{Width: floatPtr(10), Height: floatPtr(10), Unit: domain.Unit("inch")},
	}
	if _, err := FilterPrintMethods(fixtureProduct(), selections); err == nil {
		t.Fatal("expected an error for an unknown unit")
	}
}

func TestFilterFinishingKeepsOptionsWithoutSelections(t *testing.T) {
	result := FilterFinishing(fixtureProduct(), Selections{})
	if got := finishingOptionIDs(result.Finishing); !equalIDs(got, []string{"fin-lam", "fin-grommets"}) {
		t.Fatalf("expected every option to stay on offer, got %v", got)
	}
}

func TestFilterFinishingNarrowsByMaterialAndMethod(t *testing.T) {
	result := FilterFinishing(fixtureProduct(), Selections{
		MaterialID:    strPtr("mat-paper"),
		PrintMethodID: strPtr("pm-offset"),
	})
	if got := finishingOptionIDs(result.Finishing); !equalIDs(got, []string{"fin-lam"}) {
		t.Fatalf("expected grommets to drop for paper offset, got %v", got)
	}
}

func TestFilterFinishingAggregatesStaleSelections(t *testing.T) {
	result := FilterFinishing(fixtureProduct(), Selections{
		MaterialID:   strPtr("mat-paper"),
		FinishingIDs: []string{"fin-missing", "fin-grommets"},
	})
	if len(result.Issues) != 1 {
		t.Fatalf("expected exactly one aggregate issue, got %v", result.Issues)
	}
	if !strings.Contains(result.Issues[0], "fin-grommets, fin-missing") {
		t.Fatalf("expected stale ids sorted in the issue, got %q", result.Issues[0])
	}
	if len(result.SelectedFinishing) != 0 {
		t.Fatalf("expected no selected finishing, got %v", finishingOptionIDs(result.SelectedFinishing))
	}
}

func TestFilterFinishingMatchesSelection(t *testing.T) {
	result := FilterFinishing(fixtureProduct(), Selections{
		MaterialID:   strPtr("mat-vinyl"),
		FinishingIDs: []string{"fin-grommets", "fin-grommets", "fin-lam"},
	})
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", result.Issues)
	}
	if got := finishingOptionIDs(result.SelectedFinishing); !equalIDs(got, []string{"fin-grommets", "fin-lam"}) {
		t.Fatalf("unexpected selected finishing: %v", got)
	}
}

func TestFilteringIsIdempotent(t *testing.T) {
	product := fixtureProduct()
	selections := Selections{
		MaterialID:    strPtr("mat-vinyl"),
		PrintMethodID: strPtr("pm-large"),
		FinishingIDs:  []string{"fin-grommets"},
		Dimension:     &domain.Dimension{Width: floatPtr(2000), Height: floatPtr(1000), Unit: domain.UnitMillimeter},
	}

	first, err := FilterPrintMethods(product, selections)
	if err != nil {
		t.Fatalf("FilterPrintMethods: %v", err)
	}
	narrowed := product
	narrowed.PrintMethods = first.PrintMethods
	second, err := FilterPrintMethods(narrowed, selections)
	if err != nil {
		t.Fatalf("FilterPrintMethods narrowed: %v", err)
	}
	if !equalIDs(methodIDs(second.PrintMethods), methodIDs(first.PrintMethods)) {
		t.Fatalf("re-filtering changed the method set: %v vs %v", methodIDs(second.PrintMethods), methodIDs(first.PrintMethods))
	}
	if len(second.Issues) != len(first.Issues) {
		t.Fatalf("re-filtering changed issues: %v vs %v", second.Issues, first.Issues)
	}

	firstFin := FilterFinishing(product, selections)
	narrowed.Finishing = firstFin.Finishing
	secondFin := FilterFinishing(narrowed, selections)
	if !equalIDs(finishingOptionIDs(secondFin.Finishing), finishingOptionIDs(firstFin.Finishing)) {
		t.Fatalf("re-filtering changed the finishing set: %v vs %v", finishingOptionIDs(secondFin.Finishing), finishingOptionIDs(firstFin.Finishing))
	}
}
