package memory

import (
	"time"

	domain "github.com/sanduta-art/api/internal/domain"
)

func float64Ptr(v float64) *float64 { return &v }

// SeedProducts returns the built-in print product catalog used until the
// storefront catalog is sourced from an external database.
func SeedProducts() []domain.ConfiguratorProduct {
	seededAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	paper300 := domain.Material{ID: "mat-paper-300", Name: "Premium paper 300g", Category: "paper", SurchargePerUnit: 0, LeadTimeDays: 2, IsAvailable: true}
	paperRecycled := domain.Material{ID: "mat-paper-recycled", Name: "Recycled paper 250g", Category: "paper", SurchargePerUnit: 5, LeadTimeDays: 3, IsAvailable: true}
	vinyl := domain.Material{ID: "mat-vinyl", Name: "Frontlit vinyl 510g", Category: "banner", SurchargePerUnit: 0, LeadTimeDays: 2, IsAvailable: true}
	mesh := domain.Material{ID: "mat-mesh", Name: "Mesh banner", Category: "banner", SurchargePerUnit: 150, LeadTimeDays: 4, IsAvailable: true}
	foil := domain.Material{ID: "mat-foil", Name: "Adhesive foil", Category: "sticker", SurchargePerUnit: 10, LeadTimeDays: 2, IsAvailable: true}

	offset := domain.PrintMethod{
		ID:          "pm-offset",
		Name:        "Offset",
		MaterialIDs: []string{paper300.ID, paperRecycled.ID},
		MaxWidthMm:  float64Ptr(500),
		MaxHeightMm: float64Ptr(700),
		SetupFee:    2500,
	}
	digital := domain.PrintMethod{
		ID:          "pm-digital",
		Name:        "Digital",
		MaxWidthMm:  float64Ptr(330),
		MaxHeightMm: float64Ptr(488),
	}
	largeFormat := domain.PrintMethod{
		ID:                 "pm-large-format",
		Name:               "Large format inkjet",
		MaterialIDs:        []string{vinyl.ID, mesh.ID, foil.ID},
		MaxWidthMm:         float64Ptr(3200),
		RatePerSquareMeter: 1800,
	}

	lamination := domain.FinishingOption{
		ID:             "fin-lamination",
		Name:           "Matte lamination",
		MaterialIDs:    []string{paper300.ID, paperRecycled.ID},
		PrintMethodIDs: []string{offset.ID, digital.ID},
		Fee:            15,
	}
	rounding := domain.FinishingOption{
		ID:   "fin-corner-rounding",
		Name: "Corner rounding",
		Fee:  8,
	}
	grommets := domain.FinishingOption{
		ID:             "fin-grommets",
		Name:           "Grommets every 50cm",
		MaterialIDs:    []string{vinyl.ID, mesh.ID},
		PrintMethodIDs: []string{largeFormat.ID},
		Fee:            300,
	}
	hemming := domain.FinishingOption{
		ID:             "fin-hemming",
		Name:           "Edge hemming",
		PrintMethodIDs: []string{largeFormat.ID},
		Fee:            450,
	}

	return []domain.ConfiguratorProduct{
		{
			ID:           "prod-business-cards",
			SKU:          "BC-STD",
			Name:         "Business cards",
			Currency:     "EUR",
			BasePrice:    12,
			Materials:    []domain.Material{paper300, paperRecycled},
			PrintMethods: []domain.PrintMethod{offset, digital},
			Finishing:    []domain.FinishingOption{lamination, rounding},
			Dimensions: domain.DimensionConstraints{
				MinWidthMm:  float64Ptr(85),
				MaxWidthMm:  float64Ptr(95),
				MinHeightMm: float64Ptr(50),
				MaxHeightMm: float64Ptr(60),
				DefaultUnit: domain.UnitMillimeter,
			},
			Upsells: []domain.Upsell{
				{ID: "ups-design-review", Name: "Design review", Price: 900},
				{ID: "ups-express", Name: "Express production", Price: 1500},
			},
			IsPublished: true,
			UpdatedAt:   seededAt,
		},
		{
			ID:           "prod-banner",
			SKU:          "BNR-LF",
			Name:         "Outdoor banner",
			Currency:     "EUR",
			BasePrice:    500,
			Materials:    []domain.Material{vinyl, mesh},
			PrintMethods: []domain.PrintMethod{largeFormat},
			Finishing:    []domain.FinishingOption{grommets, hemming},
			Dimensions: domain.DimensionConstraints{
				MinWidthMm:  float64Ptr(300),
				MinHeightMm: float64Ptr(300),
				DefaultUnit: domain.UnitCentimeter,
			},
			Upsells: []domain.Upsell{
				{ID: "ups-express", Name: "Express production", Price: 2500},
			},
			IsPublished: true,
			UpdatedAt:   seededAt,
		},
		{
			ID:           "prod-stickers",
			SKU:          "STK-CUT",
			Name:         "Die-cut stickers",
			Currency:     "EUR",
			BasePrice:    30,
			Materials:    []domain.Material{foil},
			PrintMethods: []domain.PrintMethod{digital, largeFormat},
			Finishing:    []domain.FinishingOption{rounding},
			Dimensions: domain.DimensionConstraints{
				MinWidthMm:  float64Ptr(20),
				MaxWidthMm:  float64Ptr(300),
				MinHeightMm: float64Ptr(20),
				MaxHeightMm: float64Ptr(300),
				DefaultUnit: domain.UnitMillimeter,
			},
			IsPublished: true,
			UpdatedAt:   seededAt,
		},
	}
}
