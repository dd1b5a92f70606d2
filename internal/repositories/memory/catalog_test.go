package memory

import (
	"context"
	"testing"
)

func TestCatalogRepositorySeededProducts(t *testing.T) {
	repo := NewCatalogRepository(SeedProducts())

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) == 0 {
		t.Fatal("expected seeded products")
	}
	for i := 1; i < len(products); i++ {
		if products[i-1].SKU > products[i].SKU {
			t.Fatalf("products not sorted by SKU: %q before %q", products[i-1].SKU, products[i].SKU)
		}
	}
}

func TestCatalogRepositoryGetProduct(t *testing.T) {
	repo := NewCatalogRepository(SeedProducts())

	product, err := repo.GetProduct(context.Background(), "prod-business-cards")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if len(product.Materials) == 0 || len(product.PrintMethods) == 0 {
		t.Fatalf("expected populated product, got %+v", product)
	}

	// A read copy must not leak into the stored catalog.
	product.Materials[0].Name = "mutated"
	reloaded, err := repo.GetProduct(context.Background(), "prod-business-cards")
	if err != nil {
		t.Fatalf("GetProduct: %v", err)
	}
	if reloaded.Materials[0].Name == "mutated" {
		t.Fatal("stored product was mutated through a read copy")
	}
}

func TestCatalogRepositoryGetProductNotFound(t *testing.T) {
	repo := NewCatalogRepository(nil)
	if _, err := repo.GetProduct(context.Background(), "prod-missing"); err == nil {
		t.Fatal("expected not-found error")
	}
}

func TestCatalogRepositoryListMaterials(t *testing.T) {
	repo := NewCatalogRepository(SeedProducts())
	materials, err := repo.ListMaterials(context.Background())
	if err != nil {
		t.Fatalf("ListMaterials: %v", err)
	}
	if len(materials) == 0 {
		t.Fatal("expected materials")
	}
	seen := map[string]bool{}
	for _, material := range materials {
		if seen[material.ID] {
			t.Fatalf("duplicate material %s", material.ID)
		}
		seen[material.ID] = true
	}
}
