package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
)

func newCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:catalog_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Brand{}, &models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newCatalogService(t *testing.T, db *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(db))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateCatalog(t *testing.T, svc Service) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Notebooks"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateBrand(ctx, BrandInput{Name: "Classmate"}); err != nil {
		t.Fatalf("create brand: %v", err)
	}
}

func productInput(name string) ProductInput {
	return ProductInput{
		CategoryCode: "CAT001",
		BrandCode:    "BRD001",
		Name:         name,
		MRP:          decimal.NewFromInt(60),
		Price:        decimal.NewFromInt(48),
		PackSize:     12,
		UOM:          "DOZEN",
		MinOrderQty:  5,
		Stock:        400,
	}
}

func TestCreateGeneratesSequentialCodes(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, newCatalogTestDB(t))
	ctx := context.Background()

	first, err := svc.CreateCategory(ctx, CategoryInput{Name: "Notebooks"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateCategory(ctx, CategoryInput{Name: "Office Supplies"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if first.CategoryID != "CAT001" || second.CategoryID != "CAT002" {
		t.Fatalf("unexpected codes: %s, %s", first.CategoryID, second.CategoryID)
	}

	brand, err := svc.CreateBrand(ctx, BrandInput{Name: "Classmate"})
	if err != nil {
		t.Fatalf("create brand: %v", err)
	}
	if brand.BrandID != "BRD001" {
		t.Fatalf("unexpected brand code %s", brand.BrandID)
	}

	product, err := svc.CreateProduct(ctx, productInput("Single Line Notebook"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if product.ProductID != "PRD001" {
		t.Fatalf("unexpected product code %s", product.ProductID)
	}
}

func TestCreateProductRejectsPriceAboveMRP(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, newCatalogTestDB(t))
	mustCreateCatalog(t, svc)

	input := productInput("Overpriced Notebook")
	input.Price = decimal.NewFromInt(80)

	_, err := svc.CreateProduct(context.Background(), input)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, newCatalogTestDB(t))

	_, err := svc.CreateProduct(context.Background(), productInput("Orphan Notebook"))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProductHidesInactive(t *testing.T) {
	t.Parallel()

	db := newCatalogTestDB(t)
	svc := newCatalogService(t, db)
	mustCreateCatalog(t, svc)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, productInput("Single Line Notebook"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := svc.GetProduct(ctx, created.ProductID); err != nil {
		t.Fatalf("get active product: %v", err)
	}

	if err := db.Model(&models.Product{}).
		Where("product_id = ?", created.ProductID).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("retire product: %v", err)
	}

	_, err = svc.GetProduct(ctx, created.ProductID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for retired product, got %v", err)
	}
}

func TestListProductsFilters(t *testing.T) {
	t.Parallel()

	db := newCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()

	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Notebooks"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateCategory(ctx, CategoryInput{Name: "Pens"}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := svc.CreateBrand(ctx, BrandInput{Name: "Classmate"}); err != nil {
		t.Fatalf("create brand: %v", err)
	}

	notebook := productInput("Single Line Notebook")
	notebook.IsFeatured = true
	if _, err := svc.CreateProduct(ctx, notebook); err != nil {
		t.Fatalf("create notebook: %v", err)
	}
	pen := productInput("Ball Pen Blue")
	pen.CategoryCode = "CAT002"
	pen.Price = decimal.NewFromInt(7)
	pen.MRP = decimal.NewFromInt(10)
	if _, err := svc.CreateProduct(ctx, pen); err != nil {
		t.Fatalf("create pen: %v", err)
	}

	byCategory, err := svc.ListProducts(ctx, ProductFilter{CategoryCode: "CAT002"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Name != "Ball Pen Blue" {
		t.Fatalf("unexpected category results: %+v", byCategory)
	}

	featured := true
	byFeatured, err := svc.ListProducts(ctx, ProductFilter{Featured: &featured})
	if err != nil {
		t.Fatalf("list featured: %v", err)
	}
	if len(byFeatured) != 1 || byFeatured[0].Name != "Single Line Notebook" {
		t.Fatalf("unexpected featured results: %+v", byFeatured)
	}

	maxPrice := decimal.NewFromInt(10)
	byPrice, err := svc.ListProducts(ctx, ProductFilter{MaxPrice: &maxPrice})
	if err != nil {
		t.Fatalf("list by price: %v", err)
	}
	if len(byPrice) != 1 || byPrice[0].Name != "Ball Pen Blue" {
		t.Fatalf("unexpected price results: %+v", byPrice)
	}

	_, err = svc.ListProducts(ctx, ProductFilter{CategoryCode: "CAT404"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown category, got %v", err)
	}
}

func TestSearchMatchesNameAndBrand(t *testing.T) {
	t.Parallel()

	db := newCatalogTestDB(t)
	svc := newCatalogService(t, db)
	ctx := context.Background()
	mustCreateCatalog(t, svc)

	if _, err := svc.CreateProduct(ctx, productInput("Single Line Notebook")); err != nil {
		t.Fatalf("create product: %v", err)
	}

	byName, err := svc.ListProducts(ctx, ProductFilter{Search: "single line"})
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(byName) != 1 {
		t.Fatalf("expected 1 name match, got %d", len(byName))
	}

	byBrand, err := svc.ListProducts(ctx, ProductFilter{Search: "classmate"})
	if err != nil {
		t.Fatalf("search by brand: %v", err)
	}
	if len(byBrand) != 1 {
		t.Fatalf("expected 1 brand match, got %d", len(byBrand))
	}

	none, err := svc.ListProducts(ctx, ProductFilter{Search: "stapler"})
	if err != nil {
		t.Fatalf("search no match: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no matches, got %d", len(none))
	}
}

func TestUpdateProduct(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, newCatalogTestDB(t))
	ctx := context.Background()
	mustCreateCatalog(t, svc)

	created, err := svc.CreateProduct(ctx, productInput("Single Line Notebook"))
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	update := productInput("Single Line Notebook 172p")
	update.Stock = 250
	updated, err := svc.UpdateProduct(ctx, created.ProductID, update)
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.ProductID != created.ProductID {
		t.Fatalf("expected code stable across updates, got %s", updated.ProductID)
	}
	if updated.Name != "Single Line Notebook 172p" || updated.Stock != 250 {
		t.Fatalf("unexpected updated row: %+v", updated)
	}

	_, err = svc.UpdateProduct(ctx, "PRD404", update)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
