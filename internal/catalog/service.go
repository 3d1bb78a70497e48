package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbpkg "github.com/stationeryworks/stationery-backend/pkg/db"
	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
)

// Service exposes catalog read paths and admin maintenance operations.
type Service interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, code string) (*models.Product, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error)
	CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, code string, input ProductInput) (*models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	return s.repo.ListBrands(ctx)
}

func (s *service) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	if filter.CategoryCode != "" {
		if _, err := s.repo.FindCategoryByCode(ctx, filter.CategoryCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
		}
	}
	if filter.BrandCode != "" {
		if _, err := s.repo.FindBrandByCode(ctx, filter.BrandCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
		}
	}
	return s.repo.ListProducts(ctx, filter)
}

func (s *service) GetProduct(ctx context.Context, code string) (*models.Product, error) {
	product, err := s.repo.FindProductByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	return product, nil
}

// CategoryInput captures the fields an admin supplies for a new category.
type CategoryInput struct {
	Name        string
	Description *string
	Image       *string
}

func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	seq, err := s.repo.NextSequence(ctx, &models.Category{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating category code")
	}
	row := &models.Category{
		CategoryID:  fmt.Sprintf("CAT%03d", seq),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		IsActive:    true,
	}
	created, err := s.repo.CreateCategory(ctx, row)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return created, nil
}

// BrandInput captures the fields an admin supplies for a new brand.
type BrandInput struct {
	Name        string
	Description *string
	Image       *string
}

func (s *service) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	seq, err := s.repo.NextSequence(ctx, &models.Brand{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating brand code")
	}
	row := &models.Brand{
		BrandID:     fmt.Sprintf("BRD%03d", seq),
		Name:        input.Name,
		Description: input.Description,
		Image:       input.Image,
		IsActive:    true,
	}
	created, err := s.repo.CreateBrand(ctx, row)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "brand already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating brand")
	}
	return created, nil
}

// ProductInput captures the fields an admin supplies for a product.
type ProductInput struct {
	CategoryCode string
	BrandCode    string
	Name         string
	Description  *string
	SKU          *string
	MRP          decimal.Decimal
	Price        decimal.Decimal
	PackSize     int
	UOM          string
	MinOrderQty  int
	Stock        int
	Image        *string
	HSNCode      *string
	TaxPercent   decimal.Decimal
	IsFeatured   bool
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	row, err := s.buildProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	seq, err := s.repo.NextSequence(ctx, &models.Product{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generating product code")
	}
	row.ProductID = fmt.Sprintf("PRD%03d", seq)
	row.IsActive = true
	created, err := s.repo.CreateProduct(ctx, row)
	if err != nil {
		if dbpkg.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, code string, input ProductInput) (*models.Product, error) {
	existing, err := s.repo.FindProductByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	updated, err := s.buildProduct(ctx, input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.ProductID = existing.ProductID
	updated.IsActive = existing.IsActive
	updated.CreatedAt = existing.CreatedAt
	saved, err := s.repo.UpdateProduct(ctx, updated)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return saved, nil
}

func (s *service) buildProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	category, err := s.repo.FindCategoryByCode(ctx, input.CategoryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	brand, err := s.repo.FindBrandByCode(ctx, input.BrandCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown brand")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading brand")
	}
	if input.MRP.IsNegative() || input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amounts must be non-negative")
	}
	if input.Price.GreaterThan(input.MRP) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot exceed mrp")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	packSize := input.PackSize
	if packSize <= 0 {
		packSize = 1
	}
	minOrderQty := input.MinOrderQty
	if minOrderQty <= 0 {
		minOrderQty = 1
	}
	uom := input.UOM
	if uom == "" {
		uom = "PCS"
	}
	return &models.Product{
		CategoryID:  category.CategoryID,
		BrandID:     brand.BrandID,
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		MRP:         input.MRP,
		Price:       input.Price,
		PackSize:    packSize,
		UOM:         uom,
		MinOrderQty: minOrderQty,
		Stock:       input.Stock,
		Image:       input.Image,
		HSNCode:     input.HSNCode,
		TaxPercent:  input.TaxPercent,
		IsFeatured:  input.IsFeatured,
	}, nil
}
