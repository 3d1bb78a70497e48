package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListCategories returns active categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// FindCategoryByCode loads an active category by its business code.
func (r *Repository) FindCategoryByCode(ctx context.Context, code string) (*models.Category, error) {
	var row models.Category
	err := r.db.WithContext(ctx).
		First(&row, "category_id = ? AND is_active = ?", code, true).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListBrands returns active brands ordered by name.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// FindBrandByCode loads an active brand by its business code.
func (r *Repository) FindBrandByCode(ctx context.Context, code string) (*models.Brand, error) {
	var row models.Brand
	err := r.db.WithContext(ctx).
		First(&row, "brand_id = ? AND is_active = ?", code, true).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ProductFilter narrows product listings by business codes, price range
// and minimum order quantity. Single-code and multi-code fields combine
// with AND; within CategoryCodes/BrandCodes the codes combine with IN.
type ProductFilter struct {
	CategoryCode  string
	BrandCode     string
	CategoryCodes []string
	BrandCodes    []string
	Featured      *bool
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	MinOrderQty   *int
	Search        string
}

// ListProducts returns active products matching the filter, ordered by name.
func (r *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Where("is_active = ?", true)
	if filter.CategoryCode != "" {
		q = q.Where("category_id = ?", filter.CategoryCode)
	}
	if filter.BrandCode != "" {
		q = q.Where("brand_id = ?", filter.BrandCode)
	}
	if len(filter.CategoryCodes) > 0 {
		q = q.Where("category_id IN ?", filter.CategoryCodes)
	}
	if len(filter.BrandCodes) > 0 {
		q = q.Where("brand_id IN ?", filter.BrandCodes)
	}
	if filter.Featured != nil {
		q = q.Where("is_featured = ?", *filter.Featured)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinOrderQty != nil {
		q = q.Where("min_order_qty <= ?", *filter.MinOrderQty)
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		like := fmt.Sprintf("%%%s%%", strings.ToLower(term))
		q = q.Where(
			"(LOWER(name) LIKE ? OR LOWER(description) LIKE ?"+
				" OR category_id IN (SELECT category_id FROM categories WHERE LOWER(name) LIKE ?)"+
				" OR brand_id IN (SELECT brand_id FROM brands WHERE LOWER(name) LIKE ?))",
			like, like, like, like)
	}
	var rows []models.Product
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindProductByCode loads an active product by its business code.
func (r *Repository) FindProductByCode(ctx context.Context, code string) (*models.Product, error) {
	var row models.Product
	err := r.db.WithContext(ctx).
		First(&row, "product_id = ? AND is_active = ?", code, true).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// CreateCategory inserts a new category row.
func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// CreateBrand inserts a new brand row.
func (r *Repository) CreateBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error) {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return nil, err
	}
	return brand, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// NextSequence returns the next value for generating business codes like PRD001.
func (r *Repository) NextSequence(ctx context.Context, model any) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return 0, err
	}
	return count + 1, nil
}
