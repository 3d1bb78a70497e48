package cart

import (
	"context"

	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
)

// Line pairs a cart row with its product as currently listed.
type Line struct {
	Item    models.CartItem
	Product models.Product
}

// Repository manages persistent cart items.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindItem loads the cart row for the session/product pair.
func (r *Repository) FindItem(ctx context.Context, sessionID, productCode string) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.WithContext(ctx).
		First(&row, "session_id = ? AND product_id = ?", sessionID, productCode).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Save inserts or updates a cart row.
func (r *Repository) Save(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// DeleteItem removes the cart row for the session/product pair. No-op when absent.
func (r *Repository) DeleteItem(ctx context.Context, sessionID, productCode string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND product_id = ?", sessionID, productCode).
		Delete(&models.CartItem{}).Error
}

// DeleteBySession removes every cart row for the session.
func (r *Repository) DeleteBySession(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartItem{}).Error
}

// ListLines returns the session's cart rows joined with their active products,
// oldest first.
func (r *Repository) ListLines(ctx context.Context, sessionID string) ([]Line, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.ProductID)
	}
	var products []models.Product
	err = r.db.WithContext(ctx).
		Where("product_id IN ? AND is_active = ?", codes, true).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]models.Product, len(products))
	for _, p := range products {
		byCode[p.ProductID] = p
	}

	lines := make([]Line, 0, len(items))
	for _, item := range items {
		product, ok := byCode[item.ProductID]
		if !ok {
			// product retired since it was added; skip the orphan row
			continue
		}
		lines = append(lines, Line{Item: item, Product: product})
	}
	return lines, nil
}
