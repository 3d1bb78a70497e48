package notifier

import (
	"context"

	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
)

// Repository persists notification state for the worker.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindEnquiry loads the enquiry with its item snapshots.
func (r *Repository) FindEnquiry(ctx context.Context, id int64) (*models.Enquiry, error) {
	var row models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// LogEmail appends one send-attempt record.
func (r *Repository) LogEmail(ctx context.Context, log *models.EmailLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
