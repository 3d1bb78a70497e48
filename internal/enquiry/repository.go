package enquiry

import (
	"context"

	"gorm.io/gorm"

	"github.com/stationeryworks/stationery-backend/pkg/db/models"
	"github.com/stationeryworks/stationery-backend/pkg/enums"
	"github.com/stationeryworks/stationery-backend/pkg/pagination"
)

// Repository wires together enquiry persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the enquiry header together with its item snapshots.
func (r *Repository) Create(ctx context.Context, enquiry *models.Enquiry) error {
	return r.db.WithContext(ctx).Create(enquiry).Error
}

// DecrementStock applies a guarded decrement and reports whether a row
// was updated. Zero rows means the product had less stock than requested.
func (r *Repository) DecrementStock(ctx context.Context, productCode string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ? AND stock >= ?", productCode, qty).
		UpdateColumn("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByID loads the enquiry with its item snapshots.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Enquiry, error) {
	var row models.Enquiry
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListFilter narrows admin enquiry listings.
type ListFilter struct {
	Status *enums.EnquiryStatus
}

// List returns enquiries newest first using cursor pagination. The extra
// buffered row signals whether a next page exists.
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Enquiry, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Enquiry
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

// UpdateStatus writes the new status and optional admin notes.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.EnquiryStatus, adminNotes *string) error {
	updates := map[string]any{"status": status}
	if adminNotes != nil {
		updates["admin_notes"] = *adminNotes
	}
	return r.db.WithContext(ctx).
		Model(&models.Enquiry{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ListEmailLogs returns send attempts for the enquiry, oldest first.
func (r *Repository) ListEmailLogs(ctx context.Context, enquiryID int64) ([]models.EmailLog, error) {
	var rows []models.EmailLog
	err := r.db.WithContext(ctx).
		Where("enquiry_id = ?", enquiryID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// DashboardCounts aggregates the numbers shown on the admin dashboard.
type DashboardCounts struct {
	Products   int64
	Categories int64
	Brands     int64
	Enquiries  int64
	ByStatus   map[enums.EnquiryStatus]int64
}

// CountDashboard gathers row counts for the admin dashboard.
func (r *Repository) CountDashboard(ctx context.Context) (*DashboardCounts, error) {
	counts := &DashboardCounts{ByStatus: map[enums.EnquiryStatus]int64{}}
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Where("is_active = ?", true).Count(&counts.Products).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Category{}).Where("is_active = ?", true).Count(&counts.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Brand{}).Where("is_active = ?", true).Count(&counts.Brands).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Enquiry{}).Count(&counts.Enquiries).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status enums.EnquiryStatus
		Total  int64
	}
	var byStatus []statusCount
	err := db.Model(&models.Enquiry{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, sc := range byStatus {
		counts.ByStatus[sc.Status] = sc.Total
	}
	return counts, nil
}
