package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/pkg/enums"
)

// Enquiry is a submitted order request awaiting manual fulfillment. Totals
// are computed at submission from then-current prices and never recomputed;
// only Status and AdminNotes change after creation.
type Enquiry struct {
	ID           int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerName string              `gorm:"column:customer_name;size:150;not null"`
	Email        string              `gorm:"column:email;size:255;not null;index"`
	Phone        string              `gorm:"column:phone;size:20;not null"`
	Address      string              `gorm:"column:address;not null"`
	SessionID    string              `gorm:"column:session_id;size:200;not null;index"`
	Status       enums.EnquiryStatus `gorm:"column:status;size:30;not null;default:'NEW';index"`
	Subtotal     decimal.Decimal     `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Delivery     decimal.Decimal     `gorm:"column:delivery;type:numeric(10,2);not null"`
	GrandTotal   decimal.Decimal     `gorm:"column:grand_total;type:numeric(12,2);not null"`
	AdminNotes   *string             `gorm:"column:admin_notes"`
	IPAddress    *string             `gorm:"column:ip_address;size:50"`
	UserAgent    *string             `gorm:"column:user_agent;size:255"`
	IsActive     bool                `gorm:"column:is_active;not null;default:true"`
	Items        []EnquiryItem       `gorm:"foreignKey:EnquiryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Enquiry) TableName() string {
	return "enquiries"
}
