package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EnquiryItem is a line-item snapshot captured at checkout. Name, UOM, pack
// size and price are copied from the product so later catalog edits do not
// rewrite history.
type EnquiryItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	EnquiryID   int64           `gorm:"column:enquiry_id;not null;index"`
	ProductID   string          `gorm:"column:product_id;size:20;not null"`
	ProductName string          `gorm:"column:product_name;size:150;not null"`
	UOM         string          `gorm:"column:uom;size:50"`
	PackSize    string          `gorm:"column:pack_size;size:50"`
	Quantity    int             `gorm:"column:quantity;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (EnquiryItem) TableName() string {
	return "enquiry_items"
}
