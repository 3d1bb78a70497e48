package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the canonical catalog listing. Price and MRP are rupee amounts
// with two decimal places; the catalog invariant price <= mrp is enforced at
// write time by the catalog service and re-checked nowhere else.
type Product struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID   string          `gorm:"column:product_id;size:20;uniqueIndex;not null"`
	CategoryID  string          `gorm:"column:category_id;size:20;index;not null"`
	BrandID     string          `gorm:"column:brand_id;size:20;index;not null"`
	Name        string          `gorm:"column:name;size:150;uniqueIndex;not null"`
	Description *string         `gorm:"column:description"`
	SKU         *string         `gorm:"column:sku;size:50;uniqueIndex"`
	MRP         decimal.Decimal `gorm:"column:mrp;type:numeric(10,2);not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;index"`
	PackSize    int             `gorm:"column:pack_size;not null"`
	UOM         string          `gorm:"column:uom;size:20;not null"`
	MinOrderQty int             `gorm:"column:min_order_qty;not null;default:1"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Image       *string         `gorm:"column:image;size:255"`
	HSNCode     *string         `gorm:"column:hsn_code;size:20"`
	TaxPercent  decimal.Decimal `gorm:"column:tax_percent;type:numeric(5,2);default:0"`
	IsFeatured  bool            `gorm:"column:is_featured;not null;default:false"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
