package models

import "time"

// Category groups products on the storefront. CategoryID is the public
// business code (CAT001, CAT002, ...) used in URLs and foreign keys.
type Category struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID  string    `gorm:"column:category_id;size:20;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;size:100;uniqueIndex;not null"`
	Description *string   `gorm:"column:description"`
	Image       *string   `gorm:"column:image;size:255"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
