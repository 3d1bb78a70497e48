package models

import "time"

// Brand identifies a manufacturer. BrandID is the public business code
// (BRD001, BRD002, ...).
type Brand struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	BrandID     string    `gorm:"column:brand_id;size:20;uniqueIndex;not null"`
	Name        string    `gorm:"column:name;size:100;not null"`
	Description *string   `gorm:"column:description"`
	Image       *string   `gorm:"column:image;size:255"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Brand) TableName() string {
	return "brands"
}
