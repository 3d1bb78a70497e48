package models

import "time"

// CartItem is one line of an anonymous session's cart. The (session_id,
// product_id) pair is unique; quantity mutations upsert against it.
type CartItem struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	SessionID string    `gorm:"column:session_id;size:200;not null;index;uniqueIndex:uq_cart_session_product"`
	ProductID string    `gorm:"column:product_id;size:20;not null;uniqueIndex:uq_cart_session_product"`
	Quantity  int       `gorm:"column:quantity;not null"`
	IPAddress *string   `gorm:"column:ip_address;size:50"`
	UserAgent *string   `gorm:"column:user_agent;size:255"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
