package models

import "time"

// EmailLog records one notification send attempt. Rows are append-only.
type EmailLog struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EnquiryID  int64     `gorm:"column:enquiry_id;not null;index"`
	EmailTo    string    `gorm:"column:email_to;size:150;not null"`
	SentStatus bool      `gorm:"column:sent_status;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
