package models

import "time"

const (
	EmailTypeFullData       = "full_data"
	EmailTypeBeforeDeletion = "before_deletion"

	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// EmailLog is an append-only audit row for each clinic notification attempt.
type EmailLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"not null" json:"type"`
	Status    string    `gorm:"not null" json:"status"`
	Recipient string    `gorm:"not null" json:"recipient"`
	SentAt    time.Time `gorm:"not null" json:"sent_at"`
}

func (EmailLog) TableName() string {
	return "email_logs"
}
