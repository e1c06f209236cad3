package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// DeliveryLogEntry is one attempted reminder send. The log is append-only
// and doubles as the idempotency source: a sent entry for
// (operator, client, category) dated today suppresses re-sends that day.
type DeliveryLogEntry struct {
	ID          int64          `json:"id"           gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID  int64          `json:"operator_id"  gorm:"column:operator_id;not null;index"`
	ClientID    int64          `json:"client_id"    gorm:"column:client_id;not null;index"`
	Category    Category       `json:"category"     gorm:"column:category;not null"`
	Recipient   string         `json:"recipient"    gorm:"column:recipient"`
	Content     string         `json:"content"      gorm:"column:content"`
	Status      DeliveryStatus `json:"status"       gorm:"column:status;not null;index"`
	ErrorDetail string         `json:"error_detail" gorm:"column:error_detail"`
	SentAt      time.Time      `json:"sent_at"      gorm:"column:sent_at;not null;index"`
}

func (DeliveryLogEntry) TableName() string { return "delivery_log" }

// DeliveryLogFilter controls list queries over the log.
type DeliveryLogFilter struct {
	OperatorID *int64
	ClientID   *int64
	Category   *Category
	Status     *DeliveryStatus
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
	Desc       bool
}
