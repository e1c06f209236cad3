package model

import "time"

// Operator is an account holder managing their own client base. Inactive
// operators never trigger or receive dispatch.
type Operator struct {
	ID                  int64      `json:"id"                    gorm:"primaryKey;autoIncrement;column:id"`
	TelegramID          string     `json:"telegram_id"           gorm:"column:telegram_id;not null;uniqueIndex"`
	Name                string     `json:"name"                  gorm:"column:name"`
	IsActive            bool       `json:"is_active"             gorm:"column:is_active;not null;index"`
	IsTrial             bool       `json:"is_trial"              gorm:"column:is_trial;not null"`
	TrialStartedAt      time.Time  `json:"trial_started_at"      gorm:"column:trial_started_at"`
	SubscriptionDueDate *time.Time `json:"subscription_due_date" gorm:"column:subscription_due_date"`
	CreatedAt           time.Time  `json:"created_at"            gorm:"column:created_at;autoCreateTime"`
}

func (Operator) TableName() string { return "operators" }
