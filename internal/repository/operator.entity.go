package repository

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

type OperatorEntity struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement;column:id"`
	TelegramID          string     `gorm:"column:telegram_id;not null;uniqueIndex"`
	Name                string     `gorm:"column:name"`
	IsActive            bool       `gorm:"column:is_active;not null;index"`
	IsTrial             bool       `gorm:"column:is_trial;not null"`
	TrialStartedAt      time.Time  `gorm:"column:trial_started_at"`
	SubscriptionDueDate *time.Time `gorm:"column:subscription_due_date"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (OperatorEntity) TableName() string {
	return "operators"
}

func toOperatorEntity(m *model.Operator) *OperatorEntity {
	if m == nil {
		return nil
	}
	return &OperatorEntity{
		ID:                  m.ID,
		TelegramID:          m.TelegramID,
		Name:                m.Name,
		IsActive:            m.IsActive,
		IsTrial:             m.IsTrial,
		TrialStartedAt:      m.TrialStartedAt,
		SubscriptionDueDate: m.SubscriptionDueDate,
		CreatedAt:           m.CreatedAt,
	}
}

func toOperatorModel(e *OperatorEntity) *model.Operator {
	if e == nil {
		return nil
	}
	return &model.Operator{
		ID:                  e.ID,
		TelegramID:          e.TelegramID,
		Name:                e.Name,
		IsActive:            e.IsActive,
		IsTrial:             e.IsTrial,
		TrialStartedAt:      e.TrialStartedAt,
		SubscriptionDueDate: e.SubscriptionDueDate,
		CreatedAt:           e.CreatedAt,
	}
}

func toOperatorModels(entities []*OperatorEntity) []*model.Operator {
	if entities == nil {
		return nil
	}
	models := make([]*model.Operator, len(entities))
	for i, e := range entities {
		models[i] = toOperatorModel(e)
	}
	return models
}
