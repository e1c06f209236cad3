package repository

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

type ClientEntity struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID           int64     `gorm:"column:operator_id;not null;index"`
	Name                 string    `gorm:"column:name;not null"`
	Phone                string    `gorm:"column:phone;not null"`
	PlanName             string    `gorm:"column:plan_name"`
	PlanPrice            float64   `gorm:"column:plan_price"`
	DueDate              time.Time `gorm:"column:due_date;not null;index"`
	Status               string    `gorm:"column:status;not null;index"`
	AutoRemindersEnabled bool      `gorm:"column:auto_reminders_enabled;not null"`
	Server               string    `gorm:"column:server"`
	Notes                string    `gorm:"column:notes"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ClientEntity) TableName() string {
	return "clients"
}

func toClientEntity(m *model.Client) *ClientEntity {
	if m == nil {
		return nil
	}
	return &ClientEntity{
		ID:                   m.ID,
		OperatorID:           m.OperatorID,
		Name:                 m.Name,
		Phone:                m.Phone,
		PlanName:             m.PlanName,
		PlanPrice:            m.PlanPrice,
		DueDate:              m.DueDate,
		Status:               string(m.Status),
		AutoRemindersEnabled: m.AutoRemindersEnabled,
		Server:               m.Server,
		Notes:                m.Notes,
		CreatedAt:            m.CreatedAt,
	}
}

func toClientModel(e *ClientEntity) *model.Client {
	if e == nil {
		return nil
	}
	return &model.Client{
		ID:                   e.ID,
		OperatorID:           e.OperatorID,
		Name:                 e.Name,
		Phone:                e.Phone,
		PlanName:             e.PlanName,
		PlanPrice:            e.PlanPrice,
		DueDate:              e.DueDate,
		Status:               model.ClientStatus(e.Status),
		AutoRemindersEnabled: e.AutoRemindersEnabled,
		Server:               e.Server,
		Notes:                e.Notes,
		CreatedAt:            e.CreatedAt,
	}
}

func toClientModels(entities []*ClientEntity) []*model.Client {
	if entities == nil {
		return nil
	}
	models := make([]*model.Client, len(entities))
	for i, e := range entities {
		models[i] = toClientModel(e)
	}
	return models
}
