package repository

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

type DeliveryLogEntity struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID  int64     `gorm:"column:operator_id;not null;index"`
	ClientID    int64     `gorm:"column:client_id;not null;index"`
	Category    string    `gorm:"column:category;not null"`
	Recipient   string    `gorm:"column:recipient"`
	Content     string    `gorm:"column:content"`
	Status      string    `gorm:"column:status;not null;index"`
	ErrorDetail string    `gorm:"column:error_detail"`
	SentAt      time.Time `gorm:"column:sent_at;not null;index"`
}

func (DeliveryLogEntity) TableName() string {
	return "delivery_log"
}

func toDeliveryLogEntity(m *model.DeliveryLogEntry) *DeliveryLogEntity {
	if m == nil {
		return nil
	}
	return &DeliveryLogEntity{
		ID:          m.ID,
		OperatorID:  m.OperatorID,
		ClientID:    m.ClientID,
		Category:    string(m.Category),
		Recipient:   m.Recipient,
		Content:     m.Content,
		Status:      string(m.Status),
		ErrorDetail: m.ErrorDetail,
		SentAt:      m.SentAt,
	}
}

func toDeliveryLogModel(e *DeliveryLogEntity) *model.DeliveryLogEntry {
	if e == nil {
		return nil
	}
	return &model.DeliveryLogEntry{
		ID:          e.ID,
		OperatorID:  e.OperatorID,
		ClientID:    e.ClientID,
		Category:    model.Category(e.Category),
		Recipient:   e.Recipient,
		Content:     e.Content,
		Status:      model.DeliveryStatus(e.Status),
		ErrorDetail: e.ErrorDetail,
		SentAt:      e.SentAt,
	}
}

func toDeliveryLogModels(entities []*DeliveryLogEntity) []*model.DeliveryLogEntry {
	if entities == nil {
		return nil
	}
	models := make([]*model.DeliveryLogEntry, len(entities))
	for i, e := range entities {
		models[i] = toDeliveryLogModel(e)
	}
	return models
}
