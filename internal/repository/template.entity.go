package repository

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

type MessageTemplateEntity struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID int64     `gorm:"column:operator_id;not null;index"`
	Category   string    `gorm:"column:category;not null;index"`
	Content    string    `gorm:"column:content;not null"`
	IsActive   bool      `gorm:"column:is_active;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MessageTemplateEntity) TableName() string {
	return "message_templates"
}

func toMessageTemplateEntity(m *model.MessageTemplate) *MessageTemplateEntity {
	if m == nil {
		return nil
	}
	return &MessageTemplateEntity{
		ID:         m.ID,
		OperatorID: m.OperatorID,
		Category:   string(m.Category),
		Content:    m.Content,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
	}
}

func toMessageTemplateModel(e *MessageTemplateEntity) *model.MessageTemplate {
	if e == nil {
		return nil
	}
	return &model.MessageTemplate{
		ID:         e.ID,
		OperatorID: e.OperatorID,
		Category:   model.Category(e.Category),
		Content:    e.Content,
		IsActive:   e.IsActive,
		CreatedAt:  e.CreatedAt,
	}
}
