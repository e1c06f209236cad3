package repository

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

type OperatorNoticeEntity struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID int64     `gorm:"column:operator_id;not null;uniqueIndex:idx_operator_notice"`
	Type       string    `gorm:"column:type;not null;uniqueIndex:idx_operator_notice"`
	SentOn     time.Time `gorm:"column:sent_on;not null;uniqueIndex:idx_operator_notice"`
}

func (OperatorNoticeEntity) TableName() string {
	return "operator_notices"
}

func toOperatorNoticeModel(e *OperatorNoticeEntity) *model.OperatorNotice {
	if e == nil {
		return nil
	}
	return &model.OperatorNotice{
		ID:         e.ID,
		OperatorID: e.OperatorID,
		Type:       model.NoticeType(e.Type),
		SentOn:     e.SentOn,
	}
}
