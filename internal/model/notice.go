package model

import "time"

type NoticeType string

const (
	NoticeTrialExpiring NoticeType = "trial_expiring"
	NoticeTrialExpired  NoticeType = "trial_expired"
)

// OperatorNotice records that a one-time operator notice went out on a
// given civil date, so it is not resent on every tick while the triggering
// condition holds.
type OperatorNotice struct {
	ID         int64      `json:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID int64      `json:"operator_id" gorm:"column:operator_id;not null;uniqueIndex:idx_operator_notice"`
	Type       NoticeType `json:"type"        gorm:"column:type;not null;uniqueIndex:idx_operator_notice"`
	SentOn     time.Time  `json:"sent_on"     gorm:"column:sent_on;not null;uniqueIndex:idx_operator_notice"`
}

func (OperatorNotice) TableName() string { return "operator_notices" }
