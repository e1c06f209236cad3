package model

import "time"

// ScheduleSettings is the per-operator schedule record: when the morning
// reminder job and the daily report job fire, and the last civil date each
// one ran. At most one run per job type per day is enforced by comparing
// the current date against the marker before triggering.
type ScheduleSettings struct {
	ID                  int64      `json:"id"                    gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID          int64      `json:"operator_id"           gorm:"column:operator_id;not null;uniqueIndex"`
	MorningReminderTime string     `json:"morning_reminder_time" gorm:"column:morning_reminder_time;not null"`
	DailyReportTime     string     `json:"daily_report_time"     gorm:"column:daily_report_time;not null"`
	AutoSendEnabled     bool       `json:"auto_send_enabled"     gorm:"column:auto_send_enabled;not null"`
	ReportEnabled       bool       `json:"report_enabled"        gorm:"column:report_enabled;not null"`
	LastMorningRun      *time.Time `json:"last_morning_run"      gorm:"column:last_morning_run"`
	LastReportRun       *time.Time `json:"last_report_run"       gorm:"column:last_report_run"`
}

func (ScheduleSettings) TableName() string { return "schedule_settings" }
