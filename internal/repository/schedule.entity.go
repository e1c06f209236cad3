package repository

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

type ScheduleSettingsEntity struct {
	ID                  int64      `gorm:"primaryKey;autoIncrement;column:id"`
	OperatorID          int64      `gorm:"column:operator_id;not null;uniqueIndex"`
	MorningReminderTime string     `gorm:"column:morning_reminder_time;not null"`
	DailyReportTime     string     `gorm:"column:daily_report_time;not null"`
	AutoSendEnabled     bool       `gorm:"column:auto_send_enabled;not null"`
	ReportEnabled       bool       `gorm:"column:report_enabled;not null"`
	LastMorningRun      *time.Time `gorm:"column:last_morning_run"`
	LastReportRun       *time.Time `gorm:"column:last_report_run"`
}

func (ScheduleSettingsEntity) TableName() string {
	return "schedule_settings"
}

func toScheduleSettingsEntity(m *model.ScheduleSettings) *ScheduleSettingsEntity {
	if m == nil {
		return nil
	}
	return &ScheduleSettingsEntity{
		ID:                  m.ID,
		OperatorID:          m.OperatorID,
		MorningReminderTime: m.MorningReminderTime,
		DailyReportTime:     m.DailyReportTime,
		AutoSendEnabled:     m.AutoSendEnabled,
		ReportEnabled:       m.ReportEnabled,
		LastMorningRun:      m.LastMorningRun,
		LastReportRun:       m.LastReportRun,
	}
}

func toScheduleSettingsModel(e *ScheduleSettingsEntity) *model.ScheduleSettings {
	if e == nil {
		return nil
	}
	return &model.ScheduleSettings{
		ID:                  e.ID,
		OperatorID:          e.OperatorID,
		MorningReminderTime: e.MorningReminderTime,
		DailyReportTime:     e.DailyReportTime,
		AutoSendEnabled:     e.AutoSendEnabled,
		ReportEnabled:       e.ReportEnabled,
		LastMorningRun:      e.LastMorningRun,
		LastReportRun:       e.LastReportRun,
	}
}
