package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/pg"
)

type ScheduleSettingsRepository struct {
	*pg.DB
}

func NewScheduleSettingsRepository(db *pg.DB) *ScheduleSettingsRepository {
	return &ScheduleSettingsRepository{
		db,
	}
}

// GetOrCreate returns the operator's settings, creating defaults on first
// contact. The insert is an upsert keyed on operator_id, so concurrent
// callers cannot create duplicates; defaults are defined by the caller
// exactly once.
func (r *ScheduleSettingsRepository) GetOrCreate(ctx context.Context, operatorID int64, defaults model.ScheduleSettings) (*model.ScheduleSettings, error) {
	defaults.ID = 0
	defaults.OperatorID = operatorID
	entity := toScheduleSettingsEntity(&defaults)

	err := r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operator_id"}},
			DoNothing: true,
		}).
		Create(entity).Error
	if err != nil {
		return nil, err
	}

	var existing ScheduleSettingsEntity
	err = r.Read(ctx).WithContext(ctx).
		First(&existing, "operator_id = ?", operatorID).Error
	if err != nil {
		return nil, err
	}
	return toScheduleSettingsModel(&existing), nil
}

// MarkMorningRun advances the morning run marker to day. The update is
// conditional on the stored marker being older, which both keeps the
// marker monotonic and lets exactly one of two concurrent ticks win the
// day. Returns true when this call advanced the marker.
func (r *ScheduleSettingsRepository) MarkMorningRun(ctx context.Context, operatorID int64, day time.Time) (bool, error) {
	return r.markRun(ctx, operatorID, "last_morning_run", day)
}

// MarkReportRun is MarkMorningRun for the daily report job.
func (r *ScheduleSettingsRepository) MarkReportRun(ctx context.Context, operatorID int64, day time.Time) (bool, error) {
	return r.markRun(ctx, operatorID, "last_report_run", day)
}

func (r *ScheduleSettingsRepository) markRun(ctx context.Context, operatorID int64, column string, day time.Time) (bool, error) {
	res := r.Write(ctx).WithContext(ctx).
		Model(&ScheduleSettingsEntity{}).
		Where("operator_id = ? AND ("+column+" IS NULL OR "+column+" < ?)", operatorID, day).
		Update(column, day)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Update persists operator-editable fields (times and flags); run markers
// move only through the Mark* methods.
func (r *ScheduleSettingsRepository) Update(ctx context.Context, s *model.ScheduleSettings) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&ScheduleSettingsEntity{}).
		Where("operator_id = ?", s.OperatorID).
		Updates(map[string]interface{}{
			"morning_reminder_time": s.MorningReminderTime,
			"daily_report_time":     s.DailyReportTime,
			"auto_send_enabled":     s.AutoSendEnabled,
			"report_enabled":        s.ReportEnabled,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
