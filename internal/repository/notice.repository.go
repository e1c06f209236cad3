package repository

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/pg"
)

type OperatorNoticeRepository struct {
	*pg.DB
}

func NewOperatorNoticeRepository(db *pg.DB) *OperatorNoticeRepository {
	return &OperatorNoticeRepository{
		db,
	}
}

// Claim inserts the (operator, type, day) notice marker and reports
// whether this call created it. A false return means the notice already
// went out and the caller must not send again.
func (r *OperatorNoticeRepository) Claim(ctx context.Context, operatorID int64, noticeType model.NoticeType, day time.Time) (bool, error) {
	entity := &OperatorNoticeEntity{
		OperatorID: operatorID,
		Type:       string(noticeType),
		SentOn:     day,
	}
	res := r.Write(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operator_id"}, {Name: "type"}, {Name: "sent_on"}},
			DoNothing: true,
		}).
		Create(entity)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// WasSent reports whether the notice marker for (operator, type, day)
// exists.
func (r *OperatorNoticeRepository) WasSent(ctx context.Context, operatorID int64, noticeType model.NoticeType, day time.Time) (bool, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&OperatorNoticeEntity{}).
		Where("operator_id = ? AND type = ? AND sent_on = ?", operatorID, string(noticeType), day).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
