package repository

import (
	"context"
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/pg"
)

type DeliveryLogRepository struct {
	*pg.DB
}

func NewDeliveryLogRepository(db *pg.DB) *DeliveryLogRepository {
	return &DeliveryLogRepository{
		db,
	}
}

// Append records one attempted send. The log is append-only; nothing in
// the engine updates or deletes entries.
func (r *DeliveryLogRepository) Append(ctx context.Context, entry *model.DeliveryLogEntry) (*model.DeliveryLogEntry, error) {
	entity := toDeliveryLogEntity(entry)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toDeliveryLogModel(entity), nil
}

// ExistsSent reports whether a successful send for (operator, client,
// category) exists at or after since. This is the engine's sole
// duplicate-prevention source.
func (r *DeliveryLogRepository) ExistsSent(ctx context.Context, operatorID, clientID int64, category model.Category, since time.Time) (bool, error) {
	var count int64
	err := r.Read(ctx).WithContext(ctx).
		Model(&DeliveryLogEntity{}).
		Where("operator_id = ? AND client_id = ? AND category = ? AND status = ? AND sent_at >= ?",
			operatorID, clientID, string(category), string(model.DeliveryStatusSent), since).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List applies f and returns matching entries plus the unpaginated count.
func (r *DeliveryLogRepository) List(ctx context.Context, f model.DeliveryLogFilter) ([]*model.DeliveryLogEntry, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&DeliveryLogEntity{})

	if f.OperatorID != nil {
		q = q.Where("operator_id = ?", *f.OperatorID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.Category != nil {
		q = q.Where("category = ?", string(*f.Category))
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.From != nil {
		q = q.Where("sent_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("sent_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "sent_at"
	if f.Desc {
		order += " DESC"
	} else {
		order += " ASC"
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*DeliveryLogEntity
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toDeliveryLogModels(entities), total, nil
}
