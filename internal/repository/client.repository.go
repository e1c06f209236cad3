package repository

import (
	"context"
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/pg"
)

type ClientRepository struct {
	*pg.DB
}

func NewClientRepository(db *pg.DB) *ClientRepository {
	return &ClientRepository{
		db,
	}
}

func (r *ClientRepository) Create(ctx context.Context, c *model.Client) (*model.Client, error) {
	entity := toClientEntity(c)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toClientModel(entity), nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	var entity ClientEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toClientModel(&entity), nil
}

// List applies f and returns matching clients plus the unpaginated count.
func (r *ClientRepository) List(ctx context.Context, f model.ClientFilter) ([]*model.Client, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&ClientEntity{})

	if f.OperatorID != nil {
		q = q.Where("operator_id = ?", *f.OperatorID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.AutoRemindersOnly {
		q = q.Where("auto_reminders_enabled = ?", true)
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	if f.DueBefore != nil {
		q = q.Where("due_date < ?", *f.DueBefore)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*ClientEntity
	if err := q.Order("due_date ASC, id ASC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toClientModels(entities), total, nil
}

// ListReminderWindow loads the clients that can produce a reminder today:
// active, auto reminders on, due date inside [from, to].
func (r *ClientRepository) ListReminderWindow(ctx context.Context, operatorID int64, from, to time.Time) ([]*model.Client, error) {
	status := model.ClientStatusActive
	clients, _, err := r.List(ctx, model.ClientFilter{
		OperatorID:        &operatorID,
		Status:            &status,
		AutoRemindersOnly: true,
		DueFrom:           &from,
		DueTo:             &to,
	})
	return clients, err
}

// SuspendOverdue marks active clients with due_date strictly before the
// cutoff as inactive and reports how many rows changed.
func (r *ClientRepository) SuspendOverdue(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.Write(ctx).WithContext(ctx).
		Model(&ClientEntity{}).
		Where("status = ? AND due_date < ?", string(model.ClientStatusActive), cutoff).
		Update("status", string(model.ClientStatusInactive))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
