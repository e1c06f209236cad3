package repository

import (
	"context"
	"errors"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/pg"
)

var (
	// ErrNotFound is returned when a queried record does not exist.
	ErrNotFound = errors.New("record not found")
)

type OperatorRepository struct {
	*pg.DB
}

func NewOperatorRepository(db *pg.DB) *OperatorRepository {
	return &OperatorRepository{
		db,
	}
}

func (r *OperatorRepository) Create(ctx context.Context, op *model.Operator) (*model.Operator, error) {
	entity := toOperatorEntity(op)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toOperatorModel(entity), nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (*model.Operator, error) {
	var entity OperatorEntity
	err := r.Read(ctx).WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toOperatorModel(&entity), nil
}

// ListActive returns every operator eligible for scheduling, ordered by id
// so ticks process operators deterministically.
func (r *OperatorRepository) ListActive(ctx context.Context) ([]*model.Operator, error) {
	var entities []*OperatorEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, err
	}
	return toOperatorModels(entities), nil
}

// SetActive flips the activation state; used by the trial-expiry
// transition (deactivate) and by the payment flow (reactivate).
func (r *OperatorRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.Write(ctx).WithContext(ctx).
		Model(&OperatorEntity{}).
		Where("id = ?", id).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
