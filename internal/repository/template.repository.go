package repository

import (
	"context"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/pkg/pg"
)

type MessageTemplateRepository struct {
	*pg.DB
}

func NewMessageTemplateRepository(db *pg.DB) *MessageTemplateRepository {
	return &MessageTemplateRepository{
		db,
	}
}

func (r *MessageTemplateRepository) Create(ctx context.Context, t *model.MessageTemplate) (*model.MessageTemplate, error) {
	entity := toMessageTemplateEntity(t)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toMessageTemplateModel(entity), nil
}

// FindActive resolves the template used for a category: the oldest active
// one wins when an operator has several. ErrNotFound means the category
// has no active template and the dispatch is skipped.
func (r *MessageTemplateRepository) FindActive(ctx context.Context, operatorID int64, category model.Category) (*model.MessageTemplate, error) {
	var entity MessageTemplateEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("operator_id = ? AND category = ? AND is_active = ?", operatorID, string(category), true).
		Order("id ASC").
		First(&entity).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toMessageTemplateModel(&entity), nil
}
