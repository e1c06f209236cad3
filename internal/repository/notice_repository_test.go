package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack/reminder-gateway/internal/model"
)

func TestOperatorNoticeRepository_Claim(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewOperatorNoticeRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Write(ctx).Create(&OperatorEntity{ID: 1, TelegramID: "tg-1", IsActive: true}).Error)

	today := day(2026, 8, 26)

	t.Run("first claim wins", func(t *testing.T) {
		won, err := repo.Claim(ctx, 1, model.NoticeTrialExpired, today)
		require.NoError(t, err)
		assert.True(t, won)
	})

	t.Run("second claim same day loses", func(t *testing.T) {
		won, err := repo.Claim(ctx, 1, model.NoticeTrialExpired, today)
		require.NoError(t, err)
		assert.False(t, won)
	})

	t.Run("different notice type is independent", func(t *testing.T) {
		won, err := repo.Claim(ctx, 1, model.NoticeTrialExpiring, today)
		require.NoError(t, err)
		assert.True(t, won)
	})

	t.Run("different day is independent", func(t *testing.T) {
		won, err := repo.Claim(ctx, 1, model.NoticeTrialExpired, day(2026, 8, 27))
		require.NoError(t, err)
		assert.True(t, won)
	})
}

func TestOperatorNoticeRepository_WasSent(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewOperatorNoticeRepository(db)
	ctx := context.Background()

	today := day(2026, 8, 26)

	won, err := repo.Claim(ctx, 1, model.NoticeTrialExpiring, today)
	require.NoError(t, err)
	require.True(t, won)

	sent, err := repo.WasSent(ctx, 1, model.NoticeTrialExpiring, today)
	require.NoError(t, err)
	assert.True(t, sent)

	sent, err = repo.WasSent(ctx, 1, model.NoticeTrialExpired, today)
	require.NoError(t, err)
	assert.False(t, sent)
}
