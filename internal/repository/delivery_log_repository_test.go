package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack/reminder-gateway/internal/model"
)

func TestDeliveryLogRepository_ExistsSent(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDeliveryLogRepository(db)
	ctx := context.Background()

	midnight := day(2026, 8, 26)

	seed := []*DeliveryLogEntity{
		{ID: 1, OperatorID: 1, ClientID: 10, Category: "reminder_due_date", Status: "sent", SentAt: midnight.Add(9 * time.Hour)},
		{ID: 2, OperatorID: 1, ClientID: 11, Category: "reminder_due_date", Status: "failed", SentAt: midnight.Add(9 * time.Hour)},
		{ID: 3, OperatorID: 1, ClientID: 12, Category: "reminder_due_date", Status: "sent", SentAt: midnight.Add(-15 * time.Hour)},
	}
	for _, e := range seed {
		require.NoError(t, db.Write(ctx).Create(e).Error)
	}

	t.Run("sent today", func(t *testing.T) {
		ok, err := repo.ExistsSent(ctx, 1, 10, model.CategoryDueToday, midnight)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("failed attempts do not count", func(t *testing.T) {
		ok, err := repo.ExistsSent(ctx, 1, 11, model.CategoryDueToday, midnight)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("yesterday's send does not count", func(t *testing.T) {
		ok, err := repo.ExistsSent(ctx, 1, 12, model.CategoryDueToday, midnight)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other category does not count", func(t *testing.T) {
		ok, err := repo.ExistsSent(ctx, 1, 10, model.CategoryOneDayBefore, midnight)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDeliveryLogRepository_Append(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDeliveryLogRepository(db)
	ctx := context.Background()

	entry, err := repo.Append(ctx, &model.DeliveryLogEntry{
		OperatorID: 1,
		ClientID:   10,
		Category:   model.CategoryDueToday,
		Recipient:  "5511988880001",
		Content:    "Hello Carla, your Premium is due today.",
		Status:     model.DeliveryStatusSent,
		SentAt:     day(2026, 8, 26).Add(9 * time.Hour),
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	ok, err := repo.ExistsSent(ctx, 1, 10, model.CategoryDueToday, day(2026, 8, 26))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeliveryLogRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDeliveryLogRepository(db)
	ctx := context.Background()

	base := day(2026, 8, 26)
	seed := []*DeliveryLogEntity{
		{ID: 1, OperatorID: 1, ClientID: 10, Category: "reminder_due_date", Status: "sent", SentAt: base.Add(9 * time.Hour)},
		{ID: 2, OperatorID: 1, ClientID: 11, Category: "reminder_1_day", Status: "failed", SentAt: base.Add(10 * time.Hour)},
		{ID: 3, OperatorID: 2, ClientID: 20, Category: "reminder_due_date", Status: "sent", SentAt: base.Add(11 * time.Hour)},
	}
	for _, e := range seed {
		require.NoError(t, db.Write(ctx).Create(e).Error)
	}

	t.Run("filter by operator", func(t *testing.T) {
		opID := int64(1)
		entries, total, err := repo.List(ctx, model.DeliveryLogFilter{OperatorID: &opID})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(1), entries[0].ID)
	})

	t.Run("filter by status descending", func(t *testing.T) {
		status := model.DeliveryStatusSent
		entries, total, err := repo.List(ctx, model.DeliveryLogFilter{Status: &status, Desc: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, entries, 2)
		assert.Equal(t, int64(3), entries[0].ID)
	})

	t.Run("time window excludes upper bound", func(t *testing.T) {
		from := base.Add(10 * time.Hour)
		to := base.Add(11 * time.Hour)
		entries, _, err := repo.List(ctx, model.DeliveryLogFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(2), entries[0].ID)
	})
}
