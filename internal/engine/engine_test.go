package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/internal/repository"
	"github.com/subtrack/reminder-gateway/pkg/pg"
	"github.com/subtrack/reminder-gateway/test/fixtures"
)

type testEnv struct {
	db        *pg.DB
	mr        *miniredis.Miniredis
	clock     *fakeClock
	transport *fakeTransport
	notifier  *fakeNotifier
	eng       *Engine

	operators   *repository.OperatorRepository
	clients     *repository.ClientRepository
	schedules   *repository.ScheduleSettingsRepository
	deliveryLog *repository.DeliveryLogRepository
	notices     *repository.OperatorNoticeRepository
}

func newTestEnv(t *testing.T, clock *fakeClock) *testEnv {
	db := fixtures.SetupTestDB(t)
	mr, locks := fixtures.SetupTestRedis(t)

	env := &testEnv{
		db:          db,
		mr:          mr,
		clock:       clock,
		transport:   &fakeTransport{},
		notifier:    &fakeNotifier{},
		operators:   repository.NewOperatorRepository(db),
		clients:     repository.NewClientRepository(db),
		schedules:   repository.NewScheduleSettingsRepository(db),
		deliveryLog: repository.NewDeliveryLogRepository(db),
		notices:     repository.NewOperatorNoticeRepository(db),
	}

	eng, err := New(Options{
		Clock:              clock,
		Operators:          env.operators,
		Clients:            env.clients,
		Schedules:          env.schedules,
		Templates:          repository.NewMessageTemplateRepository(db),
		DeliveryLog:        env.deliveryLog,
		Notices:            env.notices,
		Transport:          env.transport,
		Notifier:           env.notifier,
		Locks:              locks,
		Workers:            2,
		DefaultMorningTime: "09:00",
		DefaultReportTime:  "08:00",
		TrialDays:          7,
		OverdueGraceDays:   1,
		CountryCode:        "55",
	})
	require.NoError(t, err)
	env.eng = eng

	eng.Start()
	t.Cleanup(eng.Stop)

	return env
}

func seedAllTemplates(t *testing.T, db *pg.DB, operatorID int64) {
	for _, category := range model.Categories {
		fixtures.CreateTestTemplate(t, db, operatorID, string(category), model.DefaultTemplateBodies[category])
	}
}

func TestEngine_Tick_MorningDispatch(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "23:00")
	seedAllTemplates(t, env.db, 1)

	today := clock.Today()
	fixtures.CreateTestClient(t, env.db, 10, 1, "TwoOut", today.AddDate(0, 0, 2))
	fixtures.CreateTestClient(t, env.db, 11, 1, "DueNow", today)
	fixtures.CreateTestClient(t, env.db, 12, 1, "WayOverdue", today.AddDate(0, 0, -5))
	fixtures.CreateTestClient(t, env.db, 13, 1, "FarOut", today.AddDate(0, 0, 10))

	env.eng.Tick()

	sent := env.transport.Sent()
	require.Len(t, sent, 2)
	for _, s := range sent {
		assert.Equal(t, int64(1), s.OperatorID)
		assert.Equal(t, "5511988880001", s.Number)
	}

	entries, total, err := env.deliveryLog.List(ctx, model.DeliveryLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, e := range entries {
		assert.Equal(t, model.DeliveryStatusSent, e.Status)
	}

	s, err := env.schedules.GetOrCreate(ctx, 1, model.ScheduleSettings{MorningReminderTime: "09:00", DailyReportTime: "08:00"})
	require.NoError(t, err)
	require.NotNil(t, s.LastMorningRun)
	assert.True(t, s.LastMorningRun.Equal(today))
}

func TestEngine_Tick_RunsOncePerDay(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "23:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	env.eng.Tick()
	clock.Advance(time.Minute)
	env.eng.Tick()
	clock.Advance(time.Minute)
	env.eng.Tick()

	assert.Len(t, env.transport.Sent(), 1)

	_, total, err := env.deliveryLog.List(ctx, model.DeliveryLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestEngine_Tick_BeforeConfiguredTime(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 8, 15)
	env := newTestEnv(t, clock)

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "23:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	env.eng.Tick()
	assert.Empty(t, env.transport.Sent())

	// Catch-up: a late tick after the configured time still fires once.
	clock.Set(14, 45)
	env.eng.Tick()
	assert.Len(t, env.transport.Sent(), 1)
}

func TestEngine_Tick_CatchUpAfterMissedDays(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "23:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	// Marker from three days ago: the process was down, the job still
	// fires exactly once today.
	threeDaysAgo := clock.Today().AddDate(0, 0, -3)
	won, err := env.schedules.MarkMorningRun(ctx, 1, threeDaysAgo)
	require.NoError(t, err)
	require.True(t, won)

	env.eng.Tick()
	env.eng.Tick()

	assert.Len(t, env.transport.Sent(), 1)
}

func TestEngine_Tick_AutoSendDisabled(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	settings := fixtures.CreateTestSettings(t, env.db, 1, "09:00", "08:00")
	require.NoError(t, env.db.Write(ctx).Model(settings).Update("auto_send_enabled", false).Error)
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	env.eng.Tick()

	// No reminders, but the report job is gated separately and still runs.
	assert.Empty(t, env.transport.Sent())
	notices := env.notifier.Notices()
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Text, "DueNow")
}

func TestEngine_Tick_FailedSendStillMarksRun(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "23:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	env.transport.Fail(errors.New("provider down"))
	env.eng.Tick()

	status := model.DeliveryStatusFailed
	entries, total, err := env.deliveryLog.List(ctx, model.DeliveryLogFilter{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Contains(t, entries[0].ErrorDetail, "provider down")

	s, err := env.schedules.GetOrCreate(ctx, 1, model.ScheduleSettings{MorningReminderTime: "09:00", DailyReportTime: "08:00"})
	require.NoError(t, err)
	require.NotNil(t, s.LastMorningRun)
	assert.True(t, s.LastMorningRun.Equal(clock.Today()))

	// No same-day retry even when the provider recovers.
	env.transport.Fail(nil)
	env.eng.Tick()
	assert.Empty(t, env.transport.Sent())
}

func TestEngine_Tick_LazySettingsCreation(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 7, 0)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")

	env.eng.Tick()

	s, err := env.schedules.GetOrCreate(ctx, 1, model.ScheduleSettings{MorningReminderTime: "99:99", DailyReportTime: "99:99"})
	require.NoError(t, err)
	assert.Equal(t, "09:00", s.MorningReminderTime)
	assert.Equal(t, "08:00", s.DailyReportTime)
	assert.True(t, s.AutoSendEnabled)
	assert.Nil(t, s.LastMorningRun)
}

func TestEngine_Tick_MalformedScheduleTime(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "9am", "08:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	env.eng.Tick()

	// The malformed morning time skips reminders; the valid report time
	// still fires for the same operator.
	assert.Empty(t, env.transport.Sent())
	assert.Len(t, env.notifier.Notices(), 1)
}

func TestEngine_Tick_OperatorLockHeld(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "23:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	require.NoError(t, env.mr.Set("tick:op:1", "other-tick"))

	env.eng.Tick()
	assert.Empty(t, env.transport.Sent())

	// Lock released by the other tick: the next tick picks the work up.
	env.mr.Del("tick:op:1")
	env.eng.Tick()
	assert.Len(t, env.transport.Sent(), 1)
}

func TestEngine_Tick_InactiveOperatorSkipped(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	op := fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	require.NoError(t, env.db.Write(ctx).Model(op).Update("is_active", false).Error)
	fixtures.CreateTestSettings(t, env.db, 1, "09:00", "08:00")
	seedAllTemplates(t, env.db, 1)
	fixtures.CreateTestClient(t, env.db, 10, 1, "DueNow", clock.Today())

	env.eng.Tick()

	assert.Empty(t, env.transport.Sent())
	assert.Empty(t, env.notifier.Notices())
}

func TestEngine_Tick_OneOperatorFailureDoesNotBlockOthers(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)

	// Operator 1 has a malformed schedule row; operator 2 is healthy.
	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "not-a-time", "also-bad")
	fixtures.CreateTestOperator(t, env.db, 2, "tg-2")
	fixtures.CreateTestSettings(t, env.db, 2, "09:00", "23:00")
	seedAllTemplates(t, env.db, 2)
	fixtures.CreateTestClient(t, env.db, 20, 2, "DueNow", clock.Today())

	env.eng.Tick()

	sent := env.transport.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(2), sent[0].OperatorID)
}

func TestEngine_Tick_OverdueSweep(t *testing.T) {
	clock := newFakeClock(t, 2026, 8, 26, 9, 30)
	env := newTestEnv(t, clock)
	ctx := context.Background()

	fixtures.CreateTestOperator(t, env.db, 1, "tg-1")
	fixtures.CreateTestSettings(t, env.db, 1, "23:00", "23:00")
	today := clock.Today()
	fixtures.CreateTestClient(t, env.db, 10, 1, "TwoOverdue", today.AddDate(0, 0, -2))
	fixtures.CreateTestClient(t, env.db, 11, 1, "OneOverdue", today.AddDate(0, 0, -1))

	env.eng.Tick()

	c, err := env.clients.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, model.ClientStatusInactive, c.Status)

	// One day overdue is still inside the reminder window.
	c, err = env.clients.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.Equal(t, model.ClientStatusActive, c.Status)
}
