package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/internal/notify"
	"github.com/subtrack/reminder-gateway/internal/repository"
	"github.com/subtrack/reminder-gateway/pkg/logger"
	"github.com/subtrack/reminder-gateway/pkg/prom"
	"github.com/subtrack/reminder-gateway/pkg/redis"
	"github.com/subtrack/reminder-gateway/pkg/worker"
)

// Options wires the engine's collaborators and tuning knobs.
type Options struct {
	Clock       Clock
	Operators   *repository.OperatorRepository
	Clients     *repository.ClientRepository
	Schedules   *repository.ScheduleSettingsRepository
	Templates   *repository.MessageTemplateRepository
	DeliveryLog *repository.DeliveryLogRepository
	Notices     *repository.OperatorNoticeRepository
	Transport   Transport
	Notifier    notify.Notifier
	Locks       redis.Adapter

	TickInterval       time.Duration
	Workers            int
	DefaultMorningTime string
	DefaultReportTime  string
	TrialDays          int
	OverdueGraceDays   int
	SendTimeout        time.Duration
	CountryCode        string
}

// Engine is the control loop. Every tick it fans active operators out
// to the worker pool; per operator it runs the trial check, the morning
// reminder job and the daily report job, each guarded so a day's job
// runs exactly once no matter how many ticks, processes or restarts
// happen around it.
type Engine struct {
	opts      Options
	dispatch  *Dispatcher
	digest    *DigestBuilder
	trial     *TrialWatcher
	cron      *cron.Cron
	workers   *worker.Manager
	defaults  model.ScheduleSettings
	window    int // reminder look-ahead in days

	sweepMu      sync.Mutex
	lastSweepDay time.Time
}

type tickJob struct {
	operator *model.Operator
	tickID   string
	wg       *sync.WaitGroup
}

func New(opts Options) (*Engine, error) {
	if opts.Clock == nil {
		return nil, errors.New("clock is required")
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 60 * time.Second
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.TrialDays <= 0 {
		opts.TrialDays = 7
	}
	if opts.OverdueGraceDays <= 0 {
		opts.OverdueGraceDays = 1
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 45 * time.Second
	}

	guard := NewGuard(opts.DeliveryLog, opts.Clock)

	e := &Engine{
		opts:     opts,
		dispatch: NewDispatcher(opts.Templates, opts.DeliveryLog, guard, opts.Transport, opts.Clock, opts.SendTimeout, opts.CountryCode),
		digest:   NewDigestBuilder(opts.Clients, opts.Clock),
		trial:    NewTrialWatcher(opts.Operators, opts.Notices, opts.Notifier, opts.Clock, opts.TrialDays),
		cron:     cron.New(cron.WithLocation(opts.Clock.Location())),
		workers:  worker.NewManager(256, opts.Workers, nil),
		defaults: model.ScheduleSettings{
			MorningReminderTime: opts.DefaultMorningTime,
			DailyReportTime:     opts.DefaultReportTime,
			AutoSendEnabled:     true,
			ReportEnabled:       true,
		},
		window: 2,
	}
	e.workers.SetWorker(e.processJob)

	if _, err := e.cron.AddFunc(fmt.Sprintf("@every %s", opts.TickInterval), e.Tick); err != nil {
		return nil, err
	}

	return e, nil
}

// Start launches the worker pool and the tick schedule. It does not
// block; Stop undoes both.
func (e *Engine) Start() {
	go func() {
		_ = e.workers.Start()
	}()
	e.cron.Start()
	logger.Info("engine started",
		"tick_interval", e.opts.TickInterval, "workers", e.opts.Workers, "timezone", e.opts.Clock.Location().String())
}

// Stop halts the tick schedule and the workers. An in-flight tick runs
// to completion; partial writes are safe to leave behind because every
// marker and log write is idempotent on the next tick.
func (e *Engine) Stop() {
	ctx := e.cron.Stop()
	<-ctx.Done()
	e.workers.Exit()
	logger.Info("engine stopped")
}

// Tick runs one full scheduling pass and blocks until every operator
// enqueued by it has been processed, so ticks never pile up on a slow
// provider.
func (e *Engine) Tick() {
	prom.IncTick()

	tickID := uuid.NewString()
	ctx := context.Background()

	e.sweepOverdue(ctx, tickID)

	operators, err := e.opts.Operators.ListActive(ctx)
	if err != nil {
		logger.Error("tick aborted, failed to list operators", "tick_id", tickID, "error", err)
		return
	}

	wg := &sync.WaitGroup{}
	for _, op := range operators {
		wg.Add(1)
		e.workers.Enqueue(&tickJob{operator: op, tickID: tickID, wg: wg})
	}
	wg.Wait()
}

func (e *Engine) processJob(_ int, job interface{}) {
	tj, ok := job.(*tickJob)
	if !ok {
		return
	}
	defer tj.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("operator tick panicked",
				"tick_id", tj.tickID, "operator_id", tj.operator.ID, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()

	e.processOperator(context.Background(), tj.tickID, tj.operator)
}

// processOperator is the per-operator tick body. Failures are logged at
// operator granularity and never leave the function, so one broken
// operator cannot starve the rest of the tick.
func (e *Engine) processOperator(ctx context.Context, tickID string, operator *model.Operator) {
	lockKey := fmt.Sprintf("tick:op:%d", operator.ID)
	locked, err := e.opts.Locks.SetNX(lockKey, []byte(tickID), e.opts.TickInterval)
	if err != nil {
		logger.Error("operator lock failed", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		return
	}
	if !locked {
		logger.Debug("operator busy in another tick", "tick_id", tickID, "operator_id", operator.ID)
		return
	}
	defer func() {
		if err := e.opts.Locks.Del(lockKey); err != nil {
			logger.Warn("failed to release operator lock", "operator_id", operator.ID, "error", err)
		}
	}()

	deactivated, err := e.trial.Check(ctx, operator)
	if err != nil {
		logger.Error("trial check failed", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		return
	}
	if deactivated {
		return
	}

	settings, err := e.opts.Schedules.GetOrCreate(ctx, operator.ID, e.defaults)
	if err != nil {
		logger.Error("failed to load schedule settings", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		return
	}

	now := e.opts.Clock.Now()
	today := e.opts.Clock.Today()

	if settings.AutoSendEnabled && e.jobDue(operator.ID, settings.MorningReminderTime, settings.LastMorningRun, now, today) {
		e.runMorning(ctx, tickID, operator, today)
	}

	if settings.ReportEnabled && e.jobDue(operator.ID, settings.DailyReportTime, settings.LastReportRun, now, today) {
		e.runReport(ctx, tickID, operator, today)
	}
}

// jobDue implements the catch-up check: the configured time has passed
// today and the marker has not reached today yet. A late process start
// still fires the job once; a malformed time skips the job with a
// warning instead of poisoning the operator's tick.
func (e *Engine) jobDue(operatorID int64, at string, lastRun *time.Time, now, today time.Time) bool {
	t, err := time.Parse("15:04", at)
	if err != nil {
		logger.Warn("malformed schedule time, skipping job", "operator_id", operatorID, "value", at)
		return false
	}
	if now.Hour() < t.Hour() || (now.Hour() == t.Hour() && now.Minute() < t.Minute()) {
		return false
	}
	return lastRun == nil || CivilDate(*lastRun).Before(today)
}

// runMorning dispatches today's reminders for every eligible client and
// advances the run marker afterwards, regardless of per-client
// outcomes: "run" is the job tick, not per-client success.
func (e *Engine) runMorning(ctx context.Context, tickID string, operator *model.Operator, today time.Time) {
	from := today.AddDate(0, 0, -1)
	to := today.AddDate(0, 0, e.window)

	clients, err := e.opts.Clients.ListReminderWindow(ctx, operator.ID, from, to)
	if err != nil {
		logger.Error("failed to load reminder window", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		return
	}

	for _, client := range clients {
		category := Classify(CivilDate(client.DueDate), today)
		if category == model.CategoryNone {
			continue
		}
		if err := e.dispatch.Dispatch(ctx, operator, client, category); err != nil {
			logger.Error("dispatch errored",
				"tick_id", tickID, "operator_id", operator.ID, "client_id", client.ID, "error", err)
		}
	}

	won, err := e.opts.Schedules.MarkMorningRun(ctx, operator.ID, today)
	if err != nil {
		logger.Error("failed to mark morning run", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		return
	}
	if !won {
		logger.Debug("morning run marker already advanced", "tick_id", tickID, "operator_id", operator.ID)
	}
	logger.Info("morning reminder job finished",
		"tick_id", tickID, "operator_id", operator.ID, "clients", len(clients))
}

// runReport builds and delivers the daily digest. An empty digest sends
// nothing but still advances the marker so the day is settled.
func (e *Engine) runReport(ctx context.Context, tickID string, operator *model.Operator, today time.Time) {
	text, hasContent, err := e.digest.Build(ctx, operator.ID)
	if err != nil {
		logger.Error("failed to build digest", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		return
	}

	if hasContent {
		if err := e.opts.Notifier.Notify(ctx, operator.TelegramID, text); err != nil {
			logger.Error("failed to deliver digest", "tick_id", tickID, "operator_id", operator.ID, "error", err)
		} else {
			prom.IncDigestSent()
		}
	}

	if _, err := e.opts.Schedules.MarkReportRun(ctx, operator.ID, today); err != nil {
		logger.Error("failed to mark report run", "tick_id", tickID, "operator_id", operator.ID, "error", err)
	}
}

// sweepOverdue suspends clients whose due date slipped past the grace
// window, at most once per civil day per process.
func (e *Engine) sweepOverdue(ctx context.Context, tickID string) {
	today := e.opts.Clock.Today()

	e.sweepMu.Lock()
	if !e.lastSweepDay.Before(today) {
		e.sweepMu.Unlock()
		return
	}
	e.lastSweepDay = today
	e.sweepMu.Unlock()

	cutoff := today.AddDate(0, 0, -e.opts.OverdueGraceDays)
	n, err := e.opts.Clients.SuspendOverdue(ctx, cutoff)
	if err != nil {
		logger.Error("overdue sweep failed", "tick_id", tickID, "error", err)
		return
	}
	if n > 0 {
		logger.Info("overdue clients suspended", "tick_id", tickID, "count", n)
	}
}
