package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/internal/notify"
	"github.com/subtrack/reminder-gateway/internal/repository"
	"github.com/subtrack/reminder-gateway/pkg/logger"
	"github.com/subtrack/reminder-gateway/pkg/prom"
)

// TrialWatcher enforces the trial window: a one-time heads-up the day
// before it ends, deactivation plus a one-time notice once it has.
// Notices are claimed through the operator_notices table before sending,
// so a notice that raced another tick goes out exactly once.
type TrialWatcher struct {
	operators *repository.OperatorRepository
	notices   *repository.OperatorNoticeRepository
	notifier  notify.Notifier
	clock     Clock
	trialDays int
}

func NewTrialWatcher(
	operators *repository.OperatorRepository,
	notices *repository.OperatorNoticeRepository,
	notifier notify.Notifier,
	clock Clock,
	trialDays int,
) *TrialWatcher {
	return &TrialWatcher{
		operators: operators,
		notices:   notices,
		notifier:  notifier,
		clock:     clock,
		trialDays: trialDays,
	}
}

// Check evaluates the operator's trial and returns true when the
// operator was deactivated this call, which ends the operator's tick.
func (w *TrialWatcher) Check(ctx context.Context, operator *model.Operator) (bool, error) {
	if !operator.IsTrial {
		return false, nil
	}

	startedAt := operator.TrialStartedAt
	if startedAt.IsZero() {
		// legacy rows have no trial start, the signup date anchors the trial
		startedAt = operator.CreatedAt
	}
	if startedAt.IsZero() {
		logger.Warn("trial operator has no start date, skipping trial check", "operator_id", operator.ID)
		return false, nil
	}

	today := w.clock.Today()
	expiresOn := CivilDate(startedAt).AddDate(0, 0, w.trialDays)
	daysLeft := DaysBetween(today, expiresOn)

	if daysLeft <= 0 {
		if err := w.operators.SetActive(ctx, operator.ID, false); err != nil {
			return false, err
		}
		prom.IncTrialDeactivation()
		logger.Info("trial expired, operator deactivated", "operator_id", operator.ID)

		w.sendOnce(ctx, operator, model.NoticeTrialExpired, today,
			"⛔ Your trial period has ended and automatic reminders are now paused. Renew your subscription to reactivate them.")
		return true, nil
	}

	if daysLeft == 1 {
		w.sendOnce(ctx, operator, model.NoticeTrialExpiring, today,
			fmt.Sprintf("⏳ Your trial ends tomorrow (%s). Renew now to keep reminders running without interruption.",
				expiresOn.Format("02/01/2006")))
	}

	return false, nil
}

// sendOnce claims the (operator, type, day) marker first and only then
// notifies; losing the claim means another tick already sent it. Notify
// failures are logged and dropped, the claim is not rolled back.
func (w *TrialWatcher) sendOnce(ctx context.Context, operator *model.Operator, noticeType model.NoticeType, day time.Time, text string) {
	won, err := w.notices.Claim(ctx, operator.ID, noticeType, day)
	if err != nil {
		logger.Error("failed to claim operator notice",
			"operator_id", operator.ID, "type", string(noticeType), "error", err)
		return
	}
	if !won {
		return
	}

	if err := w.notifier.Notify(ctx, operator.TelegramID, text); err != nil {
		logger.Error("failed to deliver operator notice",
			"operator_id", operator.ID, "type", string(noticeType), "error", err)
	}
}
