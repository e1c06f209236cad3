package engine

import (
	"context"
	"errors"
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/internal/repository"
	"github.com/subtrack/reminder-gateway/pkg/logger"
	"github.com/subtrack/reminder-gateway/pkg/phone"
	"github.com/subtrack/reminder-gateway/pkg/prom"
)

// Transport is the client-facing messaging channel. The operator id
// routes the message through that operator's provider session.
type Transport interface {
	Send(ctx context.Context, operatorID int64, number, message string) error
}

// Dispatcher runs one reminder end to end: resolve the template, check
// the guard, render, send, record the outcome. A failed send is logged
// as failed and not retried that day; the next reclassification happens
// on a different calendar day, so a missed category stays missed. Known
// limitation, kept on purpose.
type Dispatcher struct {
	templates   *repository.MessageTemplateRepository
	deliveryLog *repository.DeliveryLogRepository
	guard       *Guard
	transport   Transport
	renderer    *Renderer
	clock       Clock
	sendTimeout time.Duration
	countryCode string
}

func NewDispatcher(
	templates *repository.MessageTemplateRepository,
	deliveryLog *repository.DeliveryLogRepository,
	guard *Guard,
	transport Transport,
	clock Clock,
	sendTimeout time.Duration,
	countryCode string,
) *Dispatcher {
	return &Dispatcher{
		templates:   templates,
		deliveryLog: deliveryLog,
		guard:       guard,
		transport:   transport,
		renderer:    &Renderer{CountryCode: countryCode},
		clock:       clock,
		sendTimeout: sendTimeout,
		countryCode: countryCode,
	}
}

// Dispatch attempts one (client, category) reminder. A missing active
// template or an already-sent guard hit is a silent skip, not an error;
// the returned error only reports infrastructure failures (guard query,
// log append) the caller should count against the tick.
func (d *Dispatcher) Dispatch(ctx context.Context, operator *model.Operator, client *model.Client, category model.Category) error {
	sent, err := d.guard.AlreadySentToday(ctx, operator.ID, client.ID, category)
	if err != nil {
		return err
	}
	if sent {
		logger.Debug("reminder already sent today",
			"operator_id", operator.ID, "client_id", client.ID, "category", string(category))
		return nil
	}

	template, err := d.templates.FindActive(ctx, operator.ID, category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Debug("no active template for category, skipping",
				"operator_id", operator.ID, "category", string(category))
			return nil
		}
		return err
	}

	content := d.renderer.Render(template.Content, client)
	recipient := phone.Normalize(client.Phone, d.countryCode)

	var sendErr error
	if !phone.Valid(client.Phone, d.countryCode) {
		sendErr = errors.New("invalid phone number: " + client.Phone)
	} else {
		sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
		startTime := time.Now()
		sendErr = d.transport.Send(sendCtx, operator.ID, recipient, content)
		cancel()
		prom.ObserveDispatchDuration(time.Since(startTime).Seconds(), string(category))
	}

	entry := &model.DeliveryLogEntry{
		OperatorID: operator.ID,
		ClientID:   client.ID,
		Category:   category,
		Recipient:  recipient,
		Content:    content,
		Status:     model.DeliveryStatusSent,
		SentAt:     d.clock.Now(),
	}
	if sendErr != nil {
		entry.Status = model.DeliveryStatusFailed
		entry.ErrorDetail = sendErr.Error()
		prom.IncReminderFailed(string(category))
		logger.Warn("reminder dispatch failed",
			"operator_id", operator.ID, "client_id", client.ID, "category", string(category), "error", sendErr)
	} else {
		prom.IncReminderSent(string(category))
		logger.Info("reminder sent",
			"operator_id", operator.ID, "client_id", client.ID, "category", string(category))
	}

	if _, err := d.deliveryLog.Append(ctx, entry); err != nil {
		return err
	}

	return nil
}
