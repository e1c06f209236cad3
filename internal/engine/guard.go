package engine

import (
	"context"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/internal/repository"
)

// Guard is the duplicate-send check. The delivery log is its only
// source of truth, so it stays correct across restarts and concurrent
// ticks: a sent entry for (operator, client, category) today means no
// second send today, period.
type Guard struct {
	deliveryLog *repository.DeliveryLogRepository
	clock       Clock
}

func NewGuard(deliveryLog *repository.DeliveryLogRepository, clock Clock) *Guard {
	return &Guard{deliveryLog: deliveryLog, clock: clock}
}

// AlreadySentToday is re-checked on every tick, not cached; the tick
// interval is short and the check must survive re-entry.
func (g *Guard) AlreadySentToday(ctx context.Context, operatorID, clientID int64, category model.Category) (bool, error) {
	return g.deliveryLog.ExistsSent(ctx, operatorID, clientID, category, g.clock.StartOfToday())
}
