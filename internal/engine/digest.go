package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/subtrack/reminder-gateway/internal/model"
	"github.com/subtrack/reminder-gateway/internal/repository"
)

const digestMaxNames = 5

// DigestBuilder assembles the operator's daily report: who is overdue,
// due today, due tomorrow and due in two days. Digest buckets cover all
// active clients, including the ones that opted out of auto reminders;
// the operator still wants to see them.
type DigestBuilder struct {
	clients *repository.ClientRepository
	clock   Clock
}

func NewDigestBuilder(clients *repository.ClientRepository, clock Clock) *DigestBuilder {
	return &DigestBuilder{clients: clients, clock: clock}
}

// Build returns the digest text and whether there is anything to send.
// All buckets empty means no message; the caller still advances the
// report marker so the empty day is not re-evaluated every tick.
func (b *DigestBuilder) Build(ctx context.Context, operatorID int64) (string, bool, error) {
	today := b.clock.Today()
	status := model.ClientStatusActive

	overdue, _, err := b.clients.List(ctx, model.ClientFilter{
		OperatorID: &operatorID,
		Status:     &status,
		DueBefore:  &today,
	})
	if err != nil {
		return "", false, err
	}

	from, to := today, today.AddDate(0, 0, 2)
	upcoming, _, err := b.clients.List(ctx, model.ClientFilter{
		OperatorID: &operatorID,
		Status:     &status,
		DueFrom:    &from,
		DueTo:      &to,
	})
	if err != nil {
		return "", false, err
	}

	var dueToday, dueTomorrow, dueInTwo []*model.Client
	for _, c := range upcoming {
		switch DaysBetween(today, CivilDate(c.DueDate)) {
		case 0:
			dueToday = append(dueToday, c)
		case 1:
			dueTomorrow = append(dueTomorrow, c)
		case 2:
			dueInTwo = append(dueInTwo, c)
		}
	}

	if len(overdue)+len(dueToday)+len(dueTomorrow)+len(dueInTwo) == 0 {
		return "", false, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 *Daily report — %s*\n", today.Format("02/01/2006"))
	writeBucket(&sb, "🔴 Overdue", overdue)
	writeBucket(&sb, "⚠️ Due today", dueToday)
	writeBucket(&sb, "🗓 Due tomorrow", dueTomorrow)
	writeBucket(&sb, "📅 Due in 2 days", dueInTwo)

	return strings.TrimRight(sb.String(), "\n"), true, nil
}

func writeBucket(sb *strings.Builder, title string, clients []*model.Client) {
	if len(clients) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s (%d):\n", title, len(clients))
	for i, c := range clients {
		if i == digestMaxNames {
			fmt.Fprintf(sb, "  … +%d more\n", len(clients)-digestMaxNames)
			break
		}
		fmt.Fprintf(sb, "  • %s — %s\n", c.Name, c.DueDate.Format("02/01"))
	}
}
