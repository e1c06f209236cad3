package engine

import (
	"time"

	"github.com/subtrack/reminder-gateway/internal/model"
)

// Classify buckets a client by how far its due date sits from today:
// 2 days out, 1 day out, due today, or 1 day overdue. Anything further
// in either direction gets CategoryNone; the engine does not escalate
// beyond one day late. Both arguments must be CivilDate-normalized.
func Classify(dueDate, today time.Time) model.Category {
	switch DaysBetween(today, dueDate) {
	case 2:
		return model.CategoryTwoDaysBefore
	case 1:
		return model.CategoryOneDayBefore
	case 0:
		return model.CategoryDueToday
	case -1:
		return model.CategoryOneDayOverdue
	default:
		return model.CategoryNone
	}
}
