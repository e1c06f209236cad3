package model

// Category is one of the reminder buckets a client falls into on a given
// day, derived from (due_date - today) in days.
type Category string

const (
	CategoryNone          Category = ""
	CategoryTwoDaysBefore Category = "reminder_2_days"
	CategoryOneDayBefore  Category = "reminder_1_day"
	CategoryDueToday      Category = "reminder_due_date"
	CategoryOneDayOverdue Category = "reminder_overdue"
)

// Categories lists the dispatchable buckets in fan-out order.
var Categories = []Category{
	CategoryTwoDaysBefore,
	CategoryOneDayBefore,
	CategoryDueToday,
	CategoryOneDayOverdue,
}

// Offset returns the due-date offset in days that maps to this category
// (due_date - today).
func (c Category) Offset() int {
	switch c {
	case CategoryTwoDaysBefore:
		return 2
	case CategoryOneDayBefore:
		return 1
	case CategoryDueToday:
		return 0
	case CategoryOneDayOverdue:
		return -1
	default:
		return 0
	}
}
