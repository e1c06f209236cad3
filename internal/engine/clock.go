package engine

import "time"

// Clock is the engine's only time source. Every scheduling decision is
// made in one configured IANA zone; unzoned time never enters the
// comparisons, so day boundaries fall where the operators live.
type Clock interface {
	// Now returns the current instant in the engine zone.
	Now() time.Time
	// Today returns the current civil date as a UTC-midnight time.Time,
	// the normalization every stored date uses.
	Today() time.Time
	// StartOfToday returns the zone-local midnight instant, used to
	// bound "sent today" queries over the delivery log.
	StartOfToday() time.Time
	Location() *time.Location
}

type zoneClock struct {
	loc *time.Location
}

func NewClock(tzName string) (Clock, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, err
	}
	return &zoneClock{loc: loc}, nil
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zoneClock) Today() time.Time {
	return CivilDate(c.Now())
}

func (c *zoneClock) StartOfToday() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, c.loc)
}

func (c *zoneClock) Location() *time.Location {
	return c.loc
}

// CivilDate strips t to its calendar date, re-anchored at UTC midnight.
// Dates normalized this way compare and subtract cleanly regardless of
// the zone t carried.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns b - a in whole days; both are expected to be
// CivilDate-normalized.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
