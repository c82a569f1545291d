package services

import (
	"strings"
	"time"

	"github.com/suchimauz/working-days-api/internal/core/domain"
)

// BusinessCalendar advances instants across the fixed work calendar. It is
// pinned to a single location and performs no I/O; every step consumes one
// instant and produces the next, so concurrent computations share nothing.
type BusinessCalendar struct {
	loc *time.Location
}

func NewBusinessCalendar(loc *time.Location) *BusinessCalendar {
	return &BusinessCalendar{loc: loc}
}

// ParseUTCInstant parses an ISO-8601 timestamp that must carry the UTC
// designator. Anything else is an invalid-input error.
func (c *BusinessCalendar) ParseUTCInstant(value string) (time.Time, error) {
	if !strings.HasSuffix(value, "Z") && !strings.HasSuffix(value, "z") {
		return time.Time{}, domain.NewInvalidInput("date must be UTC ISO8601 ending with Z")
	}

	normalized := value
	if strings.HasSuffix(value, "z") {
		normalized = value[:len(value)-1] + "Z"
	}

	t, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}, domain.NewInvalidInput("invalid ISO date")
	}

	return t, nil
}

// Compute normalizes start onto the work calendar, advances it by whole
// business days and then by business hours, and returns the result in UTC
// truncated to whole seconds. Days before hours, never interleaved.
func (c *BusinessCalendar) Compute(start time.Time, days, hours int, holidays domain.HolidaySet) time.Time {
	cur := c.normalizeBaseline(start.In(c.loc), holidays)

	if days > 0 {
		cur = c.addBusinessDays(cur, days, holidays)
	}
	if hours > 0 {
		cur = c.addBusinessHours(cur, hours, holidays)
	}

	return cur.UTC().Truncate(time.Second)
}

// normalizeBaseline projects an arbitrary local instant onto the nearest
// valid business moment:
//   - weekend or holiday: previous business day at closing time
//   - at/after closing: closing time, before opening: opening time
//   - inside lunch: lunch start
//   - otherwise: truncated to whole minutes
func (c *BusinessCalendar) normalizeBaseline(t time.Time, holidays domain.HolidaySet) time.Time {
	if !c.isBusinessDay(t, holidays) {
		return c.prevBusinessDayClose(t, holidays)
	}

	switch domain.SegmentOf(t) {
	case domain.SegmentOff:
		if t.Hour() >= domain.CloseMinute/60 {
			return c.atMinute(t, domain.CloseMinute)
		}
		return c.atMinute(t, domain.OpenMinute)
	case domain.SegmentLunch:
		return c.atMinute(t, domain.LunchStartMinute)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, c.loc)
	}
}

// addBusinessDays steps forward one business day at a time, skipping weekends
// and holidays, preserving the wall-clock time-of-day. The preserved time is
// deliberately not re-normalized: only the initial baseline enforces validity.
func (c *BusinessCalendar) addBusinessDays(start time.Time, days int, holidays domain.HolidaySet) time.Time {
	cur := start
	for i := 0; i < days; i++ {
		cur = c.nextBusinessDaySameTime(cur, holidays)
	}
	return cur
}

// addBusinessHours consumes the hour budget in whole minutes, segment by
// segment, crossing lunch breaks and day boundaries as needed.
func (c *BusinessCalendar) addBusinessHours(start time.Time, hours int, holidays domain.HolidaySet) time.Time {
	cur := c.normalizeBaseline(start, holidays)
	remaining := hours * 60

	for remaining > 0 {
		switch domain.SegmentOf(cur) {
		case domain.SegmentMorning:
			capacity := domain.LunchStartMinute - c.minuteOfDay(cur)
			if remaining <= capacity {
				return cur.Add(time.Duration(remaining) * time.Minute)
			}
			remaining -= capacity
			cur = c.atMinute(cur, domain.LunchEndMinute)

		case domain.SegmentLunch:
			cur = c.atMinute(cur, domain.LunchEndMinute)

		case domain.SegmentAfternoon:
			capacity := domain.CloseMinute - c.minuteOfDay(cur)
			if remaining <= capacity {
				return cur.Add(time.Duration(remaining) * time.Minute)
			}
			remaining -= capacity
			cur = c.atMinute(c.nextBusinessDaySameTime(cur, holidays), domain.OpenMinute)

		default:
			// OFF is only reachable through edge adjustments, e.g. a baseline
			// normalized to exactly closing time.
			if cur.Hour() >= domain.CloseMinute/60 {
				cur = c.atMinute(c.nextBusinessDaySameTime(cur, holidays), domain.OpenMinute)
			} else {
				cur = c.atMinute(cur, domain.OpenMinute)
			}
		}
	}

	return cur
}

func (c *BusinessCalendar) isBusinessDay(t time.Time, holidays domain.HolidaySet) bool {
	return !domain.IsWeekend(t) && !holidays.Contains(t)
}

func (c *BusinessCalendar) nextBusinessDaySameTime(t time.Time, holidays domain.HolidaySet) time.Time {
	cur := t.AddDate(0, 0, 1)
	for !c.isBusinessDay(cur, holidays) {
		cur = cur.AddDate(0, 0, 1)
	}
	return cur
}

func (c *BusinessCalendar) prevBusinessDayClose(t time.Time, holidays domain.HolidaySet) time.Time {
	cur := c.atMinute(t.AddDate(0, 0, -1), domain.CloseMinute)
	for !c.isBusinessDay(cur, holidays) {
		cur = c.atMinute(cur.AddDate(0, 0, -1), domain.CloseMinute)
	}
	return cur
}

func (c *BusinessCalendar) minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// atMinute keeps the calendar date of t and sets the wall clock to the given
// minute of day, zeroing seconds.
func (c *BusinessCalendar) atMinute(t time.Time, minuteOfDay int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), minuteOfDay/60, minuteOfDay%60, 0, 0, c.loc)
}
