package domain

import "time"

// Fixed work calendar: Mon-Fri, 08:00-12:00 and 13:00-17:00 local time.
// Expressed as minutes since midnight, all computations run on whole minutes.
const (
	OpenMinute       = 8 * 60
	LunchStartMinute = 12 * 60
	LunchEndMinute   = 13 * 60
	CloseMinute      = 17 * 60
)

type Segment string

const (
	SegmentMorning   Segment = "MORNING"
	SegmentLunch     Segment = "LUNCH"
	SegmentAfternoon Segment = "AFTERNOON"
	SegmentOff       Segment = "OFF"
)

// SegmentOf classifies a local instant by its wall-clock time only.
func SegmentOf(t time.Time) Segment {
	mins := t.Hour()*60 + t.Minute()

	switch {
	case mins >= OpenMinute && mins < LunchStartMinute:
		return SegmentMorning
	case mins >= LunchStartMinute && mins < LunchEndMinute:
		return SegmentLunch
	case mins >= LunchEndMinute && mins < CloseMinute:
		return SegmentAfternoon
	default:
		return SegmentOff
	}
}

// IsWeekend reports whether t falls on Saturday or Sunday in t's own location.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
