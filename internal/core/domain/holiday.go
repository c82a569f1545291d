package domain

import "time"

// HolidayDateLayout is the canonical key format for holiday dates.
const HolidayDateLayout = "2006-01-02"

// HolidaySet is a set of local calendar dates ("YYYY-MM-DD") on which no
// business activity occurs. It is built once by a successful feed fetch and
// shared read-only between concurrent computations, so it must never be
// mutated after construction.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	return set
}

// Contains matches by local calendar date, independent of time-of-day.
func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[t.Format(HolidayDateLayout)]
	return ok
}

func (s HolidaySet) Add(date string) {
	s[date] = struct{}{}
}

func (s HolidaySet) Len() int {
	return len(s)
}
