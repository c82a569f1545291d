package domain

// WorkingDateQuery is a validated computation request. An empty StartISO
// means "now". Days and Hours are non-negative; the front end guarantees at
// least one of them was supplied.
type WorkingDateQuery struct {
	StartISO string
	Days     int
	Hours    int
}
