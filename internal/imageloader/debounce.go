package imageloader

import "time"

// Debouncer suppresses events arriving within a minimum interval of the last
// accepted one. Used to ignore rapid redundant source updates from upstream
// state churn.
type Debouncer struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

// Pass nil to use the wall clock. Tests inject their own.
func NewDebouncer(interval time.Duration, now func() time.Time) *Debouncer {
	if now == nil {
		now = time.Now
	}

	return &Debouncer{interval: interval, now: now}
}

// Allow reports whether the event should be accepted, and records it if so.
// The first event is always accepted.
func (d *Debouncer) Allow() bool {
	t := d.now()
	if !d.last.IsZero() && t.Sub(d.last) < d.interval {
		return false
	}

	d.last = t
	return true
}
