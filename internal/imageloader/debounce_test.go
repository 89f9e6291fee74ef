package imageloader

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestDebouncerFirstEventAlwaysAccepted(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	d := NewDebouncer(400*time.Millisecond, clock.now)

	if !d.Allow() {
		t.Fatalf("first event must be accepted")
	}
}

func TestDebouncerSuppressesWithinInterval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	d := NewDebouncer(400*time.Millisecond, clock.now)

	d.Allow()

	clock.advance(399 * time.Millisecond)
	if d.Allow() {
		t.Fatalf("event inside the interval must be suppressed")
	}

	clock.advance(1 * time.Millisecond)
	if !d.Allow() {
		t.Fatalf("event at the interval boundary must be accepted")
	}
}

func TestDebouncerSuppressedEventDoesNotResetWindow(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)}
	d := NewDebouncer(400*time.Millisecond, clock.now)

	d.Allow()

	// A rejected event must not push the window forward.
	clock.advance(200 * time.Millisecond)
	d.Allow()

	clock.advance(200 * time.Millisecond)
	if !d.Allow() {
		t.Fatalf("window is measured from the last accepted event")
	}
}
