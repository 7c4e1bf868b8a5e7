package domain

import (
	"testing"
	"time"
)

func TestLookaheadWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC)
	start, end := LookaheadWindow(now, 7)

	wantStart := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	if !start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, start)
	}

	wantEnd := time.Date(2024, 1, 17, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	if !end.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, end)
	}
}

func TestLookaheadWindowBoundariesInclusive(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	start, end := LookaheadWindow(now, 3)

	onStart := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	onEnd := time.Date(2024, 1, 13, 23, 59, 59, 0, time.UTC)

	if onStart.Before(start) || onStart.After(end) {
		t.Fatalf("due date on window start must be inside the window")
	}
	if onEnd.Before(start) || onEnd.After(end) {
		t.Fatalf("due date on window end must be inside the window")
	}

	nextDay := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	if !nextDay.After(end) {
		t.Fatalf("expected %v to fall outside the window ending %v", nextDay, end)
	}
}
