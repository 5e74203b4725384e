package clock

import (
	"testing"
	"time"
)

func TestFakeClock_AfterFuncFiresOnAdvance(t *testing.T) {
	start := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	c := Fake(start)

	fired := 0
	c.AfterFunc(1500*time.Millisecond, func() { fired++ })

	c.Advance(time.Second)
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	c.Advance(500 * time.Millisecond)
	if fired != 1 {
		t.Fatalf("expected 1 call, got %d", fired)
	}
	c.Advance(time.Hour)
	if fired != 1 {
		t.Fatalf("callback ran twice")
	}
	if got := c.Now(); !got.Equal(start.Add(time.Hour + 1500*time.Millisecond)) {
		t.Errorf("unexpected now: %v", got)
	}
}

func TestFakeClock_StopPreventsCall(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	called := false
	timer := c.AfterFunc(time.Second, func() { called = true })

	if !timer.Stop() {
		t.Fatal("expected Stop to report an active timer")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(2 * time.Second)
	if called {
		t.Error("stopped callback ran")
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending callbacks, got %d", c.Pending())
	}
}

func TestFakeClock_OrderByDeadline(t *testing.T) {
	c := Fake(time.Unix(0, 0))
	var order []int
	c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	c.AfterFunc(time.Second, func() { order = append(order, 1) })
	c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	c.Advance(5 * time.Second)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected order: %v", order)
	}
}
