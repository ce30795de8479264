// Copyright 2026 The Usher Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func TestFakeClockNow(t *testing.T) {
	clock := Fake(epoch)
	if got := clock.Now(); !got.Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", got, epoch)
	}
	clock.Advance(5 * time.Second)
	want := epoch.Add(5 * time.Second)
	if got := clock.Now(); !got.Equal(want) {
		t.Fatalf("Now() after Advance = %v, want %v", got, want)
	}
}

func TestFakeClockAfter(t *testing.T) {
	clock := Fake(epoch)
	channel := clock.After(3 * time.Second)

	clock.Advance(2 * time.Second)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	clock.Advance(1 * time.Second)
	select {
	case fired := <-channel:
		if !fired.Equal(epoch.Add(3 * time.Second)) {
			t.Errorf("After delivered %v, want %v", fired, epoch.Add(3*time.Second))
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}
}

func TestFakeClockAfterNonPositive(t *testing.T) {
	clock := Fake(epoch)
	for _, duration := range []time.Duration{0, -time.Second} {
		select {
		case <-clock.After(duration):
		default:
			t.Fatalf("After(%v) should be ready immediately", duration)
		}
	}
}

func TestFakeClockAfterFunc(t *testing.T) {
	clock := Fake(epoch)
	calls := 0
	clock.AfterFunc(15*time.Second, func() { calls++ })

	if clock.PendingCount() != 1 {
		t.Fatalf("PendingCount() = %d, want 1", clock.PendingCount())
	}

	clock.Advance(14 * time.Second)
	if calls != 0 {
		t.Fatal("AfterFunc fired early")
	}
	clock.Advance(time.Second)
	if calls != 1 {
		t.Fatalf("AfterFunc calls = %d, want 1", calls)
	}
	clock.Advance(time.Minute)
	if calls != 1 {
		t.Fatalf("AfterFunc fired again: calls = %d", calls)
	}
	if clock.PendingCount() != 0 {
		t.Errorf("PendingCount() = %d after firing, want 0", clock.PendingCount())
	}
}

func TestFakeClockAfterFuncStop(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	timer := clock.AfterFunc(time.Second, func() { fired = true })

	if !timer.Stop() {
		t.Fatal("Stop() on a pending timer returned false")
	}
	if timer.Stop() {
		t.Error("second Stop() returned true")
	}
	clock.Advance(time.Hour)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestFakeClockWaitForTimers(t *testing.T) {
	clock := Fake(epoch)
	done := make(chan struct{})

	go func() {
		<-clock.After(time.Second)
		close(done)
	}()

	clock.WaitForTimers(1)
	clock.Advance(time.Second)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("goroutine did not observe the fired timer")
	}
}

func TestFakeClockSet(t *testing.T) {
	clock := Fake(epoch)
	fired := false
	clock.AfterFunc(time.Hour, func() { fired = true })

	clock.Set(epoch.Add(-time.Hour))
	if fired || !clock.Now().Equal(epoch.Add(-time.Hour)) {
		t.Fatalf("backwards Set: fired=%v now=%v", fired, clock.Now())
	}

	clock.Set(epoch.Add(2 * time.Hour))
	if !fired {
		t.Error("forward Set past the deadline did not fire the timer")
	}
}
