package loop

import (
	"testing"
	"time"
)

func TestFrameSchedulerRunsInOrder(t *testing.T) {
	s := NewFrameScheduler()
	var got []string
	s.Schedule(func(time.Time) { got = append(got, "a") })
	s.Schedule(func(time.Time) { got = append(got, "b") })

	if n := s.RunFrame(time.Now()); n != 2 {
		t.Fatalf("ran %d, want 2", n)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("order = %v, want [a b]", got)
	}
}

func TestFrameSchedulerCancel(t *testing.T) {
	s := NewFrameScheduler()
	calls := 0
	h := s.Schedule(func(time.Time) { calls++ })

	s.RunFrame(time.Now())
	s.Cancel(h)
	s.RunFrame(time.Now())
	s.Cancel(h) // already gone
	s.Cancel(999)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if s.Len() != 0 {
		t.Fatalf("len = %d, want 0", s.Len())
	}
}

func TestFrameSchedulerCancelDuringFrame(t *testing.T) {
	s := NewFrameScheduler()
	var second Handle
	secondRan := false
	s.Schedule(func(time.Time) { s.Cancel(second) })
	second = s.Schedule(func(time.Time) { secondRan = true })

	if n := s.RunFrame(time.Now()); n != 1 {
		t.Fatalf("ran %d, want 1", n)
	}
	if secondRan {
		t.Fatal("callback cancelled mid-frame still ran")
	}
}

func TestFrameSchedulerScheduleDuringFrame(t *testing.T) {
	s := NewFrameScheduler()
	lateRuns := 0
	scheduled := false
	s.Schedule(func(time.Time) {
		if !scheduled {
			scheduled = true
			s.Schedule(func(time.Time) { lateRuns++ })
		}
	})

	s.RunFrame(time.Now())
	if lateRuns != 0 {
		t.Fatal("callback scheduled mid-frame ran in the same frame")
	}
	s.RunFrame(time.Now())
	if lateRuns != 1 {
		t.Fatalf("late runs = %d, want 1", lateRuns)
	}
}

func TestFrameSchedulerPassesTimestamp(t *testing.T) {
	s := NewFrameScheduler()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var got time.Time
	s.Schedule(func(ts time.Time) { got = ts })
	s.RunFrame(now)
	if !got.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", got, now)
	}
}
