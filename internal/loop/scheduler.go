package loop

import "time"

// TickFunc is invoked once per display frame with the frame timestamp.
type TickFunc func(now time.Time)

// Handle identifies a scheduled TickFunc.
type Handle uint64

// Scheduler drives per-frame callbacks. Cancel is synchronous: once it
// returns, the callback never runs again.
type Scheduler interface {
	Schedule(fn TickFunc) Handle
	Cancel(h Handle)
}

type frameEntry struct {
	handle Handle
	fn     TickFunc
}

// FrameScheduler is a Scheduler driven by its owner's render loop through
// RunFrame. It is not safe for concurrent use; everything happens on the
// loop's goroutine.
type FrameScheduler struct {
	next    Handle
	entries []frameEntry
	pending []frameEntry // Reused per frame
}

// Compile-time check that FrameScheduler implements Scheduler.
var _ Scheduler = (*FrameScheduler)(nil)

// NewFrameScheduler creates an empty scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Schedule registers fn to run on every following frame until cancelled.
func (s *FrameScheduler) Schedule(fn TickFunc) Handle {
	s.next++
	s.entries = append(s.entries, frameEntry{handle: s.next, fn: fn})
	return s.next
}

// Cancel unregisters h. Unknown or already cancelled handles are ignored.
func (s *FrameScheduler) Cancel(h Handle) {
	for i, e := range s.entries {
		if e.handle == h {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// RunFrame invokes every callback registered before the frame started, in
// registration order, and returns how many ran. Callbacks cancelled during
// the frame are skipped; callbacks scheduled during the frame wait for the
// next one.
func (s *FrameScheduler) RunFrame(now time.Time) int {
	s.pending = append(s.pending[:0], s.entries...)
	ran := 0
	for _, e := range s.pending {
		if !s.active(e.handle) {
			continue
		}
		e.fn(now)
		ran++
	}
	clear(s.pending)
	return ran
}

// Len returns the number of registered callbacks.
func (s *FrameScheduler) Len() int {
	return len(s.entries)
}

func (s *FrameScheduler) active(h Handle) bool {
	for _, e := range s.entries {
		if e.handle == h {
			return true
		}
	}
	return false
}
