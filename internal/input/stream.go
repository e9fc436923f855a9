package input

import (
	"bufio"
	"sync"
	"time"
)

// DefaultKeyHold is how long a terminal key counts as held after its last
// byte arrived. Terminals report presses only, and auto-repeat keeps
// refreshing the window while a key is held down.
const DefaultKeyHold = 150 * time.Millisecond

// Keys reports the control keys seen since the previous poll.
type Keys struct {
	Quit    bool   // q, Q or Ctrl-C
	Start   bool   // space, enter or r
	Restart bool   // r only, honored mid-session
	Closed  bool   // the underlying reader hit EOF or an error
	Pressed []byte // raw bytes read this poll
}

// Stream delivers input bytes from a terminal via a channel.
type Stream struct {
	ch       chan byte
	done     chan struct{}
	stopOnce sync.Once
	keyHold  time.Duration
	closed   bool
	pending  []byte // Unfinished escape sequence carried into the next poll
}

// StartStream spawns a goroutine that reads from r and sends bytes to the
// stream. The goroutine exits when r returns an error or Stop is called.
func StartStream(r *bufio.Reader, keyHold time.Duration) *Stream {
	if keyHold <= 0 {
		keyHold = DefaultKeyHold
	}
	s := &Stream{
		ch:      make(chan byte, 128),
		done:    make(chan struct{}),
		keyHold: keyHold,
	}
	go func() {
		defer close(s.ch)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return
			}
			select {
			case s.ch <- b:
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Stop releases the reader goroutine once it has a byte to deliver. It does
// not interrupt a pending read; closing the reader does that.
func (s *Stream) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

// Poll drains all available bytes without blocking, applies steering keys to
// the tracker as pulses and returns the control keys. An escape sequence
// split across polls is completed on a later poll.
func (s *Stream) Poll(t *Tracker) Keys {
	var fresh []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			fresh = append(fresh, b)
		default:
			break drain
		}
	}

	buf := append(s.pending, fresh...)
	keys, n := apply(buf, t, s.keyHold)
	s.pending = append(s.pending[:0:0], buf[n:]...)
	if s.closed {
		s.pending = nil
	}

	keys.Pressed = fresh
	keys.Closed = s.closed
	return keys
}

// Apply parses raw terminal bytes. Arrow keys and a/d/h/l pulse the tracker
// for keyHold; control keys are returned. A trailing unfinished escape
// sequence is ignored.
func Apply(buf []byte, t *Tracker, keyHold time.Duration) Keys {
	keys, _ := apply(buf, t, keyHold)
	keys.Pressed = buf
	return keys
}

// apply parses buf and returns how many bytes it consumed. Only an
// unfinished escape sequence at the end of buf is left unconsumed.
func apply(buf []byte, t *Tracker, keyHold time.Duration) (Keys, int) {
	var keys Keys

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' {
			n, final := escape(buf[i:])
			if n == 0 {
				return keys, i
			}
			switch final {
			case 'C':
				t.PulseFor(Right, keyHold)
			case 'D':
				t.PulseFor(Left, keyHold)
			}
			i += n - 1
			continue
		}

		switch b {
		case 'a', 'A', 'h', 'H':
			t.PulseFor(Left, keyHold)
		case 'd', 'D', 'l', 'L':
			t.PulseFor(Right, keyHold)
		case 'q', 'Q', '\x03':
			keys.Quit = true
		case ' ', '\r', '\n':
			keys.Start = true
		case 'r', 'R':
			keys.Start = true
			keys.Restart = true
		}
	}

	return keys, len(buf)
}

// escape measures the sequence starting with ESC at seq[0]. It returns the
// sequence length and its final byte, or 0 when the sequence is unfinished.
// CSI (ESC [ params final) and SS3 (ESC O final) are recognized; ESC before
// anything else is a lone Escape key of length 1.
func escape(seq []byte) (n int, final byte) {
	if len(seq) < 2 {
		return 0, 0
	}
	switch seq[1] {
	case 'O':
		if len(seq) < 3 {
			return 0, 0
		}
		return 3, seq[2]
	case '[':
		// Parameter and intermediate bytes, then a final byte in 0x40-0x7e.
		for j := 2; j < len(seq); j++ {
			if seq[j] >= 0x40 && seq[j] <= 0x7e {
				return j + 1, seq[j]
			}
			if seq[j] < 0x20 || seq[j] > 0x3f {
				// Malformed: drop what was read so far.
				return j, 0
			}
		}
		return 0, 0
	default:
		return 1, 0
	}
}
