package ui

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period after the last keystroke before
// the list is filtered again.
const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer provides debouncing for rapid events like keystrokes
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a new debouncer with the specified duration
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
	}
}

// Debounce executes the function after the debounce duration has elapsed
// without any new calls. Rapid successive calls reset the timer.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced function call
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate executes the function immediately and cancels any pending call
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}

// SetDuration changes the window for calls scheduled from now on.
func (d *Debouncer) SetDuration(duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.duration = duration
}

// Duration returns the current window.
func (d *Debouncer) Duration() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duration
}

// SearchSettled is emitted once typing has paused. Seq identifies the
// keystroke that scheduled it.
type SearchSettled struct {
	Seq  uint64
	Term string
}

// SearchDebouncer debounces search terms and delivers the settled term on a
// channel. Every scheduled term gets a sequence number so a consumer can drop
// a delivery that raced with a newer keystroke.
type SearchDebouncer struct {
	debouncer *Debouncer

	mu  sync.Mutex
	seq uint64

	out chan SearchSettled
}

// NewSearchDebouncer creates a search debouncer with the given window.
func NewSearchDebouncer(duration time.Duration) *SearchDebouncer {
	return &SearchDebouncer{
		debouncer: NewDebouncer(duration),
		out:       make(chan SearchSettled, 1),
	}
}

// Schedule records a keystroke and returns its sequence number.
func (s *SearchDebouncer) Schedule(term string) uint64 {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.debouncer.Debounce(func() {
		s.deliver(SearchSettled{Seq: seq, Term: term})
	})
	return seq
}

// deliver keeps only the newest settled term in the buffer.
func (s *SearchDebouncer) deliver(ev SearchSettled) {
	for {
		select {
		case s.out <- ev:
			return
		default:
		}
		select {
		case <-s.out:
		default:
		}
	}
}

// Immediate settles term now. The pending keystroke is cancelled and a
// delivery already buffered becomes stale, so it is dropped.
func (s *SearchDebouncer) Immediate(term string) SearchSettled {
	s.mu.Lock()
	s.seq++
	ev := SearchSettled{Seq: s.seq, Term: term}
	s.mu.Unlock()

	s.debouncer.Immediate(func() {
		select {
		case <-s.out:
		default:
		}
	})
	return ev
}

// Settled returns the channel settled terms arrive on.
func (s *SearchDebouncer) Settled() <-chan SearchSettled {
	return s.out
}

// IsLatest reports whether seq belongs to the most recent keystroke.
func (s *SearchDebouncer) IsLatest(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq == s.seq
}

// Cancel drops the pending term, if any.
func (s *SearchDebouncer) Cancel() {
	s.debouncer.Cancel()
}

// SetDuration changes the debounce window.
func (s *SearchDebouncer) SetDuration(d time.Duration) {
	if d > 0 {
		s.debouncer.SetDuration(d)
	}
}

// Duration returns the debounce window.
func (s *SearchDebouncer) Duration() time.Duration {
	return s.debouncer.Duration()
}
