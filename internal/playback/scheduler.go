package playback

import (
	"sync"
	"time"
)

// TickFunc is invoked once per frame with the wall-clock time of the
// tick.
type TickFunc func(now time.Time)

// Scheduler drives the per-frame callback. Implementations must
// tolerate Cancel without a prior Start and repeated Cancel calls.
type Scheduler interface {
	Start(fn TickFunc)
	Cancel()
}

// TickerScheduler runs the callback on a fixed wall-clock interval in
// its own goroutine.
type TickerScheduler struct {
	interval time.Duration

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewTickerScheduler creates a scheduler firing every interval. An
// interval of 0 or less defaults to ~60 Hz.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerScheduler{interval: interval}
}

// Start begins ticking. Starting an already-running scheduler is a
// no-op.
func (s *TickerScheduler) Start(fn TickFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}(s.stop, s.done)
}

// Cancel stops ticking and waits for the loop goroutine to exit, so
// no callback runs after Cancel returns.
func (s *TickerScheduler) Cancel() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
}

// ManualScheduler steps ticks by hand, for tests and offline frame
// stepping.
type ManualScheduler struct {
	mu sync.Mutex
	fn TickFunc
}

// NewManualScheduler creates an idle manual scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Start records the callback; nothing fires until Step.
func (s *ManualScheduler) Start(fn TickFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
}

// Cancel drops the callback.
func (s *ManualScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}

// Step fires one tick at the given instant. Steps after Cancel are
// no-ops.
func (s *ManualScheduler) Step(now time.Time) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	if fn != nil {
		fn(now)
	}
}
