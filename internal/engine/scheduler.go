package engine

import (
	"sort"
	"time"
)

// TimerHandle identifies a scheduled callback. The zero handle is never
// issued and cancelling it is a no-op.
type TimerHandle uint64

// Scheduler is the host-provided timing primitive the controller runs on.
// Callbacks must be invoked on the same goroutine that drives the controller.
type Scheduler interface {
	// Start runs fn every interval until cancelled.
	Start(interval time.Duration, fn func()) TimerHandle

	// After runs fn once after delay unless cancelled first.
	After(delay time.Duration, fn func()) TimerHandle

	// Cancel stops the timer. Unknown or already finished handles are ignored.
	Cancel(h TimerHandle)
}

// minTimerInterval keeps a recurring timer from firing forever within one Advance.
const minTimerInterval = time.Millisecond

type virtualTimer struct {
	id       TimerHandle
	due      time.Duration
	interval time.Duration // 0 for one-shot timers
	fn       func()
}

// VirtualScheduler is a Scheduler driven by an explicit virtual clock.
// Nothing fires until Advance is called, which makes gravity fully
// deterministic: the TUI advances it by the frame duration on every tick and
// tests advance it by exact amounts.
type VirtualScheduler struct {
	now    time.Duration
	nextID TimerHandle
	timers map[TimerHandle]*virtualTimer
}

// NewVirtualScheduler creates a scheduler with its clock at zero.
func NewVirtualScheduler() *VirtualScheduler {
	return &VirtualScheduler{
		timers: make(map[TimerHandle]*virtualTimer),
	}
}

// Now returns the virtual time elapsed since creation.
func (s *VirtualScheduler) Now() time.Duration {
	return s.now
}

// Start implements Scheduler.
func (s *VirtualScheduler) Start(interval time.Duration, fn func()) TimerHandle {
	if interval < minTimerInterval {
		interval = minTimerInterval
	}
	return s.add(interval, interval, fn)
}

// After implements Scheduler.
func (s *VirtualScheduler) After(delay time.Duration, fn func()) TimerHandle {
	if delay < 0 {
		delay = 0
	}
	return s.add(delay, 0, fn)
}

func (s *VirtualScheduler) add(delay, interval time.Duration, fn func()) TimerHandle {
	s.nextID++
	t := &virtualTimer{
		id:       s.nextID,
		due:      s.now + delay,
		interval: interval,
		fn:       fn,
	}
	s.timers[t.id] = t
	return t.id
}

// Cancel implements Scheduler.
func (s *VirtualScheduler) Cancel(h TimerHandle) {
	delete(s.timers, h)
}

// Pending returns the number of live timers.
func (s *VirtualScheduler) Pending() int {
	return len(s.timers)
}

// Advance moves the clock forward by d, firing every timer that falls due in
// order of due time (ties broken by creation order). Callbacks may cancel or
// schedule timers; new timers due within the window fire in the same call.
func (s *VirtualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.nextDue(target)
		if t == nil {
			break
		}
		s.now = t.due
		if t.interval > 0 {
			t.due += t.interval
		} else {
			delete(s.timers, t.id)
		}
		t.fn()
	}
	s.now = target
}

// nextDue returns the earliest timer due at or before target.
func (s *VirtualScheduler) nextDue(target time.Duration) *virtualTimer {
	due := make([]*virtualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	return due[0]
}
