package combat

import (
	"sync"
	"time"
)

type manualTask struct {
	due      time.Duration
	interval time.Duration
	seq      uint64
	fn       func()
}

// ManualScheduler is a Scheduler driven by a virtual clock. Nothing fires
// until Advance is called, which makes cadence interleaving deterministic.
// Tasks due at the same instant fire in the order they were scheduled.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks map[TaskKey]*manualTask
}

// NewManualScheduler returns a ManualScheduler at virtual time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[TaskKey]*manualTask)}
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// After implements Scheduler.
func (s *ManualScheduler) After(key TaskKey, d time.Duration, fn func()) {
	s.schedule(key, d, 0, fn)
}

// Every implements Scheduler.
//
// Precondition: interval > 0.
func (s *ManualScheduler) Every(key TaskKey, interval time.Duration, fn func()) {
	if interval <= 0 {
		panic("combat: Every requires a positive interval")
	}
	s.schedule(key, interval, interval, fn)
}

func (s *ManualScheduler) schedule(key TaskKey, d, interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.tasks[key] = &manualTask{due: s.now + d, interval: interval, seq: s.seq, fn: fn}
}

// Cancel implements Scheduler.
func (s *ManualScheduler) Cancel(key TaskKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, key)
}

// CancelAll implements Scheduler.
func (s *ManualScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.tasks)
}

// Pending implements Scheduler.
func (s *ManualScheduler) Pending(key TaskKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

// Due returns the virtual time remaining until key fires.
func (s *ManualScheduler) Due(key TaskKey) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[key]
	if !ok {
		return 0, false
	}
	return t.due - s.now, true
}

// Advance moves the clock forward by d, firing every task that comes due in
// deadline order. Callbacks run without the scheduler lock held and may
// schedule or cancel tasks; newly scheduled tasks due within the window
// also fire.
//
// Postcondition: Now() has increased by exactly d. Returns the number of
// callbacks fired.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	fired := 0
	for {
		fn, ok := s.popDue(target)
		if !ok {
			break
		}
		fn()
		fired++
	}

	s.mu.Lock()
	s.now = target
	s.mu.Unlock()
	return fired
}

// popDue removes or re-arms the earliest task due at or before target and
// returns its callback.
func (s *ManualScheduler) popDue(target time.Duration) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var (
		nextKey TaskKey
		next    *manualTask
	)
	for key, t := range s.tasks {
		if t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.seq < next.seq) {
			nextKey, next = key, t
		}
	}
	if next == nil {
		return nil, false
	}
	s.now = next.due
	if next.interval > 0 {
		s.seq++
		next.due += next.interval
		next.seq = s.seq
	} else {
		delete(s.tasks, nextKey)
	}
	return next.fn, true
}
