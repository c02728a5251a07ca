package combat

import (
	"sync"
	"time"
)

// TaskKey names a scheduled task by purpose. At most one task per key is
// pending at any time.
type TaskKey string

const (
	TaskPlayerAttack TaskKey = "playerAttack"
	TaskEnemyAttack  TaskKey = "enemyAttack"
	TaskRegen        TaskKey = "regen"
	TaskGhostForm    TaskKey = "ghostForm"
	TaskSpawn        TaskKey = "spawn"
)

// Scheduler runs keyed, cancellable tasks. Scheduling under a key that is
// already pending replaces the old task.
//
// Implementations MUST NOT invoke fn synchronously from After, Every or
// Cancel: callers hold their own locks while scheduling.
type Scheduler interface {
	// After runs fn once after d.
	After(key TaskKey, d time.Duration, fn func())
	// Every runs fn every interval until cancelled or replaced.
	Every(key TaskKey, interval time.Duration, fn func())
	// Cancel stops the task under key. Safe to call when nothing is pending.
	Cancel(key TaskKey)
	// CancelAll stops every pending task.
	CancelAll()
	// Pending reports whether a task is scheduled under key.
	Pending(key TaskKey) bool
}

// roundTimer fires a callback after a duration unless stopped. When interval
// is positive it re-arms itself after each firing.
type roundTimer struct {
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
	interval time.Duration
}

func newRoundTimer(d, interval time.Duration, onFire func()) *roundTimer {
	rt := &roundTimer{interval: interval}
	rt.arm(d, onFire)
	return rt
}

func (rt *roundTimer) arm(d time.Duration, onFire func()) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.timer = time.AfterFunc(d, func() {
		rt.mu.Lock()
		stopped := rt.stopped
		rt.mu.Unlock()
		if stopped {
			return
		}
		if rt.interval > 0 {
			rt.arm(rt.interval, onFire)
		}
		onFire()
	})
}

// stop prevents further callbacks. Safe to call multiple times.
func (rt *roundTimer) stop() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.stopped = true
	rt.timer.Stop()
}

// TimerScheduler is the production Scheduler backed by time.AfterFunc.
// Callbacks run on timer goroutines. It is safe for concurrent use.
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[TaskKey]*roundTimer
}

// NewTimerScheduler returns an empty TimerScheduler.
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[TaskKey]*roundTimer)}
}

// After implements Scheduler.
//
// Precondition: d >= 0; fn must not be nil.
func (s *TimerScheduler) After(key TaskKey, d time.Duration, fn func()) {
	s.schedule(key, d, 0, fn)
}

// Every implements Scheduler.
//
// Precondition: interval > 0; fn must not be nil.
func (s *TimerScheduler) Every(key TaskKey, interval time.Duration, fn func()) {
	if interval <= 0 {
		panic("combat: Every requires a positive interval")
	}
	s.schedule(key, interval, interval, fn)
}

func (s *TimerScheduler) schedule(key TaskKey, d, interval time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.timers[key]; ok {
		old.stop()
	}
	var rt *roundTimer
	rt = newRoundTimer(d, interval, func() {
		if interval == 0 {
			s.mu.Lock()
			if s.timers[key] == rt {
				delete(s.timers, key)
			}
			s.mu.Unlock()
		}
		fn()
	})
	s.timers[key] = rt
}

// Cancel implements Scheduler.
func (s *TimerScheduler) Cancel(key TaskKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rt, ok := s.timers[key]; ok {
		rt.stop()
		delete(s.timers, key)
	}
}

// CancelAll implements Scheduler.
func (s *TimerScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, rt := range s.timers {
		rt.stop()
		delete(s.timers, key)
	}
}

// Pending implements Scheduler.
func (s *TimerScheduler) Pending(key TaskKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}
