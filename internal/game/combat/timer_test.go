package combat_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/idlequest/internal/game/combat"
)

func TestTimerScheduler_AfterFires(t *testing.T) {
	s := combat.NewTimerScheduler()
	var called atomic.Int32
	s.After(combat.TaskSpawn, 20*time.Millisecond, func() {
		called.Add(1)
	})
	assert.True(t, s.Pending(combat.TaskSpawn))
	assert.Eventually(t, func() bool { return called.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return !s.Pending(combat.TaskSpawn) }, time.Second, 5*time.Millisecond)
}

func TestTimerScheduler_CancelPreventsCallback(t *testing.T) {
	s := combat.NewTimerScheduler()
	var called atomic.Int32
	s.After(combat.TaskGhostForm, 50*time.Millisecond, func() {
		called.Add(1)
	})
	s.Cancel(combat.TaskGhostForm)
	time.Sleep(80 * time.Millisecond)
	if called.Load() != 0 {
		t.Fatalf("expected callback not called, got %d", called.Load())
	}
	assert.False(t, s.Pending(combat.TaskGhostForm))
}

func TestTimerScheduler_ReplaceExtendsDeadline(t *testing.T) {
	s := combat.NewTimerScheduler()
	var first, second atomic.Int32
	s.After(combat.TaskSpawn, 30*time.Millisecond, func() { first.Add(1) })
	time.Sleep(15 * time.Millisecond)
	s.After(combat.TaskSpawn, 30*time.Millisecond, func() { second.Add(1) })
	time.Sleep(25 * time.Millisecond)
	if first.Load() != 0 {
		t.Fatalf("replaced task fired")
	}
	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestTimerScheduler_EveryRepeatsUntilCancelled(t *testing.T) {
	s := combat.NewTimerScheduler()
	var called atomic.Int32
	s.Every(combat.TaskRegen, 5*time.Millisecond, func() { called.Add(1) })
	assert.Eventually(t, func() bool { return called.Load() >= 3 }, time.Second, time.Millisecond)
	s.CancelAll()
	time.Sleep(10 * time.Millisecond)
	n := called.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, called.Load())
}

func TestTimerScheduler_CancelIdempotent(t *testing.T) {
	s := combat.NewTimerScheduler()
	s.After(combat.TaskRegen, 50*time.Millisecond, func() {})
	s.Cancel(combat.TaskRegen)
	s.Cancel(combat.TaskRegen)
	s.Cancel(combat.TaskPlayerAttack)
	s.CancelAll()
}

func TestManualScheduler_FiresInDeadlineOrder(t *testing.T) {
	s := combat.NewManualScheduler()
	var order []combat.TaskKey
	s.Every(combat.TaskPlayerAttack, 2000*time.Millisecond, func() { order = append(order, combat.TaskPlayerAttack) })
	s.Every(combat.TaskEnemyAttack, 2935*time.Millisecond, func() { order = append(order, combat.TaskEnemyAttack) })

	fired := s.Advance(6 * time.Second)

	assert.Equal(t, 5, fired)
	assert.Equal(t, []combat.TaskKey{
		combat.TaskPlayerAttack, // 2000
		combat.TaskEnemyAttack,  // 2935
		combat.TaskPlayerAttack, // 4000
		combat.TaskEnemyAttack,  // 5870
		combat.TaskPlayerAttack, // 6000
	}, order)
	assert.Equal(t, 6*time.Second, s.Now())
}

func TestManualScheduler_CallbackMaySchedule(t *testing.T) {
	s := combat.NewManualScheduler()
	var spawned bool
	s.After(combat.TaskPlayerAttack, time.Second, func() {
		s.After(combat.TaskSpawn, time.Second, func() { spawned = true })
	})
	s.Advance(1500 * time.Millisecond)
	assert.False(t, spawned)
	left, ok := s.Due(combat.TaskSpawn)
	assert.True(t, ok)
	assert.Equal(t, 500*time.Millisecond, left)
	s.Advance(500 * time.Millisecond)
	assert.True(t, spawned)
	assert.False(t, s.Pending(combat.TaskSpawn))
}

func TestManualScheduler_CancelFromCallback(t *testing.T) {
	s := combat.NewManualScheduler()
	var enemyTicks int
	s.Every(combat.TaskEnemyAttack, time.Second, func() { enemyTicks++ })
	s.After(combat.TaskPlayerAttack, 1500*time.Millisecond, func() { s.Cancel(combat.TaskEnemyAttack) })
	s.Advance(10 * time.Second)
	assert.Equal(t, 1, enemyTicks)
}
