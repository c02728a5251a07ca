package testutil

import "sync"

// ScriptedSource replays a fixed sequence of Float64 values, cycling when
// exhausted. Intn derives its value from the next float so that a script
// controls both kinds of roll.
//
// Invariant: every value in Floats must be in [0, 1).
type ScriptedSource struct {
	mu     sync.Mutex
	Floats []float64
	next   int
}

// NewScriptedSource returns a ScriptedSource that yields floats in order.
//
// Precondition: len(floats) > 0.
func NewScriptedSource(floats ...float64) *ScriptedSource {
	if len(floats) == 0 {
		panic("testutil: NewScriptedSource requires at least one value")
	}
	return &ScriptedSource{Floats: floats}
}

// Float64 returns the next scripted float.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.Floats[s.next%len(s.Floats)]
	s.next++
	return v
}

// Intn returns floor(next float × n).
//
// Precondition: n > 0.
func (s *ScriptedSource) Intn(n int) int {
	if n <= 0 {
		panic("testutil: Intn called with n <= 0")
	}
	v := int(s.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
