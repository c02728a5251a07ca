// Package dice provides the randomness abstraction used by every random
// decision in the idle combat engine: variance rolls, drop chances, rarity
// selection, and enemy level rolls.
package dice

// Source is the randomness provider for all game rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}
