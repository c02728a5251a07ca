package dice

// Percent returns a uniform roll in [0, 100) from src.
//
// Precondition: src must be non-nil.
func Percent(src Source) float64 {
	return src.Float64() * 100
}

// Between returns a uniform roll in [lo, hi) from src.
//
// Precondition: lo <= hi; src must be non-nil.
// Postcondition: lo <= result < hi, or result == lo when lo == hi.
func Between(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntRange returns a uniform integer in [lo, hi] (both inclusive).
//
// Precondition: lo <= hi. Panics if hi < lo.
func IntRange(src Source, lo, hi int) int {
	if hi < lo {
		panic("dice: IntRange called with hi < lo")
	}
	return lo + src.Intn(hi-lo+1)
}
