// Package stats holds the diminishing-returns conversions shared by the
// character composer and the combat formulas.
package stats

// K-values: the flat points at which a stat reaches 50%.
const (
	CritK    = 2000.0
	HasteK   = 3000.0
	MasteryK = 3000.0
	ArmorK   = 2500.0
)

// Hard caps applied after conversion, in percent.
const (
	CritCap    = 95.0
	HasteCap   = 75.0
	MasteryCap = 95.0
)

// FlatToPercentage converts flat points to a percentage: flat/(flat+k) × 100.
//
// Precondition: k > 0.
// Postcondition: 0 <= result < 100 for flat >= 0; returns 0 for flat <= 0.
func FlatToPercentage(flat, k float64) float64 {
	if flat <= 0 {
		return 0
	}
	return flat / (flat + k) * 100
}

// PercentageToFlat is the inverse of FlatToPercentage.
//
// Precondition: 0 <= pct < 100; k > 0. Panics if pct >= 100.
func PercentageToFlat(pct, k float64) float64 {
	if pct >= 100 {
		panic("stats: PercentageToFlat called with pct >= 100")
	}
	return pct * k / (100 - pct)
}

// Mitigation returns the armor damage reduction fraction defense/(defense+k),
// capped at limit.
//
// Precondition: k > 0; 0 <= limit <= 1.
// Postcondition: 0 <= result <= limit.
func Mitigation(defense, k, limit float64) float64 {
	if defense <= 0 {
		return 0
	}
	r := defense / (defense + k)
	if r > limit {
		return limit
	}
	return r
}
