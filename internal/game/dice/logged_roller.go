package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged rolling.
// All rolls are logged at debug level with a label naming what was rolled.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source {
	return r.src
}

// Chance rolls a percentage and reports whether it landed below pct.
//
// Postcondition: Returns true with probability pct/100 (clamped to [0, 1]).
func (r *Roller) Chance(label string, pct float64) bool {
	roll := Percent(r.src)
	hit := roll < pct
	r.logger.Debug("chance roll",
		zap.String("label", label),
		zap.Float64("roll", roll),
		zap.Float64("threshold", pct),
		zap.Bool("hit", hit),
	)
	return hit
}

// Percent rolls uniformly in [0, 100) and logs the result.
func (r *Roller) Percent(label string) float64 {
	roll := Percent(r.src)
	r.logger.Debug("percent roll", zap.String("label", label), zap.Float64("roll", roll))
	return roll
}

// Between rolls uniformly in [lo, hi) and logs the result.
//
// Precondition: lo <= hi.
func (r *Roller) Between(label string, lo, hi float64) float64 {
	v := Between(r.src, lo, hi)
	r.logger.Debug("range roll",
		zap.String("label", label),
		zap.Float64("lo", lo),
		zap.Float64("hi", hi),
		zap.Float64("value", v),
	)
	return v
}

// IntRange rolls a uniform integer in [lo, hi] and logs the result.
//
// Precondition: lo <= hi.
func (r *Roller) IntRange(label string, lo, hi int) int {
	v := IntRange(r.src, lo, hi)
	r.logger.Debug("int roll",
		zap.String("label", label),
		zap.Int("lo", lo),
		zap.Int("hi", hi),
		zap.Int("value", v),
	)
	return v
}

// Pick returns a uniform index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(label string, n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("pick roll", zap.String("label", label), zap.Int("n", n), zap.Int("index", v))
	return v
}
