// Package indicators provides the moving averages and the TRIX oscillator
// used to derive entry and exit signals.
package indicators

// Indicator computes a single streaming value from a series of floats.
// It is deterministic and safe to use in backtests.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next value.
	Update(v float64)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current value, or 0 before warm-up.
	Value() float64
}
