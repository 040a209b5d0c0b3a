package asr

import "errors"

// MissRateDenominator selects what the Smoother divides hot-miss deltas by
// when computing the miss-rate proxy. See Config.MissRateDenominator.
type MissRateDenominator int

const (
	// DenominatorTasks divides by (Δtasks + 1), the default behavior.
	DenominatorTasks MissRateDenominator = iota

	// DenominatorReads divides by (Δreads + 1), using the optional
	// RecordReadAttempt hook. Falls back to DenominatorTasks behavior for
	// any tick in which no reads were recorded, since an all-zero
	// denominator carries no signal.
	DenominatorReads
)

// Config holds all tunable ASR parameters. A Config is published as an
// immutable whole: fields are never mutated in place after construction,
// only swapped out wholesale via UpdateConfig, so a single controller tick
// never observes a torn mix of old and new fields.
type Config struct {
	// Enabled is the master switch. While false, ingest calls and
	// controller ticks are no-ops.
	Enabled bool `json:"enabled"`

	// Verbose enables the one documented log line per controller tick.
	Verbose bool `json:"verbose"`

	// QStar, RStar, WStar are the reference "healthy" rates pressures are
	// normalized against: pending-replay rate (records/sec), hot-miss
	// fraction in [0,1], and WAL ingest rate (bytes/sec), respectively.
	QStar float64 `json:"q_star"`
	RStar float64 `json:"r_star"`
	WStar float64 `json:"w_star"`

	// BMin, BMax are the inclusive budget bounds.
	BMin int `json:"b_min"`
	BMax int `json:"b_max"`

	// WQ, WM, WW are the nonnegative pressure weights. Convention:
	// WQ+WM+WW <= 1, though this is not enforced (an aggressiveness value
	// that would exceed 1 is clamped in the controller).
	WQ float64 `json:"w_q"`
	WM float64 `json:"w_m"`
	WW float64 `json:"w_w"`

	// Hyst is the minimum budget-change magnitude required before a tick's
	// computed budget is published.
	Hyst int `json:"hyst"`

	// MaxStep caps the per-tick change in aggressiveness, in (0,1].
	MaxStep float64 `json:"max_step"`

	// EWMAAlpha is the EWMA weight given to each tick's new sample, in (0,1].
	EWMAAlpha float64 `json:"ewma_alpha"`

	// TickMillis is the controller cycle length.
	TickMillis int `json:"tick_ms"`

	// MissRateDenominator selects the Smoother's miss-rate denominator. The
	// zero value preserves the default Δtasks-denominator behavior.
	MissRateDenominator MissRateDenominator `json:"miss_rate_denominator"`

	// MaxPlausibleDelta, if nonzero, floors any single-tick counter delta
	// that exceeds it to 0, guarding against a buggy caller's counter
	// decrementing (which wraps to a huge delta under unsigned
	// subtraction). Zero disables the floor, the default.
	MaxPlausibleDelta uint64 `json:"max_plausible_delta"`
}

// DefaultConfig returns ASR's documented out-of-the-box configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		Verbose:    false,
		QStar:      100.0,
		RStar:      0.05,
		WStar:      10 * (1 << 20),
		BMin:       10,
		BMax:       2000,
		WQ:         0.3,
		WM:         0.6,
		WW:         0.1,
		Hyst:       20,
		MaxStep:    0.2,
		EWMAAlpha:  0.3,
		TickMillis: 200,
	}
}

// Validate reports every constraint this Config violates, joined with
// errors.Join, or nil if the Config is well-formed.
func (c Config) Validate() error {
	var errs []error

	if c.BMin < 1 || c.BMax <= c.BMin {
		errs = append(errs, ErrBudgetRange)
	}
	if c.WQ < 0 || c.WM < 0 || c.WW < 0 {
		errs = append(errs, ErrNegativeWeight)
	}
	if c.Hyst < 0 {
		errs = append(errs, ErrInvalidHysteresis)
	}
	if c.MaxStep <= 0 || c.MaxStep > 1 {
		errs = append(errs, ErrInvalidMaxStep)
	}
	if c.EWMAAlpha <= 0 || c.EWMAAlpha > 1 {
		errs = append(errs, ErrInvalidEWMAAlpha)
	}
	if c.TickMillis <= 0 {
		errs = append(errs, ErrInvalidTickInterval)
	}
	if c.QStar <= 0 || c.RStar <= 0 || c.WStar <= 0 {
		errs = append(errs, ErrInvalidReference)
	}

	return errors.Join(errs...)
}
