package asr

import "errors"

// Validation errors returned by Config.Validate / UpdateConfig. Each names
// the field it concerns; multiple violations are combined with errors.Join.
var (
	ErrBudgetRange         = errors.New(`asr: config: b_min must be >= 1 and b_max must be > b_min`)
	ErrNegativeWeight      = errors.New(`asr: config: pressure weights must be nonnegative`)
	ErrInvalidHysteresis   = errors.New(`asr: config: hyst must be >= 0`)
	ErrInvalidMaxStep      = errors.New(`asr: config: max_step must be in (0,1]`)
	ErrInvalidEWMAAlpha    = errors.New(`asr: config: ewma_alpha must be in (0,1]`)
	ErrInvalidTickInterval = errors.New(`asr: config: tick_ms must be > 0`)
	ErrInvalidReference    = errors.New(`asr: config: q_star, r_star and w_star must be > 0`)

	// ErrSpawnFailed is returned by StartController on the (practically
	// unreachable, on a normal Go runtime) event that the controller
	// goroutine could not be launched.
	ErrSpawnFailed = errors.New(`asr: controller: failed to start`)

	// ErrAlreadyRunning is returned by StartController when called while the
	// controller is already Running or Draining.
	ErrAlreadyRunning = errors.New(`asr: controller: already running`)
)
