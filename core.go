package asr

import (
	"sync"
	"sync/atomic"
)

// Core is a single ASR instance: one per storage node. Collaborators should
// generally use the package-level free functions over the process-wide
// singleton (see Init) rather than constructing a Core directly, unless
// embedding ASR in a test harness that wants isolated instances.
type Core struct {
	cfg atomic.Pointer[Config]
	// enabled mirrors cfg.Load().Enabled, kept as a dedicated atomic bool so
	// the ingest fast path never needs to dereference the config struct.
	enabled atomic.Bool

	counters counters
	budget   budgetCell
	smoother smoother
	snapshot atomic.Pointer[MetricsSnapshot]

	logger Logger

	state  atomic.Int32
	stopCh chan struct{}
	doneCh chan struct{}
}

// New constructs an un-started Core with the given configuration applied
// (after validation; an invalid Config falls back to DefaultConfig, and the
// validation error is logged as a warning). The budget cell starts at
// cfg.BMin, and the counters/smoother state start zeroed.
//
// This is the non-singleton equivalent of Init; most collaborators should
// use Init and the package-level free functions instead.
func New(cfg Config, logger Logger) *Core {
	x := &Core{}
	if logger == nil {
		logger = defaultLogger()
	}
	x.logger = logger

	if err := cfg.Validate(); err != nil {
		logWarning(x.logger, `asr: init: invalid config, using defaults`, err)
		cfg = DefaultConfig()
	}

	x.cfg.Store(&cfg)
	x.enabled.Store(cfg.Enabled)
	x.budget.set(cfg.BMin)
	x.snapshot.Store(&MetricsSnapshot{Budget: cfg.BMin})

	return x
}

// GetConfig returns the current published configuration by value.
func (x *Core) GetConfig() Config {
	return *x.cfg.Load()
}

// UpdateConfig atomically replaces the published configuration. Rejects
// (and logs a warning for) a malformed config, keeping the prior one in
// that case, and returns the validation error.
func (x *Core) UpdateConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		logWarning(x.logger, `asr: update_config: rejected`, err)
		return err
	}
	x.cfg.Store(&cfg)
	x.enabled.Store(cfg.Enabled)
	return nil
}

// ReadMetrics returns the latest published metrics snapshot by value.
func (x *Core) ReadMetrics() MetricsSnapshot {
	return *x.snapshot.Load()
}

// --- process-wide singleton ---

var (
	singletonMu sync.Mutex
	singleton   *Core
)

// Init installs the default configuration, zeroes all counters and
// smoother state, and sets budget = b_min, creating the process-wide
// singleton instance used by the package-level free functions below. Init
// is idempotent: calling it again replaces the singleton with a fresh
// instance (any previously started controller keeps running against its
// own, now-orphaned, Core until Shutdown is called on it directly) rather
// than silently doing nothing, since Init must install default
// configuration every time it's called, not merely the first time.
func Init(logger Logger) {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	singleton = New(DefaultConfig(), logger)
}

func current() *Core {
	singletonMu.Lock()
	defer singletonMu.Unlock()
	return singleton
}

// StartController starts the singleton's controller goroutine. See
// Core.StartController.
func StartController() error { return current().StartController() }

// Shutdown stops the singleton's controller goroutine. See Core.Shutdown.
func Shutdown() { current().Shutdown() }

// RecordReplayTask records n applied WAL records against the singleton.
func RecordReplayTask(n uint32) { current().RecordReplayTask(n) }

// RecordHotMiss records one hot-miss event against the singleton.
func RecordHotMiss() { current().RecordHotMiss() }

// RecordWALIngest records bytes of WAL ingest against the singleton.
func RecordWALIngest(bytes uint64) { current().RecordWALIngest(bytes) }

// RecordReadAttempt records one read attempt against the singleton.
func RecordReadAttempt() { current().RecordReadAttempt() }

// GetBudget returns the singleton's current published budget.
func GetBudget() int { return current().GetBudget() }

// ReadMetrics returns the singleton's latest published metrics snapshot.
func ReadMetrics() MetricsSnapshot { return current().ReadMetrics() }

// GetConfig returns the singleton's current configuration.
func GetConfig() Config { return current().GetConfig() }

// UpdateConfig replaces the singleton's configuration.
func UpdateConfig(cfg Config) error { return current().UpdateConfig(cfg) }
