package asr

import (
	"math"
	"time"
)

// Lifecycle states of the controller's state machine, stored in Core.state
// (an atomic.Int32, for lock-free CAS transitions).
const (
	stateStopped int32 = iota
	stateRunning
	stateDraining
)

// startGoroutine launches fn as the controller goroutine. Overridden in
// tests to simulate spawn failure, mirroring the time-injection seams
// catrate.Limiter uses for timeNow/timeNewTicker.
var startGoroutine = func(fn func()) error {
	go fn()
	return nil
}

// StartController launches the controller goroutine if the published
// config has Enabled set; otherwise it logs and returns nil, leaving the
// subsystem Stopped. Returns ErrAlreadyRunning if the controller is already Running or
// Draining, and ErrSpawnFailed on the (practically unreachable) event the
// goroutine could not be launched, in which case the budget remains at
// BMin, the safe fallback.
func (x *Core) StartController() error {
	cfg := x.GetConfig()
	if !cfg.Enabled {
		logWarning(x.logger, `asr: controller not started: disabled`, nil)
		return nil
	}

	if !x.state.CompareAndSwap(stateStopped, stateRunning) {
		return ErrAlreadyRunning
	}

	x.stopCh = make(chan struct{})
	x.doneCh = make(chan struct{})

	tickInterval := time.Duration(cfg.TickMillis) * time.Millisecond
	if err := startGoroutine(func() { x.run(tickInterval) }); err != nil {
		x.state.Store(stateStopped)
		// the goroutine never started, so nothing will ever close these;
		// clear them so a later Shutdown doesn't block on a dead channel.
		x.stopCh = nil
		x.doneCh = nil
		logWarning(x.logger, `asr: controller: failed to start`, err)
		return ErrSpawnFailed
	}

	return nil
}

// Shutdown requests the controller goroutine stop, then awaits its exit.
// A no-op if the controller was never started. Shutdown latency is bounded
// by the tick cadence: the goroutine checks the stop signal at the top of
// each cycle, finishes the in-flight tick, then exits.
func (x *Core) Shutdown() {
	if x.state.CompareAndSwap(stateRunning, stateDraining) {
		close(x.stopCh)
	}
	if x.doneCh != nil {
		<-x.doneCh
	}
}

// run is the controller goroutine body: a fixed-cadence loop that ticks
// until Shutdown closes stopCh. It keeps running while the config is
// disabled; each tick is then a no-op. Ends the lifecycle back at Stopped
// on exit.
func (x *Core) run(tickInterval time.Duration) {
	defer close(x.doneCh)
	defer x.state.Store(stateStopped)

	ticker := newTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-x.stopCh:
			return
		case <-ticker.C():
			x.tick()
		}
	}
}

// tick runs exactly one controller cycle.
func (x *Core) tick() {
	cfg := x.GetConfig()
	if !cfg.Enabled {
		return
	}

	now := timeNow()
	s := x.smoother.tick(now, &x.counters, cfg)

	pq := pressure(s.queueEWMA, cfg.QStar)
	pm := pressure(s.missRateEWMA, cfg.RStar)
	pw := pressure(s.walBpsEWMA, cfg.WStar)

	agg := clamp(cfg.WQ*pq+cfg.WM*pm+cfg.WW*pw, 0, 1)
	agg = stepLimit(agg, x.smoother.aggPrev, cfg.MaxStep)
	x.smoother.aggPrev = agg

	budget := mapBudget(agg, cfg.BMin, cfg.BMax)

	published := x.budget.get()
	publish := absInt(budget-published) >= cfg.Hyst
	if publish {
		published = budget
	}

	// store the snapshot before the budget: a worker that observes the new
	// budget must also observe the snapshot that produced it.
	snap := MetricsSnapshot{
		QueueEWMA:      s.queueEWMA,
		MissRateEWMA:   s.missRateEWMA,
		WALBpsEWMA:     s.walBpsEWMA,
		PressureQueue:  pq,
		PressureMiss:   pm,
		PressureWAL:    pw,
		Aggressiveness: agg,
		Budget:         published,
		LastTickTime:   now,
		ClampedDeltas:  s.clampedDeltas,
	}
	x.snapshot.Store(&snap)
	if publish {
		x.budget.set(budget)
	}

	if cfg.Verbose {
		logTick(x.logger, s, pq, pm, pw, agg, published)
	}
}

// pressure computes press(x, x*) = clamp(x/x* - 1, 0, 1).
func pressure(x, xStar float64) float64 {
	if xStar <= 0 {
		return 0
	}
	return clamp(x/xStar-1, 0, 1)
}

// stepLimit snaps agg to within maxStep of prev.
func stepLimit(agg, prev, maxStep float64) float64 {
	if d := agg - prev; d > maxStep {
		return prev + maxStep
	} else if d < -maxStep {
		return prev - maxStep
	}
	return agg
}

// mapBudget computes floor(b_min + A*(b_max-b_min)), clamped defensively
// into [b_min, b_max] against floating-point overshoot.
func mapBudget(agg float64, bMin, bMax int) int {
	b := int(math.Floor(float64(bMin) + agg*float64(bMax-bMin)))
	if b < bMin {
		return bMin
	}
	if b > bMax {
		return bMax
	}
	return b
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
