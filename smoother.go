package asr

import (
	"math"
	"time"
)

// smoother holds state mutated exclusively by the controller goroutine
// between ticks: the previous counter readings (for delta computation) and
// the running EWMAs. No synchronization is required since only the
// controller goroutine ever touches this struct.
type smoother struct {
	tasksPrev  uint64
	missesPrev uint64
	walPrev    uint64
	readsPrev  uint64
	tPrev      time.Time

	queueEWMA    float64
	missRateEWMA float64
	walBpsEWMA   float64
	aggPrev      float64
}

// smoothed is the per-tick output of smoother.tick.
type smoothed struct {
	queueEWMA     float64
	missRateEWMA  float64
	walBpsEWMA    float64
	clampedDeltas int
}

// tick reads the raw counters, computes deltas and raw rates, and updates
// the EWMAs in place.
func (s *smoother) tick(now time.Time, c *counters, cfg Config) smoothed {
	tasks := c.tasks.Load()
	misses := c.misses.Load()
	wal := c.walBytes.Load()
	reads := c.reads.Load()

	var dt float64
	if s.tPrev.IsZero() {
		dt = 1.0
	} else {
		dt = math.Max(now.Sub(s.tPrev).Seconds(), 0.1)
	}

	deltaTasks := tasks - s.tasksPrev
	deltaMisses := misses - s.missesPrev
	deltaWAL := wal - s.walPrev
	deltaReads := reads - s.readsPrev

	var clamped int
	clampDelta := func(d uint64) uint64 {
		if cfg.MaxPlausibleDelta != 0 && d > cfg.MaxPlausibleDelta {
			clamped++
			return 0
		}
		return d
	}
	deltaTasks = clampDelta(deltaTasks)
	deltaMisses = clampDelta(deltaMisses)
	deltaWAL = clampDelta(deltaWAL)
	deltaReads = clampDelta(deltaReads)

	qRaw := float64(deltaTasks) / dt
	wRaw := float64(deltaWAL) / dt

	var mRaw float64
	if cfg.MissRateDenominator == DenominatorReads && deltaReads > 0 {
		mRaw = float64(deltaMisses) / (float64(deltaReads) + 1)
	} else {
		mRaw = float64(deltaMisses) / (float64(deltaTasks) + 1)
	}

	qRaw = sanitizeNonNegative(qRaw)
	wRaw = sanitizeNonNegative(wRaw)
	mRaw = clamp(sanitizeNonNegative(mRaw), 0, 1)

	alpha := cfg.EWMAAlpha
	s.queueEWMA = ewma(alpha, qRaw, s.queueEWMA)
	s.missRateEWMA = clamp(ewma(alpha, mRaw, s.missRateEWMA), 0, 1)
	s.walBpsEWMA = sanitizeNonNegative(ewma(alpha, wRaw, s.walBpsEWMA))

	s.tasksPrev = tasks
	s.missesPrev = misses
	s.walPrev = wal
	s.readsPrev = reads
	s.tPrev = now

	return smoothed{
		queueEWMA:     s.queueEWMA,
		missRateEWMA:  s.missRateEWMA,
		walBpsEWMA:    s.walBpsEWMA,
		clampedDeltas: clamped,
	}
}

func ewma(alpha, sample, prev float64) float64 {
	return alpha*sample + (1-alpha)*prev
}

// sanitizeNonNegative clamps NaN (from pathological division) and negative
// values to 0.
func sanitizeNonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case math.IsNaN(v):
		return lo
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
